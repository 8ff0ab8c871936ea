package constants

// 跟踪链接参数常量
const (
	TrackingParamMarker      = "kash_back_redirect"
	TrackingParamMarkerValue = "1"
	TrackingParamExternalURL = "external_url"
	TrackingParamInternalURL = "internal_url"
	TrackingParamProductID   = "product_id"
	TrackingParamUserID      = "user_id"
)

// PartnerIDParamNames 合作方标识参数名（按优先级顺序匹配目标链接查询参数）
var PartnerIDParamNames = []string{
	"aff_id",
	"affid",
	"ref",
	"referral",
	"partner_id",
	"user_id",
}

// ClientIPHeaderNames 客户端 IP 解析头（按优先级顺序）
var ClientIPHeaderNames = []string{
	"Client-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// 点击记录状态常量
const (
	ClickStatusPending   = "pending"
	ClickStatusConfirmed = "confirmed"
)

// 点击历史分页常量
const (
	ClickHistoryPageSize = 5
)

// 会话与安全令牌常量
const (
	SessionCookieName   = "kb_session"
	SessionCookieMaxAge = 30 * 24 * 3600
	AuthCookieName      = "kb_token"
	CSRFTokenField      = "security"
	CSRFTokenTTLSeconds = 2 * 3600
)

// 字段长度上限常量
const (
	ClientIPMaxLength     = 64
	UserAgentMaxLength    = 512
	PartnerIDMaxLength    = 64
	SessionTokenMaxLength = 64
)

// 商品交付类型常量
const (
	FulfillmentTypeInternal = "internal"
	FulfillmentTypeExternal = "external"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 验证码提供方常量
const (
	CaptchaProviderNone      = "none"
	CaptchaProviderImage     = "image"
	CaptchaProviderTurnstile = "turnstile"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// 队列常量
const (
	QueueDefault    = "default"
	TaskClickRecord = "click:record"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "kb"
)
