package service

import (
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Igor-creato/kash-back/internal/config"
	"github.com/Igor-creato/kash-back/internal/constants"
	"github.com/Igor-creato/kash-back/internal/logger"
	"github.com/Igor-creato/kash-back/internal/models"
	"github.com/Igor-creato/kash-back/internal/queue"
	"github.com/Igor-creato/kash-back/internal/repository"
)

// TrackerService 外链点击跟踪服务
// 负责外部商品链接改写（打标）、合作方标识提取、客户端 IP 解析与点击落库。
type TrackerService struct {
	cfg         *config.Config
	clickRepo   repository.ClickRecordRepository
	queueClient *queue.Client
}

// NewTrackerService 创建跟踪服务
func NewTrackerService(cfg *config.Config, clickRepo repository.ClickRecordRepository, queueClient *queue.Client) *TrackerService {
	return &TrackerService{
		cfg:         cfg,
		clickRepo:   clickRepo,
		queueClient: queueClient,
	}
}

// TagProductURL 将外部商品的购买链接改写为本地跟踪链接
// 非外部商品、不合法的目标链接原样返回；已打标的链接不重复包装（幂等）。
func (s *TrackerService) TagProductURL(product *models.Product, pageURL string) string {
	if product == nil {
		return ""
	}
	if !product.IsExternal() {
		return product.ExternalURL
	}
	return s.BuildTrackingURL(product.ExternalURL, product.ID, pageURL)
}

// BuildTrackingURL 构建跟踪链接
func (s *TrackerService) BuildTrackingURL(externalURL string, productID uint, internalURL string) string {
	if HasTrackingMarker(externalURL) {
		return externalURL
	}
	if !isAbsoluteHTTPURL(externalURL) {
		return externalURL
	}

	base := strings.TrimRight(strings.TrimSpace(s.cfg.Server.BaseURL), "/")
	values := url.Values{}
	values.Set(constants.TrackingParamMarker, constants.TrackingParamMarkerValue)
	values.Set(constants.TrackingParamExternalURL, externalURL)
	if productID != 0 {
		values.Set(constants.TrackingParamProductID, strconv.FormatUint(uint64(productID), 10))
	}
	if strings.TrimSpace(internalURL) != "" {
		values.Set(constants.TrackingParamInternalURL, internalURL)
	}
	return base + "/?" + values.Encode()
}

// HasTrackingMarker 判断链接是否已携带跟踪标记
func HasTrackingMarker(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.Contains(raw, constants.TrackingParamMarker+"=")
	}
	return parsed.Query().Get(constants.TrackingParamMarker) != ""
}

// ValidateDestination 校验目标链接为合法的绝对 URL
func ValidateDestination(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !isAbsoluteHTTPURL(trimmed) {
		return "", ErrInvalidDestination
	}
	return trimmed, nil
}

// ExtractPartnerID 从目标链接查询参数提取合作方标识
// 按固定优先级顺序匹配已知的联盟参数名，返回第一个命中的值。
func ExtractPartnerID(destination string) string {
	parsed, err := url.Parse(strings.TrimSpace(destination))
	if err != nil {
		return ""
	}
	query := parsed.Query()
	for _, name := range constants.PartnerIDParamNames {
		if value := strings.TrimSpace(query.Get(name)); value != "" {
			return truncate(value, constants.PartnerIDMaxLength)
		}
	}
	return ""
}

// AppendUserID 将用户标识附加到目标链接（保留原有查询参数）
func AppendUserID(destination string, userID uint) string {
	if userID == 0 {
		return destination
	}
	parsed, err := url.Parse(strings.TrimSpace(destination))
	if err != nil {
		return destination
	}
	query := parsed.Query()
	query.Set(constants.TrackingParamUserID, strconv.FormatUint(uint64(userID), 10))
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// ResolveClientIP 解析客户端公网 IP
// 按优先级扫描代理转发头，取第一个解析为公网地址的值，最后回退直连地址。
func ResolveClientIP(header http.Header, remoteAddr string) string {
	for _, name := range constants.ClientIPHeaderNames {
		raw := header.Get(name)
		if raw == "" {
			continue
		}
		for _, candidate := range strings.Split(raw, ",") {
			addr, ok := parseIP(candidate)
			if !ok {
				continue
			}
			if isPublicIP(addr) {
				return truncate(addr.String(), constants.ClientIPMaxLength)
			}
		}
	}

	if addr, ok := parseIP(remoteAddr); ok {
		return truncate(addr.String(), constants.ClientIPMaxLength)
	}
	return ""
}

// RecordClickInput 点击记录输入
type RecordClickInput struct {
	UserID       uint
	SessionToken string
	ExternalURL  string
	InternalURL  string
	ProductID    uint
	ReferrerURL  string
	UserAgent    string
	IPAddress    string
}

// RecordClick 记录一次点击
// 队列可用时走异步任务，否则直接落库；失败仅记录日志，绝不阻断跳转。
func (s *TrackerService) RecordClick(input RecordClickInput) {
	destination, err := ValidateDestination(input.ExternalURL)
	if err != nil {
		logger.Debugw("click_record_skip_invalid_destination", "external_url", input.ExternalURL)
		return
	}

	payload := queue.ClickRecordPayload{
		UserID:       input.UserID,
		SessionToken: truncate(input.SessionToken, constants.SessionTokenMaxLength),
		ExternalURL:  destination,
		InternalURL:  strings.TrimSpace(input.InternalURL),
		ProductID:    input.ProductID,
		ReferrerURL:  strings.TrimSpace(input.ReferrerURL),
		UserAgent:    truncate(strings.TrimSpace(input.UserAgent), constants.UserAgentMaxLength),
		IPAddress:    truncate(strings.TrimSpace(input.IPAddress), constants.ClientIPMaxLength),
		PartnerID:    ExtractPartnerID(destination),
		ClickedAt:    time.Now().Unix(),
	}

	if s.cfg.Tracking.AsyncRecord && s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueClickRecord(payload); err == nil {
			return
		} else {
			logger.Warnw("click_record_enqueue_failed", "error", err, "fallback", "inline_insert")
		}
	}

	if err := s.clickRepo.Create(BuildClickRecord(payload)); err != nil {
		logger.Warnw("click_record_insert_failed",
			"user_id", payload.UserID,
			"product_id", payload.ProductID,
			"error", err,
		)
	}
}

// BuildClickRecord 从任务载荷构建点击记录模型
func BuildClickRecord(payload queue.ClickRecordPayload) *models.ClickRecord {
	clickedAt := time.Unix(payload.ClickedAt, 0)
	if payload.ClickedAt <= 0 {
		clickedAt = time.Now()
	}
	return &models.ClickRecord{
		UserID:       payload.UserID,
		SessionToken: payload.SessionToken,
		ExternalURL:  payload.ExternalURL,
		InternalURL:  payload.InternalURL,
		ProductID:    payload.ProductID,
		ReferrerURL:  payload.ReferrerURL,
		UserAgent:    payload.UserAgent,
		IPAddress:    payload.IPAddress,
		Status:       constants.ClickStatusPending,
		PartnerID:    payload.PartnerID,
		CreatedAt:    clickedAt,
	}
}

func isAbsoluteHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

func parseIP(raw string) (netip.Addr, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return netip.Addr{}, false
	}
	if host, _, err := net.SplitHostPort(trimmed); err == nil {
		trimmed = host
	}
	trimmed = strings.Trim(trimmed, "[]")
	addr, err := netip.ParseAddr(trimmed)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

func isPublicIP(addr netip.Addr) bool {
	if !addr.IsValid() {
		return false
	}
	if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() {
		return false
	}
	if addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() || addr.IsMulticast() {
		return false
	}
	return true
}

func truncate(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max]
}
