package models

import "time"

// ClickRecord 外链点击记录
// 说明：每次经由本地跟踪链接跳转到第三方商品页时写入一行，仅追加不更新；
// status、commission_amount、conversion_date、notes 由后续佣金确认流程变更。
type ClickRecord struct {
	ID               uint       `gorm:"primarykey" json:"id"`                                      // 主键
	UserID           uint       `gorm:"index" json:"user_id"`                                      // 用户ID（匿名时为0）
	SessionToken     string     `gorm:"type:varchar(64);index" json:"session_token"`               // 匿名会话令牌（关联回溯用）
	ExternalURL      string     `gorm:"type:text;not null" json:"external_url"`                    // 目标外链
	InternalURL      string     `gorm:"type:text" json:"internal_url"`                             // 站内来源页
	ProductID        uint       `gorm:"index" json:"product_id"`                                   // 关联商品ID（可为0）
	ReferrerURL      string     `gorm:"type:text" json:"referrer_url"`                             // HTTP Referer
	UserAgent        string     `gorm:"type:varchar(512)" json:"user_agent"`                       // 客户端UA
	IPAddress        string     `gorm:"type:varchar(64)" json:"ip_address"`                        // 客户端IP（已清洗）
	Status           string     `gorm:"type:varchar(16);index;default:'pending'" json:"status"`    // 状态（pending/confirmed）
	CommissionAmount Money      `gorm:"type:decimal(10,2);not null;default:0" json:"commission_amount"` // 佣金金额
	PartnerID        string     `gorm:"type:varchar(64);index" json:"partner_id"`                  // 合作方标识（从外链查询参数提取）
	ConversionDate   *time.Time `json:"conversion_date"`                                           // 佣金确认时间
	Notes            string     `gorm:"type:text" json:"notes"`                                    // 备注
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`                                   // 点击时间
}

// TableName 指定表名
func (ClickRecord) TableName() string {
	return "affiliate_tracking"
}
