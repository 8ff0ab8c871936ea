package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
// 说明：外部交付（fulfillment_type=external）的商品通过 ExternalURL 指向第三方购买页，
// 其对外展示的购买链接由点击跟踪服务改写为本地跟踪链接。
type Product struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                               // 主键
	Slug            string         `gorm:"uniqueIndex;not null" json:"slug"`                                   // 唯一标识
	Name            string         `gorm:"not null" json:"name"`                                               // 商品名称
	Description     string         `gorm:"type:text" json:"description"`                                       // 商品描述
	PriceAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"`          // 价格金额
	FulfillmentType string         `gorm:"type:varchar(20);not null;default:'internal'" json:"fulfillment_type"` // 交付类型（internal/external）
	ExternalURL     string         `gorm:"type:text" json:"external_url"`                                      // 第三方购买链接（仅 external）
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`                                // 是否上架
	SortOrder       int            `gorm:"default:0;index" json:"sort_order"`                                  // 排序权重
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                            // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                                         // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                     // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// IsExternal 是否为外部交付商品
func (p Product) IsExternal() bool {
	return p.FulfillmentType == "external"
}
