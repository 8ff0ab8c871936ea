package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page            int
	PageSize        int
	FulfillmentType string
	Search          string
	OnlyActive      bool
}

// ClickRecordListFilter 查询点击记录列表的过滤条件
type ClickRecordListFilter struct {
	Page         int
	PageSize     int
	UserID       uint
	SessionToken string
	ProductID    uint
	PartnerID    string
	Status       string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}
