package repository

import "gorm.io/gorm"

// applyPagination 将页码换算为 limit/offset，pageSize 非法时不做分页。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
