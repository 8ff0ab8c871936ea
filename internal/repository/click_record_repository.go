package repository

import (
	"errors"
	"time"

	"github.com/Igor-creato/kash-back/internal/models"

	"gorm.io/gorm"
)

// ClickRecordRepository 点击记录数据访问接口
type ClickRecordRepository interface {
	Create(record *models.ClickRecord) error
	GetByID(id uint) (*models.ClickRecord, error)
	ListByUser(userID uint, page, pageSize int) ([]models.ClickRecord, int64, error)
	List(filter ClickRecordListFilter) ([]models.ClickRecord, int64, error)
	CountByStatus(status string) (int64, error)
	Confirm(id uint, commission models.Money, conversionDate time.Time, notes string) error
}

// GormClickRecordRepository GORM 实现
type GormClickRecordRepository struct {
	db *gorm.DB
}

// NewClickRecordRepository 创建点击记录仓库
func NewClickRecordRepository(db *gorm.DB) *GormClickRecordRepository {
	return &GormClickRecordRepository{db: db}
}

// Create 创建点击记录
func (r *GormClickRecordRepository) Create(record *models.ClickRecord) error {
	if record == nil {
		return nil
	}
	return r.db.Create(record).Error
}

// GetByID 根据 ID 获取点击记录
func (r *GormClickRecordRepository) GetByID(id uint) (*models.ClickRecord, error) {
	var record models.ClickRecord
	if err := r.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListByUser 用户侧查询自己的点击记录
func (r *GormClickRecordRepository) ListByUser(userID uint, page, pageSize int) ([]models.ClickRecord, int64, error) {
	query := r.db.Model(&models.ClickRecord{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var records []models.ClickRecord
	if err := query.Order("id desc").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// List 按过滤条件查询点击记录
func (r *GormClickRecordRepository) List(filter ClickRecordListFilter) ([]models.ClickRecord, int64, error) {
	query := r.db.Model(&models.ClickRecord{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.SessionToken != "" {
		query = query.Where("session_token = ?", filter.SessionToken)
	}
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.PartnerID != "" {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var records []models.ClickRecord
	if err := query.Order("id desc").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// CountByStatus 按状态统计点击数
func (r *GormClickRecordRepository) CountByStatus(status string) (int64, error) {
	var total int64
	query := r.db.Model(&models.ClickRecord{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Confirm 确认点击佣金（status/commission_amount/conversion_date/notes 之外的列不变更）
func (r *GormClickRecordRepository) Confirm(id uint, commission models.Money, conversionDate time.Time, notes string) error {
	if id == 0 {
		return nil
	}
	updates := map[string]interface{}{
		"status":            "confirmed",
		"commission_amount": commission,
		"conversion_date":   conversionDate,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	return r.db.Model(&models.ClickRecord{}).Where("id = ?", id).Updates(updates).Error
}
