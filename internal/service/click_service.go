package service

import (
	"time"

	"github.com/Igor-creato/kash-back/internal/constants"
	"github.com/Igor-creato/kash-back/internal/models"
	"github.com/Igor-creato/kash-back/internal/repository"
)

// ClickService 点击记录查询与确认服务
type ClickService struct {
	clickRepo   repository.ClickRecordRepository
	productRepo repository.ProductRepository
}

// NewClickService 创建点击记录服务
func NewClickService(clickRepo repository.ClickRecordRepository, productRepo repository.ProductRepository) *ClickService {
	return &ClickService{
		clickRepo:   clickRepo,
		productRepo: productRepo,
	}
}

// ListByUser 查询用户的点击历史（固定每页条数）
func (s *ClickService) ListByUser(userID uint, page int) ([]models.ClickRecord, int64, error) {
	if userID == 0 {
		return nil, 0, ErrUnauthorized
	}
	if page < 1 {
		page = 1
	}
	return s.clickRepo.ListByUser(userID, page, constants.ClickHistoryPageSize)
}

// ProductNames 批量查询点击记录关联的商品名称
func (s *ClickService) ProductNames(records []models.ClickRecord) map[uint]string {
	ids := make([]uint, 0, len(records))
	seen := make(map[uint]struct{}, len(records))
	for _, record := range records {
		if record.ProductID == 0 {
			continue
		}
		if _, ok := seen[record.ProductID]; ok {
			continue
		}
		seen[record.ProductID] = struct{}{}
		ids = append(ids, record.ProductID)
	}
	if len(ids) == 0 {
		return map[uint]string{}
	}

	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return map[uint]string{}
	}
	names := make(map[uint]string, len(products))
	for _, product := range products {
		names[product.ID] = product.Name
	}
	return names
}

// Confirm 确认点击转化并记录佣金
func (s *ClickService) Confirm(id uint, commission models.Money, notes string) (*models.ClickRecord, error) {
	record, err := s.clickRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrClickNotFound
	}
	if record.Status == constants.ClickStatusConfirmed {
		return nil, ErrClickConfirmed
	}

	now := time.Now()
	if err := s.clickRepo.Confirm(id, commission, now, notes); err != nil {
		return nil, err
	}
	return s.clickRepo.GetByID(id)
}

// CountPending 统计待确认的点击数量
func (s *ClickService) CountPending() (int64, error) {
	return s.clickRepo.CountByStatus(constants.ClickStatusPending)
}
