package service

import (
	"strings"

	"github.com/Igor-creato/kash-back/internal/models"
	"github.com/Igor-creato/kash-back/internal/repository"
)

// ProductView 面向前台的商品视图
// 外部商品的购买链接在这里统一换成跟踪链接。
type ProductView struct {
	ID              uint         `json:"id"`
	Slug            string       `json:"slug"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	PriceAmount     models.Money `json:"price_amount"`
	FulfillmentType string       `json:"fulfillment_type"`
	BuyURL          string       `json:"buy_url"`
}

// ProductService 商品服务
type ProductService struct {
	productRepo repository.ProductRepository
	tracker     *TrackerService
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, tracker *TrackerService) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		tracker:     tracker,
	}
}

// ListPublic 前台商品列表
func (s *ProductService) ListPublic(filter repository.ProductListFilter, pageURL string) ([]ProductView, int64, error) {
	filter.OnlyActive = true
	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}

	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, s.buildView(&products[i], pageURL))
	}
	return views, total, nil
}

// GetBySlug 前台商品详情
func (s *ProductService) GetBySlug(slug string, pageURL string) (*ProductView, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetBySlug(trimmed)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	view := s.buildView(product, pageURL)
	return &view, nil
}

func (s *ProductService) buildView(product *models.Product, pageURL string) ProductView {
	return ProductView{
		ID:              product.ID,
		Slug:            product.Slug,
		Name:            product.Name,
		Description:     product.Description,
		PriceAmount:     product.PriceAmount,
		FulfillmentType: product.FulfillmentType,
		BuyURL:          s.tracker.TagProductURL(product, pageURL),
	}
}
