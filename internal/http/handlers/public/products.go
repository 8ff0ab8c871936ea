package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Igor-creato/kash-back/internal/http/response"
	"github.com/Igor-creato/kash-back/internal/repository"
	"github.com/Igor-creato/kash-back/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:            page,
		PageSize:        pageSize,
		FulfillmentType: strings.TrimSpace(c.Query("fulfillment_type")),
		Search:          strings.TrimSpace(c.Query("search")),
	}

	products, total, err := h.ProductService.ListPublic(filter, c.Request.URL.RequestURI())
	if err != nil {
		respondError(c, response.CodeInternal, "商品获取失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetProductBySlug 根据 slug 获取商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	product, err := h.ProductService.GetBySlug(slug, c.Request.URL.RequestURI())
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "商品不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "商品获取失败", err)
		return
	}

	response.Success(c, product)
}
