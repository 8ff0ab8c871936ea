package public

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Igor-creato/kash-back/internal/cache"
	"github.com/Igor-creato/kash-back/internal/constants"
	handlershared "github.com/Igor-creato/kash-back/internal/http/handlers/shared"
	"github.com/Igor-creato/kash-back/internal/http/response"
	"github.com/Igor-creato/kash-back/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const htmlContentType = "text/html; charset=utf-8"

// ClickHistoryPage 点击历史完整页面
// 未登录时渲染登录提示，不访问数据库；登录时渲染当前页并下发新的安全令牌。
func (h *Handler) ClickHistoryPage(c *gin.Context) {
	userID, signedIn := getOptionalUserID(c)
	if !signedIn {
		h.renderHistoryHTML(c, view.HistoryPageData{SignedIn: false})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	data, err := h.buildHistoryPageData(userID, page)
	if err != nil {
		respondError(c, response.CodeInternal, "点击历史加载失败", err)
		return
	}

	token := uuid.NewString()
	ttl := time.Duration(constants.CSRFTokenTTLSeconds) * time.Second
	if err := cache.SetCSRFToken(c.Request.Context(), csrfSessionKey(userID), token, ttl); err != nil {
		handlershared.RequestLog(c).Warnw("csrf_token_store_failed", "user_id", userID, "error", err)
	}
	data.CSRFToken = token

	h.renderHistoryHTML(c, data)
}

// ClickHistoryPartial 点击历史局部刷新
// 校验安全令牌后返回行与分页片段，令牌在整页渲染周期内可复用。
func (h *Handler) ClickHistoryPartial(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	token := strings.TrimSpace(c.PostForm(constants.CSRFTokenField))
	stored, found, err := cache.GetCSRFToken(c.Request.Context(), csrfSessionKey(userID))
	if err != nil {
		handlershared.RequestLog(c).Warnw("csrf_token_load_failed", "user_id", userID, "error", err)
	}
	if token == "" || !found || stored != token {
		c.JSON(http.StatusForbidden, gin.H{"success": false})
		return
	}

	page, _ := strconv.Atoi(c.DefaultPostForm("page", "1"))
	data, err := h.buildHistoryPageData(userID, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}

	rowsHTML, err := h.ViewRenderer.HistoryRows(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}
	paginationHTML, err := h.ViewRenderer.Pagination(data.Pagination)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"html":       rowsHTML,
		"pagination": paginationHTML,
	})
}

func (h *Handler) buildHistoryPageData(userID uint, page int) (view.HistoryPageData, error) {
	if page < 1 {
		page = 1
	}
	records, total, err := h.ClickService.ListByUser(userID, page)
	if err != nil {
		return view.HistoryPageData{}, err
	}

	// 超出末页的页码收敛到末页后重查，避免有记录却渲染空态
	pagination := view.NewPaginationData(page, total, constants.ClickHistoryPageSize)
	if pagination.Page != page {
		page = pagination.Page
		records, total, err = h.ClickService.ListByUser(userID, page)
		if err != nil {
			return view.HistoryPageData{}, err
		}
	}

	names := h.ClickService.ProductNames(records)
	rows := make([]view.HistoryRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, view.NewHistoryRow(record, names[record.ProductID]))
	}

	return view.HistoryPageData{
		SignedIn:   true,
		Rows:       rows,
		Pagination: pagination,
		Total:      total,
	}, nil
}

func (h *Handler) renderHistoryHTML(c *gin.Context, data view.HistoryPageData) {
	html, err := h.ViewRenderer.HistoryPage(data)
	if err != nil {
		respondError(c, response.CodeInternal, "页面渲染失败", err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, []byte(html))
}

func csrfSessionKey(userID uint) string {
	return "user:" + strconv.FormatUint(uint64(userID), 10)
}
