package view

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/Igor-creato/kash-back/internal/constants"
	"github.com/Igor-creato/kash-back/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// HistoryRow 点击历史单行展示数据
type HistoryRow struct {
	ProductName string
	ExternalURL string
	InternalURL string
	PartnerID   string
	StatusLabel string
	Confirmed   bool
	Commission  string
	ClickedAt   string
}

// PaginationData 分页展示数据
type PaginationData struct {
	Page      int
	TotalPage int
	HasPrev   bool
	HasNext   bool
	PrevPage  int
	NextPage  int
}

// HistoryPageData 点击历史页面数据
type HistoryPageData struct {
	SignedIn   bool
	Email      string
	Rows       []HistoryRow
	Pagination PaginationData
	CSRFToken  string
	Total      int64
}

// Renderer 模板渲染器
// 模板在进程启动时解析一次，片段渲染结果以字符串返回供局部刷新接口复用。
type Renderer struct {
	tpl *template.Template
}

// NewRenderer 创建模板渲染器
func NewRenderer() (*Renderer, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tpl: tpl}, nil
}

// HistoryPage 渲染完整的点击历史页面
func (r *Renderer) HistoryPage(data HistoryPageData) (string, error) {
	return r.render("history.html", data)
}

// HistoryRows 渲染点击历史行片段
func (r *Renderer) HistoryRows(data HistoryPageData) (string, error) {
	return r.render("history_rows", data)
}

// Pagination 渲染分页片段
func (r *Renderer) Pagination(data PaginationData) (string, error) {
	return r.render("pagination", data)
}

func (r *Renderer) render(name string, data interface{}) (string, error) {
	var sb strings.Builder
	if err := r.tpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// NewPaginationData 根据总数计算分页数据
func NewPaginationData(page int, total int64, pageSize int) PaginationData {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = constants.ClickHistoryPageSize
	}
	totalPage := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPage < 1 {
		totalPage = 1
	}
	if page > totalPage {
		page = totalPage
	}
	return PaginationData{
		Page:      page,
		TotalPage: totalPage,
		HasPrev:   page > 1,
		HasNext:   page < totalPage,
		PrevPage:  page - 1,
		NextPage:  page + 1,
	}
}

// NewHistoryRow 将点击记录转换为展示行
func NewHistoryRow(record models.ClickRecord, productName string) HistoryRow {
	confirmed := record.Status == constants.ClickStatusConfirmed
	statusLabel := "待确认"
	commission := ""
	if confirmed {
		statusLabel = "已确认"
		commission = record.CommissionAmount.String()
	}
	origin := strings.TrimSpace(productName)
	if origin == "" {
		origin = "go"
	}
	return HistoryRow{
		ProductName: origin,
		ExternalURL: record.ExternalURL,
		InternalURL: record.InternalURL,
		PartnerID:   record.PartnerID,
		StatusLabel: statusLabel,
		Confirmed:   confirmed,
		Commission:  commission,
		ClickedAt:   record.CreatedAt.Format(time.DateTime),
	}
}
