package view

import (
	"strings"
	"testing"
	"time"

	"github.com/Igor-creato/kash-back/internal/constants"
	"github.com/Igor-creato/kash-back/internal/models"

	"github.com/shopspring/decimal"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer failed: %v", err)
	}
	return renderer
}

func TestNewPaginationData(t *testing.T) {
	data := NewPaginationData(1, 12, 5)
	if data.TotalPage != 3 {
		t.Fatalf("total page want 3 got %d", data.TotalPage)
	}
	if data.HasPrev || !data.HasNext {
		t.Fatalf("first page should only have next, got %+v", data)
	}

	data = NewPaginationData(2, 12, 5)
	if !data.HasPrev || !data.HasNext || data.PrevPage != 1 || data.NextPage != 3 {
		t.Fatalf("middle page navigation wrong: %+v", data)
	}

	// 超出范围的页码收敛到末页
	data = NewPaginationData(9, 12, 5)
	if data.Page != 3 || data.HasNext {
		t.Fatalf("overflow page should clamp to last, got %+v", data)
	}

	data = NewPaginationData(1, 0, 5)
	if data.Page != 1 || data.TotalPage != 1 || data.HasPrev || data.HasNext {
		t.Fatalf("empty result should be a single page, got %+v", data)
	}
}

func TestNewHistoryRow(t *testing.T) {
	clickedAt := time.Date(2026, 5, 1, 9, 30, 0, 0, time.Local)
	pending := models.ClickRecord{
		ExternalURL: "https://shop.example.com/item",
		PartnerID:   "AB12",
		Status:      constants.ClickStatusPending,
		CreatedAt:   clickedAt,
	}
	row := NewHistoryRow(pending, "")
	if row.StatusLabel != "待确认" || row.Confirmed {
		t.Fatalf("pending row label wrong: %+v", row)
	}
	if row.Commission != "" {
		t.Fatalf("pending row should not expose commission, got %q", row.Commission)
	}
	if row.ProductName != "go" {
		t.Fatalf("missing product should fall back to go, got %q", row.ProductName)
	}
	if row.ClickedAt != clickedAt.Format(time.DateTime) {
		t.Fatalf("clicked at want %s got %s", clickedAt.Format(time.DateTime), row.ClickedAt)
	}

	confirmed := pending
	confirmed.Status = constants.ClickStatusConfirmed
	confirmed.CommissionAmount = models.NewMoneyFromDecimal(decimal.NewFromFloat(8.4))
	row = NewHistoryRow(confirmed, "演示商品")
	if row.StatusLabel != "已确认" || !row.Confirmed {
		t.Fatalf("confirmed row label wrong: %+v", row)
	}
	if row.Commission == "" {
		t.Fatalf("confirmed row should expose commission")
	}
	if row.ProductName != "演示商品" {
		t.Fatalf("product name want 演示商品 got %q", row.ProductName)
	}
}

func TestRenderHistoryRowsFragment(t *testing.T) {
	renderer := newTestRenderer(t)

	html, err := renderer.HistoryRows(HistoryPageData{
		Rows: []HistoryRow{{
			ProductName: "演示商品",
			ExternalURL: "https://shop.example.com/item",
			InternalURL: "/products/demo",
			PartnerID:   "AB12",
			StatusLabel: "待确认",
			ClickedAt:   "2026-05-01 09:30:00",
		}},
	})
	if err != nil {
		t.Fatalf("render rows failed: %v", err)
	}
	// 每行两个链接：目标链接固定标注 go，来源链接标注商品名
	if !strings.Contains(html, `<a href="https://shop.example.com/item" rel="nofollow noopener" target="_blank">go</a>`) {
		t.Fatalf("rows fragment should link the destination with a go label, got %s", html)
	}
	if !strings.Contains(html, `<a href="/products/demo">演示商品</a>`) {
		t.Fatalf("rows fragment should link the origin with the product name, got %s", html)
	}
	if !strings.Contains(html, "AB12") {
		t.Fatalf("rows fragment should contain row fields, got %s", html)
	}

	bare, err := renderer.HistoryRows(HistoryPageData{
		Rows: []HistoryRow{{
			ProductName: "go",
			ExternalURL: "https://shop.example.com/item",
			StatusLabel: "待确认",
			ClickedAt:   "2026-05-01 09:30:00",
		}},
	})
	if err != nil {
		t.Fatalf("render rows failed: %v", err)
	}
	if strings.Contains(bare, `<a href="">`) {
		t.Fatalf("row without origin must not render an empty link, got %s", bare)
	}

	empty, err := renderer.HistoryRows(HistoryPageData{})
	if err != nil {
		t.Fatalf("render empty rows failed: %v", err)
	}
	if !strings.Contains(empty, "暂无点击记录") {
		t.Fatalf("empty fragment should contain placeholder, got %s", empty)
	}
}

func TestRenderPaginationFragment(t *testing.T) {
	renderer := newTestRenderer(t)

	html, err := renderer.Pagination(NewPaginationData(2, 12, 5))
	if err != nil {
		t.Fatalf("render pagination failed: %v", err)
	}
	if !strings.Contains(html, `data-page="1"`) || !strings.Contains(html, `data-page="3"`) {
		t.Fatalf("pagination fragment should link both neighbours, got %s", html)
	}
	if !strings.Contains(html, "第 2 / 3 页") {
		t.Fatalf("pagination fragment should show page indicator, got %s", html)
	}
}

func TestRenderHistoryPageUpdatesAddressOnPartialSwap(t *testing.T) {
	renderer := newTestRenderer(t)

	html, err := renderer.HistoryPage(HistoryPageData{
		SignedIn:   true,
		Rows:       []HistoryRow{{ProductName: "go", ExternalURL: "https://shop.example.com/item", StatusLabel: "待确认"}},
		Pagination: NewPaginationData(1, 12, 5),
		CSRFToken:  "page-token",
	})
	if err != nil {
		t.Fatalf("render page failed: %v", err)
	}
	// 局部刷新成功后同步地址栏页码
	if !strings.Contains(html, "history.pushState") {
		t.Fatalf("page script should push the new page into the address bar")
	}
	if !strings.Contains(html, "'/account/clicks?page=' + page") {
		t.Fatalf("page script should rewrite the page query parameter, got %s", html)
	}
}

func TestRenderHistoryPageSignedOut(t *testing.T) {
	renderer := newTestRenderer(t)

	html, err := renderer.HistoryPage(HistoryPageData{SignedIn: false})
	if err != nil {
		t.Fatalf("render page failed: %v", err)
	}
	if !strings.Contains(html, "去登录") {
		t.Fatalf("signed-out page should prompt sign in, got %s", html)
	}
	if strings.Contains(html, "click-history-rows") {
		t.Fatalf("signed-out page should not render history table")
	}
}
