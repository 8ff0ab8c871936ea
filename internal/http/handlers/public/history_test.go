package public

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Igor-creato/kash-back/internal/cache"
	"github.com/Igor-creato/kash-back/internal/config"
	"github.com/Igor-creato/kash-back/internal/constants"
	"github.com/Igor-creato/kash-back/internal/models"
	"github.com/Igor-creato/kash-back/internal/provider"
	"github.com/Igor-creato/kash-back/internal/repository"
	"github.com/Igor-creato/kash-back/internal/service"
	"github.com/Igor-creato/kash-back/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPublicHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:public_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.ClickRecord{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.BaseURL = "http://localhost:8080"

	clickRepo := repository.NewClickRecordRepository(db)
	productRepo := repository.NewProductRepository(db)

	container := &provider.Container{
		Config:      cfg,
		ClickRepo:   clickRepo,
		ProductRepo: productRepo,
	}
	container.TrackerService = service.NewTrackerService(cfg, clickRepo, nil)
	container.ClickService = service.NewClickService(clickRepo, productRepo)
	container.ProductService = service.NewProductService(productRepo, container.TrackerService)

	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer failed: %v", err)
	}
	container.ViewRenderer = renderer

	return New(container), db
}

func seedClickRecords(t *testing.T, db *gorm.DB, userID uint, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		record := &models.ClickRecord{
			UserID:      userID,
			ExternalURL: fmt.Sprintf("https://shop.example.com/item/%d", i+1),
			PartnerID:   "AB12",
			Status:      constants.ClickStatusPending,
			CreatedAt:   time.Now(),
		}
		if err := db.Create(record).Error; err != nil {
			t.Fatalf("seed click record failed: %v", err)
		}
	}
}

func signInAs(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func TestClickHistoryPageSignedOut(t *testing.T) {
	handler, _ := setupPublicHandlerTest(t)

	r := gin.New()
	r.GET("/account/clicks", handler.ClickHistoryPage)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account/clicks", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("content type want html got %s", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "去登录") {
		t.Fatalf("signed-out page should prompt sign in")
	}
}

func TestClickHistoryPageRendersRowsAndStoresToken(t *testing.T) {
	handler, db := setupPublicHandlerTest(t)
	seedClickRecords(t, db, 9, 6)

	r := gin.New()
	r.GET("/account/clicks", signInAs(9), handler.ClickHistoryPage)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account/clicks", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "待确认") {
		t.Fatalf("page should list pending clicks")
	}
	if !strings.Contains(body, "第 1 / 2 页") {
		t.Fatalf("page should paginate 6 rows into 2 pages, got body %s", body)
	}

	token, found, err := cache.GetCSRFToken(context.Background(), "user:9")
	if err != nil {
		t.Fatalf("load csrf token failed: %v", err)
	}
	if !found || token == "" {
		t.Fatalf("full page render should store a csrf token")
	}
	if !strings.Contains(body, token) {
		t.Fatalf("page should embed the issued csrf token")
	}
}

func TestClickHistoryPageClampsOverflowPage(t *testing.T) {
	handler, db := setupPublicHandlerTest(t)
	seedClickRecords(t, db, 15, 12)

	r := gin.New()
	r.GET("/account/clicks", signInAs(15), handler.ClickHistoryPage)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account/clicks?page=99", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	body := w.Body.String()
	// 超出末页的请求落到末页，仍然渲染记录行
	if strings.Contains(body, "暂无点击记录") {
		t.Fatalf("overflow page must not render the empty state")
	}
	if !strings.Contains(body, "待确认") {
		t.Fatalf("overflow page should list the last page's rows")
	}
	if !strings.Contains(body, "第 3 / 3 页") {
		t.Fatalf("overflow page should land on the last page, got body %s", body)
	}
}

func TestClickHistoryPartialRejectsBadToken(t *testing.T) {
	handler, db := setupPublicHandlerTest(t)
	seedClickRecords(t, db, 11, 3)

	r := gin.New()
	r.POST("/account/clicks/page", signInAs(11), handler.ClickHistoryPartial)

	form := url.Values{}
	form.Set("page", "1")
	form.Set(constants.CSRFTokenField, "wrong-token")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/account/clicks/page", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status want 403 got %d", w.Code)
	}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.Success {
		t.Fatalf("bad token should fail")
	}
}

func TestClickHistoryPartialMissingToken(t *testing.T) {
	handler, _ := setupPublicHandlerTest(t)

	r := gin.New()
	r.POST("/account/clicks/page", signInAs(13), handler.ClickHistoryPartial)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/account/clicks/page", strings.NewReader("page=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status want 403 got %d", w.Code)
	}
}

func TestClickHistoryPartialReturnsFragments(t *testing.T) {
	handler, db := setupPublicHandlerTest(t)
	seedClickRecords(t, db, 12, 7)

	token := "partial-test-token"
	ttl := time.Duration(constants.CSRFTokenTTLSeconds) * time.Second
	if err := cache.SetCSRFToken(context.Background(), "user:12", token, ttl); err != nil {
		t.Fatalf("store csrf token failed: %v", err)
	}

	r := gin.New()
	r.POST("/account/clicks/page", signInAs(12), handler.ClickHistoryPartial)

	form := url.Values{}
	form.Set("page", "2")
	form.Set(constants.CSRFTokenField, token)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/account/clicks/page", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		Success    bool   `json:"success"`
		HTML       string `json:"html"`
		Pagination string `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("partial refresh should succeed, body %s", w.Body.String())
	}
	// 第二页只剩最早的两条
	if strings.Count(resp.HTML, "<tr>") != 2 {
		t.Fatalf("page 2 want 2 rows, html %s", resp.HTML)
	}
	if !strings.Contains(resp.Pagination, "第 2 / 2 页") {
		t.Fatalf("pagination fragment wrong: %s", resp.Pagination)
	}

	// 令牌在整页渲染周期内可复用
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/account/clicks/page", strings.NewReader(form.Encode()))
	req2.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("token reuse within session want 200 got %d", w2.Code)
	}
}
