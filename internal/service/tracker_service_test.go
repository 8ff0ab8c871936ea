package service

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Igor-creato/kash-back/internal/config"
	"github.com/Igor-creato/kash-back/internal/constants"
	"github.com/Igor-creato/kash-back/internal/models"
	"github.com/Igor-creato/kash-back/internal/queue"
	"github.com/Igor-creato/kash-back/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTrackerServiceTest(t *testing.T) (*TrackerService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:tracker_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.ClickRecord{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.BaseURL = "http://localhost:8080/"
	return NewTrackerService(cfg, repository.NewClickRecordRepository(db), nil), db
}

func TestBuildTrackingURLWrapExternalLink(t *testing.T) {
	svc, _ := setupTrackerServiceTest(t)

	external := "https://shop.example.com/item/42?ref=AB12"
	got := svc.BuildTrackingURL(external, 42, "/products/demo")

	if !strings.HasPrefix(got, "http://localhost:8080/?") {
		t.Fatalf("tracking url should point at local base, got %s", got)
	}
	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse tracking url failed: %v", err)
	}
	query := parsed.Query()
	if query.Get(constants.TrackingParamMarker) != constants.TrackingParamMarkerValue {
		t.Fatalf("marker param missing in %s", got)
	}
	if query.Get(constants.TrackingParamExternalURL) != external {
		t.Fatalf("external url want %s got %s", external, query.Get(constants.TrackingParamExternalURL))
	}
	if query.Get(constants.TrackingParamProductID) != "42" {
		t.Fatalf("product id want 42 got %s", query.Get(constants.TrackingParamProductID))
	}
	if query.Get(constants.TrackingParamInternalURL) != "/products/demo" {
		t.Fatalf("internal url want /products/demo got %s", query.Get(constants.TrackingParamInternalURL))
	}
}

func TestBuildTrackingURLIdempotent(t *testing.T) {
	svc, _ := setupTrackerServiceTest(t)

	first := svc.BuildTrackingURL("https://shop.example.com/item/42", 42, "/products/demo")
	second := svc.BuildTrackingURL(first, 42, "/products/demo")
	if second != first {
		t.Fatalf("already tagged url should be unchanged, want %s got %s", first, second)
	}
}

func TestBuildTrackingURLPassThroughInvalid(t *testing.T) {
	svc, _ := setupTrackerServiceTest(t)

	cases := []string{
		"",
		"/relative/path",
		"javascript:alert(1)",
		"ftp://files.example.com/a",
	}
	for _, raw := range cases {
		if got := svc.BuildTrackingURL(raw, 1, ""); got != raw {
			t.Fatalf("invalid destination %q should pass through, got %q", raw, got)
		}
	}
}

func TestTagProductURL(t *testing.T) {
	svc, _ := setupTrackerServiceTest(t)

	if got := svc.TagProductURL(nil, "/"); got != "" {
		t.Fatalf("nil product should yield empty url, got %q", got)
	}

	internal := &models.Product{ID: 1, FulfillmentType: constants.FulfillmentTypeInternal}
	if got := svc.TagProductURL(internal, "/"); got != "" {
		t.Fatalf("internal product should not be tagged, got %q", got)
	}

	external := &models.Product{
		ID:              7,
		FulfillmentType: constants.FulfillmentTypeExternal,
		ExternalURL:     "https://shop.example.com/item/7",
	}
	got := svc.TagProductURL(external, "/products/seven")
	if !HasTrackingMarker(got) {
		t.Fatalf("external product url should carry tracking marker, got %s", got)
	}
}

func TestValidateDestination(t *testing.T) {
	if _, err := ValidateDestination("  https://shop.example.com/item "); err != nil {
		t.Fatalf("valid destination rejected: %v", err)
	}
	if _, err := ValidateDestination("notaurl"); err != ErrInvalidDestination {
		t.Fatalf("want ErrInvalidDestination got %v", err)
	}
	if _, err := ValidateDestination(""); err != ErrInvalidDestination {
		t.Fatalf("empty destination want ErrInvalidDestination got %v", err)
	}
}

func TestExtractPartnerID(t *testing.T) {
	if got := ExtractPartnerID("https://shop.example.com/item?ref=AB12"); got != "AB12" {
		t.Fatalf("ref partner want AB12 got %q", got)
	}
	// aff_id 优先于 ref
	if got := ExtractPartnerID("https://shop.example.com/item?ref=AB12&aff_id=XY99"); got != "XY99" {
		t.Fatalf("aff_id should win over ref, got %q", got)
	}
	if got := ExtractPartnerID("https://shop.example.com/item?color=red"); got != "" {
		t.Fatalf("no partner param should yield empty, got %q", got)
	}

	long := strings.Repeat("a", constants.PartnerIDMaxLength+20)
	got := ExtractPartnerID("https://shop.example.com/item?ref=" + long)
	if len(got) != constants.PartnerIDMaxLength {
		t.Fatalf("partner id should be truncated to %d, got len %d", constants.PartnerIDMaxLength, len(got))
	}
}

func TestAppendUserID(t *testing.T) {
	got := AppendUserID("https://shop.example.com/item?ref=AB12", 7)
	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse appended url failed: %v", err)
	}
	if parsed.Query().Get("ref") != "AB12" {
		t.Fatalf("existing query should be kept, got %s", got)
	}
	if parsed.Query().Get(constants.TrackingParamUserID) != "7" {
		t.Fatalf("user_id want 7 got %s", got)
	}

	raw := "https://shop.example.com/item"
	if got := AppendUserID(raw, 0); got != raw {
		t.Fatalf("anonymous user should not change url, got %s", got)
	}
}

func TestResolveClientIPPreferPublicForwardedAddr(t *testing.T) {
	header := http.Header{}
	header.Set("X-Forwarded-For", "10.0.0.1, 203.0.113.9, 172.16.0.3")
	if got := ResolveClientIP(header, "127.0.0.1:9000"); got != "203.0.113.9" {
		t.Fatalf("want first public forwarded ip 203.0.113.9 got %q", got)
	}

	header = http.Header{}
	header.Set("Client-IP", "198.51.100.20")
	header.Set("X-Forwarded-For", "203.0.113.9")
	if got := ResolveClientIP(header, "127.0.0.1:9000"); got != "198.51.100.20" {
		t.Fatalf("Client-IP header should win, got %q", got)
	}
}

func TestResolveClientIPFallbackRemoteAddr(t *testing.T) {
	header := http.Header{}
	header.Set("X-Forwarded-For", "10.0.0.1, not-an-ip")
	if got := ResolveClientIP(header, "198.51.100.7:51234"); got != "198.51.100.7" {
		t.Fatalf("want remote addr fallback 198.51.100.7 got %q", got)
	}
	if got := ResolveClientIP(http.Header{}, "[::1]:8080"); got != "::1" {
		t.Fatalf("want loopback remote addr ::1 got %q", got)
	}
	if got := ResolveClientIP(http.Header{}, "garbage"); got != "" {
		t.Fatalf("unparseable remote addr should yield empty, got %q", got)
	}
}

func TestRecordClickInlineInsert(t *testing.T) {
	svc, db := setupTrackerServiceTest(t)

	svc.RecordClick(RecordClickInput{
		UserID:       3,
		SessionToken: "sess-token",
		ExternalURL:  "https://shop.example.com/item?ref=AB12",
		InternalURL:  "/products/demo",
		ProductID:    42,
		ReferrerURL:  "https://site.example.com/products/demo",
		UserAgent:    "test-agent",
		IPAddress:    "203.0.113.9",
	})

	var records []models.ClickRecord
	if err := db.Find(&records).Error; err != nil {
		t.Fatalf("load records failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 click record got %d", len(records))
	}
	record := records[0]
	if record.UserID != 3 || record.ProductID != 42 {
		t.Fatalf("unexpected record identifiers: %+v", record)
	}
	if record.PartnerID != "AB12" {
		t.Fatalf("partner id want AB12 got %q", record.PartnerID)
	}
	if record.Status != constants.ClickStatusPending {
		t.Fatalf("status want pending got %s", record.Status)
	}
	if record.CreatedAt.IsZero() {
		t.Fatalf("clicked at should be set")
	}
}

func TestRecordClickSkipInvalidDestination(t *testing.T) {
	svc, db := setupTrackerServiceTest(t)

	svc.RecordClick(RecordClickInput{ExternalURL: "javascript:alert(1)"})

	var total int64
	if err := db.Model(&models.ClickRecord{}).Count(&total).Error; err != nil {
		t.Fatalf("count records failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("invalid destination should not be recorded, got %d rows", total)
	}
}

func TestBuildClickRecord(t *testing.T) {
	clickedAt := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	record := BuildClickRecord(queue.ClickRecordPayload{
		UserID:      5,
		ExternalURL: "https://shop.example.com/item",
		PartnerID:   "AB12",
		ClickedAt:   clickedAt.Unix(),
	})
	if record.Status != constants.ClickStatusPending {
		t.Fatalf("status want pending got %s", record.Status)
	}
	if !record.CreatedAt.Equal(clickedAt) {
		t.Fatalf("clicked at want %v got %v", clickedAt, record.CreatedAt)
	}

	record = BuildClickRecord(queue.ClickRecordPayload{ExternalURL: "https://shop.example.com/item"})
	if record.CreatedAt.IsZero() {
		t.Fatalf("missing clicked at should fall back to now")
	}
}
