package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Igor-creato/kash-back/internal/constants"
	"github.com/Igor-creato/kash-back/internal/models"
	"github.com/Igor-creato/kash-back/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupClickServiceTest(t *testing.T) (*ClickService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:click_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.ClickRecord{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewClickService(repository.NewClickRecordRepository(db), repository.NewProductRepository(db)), db
}

func createTestClickRecord(t *testing.T, db *gorm.DB, userID uint, productID uint) *models.ClickRecord {
	t.Helper()

	record := &models.ClickRecord{
		UserID:      userID,
		ExternalURL: "https://shop.example.com/item",
		ProductID:   productID,
		Status:      constants.ClickStatusPending,
		CreatedAt:   time.Now(),
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("create click record failed: %v", err)
	}
	return record
}

func TestListByUserRequiresSignIn(t *testing.T) {
	svc, _ := setupClickServiceTest(t)

	if _, _, err := svc.ListByUser(0, 1); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized got %v", err)
	}
}

func TestListByUserFixedPageSize(t *testing.T) {
	svc, db := setupClickServiceTest(t)

	for i := 0; i < 12; i++ {
		createTestClickRecord(t, db, 1, 0)
	}
	for i := 0; i < 3; i++ {
		createTestClickRecord(t, db, 2, 0)
	}

	records, total, err := svc.ListByUser(1, 1)
	if err != nil {
		t.Fatalf("list page 1 failed: %v", err)
	}
	if total != 12 {
		t.Fatalf("total want 12 got %d", total)
	}
	if len(records) != constants.ClickHistoryPageSize {
		t.Fatalf("page 1 size want %d got %d", constants.ClickHistoryPageSize, len(records))
	}
	// 最新的点击排在最前
	if len(records) > 1 && records[0].ID < records[1].ID {
		t.Fatalf("records should be ordered id desc, got %d before %d", records[0].ID, records[1].ID)
	}

	records, _, err = svc.ListByUser(1, 3)
	if err != nil {
		t.Fatalf("list page 3 failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("page 3 size want 2 got %d", len(records))
	}

	clamped, _, err := svc.ListByUser(1, 0)
	if err != nil {
		t.Fatalf("list clamped page failed: %v", err)
	}
	if len(clamped) != constants.ClickHistoryPageSize {
		t.Fatalf("page 0 should clamp to first page, got %d rows", len(clamped))
	}
}

func TestProductNames(t *testing.T) {
	svc, db := setupClickServiceTest(t)

	product := &models.Product{Slug: "demo", Name: "演示商品", FulfillmentType: constants.FulfillmentTypeExternal, ExternalURL: "https://shop.example.com/demo", IsActive: true}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	records := []models.ClickRecord{
		{ProductID: product.ID},
		{ProductID: product.ID},
		{ProductID: 0},
	}
	names := svc.ProductNames(records)
	if len(names) != 1 {
		t.Fatalf("names size want 1 got %d", len(names))
	}
	if names[product.ID] != "演示商品" {
		t.Fatalf("product name want 演示商品 got %q", names[product.ID])
	}

	if names := svc.ProductNames(nil); len(names) != 0 {
		t.Fatalf("empty records should yield empty map, got %v", names)
	}
}

func TestConfirmLifecycle(t *testing.T) {
	svc, db := setupClickServiceTest(t)
	record := createTestClickRecord(t, db, 1, 0)

	commission := models.NewMoneyFromDecimal(decimal.NewFromFloat(12.5))
	confirmed, err := svc.Confirm(record.ID, commission, "订单已结算")
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != constants.ClickStatusConfirmed {
		t.Fatalf("status want confirmed got %s", confirmed.Status)
	}
	if confirmed.CommissionAmount.String() != commission.String() {
		t.Fatalf("commission want %s got %s", commission.String(), confirmed.CommissionAmount.String())
	}
	if confirmed.ConversionDate == nil {
		t.Fatalf("conversion date should be set")
	}
	if confirmed.Notes != "订单已结算" {
		t.Fatalf("notes want 订单已结算 got %q", confirmed.Notes)
	}

	if _, err := svc.Confirm(record.ID, commission, ""); !errors.Is(err, ErrClickConfirmed) {
		t.Fatalf("second confirm want ErrClickConfirmed got %v", err)
	}
	if _, err := svc.Confirm(99999, commission, ""); !errors.Is(err, ErrClickNotFound) {
		t.Fatalf("missing record want ErrClickNotFound got %v", err)
	}
}

func TestCountPending(t *testing.T) {
	svc, db := setupClickServiceTest(t)

	createTestClickRecord(t, db, 1, 0)
	createTestClickRecord(t, db, 1, 0)
	record := createTestClickRecord(t, db, 2, 0)
	if _, err := svc.Confirm(record.ID, models.NewMoneyFromDecimal(decimal.NewFromInt(1)), ""); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	pending, err := svc.CountPending()
	if err != nil {
		t.Fatalf("count pending failed: %v", err)
	}
	if pending != 2 {
		t.Fatalf("pending want 2 got %d", pending)
	}
}
