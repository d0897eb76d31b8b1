package directory

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	bankdomain "github.com/smallbiznis/loanhub/internal/bankintegration/domain"
	"github.com/smallbiznis/loanhub/internal/clock"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&bankdomain.BankIntegration{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedIntegration(t *testing.T, db *gorm.DB, id int64, name string, email *string, active bool) {
	t.Helper()
	err := db.Create(&bankdomain.BankIntegration{
		ID:           snowflake.ID(id),
		Name:         name,
		BaseURL:      "https://bank.example/quotes",
		ContactEmail: email,
		IsActive:     active,
	}).Error
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func strPtr(s string) *string { return &s }

func newDirectory(t *testing.T, db *gorm.DB) *Directory {
	t.Helper()
	fixed := clock.Fixed{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return New(Params{DB: db, Log: zap.NewNop(), Clock: fixed}).(*Directory)
}

func TestProviderEmailResolvesActiveIntegration(t *testing.T) {
	db := openTestDB(t)
	seedIntegration(t, db, 1, "NordPeak Bank", strPtr("loans@nordpeak.test"), true)
	d := newDirectory(t, db)

	email, ok, err := d.ProviderEmail(context.Background(), "  nordpeak bank ")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !ok || email != "loans@nordpeak.test" {
		t.Fatalf("expected hit, got %q %v", email, ok)
	}
}

func TestProviderEmailIgnoresInactiveIntegration(t *testing.T) {
	db := openTestDB(t)
	seedIntegration(t, db, 1, "Aurora Credit", strPtr("loans@aurora.test"), false)
	d := newDirectory(t, db)

	_, ok, err := d.ProviderEmail(context.Background(), "Aurora Credit")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if ok {
		t.Fatal("expected miss for inactive integration")
	}
}

func TestProviderEmailMissWithoutAddress(t *testing.T) {
	db := openTestDB(t)
	seedIntegration(t, db, 1, "Velstand Finans", nil, true)
	d := newDirectory(t, db)

	_, ok, err := d.ProviderEmail(context.Background(), "Velstand Finans")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if ok {
		t.Fatal("expected miss when contact email is empty")
	}
}

func TestProviderEmailCachesLookups(t *testing.T) {
	db := openTestDB(t)
	seedIntegration(t, db, 1, "NordPeak Bank", strPtr("loans@nordpeak.test"), true)
	d := newDirectory(t, db)

	if _, ok, _ := d.ProviderEmail(context.Background(), "NordPeak Bank"); !ok {
		t.Fatal("expected initial hit")
	}

	if err := db.Exec(`DELETE FROM bank_integrations`).Error; err != nil {
		t.Fatalf("delete: %v", err)
	}
	email, ok, err := d.ProviderEmail(context.Background(), "NordPeak Bank")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !ok || email != "loans@nordpeak.test" {
		t.Fatalf("expected cached value to survive row deletion, got %q %v", email, ok)
	}
}

func TestProviderEmailEmptyName(t *testing.T) {
	d := newDirectory(t, openTestDB(t))
	if _, ok, err := d.ProviderEmail(context.Background(), "   "); err != nil || ok {
		t.Fatalf("expected silent miss, got ok=%v err=%v", ok, err)
	}
}
