package utils

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"go-quote-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Quote{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedQuote(t *testing.T, db *gorm.DB, code string, createdAt time.Time) {
	t.Helper()
	q := models.Quote{QuoteID: code, UserID: 1, Status: models.StatusPending, CreatedAt: createdAt}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("seed quote %s: %v", code, err)
	}
}

func TestNextQuoteCode_FirstQuoteEver(t *testing.T) {
	db := setupTestDB(t)

	code, err := NextQuoteCode(db)
	if err != nil {
		t.Fatalf("NextQuoteCode: %v", err)
	}
	if code != "Q-0001" {
		t.Fatalf("code = %q, want Q-0001", code)
	}
}

func TestNextQuoteCode_IncrementsLatest(t *testing.T) {
	db := setupTestDB(t)
	seedQuote(t, db, "Q-0047", time.Now())

	code, err := NextQuoteCode(db)
	if err != nil {
		t.Fatalf("NextQuoteCode: %v", err)
	}
	if code != "Q-0048" {
		t.Fatalf("code = %q, want Q-0048", code)
	}
}

func TestNextQuoteCode_UsesNewestByCreationTime(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	// The generator follows the most recently created quote, not the
	// highest number on record.
	seedQuote(t, db, "Q-0051", now.Add(-2*time.Hour))
	seedQuote(t, db, "Q-0047", now)

	code, err := NextQuoteCode(db)
	if err != nil {
		t.Fatalf("NextQuoteCode: %v", err)
	}
	if code != "Q-0048" {
		t.Fatalf("code = %q, want Q-0048", code)
	}
}

func TestNextQuoteCode_NonNumericSuffixFails(t *testing.T) {
	db := setupTestDB(t)
	seedQuote(t, db, "Q-ABCD", time.Now())

	if _, err := NextQuoteCode(db); err == nil {
		t.Fatal("expected error for non-numeric suffix, got nil")
	}
}

func TestNewMaterialCode_Format(t *testing.T) {
	format := regexp.MustCompile(`^MAT-[A-Z0-9]{6}$`)
	for i := 0; i < 50; i++ {
		code := NewMaterialCode()
		if !format.MatchString(code) {
			t.Fatalf("code %q does not match MAT-XXXXXX format", code)
		}
	}
}
