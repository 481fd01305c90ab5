package utils

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"go-quote-backend/internal/models"

	"gorm.io/gorm"
)

// NextQuoteCode produces the next sequential human-readable quote code.
// It reads the most recently created quote and increments its numeric
// suffix; the very first quote gets "Q-0001".
//
// There is no counter table, so two concurrent creates can compute the
// same code. The unique index on quote_id rejects the second write and
// the create path retries once (see CreateQuote).
func NextQuoteCode(db *gorm.DB) (string, error) {
	var last models.Quote
	err := db.Select("quote_id").
		Order("created_at DESC, id DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "Q-0001", nil
	}
	if err != nil {
		return "", err
	}

	parts := strings.SplitN(last.QuoteID, "-", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("quote code %q has no numeric suffix", last.QuoteID)
	}
	lastNum, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("quote code %q has a non-numeric suffix", last.QuoteID)
	}

	return fmt.Sprintf("Q-%04d", lastNum+1), nil
}

const materialCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewMaterialCode produces a "MAT-" + 6-char random code for material
// quotes. Collisions are possible (and rejected by the unique index);
// the create path regenerates and retries once.
func NewMaterialCode() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = materialCodeAlphabet[rand.Intn(len(materialCodeAlphabet))]
	}
	return "MAT-" + string(suffix)
}
