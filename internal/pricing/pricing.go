package pricing

import (
	"math"

	"go-quote-backend/internal/models"
)

// TaxConfig controls how a quote's grand total is assembled.
type TaxConfig struct {
	ApplyGST       bool
	CgstPerc       float64
	SgstPerc       float64
	PackingCharges float64
}

// DefaultTaxConfig is what a quote gets when the caller sends no
// financial configuration: 9% + 9% GST, no packing charges.
func DefaultTaxConfig() TaxConfig {
	return TaxConfig{ApplyGST: true, CgstPerc: 9, SgstPerc: 9, PackingCharges: 0}
}

// Totals is the computed financial roll-up of a quote.
type Totals struct {
	Subtotal   float64
	Cgst       float64
	Sgst       float64
	GrandTotal float64
}

// Round2 rounds to 2 decimals, used for per-line amounts at storage time.
// Tax amounts and the grand total are intentionally not rounded.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WindowSqFt derives a window's square footage from inch dimensions.
func WindowSqFt(width, height float64) float64 {
	return Round2((height / 12) * (width / 12))
}

// WindowAmount derives the price of one window line.
func WindowAmount(sqFt, pricePerFt float64, quantity int) float64 {
	return Round2(sqFt * pricePerFt * float64(quantity))
}

// MaterialAmount derives the price of one material line.
func MaterialAmount(qty, rate float64) float64 {
	return Round2(qty * rate)
}

// SumWindowAmounts returns the subtotal of a window list.
// The engine sums whatever amount is stored per line; deriving the
// amount from dimensions happens at the line-item boundary.
func SumWindowAmounts(windows []models.WindowItem) float64 {
	var subtotal float64
	for _, w := range windows {
		subtotal += w.Amount
	}
	return subtotal
}

// ComputeFromSubtotal assembles tax amounts and the grand total from an
// already-known subtotal. Tax amounts are zero when GST does not apply;
// packing charges are added after tax either way.
func ComputeFromSubtotal(subtotal float64, cfg TaxConfig) Totals {
	t := Totals{Subtotal: subtotal}
	if cfg.ApplyGST {
		t.Cgst = subtotal * cfg.CgstPerc / 100
		t.Sgst = subtotal * cfg.SgstPerc / 100
	}
	t.GrandTotal = subtotal + t.Cgst + t.Sgst + cfg.PackingCharges
	return t
}

// ComputeWindowTotals computes the full financial roll-up for a window list.
func ComputeWindowTotals(windows []models.WindowItem, cfg TaxConfig) Totals {
	return ComputeFromSubtotal(SumWindowAmounts(windows), cfg)
}

// ComputeMaterialTotal sums a material list. Material quotes carry no tax.
func ComputeMaterialTotal(materials []models.MaterialItem) float64 {
	var total float64
	for _, m := range materials {
		total += m.Amount
	}
	return total
}
