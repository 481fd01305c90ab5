package pricing

import (
	"math"
	"testing"

	"go-quote-backend/internal/models"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestComputeWindowTotals_ReferenceVector(t *testing.T) {
	windows := []models.WindowItem{
		{Amount: 100},
		{Amount: 250.5},
	}
	cfg := TaxConfig{ApplyGST: true, CgstPerc: 9, SgstPerc: 9, PackingCharges: 50}

	totals := ComputeWindowTotals(windows, cfg)

	nearlyEqual(t, "subtotal", totals.Subtotal, 350.5)
	nearlyEqual(t, "cgst", totals.Cgst, 31.545)
	nearlyEqual(t, "sgst", totals.Sgst, 31.545)
	nearlyEqual(t, "grandTotal", totals.GrandTotal, 463.59)
}

func TestComputeWindowTotals_GSTOffZeroesTaxes(t *testing.T) {
	windows := []models.WindowItem{{Amount: 1000}}
	cfg := TaxConfig{ApplyGST: false, CgstPerc: 9, SgstPerc: 9, PackingCharges: 25}

	totals := ComputeWindowTotals(windows, cfg)

	nearlyEqual(t, "cgst", totals.Cgst, 0)
	nearlyEqual(t, "sgst", totals.Sgst, 0)
	nearlyEqual(t, "grandTotal", totals.GrandTotal, 1025)
}

func TestComputeWindowTotals_GrandTotalIdentity(t *testing.T) {
	cases := []struct {
		name    string
		windows []models.WindowItem
		cfg     TaxConfig
	}{
		{"defaults", []models.WindowItem{{Amount: 119.99}, {Amount: 0.01}}, DefaultTaxConfig()},
		{"asymmetric rates", []models.WindowItem{{Amount: 333.33}}, TaxConfig{ApplyGST: true, CgstPerc: 2.5, SgstPerc: 14, PackingCharges: 12.5}},
		{"no tax no packing", []models.WindowItem{{Amount: 42}}, TaxConfig{}},
	}

	for _, tc := range cases {
		totals := ComputeWindowTotals(tc.windows, tc.cfg)
		sum := totals.Subtotal + totals.Cgst + totals.Sgst + tc.cfg.PackingCharges
		nearlyEqual(t, tc.name+" grandTotal", totals.GrandTotal, sum)
	}
}

func TestDefaultTaxConfig(t *testing.T) {
	cfg := DefaultTaxConfig()
	if !cfg.ApplyGST {
		t.Fatal("default config must apply GST")
	}
	nearlyEqual(t, "cgstPerc", cfg.CgstPerc, 9)
	nearlyEqual(t, "sgstPerc", cfg.SgstPerc, 9)
	nearlyEqual(t, "packingCharges", cfg.PackingCharges, 0)
}

func TestWindowSqFt(t *testing.T) {
	// 36in x 48in -> (48/12)*(36/12) = 12 sq ft
	nearlyEqual(t, "sqFt", WindowSqFt(36, 48), 12)
	// 30in x 40in -> (40/12)*(30/12) = 8.333... -> 8.33 after rounding
	nearlyEqual(t, "sqFt rounded", WindowSqFt(30, 40), 8.33)
}

func TestWindowAmount(t *testing.T) {
	nearlyEqual(t, "amount", WindowAmount(12, 55.5, 2), 1332)
	nearlyEqual(t, "amount rounded", WindowAmount(8.33, 60, 3), 1499.4)
}

func TestMaterialAmount(t *testing.T) {
	nearlyEqual(t, "amount", MaterialAmount(10, 75), 750)
	nearlyEqual(t, "amount rounded", MaterialAmount(2.5, 33.333), 83.33)
}

func TestComputeMaterialTotal(t *testing.T) {
	materials := []models.MaterialItem{
		{Amount: 750},
		{Amount: 83.33},
		{Amount: 0.67},
	}
	nearlyEqual(t, "totalValue", ComputeMaterialTotal(materials), 834)
}
