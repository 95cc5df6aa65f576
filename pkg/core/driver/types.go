// Package driver defines the assumption inputs for one valuation scenario.
// A DriverSet is a plain value object: flat numeric fields, no derived state.
// Percent fields are stored as human-readable percentages (e.g. 21 for 21%)
// and divided by 100 wherever they are used multiplicatively.
package driver

import (
	"fmt"
	"math"
)

// DriverSet holds the assumptions behind a projection. JSON tags mirror the
// frontend driver editor field names.
type DriverSet struct {
	BaseRevenue   float64 `json:"baseRevenue"`   // Year-0 anchor revenue (currency)
	RevenueGrowth float64 `json:"revenueGrowth"` // Annual top-line growth (%)
	CogsMargin    float64 `json:"cogsMargin"`    // COGS as % of revenue
	OpexMargin    float64 `json:"opexMargin"`    // Cash OpEx as % of revenue (excl. D&A)
	TaxRate       float64 `json:"taxRate"`       // Applied to positive EBIT only (%)
	DiscountRate  float64 `json:"discountRate"`  // WACC proxy for discounting (%)

	// Balance sheet / cash flow drivers, all as % of that year's revenue
	NWCPercent          float64 `json:"nwcPercent"`
	CapexPercent        float64 `json:"capexPercent"`
	DepreciationPercent float64 `json:"depreciationPercent"`
}

// Validate rejects driver sets that cannot produce a meaningful projection.
// It covers the invalid-input class only; relationships that belong to the
// valuation stage (discount rate vs terminal growth) are checked there.
func (d DriverSet) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"baseRevenue", d.BaseRevenue},
		{"revenueGrowth", d.RevenueGrowth},
		{"cogsMargin", d.CogsMargin},
		{"opexMargin", d.OpexMargin},
		{"taxRate", d.TaxRate},
		{"discountRate", d.DiscountRate},
		{"nwcPercent", d.NWCPercent},
		{"capexPercent", d.CapexPercent},
		{"depreciationPercent", d.DepreciationPercent},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: driver '%s' is not finite", ErrInvalidDriver, f.name)
		}
	}
	if d.BaseRevenue <= 0 {
		return fmt.Errorf("%w: baseRevenue must be positive, got %.2f", ErrInvalidDriver, d.BaseRevenue)
	}
	if d.DiscountRate <= 0 {
		return fmt.Errorf("%w: discountRate must be positive, got %.2f", ErrInvalidDriver, d.DiscountRate)
	}
	return nil
}
