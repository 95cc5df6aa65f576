// Package projection turns a driver set into an articulated multi-year
// three-statement forecast. It is pure: no I/O, no shared state, fully
// re-derived on every call.
package projection

import (
	"errors"
	"fmt"
	"math"

	"scenario_valuation/pkg/core/driver"
)

// ErrInvalidHorizon rejects projection requests shorter than one year.
var ErrInvalidHorizon = errors.New("projection horizon must be at least 1 year")

// Project derives horizonYears+1 snapshots from the driver set. Index 0 is
// the anchor year carrying the opening balance sheet; years 1..N follow the
// recurrence. The returned slice is freshly allocated on every call.
func Project(d driver.DriverSet, horizonYears int) ([]Snapshot, error) {
	if horizonYears < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizonYears)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	snaps := make([]Snapshot, 0, horizonYears+1)
	snaps = append(snaps, anchorYear(d))

	for year := 1; year <= horizonYears; year++ {
		snaps = append(snaps, projectYear(d, snaps[year-1], year))
	}
	return snaps, nil
}

// anchorYear builds the year-0 opening state. Flow fields stay zero; the
// anchor exists to seed revenue and the balance-sheet stocks.
func anchorYear(d driver.DriverSet) Snapshot {
	cash := d.BaseRevenue * AnchorCashRatio
	nwc := d.BaseRevenue * d.NWCPercent / 100
	ppe := d.BaseRevenue * AnchorPPERatio
	debt := d.BaseRevenue * AnchorDebtRatio
	assets := cash + nwc + ppe

	return Snapshot{
		Year:        0,
		Revenue:     d.BaseRevenue,
		Cash:        cash,
		NWC:         nwc,
		PPE:         ppe,
		TotalAssets: assets,
		TotalDebt:   debt,
		TotalEquity: assets - debt, // plug: assets = debt + equity
	}
}

// projectYear applies the single-year recurrence given the prior snapshot.
func projectYear(d driver.DriverSet, prev Snapshot, year int) Snapshot {
	s := Snapshot{Year: year}

	// Income statement
	s.Revenue = prev.Revenue * (1 + d.RevenueGrowth/100)
	s.COGS = s.Revenue * d.CogsMargin / 100
	s.GrossProfit = s.Revenue - s.COGS
	s.Opex = s.Revenue * d.OpexMargin / 100
	s.EBITDA = s.GrossProfit - s.Opex
	s.Depreciation = s.Revenue * d.DepreciationPercent / 100
	s.EBIT = s.EBITDA - s.Depreciation

	// Losses generate no tax benefit: no carryforward is modeled, so tax
	// floors at zero in loss years.
	s.Tax = math.Max(0, s.EBIT*d.TaxRate/100)
	s.NetIncome = s.EBIT - s.Tax

	// Working capital and investment
	s.NWC = s.Revenue * d.NWCPercent / 100
	s.ChangeInNWC = s.NWC - prev.NWC
	s.Capex = s.Revenue * d.CapexPercent / 100

	// Track 1: unlevered FCF on after-tax EBIT (capital-structure-neutral,
	// the quantity discounted for Enterprise Value).
	s.UnleveredFCF = s.EBIT*(1-d.TaxRate/100) + s.Depreciation - s.Capex - s.ChangeInNWC

	// Track 2: net-income-based cash delta. A levered-cash proxy that only
	// keeps the displayed balance sheet internally consistent.
	s.CashRollForward = s.NetIncome + s.Depreciation - s.ChangeInNWC - s.Capex
	s.Cash = prev.Cash + s.CashRollForward

	// Balance-sheet roll-forward; no financing activity is modeled, so debt
	// carries flat across the horizon.
	s.PPE = prev.PPE + s.Capex - s.Depreciation
	s.TotalEquity = prev.TotalEquity + s.NetIncome
	s.TotalDebt = prev.TotalDebt
	s.TotalAssets = s.Cash + s.NWC + s.PPE

	return s
}
