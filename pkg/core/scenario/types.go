// Package scenario manages the named driver sets a user compares: an
// in-memory collection with one active scenario, plus the mapping that turns
// reported actuals into an initial driver set.
package scenario

import "scenario_valuation/pkg/core/driver"

// Scenario is an identity wrapper over a DriverSet. IDs are opaque and
// stable; presets use fixed ids so persisted state reattaches cleanly.
type Scenario struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Drivers driver.DriverSet `json:"drivers"`
}

// BaseCase is the default scenario every fresh store starts from.
func BaseCase() Scenario {
	return Scenario{
		ID:   "base",
		Name: "Base Case",
		Drivers: driver.DriverSet{
			BaseRevenue:         1000000,
			RevenueGrowth:       5,
			CogsMargin:          40,
			OpexMargin:          30,
			TaxRate:             21,
			DiscountRate:        10,
			NWCPercent:          10,
			CapexPercent:        5,
			DepreciationPercent: 3,
		},
	}
}

// BullCase models the optimistic preset.
func BullCase() Scenario {
	return Scenario{
		ID:   "optimistic",
		Name: "Bull Case",
		Drivers: driver.DriverSet{
			BaseRevenue:         1000000,
			RevenueGrowth:       12,
			CogsMargin:          35,
			OpexMargin:          25,
			TaxRate:             21,
			DiscountRate:        10,
			NWCPercent:          8,
			CapexPercent:        6,
			DepreciationPercent: 3,
		},
	}
}

// BearCase models the pessimistic preset.
func BearCase() Scenario {
	return Scenario{
		ID:   "pessimistic",
		Name: "Bear Case",
		Drivers: driver.DriverSet{
			BaseRevenue:         1000000,
			RevenueGrowth:       -2,
			CogsMargin:          55,
			OpexMargin:          35,
			TaxRate:             25,
			DiscountRate:        12,
			NWCPercent:          12,
			CapexPercent:        3,
			DepreciationPercent: 4,
		},
	}
}

// Presets returns the three built-in scenarios in display order.
func Presets() []Scenario {
	return []Scenario{BaseCase(), BullCase(), BearCase()}
}
