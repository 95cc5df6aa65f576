package scenario

import (
	"errors"
	"math"
	"testing"
)

func TestDeriveDrivers_Determinism(t *testing.T) {
	latest := ActualsPeriod{Revenue: 110, CostOfRevenue: 44, IncomeBeforeTax: 20, IncomeTaxExpense: 4}
	prior := ActualsPeriod{Revenue: 100}

	d, err := DeriveDrivers(latest, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.BaseRevenue != 110 {
		t.Errorf("baseRevenue = %.2f, want 110", d.BaseRevenue)
	}
	if math.Abs(d.RevenueGrowth-10) > 1e-9 {
		t.Errorf("revenueGrowth = %.4f, want 10", d.RevenueGrowth)
	}
	if math.Abs(d.CogsMargin-40) > 1e-9 {
		t.Errorf("cogsMargin = %.4f, want 40", d.CogsMargin)
	}
	if math.Abs(d.TaxRate-20) > 1e-9 {
		t.Errorf("taxRate = %.4f, want 20", d.TaxRate)
	}
}

func TestDeriveDrivers_StatutoryFallback(t *testing.T) {
	latest := ActualsPeriod{Revenue: 100, CostOfRevenue: 60, IncomeBeforeTax: 0, IncomeTaxExpense: 5}
	d, err := DeriveDrivers(latest, ActualsPeriod{Revenue: 90})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.TaxRate != StatutoryTaxRatePercent {
		t.Errorf("taxRate = %.2f, want statutory %.2f", d.TaxRate, StatutoryTaxRatePercent)
	}
}

func TestDeriveDrivers_NegativeRatiosClamped(t *testing.T) {
	// Negative COGS (refund quirk) and a tax benefit on a pretax loss both
	// clamp to zero in this simplified model.
	latest := ActualsPeriod{Revenue: 100, CostOfRevenue: -10, IncomeBeforeTax: -50, IncomeTaxExpense: 5}
	d, err := DeriveDrivers(latest, ActualsPeriod{Revenue: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.CogsMargin != 0 {
		t.Errorf("cogsMargin = %.2f, want clamp to 0", d.CogsMargin)
	}
	if d.TaxRate != 0 {
		t.Errorf("taxRate = %.2f, want clamp to 0", d.TaxRate)
	}
}

func TestDeriveDrivers_DecliningRevenue(t *testing.T) {
	d, err := DeriveDrivers(
		ActualsPeriod{Revenue: 90, CostOfRevenue: 45, IncomeBeforeTax: 10, IncomeTaxExpense: 2},
		ActualsPeriod{Revenue: 100},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Growth is a rate, not a margin: negative passes through unclamped.
	if math.Abs(d.RevenueGrowth-(-10)) > 1e-9 {
		t.Errorf("revenueGrowth = %.4f, want -10", d.RevenueGrowth)
	}
}

func TestDeriveDrivers_DomainErrors(t *testing.T) {
	_, err := DeriveDrivers(ActualsPeriod{Revenue: 0}, ActualsPeriod{Revenue: 100})
	if !errors.Is(err, ErrZeroLatestRevenue) {
		t.Errorf("expected ErrZeroLatestRevenue, got %v", err)
	}
	_, err = DeriveDrivers(ActualsPeriod{Revenue: 100}, ActualsPeriod{Revenue: 0})
	if !errors.Is(err, ErrZeroPriorRevenue) {
		t.Errorf("expected ErrZeroPriorRevenue, got %v", err)
	}
}

func TestImportFromActuals_AddsActiveScenario(t *testing.T) {
	s := NewStore()
	sc, err := s.ImportFromActuals("AAPL",
		ActualsPeriod{Revenue: 110, CostOfRevenue: 44, IncomeBeforeTax: 20, IncomeTaxExpense: 4},
		ActualsPeriod{Revenue: 100},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Name != "AAPL Actuals" {
		t.Errorf("name = '%s'", sc.Name)
	}
	if s.Len() != 4 {
		t.Errorf("store should hold 4 scenarios, has %d", s.Len())
	}
	if s.Active().ID != sc.ID {
		t.Error("imported scenario should become active")
	}
	// Derived drivers must validate for immediate projection
	if err := sc.Drivers.Validate(); err != nil {
		t.Errorf("imported drivers should validate: %v", err)
	}
}

func TestImportFromActuals_FailureLeavesStoreUntouched(t *testing.T) {
	s := NewStore()
	_, err := s.ImportFromActuals("X", ActualsPeriod{Revenue: 100}, ActualsPeriod{Revenue: 0})
	if err == nil {
		t.Fatal("expected domain error")
	}
	if s.Len() != 3 {
		t.Errorf("failed import must not add a scenario, store has %d", s.Len())
	}
}
