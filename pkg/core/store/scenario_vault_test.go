package store

import (
	"context"
	"testing"

	"scenario_valuation/pkg/core/driver"
	"scenario_valuation/pkg/core/scenario"
)

func fileVault(t *testing.T) *ScenarioVault {
	t.Helper()
	return NewScenarioVault(nil, t.TempDir())
}

func TestVault_RoundTripExact(t *testing.T) {
	v := fileVault(t)
	ctx := context.Background()

	// Awkward fractions that would expose any precision loss in transit.
	sc := scenario.Scenario{
		ID:   "custom-1",
		Name: "Precision Check",
		Drivers: driver.DriverSet{
			BaseRevenue:         1234567.891011,
			RevenueGrowth:       5.333333333333333,
			CogsMargin:          40.000000000000014,
			OpexMargin:          29.99999999999997,
			TaxRate:             21.125,
			DiscountRate:        10.0625,
			NWCPercent:          9.87654321,
			CapexPercent:        5.55555555555,
			DepreciationPercent: 3.0000001,
		},
	}
	if err := v.Save(ctx, sc); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := v.Load(ctx, "custom-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got == nil {
		t.Fatal("scenario not found after save")
	}
	if *got != sc {
		t.Errorf("round trip altered the scenario:\n saved %+v\nloaded %+v", sc, *got)
	}
}

func TestVault_LoadMissingIsNil(t *testing.T) {
	v := fileVault(t)
	got, err := v.Load(context.Background(), "absent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing scenario, got %+v", got)
	}
}

func TestVault_SaveOverwrites(t *testing.T) {
	v := fileVault(t)
	ctx := context.Background()

	sc := scenario.BaseCase()
	if err := v.Save(ctx, sc); err != nil {
		t.Fatal(err)
	}
	sc.Name = "Renamed"
	sc.Drivers.RevenueGrowth = 8
	if err := v.Save(ctx, sc); err != nil {
		t.Fatal(err)
	}

	got, _ := v.Load(ctx, sc.ID)
	if got.Name != "Renamed" || got.Drivers.RevenueGrowth != 8 {
		t.Errorf("overwrite not applied: %+v", got)
	}
}

func TestVault_ListAndDelete(t *testing.T) {
	v := fileVault(t)
	ctx := context.Background()

	for _, sc := range scenario.Presets() {
		if err := v.Save(ctx, sc); err != nil {
			t.Fatal(err)
		}
	}
	list, err := v.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 persisted scenarios, got %d", len(list))
	}

	if err := v.Delete(ctx, "base"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	list, _ = v.List(ctx)
	if len(list) != 2 {
		t.Errorf("expected 2 after delete, got %d", len(list))
	}

	// Deleting a missing id is a no-op
	if err := v.Delete(ctx, "base"); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
}

func TestVault_RejectsEmptyID(t *testing.T) {
	v := fileVault(t)
	if err := v.Save(context.Background(), scenario.Scenario{Name: "No ID"}); err == nil {
		t.Fatal("expected error for empty id")
	}
}
