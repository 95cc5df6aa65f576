package scenario

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"scenario_valuation/pkg/core/driver"
)

// ActualsPeriod is one reported annual income statement, as supplied by the
// market-data collaborator. Callers pass records latest-first.
type ActualsPeriod struct {
	Revenue          float64 `json:"revenue"`
	CostOfRevenue    float64 `json:"costOfRevenue"`
	IncomeBeforeTax  float64 `json:"incomeBeforeTax"`
	IncomeTaxExpense float64 `json:"incomeTaxExpense"`
}

// StatutoryTaxRatePercent is the fallback applied when pretax income is zero
// and no effective rate can be derived.
const StatutoryTaxRatePercent = 21.0

var (
	// ErrZeroLatestRevenue: margins cannot be derived from a zero top line.
	ErrZeroLatestRevenue = errors.New("latest period revenue must be positive")

	// ErrZeroPriorRevenue: growth cannot be derived against a zero base.
	ErrZeroPriorRevenue = errors.New("prior period revenue must be non-zero")
)

// DeriveDrivers maps two reported periods onto an initial driver set. Derived
// COGS margin and tax rate are clamped at zero: the simplified model has no
// meaningful reading of a negative margin, even though real companies can
// report one. Drivers the actuals cannot inform keep the base-case defaults.
func DeriveDrivers(latest, prior ActualsPeriod) (driver.DriverSet, error) {
	if latest.Revenue <= 0 {
		return driver.DriverSet{}, fmt.Errorf("%w: got %.2f", ErrZeroLatestRevenue, latest.Revenue)
	}
	if prior.Revenue == 0 {
		return driver.DriverSet{}, ErrZeroPriorRevenue
	}

	d := BaseCase().Drivers
	d.BaseRevenue = latest.Revenue
	d.RevenueGrowth = (latest.Revenue - prior.Revenue) / prior.Revenue * 100
	d.CogsMargin = clampZero(latest.CostOfRevenue / latest.Revenue * 100)

	if latest.IncomeBeforeTax != 0 {
		d.TaxRate = clampZero(latest.IncomeTaxExpense / latest.IncomeBeforeTax * 100)
	} else {
		d.TaxRate = StatutoryTaxRatePercent
	}
	return d, nil
}

// ImportFromActuals derives a driver set from reported periods and registers
// it as a new active scenario named after the ticker.
func (s *Store) ImportFromActuals(ticker string, latest, prior ActualsPeriod) (Scenario, error) {
	d, err := DeriveDrivers(latest, prior)
	if err != nil {
		return Scenario{}, err
	}
	name := "Imported Actuals"
	if ticker != "" {
		name = fmt.Sprintf("%s Actuals", ticker)
	}
	return s.Add(Scenario{ID: uuid.NewString(), Name: name, Drivers: d})
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
