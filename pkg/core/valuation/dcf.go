// Package valuation derives NPV, Enterprise Value and an IRR estimate from a
// projected snapshot sequence. Like the projection engine it is pure and
// recomputed in full on every driver change.
package valuation

import (
	"errors"
	"fmt"
	"math"

	"scenario_valuation/pkg/core/projection"
)

// DefaultTerminalGrowthPercent is the Gordon-growth perpetuity rate applied
// when the caller does not supply one.
const DefaultTerminalGrowthPercent = 2.0

var (
	// ErrNoProjection rejects valuation of an empty or anchor-only sequence.
	ErrNoProjection = errors.New("valuation requires at least one projected year")

	// ErrTerminalSpread is the domain error for r <= g, where the Gordon
	// perpetuity is undefined or economically meaningless.
	ErrTerminalSpread = errors.New("discount rate must exceed terminal growth rate")
)

// Result is derived, never persisted, and recomputed on every edit.
type Result struct {
	NPV             float64 `json:"npv"`
	PVTerminal      float64 `json:"pvTerminal"`
	EnterpriseValue float64 `json:"enterpriseValue"`
	IRR             float64 `json:"irr"`          // percent
	IRRConverged    bool    `json:"irrConverged"` // false = comparative estimate only
}

// Valuate discounts the unlevered FCF stream (years 1..N; the anchor row is
// skipped) at discountRatePercent, adds the present value of a Gordon-growth
// terminal value at terminalGrowthPercent, and attaches the bisection IRR
// estimate.
func Valuate(snaps []projection.Snapshot, discountRatePercent, terminalGrowthPercent float64) (Result, error) {
	if len(snaps) < 2 {
		return Result{}, fmt.Errorf("%w: got %d snapshots", ErrNoProjection, len(snaps))
	}
	r := discountRatePercent / 100
	g := terminalGrowthPercent / 100
	if math.IsNaN(r) || math.IsInf(r, 0) || math.IsNaN(g) || math.IsInf(g, 0) {
		return Result{}, fmt.Errorf("%w: rates must be finite", ErrTerminalSpread)
	}
	if r <= g {
		return Result{}, fmt.Errorf("%w: r=%.4f g=%.4f", ErrTerminalSpread, r, g)
	}

	npv := 0.0
	for _, s := range snaps[1:] {
		npv += s.UnleveredFCF / math.Pow(1+r, float64(s.Year))
	}

	horizon := len(snaps) - 1
	finalFCF := snaps[horizon].UnleveredFCF
	tv := finalFCF * (1 + g) / (r - g)
	pvTerminal := tv / math.Pow(1+r, float64(horizon))

	irr := ApproximateIRR(snaps, IRROptions{})

	return Result{
		NPV:             npv,
		PVTerminal:      pvTerminal,
		EnterpriseValue: npv + pvTerminal,
		IRR:             irr.Rate,
		IRRConverged:    irr.Converged,
	}, nil
}
