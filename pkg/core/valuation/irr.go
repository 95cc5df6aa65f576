package valuation

import (
	"math"

	"scenario_valuation/pkg/core/projection"
)

// The IRR search needs an initial outlay, which this model does not project.
// DefaultOutlayRevenueMultiple seeds it as a fraction of anchor revenue: a
// heuristic good enough to rank scenarios against each other, NOT a
// substitute for a real capital budget.
const DefaultOutlayRevenueMultiple = 0.20

// Bisection bounds and caps. The bracket covers -99% to +200% annual return;
// tolerance is in absolute currency units on the NPV residual.
const (
	irrLowerBound        = -0.99
	irrUpperBound        = 2.0
	defaultMaxIterations = 50
	defaultTolerance     = 100.0
)

// IRROptions tunes the search. Zero values select defaults.
type IRROptions struct {
	OutlayRevenueMultiple float64
	MaxIterations         int
	Tolerance             float64
}

// IRRResult carries the rate (percent) and whether the residual reached
// tolerance. An unconverged rate is the best midpoint found and must be
// presented as low-confidence, never as a precise return.
type IRRResult struct {
	Rate      float64 `json:"rate"`
	Converged bool    `json:"converged"`
}

// ApproximateIRR bisects for the rate where NPV of (proxy outlay, unlevered
// FCF years 1..N) crosses zero. It always terminates within the iteration
// cap and never errors: non-convergence is reported through the flag.
func ApproximateIRR(snaps []projection.Snapshot, opts IRROptions) IRRResult {
	if len(snaps) < 2 {
		return IRRResult{}
	}
	multiple := opts.OutlayRevenueMultiple
	if multiple == 0 {
		multiple = DefaultOutlayRevenueMultiple
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}

	outlay := -snaps[0].Revenue * multiple

	npvAt := func(rate float64) float64 {
		total := outlay
		for _, s := range snaps[1:] {
			total += s.UnleveredFCF / math.Pow(1+rate, float64(s.Year))
		}
		return total
	}

	low, high := irrLowerBound, irrUpperBound
	guess := (low + high) / 2
	converged := false
	for i := 0; i < maxIter; i++ {
		guess = (low + high) / 2
		residual := npvAt(guess)
		if math.Abs(residual) < tolerance {
			converged = true
			break
		}
		if residual > 0 {
			low = guess
		} else {
			high = guess
		}
	}

	return IRRResult{Rate: guess * 100, Converged: converged}
}
