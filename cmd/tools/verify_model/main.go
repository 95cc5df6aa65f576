package main

import (
	"fmt"
	"math"
	"os"

	"scenario_valuation/pkg/core/projection"
	"scenario_valuation/pkg/core/scenario"
	"scenario_valuation/pkg/core/valuation"
)

// Offline harness: projects and values every preset scenario and checks the
// accounting identities hold. Run before shipping changes to the math.
func main() {
	failures := 0

	for _, sc := range scenario.Presets() {
		fmt.Printf("--- %s ---\n", sc.Name)
		snaps, err := projection.Project(sc.Drivers, 5)
		if err != nil {
			fmt.Printf("Error: projection failed: %v\n", err)
			failures++
			continue
		}

		for _, s := range snaps {
			if !check(s.TotalAssets, s.Cash+s.NWC+s.PPE) {
				fmt.Printf("  FAIL year %d: assets %.2f != cash+nwc+ppe %.2f\n", s.Year, s.TotalAssets, s.Cash+s.NWC+s.PPE)
				failures++
			}
			if !check(s.TotalAssets, s.TotalDebt+s.TotalEquity) {
				fmt.Printf("  FAIL year %d: balance sheet out of balance by %.2f\n", s.Year, s.TotalAssets-s.TotalDebt-s.TotalEquity)
				failures++
			}
			if s.Tax < 0 {
				fmt.Printf("  FAIL year %d: negative tax %.2f\n", s.Year, s.Tax)
				failures++
			}
		}
		final := snaps[len(snaps)-1]
		fmt.Printf("  Year %d: revenue %.0f, net income %.0f, unlevered FCF %.0f\n",
			final.Year, final.Revenue, final.NetIncome, final.UnleveredFCF)

		res, err := valuation.Valuate(snaps, sc.Drivers.DiscountRate, valuation.DefaultTerminalGrowthPercent)
		if err != nil {
			fmt.Printf("Error: valuation failed: %v\n", err)
			failures++
			continue
		}
		irr := "n/a"
		if res.IRRConverged {
			irr = fmt.Sprintf("%.2f%%", res.IRR)
		}
		fmt.Printf("  NPV %.0f | PV(TV) %.0f | EV %.0f | IRR %s\n", res.NPV, res.PVTerminal, res.EnterpriseValue, irr)

		for name, v := range map[string]float64{"NPV": res.NPV, "PV(TV)": res.PVTerminal, "EV": res.EnterpriseValue} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				fmt.Printf("  FAIL: %s is not finite\n", name)
				failures++
			}
		}
	}

	fmt.Println("---")
	if failures > 0 {
		fmt.Printf("%d check(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("All checks passed")
}

// check compares within a cent to absorb float drift.
func check(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}
