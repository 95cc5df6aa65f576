package assistant

import (
	"context"
	"fmt"

	"scenario_valuation/pkg/core/projection"
	"scenario_valuation/pkg/core/scenario"
	"scenario_valuation/pkg/core/utils"
	"scenario_valuation/pkg/core/valuation"
)

const reportSystemPrompt = `You are a buy-side analyst writing an internal valuation memo.
Write markdown with sections: Summary, Key Drivers, Valuation, Risks.
Cite only the figures provided. Do not invent data.`

// Report is a rendered valuation memo for one scenario.
type Report struct {
	ScenarioID string `json:"scenarioId"`
	Markdown   string `json:"markdown"`
	HTML       string `json:"html"`
}

// GenerateReport projects and valuates a scenario, asks the model for a
// narrative memo over the numbers, and renders it to HTML for the client.
func (a *Assistant) GenerateReport(ctx context.Context, scenarioID string) (Report, error) {
	sc, err := a.store.Get(scenarioID)
	if err != nil {
		return Report{}, err
	}

	snaps, err := projection.Project(sc.Drivers, DefaultHorizonYears)
	if err != nil {
		return Report{}, fmt.Errorf("projection failed for %q: %w", sc.Name, err)
	}
	res, err := valuation.Valuate(snaps, sc.Drivers.DiscountRate, valuation.DefaultTerminalGrowthPercent)
	if err != nil {
		return Report{}, fmt.Errorf("valuation failed for %q: %w", sc.Name, err)
	}

	prompt := buildReportPrompt(sc, snaps, res)
	raw, err := a.mgr.ExecutePrompt(ctx, "report", prompt, reportSystemPrompt, nil)
	if err != nil {
		return Report{}, fmt.Errorf("report generation failed: %w", err)
	}

	markdown := utils.CleanMarkdown(raw)
	html, err := utils.RenderMarkdownHTML(markdown)
	if err != nil {
		return Report{}, fmt.Errorf("failed to render report: %w", err)
	}

	return Report{ScenarioID: sc.ID, Markdown: markdown, HTML: html}, nil
}

func buildReportPrompt(sc scenario.Scenario, snaps []projection.Snapshot, res valuation.Result) string {
	final := snaps[len(snaps)-1]
	irr := "not converged"
	if res.IRRConverged {
		irr = fmt.Sprintf("%.2f%%", res.IRR)
	}
	return fmt.Sprintf(`Write the memo for scenario %q.

Drivers: %+v
Horizon: %d years
Year %d revenue: %.0f
Year %d net income: %.0f
Year %d unlevered FCF: %.0f
NPV of explicit period: %.0f
PV of terminal value: %.0f
Enterprise value: %.0f
Approximate IRR: %s`,
		sc.Name, sc.Drivers, len(snaps)-1,
		final.Year, final.Revenue,
		final.Year, final.NetIncome,
		final.Year, final.UnleveredFCF,
		res.NPV, res.PVTerminal, res.EnterpriseValue, irr)
}
