package assistant

import (
	"context"
	"fmt"
	"strings"

	"scenario_valuation/pkg/core/agent"
	"scenario_valuation/pkg/core/driver"
	"scenario_valuation/pkg/core/marketdata"
	"scenario_valuation/pkg/core/projection"
	"scenario_valuation/pkg/core/scenario"
	"scenario_valuation/pkg/core/valuation"
)

// DefaultHorizonYears is the projection horizon the assistant uses when the
// user does not name one.
const DefaultHorizonYears = 5

const copilotSystemPrompt = `You are a valuation copilot embedded in a scenario modeling workstation.
You can answer in plain text or invoke one of these tools:
- fetch_actuals: args {"ticker": "AAPL"} - pull the two most recent annual income statements and import them as a new scenario.
- set_driver: args {"field": "revenueGrowth", "value": 8.5} - change one driver on the active scenario. Fields: baseRevenue, revenueGrowth, cogsMargin, opexMargin, taxRate, discountRate, nwcPercent, capexPercent, depreciationPercent.
- run_valuation: args {} - project the active scenario and compute NPV, terminal value and IRR.
Always reply with a single JSON object: {"type": "TOOL_CALL", "tool": "...", "args": {...}} or {"type": "TEXT", "text": "..."}.`

// Assistant wires the model, the scenario store and the market data client
// together and runs the reply/tool loop.
type Assistant struct {
	mgr    *agent.Manager
	store  *scenario.Store
	market *marketdata.Client

	// maxToolRounds bounds the dispatch loop so a model that keeps asking
	// for tools cannot spin forever.
	maxToolRounds int
}

// Reply is what a chat turn produces: the final prose plus a log of any
// tools that ran along the way.
type Reply struct {
	Text      string   `json:"text"`
	ToolTrace []string `json:"toolTrace,omitempty"`
}

func New(mgr *agent.Manager, store *scenario.Store, market *marketdata.Client) *Assistant {
	return &Assistant{
		mgr:           mgr,
		store:         store,
		market:        market,
		maxToolRounds: 4,
	}
}

// Chat runs one user turn. Tool calls from the model are executed against
// the live store and their results fed back until the model settles on a
// text answer or the round budget runs out.
func (a *Assistant) Chat(ctx context.Context, userMessage string) (Reply, error) {
	if strings.TrimSpace(userMessage) == "" {
		return Reply{}, fmt.Errorf("empty message")
	}

	prompt := a.buildPrompt(userMessage)
	var trace []string

	for round := 0; round <= a.maxToolRounds; round++ {
		raw, err := a.mgr.ExecutePrompt(ctx, "copilot", prompt, copilotSystemPrompt, map[string]interface{}{
			"response_format": map[string]interface{}{"type": "json_object"},
		})
		if err != nil {
			return Reply{}, fmt.Errorf("model call failed: %w", err)
		}

		action := ParseAgentAction(raw)
		switch action.Type {
		case ActionText:
			return Reply{Text: action.Text, ToolTrace: trace}, nil
		case ActionToolCall:
			result, err := a.dispatch(ctx, *action.ToolCall)
			if err != nil {
				result = fmt.Sprintf("tool %s failed: %v", action.ToolCall.Name, err)
			}
			fmt.Printf("[ASSISTANT] tool %s -> %s\n", action.ToolCall.Name, result)
			trace = append(trace, fmt.Sprintf("%s: %s", action.ToolCall.Name, result))
			prompt = fmt.Sprintf("%s\n\nTool result for %s:\n%s\n\nGive the user a final answer, or call another tool if needed.",
				a.buildPrompt(userMessage), action.ToolCall.Name, result)
		}
	}

	return Reply{Text: "I could not finish that request within the allowed number of tool calls.", ToolTrace: trace}, nil
}

// buildPrompt frames the user message with the current model state so the
// assistant answers about what is actually on screen.
func (a *Assistant) buildPrompt(userMessage string) string {
	active := a.store.Active()
	var names []string
	for _, sc := range a.store.List() {
		names = append(names, sc.Name)
	}
	return fmt.Sprintf("Scenarios: %s\nActive scenario: %s\nActive drivers: %+v\n\nUser: %s",
		strings.Join(names, ", "), active.Name, active.Drivers, userMessage)
}

// dispatch executes a single tool call and renders its outcome as text for
// the next model round.
func (a *Assistant) dispatch(ctx context.Context, call ToolCall) (string, error) {
	switch call.Name {
	case ToolFetchActuals:
		return a.runFetchActuals(call.Args)
	case ToolSetDriver:
		return a.runSetDriver(call.Args)
	case ToolRunValuation:
		return a.runValuation()
	default:
		return "", fmt.Errorf("unknown tool %q", call.Name)
	}
}

func (a *Assistant) runFetchActuals(args map[string]interface{}) (string, error) {
	if a.market == nil {
		return "", fmt.Errorf("market data client not configured")
	}
	ticker, err := stringArg(args, "ticker")
	if err != nil {
		return "", err
	}
	ticker = strings.ToUpper(ticker)

	stmts, err := a.market.GetIncomeStatements(ticker, 5)
	if err != nil {
		return "", fmt.Errorf("failed to fetch statements for %s: %w", ticker, err)
	}
	latest, prior, err := marketdata.ActualsPair(stmts)
	if err != nil {
		return "", err
	}
	sc, err := a.store.ImportFromActuals(ticker, latest, prior)
	if err != nil {
		return "", fmt.Errorf("failed to import actuals for %s: %w", ticker, err)
	}
	return fmt.Sprintf("imported %q as the active scenario with drivers %+v", sc.Name, sc.Drivers), nil
}

func (a *Assistant) runSetDriver(args map[string]interface{}) (string, error) {
	field, err := stringArg(args, "field")
	if err != nil {
		return "", err
	}
	value, err := floatArg(args, "value")
	if err != nil {
		return "", err
	}

	active := a.store.Active()
	updated, err := applyDriverField(active.Drivers, field, value)
	if err != nil {
		return "", err
	}
	if err := a.store.UpdateDrivers(active.ID, updated); err != nil {
		return "", fmt.Errorf("failed to update %q: %w", active.Name, err)
	}
	return fmt.Sprintf("set %s to %g on %q", field, value, active.Name), nil
}

func (a *Assistant) runValuation() (string, error) {
	active := a.store.Active()
	snaps, err := projection.Project(active.Drivers, DefaultHorizonYears)
	if err != nil {
		return "", fmt.Errorf("projection failed for %q: %w", active.Name, err)
	}
	res, err := valuation.Valuate(snaps, active.Drivers.DiscountRate, valuation.DefaultTerminalGrowthPercent)
	if err != nil {
		return "", fmt.Errorf("valuation failed for %q: %w", active.Name, err)
	}
	irr := "did not converge"
	if res.IRRConverged {
		irr = fmt.Sprintf("%.2f%%", res.IRR)
	}
	return fmt.Sprintf("%q over %d years: NPV %.0f, PV of terminal value %.0f, enterprise value %.0f, IRR %s",
		active.Name, DefaultHorizonYears, res.NPV, res.PVTerminal, res.EnterpriseValue, irr), nil
}

// applyDriverField returns a copy of d with one named field replaced. Field
// names match the JSON tags the frontend and the model both use.
func applyDriverField(d driver.DriverSet, field string, value float64) (driver.DriverSet, error) {
	switch field {
	case "baseRevenue":
		d.BaseRevenue = value
	case "revenueGrowth":
		d.RevenueGrowth = value
	case "cogsMargin":
		d.CogsMargin = value
	case "opexMargin":
		d.OpexMargin = value
	case "taxRate":
		d.TaxRate = value
	case "discountRate":
		d.DiscountRate = value
	case "nwcPercent":
		d.NWCPercent = value
	case "capexPercent":
		d.CapexPercent = value
	case "depreciationPercent":
		d.DepreciationPercent = value
	default:
		return driver.DriverSet{}, fmt.Errorf("unknown driver field %q", field)
	}
	if err := d.Validate(); err != nil {
		return driver.DriverSet{}, err
	}
	return d, nil
}
