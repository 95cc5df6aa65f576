// Package valuation exposes projection and DCF results over HTTP.
package valuation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	coreScenario "scenario_valuation/pkg/core/scenario"

	"scenario_valuation/pkg/core/projection"
	"scenario_valuation/pkg/core/valuation"
)

// DefaultHorizonYears is used when a request omits the horizon.
const DefaultHorizonYears = 5

var scenarioStore *coreScenario.Store

func InitHandler(s *coreScenario.Store) {
	scenarioStore = s
}

type projectRequest struct {
	ScenarioID     string   `json:"scenarioId"`
	HorizonYears   int      `json:"horizonYears"`
	TerminalGrowth *float64 `json:"terminalGrowth,omitempty"`
}

type projectResponse struct {
	ScenarioID string                `json:"scenarioId"`
	Name       string                `json:"name"`
	Years      []projection.Snapshot `json:"years"`
	Valuation  valuation.Result      `json:"valuation"`
}

type compareEntry struct {
	ScenarioID      string  `json:"scenarioId"`
	Name            string  `json:"name"`
	NPV             float64 `json:"npv"`
	EnterpriseValue float64 `json:"enterpriseValue"`
	IRR             float64 `json:"irr"`
	IRRConverged    bool    `json:"irrConverged"`
	Error           string  `json:"error,omitempty"`
}

func cors(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// HandleProject projects one scenario and values the resulting cash flows.
// An empty scenarioId means the active scenario.
func HandleProject(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sc := scenarioStore.Active()
	if req.ScenarioID != "" {
		var err error
		sc, err = scenarioStore.Get(req.ScenarioID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	horizon := req.HorizonYears
	if horizon == 0 {
		horizon = DefaultHorizonYears
	}
	terminalGrowth := valuation.DefaultTerminalGrowthPercent
	if req.TerminalGrowth != nil {
		terminalGrowth = *req.TerminalGrowth
	}

	snaps, err := projection.Project(sc.Drivers, horizon)
	if err != nil {
		http.Error(w, fmt.Sprintf("Projection failed: %v", err), http.StatusBadRequest)
		return
	}
	res, err := valuation.Valuate(snaps, sc.Drivers.DiscountRate, terminalGrowth)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, valuation.ErrTerminalSpread) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, fmt.Sprintf("Valuation failed: %v", err), status)
		return
	}

	fmt.Printf("[VALUATION] %q over %d years: NPV %.0f, EV %.0f\n", sc.Name, horizon, res.NPV, res.EnterpriseValue)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(projectResponse{
		ScenarioID: sc.ID,
		Name:       sc.Name,
		Years:      snaps,
		Valuation:  res,
	})
}

// HandleCompare values every scenario side by side. Scenarios that fail to
// value carry their error instead of sinking the whole response.
func HandleCompare(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}

	var entries []compareEntry
	for _, sc := range scenarioStore.List() {
		entry := compareEntry{ScenarioID: sc.ID, Name: sc.Name}
		snaps, err := projection.Project(sc.Drivers, DefaultHorizonYears)
		if err == nil {
			var res valuation.Result
			res, err = valuation.Valuate(snaps, sc.Drivers.DiscountRate, valuation.DefaultTerminalGrowthPercent)
			if err == nil {
				entry.NPV = res.NPV
				entry.EnterpriseValue = res.EnterpriseValue
				entry.IRR = res.IRR
				entry.IRRConverged = res.IRRConverged
			}
		}
		if err != nil {
			entry.Error = err.Error()
		}
		entries = append(entries, entry)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
