// Package scenario exposes the scenario store over HTTP for the
// workstation frontend.
package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	coreScenario "scenario_valuation/pkg/core/scenario"

	"scenario_valuation/pkg/core/driver"
	"scenario_valuation/pkg/core/marketdata"
	"scenario_valuation/pkg/core/store"
)

var scenarioStore *coreScenario.Store
var vault *store.ScenarioVault
var market *marketdata.Client

// InitHandler wires the shared store, the persistence vault and the market
// data client into the package-level handlers.
func InitHandler(s *coreScenario.Store, v *store.ScenarioVault, m *marketdata.Client) {
	scenarioStore = s
	vault = v
	market = m
}

type listResponse struct {
	Scenarios []coreScenario.Scenario `json:"scenarios"`
	ActiveID  string                  `json:"activeId"`
}

type idRequest struct {
	ID string `json:"id"`
}

type updateDriversRequest struct {
	ID      string           `json:"id"`
	Drivers driver.DriverSet `json:"drivers"`
}

type importRequest struct {
	Ticker string `json:"ticker"`
}

type createRequest struct {
	Name    string           `json:"name"`
	Drivers driver.DriverSet `json:"drivers"`
}

// cors writes the permissive local-dev headers and swallows preflight.
// Returns true when the request was a preflight and is already answered.
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

// HandleList returns every scenario plus which one is active.
func HandleList(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}
	resp := listResponse{
		Scenarios: scenarioStore.List(),
		ActiveID:  scenarioStore.Active().ID,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleCreate adds a new scenario; it becomes active.
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := req.Drivers.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sc, err := scenarioStore.Add(coreScenario.Scenario{Name: req.Name, Drivers: req.Drivers})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fmt.Printf("[SCENARIO] Created %s (%q)\n", sc.ID, sc.Name)
	persist(sc)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sc)
}

// HandleSearchTickers resolves a free-text query to candidate tickers for
// the import dialog.
func HandleSearchTickers(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}
	if market == nil {
		http.Error(w, "market data client not configured", http.StatusServiceUnavailable)
		return
	}
	matches, err := market.SearchTicker(query, 10)
	if err != nil {
		http.Error(w, fmt.Sprintf("Search failed: %v", err), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(matches)
}

// HandleActivate switches the active scenario.
func HandleActivate(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	var req idRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := scenarioStore.SetActive(req.ID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	fmt.Printf("[SCENARIO] Activated %s\n", req.ID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scenarioStore.Active())
}

// HandleDuplicate clones a scenario; the clone becomes active.
func HandleDuplicate(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	var req idRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	dup, err := scenarioStore.Duplicate(req.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	fmt.Printf("[SCENARIO] Duplicated %s -> %s (%q)\n", req.ID, dup.ID, dup.Name)
	persist(dup)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dup)
}

// HandleDelete removes a scenario. The last remaining scenario cannot be
// deleted.
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	var req idRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := scenarioStore.Delete(req.ID); err != nil {
		status := http.StatusNotFound
		if errors.Is(err, coreScenario.ErrLastScenario) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}
	if vault != nil {
		if err := vault.Delete(context.Background(), req.ID); err != nil {
			fmt.Printf("[SCENARIO] Failed to delete %s from vault: %v\n", req.ID, err)
		}
	}
	fmt.Printf("[SCENARIO] Deleted %s, active is now %s\n", req.ID, scenarioStore.Active().ID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listResponse{Scenarios: scenarioStore.List(), ActiveID: scenarioStore.Active().ID})
}

// HandleUpdateDrivers replaces the driver set of one scenario. Invalid
// drivers are rejected and the stored scenario stays untouched.
func HandleUpdateDrivers(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	var req updateDriversRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := scenarioStore.UpdateDrivers(req.ID, req.Drivers); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, coreScenario.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	sc, _ := scenarioStore.Get(req.ID)
	persist(sc)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sc)
}

// HandleImportActuals pulls the two most recent annual income statements
// for a ticker and seeds a new scenario from the derived ratios.
func HandleImportActuals(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}
	if market == nil {
		http.Error(w, "market data client not configured", http.StatusServiceUnavailable)
		return
	}

	fmt.Printf("[SCENARIO] Importing actuals for %s\n", ticker)
	start := time.Now()
	stmts, err := market.GetIncomeStatements(ticker, 5)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch statements for %s: %v", ticker, err), http.StatusBadGateway)
		return
	}
	latest, prior, err := marketdata.ActualsPair(stmts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	sc, err := scenarioStore.ImportFromActuals(ticker, latest, prior)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	fmt.Printf("[SCENARIO] Imported %q in %v\n", sc.Name, time.Since(start))
	persist(sc)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sc)
}

// persist best-effort saves a scenario to the vault. Persistence failures
// are logged, not surfaced; the in-memory store is the source of truth for
// the session.
func persist(sc coreScenario.Scenario) {
	if vault == nil {
		return
	}
	if err := vault.Save(context.Background(), sc); err != nil {
		fmt.Printf("[SCENARIO] Failed to persist %s: %v\n", sc.ID, err)
	}
}
