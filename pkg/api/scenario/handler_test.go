package scenario

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	coreScenario "scenario_valuation/pkg/core/scenario"

	"scenario_valuation/pkg/core/store"
)

func setup(t *testing.T) *coreScenario.Store {
	t.Helper()
	s := coreScenario.NewStore()
	InitHandler(s, store.NewScenarioVault(nil, t.TempDir()), nil)
	return s
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleList(t *testing.T) {
	setup(t)
	req := httptest.NewRequest("GET", "/api/scenarios", nil)
	w := httptest.NewRecorder()
	HandleList(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp listResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if len(resp.Scenarios) != 3 {
		t.Errorf("expected 3 preset scenarios, got %d", len(resp.Scenarios))
	}
	if resp.ActiveID != "base" {
		t.Errorf("expected base active, got %q", resp.ActiveID)
	}
}

func TestHandleCreate(t *testing.T) {
	s := setup(t)
	body := `{"name": "Stress Test", "drivers": {"baseRevenue": 500000, "revenueGrowth": 2, "cogsMargin": 50, "opexMargin": 35, "taxRate": 21, "discountRate": 12, "nwcPercent": 10, "capexPercent": 6, "depreciationPercent": 4}}`
	w := postJSON(t, HandleCreate, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var sc coreScenario.Scenario
	if err := json.Unmarshal(w.Body.Bytes(), &sc); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if sc.ID == "" {
		t.Error("created scenario should get an id")
	}
	if s.Active().ID != sc.ID {
		t.Error("created scenario should become active")
	}

	w = postJSON(t, HandleCreate, `{"name": "Bad", "drivers": {"baseRevenue": 0}}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid drivers, got %d", w.Code)
	}
	w = postJSON(t, HandleCreate, `{"name": " ", "drivers": {"baseRevenue": 1, "discountRate": 1}}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank name, got %d", w.Code)
	}
}

func TestHandleSearchTickersRequiresQuery(t *testing.T) {
	setup(t)
	req := httptest.NewRequest("GET", "/api/market/search", nil)
	w := httptest.NewRecorder()
	HandleSearchTickers(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing query, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/market/search?q=apple", nil)
	w = httptest.NewRecorder()
	HandleSearchTickers(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a market client, got %d", w.Code)
	}
}

func TestHandleActivate(t *testing.T) {
	s := setup(t)
	w := postJSON(t, HandleActivate, `{"id": "pessimistic"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if s.Active().ID != "pessimistic" {
		t.Errorf("activation did not stick, active is %q", s.Active().ID)
	}

	w = postJSON(t, HandleActivate, `{"id": "nope"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}
}

func TestHandleDuplicate(t *testing.T) {
	s := setup(t)
	w := postJSON(t, HandleDuplicate, `{"id": "base"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var dup coreScenario.Scenario
	if err := json.Unmarshal(w.Body.Bytes(), &dup); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if dup.Name != "Scenario 4" {
		t.Errorf("expected generated name Scenario 4, got %q", dup.Name)
	}
	if s.Active().ID != dup.ID {
		t.Errorf("duplicate should become active")
	}
}

func TestHandleDeleteLastScenarioConflict(t *testing.T) {
	setup(t)
	for _, id := range []string{"optimistic", "pessimistic"} {
		w := postJSON(t, HandleDelete, `{"id": "`+id+`"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("delete %s failed: %d %s", id, w.Code, w.Body.String())
		}
	}
	w := postJSON(t, HandleDelete, `{"id": "base"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 deleting the last scenario, got %d", w.Code)
	}
}

func TestHandleUpdateDriversRejectsInvalid(t *testing.T) {
	s := setup(t)
	before := s.Active().Drivers

	w := postJSON(t, HandleUpdateDrivers, `{"id": "base", "drivers": {"baseRevenue": 0, "discountRate": 10}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid drivers, got %d", w.Code)
	}
	if got, _ := s.Get("base"); got.Drivers != before {
		t.Errorf("store mutated by rejected update")
	}
}

func TestHandleUpdateDriversUnknownID(t *testing.T) {
	setup(t)
	// The store wraps its not-found sentinel, so the handler must unwrap it
	// to tell a missing scenario (404) apart from bad drivers (400).
	body := `{"id": "missing", "drivers": {"baseRevenue": 1000000, "revenueGrowth": 5, "cogsMargin": 40, "opexMargin": 30, "taxRate": 21, "discountRate": 10, "nwcPercent": 10, "capexPercent": 5, "depreciationPercent": 3}}`
	w := postJSON(t, HandleUpdateDrivers, body)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleUpdateDrivers(t *testing.T) {
	s := setup(t)
	body := `{"id": "base", "drivers": {"baseRevenue": 2000000, "revenueGrowth": 7, "cogsMargin": 40, "opexMargin": 30, "taxRate": 21, "discountRate": 9, "nwcPercent": 10, "capexPercent": 5, "depreciationPercent": 3}}`
	w := postJSON(t, HandleUpdateDrivers, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got, _ := s.Get("base")
	if got.Drivers.BaseRevenue != 2000000 || got.Drivers.RevenueGrowth != 7 {
		t.Errorf("drivers not updated: %+v", got.Drivers)
	}
}

func TestHandleImportActualsRequiresTicker(t *testing.T) {
	setup(t)
	w := postJSON(t, HandleImportActuals, `{"ticker": "  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank ticker, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	setup(t)
	req := httptest.NewRequest("OPTIONS", "/api/scenarios/activate", nil)
	w := httptest.NewRecorder()
	HandleActivate(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("preflight should return 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS header")
	}
}
