package marketdata

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key")
	c.SetBaseURL(srv.URL)
	return c
}

func TestGetIncomeStatements(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/income-statement/AAPL" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Error("apikey missing from query")
		}
		if r.URL.Query().Get("limit") != "2" {
			t.Errorf("limit = %s, want 2", r.URL.Query().Get("limit"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date":"2025-09-27","symbol":"AAPL","revenue":110,"costOfRevenue":44,"incomeBeforeTax":20,"incomeTaxExpense":4},
			{"date":"2024-09-28","symbol":"AAPL","revenue":100,"costOfRevenue":42,"incomeBeforeTax":18,"incomeTaxExpense":3}
		]`))
	})

	stmts, err := c.GetIncomeStatements("aapl", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	if stmts[0].Revenue != 110 || stmts[1].Revenue != 100 {
		t.Errorf("statements out of order or misparsed: %+v", stmts)
	}
}

func TestGetProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile/MSFT" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"symbol":"MSFT","companyName":"Microsoft Corporation","price":430.5,"beta":0.9,"mktCap":3200000000000}]`))
	})

	p, err := c.GetProfile("msft")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.CompanyName != "Microsoft Corporation" {
		t.Errorf("companyName = '%s'", p.CompanyName)
	}
	if p.Price != 430.5 {
		t.Errorf("price = %v", p.Price)
	}
}

func TestGetProfile_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	if _, err := c.GetProfile("NOPE"); err == nil {
		t.Fatal("expected error for empty profile response")
	}
}

func TestGetJSON_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "limit reached", http.StatusTooManyRequests)
	})
	if _, err := c.GetIncomeStatements("AAPL", 2); err == nil {
		t.Fatal("expected error on HTTP 429")
	}
}

func TestSearchTicker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("query") != "apple" {
			t.Errorf("query = %s", r.URL.Query().Get("query"))
		}
		w.Write([]byte(`[{"symbol":"AAPL","name":"Apple Inc.","currency":"USD","exchangeShortName":"NASDAQ"}]`))
	})
	matches, err := c.SearchTicker("apple", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].Symbol != "AAPL" {
		t.Errorf("unexpected matches: %+v", matches)
	}
}

func TestActualsPair(t *testing.T) {
	stmts := []IncomeStatement{
		{Date: "2025-09-27", Revenue: 110, CostOfRevenue: 44, IncomeBeforeTax: 20, IncomeTaxExpense: 4},
		{Date: "2024-09-28", Revenue: 100, CostOfRevenue: 42, IncomeBeforeTax: 18, IncomeTaxExpense: 3},
	}
	latest, prior, err := ActualsPair(stmts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.Revenue != 110 || prior.Revenue != 100 {
		t.Errorf("pair mapped wrong: latest=%.0f prior=%.0f", latest.Revenue, prior.Revenue)
	}

	_, _, err = ActualsPair(stmts[:1])
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory, got %v", err)
	}
}
