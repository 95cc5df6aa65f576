// Package marketdata wraps the Financial Modeling Prep API: company profile,
// annual income statements and ticker search. It is the source of "actuals"
// that seed imported scenarios; it never calls into the core.
package marketdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"scenario_valuation/pkg/core/scenario"
)

const defaultBaseURL = "https://financialmodelingprep.com/api/v3"

// ErrInsufficientHistory: importing actuals needs at least two annual periods.
var ErrInsufficientHistory = errors.New("need at least two annual periods")

// Client talks to FMP. Zero value is not usable; construct via NewClient.
type Client struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewClient builds a client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
}

// NewClientFromEnv reads FMP_API_KEY.
func NewClientFromEnv() (*Client, error) {
	key := os.Getenv("FMP_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("FMP_API_KEY environment variable not set")
	}
	return NewClient(key), nil
}

// SetBaseURL overrides the endpoint, used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = strings.TrimRight(u, "/") }

// Profile is the subset of the FMP company profile the workstation displays.
type Profile struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	Price       float64 `json:"price"`
	Beta        float64 `json:"beta"`
	MktCap      float64 `json:"mktCap"`
	Currency    string  `json:"currency"`
	Exchange    string  `json:"exchangeShortName"`
	Industry    string  `json:"industry"`
	Sector      string  `json:"sector"`
	Description string  `json:"description"`
}

// IncomeStatement is one reported annual period. FMP returns these in
// descending date order (latest first); the import path relies on that.
type IncomeStatement struct {
	Date             string  `json:"date"`
	Symbol           string  `json:"symbol"`
	CalendarYear     string  `json:"calendarYear"`
	Revenue          float64 `json:"revenue"`
	CostOfRevenue    float64 `json:"costOfRevenue"`
	GrossProfit      float64 `json:"grossProfit"`
	OperatingExpense float64 `json:"operatingExpenses"`
	EBITDA           float64 `json:"ebitda"`
	OperatingIncome  float64 `json:"operatingIncome"`
	IncomeBeforeTax  float64 `json:"incomeBeforeTax"`
	IncomeTaxExpense float64 `json:"incomeTaxExpense"`
	NetIncome        float64 `json:"netIncome"`
}

// SearchMatch is one ticker search hit.
type SearchMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Exchange string `json:"exchangeShortName"`
}

// GetProfile fetches the company profile for a ticker.
func (c *Client) GetProfile(ticker string) (*Profile, error) {
	var profiles []Profile
	path := fmt.Sprintf("/profile/%s", strings.ToUpper(ticker))
	if err := c.getJSON(path, nil, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profile found for '%s'", ticker)
	}
	return &profiles[0], nil
}

// GetIncomeStatements fetches up to limit annual income statements,
// latest first.
func (c *Client) GetIncomeStatements(ticker string, limit int) ([]IncomeStatement, error) {
	if limit <= 0 {
		limit = 5
	}
	path := fmt.Sprintf("/income-statement/%s", strings.ToUpper(ticker))
	q := url.Values{"limit": {fmt.Sprintf("%d", limit)}}
	var stmts []IncomeStatement
	if err := c.getJSON(path, q, &stmts); err != nil {
		return nil, err
	}
	return stmts, nil
}

// SearchTicker looks up symbols matching the query.
func (c *Client) SearchTicker(query string, limit int) ([]SearchMatch, error) {
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{
		"query": {query},
		"limit": {fmt.Sprintf("%d", limit)},
	}
	var matches []SearchMatch
	if err := c.getJSON("/search", q, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// ActualsPair maps the two most recent periods onto the scenario import
// contract: index 0 latest, index 1 prior.
func ActualsPair(stmts []IncomeStatement) (latest, prior scenario.ActualsPeriod, err error) {
	if len(stmts) < 2 {
		return scenario.ActualsPeriod{}, scenario.ActualsPeriod{},
			fmt.Errorf("%w: got %d", ErrInsufficientHistory, len(stmts))
	}
	return toPeriod(stmts[0]), toPeriod(stmts[1]), nil
}

func toPeriod(st IncomeStatement) scenario.ActualsPeriod {
	return scenario.ActualsPeriod{
		Revenue:          st.Revenue,
		CostOfRevenue:    st.CostOfRevenue,
		IncomeBeforeTax:  st.IncomeBeforeTax,
		IncomeTaxExpense: st.IncomeTaxExpense,
	}
}

// getJSON performs a GET with the API key attached and decodes the body.
func (c *Client) getJSON(path string, query url.Values, out interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apikey", c.apiKey)
	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequest("GET", fullURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("FMP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("FMP API error: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode FMP response: %w", err)
	}
	return nil
}
