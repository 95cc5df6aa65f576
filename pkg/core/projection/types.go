package projection

// Snapshot is the complete set of computed financial values for one projected
// year. Index 0 is the anchor year; immutable once computed.
type Snapshot struct {
	Year int `json:"year"`

	// Income statement
	Revenue      float64 `json:"revenue"`
	COGS         float64 `json:"cogs"`
	GrossProfit  float64 `json:"grossProfit"`
	Opex         float64 `json:"opex"`
	EBITDA       float64 `json:"ebitda"`
	Depreciation float64 `json:"depreciation"`
	EBIT         float64 `json:"ebit"`
	Tax          float64 `json:"tax"`
	NetIncome    float64 `json:"netIncome"`

	// Cash flow. Two deliberately distinct tracks:
	// UnleveredFCF is the after-tax-EBIT free cash flow discounted for
	// Enterprise Value. CashRollForward is the net-income-based delta used
	// only to roll the balance-sheet cash account. They are NOT the same
	// quantity and must never be merged.
	ChangeInNWC     float64 `json:"changeInNWC"`
	Capex           float64 `json:"capex"`
	UnleveredFCF    float64 `json:"unleveredFcf"`
	CashRollForward float64 `json:"cashRollForward"`

	// Balance sheet (year-end stocks)
	Cash        float64 `json:"cash"`
	NWC         float64 `json:"nwc"`
	PPE         float64 `json:"ppe"`
	TotalAssets float64 `json:"totalAssets"`
	TotalDebt   float64 `json:"totalDebt"`
	TotalEquity float64 `json:"totalEquity"`
}

// Opening balance-sheet conventions for the anchor year, as fractions of base
// revenue. These are modeling conventions of the simplified single-entity
// model, not user inputs; equity is the plug that balances the sheet.
const (
	AnchorCashRatio = 0.10
	AnchorPPERatio  = 0.50
	AnchorDebtRatio = 0.20
)
