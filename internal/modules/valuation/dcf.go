package valuation

import (
	"math"
)

// MinForecastYears is the minimum explicit forecast horizon for a valid DCF.
const MinForecastYears = 5

// Forecast is the input to one DCF run. Optional inputs are pointers so
// "absent" and "zero" stay distinguishable: net debt of zero is a real
// balance sheet, a missing net debt is a data gap. Immutable per run.
type Forecast struct {
	UFCF                 []float64 // yearly unlevered free cash flow
	WACCPercent          *float64  // discount rate in percent
	PresentTerminalValue *float64
	NetDebt              *float64
	DilutedShares        *float64
}

// Result is the outcome of a DCF run: exactly one of the success or
// failure shapes is populated. Callers must check Valid before reading
// any numeric field.
type Result struct {
	Valid bool `json:"valid"`

	// Success fields
	IntrinsicValue    float64   `json:"intrinsicValue,omitempty"`
	EnterpriseValue   float64   `json:"enterpriseValue,omitempty"`
	EquityValue       float64   `json:"equityValue,omitempty"`
	SumPvUfcf         float64   `json:"sumPvUfcf,omitempty"`
	TerminalValuePct  float64   `json:"terminalValuePercentage,omitempty"`
	PvUfcfs           []float64 `json:"pvUfcfs,omitempty"`
	Years             int       `json:"years,omitempty"`

	// Failure fields
	ErrorMessage  string   `json:"errorMessage,omitempty"`
	MissingInputs []string `json:"missingInputs,omitempty"`
}

// failure constructs the failure variant.
func failure(message string, missing []string) Result {
	return Result{Valid: false, ErrorMessage: message, MissingInputs: missing}
}

// Calculate discounts the forecast to an intrinsic value per share.
//
// Validation collects every missing input, not just the first. Anything
// that still goes wrong numerically after validation - NaN propagation,
// a panic from deeper math - is converted to the failure variant; the
// calculator never raises to its caller.
func Calculate(f Forecast) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = failure("valuation computation failed", nil)
		}
	}()

	var missing []string
	if len(f.UFCF) < MinForecastYears {
		missing = append(missing, "ufcf")
	}
	if f.WACCPercent == nil {
		missing = append(missing, "wacc")
	}
	if f.PresentTerminalValue == nil {
		missing = append(missing, "presentTerminalValue")
	}
	if f.NetDebt == nil {
		missing = append(missing, "netDebt")
	}
	if f.DilutedShares == nil || *f.DilutedShares <= 0 {
		missing = append(missing, "dilutedSharesOutstanding")
	}
	if len(missing) > 0 {
		return failure("missing required inputs for DCF valuation", missing)
	}

	wacc := *f.WACCPercent / 100.0

	pvUfcfs := make([]float64, len(f.UFCF))
	sumPvUfcf := 0.0
	for i, cashflow := range f.UFCF {
		pv := cashflow / math.Pow(1.0+wacc, float64(i+1))
		pvUfcfs[i] = pv
		sumPvUfcf += pv
	}

	enterpriseValue := sumPvUfcf + *f.PresentTerminalValue
	equityValue := enterpriseValue - *f.NetDebt
	intrinsicValue := equityValue / *f.DilutedShares

	terminalValuePct := 0.0
	if enterpriseValue != 0 {
		terminalValuePct = *f.PresentTerminalValue / enterpriseValue * 100.0
	}

	for _, v := range []float64{sumPvUfcf, enterpriseValue, equityValue, intrinsicValue, terminalValuePct} {
		if !isFinite(v) {
			return failure("valuation computation failed", nil)
		}
	}

	return Result{
		Valid:            true,
		IntrinsicValue:   intrinsicValue,
		EnterpriseValue:  enterpriseValue,
		EquityValue:      equityValue,
		SumPvUfcf:        sumPvUfcf,
		TerminalValuePct: terminalValuePct,
		PvUfcfs:          pvUfcfs,
		Years:            len(f.UFCF),
	}
}
