package advisor

import (
	"strconv"
	"strings"

	"propadvisor/pkg/types"
)

// ValidationError lists every missing or invalid request field.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// Add records a field once.
func (e *ValidationError) Add(field string) {
	for _, f := range e.Fields {
		if f == field {
			return
		}
	}
	e.Fields = append(e.Fields, field)
}

// Err returns e when fields were recorded, nil otherwise.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Request keys every caller must send, by endpoint. Presence of numeric and
// boolean keys cannot be told from their zero value after decoding, so the
// HTTP layer checks these against the raw body. marketPrice, deposit and
// monthlyRent are optional for property forms.
var (
	PropertyKeys  = []string{"propertyId", "name", "address", "propertyType", "floor", "builtYear", "area"}
	SolutionKeys  = append(append([]string{}, PropertyKeys...), "totalRisk", "summary", "details")
	ChecklistKeys = []string{"propertyId", "name", "address", "propertyType", "floor", "buildYear", "area", "availableDate"}
	LoanKeys      = []string{"age", "isHouseholder", "familyType", "annualSalary", "monthlySalary", "incomeType", "incomeCategory", "rentalArea", "houseType", "rentalType", "deposit", "managementFee", "availableLoan", "creditRating", "loanType", "overdueRecord", "hasLeaseAgreement", "confirmed"}
)

func requireText(ve *ValidationError, field, v string) {
	if strings.TrimSpace(v) == "" {
		ve.Add(field)
	}
}

func requireNonNegative(ve *ValidationError, field string, v float64) {
	if v < 0 {
		ve.Add(field)
	}
}

func validateProperty(ve *ValidationError, p types.PropertyInfo) {
	requireText(ve, "name", p.Name)
	requireText(ve, "address", p.Address)
	requireText(ve, "propertyType", p.PropertyType)
	requireNonNegative(ve, "area", float64(p.Area))
	if p.MarketPrice != nil {
		requireNonNegative(ve, "marketPrice", *p.MarketPrice)
	}
	if p.Deposit != nil {
		requireNonNegative(ve, "deposit", *p.Deposit)
	}
	if p.MonthlyRent != nil {
		requireNonNegative(ve, "monthlyRent", *p.MonthlyRent)
	}
}

// ValidateAnalyze checks an analyze request.
func ValidateAnalyze(r types.AnalyzeRequest) error {
	ve := &ValidationError{}
	validateProperty(ve, r.PropertyInfo)
	return ve.Err()
}

// ValidateSolution checks a solution request.
func ValidateSolution(r types.SolutionRequest) error {
	ve := &ValidationError{}
	validateProperty(ve, r.PropertyInfo)
	if r.TotalRisk < 0 || r.TotalRisk > 100 {
		ve.Add("totalRisk")
	}
	requireText(ve, "summary", r.Summary)
	requireText(ve, "details", r.Details)
	return ve.Err()
}

// ValidateChecklist checks a checklist request.
func ValidateChecklist(r types.ChecklistRequest) error {
	ve := &ValidationError{}
	requireText(ve, "name", r.Name)
	requireText(ve, "address", r.Address)
	requireText(ve, "propertyType", r.PropertyType)
	requireText(ve, "area", r.Area)
	requireText(ve, "availableDate", r.AvailableDate)
	return ve.Err()
}

// ValidateLoan checks a loan guide request.
func ValidateLoan(r types.LoanGuideRequest) error {
	ve := &ValidationError{}
	if r.Age <= 0 {
		ve.Add("age")
	}
	requireText(ve, "familyType", r.FamilyType)
	requireNonNegative(ve, "annualSalary", r.AnnualSalary)
	requireNonNegative(ve, "monthlySalary", r.MonthlySalary)
	requireText(ve, "incomeType", r.IncomeType)
	requireText(ve, "incomeCategory", r.IncomeCategory)
	requireText(ve, "rentalArea", r.RentalArea)
	requireText(ve, "houseType", r.HouseType)
	requireText(ve, "rentalType", r.RentalType)
	requireNonNegative(ve, "deposit", r.Deposit)
	requireNonNegative(ve, "managementFee", r.ManagementFee)
	requireText(ve, "creditRating", r.CreditRating)
	requireText(ve, "loanType", r.LoanType)
	for i, u := range r.GuideURLs {
		if strings.TrimSpace(u) == "" {
			ve.Add("guideUrls[" + strconv.Itoa(i) + "]")
		}
	}
	return ve.Err()
}
