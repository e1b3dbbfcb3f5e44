package types

// PropertyInfo describes a listing submitted for analysis.
type PropertyInfo struct {
	// Listing identifier assigned by the caller.
	// example: 1024
	PropertyID int `json:"propertyId" example:"1024"`
	// Listing or building name.
	// example: 래미안 101동
	Name string `json:"name" example:"래미안 101동"`
	// Street address.
	// example: 서울시 강남구 테헤란로 1
	Address string `json:"address" example:"서울시 강남구 테헤란로 1"`
	// Property type (apartment, villa, officetel, ...).
	// example: 아파트
	PropertyType string `json:"propertyType" example:"아파트"`
	// Floor number.
	// example: 12
	Floor int `json:"floor" example:"12"`
	// Year the building was completed.
	// example: 2009
	BuiltYear int `json:"builtYear" example:"2009"`
	// Exclusive area in square meters.
	// example: 84
	Area int `json:"area" example:"84"`
	// Market price in KRW. Nil when unknown.
	// example: 950000000
	MarketPrice *float64 `json:"marketPrice,omitempty" example:"950000000"`
	// Deposit in KRW. Nil when unknown.
	// example: 500000000
	Deposit *float64 `json:"deposit,omitempty" example:"500000000"`
	// Monthly rent in KRW. Nil when unknown.
	// example: 0
	MonthlyRent *float64 `json:"monthlyRent,omitempty" example:"0"`
}

// Attachment is an uploaded supporting document (registry extract, lease, ...).
type Attachment struct {
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
	// ReadErr is set when the upload could not be read.
	ReadErr error `json:"-"`
}

// Severity grades a single risk finding.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RiskDetail is one itemized finding of a risk analysis.
type RiskDetail struct {
	// example: 선순위 근저당
	Title string `json:"title" example:"선순위 근저당"`
	// example: 등기부상 채권최고액이 시세의 70%를 넘습니다.
	Content string `json:"content" example:"등기부상 채권최고액이 시세의 70%를 넘습니다."`
	// example: high
	Severity Severity `json:"severity" example:"high" enums:"low,medium,high"`
}

// GuideItem is a titled paragraph of loan guidance.
type GuideItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CopingStrategy groups concrete actions for one mitigation.
type CopingStrategy struct {
	Title   string   `json:"title"`
	Actions []string `json:"actions"`
}
