package types

// AnalyzeRequest is the multipart form accepted by POST /analyze.
type AnalyzeRequest struct {
	PropertyInfo
	Files []Attachment `json:"-"`
}

// AnalyzeResult is the risk report the model is asked to produce.
type AnalyzeResult struct {
	// Overall risk score between 0 and 100.
	// example: 72
	TotalRisk int `json:"totalRisk" example:"72"`
	// Two-sentence summary of the main risks.
	Summary string       `json:"summary"`
	Details []RiskDetail `json:"details"`
}

// ChecklistRequest is the JSON body accepted by POST /checklist.
type ChecklistRequest struct {
	PropertyID   int    `json:"propertyId" example:"1024"`
	Name         string `json:"name" example:"래미안 101동"`
	Address      string `json:"address" example:"서울시 강남구 테헤란로 1"`
	PropertyType string `json:"propertyType" example:"아파트"`
	Floor        int    `json:"floor" example:"12"`
	BuildYear    int    `json:"buildYear" example:"2009"`
	// Free-form area, e.g. "84㎡ (25평)".
	Area string `json:"area" example:"84㎡"`
	// Move-in date as provided by the caller.
	AvailableDate string `json:"availableDate" example:"2025-03-01"`
}

// ChecklistResponse lists the pre-contract check items.
type ChecklistResponse struct {
	Contents []string `json:"contents"`
}

// LoanGuideRequest is the JSON body accepted by POST /loan.
type LoanGuideRequest struct {
	Age               int      `json:"age" example:"31"`
	IsHouseholder     bool     `json:"isHouseholder" example:"true"`
	FamilyType        string   `json:"familyType" example:"1인 가구"`
	AnnualSalary      float64  `json:"annualSalary" example:"42000000"`
	MonthlySalary     float64  `json:"monthlySalary" example:"3500000"`
	IncomeType        string   `json:"incomeType" example:"근로소득"`
	IncomeCategory    string   `json:"incomeCategory" example:"중소기업"`
	RentalArea        string   `json:"rentalArea" example:"서울"`
	HouseType         string   `json:"houseType" example:"오피스텔"`
	RentalType        string   `json:"rentalType" example:"전세"`
	Deposit           float64  `json:"deposit" example:"200000000"`
	ManagementFee     float64  `json:"managementFee" example:"120000"`
	AvailableLoan     bool     `json:"availableLoan" example:"true"`
	CreditRating      string   `json:"creditRating" example:"2등급"`
	LoanType          string   `json:"loanType" example:"전세자금대출"`
	OverdueRecord     bool     `json:"overdueRecord" example:"false"`
	HasLeaseAgreement bool     `json:"hasLeaseAgreement" example:"true"`
	Confirmed         bool     `json:"confirmed" example:"false"`
	GuideKeyword      string   `json:"guideKeyword,omitempty" example:"청년 전세자금 대출"`
	GuideURLs         []string `json:"guideUrls,omitempty"`
}

// LoanGuide is the loan plan the model is asked to produce.
type LoanGuide struct {
	LoanAmount       float64     `json:"loanAmount"`
	InterestRate     float64     `json:"interestRate"`
	OwnCapital       float64     `json:"ownCapital"`
	MonthlyInterest  float64     `json:"monthlyInterest"`
	ManagementFee    float64     `json:"managementFee"`
	TotalMonthlyCost float64     `json:"totalMonthlyCost"`
	Loans            []GuideItem `json:"loans"`
	Procedures       []GuideItem `json:"procedures"`
	Channels         []GuideItem `json:"channels"`
	Advance          []GuideItem `json:"advance"`
	// Reference links echoed from the request.
	Sources []string `json:"sources,omitempty"`
}

// SolutionRequest is the multipart form accepted by POST /solution.
type SolutionRequest struct {
	PropertyInfo
	// Score returned by /analyze.
	TotalRisk float64 `json:"totalRisk"`
	Summary   string  `json:"summary"`
	// JSON-encoded details array returned by /analyze. Used verbatim when not JSON.
	Details string       `json:"details"`
	Files   []Attachment `json:"-"`
}

// SolutionPlan is the mitigation plan the model is asked to produce.
type SolutionPlan struct {
	Coping    []CopingStrategy `json:"coping"`
	Checklist []string         `json:"checklist"`
}

// RawOutput is returned when the model output could not be parsed as JSON.
type RawOutput struct {
	RawOutput string   `json:"raw_output"`
	Sources   []string `json:"sources,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model server call failed: connection refused
	Error string `json:"error" example:"model server call failed: connection refused"`
	// HTTP status code.
	// example: 502
	Code int `json:"code" example:"502"`
	// Offending request fields, when the request failed validation.
	Fields []string `json:"fields,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Configured backend (openai, llama, gemini).
	// example: openai
	Backend string `json:"backend" example:"openai"`
	// Model served by the backend.
	// example: QuantTrio/Qwen3-235B-A22B-Instruct-2507-AWQ
	Model string `json:"model" example:"QuantTrio/Qwen3-235B-A22B-Instruct-2507-AWQ"`
	// Backend lifecycle state (idle, loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Calls waiting for a generation slot.
	QueueLen int `json:"queue_len"`
	// Calls currently generating.
	Inflight int `json:"inflight"`
	// Maximum waiting calls before backpressure triggers.
	// example: 32
	MaxQueueDepth int `json:"max_queue_depth" example:"32"`
	// Maximum concurrent generations.
	// example: 1
	MaxInflight int `json:"max_inflight" example:"1"`
	// Completed backend calls, including cache hits.
	CallsTotal uint64 `json:"calls_total"`
	// Failed backend calls.
	FailuresTotal uint64 `json:"failures_total"`
	// Whether the response cache is configured.
	CacheEnabled bool `json:"cache_enabled"`
	// Last backend error, if any.
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	UptimeSeconds int64 `json:"uptime_seconds"`
	// Server time in unix seconds.
	ServerTimeUnix int64 `json:"server_time_unix"`
}
