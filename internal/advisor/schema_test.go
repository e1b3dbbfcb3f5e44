package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) any {
	t.Helper()
	v, ok := ParseJSON(s)
	require.True(t, ok, s)
	return v
}

func TestCheckOutput_Analyze(t *testing.T) {
	ok := mustParse(t, `{"totalRisk":72,"summary":"s","details":[{"title":"t","content":"c","severity":"high"}]}`)
	assert.NoError(t, CheckOutput(EndpointAnalyze, ok))

	bad := mustParse(t, `{"totalRisk":150,"summary":"s","details":[{"title":"t","content":"c","severity":"critical"}]}`)
	err := CheckOutput(EndpointAnalyze, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "totalRisk")

	missing := mustParse(t, `{"summary":"s"}`)
	assert.Error(t, CheckOutput(EndpointAnalyze, missing))
}

func TestCheckOutput_Loan(t *testing.T) {
	ok := mustParse(t, `{"loanAmount":1,"interestRate":3.5,"ownCapital":2,"monthlyInterest":1,"managementFee":1,"totalMonthlyCost":2,
		"loans":[{"title":"a","content":"b"}],"procedures":[],"channels":[],"advance":[]}`)
	assert.NoError(t, CheckOutput(EndpointLoan, ok))

	str := mustParse(t, `{"loanAmount":"1억","interestRate":3.5,"ownCapital":2,"monthlyInterest":1,"managementFee":1,"totalMonthlyCost":2,
		"loans":[],"procedures":[],"channels":[],"advance":[]}`)
	assert.Error(t, CheckOutput(EndpointLoan, str))
}

func TestCheckOutput_SolutionAndChecklist(t *testing.T) {
	assert.NoError(t, CheckOutput(EndpointSolution, mustParse(t, `{"coping":[{"title":"t","actions":["a"]}],"checklist":["c"]}`)))
	assert.Error(t, CheckOutput(EndpointSolution, mustParse(t, `{"coping":"none","checklist":[]}`)))
	assert.NoError(t, CheckOutput(EndpointChecklist, mustParse(t, `{"contents":["a"]}`)))
	assert.Error(t, CheckOutput(EndpointChecklist, mustParse(t, `{"contents":[1]}`)))
}

func TestCheckOutput_UnknownEndpoint(t *testing.T) {
	assert.Error(t, CheckOutput("nope", map[string]any{"a": 1}))
}
