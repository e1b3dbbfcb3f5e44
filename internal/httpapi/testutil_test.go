package httpapi

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"propadvisor/internal/advisor"
	"propadvisor/pkg/types"
)

// fakeAdvisor records the last request per endpoint and returns canned
// results.
type fakeAdvisor struct {
	err       error
	reply     advisor.Reply
	checklist types.ChecklistResponse

	analyzeReq   *types.AnalyzeRequest
	checklistReq *types.ChecklistRequest
	loanReq      *types.LoanGuideRequest
	solutionReq  *types.SolutionRequest
	lastCtx      context.Context
}

func (f *fakeAdvisor) Analyze(ctx context.Context, req types.AnalyzeRequest) (advisor.Reply, error) {
	f.analyzeReq, f.lastCtx = &req, ctx
	return f.reply, f.err
}

func (f *fakeAdvisor) Checklist(ctx context.Context, req types.ChecklistRequest) (types.ChecklistResponse, error) {
	f.checklistReq, f.lastCtx = &req, ctx
	return f.checklist, f.err
}

func (f *fakeAdvisor) LoanGuide(ctx context.Context, req types.LoanGuideRequest) (advisor.Reply, error) {
	f.loanReq, f.lastCtx = &req, ctx
	return f.reply, f.err
}

func (f *fakeAdvisor) Solution(ctx context.Context, req types.SolutionRequest) (advisor.Reply, error) {
	f.solutionReq, f.lastCtx = &req, ctx
	return f.reply, f.err
}

type fakeBackend struct {
	ready  bool
	status types.StatusResponse
}

func (b *fakeBackend) Ready() bool                  { return b.ready }
func (b *fakeBackend) Status() types.StatusResponse { return b.status }

func newTestMux(adv *fakeAdvisor) http.Handler {
	return NewMux(adv, &fakeBackend{ready: true})
}

type upload struct {
	name    string
	content []byte
}

// multipartBody encodes fields and files (as repeated "files" parts).
func multipartBody(t *testing.T, fields map[string]string, files ...upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func propertyFields() map[string]string {
	return map[string]string{
		"propertyId":   "1024",
		"name":         "래미안 101동",
		"address":      "서울시 강남구 테헤란로 1",
		"propertyType": "아파트",
		"floor":        "12",
		"builtYear":    "2009",
		"area":         "84",
	}
}

func postMultipart(t *testing.T, h http.Handler, path string, fields map[string]string, files ...upload) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, fields, files...)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

const checklistBody = `{"propertyId":1,"name":"n","address":"a","propertyType":"아파트","floor":3,"buildYear":2010,"area":"84㎡","availableDate":"2025-03-01"}`

const loanBody = `{"age":31,"isHouseholder":true,"familyType":"1인 가구","annualSalary":42000000,"monthlySalary":3500000,
"incomeType":"근로소득","incomeCategory":"중소기업","rentalArea":"서울","houseType":"오피스텔","rentalType":"전세",
"deposit":200000000,"managementFee":120000,"availableLoan":true,"creditRating":"2등급","loanType":"전세자금대출",
"overdueRecord":false,"hasLeaseAgreement":true,"confirmed":false,"guideUrls":["https://example.com/g"]}`
