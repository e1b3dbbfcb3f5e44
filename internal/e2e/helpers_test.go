package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"propadvisor/internal/advisor"
	"propadvisor/internal/httpapi"
	"propadvisor/internal/manager"
)

// chatCall is what the fake model server saw for one request.
type chatCall struct {
	Model       string            `json:"model"`
	Messages    []manager.Message `json:"messages"`
	Temperature float64           `json:"temperature"`
	Stream      bool              `json:"stream"`
}

// modelServer is a fake OpenAI-compatible /chat/completions endpoint.
type modelServer struct {
	*httptest.Server
	calls atomic.Int64
	// reply returns the status and assistant content for a call.
	reply func(c chatCall) (int, string)
	// seen receives every decoded call when non-nil.
	seen chan chatCall
	// gate blocks replies until closed when non-nil.
	gate chan struct{}
}

func newModelServer(t *testing.T, reply func(c chatCall) (int, string)) *modelServer {
	t.Helper()
	ms := &modelServer{reply: reply}
	ms.Server = httptest.NewServer(http.HandlerFunc(ms.handle))
	t.Cleanup(ms.Close)
	return ms
}

func (ms *modelServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/chat/completions" {
		http.NotFound(w, r)
		return
	}
	ms.calls.Add(1)
	var c chatCall
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if ms.seen != nil {
		ms.seen <- c
	}
	if ms.gate != nil {
		select {
		case <-ms.gate:
		case <-r.Context().Done():
			return
		}
	}
	status, content := ms.reply(c)
	if status != http.StatusOK {
		http.Error(w, content, status)
		return
	}
	if c.Stream {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, piece := range chunk(content, 8) {
			b, _ := json.Marshal(map[string]any{"choices": []map[string]any{{"delta": map[string]string{"content": piece}}}})
			fmt.Fprintf(w, "data: %s\n\n", b)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{{
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
}

func chunk(s string, n int) []string {
	r := []rune(s)
	var out []string
	for len(r) > 0 {
		k := min(n, len(r))
		out = append(out, string(r[:k]))
		r = r[k:]
	}
	return out
}

// fixed replies with content to every call.
func fixed(content string) func(chatCall) (int, string) {
	return func(chatCall) (int, string) { return http.StatusOK, content }
}

// newStack wires manager, advisor and the HTTP API against the model server.
func newStack(t *testing.T, ms *modelServer, cfg manager.ManagerConfig, stream bool) (*httptest.Server, *manager.Manager) {
	t.Helper()
	cfg.Adapter = manager.NewOpenAIAdapter(manager.OpenAIOptions{
		BaseURL:        ms.URL,
		Stream:         stream,
		RequestTimeout: 5 * time.Second,
		ConnectTimeout: time.Second,
	})
	if cfg.Model == "" {
		cfg.Model = "test-model"
	}
	mgr := manager.NewWithConfig(cfg)
	t.Cleanup(func() { _ = mgr.Close() })
	srv := httptest.NewServer(httpapi.NewMux(advisor.New(mgr), mgr))
	t.Cleanup(srv.Close)
	return srv, mgr
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	return do(t, req)
}

func httpPostJSON(t *testing.T, url string, payload string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, strings.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do(t, req)
}

func httpPostForm(t *testing.T, url string, fields map[string]string, files map[string]string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = io.WriteString(fw, content)
	}
	_ = mw.Close()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func listing() map[string]string {
	return map[string]string{
		"propertyId":   "1024",
		"name":         "래미안 101동",
		"address":      "서울시 강남구 테헤란로 1",
		"propertyType": "아파트",
		"floor":        "12",
		"builtYear":    "2009",
		"area":         "84",
		"marketPrice":  "950000000",
		"deposit":      "500000000",
	}
}

const loanRequest = `{"age":31,"isHouseholder":true,"familyType":"1인 가구","annualSalary":42000000,"monthlySalary":3500000,
"incomeType":"근로소득","incomeCategory":"중소기업","rentalArea":"서울","houseType":"오피스텔","rentalType":"전세",
"deposit":200000000,"managementFee":120000,"availableLoan":true,"creditRating":"2등급","loanType":"전세자금대출",
"overdueRecord":false,"hasLeaseAgreement":true,"confirmed":false,
"guideKeyword":"청년 전세자금 대출","guideUrls":["https://nhuf.molit.go.kr/guide"]}`

const checklistRequest = `{"propertyId":1,"name":"한빛빌라","address":"서울시 마포구 1","propertyType":"빌라","floor":2,"buildYear":1998,"area":"42㎡","availableDate":"2025-03-01"}`
