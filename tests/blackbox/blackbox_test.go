package blackbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	cleanup := func() { _ = ln.Close() }
	return ln.Addr().(*net.TCPAddr).Port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/tests/blackbox/blackbox_test.go
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

var (
	buildOnce sync.Once
	binPath   string
	buildErr  error
	buildOut  []byte
)

// buildBinary compiles cmd/propadvisor once per test run.
func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("blackbox tests build the binary; skipped in -short mode")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not on PATH")
	}
	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "propadvisor-bb-")
		if err != nil {
			buildErr = err
			return
		}
		binPath = filepath.Join(dir, "propadvisor")
		cmd := exec.Command("go", "build", "-o", binPath, "./cmd/propadvisor")
		cmd.Dir = projectRootFromThisFile(t)
		cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
		buildOut, buildErr = cmd.CombinedOutput()
	})
	if buildErr != nil {
		t.Fatalf("go build failed: %v\n%s", buildErr, string(buildOut))
	}
	return binPath
}

// cleanEnv drops variables that would change the server configuration.
func cleanEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		k, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, "PROPADVISOR_") || strings.HasPrefix(k, "LLM_") ||
			k == "MODEL_NAME" || k == "MAX_NEW_TOKENS" || k == "REDIS_URL" || k == "GEMINI_API_KEY" {
			continue
		}
		env = append(env, kv)
	}
	return env
}

// fakeModel serves an OpenAI-compatible /chat/completions answering content.
func fakeModel(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

type serverProc struct {
	cmd  *exec.Cmd
	base string // http base URL, e.g. http://127.0.0.1:18080
	done chan error
}

func startServer(t *testing.T, bin string, args ...string) *serverProc {
	t.Helper()
	port, release := findFreePort(t)
	release()
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	cmd := exec.Command(bin, append([]string{"serve", "--addr", fmt.Sprintf("127.0.0.1:%d", port)}, args...)...)
	cmd.Dir = t.TempDir()
	cmd.Env = cleanEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	sp := &serverProc{cmd: cmd, base: base, done: make(chan error, 1)}
	go func() { sp.done <- cmd.Wait() }()
	t.Cleanup(func() { _ = cmd.Process.Kill() })

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			_ = cmd.Process.Kill()
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	return sp
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	return do(t, req)
}

func postJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

const checklistRequest = `{"propertyId":1,"name":"한빛빌라","address":"서울시 마포구 1","propertyType":"빌라","floor":2,"buildYear":1998,"area":"42㎡","availableDate":"2025-03-01"}`

func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	model := fakeModel(t, `{"contents": ["등기부등본 확인", "전입신고"]}`)
	sp := startServer(t, bin, "--base-url", model.URL, "--model", "bb-model")

	// warmup makes the openai backend ready without a call
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, _ := get(t, sp.base+"/readyz")
		if resp.StatusCode == http.StatusOK {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("/readyz did not become ready in time; last=%d", resp.StatusCode)
		}
		time.Sleep(25 * time.Millisecond)
	}

	resp, body := postJSON(t, sp.base+"/checklist", []byte(checklistRequest))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/checklist %d %s", resp.StatusCode, string(body))
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatalf("missing X-Request-Id")
	}
	var cl struct {
		Contents []string `json:"contents"`
	}
	if err := json.Unmarshal(body, &cl); err != nil || len(cl.Contents) != 2 {
		t.Fatalf("/checklist body=%s err=%v", string(body), err)
	}

	resp, body = get(t, sp.base+"/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status %d %s", resp.StatusCode, string(body))
	}
	var st struct {
		Backend    string `json:"backend"`
		Model      string `json:"model"`
		CallsTotal int    `json:"calls_total"`
	}
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("/status json: %v body=%s", err, string(body))
	}
	if st.Backend != "openai" || st.Model != "bb-model" || st.CallsTotal != 1 {
		t.Fatalf("/status unexpected: %+v", st)
	}

	_, body = get(t, sp.base+"/metrics")
	if !bytes.Contains(body, []byte("propadvisor_llm_calls_total")) {
		t.Fatalf("/metrics missing llm counters")
	}

	// SIGTERM shuts down cleanly
	if err := sp.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("signal: %v", err)
	}
	select {
	case err := <-sp.done:
		if err != nil {
			t.Fatalf("server exited with error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("server did not exit after SIGTERM")
	}
}

func TestBlackbox_ModelServerDown_502(t *testing.T) {
	bin := buildBinary(t)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, "--base-url", fmt.Sprintf("http://127.0.0.1:%d/v1", port), "--no-warmup")

	resp, body := postJSON(t, sp.base+"/checklist", []byte(checklistRequest))
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d, body=%s", resp.StatusCode, string(body))
	}
	if !bytes.Contains(body, []byte("model server call failed")) {
		t.Fatalf("unexpected error body: %s", string(body))
	}
}

func TestBlackbox_LlamaWithoutBuildTag_503(t *testing.T) {
	bin := buildBinary(t)
	weights := filepath.Join(t.TempDir(), "qwen.gguf")
	if err := os.WriteFile(weights, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	sp := startServer(t, bin, "--backend", "llama", "--model-path", weights)

	resp, body := postJSON(t, sp.base+"/checklist", []byte(checklistRequest))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d, body=%s", resp.StatusCode, string(body))
	}
}

func TestBlackbox_InvalidConfigExits(t *testing.T) {
	bin := buildBinary(t)
	cmd := exec.Command(bin, "serve", "--backend", "carrier-pigeon")
	cmd.Dir = t.TempDir()
	cmd.Env = cleanEnv()
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected non-zero exit, output=%s", string(out))
	}
	if !strings.Contains(string(out), "unsupported llm.backend") {
		t.Fatalf("unexpected output: %s", string(out))
	}
}

func TestBlackbox_PromptAndVersion(t *testing.T) {
	bin := buildBinary(t)
	cmd := exec.Command(bin, "prompt", "checklist")
	cmd.Dir = t.TempDir()
	cmd.Env = cleanEnv()
	cmd.Stdin = strings.NewReader(checklistRequest)
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if !bytes.Contains(out, []byte("### system")) || !bytes.Contains(out, []byte("입주 가능일: 2025-03-01")) {
		t.Fatalf("unexpected prompt output: %s", string(out))
	}

	out, err = exec.Command(bin, "version").Output()
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !bytes.Contains(out, []byte("llama: no")) {
		t.Fatalf("CGO_ENABLED=0 build should report no llama support: %s", string(out))
	}
}
