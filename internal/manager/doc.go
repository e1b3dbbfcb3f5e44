// Package manager coordinates calls to the LLM backend. It is structured
// into small files by concern:
//
//   - manager.go: Manager type, lazy loading, readiness and Close.
//   - config.go: ManagerConfig, package defaults and wiring from config.Config.
//   - chat.go: Chat entry point, response cache and call coalescing.
//   - admission.go: bounded queue and in-flight generation slots.
//   - cache.go: ResponseCache and its Redis implementation.
//   - errors.go: error types and helpers (IsTooBusy, IsUpstream, ...).
//   - metrics.go: Prometheus collectors for backend calls.
//   - status_report.go: /status reporting.
//   - events.go, eventpub_memory.go: lifecycle events.
//
// Backends and build tags:
//
//   - openai (default): any OpenAI-compatible /chat/completions server
//     such as vLLM or llama-server. File: adapter_openai.go.
//
//   - llama: in-process go-llama.cpp, enabled with `-tags=llama`.
//     Files: adapter_llama.go, llama_cgo.go (linker rpath hints).
//     Without the tag adapter_llama_stub.go reports the backend unavailable.
//
//   - gemini: Google GenAI SDK. File: adapter_gemini.go.
package manager
