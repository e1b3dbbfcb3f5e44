//go:build llama

package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"

	"propadvisor/internal/registry"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// llamaAdapter runs a GGUF model in-process. The model is loaded once and
// generations are serialized on it.
type llamaAdapter struct {
	modelPath string
	modelName string
	ctxSize   int
	threads   int

	mu    sync.Mutex
	model *llama.LLama
}

// NewLlamaAdapter returns an adapter for the model at modelPath (a file, or a
// directory searched for modelName).
func NewLlamaAdapter(modelPath, modelName string, ctxSize, threads int) InferenceAdapter {
	return &llamaAdapter{modelPath: modelPath, modelName: modelName, ctxSize: ctxSize, threads: threads}
}

func (a *llamaAdapter) Name() string { return "llama" }

func (a *llamaAdapter) Load(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(a.modelPath) == "" {
		return ErrDependencyUnavailable("llama model path is empty")
	}
	mdl, err := registry.Resolve(a.modelPath, a.modelName)
	if err != nil {
		return ErrDependencyUnavailable(err.Error())
	}
	m, err := llama.New(mdl.Path, llama.SetContext(a.ctxSize))
	if err != nil {
		return ErrDependencyUnavailable(fmt.Sprintf("load %s: %v", mdl.Path, err))
	}
	a.model = m
	return nil
}

func (a *llamaAdapter) Start(params InferParams) (InferSession, error) {
	a.mu.Lock()
	loaded := a.model != nil
	a.mu.Unlock()
	if !loaded {
		return nil, errors.New("llama model not loaded")
	}
	return &llamaSession{adapter: a, params: params}, nil
}

func (a *llamaAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model != nil {
		a.model.Free()
		a.model = nil
	}
	return nil
}

type llamaSession struct {
	adapter *llamaAdapter
	params  InferParams
}

func (s *llamaSession) Generate(ctx context.Context, messages []Message, onToken func(string) error) (FinalResult, error) {
	a := s.adapter
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model == nil {
		return FinalResult{}, errors.New("llama model not initialized")
	}

	// Bridge token streaming to onToken and stop on cancellation.
	a.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		if onToken != nil {
			if err := onToken(tok); err != nil {
				return false
			}
		}
		return true
	})
	defer a.model.SetTokenCallback(nil)

	params := s.params
	params.Stop = append(append([]string{}, params.Stop...), ChatMLStop)
	text, err := a.model.Predict(RenderChatML(messages), mapInferParamsToPredictOptions(params, a.threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return FinalResult{}, ctx.Err()
		}
		return FinalResult{}, err
	}
	if ctx.Err() != nil {
		return FinalResult{}, ctx.Err()
	}
	return FinalResult{
		Content:      strings.TrimSpace(strings.TrimSuffix(text, ChatMLStop)),
		FinishReason: "stop",
	}, nil
}

func (s *llamaSession) Close() error { return nil }

func zf(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}

// mapInferParamsToPredictOptions converts adapter params into go-llama.cpp options.
func mapInferParamsToPredictOptions(params InferParams, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(max(1, params.MaxTokens)),
		llama.SetThreads(max(1, threads)),
		llama.SetTopP(zf(params.TopP, llama.DefaultOptions.TopP)),
		llama.SetTemperature(zf(params.Temperature, llama.DefaultOptions.Temperature)),
	}
	if len(params.Stop) > 0 {
		po = append(po, llama.SetStopWords(params.Stop...))
	}
	return po
}
