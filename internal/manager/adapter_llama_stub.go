//go:build !llama

package manager

import "context"

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = false

// llamaAdapter satisfies InferenceAdapter in binaries built without the
// 'llama' tag. Every call reports the runtime as unavailable.
type llamaAdapter struct {
	modelPath string
}

func NewLlamaAdapter(modelPath, modelName string, ctxSize, threads int) InferenceAdapter {
	return &llamaAdapter{modelPath: modelPath}
}

func (a *llamaAdapter) Name() string { return "llama" }

func (a *llamaAdapter) Load(context.Context) error {
	return ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}

func (a *llamaAdapter) Start(InferParams) (InferSession, error) {
	return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}

func (a *llamaAdapter) Close() error { return nil }
