package manager

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Chat runs one generation and returns the model text. There are no retries:
// the first failure is returned. Identical calls are served from the cache
// when one is configured, and concurrent identical calls share one
// generation.
func (m *Manager) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if len(req.Messages) == 0 {
		return "", errors.New("chat request has no messages")
	}
	out, err := m.chat(ctx, req)
	m.record(req.Endpoint, err)
	return out, err
}

func (m *Manager) chat(ctx context.Context, req ChatRequest) (string, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return "", err
	}
	params := m.params(req)
	if m.cache == nil {
		return m.generate(ctx, req.Endpoint, params, req.Messages)
	}

	key := cacheKey(m.adapter.Name(), m.model, params, req.Messages)
	if v, ok := m.cacheGet(ctx, key); ok {
		return v, nil
	}
	// the shared call outlives any one caller; each caller still stops
	// waiting when its own ctx is done
	ch := m.group.DoChan(key, func() (any, error) {
		gctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.callTimeout)
		defer cancel()
		out, err := m.generate(gctx, req.Endpoint, params, req.Messages)
		if err != nil {
			return "", err
		}
		if serr := m.cache.Set(gctx, key, out); serr != nil {
			log.Warn().Err(serr).Str("endpoint", req.Endpoint).Msg("response cache write failed")
		}
		return out, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// params merges per-call sampling overrides onto the configured defaults.
func (m *Manager) params(req ChatRequest) InferParams {
	p := m.defaults
	if req.Temperature > 0 {
		p.Temperature = float32(req.Temperature)
	}
	if req.TopP > 0 {
		p.TopP = float32(req.TopP)
	}
	if req.MaxTokens > 0 {
		p.MaxTokens = req.MaxTokens
	}
	return p
}

func (m *Manager) cacheGet(ctx context.Context, key string) (string, bool) {
	v, found, err := m.cache.Get(ctx, key)
	switch {
	case err != nil:
		llmCacheTotal.WithLabelValues("error").Inc()
		log.Warn().Err(err).Msg("response cache read failed")
		return "", false
	case !found:
		llmCacheTotal.WithLabelValues("miss").Inc()
		return "", false
	default:
		llmCacheTotal.WithLabelValues("hit").Inc()
		return v, true
	}
}

// generate holds an admission slot for the duration of one backend call.
func (m *Manager) generate(ctx context.Context, endpoint string, params InferParams, messages []Message) (string, error) {
	release, err := m.beginGeneration(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	sess, err := m.adapter.Start(params)
	if err != nil {
		return "", ErrUpstream(err)
	}
	defer sess.Close()

	start := time.Now()
	res, err := sess.Generate(ctx, messages, nil)
	llmCallDuration.WithLabelValues(m.adapter.Name(), endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", ErrUpstream(err)
	}
	if strings.TrimSpace(res.Content) == "" {
		return "", ErrUpstream(errors.New("empty completion"))
	}
	log.Debug().
		Str("backend", m.adapter.Name()).
		Str("endpoint", endpoint).
		Int("prompt_tokens", res.Usage.PromptTokens).
		Int("completion_tokens", res.Usage.CompletionTokens).
		Str("finish_reason", res.FinishReason).
		Dur("elapsed", time.Since(start)).
		Msg("generation done")
	return res.Content, nil
}

func (m *Manager) record(endpoint string, err error) {
	m.calls.Add(1)
	llmCallsTotal.WithLabelValues(m.adapter.Name(), endpoint, outcomeOf(err)).Inc()
	if err == nil {
		m.pub.Publish(Event{Name: "chat_done", Backend: m.adapter.Name(), Fields: map[string]any{"endpoint": endpoint}})
		return
	}
	m.failures.Add(1)
	m.mu.Lock()
	m.lastErr = err.Error()
	m.mu.Unlock()
	m.pub.Publish(Event{Name: "chat_error", Backend: m.adapter.Name(), Fields: map[string]any{
		"endpoint": endpoint,
		"error":    err.Error(),
	}})
}
