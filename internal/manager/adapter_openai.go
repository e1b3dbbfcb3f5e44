package manager

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// openAIAdapter implements InferenceAdapter against an OpenAI-compatible
// chat completions server (vLLM, llama-server, hosted APIs).
type openAIAdapter struct {
	baseURL    string
	apiKey     string
	stream     bool
	reqTimeout time.Duration
	httpClient *http.Client
}

// OpenAIOptions configures NewOpenAIAdapter.
type OpenAIOptions struct {
	BaseURL        string
	APIKey         string
	Stream         bool
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
}

// NewOpenAIAdapter constructs a server-backed adapter.
func NewOpenAIAdapter(opts OpenAIOptions) InferenceAdapter {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Timeout=0: every request carries a context deadline instead.
	cli := &http.Client{Transport: tr, Timeout: 0}
	return &openAIAdapter{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		stream:     opts.Stream,
		reqTimeout: opts.RequestTimeout,
		httpClient: cli,
	}
}

func (a *openAIAdapter) Name() string { return "openai" }

// Load is a no-op; the remote server owns the weights.
func (a *openAIAdapter) Load(context.Context) error { return nil }

func (a *openAIAdapter) Start(params InferParams) (InferSession, error) {
	return &openAISession{adapter: a, params: params}, nil
}

func (a *openAIAdapter) Close() error {
	if tr, ok := a.httpClient.Transport.(*http.Transport); ok {
		tr.CloseIdleConnections()
	}
	return nil
}

type openAISession struct {
	adapter *openAIAdapter
	params  InferParams
}

type chatCompletionRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float32   `json:"temperature"`
	TopP        float32   `json:"top_p,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
	Stream      bool      `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (s *openAISession) Generate(ctx context.Context, messages []Message, onToken func(string) error) (FinalResult, error) {
	if s.adapter == nil || s.adapter.httpClient == nil {
		return FinalResult{}, errors.New("openai adapter not initialized")
	}
	if s.adapter.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.adapter.reqTimeout)
		defer cancel()
	}
	payload := chatCompletionRequest{
		Model:       s.params.Model,
		Messages:    messages,
		MaxTokens:   s.params.MaxTokens,
		Temperature: s.params.Temperature,
		TopP:        s.params.TopP,
		Stop:        s.params.Stop,
		Stream:      s.adapter.stream,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return FinalResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.adapter.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return FinalResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.adapter.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.adapter.apiKey)
	}
	resp, err := s.adapter.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return FinalResult{}, ctx.Err()
		}
		return FinalResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return FinalResult{}, fmt.Errorf("http %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	if s.adapter.stream {
		return s.readStream(ctx, resp.Body, onToken)
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return FinalResult{}, ctx.Err()
		}
		return FinalResult{}, fmt.Errorf("decode completion: %w", err)
	}
	if out.Error != nil && out.Error.Message != "" {
		return FinalResult{}, errors.New(out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return FinalResult{}, errors.New("completion has no choices")
	}
	final := FinalResult{
		Content:      out.Choices[0].Message.Content,
		Usage:        out.Usage,
		FinishReason: out.Choices[0].FinishReason,
	}
	if onToken != nil && final.Content != "" {
		if err := onToken(final.Content); err != nil {
			return final, err
		}
	}
	return final, nil
}

// readStream consumes a Server-Sent Events body of chat.completion.chunk lines.
func (s *openAISession) readStream(ctx context.Context, body io.Reader, onToken func(string) error) (FinalResult, error) {
	r := bufio.NewReader(body)
	var final FinalResult
	var sb strings.Builder
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(strings.ToLower(line), "data:") {
				data := strings.TrimSpace(line[len("data:"):])
				if data == "[DONE]" {
					break
				}
				var chunk chatStreamChunk
				if jerr := json.Unmarshal([]byte(data), &chunk); jerr == nil && len(chunk.Choices) > 0 {
					frag := chunk.Choices[0].Delta.Content
					if frag != "" {
						sb.WriteString(frag)
						if onToken != nil {
							if cbErr := onToken(frag); cbErr != nil {
								return final, cbErr
							}
						}
					}
					if fr := chunk.Choices[0].FinishReason; fr != "" {
						final.FinishReason = fr
					}
				} else {
					log.Debug().Str("adapter", "openai").Str("line", line).Msg("unknown stream line")
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if ctx.Err() != nil {
				return final, ctx.Err()
			}
			return final, err
		}
	}
	final.Content = sb.String()
	return final, nil
}

func (s *openAISession) Close() error { return nil }
