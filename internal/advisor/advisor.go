// Package advisor turns property and tenant data into model prompts and
// post-processes the model output into API responses.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"propadvisor/internal/manager"
	"propadvisor/pkg/types"
)

// Endpoint names, used for metrics, logs and output schemas.
const (
	EndpointAnalyze   = "analyze"
	EndpointChecklist = "checklist"
	EndpointLoan      = "loan"
	EndpointSolution  = "solution"
)

// Chatter runs one generation. *manager.Manager implements it.
type Chatter interface {
	Chat(ctx context.Context, req manager.ChatRequest) (string, error)
}

// Service runs the advisory endpoints against a model backend.
type Service struct {
	llm Chatter
}

// New returns a Service that sends prompts to llm.
func New(llm Chatter) *Service {
	return &Service{llm: llm}
}

func messages(system, user string) []manager.Message {
	return []manager.Message{
		{Role: manager.RoleSystem, Content: system},
		{Role: manager.RoleUser, Content: user},
	}
}

// AnalyzeMessages builds the risk analysis prompt.
func AnalyzeMessages(r types.AnalyzeRequest) []manager.Message {
	return messages(analyzeSystemPrompt,
		fmt.Sprintf(analyzeUserPrompt, FormatProperty(r.PropertyInfo), FormatAttachments(r.Files)))
}

// ChecklistMessages builds the pre-contract checklist prompt.
func ChecklistMessages(r types.ChecklistRequest) []manager.Message {
	return messages(checklistSystemPrompt, fmt.Sprintf(checklistUserPrompt, FormatChecklistProperty(r)))
}

// LoanMessages builds the loan guide prompt.
func LoanMessages(r types.LoanGuideRequest) []manager.Message {
	keyword := strings.TrimSpace(r.GuideKeyword)
	if keyword == "" {
		keyword = DefaultGuideKeyword
	}
	return messages(loanSystemPrompt,
		fmt.Sprintf(loanUserPrompt, FormatLoanProfile(r), keyword, FormatGuideLinks(r.GuideURLs)))
}

// SolutionMessages builds the mitigation plan prompt. Details from /analyze
// are re-encoded compactly when they are JSON and used verbatim otherwise.
func SolutionMessages(r types.SolutionRequest) []manager.Message {
	details := r.Details
	if v, ok := ParseJSON(details); ok {
		details = compactJSON(v)
	}
	return messages(solutionSystemPrompt,
		fmt.Sprintf(solutionUserPrompt,
			FormatProperty(r.PropertyInfo),
			formatNumber(r.TotalRisk),
			r.Summary,
			details,
			FormatAttachments(r.Files)))
}

// Analyze scores the risk of a listing.
func (s *Service) Analyze(ctx context.Context, r types.AnalyzeRequest) (Reply, error) {
	if err := ValidateAnalyze(r); err != nil {
		return Reply{}, err
	}
	out, err := s.call(ctx, EndpointAnalyze, AnalyzeTemperature, AnalyzeMessages(r))
	if err != nil {
		return Reply{}, err
	}
	var typed types.AnalyzeResult
	return buildReply(ctx, EndpointAnalyze, out, &typed), nil
}

// Checklist lists items to verify before signing. Output that is not a
// {"contents": [...]} object is split into lines.
func (s *Service) Checklist(ctx context.Context, r types.ChecklistRequest) (types.ChecklistResponse, error) {
	if err := ValidateChecklist(r); err != nil {
		return types.ChecklistResponse{}, err
	}
	out, err := s.call(ctx, EndpointChecklist, ChecklistTemperature, ChecklistMessages(r))
	if err != nil {
		return types.ChecklistResponse{}, err
	}
	if v, ok := ParseJSON(out); ok {
		if obj, ok := v.(map[string]any); ok {
			if list, ok := obj["contents"].([]any); ok {
				outcome := outcomeTyped
				if CheckOutput(EndpointChecklist, v) != nil {
					outcome = outcomePassthrough
				}
				outputParseTotal.WithLabelValues(EndpointChecklist, outcome).Inc()
				return types.ChecklistResponse{Contents: stringItems(list)}, nil
			}
		}
	}
	outputParseTotal.WithLabelValues(EndpointChecklist, outcomeSplit).Inc()
	zerolog.Ctx(ctx).Debug().Str("endpoint", EndpointChecklist).Msg("checklist output not a contents object; splitting lines")
	return types.ChecklistResponse{Contents: SplitItems(out)}, nil
}

// LoanGuide recommends a loan plan. Reference links from the request are
// echoed as sources.
func (s *Service) LoanGuide(ctx context.Context, r types.LoanGuideRequest) (Reply, error) {
	if err := ValidateLoan(r); err != nil {
		return Reply{}, err
	}
	out, err := s.call(ctx, EndpointLoan, LoanTemperature, LoanMessages(r))
	if err != nil {
		return Reply{}, err
	}
	var typed types.LoanGuide
	reply := buildReply(ctx, EndpointLoan, out, &typed)
	if len(r.GuideURLs) == 0 {
		return reply, nil
	}
	if m, ok := reply.Value.(map[string]any); ok {
		m["sources"] = r.GuideURLs
		return reply, nil
	}
	// not an object: nowhere to attach sources
	reply.Value = nil
	reply.Conforms = false
	reply.Sources = r.GuideURLs
	return reply, nil
}

// Solution proposes mitigations for an analyzed listing.
func (s *Service) Solution(ctx context.Context, r types.SolutionRequest) (Reply, error) {
	if err := ValidateSolution(r); err != nil {
		return Reply{}, err
	}
	out, err := s.call(ctx, EndpointSolution, SolutionTemperature, SolutionMessages(r))
	if err != nil {
		return Reply{}, err
	}
	var typed types.SolutionPlan
	return buildReply(ctx, EndpointSolution, out, &typed), nil
}

func (s *Service) call(ctx context.Context, endpoint string, temperature float64, msgs []manager.Message) (string, error) {
	return s.llm.Chat(ctx, manager.ChatRequest{
		Messages:    msgs,
		Temperature: temperature,
		Endpoint:    endpoint,
	})
}

// buildReply parses out and returns the parsed value unchanged. typed (a
// pointer to the result struct) only decides whether the output conforms to
// the endpoint schema.
func buildReply(ctx context.Context, endpoint, out string, typed any) Reply {
	reply := Reply{RawOutput: out}
	v, ok := ParseJSON(out)
	if !ok {
		outputParseTotal.WithLabelValues(endpoint, outcomeRaw).Inc()
		zerolog.Ctx(ctx).Debug().Str("endpoint", endpoint).Int("output_len", len(out)).Msg("model output is not JSON")
		return reply
	}
	reply.Value = v
	if err := CheckOutput(endpoint, v); err != nil {
		outputParseTotal.WithLabelValues(endpoint, outcomePassthrough).Inc()
		zerolog.Ctx(ctx).Debug().Err(err).Str("endpoint", endpoint).Msg("model output passed through")
		return reply
	}
	if err := decodeInto(v, typed); err != nil {
		outputParseTotal.WithLabelValues(endpoint, outcomePassthrough).Inc()
		return reply
	}
	outputParseTotal.WithLabelValues(endpoint, outcomeTyped).Inc()
	reply.Conforms = true
	return reply
}

// stringItems renders list entries as strings. Strings are kept as-is and
// other entries are JSON-encoded.
func stringItems(list []any) []string {
	items := make([]string, 0, len(list))
	for _, it := range list {
		if s, ok := it.(string); ok {
			items = append(items, s)
			continue
		}
		items = append(items, compactJSON(it))
	}
	return items
}
