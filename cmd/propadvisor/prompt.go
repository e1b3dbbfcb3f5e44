package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"propadvisor/internal/advisor"
	"propadvisor/internal/manager"
	"propadvisor/pkg/types"
)

func newPromptCmd() *cobra.Command {
	var (
		input  string
		attach []string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "prompt <analyze|checklist|loan|solution>",
		Short: "Render the model prompt for a request without calling the model",
		Example: "  propadvisor prompt loan --input loan.json\n" +
			"  propadvisor prompt analyze --input listing.json --attach registry.txt",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{advisor.EndpointAnalyze, advisor.EndpointChecklist, advisor.EndpointLoan, advisor.EndpointSolution},
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			files, err := readAttachments(attach)
			if err != nil {
				return err
			}
			msgs, err := renderPrompt(args[0], in, files)
			if err != nil {
				return err
			}
			return writeMessages(cmd.OutOrStdout(), msgs, asJSON)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON request file (- for stdin)")
	cmd.Flags().StringSliceVar(&attach, "attach", nil, "Attachment files for analyze/solution")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print messages as JSON")
	return cmd
}

func readAttachments(paths []string) ([]types.Attachment, error) {
	files := make([]types.Attachment, 0, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, types.Attachment{Filename: filepath.Base(p), Content: b})
	}
	return files, nil
}

// renderPrompt decodes a request for endpoint from r, validates it and
// builds the messages the service would send.
func renderPrompt(endpoint string, r io.Reader, files []types.Attachment) ([]manager.Message, error) {
	dec := json.NewDecoder(r)
	switch endpoint {
	case advisor.EndpointAnalyze:
		var req types.AnalyzeRequest
		if err := dec.Decode(&req.PropertyInfo); err != nil {
			return nil, fmt.Errorf("decode %s request: %w", endpoint, err)
		}
		req.Files = files
		if err := advisor.ValidateAnalyze(req); err != nil {
			return nil, err
		}
		return advisor.AnalyzeMessages(req), nil
	case advisor.EndpointChecklist:
		var req types.ChecklistRequest
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("decode %s request: %w", endpoint, err)
		}
		if err := advisor.ValidateChecklist(req); err != nil {
			return nil, err
		}
		return advisor.ChecklistMessages(req), nil
	case advisor.EndpointLoan:
		var req types.LoanGuideRequest
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("decode %s request: %w", endpoint, err)
		}
		if err := advisor.ValidateLoan(req); err != nil {
			return nil, err
		}
		return advisor.LoanMessages(req), nil
	case advisor.EndpointSolution:
		var req types.SolutionRequest
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("decode %s request: %w", endpoint, err)
		}
		req.Files = files
		if err := advisor.ValidateSolution(req); err != nil {
			return nil, err
		}
		return advisor.SolutionMessages(req), nil
	default:
		return nil, fmt.Errorf("unknown endpoint %q", endpoint)
	}
}

func writeMessages(w io.Writer, msgs []manager.Message, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(msgs)
	}
	for i, m := range msgs {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "### %s\n%s\n", m.Role, m.Content); err != nil {
			return err
		}
	}
	return nil
}
