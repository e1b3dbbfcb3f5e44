package advisor

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const guideItemsSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title", "content"],
    "properties": {
      "title": {"type": "string"},
      "content": {"type": "string"}
    }
  }
}`

var schemaSources = map[string]string{
	EndpointAnalyze: `{
  "type": "object",
  "required": ["totalRisk", "summary", "details"],
  "properties": {
    "totalRisk": {"type": "integer", "minimum": 0, "maximum": 100},
    "summary": {"type": "string"},
    "details": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "content", "severity"],
        "properties": {
          "title": {"type": "string"},
          "content": {"type": "string"},
          "severity": {"enum": ["low", "medium", "high"]}
        }
      }
    }
  }
}`,
	EndpointChecklist: `{
  "type": "object",
  "required": ["contents"],
  "properties": {
    "contents": {"type": "array", "items": {"type": "string"}}
  }
}`,
	EndpointLoan: `{
  "type": "object",
  "required": ["loanAmount", "interestRate", "ownCapital", "monthlyInterest",
               "managementFee", "totalMonthlyCost", "loans", "procedures", "channels", "advance"],
  "properties": {
    "loanAmount": {"type": "number"},
    "interestRate": {"type": "number"},
    "ownCapital": {"type": "number"},
    "monthlyInterest": {"type": "number"},
    "managementFee": {"type": "number"},
    "totalMonthlyCost": {"type": "number"},
    "loans": ` + guideItemsSchema + `,
    "procedures": ` + guideItemsSchema + `,
    "channels": ` + guideItemsSchema + `,
    "advance": ` + guideItemsSchema + `
  }
}`,
	EndpointSolution: `{
  "type": "object",
  "required": ["coping", "checklist"],
  "properties": {
    "coping": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "actions"],
        "properties": {
          "title": {"type": "string"},
          "actions": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "checklist": {"type": "array", "items": {"type": "string"}}
  }
}`,
}

var schemas = mustCompileSchemas(schemaSources)

func mustCompileSchemas(src map[string]string) map[string]*gojsonschema.Schema {
	out := make(map[string]*gojsonschema.Schema, len(src))
	for name, s := range src {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
		if err != nil {
			panic(fmt.Sprintf("advisor: compile %s output schema: %v", name, err))
		}
		out[name] = schema
	}
	return out
}

// CheckOutput validates a parsed model output against the endpoint's output
// schema. It returns nil when the value conforms.
func CheckOutput(endpoint string, v any) error {
	schema, ok := schemas[endpoint]
	if !ok {
		return fmt.Errorf("no output schema for %q", endpoint)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(v))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("output does not match schema: %s", strings.Join(msgs, "; "))
}
