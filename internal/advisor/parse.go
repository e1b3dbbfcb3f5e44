package advisor

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// ParseJSON extracts a JSON value from model output. It tries a strict parse,
// then the text with markdown code fences removed, then the first balanced
// {...} object. Empty results ({}, [], "", null) are reported as not parsed.
func ParseJSON(text string) (any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	candidates := []string{text}
	if stripped := stripCodeFences(text); stripped != text {
		candidates = append(candidates, stripped)
	}
	if obj := extractJSONObject(text); obj != "" {
		candidates = append(candidates, obj)
	}
	for _, c := range candidates {
		if v, ok := decodeStrict(c); ok && !isEmptyValue(v) {
			return v, true
		}
	}
	return nil, false
}

func decodeStrict(s string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// trailing data means s was not a single JSON value
	if strings.TrimSpace(s[dec.InputOffset():]) != "" {
		return nil, false
	}
	return v, true
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case string:
		return t == ""
	}
	return false
}

// stripCodeFences removes a surrounding ```json ... ``` block.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "```"); i >= 0 {
			s = s[i:]
		} else {
			return s
		}
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		lang := strings.TrimSpace(s[:nl])
		if lang == "" || !strings.ContainsAny(lang, "{[\"") {
			s = s[nl+1:]
		}
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// extractJSONObject returns the first balanced {...} in s, honoring strings
// and escapes, or "" when there is none.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

var bulletPrefix = regexp.MustCompile(`^(?:[-*•·]+|\d+[.)])\s*`)

// SplitItems is the line-split fallback for list outputs: one item per
// non-empty line with leading bullets or numbering removed.
func SplitItems(text string) []string {
	items := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}

// compactJSON renders v without HTML escaping so Korean text stays readable
// in prompts.
func compactJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}
