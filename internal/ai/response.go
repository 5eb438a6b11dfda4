package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	errNoJSON = errors.New("no JSON object found in response")
)

// ExtractJSON returns the first balanced brace-delimited substring of text.
// Model responses routinely wrap the payload in prose or markdown fencing, so
// brace depth is tracked manually, ignoring braces inside JSON strings.
func ExtractJSON(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", errNoJSON
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object in response")
}

// rawAnalysis keeps score as a pointer so a missing or non-numeric score is
// distinguishable from a legitimate zero.
type rawAnalysis struct {
	Score       *float64  `json:"score"`
	Action      string    `json:"action"`
	Confidence  string    `json:"confidence"`
	Urgency     string    `json:"urgency"`
	Reasoning   Reasoning `json:"reasoning"`
	EntryPrice  *float64  `json:"entry_price"`
	TargetPrice *float64  `json:"target_price"`
}

// ParseAnalysis extracts and validates the model's verdict from raw response
// text. Failures carry the stage they occurred in.
func ParseAnalysis(text string) (*Analysis, error) {
	payload, err := ExtractJSON(text)
	if err != nil {
		return nil, &AnalysisError{Stage: "extract", Err: err}
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, &AnalysisError{Stage: "extract", Err: err}
	}

	if raw.Score == nil {
		return nil, &AnalysisError{Stage: "validate", Err: errors.New("score missing or not numeric")}
	}
	if strings.TrimSpace(raw.Action) == "" {
		return nil, &AnalysisError{Stage: "validate", Err: errors.New("action missing")}
	}
	if strings.TrimSpace(raw.Confidence) == "" {
		return nil, &AnalysisError{Stage: "validate", Err: errors.New("confidence missing")}
	}

	return &Analysis{
		Score:       *raw.Score,
		Action:      raw.Action,
		Confidence:  raw.Confidence,
		Urgency:     raw.Urgency,
		Reasoning:   raw.Reasoning,
		EntryPrice:  raw.EntryPrice,
		TargetPrice: raw.TargetPrice,
	}, nil
}
