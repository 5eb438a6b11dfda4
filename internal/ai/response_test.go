package ai

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractJSONFromProse(t *testing.T) {
	text := "Here is my assessment:\n{\"score\": 82, \"action\": \"BUY\"}\nLet me know if you need more."
	got, err := ExtractJSON(text)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	want := `{"score": 82, "action": "BUY"}`
	if got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}

func TestExtractJSONFromMarkdownFence(t *testing.T) {
	text := "```json\n{\"score\": 75}\n```"
	got, err := ExtractJSON(text)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if got != `{"score": 75}` {
		t.Fatalf("got=%q", got)
	}
}

func TestExtractJSONNestedAndStrings(t *testing.T) {
	text := `note {"a": {"b": "brace } in string", "c": "escaped \" quote"}, "d": 1} trailing`
	got, err := ExtractJSON(text)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if !strings.HasPrefix(got, `{"a":`) || !strings.HasSuffix(got, `"d": 1}`) {
		t.Fatalf("got=%q", got)
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	if _, err := ExtractJSON("no payload here"); !errors.Is(err, errNoJSON) {
		t.Fatalf("err=%v want=%v", err, errNoJSON)
	}
}

func TestExtractJSONUnbalanced(t *testing.T) {
	if _, err := ExtractJSON(`{"score": 82`); err == nil {
		t.Fatal("expected error for unbalanced object")
	}
}

func TestParseAnalysis(t *testing.T) {
	text := `Based on the data:
{
  "score": 85,
  "action": "BUY",
  "confidence": "HIGH",
  "urgency": "MEDIUM",
  "reasoning": {
    "summary": "Strong momentum",
    "risk_factors": ["election delay"],
    "key_insights": ["whales accumulating"]
  },
  "entry_price": 0.62,
  "target_price": 0.8
}`
	a, err := ParseAnalysis(text)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if a.Score != 85 || a.Action != "BUY" || a.Confidence != "HIGH" || a.Urgency != "MEDIUM" {
		t.Fatalf("unexpected verdict: %+v", a)
	}
	if a.Reasoning.Summary != "Strong momentum" {
		t.Fatalf("summary=%q", a.Reasoning.Summary)
	}
	if a.EntryPrice == nil || *a.EntryPrice != 0.62 {
		t.Fatalf("entry_price=%v", a.EntryPrice)
	}
	if a.TargetPrice == nil || *a.TargetPrice != 0.8 {
		t.Fatalf("target_price=%v", a.TargetPrice)
	}
}

func TestParseAnalysisZeroScoreIsValid(t *testing.T) {
	a, err := ParseAnalysis(`{"score": 0, "action": "HOLD", "confidence": "LOW"}`)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if a.Score != 0 {
		t.Fatalf("score=%v want=0", a.Score)
	}
}

func TestParseAnalysisValidation(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		stage string
	}{
		{"missing score", `{"action": "BUY", "confidence": "HIGH"}`, "validate"},
		{"string score", `{"score": "85", "action": "BUY", "confidence": "HIGH"}`, "extract"},
		{"missing action", `{"score": 85, "confidence": "HIGH"}`, "validate"},
		{"missing confidence", `{"score": 85, "action": "BUY"}`, "validate"},
		{"no json", `nothing here`, "extract"},
	}
	for _, tc := range cases {
		_, err := ParseAnalysis(tc.text)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		var ae *AnalysisError
		if !errors.As(err, &ae) {
			t.Fatalf("%s: error type=%T want=*AnalysisError", tc.name, err)
		}
		if ae.Stage != tc.stage {
			t.Fatalf("%s: stage=%s want=%s", tc.name, ae.Stage, tc.stage)
		}
	}
}
