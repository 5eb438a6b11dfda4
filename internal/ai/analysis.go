package ai

import "fmt"

// Reasoning is the structured explanation block returned by the model and
// stored verbatim in the signal's jsonb column.
type Reasoning struct {
	Summary        string   `json:"summary"`
	WhaleAnalysis  string   `json:"whale_analysis,omitempty"`
	NewsAnalysis   string   `json:"news_analysis,omitempty"`
	RedditAnalysis string   `json:"reddit_analysis,omitempty"`
	RiskFactors    []string `json:"risk_factors,omitempty"`
	KeyInsights    []string `json:"key_insights,omitempty"`
	ExpectedReturn string   `json:"expected_return,omitempty"`
	TimeHorizon    string   `json:"time_horizon,omitempty"`
}

// Analysis is the validated verdict for one market.
type Analysis struct {
	Score       float64   `json:"score"`
	Action      string    `json:"action"`
	Confidence  string    `json:"confidence"`
	Urgency     string    `json:"urgency"`
	Reasoning   Reasoning `json:"reasoning"`
	EntryPrice  *float64  `json:"entry_price,omitempty"`
	TargetPrice *float64  `json:"target_price,omitempty"`
}

// AnalysisError wraps any failure between the model call and a validated
// Analysis: the request itself, locating a JSON payload in the response, or
// the payload failing shape validation.
type AnalysisError struct {
	Stage string
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis %s failed: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
