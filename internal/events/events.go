package events

import "time"

type RunCreatedEvent struct {
	RunID     string `json:"run_id"`
	ProjectID string `json:"project_id"`
	TopK      int    `json:"top_k"`
}

type RunStartedEvent struct {
	RunID      string `json:"run_id"`
	ProjectID  string `json:"project_id"`
	Candidates int    `json:"candidates"`
}

type RunCompletedEvent struct {
	RunID      string  `json:"run_id"`
	ProjectID  string  `json:"project_id"`
	Candidates int     `json:"candidates"`
	Ranked     int     `json:"ranked"`
	PairErrors int     `json:"pair_errors"`
	TopScore   float64 `json:"top_score"`
	CacheHit   bool    `json:"cache_hit"`
	DurationMs int64   `json:"duration_ms"`
}

type RunFailedEvent struct {
	RunID     string `json:"run_id"`
	ProjectID string `json:"project_id"`
	Error     string `json:"error"`
}

type RunExportedEvent struct {
	RunID     string    `json:"run_id"`
	ProjectID string    `json:"project_id"`
	Rows      int       `json:"rows"`
	Timestamp time.Time `json:"timestamp"`
}
