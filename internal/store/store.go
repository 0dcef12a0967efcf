package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Employee is a raw staff record as loaded from the HR directory.
// Immutable for the duration of a match run.
type Employee struct {
	ID   string `json:"employee_id"`
	Name string `json:"name,omitempty"`

	// Skills maps skill tag to proficiency level (1-10).
	Skills          map[string]int    `json:"skills"`
	YearsExperience float64           `json:"years_experience"`
	AvailableFrom   *time.Time        `json:"available_from,omitempty"`
	WeeklyHours     float64           `json:"weekly_hours"`
	Domains         []string          `json:"domains,omitempty"`
	Languages       map[string]string `json:"languages,omitempty"` // language -> CEFR level
	Location        string            `json:"location,omitempty"`
	Flexibility     string            `json:"flexibility,omitempty"` // remote, hybrid, onsite
	Certifications  []string          `json:"certifications,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project is a staffing requirement for an incoming engagement.
type Project struct {
	ID    string `json:"project_id"`
	Title string `json:"title,omitempty"`

	// RequiredSkills maps skill tag to minimum proficiency level (1-10).
	RequiredSkills map[string]int    `json:"required_skills"`
	MinYears       float64           `json:"min_years"`
	EffortHours    float64           `json:"effort_hours"`
	EndDate        *time.Time        `json:"end_date,omitempty"`
	Domains        []string          `json:"domains,omitempty"`
	Languages      map[string]string `json:"languages,omitempty"` // language -> required CEFR level
	Location       string            `json:"location,omitempty"`
	Flexibility    string            `json:"flexibility,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
	Complexity     int               `json:"complexity"` // 0-10

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// PairError records a single (employee, project) pair that could not be
// scored. Pair errors never abort the run.
type PairError struct {
	EmployeeID string `json:"employee_id"`
	ProjectID  string `json:"project_id"`
	Error      string `json:"error"`
}

// MatchRun is one ranking computation over a project's candidate pool.
type MatchRun struct {
	ID        uuid.UUID `json:"run_id"`
	ProjectID string    `json:"project_id"`
	Status    RunStatus `json:"status"`

	// Weights holds the per-criterion weight overrides for this run;
	// empty means the configured defaults apply.
	Weights map[string]float64 `json:"weights,omitempty"`
	TopK    int                `json:"top_k"`

	Candidates int         `json:"candidates"`
	Ranked     int         `json:"ranked"`
	PairErrors []PairError `json:"pair_errors,omitempty"`
	Error      string      `json:"error,omitempty"`
	CacheHit   bool        `json:"cache_hit"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// MatchResult is one persisted row of a ranked result set.
type MatchResult struct {
	RunID      uuid.UUID `json:"run_id"`
	ProjectID  string    `json:"project_id"`
	EmployeeID string    `json:"employee_id"`
	Rank       int       `json:"rank"`
	Aggregate  float64   `json:"aggregate"`

	// Criteria holds the per-criterion breakdown as stored (name ->
	// {score, weight, weighted, available, reason}).
	Criteria map[string]interface{} `json:"criteria,omitempty"`
}

type RunFilter struct {
	Status    *RunStatus
	ProjectID string
	Limit     int
	Offset    int
}

type Stats struct {
	Employees     int     `json:"employees"`
	Projects      int     `json:"projects"`
	RunsPending   int     `json:"runs_pending"`
	RunsCompleted int     `json:"runs_completed"`
	RunsFailed    int     `json:"runs_failed"`
	AvgRunMs      float64 `json:"avg_run_ms"`
}

type Store interface {
	UpsertEmployee(ctx context.Context, e *Employee) error
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	DeleteEmployee(ctx context.Context, id string) error

	UpsertProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	DeleteProject(ctx context.Context, id string) error

	CreateRun(ctx context.Context, run *MatchRun) error
	GetRun(ctx context.Context, id uuid.UUID) (*MatchRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]*MatchRun, error)
	UpdateRun(ctx context.Context, run *MatchRun) error
	GetPendingRuns(ctx context.Context) ([]*MatchRun, error)

	SaveResults(ctx context.Context, runID uuid.UUID, results []*MatchResult) error
	GetResults(ctx context.Context, runID uuid.UUID) ([]*MatchResult, error)

	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}
