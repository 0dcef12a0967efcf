package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/talentmesh/staffmatch/internal/config"
	"github.com/talentmesh/staffmatch/internal/matching"
	"github.com/talentmesh/staffmatch/internal/store"
)

type memStore struct {
	mu        sync.Mutex
	employees map[string]*store.Employee
	projects  map[string]*store.Project
	runs      map[uuid.UUID]*store.MatchRun
	results   map[uuid.UUID][]*store.MatchResult
}

func newMemStore() *memStore {
	return &memStore{
		employees: make(map[string]*store.Employee),
		projects:  make(map[string]*store.Project),
		runs:      make(map[uuid.UUID]*store.MatchRun),
		results:   make(map[uuid.UUID][]*store.MatchResult),
	}
}

func (m *memStore) UpsertEmployee(_ context.Context, e *store.Employee) error {
	m.employees[e.ID] = e
	return nil
}
func (m *memStore) GetEmployee(_ context.Context, id string) (*store.Employee, error) {
	return m.employees[id], nil
}
func (m *memStore) ListEmployees(_ context.Context) ([]*store.Employee, error) {
	var out []*store.Employee
	for _, e := range m.employees {
		out = append(out, e)
	}
	return out, nil
}
func (m *memStore) DeleteEmployee(_ context.Context, id string) error {
	delete(m.employees, id)
	return nil
}
func (m *memStore) UpsertProject(_ context.Context, p *store.Project) error {
	m.projects[p.ID] = p
	return nil
}
func (m *memStore) GetProject(_ context.Context, id string) (*store.Project, error) {
	return m.projects[id], nil
}
func (m *memStore) ListProjects(_ context.Context) ([]*store.Project, error) {
	var out []*store.Project
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}
func (m *memStore) DeleteProject(_ context.Context, id string) error {
	delete(m.projects, id)
	return nil
}
func (m *memStore) CreateRun(_ context.Context, run *store.MatchRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.ID = uuid.New()
	run.CreatedAt = time.Now()
	c := *run
	m.runs[run.ID] = &c
	return nil
}
func (m *memStore) GetRun(_ context.Context, id uuid.UUID) (*store.MatchRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}
func (m *memStore) ListRuns(_ context.Context, _ store.RunFilter) ([]*store.MatchRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.MatchRun
	for _, r := range m.runs {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}
func (m *memStore) UpdateRun(_ context.Context, run *store.MatchRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *run
	m.runs[run.ID] = &c
	return nil
}
func (m *memStore) GetPendingRuns(_ context.Context) ([]*store.MatchRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.MatchRun
	for _, r := range m.runs {
		if r.Status == store.RunStatusPending {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}
func (m *memStore) SaveResults(_ context.Context, runID uuid.UUID, results []*store.MatchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[runID] = results
	return nil
}
func (m *memStore) GetResults(_ context.Context, runID uuid.UUID) ([]*store.MatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results[runID], nil
}
func (m *memStore) GetStats(_ context.Context) (*store.Stats, error) {
	return &store.Stats{Employees: len(m.employees)}, nil
}
func (m *memStore) Close() error { return nil }

func setupEngine(t *testing.T) (*Engine, *memStore) {
	t.Helper()
	ms := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Matching: config.MatchingConfig{
			Weights:        matching.DefaultWeights(),
			TickIntervalMs: 100,
			Workers:        4,
		},
	}
	return New(ms, nil, nil, nil, cfg, logger), ms
}

func seedRoster(ms *memStore) {
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	ms.employees["emp-strong"] = &store.Employee{
		ID:              "emp-strong",
		Skills:          map[string]int{"go": 9, "postgres": 8},
		YearsExperience: 10,
		AvailableFrom:   &from,
		WeeklyHours:     40,
		Domains:         []string{"fintech"},
	}
	ms.employees["emp-weak"] = &store.Employee{
		ID:              "emp-weak",
		Skills:          map[string]int{"react": 5},
		YearsExperience: 2,
		AvailableFrom:   &from,
		WeeklyHours:     20,
	}
	ms.employees["emp-broken"] = &store.Employee{
		ID: "emp-broken", // no skills, fails normalization
	}
	ms.projects["proj-1"] = &store.Project{
		ID:             "proj-1",
		RequiredSkills: map[string]int{"go": 7, "postgres": 6},
		MinYears:       5,
		EffortHours:    160,
		Domains:        []string{"fintech"},
		Complexity:     7,
	}
}

func pendingRun(ms *memStore, projectID string) *store.MatchRun {
	run := &store.MatchRun{ProjectID: projectID, Status: store.RunStatusPending}
	_ = ms.CreateRun(context.Background(), run)
	return run
}

func TestExecuteRunCompletes(t *testing.T) {
	eng, ms := setupEngine(t)
	seedRoster(ms)
	run := pendingRun(ms, "proj-1")

	if err := eng.ExecuteRun(context.Background(), run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if run.Status != store.RunStatusCompleted {
		t.Fatalf("expected completed, got %s", run.Status)
	}
	if run.Candidates != 3 {
		t.Errorf("expected 3 candidates, got %d", run.Candidates)
	}
	if run.Ranked != 2 {
		t.Errorf("expected 2 ranked, got %d", run.Ranked)
	}
	if len(run.PairErrors) != 1 {
		t.Fatalf("expected 1 pair error, got %d", len(run.PairErrors))
	}
	if run.PairErrors[0].EmployeeID != "emp-broken" {
		t.Errorf("expected emp-broken in pair errors, got %s", run.PairErrors[0].EmployeeID)
	}
	if run.StartedAt == nil || run.CompletedAt == nil {
		t.Error("expected timestamps set")
	}

	results := ms.results[run.ID]
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].EmployeeID != "emp-strong" {
		t.Errorf("expected emp-strong ranked first, got %s", results[0].EmployeeID)
	}
	if results[0].Rank != 1 || results[1].Rank != 2 {
		t.Errorf("ranks not sequential: %d, %d", results[0].Rank, results[1].Rank)
	}
	if results[0].Aggregate < results[1].Aggregate {
		t.Error("results not ordered by aggregate")
	}
	if results[0].Criteria["skill_overlap"] == nil {
		t.Error("expected per-criterion breakdown persisted")
	}
}

func TestExecuteRunTopK(t *testing.T) {
	eng, ms := setupEngine(t)
	seedRoster(ms)
	run := pendingRun(ms, "proj-1")
	run.TopK = 1

	if err := eng.ExecuteRun(context.Background(), run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Ranked != 1 {
		t.Errorf("expected 1 ranked with top-k 1, got %d", run.Ranked)
	}
	if got := ms.results[run.ID]; len(got) != 1 || got[0].EmployeeID != "emp-strong" {
		t.Errorf("expected only emp-strong kept, got %v", got)
	}
}

func TestExecuteRunDefaultTopK(t *testing.T) {
	eng, ms := setupEngine(t)
	eng.cfg.Matching.DefaultTopK = 1
	seedRoster(ms)
	run := pendingRun(ms, "proj-1")

	if err := eng.ExecuteRun(context.Background(), run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.TopK != 1 {
		t.Errorf("expected configured default top-k applied, got %d", run.TopK)
	}
	if run.Ranked != 1 {
		t.Errorf("expected 1 ranked with default top-k 1, got %d", run.Ranked)
	}

	// An explicit top-k on the run wins over the default.
	explicit := pendingRun(ms, "proj-1")
	explicit.TopK = 2
	if err := eng.ExecuteRun(context.Background(), explicit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if explicit.Ranked != 2 {
		t.Errorf("expected explicit top-k 2 to rank 2, got %d", explicit.Ranked)
	}
}

func TestExecuteRunProjectNotFound(t *testing.T) {
	eng, ms := setupEngine(t)
	run := pendingRun(ms, "proj-missing")

	if err := eng.ExecuteRun(context.Background(), run); err == nil {
		t.Fatal("expected error for missing project")
	}
	if run.Status != store.RunStatusFailed {
		t.Errorf("expected failed, got %s", run.Status)
	}
	if run.Error == "" {
		t.Error("expected error recorded on run")
	}
}

func TestExecuteRunBadWeightOverrides(t *testing.T) {
	eng, ms := setupEngine(t)
	seedRoster(ms)

	t.Run("unrecognized criterion", func(t *testing.T) {
		run := pendingRun(ms, "proj-1")
		run.Weights = map[string]float64{"charisma": 1}
		if err := eng.ExecuteRun(context.Background(), run); err == nil {
			t.Fatal("expected error")
		}
		if run.Status != store.RunStatusFailed {
			t.Errorf("expected failed, got %s", run.Status)
		}
	})

	t.Run("all zero", func(t *testing.T) {
		run := pendingRun(ms, "proj-1")
		run.Weights = map[string]float64{
			"skill_overlap": 0, "seniority_fit": 0, "availability_fit": 0,
			"domain_fit": 0, "language_fit": 0, "location_fit": 0, "certification_fit": 0,
		}
		if err := eng.ExecuteRun(context.Background(), run); err == nil {
			t.Fatal("expected error")
		}
		if run.Status != store.RunStatusFailed {
			t.Errorf("expected failed, got %s", run.Status)
		}
	})
}

func TestExecuteRunInvalidProject(t *testing.T) {
	eng, ms := setupEngine(t)
	ms.projects["proj-empty"] = &store.Project{ID: "proj-empty"}
	run := pendingRun(ms, "proj-empty")

	if err := eng.ExecuteRun(context.Background(), run); err == nil {
		t.Fatal("expected error for project without required skills")
	}
	if run.Status != store.RunStatusFailed {
		t.Errorf("expected failed, got %s", run.Status)
	}
}

func TestExecuteRunDeterministic(t *testing.T) {
	eng, ms := setupEngine(t)
	seedRoster(ms)

	first := pendingRun(ms, "proj-1")
	if err := eng.ExecuteRun(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 5; i++ {
		run := pendingRun(ms, "proj-1")
		if err := eng.ExecuteRun(context.Background(), run); err != nil {
			t.Fatalf("unexpected error on repeat %d: %v", i, err)
		}
		a, b := ms.results[first.ID], ms.results[run.ID]
		if len(a) != len(b) {
			t.Fatalf("result count differs on repeat %d", i)
		}
		for j := range a {
			if a[j].EmployeeID != b[j].EmployeeID || a[j].Aggregate != b[j].Aggregate {
				t.Fatalf("results differ on repeat %d at rank %d", i, j+1)
			}
		}
	}
}

func TestStartStop(t *testing.T) {
	eng, ms := setupEngine(t)
	seedRoster(ms)
	run := pendingRun(ms, "proj-1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eng.Start(ctx)

	deadline := time.After(3 * time.Second)
	for {
		stored, _ := ms.GetRun(ctx, run.ID)
		if stored != nil && stored.Status == store.RunStatusCompleted {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("run never completed")
		case <-time.After(50 * time.Millisecond):
		}
	}
	eng.Stop()
}

func TestSyncDirectoryWithoutClient(t *testing.T) {
	eng, _ := setupEngine(t)
	if _, _, err := eng.SyncDirectory(context.Background()); err == nil {
		t.Error("expected error without a directory client")
	}
}
