package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/talentmesh/staffmatch/internal/cache"
	"github.com/talentmesh/staffmatch/internal/config"
	"github.com/talentmesh/staffmatch/internal/directory"
	"github.com/talentmesh/staffmatch/internal/events"
	"github.com/talentmesh/staffmatch/internal/matching"
	"github.com/talentmesh/staffmatch/internal/store"
)

// Engine claims pending match runs from the store and executes them. One
// engine instance owns the run lifecycle: pending -> running -> completed or
// failed.
type Engine struct {
	store     store.Store
	events    events.Client
	cache     *cache.ResultCache
	directory directory.Client
	cfg       *config.Config
	logger    *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, ev events.Client, rc *cache.ResultCache, dir directory.Client, cfg *config.Config, logger *slog.Logger) *Engine {
	return &Engine{
		store:     s,
		events:    ev,
		cache:     rc,
		directory: dir,
		cfg:       cfg,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

func (e *Engine) Start(ctx context.Context) {
	e.wg.Add(1)
	go e.runLoop(ctx)
}

func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
	e.wg.Wait()
}

func (e *Engine) runLoop(ctx context.Context) {
	defer e.wg.Done()
	ticker := time.NewTicker(e.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.processPendingRuns(ctx)
		}
	}
}

func (e *Engine) processPendingRuns(ctx context.Context) {
	runs, err := e.store.GetPendingRuns(ctx)
	if err != nil {
		e.logger.Error("failed to get pending runs", "error", err)
		return
	}
	for _, run := range runs {
		if err := e.ExecuteRun(ctx, run); err != nil {
			e.logger.Warn("run execution failed", "run_id", run.ID, "error", err)
		}
	}
}

// ExecuteRun carries one match run from pending to a terminal status. A bad
// project, requirement, or weight set fails the whole run; a bad employee
// profile only records a pair error and drops that candidate.
func (e *Engine) ExecuteRun(ctx context.Context, run *store.MatchRun) error {
	started := time.Now()
	if run.TopK <= 0 {
		run.TopK = e.cfg.Matching.DefaultTopK
	}
	run.Status = store.RunStatusRunning
	run.StartedAt = &started
	if err := e.store.UpdateRun(ctx, run); err != nil {
		return err
	}
	if e.events != nil {
		_ = e.events.Publish(events.SubjectRunStarted(run.ID.String()), events.RunStartedEvent{
			RunID:     run.ID.String(),
			ProjectID: run.ProjectID,
		})
	}

	project, err := e.store.GetProject(ctx, run.ProjectID)
	if err != nil {
		return e.failRun(ctx, run, fmt.Errorf("load project: %w", err))
	}
	if project == nil {
		return e.failRun(ctx, run, fmt.Errorf("project %q not found", run.ProjectID))
	}

	employees, err := e.store.ListEmployees(ctx)
	if err != nil {
		return e.failRun(ctx, run, fmt.Errorf("load employees: %w", err))
	}

	weights, err := e.cfg.Matching.Weights.Apply(run.Weights)
	if err != nil {
		return e.failRun(ctx, run, err)
	}
	agg, err := matching.NewAggregator(weights)
	if err != nil {
		return e.failRun(ctx, run, err)
	}

	requirement, err := matching.NormalizeRequirement(project)
	if err != nil {
		return e.failRun(ctx, run, err)
	}

	run.Candidates = len(employees)

	key := cache.Key(employees, project, agg.Weights())
	if cached, ok := e.cache.Get(ctx, key); ok {
		cacheHits.Inc()
		run.CacheHit = true
		return e.completeRun(ctx, run, trimRanked(*cached, run.TopK), started)
	}

	scores, errs := e.scorePairs(employees, requirement, agg)
	run.PairErrors = errs

	ranked := matching.Rank(run.ProjectID, scores, agg.Weights(), 0)
	e.cache.Set(ctx, key, ranked)

	return e.completeRun(ctx, run, trimRanked(ranked, run.TopK), started)
}

// scorePairs fans the candidate pool out over a bounded worker pool. Results
// land in slots indexed by input position, so worker scheduling cannot change
// the order handed to ranking.
func (e *Engine) scorePairs(employees []*store.Employee, requirement *matching.Requirement, agg *matching.Aggregator) ([]matching.MatchScore, []store.PairError) {
	type slot struct {
		score matching.MatchScore
		err   error
		id    string
	}
	slots := make([]slot, len(employees))

	workers := e.cfg.Matching.Workers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, emp := range employees {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, emp *store.Employee) {
			defer wg.Done()
			defer func() { <-sem }()

			profile, err := matching.NormalizeEmployee(emp)
			if err != nil {
				slots[i] = slot{err: err, id: emp.ID}
				return
			}
			results := matching.ScorePair(profile, requirement)
			score, err := agg.Aggregate(profile.ID, requirement.ID, results)
			if err != nil {
				slots[i] = slot{err: err, id: emp.ID}
				return
			}
			slots[i] = slot{score: score, id: emp.ID}
		}(i, emp)
	}
	wg.Wait()

	scores := make([]matching.MatchScore, 0, len(slots))
	var errs []store.PairError
	for _, s := range slots {
		if s.err != nil {
			pairErrors.Inc()
			e.logger.Warn("pair skipped", "employee_id", s.id, "project_id", requirement.ID, "error", s.err)
			errs = append(errs, store.PairError{
				EmployeeID: s.id,
				ProjectID:  requirement.ID,
				Error:      s.err.Error(),
			})
			continue
		}
		pairsScored.Inc()
		scores = append(scores, s.score)
	}
	return scores, errs
}

func (e *Engine) completeRun(ctx context.Context, run *store.MatchRun, ranked matching.RankedResult, started time.Time) error {
	results := make([]*store.MatchResult, 0, len(ranked.Scores))
	for i, s := range ranked.Scores {
		results = append(results, &store.MatchResult{
			RunID:      run.ID,
			ProjectID:  s.ProjectID,
			EmployeeID: s.EmployeeID,
			Rank:       i + 1,
			Aggregate:  s.Aggregate,
			Criteria:   criteriaMap(s.Criteria),
		})
	}
	if err := e.store.SaveResults(ctx, run.ID, results); err != nil {
		return e.failRun(ctx, run, fmt.Errorf("save results: %w", err))
	}

	now := time.Now()
	run.Status = store.RunStatusCompleted
	run.Ranked = len(results)
	run.CompletedAt = &now
	if err := e.store.UpdateRun(ctx, run); err != nil {
		return err
	}

	runsTotal.WithLabelValues(string(store.RunStatusCompleted)).Inc()
	runDuration.Observe(now.Sub(started).Seconds())

	var topScore float64
	if len(ranked.Scores) > 0 {
		topScore = ranked.Scores[0].Aggregate
	}
	if e.events != nil {
		_ = e.events.Publish(events.SubjectRunCompleted(run.ID.String()), events.RunCompletedEvent{
			RunID:      run.ID.String(),
			ProjectID:  run.ProjectID,
			Candidates: run.Candidates,
			Ranked:     run.Ranked,
			PairErrors: len(run.PairErrors),
			TopScore:   topScore,
			CacheHit:   run.CacheHit,
			DurationMs: now.Sub(started).Milliseconds(),
		})
	}

	e.logger.Info("run completed", "run_id", run.ID, "project_id", run.ProjectID,
		"candidates", run.Candidates, "ranked", run.Ranked,
		"pair_errors", len(run.PairErrors), "cache_hit", run.CacheHit)
	return nil
}

func (e *Engine) failRun(ctx context.Context, run *store.MatchRun, cause error) error {
	now := time.Now()
	run.Status = store.RunStatusFailed
	run.Error = cause.Error()
	run.CompletedAt = &now
	if err := e.store.UpdateRun(ctx, run); err != nil {
		e.logger.Error("failed to persist failed run", "run_id", run.ID, "error", err)
	}
	runsTotal.WithLabelValues(string(store.RunStatusFailed)).Inc()
	if e.events != nil {
		_ = e.events.Publish(events.SubjectRunFailed(run.ID.String()), events.RunFailedEvent{
			RunID:     run.ID.String(),
			ProjectID: run.ProjectID,
			Error:     cause.Error(),
		})
	}
	e.logger.Warn("run failed", "run_id", run.ID, "project_id", run.ProjectID, "error", cause)
	return cause
}

// SyncDirectory pulls the current roster from the HR directory and upserts
// it into the store. Returns the number of employees and projects synced.
func (e *Engine) SyncDirectory(ctx context.Context) (int, int, error) {
	if e.directory == nil {
		return 0, 0, fmt.Errorf("no directory configured")
	}

	employees, err := e.directory.ListEmployees(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list employees: %w", err)
	}
	for _, emp := range employees {
		if err := e.store.UpsertEmployee(ctx, emp); err != nil {
			return 0, 0, fmt.Errorf("upsert employee %s: %w", emp.ID, err)
		}
		if e.events != nil {
			_ = e.events.Publish(events.SubjectEmployeeUpserted(emp.ID), emp)
		}
	}

	projects, err := e.directory.ListProjects(ctx)
	if err != nil {
		return len(employees), 0, fmt.Errorf("list projects: %w", err)
	}
	for _, p := range projects {
		if err := e.store.UpsertProject(ctx, p); err != nil {
			return len(employees), 0, fmt.Errorf("upsert project %s: %w", p.ID, err)
		}
		if e.events != nil {
			_ = e.events.Publish(events.SubjectProjectUpserted(p.ID), p)
		}
	}

	e.logger.Info("directory synced", "employees", len(employees), "projects", len(projects))
	return len(employees), len(projects), nil
}

// SetupSubscriptions registers NATS handlers for roster pushes from external
// systems, so HR tooling can stream updates instead of waiting for a sync.
func (e *Engine) SetupSubscriptions() {
	if e.events == nil {
		return
	}

	_ = e.events.Subscribe("staffing.roster.employee.*.upserted", func(_ string, data []byte) {
		var emp store.Employee
		if err := json.Unmarshal(data, &emp); err != nil || emp.ID == "" {
			e.logger.Warn("invalid employee event", "error", err)
			return
		}
		if err := e.store.UpsertEmployee(context.Background(), &emp); err != nil {
			e.logger.Error("failed to upsert employee from event", "employee_id", emp.ID, "error", err)
		}
	})

	_ = e.events.Subscribe("staffing.roster.project.*.upserted", func(_ string, data []byte) {
		var p store.Project
		if err := json.Unmarshal(data, &p); err != nil || p.ID == "" {
			e.logger.Warn("invalid project event", "error", err)
			return
		}
		if err := e.store.UpsertProject(context.Background(), &p); err != nil {
			e.logger.Error("failed to upsert project from event", "project_id", p.ID, "error", err)
		}
	})
}

func trimRanked(r matching.RankedResult, topK int) matching.RankedResult {
	if topK <= 0 || topK >= len(r.Scores) {
		return r
	}
	return matching.RankedResult{ProjectID: r.ProjectID, Scores: r.Scores[:topK]}
}

func criteriaMap(results []matching.CriterionResult) map[string]interface{} {
	m := make(map[string]interface{}, len(results))
	for _, c := range results {
		m[c.Name] = map[string]interface{}{
			"score":     c.Score,
			"weight":    c.Weight,
			"weighted":  c.Weighted,
			"available": c.Available,
			"reason":    c.Reason,
		}
	}
	return m
}
