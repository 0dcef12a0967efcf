package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// --- Employees ---

const employeeColumns = `employee_id, name, skills, years_experience, available_from,
	weekly_hours, domains, languages, location, flexibility, certifications,
	created_at, updated_at`

func (s *PostgresStore) UpsertEmployee(ctx context.Context, e *Employee) error {
	skillsJSON, _ := json.Marshal(e.Skills)
	languagesJSON, _ := json.Marshal(e.Languages)

	return s.pool.QueryRow(ctx, `
		INSERT INTO staffing_employees (employee_id, name, skills, years_experience,
			available_from, weekly_hours, domains, languages, location, flexibility, certifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (employee_id) DO UPDATE SET
			name = EXCLUDED.name, skills = EXCLUDED.skills,
			years_experience = EXCLUDED.years_experience,
			available_from = EXCLUDED.available_from, weekly_hours = EXCLUDED.weekly_hours,
			domains = EXCLUDED.domains, languages = EXCLUDED.languages,
			location = EXCLUDED.location, flexibility = EXCLUDED.flexibility,
			certifications = EXCLUDED.certifications, updated_at = now()
		RETURNING created_at, updated_at`,
		e.ID, e.Name, skillsJSON, e.YearsExperience,
		e.AvailableFrom, e.WeeklyHours, e.Domains, languagesJSON,
		e.Location, e.Flexibility, e.Certifications,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (s *PostgresStore) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM staffing_employees WHERE employee_id = $1`, id)
	e, err := scanEmployee(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (s *PostgresStore) ListEmployees(ctx context.Context) ([]*Employee, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+employeeColumns+`
		FROM staffing_employees ORDER BY employee_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *PostgresStore) DeleteEmployee(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM staffing_employees WHERE employee_id = $1`, id)
	return err
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	e := &Employee{}
	var skillsJSON, languagesJSON []byte
	if err := row.Scan(
		&e.ID, &e.Name, &skillsJSON, &e.YearsExperience, &e.AvailableFrom,
		&e.WeeklyHours, &e.Domains, &languagesJSON, &e.Location, &e.Flexibility,
		&e.Certifications, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if skillsJSON != nil {
		_ = json.Unmarshal(skillsJSON, &e.Skills)
	}
	if languagesJSON != nil {
		_ = json.Unmarshal(languagesJSON, &e.Languages)
	}
	return e, nil
}

// --- Projects ---

const projectColumns = `project_id, title, required_skills, min_years, effort_hours,
	end_date, domains, languages, location, flexibility, certifications, complexity,
	created_at, updated_at`

func (s *PostgresStore) UpsertProject(ctx context.Context, p *Project) error {
	skillsJSON, _ := json.Marshal(p.RequiredSkills)
	languagesJSON, _ := json.Marshal(p.Languages)

	return s.pool.QueryRow(ctx, `
		INSERT INTO staffing_projects (project_id, title, required_skills, min_years,
			effort_hours, end_date, domains, languages, location, flexibility,
			certifications, complexity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (project_id) DO UPDATE SET
			title = EXCLUDED.title, required_skills = EXCLUDED.required_skills,
			min_years = EXCLUDED.min_years, effort_hours = EXCLUDED.effort_hours,
			end_date = EXCLUDED.end_date, domains = EXCLUDED.domains,
			languages = EXCLUDED.languages, location = EXCLUDED.location,
			flexibility = EXCLUDED.flexibility, certifications = EXCLUDED.certifications,
			complexity = EXCLUDED.complexity, updated_at = now()
		RETURNING created_at, updated_at`,
		p.ID, p.Title, skillsJSON, p.MinYears,
		p.EffortHours, p.EndDate, p.Domains, languagesJSON,
		p.Location, p.Flexibility, p.Certifications, p.Complexity,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (s *PostgresStore) GetProject(ctx context.Context, id string) (*Project, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM staffing_projects WHERE project_id = $1`, id)
	p, err := scanProject(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (s *PostgresStore) ListProjects(ctx context.Context) ([]*Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+projectColumns+`
		FROM staffing_projects ORDER BY project_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *PostgresStore) DeleteProject(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM staffing_projects WHERE project_id = $1`, id)
	return err
}

func scanProject(row pgx.Row) (*Project, error) {
	p := &Project{}
	var skillsJSON, languagesJSON []byte
	if err := row.Scan(
		&p.ID, &p.Title, &skillsJSON, &p.MinYears, &p.EffortHours,
		&p.EndDate, &p.Domains, &languagesJSON, &p.Location, &p.Flexibility,
		&p.Certifications, &p.Complexity, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if skillsJSON != nil {
		_ = json.Unmarshal(skillsJSON, &p.RequiredSkills)
	}
	if languagesJSON != nil {
		_ = json.Unmarshal(languagesJSON, &p.Languages)
	}
	return p, nil
}

// --- Match runs ---

const runColumns = `run_id, project_id, status, weights, top_k, candidates, ranked,
	pair_errors, error, cache_hit, created_at, started_at, completed_at`

func (s *PostgresStore) CreateRun(ctx context.Context, run *MatchRun) error {
	weightsJSON, _ := json.Marshal(run.Weights)
	return s.pool.QueryRow(ctx, `
		INSERT INTO staffing_match_runs (project_id, status, weights, top_k)
		VALUES ($1, $2, $3, $4)
		RETURNING run_id, created_at`,
		run.ProjectID, run.Status, weightsJSON, run.TopK,
	).Scan(&run.ID, &run.CreatedAt)
}

func (s *PostgresStore) GetRun(ctx context.Context, id uuid.UUID) (*MatchRun, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+runColumns+`
		FROM staffing_match_runs WHERE run_id = $1`, id)
	run, err := scanRun(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return run, err
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]*MatchRun, error) {
	query := `SELECT ` + runColumns + ` FROM staffing_match_runs WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Status != nil {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, string(*filter.Status))
	}
	if filter.ProjectID != "" {
		n++
		query += fmt.Sprintf(" AND project_id = $%d", n)
		args = append(args, filter.ProjectID)
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*MatchRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *PostgresStore) UpdateRun(ctx context.Context, run *MatchRun) error {
	weightsJSON, _ := json.Marshal(run.Weights)
	pairErrorsJSON, _ := json.Marshal(run.PairErrors)
	_, err := s.pool.Exec(ctx, `
		UPDATE staffing_match_runs SET
			status = $2, weights = $3, top_k = $4, candidates = $5, ranked = $6,
			pair_errors = $7, error = $8, cache_hit = $9,
			started_at = $10, completed_at = $11
		WHERE run_id = $1`,
		run.ID, run.Status, weightsJSON, run.TopK, run.Candidates, run.Ranked,
		pairErrorsJSON, run.Error, run.CacheHit,
		run.StartedAt, run.CompletedAt,
	)
	return err
}

func (s *PostgresStore) GetPendingRuns(ctx context.Context) ([]*MatchRun, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+runColumns+`
		FROM staffing_match_runs WHERE status = 'pending'
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*MatchRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(row pgx.Row) (*MatchRun, error) {
	run := &MatchRun{}
	var weightsJSON, pairErrorsJSON []byte
	if err := row.Scan(
		&run.ID, &run.ProjectID, &run.Status, &weightsJSON, &run.TopK,
		&run.Candidates, &run.Ranked, &pairErrorsJSON, &run.Error, &run.CacheHit,
		&run.CreatedAt, &run.StartedAt, &run.CompletedAt,
	); err != nil {
		return nil, err
	}
	if weightsJSON != nil {
		_ = json.Unmarshal(weightsJSON, &run.Weights)
	}
	if pairErrorsJSON != nil {
		_ = json.Unmarshal(pairErrorsJSON, &run.PairErrors)
	}
	return run, nil
}

// --- Match results ---

func (s *PostgresStore) SaveResults(ctx context.Context, runID uuid.UUID, results []*MatchResult) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM staffing_match_results WHERE run_id = $1`, runID); err != nil {
		return err
	}
	for _, r := range results {
		criteriaJSON, _ := json.Marshal(r.Criteria)
		if _, err := tx.Exec(ctx, `
			INSERT INTO staffing_match_results (run_id, project_id, employee_id, rank, aggregate, criteria)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			runID, r.ProjectID, r.EmployeeID, r.Rank, r.Aggregate, criteriaJSON,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) GetResults(ctx context.Context, runID uuid.UUID) ([]*MatchResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT run_id, project_id, employee_id, rank, aggregate, criteria
		FROM staffing_match_results WHERE run_id = $1
		ORDER BY rank ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*MatchResult
	for rows.Next() {
		r := &MatchResult{}
		var criteriaJSON []byte
		if err := rows.Scan(&r.RunID, &r.ProjectID, &r.EmployeeID, &r.Rank, &r.Aggregate, &criteriaJSON); err != nil {
			return nil, err
		}
		if criteriaJSON != nil {
			_ = json.Unmarshal(criteriaJSON, &r.Criteria)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM staffing_employees),
			(SELECT COUNT(*) FROM staffing_projects),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (completed_at - started_at)) * 1000) FILTER (WHERE status = 'completed' AND completed_at IS NOT NULL AND started_at IS NOT NULL), 0)
		FROM staffing_match_runs`,
	).Scan(&stats.Employees, &stats.Projects, &stats.RunsPending, &stats.RunsCompleted, &stats.RunsFailed, &stats.AvgRunMs)
	return stats, err
}
