// Package cache holds computed ranked results in a process-external Redis
// keyed by the inputs that produced them, so dashboards replaying the same
// candidate pool and weights skip recomputation. The cache is strictly an
// optimization: a nil or unreachable cache degrades to recomputing.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talentmesh/staffmatch/internal/matching"
	"github.com/talentmesh/staffmatch/internal/store"
)

type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewResultCache(ctx context.Context, addr, password string, ttl time.Duration, logger *slog.Logger) (*ResultCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &ResultCache{client: client, ttl: ttl, logger: logger}, nil
}

// employeeKey and projectKey restrict the digest to the fields scoring reads.
// Re-upserting a record with only a name or timestamp change keeps the cache
// warm.
type employeeKey struct {
	ID             string            `json:"id"`
	Skills         map[string]int    `json:"skills"`
	Years          float64           `json:"years"`
	AvailableFrom  *time.Time        `json:"available_from,omitempty"`
	WeeklyHours    float64           `json:"weekly_hours"`
	Domains        []string          `json:"domains,omitempty"`
	Languages      map[string]string `json:"languages,omitempty"`
	Location       string            `json:"location,omitempty"`
	Flexibility    string            `json:"flexibility,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
}

type projectKey struct {
	ID             string            `json:"id"`
	RequiredSkills map[string]int    `json:"required_skills"`
	MinYears       float64           `json:"min_years"`
	EffortHours    float64           `json:"effort_hours"`
	EndDate        *time.Time        `json:"end_date,omitempty"`
	Domains        []string          `json:"domains,omitempty"`
	Languages      map[string]string `json:"languages,omitempty"`
	Location       string            `json:"location,omitempty"`
	Flexibility    string            `json:"flexibility,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
	Complexity     int               `json:"complexity"`
}

// Key derives the cache key from the employee set, the project requirement,
// and the weight mapping. Employees are hashed in identifier order so map and
// slice iteration order cannot change the key, and only scoring inputs enter
// the digest.
func Key(employees []*store.Employee, project *store.Project, weights matching.Weights) string {
	h := sha256.New()

	sorted := make([]*store.Employee, len(employees))
	copy(sorted, employees)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for _, e := range sorted {
		writeCanonical(h, employeeKey{
			ID:             e.ID,
			Skills:         e.Skills,
			Years:          e.YearsExperience,
			AvailableFrom:  e.AvailableFrom,
			WeeklyHours:    e.WeeklyHours,
			Domains:        e.Domains,
			Languages:      e.Languages,
			Location:       e.Location,
			Flexibility:    e.Flexibility,
			Certifications: e.Certifications,
		})
	}
	writeCanonical(h, projectKey{
		ID:             project.ID,
		RequiredSkills: project.RequiredSkills,
		MinYears:       project.MinYears,
		EffortHours:    project.EffortHours,
		EndDate:        project.EndDate,
		Domains:        project.Domains,
		Languages:      project.Languages,
		Location:       project.Location,
		Flexibility:    project.Flexibility,
		Certifications: project.Certifications,
		Complexity:     project.Complexity,
	})
	writeCanonical(h, weights)

	return "staffmatch:result:" + hex.EncodeToString(h.Sum(nil))
}

func writeCanonical(h hash.Hash, v interface{}) {
	// json.Marshal emits map keys in sorted order, which keeps the digest
	// stable across runs.
	b, _ := json.Marshal(v)
	_, _ = h.Write(b)
	_, _ = h.Write([]byte{0})
}

// Get returns the cached ranked result for a key, if present.
func (c *ResultCache) Get(ctx context.Context, key string) (*matching.RankedResult, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", "error", err)
		}
		return nil, false
	}
	var result matching.RankedResult
	if err := json.Unmarshal(b, &result); err != nil {
		c.logger.Warn("cache entry corrupt, ignoring", "key", key, "error", err)
		return nil, false
	}
	return &result, true
}

// Set stores a ranked result under a key with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, key string, result matching.RankedResult) {
	if c == nil {
		return
	}
	b, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "error", err)
	}
}

func (c *ResultCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
