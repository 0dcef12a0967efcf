package matching

import (
	"errors"
	"testing"
	"time"

	"github.com/talentmesh/staffmatch/internal/store"
)

func TestNormalizeEmployee(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		p, err := NormalizeEmployee(&store.Employee{
			ID:              "emp-1",
			Skills:          map[string]int{"Go": 8, "Postgres": 15},
			YearsExperience: 6,
			AvailableFrom:   &from,
			WeeklyHours:     40,
			Domains:         []string{"FinTech", "fintech", "Payments"},
			Languages:       map[string]string{"English": "C1", "Swedish": "Native"},
			Location:        " Berlin ",
			Flexibility:     "Hybrid",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Skills["go"] != 8 {
			t.Errorf("expected go=8, got %d", p.Skills["go"])
		}
		if p.Skills["postgres"] != 10 {
			t.Errorf("expected level clamped to 10, got %d", p.Skills["postgres"])
		}
		if len(p.Domains) != 2 {
			t.Errorf("expected duplicate domains collapsed, got %v", p.Domains)
		}
		if p.Languages["english"] != 5 {
			t.Errorf("expected C1=5, got %d", p.Languages["english"])
		}
		if p.Languages["swedish"] != 6 {
			t.Errorf("expected Native=6, got %d", p.Languages["swedish"])
		}
		if p.Location != "berlin" {
			t.Errorf("expected lowercased location, got %q", p.Location)
		}
		if p.Flexibility != FlexHybrid {
			t.Errorf("expected hybrid flexibility, got %v", p.Flexibility)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := NormalizeEmployee(&store.Employee{Skills: map[string]int{"go": 5}})
		var perr *InvalidProfileError
		if !errors.As(err, &perr) {
			t.Fatalf("expected InvalidProfileError, got %v", err)
		}
		if perr.Field != "employee_id" {
			t.Errorf("expected field employee_id, got %q", perr.Field)
		}
	})

	t.Run("missing skills", func(t *testing.T) {
		_, err := NormalizeEmployee(&store.Employee{ID: "emp-1"})
		var perr *InvalidProfileError
		if !errors.As(err, &perr) {
			t.Fatalf("expected InvalidProfileError, got %v", err)
		}
		if perr.Field != "skills" {
			t.Errorf("expected field skills, got %q", perr.Field)
		}
	})

	t.Run("negative values floor at zero", func(t *testing.T) {
		p, err := NormalizeEmployee(&store.Employee{
			ID:              "emp-1",
			Skills:          map[string]int{"go": -3},
			YearsExperience: -2,
			WeeklyHours:     -10,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Skills["go"] != 0 {
			t.Errorf("expected level floored at 0, got %d", p.Skills["go"])
		}
		if p.Years != 0 || p.WeeklyHours != 0 {
			t.Errorf("expected years and hours floored at 0, got %f %f", p.Years, p.WeeklyHours)
		}
	})
}

func TestNormalizeRequirement(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r, err := NormalizeRequirement(&store.Project{
			ID:             "proj-1",
			RequiredSkills: map[string]int{"GO": 7},
			Complexity:     14,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Skills["go"] != 7 {
			t.Errorf("expected go=7, got %d", r.Skills["go"])
		}
		if r.Complexity != 10 {
			t.Errorf("expected complexity clamped to 10, got %d", r.Complexity)
		}
	})

	t.Run("missing required skills", func(t *testing.T) {
		_, err := NormalizeRequirement(&store.Project{ID: "proj-1"})
		var perr *InvalidProfileError
		if !errors.As(err, &perr) {
			t.Fatalf("expected InvalidProfileError, got %v", err)
		}
		if perr.Field != "required_skills" {
			t.Errorf("expected field required_skills, got %q", perr.Field)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := NormalizeRequirement(&store.Project{RequiredSkills: map[string]int{"go": 5}})
		var perr *InvalidProfileError
		if !errors.As(err, &perr) {
			t.Fatalf("expected InvalidProfileError, got %v", err)
		}
	})
}

func TestNormalizeFlex(t *testing.T) {
	tests := []struct {
		in   string
		want FlexMode
	}{
		{"remote", FlexRemote},
		{"Remote-first", FlexRemote},
		{"hybrid", FlexHybrid},
		{"onsite", FlexOnsite},
		{"On-Site", FlexOnsite},
		{"", FlexUnknown},
		{"whatever", FlexUnknown},
	}
	for _, tt := range tests {
		if got := normalizeFlex(tt.in); got != tt.want {
			t.Errorf("normalizeFlex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
