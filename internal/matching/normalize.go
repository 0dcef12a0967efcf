package matching

import (
	"strings"
	"time"

	"github.com/talentmesh/staffmatch/internal/store"
)

// FlexMode is a normalized work-flexibility preference.
type FlexMode int

const (
	FlexUnknown FlexMode = iota
	FlexRemote
	FlexHybrid
	FlexOnsite
)

// cefrScale maps CEFR language levels to comparable numerics. Native speakers
// score as C2.
var cefrScale = map[string]int{
	"A1": 1, "A2": 2, "B1": 3, "B2": 4, "C1": 5, "C2": 6,
	"NATIVE": 6,
}

// Profile is a normalized employee record: lowercased tags, clamped
// proficiency levels, CEFR levels resolved to numerics. Owned by the scoring
// step that produced it.
type Profile struct {
	ID             string
	Skills         map[string]int
	Years          float64
	AvailableFrom  *time.Time
	WeeklyHours    float64
	Domains        []string
	Languages      map[string]int
	Location       string
	Flexibility    FlexMode
	Certifications []string
}

// Requirement is the normalized counterpart of a project staffing record.
type Requirement struct {
	ID             string
	Skills         map[string]int
	MinYears       float64
	EffortHours    float64
	EndDate        *time.Time
	Domains        []string
	Languages      map[string]int
	Location       string
	Flexibility    FlexMode
	Certifications []string
	Complexity     int
}

// NormalizeEmployee converts a raw employee record into a Profile. Identifier
// and skill set are mandatory; everything else normalizes to its zero value.
func NormalizeEmployee(e *store.Employee) (*Profile, error) {
	if strings.TrimSpace(e.ID) == "" {
		return nil, &InvalidProfileError{Field: "employee_id"}
	}
	if len(e.Skills) == 0 {
		return nil, &InvalidProfileError{ID: e.ID, Field: "skills"}
	}
	return &Profile{
		ID:             e.ID,
		Skills:         normalizeLevels(e.Skills),
		Years:          max0(e.YearsExperience),
		AvailableFrom:  e.AvailableFrom,
		WeeklyHours:    max0(e.WeeklyHours),
		Domains:        normalizeTags(e.Domains),
		Languages:      normalizeLanguages(e.Languages),
		Location:       canonical(e.Location),
		Flexibility:    normalizeFlex(e.Flexibility),
		Certifications: normalizeTags(e.Certifications),
	}, nil
}

// NormalizeRequirement converts a raw project record into a Requirement.
func NormalizeRequirement(p *store.Project) (*Requirement, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, &InvalidProfileError{Field: "project_id"}
	}
	if len(p.RequiredSkills) == 0 {
		return nil, &InvalidProfileError{ID: p.ID, Field: "required_skills"}
	}
	complexity := p.Complexity
	if complexity < 0 {
		complexity = 0
	}
	if complexity > 10 {
		complexity = 10
	}
	return &Requirement{
		ID:             p.ID,
		Skills:         normalizeLevels(p.RequiredSkills),
		MinYears:       max0(p.MinYears),
		EffortHours:    max0(p.EffortHours),
		EndDate:        p.EndDate,
		Domains:        normalizeTags(p.Domains),
		Languages:      normalizeLanguages(p.Languages),
		Location:       canonical(p.Location),
		Flexibility:    normalizeFlex(p.Flexibility),
		Certifications: normalizeTags(p.Certifications),
		Complexity:     complexity,
	}, nil
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		c := canonical(t)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func normalizeLevels(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		c := canonical(k)
		if c == "" {
			continue
		}
		if v < 0 {
			v = 0
		}
		if v > 10 {
			v = 10
		}
		// Keep the higher level on duplicate tags
		if cur, ok := out[c]; !ok || v > cur {
			out[c] = v
		}
	}
	return out
}

func normalizeLanguages(m map[string]string) map[string]int {
	out := make(map[string]int, len(m))
	for lang, level := range m {
		c := canonical(lang)
		if c == "" {
			continue
		}
		n := cefrScale[strings.ToUpper(strings.TrimSpace(level))]
		if cur, ok := out[c]; !ok || n > cur {
			out[c] = n
		}
	}
	return out
}

func normalizeFlex(s string) FlexMode {
	switch {
	case strings.Contains(strings.ToLower(s), "remote"):
		return FlexRemote
	case strings.Contains(strings.ToLower(s), "hybrid"):
		return FlexHybrid
	case strings.Contains(strings.ToLower(s), "on-site"), strings.Contains(strings.ToLower(s), "onsite"):
		return FlexOnsite
	default:
		return FlexUnknown
	}
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
