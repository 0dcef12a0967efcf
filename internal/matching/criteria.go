package matching

import (
	"fmt"
	"math"
	"time"
)

// Criterion names. These are the recognized weight keys.
const (
	CriterionSkillOverlap     = "skill_overlap"
	CriterionSeniorityFit     = "seniority_fit"
	CriterionAvailabilityFit  = "availability_fit"
	CriterionDomainFit        = "domain_fit"
	CriterionLanguageFit      = "language_fit"
	CriterionLocationFit      = "location_fit"
	CriterionCertificationFit = "certification_fit"
)

// Criteria lists all criterion names in scoring order.
var Criteria = []string{
	CriterionSkillOverlap,
	CriterionSeniorityFit,
	CriterionAvailabilityFit,
	CriterionDomainFit,
	CriterionLanguageFit,
	CriterionLocationFit,
	CriterionCertificationFit,
}

// neutralScore is returned when a criterion has nothing to evaluate on one
// side of the pair. Neutral sub-scores carry no effective weight in the
// aggregate.
const neutralScore = 0.5

// overrunGraceDays is the window over which a missed project end date decays
// the availability score from 1 to 0.
const overrunGraceDays = 30.0

// CriterionResult captures one criterion's contribution to the match score.
type CriterionResult struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Weighted  float64 `json:"weighted"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason"`
}

// ScorePair computes every criterion sub-score for one normalized
// (employee, project) pair. Scorers are independent, pure, and
// order-insensitive; the returned slice follows Criteria order.
func ScorePair(p *Profile, r *Requirement) []CriterionResult {
	return []CriterionResult{
		SkillOverlap(p, r),
		SeniorityFit(p, r),
		AvailabilityFit(p, r),
		DomainFit(p, r),
		LanguageFit(p, r),
		LocationFit(p, r),
		CertificationFit(p, r),
	}
}

func neutral(name, reason string) CriterionResult {
	return CriterionResult{Name: name, Score: neutralScore, Available: false, Reason: reason}
}

// SkillOverlap scores skill coverage times average expertise fit, measured
// against the project's complexity target (complexity/10). Full capability at
// or above the target scores 1.0.
func SkillOverlap(p *Profile, r *Requirement) CriterionResult {
	matched := 0
	var fitSum float64
	for skill, required := range r.Skills {
		actual, ok := p.Skills[skill]
		if !ok {
			continue
		}
		matched++
		if actual >= required {
			fitSum += 1.0
		} else {
			fitSum += 1.0 - float64(required-actual)/10.0
		}
	}
	if matched == 0 {
		return CriterionResult{
			Name: CriterionSkillOverlap, Score: 0, Available: true,
			Reason: fmt.Sprintf("0/%d required skills matched", len(r.Skills)),
		}
	}

	coverage := float64(matched) / float64(len(r.Skills))
	capability := coverage * (fitSum / float64(matched))
	target := float64(r.Complexity) / 10.0

	score := 1.0
	if capability < target {
		score = capability / target
	}
	return CriterionResult{
		Name: CriterionSkillOverlap, Score: clamp(score, 0, 1), Available: true,
		Reason: fmt.Sprintf("%d/%d skills matched, capability %.2f vs target %.2f", matched, len(r.Skills), capability, target),
	}
}

// SeniorityFit compares years of experience against the project's required
// threshold. Below the threshold the score is proportional.
func SeniorityFit(p *Profile, r *Requirement) CriterionResult {
	if r.MinYears <= 0 {
		return neutral(CriterionSeniorityFit, "no experience threshold required")
	}
	if p.Years <= 0 {
		return neutral(CriterionSeniorityFit, "no experience recorded")
	}
	if p.Years >= r.MinYears {
		return CriterionResult{
			Name: CriterionSeniorityFit, Score: 1.0, Available: true,
			Reason: fmt.Sprintf("%.1fy meets %.1fy threshold", p.Years, r.MinYears),
		}
	}
	return CriterionResult{
		Name: CriterionSeniorityFit, Score: clamp(p.Years/r.MinYears, 0, 1), Available: true,
		Reason: fmt.Sprintf("%.1fy below %.1fy threshold", p.Years, r.MinYears),
	}
}

// AvailabilityFit projects the employee's completion date from the required
// effort and their weekly capacity, then scores against the requested end
// date with a 30-day overrun grace window. A project without an end date
// imposes no deadline.
func AvailabilityFit(p *Profile, r *Requirement) CriterionResult {
	if r.EffortHours <= 0 {
		return neutral(CriterionAvailabilityFit, "no effort specified")
	}
	if p.AvailableFrom == nil || p.WeeklyHours <= 0 {
		return neutral(CriterionAvailabilityFit, "no availability recorded")
	}

	weeks := r.EffortHours / p.WeeklyHours
	projected := p.AvailableFrom.Add(time.Duration(weeks * 7 * 24 * float64(time.Hour)))

	if r.EndDate == nil || !projected.After(*r.EndDate) {
		return CriterionResult{
			Name: CriterionAvailabilityFit, Score: 1.0, Available: true,
			Reason: fmt.Sprintf("can complete by %s", projected.Format("2006-01-02")),
		}
	}

	daysOver := projected.Sub(*r.EndDate).Hours() / 24
	score := clamp(1.0-daysOver/overrunGraceDays, 0, 1)
	return CriterionResult{
		Name: CriterionAvailabilityFit, Score: score, Available: true,
		Reason: fmt.Sprintf("projected %.0f days past end date", math.Ceil(daysOver)),
	}
}

// DomainFit scores the fraction of required domain tags the employee has
// worked in.
func DomainFit(p *Profile, r *Requirement) CriterionResult {
	return tagCoverage(CriterionDomainFit, "domain", r.Domains, p.Domains)
}

// CertificationFit scores the fraction of required certifications held.
func CertificationFit(p *Profile, r *Requirement) CriterionResult {
	return tagCoverage(CriterionCertificationFit, "certification", r.Certifications, p.Certifications)
}

func tagCoverage(name, kind string, required, held []string) CriterionResult {
	if len(required) == 0 {
		return neutral(name, "no "+kind+" required")
	}
	if len(held) == 0 {
		return neutral(name, "no "+kind+" recorded")
	}
	haveSet := make(map[string]bool, len(held))
	for _, t := range held {
		haveSet[t] = true
	}
	matched := 0
	for _, t := range required {
		if haveSet[t] {
			matched++
		}
	}
	return CriterionResult{
		Name:      name,
		Score:     float64(matched) / float64(len(required)),
		Available: true,
		Reason:    fmt.Sprintf("%d/%d required %ss matched", matched, len(required), kind),
	}
}

// LanguageFit multiplies language coverage by the average proficiency fit of
// the covered languages, on the CEFR scale.
func LanguageFit(p *Profile, r *Requirement) CriterionResult {
	if len(r.Languages) == 0 {
		return neutral(CriterionLanguageFit, "no languages required")
	}
	if len(p.Languages) == 0 {
		return neutral(CriterionLanguageFit, "no languages recorded")
	}

	matched := 0
	var fitSum float64
	for lang, required := range r.Languages {
		actual, ok := p.Languages[lang]
		if !ok {
			continue
		}
		matched++
		if actual >= required {
			fitSum += 1.0
		} else if required > 0 {
			fitSum += clamp(1.0-float64(required-actual)/6.0, 0, 1)
		}
	}
	if matched == 0 {
		return CriterionResult{
			Name: CriterionLanguageFit, Score: 0, Available: true,
			Reason: fmt.Sprintf("0/%d required languages matched", len(r.Languages)),
		}
	}

	coverage := float64(matched) / float64(len(r.Languages))
	score := coverage * (fitSum / float64(matched))
	return CriterionResult{
		Name: CriterionLanguageFit, Score: clamp(score, 0, 1), Available: true,
		Reason: fmt.Sprintf("%d/%d languages matched", matched, len(r.Languages)),
	}
}

// LocationFit maps the project/employee flexibility pairing. A remote project
// fits everyone; on-site and hybrid projects require a location match with a
// half score for hybrid employees on on-site projects.
func LocationFit(p *Profile, r *Requirement) CriterionResult {
	if r.Flexibility == FlexUnknown {
		return neutral(CriterionLocationFit, "no work mode required")
	}
	if p.Flexibility == FlexUnknown {
		return neutral(CriterionLocationFit, "no work mode recorded")
	}

	if r.Flexibility == FlexRemote {
		return CriterionResult{Name: CriterionLocationFit, Score: 1.0, Available: true, Reason: "remote project"}
	}

	sameLocation := r.Location != "" && r.Location == p.Location
	if !sameLocation {
		return CriterionResult{Name: CriterionLocationFit, Score: 0, Available: true, Reason: "location mismatch"}
	}

	score := 0.0
	switch {
	case r.Flexibility == FlexOnsite && p.Flexibility == FlexOnsite:
		score = 1.0
	case r.Flexibility == FlexOnsite && p.Flexibility == FlexHybrid:
		score = 0.5
	case r.Flexibility == FlexHybrid && p.Flexibility != FlexRemote:
		score = 1.0
	}
	return CriterionResult{
		Name: CriterionLocationFit, Score: score, Available: true,
		Reason: "locations match, flexibility evaluated",
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
