package matching

import "fmt"

// Weights defines the relative importance of each criterion. Weights need not
// sum to 1; they are normalized before aggregation.
type Weights struct {
	SkillOverlap     float64 `yaml:"skill_overlap" json:"skill_overlap"`
	SeniorityFit     float64 `yaml:"seniority_fit" json:"seniority_fit"`
	AvailabilityFit  float64 `yaml:"availability_fit" json:"availability_fit"`
	DomainFit        float64 `yaml:"domain_fit" json:"domain_fit"`
	LanguageFit      float64 `yaml:"language_fit" json:"language_fit"`
	LocationFit      float64 `yaml:"location_fit" json:"location_fit"`
	CertificationFit float64 `yaml:"certification_fit" json:"certification_fit"`
}

// DefaultWeights returns the default weight distribution.
func DefaultWeights() Weights {
	return Weights{
		SkillOverlap:     0.30,
		SeniorityFit:     0.15,
		AvailabilityFit:  0.20,
		DomainFit:        0.10,
		LanguageFit:      0.10,
		LocationFit:      0.05,
		CertificationFit: 0.10,
	}
}

// ByName returns the weight for each criterion keyed by its name.
func (w Weights) ByName() map[string]float64 {
	return map[string]float64{
		CriterionSkillOverlap:     w.SkillOverlap,
		CriterionSeniorityFit:     w.SeniorityFit,
		CriterionAvailabilityFit:  w.AvailabilityFit,
		CriterionDomainFit:        w.DomainFit,
		CriterionLanguageFit:      w.LanguageFit,
		CriterionLocationFit:      w.LocationFit,
		CriterionCertificationFit: w.CertificationFit,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.SkillOverlap + w.SeniorityFit + w.AvailabilityFit + w.DomainFit +
		w.LanguageFit + w.LocationFit + w.CertificationFit
}

// Validate rejects negative weights and all-zero configurations.
func (w Weights) Validate() error {
	for name, v := range w.ByName() {
		if v < 0 {
			return &InvalidWeightError{Reason: fmt.Sprintf("negative weight for %s: %f", name, v)}
		}
	}
	if w.Sum() <= 0 {
		return &InvalidWeightError{Reason: "all weights are zero"}
	}
	return nil
}

// Normalized returns a copy scaled so the weights sum to 1. Fails with
// InvalidWeightError when there is no usable weighting.
func (w Weights) Normalized() (Weights, error) {
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	sum := w.Sum()
	return Weights{
		SkillOverlap:     w.SkillOverlap / sum,
		SeniorityFit:     w.SeniorityFit / sum,
		AvailabilityFit:  w.AvailabilityFit / sum,
		DomainFit:        w.DomainFit / sum,
		LanguageFit:      w.LanguageFit / sum,
		LocationFit:      w.LocationFit / sum,
		CertificationFit: w.CertificationFit / sum,
	}, nil
}

// Apply overlays non-zero entries of a by-name override map onto w.
// Unrecognized keys are rejected so a typo cannot silently drop a criterion.
func (w Weights) Apply(overrides map[string]float64) (Weights, error) {
	out := w
	for name, v := range overrides {
		switch name {
		case CriterionSkillOverlap:
			out.SkillOverlap = v
		case CriterionSeniorityFit:
			out.SeniorityFit = v
		case CriterionAvailabilityFit:
			out.AvailabilityFit = v
		case CriterionDomainFit:
			out.DomainFit = v
		case CriterionLanguageFit:
			out.LanguageFit = v
		case CriterionLocationFit:
			out.LocationFit = v
		case CriterionCertificationFit:
			out.CertificationFit = v
		default:
			return Weights{}, &InvalidWeightError{Reason: "unrecognized criterion " + name}
		}
	}
	return out, nil
}

// TopCriterion returns the highest-weighted criterion name. Weight ties
// resolve to the earlier criterion in scoring order, keeping the ranker's
// tie-break deterministic.
func (w Weights) TopCriterion() string {
	byName := w.ByName()
	top := ""
	for _, name := range Criteria {
		if top == "" || byName[name] > byName[top] {
			top = name
		}
	}
	return top
}
