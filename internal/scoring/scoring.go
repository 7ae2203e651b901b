// Package scoring computes the deterministic 0-100 match score between a
// job's requirements and a candidate's extracted features. Pure computation:
// no I/O, no randomness, bit-for-bit reproducible.
package scoring

import (
	"math"
	"strings"
)

// Factor weights. Each factor is clipped to its weight before summing, so the
// total can never exceed 100 even if an intermediate ratio exceeds 1.
const (
	WeightSkills         = 40.0
	WeightExperience     = 30.0
	WeightEducation      = 15.0
	WeightCertifications = 15.0
)

// Requirements is the job side of the score.
type Requirements struct {
	Skills          []string
	ExperienceYears int
	Education       []string
	Certifications  []string
}

// Candidate is the CV side of the score.
type Candidate struct {
	Skills          []string
	ExperienceYears int
	Education       []string
	Certifications  []string
}

// Breakdown carries the per-factor contribution, already clipped to weights.
type Breakdown struct {
	Skills         float64 `json:"skills"`
	Experience     float64 `json:"experience"`
	Education      float64 `json:"education"`
	Certifications float64 `json:"certifications"`
	MatchedSkills  int     `json:"matched_skills"`
}

// Score returns the weighted total in [0,100] plus the factor breakdown.
//
// Zero-requirement handling is asymmetric on purpose: empty required skills
// contribute 0, while empty experience/education/certification requirements
// contribute full weight. This mirrors the established ranking behavior;
// changing it would reorder existing results.
func Score(req Requirements, cand Candidate) (int, Breakdown) {
	var b Breakdown

	matched := matchedSkillCount(req.Skills, cand.Skills)
	b.MatchedSkills = matched
	if len(req.Skills) > 0 {
		b.Skills = clip(float64(matched)/float64(len(req.Skills))*WeightSkills, WeightSkills)
	}

	switch {
	case req.ExperienceYears == 0, cand.ExperienceYears >= req.ExperienceYears:
		b.Experience = WeightExperience
	default:
		b.Experience = clip(float64(cand.ExperienceYears)/float64(req.ExperienceYears)*WeightExperience, WeightExperience)
	}

	if len(req.Education) == 0 || intersects(req.Education, cand.Education) {
		b.Education = WeightEducation
	}

	if len(req.Certifications) == 0 {
		b.Certifications = WeightCertifications
	} else {
		present := 0
		for _, rc := range req.Certifications {
			if containsFold(cand.Certifications, rc) {
				present++
			}
		}
		b.Certifications = clip(float64(present)/float64(len(req.Certifications))*WeightCertifications, WeightCertifications)
	}

	total := int(math.Round(b.Skills + b.Experience + b.Education + b.Certifications))
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return total, b
}

// matchedSkillCount counts required skills that match a candidate skill.
// Two skills match when either string contains the other, case-insensitively.
func matchedSkillCount(required, have []string) int {
	n := 0
	for _, r := range required {
		rl := strings.ToLower(r)
		for _, h := range have {
			hl := strings.ToLower(h)
			if strings.Contains(hl, rl) || strings.Contains(rl, hl) {
				n++
				break
			}
		}
	}
	return n
}

func intersects(required, have []string) bool {
	for _, r := range required {
		if containsFold(have, r) {
			return true
		}
	}
	return false
}

func containsFold(set []string, s string) bool {
	for _, v := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func clip(v, max float64) float64 {
	if v > max {
		return max
	}
	if v < 0 {
		return 0
	}
	return v
}
