// Package visibility is the single place where match data is shaped for
// callers. Every handler return path that carries match or candidate data
// must go through one of the constructors here; no other package produces
// these payload types.
package visibility

import (
	"fmt"

	"github.com/talentgate/recruitmatch/internal/models"
	"github.com/talentgate/recruitmatch/internal/scoring"
	"github.com/talentgate/recruitmatch/internal/services"
)

// Entitlement is the caller's permission level for candidate data.
type Entitlement int

const (
	Anonymous Entitlement = iota
	Authenticated
	Unlocked
)

// PreviewCap bounds the anonymous teaser list.
const PreviewCap = 6

// AnonymousPreview is the anonymous tier: aggregate counts plus a small
// capped preview with coarse fields. Tokens are per-response ordinals, not
// stable identifiers.
type AnonymousPreview struct {
	TotalMatches int                   `json:"total_matches"`
	Breakdown    services.Distribution `json:"match_breakdown"`
	Preview      []PreviewEntry        `json:"preview_matches"`
}

type PreviewEntry struct {
	Token           string   `json:"candidate"`
	Title           string   `json:"current_role,omitempty"`
	ExperienceYears int      `json:"experience_years"`
	Skills          []string `json:"skills"`
	MatchScore      int      `json:"match_score"`
}

// MatchPage is the authenticated tier: the full ranked page with scores.
// Contact is structurally absent from entries unless that candidate is
// unlocked for (or public to) the caller.
type MatchPage struct {
	JobID      string                `json:"job_id"`
	Candidates []MatchEntry          `json:"candidates"`
	Pagination Pagination            `json:"pagination"`
	Summary    services.Distribution `json:"summary"`
}

type MatchEntry struct {
	CandidateID     string            `json:"candidate_id"`
	DisplayName     string            `json:"display_name"`
	IsUnlocked      bool              `json:"is_unlocked"`
	MatchScore      int               `json:"match_score"`
	SimilarityScore float64           `json:"similarity_score"`
	Breakdown       scoring.Breakdown `json:"match_breakdown"`
	Skills          []string          `json:"skills"`
	ExperienceYears int               `json:"experience_years"`
	EducationTier   string            `json:"education_tier"`
	Certifications  []string          `json:"certifications"`
	Contact         *Contact          `json:"contact,omitempty"`
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// JobMatches is the candidate-side quick-match view. Job postings are not
// gated, but employer identity stays confidential at this tier.
type JobMatches struct {
	TotalMatches int        `json:"total_matches"`
	Matches      []JobEntry `json:"matches"`
}

type JobEntry struct {
	JobID      string   `json:"job_id"`
	Title      string   `json:"title"`
	Company    string   `json:"company"`
	Skills     []string `json:"skills"`
	MatchScore int      `json:"match_score"`
}

// UnlockedProfile is the full-visibility tier, produced only after an unlock
// grant (or for public profiles).
type UnlockedProfile struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
	EducationTier   string   `json:"education_tier"`
	Certifications  []string `json:"certifications"`
}

// Preview redacts a result set down to the anonymous tier.
func Preview(res *services.MatchResult) AnonymousPreview {
	out := AnonymousPreview{
		TotalMatches: res.Total,
		Breakdown:    res.Distribution,
		Preview:      []PreviewEntry{},
	}
	for i, m := range res.Matches {
		if i >= PreviewCap {
			break
		}
		out.Preview = append(out.Preview, PreviewEntry{
			Token:           fmt.Sprintf("#%d", i+1),
			Title:           m.Profile.Title,
			ExperienceYears: m.Profile.ExperienceYears,
			Skills:          m.Profile.Skills,
			MatchScore:      m.Score,
		})
	}
	return out
}

// Page redacts a result set to the authenticated tier. unlocked holds the
// candidate ids the caller has grants for; public profiles count as unlocked.
func Page(jobID string, res *services.MatchResult, unlocked map[string]bool) MatchPage {
	entries := make([]MatchEntry, 0, len(res.Matches))
	for _, m := range res.Matches {
		ent := Authenticated
		if unlocked[m.Profile.ID] || m.Profile.Public {
			ent = Unlocked
		}
		entries = append(entries, Redact(m, ent))
	}

	totalPages := 0
	if res.PageSize > 0 {
		totalPages = (res.Total + res.PageSize - 1) / res.PageSize
	}

	return MatchPage{
		JobID:      jobID,
		Candidates: entries,
		Pagination: Pagination{
			Page:       res.Page,
			PageSize:   res.PageSize,
			Total:      res.Total,
			TotalPages: totalPages,
		},
		Summary: res.Distribution,
	}
}

// Redact shapes a single scored match for the given entitlement. Contact
// fields exist in the payload only at the Unlocked tier.
func Redact(m services.ScoredMatch, ent Entitlement) MatchEntry {
	e := MatchEntry{
		CandidateID:     m.Profile.ID,
		DisplayName:     maskedName(m.Profile.ID),
		MatchScore:      m.Score,
		SimilarityScore: m.Similarity,
		Breakdown:       m.Breakdown,
		Skills:          m.Profile.Skills,
		ExperienceYears: m.Profile.ExperienceYears,
		EducationTier:   m.Profile.EducationTier,
		Certifications:  m.Profile.Certifications,
	}
	if ent == Unlocked {
		e.IsUnlocked = true
		e.DisplayName = m.Profile.Name
		e.Contact = &Contact{
			Name:  m.Profile.Name,
			Email: m.Profile.Email,
			Phone: m.Profile.Phone,
		}
	}
	return e
}

// Jobs shapes quick-match results for candidates.
func Jobs(res *services.MatchResult) JobMatches {
	out := JobMatches{TotalMatches: res.Total, Matches: []JobEntry{}}
	for _, m := range res.Matches {
		out.Matches = append(out.Matches, JobEntry{
			JobID:      m.Profile.ID,
			Title:      m.Profile.Title,
			Company:    "Confidential",
			Skills:     m.Profile.Skills,
			MatchScore: m.Score,
		})
	}
	return out
}

// FullProfile produces the unlocked view of a candidate.
func FullProfile(p *models.Profile) UnlockedProfile {
	return UnlockedProfile{
		ID:              p.ID,
		Name:            p.Name,
		Email:           p.Email,
		Phone:           p.Phone,
		Skills:          p.Skills,
		ExperienceYears: p.ExperienceYears,
		EducationTier:   p.EducationTier,
		Certifications:  p.Certifications,
	}
}

func maskedName(id string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return "Candidate #" + short
}
