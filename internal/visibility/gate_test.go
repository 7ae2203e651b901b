package visibility

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/talentgate/recruitmatch/internal/models"
	"github.com/talentgate/recruitmatch/internal/services"
)

func scoredMatch(id string, score int) services.ScoredMatch {
	return services.ScoredMatch{
		Profile: &models.Profile{
			ID:              id,
			Kind:            models.KindCandidate,
			Name:            "Jordan Reyes",
			Email:           "jordan@example.com",
			Phone:           "+1-555-0101",
			Title:           "Backend Engineer",
			Skills:          []string{"go", "postgresql"},
			ExperienceYears: 6,
			EducationTier:   "bachelor",
			Status:          models.StatusProcessed,
		},
		Similarity: 0.9,
		Score:      score,
	}
}

func TestPreviewCapsEntries(t *testing.T) {
	res := &services.MatchResult{Total: 50}
	for i := 0; i < 10; i++ {
		res.Matches = append(res.Matches, scoredMatch(fmt.Sprintf("cand-%02d", i), 90-i))
	}

	p := Preview(res)

	if p.TotalMatches != 50 {
		t.Errorf("TotalMatches = %d, want 50", p.TotalMatches)
	}
	if len(p.Preview) != PreviewCap {
		t.Fatalf("len(Preview) = %d, want %d", len(p.Preview), PreviewCap)
	}
	for i, e := range p.Preview {
		want := fmt.Sprintf("#%d", i+1)
		if e.Token != want {
			t.Errorf("Preview[%d].Token = %q, want %q", i, e.Token, want)
		}
	}
}

func TestPreviewNeverLeaksIdentity(t *testing.T) {
	res := &services.MatchResult{
		Total:   1,
		Matches: []services.ScoredMatch{scoredMatch("cand-1", 85)},
	}

	raw, err := json.Marshal(Preview(res))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, secret := range []string{"cand-1", "Jordan", "jordan@example.com", "555-0101"} {
		if strings.Contains(string(raw), secret) {
			t.Errorf("anonymous preview leaks %q: %s", secret, raw)
		}
	}
}

func TestPageEntitlements(t *testing.T) {
	locked := scoredMatch("aaaaaaaa-1111", 80)
	granted := scoredMatch("bbbbbbbb-2222", 75)
	public := scoredMatch("cccccccc-3333", 70)
	public.Profile.Public = true

	res := &services.MatchResult{
		Total:    3,
		Page:     1,
		PageSize: 20,
		Matches:  []services.ScoredMatch{locked, granted, public},
	}

	page := Page("job-1", res, map[string]bool{"bbbbbbbb-2222": true})

	if len(page.Candidates) != 3 {
		t.Fatalf("len(Candidates) = %d, want 3", len(page.Candidates))
	}

	l := page.Candidates[0]
	if l.IsUnlocked || l.Contact != nil {
		t.Errorf("locked entry exposes contact: %+v", l)
	}
	if l.DisplayName != "Candidate #aaaaaaaa" {
		t.Errorf("locked DisplayName = %q", l.DisplayName)
	}
	if l.MatchScore != 80 || l.SimilarityScore != 0.9 {
		t.Errorf("locked entry lost scores: %+v", l)
	}

	for i, name := range map[int]string{1: "granted", 2: "public"} {
		e := page.Candidates[i]
		if !e.IsUnlocked || e.Contact == nil {
			t.Errorf("%s entry should be unlocked: %+v", name, e)
			continue
		}
		if e.Contact.Email != "jordan@example.com" {
			t.Errorf("%s Contact.Email = %q", name, e.Contact.Email)
		}
	}
}

func TestLockedEntryJSONOmitsContactKey(t *testing.T) {
	e := Redact(scoredMatch("dddddddd-4444", 66), Authenticated)
	raw, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), `"contact"`) {
		t.Errorf("locked entry JSON still has a contact key: %s", raw)
	}
	if strings.Contains(string(raw), "jordan@example.com") {
		t.Errorf("locked entry JSON leaks email: %s", raw)
	}
}

func TestPagePagination(t *testing.T) {
	res := &services.MatchResult{Total: 41, Page: 2, PageSize: 20}
	page := Page("job-1", res, nil)

	if page.Pagination.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", page.Pagination.TotalPages)
	}
	if page.Pagination.Page != 2 || page.Pagination.Total != 41 {
		t.Errorf("pagination = %+v", page.Pagination)
	}
}

func TestJobsKeepEmployerConfidential(t *testing.T) {
	job := services.ScoredMatch{
		Profile: &models.Profile{
			ID:     "job-9",
			Kind:   models.KindJob,
			Title:  "Platform Engineer",
			Skills: []string{"go", "kubernetes"},
		},
		Score: 72,
	}
	out := Jobs(&services.MatchResult{Total: 1, Matches: []services.ScoredMatch{job}})

	if len(out.Matches) != 1 {
		t.Fatalf("len(Matches) = %d, want 1", len(out.Matches))
	}
	if out.Matches[0].Company != "Confidential" {
		t.Errorf("Company = %q, want Confidential", out.Matches[0].Company)
	}
	if out.Matches[0].Title != "Platform Engineer" {
		t.Errorf("Title = %q", out.Matches[0].Title)
	}
}

func TestFullProfileExposesContact(t *testing.T) {
	m := scoredMatch("eeeeeeee-5555", 90)
	p := FullProfile(m.Profile)

	if p.Name != "Jordan Reyes" || p.Email != "jordan@example.com" || p.Phone != "+1-555-0101" {
		t.Errorf("unlocked profile missing contact fields: %+v", p)
	}
	if p.ID != "eeeeeeee-5555" {
		t.Errorf("ID = %q", p.ID)
	}
}
