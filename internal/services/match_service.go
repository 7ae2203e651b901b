package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"github.com/talentgate/recruitmatch/internal/cache"
	"github.com/talentgate/recruitmatch/internal/models"
	"github.com/talentgate/recruitmatch/internal/normalizer"
	"github.com/talentgate/recruitmatch/internal/providers/embedding"
	pgrepo "github.com/talentgate/recruitmatch/internal/repositories/postgres"
	"github.com/talentgate/recruitmatch/internal/scoring"
	"github.com/talentgate/recruitmatch/internal/utils"
)

// Retry budget for the embedding provider. Exhausting it fails the whole
// match request; no partial or degraded results are returned.
const (
	embedMaxAttempts  = 3
	embedBaseBackoff  = 500 * time.Millisecond
	countCacheTTL     = 5 * time.Minute
	maxMatchPageSize  = 100
	defaultPageSize   = 20
	defaultRetrievalK = 100
)

// MatchDefaults are the env-tunable retrieval knobs. Broad (free/anonymous)
// and detailed (paid) paths carry different similarity floors on purpose;
// callers may override per request.
type MatchDefaults struct {
	RetrievalK       int
	BroadSimFloor    float64
	DetailedSimFloor float64
	ScoreFloor       int
}

func DefaultMatchDefaults() MatchDefaults {
	return MatchDefaults{
		RetrievalK:       defaultRetrievalK,
		BroadSimFloor:    0.6,
		DetailedSimFloor: 0.5,
		ScoreFloor:       50,
	}
}

// MatchOptions parameterizes one match request. Zero values fall back to the
// service defaults.
type MatchOptions struct {
	K               int
	SimilarityFloor float64
	ScoreFloor      int
	Page            int
	PageSize        int

	// Detailed selects the paid-path similarity floor default.
	Detailed bool

	// Persist writes MatchRecords for the ranked set. Anonymous preview
	// queries must leave persistent match state untouched.
	Persist bool
}

// ScoredMatch pairs a loaded profile with its similarity and match score.
type ScoredMatch struct {
	Profile    *models.Profile
	Similarity float64
	Score      int
	Breakdown  scoring.Breakdown
}

// Distribution buckets the filtered set into the caller-facing score bands.
type Distribution struct {
	Excellent int `json:"excellent"` // >= 80
	Good      int `json:"good"`      // 60-79
	Fair      int `json:"fair"`      // 50-59
}

// MatchResult is one ranked, paginated page plus aggregates over the full
// filtered set.
type MatchResult struct {
	Total        int
	Page         int
	PageSize     int
	Matches      []ScoredMatch
	Distribution Distribution
}

// CountResult is the free count-only view of a job's candidate pool.
type CountResult struct {
	JobID        string       `json:"job_id"`
	Total        int          `json:"total_matching_candidates"`
	Distribution Distribution `json:"match_breakdown"`
}

type MatchService interface {
	// MatchForJob matches stored candidate profiles against a job profile.
	MatchForJob(ctx context.Context, jobID string, opts MatchOptions) (*MatchResult, error)

	// MatchText matches free text (a pasted job description or CV) against
	// stored profiles of the target kind. Never persists.
	MatchText(ctx context.Context, text string, target models.ProfileKind, opts MatchOptions) (*MatchResult, error)

	// CountForJob returns the cached count-only summary for a job.
	CountForJob(ctx context.Context, jobID string) (*CountResult, error)
}

type matchService struct {
	profiles pgrepo.ProfileRepository
	matches  pgrepo.MatchRepository
	embedder embedding.Provider
	cache    cache.Cache
	defaults MatchDefaults
}

func NewMatchService(
	profiles pgrepo.ProfileRepository,
	matches pgrepo.MatchRepository,
	embedder embedding.Provider,
	c cache.Cache,
	defaults MatchDefaults,
) MatchService {
	if defaults.RetrievalK <= 0 {
		defaults = DefaultMatchDefaults()
	}
	return &matchService{
		profiles: profiles,
		matches:  matches,
		embedder: embedder,
		cache:    c,
		defaults: defaults,
	}
}

func (s *matchService) MatchForJob(ctx context.Context, jobID string, opts MatchOptions) (*MatchResult, error) {
	const op = "MatchService.MatchForJob"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}

	job, err := s.profiles.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.Kind != models.KindJob {
		return nil, utils.E(utils.CodeNotFound, op, "job not found", nil)
	}

	vec, err := s.resolveEmbedding(ctx, job)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "embedding provider unavailable", err)
	}

	return s.match(ctx, op, vec, featuresOf(job), models.KindCandidate, jobID, opts)
}

func (s *matchService) MatchText(ctx context.Context, text string, target models.ProfileKind, opts MatchOptions) (*MatchResult, error) {
	const op = "MatchService.MatchText"

	feats, err := normalizer.Normalize(text)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "query text is empty", err)
	}

	vec, err := s.embedWithRetry(ctx, text)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "embedding provider unavailable", err)
	}

	query := scoring.Candidate{
		Skills:          feats.Skills,
		ExperienceYears: feats.ExperienceYears,
		Education:       feats.Education,
		Certifications:  feats.Certifications,
	}

	opts.Persist = false
	return s.match(ctx, op, vec, query, target, "", opts)
}

func (s *matchService) CountForJob(ctx context.Context, jobID string) (*CountResult, error) {
	const op = "MatchService.CountForJob"

	if s.cache != nil {
		var cached CountResult
		if hit, err := s.cache.GetJSON(ctx, "match:count:"+jobID, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	res, err := s.MatchForJob(ctx, jobID, MatchOptions{
		SimilarityFloor: s.defaults.BroadSimFloor,
		Page:            1,
		PageSize:        1,
	})
	if err != nil {
		return nil, err
	}

	out := &CountResult{JobID: jobID, Total: res.Total, Distribution: res.Distribution}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, "match:count:"+jobID, out, countCacheTTL)
	}
	return out, nil
}

// match runs retrieval, scoring, filtering, ranking, persistence, and
// pagination for an already-resolved query embedding. query holds the
// querying side's extracted features; which side supplies the requirements
// depends on the target kind.
func (s *matchService) match(
	ctx context.Context,
	op string,
	vec []float32,
	query scoring.Candidate,
	target models.ProfileKind,
	jobID string,
	opts MatchOptions,
) (*MatchResult, error) {
	opts = s.applyDefaults(opts)

	hits, err := s.profiles.SearchSimilar(ctx, pgvector.NewVector(vec), target, opts.K, opts.SimilarityFloor)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "similarity query failed", err)
	}

	similarity := make(map[string]float64, len(hits))
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		similarity[h.ProfileID] = h.Similarity
		ids = append(ids, h.ProfileID)
	}

	loaded, err := s.profiles.ListByIDs(ctx, ids)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load matched profiles", err)
	}

	scored := make([]ScoredMatch, 0, len(loaded))
	for i := range loaded {
		p := &loaded[i]
		// Records that vanished or regressed since indexing cannot be
		// scored; exclude them silently.
		if p.Status != models.StatusProcessed {
			continue
		}
		feats := featuresOf(p)
		// Requirements always sit on the job side: when retrieving jobs for a
		// pasted CV, each stored job's features are the requirements and the
		// query is the candidate, not the other way around.
		var total int
		var breakdown scoring.Breakdown
		if target == models.KindJob {
			total, breakdown = scoring.Score(scoring.Requirements(feats), query)
		} else {
			total, breakdown = scoring.Score(scoring.Requirements(query), feats)
		}
		if total < opts.ScoreFloor {
			continue
		}
		scored = append(scored, ScoredMatch{
			Profile:    p,
			Similarity: similarity[p.ID],
			Score:      total,
			Breakdown:  breakdown,
		})
	}

	rank(scored)

	if opts.Persist {
		if err := s.persist(ctx, jobID, scored); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to persist match records", err)
		}
	}

	return &MatchResult{
		Total:        len(scored),
		Page:         opts.Page,
		PageSize:     opts.PageSize,
		Matches:      paginate(scored, opts.Page, opts.PageSize),
		Distribution: distributionOf(scored),
	}, nil
}

// rank orders by match score descending, ties by similarity descending, then
// candidate id ascending. The total order keeps pagination stable.
func rank(matches []ScoredMatch) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Profile.ID < matches[j].Profile.ID
	})
}

func paginate(matches []ScoredMatch, page, pageSize int) []ScoredMatch {
	offset := (page - 1) * pageSize
	if offset >= len(matches) {
		return []ScoredMatch{}
	}
	end := offset + pageSize
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end]
}

func distributionOf(matches []ScoredMatch) Distribution {
	var d Distribution
	for _, m := range matches {
		switch {
		case m.Score >= 80:
			d.Excellent++
		case m.Score >= 60:
			d.Good++
		case m.Score >= 50:
			d.Fair++
		}
	}
	return d
}

func (s *matchService) persist(ctx context.Context, jobID string, matches []ScoredMatch) error {
	if jobID == "" || len(matches) == 0 {
		return nil
	}

	now := time.Now().UTC()
	records := make([]*models.MatchRecord, 0, len(matches))
	for _, m := range matches {
		breakdown, err := json.Marshal(m.Breakdown)
		if err != nil {
			return err
		}
		records = append(records, &models.MatchRecord{
			ID:              uuid.NewString(),
			JobID:           jobID,
			CandidateID:     m.Profile.ID,
			SimilarityScore: m.Similarity,
			MatchScore:      m.Score,
			Breakdown:       datatypes.JSON(breakdown),
			Status:          models.MatchStatusMatched,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return s.matches.UpsertBatch(ctx, records)
}

// resolveEmbedding reuses the stored vector for processed profiles and falls
// back to a live embed of the raw text otherwise.
func (s *matchService) resolveEmbedding(ctx context.Context, p *models.Profile) ([]float32, error) {
	if p.Status == models.StatusProcessed {
		if v := p.Embedding.Slice(); len(v) > 0 {
			return v, nil
		}
	}
	return s.embedWithRetry(ctx, p.RawText)
}

// embedWithRetry applies the bounded retry policy for transient provider
// failures: at most embedMaxAttempts attempts with exponential backoff.
func (s *matchService) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	backoff := embedBaseBackoff
	for attempt := 0; attempt < embedMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		vec, err := s.embedder.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err
		if !errors.Is(err, embedding.ErrUnavailable) {
			break
		}
	}
	return nil, lastErr
}

func (s *matchService) applyDefaults(opts MatchOptions) MatchOptions {
	if opts.K <= 0 {
		opts.K = s.defaults.RetrievalK
	}
	if opts.SimilarityFloor <= 0 {
		if opts.Detailed {
			opts.SimilarityFloor = s.defaults.DetailedSimFloor
		} else {
			opts.SimilarityFloor = s.defaults.BroadSimFloor
		}
	}
	if opts.ScoreFloor <= 0 {
		opts.ScoreFloor = s.defaults.ScoreFloor
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.PageSize > maxMatchPageSize {
		opts.PageSize = maxMatchPageSize
	}
	return opts
}

func featuresOf(p *models.Profile) scoring.Candidate {
	return scoring.Candidate{
		Skills:          p.Skills,
		ExperienceYears: p.ExperienceYears,
		Education:       p.Education,
		Certifications:  p.Certifications,
	}
}
