package workers

import (
	"context"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/talentgate/recruitmatch/internal/models"
	"github.com/talentgate/recruitmatch/internal/providers/embedding"
	pgrepo "github.com/talentgate/recruitmatch/internal/repositories/postgres"
	"github.com/talentgate/recruitmatch/internal/utils"
)

type fakeProfileRepo struct {
	profiles   map[string]*models.Profile
	processing []string
	errored    map[string]string
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *models.Profile) error {
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Profile, error) {
	return nil, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, p *models.Profile) error {
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) MarkProcessing(ctx context.Context, id string) error {
	f.processing = append(f.processing, id)
	if p, ok := f.profiles[id]; ok {
		p.Status = models.StatusProcessing
		p.Embedding = pgvector.Vector{}
	}
	return nil
}

func (f *fakeProfileRepo) MarkError(ctx context.Context, id, processErr string) error {
	f.errored[id] = processErr
	if p, ok := f.profiles[id]; ok {
		p.Status = models.StatusError
		p.ProcessError = processErr
		p.Embedding = pgvector.Vector{}
	}
	return nil
}

func (f *fakeProfileRepo) ListByOwner(ctx context.Context, ownerID string, kind models.ProfileKind, offset, limit int) ([]models.Profile, error) {
	return nil, nil
}

func (f *fakeProfileRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeProfileRepo) SearchSimilar(ctx context.Context, vec pgvector.Vector, kind models.ProfileKind, k int, floor float64) ([]pgrepo.SimilarHit, error) {
	return nil, nil
}

type fakeEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

func (f *fakeEmbedder) Dimensions() int { return len(f.vec) }

func quietPool(repo *fakeProfileRepo, emb embedding.Provider) *ProcessWorkerPool {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return &ProcessWorkerPool{Profiles: repo, Embedder: emb, Logger: l}
}

func TestHandleMsgDerivesFeaturesAndEmbedding(t *testing.T) {
	repo := &fakeProfileRepo{
		profiles: map[string]*models.Profile{
			"p1": {
				ID:      "p1",
				Kind:    models.KindCandidate,
				RawText: "Python developer with 5 years of experience. Bachelor degree. PMP.",
				Status:  models.StatusUploaded,
				// Stale values from a previous run must be replaced wholesale.
				Skills:          []string{"cobol"},
				ExperienceYears: 30,
			},
		},
		errored: map[string]string{},
	}
	pool := quietPool(repo, &fakeEmbedder{vec: []float32{0.5, 0.5}})

	pool.handleMsg(context.Background(), redis.XMessage{ID: "1-0", Values: map[string]any{"profile_id": "p1"}})

	p := repo.profiles["p1"]
	if p.Status != models.StatusProcessed {
		t.Fatalf("status = %s, want processed (err=%q)", p.Status, p.ProcessError)
	}
	if p.ExperienceYears != 5 {
		t.Errorf("ExperienceYears = %d, want 5", p.ExperienceYears)
	}
	for _, s := range p.Skills {
		if s == "cobol" {
			t.Errorf("stale skill survived reprocessing: %v", p.Skills)
		}
	}
	if len(p.Embedding.Slice()) != 2 {
		t.Errorf("embedding not stored: %v", p.Embedding.Slice())
	}
	if p.EducationTier != "bachelor" {
		t.Errorf("EducationTier = %q, want bachelor", p.EducationTier)
	}
	if len(repo.processing) != 1 {
		t.Errorf("MarkProcessing calls = %v", repo.processing)
	}
}

func TestHandleMsgEmbeddingFailureMarksError(t *testing.T) {
	repo := &fakeProfileRepo{
		profiles: map[string]*models.Profile{
			"p1": {ID: "p1", RawText: "some text", Status: models.StatusUploaded},
		},
		errored: map[string]string{},
	}
	pool := quietPool(repo, &fakeEmbedder{err: embedding.ErrUnavailable})

	pool.handleMsg(context.Background(), redis.XMessage{ID: "1-0", Values: map[string]any{"profile_id": "p1"}})

	p := repo.profiles["p1"]
	if p.Status != models.StatusError {
		t.Fatalf("status = %s, want error", p.Status)
	}
	if repo.errored["p1"] == "" {
		t.Errorf("no process error recorded")
	}
	if len(p.Embedding.Slice()) != 0 {
		t.Errorf("errored profile still carries an embedding")
	}
}

func TestHandleMsgEmptyTextMarksError(t *testing.T) {
	emb := &fakeEmbedder{vec: []float32{0.5}}
	repo := &fakeProfileRepo{
		profiles: map[string]*models.Profile{
			"p1": {ID: "p1", RawText: "   ", Status: models.StatusUploaded},
		},
		errored: map[string]string{},
	}
	pool := quietPool(repo, emb)

	pool.handleMsg(context.Background(), redis.XMessage{ID: "1-0", Values: map[string]any{"profile_id": "p1"}})

	if repo.profiles["p1"].Status != models.StatusError {
		t.Fatalf("status = %s, want error", repo.profiles["p1"].Status)
	}
	if emb.calls != 0 {
		t.Errorf("embedder called for empty text")
	}
}

func TestHandleMsgIgnoresMalformedMessage(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{}, errored: map[string]string{}}
	pool := quietPool(repo, &fakeEmbedder{})

	pool.handleMsg(context.Background(), redis.XMessage{ID: "1-0", Values: map[string]any{}})
	pool.handleMsg(context.Background(), redis.XMessage{ID: "1-1", Values: map[string]any{"profile_id": "unknown"}})

	if len(repo.processing) != 0 || len(repo.errored) != 0 {
		t.Errorf("malformed messages mutated state: %+v %+v", repo.processing, repo.errored)
	}
}
