package postgres

import (
	"context"
	"errors"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/talentgate/recruitmatch/internal/models"
	"github.com/talentgate/recruitmatch/internal/utils"
)

// SimilarHit is one row from the vector index: an opaque profile id plus its
// cosine similarity rescaled to [0,1].
type SimilarHit struct {
	ProfileID  string  `gorm:"column:id"`
	Similarity float64 `gorm:"column:similarity"`
}

type ProfileRepository interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error

	// MarkProcessing and MarkError both null the embedding: a vector is only
	// ever present on rows whose status is "processed".
	MarkProcessing(ctx context.Context, id string) error
	MarkError(ctx context.Context, id string, processErr string) error
	ListByOwner(ctx context.Context, ownerID string, kind models.ProfileKind, offset, limit int) ([]models.Profile, error)
	Delete(ctx context.Context, id string) error

	// SearchSimilar is the similarity-index contract: ordered by similarity
	// descending, at most k rows, all above floor. Only processed rows of the
	// target kind are candidates.
	SearchSimilar(ctx context.Context, vec pgvector.Vector, kind models.ProfileKind, k int, floor float64) ([]SimilarHit, error)
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, p *models.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *profileRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.Profile
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&out).Error
	return out, err
}

func (r *profileRepo) Update(ctx context.Context, p *models.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *profileRepo) MarkProcessing(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        models.StatusProcessing,
			"process_error": "",
			"embedding":     nil,
		}).Error
}

func (r *profileRepo) MarkError(ctx context.Context, id string, processErr string) error {
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        models.StatusError,
			"process_error": processErr,
			"embedding":     nil,
		}).Error
}

func (r *profileRepo) ListByOwner(ctx context.Context, ownerID string, kind models.ProfileKind, offset, limit int) ([]models.Profile, error) {
	var out []models.Profile
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND kind = ?", ownerID, kind).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *profileRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Profile{}, "id = ?", id).Error
}

func (r *profileRepo) SearchSimilar(ctx context.Context, vec pgvector.Vector, kind models.ProfileKind, k int, floor float64) ([]SimilarHit, error) {
	var hits []SimilarHit
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, 1 - (embedding <=> ?) AS similarity
		FROM profiles
		WHERE kind = ?
		  AND status = ?
		  AND 1 - (embedding <=> ?) > ?
		ORDER BY similarity DESC
		LIMIT ?
	`, vec, kind, models.StatusProcessed, vec, floor, k).Scan(&hits).Error
	return hits, err
}
