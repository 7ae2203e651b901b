package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentgate/recruitmatch/internal/models"
)

type MatchRepository interface {
	// UpsertBatch writes one record per (job_id, candidate_id) pair. Existing
	// pairs get their scores overwritten; no duplicates under concurrent
	// re-scoring, enforced by the unique pair index.
	UpsertBatch(ctx context.Context, records []*models.MatchRecord) error
	CountByJob(ctx context.Context, jobID string) (int64, error)
	DeleteByJob(ctx context.Context, jobID string) error
	DeleteByCandidate(ctx context.Context, candidateID string) error
}

type matchRepo struct {
	db *gorm.DB
}

func NewMatchRepo(db *gorm.DB) MatchRepository {
	return &matchRepo{db: db}
}

func (r *matchRepo) UpsertBatch(ctx context.Context, records []*models.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}, {Name: "candidate_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"similarity_score", "match_score", "breakdown", "status", "updated_at"}),
		}).
		Create(&records).Error
}

func (r *matchRepo) CountByJob(ctx context.Context, jobID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.MatchRecord{}).
		Where("job_id = ?", jobID).
		Count(&n).Error
	return n, err
}

func (r *matchRepo) DeleteByJob(ctx context.Context, jobID string) error {
	return r.db.WithContext(ctx).Delete(&models.MatchRecord{}, "job_id = ?", jobID).Error
}

func (r *matchRepo) DeleteByCandidate(ctx context.Context, candidateID string) error {
	return r.db.WithContext(ctx).Delete(&models.MatchRecord{}, "candidate_id = ?", candidateID).Error
}
