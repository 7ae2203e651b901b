package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentgate/recruitmatch/internal/models"
	"github.com/talentgate/recruitmatch/internal/utils"
)

// ErrInsufficientCredits aborts the unlock transaction with no partial debit.
var ErrInsufficientCredits = errors.New("insufficient credits")

type UnlockRepository interface {
	Get(ctx context.Context, employerID, candidateID string) (*models.UnlockGrant, error)
	ListCandidateIDs(ctx context.Context, employerID string) ([]string, error)

	// GrantWithDebit runs grant creation and the credit debit as one atomic
	// transaction, serialized per employer by a row lock. A pre-existing grant
	// for the pair returns as-is without debiting (idempotent on pair).
	GrantWithDebit(ctx context.Context, employerID, candidateID string, price int64) (grant *models.UnlockGrant, remaining int64, err error)
}

type unlockRepo struct {
	db *gorm.DB
}

func NewUnlockRepo(db *gorm.DB) UnlockRepository {
	return &unlockRepo{db: db}
}

func (r *unlockRepo) Get(ctx context.Context, employerID, candidateID string) (*models.UnlockGrant, error) {
	var g models.UnlockGrant
	err := r.db.WithContext(ctx).
		Where("employer_id = ? AND candidate_id = ?", employerID, candidateID).
		Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *unlockRepo) ListCandidateIDs(ctx context.Context, employerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.UnlockGrant{}).
		Where("employer_id = ?", employerID).
		Pluck("candidate_id", &ids).Error
	return ids, err
}

func (r *unlockRepo) GrantWithDebit(ctx context.Context, employerID, candidateID string, price int64) (*models.UnlockGrant, int64, error) {
	var (
		grant     *models.UnlockGrant
		remaining int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the employer row so concurrent unlocks of the same pair
		// serialize here: at most one debit can happen.
		var emp models.Employer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", employerID).
			Take(&emp).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound
			}
			return err
		}

		var existing models.UnlockGrant
		err := tx.Where("employer_id = ? AND candidate_id = ?", employerID, candidateID).
			Take(&existing).Error
		if err == nil {
			grant = &existing
			remaining = emp.Credits
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if emp.Credits < price {
			return ErrInsufficientCredits
		}

		g := &models.UnlockGrant{
			ID:            uuid.NewString(),
			EmployerID:    employerID,
			CandidateID:   candidateID,
			AmountCredits: price,
			CreatedAt:     time.Now().UTC(),
		}
		if err := tx.Create(g).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Employer{}).
			Where("id = ?", employerID).
			Update("credits", gorm.Expr("credits - ?", price)).Error; err != nil {
			return err
		}

		grant = g
		remaining = emp.Credits - price
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return grant, remaining, nil
}
