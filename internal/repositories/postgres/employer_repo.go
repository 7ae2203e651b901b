package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/talentgate/recruitmatch/internal/models"
	"github.com/talentgate/recruitmatch/internal/utils"
)

type EmployerRepository interface {
	Create(ctx context.Context, e *models.Employer) error
	GetByID(ctx context.Context, id string) (*models.Employer, error)
	GetByEmail(ctx context.Context, email string) (*models.Employer, error)
}

type employerRepo struct {
	db *gorm.DB
}

func NewEmployerRepo(db *gorm.DB) EmployerRepository {
	return &employerRepo{db: db}
}

func (r *employerRepo) Create(ctx context.Context, e *models.Employer) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *employerRepo) GetByID(ctx context.Context, id string) (*models.Employer, error) {
	var e models.Employer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &e, err
}

func (r *employerRepo) GetByEmail(ctx context.Context, email string) (*models.Employer, error) {
	var e models.Employer
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &e, err
}
