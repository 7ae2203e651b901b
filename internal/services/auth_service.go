package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/talentgate/recruitmatch/internal/models"
	pgrepo "github.com/talentgate/recruitmatch/internal/repositories/postgres"
	"github.com/talentgate/recruitmatch/internal/utils"
)

const tokenTTL = 24 * time.Hour

// signupCredits is the starter balance for a new employer account. Top-ups
// happen through the external payment processor.
const signupCredits = 0

type AuthService interface {
	Register(ctx context.Context, email, password, companyName string) (*models.Employer, string, error)
	Login(ctx context.Context, email, password string) (*models.Employer, string, error)
}

type authService struct {
	employers pgrepo.EmployerRepository
	secret    []byte
}

func NewAuthService(employers pgrepo.EmployerRepository, jwtSecret string) AuthService {
	return &authService{employers: employers, secret: []byte(jwtSecret)}
}

func (s *authService) Register(ctx context.Context, email, password, companyName string) (*models.Employer, string, error) {
	const op = "AuthService.Register"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "email and a password of at least 8 characters are required", nil)
	}

	if _, err := s.employers.GetByEmail(ctx, email); err == nil {
		return nil, "", utils.E(utils.CodeConflict, op, "email already registered", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to check email", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	now := time.Now().UTC()
	emp := &models.Employer{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CompanyName:  companyName,
		Role:         models.RoleEmployer,
		Credits:      signupCredits,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.employers.Create(ctx, emp); err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to create employer", err)
	}

	token, err := s.sign(emp)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return emp, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.Employer, string, error) {
	const op = "AuthService.Login"

	email = strings.ToLower(strings.TrimSpace(email))
	emp, err := s.employers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to load employer", err)
	}
	if err := utils.CheckPassword(emp.PasswordHash, password); err != nil {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
	}

	token, err := s.sign(emp)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return emp, token, nil
}

func (s *authService) sign(emp *models.Employer) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  emp.ID,
		"role": string(emp.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
