package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/talentgate/recruitmatch/internal/models"
	"github.com/talentgate/recruitmatch/internal/utils"
)

type stubEmployerRepo struct {
	byEmail map[string]*models.Employer
}

func (s *stubEmployerRepo) Create(ctx context.Context, e *models.Employer) error {
	s.byEmail[e.Email] = e
	return nil
}

func (s *stubEmployerRepo) GetByID(ctx context.Context, id string) (*models.Employer, error) {
	for _, e := range s.byEmail {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (s *stubEmployerRepo) GetByEmail(ctx context.Context, email string) (*models.Employer, error) {
	e, ok := s.byEmail[email]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return e, nil
}

const testSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	repo := &stubEmployerRepo{byEmail: map[string]*models.Employer{}}
	svc := NewAuthService(repo, testSecret)
	ctx := context.Background()

	emp, token, err := svc.Register(ctx, "  Hiring@Example.COM ", "long-enough-pw", "Acme")
	if err != nil {
		t.Fatalf("Register() err = %v", err)
	}
	if emp.Email != "hiring@example.com" {
		t.Errorf("email not normalized: %q", emp.Email)
	}
	if emp.Role != models.RoleEmployer || emp.Credits != 0 {
		t.Errorf("new employer = %+v", emp)
	}
	if emp.PasswordHash == "long-enough-pw" || emp.PasswordHash == "" {
		t.Errorf("password stored badly")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims["sub"] != emp.ID || claims["role"] != string(models.RoleEmployer) {
		t.Errorf("claims = %v", claims)
	}

	if _, _, err := svc.Login(ctx, "hiring@example.com", "long-enough-pw"); err != nil {
		t.Errorf("Login() err = %v", err)
	}
	if _, _, err := svc.Login(ctx, "hiring@example.com", "wrong-password"); !utils.IsCode(err, utils.CodeUnauthorized) {
		t.Errorf("wrong password err = %v, want UNAUTHORIZED", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "whatever-pw"); !utils.IsCode(err, utils.CodeUnauthorized) {
		t.Errorf("unknown email err = %v, want UNAUTHORIZED", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	repo := &stubEmployerRepo{byEmail: map[string]*models.Employer{}}
	svc := NewAuthService(repo, testSecret)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "", "long-enough-pw", ""); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Errorf("empty email err = %v, want INVALID_ARGUMENT", err)
	}
	if _, _, err := svc.Register(ctx, "a@b.com", "short", ""); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Errorf("short password err = %v, want INVALID_ARGUMENT", err)
	}

	if _, _, err := svc.Register(ctx, "dup@example.com", "long-enough-pw", ""); err != nil {
		t.Fatalf("first register err = %v", err)
	}
	if _, _, err := svc.Register(ctx, "dup@example.com", "long-enough-pw", ""); !utils.IsCode(err, utils.CodeConflict) {
		t.Errorf("duplicate email err = %v, want CONFLICT", err)
	}
}
