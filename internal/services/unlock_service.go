package services

import (
	"context"
	"errors"

	"github.com/talentgate/recruitmatch/internal/models"
	pgrepo "github.com/talentgate/recruitmatch/internal/repositories/postgres"
	"github.com/talentgate/recruitmatch/internal/utils"
)

// UnlockResult carries everything the unlock endpoint returns: the now fully
// visible candidate, the grant, and the employer's remaining balance.
type UnlockResult struct {
	Candidate *models.Profile
	Grant     *models.UnlockGrant
	Remaining int64
}

type UnlockService interface {
	Unlock(ctx context.Context, employerID, candidateID string) (*UnlockResult, error)
	UnlockedCandidateIDs(ctx context.Context, employerID string) (map[string]bool, error)
	HasUnlock(ctx context.Context, employerID, candidateID string) (bool, error)
}

type unlockService struct {
	profiles pgrepo.ProfileRepository
	unlocks  pgrepo.UnlockRepository
}

func NewUnlockService(profiles pgrepo.ProfileRepository, unlocks pgrepo.UnlockRepository) UnlockService {
	return &unlockService{profiles: profiles, unlocks: unlocks}
}

func (s *unlockService) Unlock(ctx context.Context, employerID, candidateID string) (*UnlockResult, error) {
	const op = "UnlockService.Unlock"

	if employerID == "" || candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "employer_id and candidate_id are required", nil)
	}

	candidate, err := s.profiles.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate", err)
	}
	if candidate.Kind != models.KindCandidate {
		return nil, utils.E(utils.CodeNotFound, op, "candidate not found", nil)
	}

	grant, remaining, err := s.unlocks.GrantWithDebit(ctx, employerID, candidateID, candidate.UnlockPrice)
	if err != nil {
		if errors.Is(err, pgrepo.ErrInsufficientCredits) {
			return nil, utils.E(utils.CodePaymentRequired, op, "insufficient credits", err)
		}
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "employer not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to unlock candidate", err)
	}

	return &UnlockResult{Candidate: candidate, Grant: grant, Remaining: remaining}, nil
}

func (s *unlockService) HasUnlock(ctx context.Context, employerID, candidateID string) (bool, error) {
	const op = "UnlockService.HasUnlock"

	g, err := s.unlocks.Get(ctx, employerID, candidateID)
	if err != nil {
		return false, utils.E(utils.CodeInternal, op, "failed to check unlock", err)
	}
	return g != nil, nil
}

func (s *unlockService) UnlockedCandidateIDs(ctx context.Context, employerID string) (map[string]bool, error) {
	const op = "UnlockService.UnlockedCandidateIDs"

	ids, err := s.unlocks.ListCandidateIDs(ctx, employerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list unlocks", err)
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
