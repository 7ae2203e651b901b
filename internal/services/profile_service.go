package services

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talentgate/recruitmatch/internal/models"
	mongorepo "github.com/talentgate/recruitmatch/internal/repositories/mongo"
	pgrepo "github.com/talentgate/recruitmatch/internal/repositories/postgres"
	"github.com/talentgate/recruitmatch/internal/storage"
	"github.com/talentgate/recruitmatch/internal/utils"
)

// ProcessQueue hands a profile id to the asynchronous processing pipeline.
type ProcessQueue interface {
	Enqueue(ctx context.Context, profileID string) error
}

type CreateCandidateInput struct {
	Name        string
	Email       string
	Phone       string
	RawText     string
	Public      bool
	UnlockPrice int64
}

type CreateJobInput struct {
	Title       string
	Description string

	// Optional explicit requirements. They are folded into the stored raw
	// text so that feature derivation stays a pure function of the text.
	RequiredSkills     []string
	RequiredExperience int
}

type UpdateJobInput struct {
	Title       *string
	Description *string
}

type JobSummary struct {
	models.Profile
	MatchCount int64 `json:"match_count"`
}

type ProfileService interface {
	CreateCandidate(ctx context.Context, in CreateCandidateInput) (*models.Profile, error)
	CreateJob(ctx context.Context, employerID string, in CreateJobInput) (*models.Profile, error)
	GetJobOwned(ctx context.Context, employerID, jobID string, admin bool) (*models.Profile, error)
	ListJobs(ctx context.Context, employerID string, page, pageSize int) ([]JobSummary, error)
	UpdateJob(ctx context.Context, employerID, jobID string, in UpdateJobInput, admin bool) (*models.Profile, error)
	DeleteJob(ctx context.Context, employerID, jobID string, admin bool) error
	GetCandidate(ctx context.Context, candidateID string) (*models.Profile, error)
	DeleteCandidate(ctx context.Context, candidateID string) error
	AttachDocument(ctx context.Context, profileID, fileName, mimeType string, size int64, extractedText string, r io.Reader) (*models.Document, error)
	GetDocument(ctx context.Context, profileID string) (*models.Document, error)
}

type profileService struct {
	profiles  pgrepo.ProfileRepository
	matches   pgrepo.MatchRepository
	documents mongorepo.DocumentRepository
	uploader  storage.Uploader
	queue     ProcessQueue
}

func NewProfileService(
	profiles pgrepo.ProfileRepository,
	matches pgrepo.MatchRepository,
	documents mongorepo.DocumentRepository,
	uploader storage.Uploader,
	queue ProcessQueue,
) ProfileService {
	return &profileService{
		profiles:  profiles,
		matches:   matches,
		documents: documents,
		uploader:  uploader,
		queue:     queue,
	}
}

func (s *profileService) CreateCandidate(ctx context.Context, in CreateCandidateInput) (*models.Profile, error) {
	const op = "ProfileService.CreateCandidate"

	if strings.TrimSpace(in.RawText) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "raw_text is required", nil)
	}
	if in.UnlockPrice < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unlock_price must be non-negative", nil)
	}

	now := time.Now().UTC()
	p := &models.Profile{
		ID:          uuid.NewString(),
		Kind:        models.KindCandidate,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		RawText:     in.RawText,
		Status:      models.StatusUploaded,
		Public:      in.Public,
		UnlockPrice: in.UnlockPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create candidate profile", err)
	}
	if err := s.enqueue(ctx, p.ID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to enqueue processing", err)
	}
	return p, nil
}

func (s *profileService) CreateJob(ctx context.Context, employerID string, in CreateJobInput) (*models.Profile, error) {
	const op = "ProfileService.CreateJob"

	if employerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "employer_id is required", nil)
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title and description are required", nil)
	}

	now := time.Now().UTC()
	p := &models.Profile{
		ID:                 uuid.NewString(),
		Kind:               models.KindJob,
		OwnerID:            &employerID,
		Title:              in.Title,
		Description:        in.Description,
		RequiredSkills:     in.RequiredSkills,
		RequiredExperience: in.RequiredExperience,
		RawText:            composeJobText(in),
		Status:             models.StatusUploaded,
		Public:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job profile", err)
	}
	if err := s.enqueue(ctx, p.ID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to enqueue processing", err)
	}
	return p, nil
}

func (s *profileService) GetJobOwned(ctx context.Context, employerID, jobID string, admin bool) (*models.Profile, error) {
	const op = "ProfileService.GetJobOwned"

	job, err := s.profiles.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	// Ownership failures read as not-found so the response never confirms
	// that someone else's job id exists.
	if job.Kind != models.KindJob {
		return nil, utils.E(utils.CodeNotFound, op, "job not found", nil)
	}
	if !admin && (job.OwnerID == nil || *job.OwnerID != employerID) {
		return nil, utils.E(utils.CodeNotFound, op, "job not found", nil)
	}
	return job, nil
}

func (s *profileService) ListJobs(ctx context.Context, employerID string, page, pageSize int) ([]JobSummary, error) {
	const op = "ProfileService.ListJobs"

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	jobs, err := s.profiles.ListByOwner(ctx, employerID, models.KindJob, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}

	out := make([]JobSummary, 0, len(jobs))
	for _, j := range jobs {
		n, err := s.matches.CountByJob(ctx, j.ID)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to count matches", err)
		}
		out = append(out, JobSummary{Profile: j, MatchCount: n})
	}
	return out, nil
}

func (s *profileService) UpdateJob(ctx context.Context, employerID, jobID string, in UpdateJobInput, admin bool) (*models.Profile, error) {
	const op = "ProfileService.UpdateJob"

	job, err := s.GetJobOwned(ctx, employerID, jobID, admin)
	if err != nil {
		return nil, err
	}

	textChanged := false
	if in.Title != nil && *in.Title != job.Title {
		job.Title = *in.Title
		textChanged = true
	}
	if in.Description != nil && *in.Description != job.Description {
		job.Description = *in.Description
		textChanged = true
	}
	// Recompose from the stored intake fields so the folded requirement
	// lines survive edits.
	if textChanged {
		job.RawText = composeJobText(CreateJobInput{
			Title:              job.Title,
			Description:        job.Description,
			RequiredSkills:     job.RequiredSkills,
			RequiredExperience: job.RequiredExperience,
		})
	}
	job.UpdatedAt = time.Now().UTC()

	if err := s.profiles.Update(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update job", err)
	}

	// Text changes invalidate the stored features and embedding; the worker
	// re-derives both from scratch.
	if textChanged {
		if err := s.enqueue(ctx, job.ID); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to enqueue reprocessing", err)
		}
	}
	return job, nil
}

func (s *profileService) DeleteJob(ctx context.Context, employerID, jobID string, admin bool) error {
	const op = "ProfileService.DeleteJob"

	job, err := s.GetJobOwned(ctx, employerID, jobID, admin)
	if err != nil {
		return err
	}
	if err := s.matches.DeleteByJob(ctx, job.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete match records", err)
	}
	if err := s.profiles.Delete(ctx, job.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete job", err)
	}
	return nil
}

func (s *profileService) GetCandidate(ctx context.Context, candidateID string) (*models.Profile, error) {
	const op = "ProfileService.GetCandidate"

	p, err := s.profiles.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate", err)
	}
	if p.Kind != models.KindCandidate {
		return nil, utils.E(utils.CodeNotFound, op, "candidate not found", nil)
	}
	return p, nil
}

// DeleteCandidate removes a candidate profile and its derived match records.
// Admin moderation path; the route enforces the role.
func (s *profileService) DeleteCandidate(ctx context.Context, candidateID string) error {
	const op = "ProfileService.DeleteCandidate"

	p, err := s.GetCandidate(ctx, candidateID)
	if err != nil {
		return err
	}
	if err := s.matches.DeleteByCandidate(ctx, p.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete match records", err)
	}
	if err := s.profiles.Delete(ctx, p.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete candidate", err)
	}
	return nil
}

// AttachDocument stores the original file privately and archives the caller-
// supplied extracted text alongside it. Text extraction itself is external.
func (s *profileService) AttachDocument(ctx context.Context, profileID, fileName, mimeType string, size int64, extractedText string, r io.Reader) (*models.Document, error) {
	const op = "ProfileService.AttachDocument"

	if profileID == "" || fileName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "profile_id and file_name are required", nil)
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
	}

	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}

	objectName := "documents/" + p.ID + "/" + uuid.NewString() + "-" + fileName
	storedPath, err := s.uploader.Upload(ctx, objectName, mimeType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload document", err)
	}

	doc := &models.Document{
		ProfileID:  p.ID,
		ObjectPath: storedPath,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		RawText:    extractedText,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.documents.Upsert(ctx, doc); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to archive document", err)
	}

	// Fresh extracted text replaces the profile text and triggers
	// re-derivation of all features.
	if strings.TrimSpace(extractedText) != "" {
		p.RawText = extractedText
		p.UpdatedAt = time.Now().UTC()
		if err := s.profiles.Update(ctx, p); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to update profile text", err)
		}
		if err := s.enqueue(ctx, p.ID); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to enqueue reprocessing", err)
		}
	}
	return doc, nil
}

func (s *profileService) GetDocument(ctx context.Context, profileID string) (*models.Document, error) {
	const op = "ProfileService.GetDocument"

	doc, err := s.documents.GetByProfileID(ctx, profileID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "document not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load document", err)
	}
	return doc, nil
}

func (s *profileService) enqueue(ctx context.Context, profileID string) error {
	if s.queue == nil {
		return nil
	}
	return s.queue.Enqueue(ctx, profileID)
}

// composeJobText folds explicit requirement fields into the stored text so
// the normalizer sees them. Feature sets stay a pure function of raw text.
func composeJobText(in CreateJobInput) string {
	var b strings.Builder
	b.WriteString(in.Title)
	b.WriteString(". ")
	b.WriteString(in.Description)
	if len(in.RequiredSkills) > 0 {
		b.WriteString(". Required skills: ")
		b.WriteString(strings.Join(in.RequiredSkills, ", "))
	}
	if in.RequiredExperience > 0 {
		b.WriteString(". Requires ")
		b.WriteString(strconv.Itoa(in.RequiredExperience))
		b.WriteString(" years experience")
	}
	return b.String()
}
