package workers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/talentgate/recruitmatch/internal/models"
	"github.com/talentgate/recruitmatch/internal/normalizer"
	"github.com/talentgate/recruitmatch/internal/providers/embedding"
	pgrepo "github.com/talentgate/recruitmatch/internal/repositories/postgres"
)

const (
	DefaultStream = "profiles:process"
	DefaultGroup  = "profile-workers"
)

// Queue enqueues profile ids onto the processing stream. It satisfies
// services.ProcessQueue.
type Queue struct {
	Redis  *redis.Client
	Stream string
}

func (q *Queue) Enqueue(ctx context.Context, profileID string) error {
	stream := q.Stream
	if stream == "" {
		stream = DefaultStream
	}
	return q.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"profile_id": profileID},
	}).Err()
}

// ProcessWorkerPool consumes the processing stream and takes profiles through
// uploaded -> processing -> processed|error: re-derive features from raw text,
// generate the embedding, store both in one write.
type ProcessWorkerPool struct {
	Redis      *redis.Client
	Profiles   pgrepo.ProfileRepository
	Embedder   embedding.Provider
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *ProcessWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Profiles == nil || p.Embedder == nil {
		return errors.New("ProcessWorkerPool missing dependency: Redis/Profiles/Embedder must be set")
	}
	if p.Stream == "" {
		p.Stream = DefaultStream
	}
	if p.Group == "" {
		p.Group = DefaultGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 3
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *ProcessWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *ProcessWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	profileID, _ := msg.Values["profile_id"].(string)
	if profileID == "" {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":   msg.ID,
		"profile_id": profileID,
	})

	profile, err := p.Profiles.GetByID(ctx, profileID)
	if err != nil {
		log.WithError(err).Warn("profile load failed")
		return
	}

	if err := p.Profiles.MarkProcessing(ctx, profile.ID); err != nil {
		log.WithError(err).Error("mark processing failed")
		return
	}

	feats, err := normalizer.Normalize(profile.RawText)
	if err != nil {
		_ = p.Profiles.MarkError(ctx, profile.ID, "empty profile text")
		log.WithError(err).Warn("normalization failed")
		return
	}

	vec, err := p.embedWithRetry(ctx, profile.RawText)
	if err != nil {
		_ = p.Profiles.MarkError(ctx, profile.ID, "embedding generation failed")
		log.WithError(err).Error("embedding failed")
		return
	}

	// Features are replaced wholesale, never merged with previous values.
	profile.Skills = feats.Skills
	profile.ExperienceYears = feats.ExperienceYears
	profile.Education = feats.Education
	profile.EducationTier = normalizer.HighestTier(feats.Education).String()
	profile.Certifications = feats.Certifications
	profile.Embedding = pgvector.NewVector(vec)
	profile.Status = models.StatusProcessed
	profile.ProcessError = ""
	profile.UpdatedAt = time.Now().UTC()

	if err := p.Profiles.Update(ctx, profile); err != nil {
		log.WithError(err).Error("profile update failed")
		return
	}

	log.WithFields(logrus.Fields{
		"skills":           len(profile.Skills),
		"experience_years": profile.ExperienceYears,
	}).Info("profile processed")
}

func (p *ProcessWorkerPool) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	backoff := 500 * time.Millisecond
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		vec, err := p.Embedder.Embed(ctx, text)
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
