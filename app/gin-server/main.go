package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/talentgate/recruitmatch/config"
	"github.com/talentgate/recruitmatch/internal/api/handlers"
	"github.com/talentgate/recruitmatch/internal/api/middleware"
	"github.com/talentgate/recruitmatch/internal/api/routes"
	"github.com/talentgate/recruitmatch/internal/cache"
	"github.com/talentgate/recruitmatch/internal/logger"
	"github.com/talentgate/recruitmatch/internal/providers/embedding"
	mongorepo "github.com/talentgate/recruitmatch/internal/repositories/mongo"
	pgrepo "github.com/talentgate/recruitmatch/internal/repositories/postgres"
	"github.com/talentgate/recruitmatch/internal/services"
	"github.com/talentgate/recruitmatch/internal/storage"
	"github.com/talentgate/recruitmatch/internal/workers"
)

func main() {
	_ = godotenv.Load()

	l := logger.New("recruitmatch-api")

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.MigratePostgres(config.PostgresDB); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	l.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	l.Info("MongoDB connected")

	ctx := context.Background()

	// External clients are constructed once here and injected; nothing else
	// holds provider state.
	embedder := embedding.NewOpenAIProvider(os.Getenv("OPENAI_API_KEY"))

	var (
		uploader storage.Uploader
		signer   storage.Signer
	)
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		u, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer u.Close()
		uploader = u
		signer = u
	}

	profileRepo := pgrepo.NewProfileRepo(config.PostgresDB)
	matchRepo := pgrepo.NewMatchRepo(config.PostgresDB)
	employerRepo := pgrepo.NewEmployerRepo(config.PostgresDB)
	unlockRepo := pgrepo.NewUnlockRepo(config.PostgresDB)
	documentRepo := mongorepo.NewDocumentRepo(config.MongoDB)

	queue := &workers.Queue{Redis: config.RedisClient}
	redisCache := cache.NewRedisCache(config.RedisClient, "recruitmatch")

	profileSvc := services.NewProfileService(profileRepo, matchRepo, documentRepo, uploader, queue)
	matchSvc := services.NewMatchService(profileRepo, matchRepo, embedder, redisCache, matchDefaultsFromEnv())
	unlockSvc := services.NewUnlockService(profileRepo, unlockRepo)
	authSvc := services.NewAuthService(employerRepo, os.Getenv("JWT_SECRET"))

	pool := &workers.ProcessWorkerPool{
		Redis:    config.RedisClient,
		Profiles: profileRepo,
		Embedder: embedder,
		Logger:   l,
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("worker pool error: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:      handlers.NewAuthHandler(authSvc),
		Job:       handlers.NewJobHandler(profileSvc),
		Candidate: handlers.NewCandidateHandler(profileSvc, unlockSvc, signer),
		Match:     handlers.NewMatchHandler(matchSvc, profileSvc, unlockSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func matchDefaultsFromEnv() services.MatchDefaults {
	d := services.DefaultMatchDefaults()
	if v := os.Getenv("MATCH_RETRIEVAL_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			d.RetrievalK = n
		}
	}
	if v := os.Getenv("MATCH_SIM_FLOOR_BROAD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			d.BroadSimFloor = f
		}
	}
	if v := os.Getenv("MATCH_SIM_FLOOR_DETAILED"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			d.DetailedSimFloor = f
		}
	}
	if v := os.Getenv("MATCH_SCORE_FLOOR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			d.ScoreFloor = n
		}
	}
	return d
}
