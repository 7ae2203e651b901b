package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/talentgate/recruitmatch/internal/api/handlers"
	"github.com/talentgate/recruitmatch/internal/api/middleware"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Job       *handlers.JobHandler
	Candidate *handlers.CandidateHandler
	Match     *handlers.MatchHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// Public: auth, anonymous matching, candidate intake, free counts
	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)

	// Identity is optional here: anonymous callers get the gated shapes, but a
	// valid token still lands in the request log.
	api.POST("/match/instant", middleware.OptionalJWT(), d.Match.Instant)
	api.POST("/match/quick", middleware.OptionalJWT(), d.Match.Quick)

	api.POST("/candidates", d.Candidate.Create)
	api.POST("/candidates/:id/document", d.Candidate.AttachDocument)

	api.GET("/jobs/:id/candidates/count", middleware.OptionalJWT(), d.Match.Count)

	// Protected routes (JWT)
	auth := api.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/jobs", d.Job.Create)
	auth.GET("/jobs", d.Job.List)
	auth.GET("/jobs/:id", d.Job.Get)
	auth.PUT("/jobs/:id", d.Job.Update)
	auth.DELETE("/jobs/:id", d.Job.Delete)

	auth.GET("/jobs/:id/candidates", d.Match.Detailed)
	auth.POST("/candidates/:id/unlock", d.Candidate.Unlock)
	auth.GET("/candidates/:id/document", d.Candidate.Document)

	// Moderation
	auth.DELETE("/candidates/:id", middleware.RequireAdmin(), d.Candidate.Delete)
}
