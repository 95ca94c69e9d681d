// Package server exposes study sessions over HTTP.
package server

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/learnassist/internal/assistant"
	"github.com/abhisek/learnassist/internal/config"
	"github.com/abhisek/learnassist/internal/questions"
	"github.com/abhisek/learnassist/internal/store"
	"github.com/abhisek/learnassist/internal/study"
)

// AssistantFactory builds the chat assistant for one session. It returns
// an error wrapping assistant.ErrConfiguration when chat is unavailable.
type AssistantFactory func() (*assistant.Assistant, error)

// Deps are the collaborators of a Server.
type Deps struct {
	Factory *study.Factory

	// Events is the audit log; nil disables it.
	Events store.EventRepo

	// NewAssistant is nil when no LLM provider is configured.
	NewAssistant AssistantFactory
}

// Server holds the HTTP handlers and the live sessions.
type Server struct {
	sessions     *registry
	summarizer   questions.Summarizer
	recorder     *study.Recorder
	newAssistant AssistantFactory
	fixed        *questions.Random
}

// New creates a Server.
func New(deps Deps) *Server {
	return &Server{
		sessions:     newRegistry(deps.Factory),
		summarizer:   deps.Factory.Summarizer(),
		recorder:     study.NewRecorder(deps.Events),
		newAssistant: deps.NewAssistant,
		fixed:        questions.NewRandom(nil),
	}
}

// NewEngine creates the gin engine with request logging, recovery and
// CORS.
func NewEngine(cfg config.Config) *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	wildcard := len(origins) == 1 && origins[0] == "*"
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !wildcard,
		MaxAge:           12 * time.Hour,
	}))

	return r
}

// Register mounts the routes on r.
func (s *Server) Register(r gin.IRouter) {
	r.GET("/healthz", s.Health)
	r.GET("/Q_and_A/question", s.FixedQuestion)

	api := r.Group("/api/v1")
	{
		sessions := api.Group("/sessions")
		sessions.POST("", s.CreateSession)
		sessions.GET("/:id", s.GetSession)
		sessions.DELETE("/:id", s.DeleteSession)
		sessions.PUT("/:id/document", s.UploadDocument)
		sessions.POST("/:id/pass", s.Pass)
		sessions.POST("/:id/next", s.Next)
		sessions.POST("/:id/previous", s.Previous)
		sessions.GET("/:id/progress", s.Progress)
		sessions.POST("/:id/chat", s.Chat)
	}
}

// Shutdown ends every live session so that the audit log gets an end
// event for each.
func (s *Server) Shutdown(ctx context.Context) {
	n := s.sessions.count()
	s.sessions.closeAll(ctx, s.recorder)
	log.Info().Int("sessions", n).Msg("closed live sessions")
}
