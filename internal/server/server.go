// Package server exposes sessions, briefings and the prompt store over
// a local HTTP API.
package server

import (
	"github.com/gin-gonic/gin"

	"github.com/joss/debrief/internal/briefing"
	"github.com/joss/debrief/internal/logging"
	"github.com/joss/debrief/internal/pipeline"
	"github.com/joss/debrief/internal/prompts"
	"github.com/joss/debrief/internal/session"
)

// Server routes API requests to the pipeline and stores.
type Server struct {
	pipe      *pipeline.Pipeline
	reader    *session.Reader
	briefings *briefing.Store
	prompts   *prompts.Store
	router    *gin.Engine
	log       *logging.Logger
}

// New builds the server and its routes.
func New(pipe *pipeline.Pipeline, reader *session.Reader, briefings *briefing.Store, promptStore *prompts.Store) *Server {
	s := &Server{
		pipe:      pipe,
		reader:    reader,
		briefings: briefings,
		prompts:   promptStore,
		router:    gin.Default(),
		log:       logging.New("server"),
	}

	api := s.router.Group("/api")
	{
		api.GET("/sessions", s.handleSessions)
		api.GET("/briefings", s.handleBriefings)
		api.GET("/briefings/:id", s.handleBriefing)
		api.GET("/status", s.handleStatus)
		api.POST("/analyze", s.handleAnalyze)

		api.GET("/prompts", s.handlePromptList)
		api.GET("/prompts/:name", s.handlePromptGet)
		api.POST("/prompts", s.handlePromptCreate)
		api.DELETE("/prompts/:name", s.handlePromptDelete)
		api.POST("/prompts/:name/use", s.handlePromptUse)
		api.POST("/prompts/:name/fill", s.handlePromptFill)
	}

	return s
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	s.log.Info("listening", map[string]any{"addr": addr})
	return s.router.Run(addr)
}
