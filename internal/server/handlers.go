package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/joss/debrief/internal/briefing"
	"github.com/joss/debrief/internal/prompts"
	"github.com/joss/debrief/internal/session"
)

func (s *Server) handleSessions(c *gin.Context) {
	sessions, err := s.reader.List(c.Query("project"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

func (s *Server) handleBriefings(c *gin.Context) {
	summaries, err := s.briefings.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"briefings": summaries, "count": len(summaries)})
}

func (s *Server) handleBriefing(c *gin.Context) {
	b, err := s.briefings.Load(c.Param("id"))
	if err != nil {
		if errors.Is(err, briefing.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "briefing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) handleStatus(c *gin.Context) {
	status, err := s.pipe.Status()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

type analyzeRequest struct {
	SessionID   string `json:"session_id"`
	ProjectPath string `json:"project_path"`
	Snapshot    bool   `json:"snapshot"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run := s.pipe.Run
	if req.Snapshot {
		run = s.pipe.RunSnapshot
	}

	b, err := run(c.Request.Context(), req.SessionID, req.ProjectPath)
	if err != nil {
		if session.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) handlePromptList(c *gin.Context) {
	var (
		result []prompts.Prompt
		err    error
	)
	switch {
	case c.Query("q") != "":
		result, err = s.prompts.Search(c.Query("q"))
	case c.Query("recent") != "":
		limit, convErr := strconv.Atoi(c.Query("recent"))
		if convErr != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recent must be a positive integer"})
			return
		}
		result, err = s.prompts.Recent(limit)
	default:
		result, err = s.prompts.List(c.Query("category"))
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompts": result, "count": len(result)})
}

func (s *Server) handlePromptGet(c *gin.Context) {
	p, err := s.prompts.Get(c.Param("name"))
	if err != nil {
		s.promptError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type promptCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
}

func (s *Server) handlePromptCreate(c *gin.Context) {
	var req promptCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := prompts.New(req.Name, req.Content, req.Category)
	if err := s.prompts.Save(p); err != nil {
		if errors.Is(err, prompts.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) handlePromptDelete(c *gin.Context) {
	p, err := s.prompts.Delete(c.Param("name"))
	if err != nil {
		s.promptError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": p.Name})
}

func (s *Server) handlePromptUse(c *gin.Context) {
	p, err := s.prompts.RecordUse(c.Param("name"))
	if err != nil {
		s.promptError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type promptFillRequest struct {
	Values map[string]string `json:"values"`
}

func (s *Server) handlePromptFill(c *gin.Context) {
	var req promptFillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := s.prompts.Get(c.Param("name"))
	if err != nil {
		s.promptError(c, err)
		return
	}

	if missing := prompts.ValidateVariables(p.Content, req.Values); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing variables", "missing": missing})
		return
	}

	if _, err := s.prompts.RecordUse(p.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":   p.Name,
		"filled": prompts.FillTemplate(p.Content, req.Values),
	})
}

func (s *Server) promptError(c *gin.Context, err error) {
	if errors.Is(err, prompts.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
