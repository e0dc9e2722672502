// Package server exposes the analysis pipeline over HTTP for the web UI.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iacguardian/iac-guardian/pkg/analyzer"
	"github.com/iacguardian/iac-guardian/pkg/pipeline"
	"github.com/iacguardian/iac-guardian/pkg/scenarios"
)

// AnalyzeRequest is the POST /api/v1/analyze body.
type AnalyzeRequest struct {
	Diff          string `json:"diff"`
	Scenario      string `json:"scenario"`
	Service       string `json:"service"`
	LookbackHours int    `json:"lookback_hours"`
	AutoFix       *bool  `json:"auto_fix"`
}

type Server struct {
	pipeline        *pipeline.Pipeline
	defaultLookback int
	logger          *slog.Logger
}

func New(p *pipeline.Pipeline, defaultLookback int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{pipeline: p, defaultLookback: defaultLookback, logger: logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)

	v1 := router.Group("/api/v1")
	v1.GET("/scenarios", s.handleScenarios)
	v1.POST("/analyze", s.handleAnalyze)

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleScenarios(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios.All()})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	diff := req.Diff
	service := req.Service
	if req.Scenario != "" {
		scenario, ok := scenarios.ByID(req.Scenario)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown scenario: " + req.Scenario})
			return
		}
		diff = scenario.Diff
		if service == "" {
			service = scenario.Service
		}
	}
	if diff == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "diff or scenario is required"})
		return
	}

	lookback := req.LookbackHours
	if lookback <= 0 {
		lookback = s.defaultLookback
	}
	autoFix := true
	if req.AutoFix != nil {
		autoFix = *req.AutoFix
	}

	report, err := s.pipeline.Analyze(c.Request.Context(), pipeline.Request{
		Diff:          diff,
		Service:       service,
		LookbackHours: lookback,
		AutoFix:       autoFix,
	})
	if err != nil {
		// "Analysis could not be completed" is distinct from "no risk
		// found"; never collapse the two into one success path.
		status := http.StatusInternalServerError
		if errors.Is(err, analyzer.ErrModelUnavailable) {
			status = http.StatusBadGateway
		}
		s.logger.Error("analysis failed", "error", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
