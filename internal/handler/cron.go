package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"polyoracle/internal/service"
)

// CronHandler exposes the scheduled-generation entry point over HTTP so an
// external scheduler (or an operator) can trigger a pass. The bearer secret
// is checked before any pipeline work begins.
type CronHandler struct {
	Generator *service.SignalGenerator
	Secret    string
	Logger    *zap.Logger
}

func (h *CronHandler) Register(r *gin.Engine) {
	r.GET("/api/cron/generate", h.generate)
	r.POST("/api/cron/generate", h.generate)
}

type signalSummary struct {
	ID         uint64 `json:"id"`
	MarketID   string `json:"market_id"`
	Score      int    `json:"score"`
	Action     string `json:"action"`
	Confidence string `json:"confidence"`
}

type cronSummary struct {
	Success          bool            `json:"success"`
	Timestamp        string          `json:"timestamp"`
	ExecutionTimeMS  int64           `json:"execution_time_ms"`
	SignalsGenerated int             `json:"signals_generated"`
	Errors           []string        `json:"errors"`
	Signals          []signalSummary `json:"signals"`
}

func (h *CronHandler) generate(c *gin.Context) {
	if h.Generator == nil {
		Error(c, http.StatusInternalServerError, "generator unavailable", nil)
		return
	}

	auth := c.GetHeader("Authorization")
	if h.Secret == "" || auth != "Bearer "+h.Secret {
		if h.Logger != nil {
			h.Logger.Warn("unauthorized cron trigger", zap.String("remote", c.ClientIP()))
		}
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	start := time.Now()
	if h.Logger != nil {
		h.Logger.Info("cron trigger accepted", zap.String("method", c.Request.Method))
	}

	result := h.Generator.Run(c.Request.Context(), service.GenerateOptions{})

	summaries := make([]signalSummary, 0, len(result.Signals))
	for _, s := range result.Signals {
		summaries = append(summaries, signalSummary{
			ID:         s.ID,
			MarketID:   s.MarketID,
			Score:      s.Score,
			Action:     s.Action,
			Confidence: s.Confidence,
		})
	}

	c.JSON(http.StatusOK, cronSummary{
		Success:          result.Success,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		ExecutionTimeMS:  time.Since(start).Milliseconds(),
		SignalsGenerated: result.SignalsGenerated,
		Errors:           result.Errors,
		Signals:          summaries,
	})
}
