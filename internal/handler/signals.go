package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"polyoracle/internal/models"
	"polyoracle/internal/repository"
)

type SignalHandler struct {
	Repo repository.Repository
}

func (h *SignalHandler) Register(r *gin.Engine) {
	group := r.Group("/api/signals")
	group.GET("", h.listSignals)
	group.GET("/:id", h.getSignal)
}

func (h *SignalHandler) listSignals(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)
	minScore := intQueryPtr(c, "min_score")

	var marketID *string
	if raw := strings.TrimSpace(c.Query("market_id")); raw != "" {
		marketID = &raw
	}
	var sinceTime *time.Time
	if raw := strings.TrimSpace(c.Query("since")); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			parsed = parsed.UTC()
			sinceTime = &parsed
		}
	}

	items, err := h.Repo.ListSignals(c.Request.Context(), repository.ListSignalsParams{
		Limit:    limit,
		Offset:   offset,
		MarketID: marketID,
		MinScore: minScore,
		Since:    sinceTime,
		OrderBy:  "created_at",
		Asc:      boolPtr(false),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, int64(len(items))))
}

type signalDetail struct {
	models.Signal
	Market      *models.Market      `json:"market,omitempty"`
	WhaleTrades []models.WhaleTrade `json:"whale_trades"`
	RedditPosts []models.RedditPost `json:"reddit_posts"`
}

func (h *SignalHandler) getSignal(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid signal id", nil)
		return
	}

	signal, err := h.Repo.GetSignalByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if signal == nil {
		Error(c, http.StatusNotFound, "signal not found", nil)
		return
	}

	detail := signalDetail{Signal: *signal}
	if market, err := h.Repo.GetMarketByID(c.Request.Context(), signal.MarketID); err == nil {
		detail.Market = market
	}
	if trades, err := h.Repo.ListWhaleTradesByMarketID(c.Request.Context(), signal.MarketID); err == nil {
		detail.WhaleTrades = trades
	}
	if posts, err := h.Repo.ListRedditPostsByMarketID(c.Request.Context(), signal.MarketID); err == nil {
		detail.RedditPosts = posts
	}
	Ok(c, detail, nil)
}
