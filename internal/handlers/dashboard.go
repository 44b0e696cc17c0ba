package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"inkwell/internal/store"
)

type DashboardHandler struct {
	stats store.StatsStore
	log   zerolog.Logger
}

func NewDashboardHandler(stats store.StatsStore, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{stats: stats, log: log}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("dashboard: stats failed")
		respondInternal(c)
		return
	}

	recent := make([]gin.H, len(stats.RecentPosts))
	for i := range stats.RecentPosts {
		p := &stats.RecentPosts[i]
		recent[i] = gin.H{
			"id":         p.ID,
			"title":      p.Title,
			"author":     p.Author.Nome,
			"tags":       p.TagNames(),
			"created_at": p.CreatedAt.Format(time.RFC3339),
		}
	}
	popular := make([]gin.H, len(stats.PopularTags))
	for i := range stats.PopularTags {
		popular[i] = tagJSON(&stats.PopularTags[i])
	}

	respond(c, http.StatusOK, "Statistics retrieved successfully.", gin.H{
		"users": gin.H{
			"total":    stats.UsersTotal,
			"active":   stats.UsersActive,
			"inactive": stats.UsersInactive,
		},
		"posts": gin.H{
			"total":     stats.PostsTotal,
			"published": stats.PostsTotal, // no draft state in this model
			"draft":     0,
		},
		"tags":         stats.TagsTotal,
		"comments":     stats.CommentsTotal,
		"recent_posts": recent,
		"popular_tags": popular,
	})
}

func (h *DashboardHandler) Activity(c *gin.Context) {
	feed, err := h.stats.Activity(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("dashboard: activity failed")
		respondInternal(c)
		return
	}
	respond(c, http.StatusOK, "Recent activity retrieved successfully.", feed)
}
