package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/packtracker/internal/models"
	"github.com/codyseavey/packtracker/internal/store"
)

// maxLogLimit caps the limit query parameter
const maxLogLimit = 1000

type LogHandler struct {
	store *store.GormStore
}

func NewLogHandler(s *store.GormStore) *LogHandler {
	return &LogHandler{store: s}
}

// GetLogs returns the newest documents of one change log
func (h *LogHandler) GetLogs(c *gin.Context) {
	kind, err := models.ParseLogKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := store.DefaultLogLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(limit, maxLogLimit)
	}

	logs, err := h.store.RecentLogs(c.Request.Context(), kind, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "logs": logs})
}
