package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/codyseavey/packtracker/internal/importer"
	"github.com/codyseavey/packtracker/internal/models"
	"github.com/codyseavey/packtracker/internal/stats"
	"github.com/codyseavey/packtracker/internal/store"
)

// respondError maps domain errors to HTTP statuses with a JSON body
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalid),
		errors.Is(err, models.ErrUnknownRange),
		errors.Is(err, importer.ErrNoItems):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, stats.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer request"})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled"})
	case errors.Is(err, stats.ErrStoreUnavailable):
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Store unavailable")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func setRef(c *gin.Context) models.SetRef {
	return models.SetRef{
		Language: c.Param("lang"),
		Category: c.Param("cat"),
		Set:      c.Param("set"),
	}
}
