package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/packtracker/internal/models"
	"github.com/codyseavey/packtracker/internal/services"
	"github.com/codyseavey/packtracker/internal/stats"
)

// defaultRange is what the Statistics view opens with
const defaultRange = models.RangeMonth

// ClientIDHeader lets a browser tab identify itself so that its newer
// stats requests supersede its older ones. The client IP is used otherwise.
const ClientIDHeader = "X-Client-ID"

type StatsHandler struct {
	stats     *stats.Service
	snapshots *services.SnapshotService
	currency  string
}

func NewStatsHandler(s *stats.Service, snapshots *services.SnapshotService, currency string) *StatsHandler {
	return &StatsHandler{stats: s, snapshots: snapshots, currency: currency}
}

type pointDTO struct {
	X         int64   `json:"x"`
	Y         float64 `json:"y"`
	Synthetic bool    `json:"synthetic,omitempty"`
}

// SeriesResponse is the chart payload. X values are epoch milliseconds.
type SeriesResponse struct {
	Range         models.RangeSelector `json:"range"`
	Points        []pointDTO           `json:"points"`
	MinX          int64                `json:"min_x"`
	MaxX          int64                `json:"max_x"`
	MinY          float64              `json:"min_y"`
	MaxY          float64              `json:"max_y"`
	TotalNow      float64              `json:"total_now"`
	TotalDisplay  string               `json:"total_display"`
	Baseline      float64              `json:"baseline"`
	BucketWidthMs int64                `json:"bucket_width_ms"`
	Events        int                  `json:"events"`
	Malformed     int                  `json:"malformed,omitempty"`
	ComputedAt    time.Time            `json:"computed_at"`
}

func newSeriesResponse(s *models.Series, currency string) SeriesResponse {
	points := make([]pointDTO, len(s.Points))
	for i, p := range s.Points {
		points[i] = pointDTO{X: p.X, Y: p.Y.InexactFloat64(), Synthetic: p.Synthetic}
	}
	return SeriesResponse{
		Range:         s.Range,
		Points:        points,
		MinX:          s.MinX,
		MaxX:          s.MaxX,
		MinY:          s.MinY.InexactFloat64(),
		MaxY:          s.MaxY.InexactFloat64(),
		TotalNow:      s.TotalNow.InexactFloat64(),
		TotalDisplay:  models.FormatMoney(s.TotalNow, currency),
		Baseline:      s.Baseline.InexactFloat64(),
		BucketWidthMs: s.BucketWidth.Milliseconds(),
		Events:        s.Events,
		Malformed:     s.Malformed,
		ComputedAt:    s.ComputedAt,
	}
}

// GetStats rebuilds the collection value series for ?range= (default 1M)
func (h *StatsHandler) GetStats(c *gin.Context) {
	r := defaultRange
	if raw := c.Query("range"); raw != "" {
		var err error
		if r, err = models.ParseRange(raw); err != nil {
			respondError(c, err)
			return
		}
	}

	caller := c.GetHeader(ClientIDHeader)
	if caller == "" {
		caller = c.ClientIP()
	}

	series, err := h.stats.Series(c.Request.Context(), caller, r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSeriesResponse(series, h.currency))
}

// GetSnapshots returns recorded daily values for ?period=
func (h *StatsHandler) GetSnapshots(c *gin.Context) {
	period := c.DefaultQuery("period", "month")

	snapshots, err := h.snapshots.GetHistory(c.Request.Context(), period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ValueHistoryResponse{Snapshots: snapshots, Period: period})
}

// TakeSnapshot records today's value immediately
func (h *StatsHandler) TakeSnapshot(c *gin.Context) {
	snapshot, err := h.snapshots.TakeSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}
