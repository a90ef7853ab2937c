package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/packtracker/internal/models"
	"github.com/codyseavey/packtracker/internal/store"
)

// topListSize is how many rows each of a set's top lists holds
const topListSize = 5

type CollectionHandler struct {
	store    *store.GormStore
	currency string
}

func NewCollectionHandler(s *store.GormStore, currency string) *CollectionHandler {
	return &CollectionHandler{store: s, currency: currency}
}

func (h *CollectionHandler) GetTree(c *gin.Context) {
	tree, err := h.store.Tree(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

func (h *CollectionHandler) GetCategorySets(c *gin.Context) {
	sets, err := h.store.ListCategorySets(c.Request.Context(), c.Param("lang"), c.Param("cat"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sets": sets})
}

// SetOverview is the detail view of one set. Meta is nil for sets that
// have items but no set document.
type SetOverview struct {
	Meta         *models.SetMeta  `json:"meta"`
	Aggregates   store.Aggregates `json:"aggregates"`
	TotalDisplay string           `json:"total_display"`
	TopByValue   []store.TopItem  `json:"top_by_value"`
	TopByQty     []store.TopItem  `json:"top_by_quantity"`
}

func (h *CollectionHandler) GetSet(c *gin.Context) {
	ctx := c.Request.Context()
	ref := setRef(c)

	var out SetOverview
	meta, err := h.store.GetSet(ctx, ref)
	switch {
	case err == nil:
		out.Meta = &meta
	case !errors.Is(err, store.ErrNotFound):
		respondError(c, err)
		return
	}

	if out.Aggregates, err = h.store.SetAggregates(ctx, ref); err != nil {
		respondError(c, err)
		return
	}
	if out.TopByValue, out.TopByQty, err = h.store.TopItems(ctx, ref, topListSize); err != nil {
		respondError(c, err)
		return
	}
	out.TotalDisplay = models.FormatMoney(out.Aggregates.TotalValue, h.currency)

	c.JSON(http.StatusOK, out)
}

// ListItems serves the cards or sealed products of a set
func (h *CollectionHandler) ListItems(kind models.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.store.ListSetItems(c.Request.Context(), setRef(c), kind)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"kind": kind, "items": items})
	}
}

type createCategoryRequest struct {
	Language string `json:"language" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

func (h *CollectionHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat, err := h.store.CreateCategory(c.Request.Context(), req.Language, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

type createSetRequest struct {
	Language        string `json:"language" binding:"required"`
	Category        string `json:"category" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Cards           int    `json:"cards"`
	TotalCards      int    `json:"total_cards"`
	Image           string `json:"image"`
	CanImportCards  bool   `json:"can_import_cards"`
	CanImportSealed bool   `json:"can_import_sealed"`
}

func (h *CollectionHandler) CreateSet(c *gin.Context) {
	var req createSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta, err := h.store.CreateSet(c.Request.Context(), models.SetMeta{
		Language:        req.Language,
		Category:        req.Category,
		Name:            req.Name,
		Cards:           req.Cards,
		TotalCards:      req.TotalCards,
		Image:           req.Image,
		CanImportCards:  req.CanImportCards,
		CanImportSealed: req.CanImportSealed,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meta)
}

func (h *CollectionHandler) UpdateSetFlags(c *gin.Context) {
	var req store.SetFlags
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta, err := h.store.UpdateSetFlags(c.Request.Context(), setRef(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

type quickEditRequest struct {
	Kind string               `json:"kind"`
	Rows []store.QuickEditRow `json:"rows" binding:"required"`
}

func (h *CollectionHandler) QuickEdit(c *gin.Context) {
	var req quickEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := models.ItemCards
	if req.Kind != "" {
		var err error
		if kind, err = models.ParseItemKind(req.Kind); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	res, err := h.store.ApplyQuickEdit(c.Request.Context(), setRef(c), kind, req.Rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
