package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/packtracker/internal/importer"
	"github.com/codyseavey/packtracker/internal/models"
	"github.com/codyseavey/packtracker/internal/store"
)

// maxImportBytes bounds an uploaded feed
const maxImportBytes = 8 << 20

type ImportHandler struct {
	store    *store.GormStore
	importer *importer.Importer
}

func NewImportHandler(s *store.GormStore, im *importer.Importer) *ImportHandler {
	return &ImportHandler{store: s, importer: im}
}

// Import reads a multipart "file" feed and writes it into the set.
// Query: mode=all|prices|photos, root=<jsonpath> for nested JSON feeds.
func (h *ImportHandler) Import(c *gin.Context) {
	ctx := c.Request.Context()
	ref := setRef(c)

	kind, err := models.ParseItemKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode, err := models.ParseImportMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta, err := h.store.GetSet(ctx, ref)
	if err != nil {
		respondError(c, err)
		return
	}
	if !meta.CanImport(kind) {
		c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("%s imports are disabled for %s", kind, ref.Label())})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "choose a file first"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImportBytes+1))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(data) > maxImportBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "import file too large"})
		return
	}

	recs, err := importer.Parse(fh.Filename, data, kind, c.Query("root"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.importer.Apply(ctx, ref, kind, recs, mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
