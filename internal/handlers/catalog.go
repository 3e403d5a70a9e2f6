package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/catalog"
)

type CatalogHandler struct {
	cat *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: cat}
}

// Get returns the full criteria catalog grouped by pillar, plus the
// assurance controls and maturity scale.
func (h *CatalogHandler) Get(c *gin.Context) {
	pillars := h.cat.ByPillar()
	grouped := make([]gin.H, 0, len(pillars))
	for _, pg := range pillars {
		grouped = append(grouped, gin.H{
			"pillar":   pg.Pillar,
			"criteria": pg.Criteria,
		})
	}
	RespondOK(c, gin.H{
		"pillars":            grouped,
		"assurance_controls": h.cat.Controls(),
		"maturity_levels":    h.cat.MaturityLevels(),
	})
}
