package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"selfie-filter-backend/internal/filters"
	"selfie-filter-backend/internal/models"
)

type FiltersHandler struct {
	catalog *filters.Catalog
}

func NewFiltersHandler(catalog *filters.Catalog) *FiltersHandler {
	return &FiltersHandler{catalog: catalog}
}

// GetFilters godoc
// @Summary     List filters
// @Description Returns the placement of every filter the server can apply, keyed by id, plus the fallback used for unknown ids
// @Tags        filters
// @Produce     json
// @Success     200 {object} models.FiltersResponse
// @Router      /api/filtros [get]
func (h *FiltersHandler) GetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, models.FiltersResponse{
		Version: h.catalog.Version(),
		Default: h.catalog.Fallback(),
		Filters: h.catalog.Document(),
	})
}
