package handlers

import (
	"net/http"

	catalogRepo "lashstudio/database/repository/catalog"
	"lashstudio/services/catalog"
	"lashstudio/utils"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	CatalogService catalog.CatalogService
}

func NewCatalogHandler(svc catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{CatalogService: svc}
}

// ListHandler handles GET /api/services?category=&featured=.
func (h *CatalogHandler) ListHandler(c *gin.Context) {
	filter := catalogRepo.ListFilter{
		Category:     c.Query("category"),
		FeaturedOnly: queryBool(c, "featured"),
	}
	packages, err := h.CatalogService.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"services": packages, "count": len(packages)})
}

// CreateHandler handles POST /api/services.
func (h *CatalogHandler) CreateHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in catalog.PackageInput
	if !bindJSON(c, &in) {
		return
	}
	pkg, err := h.CatalogService.Create(c.Request.Context(), p, in)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, gin.H{"service": pkg})
}

// UpdateHandler handles PUT /api/services/:id.
func (h *CatalogHandler) UpdateHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in catalog.PackageUpdate
	if !bindJSON(c, &in) {
		return
	}
	pkg, err := h.CatalogService.Update(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"service": pkg})
}
