package handlers

import (
	"net/http"

	"artnuggets/internal/services"

	"github.com/gin-gonic/gin"
)

type TaxonomyHandler struct {
	*BaseHandler
	taxonomyService services.TaxonomyService
}

func NewTaxonomyHandler(base *BaseHandler, taxonomyService services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{
		BaseHandler:     base,
		taxonomyService: taxonomyService,
	}
}

// RegisterRoutes - справочники открыты без аутентификации: онбордингу они
// нужны до того, как пользователь вошел.
func (h *TaxonomyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/industries", h.ListIndustries)
	rg.GET("/industries/:id/niches", h.ListNiches)
}

// ListIndustries godoc
// @Summary Список индустрий
// @Tags taxonomy
// @Produce json
// @Success 200 {array} dto.IndustryResponse
// @Router /industries [get]
func (h *TaxonomyHandler) ListIndustries(c *gin.Context) {
	industries, err := h.taxonomyService.ListIndustries(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"industries": industries})
}

// ListNiches godoc
// @Summary Ниши выбранной индустрии
// @Tags taxonomy
// @Produce json
// @Param id path string true "ID индустрии"
// @Success 200 {array} dto.NicheResponse
// @Router /industries/{id}/niches [get]
func (h *TaxonomyHandler) ListNiches(c *gin.Context) {
	industryID := c.Param("id")
	niches, err := h.taxonomyService.ListNiches(c.Request.Context(), industryID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"niches": niches})
}
