package handlers

import (
	"net/http"

	"artnuggets/internal/services"
	"artnuggets/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.UserProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.UserProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("/me", h.GetMe)
		users.POST("/me/onboarding", h.CompleteOnboarding)
	}
}

// GetMe godoc
// @Summary Профиль текущего пользователя
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Router /users/me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// CompleteOnboarding godoc
// @Summary Завершение онбординга: выбор индустрии и ниш
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.OnboardingRequest true "Индустрия и ниши"
// @Success 200 {object} dto.UserResponse
// @Router /users/me/onboarding [post]
func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.OnboardingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.CompleteOnboarding(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
