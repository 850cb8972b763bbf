package handlers

import (
	"net/http"

	"artnuggets/internal/services"
	"artnuggets/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService    services.AdminService
	courseService   services.CourseService
	taxonomyService services.TaxonomyService
}

func NewAdminHandler(
	base *BaseHandler,
	adminService services.AdminService,
	courseService services.CourseService,
	taxonomyService services.TaxonomyService,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:     base,
		adminService:    adminService,
		courseService:   courseService,
		taxonomyService: taxonomyService,
	}
}

// RegisterRoutes - группа уже защищена AuthMiddleware + RoleMiddleware(admin)
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	{
		admin.GET("/dashboard/overview", h.DashboardOverview)
		admin.GET("/users", h.ListUsers)
		admin.POST("/courses", h.CreateCourse)
		admin.DELETE("/courses/:id", h.DeleteCourse)
		admin.POST("/industries", h.CreateIndustry)
		admin.POST("/niches", h.CreateNiche)
	}
}

// DashboardOverview godoc
// @Summary Сводка для админской панели
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.DashboardOverviewResponse
// @Router /admin/dashboard/overview [get]
func (h *AdminHandler) DashboardOverview(c *gin.Context) {
	overview, err := h.adminService.GetDashboardOverview(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// ListUsers godoc
// @Summary Список пользователей с пагинацией
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.AdminUserListResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	response, err := h.adminService.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// CreateCourse godoc
// @Summary Создание курса
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Курс"
// @Success 201 {object} dto.CourseDetailResponse
// @Router /admin/courses [post]
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	detail, err := h.courseService.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// DeleteCourse godoc
// @Summary Удаление курса
// @Tags admin
// @Security BearerAuth
// @Param id path string true "ID курса"
// @Success 204
// @Router /admin/courses/{id} [delete]
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	if err := h.courseService.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateIndustry godoc
// @Summary Создание индустрии
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateIndustryRequest true "Индустрия"
// @Success 201 {object} dto.IndustryResponse
// @Router /admin/industries [post]
func (h *AdminHandler) CreateIndustry(c *gin.Context) {
	var req dto.CreateIndustryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	industry, err := h.taxonomyService.CreateIndustry(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, industry)
}

// CreateNiche godoc
// @Summary Создание ниши
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateNicheRequest true "Ниша"
// @Success 201 {object} dto.NicheResponse
// @Router /admin/niches [post]
func (h *AdminHandler) CreateNiche(c *gin.Context) {
	var req dto.CreateNicheRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	niche, err := h.taxonomyService.CreateNiche(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, niche)
}
