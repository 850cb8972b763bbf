package handlers

import (
	"net/http"

	"artnuggets/internal/services"
	"artnuggets/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	*BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(base *BaseHandler, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   base,
		courseService: courseService,
	}
}

func (h *CourseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	courses := rg.Group("/courses")
	{
		courses.GET("", h.ListCourses)
		courses.GET("/favourites", h.ListFavourites)
		courses.GET("/completed", h.ListCompleted)
		courses.GET("/recent", h.ListRecent)
		courses.GET("/:id", h.GetCourse)
		courses.PATCH("/:id/progress", h.UpdateProgress)
	}
}

// ListCourses godoc
// @Summary Каталог курсов с пагинацией и фильтрами
// @Tags courses
// @Security BearerAuth
// @Produce json
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы"
// @Param search query string false "Поиск по названию и описанию"
// @Param industry_id query string false "Фильтр по индустрии"
// @Param niche_id query string false "Фильтр по нише"
// @Success 200 {object} dto.CourseListResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CourseListRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	response, err := h.courseService.ListCourses(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCourse godoc
// @Summary Полный курс с ключевыми выводами и ресурсами
// @Tags courses
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID курса"
// @Success 200 {object} dto.CourseDetailResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	detail, err := h.courseService.GetCourse(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateProgress godoc
// @Summary Отметка завершения или избранного
// @Tags courses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID курса"
// @Param request body dto.ProgressUpdateRequest true "Флаги прогресса"
// @Success 200 {object} dto.CourseBrief
// @Router /courses/{id}/progress [patch]
func (h *CourseHandler) UpdateProgress(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ProgressUpdateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	brief, err := h.courseService.UpdateProgress(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, brief)
}

// ListFavourites godoc
// @Summary Избранные курсы пользователя
// @Tags courses
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.CourseBrief
// @Router /courses/favourites [get]
func (h *CourseHandler) ListFavourites(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	briefs, err := h.courseService.ListFavourites(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": briefs})
}

// ListCompleted godoc
// @Summary Завершенные курсы пользователя
// @Tags courses
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.CourseBrief
// @Router /courses/completed [get]
func (h *CourseHandler) ListCompleted(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	briefs, err := h.courseService.ListCompleted(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": briefs})
}

// ListRecent godoc
// @Summary Последние просмотренные курсы
// @Tags courses
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Сколько вернуть (1..10, по умолчанию 3)"
// @Success 200 {array} dto.CourseBrief
// @Router /courses/recent [get]
func (h *CourseHandler) ListRecent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit := ParseQueryInt(c, "limit", 3)
	briefs, err := h.courseService.ListRecent(c.Request.Context(), userID, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": briefs})
}
