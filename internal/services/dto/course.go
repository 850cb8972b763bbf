package dto

import "time"

// CourseListRequest - параметры каталога курсов (query string).
type CourseListRequest struct {
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"page_size" validate:"omitempty,min=1,max=100"`
	Search     string `form:"search" validate:"omitempty,max=200"`
	IndustryID string `form:"industry_id" validate:"omitempty,uuid"`
	NicheID    string `form:"niche_id" validate:"omitempty,uuid"`
}

type CourseBrief struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Summary     string         `json:"summary"`
	Level       string         `json:"level"`
	DurationMin int            `json:"duration_minutes"`
	CoverURL    string         `json:"cover_url"`
	Industry    *IndustryBrief `json:"industry,omitempty"`
	Niche       *NicheBrief    `json:"niche,omitempty"`

	// Заполняется только для аутентифицированного пользователя
	IsCompleted bool `json:"is_completed"`
	IsFavourite bool `json:"is_favourite"`
}

type CourseDetailResponse struct {
	CourseBrief
	Content             string             `json:"content"`
	KeyTakeaways        []string           `json:"key_takeaways"`
	AdditionalResources []ResourceResponse `json:"additional_resources"`
	CreatedAt           time.Time          `json:"created_at"`
}

type ResourceResponse struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type CourseListResponse struct {
	Courses    []CourseBrief `json:"courses"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// ProgressUpdateRequest - отметка завершения или избранного.
type ProgressUpdateRequest struct {
	IsCompleted *bool `json:"is_completed"`
	IsFavourite *bool `json:"is_favourite"`
}

type RecentCoursesRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=10"`
}

// CreateCourseRequest - админское создание курса.
type CreateCourseRequest struct {
	Title               string                  `json:"title" validate:"required,min=3,max=200"`
	Slug                string                  `json:"slug" validate:"required,min=3,max=200"`
	Summary             string                  `json:"summary" validate:"required"`
	Content             string                  `json:"content" validate:"required"`
	Level               string                  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	DurationMin         int                     `json:"duration_minutes" validate:"omitempty,min=0"`
	CoverURL            string                  `json:"cover_url" validate:"omitempty,url"`
	IndustryID          string                  `json:"industry_id" validate:"required,uuid"`
	NicheID             string                  `json:"niche_id" validate:"omitempty,uuid"`
	KeyTakeaways        []string                `json:"key_takeaways" validate:"omitempty,dive,min=1"`
	AdditionalResources []CreateResourceRequest `json:"additional_resources" validate:"omitempty,dive"`
}

type CreateResourceRequest struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}
