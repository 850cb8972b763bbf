package dto

// DashboardOverviewResponse - агрегированная сводка для админской панели.
type DashboardOverviewResponse struct {
	TotalUsers            int64   `json:"total_users"`
	NewUsersThisMonth     int64   `json:"new_users_this_month"`
	NewUsersThisWeek      int64   `json:"new_users_this_week"`
	TotalCourses          int64   `json:"total_courses"`
	TotalIndustries       int64   `json:"total_industries"`
	TotalNiches           int64   `json:"total_niches"`
	ActiveUsers30d        int64   `json:"active_users_30d"`
	TotalCompletions      int64   `json:"total_completions"`
	TotalFavourites       int64   `json:"total_favourites"`
	CompletionRate        float64 `json:"completion_rate"`
	AverageCoursesPerUser float64 `json:"average_courses_per_user"`
}

type AdminUserListResponse struct {
	Users    []UserResponse `json:"users"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type CreateIndustryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" validate:"required,min=2,max=100"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type CreateNicheRequest struct {
	IndustryID  string `json:"industry_id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" validate:"required,min=2,max=100"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}
