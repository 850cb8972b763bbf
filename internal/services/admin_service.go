package services

import (
	"context"
	"math"

	"artnuggets/internal/repositories"
	"artnuggets/internal/services/dto"
	"artnuggets/pkg/apperrors"
)

type AdminService interface {
	GetDashboardOverview(ctx context.Context) (*dto.DashboardOverviewResponse, error)
	ListUsers(ctx context.Context, page, pageSize int) (*dto.AdminUserListResponse, error)
}

type AdminServiceImpl struct {
	statsRepo repositories.StatsRepository
	userRepo  repositories.UserRepository
}

func NewAdminService(
	statsRepo repositories.StatsRepository,
	userRepo repositories.UserRepository,
) AdminService {
	return &AdminServiceImpl{
		statsRepo: statsRepo,
		userRepo:  userRepo,
	}
}

func (s *AdminServiceImpl) GetDashboardOverview(ctx context.Context) (*dto.DashboardOverviewResponse, error) {
	stats, err := s.statsRepo.GetDashboardStats()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.DashboardOverviewResponse{
		TotalUsers:        stats.TotalUsers,
		NewUsersThisMonth: stats.NewUsersThisMonth,
		NewUsersThisWeek:  stats.NewUsersThisWeek,
		TotalCourses:      stats.TotalCourses,
		TotalIndustries:   stats.TotalIndustries,
		TotalNiches:       stats.TotalNiches,
		ActiveUsers30d:    stats.ActiveUsers30d,
		TotalCompletions:  stats.TotalCompletions,
		TotalFavourites:   stats.TotalFavourites,
	}

	// completion_rate: завершения на пользователя относительно каталога
	if stats.TotalUsers > 0 && stats.TotalCourses > 0 {
		rate := float64(stats.TotalCompletions) / (float64(stats.TotalUsers) * float64(stats.TotalCourses)) * 100
		resp.CompletionRate = roundTo(rate, 2)
	}
	if stats.TotalUsers > 0 {
		avg := float64(stats.TotalCompletions) / float64(stats.TotalUsers)
		resp.AverageCoursesPerUser = roundTo(avg, 2)
	}

	return resp, nil
}

func (s *AdminServiceImpl) ListUsers(ctx context.Context, page, pageSize int) (*dto.AdminUserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPageSize
	}

	users, err := s.userRepo.FindAll(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	total, err := s.userRepo.CountAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.AdminUserListResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range users {
		resp.Users = append(resp.Users, *buildUserResponse(&users[i]))
	}
	return resp, nil
}

func roundTo(v float64, digits int) float64 {
	factor := math.Pow(10, float64(digits))
	return math.Round(v*factor) / factor
}
