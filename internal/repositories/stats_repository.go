package repositories

import (
	"time"

	"artnuggets/internal/models"

	"gorm.io/gorm"
)

// DashboardStats - сырые счетчики для админской сводки.
// Производные метрики (completion_rate и т.п.) считает сервис.
type DashboardStats struct {
	TotalUsers        int64
	NewUsersThisMonth int64
	NewUsersThisWeek  int64
	TotalCourses      int64
	TotalIndustries   int64
	TotalNiches       int64
	ActiveUsers30d    int64
	TotalCompletions  int64
	TotalFavourites   int64
}

type StatsRepository interface {
	GetDashboardStats() (*DashboardStats, error)
}

type StatsRepositoryImpl struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &StatsRepositoryImpl{db: db}
}

func (r *StatsRepositoryImpl) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats
	now := time.Now()

	if err := r.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := r.db.Model(&models.User{}).Where("created_at >= ?", monthStart).
		Count(&stats.NewUsersThisMonth).Error; err != nil {
		return nil, err
	}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := todayStart.AddDate(0, 0, -int(todayStart.Weekday()))
	if err := r.db.Model(&models.User{}).Where("created_at >= ?", weekStart).
		Count(&stats.NewUsersThisWeek).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.Course{}).Where("is_published = ?", true).
		Count(&stats.TotalCourses).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.Industry{}).Count(&stats.TotalIndustries).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.Niche{}).Count(&stats.TotalNiches).Error; err != nil {
		return nil, err
	}

	// Активным считаем пользователя с логином за последние 30 дней
	activeSince := now.AddDate(0, 0, -30)
	if err := r.db.Model(&models.User{}).Where("last_login_at >= ?", activeSince).
		Count(&stats.ActiveUsers30d).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.UserCourseProgress{}).Where("is_completed = ?", true).
		Count(&stats.TotalCompletions).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.UserCourseProgress{}).Where("is_favourite = ?", true).
		Count(&stats.TotalFavourites).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
