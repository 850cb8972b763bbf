package repositories

import (
	"errors"
	"time"

	"artnuggets/internal/models"

	"gorm.io/gorm"
)

var ErrProgressNotFound = errors.New("progress record not found")

type ProgressRepository interface {
	FindByUserAndCourse(userID, courseID string) (*models.UserCourseProgress, error)
	FindByUser(userID string) ([]models.UserCourseProgress, error)
	FindFavourites(userID string) ([]models.UserCourseProgress, error)
	FindCompleted(userID string) ([]models.UserCourseProgress, error)
	FindRecent(userID string, limit int) ([]models.UserCourseProgress, error)
	Upsert(progress *models.UserCourseProgress) error
	TouchLastViewed(userID, courseID string) error
}

type ProgressRepositoryImpl struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &ProgressRepositoryImpl{db: db}
}

func (r *ProgressRepositoryImpl) FindByUserAndCourse(userID, courseID string) (*models.UserCourseProgress, error) {
	var progress models.UserCourseProgress
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepositoryImpl) FindByUser(userID string) ([]models.UserCourseProgress, error) {
	var records []models.UserCourseProgress
	err := r.db.Preload("Course").Where("user_id = ?", userID).
		Order("updated_at DESC").Find(&records).Error
	return records, err
}

func (r *ProgressRepositoryImpl) FindFavourites(userID string) ([]models.UserCourseProgress, error) {
	var records []models.UserCourseProgress
	err := r.db.Preload("Course").Preload("Course.Industry").
		Where("user_id = ? AND is_favourite = ?", userID, true).
		Order("updated_at DESC").Find(&records).Error
	return records, err
}

func (r *ProgressRepositoryImpl) FindCompleted(userID string) ([]models.UserCourseProgress, error) {
	var records []models.UserCourseProgress
	err := r.db.Preload("Course").Preload("Course.Industry").
		Where("user_id = ? AND is_completed = ?", userID, true).
		Order("completed_at DESC").Find(&records).Error
	return records, err
}

// FindRecent возвращает последние просмотренные курсы пользователя.
func (r *ProgressRepositoryImpl) FindRecent(userID string, limit int) ([]models.UserCourseProgress, error) {
	var records []models.UserCourseProgress
	err := r.db.Preload("Course").Preload("Course.Industry").
		Where("user_id = ? AND last_viewed IS NOT NULL", userID).
		Order("last_viewed DESC").Limit(limit).Find(&records).Error
	return records, err
}

// Upsert создает или обновляет запись прогресса по паре (user_id, course_id).
func (r *ProgressRepositoryImpl) Upsert(progress *models.UserCourseProgress) error {
	var existing models.UserCourseProgress
	err := r.db.Where("user_id = ? AND course_id = ?", progress.UserID, progress.CourseID).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(progress).Error
	}
	if err != nil {
		return err
	}

	progress.ID = existing.ID
	progress.CreatedAt = existing.CreatedAt
	return r.db.Model(&existing).Updates(map[string]interface{}{
		"is_completed": progress.IsCompleted,
		"is_favourite": progress.IsFavourite,
		"completed_at": progress.CompletedAt,
		"last_viewed":  progress.LastViewed,
		"updated_at":   time.Now(),
	}).Error
}

func (r *ProgressRepositoryImpl) TouchLastViewed(userID, courseID string) error {
	now := time.Now()
	progress := &models.UserCourseProgress{
		UserID:     userID,
		CourseID:   courseID,
		LastViewed: &now,
	}

	var existing models.UserCourseProgress
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(progress).Error
	}
	if err != nil {
		return err
	}

	return r.db.Model(&existing).Updates(map[string]interface{}{
		"last_viewed": now,
		"updated_at":  now,
	}).Error
}
