package repositories

import (
	"errors"

	"artnuggets/internal/models"

	"gorm.io/gorm"
)

var ErrCourseNotFound = errors.New("course not found")

// CourseFilter - критерии выборки каталога курсов.
type CourseFilter struct {
	Search     string
	IndustryID string
	NicheID    string
	Page       int
	PageSize   int
}

type CourseRepository interface {
	FindByID(id string) (*models.Course, error)
	FindWithFilter(criteria CourseFilter) ([]models.Course, int64, error)
	FindByIDs(ids []string) ([]models.Course, error)
	Create(course *models.Course) error
	Update(course *models.Course) error
	Delete(id string) error
	CountAll() (int64, error)
}

type CourseRepositoryImpl struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &CourseRepositoryImpl{db: db}
}

func (r *CourseRepositoryImpl) FindByID(id string) (*models.Course, error) {
	var course models.Course
	err := r.db.Preload("Industry").Preload("Niche").
		Preload("KeyTakeaways", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("AdditionalResources").
		First(&course, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepositoryImpl) FindWithFilter(criteria CourseFilter) ([]models.Course, int64, error) {
	var courses []models.Course
	query := r.db.Model(&models.Course{}).Where("is_published = ?", true)

	if criteria.IndustryID != "" {
		query = query.Where("industry_id = ?", criteria.IndustryID)
	}
	if criteria.NicheID != "" {
		query = query.Where("niche_id = ?", criteria.NicheID)
	}
	if criteria.Search != "" {
		search := "%" + criteria.Search + "%"
		query = query.Where("title ILIKE ? OR summary ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Preload("Industry").Preload("Niche").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&courses).Error

	return courses, total, err
}

func (r *CourseRepositoryImpl) FindByIDs(ids []string) ([]models.Course, error) {
	var courses []models.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.db.Preload("Industry").Preload("Niche").
		Where("id IN ?", ids).Find(&courses).Error
	return courses, err
}

func (r *CourseRepositoryImpl) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *CourseRepositoryImpl) Update(course *models.Course) error {
	result := r.db.Save(course)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepositoryImpl) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.CourseKeyTakeaway{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.CourseAdditionalResource{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.UserCourseProgress{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Course{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCourseNotFound
		}
		return nil
	})
}

func (r *CourseRepositoryImpl) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Course{}).Where("is_published = ?", true).Count(&count).Error
	return count, err
}
