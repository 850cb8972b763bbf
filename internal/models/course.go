package models

import "time"

// Course - учебный "наггет": короткий структурированный разбор темы.
type Course struct {
	BaseModel
	Title       string      `gorm:"not null" json:"title"`
	Slug        string      `gorm:"uniqueIndex;not null" json:"slug"`
	Summary     string      `gorm:"type:text" json:"summary"`
	Content     string      `gorm:"type:text" json:"content"`
	Level       CourseLevel `gorm:"type:varchar(20);default:'beginner'" json:"level"`
	DurationMin int         `gorm:"default:0" json:"duration_minutes"`
	CoverURL    string      `json:"cover_url"`
	IsPublished bool        `gorm:"default:true;index" json:"is_published"`

	IndustryID string  `gorm:"type:uuid;not null;index" json:"industry_id"`
	NicheID    *string `gorm:"type:uuid;index" json:"niche_id"`

	Industry *Industry `gorm:"foreignKey:IndustryID" json:"industry,omitempty"`
	Niche    *Niche    `gorm:"foreignKey:NicheID" json:"niche,omitempty"`

	KeyTakeaways        []CourseKeyTakeaway        `gorm:"foreignKey:CourseID" json:"key_takeaways,omitempty"`
	AdditionalResources []CourseAdditionalResource `gorm:"foreignKey:CourseID" json:"additional_resources,omitempty"`
}

type CourseKeyTakeaway struct {
	BaseModel
	CourseID  string `gorm:"type:uuid;not null;index" json:"course_id"`
	Text      string `gorm:"type:text;not null" json:"text"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

type CourseAdditionalResource struct {
	BaseModel
	CourseID string `gorm:"type:uuid;not null;index" json:"course_id"`
	Title    string `gorm:"not null" json:"title"`
	URL      string `gorm:"not null" json:"url"`
}

// UserCourseProgress - прогресс пользователя по курсу. Уникальная пара
// (user_id, course_id) гарантирует одну запись на курс.
type UserCourseProgress struct {
	BaseModel
	UserID      string     `gorm:"type:uuid;not null;uniqueIndex:idx_user_course" json:"user_id"`
	CourseID    string     `gorm:"type:uuid;not null;uniqueIndex:idx_user_course" json:"course_id"`
	IsCompleted bool       `gorm:"default:false" json:"is_completed"`
	IsFavourite bool       `gorm:"default:false" json:"is_favourite"`
	CompletedAt *time.Time `json:"completed_at"`
	LastViewed  *time.Time `json:"last_viewed_at"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (UserCourseProgress) TableName() string { return "user_course_progress" }
