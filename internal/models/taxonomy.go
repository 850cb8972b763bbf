package models

// Industry - творческая индустрия верхнего уровня (музыка, кино, дизайн...)
type Industry struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	SortOrder   int    `gorm:"default:0" json:"sort_order"`

	Niches []Niche `gorm:"foreignKey:IndustryID" json:"niches,omitempty"`
}

// Niche - ниша внутри индустрии. Пользователь выбирает ниши при онбординге,
// каждая ниша обязана принадлежать выбранной им индустрии.
type Niche struct {
	BaseModel
	IndustryID  string `gorm:"type:uuid;not null;index" json:"industry_id"`
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	SortOrder   int    `gorm:"default:0" json:"sort_order"`

	Industry *Industry `gorm:"foreignKey:IndustryID" json:"-"`
}
