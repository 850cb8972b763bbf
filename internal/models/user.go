package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	FullName     string   `gorm:"type:varchar(120)" json:"full_name"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'regular'" json:"role"`
	IsActive     bool     `gorm:"default:true" json:"is_active"`

	// Онбординг: выбранная индустрия и флаг завершения
	IndustryID          *string    `gorm:"type:uuid;index" json:"industry_id"`
	OnboardingCompleted bool       `gorm:"default:false" json:"onboarding_completed"`
	LastLoginAt         *time.Time `json:"last_login_at"`

	// Relations
	Industry      *Industry      `gorm:"foreignKey:IndustryID" json:"industry,omitempty"`
	Niches        []Niche        `gorm:"many2many:user_niches" json:"niches,omitempty"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	Chats         []Chat         `gorm:"foreignKey:UserID" json:"-"`
}

// UserNiche - явная join-таблица пользователь<->ниша, чтобы можно было
// хранить время выбора.
type UserNiche struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	NicheID   string    `gorm:"type:uuid;primaryKey" json:"niche_id"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

func (UserNiche) TableName() string { return "user_niches" }

// RefreshToken хранит SHA-256 хеш выданного refresh-токена.
// Сырое значение знает только клиент.
type RefreshToken struct {
	BaseModel
	UserID    string     `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string     `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at"`
}

// IsValid сообщает, можно ли обменять токен на новую пару.
func (rt *RefreshToken) IsValid(now time.Time) bool {
	return rt.RevokedAt == nil && now.Before(rt.ExpiresAt)
}
