package services

import (
	"artnuggets/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService        AuthService
	UserProfileService UserProfileService
	TaxonomyService    TaxonomyService
	CourseService      CourseService
	ChatService        ChatService
	AdminService       AdminService
	EmailService       email.Provider
}
