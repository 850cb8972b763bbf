package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	ProfileHandler  *ProfileHandler
	TaxonomyHandler *TaxonomyHandler
	CourseHandler   *CourseHandler
	ChatHandler     *ChatHandler
	AdminHandler    *AdminHandler
}
