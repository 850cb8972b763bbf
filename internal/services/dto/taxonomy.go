package dto

type IndustryBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type NicheBrief struct {
	ID         string `json:"id"`
	IndustryID string `json:"industry_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
}

type IndustryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	NicheCount  int    `json:"niche_count"`
}

type NicheResponse struct {
	ID          string `json:"id"`
	IndustryID  string `json:"industry_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// OnboardingRequest - выбор индустрии и ниш за один шаг.
type OnboardingRequest struct {
	IndustryID string   `json:"industry_id" validate:"required,uuid"`
	NicheIDs   []string `json:"niche_ids" validate:"required,min=1,dive,uuid"`
}
