package repositories

import (
	"errors"

	"artnuggets/internal/models"

	"gorm.io/gorm"
)

var (
	ErrIndustryNotFound = errors.New("industry not found")
	ErrNicheNotFound    = errors.New("niche not found")
)

type TaxonomyRepository interface {
	FindIndustries() ([]models.Industry, error)
	FindIndustryByID(id string) (*models.Industry, error)
	FindNichesByIndustry(industryID string) ([]models.Niche, error)
	FindNichesByIDs(ids []string) ([]models.Niche, error)
	CreateIndustry(industry *models.Industry) error
	CreateNiche(niche *models.Niche) error
	CountIndustries() (int64, error)
	CountNiches() (int64, error)
}

type TaxonomyRepositoryImpl struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &TaxonomyRepositoryImpl{db: db}
}

func (r *TaxonomyRepositoryImpl) FindIndustries() ([]models.Industry, error) {
	var industries []models.Industry
	err := r.db.Order("sort_order ASC, name ASC").Find(&industries).Error
	return industries, err
}

func (r *TaxonomyRepositoryImpl) FindIndustryByID(id string) (*models.Industry, error) {
	var industry models.Industry
	err := r.db.First(&industry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIndustryNotFound
		}
		return nil, err
	}
	return &industry, nil
}

func (r *TaxonomyRepositoryImpl) FindNichesByIndustry(industryID string) ([]models.Niche, error) {
	var niches []models.Niche
	err := r.db.Where("industry_id = ?", industryID).
		Order("sort_order ASC, name ASC").Find(&niches).Error
	return niches, err
}

func (r *TaxonomyRepositoryImpl) FindNichesByIDs(ids []string) ([]models.Niche, error) {
	var niches []models.Niche
	if len(ids) == 0 {
		return niches, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&niches).Error
	return niches, err
}

func (r *TaxonomyRepositoryImpl) CreateIndustry(industry *models.Industry) error {
	return r.db.Create(industry).Error
}

func (r *TaxonomyRepositoryImpl) CreateNiche(niche *models.Niche) error {
	return r.db.Create(niche).Error
}

func (r *TaxonomyRepositoryImpl) CountIndustries() (int64, error) {
	var count int64
	err := r.db.Model(&models.Industry{}).Count(&count).Error
	return count, err
}

func (r *TaxonomyRepositoryImpl) CountNiches() (int64, error) {
	var count int64
	err := r.db.Model(&models.Niche{}).Count(&count).Error
	return count, err
}
