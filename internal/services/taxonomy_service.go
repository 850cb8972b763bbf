package services

import (
	"context"

	"artnuggets/internal/models"
	"artnuggets/internal/repositories"
	"artnuggets/internal/services/dto"
	"artnuggets/pkg/apperrors"
)

type TaxonomyService interface {
	ListIndustries(ctx context.Context) ([]dto.IndustryResponse, error)
	ListNiches(ctx context.Context, industryID string) ([]dto.NicheResponse, error)
	CreateIndustry(ctx context.Context, req *dto.CreateIndustryRequest) (*dto.IndustryResponse, error)
	CreateNiche(ctx context.Context, req *dto.CreateNicheRequest) (*dto.NicheResponse, error)
}

type TaxonomyServiceImpl struct {
	taxonomyRepo repositories.TaxonomyRepository
}

func NewTaxonomyService(taxonomyRepo repositories.TaxonomyRepository) TaxonomyService {
	return &TaxonomyServiceImpl{taxonomyRepo: taxonomyRepo}
}

func (s *TaxonomyServiceImpl) ListIndustries(ctx context.Context) ([]dto.IndustryResponse, error) {
	industries, err := s.taxonomyRepo.FindIndustries()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.IndustryResponse, 0, len(industries))
	for i := range industries {
		ind := &industries[i]
		niches, err := s.taxonomyRepo.FindNichesByIndustry(ind.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		result = append(result, dto.IndustryResponse{
			ID:          ind.ID,
			Name:        ind.Name,
			Slug:        ind.Slug,
			Description: ind.Description,
			NicheCount:  len(niches),
		})
	}
	return result, nil
}

func (s *TaxonomyServiceImpl) ListNiches(ctx context.Context, industryID string) ([]dto.NicheResponse, error) {
	if _, err := s.taxonomyRepo.FindIndustryByID(industryID); err != nil {
		if apperrors.Is(err, repositories.ErrIndustryNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	niches, err := s.taxonomyRepo.FindNichesByIndustry(industryID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.NicheResponse, 0, len(niches))
	for i := range niches {
		n := &niches[i]
		result = append(result, dto.NicheResponse{
			ID:          n.ID,
			IndustryID:  n.IndustryID,
			Name:        n.Name,
			Slug:        n.Slug,
			Description: n.Description,
		})
	}
	return result, nil
}

func (s *TaxonomyServiceImpl) CreateIndustry(ctx context.Context, req *dto.CreateIndustryRequest) (*dto.IndustryResponse, error) {
	industry := &models.Industry{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	if err := s.taxonomyRepo.CreateIndustry(industry); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.IndustryResponse{
		ID:          industry.ID,
		Name:        industry.Name,
		Slug:        industry.Slug,
		Description: industry.Description,
	}, nil
}

func (s *TaxonomyServiceImpl) CreateNiche(ctx context.Context, req *dto.CreateNicheRequest) (*dto.NicheResponse, error) {
	if _, err := s.taxonomyRepo.FindIndustryByID(req.IndustryID); err != nil {
		if apperrors.Is(err, repositories.ErrIndustryNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	niche := &models.Niche{
		IndustryID:  req.IndustryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	if err := s.taxonomyRepo.CreateNiche(niche); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.NicheResponse{
		ID:          niche.ID,
		IndustryID:  niche.IndustryID,
		Name:        niche.Name,
		Slug:        niche.Slug,
		Description: niche.Description,
	}, nil
}
