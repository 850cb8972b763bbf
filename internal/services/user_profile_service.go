package services

import (
	"context"

	"artnuggets/internal/repositories"
	"artnuggets/internal/services/dto"
	"artnuggets/pkg/apperrors"
)

type UserProfileService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	CompleteOnboarding(ctx context.Context, userID string, req *dto.OnboardingRequest) (*dto.UserResponse, error)
}

type UserProfileServiceImpl struct {
	userRepo     repositories.UserRepository
	taxonomyRepo repositories.TaxonomyRepository
}

func NewUserProfileService(
	userRepo repositories.UserRepository,
	taxonomyRepo repositories.TaxonomyRepository,
) UserProfileService {
	return &UserProfileServiceImpl{
		userRepo:     userRepo,
		taxonomyRepo: taxonomyRepo,
	}
}

func (s *UserProfileServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return buildUserResponse(user), nil
}

// CompleteOnboarding сохраняет выбор индустрии и ниш. Все ниши обязаны
// принадлежать выбранной индустрии.
func (s *UserProfileServiceImpl) CompleteOnboarding(ctx context.Context, userID string, req *dto.OnboardingRequest) (*dto.UserResponse, error) {
	if _, err := s.taxonomyRepo.FindIndustryByID(req.IndustryID); err != nil {
		if apperrors.Is(err, repositories.ErrIndustryNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	niches, err := s.taxonomyRepo.FindNichesByIDs(req.NicheIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(niches) != len(uniqueStrings(req.NicheIDs)) {
		return nil, apperrors.ErrNotFound(repositories.ErrNicheNotFound)
	}
	for _, niche := range niches {
		if niche.IndustryID != req.IndustryID {
			return nil, apperrors.ErrNicheIndustryMismatch
		}
	}

	if err := s.userRepo.SetIndustry(userID, req.IndustryID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.userRepo.ReplaceNiches(userID, req.NicheIDs); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.userRepo.CompleteOnboarding(userID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.GetProfile(ctx, userID)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
