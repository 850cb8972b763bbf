package services

import (
	"context"
	"time"

	"artnuggets/internal/models"
	"artnuggets/internal/repositories"
	"artnuggets/internal/services/dto"
	"artnuggets/pkg/apperrors"
)

const (
	defaultPageSize   = 20
	defaultRecentSize = 3
)

type CourseService interface {
	ListCourses(ctx context.Context, userID string, req *dto.CourseListRequest) (*dto.CourseListResponse, error)
	GetCourse(ctx context.Context, userID, courseID string) (*dto.CourseDetailResponse, error)
	UpdateProgress(ctx context.Context, userID, courseID string, req *dto.ProgressUpdateRequest) (*dto.CourseBrief, error)
	ListFavourites(ctx context.Context, userID string) ([]dto.CourseBrief, error)
	ListCompleted(ctx context.Context, userID string) ([]dto.CourseBrief, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]dto.CourseBrief, error)
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseDetailResponse, error)
	DeleteCourse(ctx context.Context, courseID string) error
}

type CourseServiceImpl struct {
	courseRepo   repositories.CourseRepository
	progressRepo repositories.ProgressRepository
	taxonomyRepo repositories.TaxonomyRepository
}

func NewCourseService(
	courseRepo repositories.CourseRepository,
	progressRepo repositories.ProgressRepository,
	taxonomyRepo repositories.TaxonomyRepository,
) CourseService {
	return &CourseServiceImpl{
		courseRepo:   courseRepo,
		progressRepo: progressRepo,
		taxonomyRepo: taxonomyRepo,
	}
}

func (s *CourseServiceImpl) ListCourses(ctx context.Context, userID string, req *dto.CourseListRequest) (*dto.CourseListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	courses, total, err := s.courseRepo.FindWithFilter(repositories.CourseFilter{
		Search:     req.Search,
		IndustryID: req.IndustryID,
		NicheID:    req.NicheID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	progressByCourse, err := s.loadProgressMap(userID)
	if err != nil {
		return nil, err
	}

	briefs := make([]dto.CourseBrief, 0, len(courses))
	for i := range courses {
		brief := buildCourseBrief(&courses[i])
		if p, ok := progressByCourse[courses[i].ID]; ok {
			brief.IsCompleted = p.IsCompleted
			brief.IsFavourite = p.IsFavourite
		}
		briefs = append(briefs, *brief)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &dto.CourseListResponse{
		Courses:    briefs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetCourse возвращает полный курс и помечает его просмотренным.
func (s *CourseServiceImpl) GetCourse(ctx context.Context, userID, courseID string) (*dto.CourseDetailResponse, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	detail := &dto.CourseDetailResponse{
		CourseBrief: *buildCourseBrief(course),
		Content:     course.Content,
		CreatedAt:   course.CreatedAt,
	}
	for _, kt := range course.KeyTakeaways {
		detail.KeyTakeaways = append(detail.KeyTakeaways, kt.Text)
	}
	for _, res := range course.AdditionalResources {
		detail.AdditionalResources = append(detail.AdditionalResources, dto.ResourceResponse{
			Title: res.Title,
			URL:   res.URL,
		})
	}

	if userID != "" {
		if p, err := s.progressRepo.FindByUserAndCourse(userID, courseID); err == nil {
			detail.IsCompleted = p.IsCompleted
			detail.IsFavourite = p.IsFavourite
		}
		if err := s.progressRepo.TouchLastViewed(userID, courseID); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	return detail, nil
}

// UpdateProgress выставляет флаги completed/favourite. Отсутствующие в
// запросе поля не трогаем.
func (s *CourseServiceImpl) UpdateProgress(ctx context.Context, userID, courseID string, req *dto.ProgressUpdateRequest) (*dto.CourseBrief, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	progress, err := s.progressRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if !apperrors.Is(err, repositories.ErrProgressNotFound) {
			return nil, apperrors.InternalError(err)
		}
		progress = &models.UserCourseProgress{UserID: userID, CourseID: courseID}
	}

	if req.IsCompleted != nil {
		progress.IsCompleted = *req.IsCompleted
		if *req.IsCompleted {
			now := time.Now()
			progress.CompletedAt = &now
		} else {
			progress.CompletedAt = nil
		}
	}
	if req.IsFavourite != nil {
		progress.IsFavourite = *req.IsFavourite
	}

	if err := s.progressRepo.Upsert(progress); err != nil {
		return nil, apperrors.InternalError(err)
	}

	brief := buildCourseBrief(course)
	brief.IsCompleted = progress.IsCompleted
	brief.IsFavourite = progress.IsFavourite
	return brief, nil
}

func (s *CourseServiceImpl) ListFavourites(ctx context.Context, userID string) ([]dto.CourseBrief, error) {
	records, err := s.progressRepo.FindFavourites(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.briefsFromProgress(records), nil
}

func (s *CourseServiceImpl) ListCompleted(ctx context.Context, userID string) ([]dto.CourseBrief, error) {
	records, err := s.progressRepo.FindCompleted(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.briefsFromProgress(records), nil
}

// ListRecent возвращает последние просмотренные курсы; limit от 1 до 10.
func (s *CourseServiceImpl) ListRecent(ctx context.Context, userID string, limit int) ([]dto.CourseBrief, error) {
	if limit < 1 || limit > 10 {
		limit = defaultRecentSize
	}
	records, err := s.progressRepo.FindRecent(userID, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.briefsFromProgress(records), nil
}

func (s *CourseServiceImpl) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseDetailResponse, error) {
	if _, err := s.taxonomyRepo.FindIndustryByID(req.IndustryID); err != nil {
		if apperrors.Is(err, repositories.ErrIndustryNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	level := models.CourseLevel(req.Level)
	if level == "" {
		level = models.CourseLevelBeginner
	}

	course := &models.Course{
		Title:       req.Title,
		Slug:        req.Slug,
		Summary:     req.Summary,
		Content:     req.Content,
		Level:       level,
		DurationMin: req.DurationMin,
		CoverURL:    req.CoverURL,
		IsPublished: true,
		IndustryID:  req.IndustryID,
	}
	if req.NicheID != "" {
		course.NicheID = &req.NicheID
	}
	for i, text := range req.KeyTakeaways {
		course.KeyTakeaways = append(course.KeyTakeaways, models.CourseKeyTakeaway{
			Text:      text,
			SortOrder: i,
		})
	}
	for _, res := range req.AdditionalResources {
		course.AdditionalResources = append(course.AdditionalResources, models.CourseAdditionalResource{
			Title: res.Title,
			URL:   res.URL,
		})
	}

	if err := s.courseRepo.Create(course); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.GetCourse(ctx, "", course.ID)
}

func (s *CourseServiceImpl) DeleteCourse(ctx context.Context, courseID string) error {
	if err := s.courseRepo.Delete(courseID); err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *CourseServiceImpl) loadProgressMap(userID string) (map[string]*models.UserCourseProgress, error) {
	result := make(map[string]*models.UserCourseProgress)
	if userID == "" {
		return result, nil
	}
	records, err := s.progressRepo.FindByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range records {
		result[records[i].CourseID] = &records[i]
	}
	return result, nil
}

func (s *CourseServiceImpl) briefsFromProgress(records []models.UserCourseProgress) []dto.CourseBrief {
	briefs := make([]dto.CourseBrief, 0, len(records))
	for i := range records {
		rec := &records[i]
		if rec.Course == nil {
			continue
		}
		brief := buildCourseBrief(rec.Course)
		brief.IsCompleted = rec.IsCompleted
		brief.IsFavourite = rec.IsFavourite
		briefs = append(briefs, *brief)
	}
	return briefs
}
