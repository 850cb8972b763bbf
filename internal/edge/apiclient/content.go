package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"artnuggets/internal/services/dto"
)

// ContentClient - типизированная обертка над каталогом курсов,
// таксономией и админской статистикой.
type ContentClient struct {
	client *Client
}

func NewContentClient(client *Client) *ContentClient {
	return &ContentClient{client: client}
}

// CourseListParams - параметры списка курсов; нулевые значения опускаются.
type CourseListParams struct {
	Page       int
	PageSize   int
	Search     string
	IndustryID string
	NicheID    string
}

func (p CourseListParams) encode() string {
	values := url.Values{}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		values.Set("search", p.Search)
	}
	if p.IndustryID != "" {
		values.Set("industry_id", p.IndustryID)
	}
	if p.NicheID != "" {
		values.Set("niche_id", p.NicheID)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

func (c *ContentClient) ListCourses(ctx context.Context, params CourseListParams) (*dto.CourseListResponse, error) {
	var response dto.CourseListResponse
	if err := c.client.Get(ctx, "/courses"+params.encode(), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *ContentClient) GetCourse(ctx context.Context, courseID string) (*dto.CourseDetailResponse, error) {
	var detail dto.CourseDetailResponse
	if err := c.client.Get(ctx, "/courses/"+url.PathEscape(courseID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *ContentClient) ListFavourites(ctx context.Context) ([]dto.CourseBrief, error) {
	return c.courseCollection(ctx, "/courses/favourites")
}

func (c *ContentClient) ListCompleted(ctx context.Context) ([]dto.CourseBrief, error) {
	return c.courseCollection(ctx, "/courses/completed")
}

func (c *ContentClient) ListRecent(ctx context.Context, limit int) ([]dto.CourseBrief, error) {
	path := "/courses/recent"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	return c.courseCollection(ctx, path)
}

func (c *ContentClient) courseCollection(ctx context.Context, path string) ([]dto.CourseBrief, error) {
	var response struct {
		Courses []dto.CourseBrief `json:"courses"`
	}
	if err := c.client.Get(ctx, path, &response); err != nil {
		return nil, err
	}
	return response.Courses, nil
}

func (c *ContentClient) UpdateProgress(ctx context.Context, courseID string, req dto.ProgressUpdateRequest) (*dto.CourseBrief, error) {
	var brief dto.CourseBrief
	path := fmt.Sprintf("/courses/%s/progress", url.PathEscape(courseID))
	if err := c.client.PatchJSON(ctx, path, req, &brief); err != nil {
		return nil, err
	}
	return &brief, nil
}

func (c *ContentClient) ListIndustries(ctx context.Context) ([]dto.IndustryResponse, error) {
	var response struct {
		Industries []dto.IndustryResponse `json:"industries"`
	}
	if err := c.client.Get(ctx, "/industries", &response); err != nil {
		return nil, err
	}
	return response.Industries, nil
}

func (c *ContentClient) ListNiches(ctx context.Context, industryID string) ([]dto.NicheResponse, error) {
	var response struct {
		Niches []dto.NicheResponse `json:"niches"`
	}
	path := fmt.Sprintf("/industries/%s/niches", url.PathEscape(industryID))
	if err := c.client.Get(ctx, path, &response); err != nil {
		return nil, err
	}
	return response.Niches, nil
}

// DashboardOverview требует админского клиента (30s таймаут).
func (c *ContentClient) DashboardOverview(ctx context.Context) (*dto.DashboardOverviewResponse, error) {
	var overview dto.DashboardOverviewResponse
	if err := c.client.Get(ctx, "/admin/dashboard/overview", &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}
