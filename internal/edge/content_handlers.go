package edge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"artnuggets/internal/edge/apiclient"
	"artnuggets/internal/edge/querycache"
	"artnuggets/internal/edge/session"
	"artnuggets/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// handleIndustries - публичный справочник индустрий (кэш 5 минут).
func (a *App) handleIndustries(c *gin.Context) {
	client := a.contentClient(a.readSession(c))
	key := querycache.Key(querycache.CollectionTaxonomy, "/industries", nil)

	a.serveCached(c, querycache.CollectionTaxonomy, key, func(ctx context.Context) ([]byte, error) {
		industries, err := client.ListIndustries(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(gin.H{"industries": industries})
	})
}

func (a *App) handleNiches(c *gin.Context) {
	industryID := c.Param("id")
	client := a.contentClient(a.readSession(c))
	key := querycache.Key(querycache.CollectionTaxonomy, "/industries/"+industryID+"/niches", nil)

	a.serveCached(c, querycache.CollectionTaxonomy, key, func(ctx context.Context) ([]byte, error) {
		niches, err := client.ListNiches(ctx, industryID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(gin.H{"niches": niches})
	})
}

func (a *App) handleCourses(c *gin.Context) {
	sess := a.currentSession(c)
	client := a.contentClient(sess)

	params := apiclient.CourseListParams{
		Page:       queryInt(c, "page"),
		PageSize:   queryInt(c, "page_size"),
		Search:     c.Query("search"),
		IndustryID: c.Query("industry_id"),
		NicheID:    c.Query("niche_id"),
	}
	// Прогресс в выдаче персональный, поэтому sid входит в ключ
	key := querycache.Key(querycache.CollectionCourses, "/courses", cacheParams(sess, c.Request.URL.Query()))

	a.serveCached(c, querycache.CollectionCourses, key, func(ctx context.Context) ([]byte, error) {
		list, err := client.ListCourses(ctx, params)
		if err != nil {
			return nil, err
		}
		return json.Marshal(list)
	})
}

func (a *App) handleCourseDetail(c *gin.Context) {
	sess := a.currentSession(c)
	client := a.contentClient(sess)
	courseID := c.Param("id")
	key := querycache.Key(querycache.CollectionCourses, "/courses/"+courseID, cacheParams(sess, nil))

	a.serveCached(c, querycache.CollectionCourses, key, func(ctx context.Context) ([]byte, error) {
		detail, err := client.GetCourse(ctx, courseID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(detail)
	})
}

func (a *App) handleFavourites(c *gin.Context) {
	a.serveCourseCollection(c, "/courses/favourites", func(ctx context.Context, client *apiclient.ContentClient) ([]dto.CourseBrief, error) {
		return client.ListFavourites(ctx)
	})
}

func (a *App) handleCompleted(c *gin.Context) {
	a.serveCourseCollection(c, "/courses/completed", func(ctx context.Context, client *apiclient.ContentClient) ([]dto.CourseBrief, error) {
		return client.ListCompleted(ctx)
	})
}

func (a *App) handleRecent(c *gin.Context) {
	limit := queryInt(c, "limit")
	a.serveCourseCollection(c, "/courses/recent", func(ctx context.Context, client *apiclient.ContentClient) ([]dto.CourseBrief, error) {
		return client.ListRecent(ctx, limit)
	})
}

func (a *App) serveCourseCollection(c *gin.Context, path string, fetch func(context.Context, *apiclient.ContentClient) ([]dto.CourseBrief, error)) {
	sess := a.currentSession(c)
	client := a.contentClient(sess)
	key := querycache.Key(querycache.CollectionProgress, path, cacheParams(sess, c.Request.URL.Query()))

	a.serveCached(c, querycache.CollectionProgress, key, func(ctx context.Context) ([]byte, error) {
		courses, err := fetch(ctx, client)
		if err != nil {
			return nil, err
		}
		return json.Marshal(gin.H{"courses": courses})
	})
}

func (a *App) handleProgressUpdate(c *gin.Context) {
	sess := a.currentSession(c)
	client := a.contentClient(sess)

	var req dto.ProgressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	brief, err := client.UpdateProgress(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		a.renderClientError(c, err)
		return
	}

	// Запись делает устаревшими и списки курсов, и подборки прогресса,
	// и счетчики дашборда
	a.cache.Invalidate(c.Request.Context(),
		querycache.CollectionCourses,
		querycache.CollectionProgress,
		querycache.CollectionDashboard,
	)
	c.JSON(http.StatusOK, brief)
}

// handleAdminOverview ходит админским клиентом (30s таймаут); права
// проверяет backend, guard сюда пускает только аутентифицированных.
func (a *App) handleAdminOverview(c *gin.Context) {
	sess := a.currentSession(c)
	client := apiclient.NewContentClient(a.adminClient(sess))
	key := querycache.Key(querycache.CollectionDashboard, "/admin/dashboard/overview", cacheParams(sess, nil))

	a.serveCached(c, querycache.CollectionDashboard, key, func(ctx context.Context) ([]byte, error) {
		overview, err := client.DashboardOverview(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(overview)
	})
}

func (a *App) serveCached(c *gin.Context, col querycache.Collection, key string, fetch querycache.FetchFunc) {
	payload, err := a.cache.Fetch(c.Request.Context(), col, key, fetch)
	if err != nil {
		a.renderClientError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// readSession возвращает сессию запроса, а для анонимных посетителей -
// общую пустую: публичные справочники не требуют токена.
func (a *App) readSession(c *gin.Context) *session.Session {
	if sess, state := a.lookupSession(c); state == session.StateAuthenticated {
		return sess
	}
	return a.anonSession
}

// cacheParams добавляет sid к query-параметрам, чтобы персональные
// ответы не пересекались между пользователями.
func cacheParams(sess *session.Session, query url.Values) url.Values {
	params := url.Values{}
	for k, v := range query {
		params[k] = v
	}
	params.Set("sid", sess.ID())
	return params
}

func queryInt(c *gin.Context, name string) int {
	if raw := c.Query(name); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			return parsed
		}
	}
	return 0
}
