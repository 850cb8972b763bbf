package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"artnuggets/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminDashboardOverview(t *testing.T) {
	ts := GetTestServer(t)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, ts.DB)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/admin/dashboard/overview", adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var overview struct {
		TotalUsers      int64 `json:"total_users"`
		TotalCourses    int64 `json:"total_courses"`
		TotalIndustries int64 `json:"total_industries"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &overview))
	assert.GreaterOrEqual(t, overview.TotalUsers, int64(1))
}

func TestAdminRoutesForbiddenForRegularUser(t *testing.T) {
	ts := GetTestServer(t)

	token, _ := helpers.CreateAndLoginRegular(t, ts, ts.DB)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/admin/dashboard/overview", token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestAdminCreateTaxonomyAndCourse(t *testing.T) {
	ts := GetTestServer(t)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, ts.DB)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/admin/industries", adminToken, map[string]interface{}{
		"name": "Illustration",
		"slug": "illustration-admin-test",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var industry struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &industry))
	require.NotEmpty(t, industry.ID)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/admin/niches", adminToken, map[string]interface{}{
		"industry_id": industry.ID,
		"name":        "Editorial",
		"slug":        "editorial-admin-test",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/admin/courses", adminToken, map[string]interface{}{
		"title":            "Licensing Basics",
		"slug":             "licensing-basics-admin-test",
		"summary":          "Licensing for illustrators",
		"content":          "Course body",
		"level":            "beginner",
		"industry_id":      industry.ID,
		"duration_minutes": 25,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var course struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &course))

	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/admin/courses/"+course.ID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}
