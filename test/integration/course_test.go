package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"artnuggets/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseListAndDetail(t *testing.T) {
	ts := GetTestServer(t)

	token, _ := helpers.CreateAndLoginRegular(t, ts, ts.DB)
	industry, _ := helpers.CreateIndustryWithNiches(t, ts.DB, "Photography", "Weddings")
	course := helpers.CreateCourse(t, ts.DB, industry.ID, "Contracts for Photographers")

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/courses?search=Photographers", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var list struct {
		Courses []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"courses"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.GreaterOrEqual(t, list.Total, 1)

	found := false
	for _, c := range list.Courses {
		if c.ID == course.ID {
			found = true
		}
	}
	assert.True(t, found, "созданный курс должен попасть в выдачу поиска")

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/courses/"+course.ID, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var detail struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &detail))
	assert.Equal(t, course.ID, detail.ID)
	assert.NotEmpty(t, detail.Content)
}

func TestCourseProgressFlow(t *testing.T) {
	ts := GetTestServer(t)

	token, _ := helpers.CreateAndLoginRegular(t, ts, ts.DB)
	industry, _ := helpers.CreateIndustryWithNiches(t, ts.DB, "Writing", "Fiction")
	course := helpers.CreateCourse(t, ts.DB, industry.ID, "Publishing Contracts 101")

	// Отмечаем курс избранным и завершенным
	res, body := ts.SendRequest(t, http.MethodPatch, fmt.Sprintf("/api/v1/courses/%s/progress", course.ID), token, map[string]interface{}{
		"is_completed": true,
		"is_favourite": true,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var brief struct {
		IsCompleted bool `json:"is_completed"`
		IsFavourite bool `json:"is_favourite"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &brief))
	assert.True(t, brief.IsCompleted)
	assert.True(t, brief.IsFavourite)

	// Курс появляется в подборках
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/courses/favourites", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, course.ID)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/courses/completed", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, course.ID)

	// Частичное обновление: снимаем избранное, завершение остается
	res, body = ts.SendRequest(t, http.MethodPatch, fmt.Sprintf("/api/v1/courses/%s/progress", course.ID), token, map[string]interface{}{
		"is_favourite": false,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	require.NoError(t, json.Unmarshal([]byte(body), &brief))
	assert.True(t, brief.IsCompleted)
	assert.False(t, brief.IsFavourite)
}

func TestRecentCoursesTracked(t *testing.T) {
	ts := GetTestServer(t)

	token, _ := helpers.CreateAndLoginRegular(t, ts, ts.DB)
	industry, _ := helpers.CreateIndustryWithNiches(t, ts.DB, "Dance", "Choreography")
	course := helpers.CreateCourse(t, ts.DB, industry.ID, "Performance Agreements")

	// Просмотр детали курса фиксирует last_viewed
	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/courses/"+course.ID, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/courses/recent", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, course.ID)
}

func TestCourseNotFound(t *testing.T) {
	ts := GetTestServer(t)

	token, _ := helpers.CreateAndLoginRegular(t, ts, ts.DB)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/courses/00000000-0000-0000-0000-000000000000", token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
