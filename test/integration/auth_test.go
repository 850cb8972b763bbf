package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"artnuggets/internal/models"
	"artnuggets/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginRefreshLogout(t *testing.T) {
	ts := GetTestServer(t)

	email := fmt.Sprintf("flow_%d@test.com", time.Now().UnixNano())

	// Регистрация сразу выдает пару токенов
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":     email,
		"password":  "password123",
		"full_name": "Flow Tester",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var registered struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &registered))
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)

	// Refresh ротирует пару
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refresh_token": registered.RefreshToken,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var refreshed struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &refreshed))
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// Старый refresh-токен отозван ротацией
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refresh_token": registered.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	// Logout гасит новую пару
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/logout", refreshed.AccessToken, map[string]interface{}{
		"refresh_token": refreshed.RefreshToken,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refresh_token": refreshed.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := GetTestServer(t)

	email := fmt.Sprintf("dupe_%d@test.com", time.Now().UnixNano())
	payload := map[string]interface{}{
		"email":     email,
		"password":  "password123",
		"full_name": "First User",
	}

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, res.StatusCode, body)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := GetTestServer(t)

	email := fmt.Sprintf("wrongpass_%d@test.com", time.Now().UnixNano())
	_, _ = helpers.CreateAndLoginUser(t, ts, ts.DB, "Wrong Pass", email, "password123", models.UserRoleRegular)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	ts := GetTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestOnboardingFlow(t *testing.T) {
	ts := GetTestServer(t)

	token, _ := helpers.CreateAndLoginRegular(t, ts, ts.DB)
	industry, niches := helpers.CreateIndustryWithNiches(t, ts.DB, "Music", "Songwriting", "Production")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/users/me/onboarding", token, map[string]interface{}{
		"industry_id": industry.ID,
		"niche_ids":   []string{niches[0].ID, niches[1].ID},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var profile struct {
		OnboardingCompleted bool `json:"onboarding_completed"`
		Industry            *struct {
			ID string `json:"id"`
		} `json:"industry"`
		Niches []struct {
			ID string `json:"id"`
		} `json:"niches"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &profile))
	assert.True(t, profile.OnboardingCompleted)
	require.NotNil(t, profile.Industry)
	assert.Equal(t, industry.ID, profile.Industry.ID)
	assert.Len(t, profile.Niches, 2)
}

func TestOnboarding_NicheFromAnotherIndustryRejected(t *testing.T) {
	ts := GetTestServer(t)

	token, _ := helpers.CreateAndLoginRegular(t, ts, ts.DB)
	industryA, _ := helpers.CreateIndustryWithNiches(t, ts.DB, "Film", "Directing")
	_, nichesB := helpers.CreateIndustryWithNiches(t, ts.DB, "Design", "Branding")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/users/me/onboarding", token, map[string]interface{}{
		"industry_id": industryA.ID,
		"niche_ids":   []string{nichesB[0].ID},
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)
}
