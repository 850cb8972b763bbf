package edge

import (
	"net/http"
	"time"

	"artnuggets/internal/edge/guard"
	"artnuggets/internal/edge/session"
	"artnuggets/internal/logger"
	"artnuggets/internal/services/dto"

	"github.com/gin-gonic/gin"
)

const (
	refreshCookieMaxAge = 30 * 24 * 3600
	onboardingPath      = "/onboarding"
	coursesPath         = "/courses"
	loginPath           = "/login"
)

// notification - всплывающее сообщение для клиента.
type notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// authResponse - ответ прокси-маршрутов аутентификации.
type authResponse struct {
	Success      bool              `json:"success"`
	User         *dto.UserResponse `json:"user,omitempty"`
	Tokens       *session.Tokens   `json:"tokens,omitempty"`
	Redirect     string            `json:"redirect,omitempty"`
	Notification *notification     `json:"notification,omitempty"`
}

type loginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (a *App) handleLogin(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, authResponse{
			Success:      false,
			Notification: &notification{Type: "error", Message: "Invalid request"},
		})
		return
	}

	body := dto.LoginRequest{Email: form.Email, Password: form.Password}
	a.proxyAuth(c, "/auth/login", body, false)
}

func (a *App) handleSignup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, authResponse{
			Success:      false,
			Notification: &notification{Type: "error", Message: "Invalid request"},
		})
		return
	}

	body := dto.RegisterRequest{Email: form.Email, Password: form.Password, FullName: form.FullName}
	a.proxyAuth(c, "/auth/register", body, true)
}

// proxyAuth вызывает backend и при успехе заводит сессию шлюза:
// access_token+refresh_token+sid cookies выставляются одним ответом.
func (a *App) proxyAuth(c *gin.Context, path string, body interface{}, isSignup bool) {
	var pair dto.TokenPairResponse
	status, err := a.proxy.PostJSON(c.Request.Context(), path, c.Request.Cookies(), body, &pair)
	if err != nil {
		logger.Error("Auth proxy call failed", "path", path, "error", err)
		c.JSON(http.StatusBadGateway, authResponse{
			Success:      false,
			Notification: &notification{Type: "error", Message: "Service is temporarily unavailable"},
		})
		return
	}
	if status < 200 || status >= 300 || pair.AccessToken == "" {
		c.JSON(status, authResponse{
			Success:      false,
			Notification: &notification{Type: "error", Message: authFailureMessage(isSignup)},
		})
		return
	}

	tokens := session.Tokens{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(pair.ExpiresIn) * time.Second),
	}
	user := &session.User{
		ID:                  pair.User.ID,
		Email:               pair.User.Email,
		FullName:            pair.User.FullName,
		Role:                pair.User.Role,
		OnboardingCompleted: pair.User.OnboardingCompleted,
	}

	sess := a.sessions.GetOrCreate("")
	sess.Login(session.AuthResult{User: user, Tokens: tokens})
	if err := a.sessions.Persist(c.Request.Context()); err != nil {
		logger.Warn("Failed to persist sessions after login", "error", err)
	}

	a.setAuthCookies(c, sess.ID(), tokens, pair.ExpiresIn)

	redirect := coursesPath
	if isSignup || !pair.User.OnboardingCompleted {
		redirect = onboardingPath
	}

	c.JSON(http.StatusOK, authResponse{
		Success:  true,
		User:     pair.User,
		Tokens:   &tokens,
		Redirect: redirect,
		Notification: &notification{
			Type:    "success",
			Message: authSuccessMessage(isSignup, pair.User.FullName),
		},
	})
}

func (a *App) handleLogout(c *gin.Context) {
	sess, state := a.lookupSession(c)
	if state == session.StateAuthenticated {
		// Сообщаем backend'у, чтобы refresh-токен был отозван,
		// а access попал в blocklist
		tokens := sess.Tokens()
		client := a.backendClient(sess)
		body := dto.LogoutRequest{RefreshToken: tokens.RefreshToken}
		if err := client.PostJSON(c.Request.Context(), "/auth/logout", body, nil); err != nil {
			logger.Warn("Backend logout failed", "error", err)
		}

		a.workspaces.Drop(sess.ID())
		a.sessions.Drop(sess.ID())
		if err := a.sessions.Persist(c.Request.Context()); err != nil {
			logger.Warn("Failed to persist sessions after logout", "error", err)
		}
	}

	a.clearAuthCookies(c)
	c.JSON(http.StatusOK, authResponse{
		Success:      true,
		Redirect:     loginPath,
		Notification: &notification{Type: "info", Message: "You have been signed out"},
	})
}

func (a *App) setAuthCookies(c *gin.Context, sid string, tokens session.Tokens, expiresIn int) {
	secure := a.cfg.CookieSecure
	c.SetCookie(guard.AccessCookie, tokens.AccessToken, expiresIn, "/", "", secure, true)
	c.SetCookie(guard.RefreshCookie, tokens.RefreshToken, refreshCookieMaxAge, "/", "", secure, true)
	c.SetCookie(sidCookie, sid, refreshCookieMaxAge, "/", "", secure, true)
}

func (a *App) clearAuthCookies(c *gin.Context) {
	secure := a.cfg.CookieSecure
	c.SetCookie(guard.AccessCookie, "", -1, "/", "", secure, true)
	c.SetCookie(guard.RefreshCookie, "", -1, "/", "", secure, true)
	c.SetCookie(sidCookie, "", -1, "/", "", secure, true)
}

func authFailureMessage(isSignup bool) string {
	if isSignup {
		return "Registration failed. The email may already be in use."
	}
	return "Invalid email or password"
}

func authSuccessMessage(isSignup bool, fullName string) string {
	if isSignup {
		return "Welcome to Art Nuggets, " + fullName + "!"
	}
	return "Welcome back, " + fullName + "!"
}
