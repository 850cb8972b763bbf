// Package guard - защита страничных маршрутов edge-шлюза по cookies.
// Guard смотрит только на НАЛИЧИЕ cookies и никогда не валидирует
// содержимое токенов: подлинность проверяет backend на первом же
// API-запросе, а задача guard'а - не показывать защищенную страницу
// заведомо анонимному посетителю.
package guard

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	loginPath         = "/login"
	authenticatedHome = "/courses"
)

// staticPrefixes пропускаются без проверки: API сам решает про 401,
// а ассеты нужны и странице логина.
var staticPrefixes = []string{
	"/api/",
	"/assets/",
	"/static/",
	"/favicon",
}

// publicPaths доступны без аутентификации.
var publicPaths = map[string]bool{
	"/":       true,
	"/login":  true,
	"/signup": true,
}

// protectedPrefixes требуют обеих auth-cookies.
var protectedPrefixes = []string{
	"/dashboard",
	"/profile",
	"/onboarding",
	"/courses",
	"/settings",
	"/admin",
	"/aiChat",
}

// Middleware возвращает gin-middleware страничного guard'а.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, prefix := range staticPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		hasAuth := hasBothCookies(c)

		if publicPaths[path] {
			// Уже вошедшему посетителю формы логина и регистрации не нужны
			if hasAuth && (path == "/login" || path == "/signup") {
				c.Redirect(http.StatusTemporaryRedirect, authenticatedHome)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		for _, prefix := range protectedPrefixes {
			if strings.HasPrefix(path, prefix) {
				if !hasAuth {
					c.Redirect(http.StatusTemporaryRedirect, loginPath)
					c.Abort()
					return
				}
				c.Next()
				return
			}
		}

		c.Next()
	}
}

func hasBothCookies(c *gin.Context) bool {
	if _, err := c.Cookie(AccessCookie); err != nil {
		return false
	}
	if _, err := c.Cookie(RefreshCookie); err != nil {
		return false
	}
	return true
}
