package edge

import (
	"context"
	"fmt"
	"net/http"

	"artnuggets/internal/edge/apiclient"
	"artnuggets/internal/edge/guard"
	"artnuggets/internal/edge/querycache"
	"artnuggets/internal/edge/session"
	"artnuggets/internal/edge/workspace"
	"artnuggets/internal/logger"
	"artnuggets/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const sidCookie = "sid"

// App - собранный edge-шлюз.
type App struct {
	cfg        Config
	sessions   *session.Manager
	workspaces *workspace.Registry
	refresher  *apiclient.Refresher
	proxy      *apiclient.ProxyClient
	cache      *querycache.Cache

	// anonSession - общая пустая сессия для публичных справочников
	anonSession *session.Session
}

func NewApp(cfg Config) *App {
	var sessionStore session.Store
	var cacheStore querycache.Store

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		sessionStore = session.NewRedisStore(client, "")
		cacheStore = querycache.NewRedisStore(client)
		logger.Info("Edge stores backed by Redis", "addr", cfg.RedisAddr)
	} else {
		sessionStore = session.NewFileStore(cfg.SessionFile)
		cacheStore = querycache.NewMemoryStore()
		logger.Info("Edge stores backed by file + memory", "file", cfg.SessionFile)
	}

	return &App{
		cfg:         cfg,
		sessions:    session.NewManager(sessionStore),
		workspaces:  workspace.NewRegistry(),
		refresher:   apiclient.NewRefresher(cfg.BackendURL),
		proxy:       apiclient.NewProxyClient(cfg.BackendURL),
		cache:       querycache.New(cacheStore),
		anonSession: session.New("edge-anonymous"),
	}
}

// Run гидрирует сессии и поднимает HTTP-сервер шлюза.
func Run() {
	cfg := FromEnv()
	app := NewApp(cfg)

	if err := app.sessions.Hydrate(context.Background()); err != nil {
		logger.Fatal("Failed to hydrate session store", "error", err)
	}

	router := app.SetupRouter()

	address := fmt.Sprintf(":%d", cfg.Port)
	logger.Info(fmt.Sprintf("🚀 Edge gateway starting on %s", address), "backend", cfg.BackendURL)
	if err := router.Run(address); err != nil {
		logger.Fatal("Edge gateway startup error", "error", err)
	}
}

func (a *App) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(guard.Middleware())

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", a.handleLogin)
			auth.POST("/signup", a.handleSignup)
			auth.POST("/logout", a.handleLogout)
		}

		ws := api.Group("/workspace", a.requireSession())
		{
			ws.GET("", a.handleWorkspaceSnapshot)
			ws.POST("/tabs", a.handleOpenTab)
			ws.POST("/tabs/:id/activate", a.handleActivateTab)
			ws.DELETE("/tabs/:id", a.handleCloseTab)
			ws.POST("/tabs/:id/analyze", a.handleAnalyze)
			ws.GET("/chats", a.handleChatList)
			ws.DELETE("/chats/:id", a.handleDeleteChat)
		}

		content := api.Group("/content")
		{
			content.GET("/industries", a.handleIndustries)
			content.GET("/industries/:id/niches", a.handleNiches)

			authed := content.Group("", a.requireSession())
			{
				authed.GET("/courses", a.handleCourses)
				authed.GET("/courses/favourites", a.handleFavourites)
				authed.GET("/courses/completed", a.handleCompleted)
				authed.GET("/courses/recent", a.handleRecent)
				authed.GET("/courses/:id", a.handleCourseDetail)
				authed.PATCH("/courses/:id/progress", a.handleProgressUpdate)
				authed.GET("/admin/overview", a.handleAdminOverview)
			}
		}
	}

	// Статика фронтенда; неизвестные пути отдают index.html, маршрутизацию
	// страниц guard уже отработал
	router.Static("/assets", a.cfg.StaticDir+"/assets")
	router.NoRoute(func(c *gin.Context) {
		c.File(a.cfg.StaticDir + "/index.html")
	})

	return router
}

// requireSession пропускает только аутентифицированные сессии.
// До гидрации хранилища состояние Unknown и ответ - 503, не 401:
// нельзя разлогинить пользователя из-за того, что шлюз еще не готов.
func (a *App) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, state := a.lookupSession(c)
		switch state {
		case session.StateUnknown:
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store is warming up"})
			return
		case session.StateAnonymous:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set("session", sess)
		c.Next()
	}
}

func (a *App) lookupSession(c *gin.Context) (*session.Session, session.State) {
	sid, err := c.Cookie(sidCookie)
	if err != nil {
		if !a.sessions.Hydrated() {
			return nil, session.StateUnknown
		}
		return nil, session.StateAnonymous
	}
	return a.sessions.Lookup(sid)
}

func (a *App) currentSession(c *gin.Context) *session.Session {
	return c.MustGet("session").(*session.Session)
}

func (a *App) backendClient(sess *session.Session) *apiclient.Client {
	return apiclient.NewBackendClient(a.cfg.BackendURL, sess, a.refresher)
}

func (a *App) adminClient(sess *session.Session) *apiclient.Client {
	return apiclient.NewAdminClient(a.cfg.BackendURL, sess, a.refresher)
}

func (a *App) chatService(sess *session.Session) *workspace.Service {
	ws := a.workspaces.Get(sess.ID())
	api := apiclient.NewAIChatClient(a.backendClient(sess))
	return workspace.NewService(ws, api)
}

func (a *App) contentClient(sess *session.Session) *apiclient.ContentClient {
	return apiclient.NewContentClient(a.backendClient(sess))
}
