package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/paperprep/paperprep-backend/internal/config"
	"github.com/paperprep/paperprep-backend/internal/handler"
	"github.com/paperprep/paperprep-backend/internal/logger"
	"github.com/paperprep/paperprep-backend/internal/middleware"
	"github.com/paperprep/paperprep-backend/internal/response"
	"github.com/paperprep/paperprep-backend/internal/service"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Paper      *handler.PaperHandler
	Attempt    *handler.AttemptHandler
	Prediction *handler.PredictionHandler
	Admin      *handler.AdminHandler
	Media      *handler.MediaHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds the lifetime of the rate limiter cleanup goroutines.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the request log line carries it.
	router.Use(response.RequestIDMiddleware())
	router.Use(logger.RequestLogger(log))
	router.Use(middleware.Brotli())

	// Uploaded question images never change once written.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	userAuth := middleware.RequireUserJWT(authService)
	loginSession := middleware.CheckLoginSession(authService)

	// ─── 0. Public Catalog (No Auth) ───────────────────────────────────
	public := router.Group("/api/v1")
	public.Use(middleware.CacheControl(60))
	{
		public.GET("/papers", handlers.Paper.ListPapers)
		public.GET("/papers/:id", handlers.Paper.GetPaper)
		public.GET("/papers/:id/subjects", handlers.Paper.ListPaperSubjects)
		public.GET("/subjects", handlers.Paper.ListSubjects)
	}

	// 30 requests per minute per IP.
	authLimiter := middleware.NewRateLimiter(ctx, 30, time.Minute, middleware.ByIP)

	// ─── 1. Auth Group (Rate Limited) ──────────────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware(), middleware.NoStore())
	{
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/login", handlers.Auth.Login)

		auth.POST("/logout", userAuth, loginSession, handlers.Auth.Logout)
		auth.GET("/me", userAuth, loginSession, handlers.Auth.Me)
		auth.PUT("/profile", userAuth, loginSession, handlers.Auth.UpdateProfile)
	}

	// ─── 2. User Group (JWT + Login Session) ───────────────────────────
	userAPI := router.Group("/api/v1")
	userAPI.Use(userAuth, loginSession, middleware.NoStore())
	{
		userAPI.POST("/attempts", handlers.Attempt.Start)
		userAPI.GET("/attempts/:id", handlers.Attempt.Get)
		userAPI.POST("/attempts/:id/select", handlers.Attempt.Select)
		userAPI.POST("/attempts/:id/review", handlers.Attempt.Review)
		userAPI.POST("/attempts/:id/clear", handlers.Attempt.Clear)
		userAPI.POST("/attempts/:id/save-next", handlers.Attempt.SaveNext)
		userAPI.POST("/attempts/:id/save-mark", handlers.Attempt.SaveMark)
		userAPI.POST("/attempts/:id/navigate", handlers.Attempt.Navigate)
		userAPI.POST("/attempts/:id/submit", handlers.Attempt.Submit)
		userAPI.GET("/attempts/:id/result", handlers.Attempt.Result)

		userAPI.GET("/me/attempts", handlers.Attempt.History)
		userAPI.GET("/me/attempts/active", handlers.Attempt.Active)

		// Model calls are slow and billed: 10 per minute per user.
		predictLimiter := middleware.NewRateLimiter(ctx, 10, time.Minute, middleware.ByUser)
		userAPI.POST("/predictions", predictLimiter.Middleware(), handlers.Prediction.Predict)
	}

	// ─── 3. WebSocket Group (Query Token) ──────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService), loginSession)
	{
		ws.GET("/attempts/:id/stream", handlers.WS.AttemptStream)
	}

	// ─── 4. Admin Group (JWT + Role) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(userAuth, loginSession, middleware.RequireAdmin(), middleware.NoStore())
	{
		adminAPI.POST("/papers/import", handlers.Admin.ImportPaper)
		adminAPI.POST("/papers/:id/refresh-cache", handlers.Admin.RefreshPaperCache)
		adminAPI.POST("/media/upload", handlers.Media.UploadMedia)
	}

	return router
}
