package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/handlers"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/middleware"
)

// Deps are the handlers and middleware the router mounts
type Deps struct {
	AllowedOrigins []string
	Session        *middleware.SessionMiddleware
	Auth           *handlers.AuthHandler
	Campaigns      *handlers.CampaignHandler
	Storage        *handlers.StorageHandler
	Platforms      *handlers.PlatformHandler
}

// SetupRouter configures the Gin router with the auth, campaign and storage routes
func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// Cookies are the credential, so origins must be explicit
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logrus.Info("Swagger UI endpoint registered at /swagger/index.html")

	api := r.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
		})

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", deps.Auth.Signup)
			auth.POST("/login", deps.Auth.Login)
			auth.POST("/logout", deps.Auth.Logout)
			auth.GET("/session", deps.Auth.Session)
		}

		// The submission pipeline checks the session itself so it can
		// answer with its own error envelope
		api.POST("/campaigns/create", deps.Campaigns.CreateCampaign)

		// File URLs are embedded in stored campaigns and must resolve without cookies
		files := api.Group("/storage/buckets/:bucketId/files")
		{
			files.GET("/:fileId/view", deps.Storage.ViewFile)
			files.GET("/:fileId/download", deps.Storage.DownloadFile)
		}

		api.GET("/platforms", deps.Platforms.GetPlatforms)
		api.GET("/platforms/:platform", deps.Platforms.GetPlatform)

		// Protected routes
		protected := api.Group("")
		protected.Use(deps.Session.RequireSession())
		{
			campaigns := protected.Group("/campaigns")
			{
				campaigns.GET("", deps.Campaigns.ListCampaigns)
				campaigns.GET("/export", deps.Campaigns.ExportCampaigns)
				campaigns.POST("/validate-dates", deps.Campaigns.ValidateDates)
				campaigns.GET("/:id", deps.Campaigns.GetCampaign)
			}

			storage := protected.Group("/storage/buckets/:bucketId/files")
			{
				storage.GET("", deps.Storage.ListFiles)
				storage.DELETE("/:fileId", deps.Storage.DeleteFile)
			}
		}
	}

	return r
}
