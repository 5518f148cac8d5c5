package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/nnpgpt/internal/app/controllers"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/middleware"
	"github.com/yigit/nnpgpt/internal/pkg/validation"
)

// Controllers groups the handlers mounted under /api/v1
type Controllers struct {
	Session *controllers.SessionController
	Course  *controllers.CourseController
	Chat    *controllers.ChatController
	Preview *controllers.PreviewController
	Theme   *controllers.ThemeController
	Events  *controllers.EventsController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrls Controllers,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter *middleware.IPRateLimiter,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public catalog routes ---
	courses := v1.Group("/courses")
	{
		courses.GET("", ctrls.Course.ListCourses)
		courses.GET("/:courseId", middleware.ValidatePathParam("courseId", validation.CompiledPatterns.CourseID), ctrls.Course.GetCourse)
	}

	// --- Theme preferences, keyed by client rather than session ---
	theme := v1.Group("/theme/:clientId")
	theme.Use(middleware.ValidatePathParam("clientId", validation.CompiledPatterns.ClientID))
	{
		theme.GET("", ctrls.Theme.GetTheme)
		theme.PUT("", ctrls.Theme.SetTheme)
		theme.POST("/toggle", ctrls.Theme.ToggleTheme)
	}

	// --- Session nodes ---
	v1.POST("/sessions", ctrls.Session.CreateSession)

	node := v1.Group("/sessions/:id")
	node.Use(middleware.ValidatePathParam("id", validation.CompiledPatterns.ResourceID))
	{
		// Login is the only node route that works without a token
		node.POST("/login", loginLimiter.Middleware(), ctrls.Session.Login)

		authenticated := node.Group("")
		authenticated.Use(authMiddleware.SessionAuth())
		{
			authenticated.GET("", ctrls.Session.GetSession)
			authenticated.POST("/logout", ctrls.Session.Logout)
			authenticated.PUT("/course", ctrls.Session.SelectCourse)
			authenticated.POST("/files", ctrls.Session.UploadFiles)
			authenticated.PUT("/selection", ctrls.Session.SelectFile)
			authenticated.PUT("/tab", ctrls.Session.SetActiveTab)
			authenticated.POST("/usage", ctrls.Session.RecordUsage)
			authenticated.POST("/chat", ctrls.Chat.Send)
			authenticated.GET("/preview", ctrls.Preview.GetPreview)
			authenticated.GET("/events", ctrls.Events.Stream)

			// Vault curation is staff only
			vault := authenticated.Group("/vault/:fileId")
			vault.Use(
				authMiddleware.RoleRequired(models.RoleLecturer, models.RoleAdmin),
				middleware.ValidatePathParam("fileId", validation.CompiledPatterns.ResourceID),
			)
			{
				vault.PATCH("", ctrls.Session.UpdateFile)
				vault.DELETE("", ctrls.Session.DeleteFile)
			}
		}
	}
}
