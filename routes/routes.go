package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dnoglop/task-joule/constants"
	"github.com/dnoglop/task-joule/handlers"
	"github.com/dnoglop/task-joule/middleware"
)

func SetupRoutes(h *handlers.HandlerManager, db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.Metrics())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))

	api := r.Group("/api/v1")
	{
		api.POST("/login", h.AuthenticationHandler.Login)
		api.POST("/accept-invite", h.AuthenticationHandler.AcceptInvite)

		// new group with authentication
		auth := api.Group("")
		auth.Use(middleware.AuthMiddleware(db))
		{
			auth.POST("/change-password", h.AuthenticationHandler.ChangePassword)
			auth.GET("/me", h.ProfileHandler.Me)

			profiles := auth.Group("/profiles")
			{
				profiles.GET("", middleware.RequirePermission(constants.ActionViewEmployees), h.ProfileHandler.List)
				profiles.GET("/:id", h.ProfileHandler.Get)
				profiles.PATCH("/:id", h.ProfileHandler.Update)
				profiles.DELETE("/:id", middleware.RequirePermission(constants.ActionDeleteEmployee), h.ProfileHandler.Delete)
				profiles.POST("/:id/avatar", h.ProfileHandler.UploadAvatar)
			}
			auth.POST("/invite", middleware.RequirePermission(constants.ActionInviteEmployee), h.ProfileHandler.Invite)

			programs := auth.Group("/programs")
			{
				programs.GET("", h.ProgramHandler.List)
				programs.GET("/:id", h.ProgramHandler.Get)
				programs.POST("", middleware.RequirePermission(constants.ActionEditProgram), h.ProgramHandler.Create)
				programs.PATCH("/:id", middleware.RequirePermission(constants.ActionEditProgram), h.ProgramHandler.Update)
				programs.DELETE("/:id", middleware.RequirePermission(constants.ActionDeleteProgram), h.ProgramHandler.Delete)
			}

			tasks := auth.Group("/tasks")
			{
				tasks.GET("", h.TaskHandler.List)
				tasks.GET("/:id", h.TaskHandler.Get)
				tasks.POST("", middleware.RequirePermission(constants.ActionCreateTask), h.TaskHandler.Create)
				tasks.PATCH("/:id", h.TaskHandler.Update)
				tasks.DELETE("/:id", middleware.RequirePermission(constants.ActionDeleteTask), h.TaskHandler.Delete)
				tasks.GET("/:id/comments", h.TaskHandler.ListComments)
				tasks.POST("/:id/comments", h.TaskHandler.AddComment)
			}

			auth.POST("/import/tasks", middleware.RequirePermission(constants.ActionImportTasks), h.ImportHandler.ImportTasks)

			reports := auth.Group("/reports")
			{
				reports.GET("/summary", h.ReportHandler.Summary)
				reports.GET("/programs", h.ReportHandler.Programs)
				reports.GET("/employees", middleware.RequirePermission(constants.ActionViewTeamReports), h.ReportHandler.Employees)
			}
			auth.GET("/employees/:id/metrics", h.ReportHandler.EmployeeMetrics)
		}
	}

	return r
}
