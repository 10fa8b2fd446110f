package http

import (
	"Mumkin/internal/delivery/http/controllers"
	"Mumkin/internal/delivery/http/controllers/application"
	"Mumkin/internal/delivery/http/controllers/auth"
	"Mumkin/internal/delivery/http/controllers/course"
	"Mumkin/internal/delivery/http/controllers/instructor"
	"Mumkin/internal/delivery/http/controllers/middleware"
	"Mumkin/internal/delivery/http/controllers/notification"
	"Mumkin/internal/models"
	"Mumkin/internal/service"
	"Mumkin/pkg/logger"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Options struct {
	AllowOrigins []string
	MaxBodyBytes int64
	// Limiter guards the sign in endpoints; nil disables it.
	Limiter     *middleware.RateLimiter
	LoginLimit  int
	LoginWindow time.Duration
	Health      map[string]controllers.Pinger
}

func InitRoutes(l logger.Log, u service.Collection, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:4200"}
	}
	config := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(config))

	signInLimit := func(c *gin.Context) { c.Next() }
	if opts.Limiter != nil {
		signInLimit = opts.Limiter.Limit("sign_in", opts.LoginLimit, opts.LoginWindow)
	}

	authMiddleware := middleware.NewAuthMiddlewareProvider(l, u.AuthService, u.Resolver).AuthMiddleware
	staff := middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin)
	admin := middleware.RequireRoles(models.RoleAdmin)

	statusController := controllers.NewStatusHandler(opts.Health)
	authController := auth.NewAuthHandler(l, u.AuthService, u.Resolver)
	queryController := course.NewQueryHandler(l, u.CourseService)
	managementController := course.NewManagementHandler(l, u.CourseService)
	applicationController := application.NewApplicationHandler(l, u.ApplicationService)
	instructorController := instructor.NewInstructorHandler(l, u.InstructorService)
	notificationController := notification.NewNotificationHandler(l, u.NotificationService)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l), middleware.BodyLimit(opts.MaxBodyBytes))
	{
		v1.GET("/status", statusController.Status)
		v1.GET("/categories", queryController.Categories)

		v1.GET("/me", authMiddleware, authController.Me)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", signInLimit, authController.Register)
			authGroup.POST("/login", signInLimit, authController.Login)
			authGroup.POST("/refresh", authController.Refresh)
			authGroup.POST("/logout", authMiddleware, authController.Logout)
			authGroup.GET("/google", authController.GoogleURL)
			authGroup.GET("/google/callback", signInLimit, authController.GoogleCallback)
		}

		courses := v1.Group("/courses")
		{
			courses.GET("", queryController.ListCourses)
			courses.GET("/search", queryController.Search)
			courses.GET("/:course_id", queryController.CourseByID)
			courses.GET("/:course_id/related", queryController.Related)

			author := courses.Group("", authMiddleware, staff)
			{
				author.GET("/mine", queryController.MyCourses)
				author.POST("", managementController.CreateCourse)
				author.PUT("/:course_id", managementController.UpdateCourse)
				author.PATCH("/:course_id/status", managementController.SetStatus)
				author.DELETE("/:course_id", managementController.DeleteCourse)
			}
		}

		v1.GET("/instructors/:user_id/courses", queryController.ByInstructor)

		applications := v1.Group("/applications")
		{
			applications.GET("/questions", applicationController.Questions)
			applications.POST("", authMiddleware, applicationController.Submit)
		}

		notifications := v1.Group("/notifications", authMiddleware)
		{
			notifications.GET("", notificationController.List)
			notifications.POST("/read", notificationController.MarkAllRead)
		}

		adminGroup := v1.Group("/admin", authMiddleware, admin)
		{
			adminGroup.GET("/applications", applicationController.List)
			adminGroup.GET("/applications/pending-count", applicationController.PendingCount)
			adminGroup.PATCH("/applications/:application_id", applicationController.Decide)
			adminGroup.GET("/instructors", instructorController.List)
			adminGroup.POST("/instructors/:user_id/suspend", instructorController.Suspend)
			adminGroup.POST("/users/:user_id/notifications", instructorController.Notify)
		}
	}
	return r
}
