package app

import (
	"time"

	"mls_backend/internal/config"
	"mls_backend/internal/controller"
	"mls_backend/internal/middleware"
	"mls_backend/internal/model"
	"mls_backend/internal/repository"
	"mls_backend/pkg/monitoring"
	"mls_backend/pkg/security"
	"mls_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
)

type controllers struct {
	Auth         *controller.AuthController
	User         *controller.UserController
	School       *controller.SchoolController
	Lesson       *controller.LessonController
	Attendance   *controller.AttendanceController
	Assessment   *controller.AssessmentController
	Notification *controller.NotificationController
	Resource     *controller.ResourceController
	Health       *controller.HealthController
}

func buildRoutes(cfg *config.Config, c *controllers, userRepo *repository.UserRepository) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(security.CORS(cfg.CORS.AllowedOrigins))
	r.Use(security.Secure())
	r.Use(monitoring.MetricsMiddleware())
	if cfg.Tracing.Enabled {
		r.Use(tracing.GinMiddleware())
	}
	if cfg.RateLimit.MaxRequests > 0 {
		r.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))
	}

	r.GET("/health", c.Health.Health)
	r.GET("/metrics", monitoring.PrometheusHandler())
	if cfg.Storage.Type == "local" {
		r.Static("/uploads", cfg.Storage.LocalPath)
	}

	auth, activity := middlewareFor(cfg, userRepo)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/register", c.Auth.Register)
		api.POST("/auth/login", c.Auth.Login)
	}

	authed := api.Group("")
	authed.Use(auth, activity)
	{
		authed.GET("/auth/me", c.Auth.Me)
		authed.PUT("/users/:id", c.User.Update)

		// Notifications: everyone reads their own; the send matrix is
		// enforced in the service.
		authed.GET("/notifications", c.Notification.List)
		authed.GET("/notifications/unread-count", c.Notification.UnreadCount)
		authed.POST("/notifications", c.Notification.Send)
		authed.GET("/notifications/sendable-roles", c.Notification.SendableRoles)
		authed.POST("/notifications/:id/read", c.Notification.MarkRead)
		authed.DELETE("/notifications/:id", c.Notification.Deactivate)
	}

	admin := authed.Group("")
	admin.Use(middleware.RoleMiddleware())
	{
		admin.GET("/users", c.User.List)
		admin.POST("/users/:id/activation", c.User.SetActivation)
		admin.POST("/users/:id/archive", c.User.SetArchived)
	}

	curator := authed.Group("")
	curator.Use(middleware.RoleMiddleware(model.CourseMaster))
	{
		curator.POST("/schools", c.School.CreateSchool)
		curator.POST("/courses", c.School.CreateCourse)
		curator.POST("/intakes", c.School.CreateIntake)
		curator.POST("/semesters", c.School.CreateSemester)
		curator.POST("/course-groups", c.School.CreateCourseGroup)
		curator.POST("/units", c.School.CreateUnit)
		curator.POST("/units/:id/trainer", c.School.AssignTrainer)
		curator.POST("/enrollments", c.School.Enroll)
	}

	staff := authed.Group("")
	staff.Use(middleware.RoleMiddleware(model.CourseMaster, model.HOD, model.Trainer))
	{
		staff.GET("/schools", c.School.ListSchools)
		staff.GET("/courses", c.School.ListCourses)
		staff.GET("/intakes", c.School.ListIntakes)
		staff.GET("/course-groups", c.School.ListCourseGroups)
		staff.GET("/course-groups/:id/roster", c.School.Roster)
		staff.GET("/units", c.School.ListUnits)
		staff.GET("/users/role/:role", c.User.ListByRole)
		staff.GET("/units/:id/lessons", c.Lesson.ListByUnit)
		staff.GET("/units/:id/assessments", c.Assessment.ListByUnit)
	}

	trainer := authed.Group("")
	trainer.Use(middleware.RoleMiddleware(model.Trainer))
	{
		trainer.GET("/my-units", c.School.MyUnits)
		trainer.POST("/lessons", c.Lesson.Create)
		trainer.PUT("/lessons/:id", c.Lesson.Update)
		trainer.POST("/lessons/:id/submit", c.Lesson.Submit)
		trainer.DELETE("/lessons/:id", c.Lesson.Deactivate)
		trainer.POST("/lessons/:id/resources", c.Resource.Attach)
		trainer.DELETE("/resources/:id", c.Resource.Remove)

		trainer.POST("/assessments", c.Assessment.Create)
		trainer.PUT("/assessments/:id", c.Assessment.Update)
		trainer.DELETE("/assessments/:id", c.Assessment.Delete)
		trainer.PUT("/assessments/:id/questions", c.Assessment.SaveQuestions)
		trainer.GET("/assessments/:id/submissions", c.Assessment.ListSubmissions)
		trainer.POST("/submissions/:id/grade", c.Assessment.Grade)
		trainer.POST("/units/:id/generate-cats", c.Assessment.GenerateCATs)

		trainer.POST("/lessons/:id/attendance", c.Attendance.MarkOne)
		trainer.POST("/lessons/:id/attendance/bulk", c.Attendance.MarkBulk)
		trainer.POST("/lessons/:id/attendance/all-present", c.Attendance.MarkAllPresent)
	}

	reviewer := authed.Group("")
	reviewer.Use(middleware.RoleMiddleware(model.HOD, model.Trainer))
	{
		reviewer.GET("/lessons/:id/attendance", c.Attendance.LessonReport)
		reviewer.GET("/assessments/:id/report", c.Attendance.AssessmentReport)
	}

	hod := authed.Group("")
	hod.Use(middleware.RoleMiddleware(model.HOD))
	{
		hod.POST("/lessons/:id/approve", c.Lesson.Approve)
		hod.POST("/lessons/:id/reject", c.Lesson.Reject)
	}

	student := authed.Group("")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.GET("/student/units/:id/lessons", c.Lesson.StudentList)
		student.GET("/student/lessons/:id", c.Lesson.StudentView)
		student.POST("/student/lessons/:id/completion", c.Lesson.ToggleCompletion)
		student.GET("/student/units/:id/progress", c.Lesson.UnitProgress)
		student.GET("/student/assessments/:id", c.Assessment.StudentView)
		student.POST("/student/assessments/:id/submit", c.Assessment.Submit)
		student.GET("/student/assessments/:id/submission", c.Assessment.MySubmission)
	}

	// Resource listing spans trainers, reviewers and students; the service
	// applies per-role visibility.
	authed.GET("/lessons/:id/resources", c.Resource.ListForLesson)

	return r
}
