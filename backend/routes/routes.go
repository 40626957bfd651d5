package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/appdotbuilder/online-learning-platform/backend/config"
	"github.com/appdotbuilder/online-learning-platform/backend/controllers"
	"github.com/appdotbuilder/online-learning-platform/backend/middleware"
	"github.com/appdotbuilder/online-learning-platform/backend/models"
	"github.com/appdotbuilder/online-learning-platform/backend/services"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	attemptService := services.NewAttemptService(db, logger)
	progressService := services.NewProgressService(db, logger)
	enrollmentService := services.NewEnrollmentService(db, logger)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	instructorMiddleware := middleware.RoleMiddleware(db, cfg, models.RoleInstructor, models.RoleAdmin)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/users/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/users/profile", authMiddleware, userController.UpdateProfile)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg, enrollmentService)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetUserCourses)
	courses.Get("/available", coursesController.GetAvailableCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Post("/:id/enroll", coursesController.Enroll)
	courses.Delete("/:id/enroll", coursesController.DropEnrollment)

	// Resources
	resourcesController := controllers.NewResourcesController(db, cfg)
	courses.Get("/:id/resources", resourcesController.ListByCourse)

	// Tests routes
	testsController := controllers.NewTestsController(db, cfg)
	attemptsController := controllers.NewAttemptsController(db, cfg, attemptService)
	tests := app.Group("/api/tests", authMiddleware)
	tests.Get("/:id", testsController.GetTestDetails)
	tests.Post("/:id/attempts", attemptsController.StartAttempt)
	tests.Get("/:id/attempts", attemptsController.ListMyAttempts)
	tests.Get("/:id/attempts/all", instructorMiddleware, attemptsController.ListTestAttempts)

	// Attempt routes
	attempts := app.Group("/api/attempts", authMiddleware)
	attempts.Get("/:id", attemptsController.GetAttempt)
	attempts.Post("/:id/submit", attemptsController.SubmitAttempt)

	// Progress routes
	progressController := controllers.NewProgressController(db, cfg, progressService)
	app.Post("/api/lessons/:id/complete", authMiddleware, progressController.CompleteLesson)
	app.Get("/api/lessons/:id/progress", instructorMiddleware, progressController.GetLessonProgress)
	app.Get("/api/progress", authMiddleware, progressController.GetMyProgress)
	app.Get("/api/dashboard", authMiddleware, progressController.GetDashboard)

	// Consultation routes
	consultationsController := controllers.NewConsultationsController(db, cfg)
	consultations := app.Group("/api/consultations", authMiddleware)
	consultations.Get("/", consultationsController.ListOpenSlots)
	consultations.Post("/", instructorMiddleware, consultationsController.CreateSlot)
	consultations.Post("/:id/book", consultationsController.BookSlot)
	consultations.Post("/:id/cancel", consultationsController.CancelSlot)

	// Instructor routes for courses and tests
	adminCourses := app.Group("/api/admin/courses", instructorMiddleware)
	adminCourses.Post("/", coursesController.CreateCourse)
	adminCourses.Post("/:id/lessons", coursesController.AddLesson)
	adminCourses.Put("/:id/lessons/:lessonId", coursesController.UpdateLesson)
	adminCourses.Post("/:id/resources", resourcesController.AddResource)

	adminTests := app.Group("/api/admin/tests", instructorMiddleware)
	adminTests.Post("/", testsController.CreateTest)
	adminTests.Post("/:id/questions", testsController.AddQuestion)
}
