package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/appdotbuilder/online-learning-platform/backend/config"
	"github.com/appdotbuilder/online-learning-platform/backend/models"
	"github.com/appdotbuilder/online-learning-platform/backend/services"
	"github.com/appdotbuilder/online-learning-platform/backend/utils"
)

type ProgressController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Progress *services.ProgressService
}

func NewProgressController(db *gorm.DB, cfg *config.Config, progress *services.ProgressService) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg, Progress: progress}
}

func (pc *ProgressController) CompleteLesson(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	lessonID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lesson ID",
		})
	}

	progress, err := pc.Progress.CompleteLesson(userID, lessonID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Lesson completed",
		"progress": progress,
	})
}

// GetMyProgress lists the caller's lesson progress, optionally
// filtered with ?course_id=.
func (pc *ProgressController) GetMyProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var courseID uint
	if raw := c.Query("course_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid course ID",
			})
		}
		courseID = uint(id)
	}

	rows, err := pc.Progress.ListByStudent(userID, courseID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"progress": rows,
	})
}

// GetLessonProgress lists every student's progress for one lesson
// (instructor view).
func (pc *ProgressController) GetLessonProgress(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lesson ID",
		})
	}

	rows, err := pc.Progress.ListByLesson(lessonID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"progress": rows,
	})
}

// GetDashboard aggregates the caller's enrollments and test activity.
func (pc *ProgressController) GetDashboard(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var enrollments []models.Enrollment
	pc.DB.Where("student_id = ?", userID).Find(&enrollments)

	var coursesCompleted int64
	pc.DB.Model(&models.Enrollment{}).
		Where("student_id = ? AND status = ?", userID, models.EnrollmentCompleted).
		Count(&coursesCompleted)

	var testsTaken int64
	pc.DB.Model(&models.TestAttempt{}).
		Where("student_id = ? AND completed_at IS NOT NULL", userID).
		Count(&testsTaken)

	var testsPassed int64
	pc.DB.Model(&models.TestAttempt{}).
		Where("student_id = ? AND is_passed = ?", userID, true).
		Count(&testsPassed)

	var lessonsCompleted int64
	pc.DB.Model(&models.LessonProgress{}).
		Where("student_id = ? AND is_completed = ?", userID, true).
		Count(&lessonsCompleted)

	return c.JSON(fiber.Map{
		"enrollments":       enrollments,
		"courses_completed": coursesCompleted,
		"lessons_completed": lessonsCompleted,
		"tests_taken":       testsTaken,
		"tests_passed":      testsPassed,
	})
}
