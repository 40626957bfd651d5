package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/appdotbuilder/online-learning-platform/backend/config"
	"github.com/appdotbuilder/online-learning-platform/backend/models"
	"github.com/appdotbuilder/online-learning-platform/backend/services"
	"github.com/appdotbuilder/online-learning-platform/backend/utils"
)

type CoursesController struct {
	DB          *gorm.DB
	Cfg         *config.Config
	Enrollments *services.EnrollmentService
}

func NewCoursesController(db *gorm.DB, cfg *config.Config, enrollments *services.EnrollmentService) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg, Enrollments: enrollments}
}

func (cc *CoursesController) GetUserCourses(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	enrollments, err := cc.Enrollments.ListForStudent(userID)
	if err != nil {
		return serviceError(c, err)
	}

	result := []fiber.Map{}
	for _, enrollment := range enrollments {
		var course models.Course
		if err := cc.DB.Preload("Lessons").First(&course, enrollment.CourseID).Error; err != nil {
			continue
		}

		result = append(result, fiber.Map{
			"id":           course.ID,
			"title":        course.Title,
			"progress":     enrollment.ProgressPercentage,
			"status":       enrollment.Status,
			"lessons":      len(course.Lessons),
			"enrolled_at":  enrollment.EnrolledAt,
			"completed_at": enrollment.CompletedAt,
		})
	}

	return c.JSON(result)
}

func (cc *CoursesController) GetAvailableCourses(c *fiber.Ctx) error {
	topic := c.Query("topic")
	university := c.Query("university")
	difficulty := c.Query("difficulty")

	query := cc.DB.Model(&models.Course{})
	if topic != "" {
		query = query.Where("topic LIKE ?", "%"+topic+"%")
	}
	if university != "" {
		query = query.Where("university LIKE ?", "%"+university+"%")
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var courses []models.Course
	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := []fiber.Map{}
	for _, course := range courses {
		result = append(result, fiber.Map{
			"id":          course.ID,
			"title":       course.Title,
			"description": course.ShortDesc,
			"difficulty":  course.Difficulty,
			"university":  course.University,
			"topic":       course.Topic,
			"instructor":  course.InstructorID,
			"logo_url":    course.LogoURL,
		})
	}

	return c.JSON(result)
}

func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	if err := cc.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.order_index")
	}).Preload("Tests").Preload("Resources").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var enrollment models.Enrollment
	cc.DB.Where("student_id = ? AND course_id = ?", userID, courseID).First(&enrollment)

	return c.JSON(fiber.Map{
		"course": fiber.Map{
			"id":          course.ID,
			"title":       course.Title,
			"description": course.Description,
			"short_desc":  course.ShortDesc,
			"difficulty":  course.Difficulty,
			"university":  course.University,
			"topic":       course.Topic,
			"logo_url":    course.LogoURL,
			"instructor":  course.InstructorID,
			"lessons":     course.Lessons,
			"tests":       course.Tests,
			"resources":   course.Resources,
		},
		"enrollment": enrollment,
	})
}

func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	enrollment, err := cc.Enrollments.Enroll(userID, courseID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":    "Enrolled",
		"enrollment": enrollment,
	})
}

func (cc *CoursesController) DropEnrollment(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	enrollment, err := cc.Enrollments.Drop(userID, courseID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":    "Enrollment dropped",
		"enrollment": enrollment,
	})
}

type CourseInput struct {
	Title       string `json:"title" validate:"required"`
	ShortDesc   string `json:"short_desc"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Topic       string `json:"topic"`
	University  string `json:"university"`
	LogoURL     string `json:"logo_url"`
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if fields := utils.ValidateStruct(input); fields != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	}

	course := models.Course{
		Title:        input.Title,
		ShortDesc:    input.ShortDesc,
		Description:  input.Description,
		Difficulty:   input.Difficulty,
		Topic:        input.Topic,
		University:   input.University,
		LogoURL:      input.LogoURL,
		InstructorID: userID,
	}
	if err := cc.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course created",
		"course":  course,
	})
}

type LessonInput struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content"`
	OrderIndex int    `json:"order_index"`
}

func (cc *CoursesController) AddLesson(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var input LessonInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if fields := utils.ValidateStruct(input); fields != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	orderIndex := input.OrderIndex
	if orderIndex == 0 {
		var count int64
		cc.DB.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&count)
		orderIndex = int(count) + 1
	}

	lesson := models.Lesson{
		CourseID:   courseID,
		Title:      input.Title,
		Content:    input.Content,
		OrderIndex: orderIndex,
	}
	if err := cc.DB.Create(&lesson).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create lesson",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lesson added",
		"lesson":  lesson,
	})
}

func (cc *CoursesController) UpdateLesson(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	lessonID, err := paramID(c, "lessonId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lesson ID",
		})
	}

	var input LessonInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var lesson models.Lesson
	if err := cc.DB.Where("id = ? AND course_id = ?", lessonID, courseID).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lesson not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Title != "" {
		lesson.Title = input.Title
	}
	if input.Content != "" {
		lesson.Content = input.Content
	}
	if input.OrderIndex != 0 {
		lesson.OrderIndex = input.OrderIndex
	}

	if err := cc.DB.Save(&lesson).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update lesson",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lesson updated",
		"lesson":  lesson,
	})
}
