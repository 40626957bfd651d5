package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/appdotbuilder/online-learning-platform/backend/config"
	"github.com/appdotbuilder/online-learning-platform/backend/models"
	"github.com/appdotbuilder/online-learning-platform/backend/utils"
)

type ResourcesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewResourcesController(db *gorm.DB, cfg *config.Config) *ResourcesController {
	return &ResourcesController{DB: db, Cfg: cfg}
}

type ResourceInput struct {
	Title string `json:"title" validate:"required"`
	Kind  string `json:"kind" validate:"omitempty,oneof=pdf video link"`
	URL   string `json:"url" validate:"required,url"`
}

func (rc *ResourcesController) AddResource(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var input ResourceInput
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
	if err := rc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	resource := models.Resource{
		CourseID: courseID,
		Title:    input.Title,
		Kind:     input.Kind,
		URL:      input.URL,
	}
	if err := rc.DB.Create(&resource).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create resource",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Resource added",
		"resource": resource,
	})
}

func (rc *ResourcesController) ListByCourse(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var resources []models.Resource
	if err := rc.DB.Where("course_id = ?", courseID).Order("created_at").Find(&resources).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"resources": resources,
	})
}
