package controllers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/appdotbuilder/online-learning-platform/backend/config"
	"github.com/appdotbuilder/online-learning-platform/backend/models"
	"github.com/appdotbuilder/online-learning-platform/backend/utils"
)

type TestsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewTestsController(db *gorm.DB, cfg *config.Config) *TestsController {
	return &TestsController{DB: db, Cfg: cfg}
}

type TestInput struct {
	CourseID         uint    `json:"course_id" validate:"required"`
	Title            string  `json:"title" validate:"required"`
	Description      string  `json:"description"`
	MaxAttempts      int     `json:"max_attempts" validate:"required,min=1"`
	PassingScore     float64 `json:"passing_score" validate:"min=0,max=100"`
	TimeLimitMinutes int     `json:"time_limit_minutes" validate:"min=0"`
}

func (tc *TestsController) CreateTest(c *fiber.Ctx) error {
	var input TestInput
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
	if err := tc.DB.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	test := models.Test{
		CourseID:         input.CourseID,
		Title:            input.Title,
		Description:      input.Description,
		MaxAttempts:      input.MaxAttempts,
		PassingScore:     input.PassingScore,
		TimeLimitMinutes: input.TimeLimitMinutes,
	}
	if err := tc.DB.Create(&test).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create test",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Test created",
		"test":    test,
	})
}

type QuestionInput struct {
	Type          string   `json:"type" validate:"required,oneof=multiple_choice true_false short_answer"`
	Prompt        string   `json:"prompt" validate:"required"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Points        int      `json:"points" validate:"required,min=1"`
	OrderIndex    int      `json:"order_index"`
}

func (tc *TestsController) AddQuestion(c *fiber.Ctx) error {
	testID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var input QuestionInput
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

	if input.Type == models.QuestionMultipleChoice && len(input.Options) < 2 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Multiple choice questions need at least two options",
		})
	}

	var test models.Test
	if err := tc.DB.First(&test, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var optionsJSON datatypes.JSON
	if len(input.Options) > 0 {
		raw, err := json.Marshal(input.Options)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not encode options",
			})
		}
		optionsJSON = datatypes.JSON(raw)
	}

	orderIndex := input.OrderIndex
	if orderIndex == 0 {
		var count int64
		tc.DB.Model(&models.Question{}).Where("test_id = ?", testID).Count(&count)
		orderIndex = int(count) + 1
	}

	question := models.Question{
		TestID:        testID,
		Type:          input.Type,
		Prompt:        input.Prompt,
		Options:       optionsJSON,
		CorrectAnswer: input.CorrectAnswer,
		Points:        input.Points,
		OrderIndex:    orderIndex,
	}
	if err := tc.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create question",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Question added",
		"question": question,
	})
}

// GetTestDetails returns the test with its questions. Correct answers
// are never serialized here; students only see prompts and options.
func (tc *TestsController) GetTestDetails(c *fiber.Ctx) error {
	testID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.Test
	if err := tc.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_index")
	}).First(&test, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	questions := []fiber.Map{}
	for _, q := range test.Questions {
		options, _ := q.OptionList()
		questions = append(questions, fiber.Map{
			"id":      q.ID,
			"type":    q.Type,
			"prompt":  q.Prompt,
			"options": options,
			"points":  q.Points,
			"order":   q.OrderIndex,
		})
	}

	return c.JSON(fiber.Map{
		"test": fiber.Map{
			"id":                 test.ID,
			"course_id":          test.CourseID,
			"title":              test.Title,
			"description":        test.Description,
			"max_attempts":       test.MaxAttempts,
			"passing_score":      test.PassingScore,
			"time_limit_minutes": test.TimeLimitMinutes,
			"questions":          questions,
		},
	})
}
