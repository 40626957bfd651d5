package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/appdotbuilder/online-learning-platform/backend/config"
	"github.com/appdotbuilder/online-learning-platform/backend/services"
	"github.com/appdotbuilder/online-learning-platform/backend/utils"
)

type AttemptsController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Attempts *services.AttemptService
}

func NewAttemptsController(db *gorm.DB, cfg *config.Config, attempts *services.AttemptService) *AttemptsController {
	return &AttemptsController{DB: db, Cfg: cfg, Attempts: attempts}
}

func (ac *AttemptsController) StartAttempt(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	testID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	attempt, err := ac.Attempts.Start(testID, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Attempt started",
		"attempt": attempt,
	})
}

func (ac *AttemptsController) SubmitAttempt(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	attemptID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attempt ID",
		})
	}

	type SubmitInput struct {
		Answers map[string]string `json:"answers"`
	}
	var input SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	existing, err := ac.Attempts.Get(attemptID)
	if err != nil {
		return serviceError(c, err)
	}
	if existing.StudentID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Attempt belongs to another student",
		})
	}

	attempt, err := ac.Attempts.Submit(attemptID, input.Answers)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Attempt submitted",
		"attempt": attempt,
	})
}

func (ac *AttemptsController) GetAttempt(c *fiber.Ctx) error {
	attemptID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attempt ID",
		})
	}

	attempt, err := ac.Attempts.Get(attemptID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"attempt": attempt,
	})
}

// ListMyAttempts returns the calling student's attempts for a test.
func (ac *AttemptsController) ListMyAttempts(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	testID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	attempts, err := ac.Attempts.ListByStudent(testID, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"attempts": attempts,
	})
}

// ListTestAttempts returns every attempt for a test (instructor view).
func (ac *AttemptsController) ListTestAttempts(c *fiber.Ctx) error {
	testID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	attempts, err := ac.Attempts.ListByTest(testID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"attempts": attempts,
	})
}
