package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/appdotbuilder/online-learning-platform/backend/config"
	"github.com/appdotbuilder/online-learning-platform/backend/models"
	"github.com/appdotbuilder/online-learning-platform/backend/utils"
)

type ConsultationsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewConsultationsController(db *gorm.DB, cfg *config.Config) *ConsultationsController {
	return &ConsultationsController{DB: db, Cfg: cfg}
}

type SlotInput struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	DurationMin int       `json:"duration_min" validate:"min=0"`
	Notes       string    `json:"notes"`
}

func (cc *ConsultationsController) CreateSlot(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var input SlotInput
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

	slot := models.ConsultationSlot{
		InstructorID: userID,
		ScheduledAt:  input.ScheduledAt,
		DurationMin:  input.DurationMin,
		Status:       models.SlotOpen,
		Notes:        input.Notes,
	}
	if slot.DurationMin == 0 {
		slot.DurationMin = 30
	}
	if err := cc.DB.Create(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create slot",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Slot created",
		"slot":    slot,
	})
}

func (cc *ConsultationsController) ListOpenSlots(c *fiber.Ctx) error {
	query := cc.DB.Where("status = ?", models.SlotOpen)
	if raw := c.Query("instructor_id"); raw != "" {
		query = query.Where("instructor_id = ?", raw)
	}

	var slots []models.ConsultationSlot
	if err := query.Order("scheduled_at").Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"slots": slots,
	})
}

// BookSlot claims an open slot for the calling student. The claim is
// a conditional update so two students cannot book the same slot.
func (cc *ConsultationsController) BookSlot(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	slotID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid slot ID",
		})
	}

	var slot models.ConsultationSlot
	if err := cc.DB.First(&slot, slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Slot not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	res := cc.DB.Model(&models.ConsultationSlot{}).
		Where("id = ? AND status = ?", slotID, models.SlotOpen).
		Updates(map[string]interface{}{
			"status":     models.SlotBooked,
			"student_id": userID,
		})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not book slot",
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Slot is no longer available",
		})
	}

	cc.DB.First(&slot, slotID)
	return c.JSON(fiber.Map{
		"message": "Slot booked",
		"slot":    slot,
	})
}

func (cc *ConsultationsController) CancelSlot(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	slotID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid slot ID",
		})
	}

	var slot models.ConsultationSlot
	if err := cc.DB.First(&slot, slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Slot not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	booker := slot.StudentID != nil && *slot.StudentID == userID
	if slot.InstructorID != userID && !booker {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You cannot cancel this slot",
		})
	}

	slot.Status = models.SlotCancelled
	if err := cc.DB.Save(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel slot",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Slot cancelled",
		"slot":    slot,
	})
}
