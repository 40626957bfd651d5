package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SlotOpen      = "open"
	SlotBooked    = "booked"
	SlotCancelled = "cancelled"
)

// ConsultationSlot is a bookable time window offered by an instructor.
// StudentID stays nil until a student books the slot.
type ConsultationSlot struct {
	gorm.Model
	InstructorID uint `gorm:"not null;index"`
	StudentID    *uint
	ScheduledAt  time.Time `gorm:"not null"`
	DurationMin  int       `gorm:"not null;default:30"`
	Status       string    `gorm:"default:open"` // open, booked, cancelled
	Notes        string
}

type Resource struct {
	gorm.Model
	CourseID uint   `gorm:"not null;index"`
	Title    string `gorm:"not null"`
	Kind     string // pdf, video, link
	URL      string `gorm:"not null"`
}
