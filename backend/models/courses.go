package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	gorm.Model
	Title        string `gorm:"not null"`
	ShortDesc    string
	Description  string
	Difficulty   string // beginner, intermediate, advanced
	Topic        string
	University   string
	InstructorID uint `gorm:"not null;index"`
	LogoURL      string
	Lessons      []Lesson
	Tests        []Test
	Resources    []Resource
}

type Lesson struct {
	gorm.Model
	CourseID   uint `gorm:"not null;index"`
	Title      string
	Content    string
	OrderIndex int
}

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentDropped   = "dropped"
)

// Enrollment records a student's registration in a course. Its
// ProgressPercentage and Status are owned by the progress cascade
// after creation.
type Enrollment struct {
	gorm.Model
	StudentID          uint   `gorm:"not null;uniqueIndex:idx_enrollments_student_course"`
	CourseID           uint   `gorm:"not null;uniqueIndex:idx_enrollments_student_course"`
	Status             string `gorm:"default:active"` // active, completed, dropped
	ProgressPercentage float64
	EnrolledAt         time.Time
	CompletedAt        *time.Time
}

// LessonProgress holds at most one row per (student, lesson) pair.
type LessonProgress struct {
	gorm.Model
	StudentID   uint `gorm:"not null;uniqueIndex:idx_lesson_progress_student_lesson"`
	LessonID    uint `gorm:"not null;uniqueIndex:idx_lesson_progress_student_lesson"`
	IsCompleted bool
	CompletedAt *time.Time
}
