package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/appdotbuilder/online-learning-platform/backend/models"
)

// EnrollmentService creates and manages enrollments. Once a row
// exists its progress fields belong to the progress cascade.
type EnrollmentService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewEnrollmentService(db *gorm.DB, log *zap.Logger) *EnrollmentService {
	return &EnrollmentService{DB: db, Log: log}
}

// Enroll registers a student in a course with zero progress.
func (s *EnrollmentService) Enroll(studentID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("course %d: %w", courseID, ErrNotFound)
			}
			return err
		}

		var student models.User
		if err := tx.First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", studentID, ErrNotFound)
			}
			return err
		}
		if student.Role != models.RoleStudent {
			return fmt.Errorf("user %d: %w", studentID, ErrInvalidRole)
		}

		var existing int64
		if err := tx.Model(&models.Enrollment{}).
			Where("student_id = ? AND course_id = ?", studentID, courseID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("student %d in course %d: %w", studentID, courseID, ErrAlreadyEnrolled)
		}

		enrollment = models.Enrollment{
			StudentID:  studentID,
			CourseID:   courseID,
			Status:     models.EnrollmentActive,
			EnrolledAt: time.Now().UTC(),
		}
		return tx.Create(&enrollment).Error
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("student enrolled",
		zap.Uint("student_id", studentID),
		zap.Uint("course_id", courseID))
	return &enrollment, nil
}

// Drop marks the enrollment dropped. Progress already recorded is
// kept; the cascade will not reactivate a dropped enrollment.
func (s *EnrollmentService) Drop(studentID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := s.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("enrollment for student %d in course %d: %w", studentID, courseID, ErrNotFound)
		}
		return nil, err
	}

	enrollment.Status = models.EnrollmentDropped
	if err := s.DB.Save(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListForStudent returns all of a student's enrollments.
func (s *EnrollmentService) ListForStudent(studentID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.DB.Where("student_id = ?", studentID).Order("enrolled_at").Find(&enrollments).Error
	return enrollments, err
}
