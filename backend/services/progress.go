package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/appdotbuilder/online-learning-platform/backend/models"
)

// ProgressService upserts lesson completions and cascades them into
// the owning enrollment's aggregate progress and status.
type ProgressService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewProgressService(db *gorm.DB, log *zap.Logger) *ProgressService {
	return &ProgressService{DB: db, Log: log}
}

// CompleteLesson marks a lesson completed for a student and recomputes
// the enrollment aggregate for the lesson's course. Completing an
// already-completed lesson refreshes CompletedAt without creating a
// second row and never regresses the percentage.
//
// The upsert, the recomputation and the enrollment write share one
// transaction per (student, course) so concurrent completions cannot
// lose an aggregate update.
func (s *ProgressService) CompleteLesson(studentID, lessonID uint) (*models.LessonProgress, error) {
	var progress models.LessonProgress

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.First(&lesson, lessonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("lesson %d: %w", lessonID, ErrNotFound)
			}
			return err
		}

		var enrollment models.Enrollment
		if err := tx.Where("student_id = ? AND course_id = ?", studentID, lesson.CourseID).
			First(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("enrollment for student %d in course %d: %w", studentID, lesson.CourseID, ErrNotFound)
			}
			return err
		}

		now := time.Now().UTC()
		err := tx.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
			First(&progress).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			progress = models.LessonProgress{
				StudentID:   studentID,
				LessonID:    lessonID,
				IsCompleted: true,
				CompletedAt: &now,
			}
			if err := tx.Create(&progress).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			progress.IsCompleted = true
			progress.CompletedAt = &now
			if err := tx.Save(&progress).Error; err != nil {
				return err
			}
		}

		pct, err := coursePercentage(tx, studentID, lesson.CourseID)
		if err != nil {
			return err
		}

		enrollment.ProgressPercentage = pct
		// Only an active enrollment transitions to completed; a
		// dropped one keeps its status and just records the
		// percentage.
		if pct == 100 && enrollment.Status == models.EnrollmentActive {
			enrollment.Status = models.EnrollmentCompleted
			enrollment.CompletedAt = &now
		}
		return tx.Save(&enrollment).Error
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("lesson completed",
		zap.Uint("student_id", studentID),
		zap.Uint("lesson_id", lessonID))
	return &progress, nil
}

// coursePercentage recomputes the aggregate from the underlying rows:
// completed lessons of the course over total lessons, times 100. A
// course without lessons reports 0.
func coursePercentage(tx *gorm.DB, studentID, courseID uint) (float64, error) {
	var total int64
	if err := tx.Model(&models.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	var completed int64
	if err := tx.Model(&models.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Where("lesson_progresses.student_id = ? AND lesson_progresses.is_completed = ? AND lessons.course_id = ?",
			studentID, true, courseID).
		Count(&completed).Error; err != nil {
		return 0, err
	}

	return float64(completed) / float64(total) * 100, nil
}

// ListByStudent returns a student's lesson progress, optionally
// restricted to one course (courseID 0 means all courses).
func (s *ProgressService) ListByStudent(studentID, courseID uint) ([]models.LessonProgress, error) {
	query := s.DB.Where("lesson_progresses.student_id = ?", studentID)
	if courseID != 0 {
		query = query.
			Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
			Where("lessons.course_id = ?", courseID)
	}

	var rows []models.LessonProgress
	err := query.Order("lesson_progresses.lesson_id").Find(&rows).Error
	return rows, err
}

// ListByLesson returns every student's progress row for one lesson.
func (s *ProgressService) ListByLesson(lessonID uint) ([]models.LessonProgress, error) {
	var rows []models.LessonProgress
	err := s.DB.Where("lesson_id = ?", lessonID).Order("student_id").Find(&rows).Error
	return rows, err
}
