package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/appdotbuilder/online-learning-platform/backend/models"
)

// AttemptService owns the test-attempt lifecycle: it gatekeeps
// attempt creation against the per-test attempt limit and drives the
// single in_progress -> completed transition on submission.
type AttemptService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewAttemptService(db *gorm.DB, log *zap.Logger) *AttemptService {
	return &AttemptService{DB: db, Log: log}
}

// Start creates a new in-progress attempt for (testID, studentID).
//
// The count and the insert run in one transaction, and the unique
// (test_id, student_id, attempt_number) index rejects the duplicate
// row if two calls race past the count, so the attempt cap holds
// under concurrent starts.
func (s *AttemptService) Start(testID, studentID uint) (*models.TestAttempt, error) {
	var attempt models.TestAttempt

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var test models.Test
		if err := tx.First(&test, testID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("test %d: %w", testID, ErrNotFound)
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

		var used int64
		if err := tx.Model(&models.TestAttempt{}).
			Where("test_id = ? AND student_id = ?", testID, studentID).
			Count(&used).Error; err != nil {
			return err
		}
		if used >= int64(test.MaxAttempts) {
			return fmt.Errorf("test %d allows %d attempt(s): %w", testID, test.MaxAttempts, ErrAttemptLimit)
		}

		attempt = models.TestAttempt{
			TestID:        testID,
			StudentID:     studentID,
			AttemptNumber: int(used) + 1,
			Answers:       datatypes.JSON([]byte("{}")),
			StartedAt:     time.Now().UTC(),
		}
		return tx.Create(&attempt).Error
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("attempt started",
		zap.Uint("attempt_id", attempt.ID),
		zap.Uint("test_id", testID),
		zap.Uint("student_id", studentID),
		zap.Int("attempt_number", attempt.AttemptNumber))
	return &attempt, nil
}

// Submit grades the submitted answers and moves the attempt to its
// terminal state. The stored answer map is overwritten with exactly
// what was submitted, never merged with earlier partial answers.
//
// The terminal write is a single conditional UPDATE guarded on
// completed_at IS NULL, so two racing submissions cannot both pass
// the not-yet-completed check.
func (s *AttemptService) Submit(attemptID uint, answers map[string]string) (*models.TestAttempt, error) {
	var attempt models.TestAttempt

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&attempt, attemptID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("attempt %d: %w", attemptID, ErrNotFound)
			}
			return err
		}
		if attempt.Completed() {
			return fmt.Errorf("attempt %d: %w", attemptID, ErrAlreadySubmitted)
		}

		var test models.Test
		if err := tx.First(&test, attempt.TestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("test %d: %w", attempt.TestID, ErrNotFound)
			}
			return err
		}

		questions, err := questionsForTest(tx, test.ID)
		if err != nil {
			return err
		}

		result, err := Grade(questions, answers)
		if err != nil {
			return fmt.Errorf("test %d: %w", test.ID, err)
		}

		if answers == nil {
			answers = map[string]string{}
		}
		payload, err := json.Marshal(answers)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		passed := result.Score >= test.PassingScore

		res := tx.Model(&models.TestAttempt{}).
			Where("id = ? AND completed_at IS NULL", attempt.ID).
			Updates(map[string]interface{}{
				"score":        result.Score,
				"answers":      datatypes.JSON(payload),
				"completed_at": now,
				"is_passed":    passed,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("attempt %d: %w", attempt.ID, ErrAlreadySubmitted)
		}

		attempt.Score = &result.Score
		attempt.Answers = datatypes.JSON(payload)
		attempt.CompletedAt = &now
		attempt.IsPassed = &passed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("attempt submitted",
		zap.Uint("attempt_id", attempt.ID),
		zap.Uint("test_id", attempt.TestID),
		zap.Float64("score", *attempt.Score),
		zap.Bool("passed", *attempt.IsPassed))
	return &attempt, nil
}

// Get returns one attempt by id.
func (s *AttemptService) Get(attemptID uint) (*models.TestAttempt, error) {
	var attempt models.TestAttempt
	if err := s.DB.First(&attempt, attemptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("attempt %d: %w", attemptID, ErrNotFound)
		}
		return nil, err
	}
	return &attempt, nil
}

// ListByStudent returns a student's attempts for one test, oldest first.
func (s *AttemptService) ListByStudent(testID, studentID uint) ([]models.TestAttempt, error) {
	var attempts []models.TestAttempt
	err := s.DB.Where("test_id = ? AND student_id = ?", testID, studentID).
		Order("attempt_number").
		Find(&attempts).Error
	return attempts, err
}

// ListByTest returns every attempt for one test, newest first.
func (s *AttemptService) ListByTest(testID uint) ([]models.TestAttempt, error) {
	var attempts []models.TestAttempt
	err := s.DB.Where("test_id = ?", testID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// questionsForTest is the read-only question bank: the test's
// question set in authored order.
func questionsForTest(tx *gorm.DB, testID uint) ([]models.Question, error) {
	var questions []models.Question
	err := tx.Where("test_id = ?", testID).
		Order("order_index").
		Find(&questions).Error
	return questions, err
}
