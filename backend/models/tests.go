package models

import (
	"encoding/json"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Test struct {
	gorm.Model
	CourseID         uint   `gorm:"not null;index"`
	Title            string `gorm:"not null"`
	Description      string
	MaxAttempts      int     `gorm:"not null;default:1"`
	PassingScore     float64 `gorm:"not null;default:60"` // 0-100
	TimeLimitMinutes int     // 0 means no limit
	Questions        []Question
}

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
)

type Question struct {
	gorm.Model
	TestID        uint   `gorm:"not null;index"`
	Type          string `gorm:"not null"` // multiple_choice, true_false, short_answer
	Prompt        string `gorm:"not null"`
	Options       datatypes.JSON // JSON array of option strings, empty for short answer
	CorrectAnswer string `gorm:"not null" json:"-"`
	Points        int    `gorm:"not null;default:1"`
	OrderIndex    int
}

// OptionList decodes the stored options payload. A question without
// options (short answer) yields an empty slice.
func (q *Question) OptionList() ([]string, error) {
	if len(q.Options) == 0 {
		return nil, nil
	}
	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil, err
	}
	return options, nil
}

// AnswerKey is the string key under which a submitted answer for this
// question is expected in an attempt's answer map.
func (q *Question) AnswerKey() string {
	return strconv.FormatUint(uint64(q.ID), 10)
}

// TestAttempt is one instance of a student taking a test. Score,
// IsPassed and CompletedAt are all nil while the attempt is in
// progress and are set together, exactly once, on submission.
type TestAttempt struct {
	gorm.Model
	TestID        uint `gorm:"not null;uniqueIndex:idx_attempts_test_student_number"`
	StudentID     uint `gorm:"not null;uniqueIndex:idx_attempts_test_student_number"`
	AttemptNumber int  `gorm:"not null;uniqueIndex:idx_attempts_test_student_number"`
	Score         *float64
	Answers       datatypes.JSON // map of question id (string) -> submitted answer
	StartedAt     time.Time
	CompletedAt   *time.Time
	IsPassed      *bool
}

// Completed reports whether the attempt has reached its terminal state.
func (a *TestAttempt) Completed() bool {
	return a.CompletedAt != nil
}

// AnswerMap decodes the stored answers payload.
func (a *TestAttempt) AnswerMap() (map[string]string, error) {
	answers := map[string]string{}
	if len(a.Answers) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(a.Answers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
