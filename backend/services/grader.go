package services

import (
	"strings"

	"github.com/appdotbuilder/online-learning-platform/backend/models"
)

// GradeResult is the outcome of scoring one answer map against a
// test's question set. Score is in [0, 100]; the passing threshold is
// applied by the caller, not here.
type GradeResult struct {
	Score         float64
	EarnedPoints  int
	TotalPoints   int
	CorrectCount  int
	QuestionCount int
}

// Grade scores submitted answers against a test's question set. It is
// a pure function: no persistence, no clock, no randomness.
//
// Answers are keyed by question id rendered as a string. A question
// with no entry in the map is counted as incorrect; keys that match
// no question are ignored. Comparison trims surrounding whitespace
// and is case-insensitive, with no partial credit.
func Grade(questions []models.Question, answers map[string]string) (GradeResult, error) {
	if len(questions) == 0 {
		return GradeResult{}, ErrEmptyTest
	}

	result := GradeResult{QuestionCount: len(questions)}
	for _, q := range questions {
		result.TotalPoints += q.Points
		submitted, ok := answers[q.AnswerKey()]
		if !ok {
			continue
		}
		if answersMatch(submitted, q.CorrectAnswer) {
			result.EarnedPoints += q.Points
			result.CorrectCount++
		}
	}

	if result.TotalPoints > 0 {
		result.Score = float64(result.EarnedPoints) / float64(result.TotalPoints) * 100
	}
	return result, nil
}

func answersMatch(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}
