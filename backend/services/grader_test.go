package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/online-learning-platform/backend/models"
)

func question(id uint, answer string, points int) models.Question {
	q := models.Question{CorrectAnswer: answer, Points: points}
	q.ID = id
	return q
}

func TestGradeAllCorrect(t *testing.T) {
	questions := []models.Question{
		question(1, "4", 10),
		question(2, "true", 10),
	}

	result, err := Grade(questions, map[string]string{"1": "4", "2": "true"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, 2, result.CorrectCount)
	assert.Equal(t, 20, result.EarnedPoints)
	assert.Equal(t, 20, result.TotalPoints)
}

func TestGradeHalfCorrect(t *testing.T) {
	questions := []models.Question{
		question(1, "4", 10),
		question(2, "true", 10),
	}

	result, err := Grade(questions, map[string]string{"1": "4", "2": "false"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Score)
	assert.Equal(t, 1, result.CorrectCount)
}

func TestGradeNormalizesCaseAndWhitespace(t *testing.T) {
	questions := []models.Question{
		question(1, "4", 1),
		question(2, "true", 1),
	}

	result, err := Grade(questions, map[string]string{"1": "  4  ", "2": "TRUE"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)
}

func TestGradeMissingAnswerIsIncorrect(t *testing.T) {
	questions := []models.Question{
		question(1, "a", 5),
		question(2, "b", 5),
	}

	result, err := Grade(questions, map[string]string{"1": "a"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Score)
	assert.Equal(t, 1, result.CorrectCount)
}

func TestGradeIgnoresUnknownKeys(t *testing.T) {
	questions := []models.Question{
		question(1, "a", 5),
	}

	result, err := Grade(questions, map[string]string{"1": "a", "99": "a", "junk": "a"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, 1, result.CorrectCount)
}

func TestGradeWeightsByPoints(t *testing.T) {
	questions := []models.Question{
		question(1, "a", 3),
		question(2, "b", 1),
	}

	result, err := Grade(questions, map[string]string{"1": "a"})
	require.NoError(t, err)
	assert.Equal(t, 75.0, result.Score)
}

func TestGradeEmptyTest(t *testing.T) {
	_, err := Grade(nil, map[string]string{"1": "a"})
	assert.ErrorIs(t, err, ErrEmptyTest)
}

func TestGradeIsDeterministic(t *testing.T) {
	questions := []models.Question{
		question(1, "a", 2),
		question(2, "b", 3),
		question(3, "c", 5),
	}
	answers := map[string]string{"1": "a", "3": "C"}

	first, err := Grade(questions, answers)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Grade(questions, answers)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
