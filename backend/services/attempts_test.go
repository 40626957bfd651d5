package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAttemptCreatesInProgressAttempt(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	student := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)
	test := createTest(t, db, course.ID, 3, 70)

	svc := NewAttemptService(db, testLogger())
	attempt, err := svc.Start(test.ID, student.ID)
	require.NoError(t, err)

	assert.Equal(t, test.ID, attempt.TestID)
	assert.Equal(t, student.ID, attempt.StudentID)
	assert.Equal(t, 1, attempt.AttemptNumber)
	assert.Nil(t, attempt.Score)
	assert.Nil(t, attempt.CompletedAt)
	assert.Nil(t, attempt.IsPassed)
	assert.False(t, attempt.StartedAt.IsZero())

	answers, err := attempt.AnswerMap()
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestStartAttemptUnknownTest(t *testing.T) {
	db := newTestDB(t)
	student := createUser(t, db, "student")

	svc := NewAttemptService(db, testLogger())
	_, err := svc.Start(999, student.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStartAttemptUnknownStudent(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	course := createCourse(t, db, instructor.ID)
	test := createTest(t, db, course.ID, 1, 70)

	svc := NewAttemptService(db, testLogger())
	_, err := svc.Start(test.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStartAttemptRejectsInstructor(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	course := createCourse(t, db, instructor.ID)
	test := createTest(t, db, course.ID, 1, 70)

	svc := NewAttemptService(db, testLogger())
	_, err := svc.Start(test.ID, instructor.ID)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestStartAttemptEnforcesLimit(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	student := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)
	test := createTest(t, db, course.ID, 1, 70)

	svc := NewAttemptService(db, testLogger())
	_, err := svc.Start(test.ID, student.ID)
	require.NoError(t, err)

	_, err = svc.Start(test.ID, student.ID)
	assert.ErrorIs(t, err, ErrAttemptLimit)
	assert.Contains(t, err.Error(), "1")
}

func TestStartAttemptCapHoldsAcrossSequence(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	student := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)
	test := createTest(t, db, course.ID, 3, 70)

	svc := NewAttemptService(db, testLogger())
	for i := 1; i <= 3; i++ {
		attempt, err := svc.Start(test.ID, student.ID)
		require.NoError(t, err)
		assert.Equal(t, i, attempt.AttemptNumber)
	}

	_, err := svc.Start(test.ID, student.ID)
	assert.ErrorIs(t, err, ErrAttemptLimit)

	attempts, err := svc.ListByStudent(test.ID, student.ID)
	require.NoError(t, err)
	assert.Len(t, attempts, 3)
}

func TestStartAttemptLimitIsPerStudent(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	alice := createUser(t, db, "student")
	bob := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)
	test := createTest(t, db, course.ID, 1, 70)

	svc := NewAttemptService(db, testLogger())
	_, err := svc.Start(test.ID, alice.ID)
	require.NoError(t, err)

	// Bob's first attempt must not be blocked by Alice's.
	_, err = svc.Start(test.ID, bob.ID)
	require.NoError(t, err)
}

func TestSubmitAttemptScoresAndPasses(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	student := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)
	test := createTest(t, db, course.ID, 3, 70)
	q1 := createQuestion(t, db, test.ID, "4", 10, 1)
	q2 := createQuestion(t, db, test.ID, "true", 10, 2)

	svc := NewAttemptService(db, testLogger())
	attempt, err := svc.Start(test.ID, student.ID)
	require.NoError(t, err)

	submitted, err := svc.Submit(attempt.ID, map[string]string{
		fmt.Sprint(q1.ID): "4",
		fmt.Sprint(q2.ID): "TRUE",
	})
	require.NoError(t, err)

	require.NotNil(t, submitted.Score)
	require.NotNil(t, submitted.IsPassed)
	require.NotNil(t, submitted.CompletedAt)
	assert.Equal(t, 100.0, *submitted.Score)
	assert.True(t, *submitted.IsPassed)
}

func TestSubmitAttemptFailingScore(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	student := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)
	test := createTest(t, db, course.ID, 3, 70)
	q1 := createQuestion(t, db, test.ID, "4", 10, 1)
	createQuestion(t, db, test.ID, "true", 10, 2)

	svc := NewAttemptService(db, testLogger())
	attempt, err := svc.Start(test.ID, student.ID)
	require.NoError(t, err)

	submitted, err := svc.Submit(attempt.ID, map[string]string{
		fmt.Sprint(q1.ID): "4",
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, *submitted.Score)
	assert.False(t, *submitted.IsPassed)
}

func TestSubmitAttemptIsSingleShot(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	student := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)
	test := createTest(t, db, course.ID, 3, 70)
	q1 := createQuestion(t, db, test.ID, "4", 10, 1)

	svc := NewAttemptService(db, testLogger())
	attempt, err := svc.Start(test.ID, student.ID)
	require.NoError(t, err)

	first, err := svc.Submit(attempt.ID, map[string]string{fmt.Sprint(q1.ID): "4"})
	require.NoError(t, err)

	_, err = svc.Submit(attempt.ID, map[string]string{fmt.Sprint(q1.ID): "wrong"})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	// The stored attempt still reflects the first submission only.
	stored, err := svc.Get(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, *first.Score, *stored.Score)
	answers, err := stored.AnswerMap()
	require.NoError(t, err)
	assert.Equal(t, "4", answers[fmt.Sprint(q1.ID)])
}

func TestSubmitAttemptOverwritesAnswers(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	student := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)
	test := createTest(t, db, course.ID, 3, 70)
	q1 := createQuestion(t, db, test.ID, "4", 10, 1)
	q2 := createQuestion(t, db, test.ID, "true", 10, 2)

	svc := NewAttemptService(db, testLogger())
	attempt, err := svc.Start(test.ID, student.ID)
	require.NoError(t, err)

	submitted, err := svc.Submit(attempt.ID, map[string]string{fmt.Sprint(q2.ID): "true"})
	require.NoError(t, err)

	answers, err := submitted.AnswerMap()
	require.NoError(t, err)
	assert.Len(t, answers, 1)
	_, hasQ1 := answers[fmt.Sprint(q1.ID)]
	assert.False(t, hasQ1)
}

func TestSubmitAttemptUnknownAttempt(t *testing.T) {
	db := newTestDB(t)

	svc := NewAttemptService(db, testLogger())
	_, err := svc.Submit(12345, map[string]string{"1": "a"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitAttemptEmptyTest(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	student := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)
	test := createTest(t, db, course.ID, 3, 70)

	svc := NewAttemptService(db, testLogger())
	attempt, err := svc.Start(test.ID, student.ID)
	require.NoError(t, err)

	_, err = svc.Submit(attempt.ID, map[string]string{})
	assert.ErrorIs(t, err, ErrEmptyTest)

	// The attempt stays in progress after the failed submission.
	stored, err := svc.Get(attempt.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CompletedAt)
}

func TestSubmitAttemptNilAnswers(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	student := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)
	test := createTest(t, db, course.ID, 3, 70)
	createQuestion(t, db, test.ID, "4", 10, 1)

	svc := NewAttemptService(db, testLogger())
	attempt, err := svc.Start(test.ID, student.ID)
	require.NoError(t, err)

	submitted, err := svc.Submit(attempt.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, *submitted.Score)
	assert.False(t, *submitted.IsPassed)
}

func TestListByTestReturnsAllStudents(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	alice := createUser(t, db, "student")
	bob := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)
	test := createTest(t, db, course.ID, 2, 70)

	svc := NewAttemptService(db, testLogger())
	_, err := svc.Start(test.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.Start(test.ID, bob.ID)
	require.NoError(t, err)

	attempts, err := svc.ListByTest(test.ID)
	require.NoError(t, err)
	assert.Len(t, attempts, 2)
}
