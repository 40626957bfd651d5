package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/online-learning-platform/backend/models"
)

func TestEnrollCreatesActiveEnrollment(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	student := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)

	svc := NewEnrollmentService(db, testLogger())
	enrollment, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	assert.Equal(t, models.EnrollmentActive, enrollment.Status)
	assert.Equal(t, 0.0, enrollment.ProgressPercentage)
	assert.False(t, enrollment.EnrolledAt.IsZero())
	assert.Nil(t, enrollment.CompletedAt)
}

func TestEnrollRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	student := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)

	svc := NewEnrollmentService(db, testLogger())
	_, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(student.ID, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollRejectsInstructor(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	course := createCourse(t, db, instructor.ID)

	svc := NewEnrollmentService(db, testLogger())
	_, err := svc.Enroll(instructor.ID, course.ID)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestEnrollUnknownCourse(t *testing.T) {
	db := newTestDB(t)
	student := createUser(t, db, "student")

	svc := NewEnrollmentService(db, testLogger())
	_, err := svc.Enroll(student.ID, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDropMarksEnrollmentDropped(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "instructor")
	student := createUser(t, db, "student")
	course := createCourse(t, db, instructor.ID)
	enroll(t, db, student.ID, course.ID)

	svc := NewEnrollmentService(db, testLogger())
	enrollment, err := svc.Drop(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentDropped, enrollment.Status)
}

func TestDropUnknownEnrollment(t *testing.T) {
	db := newTestDB(t)
	student := createUser(t, db, "student")

	svc := NewEnrollmentService(db, testLogger())
	_, err := svc.Drop(student.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
