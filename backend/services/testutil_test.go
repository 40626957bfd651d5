package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/appdotbuilder/online-learning-platform/backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would see a fresh in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.Enrollment{},
		&models.LessonProgress{},
		&models.Test{},
		&models.Question{},
		&models.TestAttempt{},
	))
	return db
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	userSeq++
	user := models.User{
		Username:     fmt.Sprintf("user%d", userSeq),
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createCourse(t *testing.T, db *gorm.DB, instructorID uint) models.Course {
	t.Helper()
	course := models.Course{Title: "Course", InstructorID: instructorID}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func createLesson(t *testing.T, db *gorm.DB, courseID uint, order int) models.Lesson {
	t.Helper()
	lesson := models.Lesson{CourseID: courseID, Title: fmt.Sprintf("Lesson %d", order), OrderIndex: order}
	require.NoError(t, db.Create(&lesson).Error)
	return lesson
}

func createTest(t *testing.T, db *gorm.DB, courseID uint, maxAttempts int, passingScore float64) models.Test {
	t.Helper()
	test := models.Test{
		CourseID:     courseID,
		Title:        "Test",
		MaxAttempts:  maxAttempts,
		PassingScore: passingScore,
	}
	require.NoError(t, db.Create(&test).Error)
	return test
}

func createQuestion(t *testing.T, db *gorm.DB, testID uint, answer string, points, order int) models.Question {
	t.Helper()
	question := models.Question{
		TestID:        testID,
		Type:          models.QuestionShortAnswer,
		Prompt:        fmt.Sprintf("Question %d", order),
		CorrectAnswer: answer,
		Points:        points,
		OrderIndex:    order,
	}
	require.NoError(t, db.Create(&question).Error)
	return question
}

func enroll(t *testing.T, db *gorm.DB, studentID, courseID uint) models.Enrollment {
	t.Helper()
	svc := NewEnrollmentService(db, testLogger())
	enrollment, err := svc.Enroll(studentID, courseID)
	require.NoError(t, err)
	return *enrollment
}
