package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:student"` // student, instructor, admin
	Group        string
	University   string
}

type LoginHistory struct {
	gorm.Model
	UserID    uint
	LoginTime time.Time
}
