package models

import (
	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleParent  = "PARENT"
	RoleAdmin   = "ADMIN"
)

// GraduationCredits is the number of credits required for the diploma
const GraduationCredits = 22

type User struct {
	gorm.Model
	Email      string `gorm:"unique;not null" json:"email"`
	Name       string `gorm:"default:''" json:"name"`
	Password   string `gorm:"not null" json:"-"`
	Role       string `gorm:"default:'STUDENT'" json:"role"` // STUDENT, TEACHER, PARENT, ADMIN
	GradeLevel *int   `json:"grade_level"`                   // students only

	// Cached academic aggregates. Append-only ledger values: written only by
	// reconcile.PaymentSucceeded (credits) and reconcile.RecordGrade (GPA),
	// never re-derived on read.
	GPA          float64 `gorm:"default:0" json:"gpa"`
	TotalCredits int     `gorm:"default:0" json:"total_credits"`

	ParentID *uint `gorm:"index" json:"parent_id"` // PARENT -> STUDENT link

	// Set when the user is managed by the external identity provider.
	ExternalID string `gorm:"uniqueIndex;default:null" json:"external_id,omitempty"`

	StripeCustomerID string `gorm:"default:''" json:"-"`
	IsVerified       bool   `gorm:"default:false" json:"is_verified"`
	IsDeleted        bool   `gorm:"default:false" json:"-"`
}
