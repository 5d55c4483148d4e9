package course

import (
	"time"

	"gorm.io/gorm"
)

// Assignment belongs to a course and optionally to one of its modules
type Assignment struct {
	gorm.Model
	CourseID    uint       `json:"course_id" gorm:"index;not null"`
	ModuleID    *uint      `json:"module_id" gorm:"index"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      float64    `json:"points" gorm:"default:100"`
	DueDate     *time.Time `json:"due_date"`
	IsDeleted   bool       `gorm:"default:false" json:"-"`
}

// Submission statuses
const (
	SubmissionSubmitted = "SUBMITTED"
	SubmissionGraded    = "GRADED"
)

// Submission is unique per (user, assignment)
type Submission struct {
	gorm.Model
	UserID       uint `json:"user_id" gorm:"not null;uniqueIndex:idx_user_assignment"`
	AssignmentID uint `json:"assignment_id" gorm:"not null;uniqueIndex:idx_user_assignment"`

	Status      string     `json:"status" gorm:"type:varchar(20);default:'SUBMITTED'"`
	Content     string     `json:"content" gorm:"type:text"`
	Score       *float64   `json:"score"`
	GradedAt    *time.Time `json:"graded_at"`
	SubmittedAt time.Time  `json:"submitted_at"`

	IsDeleted  bool       `gorm:"default:false" json:"-"`
	Assignment Assignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
}
