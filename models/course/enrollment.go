package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCompleted = "COMPLETED"
	EnrollmentPaused    = "PAUSED"
)

// Enrollment links one user to one course, unique per pair
type Enrollment struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course"`
	CourseID uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course"`
	Status   string `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`

	EnrolledAt  time.Time  `json:"enrolled_at"`
	StartDate   *time.Time `json:"start_date"`
	CompletedAt *time.Time `json:"completed_at"`

	PaymentPlanID *uint `json:"payment_plan_id" gorm:"index"`

	IsDeleted bool   `gorm:"default:false" json:"-"`
	Course    Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// Progress tracks a user's work on a single lesson, unique per (user, lesson).
// TimeSpent accumulates across updates and never decreases.
type Progress struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_user_lesson"`
	LessonID uint `json:"lesson_id" gorm:"not null;uniqueIndex:idx_user_lesson"`

	Completed    bool       `json:"completed" gorm:"default:false"`
	Score        *float64   `json:"score"`
	TimeSpent    int        `json:"time_spent" gorm:"default:0"` // seconds
	CompletedAt  *time.Time `json:"completed_at"`
	LastAccessed time.Time  `json:"last_accessed"`

	IsDeleted bool   `gorm:"default:false" json:"-"`
	Lesson    Lesson `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
}

func (Progress) TableName() string {
	return "progress"
}
