package models

import (
	"time"

	"gorm.io/gorm"
)

// Todo is personal task tracking, no cross-entity relationships
type Todo struct {
	gorm.Model
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Title     string     `gorm:"not null" json:"title"`
	Priority  string     `gorm:"type:varchar(10);default:'medium'" json:"priority"` // low, medium, high
	Category  string     `gorm:"default:''" json:"category"`
	Completed bool       `gorm:"default:false" json:"completed"`
	DueDate   *time.Time `json:"due_date"`
	IsDeleted bool       `gorm:"default:false" json:"-"`
}
