package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatMessage stores AI tutor conversation history per user
type ChatMessage struct {
	gorm.Model
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	Role      string         `gorm:"type:varchar(20);not null" json:"role"` // user, assistant
	Content   string         `gorm:"type:text" json:"content"`
	Context   datatypes.JSON `json:"context"` // lesson/dashboard snapshot sent with the message
	IsDeleted bool           `gorm:"default:false" json:"-"`
}
