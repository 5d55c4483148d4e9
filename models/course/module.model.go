package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Module represents a section within a course, ordered by OrderIndex
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null;uniqueIndex:idx_course_order"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" gorm:"default:0;uniqueIndex:idx_course_order"`
	IsDeleted   bool   `gorm:"default:false" json:"-"`
}

// Lesson belongs to exactly one module, ordered by OrderIndex
type Lesson struct {
	gorm.Model
	ModuleID   uint           `json:"module_id" gorm:"index;not null;uniqueIndex:idx_module_order"`
	Title      string         `json:"title"`
	OrderIndex int            `json:"order_index" gorm:"default:0;uniqueIndex:idx_module_order"`
	Duration   int            `json:"duration" gorm:"default:0"` // minutes
	Content    datatypes.JSON `json:"content"`                   // opaque structured content
	IsDeleted  bool           `gorm:"default:false" json:"-"`
}
