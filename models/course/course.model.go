package course

import "gorm.io/gorm"

// Course represents a catalog course for the diploma program
type Course struct {
	gorm.Model
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Subject            string  `json:"subject"`
	GradeLevel         int     `json:"grade_level" gorm:"default:9"`
	Credits            int     `json:"credits" gorm:"default:0"` // credits banked on paid enrollment
	Price              float64 `json:"price" gorm:"default:0"`
	IsFree             bool    `json:"is_free" gorm:"default:false"`
	RequiresProctoring bool    `json:"requires_proctoring" gorm:"default:false"`
	IsActive           bool    `json:"is_active" gorm:"default:true"`
	IsDeleted          bool    `gorm:"default:false" json:"-"`
}
