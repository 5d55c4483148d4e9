package reconcile

import (
	"errors"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// EnrollFree creates an ACTIVE enrollment for a free course. Paid courses go
// through the payment-intent flow and are enrolled by PaymentSucceeded.
func EnrollFree(db *gorm.DB, userID, courseID uint) (*courseModels.Enrollment, error) {
	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_active = ?", courseID, false, true).First(&course).Error; err != nil {
		return nil, ErrCourseNotFound
	}
	if !course.IsFree {
		return nil, ErrCourseNotFree
	}

	var existing courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existing).Error; err == nil {
		return nil, ErrAlreadyEnrolled
	}

	enrollment := courseModels.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     courseModels.EnrollmentActive,
		EnrolledAt: time.Now(),
	}
	if err := db.Create(&enrollment).Error; err != nil {
		// The unique index on (user_id, course_id) closes the race between
		// the existence check and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}
	return &enrollment, nil
}
