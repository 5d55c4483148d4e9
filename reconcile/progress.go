// Package reconcile holds the multi-entity business rules of the platform:
// progress aggregation, enrollment transitions, payment reconciliation, and
// the credit/GPA ledger. Everything else in the codebase is a thin handler
// over these functions.
package reconcile

import (
	"math"
	"time"

	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// CourseProgressSummary is the derived completion state of one enrollment
type CourseProgressSummary struct {
	TotalLessons     int `json:"total_lessons"`
	CompletedLessons int `json:"completed_lessons"`
	ProgressPercent  int `json:"progress_percent"`
}

// AcademicStanding aggregates a user's progress across all courses plus the
// cached ledger values from the user row.
type AcademicStanding struct {
	TotalLessons              int     `json:"total_lessons"`
	CompletedLessons          int     `json:"completed_lessons"`
	TotalTime                 int     `json:"total_time"`      // seconds
	AverageScore              float64 `json:"average_score"`   // over scored lessons only
	CompletionRate            float64 `json:"completion_rate"` // 0-100
	GPA                       float64 `json:"gpa"`
	TotalCredits              int     `json:"total_credits"`
	GraduationProgressPercent float64 `json:"graduation_progress_percent"`
}

// CourseProgress computes the completion summary for one enrolled course.
// Returns ErrNotEnrolled when no enrollment exists for (user, course).
func CourseProgress(db *gorm.DB, userID, courseID uint) (*CourseProgressSummary, error) {
	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return nil, ErrNotEnrolled
	}

	total, completed := courseProgressCounts(db, userID, courseID)

	summary := &CourseProgressSummary{
		TotalLessons:     int(total),
		CompletedLessons: int(completed),
	}
	if total > 0 {
		summary.ProgressPercent = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return summary, nil
}

// courseProgressCounts counts the course's lessons and the user's completed
// ones. A course with no lessons yields (0, 0); callers must not divide by it.
func courseProgressCounts(db *gorm.DB, userID, courseID uint) (total, completed int64) {
	db.Model(&courseModels.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ? AND modules.is_deleted = ? AND lessons.is_deleted = ?", courseID, false, false).
		Count(&total)

	db.Model(&courseModels.Progress{}).
		Joins("JOIN lessons ON lessons.id = progress.lesson_id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("progress.user_id = ? AND progress.completed = ? AND progress.is_deleted = ?", userID, true, false).
		Where("modules.course_id = ? AND modules.is_deleted = ? AND lessons.is_deleted = ?", courseID, false, false).
		Count(&completed)

	return total, completed
}

// Standing aggregates all of a user's progress rows. Credits and GPA come
// from the user row: they are ledger values, not live aggregates (a student
// keeps credits banked from courses that were later removed).
func Standing(db *gorm.DB, userID uint) (*AcademicStanding, error) {
	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, ErrUserNotFound
	}

	var records []courseModels.Progress
	if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).Find(&records).Error; err != nil {
		return nil, err
	}

	standing := &AcademicStanding{
		GPA:                       user.GPA,
		TotalCredits:              user.TotalCredits,
		GraduationProgressPercent: float64(user.TotalCredits) / float64(models.GraduationCredits) * 100,
	}

	var scoreSum float64
	var scoredCount int
	for _, p := range records {
		standing.TotalLessons++
		standing.TotalTime += p.TimeSpent
		if p.Completed {
			standing.CompletedLessons++
		}
		if p.Score != nil {
			scoreSum += *p.Score
			scoredCount++
		}
	}
	if scoredCount > 0 {
		standing.AverageScore = scoreSum / float64(scoredCount)
	}
	if standing.TotalLessons > 0 {
		standing.CompletionRate = float64(standing.CompletedLessons) / float64(standing.TotalLessons) * 100
	}
	return standing, nil
}

// SaveLessonProgress upserts the unique (user, lesson) progress row.
// Completed and score are last-write-wins; timeSpent accumulates so the
// stored total never decreases. When the save brings the lesson's course to
// 100% completion, the enrollment flips to COMPLETED in the same transaction
// and the returned flag is true for that one call.
func SaveLessonProgress(db *gorm.DB, userID, lessonID uint, completed bool, score *float64, timeSpent int) (*courseModels.Progress, bool, error) {
	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return nil, false, ErrLessonNotFound
	}

	var module courseModels.Module
	if err := db.Where("id = ?", lesson.ModuleID).First(&module).Error; err != nil {
		return nil, false, ErrLessonNotFound
	}

	now := time.Now()
	var progress courseModels.Progress
	var courseCompleted bool

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
		if err == gorm.ErrRecordNotFound {
			progress = courseModels.Progress{
				UserID:   userID,
				LessonID: lessonID,
			}
		} else if err != nil {
			return err
		}

		progress.Completed = completed
		progress.Score = score
		progress.TimeSpent += timeSpent
		progress.LastAccessed = now
		if completed && progress.CompletedAt == nil {
			progress.CompletedAt = &now
		} else if !completed {
			progress.CompletedAt = nil
		}

		if err := tx.Save(&progress).Error; err != nil {
			return err
		}

		if completed {
			flipped, err := completeEnrollmentIfFinished(tx, userID, module.CourseID, now)
			if err != nil {
				return err
			}
			courseCompleted = flipped
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &progress, courseCompleted, nil
}

// completeEnrollmentIfFinished flips an ACTIVE enrollment to COMPLETED once
// every lesson in the course is done, reporting whether it flipped. No-op
// when the user has no enrollment (progress can be recorded on preview
// lessons) or the course has no lessons.
func completeEnrollmentIfFinished(tx *gorm.DB, userID, courseID uint, now time.Time) (bool, error) {
	var enrollment courseModels.Enrollment
	if err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return false, nil
	}
	if enrollment.Status == courseModels.EnrollmentCompleted {
		return false, nil
	}

	total, completed := courseProgressCounts(tx, userID, courseID)
	if total == 0 || completed < total {
		return false, nil
	}

	enrollment.Status = courseModels.EnrollmentCompleted
	enrollment.CompletedAt = &now
	return true, tx.Save(&enrollment).Error
}
