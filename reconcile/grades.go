package reconcile

import (
	"time"

	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// RecordGrade marks a submission GRADED and recomputes the student's cached
// GPA from all graded submissions. This is the only GPA writer; reads never
// re-derive it.
func RecordGrade(db *gorm.DB, submissionID uint, score float64) (*courseModels.Submission, error) {
	var submission courseModels.Submission
	if err := db.Where("id = ? AND is_deleted = ?", submissionID, false).First(&submission).Error; err != nil {
		return nil, ErrSubmissionNotFound
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		submission.Status = courseModels.SubmissionGraded
		submission.Score = &score
		submission.GradedAt = &now
		if err := tx.Save(&submission).Error; err != nil {
			return err
		}
		return recomputeGPA(tx, submission.UserID)
	})
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// recomputeGPA averages score/points over graded submissions and scales to
// the 4.0 system.
func recomputeGPA(tx *gorm.DB, userID uint) error {
	type gradedRow struct {
		Score  float64
		Points float64
	}
	var rows []gradedRow
	err := tx.Model(&courseModels.Submission{}).
		Select("submissions.score AS score, assignments.points AS points").
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("submissions.user_id = ? AND submissions.status = ? AND submissions.is_deleted = ?", userID, courseModels.SubmissionGraded, false).
		Scan(&rows).Error
	if err != nil {
		return err
	}

	var gpa float64
	if len(rows) > 0 {
		var sum float64
		for _, r := range rows {
			if r.Points > 0 {
				sum += r.Score / r.Points
			}
		}
		gpa = sum / float64(len(rows)) * 4.0
	}

	return tx.Model(&models.User{}).Where("id = ?", userID).UpdateColumn("gpa", gpa).Error
}
