package reconcile

import (
	"log"
	"time"

	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// PaymentSucceeded applies a payment_intent.succeeded webhook. Delivery is
// at-least-once, so the whole effect is a guarded PENDING->COMPLETED
// transition inside one transaction: a redelivered event finds the payment
// already COMPLETED and does nothing.
//
// When the intent metadata names a course, the enrollment is upserted to
// ACTIVE and the course's credits are added to the user's ledger total.
// Credits are added only when the enrollment row is created by this call,
// so a retry can never bank them twice.
func PaymentSucceeded(db *gorm.DB, intentID string, userID, courseID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("intent_id = ?", intentID).First(&payment).Error; err != nil {
			return ErrPaymentNotFound
		}
		if payment.Status == models.PaymentStatusCompleted {
			return nil
		}

		if err := tx.Model(&payment).Update("status", models.PaymentStatusCompleted).Error; err != nil {
			return err
		}

		if courseID == 0 {
			return nil // tuition payment, nothing to fulfill
		}
		if userID == 0 {
			userID = payment.UserID
		}

		var course courseModels.Course
		if err := tx.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
			// Money moved even though the product is gone; keep the payment
			// COMPLETED and skip fulfillment.
			log.Printf("[WEBHOOK] payment %s references missing course %d, skipping enrollment", intentID, courseID)
			return nil
		}

		now := time.Now()
		var enrollment courseModels.Enrollment
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
		if err == nil {
			enrollment.Status = courseModels.EnrollmentActive
			enrollment.StartDate = &now
			enrollment.IsDeleted = false
			return tx.Save(&enrollment).Error
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		enrollment = courseModels.Enrollment{
			UserID:     userID,
			CourseID:   courseID,
			Status:     courseModels.EnrollmentActive,
			EnrolledAt: now,
			StartDate:  &now,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("total_credits", gorm.Expr("total_credits + ?", course.Credits)).Error
	})
}

// PaymentFailed applies a payment_intent.payment_failed webhook. Only a
// PENDING payment transitions; anything else is absorbed as a no-op.
func PaymentFailed(db *gorm.DB, intentID string) error {
	var payment models.Payment
	if err := db.Where("intent_id = ?", intentID).First(&payment).Error; err != nil {
		return ErrPaymentNotFound
	}
	if payment.Status != models.PaymentStatusPending {
		return nil
	}
	return db.Model(&payment).Update("status", models.PaymentStatusFailed).Error
}
