package utils

import (
	"lms/database"
	"lms/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializePaymentScheduler sets up the tuition installment scheduler
func InitializePaymentScheduler() {
	log.Println("[PAYMENT-SCHEDULER] Initializing payment scheduler...")

	c := cron.New()

	// Run daily at 9 AM to process due installments
	c.AddFunc("0 9 * * *", func() {
		log.Println("[PAYMENT-SCHEDULER] Running daily installment check...")
		ProcessDueInstallments()
	})

	c.Start()
	log.Println("[PAYMENT-SCHEDULER] Payment scheduler started - runs daily at 9 AM")
}

// ProcessDueInstallments sends reminders for installments due within 3 days
// and rolls the plan's next payment date forward once it passes
func ProcessDueInstallments() {
	db := database.Database.Db
	now := time.Now()
	threeDaysFromNow := now.AddDate(0, 0, 3)

	var duePlans []models.PaymentPlan
	if err := db.
		Where("is_deleted = ? AND next_payment_date IS NOT NULL", false).
		Where("next_payment_date BETWEEN ? AND ?", now, threeDaysFromNow).
		Find(&duePlans).Error; err != nil {
		log.Printf("[PAYMENT-SCHEDULER] Error fetching due plans: %v", err)
		return
	}

	log.Printf("[PAYMENT-SCHEDULER] Found %d plans with installments due soon", len(duePlans))

	for _, plan := range duePlans {
		var user models.User
		if err := db.Where("id = ?", plan.UserID).First(&user).Error; err != nil {
			log.Printf("[PAYMENT-SCHEDULER] Error fetching user %d: %v", plan.UserID, err)
			continue
		}

		amount := plan.TotalAmount
		if plan.MonthlyAmount != nil {
			amount = *plan.MonthlyAmount
		}

		SendPaymentReminderEmail(user.Email, user.Name, amount, plan.NextPaymentDate.Format("January 2, 2006"))
		log.Printf("[PAYMENT-SCHEDULER] Sent installment reminder for plan %d to %s", plan.ID, user.Email)
	}

	rollPastDuePlans(now)
}

// rollPastDuePlans advances next_payment_date on plans whose date has passed.
// Plans past their end date have the next date cleared instead.
func rollPastDuePlans(now time.Time) {
	db := database.Database.Db

	var pastDue []models.PaymentPlan
	if err := db.
		Where("is_deleted = ? AND next_payment_date IS NOT NULL AND next_payment_date < ?", false, now).
		Find(&pastDue).Error; err != nil {
		log.Printf("[PAYMENT-SCHEDULER] Error fetching past-due plans: %v", err)
		return
	}

	for _, plan := range pastDue {
		var next *time.Time
		switch plan.Type {
		case models.PlanMonthly:
			n := plan.NextPaymentDate.AddDate(0, 1, 0)
			next = &n
		case models.PlanSemester:
			n := plan.NextPaymentDate.AddDate(0, 6, 0)
			next = &n
		default:
			// FULL_PAYMENT and COURSE_BY_COURSE have no recurring installments
			next = nil
		}

		if next != nil && plan.EndDate != nil && next.After(*plan.EndDate) {
			next = nil
		}

		if err := db.Model(&plan).Update("next_payment_date", next).Error; err != nil {
			log.Printf("[PAYMENT-SCHEDULER] Error rolling plan %d: %v", plan.ID, err)
			continue
		}
		log.Printf("[PAYMENT-SCHEDULER] Rolled next payment date for plan %d", plan.ID)
	}
}
