package paymentController

import (
	"fmt"
	"lms/config"
	"math"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	paymentValidator "lms/validators/payment"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// dollarsToCents converts a dollar amount to the gateway's integer cents.
// Rounding matters: 19.99*100 is 1998.99… in float64 and plain truncation
// would charge a cent less than the recorded amount.
func dollarsToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ensureStripeCustomer returns the user's gateway customer id, creating one on
// first use and caching it on the user row
func ensureStripeCustomer(user *models.User) (string, error) {
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.Name),
	}
	params.AddMetadata("userId", fmt.Sprintf("%d", user.ID))

	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}

	if err := database.Database.Db.Model(user).UpdateColumn("stripe_customer_id", cust.ID).Error; err != nil {
		log.Printf("[PAYMENT] Failed to cache customer id for user %d: %v", user.ID, err)
	}
	user.StripeCustomerID = cust.ID
	return cust.ID, nil
}

// CreatePaymentIntent opens a gateway payment intent and records a PENDING
// payment row. Enrollment and credits happen only when the webhook confirms.
func CreatePaymentIntent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedIntent").(*paymentValidator.CreateIntentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	description := reqData.Description
	if reqData.CourseID != 0 {
		var course courseModels.Course
		if err := db.Where("id = ? AND is_deleted = ? AND is_active = ?", reqData.CourseID, false, true).First(&course).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
		}
		if course.IsFree {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This course is free, enroll directly!", nil)
		}

		var enrollment courseModels.Enrollment
		if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, reqData.CourseID, false).First(&enrollment).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		}

		if description == "" {
			description = "Course enrollment: " + course.Title
		}
	} else if description == "" {
		description = "Tuition payment"
	}

	stripe.Key = config.AppConfig.StripeSecretKey

	customerID, err := ensureStripeCustomer(&user)
	if err != nil {
		log.Printf("[PAYMENT] Customer creation failed for user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment provider is unavailable, please try again later!", nil)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(dollarsToCents(reqData.Amount)),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Customer: stripe.String(customerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("userId", fmt.Sprintf("%d", userID))
	params.AddMetadata("courseId", fmt.Sprintf("%d", reqData.CourseID))
	params.IdempotencyKey = stripe.String(uuid.NewString())

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Printf("[PAYMENT] Intent creation failed for user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment provider is unavailable, please try again later!", nil)
	}

	metadata := datatypes.JSON([]byte(fmt.Sprintf(`{"userId":%d,"courseId":%d}`, userID, reqData.CourseID)))

	payment := models.Payment{
		UserID:           userID,
		Amount:           reqData.Amount,
		Currency:         "USD",
		Status:           models.PaymentStatusPending,
		IntentID:         intent.ID,
		StripeCustomerID: customerID,
		Description:      description,
		Metadata:         metadata,
	}

	if err := db.Create(&payment).Error; err != nil {
		log.Printf("[PAYMENT] Failed to record payment for intent %s: %v", intent.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment intent created successfully!", fiber.Map{
		"payment":       payment,
		"client_secret": intent.ClientSecret,
	})
}

// ListPayments returns the caller's payment history
func ListPayments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var payments []models.Payment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", payments)
}

// CreatePaymentPlan sets up a billing arrangement and optionally links courses
// to it through enrollments
func CreatePaymentPlan(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedPlan").(*paymentValidator.CreatePlanRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	now := time.Now()
	plan := models.PaymentPlan{
		UserID:        userID,
		Type:          reqData.Type,
		TotalAmount:   reqData.TotalAmount,
		MonthlyAmount: reqData.MonthlyAmount,
		StartDate:     now,
	}

	switch reqData.Type {
	case models.PlanMonthly:
		next := now.AddDate(0, 1, 0)
		plan.NextPaymentDate = &next
	case models.PlanSemester:
		next := now.AddDate(0, 6, 0)
		plan.NextPaymentDate = &next
	}

	db := database.Database.Db

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}

		for _, courseID := range reqData.CourseIDs {
			var course courseModels.Course
			if err := tx.Where("id = ? AND is_deleted = ? AND is_active = ?", courseID, false, true).First(&course).Error; err != nil {
				return fmt.Errorf("course %d not found", courseID)
			}

			var existing courseModels.Enrollment
			if err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existing).Error; err == nil {
				if err := tx.Model(&existing).Update("payment_plan_id", plan.ID).Error; err != nil {
					return err
				}
				continue
			}

			enrollment := courseModels.Enrollment{
				UserID:        userID,
				CourseID:      courseID,
				Status:        courseModels.EnrollmentActive,
				EnrolledAt:    now,
				PaymentPlanID: &plan.ID,
			}
			if err := tx.Create(&enrollment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[PAYMENT] Plan creation failed for user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to create payment plan!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment plan created successfully!", plan)
}

// ListPaymentPlans returns the caller's billing arrangements
func ListPaymentPlans(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var plans []models.PaymentPlan
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").Find(&plans).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payment plans!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment plans fetched successfully!", plans)
}
