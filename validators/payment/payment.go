package paymentValidator

import (
	"lms/middleware"
	"lms/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateIntentRequest is the expected payment-intent body. CourseID is zero
// for tuition payments that are not tied to a single course.
type CreateIntentRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	CourseID    uint    `json:"course_id"`
	Description string  `json:"description"`
}

func CreateIntent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateIntentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field() + "!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedIntent", reqData)
		return c.Next()
	}
}

// CreatePlanRequest is the expected payment-plan body
type CreatePlanRequest struct {
	Type          models.PaymentPlanType `json:"type" validate:"required,oneof=FULL_PAYMENT MONTHLY SEMESTER COURSE_BY_COURSE"`
	TotalAmount   float64                `json:"total_amount" validate:"required,gt=0"`
	MonthlyAmount *float64               `json:"monthly_amount"`
	CourseIDs     []uint                 `json:"course_ids"`
}

func CreatePlan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreatePlanRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field() + "!"
			}
		}
		if reqData.Type == models.PlanMonthly && (reqData.MonthlyAmount == nil || *reqData.MonthlyAmount <= 0) {
			errors["monthly_amount"] = "Monthly plans need a positive monthly amount!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPlan", reqData)
		return c.Next()
	}
}
