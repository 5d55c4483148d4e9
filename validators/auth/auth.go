package authValidator

import (
	"lms/middleware"
	"lms/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// SignupRequest is the expected signup body
type SignupRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"omitempty,oneof=STUDENT TEACHER PARENT ADMIN"`
	GradeLevel *int   `json:"grade_level" validate:"omitempty,min=9,max=12"`
	ParentID   *uint  `json:"parent_id"`
}

// LoginRequest is the expected login body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SignupRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field() + "!"
			}
		}

		// Grade level is required for students and meaningless for anyone else
		role := reqData.Role
		if role == "" {
			role = models.RoleStudent
		}
		if role == models.RoleStudent && reqData.GradeLevel == nil {
			errors["grade_level"] = "Grade level is required for students!"
		}
		if role != models.RoleStudent && reqData.GradeLevel != nil {
			errors["grade_level"] = "Grade level is only valid for students!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Role = role
		c.Locals("validatedSignup", reqData)
		return c.Next()
	}
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
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

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}
