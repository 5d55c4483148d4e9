package courseValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

var validate = validator.New()

// CourseID validates the :id path param and stores it in Locals
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// CreateCourseRequest is the expected course creation body
type CreateCourseRequest struct {
	Title              string  `json:"title" validate:"required,min=3,max=200"`
	Description        string  `json:"description"`
	Subject            string  `json:"subject" validate:"required"`
	GradeLevel         int     `json:"grade_level" validate:"required,min=9,max=12"`
	Credits            int     `json:"credits" validate:"min=0,max=10"`
	Price              float64 `json:"price" validate:"min=0"`
	IsFree             bool    `json:"is_free"`
	RequiresProctoring bool    `json:"requires_proctoring"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field() + "!"
			}
		}
		if !reqData.IsFree && reqData.Price <= 0 {
			errors["price"] = "Paid courses need a positive price!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// CreateModuleRequest is the expected module creation body
type CreateModuleRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" validate:"min=0"`
}

func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateModuleRequest)
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

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// CreateLessonRequest is the expected lesson creation body
type CreateLessonRequest struct {
	Title      string         `json:"title" validate:"required,min=3,max=200"`
	OrderIndex int            `json:"order_index" validate:"min=0"`
	Duration   int            `json:"duration" validate:"min=0"` // minutes
	Content    datatypes.JSON `json:"content"`
}

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleIDStr := strings.TrimSpace(c.Params("module_id"))
		moduleID, err := strconv.Atoi(moduleIDStr)
		if err != nil || moduleID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
		}

		reqData := new(CreateLessonRequest)
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

		c.Locals("moduleID", moduleID)
		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}
