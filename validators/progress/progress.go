package progressValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// LessonID validates the :lesson_id path param and stores it in Locals
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("lesson_id"))
		if lessonIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}

		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// SaveProgressRequest is the expected lesson-progress body. TimeSpent is the
// seconds spent this session, not a running total.
type SaveProgressRequest struct {
	Completed bool     `json:"completed"`
	Score     *float64 `json:"score" validate:"omitempty,min=0,max=100"`
	TimeSpent int      `json:"time_spent" validate:"min=0"`
}

func SaveProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SaveProgressRequest)
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

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}
