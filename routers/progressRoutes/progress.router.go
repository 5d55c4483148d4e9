package progressRoutes

import (
	controllers "lms/controllers/progress"
	"lms/middleware"
	validators "lms/validators/progress"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress", middleware.JWTMiddleware)

	progressGroup.Get("/", controllers.GetUserProgress)
	progressGroup.Get("/detailed", controllers.GetDetailedProgress)
	progressGroup.Get("/lesson/:lesson_id", validators.LessonID(), controllers.GetLessonProgress)
	progressGroup.Put("/lesson/:lesson_id", validators.LessonID(), validators.SaveProgress(), controllers.SaveLessonProgress)
}
