package assignmentRoutes

import (
	controllers "lms/controllers/assignment"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

func SetupAssignmentRoutes(app *fiber.App) {
	assignmentGroup := app.Group("/assignment", middleware.JWTMiddleware)

	assignmentGroup.Post("/:id/submit", controllers.SubmitAssignment)
	assignmentGroup.Get("/submissions", controllers.GetMySubmissions)

	assignmentGroup.Post("/submission/:id/grade",
		middleware.RequireRole(models.RoleTeacher, models.RoleAdmin), controllers.GradeSubmission)
}
