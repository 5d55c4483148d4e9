package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up course management routes for staff
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher, models.RoleAdmin))

	// Course CRUD
	adminGroup.Post("/create", validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Put("/:id", validators.CourseID(), validators.CreateCourse(), controllers.UpdateCourse)
	adminGroup.Delete("/:id", validators.CourseID(), controllers.DeleteCourse)

	// Module and lesson management
	adminGroup.Post("/:id/module", validators.CourseID(), validators.CreateModule(), controllers.CreateModule)
	adminGroup.Post("/module/:module_id/lesson", validators.CreateLesson(), controllers.CreateLesson)

	// Assignments
	adminGroup.Post("/:id/assignment", validators.CourseID(), controllers.CreateAssignment)
}
