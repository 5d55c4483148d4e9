package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all student-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog
	courseGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)

	// Assignments
	courseGroup.Get("/:id/assignments", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseAssignments)

	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetEnrollments)
}
