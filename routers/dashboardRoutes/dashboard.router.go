package dashboardRoutes

import (
	controllers "lms/controllers/dashboard"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App) {
	dashboardGroup := app.Group("/dashboard", middleware.JWTMiddleware)

	dashboardGroup.Get("/student", middleware.RequireRole(models.RoleStudent), controllers.StudentDashboard)
	dashboardGroup.Get("/teacher", middleware.RequireRole(models.RoleTeacher, models.RoleAdmin), controllers.TeacherDashboard)
	dashboardGroup.Get("/admin", middleware.RequireRole(models.RoleAdmin), controllers.AdminDashboard)
	dashboardGroup.Get("/parent", middleware.RequireRole(models.RoleParent), controllers.ParentDashboard)
}
