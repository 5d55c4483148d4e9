package todoRoutes

import (
	controllers "lms/controllers/todo"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupTodoRoutes(app *fiber.App) {
	todoGroup := app.Group("/todo", middleware.JWTMiddleware)

	todoGroup.Post("/create", controllers.CreateTodo)
	todoGroup.Get("/list", controllers.GetTodos)
	todoGroup.Put("/:id", controllers.UpdateTodo)
	todoGroup.Delete("/:id", controllers.DeleteTodo)
}
