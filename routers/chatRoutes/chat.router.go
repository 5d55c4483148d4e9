package chatRoutes

import (
	controllers "lms/controllers/chat"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupChatRoutes(app *fiber.App) {
	chatGroup := app.Group("/ai", middleware.JWTMiddleware)

	chatGroup.Post("/chat", controllers.Chat)
	chatGroup.Get("/chat/history", controllers.GetChatHistory)
}
