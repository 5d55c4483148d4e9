package main

import (
	"lms/config"
	"lms/database"
	assignmentRoutes "lms/routers/assignmentRoutes"
	authRoutes "lms/routers/authRoutes"
	chatRoutes "lms/routers/chatRoutes"
	courseRoutes "lms/routers/courseRoutes"
	dashboardRoutes "lms/routers/dashboardRoutes"
	paymentRoutes "lms/routers/paymentRoutes"
	progressRoutes "lms/routers/progressRoutes"
	todoRoutes "lms/routers/todoRoutes"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization,Stripe-Signature,X-Signature",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	assignmentRoutes.SetupAssignmentRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	dashboardRoutes.SetupDashboardRoutes(app)
	todoRoutes.SetupTodoRoutes(app)
	chatRoutes.SetupChatRoutes(app)

	utils.InitializePaymentScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
