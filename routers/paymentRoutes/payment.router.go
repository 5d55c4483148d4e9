package paymentRoutes

import (
	paymentControllers "lms/controllers/payment"
	webhookControllers "lms/controllers/webhook"
	"lms/middleware"
	paymentValidators "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment", middleware.JWTMiddleware)

	paymentGroup.Post("/intent", paymentValidators.CreateIntent(), paymentControllers.CreatePaymentIntent)
	paymentGroup.Get("/list", paymentControllers.ListPayments)
	paymentGroup.Post("/plan", paymentValidators.CreatePlan(), paymentControllers.CreatePaymentPlan)
	paymentGroup.Get("/plan/list", paymentControllers.ListPaymentPlans)

	// Webhooks authenticate by signature, not JWT
	webhookGroup := app.Group("/webhook")
	webhookGroup.Post("/stripe", paymentControllers.StripeWebhook)
	webhookGroup.Post("/identity", webhookControllers.IdentityWebhook)
}
