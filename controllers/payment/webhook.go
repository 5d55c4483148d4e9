package paymentController

import (
	"encoding/json"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/reconcile"
	"lms/utils"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// intentMetadata pulls the userId/courseId pair out of intent metadata. Both
// default to zero when absent so the binding layer can fall back to the
// recorded payment row.
func intentMetadata(meta map[string]string) (userID, courseID uint) {
	if v, err := strconv.ParseUint(meta["userId"], 10, 32); err == nil {
		userID = uint(v)
	}
	if v, err := strconv.ParseUint(meta["courseId"], 10, 32); err == nil {
		courseID = uint(v)
	}
	return userID, courseID
}

// StripeWebhook receives gateway events. The signature check makes this the
// only path that can move a payment out of PENDING.
func StripeWebhook(c *fiber.Ctx) error {
	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		log.Printf("[WEBHOOK] Signature verification failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook signature!", nil)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			log.Printf("[WEBHOOK] Failed to parse payment intent: %v", err)
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid event payload!", nil)
		}

		userID, courseID := intentMetadata(intent.Metadata)
		if err := reconcile.PaymentSucceeded(database.Database.Db, intent.ID, userID, courseID); err != nil {
			log.Printf("[WEBHOOK] Failed to process success for intent %s: %v", intent.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process event!", nil)
		}

		sendReceiptForIntent(intent.ID)

	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			log.Printf("[WEBHOOK] Failed to parse payment intent: %v", err)
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid event payload!", nil)
		}

		if err := reconcile.PaymentFailed(database.Database.Db, intent.ID); err != nil {
			log.Printf("[WEBHOOK] Failed to process failure for intent %s: %v", intent.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process event!", nil)
		}

		sendFailureNoticeForIntent(intent.ID)

	default:
		log.Printf("[WEBHOOK] Ignoring event type %s", event.Type)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook processed.", nil)
}

func sendReceiptForIntent(intentID string) {
	db := database.Database.Db

	var payment models.Payment
	if err := db.Where("intent_id = ?", intentID).First(&payment).Error; err != nil {
		return
	}

	var user models.User
	if err := db.Where("id = ?", payment.UserID).First(&user).Error; err != nil {
		return
	}

	utils.SendPaymentReceiptEmail(user.Email, user.Name, payment.Amount, payment.Description)
}

func sendFailureNoticeForIntent(intentID string) {
	db := database.Database.Db

	var payment models.Payment
	if err := db.Where("intent_id = ?", intentID).First(&payment).Error; err != nil {
		return
	}

	var user models.User
	if err := db.Where("id = ?", payment.UserID).First(&user).Error; err != nil {
		return
	}

	utils.SendPaymentFailedEmail(user.Email, user.Name, payment.Amount)
}
