package webhookController

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"log"

	"github.com/gofiber/fiber/v2"
)

// identityEvent is the envelope the identity provider posts on account changes
type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"data"`
}

// verifySignature checks the HMAC-SHA256 hex digest the provider sends in the
// X-Signature header against the shared secret
func verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(config.AppConfig.IdentityWebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// IdentityWebhook syncs identity-provider account events into the users table,
// keyed by the provider's external id
func IdentityWebhook(c *fiber.Ctx) error {
	if !verifySignature(c.Body(), c.Get("X-Signature")) {
		log.Println("[IDENTITY-WEBHOOK] Signature verification failed")
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid webhook signature!", nil)
	}

	var event identityEvent
	if err := json.Unmarshal(c.Body(), &event); err != nil || event.Data.ID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid event payload!", nil)
	}

	db := database.Database.Db
	name := event.Data.FirstName
	if event.Data.LastName != "" {
		name += " " + event.Data.LastName
	}

	switch event.Type {
	case "user.created", "user.updated":
		var user models.User
		err := db.Where("external_id = ?", event.Data.ID).First(&user).Error
		if err != nil {
			user = models.User{
				Name:       name,
				Email:      event.Data.Email,
				Role:       models.RoleStudent,
				ExternalID: event.Data.ID,
				IsVerified: true,
			}
			if err := db.Create(&user).Error; err != nil {
				log.Printf("[IDENTITY-WEBHOOK] Failed to create user for external id %s: %v", event.Data.ID, err)
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process event!", nil)
			}
			log.Printf("[IDENTITY-WEBHOOK] Created user %d for external id %s", user.ID, event.Data.ID)
		} else {
			updates := map[string]interface{}{"name": name, "is_deleted": false}
			if event.Data.Email != "" {
				updates["email"] = event.Data.Email
			}
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				log.Printf("[IDENTITY-WEBHOOK] Failed to update user %d: %v", user.ID, err)
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process event!", nil)
			}
		}

	case "user.deleted":
		if err := db.Model(&models.User{}).Where("external_id = ?", event.Data.ID).Update("is_deleted", true).Error; err != nil {
			log.Printf("[IDENTITY-WEBHOOK] Failed to delete user for external id %s: %v", event.Data.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process event!", nil)
		}

	default:
		log.Printf("[IDENTITY-WEBHOOK] Ignoring event type %s", event.Type)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook processed.", nil)
}
