package webhookController

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"lms/config"
	"lms/database"
	"lms/models"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupWebhookApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{IdentityWebhookSecret: "test-secret"}

	app := fiber.New()
	app.Post("/webhook/identity", IdentityWebhook)
	return app
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestIdentityWebhookRejectsBadSignature(t *testing.T) {
	app := setupWebhookApp(t)

	body := []byte(`{"type":"user.created","data":{"id":"ext_1","email":"a@b.com"}}`)
	req := httptest.NewRequest("POST", "/webhook/identity", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", "deadbeef")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var count int64
	database.Database.Db.Model(&models.User{}).Count(&count)
	require.Zero(t, count)
}

func TestIdentityWebhookCreatesAndUpdatesUser(t *testing.T) {
	app := setupWebhookApp(t)

	body := []byte(`{"type":"user.created","data":{"id":"ext_1","email":"jane@example.com","first_name":"Jane","last_name":"Doe"}}`)
	req := httptest.NewRequest("POST", "/webhook/identity", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", sign(body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user models.User
	require.NoError(t, database.Database.Db.Where("external_id = ?", "ext_1").First(&user).Error)
	require.Equal(t, "Jane Doe", user.Name)
	require.Equal(t, "jane@example.com", user.Email)
	require.Equal(t, models.RoleStudent, user.Role)

	// Same external id updates in place instead of creating a second row
	body = []byte(`{"type":"user.updated","data":{"id":"ext_1","email":"jane.d@example.com","first_name":"Jane","last_name":"Smith"}}`)
	req = httptest.NewRequest("POST", "/webhook/identity", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", sign(body))

	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	database.Database.Db.Model(&models.User{}).Count(&count)
	require.EqualValues(t, 1, count)

	require.NoError(t, database.Database.Db.Where("external_id = ?", "ext_1").First(&user).Error)
	require.Equal(t, "Jane Smith", user.Name)
	require.Equal(t, "jane.d@example.com", user.Email)
}

func TestIdentityWebhookDeletesUser(t *testing.T) {
	app := setupWebhookApp(t)

	require.NoError(t, database.Database.Db.Create(&models.User{
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Role:       models.RoleStudent,
		ExternalID: "ext_1",
	}).Error)

	body := []byte(`{"type":"user.deleted","data":{"id":"ext_1"}}`)
	req := httptest.NewRequest("POST", "/webhook/identity", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", sign(body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user models.User
	require.NoError(t, database.Database.Db.Where("external_id = ?", "ext_1").First(&user).Error)
	require.True(t, user.IsDeleted)
}
