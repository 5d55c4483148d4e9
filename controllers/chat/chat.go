package chatController

import (
	"encoding/json"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/reconcile"
	"log"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

const fallbackReply = "I'm having trouble reaching the tutoring service right now. Please try again in a moment."

type chatRequest struct {
	Message  string `json:"message"`
	LessonID *uint  `json:"lesson_id"`
}

type providerMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type providerRequest struct {
	Model    string            `json:"model"`
	Messages []providerMessage `json:"messages"`
}

type providerResponse struct {
	Choices []struct {
		Message providerMessage `json:"message"`
	} `json:"choices"`
}

// buildSystemPrompt grounds the tutor in the student's current lesson and
// overall standing so answers stay on-topic
func buildSystemPrompt(userID uint, lessonID *uint) (string, datatypes.JSON) {
	db := database.Database.Db

	prompt := "You are a patient tutor for high-school diploma students. " +
		"Explain concepts step by step and encourage the student."

	snapshot := map[string]interface{}{}

	if lessonID != nil {
		var lesson courseModels.Lesson
		if err := db.Where("id = ? AND is_deleted = ?", *lessonID, false).First(&lesson).Error; err == nil {
			prompt += fmt.Sprintf(" The student is currently working on the lesson %q.", lesson.Title)
			snapshot["lesson_id"] = lesson.ID
			snapshot["lesson_title"] = lesson.Title
		}
	}

	if standing, err := reconcile.Standing(db, userID); err == nil {
		prompt += fmt.Sprintf(" The student has completed %d of %d lessons overall.",
			standing.CompletedLessons, standing.TotalLessons)
		snapshot["completed_lessons"] = standing.CompletedLessons
		snapshot["total_lessons"] = standing.TotalLessons
	}

	context, _ := json.Marshal(snapshot)
	return prompt, datatypes.JSON(context)
}

// askProvider sends the conversation to the AI provider and returns the reply
func askProvider(systemPrompt, userMessage string) (string, error) {
	body := providerRequest{
		Model: config.AppConfig.OpenAIModel,
		Messages: []providerMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
	}

	var result providerResponse
	resp, err := resty.New().R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.OpenAIApiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		Post(config.AppConfig.OpenAIApiURL)
	if err != nil {
		return "", err
	}
	if resp.IsError() || len(result.Choices) == 0 {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode())
	}

	return result.Choices[0].Message.Content, nil
}

// Chat answers a student question through the AI provider and persists the
// exchange. Provider failures degrade to a friendly fallback instead of an
// error response.
func Chat(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(chatRequest)
	if err := c.BodyParser(reqData); err != nil || reqData.Message == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Message is required!", nil)
	}

	db := database.Database.Db

	systemPrompt, snapshot := buildSystemPrompt(userID, reqData.LessonID)

	userMessage := models.ChatMessage{
		UserID:  userID,
		Role:    "user",
		Content: reqData.Message,
		Context: snapshot,
	}
	if err := db.Create(&userMessage).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save message!", nil)
	}

	reply, err := askProvider(systemPrompt, reqData.Message)
	if err != nil {
		log.Printf("[CHAT] Provider request failed for user %d: %v", userID, err)
		reply = fallbackReply
	}

	assistantMessage := models.ChatMessage{
		UserID:  userID,
		Role:    "assistant",
		Content: reply,
		Context: snapshot,
	}
	if err := db.Create(&assistantMessage).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save message!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message sent successfully!", fiber.Map{
		"reply": assistantMessage,
	})
}

// GetChatHistory returns the caller's conversation, newest first
func GetChatHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var messages []models.ChatMessage
	if err := database.Database.Db.Where("user_id = ?", userID).Order("created_at desc").Limit(limit).Find(&messages).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch chat history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chat history fetched successfully!", messages)
}
