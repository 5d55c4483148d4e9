package todoController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type todoRequest struct {
	Title    string     `json:"title" validate:"required,min=1,max=200"`
	Priority string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category string     `json:"category"`
	DueDate  *time.Time `json:"due_date"`
}

// CreateTodo adds a task to the caller's list
func CreateTodo(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(todoRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if err := validate.Struct(reqData); err != nil {
		errors := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field() + "!"
		}
		return middleware.ValidationErrorResponse(c, errors)
	}

	if reqData.Priority == "" {
		reqData.Priority = "medium"
	}

	todo := models.Todo{
		UserID:   userID,
		Title:    reqData.Title,
		Priority: reqData.Priority,
		Category: reqData.Category,
		DueDate:  reqData.DueDate,
	}

	if err := database.Database.Db.Create(&todo).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create todo!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Todo created successfully!", todo)
}

// GetTodos lists the caller's tasks, optionally filtered by completion
func GetTodos(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false)

	if completed := c.Query("completed"); completed != "" {
		db = db.Where("completed = ?", completed == "true")
	}
	if category := c.Query("category"); category != "" {
		db = db.Where("category = ?", category)
	}

	var todos []models.Todo
	if err := db.Order("due_date asc, created_at desc").Find(&todos).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch todos!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Todos fetched successfully!", todos)
}

// UpdateTodo edits a task owned by the caller
func UpdateTodo(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	todoID, err := strconv.Atoi(c.Params("id"))
	if err != nil || todoID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Todo ID!", nil)
	}

	var todo models.Todo
	if err := database.Database.Db.Where("id = ? AND user_id = ? AND is_deleted = ?", todoID, userID, false).First(&todo).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Todo not found!", nil)
	}

	reqData := new(struct {
		Title     *string    `json:"title"`
		Priority  *string    `json:"priority"`
		Category  *string    `json:"category"`
		Completed *bool      `json:"completed"`
		DueDate   *time.Time `json:"due_date"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != nil {
		todo.Title = *reqData.Title
	}
	if reqData.Priority != nil {
		todo.Priority = *reqData.Priority
	}
	if reqData.Category != nil {
		todo.Category = *reqData.Category
	}
	if reqData.Completed != nil {
		todo.Completed = *reqData.Completed
	}
	if reqData.DueDate != nil {
		todo.DueDate = reqData.DueDate
	}

	if err := database.Database.Db.Save(&todo).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update todo!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Todo updated successfully!", todo)
}

// DeleteTodo soft-deletes a task owned by the caller
func DeleteTodo(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	todoID, err := strconv.Atoi(c.Params("id"))
	if err != nil || todoID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Todo ID!", nil)
	}

	result := database.Database.Db.Model(&models.Todo{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", todoID, userID, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete todo!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Todo not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Todo deleted successfully!", nil)
}
