package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse creates a catalog course (Teacher/Admin only, gated in routes)
func CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:              reqData.Title,
		Description:        reqData.Description,
		Subject:            reqData.Subject,
		GradeLevel:         reqData.GradeLevel,
		Credits:            reqData.Credits,
		Price:              reqData.Price,
		IsFree:             reqData.IsFree,
		RequiresProctoring: reqData.RequiresProctoring,
		IsActive:           true,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse updates mutable course fields
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course.Title = reqData.Title
	course.Description = reqData.Description
	course.Subject = reqData.Subject
	course.GradeLevel = reqData.GradeLevel
	course.Credits = reqData.Credits
	course.Price = reqData.Price
	course.IsFree = reqData.IsFree
	course.RequiresProctoring = reqData.RequiresProctoring

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse soft-deletes a course and its module/lesson subtree. Refused
// while non-deleted enrollments still reference the course.
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var activeEnrollments int64
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("course_id = ? AND is_deleted = ?", courseID, false).Count(&activeEnrollments)
	if activeEnrollments > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course has active enrollments and cannot be deleted!", nil)
	}

	tx := database.Database.Db.Begin()
	if err := tx.Model(&course).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	var moduleIDs []uint
	tx.Model(&courseModels.Module{}).Where("course_id = ?", courseID).Pluck("id", &moduleIDs)

	if err := tx.Model(&courseModels.Module{}).Where("course_id = ?", courseID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course modules!", nil)
	}
	if len(moduleIDs) > 0 {
		if err := tx.Model(&courseModels.Lesson{}).Where("module_id IN ?", moduleIDs).Update("is_deleted", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course lessons!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// CreateModule adds a module to a course
func CreateModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedModule").(*courseValidator.CreateModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Order index must be unique within the course
	var clash courseModels.Module
	if err := database.Database.Db.Where("course_id = ? AND order_index = ? AND is_deleted = ?", courseID, reqData.OrderIndex, false).First(&clash).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A module with this order already exists in the course!", nil)
	}

	module := courseModels.Module{
		CourseID:    uint(courseID),
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// CreateLesson adds a lesson to a module
func CreateLesson(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*courseValidator.CreateLessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var clash courseModels.Lesson
	if err := database.Database.Db.Where("module_id = ? AND order_index = ? AND is_deleted = ?", moduleID, reqData.OrderIndex, false).First(&clash).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A lesson with this order already exists in the module!", nil)
	}

	lesson := courseModels.Lesson{
		ModuleID:   uint(moduleID),
		Title:      reqData.Title,
		OrderIndex: reqData.OrderIndex,
		Duration:   reqData.Duration,
		Content:    reqData.Content,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// CreateAssignment adds an assignment to a course
func CreateAssignment(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData := new(struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Points      float64 `json:"points"`
		ModuleID    *uint   `json:"module_id"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Title == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Points <= 0 {
		reqData.Points = 100
	}

	assignment := courseModels.Assignment{
		CourseID:    uint(courseID),
		ModuleID:    reqData.ModuleID,
		Title:       reqData.Title,
		Description: reqData.Description,
		Points:      reqData.Points,
	}

	if err := database.Database.Db.Create(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment created successfully!", assignment)
}
