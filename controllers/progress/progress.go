package progressController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/reconcile"
	"lms/utils"
	progressValidator "lms/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// GetLessonProgress returns the caller's progress record for one lesson
func GetLessonProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	var progress courseModels.Progress
	if err := database.Database.Db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No progress recorded for this lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}

// SaveLessonProgress upserts the caller's progress for a lesson. Session time
// accumulates and completing the last lesson flips the enrollment to COMPLETED.
func SaveLessonProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)
	reqData, ok := c.Locals("validatedProgress").(*progressValidator.SaveProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	progress, courseCompleted, err := reconcile.SaveLessonProgress(db, userID, uint(lessonID), reqData.Completed, reqData.Score, reqData.TimeSpent)
	if err != nil {
		if errors.Is(err, reconcile.ErrLessonNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
	}

	if courseCompleted {
		notifyCourseCompleted(userID, uint(lessonID))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress saved successfully!", progress)
}

// notifyCourseCompleted mails the student once the lesson's course hits 100%
func notifyCourseCompleted(userID, lessonID uint) {
	db := database.Database.Db

	var lesson courseModels.Lesson
	if err := db.First(&lesson, lessonID).Error; err != nil {
		return
	}
	var module courseModels.Module
	if err := db.First(&module, lesson.ModuleID).Error; err != nil {
		return
	}
	var course courseModels.Course
	if err := db.First(&course, module.CourseID).Error; err != nil {
		return
	}
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return
	}

	utils.SendCourseCompletedEmail(user.Email, user.Name, course.Title, course.Credits)
}

// GetUserProgress returns the caller's overall academic standing
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	standing, err := reconcile.Standing(database.Database.Db, userID)
	if err != nil {
		if errors.Is(err, reconcile.ErrUserNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", standing)
}

// GetDetailedProgress returns the overall standing plus a per-course breakdown
// for every non-deleted enrollment
func GetDetailedProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	standing, err := reconcile.Standing(db, userID)
	if err != nil {
		if errors.Is(err, reconcile.ErrUserNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	var enrollments []courseModels.Enrollment
	db.Where("user_id = ? AND is_deleted = ?", userID, false).Preload("Course").Order("created_at desc").Find(&enrollments)

	type courseBreakdown struct {
		Enrollment courseModels.Enrollment          `json:"enrollment"`
		Progress   *reconcile.CourseProgressSummary `json:"progress"`
	}

	courses := make([]courseBreakdown, 0, len(enrollments))
	for _, enrollment := range enrollments {
		summary, err := reconcile.CourseProgress(db, userID, enrollment.CourseID)
		if err != nil {
			continue
		}
		courses = append(courses, courseBreakdown{Enrollment: enrollment, Progress: summary})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Detailed progress fetched successfully!", fiber.Map{
		"standing": standing,
		"courses":  courses,
	})
}
