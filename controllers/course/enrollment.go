package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/reconcile"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse enrolls the caller in a free course. Paid courses must go
// through the payment-intent flow; the gateway webhook creates the enrollment.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	enrollment, err := reconcile.EnrollFree(database.Database.Db, userID, uint(courseID))
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
		case errors.Is(err, reconcile.ErrAlreadyEnrolled):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		case errors.Is(err, reconcile.ErrCourseNotFree):
			return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "This course requires payment. Create a payment intent to enroll.", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
		}
	}

	var course courseModels.Course
	var user models.User
	if database.Database.Db.First(&course, enrollment.CourseID).Error == nil &&
		database.Database.Db.First(&user, userID).Error == nil {
		go utils.SendEnrollmentEmail(user.Email, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// GetEnrollments lists the caller's enrollments with their courses
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Preload("Course").Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}
