package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/reconcile"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists active catalog courses, optionally filtered by subject
// and grade level
func GetAllCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_active = ?", false, true)

	if subject := c.Query("subject"); subject != "" {
		db = db.Where("subject = ?", subject)
	}
	if gradeLevel := c.QueryInt("grade_level"); gradeLevel > 0 {
		db = db.Where("grade_level = ?", gradeLevel)
	}

	var courses []courseModels.Course
	if err := db.Order("grade_level asc, subject asc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	// Flag the caller's enrollments so the catalog can mark owned courses
	var enrollments []courseModels.Enrollment
	database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Find(&enrollments)
	enrolled := make(map[uint]string, len(enrollments))
	for _, e := range enrollments {
		enrolled[e.CourseID] = e.Status
	}

	type courseWithEnrollment struct {
		courseModels.Course
		IsEnrolled       bool   `json:"is_enrolled"`
		EnrollmentStatus string `json:"enrollment_status,omitempty"`
	}

	result := make([]courseWithEnrollment, len(courses))
	for i, course := range courses {
		result[i] = courseWithEnrollment{Course: course}
		if status, ok := enrolled[course.ID]; ok {
			result[i].IsEnrolled = true
			result[i].EnrollmentStatus = status
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", result)
}

// GetCourseDetails returns a course with its modules, lessons and, when the
// caller is enrolled, the computed progress summary
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&modules)

	type moduleWithLessons struct {
		courseModels.Module
		Lessons []courseModels.Lesson `json:"lessons"`
	}

	result := make([]moduleWithLessons, len(modules))
	for i, module := range modules {
		result[i] = moduleWithLessons{Module: module}
		database.Database.Db.Where("module_id = ? AND is_deleted = ?", module.ID, false).Order("order_index asc").Find(&result[i].Lessons)
	}

	response := fiber.Map{
		"course":      course,
		"modules":     result,
		"is_enrolled": false,
	}

	summary, err := reconcile.CourseProgress(database.Database.Db, userID, uint(courseID))
	if err == nil {
		response["is_enrolled"] = true
		response["progress"] = summary
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", response)
}

// GetCourseAssignments lists assignments for an enrolled course
func GetCourseAssignments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	role, _ := c.Locals("role").(string)
	if role == models.RoleStudent {
		var enrollment courseModels.Enrollment
		if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
		}
	}

	var assignments []courseModels.Assignment
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("due_date asc").Find(&assignments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", assignments)
}
