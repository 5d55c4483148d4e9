package dashboardController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/reconcile"

	"github.com/gofiber/fiber/v2"
)

// StudentDashboard returns the caller's enrollments, academic standing and
// upcoming tasks in one payload
func StudentDashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	standing, err := reconcile.Standing(db, userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard!", nil)
	}

	var enrollments []courseModels.Enrollment
	db.Where("user_id = ? AND is_deleted = ?", userID, false).Preload("Course").Order("created_at desc").Find(&enrollments)

	type enrollmentWithProgress struct {
		courseModels.Enrollment
		Progress *reconcile.CourseProgressSummary `json:"progress"`
	}

	active := make([]enrollmentWithProgress, 0, len(enrollments))
	for _, enrollment := range enrollments {
		entry := enrollmentWithProgress{Enrollment: enrollment}
		if summary, err := reconcile.CourseProgress(db, userID, enrollment.CourseID); err == nil {
			entry.Progress = summary
		}
		active = append(active, entry)
	}

	var todos []models.Todo
	db.Where("user_id = ? AND is_deleted = ? AND completed = ?", userID, false, false).
		Order("due_date asc, created_at desc").Limit(5).Find(&todos)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"user":        user,
		"standing":    standing,
		"enrollments": active,
		"todos":       todos,
	})
}

// TeacherDashboard returns the course catalog with enrollment and submission
// counts for grading workload
func TeacherDashboard(c *fiber.Ctx) error {
	db := database.Database.Db

	var courses []courseModels.Course
	if err := db.Where("is_deleted = ?", false).Order("grade_level asc, subject asc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard!", nil)
	}

	type courseStats struct {
		courseModels.Course
		EnrollmentCount int64 `json:"enrollment_count"`
		CompletedCount  int64 `json:"completed_count"`
	}

	stats := make([]courseStats, len(courses))
	for i, course := range courses {
		stats[i] = courseStats{Course: course}
		db.Model(&courseModels.Enrollment{}).
			Where("course_id = ? AND is_deleted = ?", course.ID, false).
			Count(&stats[i].EnrollmentCount)
		db.Model(&courseModels.Enrollment{}).
			Where("course_id = ? AND is_deleted = ? AND status = ?", course.ID, false, courseModels.EnrollmentCompleted).
			Count(&stats[i].CompletedCount)
	}

	var ungraded int64
	db.Model(&courseModels.Submission{}).
		Where("status = ? AND is_deleted = ?", courseModels.SubmissionSubmitted, false).
		Count(&ungraded)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"courses":              stats,
		"ungraded_submissions": ungraded,
	})
}

// AdminDashboard returns platform-wide totals
func AdminDashboard(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalStudents, totalCourses, totalEnrollments, completedEnrollments int64
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", models.RoleStudent, false).Count(&totalStudents)
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND status = ?", false, courseModels.EnrollmentCompleted).Count(&completedEnrollments)

	var totalRevenue float64
	db.Model(&models.Payment{}).
		Where("status = ? AND is_deleted = ?", models.PaymentStatusCompleted, false).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalRevenue)

	var pendingPayments int64
	db.Model(&models.Payment{}).
		Where("status = ? AND is_deleted = ?", models.PaymentStatusPending, false).
		Count(&pendingPayments)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"total_students":        totalStudents,
		"total_courses":         totalCourses,
		"total_enrollments":     totalEnrollments,
		"completed_enrollments": completedEnrollments,
		"total_revenue":         totalRevenue,
		"pending_payments":      pendingPayments,
	})
}

// ParentDashboard returns academic standing for every child linked to the
// calling parent account
func ParentDashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var children []models.User
	if err := db.Where("parent_id = ? AND is_deleted = ?", userID, false).Find(&children).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard!", nil)
	}

	type childOverview struct {
		Child       models.User                 `json:"child"`
		Standing    *reconcile.AcademicStanding `json:"standing"`
		Enrollments []courseModels.Enrollment   `json:"enrollments"`
	}

	overviews := make([]childOverview, 0, len(children))
	for _, child := range children {
		overview := childOverview{Child: child}
		if standing, err := reconcile.Standing(db, child.ID); err == nil {
			overview.Standing = standing
		}
		db.Where("user_id = ? AND is_deleted = ?", child.ID, false).Preload("Course").Find(&overview.Enrollments)
		overviews = append(overviews, overview)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"children": overviews,
	})
}
