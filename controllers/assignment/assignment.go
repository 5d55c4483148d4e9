package assignmentController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/reconcile"
	"lms/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// SubmitAssignment records the caller's submission. Resubmission is allowed
// until the work has been graded.
func SubmitAssignment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil || assignmentID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Assignment ID!", nil)
	}

	reqData := new(struct {
		Content string `json:"content"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Content == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Submission content is required!", nil)
	}

	db := database.Database.Db

	var assignment courseModels.Assignment
	if err := db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, assignment.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	var submission courseModels.Submission
	err = db.Where("user_id = ? AND assignment_id = ?", userID, assignmentID).First(&submission).Error
	if err == nil {
		if submission.Status == courseModels.SubmissionGraded {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "This assignment has already been graded!", nil)
		}
		submission.Content = reqData.Content
		submission.SubmittedAt = time.Now()
		if err := db.Save(&submission).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment resubmitted successfully!", submission)
	}

	submission = courseModels.Submission{
		UserID:       userID,
		AssignmentID: uint(assignmentID),
		Status:       courseModels.SubmissionSubmitted,
		Content:      reqData.Content,
		SubmittedAt:  time.Now(),
	}

	if err := db.Create(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment submitted successfully!", submission)
}

// GetMySubmissions lists the caller's submissions with their assignments
func GetMySubmissions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var submissions []courseModels.Submission
	if err := database.Database.Db.Where("user_id = ?", userID).Preload("Assignment").Order("created_at desc").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", submissions)
}

// GradeSubmission scores a submission and recomputes the student's GPA
// (Teacher/Admin only, gated in routes)
func GradeSubmission(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil || submissionID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Submission ID!", nil)
	}

	reqData := new(struct {
		Score *float64 `json:"score"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Score == nil || *reqData.Score < 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A non-negative score is required!", nil)
	}

	db := database.Database.Db

	submission, err := reconcile.RecordGrade(db, uint(submissionID), *reqData.Score)
	if err != nil {
		if errors.Is(err, reconcile.ErrSubmissionNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	var assignment courseModels.Assignment
	var student models.User
	if db.First(&assignment, submission.AssignmentID).Error == nil &&
		db.First(&student, submission.UserID).Error == nil {
		utils.SendGradeNotificationEmail(student.Email, student.Name, assignment.Title, *reqData.Score, assignment.Points)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", submission)
}
