package reconcile

import (
	"fmt"
	"testing"

	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Payment{},
		&models.PaymentPlan{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.Lesson{},
		&courseModels.Enrollment{},
		&courseModels.Progress{},
		&courseModels.Assignment{},
		&courseModels.Submission{},
	)
	require.NoError(t, err)
	return db
}

func createStudent(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	grade := 9
	user := &models.User{
		Email:      fmt.Sprintf("%s@example.com", t.Name()),
		Name:       "Test Student",
		Password:   "hashed",
		Role:       models.RoleStudent,
		GradeLevel: &grade,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createCourse builds a course with the given module/lesson layout and
// returns it along with every lesson in order.
func createCourse(t *testing.T, db *gorm.DB, credits, numModules, lessonsPerModule int, free bool) (*courseModels.Course, []courseModels.Lesson) {
	t.Helper()
	course := &courseModels.Course{
		Title:    "Algebra I",
		Subject:  "Mathematics",
		Credits:  credits,
		Price:    250,
		IsFree:   free,
		IsActive: true,
	}
	require.NoError(t, db.Create(course).Error)

	var lessons []courseModels.Lesson
	for m := 0; m < numModules; m++ {
		module := &courseModels.Module{
			CourseID:   course.ID,
			Title:      fmt.Sprintf("Module %d", m+1),
			OrderIndex: m,
		}
		require.NoError(t, db.Create(module).Error)

		for l := 0; l < lessonsPerModule; l++ {
			lesson := courseModels.Lesson{
				ModuleID:   module.ID,
				Title:      fmt.Sprintf("Lesson %d.%d", m+1, l+1),
				OrderIndex: l,
				Duration:   30,
			}
			require.NoError(t, db.Create(&lesson).Error)
			lessons = append(lessons, lesson)
		}
	}
	return course, lessons
}

func TestCourseProgressNotEnrolled(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)
	course, _ := createCourse(t, db, 4, 1, 2, true)

	_, err := CourseProgress(db, user.ID, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestCourseProgressScenario(t *testing.T) {
	// 2 modules x 2 lessons, 1 completed => 25%
	db := setupTestDB(t)
	user := createStudent(t, db)
	course, lessons := createCourse(t, db, 4, 2, 2, true)

	_, err := EnrollFree(db, user.ID, course.ID)
	require.NoError(t, err)

	score := 95.0
	_, _, err = SaveLessonProgress(db, user.ID, lessons[0].ID, true, &score, 1800)
	require.NoError(t, err)

	summary, err := CourseProgress(db, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalLessons)
	assert.Equal(t, 1, summary.CompletedLessons)
	assert.Equal(t, 25, summary.ProgressPercent)
	assert.LessOrEqual(t, summary.CompletedLessons, summary.TotalLessons)
	assert.GreaterOrEqual(t, summary.ProgressPercent, 0)
	assert.LessOrEqual(t, summary.ProgressPercent, 100)
}

func TestCourseProgressZeroLessons(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)
	course, _ := createCourse(t, db, 4, 0, 0, true)

	_, err := EnrollFree(db, user.ID, course.ID)
	require.NoError(t, err)

	summary, err := CourseProgress(db, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalLessons)
	assert.Equal(t, 0, summary.ProgressPercent)
}

func TestEnrollFreeDuplicate(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)
	course, _ := createCourse(t, db, 4, 1, 2, true)

	_, err := EnrollFree(db, user.ID, course.ID)
	require.NoError(t, err)

	_, err = EnrollFree(db, user.ID, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	var count int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnrollFreeDuplicateKeyTranslated(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)
	course, _ := createCourse(t, db, 4, 1, 2, true)

	// A soft-deleted enrollment slips past the existence check but still
	// occupies the unique (user, course) index, so the insert collides the
	// way a concurrent enroll would. The driver error must come back
	// translated so callers see ErrAlreadyEnrolled, not a raw DB error.
	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID:    user.ID,
		CourseID:  course.ID,
		Status:    courseModels.EnrollmentActive,
		IsDeleted: true,
	}).Error)

	_, err := EnrollFree(db, user.ID, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollFreePaidCourse(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)
	course, _ := createCourse(t, db, 4, 1, 2, false)

	_, err := EnrollFree(db, user.ID, course.ID)
	assert.ErrorIs(t, err, ErrCourseNotFree)
}

func TestPaymentSucceededIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)
	course, _ := createCourse(t, db, 4, 2, 2, false)

	payment := models.Payment{
		UserID:   user.ID,
		Amount:   250,
		IntentID: "pi_123",
		Status:   models.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	require.NoError(t, PaymentSucceeded(db, "pi_123", user.ID, course.ID))

	var got models.Payment
	require.NoError(t, db.Where("intent_id = ?", "pi_123").First(&got).Error)
	assert.Equal(t, models.PaymentStatusCompleted, got.Status)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentActive, enrollment.Status)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.Equal(t, 4, refreshed.TotalCredits)

	// Second delivery of the same webhook: no new enrollment, no new credits.
	require.NoError(t, PaymentSucceeded(db, "pi_123", user.ID, course.ID))

	var enrollCount int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&enrollCount)
	assert.Equal(t, int64(1), enrollCount)

	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.Equal(t, 4, refreshed.TotalCredits)
}

func TestPaymentSucceededExistingEnrollment(t *testing.T) {
	// Paying for a course the user already has (e.g. a PAUSED enrollment)
	// reactivates it without banking credits again.
	db := setupTestDB(t)
	user := createStudent(t, db)
	course, _ := createCourse(t, db, 3, 1, 2, false)

	enrollment := courseModels.Enrollment{
		UserID:   user.ID,
		CourseID: course.ID,
		Status:   courseModels.EnrollmentPaused,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	payment := models.Payment{UserID: user.ID, Amount: 250, IntentID: "pi_reactivate", Status: models.PaymentStatusPending}
	require.NoError(t, db.Create(&payment).Error)

	require.NoError(t, PaymentSucceeded(db, "pi_reactivate", user.ID, course.ID))

	var got courseModels.Enrollment
	require.NoError(t, db.First(&got, enrollment.ID).Error)
	assert.Equal(t, courseModels.EnrollmentActive, got.Status)
	require.NotNil(t, got.StartDate)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.Equal(t, 0, refreshed.TotalCredits)
}

func TestPaymentSucceededMissingCourse(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)

	payment := models.Payment{UserID: user.ID, Amount: 250, IntentID: "pi_gone", Status: models.PaymentStatusPending}
	require.NoError(t, db.Create(&payment).Error)

	require.NoError(t, PaymentSucceeded(db, "pi_gone", user.ID, 9999))

	var got models.Payment
	require.NoError(t, db.Where("intent_id = ?", "pi_gone").First(&got).Error)
	assert.Equal(t, models.PaymentStatusCompleted, got.Status)

	var enrollCount int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ?", user.ID).Count(&enrollCount)
	assert.Equal(t, int64(0), enrollCount)
}

func TestPaymentSucceededUnknownIntent(t *testing.T) {
	db := setupTestDB(t)
	err := PaymentSucceeded(db, "pi_unknown", 1, 1)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestPaymentFailed(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)

	payment := models.Payment{UserID: user.ID, Amount: 250, IntentID: "pi_fail", Status: models.PaymentStatusPending}
	require.NoError(t, db.Create(&payment).Error)

	require.NoError(t, PaymentFailed(db, "pi_fail"))

	var got models.Payment
	require.NoError(t, db.Where("intent_id = ?", "pi_fail").First(&got).Error)
	assert.Equal(t, models.PaymentStatusFailed, got.Status)
}

func TestPaymentFailedAfterSuccessIsNoop(t *testing.T) {
	// Webhooks are unordered; a stale failure must not clobber a completed payment.
	db := setupTestDB(t)
	user := createStudent(t, db)
	course, _ := createCourse(t, db, 4, 1, 1, false)

	payment := models.Payment{UserID: user.ID, Amount: 250, IntentID: "pi_race", Status: models.PaymentStatusPending}
	require.NoError(t, db.Create(&payment).Error)

	require.NoError(t, PaymentSucceeded(db, "pi_race", user.ID, course.ID))
	require.NoError(t, PaymentFailed(db, "pi_race"))

	var got models.Payment
	require.NoError(t, db.Where("intent_id = ?", "pi_race").First(&got).Error)
	assert.Equal(t, models.PaymentStatusCompleted, got.Status)
}

func TestSaveLessonProgressAccumulatesTime(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)
	course, lessons := createCourse(t, db, 4, 1, 2, true)
	_, err := EnrollFree(db, user.ID, course.ID)
	require.NoError(t, err)

	_, _, err = SaveLessonProgress(db, user.ID, lessons[0].ID, false, nil, 600)
	require.NoError(t, err)
	progress, _, err := SaveLessonProgress(db, user.ID, lessons[0].ID, false, nil, 300)
	require.NoError(t, err)

	assert.Equal(t, 900, progress.TimeSpent)

	var count int64
	db.Model(&courseModels.Progress{}).Where("user_id = ? AND lesson_id = ?", user.ID, lessons[0].ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSaveLessonProgressUnknownLesson(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)

	_, _, err := SaveLessonProgress(db, user.ID, 9999, true, nil, 60)
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestSaveLessonProgressCompletesEnrollment(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)
	course, lessons := createCourse(t, db, 4, 1, 2, true)
	_, err := EnrollFree(db, user.ID, course.ID)
	require.NoError(t, err)

	// Only the save that reaches 100% reports the course as completed
	for i, lesson := range lessons {
		_, courseCompleted, err := SaveLessonProgress(db, user.ID, lesson.ID, true, nil, 60)
		require.NoError(t, err)
		assert.Equal(t, i == len(lessons)-1, courseCompleted)
	}

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)

	// Re-saving a finished course must not report another completion
	_, courseCompleted, err := SaveLessonProgress(db, user.ID, lessons[0].ID, true, nil, 60)
	require.NoError(t, err)
	assert.False(t, courseCompleted)
}

func TestStandingEmpty(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)

	standing, err := Standing(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, standing.TotalTime)
	assert.Equal(t, 0.0, standing.AverageScore)
	assert.Equal(t, 0.0, standing.CompletionRate)
	assert.Equal(t, 0.0, standing.GraduationProgressPercent)
}

func TestStandingAggregates(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)
	course, lessons := createCourse(t, db, 4, 2, 2, true)
	_, err := EnrollFree(db, user.ID, course.ID)
	require.NoError(t, err)

	score1, score2 := 80.0, 90.0
	_, _, err = SaveLessonProgress(db, user.ID, lessons[0].ID, true, &score1, 600)
	require.NoError(t, err)
	_, _, err = SaveLessonProgress(db, user.ID, lessons[1].ID, true, &score2, 900)
	require.NoError(t, err)
	// unscored, not completed
	_, _, err = SaveLessonProgress(db, user.ID, lessons[2].ID, false, nil, 300)
	require.NoError(t, err)

	standing, err := Standing(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, standing.TotalLessons)
	assert.Equal(t, 2, standing.CompletedLessons)
	assert.Equal(t, 1800, standing.TotalTime)
	// average over scored lessons only
	assert.InDelta(t, 85.0, standing.AverageScore, 0.001)
	assert.InDelta(t, 66.667, standing.CompletionRate, 0.01)
}

func TestStandingGraduationProgress(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)
	require.NoError(t, db.Model(user).UpdateColumn("total_credits", 11).Error)

	standing, err := Standing(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, standing.TotalCredits)
	assert.InDelta(t, 50.0, standing.GraduationProgressPercent, 0.001)
}

func TestRecordGradeUpdatesGPA(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db)
	course, _ := createCourse(t, db, 4, 1, 1, true)

	assignment := courseModels.Assignment{CourseID: course.ID, Title: "Essay", Points: 100}
	require.NoError(t, db.Create(&assignment).Error)

	submission := courseModels.Submission{UserID: user.ID, AssignmentID: assignment.ID, Content: "..."}
	require.NoError(t, db.Create(&submission).Error)

	graded, err := RecordGrade(db, submission.ID, 90)
	require.NoError(t, err)
	assert.Equal(t, courseModels.SubmissionGraded, graded.Status)
	require.NotNil(t, graded.Score)
	assert.Equal(t, 90.0, *graded.Score)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.InDelta(t, 3.6, refreshed.GPA, 0.001)
}

func TestRecordGradeUnknownSubmission(t *testing.T) {
	db := setupTestDB(t)
	_, err := RecordGrade(db, 9999, 50)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}
