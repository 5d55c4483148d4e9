package reconcile

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNotEnrolled        = errors.New("not enrolled in course")
	ErrAlreadyEnrolled    = errors.New("already enrolled in course")
	ErrCourseNotFree      = errors.New("course is not free")
)
