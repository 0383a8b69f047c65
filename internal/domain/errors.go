package domain

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidName        = errors.New("name must be at least 2 characters")
	ErrMissingFields      = errors.New("missing required fields")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrTimeout            = errors.New("identity provider timed out")
	ErrScoreDecrease      = errors.New("score cannot decrease")
	ErrInvalidScore       = errors.New("score must not be negative")

	ErrProfileWriteFailure   = errors.New("failed to create user profile")
	ErrPersistenceCorruption = errors.New("persisted record is corrupt")
	ErrContentResolution     = errors.New("content could not be resolved")

	ErrUnknownCourse    = errors.New("course not found")
	ErrUnknownLesson    = errors.New("lesson not found")
	ErrUnknownSubLesson = errors.New("sub-lesson not found in current lesson")
	ErrSubLessonLocked  = errors.New("sub-lesson is locked")
	ErrInvalidLesson    = errors.New("lesson id must be positive")
	ErrInvalidSubLesson = errors.New("sub-lesson id must not be empty")
	ErrInvalidOutline   = errors.New("invalid course outline")
)
