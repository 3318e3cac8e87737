package service

import "learnquest/internal/apperr"

// Account
var (
	ErrInvalidInput       = apperr.New(apperr.KindValidation, "invalid_input", "invalid input")
	ErrInvalidEmail       = apperr.New(apperr.KindValidation, "invalid_email", "enter a valid email address")
	ErrWeakPassword       = apperr.New(apperr.KindValidation, "weak_password", "password must be at least 8 characters")
	ErrPasswordTooLong    = apperr.New(apperr.KindValidation, "password_too_long", "password must be at most 72 bytes")
	ErrDuplicateUsername  = apperr.New(apperr.KindConflict, "duplicate_username", "username already exists")
	ErrDuplicateEmail     = apperr.New(apperr.KindConflict, "duplicate_email", "email already registered")
	ErrInvalidCredentials = apperr.New(apperr.KindAuth, "invalid_credentials", "invalid credentials")
	ErrAccountDisabled    = apperr.New(apperr.KindAuth, "account_disabled", "account disabled")
	ErrUnauthenticated    = apperr.New(apperr.KindAuth, "unauthenticated", "authentication required")
	ErrInvalidResetToken  = apperr.New(apperr.KindValidation, "invalid_reset_token", "reset token is invalid or expired")
)

// Catalog and progression
var (
	ErrUserNotFound            = apperr.New(apperr.KindNotFound, "user_not_found", "user not found")
	ErrPathNotFound            = apperr.New(apperr.KindNotFound, "path_not_found", "learning path not found")
	ErrLessonNotFound          = apperr.New(apperr.KindNotFound, "lesson_not_found", "lesson not found")
	ErrSkillNodeNotFound       = apperr.New(apperr.KindNotFound, "skill_not_found", "skill node not found")
	ErrAlreadyUnlocked         = apperr.New(apperr.KindConflict, "already_unlocked", "skill already unlocked")
	ErrInsufficientSkillPoints = apperr.New(apperr.KindResource, "insufficient_sp", "not enough skill points")
	ErrPrerequisitesNotMet     = apperr.New(apperr.KindResource, "prerequisites_not_met", "prerequisites not met")
)

// Shop
var (
	ErrThemeNotFound = apperr.New(apperr.KindNotFound, "theme_not_found", "theme not found")
	ErrAlreadyOwned  = apperr.New(apperr.KindConflict, "already_owned", "theme already purchased")
	ErrNotOwned      = apperr.New(apperr.KindResource, "not_owned", "theme not purchased")
)
