package service

import "errors"

// Service layer errors. Handlers map these to HTTP responses in
// handler.MapServiceError.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// ===== Registration Errors =====
var (
	ErrUsernameRequired  = errors.New("username is required")
	ErrUsernameTooLong   = errors.New("username must be at most 64 characters")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrPasswordRequired  = errors.New("password is required")
	ErrPasswordTooShort  = errors.New("password must be at least 10 characters")
	ErrPasswordTooLong   = errors.New("password must be at most 72 characters")
	ErrSurroundingSpaces = errors.New("must not start or end with whitespace")
	ErrInvalidEmail      = errors.New("invalid email format")
)

// ===== Packing List Errors =====
var (
	ErrPackListNotFound = errors.New("packing list not found")
)
