package account

import "errors"

var (
	// ErrValidation marks a malformed create/update payload. The decoder
	// or validator error stays in the chain for errors.As.
	ErrValidation = errors.New("invalid payload")

	ErrUserNotFound             = errors.New("user not found")
	ErrEmailAlreadyExists       = errors.New("email already exists")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrAccountLocked            = errors.New("account locked")
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrNicknameExhausted        = errors.New("nickname generation exhausted")
)
