package domain

import "errors"

var (
	ErrAccountNotFound       = errors.New("no account with that email address exists")
	ErrInvalidOrExpiredToken = errors.New("password reset token is invalid or has expired")
	ErrPasswordTooShort      = errors.New("password must be at least 8 characters long")
)
