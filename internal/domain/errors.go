package domain

import "errors"

var (
	ErrInvalidBody            = errors.New("invalid request body")
	ErrDuplicateIdentity      = errors.New("user already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountDisabled        = errors.New("account disabled")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrTokenInvalid           = errors.New("token invalid")
	ErrTokenExpired           = errors.New("token expired")
	ErrActivationTokenInvalid = errors.New("invalid or expired activation token")
	ErrResetTokenInvalid      = errors.New("invalid or expired reset token")
	ErrUserNotFound           = errors.New("user not found")
	ErrSocialLoginNoPassword  = errors.New("cannot change password for social login")
	ErrProviderNotSupported   = errors.New("provider not supported")
	ErrOAuthStateMismatch     = errors.New("oauth state mismatch")
	ErrRateLimited            = errors.New("rate limited")
	ErrContactNotFound        = errors.New("contact not found")
)
