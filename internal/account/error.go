package account

import "errors"

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified")
	ErrNotFound           = errors.New("account not found")
	ErrRoleUnknown        = errors.New("unknown role")
)

// Postgres unique violation code, used to detect duplicate emails.
const pgUniqueViolation = "23505"
