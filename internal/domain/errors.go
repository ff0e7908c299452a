package domain

import "errors"

var (
	// Validation errors are user-facing and abort the operation with state unchanged.
	ErrValidation       = errors.New("validation failed")
	ErrEmptyAmount      = errors.New("amount is required")
	ErrInvalidAmount    = errors.New("amount must be a number")
	ErrCategoryRequired = errors.New("category is required")

	// Ledger errors
	ErrExpenseNotFound = errors.New("expense not found")

	// Credential errors
	ErrCredentialNotFound = errors.New("no account has been created")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Storage errors
	ErrKeyNotFound  = errors.New("key not found")
	ErrPersistence  = errors.New("persistence failed")
	ErrCorruptState = errors.New("stored state is corrupt")
)
