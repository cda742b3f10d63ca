package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("balance not sufficient")

	// Customer errors
	ErrCustomerNotFound = errors.New("customer not found")

	// Validation errors
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidAccountKind = errors.New("invalid account kind")
	ErrInvalidPage        = errors.New("page and size must not be negative")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
