package service

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrPaymentRejected  = errors.New("payment not allowed")
	ErrInvalidAmount    = errors.New("deposit amount must be positive")
	ErrDepositTooLarge  = errors.New("deposit exceeds allowed limit")
)
