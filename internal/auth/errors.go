package auth

import "errors"

// Sentinel errors raised by the token service and credential hasher. The
// middleware is the only place that translates these into HTTP responses;
// callers elsewhere branch on them with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrHashing           = errors.New("hashing failure")
	ErrExpiredToken      = errors.New("token has expired")
	ErrInvalidToken      = errors.New("invalid token")
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrStoreUnavailable  = errors.New("principal store unavailable")
)
