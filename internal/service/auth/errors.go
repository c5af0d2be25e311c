package auth

import "errors"

// Token validation errors. The API layer maps all of them to 401.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")
	ErrWrongTokenType   = errors.New("wrong token type")
)
