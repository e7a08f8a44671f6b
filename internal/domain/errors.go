package domain

import "errors"

var (
	ErrNoDonorSession = errors.New("no donor session")
	ErrNoAdminSession = errors.New("no admin session")
	ErrUnauthorized   = errors.New("unauthorized")
)
