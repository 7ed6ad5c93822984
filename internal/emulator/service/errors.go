package service

import "errors"

var (
	ErrInvalidClient   = errors.New("invalid client credentials")
	ErrInvalidAudience = errors.New("audience not served by this tenant")
	ErrInvalidScope    = errors.New("client has not been granted the requested scopes")

	ErrClientNotFound  = errors.New("client not found")
	ErrClientProtected = errors.New("client is protected and cannot be deleted")
	ErrInvalidInput    = errors.New("invalid input")

	ErrResourceNotFound = errors.New("resource not found")
	ErrResourceConflict = errors.New("resource already exists")
)
