package domain

import "errors"

var (
	ErrInvalidUserID      = errors.New("invalid user id")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidMessage     = errors.New("message needs text or an image")
	ErrHandshakeRejected  = errors.New("handshake rejected")
	ErrConnectionClosed   = errors.New("connection closed")
	ErrSendBufferFull     = errors.New("send buffer full")
	ErrHandleOwnership    = errors.New("handle already registered to another user")
)
