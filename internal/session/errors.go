package session

import "errors"

var (
	// ErrAuthFailed is returned when the ticket validator rejects a ticket.
	ErrAuthFailed = errors.New("ticket validation failed")

	// ErrAlreadyAuthenticated is returned on a repeated auth message.
	ErrAlreadyAuthenticated = errors.New("session already authenticated")
)
