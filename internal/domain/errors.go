package domain

import "errors"

var (
	ErrNoSession          = errors.New("no active session")
	ErrPendingReply       = errors.New("previous message still pending")
	ErrEmptyMessage       = errors.New("message text is empty")
	ErrSessionNotFound    = errors.New("session not found")
	ErrMissingMessageID   = errors.New("message has no backend id")
	ErrInvalidAmount      = errors.New("invalid donation amount")
	ErrShareUnsupported   = errors.New("sharing not supported on this device")
	ErrConversationClosed = errors.New("conversation closed")
)
