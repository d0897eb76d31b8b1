package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidRecipient = errors.New("invalid_recipient")
	ErrSenderDisabled   = errors.New("sender_disabled")
)

// EmailMessage is a plain-text notification addressed to one recipient.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers notification messages. Delivery failures are
// reported to the caller; they never veto the domain operation that
// triggered the notification.
type Sender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// ContactDirectory resolves the notification address for a loan
// provider by its display name. The second return is false when the
// provider has no address on file.
type ContactDirectory interface {
	ProviderEmail(ctx context.Context, providerName string) (string, bool, error)
}
