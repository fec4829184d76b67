// Package store persists contact-form inquiries.
package store

import (
	"context"
	"time"
)

// ContactMessage is one submitted "Contact us" inquiry.
type ContactMessage struct {
	SessionID string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// ContactStore records contact inquiries.
type ContactStore interface {
	SaveContact(ctx context.Context, msg ContactMessage) error
	Close() error
}
