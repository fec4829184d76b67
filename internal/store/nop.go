package store

import "context"

// NopStore discards inquiries. Used when no database path is configured.
type NopStore struct{}

func (NopStore) SaveContact(context.Context, ContactMessage) error { return nil }

func (NopStore) Close() error { return nil }
