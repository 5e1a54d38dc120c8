// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import "context"

// Event names.
const (
	EventRegistered = "registered"
	EventConfirmed  = "confirmed"
	EventCodeResent = "code_resent"
	EventLoggedIn   = "logged_in"
)

// Event describes a completed account operation. Payload holds the new
// confirmation code for registered and code_resent, and the issued token
// for logged_in.
type Event struct {
	Name      string
	AccountID string
	Payload   string
}

// Observer is notified after each completed operation.
type Observer func(ctx context.Context, event Event)

// Observers fans an event out to every non-nil observer in order.
func Observers(observers ...Observer) Observer {
	return func(ctx context.Context, event Event) {
		for _, o := range observers {
			if o != nil {
				o(ctx, event)
			}
		}
	}
}

func (o Observer) notify(ctx context.Context, event Event) {
	if o != nil {
		o(ctx, event)
	}
}
