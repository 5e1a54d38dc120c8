// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package notify

import (
	"context"
	"errors"
	"sync"
)

// ErrDeliveryFailed is returned by Memory while failing is switched on.
var ErrDeliveryFailed = errors.New("delivery failed")

// Message is a captured outgoing mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Memory records messages instead of sending them.
type Memory struct {
	messages []Message
	mu       sync.Mutex
	fail     bool
}

// NewMemory creates an empty outbox.
func NewMemory() *Memory {
	return &Memory{}
}

// Send records the message, or fails with ErrDeliveryFailed.
func (m *Memory) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return ErrDeliveryFailed
	}
	m.messages = append(m.messages, Message{To: to, Subject: subject, Body: body})
	return nil
}

// Fail toggles delivery failures.
func (m *Memory) Fail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

// Messages returns a copy of all recorded messages.
func (m *Memory) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}

// Last returns the most recent message sent to the given address.
func (m *Memory) Last(to string) (Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].To == to {
			return m.messages[i], true
		}
	}
	return Message{}, false
}
