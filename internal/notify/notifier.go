package notify

import (
	"context"
	"errors"

	"github.com/timmy/pvhub/internal/logger"
)

// Notifier delivers an out-of-band message to the site owner.
type Notifier interface {
	NotifyOwner(ctx context.Context, title, content string) error
}

// Multi fans a notification out to every configured channel.
type Multi struct {
	notifiers []Notifier
}

// NewMulti combines notifiers. Nil entries are skipped.
func NewMulti(notifiers ...Notifier) *Multi {
	m := &Multi{}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

// Len returns the number of channels.
func (m *Multi) Len() int {
	return len(m.notifiers)
}

// NotifyOwner sends to every channel and joins their errors.
func (m *Multi) NotifyOwner(ctx context.Context, title, content string) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.NotifyOwner(ctx, title, content); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes notifications to the log. It is the channel used when
// nothing else is configured.
type LogNotifier struct{}

// NotifyOwner logs title and content.
func (LogNotifier) NotifyOwner(ctx context.Context, title, content string) error {
	logger.With(logger.Fields{"title": title}).Info(ctx, "Owner notification: %s", content)
	return nil
}
