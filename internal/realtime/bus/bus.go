package bus

import (
	"context"

	"github.com/strideworks/stride-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, msg realtime.Event) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.Event)) error
	Close() error
}

// NewNopBus is used when no REDIS_ADDR is configured; publishing succeeds
// silently.
func NewNopBus() Bus { return nopBus{} }

type nopBus struct{}

func (nopBus) Publish(ctx context.Context, msg realtime.Event) error { return nil }
func (nopBus) StartForwarder(ctx context.Context, onMsg func(m realtime.Event)) error {
	return nil
}
func (nopBus) Close() error { return nil }
