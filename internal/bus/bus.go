// Package bus is a tiny synchronous pub/sub bus keyed by event type.
// Handlers run inline on the publisher's goroutine, which for core events
// is the event loop, so handlers must not block or call back into it.
package bus

import (
	"context"
	"fmt"
	"log/slog"
)

var _ctx = context.Background()

func SetContext(ctx context.Context) {
	_ctx = ctx
}

var subs = make(map[string][]func(ctx context.Context, event any))

func Subscribe[T any](name string, fn func(ctx context.Context, event T) error) {
	topic := fmt.Sprintf("%T", *new(T))
	subs[topic] = append(subs[topic], func(ctx context.Context, event any) {
		if err := fn(ctx, event.(T)); err != nil {
			slog.Error("Failed to handle event", "package", "bus", "name", name, "error", err)
		}
	})
}

func Publish[T any](event T) {
	for _, fn := range subs[fmt.Sprintf("%T", event)] {
		fn(_ctx, event)
	}
}
