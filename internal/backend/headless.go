// Package backend drives the shell loop from the outside world. The headless
// backend has no rendering and only ticks frame callbacks.
package backend

import (
	"context"
	"time"

	"github.com/ItsNotGoodName/way-compositor/internal/shell"
)

const frameInterval = time.Second / 60

type Headless struct {
	loop  *shell.Loop
	start time.Time
}

func NewHeadless(loop *shell.Loop) Headless {
	return Headless{
		loop:  loop,
		start: time.Now(),
	}
}

func (Headless) String() string {
	return "backend.Headless"
}

func (h Headless) Serve(ctx context.Context) error {
	t := time.NewTicker(frameInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			ev := shell.EventFrame{Time: uint32(now.Sub(h.start).Milliseconds())}
			if err := h.loop.Dispatch(ctx, ev); err != nil {
				return err
			}
		}
	}
}
