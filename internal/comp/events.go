package comp

import "github.com/ItsNotGoodName/way-compositor/internal/geom"

// Events published on the bus by the core. Subscribers must not call back
// into the core, they run inline on the event-loop goroutine.

type EventWindowMapped struct {
	UUID      string
	SurfaceID uint64
}

type EventWindowUnmapped struct {
	UUID      string
	SurfaceID uint64
}

type EventPointerFocus struct {
	SurfaceID uint64
	Location  geom.Point
}
