package comp

import "sync/atomic"

// Serial correlates a protocol request with a later acknowledgment.
type Serial uint32

// SerialCounter allocates monotonically increasing serials. One counter is
// shared by the whole compositor and injected into everything that sends
// configures.
type SerialCounter struct {
	n atomic.Uint32
}

func (c *SerialCounter) Next() Serial {
	return Serial(c.n.Add(1))
}
