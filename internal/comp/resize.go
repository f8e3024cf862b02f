package comp

import (
	"fmt"

	"github.com/ItsNotGoodName/way-compositor/internal/geom"
)

// ResizeEdge is the bitmask of edges an interactive resize is dragging.
// The values match the xdg_toplevel resize_edge enum.
type ResizeEdge uint32

const (
	EdgeNone   ResizeEdge = 0
	EdgeTop    ResizeEdge = 1
	EdgeBottom ResizeEdge = 2
	EdgeLeft   ResizeEdge = 4
	EdgeRight  ResizeEdge = 8

	EdgeTopLeft     = EdgeTop | EdgeLeft
	EdgeBottomLeft  = EdgeBottom | EdgeLeft
	EdgeTopRight    = EdgeTop | EdgeRight
	EdgeBottomRight = EdgeBottom | EdgeRight
)

func (e ResizeEdge) Intersects(o ResizeEdge) bool {
	return e&o != 0
}

// ResizeData captures the window at the moment a resize started. Top/left
// resizing re-derives the location from it on every commit so the opposite
// edge stays fixed.
type ResizeData struct {
	Edges                 ResizeEdge
	InitialWindowLocation geom.Point
	InitialWindowSize     geom.Size
}

// ResizeStatus is the phase of the resize handshake.
type ResizeStatus int

const (
	// NotResizing means no resize is in progress.
	NotResizing ResizeStatus = iota
	// Resizing means a grab is actively proposing sizes.
	Resizing
	// WaitingForFinalAck means the grab released and the client must
	// acknowledge the final configure.
	WaitingForFinalAck
	// WaitingForCommit means the final configure was acknowledged and the
	// client must commit a buffer at the new size.
	WaitingForCommit
)

func (s ResizeStatus) String() string {
	switch s {
	case NotResizing:
		return "not-resizing"
	case Resizing:
		return "resizing"
	case WaitingForFinalAck:
		return "waiting-for-final-ack"
	case WaitingForCommit:
		return "waiting-for-commit"
	default:
		return fmt.Sprintf("resize-status(%d)", int(s))
	}
}

// ResizeState is the per-surface resize handshake state machine. The only
// legal forward path is NotResizing -> Resizing -> WaitingForFinalAck ->
// WaitingForCommit -> NotResizing, with the ack stage skipped for shells
// that have no acknowledgment round-trip.
type ResizeState struct {
	Status ResizeStatus
	Data   ResizeData
	// Serial of the final configure, set while Status is WaitingForFinalAck.
	Serial Serial
}

// StartResize begins a resize. A client may legitimately start a new
// resize while an earlier handshake is still draining, the new one simply
// replaces it.
func (s *ResizeState) StartResize(data ResizeData) {
	*s = ResizeState{Status: Resizing, Data: data}
}

// FinishWithAck moves Resizing to WaitingForFinalAck, recording the serial
// of the final configure the client must acknowledge.
func (s *ResizeState) FinishWithAck(serial Serial) {
	if s.Status != Resizing {
		panic(fmt.Sprintf("comp: resize finalized in state %v", s.Status))
	}
	*s = ResizeState{Status: WaitingForFinalAck, Data: s.Data, Serial: serial}
}

// FinishWithoutAck moves Resizing directly to WaitingForCommit, for
// toplevel kinds whose protocol has no configure acknowledgment.
func (s *ResizeState) FinishWithoutAck() {
	if s.Status != Resizing {
		panic(fmt.Sprintf("comp: resize finalized in state %v", s.Status))
	}
	*s = ResizeState{Status: WaitingForCommit, Data: s.Data}
}

// Acked moves WaitingForFinalAck to WaitingForCommit.
func (s *ResizeState) Acked() {
	if s.Status != WaitingForFinalAck {
		panic(fmt.Sprintf("comp: resize acked in state %v", s.Status))
	}
	*s = ResizeState{Status: WaitingForCommit, Data: s.Data}
}

// Committed completes the handshake once the client commits at the final
// size. It is a no-op outside WaitingForCommit, commits during the earlier
// phases are routine.
func (s *ResizeState) Committed() {
	if s.Status == WaitingForCommit {
		*s = ResizeState{}
	}
}

// Active reports whether a resize is anywhere in flight.
func (s *ResizeState) Active() bool {
	return s.Status != NotResizing
}
