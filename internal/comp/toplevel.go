package comp

import (
	"github.com/ItsNotGoodName/way-compositor/internal/geom"
)

// Toplevel is one of the three toplevel kinds: XDG shell, legacy shell or
// an XWayland surface. The set is closed, code that needs the per-kind
// configure shape switches on the concrete type.
type Toplevel interface {
	Alive() bool
	Surface() Surface
	// SetActivated toggles the protocol-visible activation state, a no-op
	// for kinds whose protocol has none.
	SetActivated(active bool)

	toplevel()
}

// SameToplevel reports identity equality, which is by underlying surface.
func SameToplevel(a, b Toplevel) bool {
	return a != nil && b != nil && a.Surface().ID() == b.Surface().ID()
}

// XDGState is the bitmask of xdg_toplevel states carried by a configure.
type XDGState uint16

const (
	XDGStateMaximized XDGState = 1 << iota
	XDGStateFullscreen
	XDGStateResizing
	XDGStateActivated
)

func (s XDGState) Has(o XDGState) bool {
	return s&o != 0
}

// XDGToplevelState is the negotiable part of an xdg_toplevel: the state set
// and the proposed size. A zero size lets the client pick.
type XDGToplevelState struct {
	States XDGState
	Size   geom.Size
	// FullscreenOutput is the name of the output the client asked to
	// fullscreen on, empty when it expressed no preference.
	FullscreenOutput string
}

// XDGConfigure is one configure event in flight to the client.
type XDGConfigure struct {
	Serial Serial
	State  XDGToplevelState
}

// XDGConfigureSender delivers configure events over the wire. The protocol
// layer owns the marshalling.
type XDGConfigureSender func(XDGConfigure)

// XDGToplevel tracks the xdg_toplevel role state: the pending state
// mutated by the shell, the configures awaiting acknowledgment and the
// current (acknowledged) state.
type XDGToplevel struct {
	surface Surface
	serials *SerialCounter
	send    XDGConfigureSender

	pending              XDGToplevelState
	sent                 []XDGConfigure
	current              XDGToplevelState
	initialConfigureSent bool
}

func NewXDGToplevel(surface Surface, serials *SerialCounter, send XDGConfigureSender) *XDGToplevel {
	return &XDGToplevel{surface: surface, serials: serials, send: send}
}

func (t *XDGToplevel) toplevel() {}

func (t *XDGToplevel) Alive() bool {
	return t.surface.Alive()
}

func (t *XDGToplevel) Surface() Surface {
	return t.surface
}

func (t *XDGToplevel) SetActivated(active bool) {
	was := t.pending.States.Has(XDGStateActivated)
	t.WithPendingState(func(s *XDGToplevelState) {
		if active {
			s.States |= XDGStateActivated
		} else {
			s.States &^= XDGStateActivated
		}
	})
	if was != active {
		t.SendConfigure()
	}
}

// WithPendingState mutates the state the next configure will carry.
func (t *XDGToplevel) WithPendingState(fn func(*XDGToplevelState)) {
	fn(&t.pending)
}

// SendConfigure snapshots the pending state into a configure event and
// sends it, returning the allocated serial.
func (t *XDGToplevel) SendConfigure() Serial {
	cfg := XDGConfigure{Serial: t.serials.Next(), State: t.pending}
	t.sent = append(t.sent, cfg)
	t.initialConfigureSent = true
	if t.send != nil {
		t.send(cfg)
	}
	return cfg.Serial
}

// AckConfigure applies the client's acknowledgment: the acked configure
// becomes current and it plus all older ones stop waiting. Serials that
// match nothing in flight are ignored.
func (t *XDGToplevel) AckConfigure(serial Serial) {
	for i, cfg := range t.sent {
		if cfg.Serial == serial {
			t.current = cfg.State
			t.sent = t.sent[i+1:]
			return
		}
	}
}

// Current returns the last acknowledged state.
func (t *XDGToplevel) Current() XDGToplevelState {
	return t.current
}

// Pending returns the state the next configure will carry.
func (t *XDGToplevel) Pending() XDGToplevelState {
	return t.pending
}

func (t *XDGToplevel) InitialConfigureSent() bool {
	return t.initialConfigureSent
}

// LegacyConfigureSender delivers a legacy-shell configure, which carries
// the size and active edges directly and is never acknowledged.
type LegacyConfigureSender func(size geom.Size, edges ResizeEdge)

// LegacyToplevel is a wl_shell toplevel. The legacy shell has no state
// set, no acks and no activation.
type LegacyToplevel struct {
	surface Surface
	send    LegacyConfigureSender
}

func NewLegacyToplevel(surface Surface, send LegacyConfigureSender) *LegacyToplevel {
	return &LegacyToplevel{surface: surface, send: send}
}

func (t *LegacyToplevel) toplevel() {}

func (t *LegacyToplevel) Alive() bool {
	return t.surface.Alive()
}

func (t *LegacyToplevel) Surface() Surface {
	return t.surface
}

func (t *LegacyToplevel) SetActivated(bool) {}

// SendConfigure proposes a size together with the active resize edges.
func (t *LegacyToplevel) SendConfigure(size geom.Size, edges ResizeEdge) {
	if t.send != nil {
		t.send(size, edges)
	}
}
