package comp

import (
	"github.com/ItsNotGoodName/way-compositor/internal/bus"
	"github.com/ItsNotGoodName/way-compositor/internal/geom"
)

// ButtonState mirrors the wire-level pointer button state.
type ButtonState int

const (
	ButtonReleased ButtonState = iota
	ButtonPressed
)

// FocusTarget is the surface under the pointer and its global location.
type FocusTarget struct {
	Surface  Surface
	Location geom.Point
}

// GrabStartData is the pointer state captured when the implicit grab
// began: the focused surface, the button that started it and where.
type GrabStartData struct {
	Focus    *FocusTarget
	Button   uint32
	Location geom.PointF
}

// PointerGrab consumes pointer events exclusively while installed. A grab
// is the only cancellable operation in the core: it releases itself when
// the button count returns to zero and force-cancels when its target dies.
type PointerGrab interface {
	Motion(p *Pointer, location geom.PointF, serial Serial, time uint32)
	Button(p *Pointer, button uint32, state ButtonState, serial Serial, time uint32)
	Axis(p *Pointer, horizontal, vertical float64)
	StartData() GrabStartData
}

// Pointer routes pointer events either to the default focus-follows-motion
// dispatch or to the active grab.
type Pointer struct {
	windows *WindowMap

	location geom.PointF
	focus    *FocusTarget
	pressed  map[uint32]struct{}

	grab       PointerGrab
	grabSerial Serial
	startData  GrabStartData
}

func NewPointer(windows *WindowMap) *Pointer {
	return &Pointer{
		windows: windows,
		pressed: make(map[uint32]struct{}),
	}
}

func (p *Pointer) CurrentLocation() geom.PointF {
	return p.location
}

// Focus returns the surface currently receiving pointer events, nil when
// the pointer floats over nothing.
func (p *Pointer) Focus() *FocusTarget {
	return p.focus
}

// HasGrab reports whether the serial corresponds to the active implicit
// grab, i.e. buttons are still held since the press that allocated it.
func (p *Pointer) HasGrab(serial Serial) bool {
	return len(p.pressed) > 0 && serial == p.grabSerial
}

// GrabStartData returns the start data of the current implicit grab.
func (p *Pointer) GrabStartData() GrabStartData {
	return p.startData
}

// SetGrab installs a grab. Subsequent motion/button/axis events route to
// it until it unsets itself.
func (p *Pointer) SetGrab(grab PointerGrab, _ Serial) {
	p.grab = grab
}

// UnsetGrab returns pointer routing to the default dispatch.
func (p *Pointer) UnsetGrab() {
	p.grab = nil
}

// NoButtonsPressed reports whether every button has been released.
func (p *Pointer) NoButtonsPressed() bool {
	return len(p.pressed) == 0
}

// Motion is the entry point for pointer motion events.
func (p *Pointer) Motion(location geom.PointF, serial Serial, time uint32) {
	p.location = location
	if p.grab != nil {
		p.grab.Motion(p, location, serial, time)
		return
	}
	p.updateFocus()
}

// Button is the entry point for pointer button events.
func (p *Pointer) Button(button uint32, state ButtonState, serial Serial, time uint32) {
	if p.grab != nil {
		p.grab.Button(p, button, state, serial, time)
		return
	}
	p.processButton(button, state, serial)
}

// Axis is the entry point for scroll events.
func (p *Pointer) Axis(horizontal, vertical float64) {
	if p.grab != nil {
		p.grab.Axis(p, horizontal, vertical)
	}
}

// processButton is the default button pipeline: implicit-grab bookkeeping
// plus delivery to the focused client, which the protocol layer owns.
// Grabs forward into it so button accounting never skips an event.
func (p *Pointer) processButton(button uint32, state ButtonState, serial Serial) {
	switch state {
	case ButtonPressed:
		if len(p.pressed) == 0 {
			p.grabSerial = serial
			p.startData = GrabStartData{
				Focus:    p.focus,
				Button:   button,
				Location: p.location,
			}
		}
		p.pressed[button] = struct{}{}
	case ButtonReleased:
		delete(p.pressed, button)
	}
}

func (p *Pointer) updateFocus() {
	s, loc, ok := p.windows.GetSurfaceUnder(p.location)
	if !ok {
		p.focus = nil
		return
	}
	if p.focus == nil || p.focus.Surface.ID() != s.ID() {
		bus.Publish(EventPointerFocus{SurfaceID: s.ID(), Location: loc})
	}
	p.focus = &FocusTarget{Surface: s, Location: loc}
}
