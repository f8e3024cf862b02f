package comp

import (
	"math"

	"github.com/ItsNotGoodName/way-compositor/internal/geom"
)

// MoveGrab drags a toplevel with the pointer. Movement is unclamped,
// dragging a window fully off-screen is allowed.
type MoveGrab struct {
	Start                 GrabStartData
	Windows               *WindowMap
	Toplevel              Toplevel
	InitialWindowLocation geom.Point
}

func (g *MoveGrab) StartData() GrabStartData {
	return g.Start
}

func (g *MoveGrab) Motion(p *Pointer, location geom.PointF, _ Serial, _ uint32) {
	if !g.Toplevel.Alive() {
		p.UnsetGrab()
		return
	}
	delta := location.Sub(g.Start.Location)
	newLocation := g.InitialWindowLocation.Add(delta.Round())
	g.Windows.SetLocation(g.Toplevel, newLocation)
}

func (g *MoveGrab) Button(p *Pointer, button uint32, state ButtonState, serial Serial, _ uint32) {
	p.processButton(button, state, serial)
	if p.NoButtonsPressed() {
		p.UnsetGrab()
	}
}

// Axis events pass through, a move grab does not consume scroll.
func (g *MoveGrab) Axis(*Pointer, float64, float64) {}

// ResizeGrab drives an interactive resize: every motion proposes a new
// size to the client, the final size is whatever the client commits.
type ResizeGrab struct {
	Start             GrabStartData
	Toplevel          Toplevel
	Edges             ResizeEdge
	InitialWindowSize geom.Size
	LastWindowSize    geom.Size
}

func (g *ResizeGrab) StartData() GrabStartData {
	return g.Start
}

func (g *ResizeGrab) Motion(p *Pointer, location geom.PointF, _ Serial, _ uint32) {
	// Min and max size of a dead toplevel are gone, bail out.
	if !g.Toplevel.Alive() {
		p.UnsetGrab()
		return
	}

	delta := location.Sub(g.Start.Location)
	dx, dy := delta.X, delta.Y

	newW := g.InitialWindowSize.W
	newH := g.InitialWindowSize.H

	if g.Edges.Intersects(EdgeLeft | EdgeRight) {
		if g.Edges.Intersects(EdgeLeft) {
			dx = -dx
		}
		newW = int(float64(g.InitialWindowSize.W) + dx)
	}
	if g.Edges.Intersects(EdgeTop | EdgeBottom) {
		if g.Edges.Intersects(EdgeTop) {
			dy = -dy
		}
		newH = int(float64(g.InitialWindowSize.H) + dy)
	}

	cached := g.Toplevel.Surface().Cached()
	newW, newH = clampSize(newW, newH, cached.MinSize, cached.MaxSize)
	g.LastWindowSize = geom.Size{W: newW, H: newH}

	switch t := g.Toplevel.(type) {
	case *XDGToplevel:
		t.WithPendingState(func(s *XDGToplevelState) {
			s.States |= XDGStateResizing
			s.Size = g.LastWindowSize
		})
		t.SendConfigure()
	case *LegacyToplevel:
		t.SendConfigure(g.LastWindowSize, g.Edges)
	case *X11Toplevel:
		t.ConfigureSize(g.LastWindowSize)
	}
}

func (g *ResizeGrab) Button(p *Pointer, button uint32, state ButtonState, serial Serial, _ uint32) {
	p.processButton(button, state, serial)
	if !p.NoButtonsPressed() {
		return
	}
	p.UnsetGrab()

	// A dead toplevel cannot take the final configure.
	if !g.Toplevel.Alive() {
		return
	}

	st := g.Toplevel.Surface().State()
	switch t := g.Toplevel.(type) {
	case *XDGToplevel:
		t.WithPendingState(func(s *XDGToplevelState) {
			s.States &^= XDGStateResizing
			s.Size = g.LastWindowSize
		})
		t.SendConfigure()
		st.ResizeState.FinishWithAck(serial)
	default:
		// No ack round-trip in the legacy and X11 protocols, the next
		// commit finishes the resize.
		st.ResizeState.FinishWithoutAck()
	}
}

// Axis events pass through, a resize grab does not consume scroll.
func (g *ResizeGrab) Axis(*Pointer, float64, float64) {}

// clampSize bounds a proposed size to the client's declared constraints.
// The minimum floors at 1x1, a zero max leaves the axis unbounded.
func clampSize(w, h int, minSize, maxSize geom.Size) (int, int) {
	minW := max(minSize.W, 1)
	minH := max(minSize.H, 1)
	maxW := maxSize.W
	if maxW == 0 {
		maxW = math.MaxInt32
	}
	maxH := maxSize.H
	if maxH == 0 {
		maxH = math.MaxInt32
	}
	return min(max(w, minW), maxW), min(max(h, minH), maxH)
}
