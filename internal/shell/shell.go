// Package shell translates inbound protocol requests into window-map and
// grab operations, and runs the event loop that dispatches them together
// with device input and surface commits.
package shell

import (
	"log/slog"
	"math/rand/v2"

	"github.com/ItsNotGoodName/way-compositor/internal/comp"
	"github.com/ItsNotGoodName/way-compositor/internal/geom"
)

// defaultPlacement is used to place new toplevels when no output exists.
var defaultPlacement = geom.Rt(0, 0, 800, 800)

type Shell struct {
	windows *comp.WindowMap
	outputs *comp.OutputMap
	pointer *comp.Pointer
	serials *comp.SerialCounter
}

func New(windows *comp.WindowMap, outputs *comp.OutputMap, pointer *comp.Pointer, serials *comp.SerialCounter) *Shell {
	return &Shell{
		windows: windows,
		outputs: outputs,
		pointer: pointer,
		serials: serials,
	}
}

func (s *Shell) Windows() *comp.WindowMap {
	return s.windows
}

func (s *Shell) Outputs() *comp.OutputMap {
	return s.outputs
}

func (s *Shell) Pointer() *comp.Pointer {
	return s.pointer
}

func (s *Shell) Serials() *comp.SerialCounter {
	return s.serials
}

// NewToplevel maps a new toplevel at a random spot in the upper-left two
// thirds of the primary output. No configure goes out here, the first
// configure is commit processing's job.
func (s *Shell) NewToplevel(toplevel comp.Toplevel) {
	region := defaultPlacement
	if p := s.outputs.Primary(); p != nil {
		region = p.Geometry()
	}
	maxX := region.Size.W * 2 / 3
	maxY := region.Size.H * 2 / 3
	location := geom.Pt(
		region.Loc.X+rand.IntN(max(maxX, 1)),
		region.Loc.Y+rand.IntN(max(maxY, 1)),
	)
	s.windows.Insert(toplevel, location)
}

// NewFullscreenToplevel maps a legacy-shell toplevel straight to
// fullscreen on the requested output.
func (s *Shell) NewFullscreenToplevel(toplevel *comp.LegacyToplevel, outputName string) {
	geometry, ok := s.resolveOutputGeometry(toplevel.Surface(), outputName)
	if !ok {
		return
	}
	s.windows.Insert(toplevel, geometry.Loc)
	toplevel.SendConfigure(geometry.Size, comp.EdgeNone)
}

func (s *Shell) NewPopup(kind comp.PopupKind) {
	s.windows.InsertPopup(kind)
}

// Move starts an interactive move. The request must ride an active
// implicit grab whose focus belongs to the requesting client, anything
// else is a routine race and is dropped silently.
func (s *Shell) Move(toplevel comp.Toplevel, serial comp.Serial) {
	if !s.pointer.HasGrab(serial) {
		return
	}
	start := s.pointer.GrabStartData()
	if start.Focus == nil || start.Focus.Surface.Client() != toplevel.Surface().Client() {
		return
	}
	initialWindowLocation, ok := s.windows.Location(toplevel)
	if !ok {
		return
	}

	// Dragging a maximized window unmaximizes it and re-anchors the drag
	// to the pointer so the window does not jump.
	if xdg, isXDG := toplevel.(*comp.XDGToplevel); isXDG {
		if xdg.Current().States.Has(comp.XDGStateMaximized) {
			xdg.WithPendingState(func(st *comp.XDGToplevelState) {
				st.States &^= comp.XDGStateMaximized
				st.Size = geom.Size{}
			})
			xdg.SendConfigure()
			initialWindowLocation = s.pointer.CurrentLocation().Round()
		}
	}

	s.pointer.SetGrab(&comp.MoveGrab{
		Start:                 start,
		Windows:               s.windows,
		Toplevel:              toplevel,
		InitialWindowLocation: initialWindowLocation,
	}, serial)
}

// Resize starts an interactive resize, validated the same way as Move.
func (s *Shell) Resize(toplevel comp.Toplevel, serial comp.Serial, edges comp.ResizeEdge) {
	if !s.pointer.HasGrab(serial) {
		return
	}
	start := s.pointer.GrabStartData()
	if start.Focus == nil || start.Focus.Surface.Client() != toplevel.Surface().Client() {
		return
	}
	initialWindowLocation, ok := s.windows.Location(toplevel)
	if !ok {
		return
	}
	geometry, _ := s.windows.Geometry(toplevel)
	initialWindowSize := geometry.Size

	toplevel.Surface().State().ResizeState.StartResize(comp.ResizeData{
		Edges:                 edges,
		InitialWindowLocation: initialWindowLocation,
		InitialWindowSize:     initialWindowSize,
	})

	s.pointer.SetGrab(&comp.ResizeGrab{
		Start:             start,
		Toplevel:          toplevel,
		Edges:             edges,
		InitialWindowSize: initialWindowSize,
		LastWindowSize:    initialWindowSize,
	}, serial)
}

// AckConfigure processes a configure acknowledgment. When the surface is
// waiting for the final resize ack and the client acknowledged it while
// its current state still says resizing, the handshake advances to
// waiting-for-commit; the visible size only changes once the client has
// both acked and redrawn, collapsing the two steps tears.
func (s *Shell) AckConfigure(surface comp.Surface, serial comp.Serial) {
	toplevel := s.windows.Find(surface)
	xdg, ok := toplevel.(*comp.XDGToplevel)
	if !ok {
		return
	}

	rs := &surface.State().ResizeState
	if rs.Status == comp.WaitingForFinalAck && serial >= rs.Serial &&
		xdg.Current().States.Has(comp.XDGStateResizing) {
		rs.Acked()
	}

	xdg.AckConfigure(serial)
}

// Fullscreen makes the toplevel cover one whole output. An explicit output
// that does not exist drops the request.
func (s *Shell) Fullscreen(toplevel comp.Toplevel, outputName string) {
	geometry, ok := s.resolveOutputGeometry(toplevel.Surface(), outputName)
	if !ok {
		slog.Debug("Dropping fullscreen request for unknown output", "output", outputName)
		return
	}
	s.windows.SetLocation(toplevel, geometry.Loc)
	switch t := toplevel.(type) {
	case *comp.XDGToplevel:
		t.WithPendingState(func(st *comp.XDGToplevelState) {
			st.States |= comp.XDGStateFullscreen
			st.Size = geometry.Size
			st.FullscreenOutput = outputName
		})
		t.SendConfigure()
	case *comp.LegacyToplevel:
		t.SendConfigure(geometry.Size, comp.EdgeNone)
	case *comp.X11Toplevel:
		t.ConfigureSize(geometry.Size)
	}
}

// Unfullscreen clears the size override so the client renegotiates its
// natural size.
func (s *Shell) Unfullscreen(toplevel comp.Toplevel) {
	if xdg, ok := toplevel.(*comp.XDGToplevel); ok {
		xdg.WithPendingState(func(st *comp.XDGToplevelState) {
			st.States &^= comp.XDGStateFullscreen
			st.Size = geom.Size{}
			st.FullscreenOutput = ""
		})
		xdg.SendConfigure()
	}
}

// Maximize fills the resolved output, independently of fullscreen.
func (s *Shell) Maximize(toplevel comp.Toplevel) {
	geometry, ok := s.resolveOutputGeometry(toplevel.Surface(), "")
	if !ok {
		return
	}
	s.windows.SetLocation(toplevel, geometry.Loc)
	switch t := toplevel.(type) {
	case *comp.XDGToplevel:
		t.WithPendingState(func(st *comp.XDGToplevelState) {
			st.States |= comp.XDGStateMaximized
			st.Size = geometry.Size
		})
		t.SendConfigure()
	case *comp.LegacyToplevel:
		t.SendConfigure(geometry.Size, comp.EdgeNone)
	case *comp.X11Toplevel:
		t.ConfigureSize(geometry.Size)
	}
}

func (s *Shell) Unmaximize(toplevel comp.Toplevel) {
	if xdg, ok := toplevel.(*comp.XDGToplevel); ok {
		xdg.WithPendingState(func(st *comp.XDGToplevelState) {
			st.States &^= comp.XDGStateMaximized
			st.Size = geom.Size{}
		})
		xdg.SendConfigure()
	}
}

// resolveOutputGeometry picks the output rectangle for fullscreen and
// maximize requests: the explicitly named output wins outright, otherwise
// the output under the mapped window, otherwise the primary output.
func (s *Shell) resolveOutputGeometry(surface comp.Surface, outputName string) (geom.Rect, bool) {
	if outputName != "" {
		if o := s.outputs.FindByName(outputName); o != nil {
			return o.Geometry(), true
		}
		return geom.Rect{}, false
	}
	if toplevel := s.windows.Find(surface); toplevel != nil {
		if location, ok := s.windows.Location(toplevel); ok {
			if o := s.outputs.FindByPosition(location); o != nil {
				return o.Geometry(), true
			}
		}
	}
	if p := s.outputs.Primary(); p != nil {
		return p.Geometry(), true
	}
	return geom.Rect{}, false
}
