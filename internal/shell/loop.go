package shell

import (
	"context"
	"log/slog"

	"github.com/ItsNotGoodName/way-compositor/internal/comp"
	"github.com/ItsNotGoodName/way-compositor/internal/geom"
)

// Events consumed by the loop. The protocol and backend layers post these,
// one at a time, and the loop applies them synchronously on its goroutine.
type (
	EventPointerMotion struct {
		Location geom.PointF
		Time     uint32
	}
	EventPointerButton struct {
		Button uint32
		State  comp.ButtonState
		Time   uint32
	}
	EventPointerAxis struct {
		Horizontal float64
		Vertical   float64
	}
	EventCommit struct {
		Surface comp.Surface
	}
	EventFrame struct {
		Time uint32
	}
	EventNewToplevel struct {
		Toplevel comp.Toplevel
	}
	EventNewPopup struct {
		Kind comp.PopupKind
	}
	EventMove struct {
		Toplevel comp.Toplevel
		Serial   comp.Serial
	}
	EventResize struct {
		Toplevel comp.Toplevel
		Serial   comp.Serial
		Edges    comp.ResizeEdge
	}
	EventAckConfigure struct {
		Surface comp.Surface
		Serial  comp.Serial
	}
	EventFullscreen struct {
		Toplevel comp.Toplevel
		Output   string
	}
	EventUnfullscreen struct {
		Toplevel comp.Toplevel
	}
	EventMaximize struct {
		Toplevel comp.Toplevel
	}
	EventUnmaximize struct {
		Toplevel comp.Toplevel
	}
	eventSnapshot struct {
		replyC chan Snapshot
	}
)

// Loop owns the single goroutine all core state is mutated on.
type Loop struct {
	shell  *Shell
	eventC chan any
}

func NewLoop(shell *Shell) *Loop {
	return &Loop{
		shell:  shell,
		eventC: make(chan any),
	}
}

func (l *Loop) String() string {
	return "shell.Loop"
}

// Dispatch posts an event to the loop.
func (l *Loop) Dispatch(ctx context.Context, ev any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case l.eventC <- ev:
		return nil
	}
}

// Serve implements suture.Service.
func (l *Loop) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-l.eventC:
			// Purge the dead before anything trusts a hit test.
			l.shell.Windows().Refresh()
			l.handle(ev)
		}
	}
}

func (l *Loop) handle(ev any) {
	s := l.shell
	switch ev := ev.(type) {
	case EventPointerMotion:
		s.Pointer().Motion(ev.Location, s.Serials().Next(), ev.Time)
	case EventPointerButton:
		pointer := s.Pointer()
		if ev.State == comp.ButtonPressed && pointer.NoButtonsPressed() {
			// A fresh click raises and activates the window under it.
			s.Windows().GetSurfaceAndBringToTop(pointer.CurrentLocation())
		}
		pointer.Button(ev.Button, ev.State, s.Serials().Next(), ev.Time)
	case EventPointerAxis:
		s.Pointer().Axis(ev.Horizontal, ev.Vertical)
	case EventCommit:
		s.Windows().Commit(ev.Surface)
	case EventFrame:
		s.Windows().SendFrames(ev.Time)
	case EventNewToplevel:
		s.NewToplevel(ev.Toplevel)
	case EventNewPopup:
		s.NewPopup(ev.Kind)
	case EventMove:
		s.Move(ev.Toplevel, ev.Serial)
	case EventResize:
		s.Resize(ev.Toplevel, ev.Serial, ev.Edges)
	case EventAckConfigure:
		s.AckConfigure(ev.Surface, ev.Serial)
	case EventFullscreen:
		s.Fullscreen(ev.Toplevel, ev.Output)
	case EventUnfullscreen:
		s.Unfullscreen(ev.Toplevel)
	case EventMaximize:
		s.Maximize(ev.Toplevel)
	case EventUnmaximize:
		s.Unmaximize(ev.Toplevel)
	case eventSnapshot:
		ev.replyC <- l.snapshot()
	default:
		slog.Debug("Unknown event", "event", ev)
	}
}

// Snapshot captures the registry for out-of-loop readers such as the HTTP
// API. It must round-trip through the loop, nothing else may read core
// state concurrently.
type Snapshot struct {
	Windows []WindowInfo
	Outputs []OutputInfo
}

type WindowInfo struct {
	UUID      string
	Kind      string
	Location  geom.Point
	BBox      geom.Rect
	Geometry  geom.Rect
	Activated bool
	Resizing  string
}

type OutputInfo struct {
	UUID     string
	Name     string
	Geometry geom.Rect
	Scale    float64
	Primary  bool
}

func (l *Loop) Snapshot(ctx context.Context) (Snapshot, error) {
	replyC := make(chan Snapshot, 1)
	if err := l.Dispatch(ctx, eventSnapshot{replyC: replyC}); err != nil {
		return Snapshot{}, err
	}
	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case snap := <-replyC:
		return snap, nil
	}
}

func (l *Loop) snapshot() Snapshot {
	var snap Snapshot
	windows := l.shell.Windows()
	for i := 0; i < windows.Len(); i++ {
		w := windows.At(i)
		geometry, _ := windows.Geometry(w.Toplevel())
		info := WindowInfo{
			UUID:     w.UUID,
			Kind:     toplevelKind(w.Toplevel()),
			Location: w.Location(),
			BBox:     w.BBox(),
			Geometry: geometry,
			Resizing: w.Toplevel().Surface().State().ResizeState.Status.String(),
		}
		if xdg, ok := w.Toplevel().(*comp.XDGToplevel); ok {
			info.Activated = xdg.Pending().States.Has(comp.XDGStateActivated)
		}
		snap.Windows = append(snap.Windows, info)
	}
	for i, o := range l.shell.Outputs().Outputs() {
		snap.Outputs = append(snap.Outputs, OutputInfo{
			UUID:     o.UUID,
			Name:     o.Name,
			Geometry: o.Geometry(),
			Scale:    o.Scale,
			Primary:  i == 0,
		})
	}
	return snap
}

func toplevelKind(t comp.Toplevel) string {
	switch t.(type) {
	case *comp.XDGToplevel:
		return "xdg"
	case *comp.LegacyToplevel:
		return "wl-shell"
	case *comp.X11Toplevel:
		return "x11"
	default:
		return "unknown"
	}
}
