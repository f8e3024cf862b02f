// Package comp is the window-management core of the compositor: the window
// registry with its z-order and hit testing, per-surface commit state, the
// interactive move/resize grabs and the output layout. Everything in this
// package runs on the single event-loop goroutine, multi-step operations
// are atomic because nothing preempts them.
package comp

import (
	"github.com/ItsNotGoodName/way-compositor/internal/geom"
)

// Surface is the handle to one wire-level surface, provided by the protocol
// layer. The core only borrows it, the protocol layer controls its lifetime
// and may mark it dead at any time.
type Surface interface {
	// ID is the stable identity of the surface. All lookups in the core key
	// on it, never on the handle itself.
	ID() uint64
	// Client identifies the connection that owns the surface.
	Client() uint64
	Alive() bool
	// State returns the per-surface slot owned by the protocol layer. It is
	// allocated on first use and survives until the surface dies.
	State() *SurfaceState
	// Cached returns the most recently committed double-buffered state.
	Cached() CachedState
	// Children returns the positioned sub-surfaces in stacking order.
	Children() []Surface
	// IsSyncSubsurface reports whether the surface is a synchronized
	// sub-surface whose commit is deferred to its parent.
	IsSyncSubsurface() bool
	// SendFrame delivers pending frame callbacks, if any were requested.
	SendFrame(time uint32)
}

// CachedState is the slice of committed protocol state the core reads.
type CachedState struct {
	// BufferSize is the size of the committed buffer in logical
	// coordinates. Zero means no buffer is attached, the surface is
	// unmapped.
	BufferSize geom.Size
	// Geometry is the explicitly set window geometry, nil if the client
	// never set one.
	Geometry *geom.Rect
	// InputRegion limits where the surface accepts input, in surface-local
	// coordinates. Nil accepts input on the whole surface.
	InputRegion *geom.Rect
	// SubsurfaceOffset is the location relative to the parent, meaningful
	// only for sub-surfaces.
	SubsurfaceOffset geom.Point
	MinSize          geom.Size
	// MaxSize bounds interactive resizing, zero on an axis means unbounded.
	MaxSize geom.Size
}

// SurfaceState is the mutable per-surface record updated by commit
// processing and consulted by hit testing and the resize handshake.
type SurfaceState struct {
	// Size of the committed buffer, zero while unmapped.
	Size geom.Size
	// InputRegion in surface-local coordinates, nil for the whole surface.
	InputRegion *geom.Rect
	ResizeState ResizeState
}

// ContainsPoint reports whether the point, in surface-local coordinates,
// hits the committed input region.
func (s *SurfaceState) ContainsPoint(point geom.PointF) bool {
	if s.Size.IsZero() {
		return false
	}
	rect := geom.Rect{Size: s.Size}
	if !rect.ContainsF(point) {
		return false
	}
	if s.InputRegion != nil {
		return s.InputRegion.ContainsF(point)
	}
	return true
}

// TraversalAction steers WithSurfaceTree.
type TraversalAction int

const (
	// TraversalDoChildren descends into the sub-surfaces.
	TraversalDoChildren TraversalAction = iota
	// TraversalSkipChildren continues the walk without descending.
	TraversalSkipChildren
	// TraversalStop aborts the whole walk.
	TraversalStop
)

// WithSurfaceTree walks a surface and its positioned sub-surfaces in
// pre-order, accumulating sub-surface offsets onto loc. It reports whether
// the walk ran to completion.
func WithSurfaceTree(surface Surface, loc geom.Point, fn func(s Surface, loc geom.Point) TraversalAction) bool {
	switch fn(surface, loc) {
	case TraversalStop:
		return false
	case TraversalSkipChildren:
		return true
	}
	for _, child := range surface.Children() {
		childLoc := loc.Add(child.Cached().SubsurfaceOffset)
		if !WithSurfaceTree(child, childLoc, fn) {
			return false
		}
	}
	return true
}
