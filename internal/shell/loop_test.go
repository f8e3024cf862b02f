package shell

import (
	"context"
	"testing"

	"github.com/ItsNotGoodName/way-compositor/internal/comp"
	"github.com/ItsNotGoodName/way-compositor/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T, s *Shell) *Loop {
	t.Helper()
	loop := NewLoop(s)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return loop
}

func TestLoop_Snapshot(t *testing.T) {
	s := newTestShell(t)
	loop := startLoop(t, s)
	ctx := context.Background()

	snap, err := loop.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Windows)
	require.Len(t, snap.Outputs, 1)
	assert.Equal(t, "headless-1", snap.Outputs[0].Name)
	assert.True(t, snap.Outputs[0].Primary)
	assert.Equal(t, geom.Rt(0, 0, 1920, 1080), snap.Outputs[0].Geometry)

	surface := newFakeSurface(1, geom.Sz(400, 400))
	top := comp.NewXDGToplevel(surface, s.Serials(), nil)
	require.NoError(t, loop.Dispatch(ctx, EventNewToplevel{Toplevel: top}))
	require.NoError(t, loop.Dispatch(ctx, EventCommit{Surface: surface}))

	snap, err = loop.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Windows, 1)
	assert.Equal(t, "xdg", snap.Windows[0].Kind)
	assert.Equal(t, geom.Sz(400, 400), snap.Windows[0].BBox.Size)
	assert.NotEmpty(t, snap.Windows[0].UUID)
	assert.Equal(t, "not-resizing", snap.Windows[0].Resizing)
}

func TestLoop_PressRaisesAndActivates(t *testing.T) {
	s := newTestShell(t)
	loop := startLoop(t, s)
	ctx := context.Background()

	sa := newFakeSurface(1, geom.Sz(400, 400))
	a := comp.NewXDGToplevel(sa, s.Serials(), nil)
	require.NoError(t, loop.Dispatch(ctx, EventNewToplevel{Toplevel: a}))
	require.NoError(t, loop.Dispatch(ctx, EventCommit{Surface: sa}))

	snap, err := loop.Snapshot(ctx)
	require.NoError(t, err)
	location := snap.Windows[0].BBox.Loc

	click := location.F()
	require.NoError(t, loop.Dispatch(ctx, EventPointerMotion{Location: click}))
	require.NoError(t, loop.Dispatch(ctx, EventPointerButton{Button: testButton, State: comp.ButtonPressed}))

	snap, err = loop.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Windows, 1)
	assert.True(t, snap.Windows[0].Activated)
}

func TestLoop_RefreshPurgesDeadWindows(t *testing.T) {
	s := newTestShell(t)
	loop := startLoop(t, s)
	ctx := context.Background()

	surface := newFakeSurface(1, geom.Sz(400, 400))
	top := comp.NewXDGToplevel(surface, s.Serials(), nil)
	require.NoError(t, loop.Dispatch(ctx, EventNewToplevel{Toplevel: top}))

	surface.alive = false

	snap, err := loop.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Windows)
}

func TestLoop_DispatchAfterCancel(t *testing.T) {
	s := newTestShell(t)
	loop := NewLoop(s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, loop.Dispatch(ctx, EventFrame{}))
	_, err := loop.Snapshot(ctx)
	assert.Error(t, err)
}
