// Package api exposes a read-only HTTP API for inspecting compositor state.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ItsNotGoodName/way-compositor/internal/build"
	"github.com/ItsNotGoodName/way-compositor/internal/config"
	"github.com/ItsNotGoodName/way-compositor/internal/shell"
	"github.com/ItsNotGoodName/way-compositor/pkg/chiext"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	address string
	loop    *shell.Loop
	store   *config.Store
}

func NewServer(address string, loop *shell.Loop, store *config.Store) Server {
	return Server{
		address: address,
		loop:    loop,
		store:   store,
	}
}

func (Server) String() string {
	return "api.Server"
}

func (s Server) Serve(ctx context.Context) error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chiext.Logger())
	r.Use(middleware.Recoverer)

	api := humachi.New(r, huma.DefaultConfig("way-compositor", build.Current.Version))
	s.register(api)

	return serve(ctx, &http.Server{
		Addr:    s.address,
		Handler: r,
	})
}

type BuildOutput struct {
	Body build.Build
}

type SnapshotOutput struct {
	Body shell.Snapshot
}

type WindowsOutput struct {
	Body []shell.WindowInfo
}

type OutputsOutput struct {
	Body []shell.OutputInfo
}

type ConfigOutput struct {
	Body config.Config
}

func (s Server) register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-build",
		Method:      http.MethodGet,
		Path:        "/api/build",
		Summary:     "Get build information",
	}, func(ctx context.Context, input *struct{}) (*BuildOutput, error) {
		return &BuildOutput{Body: build.Current}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-snapshot",
		Method:      http.MethodGet,
		Path:        "/api/snapshot",
		Summary:     "Get windows and outputs",
	}, func(ctx context.Context, input *struct{}) (*SnapshotOutput, error) {
		snapshot, err := s.loop.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return &SnapshotOutput{Body: snapshot}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-windows",
		Method:      http.MethodGet,
		Path:        "/api/windows",
		Summary:     "List windows from top to bottom",
	}, func(ctx context.Context, input *struct{}) (*WindowsOutput, error) {
		snapshot, err := s.loop.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return &WindowsOutput{Body: snapshot.Windows}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-outputs",
		Method:      http.MethodGet,
		Path:        "/api/outputs",
		Summary:     "List outputs",
	}, func(ctx context.Context, input *struct{}) (*OutputsOutput, error) {
		snapshot, err := s.loop.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return &OutputsOutput{Body: snapshot.Outputs}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-config",
		Method:      http.MethodGet,
		Path:        "/api/config",
		Summary:     "Get configuration",
	}, func(ctx context.Context, input *struct{}) (*ConfigOutput, error) {
		cfg, err := s.store.GetConfig()
		if err != nil {
			return nil, err
		}
		return &ConfigOutput{Body: cfg}, nil
	})
}

func serve(ctx context.Context, srv *http.Server) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	}

	errC := make(chan error, 1)
	go func() { errC <- srv.Serve(ln) }()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		<-errC
		return ctx.Err()
	}
}
