package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ItsNotGoodName/way-compositor/internal/api"
	"github.com/ItsNotGoodName/way-compositor/internal/backend"
	"github.com/ItsNotGoodName/way-compositor/internal/build"
	"github.com/ItsNotGoodName/way-compositor/internal/bus"
	"github.com/ItsNotGoodName/way-compositor/internal/comp"
	"github.com/ItsNotGoodName/way-compositor/internal/config"
	"github.com/ItsNotGoodName/way-compositor/internal/core"
	"github.com/ItsNotGoodName/way-compositor/internal/geom"
	"github.com/ItsNotGoodName/way-compositor/internal/shell"
	"github.com/ItsNotGoodName/way-compositor/pkg/sutureext"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"
)

type Options struct {
	Debug  bool   `doc:"enable debug"`
	Host   string `doc:"host to listen on"`
	Port   int    `doc:"port to listen on" default:"8080"`
	Config string `doc:"config file" default:".way-compositor.yaml"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			bus.SetContext(ctx)

			configFilePath, err := filepath.Abs(options.Config)
			if err != nil {
				return err
			}

			store, err := config.NewStore(newDriver(configFilePath))
			if err != nil {
				return err
			}

			if err := config.Normalize(store); err != nil {
				return err
			}

			cfg, err := store.GetConfig()
			if err != nil {
				return err
			}

			windows := comp.NewWindowMap()
			outputs := comp.NewOutputMap(windows)
			for _, o := range cfg.Outputs {
				outputs.Add(o.Name, geom.Sz(o.Width, o.Height), o.Scale)
			}
			pointer := comp.NewPointer(windows)
			serials := &comp.SerialCounter{}

			sh := shell.New(windows, outputs, pointer, serials)
			loop := shell.NewLoop(sh)

			bus.Subscribe("main.logWindowMapped", func(ctx context.Context, ev comp.EventWindowMapped) error {
				slog.Info("Window mapped", "uuid", ev.UUID, "surface", ev.SurfaceID)
				return nil
			})
			bus.Subscribe("main.logWindowUnmapped", func(ctx context.Context, ev comp.EventWindowUnmapped) error {
				slog.Info("Window unmapped", "uuid", ev.UUID, "surface", ev.SurfaceID)
				return nil
			})
			bus.Subscribe("main.logPointerFocus", func(ctx context.Context, ev comp.EventPointerFocus) error {
				slog.Debug("Pointer focus", "surface", ev.SurfaceID, "location", ev.Location)
				return nil
			})

			super := sutureext.NewSimple("root")
			sutureext.Add(super, loop)
			sutureext.Add(super, backend.NewHeadless(loop))
			sutureext.Add(super, api.NewServer(core.Address(options.Host, options.Port), loop, &store))

			return super.Serve(ctx)
		})
	})

	cli.Root().Version = build.Current.Version

	cli.Run()
}

func newDriver(filePath string) config.Driver {
	if strings.HasSuffix(filePath, ".json") {
		return config.NewJSON(filePath)
	}
	return config.NewYAML(filePath)
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
