package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/pytrondev/pytron/internal/bridge"
	"github.com/pytrondev/pytron/internal/chrome"
	"github.com/pytrondev/pytron/internal/chromeipc"
	"github.com/pytrondev/pytron/internal/command"
	"github.com/pytrondev/pytron/internal/config"
	"github.com/pytrondev/pytron/internal/native"
	"github.com/pytrondev/pytron/internal/protocol"
	"github.com/pytrondev/pytron/internal/registry"
	"github.com/pytrondev/pytron/internal/shell"
)

// commandRun serves the application root, spins up the selected engine, and
// blocks in the dispatch loop until shutdown.
func (r Runner) commandRun(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	reg := registry.New()
	ttl := time.Duration(cfg.Bridge.PendingTTLMS) * time.Millisecond

	handler := &protocol.Handler{
		Root:       cfg.App.Root,
		Registry:   reg,
		PendingTTL: ttl,
		Logger:     logger,
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: serve app root: %v\n", err)
		return 1
	}
	srv := &http.Server{Handler: handler}
	go func() {
		if serveErr := srv.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("content server failed", "error", serveErr.Error())
		}
	}()
	defer func() { _ = srv.Close() }()

	startURL := cfg.App.URL
	if startURL == "" {
		startURL = fmt.Sprintf("http://%s/", ln.Addr().String())
	}
	logger.Info("content ready", "url", startURL)

	switch cfg.App.Engine {
	case config.EngineChrome:
		return r.runChrome(ctx, cfg, logger, reg, ttl, startURL)
	case config.EngineNative:
		return r.runNative(ctx, cfg, logger, reg, startURL)
	default:
		fmt.Fprintf(r.Stderr, "error: unknown engine %q\n", cfg.App.Engine)
		return 2
	}
}

func (r Runner) runChrome(ctx context.Context, cfg config.Config, logger *slog.Logger, reg *registry.Registry, ttl time.Duration, startURL string) int {
	binary, err := chrome.ResolveBinary(cfg.Chrome.Binary)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	transport := chromeipc.New(logger, chromeipc.WithMaxFrame(cfg.IPC.MaxFrameBytes))
	pending := bridge.NewPending(ttl)
	adapter := chrome.New(logger, transport, pending, chrome.Options{
		Debug:     cfg.Window.Debug,
		Root:      cfg.App.Root,
		Title:     cfg.Window.Title,
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Resizable: cfg.Window.Resizable,
		Frameless: cfg.Window.Frameless,
	})

	sh := shell.New(logger, adapter, reg)
	router := &bridge.Router{Logger: logger, Registry: reg, Submit: sh.Submit}
	adapter.AttachRouter(router)
	bindDefaults(sh, logger)

	if err := adapter.Start(ctx, binary); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer adapter.Close()

	sh.Submit(command.Navigate{URL: startURL})
	sh.Run(ctx)
	logger.Info("shell stopped")
	return 0
}

func (r Runner) runNative(ctx context.Context, cfg config.Config, logger *slog.Logger, reg *registry.Registry, startURL string) int {
	eng, err := native.New(logger, native.Options{
		Debug:     cfg.Window.Debug,
		Title:     cfg.Window.Title,
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Resizable: cfg.Window.Resizable,
		URL:       startURL,
	})
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	sh := shell.New(logger, eng, reg)
	router := &bridge.Router{Logger: logger, Registry: reg, Submit: sh.Submit}
	eng.AttachBridge(router.Route)
	eng.AttachSubmitter(sh.Submit)
	bindDefaults(sh, logger)

	// The webview loop owns this goroutine; the dispatch loop runs beside it
	// and tears the window down when it stops first.
	go func() {
		sh.Run(ctx)
		eng.Terminate()
	}()

	eng.Run()
	<-sh.Done()
	logger.Info("shell stopped")
	return 0
}

// bindDefaults installs the built-in window-control callables every app gets.
// Each resolves its promise immediately; the operations are fire-and-forget.
func bindDefaults(sh *shell.Shell, logger *slog.Logger) {
	submit := func(seq string, cmd command.Command) {
		sh.Submit(cmd)
		if seq != "" {
			sh.Return(seq, 0, "null")
		}
	}

	sh.Bind("pytron_minimize", func(seq, args string) {
		submit(seq, command.Minimize{})
	})
	sh.Bind("pytron_hide", func(seq, args string) {
		submit(seq, command.SetVisible{Visible: false})
	})
	sh.Bind("pytron_show", func(seq, args string) {
		submit(seq, command.SetVisible{Visible: true})
	})
	sh.Bind("pytron_center", func(seq, args string) {
		submit(seq, command.Center{})
	})
	sh.Bind("pytron_set_title", func(seq, args string) {
		if vals := decodeStrings(args, 1); vals != nil {
			submit(seq, command.SetTitle{Title: vals[0]})
			return
		}
		sh.Return(seq, 1, `"pytron_set_title expects [title]"`)
	})
	sh.Bind("pytron_set_size", func(seq, args string) {
		if vals := decodeInts(args, 2); vals != nil {
			submit(seq, command.SetSize{Width: vals[0], Height: vals[1]})
			return
		}
		sh.Return(seq, 1, `"pytron_set_size expects [width, height]"`)
	})
	sh.Bind("pytron_navigate", func(seq, args string) {
		if vals := decodeStrings(args, 1); vals != nil {
			submit(seq, command.Navigate{URL: vals[0]})
			return
		}
		sh.Return(seq, 1, `"pytron_navigate expects [url]"`)
	})
	sh.Bind("pytron_set_maximized", func(seq, args string) {
		if vals := decodeBools(args, 1); vals != nil {
			submit(seq, command.SetMaximized{Maximized: vals[0]})
			return
		}
		sh.Return(seq, 1, `"pytron_set_maximized expects [flag]"`)
	})
	sh.Bind("pytron_set_fullscreen", func(seq, args string) {
		if vals := decodeBools(args, 1); vals != nil {
			submit(seq, command.SetFullscreen{Fullscreen: vals[0]})
			return
		}
		sh.Return(seq, 1, `"pytron_set_fullscreen expects [flag]"`)
	})
	sh.Bind("pytron_set_always_on_top", func(seq, args string) {
		if vals := decodeBools(args, 1); vals != nil {
			submit(seq, command.SetAlwaysOnTop{OnTop: vals[0]})
			return
		}
		sh.Return(seq, 1, `"pytron_set_always_on_top expects [flag]"`)
	})
	sh.Bind("pytron_set_resizable", func(seq, args string) {
		if vals := decodeBools(args, 1); vals != nil {
			submit(seq, command.SetResizable{Resizable: vals[0]})
			return
		}
		sh.Return(seq, 1, `"pytron_set_resizable expects [flag]"`)
	})
	sh.Bind("pytron_set_decorations", func(seq, args string) {
		if vals := decodeBools(args, 1); vals != nil {
			submit(seq, command.SetDecorations{Decorated: vals[0]})
			return
		}
		sh.Return(seq, 1, `"pytron_set_decorations expects [flag]"`)
	})
	sh.Bind("pytron_prevent_close", func(seq, args string) {
		if vals := decodeBools(args, 1); vals != nil {
			submit(seq, command.SetPreventClose{Prevent: vals[0]})
			return
		}
		sh.Return(seq, 1, `"pytron_prevent_close expects [flag]"`)
	})
	sh.Bind("pytron_create_tray", func(seq, args string) {
		if vals := decodeStrings(args, 2); vals != nil {
			submit(seq, command.CreateTray{IconPath: vals[0], Tooltip: vals[1]})
			return
		}
		sh.Return(seq, 1, `"pytron_create_tray expects [icon, tooltip]"`)
	})
	sh.Bind("pytron_open_external", func(seq, args string) {
		if vals := decodeStrings(args, 1); vals != nil {
			submit(seq, command.OpenExternal{URL: vals[0]})
			return
		}
		sh.Return(seq, 1, `"pytron_open_external expects [url]"`)
	})
	sh.Bind("pytron_log", func(seq, args string) {
		if vals := decodeStrings(args, 1); vals != nil {
			logger.Info("page log", "message", vals[0])
		}
		if seq != "" {
			sh.Return(seq, 0, "null")
		}
	})
}

// decodeStrings parses a JSON array of at least n strings, nil on mismatch.
func decodeStrings(args string, n int) []string {
	var vals []string
	if json.Unmarshal([]byte(args), &vals) != nil || len(vals) < n {
		return nil
	}
	return vals
}

func decodeInts(args string, n int) []int {
	var vals []int
	if json.Unmarshal([]byte(args), &vals) != nil || len(vals) < n {
		return nil
	}
	return vals
}

func decodeBools(args string, n int) []bool {
	var vals []bool
	if json.Unmarshal([]byte(args), &vals) != nil || len(vals) < n {
		return nil
	}
	return vals
}
