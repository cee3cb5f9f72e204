package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"idlemouse/internal/adapters/robotinput"
	"idlemouse/internal/core/mover"
)

type config struct {
	direction     mover.Direction
	distance      int
	clickInterval time.Duration
	moveInterval  time.Duration
	windowTitle   string
	listWindows   bool
	ui            bool
	logLevel      slog.Level
}

type lineSinkWriter struct {
	sink  func(line string)
	mu    sync.Mutex
	lines bytes.Buffer
}

func (w *lineSinkWriter) Write(p []byte) (int, error) {
	if w.sink == nil {
		return len(p), nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	total := len(p)
	for len(p) > 0 {
		idx := bytes.IndexByte(p, '\n')
		if idx == -1 {
			_, _ = w.lines.Write(p)
			break
		}
		_, _ = w.lines.Write(p[:idx])
		line := strings.TrimSpace(w.lines.String())
		w.lines.Reset()
		if line != "" {
			w.sink(line)
		}
		p = p[idx+1:]
	}
	return total, nil
}

func newSlogLogger(level slog.Level, sink func(line string)) *slog.Logger {
	if !debugLogsEnabled() {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: level,
		}))
	}

	out := io.Writer(os.Stderr)
	if sink != nil {
		out = io.MultiWriter(os.Stderr, &lineSinkWriter{sink: sink})
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

func debugLogsEnabled() bool {
	return strings.TrimSpace(os.Getenv("DEBUG")) == "1"
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid --log-level %q (expected debug|info|warning|error)", value)
	}
}

func parseConfig(args []string) (config, error) {
	cfg := config{}
	flags := flag.NewFlagSet("idlemouse", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	var directionRaw string
	var clickSeconds float64
	var moveSeconds float64
	var logLevelRaw string
	var cliMode bool

	flags.StringVar(&directionRaw, "direction", "right", "Movement direction: right|left|up|down|circular.")
	flags.IntVar(&cfg.distance, "distance", 5, "Pixels moved per step.")
	flags.Float64Var(&clickSeconds, "click-interval", 2.0, "Seconds between left/right click pairs.")
	flags.Float64Var(&moveSeconds, "move-interval", 0.1, "Seconds between cursor movements.")
	flags.StringVar(&cfg.windowTitle, "window", "", "Constrain movement to the window whose title contains this text. Empty means the whole screen.")
	flags.BoolVar(&cfg.listWindows, "list-windows", false, "Print open windows and exit.")
	flags.BoolVar(&cfg.ui, "ui", true, "Start desktop GUI (Fyne) by default. Use --ui=false or --cli for terminal mode.")
	flags.BoolVar(&cliMode, "cli", false, "Force terminal mode (disables GUI).")
	flags.StringVar(&logLevelRaw, "log-level", "info", "Log verbosity (default: info). Allowed: debug, info, warning, error.")

	if err := flags.Parse(args); err != nil {
		return cfg, err
	}
	if flags.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}

	direction, err := mover.ParseDirection(directionRaw)
	if err != nil {
		return cfg, err
	}
	if cfg.distance <= 0 {
		return cfg, fmt.Errorf("--distance must be > 0")
	}
	if clickSeconds <= 0 {
		return cfg, fmt.Errorf("--click-interval must be > 0")
	}
	if moveSeconds <= 0 {
		return cfg, fmt.Errorf("--move-interval must be > 0")
	}
	parsedLevel, err := parseLogLevel(logLevelRaw)
	if err != nil {
		return cfg, err
	}
	if cliMode {
		cfg.ui = false
	}

	cfg.direction = direction
	cfg.clickInterval = time.Duration(clickSeconds * float64(time.Second))
	cfg.moveInterval = time.Duration(moveSeconds * float64(time.Second))
	cfg.logLevel = parsedLevel
	return cfg, nil
}

func isPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES)
}

func permissionDeniedHint() string {
	return "Permission denied injecting input. On Linux ensure an active X11 session and DISPLAY is set; on macOS grant Accessibility permission."
}

func startDriverFromConfig(cfg config, logger *slog.Logger) (*mover.Service, error) {
	serviceCfg := mover.Config{
		Direction:     cfg.direction,
		Distance:      cfg.distance,
		ClickInterval: cfg.clickInterval,
		MoveInterval:  cfg.moveInterval,
	}

	if strings.TrimSpace(cfg.windowTitle) != "" {
		window, err := robotinput.FindByTitle(cfg.windowTitle)
		if err != nil {
			return nil, err
		}
		logger.Info("Target window", "title", window.Title, "pid", window.PID)
		serviceCfg.Target = window.Target()
	}

	service, err := mover.NewService(serviceCfg, robotinput.Pointer{}, logger)
	if err != nil {
		return nil, err
	}
	service.Start()
	return service, nil
}

func listWindows(out io.Writer) error {
	windows, err := robotinput.List()
	if err != nil {
		return err
	}
	for _, window := range windows {
		g := window.Geometry
		fmt.Fprintf(out, "%d: %s [%dx%d at %d,%d]\n", window.PID, window.Title, g.Width, g.Height, g.Left, g.Top)
	}
	return nil
}

func run(args []string, stderr io.Writer) int {
	cfg, err := parseConfig(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if cfg.listWindows {
		if err := listWindows(os.Stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	if cfg.ui {
		if err := runUI(cfg); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	logger := newSlogLogger(cfg.logLevel, nil)
	service, err := startDriverFromConfig(cfg, logger)
	if err != nil {
		if isPermissionError(err) {
			fmt.Fprintln(stderr, permissionDeniedHint())
			return 1
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer service.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	select {
	case <-ctx.Done():
	case <-service.Done():
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}
