package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/term"

	"github.com/odvcencio/octyl/pkg/config"
	"github.com/odvcencio/octyl/pkg/errors"
	"github.com/odvcencio/octyl/pkg/logging"
	"github.com/odvcencio/octyl/pkg/ui/backend/tcell"
	"github.com/odvcencio/octyl/pkg/ui/compositor"
	"github.com/odvcencio/octyl/pkg/ui/event"
	"github.com/odvcencio/octyl/pkg/ui/runtime"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

type options struct {
	configPath  string
	printConfig bool
	showVersion bool
	snapshot    bool
	width       int
	height      int
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("octyl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	fs.BoolVar(&opts.printConfig, "print-config", false, "print the effective config and exit")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	fs.BoolVar(&opts.snapshot, "snapshot", false, "render one frame as ANSI to stdout and exit")
	fs.IntVar(&opts.width, "width", 80, "snapshot width")
	fs.IntVar(&opts.height, "height", 24, "snapshot height")
	if err := fs.Parse(args); err != nil {
		return opts, withExitCode(err, exitUsage)
	}
	if fs.NArg() > 0 {
		return opts, withExitCode(fmt.Errorf("unexpected arguments: %v", fs.Args()), exitUsage)
	}
	return opts, nil
}

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil && !stderrors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if stderrors.Is(err, flag.ErrHelp) {
		os.Exit(exitOK)
	}
	os.Exit(exitCodeForError(err))
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "octyl %s (commit %s, built %s)\n", version, commit, buildDate)
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.printConfig {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	ring := logging.NewRing(logging.DefaultRingSize)
	log, closeLog, err := newLogger(cfg, ring)
	if err != nil {
		return withExitCode(err, exitUsage)
	}
	defer closeLog()

	d, err := newDemo(ring, log)
	if err != nil {
		return err
	}

	if opts.snapshot {
		return snapshot(d, opts.width, opts.height, stdout)
	}

	if !isInteractiveTerminal() {
		return withExitCode(stderrors.New("octyl needs an interactive terminal (try -snapshot)"), exitNoconsole)
	}

	var metrics *runtime.Metrics
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		metrics = runtime.NewMetrics(reg)
		stop := serveMetrics(cfg.MetricsAddr, reg, log)
		defer stop()
	}

	be, err := tcell.New(tcell.Options{Mouse: cfg.Mouse, Paste: true, Focus: true})
	if err != nil {
		return err
	}

	app, err := runtime.NewApp(runtime.AppConfig{
		Backend:   be,
		Root:      d.root,
		Config:    cfg,
		Intercept: d.intercept,
		Metrics:   metrics,
		Logger:    log,
		Producers: []event.Producer{pulse{interval: 200 * time.Millisecond}},
	})
	if err != nil {
		return err
	}
	d.post = app.Post

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.Run(ctx)
}

// newLogger logs JSON into the ring shown by the log pane, and into
// cfg.LogFile when set.
func newLogger(cfg config.Config, ring *logging.Ring) (*logging.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = ring
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		w = io.MultiWriter(f, ring)
		closeFn = func() { _ = f.Close() }
	}
	return logging.New(w, level, "octyl"), closeFn, nil
}

// snapshot renders one frame of the demo without a terminal.
func snapshot(d *demo, width, height int, w io.Writer) error {
	out := compositor.NewANSIOutput(w, termenv.EnvColorProfile())
	loop := runtime.NewLoop(runtime.LoopConfig{
		Root:      d.root,
		Output:    out,
		Width:     width,
		Height:    height,
		Intercept: d.intercept,
	})
	ctx := context.Background()
	q := loop.Queue()
	_ = q.Push(event.FromEvent(terminal.ResizeEvent{Width: width, Height: height}))
	_ = q.Push(event.FromEvent(terminal.AppTickEvent{}))
	// Drain the tick and its follow-ups before painting.
	for q.Len() > 0 {
		if err := loop.Step(ctx); err != nil {
			return err
		}
	}
	_ = q.Push(event.FromEvent(terminal.RenderTickEvent{}))
	if err := loop.Step(ctx); err != nil {
		return err
	}
	_, err := io.WriteString(w, compositor.ANSIReset+compositor.CursorTo(0, height)+compositor.ANSICursorShow+"\n")
	return err
}

func serveMetrics(addr string, reg *prometheus.Registry, log *logging.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "addr", addr, "error", errors.Wrap(err, errors.ErrCodeInternal, "metrics server"))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd()))
}
