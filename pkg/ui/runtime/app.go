package runtime

import (
	"context"

	"github.com/odvcencio/octyl/pkg/config"
	"github.com/odvcencio/octyl/pkg/errors"
	"github.com/odvcencio/octyl/pkg/logging"
	"github.com/odvcencio/octyl/pkg/ui/action"
	"github.com/odvcencio/octyl/pkg/ui/backend"
	"github.com/odvcencio/octyl/pkg/ui/event"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
	"github.com/odvcencio/octyl/pkg/ui/tree"
)

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend   backend.Backend
	Root      *tree.Root
	Config    config.Config
	Intercept Intercept
	Metrics   *Metrics
	Logger    *logging.Logger

	// Producers run alongside the built-in ticker and input producers.
	Producers []event.Producer
}

// App runs a component tree against a terminal backend.
type App struct {
	backend   backend.Backend
	root      *tree.Root
	cfg       config.Config
	intercept Intercept
	metrics   *Metrics
	log       *logging.Logger
	extra     []event.Producer

	queue    *event.Queue[event.Item]
	loop     *Loop
	statuses []event.Status
}

// NewApp creates a new App from config.
func NewApp(cfg AppConfig) (*App, error) {
	if cfg.Backend == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "backend is required")
	}
	if cfg.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "root is required")
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &App{
		backend:   cfg.Backend,
		root:      cfg.Root,
		cfg:       cfg.Config,
		intercept: cfg.Intercept,
		metrics:   cfg.Metrics,
		log:       log,
		extra:     cfg.Producers,
		queue:     event.NewQueue[event.Item](),
	}, nil
}

// Post queues an action from any goroutine.
func (a *App) Post(act action.Action) error {
	return a.queue.Push(event.FromAction(act))
}

// Loop returns the dispatch loop once Run has started.
func (a *App) Loop() *Loop {
	return a.loop
}

// Statuses reports how each producer terminated in the last Run.
func (a *App) Statuses() []event.Status {
	return a.statuses
}

// Run initializes the backend, starts the producers and runs the loop
// until Quit, a fatal error or ctx cancellation. The terminal is always
// restored before Run returns.
func (a *App) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.backend.Init(); err != nil {
		return errors.Wrap(err, errors.ErrCodeBackendInit, "init backend")
	}
	defer a.backend.Fini()

	w, h := a.backend.Size()
	a.loop = NewLoop(LoopConfig{
		Root:        a.root,
		Queue:       a.queue,
		Output:      backend.NewOutput(a.backend),
		Width:       w,
		Height:      h,
		Intercept:   a.intercept,
		ErrorBurst:  a.cfg.ErrorBurst,
		ErrorWindow: a.cfg.ErrorWindow,
		Metrics:     a.metrics,
		Logger:      a.log.WithComponent("loop"),
	})

	// Lay out and paint once before the first tick.
	_ = a.queue.Push(event.FromEvent(terminal.ResizeEvent{Width: w, Height: h}))
	_ = a.queue.Push(event.FromEvent(terminal.RenderTickEvent{}))

	group := event.NewGroup(a.cfg.ShutdownGrace, a.log.WithComponent("producers"))
	group.Add(event.NewTicker(a.cfg.AppTickRate, a.cfg.RenderTickRate))
	group.Add(event.NewInput(a.backend, a.log.WithComponent("input")))
	for _, p := range a.extra {
		group.Add(p)
	}
	group.Start(ctx, a.queue)

	a.log.Info("runtime started", "width", w, "height", h)
	err := a.loop.Run(ctx)

	a.queue.Close()
	a.statuses = group.Stop()
	for _, st := range a.statuses {
		a.log.Debug("producer terminated", "producer", st.Name, "state", st.State.String())
	}
	if err != nil {
		a.log.Error("runtime stopped", "error", err)
		return err
	}
	a.log.Info("runtime stopped")
	return nil
}
