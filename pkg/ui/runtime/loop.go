// Package runtime runs the dispatch loop: the single consumer of the event
// queue and the only code that mutates the component tree or renders.
package runtime

import (
	"context"
	stderrors "errors"
	"runtime/debug"
	"time"

	"golang.org/x/time/rate"

	"github.com/odvcencio/octyl/pkg/config"
	"github.com/odvcencio/octyl/pkg/errors"
	"github.com/odvcencio/octyl/pkg/logging"
	"github.com/odvcencio/octyl/pkg/ui/action"
	"github.com/odvcencio/octyl/pkg/ui/compositor"
	"github.com/odvcencio/octyl/pkg/ui/event"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
	"github.com/odvcencio/octyl/pkg/ui/tree"
)

// Tags for terminal events that have no control variant of their own.
const (
	PasteTag       action.Tag = "input.paste"
	FocusGainedTag action.Tag = "input.focus.gained"
	FocusLostTag   action.Tag = "input.focus.lost"
)

// Output receives one composed buffer per render pass. prev is the buffer
// written last time, nil on the first pass.
type Output interface {
	Write(prev, cur *compositor.CharBuffer) error
}

// Intercept sees every action before the tree does. Returning true
// consumes it. It runs on the loop goroutine and may mutate the root.
type Intercept func(a action.Action) bool

// LoopConfig configures a Loop.
type LoopConfig struct {
	Root      *tree.Root
	Queue     *event.Queue[event.Item]
	Output    Output
	Width     int
	Height    int
	Intercept Intercept

	// ErrorBurst input errors per ErrorWindow are tolerated; more escalate.
	ErrorBurst  int
	ErrorWindow time.Duration

	Metrics *Metrics
	Logger  *logging.Logger
}

// Loop consumes the queue one item per Step.
type Loop struct {
	root      *tree.Root
	queue     *event.Queue[event.Item]
	output    Output
	intercept Intercept
	comp      *compositor.Compositor
	last      *compositor.CharBuffer
	limiter   *rate.Limiter
	metrics   *Metrics
	log       *logging.Logger
	done      bool
}

// NewLoop creates a loop. A nil queue gets a fresh one.
func NewLoop(cfg LoopConfig) *Loop {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	q := cfg.Queue
	if q == nil {
		q = event.NewQueue[event.Item]()
	}
	burst := cfg.ErrorBurst
	if burst <= 0 {
		burst = config.DefaultErrorBurst
	}
	window := cfg.ErrorWindow
	if window <= 0 {
		window = config.DefaultErrorWindow
	}
	return &Loop{
		root:      cfg.Root,
		queue:     q,
		output:    cfg.Output,
		intercept: cfg.Intercept,
		comp:      compositor.New(cfg.Width, cfg.Height),
		limiter:   rate.NewLimiter(rate.Every(window/time.Duration(burst)), burst),
		metrics:   cfg.Metrics,
		log:       log,
	}
}

// Queue returns the queue the loop consumes.
func (l *Loop) Queue() *event.Queue[event.Item] {
	return l.queue
}

// Compositor returns the loop's compositor.
func (l *Loop) Compositor() *compositor.Compositor {
	return l.comp
}

// Last returns the buffer produced by the most recent render pass.
func (l *Loop) Last() *compositor.CharBuffer {
	return l.last
}

// Done reports whether the loop has shut down.
func (l *Loop) Done() bool {
	return l.done
}

// Emit queues an action. It implements component.Sink and is safe to call
// from any goroutine.
func (l *Loop) Emit(a action.Action) error {
	return l.queue.Push(event.FromAction(a))
}

// Run steps until Quit, a fatal error, a closed queue, or ctx is done.
// Cancellation is not an error.
func (l *Loop) Run(ctx context.Context) error {
	for !l.done {
		if err := l.Step(ctx); err != nil {
			if ctx.Err() != nil && stderrors.Is(err, ctx.Err()) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Step runs one iteration: initialize new components, pop one item, turn
// it into at most one action and apply it. Panics are recovered into a
// RENDER_PANIC error and end the loop.
func (l *Loop) Step(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.done = true
			err = errors.Newf(errors.ErrCodeRenderPanic, "panic in dispatch loop: %v", r).
				WithContext("stack", string(debug.Stack()))
			l.log.Error("recovered panic", "panic", r)
		}
	}()

	if err := l.root.Init(l); err != nil {
		l.log.Error("component init failed", "error", err)
	}

	item, err := l.queue.Pop(ctx)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeQueueClosed) {
			l.done = true
			return nil
		}
		return err
	}
	l.metrics.depth(l.queue.Len())

	a, err := l.translate(item)
	if err != nil {
		l.done = true
		return err
	}
	if err := l.apply(a); err != nil {
		l.done = true
		return err
	}
	return nil
}

// translate converts a queue item into an action. Key and mouse events are
// routed through the tree; the rest map directly.
func (l *Loop) translate(item event.Item) (action.Action, error) {
	if a, ok := item.Action(); ok {
		return a, nil
	}
	ev, ok := item.Event()
	if !ok {
		return action.Noop(), nil
	}
	l.metrics.event(eventKind(ev))

	switch e := ev.(type) {
	case terminal.QuitEvent:
		return action.Quit(), nil
	case terminal.AppTickEvent:
		return action.Tick(), nil
	case terminal.RenderTickEvent:
		return action.RenderTick(), nil
	case terminal.ResizeEvent:
		return action.Resize(e.Width, e.Height), nil
	case terminal.KeyEvent:
		a := l.root.RouteKey(e)
		if a.IsNoop() {
			l.dropped("unhandled", "event", e.String())
		}
		return a, nil
	case terminal.MouseEvent:
		a := l.root.RouteMouse(e)
		if a.IsNoop() {
			l.dropped("unhandled", "event", eventKind(e))
		}
		return a, nil
	case terminal.PasteEvent:
		return action.Custom(PasteTag, action.Text(e.Text)), nil
	case terminal.FocusEvent:
		if e.Gained {
			return action.Custom(FocusGainedTag, nil), nil
		}
		return action.Custom(FocusLostTag, nil), nil
	case terminal.ErrorEvent:
		return action.Noop(), l.inputError(e.Err)
	default:
		l.dropped("unknown", "event", eventKind(ev))
		return action.Noop(), nil
	}
}

// inputError logs a soft input failure. Failures arriving faster than the
// limiter allows escalate to shutdown.
func (l *Loop) inputError(err error) error {
	if err == nil {
		err = errors.New(errors.ErrCodeInputStream, "input error")
	}
	l.metrics.inputError()
	if l.limiter.Allow() {
		l.log.Warn("input error", "error", err)
		return nil
	}
	l.log.Error("input errors escalated", "error", err)
	return errors.Wrap(err, errors.ErrCodeInputEscalated, "too many input errors")
}

func (l *Loop) apply(a action.Action) error {
	if a.IsNoop() {
		return nil
	}
	l.metrics.action(a.Kind().String())

	switch a.Kind() {
	case action.KindQuit:
		l.log.Info("quit requested")
		l.done = true
		return nil
	case action.KindRenderTick:
		return l.render()
	case action.KindResize:
		w, h := a.Size()
		if l.comp.Resize(w, h) {
			l.log.Debug("resized", "width", w, "height", h)
		}
	}

	if l.intercept != nil && l.intercept(a) {
		return nil
	}
	follow, ok := l.root.Dispatch(a)
	if !ok || follow.IsNoop() {
		return nil
	}
	if err := l.queue.Push(event.FromAction(follow)); err != nil {
		l.dropped("queue_closed", "action", follow.String())
	}
	return nil
}

// render runs one compositor pass and hands the result to the output.
func (l *Loop) render() error {
	start := time.Now()
	if err := l.comp.Draw(l.root.Draw); err != nil {
		return err
	}
	cur := l.comp.Render()
	if l.output != nil {
		if err := l.output.Write(l.last, cur); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "output write failed")
		}
	}
	l.last = cur
	l.metrics.rendered(time.Since(start))
	return nil
}

func (l *Loop) dropped(reason, key, value string) {
	l.metrics.dropped(reason)
	l.log.Debug("dropped", "reason", reason, key, value)
}

func eventKind(ev terminal.Event) string {
	switch ev.(type) {
	case terminal.QuitEvent:
		return "quit"
	case terminal.KeyEvent:
		return "key"
	case terminal.MouseEvent:
		return "mouse"
	case terminal.ResizeEvent:
		return "resize"
	case terminal.AppTickEvent:
		return "tick"
	case terminal.RenderTickEvent:
		return "render_tick"
	case terminal.ErrorEvent:
		return "error"
	case terminal.PasteEvent:
		return "paste"
	case terminal.FocusEvent:
		return "focus"
	default:
		return "unknown"
	}
}
