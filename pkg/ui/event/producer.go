package event

import (
	"context"
	"time"

	"github.com/odvcencio/octyl/pkg/errors"
	"github.com/odvcencio/octyl/pkg/logging"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
)

// Producer generates items until ctx is cancelled or its source ends. A
// failed Push means the consumer is gone; producers return nil then.
type Producer interface {
	Name() string
	Run(ctx context.Context, out Sender) error
}

// Ticker emits AppTickEvent and RenderTickEvent on independent intervals.
// A non-positive interval disables that tick.
type Ticker struct {
	app    time.Duration
	render time.Duration
}

// NewTicker creates a tick producer.
func NewTicker(app, render time.Duration) *Ticker {
	return &Ticker{app: app, render: render}
}

// Name implements Producer.
func (t *Ticker) Name() string { return "ticker" }

// Run implements Producer.
func (t *Ticker) Run(ctx context.Context, out Sender) error {
	appC, stopApp := tickChan(t.app)
	defer stopApp()
	renderC, stopRender := tickChan(t.render)
	defer stopRender()

	for {
		var ev terminal.Event
		select {
		case <-ctx.Done():
			return nil
		case now := <-appC:
			ev = terminal.AppTickEvent{Time: now}
		case now := <-renderC:
			ev = terminal.RenderTickEvent{Time: now}
		}
		if err := out.Push(FromEvent(ev)); err != nil {
			return nil
		}
	}
}

func tickChan(d time.Duration) (<-chan time.Time, func()) {
	if d <= 0 {
		return nil, func() {}
	}
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Source is a blocking terminal event stream. PollEvent returns nil once
// the stream is closed.
type Source interface {
	PollEvent() terminal.Event
}

// Input pumps terminal events from a Source. The interrupt chord becomes
// QuitEvent; a closed stream yields one ErrorEvent and ends the producer.
type Input struct {
	src Source
	log *logging.Logger
}

// NewInput creates an input producer.
func NewInput(src Source, log *logging.Logger) *Input {
	if log == nil {
		log = logging.Discard()
	}
	return &Input{src: src, log: log}
}

// Name implements Producer.
func (in *Input) Name() string { return "input" }

// Run implements Producer. PollEvent cannot be interrupted, so polling
// happens on an inner goroutine that exits once the source is closed.
func (in *Input) Run(ctx context.Context, out Sender) error {
	events := make(chan terminal.Event)
	go func() {
		for {
			ev := in.src.PollEvent()
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
			if ev == nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if ev == nil {
				err := errors.New(errors.ErrCodeInputStream, "input stream closed")
				_ = out.Push(FromEvent(terminal.ErrorEvent{Err: err}))
				in.log.Warn("input stream closed")
				return nil
			}
			if err := out.Push(FromEvent(in.translate(ev))); err != nil {
				return nil
			}
		}
	}
}

func (in *Input) translate(ev terminal.Event) terminal.Event {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		if e.IsInterrupt() {
			in.log.Debug("interrupt chord", "key", e.String())
			return terminal.QuitEvent{}
		}
	case terminal.ErrorEvent:
		if e.Err == nil {
			return terminal.ErrorEvent{Err: errors.New(errors.ErrCodeInputStream, "input error")}
		}
		if errors.GetCode(e.Err) == errors.ErrCodeInternal {
			return terminal.ErrorEvent{Err: errors.Wrap(e.Err, errors.ErrCodeInputStream, "input error")}
		}
	}
	return ev
}
