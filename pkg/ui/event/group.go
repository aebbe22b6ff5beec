package event

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/octyl/pkg/logging"
)

// State is the termination state of a producer.
type State int

const (
	StatePending State = iota
	StateRunning
	StateStopped
	StateFailed
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	case StateAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Status reports how one producer ended.
type Status struct {
	Name  string
	State State
	Err   error
}

// Group supervises producers. Stop cancels them and waits up to the grace
// period; producers still running after that are abandoned and logged.
type Group struct {
	grace time.Duration
	log   *logging.Logger

	mu        sync.Mutex
	producers []Producer
	status    []Status
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewGroup creates a producer group.
func NewGroup(grace time.Duration, log *logging.Logger) *Group {
	if log == nil {
		log = logging.Discard()
	}
	return &Group{grace: grace, log: log}
}

// Add registers a producer. It must be called before Start.
func (g *Group) Add(p Producer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.producers = append(g.producers, p)
	g.status = append(g.status, Status{Name: p.Name()})
}

// Start launches every producer against out. Producer errors are recorded
// in their status and do not cancel the other producers.
func (g *Group) Start(ctx context.Context, out Sender) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		return
	}

	ctx, g.cancel = context.WithCancel(ctx)
	var eg errgroup.Group
	for i, p := range g.producers {
		i, p := i, p
		g.status[i].State = StateRunning
		eg.Go(func() error {
			err := p.Run(ctx, out)
			g.finish(i, err)
			return nil
		})
	}

	g.done = make(chan struct{})
	go func() {
		_ = eg.Wait()
		close(g.done)
	}()
}

func (g *Group) finish(i int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status[i].State != StateRunning {
		return
	}
	if err != nil {
		g.status[i].State = StateFailed
		g.status[i].Err = err
		g.log.Warn("producer failed", "producer", g.status[i].Name, "error", err)
		return
	}
	g.status[i].State = StateStopped
	g.log.Debug("producer stopped", "producer", g.status[i].Name)
}

// Stop broadcasts shutdown and waits up to the grace period. It returns
// the per-producer termination state.
func (g *Group) Stop() []Status {
	g.mu.Lock()
	cancel, done := g.cancel, g.done
	g.mu.Unlock()
	if cancel == nil {
		return g.Statuses()
	}
	cancel()

	timer := time.NewTimer(g.grace)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		g.mu.Lock()
		for i := range g.status {
			if g.status[i].State == StateRunning {
				g.status[i].State = StateAbandoned
				g.log.Warn("producer did not stop within grace period",
					"producer", g.status[i].Name, "grace", g.grace)
			}
		}
		g.mu.Unlock()
	}
	return g.Statuses()
}

// Statuses returns a snapshot of producer states in registration order.
func (g *Group) Statuses() []Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Status, len(g.status))
	copy(out, g.status)
	return out
}
