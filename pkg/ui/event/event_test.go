package event

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/octyl/pkg/errors"
	"github.com/odvcencio/octyl/pkg/ui/action"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 100; i++ {
		require.NoError(t, q.Push(i))
	}
	assert.Equal(t, 100, q.Len())

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		v, err := q.Pop(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	q := NewQueue[string]()
	got := make(chan string, 1)
	go func() {
		v, _ := q.Pop(context.Background())
		got <- v
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, q.Push("x"))

	select {
	case v := <-got:
		assert.Equal(t, "x", v)
	case <-time.After(time.Second):
		t.Fatal("Pop did not wake after Push")
	}
}

func TestQueue_PopRespectsContext(t *testing.T) {
	q := NewQueue[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_Close(t *testing.T) {
	q := NewQueue[int]()
	require.NoError(t, q.Push(1))
	q.Close()
	q.Close()

	err := q.Push(2)
	assert.True(t, errors.IsCode(err, errors.ErrCodeQueueClosed))
	assert.True(t, q.Closed())

	v, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = q.Pop(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeQueueClosed))
}

func TestQueue_ManyProducers(t *testing.T) {
	q := NewQueue[int]()
	const producers, each = 8, 250

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				_ = q.Push(p*each + i)
			}
		}(p)
	}
	wg.Wait()

	last := make(map[int]int)
	for i := 0; i < producers*each; i++ {
		v, ok, err := q.TryPop()
		require.NoError(t, err)
		require.True(t, ok)
		p := v / each
		if prev, seen := last[p]; seen {
			assert.Less(t, prev, v, "per-producer order must be preserved")
		}
		last[p] = v
	}
}

func TestItem(t *testing.T) {
	ev := FromEvent(terminal.QuitEvent{})
	got, ok := ev.Event()
	assert.True(t, ok)
	assert.Equal(t, terminal.QuitEvent{}, got)
	_, ok = ev.Action()
	assert.False(t, ok)

	a := FromAction(action.Tick())
	act, ok := a.Action()
	assert.True(t, ok)
	assert.True(t, act.Equal(action.Tick()))
	_, ok = a.Event()
	assert.False(t, ok)
}

func TestTicker_EmitsBothTicks(t *testing.T) {
	q := NewQueue[Item]()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewTicker(2*time.Millisecond, 3*time.Millisecond).Run(ctx, q) }()

	var app, render bool
	deadline := time.After(2 * time.Second)
	for !app || !render {
		popCtx, popCancel := context.WithTimeout(ctx, 500*time.Millisecond)
		item, err := q.Pop(popCtx)
		popCancel()
		select {
		case <-deadline:
			t.Fatal("ticks not observed")
		default:
		}
		require.NoError(t, err)
		ev, _ := item.Event()
		switch ev.(type) {
		case terminal.AppTickEvent:
			app = true
		case terminal.RenderTickEvent:
			render = true
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop")
	}
}

func TestTicker_StopsWhenQueueCloses(t *testing.T) {
	q := NewQueue[Item]()
	q.Close()
	err := NewTicker(time.Millisecond, 0).Run(context.Background(), q)
	assert.NoError(t, err)
}

type fakeSource struct {
	events chan terminal.Event
}

func (f *fakeSource) PollEvent() terminal.Event {
	ev, ok := <-f.events
	if !ok {
		return nil
	}
	return ev
}

func popEvent(t *testing.T, q *Queue[Item]) terminal.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	item, err := q.Pop(ctx)
	require.NoError(t, err)
	ev, ok := item.Event()
	require.True(t, ok)
	return ev
}

func TestInput_TranslatesEvents(t *testing.T) {
	src := &fakeSource{events: make(chan terminal.Event, 4)}
	q := NewQueue[Item]()
	done := make(chan error, 1)
	go func() { done <- NewInput(src, nil).Run(context.Background(), q) }()

	src.events <- terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'a'}
	src.events <- terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'c', Mods: terminal.ModCtrl}
	src.events <- terminal.ErrorEvent{Err: stderrors.New("read failed")}
	close(src.events)

	assert.Equal(t, terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'a'}, popEvent(t, q))
	assert.Equal(t, terminal.QuitEvent{}, popEvent(t, q))

	ev, ok := popEvent(t, q).(terminal.ErrorEvent)
	require.True(t, ok)
	assert.True(t, errors.IsCode(ev.Err, errors.ErrCodeInputStream))

	closed, ok := popEvent(t, q).(terminal.ErrorEvent)
	require.True(t, ok, "a closed stream yields one ErrorEvent")
	assert.True(t, errors.IsCode(closed.Err, errors.ErrCodeInputStream))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("input producer did not stop after stream closed")
	}
	assert.Equal(t, 0, q.Len())
}

func TestInput_StopsOnCancelWhilePollBlocks(t *testing.T) {
	src := &fakeSource{events: make(chan terminal.Event)}
	defer close(src.events)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewInput(src, nil).Run(ctx, NewQueue[Item]()) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("input producer ignored cancellation")
	}
}

type funcProducer struct {
	name string
	run  func(ctx context.Context, out Sender) error
}

func (f funcProducer) Name() string { return f.name }

func (f funcProducer) Run(ctx context.Context, out Sender) error { return f.run(ctx, out) }

func TestGroup_StopReportsTermination(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	g := NewGroup(50*time.Millisecond, nil)
	g.Add(funcProducer{name: "polite", run: func(ctx context.Context, _ Sender) error {
		<-ctx.Done()
		return nil
	}})
	g.Add(funcProducer{name: "broken", run: func(context.Context, Sender) error {
		return stderrors.New("boom")
	}})
	g.Add(funcProducer{name: "stuck", run: func(context.Context, Sender) error {
		<-release
		return nil
	}})

	assert.Equal(t, StatePending, g.Statuses()[0].State)
	g.Start(context.Background(), NewQueue[Item]())

	require.Eventually(t, func() bool {
		return g.Statuses()[1].State == StateFailed
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateRunning, g.Statuses()[0].State, "one failure must not cancel the others")

	start := time.Now()
	statuses := g.Stop()
	assert.Less(t, time.Since(start), time.Second)

	require.Len(t, statuses, 3)
	assert.Equal(t, StateStopped, statuses[0].State)
	assert.Equal(t, StateFailed, statuses[1].State)
	assert.EqualError(t, statuses[1].Err, "boom")
	assert.Equal(t, StateAbandoned, statuses[2].State)
	assert.Equal(t, "abandoned", statuses[2].State.String())
}

func TestGroup_ParentCancelReachesProducers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := NewGroup(time.Second, nil)
	g.Add(funcProducer{name: "broken", run: func(context.Context, Sender) error {
		return stderrors.New("boom")
	}})
	g.Add(funcProducer{name: "waiter", run: func(ctx context.Context, _ Sender) error {
		<-ctx.Done()
		return nil
	}})
	g.Start(ctx, NewQueue[Item]())

	require.Eventually(t, func() bool {
		return g.Statuses()[0].State == StateFailed
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateRunning, g.Statuses()[1].State)

	cancel()
	require.Eventually(t, func() bool {
		return g.Statuses()[1].State == StateStopped
	}, time.Second, 5*time.Millisecond)

	statuses := g.Stop()
	assert.Equal(t, StateFailed, statuses[0].State)
	assert.Equal(t, StateStopped, statuses[1].State)
}

func TestGroup_StopWithoutStart(t *testing.T) {
	g := NewGroup(time.Millisecond, nil)
	g.Add(NewTicker(time.Second, time.Second))
	statuses := g.Stop()
	require.Len(t, statuses, 1)
	assert.Equal(t, StatePending, statuses[0].State)
}
