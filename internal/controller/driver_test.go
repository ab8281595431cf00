package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/commatea/deskd/internal/desk"
	"github.com/commatea/deskd/internal/statefeed"
	"github.com/commatea/deskd/internal/units"
)

// fakeDesk is a Desk test double whose Update blocks until a value is
// pushed onto updates (or its context is cancelled).
type fakeDesk struct {
	mu      sync.Mutex
	state   desk.DeskState
	feed    *statefeed.Feed[desk.DeskState]
	updates chan desk.DeskState

	stopCalls int
	stopErr   error
}

func newFakeDesk(initial desk.DeskState) *fakeDesk {
	return &fakeDesk{state: initial, feed: statefeed.New(initial), updates: make(chan desk.DeskState, 8)}
}

func (f *fakeDesk) State() desk.DeskState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeDesk) Update(ctx context.Context) (desk.DeskState, error) {
	select {
	case s := <-f.updates:
		f.mu.Lock()
		f.state = s
		f.mu.Unlock()
		f.feed.Publish(s)
		return s, nil
	case <-ctx.Done():
		return desk.DeskState{}, ctx.Err()
	}
}

func (f *fakeDesk) Stop(ctx context.Context) error {
	f.mu.Lock()
	f.stopCalls++
	f.mu.Unlock()
	return f.stopErr
}

func (f *fakeDesk) Subscribe() *statefeed.Receiver[desk.DeskState] {
	return f.feed.Subscribe()
}

// fakeMover is a Mover test double whose MoveTo blocks until released
// or cancelled, letting tests exercise preemption deterministically.
type fakeMover struct {
	mu       sync.Mutex
	started  chan struct{}
	release  chan error
	calls    int
}

func newFakeMover() *fakeMover {
	return &fakeMover{started: make(chan struct{}, 8), release: make(chan error, 8)}
}

func (m *fakeMover) MoveTo(ctx context.Context, target units.Position) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	m.started <- struct{}{}
	select {
	case err := <-m.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func runDriver(t *testing.T, d *Driver) (context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	return cancel, done
}

func TestGetStateReturnsCurrentState(t *testing.T) {
	fd := newFakeDesk(desk.DeskState{Position: mustPos(t, 80)})
	fm := newFakeMover()
	d := New(fd, fm, nil)
	cancel, done := runDriver(t, d)
	defer cancel()

	cmd, reply := NewGetStateCommand()
	d.Submit(cmd)

	select {
	case res := <-reply:
		if res.Err != nil {
			t.Fatalf("GetState result.Err = %v", res.Err)
		}
		if res.Value.Position.Ticks() != fd.State().Position.Ticks() {
			t.Errorf("GetState result = %+v, want %+v", res.Value, fd.State())
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for GetState reply")
	}

	cancel()
	<-done
}

func TestMoveToCommandRepliesAtDispatchNotCompletion(t *testing.T) {
	fd := newFakeDesk(desk.DeskState{Position: mustPos(t, 70)})
	fm := newFakeMover()
	d := New(fd, fm, nil)
	cancel, done := runDriver(t, d)
	defer cancel()

	cmd, reply := NewMoveToCommand(mustPos(t, 80))
	d.Submit(cmd)

	select {
	case res := <-reply:
		if res.Err != nil {
			t.Fatalf("MoveTo result.Err = %v", res.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for MoveTo dispatch reply")
	}

	select {
	case <-fm.started:
	case <-time.After(time.Second):
		t.Fatal("motion controller was never invoked")
	}

	fm.release <- nil
	cancel()
	<-done
}

func TestNewCommandPreemptsInFlightMove(t *testing.T) {
	fd := newFakeDesk(desk.DeskState{Position: mustPos(t, 70)})
	fm := newFakeMover()
	d := New(fd, fm, nil)
	cancel, done := runDriver(t, d)
	defer cancel()

	moveCmd, moveReply := NewMoveToCommand(mustPos(t, 80))
	d.Submit(moveCmd)
	<-moveReply
	<-fm.started // first move is now running, blocked on its release channel

	stopCmd, stopReply := NewStopCommand()
	d.Submit(stopCmd)

	select {
	case res := <-stopReply:
		if res.Err != nil {
			t.Fatalf("Stop result.Err = %v", res.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Stop to preempt the in-flight move")
	}

	if fd.stopCalls != 1 {
		t.Errorf("stopCalls = %d, want 1", fd.stopCalls)
	}

	cancel()
	<-done
}

func TestOverwrittenMailboxCommandRepliesChannelCloses(t *testing.T) {
	fd := newFakeDesk(desk.DeskState{Position: mustPos(t, 70)})
	fm := newFakeMover()
	d := New(fd, fm, nil)

	first, firstReply := NewGetStateCommand()
	second, secondReply := NewGetStateCommand()

	d.Submit(first)
	d.Submit(second) // overwrites first before any Run loop drains it

	_, ok := <-firstReply
	if ok {
		t.Error("overwritten command's reply channel delivered a value instead of closing empty")
	}

	cancel, done := runDriver(t, d)
	defer cancel()

	select {
	case res := <-secondReply:
		if res.Err != nil {
			t.Fatalf("second GetState result.Err = %v", res.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for surviving command's reply")
	}

	cancel()
	<-done
}

func TestRunExitsWhenCloseDrainsMailbox(t *testing.T) {
	fd := newFakeDesk(desk.DeskState{Position: mustPos(t, 70)})
	fm := newFakeMover()
	d := New(fd, fm, nil)
	_, done := runDriver(t, d)

	d.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() returned error = %v, want nil on clean Close", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after Close")
	}
}

func TestCloseAwaitsInFlightMoveCompletionRatherThanCancelingIt(t *testing.T) {
	fd := newFakeDesk(desk.DeskState{Position: mustPos(t, 70)})
	fm := newFakeMover()
	d := New(fd, fm, nil)
	_, done := runDriver(t, d)

	moveCmd, moveReply := NewMoveToCommand(mustPos(t, 80))
	d.Submit(moveCmd)
	<-moveReply
	<-fm.started // move is now running, blocked on its release channel

	d.Close()

	select {
	case <-done:
		t.Fatal("Run returned before the in-flight move completed")
	case <-time.After(50 * time.Millisecond):
	}

	fm.release <- nil // let the move finish on its own, unpreempted

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() returned error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after the in-flight move completed")
	}

	if fd.stopCalls != 0 {
		t.Errorf("stopCalls = %d, want 0: graceful close must not preempt the move", fd.stopCalls)
	}
}

func TestRunReturnsFatalErrorFromMotion(t *testing.T) {
	fd := newFakeDesk(desk.DeskState{Position: mustPos(t, 70)})
	fm := newFakeMover()
	d := New(fd, fm, nil)
	cancel, done := runDriver(t, d)
	defer cancel()

	moveCmd, moveReply := NewMoveToCommand(mustPos(t, 80))
	d.Submit(moveCmd)
	<-moveReply
	<-fm.started

	fm.release <- errors.New("transport fault")

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("Run() returned nil, want fatal motion error to propagate")
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after fatal motion error")
	}
}

func mustPos(t *testing.T, cm float32) units.Position {
	t.Helper()
	p, err := units.NewPositionFromCM(cm)
	if err != nil {
		t.Fatalf("NewPositionFromCM(%v): %v", cm, err)
	}
	return p
}
