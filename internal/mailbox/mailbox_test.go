package mailbox

import (
	"testing"
	"time"
)

func TestSendThenReceive(t *testing.T) {
	m := New[int]()
	m.Send(5)
	v, ok := m.Receive(nil)
	if !ok || v != 5 {
		t.Fatalf("Receive() = %d, %v, want 5, true", v, ok)
	}
}

func TestSendOverwritesPendingValue(t *testing.T) {
	m := New[string]()
	m.Send("first")
	m.Send("second")

	v, ok := m.Receive(nil)
	if !ok || v != "second" {
		t.Fatalf("Receive() = %q, %v, want \"second\", true (latest wins)", v, ok)
	}
}

func TestReceiveBlocksUntilSend(t *testing.T) {
	m := New[int]()
	resultCh := make(chan int, 1)
	go func() {
		v, ok := m.Receive(nil)
		if ok {
			resultCh <- v
		}
	}()

	time.Sleep(10 * time.Millisecond)
	m.Send(7)

	select {
	case v := <-resultCh:
		if v != 7 {
			t.Errorf("Receive() = %d, want 7", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Send")
	}
}

func TestCloseWakesBlockedReceiver(t *testing.T) {
	m := New[int]()
	doneCh := make(chan struct{})
	go func() {
		_, ok := m.Receive(nil)
		if ok {
			t.Error("Receive() expected ok=false after Close with no pending value")
		}
		close(doneCh)
	}()

	time.Sleep(10 * time.Millisecond)
	m.Close()

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Close to wake receiver")
	}
}

func TestCloseDrainsPendingValueFirst(t *testing.T) {
	m := New[int]()
	m.Send(9)
	m.Close()

	v, ok := m.Receive(nil)
	if !ok || v != 9 {
		t.Fatalf("Receive() = %d, %v, want 9, true (pending value must drain before close)", v, ok)
	}

	_, ok = m.Receive(nil)
	if ok {
		t.Error("second Receive() after drain+close expected ok=false")
	}
}

func TestSendAfterCloseIsDropped(t *testing.T) {
	m := New[int]()
	m.Close()
	m.Send(1)

	_, ok := m.Receive(nil)
	if ok {
		t.Error("Receive() after Close expected ok=false even if Send was attempted")
	}
}

func TestSwapReturnsPreviousPendingValue(t *testing.T) {
	m := New[string]()
	m.Send("first")

	old, had := m.Swap("second")
	if !had || old != "first" {
		t.Fatalf("Swap() = %q, %v, want \"first\", true", old, had)
	}

	v, ok := m.Receive(nil)
	if !ok || v != "second" {
		t.Fatalf("Receive() = %q, %v, want \"second\", true", v, ok)
	}
}

func TestSwapOnEmptyMailboxReportsNoPriorValue(t *testing.T) {
	m := New[int]()
	_, had := m.Swap(42)
	if had {
		t.Error("Swap() on empty mailbox reported a prior value")
	}
}

func TestCtxDoneUnblocksReceive(t *testing.T) {
	m := New[int]()
	ctxDone := make(chan struct{})
	close(ctxDone)

	_, ok := m.Receive(ctxDone)
	if ok {
		t.Error("Receive() with closed ctxDone expected ok=false")
	}
}
