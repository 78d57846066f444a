package realtime

import (
	"testing"
	"time"
)

func recv(t *testing.T, ch <-chan Change) Change {
	t.Helper()
	select {
	case c, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return c
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
	}
	return Change{}
}

func TestSubscribe_ReceivesMatchingTable(t *testing.T) {
	r := NewRegistry(4)
	ch, unsub := r.Subscribe("blocks", nil)
	defer unsub()

	r.Publish(Change{Table: "blocks", Action: ActionInsert, ID: "b1"})
	c := recv(t, ch)
	if c.ID != "b1" || c.Action != ActionInsert {
		t.Errorf("got %+v", c)
	}
}

func TestSubscribe_IgnoresOtherTables(t *testing.T) {
	r := NewRegistry(4)
	ch, unsub := r.Subscribe("blocks", nil)
	defer unsub()

	r.Publish(Change{Table: "events", Action: ActionInsert, ID: "e1"})
	select {
	case c := <-ch:
		t.Errorf("received change for wrong table: %+v", c)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestSubscribe_AllTables(t *testing.T) {
	r := NewRegistry(4)
	ch, unsub := r.Subscribe("", nil)
	defer unsub()

	r.Publish(Change{Table: "events", Action: ActionDelete, ID: "e1"})
	if c := recv(t, ch); c.Table != "events" {
		t.Errorf("got %+v", c)
	}
}

func TestSubscribe_FilterApplied(t *testing.T) {
	r := NewRegistry(4)
	ch, unsub := r.Subscribe("blocks", func(c Change) bool {
		return c.Action == ActionDelete
	})
	defer unsub()

	r.Publish(Change{Table: "blocks", Action: ActionInsert, ID: "skip"})
	r.Publish(Change{Table: "blocks", Action: ActionDelete, ID: "keep"})
	if c := recv(t, ch); c.ID != "keep" {
		t.Errorf("filter passed %+v", c)
	}
}

func TestUnsubscribe_ClosesChannel(t *testing.T) {
	r := NewRegistry(4)
	ch, unsub := r.Subscribe("blocks", nil)
	unsub()

	if _, ok := <-ch; ok {
		t.Error("channel still open after unsubscribe")
	}
	// Publishing after unsubscribe must not panic.
	r.Publish(Change{Table: "blocks", Action: ActionInsert, ID: "x"})
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	r := NewRegistry(4)
	_, unsub := r.Subscribe("blocks", nil)
	unsub()
	unsub()
}

func TestPublish_SlowSubscriberDropsNotBlocks(t *testing.T) {
	r := NewRegistry(1)
	ch, unsub := r.Subscribe("blocks", nil)
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			r.Publish(Change{Table: "blocks", Action: ActionInsert, ID: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
	// Exactly the buffered change survives.
	if c := recv(t, ch); c.Table != "blocks" {
		t.Errorf("got %+v", c)
	}
}

func TestClose_TerminatesSubscriptions(t *testing.T) {
	r := NewRegistry(4)
	ch, _ := r.Subscribe("blocks", nil)
	r.Close()

	if _, ok := <-ch; ok {
		t.Error("channel open after Close")
	}

	// Late subscribers get an already-closed channel.
	late, unsub := r.Subscribe("blocks", nil)
	defer unsub()
	if _, ok := <-late; ok {
		t.Error("subscription after Close returned open channel")
	}

	r.Close() // idempotent
}
