package eventbus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	t.Parallel()
	b := New()
	ch, unsub := b.Subscribe(4)
	defer unsub()

	b.Publish(Event{Topic: TopicTaskScheduled, Data: "t1"})

	select {
	case e := <-ch:
		if e.Topic != TopicTaskScheduled || e.Data != "t1" {
			t.Fatalf("got %+v", e)
		}
		if e.Time.IsZero() {
			t.Fatal("publish did not stamp time")
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	t.Parallel()
	b := New()
	ch, unsub := b.Subscribe(1)
	defer unsub()

	// Fill the buffer, then keep publishing; extras must be dropped, not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			b.Publish(Event{Topic: TopicSweepDone})
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
	if len(ch) != 1 {
		t.Fatalf("buffered = %d, want 1", len(ch))
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()
	b := New()
	ch, unsub := b.Subscribe(4)
	unsub()
	unsub() // idempotent

	b.Publish(Event{Topic: TopicTaskUnschedulable})

	// Channel is closed on unsubscribe; no event may arrive.
	if e, ok := <-ch; ok {
		t.Fatalf("received after unsubscribe: %+v", e)
	}
}

func TestFanout(t *testing.T) {
	t.Parallel()
	b := New()
	a, unsubA := b.Subscribe(1)
	defer unsubA()
	c, unsubC := b.Subscribe(1)
	defer unsubC()

	b.Publish(Event{Topic: TopicTaskScheduled})
	for name, ch := range map[string]<-chan Event{"a": a, "c": c} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s missed the event", name)
		}
	}
}
