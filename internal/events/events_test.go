package events

import (
	"testing"
	"time"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(nil)
	a, unsubA := bus.Subscribe(4)
	b, unsubB := bus.Subscribe(4)
	defer unsubA()
	defer unsubB()

	bus.Publish(Event{Type: TypeNotice, Payload: Notice{Kind: NoticeNoPlayableSource}})

	for _, ch := range []<-chan Event{a, b} {
		e := receive(t, ch)
		if e.Type != TypeNotice {
			t.Errorf("Expected notice event, got %s", e.Type)
		}
		if e.At.IsZero() {
			t.Error("Expected timestamp to be set")
		}
		if n, ok := e.Payload.(Notice); !ok || n.Kind != NoticeNoPlayableSource {
			t.Errorf("Unexpected payload: %+v", e.Payload)
		}
	}
}

func TestBus_PublishDoesNotBlock(t *testing.T) {
	bus := NewBus(nil)
	ch, unsub := bus.Subscribe(1)
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Publish(Event{Type: TypePlayback})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
	if len(ch) != 1 {
		t.Errorf("Expected buffer to hold 1 event, got %d", len(ch))
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil)
	ch, unsub := bus.Subscribe(1)
	unsub()
	unsub()

	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed after unsubscribe")
	}
	if bus.Subscribers() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", bus.Subscribers())
	}
	bus.Publish(Event{Type: TypeResults})
}

func TestBus_Close(t *testing.T) {
	bus := NewBus(nil)
	ch, unsub := bus.Subscribe(1)
	bus.Close()
	unsub()

	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed")
	}

	bus.Publish(Event{Type: TypeDownload})

	late, _ := bus.Subscribe(1)
	if _, ok := <-late; ok {
		t.Error("Expected subscription on closed bus to be closed")
	}
}
