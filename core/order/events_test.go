package order

import "testing"

func TestBroker(t *testing.T) {
	b := NewBroker(1)
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	if got := b.Subscribers(); got != 2 {
		t.Fatalf("Subscribers() = %d; want 2", got)
	}

	b.Publish(Event{Type: EventCreated, Order: Order{ID: "1"}})
	b.Publish(Event{Type: EventCreated, Order: Order{ID: "2"}}) // dropped: buffers are full

	for _, ch := range []<-chan Event{ch1, ch2} {
		ev := <-ch
		if ev.Type != EventCreated || ev.Order.ID != "1" {
			t.Errorf("event = %+v; want created #1", ev)
		}
		select {
		case ev = <-ch:
			t.Errorf("unexpected event %+v", ev)
		default:
		}
	}

	cancel1()
	cancel1() // no-op
	if _, ok := <-ch1; ok {
		t.Error("channel still open after unsubscribe")
	}
	if got := b.Subscribers(); got != 1 {
		t.Errorf("Subscribers() = %d; want 1", got)
	}
	b.Publish(Event{Type: EventDelivered})
	if ev := <-ch2; ev.Type != EventDelivered {
		t.Errorf("event = %+v; want delivered", ev)
	}
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker(4)
	ch, cancel := b.Subscribe()

	b.Close()
	b.Close() // no-op
	if _, ok := <-ch; ok {
		t.Error("channel still open after Close()")
	}
	cancel() // must not close twice
	if got := b.Subscribers(); got != 0 {
		t.Errorf("Subscribers() = %d; want 0", got)
	}

	b.Publish(Event{Type: EventCreated})
	late, cancelLate := b.Subscribe()
	defer cancelLate()
	if _, ok := <-late; ok {
		t.Error("subscription opened after Close()")
	}
}
