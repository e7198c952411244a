package bus

import (
	"errors"
	"testing"
)

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got Event
	_, err := b.Subscribe("collision.begin", func(e Event) error {
		got = e
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err = b.Publish(NewEvent("collision.begin", "tester", 123)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got == nil {
		t.Fatal("handler not called")
	}
	if got.Data().(int) != 123 || got.Source() != "tester" {
		t.Fatalf("unexpected event: %+v", got)
	}
}

func TestDeliveryFollowsSubscriptionOrder(t *testing.T) {
	b := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		if _, err := b.Subscribe("ev", func(Event) error { order = append(order, i); return nil }); err != nil {
			t.Fatalf("subscribe: %v", err)
		}
	}
	_ = b.Publish(NewEvent("ev", "src", nil))
	for i, v := range order {
		if v != i {
			t.Fatalf("out of order delivery: %v", order)
		}
	}
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	errA := errors.New("a")
	errB := errors.New("b")
	_, _ = b.Subscribe("x", func(Event) error { return errA })
	_, _ = b.Subscribe("x", func(Event) error { return errB })

	err := b.Publish(NewEvent("x", "src", nil))
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if m := b.GetMetrics(); m.Errors != 1 || m.DeliveredHandlers != 2 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestCancelDuringDelivery(t *testing.T) {
	b := New()
	calls := 0
	var sub Subscription
	sub, _ = b.Subscribe("once", func(Event) error {
		calls++
		return sub.Cancel()
	})
	_ = b.Publish(NewEvent("once", "src", nil))
	_ = b.Publish(NewEvent("once", "src", nil))
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
	if sub.IsActive() {
		t.Fatal("subscription should be inactive")
	}
	if err := b.Unsubscribe(nil); err != nil {
		t.Fatalf("nil unsubscribe: %v", err)
	}
}

func TestTopicsIsolation(t *testing.T) {
	b := New()
	count1 := 0
	count2 := 0
	_, _ = b.SubscribeTopic("menu", "ev", func(e Event) error { count1++; return nil })
	_, _ = b.SubscribeTopic("level", "ev", func(e Event) error { count2++; return nil })
	_ = b.PublishToTopic("menu", NewEvent("ev", "src", nil))
	if count1 != 1 || count2 != 0 {
		t.Fatalf("topic isolation failed: %d %d", count1, count2)
	}

	b.DropTopic("level")
	_ = b.PublishToTopic("level", NewEvent("ev", "src", nil))
	if count2 != 0 {
		t.Fatalf("dropped topic still delivering: %d", count2)
	}
	topics := b.GetTopics()
	if len(topics) != 1 || topics[0].Name != "menu" {
		t.Fatalf("unexpected topics: %#v", topics)
	}
}

func TestFiltersDropSilently(t *testing.T) {
	b := New()
	called := false
	_, _ = b.Subscribe("e", func(Event) error { called = true; return nil })
	err := b.PublishWithFilters(NewEvent("e", "s", nil), func(Event) bool { return false })
	if err != nil || called {
		t.Fatalf("filtered event delivered: err=%v called=%v", err, called)
	}
	if m := b.GetMetrics(); m.DroppedByFilters != 1 {
		t.Fatalf("drop not counted: %+v", m)
	}
}

func TestInvalidSubscriptions(t *testing.T) {
	b := New()
	if _, err := b.Subscribe("e", nil); !errors.Is(err, ErrNilHandler) {
		t.Fatalf("expected ErrNilHandler, got %v", err)
	}
	if _, err := b.Subscribe("", func(Event) error { return nil }); !errors.Is(err, ErrEmptyEventType) {
		t.Fatalf("expected ErrEmptyEventType, got %v", err)
	}
	if err := b.Publish(nil); !errors.Is(err, ErrNilEvent) {
		t.Fatalf("expected ErrNilEvent, got %v", err)
	}
}

func TestPublishBatch(t *testing.T) {
	b := New()
	n := 0
	_, _ = b.Subscribe("tick", func(Event) error { n++; return nil })
	if err := b.PublishBatch(NewEvent("tick", "s", 1), NewEvent("tick", "s", 2)); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deliveries, got %d", n)
	}
}
