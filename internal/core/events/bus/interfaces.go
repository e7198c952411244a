package bus

import "time"

// EventBus is the in-process pub/sub used to decouple gameplay code from
// the engine systems that detect things (collisions, scene switches).
//
// Delivery is synchronous in the publisher's goroutine and follows
// subscription order, so a frame stays deterministic. Handler errors are
// joined and returned from Publish. Topics scope subscriptions; the default
// topic is "". A bus is safe for concurrent use, though the engine drives it
// from a single goroutine.
type EventBus interface {
	// Publish delivers event to every active subscriber of event.Type() in the
	// default topic.
	Publish(event Event) error
	// Subscribe registers handler for eventType in the default topic.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. A nil subscription is ignored.
	Unsubscribe(sub Subscription) error

	// PublishWithFilters drops the event silently if any filter rejects it.
	PublishWithFilters(event Event, filters ...EventFilter) error

	SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error)
	PublishToTopic(topic string, event Event) error
	// DropTopic cancels every subscription in topic.
	DropTopic(topic string)

	PublishBatch(events ...Event) error

	GetMetrics() EventBusMetrics
	GetTopics() []TopicInfo
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	// EventHandler is invoked per delivered event.
	EventHandler func(event Event) error
	// EventFilter decides whether an event should be delivered.
	EventFilter func(event Event) bool
)

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	Topic() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// EventBusMetrics are cumulative delivery counters.
type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	DroppedByFilters  uint64
	SubscribersActive uint64
}

// TopicInfo is a snapshot about a topic.
type TopicInfo struct {
	Name       string
	EventTypes int
	Subs       int
}
