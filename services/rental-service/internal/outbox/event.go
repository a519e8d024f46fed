package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (one topic per event type).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Event types emitted by the rental service.
const (
	EventBookingCreated  = "rental.booking.created.v1"
	EventBookingCanceled = "rental.booking.canceled.v1"
	EventBookingDeleted  = "rental.booking.deleted.v1"
	EventDeliveryDue     = "rental.reminder.delivery.due.v1"
	EventPickupDue       = "rental.reminder.pickup.due.v1"
)
