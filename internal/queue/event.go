// Package queue defines the reservation events exchanged over RabbitMQ,
// the publisher that emits them and the consumer that records them.
package queue

// Queue names.  Each event type has its own durable queue and is routed
// through the default exchange.
const (
	ReservationCreatedQueue = "reservation.created"
	ReservationDeletedQueue = "reservation.deleted"
)

// ReservationCreatedEvent is published after a reservation is stored.  It
// carries enough of the joined records for consumers to log or notify
// without querying the database.
type ReservationCreatedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	MemberID      uint64 `json:"member_id"`
	MemberName    string `json:"member_name"`
	ThemeID       uint64 `json:"theme_id"`
	ThemeName     string `json:"theme_name"`
	Date          string `json:"date"`
	StartAt       string `json:"start_at"`
	ByAdmin       bool   `json:"by_admin"`
	CreatedAt     string `json:"created_at"`
}

// ReservationDeletedEvent is published when a delete actually removed a row.
type ReservationDeletedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	DeletedAt     string `json:"deleted_at"`
}
