// Package queue defines the catalog event payloads exchanged over the
// message broker and the background consumer that drains them.
package queue

// MovieCreatedEvent is published when a movie aggregate is persisted.
// It carries enough for downstream consumers (notifications, analytics)
// to act without querying the primary database.
type MovieCreatedEvent struct {
	MovieID       uint64 `json:"movie_id"`
	Title         string `json:"title"`
	ShowtimeCount int    `json:"showtime_count"`
	CreatedBy     string `json:"created_by"`
	CreatedAt     string `json:"created_at"`
}
