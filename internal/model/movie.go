package model

import "time"

// Movie is a row in the `movies` table together with its showtimes. A
// movie owns its showtimes: creating a movie persists the whole
// aggregate in one transaction and LastModified is stamped on every
// write.
type Movie struct {
	ID           uint64     // movies.id
	Title        string     // movies.title
	Description  string     // movies.description
	LastModified time.Time  // movies.last_modified
	Showtimes    []Showtime // child rows from showtimes
}

// Showtime is a row in the `showtimes` table. Prices are carried as
// cents to keep arithmetic exact.
type Showtime struct {
	ID           uint64    // showtimes.id
	MovieID      uint64    // showtimes.movie_id (FK -> movies.id)
	StartsAt     time.Time // showtimes.starts_at (UTC)
	PriceCents   uint32    // showtimes.price_cents
	LastModified time.Time // showtimes.last_modified
}
