package database

import (
	"context"
	"database/sql"
	"time"
)

// Seed populates the demo catalog on first start. It is a no-op when the
// movies table already has rows, so restarting the server never
// duplicates data. Schema management itself stays outside the process.
func Seed(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	type seedShow struct {
		startsAt   time.Time
		priceCents uint32
	}
	seeds := []struct {
		title, description string
		shows              []seedShow
	}{
		{
			title:       "Dune: Part Two",
			description: "Paul Atreides unites with Chani and the Fremen.",
			shows: []seedShow{
				{startsAt: now.AddDate(0, 0, 1).Add(18 * time.Hour), priceCents: 1450},
				{startsAt: now.AddDate(0, 0, 1).Add(21 * time.Hour), priceCents: 1450},
			},
		},
		{
			title:       "Barbie",
			description: "Barbie suffers a crisis that leads her to question her world and her existence.",
			shows: []seedShow{
				{startsAt: now.AddDate(0, 0, 2).Add(16 * time.Hour), priceCents: 1200},
			},
		},
	}

	for _, s := range seeds {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO movies (title, description, last_modified) VALUES (?,?,?)",
			s.title, s.description, now)
		if err != nil {
			return err
		}
		movieID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, sh := range s.shows {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO showtimes (movie_id, starts_at, price_cents, last_modified) VALUES (?,?,?,?)",
				movieID, sh.startsAt, sh.priceCents, now); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}
