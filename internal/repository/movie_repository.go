package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cinema-ticketing-api/internal/model"
)

// MovieRepo owns the movies and showtimes tables. A movie and its
// showtimes form one aggregate: reads return them together and Create
// persists them in a single transaction.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

// ListWithShowtimes returns every movie with its showtimes eagerly
// loaded. Showtimes are fetched in one query and grouped in memory to
// avoid a per-movie round trip.
func (r *MovieRepo) ListWithShowtimes(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,title,description,last_modified FROM movies ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []model.Movie{}
	index := map[uint64]int{}
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.LastModified); err != nil {
			return nil, err
		}
		m.Showtimes = []model.Showtime{}
		index[m.ID] = len(movies)
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	shows, err := r.DB.QueryContext(ctx,
		"SELECT id,movie_id,starts_at,price_cents,last_modified FROM showtimes ORDER BY movie_id, starts_at")
	if err != nil {
		return nil, err
	}
	defer shows.Close()
	for shows.Next() {
		var s model.Showtime
		if err := shows.Scan(&s.ID, &s.MovieID, &s.StartsAt, &s.PriceCents, &s.LastModified); err != nil {
			return nil, err
		}
		if i, ok := index[s.MovieID]; ok {
			movies[i].Showtimes = append(movies[i].Showtimes, s)
		}
	}
	if err := shows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetByID returns one movie with its showtimes, or ErrNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	var m model.Movie
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,title,description,last_modified FROM movies WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.Title, &m.Description, &m.LastModified)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrNotFound
	}
	if err != nil {
		return model.Movie{}, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,movie_id,starts_at,price_cents,last_modified FROM showtimes WHERE movie_id=? ORDER BY starts_at",
		id)
	if err != nil {
		return model.Movie{}, err
	}
	defer rows.Close()
	m.Showtimes = []model.Showtime{}
	for rows.Next() {
		var s model.Showtime
		if err := rows.Scan(&s.ID, &s.MovieID, &s.StartsAt, &s.PriceCents, &s.LastModified); err != nil {
			return model.Movie{}, err
		}
		m.Showtimes = append(m.Showtimes, s)
	}
	if err := rows.Err(); err != nil {
		return model.Movie{}, err
	}
	return m, nil
}

// Create persists a movie together with its showtimes in one
// transaction and fills in the generated IDs and last_modified stamps on
// the passed aggregate. Either the whole aggregate lands or none of it.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO movies (title, description, last_modified) VALUES (?,?,?)",
		m.Title, m.Description, now)
	if err != nil {
		return err
	}
	movieID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(movieID)
	m.LastModified = now

	for i := range m.Showtimes {
		s := &m.Showtimes[i]
		s.MovieID = m.ID
		s.LastModified = now
		res, err := tx.ExecContext(ctx,
			"INSERT INTO showtimes (movie_id, starts_at, price_cents, last_modified) VALUES (?,?,?,?)",
			s.MovieID, s.StartsAt.UTC(), s.PriceCents, now)
		if err != nil {
			return err
		}
		showID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		s.ID = uint64(showID)
	}
	return tx.Commit()
}
