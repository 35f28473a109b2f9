package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-ticketing-api/internal/handler"
	"github.com/iliyamo/cinema-ticketing-api/internal/model"
	"github.com/iliyamo/cinema-ticketing-api/internal/queue"
	"github.com/iliyamo/cinema-ticketing-api/internal/repository"
)

// fakeMovieStore is an in-memory handler.MovieStore.
type fakeMovieStore struct {
	movies []model.Movie
	nextID uint64
}

func (f *fakeMovieStore) ListWithShowtimes(context.Context) ([]model.Movie, error) {
	return f.movies, nil
}

func (f *fakeMovieStore) GetByID(_ context.Context, id uint64) (model.Movie, error) {
	for _, m := range f.movies {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Movie{}, repository.ErrNotFound
}

func (f *fakeMovieStore) Create(_ context.Context, m *model.Movie) error {
	f.nextID++
	m.ID = f.nextID
	m.LastModified = time.Now().UTC()
	for i := range m.Showtimes {
		f.nextID++
		m.Showtimes[i].ID = f.nextID
		m.Showtimes[i].MovieID = m.ID
		m.Showtimes[i].LastModified = m.LastModified
	}
	f.movies = append(f.movies, *m)
	return nil
}

func seededMovieStore() *fakeMovieStore {
	starts := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	return &fakeMovieStore{
		nextID: 2,
		movies: []model.Movie{{
			ID:          1,
			Title:       "Dune: Part Two",
			Description: "Paul Atreides unites with Chani and the Fremen.",
			Showtimes: []model.Showtime{
				{ID: 2, MovieID: 1, StartsAt: starts, PriceCents: 1450},
			},
		}},
	}
}

func getPath(t *testing.T, h echo.HandlerFunc, path, paramName, paramValue string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if paramName != "" {
		c.SetParamNames(paramName)
		c.SetParamValues(paramValue)
	}
	require.NoError(t, h(c))
	return rec
}

func TestGetMoviesReturnsCatalog(t *testing.T) {
	h := handler.NewMovieHandler(seededMovieStore())
	rec := getPath(t, h.GetMovies, "/api/movies", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var dtos []struct {
		ID        uint64 `json:"id"`
		Title     string `json:"title"`
		Showtimes []struct {
			PriceCents uint32 `json:"price_cents"`
		} `json:"showtimes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dtos))
	require.Len(t, dtos, 1)
	assert.Equal(t, "Dune: Part Two", dtos[0].Title)
	require.Len(t, dtos[0].Showtimes, 1)
	assert.Equal(t, uint32(1450), dtos[0].Showtimes[0].PriceCents)
}

func TestGetMovieByID(t *testing.T) {
	h := handler.NewMovieHandler(seededMovieStore())

	rec := getPath(t, h.GetMovie, "/api/movies/1", "id", "1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dune: Part Two")

	rec = getPath(t, h.GetMovie, "/api/movies/99", "id", "99")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = getPath(t, h.GetMovie, "/api/movies/abc", "id", "abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateMoviePersistsAggregate(t *testing.T) {
	store := &fakeMovieStore{}
	h := handler.NewMovieHandler(store)

	var published []queue.MovieCreatedEvent
	h.Publish = func(_ context.Context, ev queue.MovieCreatedEvent) error {
		published = append(published, ev)
		return nil
	}

	body := `{
		"title": "Barbie",
		"description": "Barbie suffers a crisis.",
		"showtimes": [
			{"starts_at": "2026-09-02T16:00:00Z", "price_cents": 1200},
			{"starts_at": "2026-09-02T20:00:00Z", "price_cents": 1200}
		]
	}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/movies", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_name", "alice@example.com")
	require.NoError(t, h.CreateMovie(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	var dto struct {
		ID        uint64 `json:"id"`
		Showtimes []struct {
			ID      uint64 `json:"id"`
			StartAt string `json:"starts_at"`
		} `json:"showtimes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.NotZero(t, dto.ID)
	require.Len(t, dto.Showtimes, 2)
	assert.NotZero(t, dto.Showtimes[0].ID)

	require.Len(t, store.movies, 1)
	assert.Len(t, store.movies[0].Showtimes, 2)

	require.Len(t, published, 1)
	assert.Equal(t, "Barbie", published[0].Title)
	assert.Equal(t, 2, published[0].ShowtimeCount)
	assert.Equal(t, "alice@example.com", published[0].CreatedBy)
}

func TestCreateMovieValidation(t *testing.T) {
	h := handler.NewMovieHandler(&fakeMovieStore{})

	rec := doJSON(t, h.CreateMovie, `{"title":"","description":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title")

	rec = doJSON(t, h.CreateMovie, `{"title":"No Times","showtimes":[{"price_cents":100}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "showtimes")
}

// A publish failure must not fail the request.
func TestCreateMovieSurvivesPublishFailure(t *testing.T) {
	h := handler.NewMovieHandler(&fakeMovieStore{})
	h.Publish = func(context.Context, queue.MovieCreatedEvent) error {
		return context.DeadlineExceeded
	}

	rec := doJSON(t, h.CreateMovie, `{"title":"Barbie","showtimes":[]}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
