package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing-api/internal/model"
	"github.com/iliyamo/cinema-ticketing-api/internal/queue"
	"github.com/iliyamo/cinema-ticketing-api/internal/repository"
)

// MovieStore is the catalog access the movie endpoints need.
// *repository.MovieRepo satisfies it.
type MovieStore interface {
	ListWithShowtimes(ctx context.Context) ([]model.Movie, error)
	GetByID(ctx context.Context, id uint64) (model.Movie, error)
	Create(ctx context.Context, m *model.Movie) error
}

// MovieHandler serves the movie catalog. Publish, when set, is called
// after a successful create; failures there are logged and never fail
// the request.
type MovieHandler struct {
	Movies  MovieStore
	Publish func(ctx context.Context, ev queue.MovieCreatedEvent) error
}

func NewMovieHandler(movies MovieStore) *MovieHandler {
	return &MovieHandler{Movies: movies}
}

// ----- DTOs -----

type showtimeDTO struct {
	ID         uint64    `json:"id,omitempty"`
	StartsAt   time.Time `json:"starts_at"`
	PriceCents uint32    `json:"price_cents"`
}

type movieDTO struct {
	ID          uint64        `json:"id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Showtimes   []showtimeDTO `json:"showtimes"`
}

func (m movieDTO) Validate() error {
	if err := validation.ValidateStruct(&m,
		validation.Field(&m.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.Description, validation.Length(0, 2000)),
	); err != nil {
		return err
	}
	for _, s := range m.Showtimes {
		if s.StartsAt.IsZero() {
			return validation.Errors{"showtimes": errors.New("starts_at is required for every showtime")}
		}
	}
	return nil
}

// Explicit entity<->DTO mapping. Typed copies over a reflective mapper:
// a renamed field breaks the build, not the payload.

func toMovieDTO(m model.Movie) movieDTO {
	dto := movieDTO{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Showtimes:   make([]showtimeDTO, 0, len(m.Showtimes)),
	}
	for _, s := range m.Showtimes {
		dto.Showtimes = append(dto.Showtimes, showtimeDTO{
			ID:         s.ID,
			StartsAt:   s.StartsAt,
			PriceCents: s.PriceCents,
		})
	}
	return dto
}

func toMovieModel(dto movieDTO) model.Movie {
	m := model.Movie{
		Title:       dto.Title,
		Description: dto.Description,
		Showtimes:   make([]model.Showtime, 0, len(dto.Showtimes)),
	}
	for _, s := range dto.Showtimes {
		m.Showtimes = append(m.Showtimes, model.Showtime{
			StartsAt:   s.StartsAt,
			PriceCents: s.PriceCents,
		})
	}
	return m
}

// GetMovies returns the whole catalog with showtimes.
func (h *MovieHandler) GetMovies(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Movies.ListWithShowtimes(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	dtos := make([]movieDTO, 0, len(movies))
	for _, m := range movies {
		dtos = append(dtos, toMovieDTO(m))
	}
	return c.JSON(http.StatusOK, dtos)
}

// GetMovie returns one movie by id.
func (h *MovieHandler) GetMovie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toMovieDTO(m))
}

// CreateMovie persists a movie aggregate. Requires a valid bearer token;
// the authenticated user comes from the context set by the auth
// middleware.
func (h *MovieHandler) CreateMovie(c echo.Context) error {
	var dto movieDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := dto.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": err})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := toMovieModel(dto)
	if err := h.Movies.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}

	if h.Publish != nil {
		createdBy, _ := c.Get("user_name").(string)
		ev := queue.MovieCreatedEvent{
			MovieID:       m.ID,
			Title:         m.Title,
			ShowtimeCount: len(m.Showtimes),
			CreatedBy:     createdBy,
			CreatedAt:     m.LastModified.Format(time.RFC3339),
		}
		if err := h.Publish(ctx, ev); err != nil {
			c.Logger().Warnf("movie %d created but event publish failed: %v", m.ID, err)
		}
	}

	return c.JSON(http.StatusCreated, toMovieDTO(m))
}
