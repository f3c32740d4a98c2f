package contentmodule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/streamvault/streamvault/internal/clock"
	"github.com/streamvault/streamvault/internal/database"
	apperrors "github.com/streamvault/streamvault/internal/errors"
	"github.com/streamvault/streamvault/internal/events"
)

// Simulated network round-trip per operation. The admin console was built
// against these latencies; keep them stable so loading states stay visible.
const (
	listDelay   = 500 * time.Millisecond
	addDelay    = 800 * time.Millisecond
	updateDelay = 600 * time.Millisecond
	deleteDelay = 700 * time.Millisecond
)

// Service implements catalog management. It owns the movie store: nothing
// else mutates the movies table.
type Service struct {
	db    *gorm.DB
	clock clock.Clock
	bus   events.EventBus
}

// NewService creates a content service over the given store.
func NewService(db *gorm.DB, clk clock.Clock, bus events.EventBus) *Service {
	return &Service{db: db, clock: clk, bus: bus}
}

// AddMovieRequest carries the fields accepted when creating a title.
// Title and ThumbnailURL are required; everything else is optional.
type AddMovieRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	CoverURL     string   `json:"coverUrl"`
	Year         int      `json:"year"`
	Duration     string   `json:"duration"`
	Genres       []string `json:"genre"`
	Rating       string   `json:"rating"`
	IsFeatured   bool     `json:"isFeatured"`
	TrailerURL   string   `json:"trailerUrl"`
}

// MoviePatch is a shallow-merge update: nil fields are preserved on the
// existing record.
type MoviePatch struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	CoverURL     *string   `json:"coverUrl"`
	Year         *int      `json:"year"`
	Duration     *string   `json:"duration"`
	Genres       *[]string `json:"genre"`
	Rating       *string   `json:"rating"`
	IsFeatured   *bool     `json:"isFeatured"`
	TrailerURL   *string   `json:"trailerUrl"`
}

// Initialize seeds the catalog with the given titles, replacing whatever is
// stored. Until it is called the catalog is empty. Seeding is synchronous:
// it stands in for data that would ship with a real deployment, not for a
// network call.
func (s *Service) Initialize(movies []database.Movie) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&database.Movie{}).Error; err != nil {
			return apperrors.InternalError("initialize_catalog", err)
		}
		if len(movies) == 0 {
			return nil
		}
		if err := tx.Create(&movies).Error; err != nil {
			return apperrors.InternalError("initialize_catalog", err)
		}
		return nil
	})
}

// List returns a snapshot of the catalog. It never fails on an empty store.
func (s *Service) List(ctx context.Context) ([]database.Movie, error) {
	if err := s.clock.Sleep(ctx, listDelay); err != nil {
		return nil, err
	}

	var movies []database.Movie
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&movies).Error; err != nil {
		return nil, apperrors.InternalError("list_movies", err)
	}
	return movies, nil
}

// Get returns a single title by ID.
func (s *Service) Get(ctx context.Context, id string) (*database.Movie, error) {
	var movie database.Movie
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError("get_movie", apperrors.ErrMovieNotFound).WithEntity("movie", id)
		}
		return nil, apperrors.InternalError("get_movie", err)
	}
	return &movie, nil
}

// Add validates and stores a new title, assigning its ID.
func (s *Service) Add(ctx context.Context, req AddMovieRequest) (*database.Movie, error) {
	if req.Title == "" || req.ThumbnailURL == "" {
		return nil, apperrors.ValidationError("add_movie", apperrors.ErrMissingRequiredFields)
	}

	if err := s.clock.Sleep(ctx, addDelay); err != nil {
		return nil, err
	}

	movie := database.Movie{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		CoverURL:     req.CoverURL,
		Year:         req.Year,
		Duration:     req.Duration,
		Genres:       req.Genres,
		Rating:       req.Rating,
		IsFeatured:   req.IsFeatured,
		TrailerURL:   req.TrailerURL,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.db.WithContext(ctx).Create(&movie).Error; err != nil {
		return nil, apperrors.InternalError("add_movie", err)
	}

	s.notify(events.EventContentAdded, "Content Added",
		fmt.Sprintf("%q has been added to the library.", movie.Title), movie.ID)
	return &movie, nil
}

// Update shallow-merges the patch over the stored title. Fields absent from
// the patch are preserved. Concurrent updates are last-write-wins.
func (s *Service) Update(ctx context.Context, id string, patch MoviePatch) (*database.Movie, error) {
	if err := s.clock.Sleep(ctx, updateDelay); err != nil {
		return nil, err
	}

	var movie database.Movie
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError("update_movie", apperrors.ErrMovieNotFound).WithEntity("movie", id)
		}
		return nil, apperrors.InternalError("update_movie", err)
	}

	applyPatch(&movie, patch)

	if err := s.db.WithContext(ctx).Save(&movie).Error; err != nil {
		return nil, apperrors.InternalError("update_movie", err)
	}

	s.notify(events.EventContentUpdated, "Content Updated",
		fmt.Sprintf("%q has been updated.", movie.Title), movie.ID)
	return &movie, nil
}

// Delete removes the title from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.clock.Sleep(ctx, deleteDelay); err != nil {
		return err
	}

	var movie database.Movie
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundError("delete_movie", apperrors.ErrMovieNotFound).WithEntity("movie", id)
		}
		return apperrors.InternalError("delete_movie", err)
	}

	if err := s.db.WithContext(ctx).Delete(&movie).Error; err != nil {
		return apperrors.InternalError("delete_movie", err)
	}

	s.notify(events.EventContentRemoved, "Content Removed",
		fmt.Sprintf("%q has been removed from the library.", movie.Title), movie.ID)
	return nil
}

func applyPatch(movie *database.Movie, patch MoviePatch) {
	if patch.Title != nil {
		movie.Title = *patch.Title
	}
	if patch.Description != nil {
		movie.Description = *patch.Description
	}
	if patch.ThumbnailURL != nil {
		movie.ThumbnailURL = *patch.ThumbnailURL
	}
	if patch.CoverURL != nil {
		movie.CoverURL = *patch.CoverURL
	}
	if patch.Year != nil {
		movie.Year = *patch.Year
	}
	if patch.Duration != nil {
		movie.Duration = *patch.Duration
	}
	if patch.Genres != nil {
		movie.Genres = *patch.Genres
	}
	if patch.Rating != nil {
		movie.Rating = *patch.Rating
	}
	if patch.IsFeatured != nil {
		movie.IsFeatured = *patch.IsFeatured
	}
	if patch.TrailerURL != nil {
		movie.TrailerURL = *patch.TrailerURL
	}
}

// notify reports a successful mutation to the notification sink.
// Fire-and-forget: a full bus never blocks a store operation.
func (s *Service) notify(eventType events.EventType, title, message, movieID string) {
	if s.bus == nil {
		return
	}
	event := events.Notification(eventType, ModuleID, title, message)
	event.Data = map[string]interface{}{"movie_id": movieID}
	_ = s.bus.PublishAsync(event)
}
