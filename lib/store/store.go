package store

import (
	"errors"
	"fmt"

	"log/slog"

	"github.com/movieshelf/movieshelf/lib/validation"
	"github.com/movieshelf/movieshelf/models"
	"gorm.io/gorm"
)

// Record store errors.
var (
	ErrDuplicateTitle = errors.New("a movie with this title already exists")
	ErrNotFound       = errors.New("movie not found")
)

// Store is the persistence layer for movie records. Every operation is a
// single statement against the movies table.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Add inserts a new movie. The title is the key: inserting an existing
// title fails with ErrDuplicateTitle and leaves the store unchanged.
func (s *Store) Add(movie models.Movie) error {
	if err := validation.ValidateTitle(movie.Title); err != nil {
		return err
	}
	if err := validation.ValidateYear(movie.Year); err != nil {
		return err
	}
	if err := validation.ValidateRating(movie.Rating); err != nil {
		return err
	}

	var existing models.Movie
	err := s.db.Where("title = ?", movie.Title).First(&existing).Error
	if err == nil {
		return fmt.Errorf("%w: %q", ErrDuplicateTitle, movie.Title)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for existing movie: %w", err)
	}

	if err := s.db.Create(&movie).Error; err != nil {
		return fmt.Errorf("failed to add movie %q: %w", movie.Title, err)
	}

	s.logger.Info("Added movie", slog.String("title", movie.Title), slog.Int("year", movie.Year))
	return nil
}

// GetAll returns every movie in insertion order.
func (s *Store) GetAll() ([]models.Movie, error) {
	var movies []models.Movie
	if err := s.db.Order("id").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// Get returns the movie with the given title, or ErrNotFound.
func (s *Store) Get(title string) (models.Movie, error) {
	var movie models.Movie
	err := s.db.Where("title = ?", title).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Movie{}, fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	if err != nil {
		return models.Movie{}, fmt.Errorf("failed to get movie %q: %w", title, err)
	}
	return movie, nil
}

// UpdateRating sets a new rating for the movie with the given title. The
// title and year never change; fails with ErrNotFound when the title is
// absent.
func (s *Store) UpdateRating(title string, rating float64) error {
	if err := validation.ValidateRating(rating); err != nil {
		return err
	}

	result := s.db.Model(&models.Movie{}).Where("title = ?", title).Update("rating", rating)
	if result.Error != nil {
		return fmt.Errorf("failed to update movie %q: %w", title, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, title)
	}

	s.logger.Info("Updated rating", slog.String("title", title), slog.Float64("rating", rating))
	return nil
}

// UpdateNote sets a new note for the movie with the given title.
func (s *Store) UpdateNote(title, note string) error {
	result := s.db.Model(&models.Movie{}).Where("title = ?", title).Update("note", note)
	if result.Error != nil {
		return fmt.Errorf("failed to update movie %q: %w", title, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, title)
	}

	s.logger.Info("Updated note", slog.String("title", title))
	return nil
}

// Delete removes the movie with the given title, or reports ErrNotFound.
// Rows are removed for real; the catalog keeps no soft-deleted history.
func (s *Store) Delete(title string) error {
	result := s.db.Unscoped().Where("title = ?", title).Delete(&models.Movie{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete movie %q: %w", title, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, title)
	}

	s.logger.Info("Deleted movie", slog.String("title", title))
	return nil
}

// SortedByRating returns all movies, highest rating first.
func (s *Store) SortedByRating() ([]models.Movie, error) {
	var movies []models.Movie
	if err := s.db.Order("rating DESC, id").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to list movies by rating: %w", err)
	}
	return movies, nil
}

// SortedByYear returns all movies in chronological order, or newest first
// when latestFirst is set.
func (s *Store) SortedByYear(latestFirst bool) ([]models.Movie, error) {
	order := "year, id"
	if latestFirst {
		order = "year DESC, id"
	}

	var movies []models.Movie
	if err := s.db.Order(order).Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to list movies by year: %w", err)
	}
	return movies, nil
}

// Filter returns movies with rating >= minRating released between minYear
// and maxYear. A zero maxYear means no upper bound.
func (s *Store) Filter(minRating float64, minYear, maxYear int) ([]models.Movie, error) {
	query := s.db.Where("rating >= ? AND year >= ?", minRating, minYear)
	if maxYear > 0 {
		query = query.Where("year <= ?", maxYear)
	}

	var movies []models.Movie
	if err := query.Order("id").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to filter movies: %w", err)
	}
	return movies, nil
}
