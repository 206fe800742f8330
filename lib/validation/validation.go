package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"log/slog"
)

// Bounds for movie input. 1888 is the year of the oldest surviving film;
// next year's releases are already announced with dates.
const (
	MinYear   = 1888
	MinRating = 0.0
	MaxRating = 10.0
)

// Input validation errors.
var (
	ErrEmptyTitle    = errors.New("title must not be empty")
	ErrInvalidYear   = errors.New("year is not a plausible release year")
	ErrInvalidRating = errors.New("rating must be between 0 and 10")
)

// ValidateTitle checks that a title is non-empty after trimming.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// ValidateYear checks that a year is within the plausible release range.
func ValidateYear(year int) error {
	if year < MinYear || year > time.Now().Year()+1 {
		return fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	return nil
}

// ValidateRating checks that a rating is within the 0-10 scale.
func ValidateRating(rating float64) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("%w: %.1f", ErrInvalidRating, rating)
	}
	return nil
}

// WriteError writes a validation error response to the HTTP response writer.
// It takes a response writer, error message, and HTTP status code.
func WriteError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	}); err != nil {
		slog.Error("Failed to encode error response", slog.Any("error", err))
	}
}
