package stats

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/movieshelf/movieshelf/models"
)

// ErrEmpty is returned when a statistic is requested over an empty catalog.
var ErrEmpty = errors.New("no movies in the catalog")

// Summary holds the aggregate statistics over a snapshot of the catalog.
type Summary struct {
	Count   int
	Average float64
	Median  float64
	Best    models.Movie
	Worst   models.Movie
}

// Summarize computes count, average, median, best and worst over the given
// movies. On rating ties the movie that comes first in storage order wins.
func Summarize(movies []models.Movie) (Summary, error) {
	if len(movies) == 0 {
		return Summary{}, ErrEmpty
	}

	ratings := make([]float64, len(movies))
	sum := 0.0
	best, worst := movies[0], movies[0]

	for i, movie := range movies {
		ratings[i] = movie.Rating
		sum += movie.Rating
		if movie.Rating > best.Rating {
			best = movie
		}
		if movie.Rating < worst.Rating {
			worst = movie
		}
	}

	return Summary{
		Count:   len(movies),
		Average: sum / float64(len(movies)),
		Median:  median(ratings),
		Best:    best,
		Worst:   worst,
	}, nil
}

// RandomPick returns a uniformly random movie from the snapshot.
func RandomPick(movies []models.Movie) (models.Movie, error) {
	if len(movies) == 0 {
		return models.Movie{}, ErrEmpty
	}
	return movies[rand.Intn(len(movies))], nil
}

// Histogram buckets ratings into [0,1), [1,2), ... [9,10]. A perfect 10
// lands in the last bucket.
func Histogram(movies []models.Movie) [10]int {
	var buckets [10]int
	for _, movie := range movies {
		bucket := int(movie.Rating)
		if bucket > 9 {
			bucket = 9
		}
		if bucket < 0 {
			bucket = 0
		}
		buckets[bucket]++
	}
	return buckets
}

// median returns the middle rating, or the mean of the two middle ratings
// for an even count.
func median(ratings []float64) float64 {
	sorted := make([]float64, len(ratings))
	copy(sorted, ratings)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
