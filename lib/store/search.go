package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/movieshelf/movieshelf/models"
)

// similarityThreshold is the maximum normalized edit distance for a title
// to count as a near match.
const similarityThreshold = 0.7

// Match is a fuzzy search result. Score is 1 for an exact title and falls
// toward 0 as the edit distance grows.
type Match struct {
	Movie models.Movie
	Score float64
}

// Search returns all movies whose title contains the query, ignoring case.
func (s *Store) Search(query string) ([]models.Movie, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var movies []models.Movie
	if err := s.db.Where("LOWER(title) LIKE ?", pattern).Order("id").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return movies, nil
}

// SearchSimilar ranks titles by edit distance to the query. It is the
// fallback for when Search comes back empty: "Btaman" still finds Batman.
func (s *Store) SearchSimilar(query string) ([]Match, error) {
	movies, err := s.GetAll()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)

	var matches []Match
	for _, movie := range movies {
		title := strings.ToLower(movie.Title)
		if !sharesEnoughCharacters(query, title) {
			continue
		}

		longest := max(len(query), len(title))
		if longest == 0 {
			continue
		}

		distance := float64(levenshtein(query, title)) / float64(longest)
		if distance <= similarityThreshold {
			matches = append(matches, Match{Movie: movie, Score: 1 - distance})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches, nil
}

// sharesEnoughCharacters is a cheap pre-filter: at least 70% of the query's
// characters must occur in the candidate title.
func sharesEnoughCharacters(query, title string) bool {
	counts := make(map[rune]int)
	for _, r := range title {
		counts[r]++
	}

	matched := 0
	for _, r := range query {
		if counts[r] > 0 {
			counts[r]--
			matched++
		}
	}

	queryLen := len([]rune(query))
	return matched >= int(float64(queryLen)*similarityThreshold)
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
