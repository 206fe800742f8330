package omdb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("test-key", slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.baseURL = server.URL
	return c
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "Batman", r.URL.Query().Get("s"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Search": [
				{"Title": "Batman", "Year": "1989", "imdbID": "tt0096895", "Poster": "https://example.com/p.jpg"},
				{"Title": "Batman Begins", "Year": "2005", "imdbID": "tt0372784", "Poster": "N/A"}
			],
			"Response": "True"
		}`))
	})

	result, err := c.Search(context.Background(), "Batman")
	require.NoError(t, err)
	require.Len(t, result.Search, 2)
	assert.Equal(t, "Batman", result.Search[0].Title)
	assert.Equal(t, "tt0096895", result.Search[0].ImdbID)
}

func TestSearchNoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Response": "False", "Error": "Movie not found!"}`))
	})

	_, err := c.Search(context.Background(), "No Such Movie")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGetByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tt0096895", r.URL.Query().Get("i"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Title": "Batman",
			"Year": "1989",
			"imdbRating": "7.5",
			"Poster": "https://example.com/batman.jpg",
			"imdbID": "tt0096895",
			"Response": "True"
		}`))
	})

	movie, err := c.GetByID(context.Background(), "tt0096895")
	require.NoError(t, err)
	assert.Equal(t, "Batman", movie.Title)
	assert.Equal(t, 1989, movie.Year)
	assert.Equal(t, 7.5, movie.Rating)
	assert.Equal(t, "https://example.com/batman.jpg", movie.PosterURL)
	assert.Equal(t, "tt0096895", movie.ImdbID)
}

func TestGetByIDHandlesNAFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Title": "Obscure",
			"Year": "2001–2003",
			"imdbRating": "N/A",
			"Poster": "N/A",
			"imdbID": "tt0000001",
			"Response": "True"
		}`))
	})

	movie, err := c.GetByID(context.Background(), "tt0000001")
	require.NoError(t, err)
	assert.Equal(t, 2001, movie.Year)
	assert.Equal(t, 0.0, movie.Rating)
	assert.Empty(t, movie.PosterURL)
}

func TestGetByIDNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Response": "False", "Error": "Incorrect IMDb ID."}`))
	})

	_, err := c.GetByID(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Search(context.Background(), "Batman")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestParseYear(t *testing.T) {
	assert.Equal(t, 1989, parseYear("1989"))
	assert.Equal(t, 2010, parseYear("2010–2015"))
	assert.Equal(t, 0, parseYear("N/A"))
	assert.Equal(t, 0, parseYear(""))
}
