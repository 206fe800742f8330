package handlers

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/movieshelf/movieshelf/lib/site"
	"github.com/movieshelf/movieshelf/lib/store"
	"github.com/movieshelf/movieshelf/lib/validation"
	"github.com/movieshelf/movieshelf/models"
)

// movieJSON is the wire shape for the catalog listing endpoint.
type movieJSON struct {
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Rating    float64 `json:"rating"`
	PosterURL string  `json:"poster_url,omitempty"`
	Note      string  `json:"note,omitempty"`
	ImdbID    string  `json:"imdb_id,omitempty"`
}

// HandleHome serves the movie page rendered live from the catalog, so the
// preview always matches the database without regenerating the static file.
func HandleHome(st *store.Store, renderer *site.Renderer, pageTitle string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		movies, err := st.GetAll()
		if err != nil {
			slog.Error("Failed to list movies", slog.Any("error", err))
			http.Error(w, "Failed to load the catalog", http.StatusInternalServerError)
			return
		}

		page, err := renderer.Render(pageTitle, movies)
		if err != nil {
			slog.Error("Failed to render site", slog.Any("error", err))
			http.Error(w, "Failed to render the page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte(page)); err != nil {
			slog.Error("Failed to write page", slog.Any("error", err))
		}
	}
}

// HandleMovies lists the catalog as JSON. A "q" query parameter narrows the
// listing to titles containing it.
func HandleMovies(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var (
			movies []models.Movie
			err    error
		)

		if query := req.URL.Query().Get("q"); query != "" {
			movies, err = st.Search(query)
		} else {
			movies, err = st.GetAll()
		}
		if err != nil {
			slog.Error("Failed to list movies", slog.Any("error", err))
			validation.WriteError(w, err, http.StatusInternalServerError)
			return
		}

		records := make([]movieJSON, 0, len(movies))
		for _, m := range movies {
			records = append(records, movieJSON{
				Title:     m.Title,
				Year:      m.Year,
				Rating:    m.Rating,
				PosterURL: m.PosterURL,
				Note:      m.Note,
				ImdbID:    m.ImdbID,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			slog.Error("Failed to encode movies", slog.Any("error", err))
		}
	}
}
