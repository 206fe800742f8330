package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"log/slog"

	"github.com/movieshelf/movieshelf/models"
)

// ErrNoResults is returned when OMDb has no movie for the query.
var ErrNoResults = errors.New("no movies found")

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// SearchResult is the OMDb search response for a title query.
type SearchResult struct {
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		ImdbID string `json:"imdbID"`
		Poster string `json:"Poster"`
	} `json:"Search"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// Detail is the OMDb response for a single movie looked up by IMDb id.
type Detail struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	ImdbRating string `json:"imdbRating"`
	Poster     string `json:"Poster"`
	ImdbID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

func NewClient(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    "https://www.omdbapi.com",
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Search lists OMDb candidates for a title. Returns ErrNoResults when the
// API reports no match.
func (c *Client) Search(ctx context.Context, title string) (*SearchResult, error) {
	reqURL := fmt.Sprintf("%s/?apikey=%s&s=%s", c.baseURL, c.apiKey, url.QueryEscape(title))

	var result SearchResult
	if err := c.get(ctx, reqURL, &result); err != nil {
		return nil, err
	}

	if result.Response == "False" || len(result.Search) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoResults, title)
	}

	return &result, nil
}

// GetByID fetches full details for an IMDb id and converts them into a
// catalog movie. Fields OMDb reports as "N/A" come back as zero values.
func (c *Client) GetByID(ctx context.Context, imdbID string) (models.Movie, error) {
	reqURL := fmt.Sprintf("%s/?apikey=%s&i=%s", c.baseURL, c.apiKey, url.QueryEscape(imdbID))

	var detail Detail
	if err := c.get(ctx, reqURL, &detail); err != nil {
		return models.Movie{}, err
	}

	if detail.Response == "False" {
		return models.Movie{}, fmt.Errorf("%w for id %q", ErrNoResults, imdbID)
	}

	movie := models.Movie{
		Title:  detail.Title,
		Year:   parseYear(detail.Year),
		Rating: parseRating(detail.ImdbRating),
		ImdbID: detail.ImdbID,
	}
	if detail.Poster != "" && detail.Poster != "N/A" {
		movie.PosterURL = detail.Poster
	}

	return movie, nil
}

func (c *Client) get(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from OMDb", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// parseYear handles plain years and series ranges like "2010–2015".
func parseYear(s string) int {
	s = strings.SplitN(s, "–", 2)[0]
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return year
}

func parseRating(s string) float64 {
	if s == "" || s == "N/A" {
		return 0
	}
	rating, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return rating
}
