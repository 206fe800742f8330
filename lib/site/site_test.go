package site

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/movieshelf/movieshelf/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRenderer("", filepath.Join(t.TempDir(), "index.html"), logger)
}

func parsePage(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestRenderMovieGrid(t *testing.T) {
	r := newTestRenderer(t)

	movies := []models.Movie{
		{Title: "Batman", Year: 1989, Rating: 7.5, PosterURL: "https://example.com/batman.jpg", ImdbID: "tt0096895"},
		{Title: "Casablanca", Year: 1942, Rating: 8.5, Note: "A classic."},
	}

	page, err := r.Render("My Movie Collection", movies)
	require.NoError(t, err)

	doc := parsePage(t, page)
	assert.Equal(t, "My Movie Collection", doc.Find("title").Text())

	cards := doc.Find(".movie-card")
	require.Equal(t, 2, cards.Length())

	first := cards.First()
	href, ok := first.Find("a").Attr("href")
	require.True(t, ok)
	assert.Equal(t, "https://www.imdb.com/title/tt0096895", href)
	src, _ := first.Find("img").Attr("src")
	assert.Equal(t, "https://example.com/batman.jpg", src)
	assert.Equal(t, "Batman", first.Find("h2").Text())
	assert.Contains(t, first.Find("p").Text(), "1989")
	assert.Contains(t, first.Find("p").Text(), "7.5/10")

	second := cards.Last()
	assert.Equal(t, 0, second.Find("a").Length())
	assert.Equal(t, "A classic.", second.Find(".movie-note").Text())
}

func TestRenderEmptyCatalog(t *testing.T) {
	r := newTestRenderer(t)

	page, err := r.Render("My Movie Collection", nil)
	require.NoError(t, err)
	assert.NotContains(t, page, GridMarker)
	assert.NotContains(t, page, TitleMarker)

	doc := parsePage(t, page)
	assert.Equal(t, 1, doc.Find(".movie-grid").Length())
	assert.Equal(t, 0, doc.Find(".movie-card").Length())
}

func TestRenderEscapesTitles(t *testing.T) {
	r := newTestRenderer(t)

	movies := []models.Movie{
		{Title: `<script>alert("x")</script>`, Year: 2000, Rating: 5},
	}

	page, err := r.Render("Movies & More", movies)
	require.NoError(t, err)
	assert.NotContains(t, page, `<script>alert`)

	doc := parsePage(t, page)
	assert.Equal(t, `<script>alert("x")</script>`, doc.Find("h2").Text())
}

func TestWrite(t *testing.T) {
	r := newTestRenderer(t)

	movies := []models.Movie{{Title: "Batman", Year: 1989, Rating: 7.5}}
	require.NoError(t, r.Write("My Movie Collection", movies))

	data, err := os.ReadFile(r.OutputPath())
	require.NoError(t, err)

	doc := parsePage(t, string(data))
	assert.Equal(t, 1, doc.Find(".movie-card").Length())
}

func TestWriteCreatesOutputDirectory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	out := filepath.Join(t.TempDir(), "generated_site", "index.html")
	r := NewRenderer("", out, logger)

	require.NoError(t, r.Write("My Movie Collection", nil))

	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestCustomTemplate(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	tmplPath := filepath.Join(dir, "custom.html")
	custom := "<html><body><h1>__TEMPLATE_TITLE__</h1>__TEMPLATE_MOVIE_GRID__</body></html>"
	require.NoError(t, os.WriteFile(tmplPath, []byte(custom), 0o644))

	r := NewRenderer(tmplPath, filepath.Join(dir, "out.html"), logger)
	page, err := r.Render("Custom", []models.Movie{{Title: "Batman", Year: 1989, Rating: 7.5}})
	require.NoError(t, err)
	assert.Contains(t, page, "<h1>Custom</h1>")
	assert.Contains(t, page, "Batman")
}

func TestTemplateMissingGridMarker(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	tmplPath := filepath.Join(dir, "broken.html")
	require.NoError(t, os.WriteFile(tmplPath, []byte("<html></html>"), 0o644))

	r := NewRenderer(tmplPath, filepath.Join(dir, "out.html"), logger)
	_, err := r.Render("Broken", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), GridMarker)
}

func TestTemplatePathMissing(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRenderer("/does/not/exist.html", filepath.Join(t.TempDir(), "out.html"), logger)

	_, err := r.Render("Missing", nil)
	assert.Error(t, err)
}
