package site

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"github.com/movieshelf/movieshelf/models"
)

// Substitution markers the template must carry. The grid marker is replaced
// with one card per movie, the title marker with the page title.
const (
	TitleMarker = "__TEMPLATE_TITLE__"
	GridMarker  = "__TEMPLATE_MOVIE_GRID__"
)

//go:embed templates/index_template.html
var templateFS embed.FS

// cardTemplate renders a single movie card. html/template handles escaping
// so titles and notes can contain anything.
var cardTemplate = template.Must(template.New("card").Parse(`<div class="movie-card">
{{- if .ImdbURL}}
    <a href="{{.ImdbURL}}" target="_blank">
        <img src="{{.PosterURL}}" alt="{{.Title}} poster">
    </a>
{{- else}}
    <img src="{{.PosterURL}}" alt="{{.Title}} poster">
{{- end}}
{{- if .Note}}
    <div class="movie-note">{{.Note}}</div>
{{- end}}
    <h2>{{.Title}}</h2>
    <p>{{.Year}} | {{printf "%.1f" .Rating}}/10</p>
</div>
`))

// Renderer turns a catalog snapshot into a static HTML page. The whole page
// is regenerated on every call; there is no partial update.
type Renderer struct {
	templatePath string
	outputPath   string
	logger       *slog.Logger
}

// NewRenderer builds a renderer writing to outputPath. An empty
// templatePath selects the embedded default template.
func NewRenderer(templatePath, outputPath string, logger *slog.Logger) *Renderer {
	return &Renderer{
		templatePath: templatePath,
		outputPath:   outputPath,
		logger:       logger,
	}
}

// Render substitutes the page title and the movie grid into the template
// and returns the resulting page. Zero movies yields a page with an empty
// grid section.
func (r *Renderer) Render(title string, movies []models.Movie) (string, error) {
	tmpl, err := r.loadTemplate()
	if err != nil {
		return "", err
	}

	if !strings.Contains(tmpl, GridMarker) {
		return "", fmt.Errorf("template is missing the %s marker", GridMarker)
	}

	var grid strings.Builder
	for _, movie := range movies {
		if err := cardTemplate.Execute(&grid, movie); err != nil {
			return "", fmt.Errorf("failed to render card for %q: %w", movie.Title, err)
		}
	}

	page := strings.ReplaceAll(tmpl, TitleMarker, template.HTMLEscapeString(title))
	page = strings.ReplaceAll(page, GridMarker, grid.String())
	return page, nil
}

// Write renders the page and writes it whole to the output path, creating
// the parent directory when needed.
func (r *Renderer) Write(title string, movies []models.Movie) error {
	page, err := r.Render(title, movies)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(r.outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(r.outputPath, []byte(page), 0o644); err != nil {
		return fmt.Errorf("failed to write site: %w", err)
	}

	r.logger.Info("Generated website",
		slog.String("path", r.outputPath),
		slog.Int("movies", len(movies)))
	return nil
}

// OutputPath returns where Write puts the generated page.
func (r *Renderer) OutputPath() string {
	return r.outputPath
}

func (r *Renderer) loadTemplate() (string, error) {
	if r.templatePath != "" {
		data, err := os.ReadFile(r.templatePath)
		if err != nil {
			return "", fmt.Errorf("failed to read template %q: %w", r.templatePath, err)
		}
		return string(data), nil
	}

	data, err := templateFS.ReadFile("templates/index_template.html")
	if err != nil {
		return "", fmt.Errorf("failed to read embedded template: %w", err)
	}
	return string(data), nil
}
