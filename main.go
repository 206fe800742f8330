package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/movieshelf/movieshelf/handlers"
	"github.com/movieshelf/movieshelf/lib/blurb"
	"github.com/movieshelf/movieshelf/lib/db"
	"github.com/movieshelf/movieshelf/lib/health"
	"github.com/movieshelf/movieshelf/lib/lock"
	"github.com/movieshelf/movieshelf/lib/omdb"
	"github.com/movieshelf/movieshelf/lib/site"
	"github.com/movieshelf/movieshelf/lib/stats"
	"github.com/movieshelf/movieshelf/lib/store"
	"github.com/movieshelf/movieshelf/models"
	"gorm.io/gorm"
)

const pageTitle = "My Movie Collection"

var menu = []string{
	"Exit",
	"List movies",
	"Add movie from OMDb",
	"Add movie manually",
	"Delete movie",
	"Update movie",
	"Stats",
	"Random movie",
	"Search movie",
	"Movies sorted by rating",
	"Movies sorted by year",
	"Rating histogram",
	"Filter movies",
	"Generate website",
}

type config struct {
	dbPath       string
	sitePath     string
	templatePath string
	omdbKey      string
	openaiKey    string
	port         string
	logLevel     string
}

func loadConfig() config {
	return config{
		dbPath:       getenv("MOVIES_DB_PATH", "movies.db"),
		sitePath:     getenv("SITE_OUTPUT_PATH", "generated_site/index.html"),
		templatePath: os.Getenv("SITE_TEMPLATE_PATH"),
		omdbKey:      os.Getenv("OMDB_API_KEY"),
		openaiKey:    os.Getenv("OPENAI_API_KEY"),
		port:         getenv("PORT", "8080"),
		logLevel:     getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// App wires the catalog together for both the menu and the preview server.
type App struct {
	db       *gorm.DB
	store    *store.Store
	omdb     *omdb.Client
	blurbs   *blurb.Generator
	renderer *site.Renderer
	logger   *slog.Logger
	in       *bufio.Scanner
}

func NewApp(cfg config, logger *slog.Logger) (*App, error) {
	gdb, err := db.Open(cfg.dbPath, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		db:       gdb,
		store:    store.New(gdb, logger),
		omdb:     omdb.NewClient(cfg.omdbKey, logger),
		blurbs:   blurb.New(cfg.openaiKey, logger),
		renderer: site.NewRenderer(cfg.templatePath, cfg.sitePath, logger),
		logger:   logger,
		in:       bufio.NewScanner(os.Stdin),
	}, nil
}

func main() {
	serve := flag.Bool("serve", false, "run the web preview server instead of the menu")
	flag.Parse()

	cfg := loadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.logLevel),
	}))
	slog.SetDefault(logger)

	catalogLock := lock.New(cfg.dbPath, logger)
	if err := catalogLock.Acquire(); err != nil {
		logger.Error("Failed to acquire catalog lock", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := catalogLock.Release(); err != nil {
			logger.Error("Failed to release catalog lock", slog.Any("error", err))
		}
	}()

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Error("Failed to start", slog.Any("error", err))
		os.Exit(1)
	}

	if *serve {
		if err := app.serve(cfg.port); err != nil {
			logger.Error("Server failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	app.runMenu()
}

// serve runs the live preview server: the movie page rendered from the
// catalog, a JSON listing, and a health check.
func (a *App) serve(port string) error {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/", handlers.HandleHome(a.store, a.renderer, pageTitle))
	router.Get("/movies.json", handlers.HandleMovies(a.store))
	router.Get("/health", health.Check(a.db))

	a.logger.Info("Starting preview server", slog.String("port", port))
	return http.ListenAndServe(":"+port, router)
}

func (a *App) runMenu() {
	fmt.Println("********** My Movies Database **********")

	actions := map[string]func(){
		"1":  a.listMovies,
		"2":  a.addFromOMDb,
		"3":  a.addManually,
		"4":  a.deleteMovie,
		"5":  a.updateMovie,
		"6":  a.showStats,
		"7":  a.randomMovie,
		"8":  a.searchMovies,
		"9":  a.sortedByRating,
		"10": a.sortedByYear,
		"11": a.ratingHistogram,
		"12": a.filterMovies,
		"13": a.generateWebsite,
	}

	for {
		fmt.Println()
		fmt.Println("Menu:")
		for i, item := range menu {
			fmt.Printf("%d. %s\n", i, item)
		}
		fmt.Println()

		choice := a.prompt("Enter choice: ")
		if choice == "0" {
			fmt.Println("Bye!")
			return
		}

		action, ok := actions[choice]
		if !ok {
			fmt.Println("That's not a valid choice. Please try again.")
			continue
		}

		fmt.Println()
		action()
		fmt.Println()
		a.prompt("Press enter to continue")
	}
}

func (a *App) prompt(label string) string {
	fmt.Print(label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *App) listMovies() {
	movies, err := a.store.GetAll()
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(movies) == 0 {
		fmt.Println("Your movie collection is empty.")
		return
	}

	fmt.Printf("%d movies in total\n", len(movies))
	for _, movie := range movies {
		fmt.Println(movie)
	}
}

func (a *App) addFromOMDb() {
	title := a.prompt("Enter movie title: ")
	if title == "" {
		fmt.Println("Title cannot be empty.")
		return
	}

	ctx := context.Background()
	result, err := a.omdb.Search(ctx, title)
	if err != nil {
		if errors.Is(err, omdb.ErrNoResults) {
			fmt.Printf("No movies found for %q.\n", title)
		} else {
			fmt.Println("OMDb lookup failed:", err)
		}
		return
	}

	selected := result.Search[0]
	if len(result.Search) > 1 {
		fmt.Println("Multiple matches found:")
		for i, candidate := range result.Search {
			fmt.Printf("%d. %s (%s)\n", i+1, candidate.Title, candidate.Year)
		}
		choice, err := strconv.Atoi(a.prompt("Enter the number of the correct movie: "))
		if err != nil || choice < 1 || choice > len(result.Search) {
			fmt.Println("Invalid choice.")
			return
		}
		selected = result.Search[choice-1]
	}

	movie, err := a.omdb.GetByID(ctx, selected.ImdbID)
	if err != nil {
		fmt.Println("Could not fetch movie details:", err)
		return
	}

	if a.blurbs.Enabled() {
		note, err := a.blurbs.Generate(ctx, movie.Title, movie.Year)
		if err != nil {
			a.logger.Warn("Note generation failed", slog.Any("error", err))
		} else {
			movie.Note = note
		}
	}

	if err := a.store.Add(movie); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Added '%s' (%d) with rating %.1f/10.\n", movie.Title, movie.Year, movie.Rating)
}

func (a *App) addManually() {
	title := a.prompt("Enter new movie name: ")

	year, err := strconv.Atoi(a.prompt("Enter movie year: "))
	if err != nil {
		fmt.Println("Please enter a valid movie year.")
		return
	}

	rating, err := strconv.ParseFloat(a.prompt("Enter movie rating (0-10): "), 64)
	if err != nil {
		fmt.Println("Please enter a valid rating (0-10).")
		return
	}

	movie := models.Movie{Title: title, Year: year, Rating: rating}
	if err := a.store.Add(movie); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Movie %s successfully added.\n", title)
}

func (a *App) deleteMovie() {
	title := a.prompt("Enter movie name to delete: ")
	if err := a.store.Delete(title); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Movie %s successfully deleted.\n", title)
}

func (a *App) updateMovie() {
	title := a.prompt("Enter movie name: ")

	ratingInput := a.prompt("Enter new rating (leave blank to keep current): ")
	if ratingInput != "" {
		rating, err := strconv.ParseFloat(ratingInput, 64)
		if err != nil {
			fmt.Println("Invalid rating input.")
			return
		}
		if err := a.store.UpdateRating(title, rating); err != nil {
			fmt.Println("Error:", err)
			return
		}
	}

	note := a.prompt("Enter movie note (leave blank to keep current): ")
	if note != "" {
		if err := a.store.UpdateNote(title, note); err != nil {
			fmt.Println("Error:", err)
			return
		}
	}

	fmt.Printf("Movie %s successfully updated.\n", title)
}

func (a *App) showStats() {
	movies, err := a.store.GetAll()
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	summary, err := stats.Summarize(movies)
	if err != nil {
		fmt.Println("No movies available to show stats.")
		return
	}

	fmt.Println("--- Movie Statistics ---")
	fmt.Printf("Total movies: %d\n", summary.Count)
	fmt.Printf("Average rating: %.2f\n", summary.Average)
	fmt.Printf("Median rating: %.2f\n", summary.Median)
	fmt.Printf("Best movie: %s\n", summary.Best)
	fmt.Printf("Worst movie: %s\n", summary.Worst)
}

func (a *App) randomMovie() {
	movies, err := a.store.GetAll()
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	movie, err := stats.RandomPick(movies)
	if err != nil {
		fmt.Println("No movies found.")
		return
	}
	fmt.Printf("Your movie tonight: %s, it's rated %.1f\n", movie.Title, movie.Rating)
}

func (a *App) searchMovies() {
	query := a.prompt("Enter part of the movie title: ")
	if query == "" {
		fmt.Println("Search query cannot be empty.")
		return
	}

	movies, err := a.store.Search(query)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	if len(movies) > 0 {
		fmt.Printf("Movies matching %q:\n", query)
		for _, movie := range movies {
			fmt.Println(movie)
		}
		return
	}

	// Nothing contains the query; fall back to edit-distance matching.
	matches, err := a.store.SearchSimilar(query)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(matches) == 0 {
		fmt.Printf("No matches found for %q.\n", query)
		return
	}

	fmt.Printf("Didn't find %q, but found similar matches:\n", query)
	for _, match := range matches {
		fmt.Printf("%s (similarity %.2f)\n", match.Movie, match.Score)
	}
}

func (a *App) sortedByRating() {
	movies, err := a.store.SortedByRating()
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(movies) == 0 {
		fmt.Println("No movies available to sort.")
		return
	}

	fmt.Println("--- Movies sorted by rating ---")
	for _, movie := range movies {
		fmt.Println(movie)
	}
}

func (a *App) sortedByYear() {
	latestFirst := strings.EqualFold(a.prompt("Show latest movies first? (y/n): "), "y")

	movies, err := a.store.SortedByYear(latestFirst)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(movies) == 0 {
		fmt.Println("No movies available to sort.")
		return
	}

	fmt.Println("--- Movies sorted by year ---")
	for _, movie := range movies {
		fmt.Println(movie)
	}
}

func (a *App) ratingHistogram() {
	movies, err := a.store.GetAll()
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(movies) == 0 {
		fmt.Println("No ratings available.")
		return
	}

	fmt.Println("--- Rating histogram ---")
	for bucket, count := range stats.Histogram(movies) {
		fmt.Printf("%2d-%2d | %s (%d)\n", bucket, bucket+1, strings.Repeat("#", count), count)
	}
}

func (a *App) filterMovies() {
	minRating := 0.0
	if input := a.prompt("Enter minimum rating (leave blank for none): "); input != "" {
		parsed, err := strconv.ParseFloat(input, 64)
		if err != nil {
			fmt.Println("Invalid input. Try again.")
			return
		}
		minRating = parsed
	}

	minYear := 0
	if input := a.prompt("Enter start year (leave blank for none): "); input != "" {
		parsed, err := strconv.Atoi(input)
		if err != nil {
			fmt.Println("Invalid input. Try again.")
			return
		}
		minYear = parsed
	}

	maxYear := 0
	if input := a.prompt("Enter end year (leave blank for none): "); input != "" {
		parsed, err := strconv.Atoi(input)
		if err != nil {
			fmt.Println("Invalid input. Try again.")
			return
		}
		maxYear = parsed
	}

	movies, err := a.store.Filter(minRating, minYear, maxYear)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(movies) == 0 {
		fmt.Println("No movies match the filter.")
		return
	}

	fmt.Println("--- Filtered movies ---")
	for _, movie := range movies {
		fmt.Println(movie)
	}
}

func (a *App) generateWebsite() {
	movies, err := a.store.GetAll()
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	if err := a.renderer.Write(pageTitle, movies); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Website generated at '%s'.\n", a.renderer.OutputPath())
}
