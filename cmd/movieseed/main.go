package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"soulfilmes/movie"
	"soulfilmes/pkg/config"
	"soulfilmes/postgres"
	"soulfilmes/user"
)

const defaultMovieLensURL = "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip"

func main() {
	var (
		csvPath   string
		zipURL    string
		limit     int
		demoUsers bool
	)

	flag.StringVar(&csvPath, "csv", "", "Path to movies.csv (skip download)")
	flag.StringVar(&zipURL, "url", defaultMovieLensURL, "MovieLens zip URL")
	flag.IntVar(&limit, "limit", 0, "Limit number of rows to import (0 = all)")
	flag.BoolVar(&demoUsers, "demo-users", false, "Also create a few demo users")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     fmt.Sprintf("%d", cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		slog.Error("cannot open postgres connection", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var movies []movie.Movie
	if csvPath != "" {
		movies, err = readMovies(csvPath, limit)
	} else {
		movies, err = fetchMovies(ctx, zipURL, 60*time.Second, limit)
	}
	if err != nil {
		slog.Error("read dataset failed", "error", err)
		os.Exit(1)
	}

	if err := postgres.NewMovieRepository(db).UpsertMovies(ctx, movies); err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}
	slog.Info("import completed", "rows", len(movies))

	if demoUsers {
		seedUsers(ctx, postgres.NewUserRepository(db))
	}
}

var demo = []user.User{
	{Name: "Ana Souza", Email: "ana@soulfilmes.dev"},
	{Name: "Bruno Lima", Email: "bruno@soulfilmes.dev"},
	{Name: "Carla Mendes", Email: "carla@soulfilmes.dev"},
}

func seedUsers(ctx context.Context, repo *postgres.UserRepository) {
	for _, u := range demo {
		created, err := repo.CreateUser(ctx, u)
		if err != nil {
			slog.Warn("skipping demo user", "email", u.Email, "error", err)
			continue
		}
		slog.Info("demo user created", "id", created.ID, "email", created.Email)
	}
}
