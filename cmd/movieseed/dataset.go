package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"soulfilmes/movie"

	"github.com/go-resty/resty/v2"
)

const moviesEntry = "movies.csv"

var errNoMoviesEntry = errors.New("movies.csv not found in zip")

// fetchMovies downloads the MovieLens archive into memory and parses its
// movies.csv. The small dataset is about 1MB.
func fetchMovies(ctx context.Context, zipURL string, timeout time.Duration, limit int) ([]movie.Movie, error) {
	if zipURL == "" {
		return nil, errors.New("dataset url is empty")
	}

	resp, err := resty.New().
		SetTimeout(timeout).
		R().
		SetContext(ctx).
		Get(zipURL)
	if err != nil {
		return nil, fmt.Errorf("download dataset: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("download dataset: unexpected status %s", resp.Status())
	}

	body := resp.Body()
	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	return moviesFromZip(archive, limit)
}

func moviesFromZip(archive *zip.Reader, limit int) ([]movie.Movie, error) {
	for _, file := range archive.File {
		if path.Base(file.Name) != moviesEntry {
			continue
		}

		src, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer src.Close()

		return parseMovies(src, limit)
	}
	return nil, errNoMoviesEntry
}
