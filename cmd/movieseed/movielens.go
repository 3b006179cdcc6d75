package main

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"soulfilmes/movie"
)

const noGenres = "(no genres listed)"

// yearSuffix matches the "(1995)" MovieLens appends to titles.
var yearSuffix = regexp.MustCompile(`\s*\((\d{4})\)\s*$`)

type columns struct {
	id, title, genres int
}

func readMovies(csvPath string, limit int) ([]movie.Movie, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parseMovies(file, limit)
}

func parseMovies(r io.Reader, limit int) ([]movie.Movie, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	cols, err := parseHeader(reader)
	if err != nil {
		return nil, err
	}

	var movies []movie.Movie
	for limit <= 0 || len(movies) < limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return movies, err
		}
		if m, ok := parseRecord(record, cols); ok {
			movies = append(movies, m)
		}
	}
	return movies, nil
}

func parseHeader(reader *csv.Reader) (columns, error) {
	header, err := reader.Read()
	if err != nil {
		return columns{}, err
	}

	cols := columns{id: -1, title: -1, genres: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "movieId":
			cols.id = i
		case "title":
			cols.title = i
		case "genres":
			cols.genres = i
		}
	}
	if cols.id == -1 || cols.title == -1 || cols.genres == -1 {
		return columns{}, errors.New("missing required columns in csv header")
	}
	return cols, nil
}

// parseRecord turns a MovieLens row into a catalog entry: the year moves out
// of the title and only the first listed genre is kept.
func parseRecord(record []string, cols columns) (movie.Movie, bool) {
	if cols.id >= len(record) || cols.title >= len(record) || cols.genres >= len(record) {
		return movie.Movie{}, false
	}

	id, err := strconv.ParseInt(strings.TrimSpace(record[cols.id]), 10, 64)
	if err != nil || id <= 0 {
		return movie.Movie{}, false
	}

	title, year := splitTitle(record[cols.title])
	if title == "" {
		return movie.Movie{}, false
	}

	return movie.Movie{
		ID:          id,
		Title:       title,
		Genre:       firstGenre(record[cols.genres]),
		ReleaseYear: year,
	}, true
}

func splitTitle(raw string) (string, int) {
	raw = strings.TrimSpace(raw)
	m := yearSuffix.FindStringSubmatch(raw)
	if m == nil {
		return raw, 0
	}
	year, _ := strconv.Atoi(m[1])
	return strings.TrimSpace(raw[:len(raw)-len(m[0])]), year
}

func firstGenre(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == noGenres {
		return ""
	}
	return strings.TrimSpace(strings.SplitN(raw, "|", 2)[0])
}
