package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationmap/internal/config"
	"github.com/bbernstein/stationmap/internal/directory"
	"github.com/bbernstein/stationmap/internal/models"
	"github.com/bbernstein/stationmap/internal/query"
	"github.com/bbernstein/stationmap/internal/storage"
	"github.com/bbernstein/stationmap/pkg/http/client"
)

type stationUpserter interface {
	UpsertStations(ctx context.Context, stations []models.Station) error
}

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	namesPath := flag.String("names", "", "File with one station name per line (default stdin)")
	nearby := flag.Bool("nearby", false, "Also index stations around every station found")
	flag.StringVar(&cfg.SQLitePath, "db", cfg.SQLitePath, "Path of the offline station index")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *namesPath, *nearby); err != nil {
		log.Fatal().Err(err).Msg("Station sync failed")
	}
}

func run(ctx context.Context, cfg *config.Config, namesPath string, nearby bool) error {
	var in io.Reader = os.Stdin
	if namesPath != "" {
		f, err := os.Open(namesPath)
		if err != nil {
			return fmt.Errorf("open names file: %w", err)
		}
		defer f.Close()
		in = f
	}

	names, err := readNames(in)
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	remote := directory.NewTransportDirectory(client.New(client.Options{
		BaseURL:    cfg.DirectoryBaseURL,
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	}))
	index := storage.NewSQLiteDirectory(db)

	synced, err := syncStations(ctx, remote, index, names, nearby)
	if err != nil {
		return err
	}

	total, err := index.Count(ctx)
	if err != nil {
		return fmt.Errorf("count stations: %w", err)
	}
	log.Info().Int("synced", synced).Int("total", total).Str("db", cfg.SQLitePath).Msg("Station sync complete")
	return nil
}

// readNames returns the valid, normalized, de-duplicated names in r.
// Blank lines and lines starting with # are ignored.
func readNames(r io.Reader) ([]string, error) {
	seen := make(map[string]bool)
	var names []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := query.Normalize(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !query.IsValidQuery(line) {
			log.Warn().Str("name", line).Msg("Skipping invalid station name")
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read names: %w", err)
	}
	return names, nil
}

// syncStations copies the remote results for every name into dst. Lookup
// failures for single names are logged and skipped; it returns the number of
// stations written.
func syncStations(ctx context.Context, src models.StationDirectory, dst stationUpserter, names []string, nearby bool) (int, error) {
	written := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		stations, err := src.SearchByName(ctx, name)
		if err != nil {
			log.Warn().Err(err).Str("name", name).Msg("Skipping name after lookup failure")
			continue
		}

		batch := stations
		if nearby {
			for _, s := range stations {
				if !s.Coordinate.Resolved() {
					continue
				}
				around, err := src.SearchByLocation(ctx, *s.Coordinate.X, *s.Coordinate.Y)
				if err != nil {
					log.Warn().Err(err).Str("station", s.Name).Msg("Skipping nearby lookup after failure")
					continue
				}
				batch = append(batch, around...)
			}
		}

		if err := dst.UpsertStations(ctx, batch); err != nil {
			return written, fmt.Errorf("store stations for %q: %w", name, err)
		}
		written += len(batch)
		log.Debug().Str("name", name).Int("station_count", len(batch)).Msg("Synced stations")
	}
	return written, nil
}
