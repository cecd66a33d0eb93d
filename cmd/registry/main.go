package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/courtdata/atp-proxy/internal/app"
	"github.com/courtdata/atp-proxy/internal/config"
	"github.com/courtdata/atp-proxy/internal/platform/logging"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	refresher, closeBackends, err := app.NewRegistryRefresher(cfg, logger)
	if err != nil {
		log.Fatalf("wire registry refresher: %v", err)
	}
	defer func() {
		if err := closeBackends(); err != nil {
			log.Printf("close backends: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := strings.ToLower(strings.TrimSpace(os.Args[1]))
	switch cmd {
	case "fetch":
		season, parseErr := parseSeason(os.Args[2:])
		if parseErr != nil {
			log.Fatal(parseErr)
		}
		entries, err := refresher.Fetch(ctx, season)
		if err != nil {
			log.Fatalf("fetch calendar: %v", err)
		}
		log.Printf("fetched %d calendar entries (season=%d backend=%s)", len(entries), season, cfg.RegistryBackend)
	case "build":
		season, parseErr := parseSeason(os.Args[2:])
		if parseErr != nil {
			log.Fatal(parseErr)
		}
		report, err := refresher.Build(ctx, season)
		if err != nil {
			log.Fatalf("build registry: %v", err)
		}
		log.Printf("registry merged: added=%d updated=%d unchanged=%d skipped=%d",
			report.Added, report.Updated, report.Unchanged, report.Skipped)
	case "rebuild":
		seasons, parseErr := parseSeasons(os.Args[2:])
		if parseErr != nil {
			log.Fatal(parseErr)
		}
		results := refresher.Rebuild(ctx, seasons)
		failed := 0
		for _, result := range results {
			if result.Err != nil {
				failed++
				log.Printf("season %d failed: %v", result.Season, result.Err)
				continue
			}
			log.Printf("season %d merged: added=%d updated=%d unchanged=%d skipped=%d",
				result.Season, result.Report.Added, result.Report.Updated,
				result.Report.Unchanged, result.Report.Skipped)
		}
		if failed > 0 {
			log.Fatalf("rebuild finished with %d failed season(s)", failed)
		}
	default:
		printUsage()
		os.Exit(2)
	}
}

// parseSeason reads an optional single season argument; absent means the
// current UTC year.
func parseSeason(args []string) (int, error) {
	if len(args) == 0 {
		return time.Now().UTC().Year(), nil
	}

	season, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid season %q: %w", args[0], err)
	}
	if season < 1900 || season > 2200 {
		return 0, fmt.Errorf("season %d out of range", season)
	}

	return season, nil
}

// parseSeasons accepts either "2023 2024 2025" or a "2019-2025" range.
func parseSeasons(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("rebuild requires at least one season or a range like 2019-2025")
	}

	if len(args) == 1 && strings.Contains(args[0], "-") {
		parts := strings.SplitN(strings.TrimSpace(args[0]), "-", 2)
		from, err := parseSeason(parts[:1])
		if err != nil {
			return nil, err
		}
		to, err := parseSeason(parts[1:])
		if err != nil {
			return nil, err
		}
		if to < from {
			return nil, fmt.Errorf("invalid range %q: end before start", args[0])
		}
		seasons := make([]int, 0, to-from+1)
		for season := from; season <= to; season++ {
			seasons = append(seasons, season)
		}
		return seasons, nil
	}

	seasons := make([]int, 0, len(args))
	for _, arg := range args {
		season, err := parseSeason([]string{arg})
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, season)
	}

	return seasons, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "usage: %s <fetch|build|rebuild> [args]\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s fetch 2025\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(os.Stderr, "  %s build 2025\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(os.Stderr, "  %s rebuild 2019-2025\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(os.Stderr, "  %s rebuild 2023 2024 2025\n", filepath.Base(os.Args[0]))
}
