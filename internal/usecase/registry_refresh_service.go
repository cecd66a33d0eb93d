package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/courtdata/atp-proxy/internal/domain/snapshot"
	"github.com/courtdata/atp-proxy/internal/domain/tournament"
	"github.com/courtdata/atp-proxy/internal/platform/logging"
)

const maxRebuildWorkers = 4

// CalendarProvider fetches one season's tournament calendar from upstream.
type CalendarProvider interface {
	FetchCalendar(ctx context.Context, season int) ([]tournament.Entry, []byte, error)
}

// RegistryRefreshService drives the out-of-band registry refresh flow:
// fetch calendar, archive the raw snapshot, merge into the store. It is never
// reachable from the HTTP surface.
type RegistryRefreshService struct {
	provider CalendarProvider
	store    tournament.Store
	archive  snapshot.Archive
	logger   *logging.Logger
}

func NewRegistryRefreshService(
	provider CalendarProvider,
	store tournament.Store,
	archive snapshot.Archive,
	logger *logging.Logger,
) *RegistryRefreshService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RegistryRefreshService{
		provider: provider,
		store:    store,
		archive:  archive,
		logger:   logger,
	}
}

// Fetch retrieves and archives one season's calendar without touching the
// registry. Returns the fetched entries.
func (s *RegistryRefreshService) Fetch(ctx context.Context, season int) ([]tournament.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistryRefreshService.Fetch")
	defer span.End()

	entries, raw, err := s.provider.FetchCalendar(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar season=%d: %w", season, err)
	}

	s.archiveSnapshot(ctx, season, raw)
	return entries, nil
}

// Build fetches, archives, and merges one season into the registry.
func (s *RegistryRefreshService) Build(ctx context.Context, season int) (tournament.MergeReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistryRefreshService.Build")
	defer span.End()

	entries, err := s.Fetch(ctx, season)
	if err != nil {
		return tournament.MergeReport{}, err
	}

	report, err := s.store.Merge(ctx, entries)
	if err != nil {
		return tournament.MergeReport{}, fmt.Errorf("merge calendar season=%d: %w", season, err)
	}

	if report.Skipped > 0 {
		s.logger.WarnContext(ctx, "calendar entries skipped during merge",
			"season", season,
			"skipped", report.Skipped,
			"reason", ErrMalformedEntry.Error(),
		)
	}
	s.logger.InfoContext(ctx, "registry merged",
		"season", season,
		"added", report.Added,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"skipped", report.Skipped,
	)

	return report, nil
}

// SeasonBuildResult is one season's outcome in a rebuild.
type SeasonBuildResult struct {
	Season int
	Report tournament.MergeReport
	Err    error
}

// Rebuild builds several seasons concurrently. A failed season never aborts
// the others; failures are reported per season.
func (s *RegistryRefreshService) Rebuild(ctx context.Context, seasons []int) []SeasonBuildResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistryRefreshService.Rebuild")
	defer span.End()

	workers := maxRebuildWorkers
	if len(seasons) < workers {
		workers = len(seasons)
	}
	if workers < 1 {
		workers = 1
	}

	runner := pool.NewWithResults[SeasonBuildResult]().WithMaxGoroutines(workers)
	for _, season := range seasons {
		season := season
		runner.Go(func() SeasonBuildResult {
			report, err := s.Build(ctx, season)
			return SeasonBuildResult{Season: season, Report: report, Err: err}
		})
	}

	results := runner.Wait()
	sort.SliceStable(results, func(i, j int) bool { return results[i].Season < results[j].Season })
	return results
}

// archiveSnapshot stores the raw calendar body for drift auditing. Archive
// failures are logged, never fatal to the refresh.
func (s *RegistryRefreshService) archiveSnapshot(ctx context.Context, season int, raw []byte) {
	if s.archive == nil || len(raw) == 0 {
		return
	}

	sum := sha256.Sum256(raw)
	snap := snapshot.Snapshot{
		Source:      snapshot.SourceATPTour,
		Kind:        snapshot.KindTournamentCalendar,
		Key:         fmt.Sprintf("%d", season),
		PayloadJSON: string(raw),
		PayloadHash: hex.EncodeToString(sum[:]),
		CapturedAt:  time.Now().UTC(),
	}

	if err := s.archive.Save(ctx, snap); err != nil {
		s.logger.WarnContext(ctx, "archive calendar snapshot failed", "season", season, "error", err)
	}
}
