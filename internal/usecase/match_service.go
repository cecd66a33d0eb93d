package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/courtdata/atp-proxy/internal/domain/match"
	"github.com/courtdata/atp-proxy/internal/domain/tournament"
	"github.com/courtdata/atp-proxy/internal/platform/logging"
)

const (
	defaultMatchWorkers = 8
	maxMatchWorkers     = 32

	unknownTournamentName = "Unknown"
)

var matchIDPattern = regexp.MustCompile(`^(?:ms|qs)\d{3}$`)

// MatchProvider probes one match document upstream. found=false means the
// derived identifier has no document, which is the common case.
type MatchProvider interface {
	FetchMatch(ctx context.Context, year int, tournamentID, matchID string) (match.Payload, bool, error)
}

// MatchService discovers matches for a tournament by probing every derivable
// match identifier concurrently.
type MatchService struct {
	store    tournament.Store
	provider MatchProvider
	logger   *logging.Logger
	workers  int
}

func NewMatchService(store tournament.Store, provider MatchProvider, workers int, logger *logging.Logger) *MatchService {
	if workers <= 0 {
		workers = defaultMatchWorkers
	}
	if workers > maxMatchWorkers {
		workers = maxMatchWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		store:    store,
		provider: provider,
		logger:   logger,
		workers:  workers,
	}
}

// MatchLookupResult is the outcome of probing one tournament's candidate IDs.
type MatchLookupResult struct {
	Tournament   string         `json:"tournament"`
	TournamentID string         `json:"tournament_id"`
	Year         int            `json:"year"`
	MatchIDs     []string       `json:"match_ids"`
	Matches      map[string]any `json:"matches"`
}

// LookupMatches resolves the tournament, derives every candidate match ID
// from its draw size, and probes them all. Matches whose payload carries no
// match identifier are treated as upstream filler and dropped.
func (s *MatchService) LookupMatches(ctx context.Context, idOrName string, year int, flatten bool) (MatchLookupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.LookupMatches")
	defer span.End()

	name, tournamentID, drawSize, season, err := s.resolveTournament(ctx, idOrName)
	if err != nil {
		return MatchLookupResult{}, err
	}
	if year <= 0 {
		year = defaultSeason(season)
	}

	candidates := match.CandidateIDs(drawSize)
	found, decodeFailures, err := s.probeCandidates(ctx, year, tournamentID, candidates)
	if err != nil {
		return MatchLookupResult{}, err
	}
	if len(found) == 0 && decodeFailures > 0 {
		return MatchLookupResult{}, fmt.Errorf("%w: %d match documents no longer decode", ErrUpstreamShapeChanged, decodeFailures)
	}

	result := MatchLookupResult{
		Tournament:   name,
		TournamentID: tournamentID,
		Year:         year,
		MatchIDs:     make([]string, 0, len(found)),
		Matches:      make(map[string]any, len(found)),
	}
	for id, payload := range found {
		result.MatchIDs = append(result.MatchIDs, id)
		if flatten {
			result.Matches[id] = match.Flatten(payload)
		} else {
			result.Matches[id] = payload
		}
	}
	sort.Strings(result.MatchIDs)

	return result, nil
}

// GetMatch fetches one match document by its exact identifier.
func (s *MatchService) GetMatch(ctx context.Context, idOrName, matchID string, year int, flatten bool) (any, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch")
	defer span.End()

	matchID = strings.ToLower(strings.TrimSpace(matchID))
	if !matchIDPattern.MatchString(matchID) {
		return nil, fmt.Errorf("%w: match id %q is not of the form ms001/qs001", ErrInvalidInput, matchID)
	}

	_, tournamentID, _, season, err := s.resolveTournament(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	if year <= 0 {
		year = defaultSeason(season)
	}

	payload, found, err := s.provider.FetchMatch(ctx, year, tournamentID, matchID)
	if err != nil {
		return nil, err
	}
	if !found || !match.HasMatchID(payload) {
		return nil, fmt.Errorf("%w: match=%s tournament=%s year=%d", ErrMatchNotFound, matchID, tournamentID, year)
	}

	if flatten {
		return match.Flatten(payload), nil
	}
	return payload, nil
}

// resolveTournament maps an identifier or name to an upstream tournament ID,
// the draw size used for candidate derivation, and the registry season.
// Numeric identifiers absent from the registry pass through with the default
// draw size and no season.
func (s *MatchService) resolveTournament(ctx context.Context, idOrName string) (name, id string, drawSize, season int, err error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return "", "", 0, 0, fmt.Errorf("%w: tournament identifier is required", ErrInvalidInput)
	}

	registry, err := s.store.Snapshot(ctx)
	if err != nil {
		return "", "", 0, 0, fmt.Errorf("snapshot registry: %w", err)
	}

	resolved, ok := tournament.Resolve(registry, idOrName)
	if !ok {
		return "", "", 0, 0, fmt.Errorf("%w: tournament=%s", ErrUnknownTournament, idOrName)
	}

	record, known := registry[resolved]
	if !known {
		return unknownTournamentName, resolved, match.DefaultDrawSize, 0, nil
	}

	name = record.Name
	if name == "" {
		name = unknownTournamentName
	}
	drawSize = record.SglDrawSize
	if drawSize < 2 {
		drawSize = match.DefaultDrawSize
	}
	return name, record.TournamentID, drawSize, record.SeasonYear, nil
}

// defaultSeason picks the registry season when known, otherwise the current
// UTC year.
func defaultSeason(season int) int {
	if season > 0 {
		return season
	}
	return time.Now().UTC().Year()
}

type matchProbe struct {
	matchID string
	payload match.Payload
}

// probeCandidates fans the candidate IDs over a bounded worker pool. A
// transport failure fails the whole lookup; undecodable documents are
// counted and skipped so one junk response cannot sink an otherwise good
// result set.
func (s *MatchService) probeCandidates(ctx context.Context, year int, tournamentID string, candidates []string) (map[string]match.Payload, int, error) {
	results := make(chan matchProbe, len(candidates))

	var decodeFailures atomic.Int32
	var transportErr atomic.Pointer[error]

	runner, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer runner.Release()

	var workers sync.WaitGroup
	for _, candidate := range candidates {
		candidate := candidate
		workers.Add(1)
		if err := runner.Submit(func() {
			defer workers.Done()

			if transportErr.Load() != nil {
				return
			}

			payload, found, err := s.provider.FetchMatch(ctx, year, tournamentID, candidate)
			if err != nil {
				if errors.Is(err, ErrUpstreamShapeChanged) {
					decodeFailures.Add(1)
					s.logger.WarnContext(ctx, "match document no longer decodes", "tournament_id", tournamentID, "match_id", candidate, "error", err)
					return
				}
				transportErr.CompareAndSwap(nil, &err)
				return
			}
			if !found || !match.HasMatchID(payload) {
				return
			}

			results <- matchProbe{matchID: candidate, payload: payload}
		}); err != nil {
			workers.Done()
			return nil, 0, fmt.Errorf("submit probe to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	if errPtr := transportErr.Load(); errPtr != nil {
		return nil, 0, *errPtr
	}

	found := make(map[string]match.Payload, len(candidates)/4)
	for probe := range results {
		found[probe.matchID] = probe.payload
	}

	return found, int(decodeFailures.Load()), nil
}
