package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/atp-proxy/internal/domain/tournament"
	qb "github.com/courtdata/atp-proxy/internal/platform/querybuilder"
)

// tournamentRegistryLockID serializes concurrent merges against the registry
// table via pg_advisory_xact_lock.
const tournamentRegistryLockID int64 = 7_412_025

const tournamentUpsertSuffix = `ON CONFLICT (tournament_id)
DO UPDATE SET
    name = EXCLUDED.name,
    start_date = EXCLUDED.start_date,
    end_date = EXCLUDED.end_date,
    location = EXCLUDED.location,
    category = EXCLUDED.category,
    season_year = EXCLUDED.season_year,
    sgl_draw_size = EXCLUDED.sgl_draw_size,
    dbl_draw_size = EXCLUDED.dbl_draw_size,
    updated_at = NOW()`

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) List(ctx context.Context) ([]tournament.Record, error) {
	query, args, err := qb.Select("*").From("tournaments").
		OrderBy("tournament_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tournaments: %w", err)
	}

	out := make([]tournament.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRecord())
	}

	return out, nil
}

func (s *TournamentStore) Get(ctx context.Context, id string) (tournament.Record, bool, error) {
	query, args, err := qb.Select("*").From("tournaments").
		Where(qb.Eq("tournament_id", id)).
		ToSQL()
	if err != nil {
		return tournament.Record{}, false, fmt.Errorf("build get tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Record{}, false, nil
		}
		return tournament.Record{}, false, fmt.Errorf("get tournament: %w", err)
	}

	return row.toRecord(), true, nil
}

func (s *TournamentStore) Snapshot(ctx context.Context) (map[string]tournament.Record, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]tournament.Record, len(records))
	for _, record := range records {
		out[record.TournamentID] = record
	}

	return out, nil
}

// Merge reconciles calendar entries into the registry inside one transaction.
// An advisory transaction lock serializes concurrent merges so the
// read-merge-write cycle never loses fields.
func (s *TournamentStore) Merge(ctx context.Context, entries []tournament.Entry) (tournament.MergeReport, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return tournament.MergeReport{}, fmt.Errorf("begin merge tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", tournamentRegistryLockID); err != nil {
		return tournament.MergeReport{}, fmt.Errorf("acquire registry lock: %w", err)
	}

	query, args, err := qb.Select("*").From("tournaments").ToSQL()
	if err != nil {
		return tournament.MergeReport{}, fmt.Errorf("build select tournaments query: %w", err)
	}
	var rows []tournamentTableModel
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return tournament.MergeReport{}, fmt.Errorf("select tournaments for merge: %w", err)
	}

	existing := make(map[string]tournament.Record, len(rows))
	for _, row := range rows {
		existing[row.TournamentID] = row.toRecord()
	}

	merged, report := tournament.Merge(existing, entries)

	for id, record := range merged {
		if before, ok := existing[id]; ok && before == record {
			continue
		}

		query, args, err := qb.InsertModel("tournaments", insertModelFromRecord(record), tournamentUpsertSuffix)
		if err != nil {
			return tournament.MergeReport{}, fmt.Errorf("build upsert tournament query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return tournament.MergeReport{}, fmt.Errorf("upsert tournament id=%s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return tournament.MergeReport{}, fmt.Errorf("commit merge tx: %w", err)
	}

	return report, nil
}

func (s *TournamentStore) Close() error {
	return s.db.Close()
}
