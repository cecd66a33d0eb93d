package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/atp-proxy/internal/domain/snapshot"
	qb "github.com/courtdata/atp-proxy/internal/platform/querybuilder"
)

type SnapshotArchive struct {
	db *sqlx.DB
}

func NewSnapshotArchive(db *sqlx.DB) *SnapshotArchive {
	return &SnapshotArchive{db: db}
}

// Save keeps the latest raw payload per (source, kind, key).
func (a *SnapshotArchive) Save(ctx context.Context, snap snapshot.Snapshot) error {
	capturedAt := snap.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now().UTC()
	}

	insertModel := rawSnapshotInsertModel{
		Source:      snap.Source,
		Kind:        snap.Kind,
		Key:         snap.Key,
		Payload:     snap.PayloadJSON,
		PayloadHash: snap.PayloadHash,
		CapturedAt:  capturedAt,
	}

	query, args, err := qb.InsertModel("raw_snapshots", insertModel, `ON CONFLICT (source, kind, key)
DO UPDATE SET
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    captured_at = EXCLUDED.captured_at`)
	if err != nil {
		return fmt.Errorf("build upsert snapshot query: %w", err)
	}
	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert snapshot kind=%s key=%s: %w", snap.Kind, snap.Key, err)
	}

	return nil
}

type rawSnapshotInsertModel struct {
	Source      string    `db:"source"`
	Kind        string    `db:"kind"`
	Key         string    `db:"key"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	CapturedAt  time.Time `db:"captured_at"`
}
