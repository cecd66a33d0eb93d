package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/courtdata/atp-proxy/internal/domain/snapshot"
)

const DefaultSnapshotDir = "data/snapshots"

// SnapshotArchive writes one raw payload file per (source, kind, key, day).
type SnapshotArchive struct {
	dir string
}

func NewSnapshotArchive(dir string) *SnapshotArchive {
	if dir == "" {
		dir = DefaultSnapshotDir
	}
	return &SnapshotArchive{dir: dir}
}

func (a *SnapshotArchive) Save(_ context.Context, snap snapshot.Snapshot) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	capturedAt := snap.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now().UTC()
	}

	name := fmt.Sprintf("%s_%s_%s_%s.json", snap.Source, snap.Kind, snap.Key, capturedAt.UTC().Format("20060102"))
	path := filepath.Join(a.dir, name)

	if err := os.WriteFile(path, []byte(snap.PayloadJSON), 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	return nil
}
