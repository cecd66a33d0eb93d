package memory

import (
	"context"
	"sync"

	"github.com/courtdata/atp-proxy/internal/domain/snapshot"
)

type SnapshotArchive struct {
	mu    sync.RWMutex
	items map[string]snapshot.Snapshot
}

func NewSnapshotArchive() *SnapshotArchive {
	return &SnapshotArchive{items: make(map[string]snapshot.Snapshot)}
}

func (a *SnapshotArchive) Save(_ context.Context, snap snapshot.Snapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.items[snap.Source+"/"+snap.Kind+"/"+snap.Key] = snap
	return nil
}

// Get supports tests and the dev backend; the serving path never reads
// archived snapshots.
func (a *SnapshotArchive) Get(_ context.Context, source, kind, key string) (snapshot.Snapshot, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snap, ok := a.items[source+"/"+kind+"/"+key]
	return snap, ok
}
