package tournament

import "context"

// Store is the persistent registry. Merge must serialize against concurrent
// merges on the same backing data, so the refresh CLI and a running API server
// cannot interleave writes.
type Store interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, tournamentID string) (Record, bool, error)
	Snapshot(ctx context.Context) (map[string]Record, error)
	Merge(ctx context.Context, entries []Entry) (MergeReport, error)
	Close() error
}
