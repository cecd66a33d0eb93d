package snapshot

import "context"

type Archive interface {
	Save(ctx context.Context, snap Snapshot) error
}
