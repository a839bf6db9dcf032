package interfaces

import (
	"context"

	"github.com/secmon-lab/rolodex/pkg/domain/model"
)

// SnapshotRepository stores the raw directory payload with one-day
// granularity. Keys roll over at UTC midnight; there is no other
// invalidation.
type SnapshotRepository interface {
	// Load returns the snapshot saved today (UTC), or (nil, nil) when
	// no snapshot exists for today. Absence is an expected state, not
	// an error.
	Load(ctx context.Context) (*model.Snapshot, error)

	// Save persists the snapshot under today's key, overwriting any
	// snapshot already saved today.
	Save(ctx context.Context, snapshot *model.Snapshot) error
}
