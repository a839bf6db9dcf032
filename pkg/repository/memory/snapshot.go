package memory

import (
	"context"
	"sync"
	"time"

	"github.com/secmon-lab/rolodex/pkg/domain/model"
)

const dateLayout = "2006-01-02"

// SnapshotRepository is an in-memory snapshot store with the same
// one-day key semantics as the local file store. Intended for tests.
type SnapshotRepository struct {
	mu       sync.RWMutex
	now      func() time.Time
	key      string
	snapshot *model.Snapshot
}

// Option is a functional option for SnapshotRepository configuration
type Option func(*SnapshotRepository)

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(r *SnapshotRepository) {
		r.now = now
	}
}

// New creates an in-memory snapshot repository
func New(opts ...Option) *SnapshotRepository {
	r := &SnapshotRepository{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SnapshotRepository) today() string {
	return r.now().UTC().Format(dateLayout)
}

// Load returns today's snapshot, or (nil, nil) when nothing was saved
// today.
func (r *SnapshotRepository) Load(ctx context.Context) (*model.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil || r.key != r.today() {
		return nil, nil
	}

	// Return a deep copy to prevent external modifications
	members := make([]model.RawMember, len(r.snapshot.Members))
	copy(members, r.snapshot.Members)
	return &model.Snapshot{Members: members}, nil
}

// Save stores the snapshot under today's key
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := make([]model.RawMember, len(snapshot.Members))
	copy(members, snapshot.Members)

	r.key = r.today()
	r.snapshot = &model.Snapshot{Members: members}
	return nil
}
