package local

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rolodex/pkg/domain/model"
)

// dateLayout is the cache file name layout, one file per UTC day
const dateLayout = "2006-01-02"

// SnapshotRepository caches the raw directory payload as a JSON file
// per UTC calendar day under a local folder.
type SnapshotRepository struct {
	dir string
	now func() time.Time
}

// Option is a functional option for SnapshotRepository configuration
type Option func(*SnapshotRepository)

// WithClock replaces the time source, used by tests to cross day
// boundaries without waiting.
func WithClock(now func() time.Time) Option {
	return func(r *SnapshotRepository) {
		r.now = now
	}
}

// New creates a snapshot repository rooted at dir
func New(dir string, opts ...Option) *SnapshotRepository {
	r := &SnapshotRepository{
		dir: dir,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SnapshotRepository) path() string {
	return filepath.Join(r.dir, r.now().UTC().Format(dateLayout)+".json")
}

// Load returns today's snapshot, or (nil, nil) when today's cache file
// does not exist.
func (r *SnapshotRepository) Load(ctx context.Context) (*model.Snapshot, error) {
	path := r.path()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read snapshot cache", goerr.V("path", path))
	}

	var snapshot model.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, goerr.Wrap(err, "failed to parse snapshot cache", goerr.V("path", path))
	}

	return &snapshot, nil
}

// Save writes the snapshot to today's cache file, overwriting a file
// already written today.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *model.Snapshot) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create cache directory", goerr.V("dir", r.dir))
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return goerr.Wrap(err, "failed to serialize snapshot")
	}

	path := r.path()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write snapshot cache", goerr.V("path", path))
	}

	return nil
}
