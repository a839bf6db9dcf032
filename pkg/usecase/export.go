package usecase

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/secmon-lab/rolodex/pkg/domain/interfaces"
	"github.com/secmon-lab/rolodex/pkg/domain/model"
	"github.com/secmon-lab/rolodex/pkg/service/avatar"
	"github.com/secmon-lab/rolodex/pkg/service/vcard"
	"github.com/secmon-lab/rolodex/pkg/utils/logging"
	"github.com/secmon-lab/rolodex/pkg/utils/safe"
)

// ContactsCSVName is the tabular companion file written next to the
// contact cards. The leading zero keeps it sorted ahead of the cards.
const ContactsCSVName = "0_contacts.csv"

// ExportUseCase runs the directory-to-vCard pipeline
type ExportUseCase struct {
	snapshots   interfaces.SnapshotRepository
	directory   interfaces.Directory
	avatars     interfaces.AvatarFetcher
	outputDir   string
	includeBots bool
	ignoreKey   string
	concurrency int
}

// Option is a functional option for ExportUseCase configuration
type Option func(*ExportUseCase)

// WithDirectory provides the remote directory client. Without it the
// export only works from a same-day cache snapshot.
func WithDirectory(d interfaces.Directory) Option {
	return func(uc *ExportUseCase) {
		uc.directory = d
	}
}

// WithAvatarFetcher enables avatar embedding
func WithAvatarFetcher(f interfaces.AvatarFetcher) Option {
	return func(uc *ExportUseCase) {
		uc.avatars = f
	}
}

// WithOutputDir sets the output directory for cards and the CSV
func WithOutputDir(dir string) Option {
	return func(uc *ExportUseCase) {
		uc.outputDir = dir
	}
}

// WithBotMembers keeps bot accounts in the export
func WithBotMembers() Option {
	return func(uc *ExportUseCase) {
		uc.includeBots = true
	}
}

// WithExportIgnoreKey overrides the opt-out title sentinel
func WithExportIgnoreKey(key string) Option {
	return func(uc *ExportUseCase) {
		uc.ignoreKey = key
	}
}

// WithConcurrency bounds parallel card writing. The default of 1 keeps
// the original strictly sequential behavior; records are independent
// so higher limits only change interleaving.
func WithConcurrency(n int) Option {
	return func(uc *ExportUseCase) {
		if n > 0 {
			uc.concurrency = n
		}
	}
}

// New creates an export use case over the given snapshot repository
func New(snapshots interfaces.SnapshotRepository, opts ...Option) *ExportUseCase {
	uc := &ExportUseCase{
		snapshots:   snapshots,
		outputDir:   "vcards",
		ignoreKey:   DefaultIgnoreKey,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Export runs one full pipeline pass: load or fetch the raw snapshot,
// normalize it, and write the CSV dump plus one card per member. Any
// fetch or filesystem failure aborts the run; a re-run regenerates all
// outputs idempotently, overwriting by file name.
func (uc *ExportUseCase) Export(ctx context.Context) error {
	logger := logging.From(ctx).With("run_id", uuid.NewString())
	ctx = logging.With(ctx, logger)

	snapshot, err := uc.loadSnapshot(ctx)
	if err != nil {
		return err
	}

	var nopts []NormalizeOption
	if uc.includeBots {
		nopts = append(nopts, WithBots())
	}
	if uc.ignoreKey != "" {
		nopts = append(nopts, WithIgnoreKey(uc.ignoreKey))
	}
	members := Normalize(snapshot, nopts...)
	logger.Info("Normalized directory members",
		"total", len(snapshot.Members),
		"kept", len(members))

	if err := os.MkdirAll(uc.outputDir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V("dir", uc.outputDir))
	}

	if err := uc.writeCSV(ctx, members); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for _, m := range members {
		g.Go(func() error {
			return uc.writeCard(ctx, m)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Export completed", "cards", len(members), "dir", uc.outputDir)
	return nil
}

// loadSnapshot returns today's cached snapshot, fetching and caching a
// fresh one on a cache miss. One remote fetch per UTC day at most.
func (uc *ExportUseCase) loadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	snapshot, err := uc.snapshots.Load(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load cached snapshot")
	}
	if snapshot != nil {
		logging.From(ctx).Info("Using cached directory snapshot")
		return snapshot, nil
	}

	if uc.directory == nil {
		return nil, goerr.New("no cached snapshot for today and no API token configured")
	}

	snapshot, err = uc.directory.ListMembers(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch directory")
	}
	if err := uc.snapshots.Save(ctx, snapshot); err != nil {
		return nil, goerr.Wrap(err, "failed to cache directory snapshot")
	}

	logging.From(ctx).Info("Fetched directory from API", "members", len(snapshot.Members))
	return snapshot, nil
}

func (uc *ExportUseCase) writeCSV(ctx context.Context, members []*model.Member) error {
	path := filepath.Join(uc.outputDir, ContactsCSVName)

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return goerr.Wrap(err, "failed to create contacts CSV", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	w := csv.NewWriter(f)
	if err := w.Write(model.CSVColumns(uc.includeBots)); err != nil {
		return goerr.Wrap(err, "failed to write CSV header", goerr.V("path", path))
	}
	for _, m := range members {
		if err := w.Write(m.CSVRow(uc.includeBots)); err != nil {
			return goerr.Wrap(err, "failed to write CSV row", goerr.V("member_id", m.ID))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush contacts CSV", goerr.V("path", path))
	}

	return nil
}

func (uc *ExportUseCase) writeCard(ctx context.Context, m *model.Member) error {
	card := &vcard.Card{
		First: m.FirstName,
		Last:  m.LastName,
		Full:  m.RealName,
		Email: m.Email,
		Tel:   m.Phone,
		Skype: m.Skype,
		Title: m.Title,
	}

	if uc.avatars != nil && m.Image1024 != "" {
		data, err := uc.avatars.Fetch(ctx, m.Image1024)
		if err != nil {
			return goerr.Wrap(err, "failed to fetch avatar", goerr.V("member_id", m.ID))
		}
		if data != nil {
			card.Photo = &vcard.Photo{
				Type: vcard.PhotoType(m.Image1024),
				Data: avatar.Encode(data),
			}
		}
	}

	path := filepath.Join(uc.outputDir, vcard.Filename(m.RealName))
	logging.From(ctx).Info("Writing contact card", "path", path)

	if err := os.WriteFile(path, card.Encode(), 0o644); err != nil {
		return goerr.Wrap(err, "failed to write contact card", goerr.V("path", path))
	}

	return nil
}
