package usecase_test

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/rolodex/pkg/domain/model"
	"github.com/secmon-lab/rolodex/pkg/repository/memory"
	"github.com/secmon-lab/rolodex/pkg/service/avatar"
	"github.com/secmon-lab/rolodex/pkg/usecase"
)

// stubDirectory counts fetches so cache reuse is observable
type stubDirectory struct {
	snapshot *model.Snapshot
	calls    atomic.Int32
}

func (x *stubDirectory) ListMembers(ctx context.Context) (*model.Snapshot, error) {
	x.calls.Add(1)
	return x.snapshot, nil
}

func exportSnapshot(avatarURL string) *model.Snapshot {
	return &model.Snapshot{
		Members: []model.RawMember{
			{
				ID:      "U1",
				Name:    "john.doe",
				Updated: 1700000000,
				TZ:      "Europe/Stockholm",
				Profile: model.RawProfile{
					FirstName:          "John",
					LastName:           "Doe",
					RealNameNormalized: "John Doe",
					Email:              "john.doe@example.com",
					Skype:              "john.skype",
					Phone:              "+46701234567",
					Title:              "Engineer",
					Image1024:          avatarURL,
				},
			},
			{
				ID:   "U2",
				Name: "jane",
				Profile: model.RawProfile{
					RealNameNormalized: "O'Brien (Team)",
					Email:              "   ",
				},
			},
			{ID: "B1", Name: "reminder", IsBot: true, Profile: model.RawProfile{RealNameNormalized: "Reminder"}},
			{ID: "U3", Name: "optout", Profile: model.RawProfile{RealNameNormalized: "Opt Out", Title: "#ignore"}},
		},
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()

	t.Run("writes cards and CSV from a fresh fetch", func(t *testing.T) {
		avatarSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("jpegbytes"))
		}))
		defer avatarSrv.Close()

		dir := &stubDirectory{snapshot: exportSnapshot(avatarSrv.URL + "/john.jpg")}
		outDir := t.TempDir()

		uc := usecase.New(memory.New(),
			usecase.WithDirectory(dir),
			usecase.WithAvatarFetcher(avatar.New()),
			usecase.WithOutputDir(outDir),
		)

		gt.NoError(t, uc.Export(ctx)).Required()
		gt.Number(t, int(dir.calls.Load())).Equal(1)

		// Two members survive normalization: bot and opt-out are gone
		data, err := os.ReadFile(filepath.Join(outDir, "john_doe.vcf"))
		gt.NoError(t, err).Required()

		card := string(data)
		if !strings.Contains(card, "FN:John Doe\n") {
			t.Errorf("missing FN line:\n%s", card)
		}
		if !strings.Contains(card, "EMAIL;TYPE=INTERNET;TYPE=HOME:john.doe@example.com\n") {
			t.Errorf("missing EMAIL line:\n%s", card)
		}
		if !strings.Contains(card, "PHOTO;ENCODING=b;TYPE=JPEG:") {
			t.Errorf("missing PHOTO line:\n%s", card)
		}
		if strings.Index(card, "IMPP") > strings.Index(card, "X-SKYPE") {
			t.Errorf("IMPP must precede X-SKYPE:\n%s", card)
		}

		// Member with empty email gets no EMAIL line and a derived filename
		data, err = os.ReadFile(filepath.Join(outDir, "o'brien_team.vcf"))
		gt.NoError(t, err).Required()
		if strings.Contains(string(data), "EMAIL") {
			t.Errorf("unexpected EMAIL line:\n%s", string(data))
		}

		// No card for the bot or the opted-out member
		entries, err := os.ReadDir(outDir)
		gt.NoError(t, err).Required()
		gt.Number(t, len(entries)).Equal(3) // 2 cards + CSV

		// CSV enumerates the normalized records in column order
		f, err := os.Open(filepath.Join(outDir, usecase.ContactsCSVName))
		gt.NoError(t, err).Required()
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		gt.NoError(t, err).Required()
		gt.Number(t, len(rows)).Equal(3) // header + 2 records
		gt.Value(t, rows[0][0]).Equal("first_name")
		gt.Value(t, rows[0][2]).Equal("real_name_normalized")
		gt.Value(t, rows[1][2]).Equal("John Doe")
		gt.Value(t, rows[2][2]).Equal("O'Brien (Team)")
	})

	t.Run("reuses same-day cache without a second fetch", func(t *testing.T) {
		dir := &stubDirectory{snapshot: exportSnapshot("")}
		snapshots := memory.New()

		uc := usecase.New(snapshots,
			usecase.WithDirectory(dir),
			usecase.WithOutputDir(t.TempDir()),
		)

		gt.NoError(t, uc.Export(ctx)).Required()
		gt.NoError(t, uc.Export(ctx)).Required()
		gt.Number(t, int(dir.calls.Load())).Equal(1)
	})

	t.Run("works from cache without a directory client", func(t *testing.T) {
		snapshots := memory.New()
		gt.NoError(t, snapshots.Save(ctx, exportSnapshot(""))).Required()

		outDir := t.TempDir()
		uc := usecase.New(snapshots, usecase.WithOutputDir(outDir))

		gt.NoError(t, uc.Export(ctx)).Required()
		if _, err := os.Stat(filepath.Join(outDir, "john_doe.vcf")); err != nil {
			t.Errorf("expected card from cached snapshot: %v", err)
		}
	})

	t.Run("fails without cache and without directory client", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithOutputDir(t.TempDir()))
		gt.Value(t, uc.Export(ctx)).NotNil()
	})

	t.Run("skips placeholder avatars", func(t *testing.T) {
		snapshot := exportSnapshot("https://a.slack-edge.com/df10d/img/avatars/ava_0001-1024.png")
		dir := &stubDirectory{snapshot: snapshot}
		outDir := t.TempDir()

		uc := usecase.New(memory.New(),
			usecase.WithDirectory(dir),
			usecase.WithAvatarFetcher(avatar.New()),
			usecase.WithOutputDir(outDir),
		)

		gt.NoError(t, uc.Export(ctx)).Required()

		data, err := os.ReadFile(filepath.Join(outDir, "john_doe.vcf"))
		gt.NoError(t, err).Required()
		if strings.Contains(string(data), "PHOTO") {
			t.Errorf("placeholder avatar must not be embedded:\n%s", string(data))
		}
	})

	t.Run("re-run overwrites existing outputs", func(t *testing.T) {
		dir := &stubDirectory{snapshot: exportSnapshot("")}
		outDir := t.TempDir()
		snapshots := memory.New()

		uc := usecase.New(snapshots,
			usecase.WithDirectory(dir),
			usecase.WithOutputDir(outDir),
		)

		gt.NoError(t, uc.Export(ctx)).Required()
		first, err := os.ReadFile(filepath.Join(outDir, "john_doe.vcf"))
		gt.NoError(t, err).Required()

		gt.NoError(t, uc.Export(ctx)).Required()
		second, err := os.ReadFile(filepath.Join(outDir, "john_doe.vcf"))
		gt.NoError(t, err).Required()

		gt.Value(t, string(second)).Equal(string(first))
	})

	t.Run("bounded concurrency writes all cards", func(t *testing.T) {
		dir := &stubDirectory{snapshot: exportSnapshot("")}
		outDir := t.TempDir()

		uc := usecase.New(memory.New(),
			usecase.WithDirectory(dir),
			usecase.WithOutputDir(outDir),
			usecase.WithConcurrency(4),
		)

		gt.NoError(t, uc.Export(ctx)).Required()

		entries, err := os.ReadDir(outDir)
		gt.NoError(t, err).Required()
		gt.Number(t, len(entries)).Equal(3)
	})

	t.Run("includes bot column when bots are exported", func(t *testing.T) {
		snapshot := &model.Snapshot{
			Members: []model.RawMember{
				{ID: "B1", Name: "reminder", IsBot: true, Profile: model.RawProfile{
					RealNameNormalized: "Reminder",
					BotID:              "B1",
				}},
			},
		}
		dir := &stubDirectory{snapshot: snapshot}
		outDir := t.TempDir()

		uc := usecase.New(memory.New(),
			usecase.WithDirectory(dir),
			usecase.WithOutputDir(outDir),
			usecase.WithBotMembers(),
		)

		gt.NoError(t, uc.Export(ctx)).Required()

		f, err := os.Open(filepath.Join(outDir, usecase.ContactsCSVName))
		gt.NoError(t, err).Required()
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		gt.NoError(t, err).Required()
		gt.Value(t, rows[0][len(rows[0])-1]).Equal("bot_id")
		gt.Value(t, rows[1][len(rows[1])-1]).Equal("B1")
	})
}
