package cli

import (
	"context"

	"github.com/secmon-lab/rolodex/pkg/cli/config"
	"github.com/secmon-lab/rolodex/pkg/repository/local"
	"github.com/secmon-lab/rolodex/pkg/service/avatar"
	"github.com/secmon-lab/rolodex/pkg/usecase"
	"github.com/secmon-lab/rolodex/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdExport() *cli.Command {
	var (
		slackCfg  config.Slack
		exportCfg config.Export
	)

	flags := append(slackCfg.Flags(), exportCfg.Flags()...)

	return &cli.Command{
		Name:    "export",
		Aliases: []string{"e"},
		Usage:   "Export the workspace directory as vCard files",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			exportCfg.SetConcurrency(int(c.Int("concurrency")))
			if err := exportCfg.Load(); err != nil {
				return err
			}

			logging.From(ctx).Info("Export configuration",
				"slack", slackCfg,
				"export", exportCfg)

			dir, err := slackCfg.Configure()
			if err != nil {
				return err
			}

			snapshots := local.New(exportCfg.CacheDir())

			opts := []usecase.Option{
				usecase.WithOutputDir(exportCfg.OutputDir()),
				usecase.WithExportIgnoreKey(exportCfg.IgnoreKey()),
				usecase.WithConcurrency(exportCfg.Concurrency()),
			}
			if dir != nil {
				opts = append(opts, usecase.WithDirectory(dir))
			}
			if !exportCfg.NoAvatars() {
				opts = append(opts, usecase.WithAvatarFetcher(avatar.New()))
			}
			if exportCfg.IncludeBots() {
				opts = append(opts, usecase.WithBotMembers())
			}

			return usecase.New(snapshots, opts...).Export(ctx)
		},
	}
}
