package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rolodex/pkg/domain/interfaces"
	"github.com/secmon-lab/rolodex/pkg/service/directory"
	"github.com/urfave/cli/v3"
)

// Slack holds the workspace API credential
type Slack struct {
	apiToken string
}

// Flags returns CLI flags for Slack configuration
func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-api-token",
			Usage:       "Slack API token used for users.list (not needed when a same-day cache exists)",
			Category:    "Slack",
			Sources:     cli.EnvVars("ROLODEX_SLACK_API_TOKEN"),
			Destination: &x.apiToken,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("api-token.len", len(x.apiToken)),
	)
}

// Configure creates a directory client, or returns nil when no token
// is configured (the export then runs only from a same-day cache).
func (x *Slack) Configure() (interfaces.Directory, error) {
	if x.apiToken == "" {
		return nil, nil
	}

	client, err := directory.New(x.apiToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create directory client")
	}

	return client, nil
}
