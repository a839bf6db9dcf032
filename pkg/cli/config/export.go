package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Export holds the export pipeline settings
type Export struct {
	outputDir   string
	cacheDir    string
	ignoreKey   string
	includeBots bool
	noAvatars   bool
	concurrency int
	configPath  string
}

// Flags returns CLI flags for export configuration
func (x *Export) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output-dir",
			Aliases:     []string{"o"},
			Usage:       "Directory for the generated .vcf files and the contacts CSV",
			Category:    "Export",
			Value:       "vcards",
			Sources:     cli.EnvVars("ROLODEX_OUTPUT_DIR"),
			Destination: &x.outputDir,
		},
		&cli.StringFlag{
			Name:        "cache-dir",
			Usage:       "Directory for the daily directory snapshot cache",
			Category:    "Export",
			Value:       "cache",
			Sources:     cli.EnvVars("ROLODEX_CACHE_DIR"),
			Destination: &x.cacheDir,
		},
		&cli.StringFlag{
			Name:        "ignore-key",
			Usage:       "Title value members set to opt out of the export",
			Category:    "Export",
			Value:       "#ignore",
			Sources:     cli.EnvVars("ROLODEX_IGNORE_KEY"),
			Destination: &x.ignoreKey,
		},
		&cli.BoolFlag{
			Name:        "include-bots",
			Usage:       "Keep bot accounts in the export",
			Category:    "Export",
			Sources:     cli.EnvVars("ROLODEX_INCLUDE_BOTS"),
			Destination: &x.includeBots,
		},
		&cli.BoolFlag{
			Name:        "no-avatars",
			Usage:       "Skip avatar download and embedding",
			Category:    "Export",
			Sources:     cli.EnvVars("ROLODEX_NO_AVATARS"),
			Destination: &x.noAvatars,
		},
		&cli.IntFlag{
			Name:     "concurrency",
			Usage:    "Number of contact cards written in parallel (1 = sequential)",
			Category: "Export",
			Value:    1,
			Sources:  cli.EnvVars("ROLODEX_CONCURRENCY"),
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Optional TOML config file; values in the file override flags",
			Category:    "Export",
			Sources:     cli.EnvVars("ROLODEX_CONFIG"),
			Destination: &x.configPath,
		},
	}
}

func (x Export) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("output_dir", x.outputDir),
		slog.String("cache_dir", x.cacheDir),
		slog.String("ignore_key", x.ignoreKey),
		slog.Bool("include_bots", x.includeBots),
		slog.Bool("no_avatars", x.noAvatars),
		slog.Int("concurrency", x.concurrency),
		slog.String("config", x.configPath),
	)
}

// SetConcurrency binds the concurrency flag value
func (x *Export) SetConcurrency(n int) {
	x.concurrency = n
}

// fileConfig is the TOML representation of the export settings.
// Pointer fields distinguish "absent" from zero values.
type fileConfig struct {
	OutputDir   string `toml:"output_dir"`
	CacheDir    string `toml:"cache_dir"`
	IgnoreKey   string `toml:"ignore_key"`
	IncludeBots *bool  `toml:"include_bots"`
	NoAvatars   *bool  `toml:"no_avatars"`
	Concurrency *int   `toml:"concurrency"`
}

// Load applies the optional TOML config file and validates the merged
// settings.
func (x *Export) Load() error {
	if x.configPath != "" {
		// #nosec G304 - path is expected to be provided by CLI argument
		data, err := os.ReadFile(x.configPath)
		if err != nil {
			return goerr.Wrap(err, "failed to read config file", goerr.V("path", x.configPath))
		}

		var file fileConfig
		if err := toml.Unmarshal(data, &file); err != nil {
			return goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", x.configPath))
		}

		if file.OutputDir != "" {
			x.outputDir = file.OutputDir
		}
		if file.CacheDir != "" {
			x.cacheDir = file.CacheDir
		}
		if file.IgnoreKey != "" {
			x.ignoreKey = file.IgnoreKey
		}
		if file.IncludeBots != nil {
			x.includeBots = *file.IncludeBots
		}
		if file.NoAvatars != nil {
			x.noAvatars = *file.NoAvatars
		}
		if file.Concurrency != nil {
			x.concurrency = *file.Concurrency
		}
	}

	return x.Validate()
}

// Validate checks the merged export settings
func (x *Export) Validate() error {
	if x.outputDir == "" {
		return goerr.New("output directory is required")
	}
	if x.cacheDir == "" {
		return goerr.New("cache directory is required")
	}
	if x.concurrency < 1 {
		return goerr.New("concurrency must be at least 1", goerr.V("concurrency", x.concurrency))
	}
	return nil
}

// OutputDir returns the output directory
func (x *Export) OutputDir() string {
	return x.outputDir
}

// CacheDir returns the snapshot cache directory
func (x *Export) CacheDir() string {
	return x.cacheDir
}

// IgnoreKey returns the opt-out title sentinel
func (x *Export) IgnoreKey() string {
	return x.ignoreKey
}

// IncludeBots reports whether bot accounts are exported
func (x *Export) IncludeBots() bool {
	return x.includeBots
}

// NoAvatars reports whether avatar embedding is disabled
func (x *Export) NoAvatars() bool {
	return x.noAvatars
}

// Concurrency returns the card writing parallelism
func (x *Export) Concurrency() int {
	return x.concurrency
}
