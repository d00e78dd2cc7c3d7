package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rangeplot/pkg/buildinfo"
	"github.com/matzehuels/rangeplot/pkg/cache"
	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/pipeline"
	"github.com/matzehuels/rangeplot/pkg/theme"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "rangeplot"

	// envRedisURL selects a shared Redis cache instead of the file cache.
	envRedisURL = "RANGEPLOT_REDIS_URL"

	// envMongoURI is the default figure store for "serve".
	envMongoURI = "RANGEPLOT_MONGO_URI"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "rangeplot draws genomic intervals as gene tracks",
		Long: `rangeplot draws genomic interval data (GFF, GTF, BED, VCF, TSV) as one
panel per chromosome, with exons as boxes, introns as lines and strand
arrows, optionally shrinking long empty stretches.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if err := c.loadUserThemes(); err != nil {
				printWarning("Skipping user themes: %s", errors.UserMessage(err))
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.plotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.optionsCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.vcfCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadUserThemes registers *.toml themes from the config directory.
func (c *CLI) loadUserThemes() error {
	dir, err := themeDir()
	if err != nil {
		return nil
	}
	loaded, err := theme.LoadThemeDir(dir)
	if err != nil {
		return err
	}
	if len(loaded) > 0 {
		c.Logger.Debug("loaded user themes", "dir", dir, "themes", loaded)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Keys in a shared Redis
// cache are scoped to the application.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if _, shared := cc.(*cache.RedisCache); shared {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// newCache picks Redis when RANGEPLOT_REDIS_URL is set, otherwise the file
// cache. An unusable file cache directory disables caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url := os.Getenv(envRedisURL); url != "" {
		rc, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "url", url)
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/rangeplot/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// themeDir returns the user theme directory (~/.config/rangeplot/themes/).
func themeDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "themes"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "themes"), nil
}
