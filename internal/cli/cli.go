package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/buildinfo"
	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "archgraph"

	// redisKeyPrefix namespaces cache keys in a shared Redis.
	redisKeyPrefix = appName + ":"
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

	configPath string
	config     *Config
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
		Short: "Archgraph analyzes module dependency registries",
		Long: `Archgraph builds a dependency graph from a module registry and reports
cycles, dependency chains, connectivity and dangling references, rendered as a
Mermaid, DOT or SVG diagram plus a Markdown or JSON report.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./archgraph.yaml or $XDG_CONFIG_HOME/archgraph/)")

	// Register all subcommands
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// cfg returns the loaded configuration, or the defaults before loading.
func (c *CLI) cfg() *Config {
	if c.config == nil {
		return defaultConfig()
	}
	return c.config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner. Cache keys are scoped to the build
// version.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return pipeline.NewRunner(c.newCache(ctx, noCache), keyer, c.Logger)
}

// newCache opens the configured cache backend. A backend that cannot be
// opened degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	cfg := c.cfg().Cache
	if noCache {
		return cache.Disabled("--no-cache")
	}
	if cfg.Backend == cacheBackendNone {
		return cache.Disabled("cache.backend is none")
	}
	if cfg.Backend == cacheBackendRedis {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, redisKeyPrefix)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "err", err)
			return cache.Disabled("redis unavailable")
		}
		return rc
	}
	dir, err := c.fileCacheDir()
	if err != nil {
		return cache.Disabled("no cache directory")
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "err", err)
		return cache.Disabled("file cache unavailable")
	}
	return fc
}

// openStore opens the run archive: MongoDB when store.mongo_uri is set,
// otherwise JSON files under store.dir.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg := c.cfg().Store
	if cfg.MongoURI != "" {
		ms, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	fs, err := store.NewFileStore(cfg.Dir)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// =============================================================================
// Paths
// =============================================================================

// fileCacheDir returns cache.dir from the configuration, or the XDG default.
func (c *CLI) fileCacheDir() (string, error) {
	if dir := c.cfg().Cache.Dir; dir != "" {
		return dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/archgraph/).
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
