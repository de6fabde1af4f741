// Package cli implements the chartpack command-line interface.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartpack/pkg/buildinfo"
	"github.com/matzehuels/chartpack/pkg/cache"
	"github.com/matzehuels/chartpack/pkg/geo"
	"github.com/matzehuels/chartpack/pkg/observability"
	"github.com/matzehuels/chartpack/pkg/pipeline"
	"github.com/matzehuels/chartpack/pkg/visual"
	_ "github.com/matzehuels/chartpack/pkg/visual/all"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "chartpack"
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
	Logger   *log.Logger
	Config   *Config
	Registry *visual.Registry
	// Out receives command output. Status lines and artifacts written to
	// "-" go here; logs and the spinner go to the logger's writer.
	Out io.Writer

	status     io.Writer
	configFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		Config:   defaultConfig(),
		Registry: visual.Default,
		Out:      os.Stdout,
		status:   w,
	}
}

func (c *CLI) print() printer { return printer{w: c.Out} }

// SetLogLevel updates the logger's level. At debug level pipeline events
// are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.Register(debugHooks{logger: c.Logger})
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "chartpack renders data views with chart visuals",
		Long:          `chartpack renders categorical data views with a pack of chart visuals (donut, aster, tornado, histogram, map) to SVG, PNG or PDF, explores them interactively in the terminal, and serves them over HTTP.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/chartpack/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.settingsCommand())
	root.AddCommand(c.visualsCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

func (c *CLI) loadConfig() error {
	path, explicit := c.configFile, c.configFile != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			c.Logger.Debug("no config directory", "error", err)
			return nil
		}
		path = p
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	runner.Registry = c.Registry
	if !c.Config.Geocoder.Disabled {
		runner.Geocoder = geo.NewHTTPGeocoder(c.Config.Geocoder.URL, cc, c.Config.Geocoder.UserAgent)
	}
	return runner, nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		r := c.Config.Cache.Redis
		return cache.NewRedisCache(cache.RedisConfig{
			Address:   r.Addr,
			Password:  r.Password,
			DB:        r.DB,
			KeyPrefix: r.Prefix,
		})
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns render options seeded from the config file.
func (c *CLI) baseOptions() pipeline.Options {
	return pipeline.Options{
		Visual:  c.Config.Visual,
		Width:   c.Config.Width,
		Height:  c.Config.Height,
		Locale:  c.Config.Locale,
		Palette: c.Config.Palette,
		Logger:  c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// parseList splits a comma-separated flag value, dropping blanks.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
