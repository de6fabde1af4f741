package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartpack/pkg/cache"
	"github.com/matzehuels/chartpack/pkg/errors"
)

// cacheKinds maps the --kind values of "cache clear" to key prefixes.
var cacheKinds = map[string]string{
	"artifacts": cache.KindArtifact,
	"locations": cache.KindGeocode,
	"responses": cache.KindResponse,
}

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact and location cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

// fileCacheDir returns the directory of the file cache.
func (c *CLI) fileCacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var kinds []string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached artifacts, locations and geocoder responses",
		Example: `  chartpack cache clear
  chartpack cache clear --kind artifacts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefixes, err := cachePrefixes(kinds)
			if err != nil {
				return err
			}
			if c.Config.Cache.Backend == backendRedis {
				c.print().warn("Redis entries expire on their own; only the file cache is cleared")
			}
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			return c.clearCache(dir, prefixes)
		},
	}

	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "clear only these kinds: artifacts, locations, responses")
	_ = cmd.RegisterFlagCompletionFunc("kind", cobra.FixedCompletions(slices.Sorted(maps.Keys(cacheKinds)), cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (c *CLI) clearCache(dir string, prefixes []string) error {
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	n, err := fc.(*cache.FileCache).Clear(prefixes...)
	if err != nil {
		return err
	}
	if n == 0 {
		c.print().info("Cache is empty")
		return nil
	}
	c.print().success("Cleared %d cached entries", n)
	c.print().detail("Directory: %s", dir)
	return nil
}

func cachePrefixes(kinds []string) ([]string, error) {
	var out []string
	for _, k := range kinds {
		p, ok := cacheKinds[k]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache kind %q (want artifacts, locations or responses)", k)
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, dir)
			return nil
		},
	}
}
