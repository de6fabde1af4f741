package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartpack/pkg/pipeline"
)

// exportFormats lists the --format values in the order they are offered.
var exportFormats = []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON}

// completeVisuals completes registered visual names, described by their
// registry entry.
func (c *CLI) completeVisuals(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, info := range c.Registry.Infos() {
		if strings.HasPrefix(info.Name, toComplete) {
			out = append(out, info.Name+"\t"+info.Description)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeVisualArg completes the optional visual argument of "visuals".
func (c *CLI) completeVisualArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return c.completeVisuals(cmd, args, toComplete)
}

// completeFormats completes a comma-separated format list, offering only
// formats not already named.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, last = toComplete[:i+1], toComplete[i+1:]
	}
	named := make(map[string]bool)
	for _, f := range strings.Split(done, ",") {
		named[f] = true
	}

	var out []string
	for _, f := range exportFormats {
		if !named[f] && strings.HasPrefix(f, last) {
			out = append(out, done+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeObjects completes the settings objects of the visual named by
// --type, falling back to the configured visual.
func (c *CLI) completeObjects(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	name, _ := cmd.Flags().GetString("type")
	if name == "" {
		name = c.Config.Visual
	}
	if name == "" {
		name = pipeline.DefaultVisual
	}
	info, ok := c.Registry.Lookup(name)
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, object := range info.Schema.Names() {
		if strings.HasPrefix(object, toComplete) {
			out = append(out, object)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
