package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartpack/pkg/visual"
)

// settingsCommand creates the settings command, which prints the effective
// settings a visual derives from a data view.
func (c *CLI) settingsCommand() *cobra.Command {
	var (
		flags  renderFlags
		object string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "settings [dataview.json]",
		Short: "Print the effective settings of a visual for a data view",
		Long: `Print the effective settings of a visual for a data view.

Values come from the data view's metadata objects and --set overrides,
with out-of-range numbers clamped and missing values defaulted. The
output can be fed back as metadata objects unchanged.`,
		Example: `  chartpack settings sales.json -t donut
  chartpack settings sales.json -t donut --object labels --set labels.fontSize=99`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dv, err := loadDataView(args[0])
			if err != nil {
				return err
			}
			opts, err := flags.options(c, dv)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := opts.ValidateAndSetDefaults(c.Registry); err != nil {
				return err
			}
			objects := []string{object}
			if object == "" {
				info, _ := c.Registry.Lookup(opts.Visual)
				objects = info.Schema.Names()
			}

			var all []visual.ObjectInstance
			for _, name := range objects {
				instances, err := runner.Objects(cmd.Context(), opts, name)
				if err != nil {
					return err
				}
				all = append(all, instances...)
			}
			if asJSON {
				return writeJSON(c.Out, all)
			}
			c.printInstances(all)
			return nil
		},
	}

	flags.register(c, cmd)
	cmd.Flags().StringVar(&object, "object", "", "print only this object")
	_ = cmd.RegisterFlagCompletionFunc("object", c.completeObjects)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (c *CLI) printInstances(instances []visual.ObjectInstance) {
	t := newTable("Object", "Property", "Value")
	for _, inst := range instances {
		keys := make([]string, 0, len(inst.Properties))
		for k := range inst.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.Row(inst.ObjectName, k, fmt.Sprint(inst.Properties[k]))
		}
	}
	fmt.Fprintln(c.Out, t.Render())
}
