package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/pipeline"
)

// renderFlags holds the command-line flags shared by commands that render
// a data view.
type renderFlags struct {
	visual  string
	width   float64
	height  float64
	locale  string
	palette string
	set     []string
}

func (f *renderFlags) register(c *CLI, cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.visual, "type", "t", "", "visual type (see 'chartpack visuals'; default from config or donut)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "viewport width in pixels")
	cmd.Flags().Float64Var(&f.height, "height", 0, "viewport height in pixels")
	cmd.Flags().StringVar(&f.locale, "locale", "", "number formatting locale, e.g. de-DE")
	cmd.Flags().StringVar(&f.palette, "palette", "", "comma-separated colors replacing the default palette")
	cmd.Flags().StringArrayVar(&f.set, "set", nil, "override a setting: object.property=value (repeatable)")
	_ = cmd.RegisterFlagCompletionFunc("type", c.completeVisuals)
}

// options builds render options from the config file, the data view and
// the flags, in increasing precedence.
func (f *renderFlags) options(c *CLI, dv *dataview.DataView) (pipeline.Options, error) {
	opts := c.baseOptions()
	opts.DataView = dv
	if f.visual != "" {
		opts.Visual = f.visual
	}
	if f.width > 0 {
		opts.Width = f.width
	}
	if f.height > 0 {
		opts.Height = f.height
	}
	if f.locale != "" {
		opts.Locale = f.locale
	}
	if f.palette != "" {
		opts.Palette = parseList(f.palette)
	}
	if err := applySettings(dv, f.set); err != nil {
		return opts, err
	}
	return opts, nil
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      renderFlags
		output     string
		formatsStr string
		scale      float64
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "render [dataview.json]",
		Short: "Render a data view to SVG, PNG, PDF or a JSON report",
		Long: `Render a data view with one visual.

The data view is read from the file argument, or from stdin when the
argument is "-". PNG and PDF output require rsvg-convert on PATH.`,
		Example: `  chartpack render sales.json -t donut -o sales.svg
  chartpack render sales.json -t aster -f svg,png --set centerLabel.show=false
  cat sales.json | chartpack render - -t tornado -o -`,
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
			opts.Formats = parseFormats(formatsStr)
			opts.Scale = scale
			opts.Refresh = refresh
			return c.runRender(cmd.Context(), args[0], output, opts, noCache)
		},
	}

	flags.register(c, cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple); '-' for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG rasterization scale")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	if output == "-" && len(opts.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(opts.Formats))
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	stop := func() {}
	if output != "-" {
		stop = spin(ctx, c.status, "Rendering "+displayName(input)+"...")
	}
	result, err := runner.Execute(ctx, opts)
	stop()
	if err != nil {
		return err
	}
	prog.done("Rendered " + opts.Visual)

	if output == "-" {
		_, err := c.Out.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	p := c.print()
	p.success("Rendered %s", StyleAccent.Render(opts.Visual))
	p.stats(result.Stats, result.CacheHit)
	p.legend(result.Legend)
	for _, w := range result.Warnings {
		p.warning(w)
	}

	base := basePath(output, input)
	for _, f := range opts.Formats {
		path := base + "." + f
		if len(opts.Formats) == 1 && output != "" {
			path = output
		}
		if filepath.Clean(path) == filepath.Clean(input) {
			return errors.New(errors.ErrCodeInvalidInput, "output %s would overwrite the input", path)
		}
		if err := os.WriteFile(path, result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		p.file(path)
	}
	return nil
}

// loadDataView reads a data view from path, or from stdin for "-".
func loadDataView(path string) (*dataview.DataView, error) {
	if path == "-" {
		return dataview.Decode(os.Stdin)
	}
	return dataview.Load(path)
}

// applySettings writes object.property=value overrides into the data view
// objects. Values are parsed as JSON when possible (numbers, booleans,
// quoted strings) and used verbatim otherwise.
func applySettings(dv *dataview.DataView, sets []string) error {
	for _, s := range sets {
		key, raw, ok := strings.Cut(s, "=")
		object, property, ok2 := strings.Cut(key, ".")
		if !ok || !ok2 || object == "" || property == "" {
			return errors.New(errors.ErrCodeInvalidInput, "invalid setting %q (want object.property=value)", s)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		if dv.Metadata.Objects == nil {
			dv.Metadata.Objects = make(dataview.Objects)
		}
		if dv.Metadata.Objects[object] == nil {
			dv.Metadata.Objects[object] = make(map[string]any)
		}
		dv.Metadata.Objects[object][property] = value
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "chart"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func displayName(input string) string {
	if input == "-" {
		return "stdin"
	}
	return filepath.Base(input)
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
