package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
)

func testCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	c.Out = io.Discard
	c.Config.Cache.Backend = backendNone
	c.Config.Geocoder.Disabled = true
	return c
}

func writeDataView(t *testing.T, dir string) string {
	t.Helper()
	dv := dataview.NewBuilder().
		Category("Region", "North", "South", "East").
		Measure("Sales", 10.0, 20.0, 30.0).
		Build()
	data, err := json.Marshal(dv)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "sales.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"pdf only", "pdf", []string{"pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/sales.json", "data/sales"},
		{"", "-", "chart"},
		{"out.svg", "sales.json", "out"},
		{"out.png", "sales.json", "out"},
		{"out", "sales.json", "out"},
		{"out.txt", "sales.json", "out.txt"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestApplySettings(t *testing.T) {
	dv := &dataview.DataView{}
	err := applySettings(dv, []string{
		"labels.show=false",
		"labels.fontSize=12",
		"map.style=bars",
		`legend.title="Region"`,
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		object, property string
		want             any
	}{
		{"labels", "show", false},
		{"labels", "fontSize", 12.0},
		{"map", "style", "bars"},
		{"legend", "title", "Region"},
	}
	for _, tt := range tests {
		got, ok := dv.Objects().Property(tt.object, tt.property)
		if !ok || got != tt.want {
			t.Errorf("%s.%s = %v (%T), want %v", tt.object, tt.property, got, got, tt.want)
		}
	}
}

func TestApplySettingsInvalid(t *testing.T) {
	for _, s := range []string{"labels", "labels=1", ".show=1", "labels.=1"} {
		err := applySettings(&dataview.DataView{}, []string{s})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("applySettings(%q) error = %v, want INVALID_INPUT", s, err)
		}
	}
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	input := writeDataView(t, dir)
	c := testCLI(t)

	flags := renderFlags{visual: "donut", set: []string{"donut.innerRadius=0.3"}}
	dv, err := loadDataView(input)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := flags.options(c, dv)
	if err != nil {
		t.Fatal(err)
	}
	opts.Formats = []string{"svg", "json"}

	var status bytes.Buffer
	c.Out = &status
	if err := c.runRender(context.Background(), input, filepath.Join(dir, "out"), opts, true); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	for _, want := range []string{"Rendered", "donut", "3 points", "North", "out.svg", "out.json"} {
		if !strings.Contains(status.String(), want) {
			t.Errorf("status output missing %q:\n%s", want, status.String())
		}
	}

	svg, err := os.ReadFile(filepath.Join(dir, "out.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("out.svg is not an SVG document")
	}
	report, err := os.ReadFile(filepath.Join(dir, "out.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(report, []byte(`"visual": "donut"`)) {
		t.Errorf("report = %.80s", report)
	}
}

func TestRunRenderSingleOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeDataView(t, dir)
	c := testCLI(t)
	out := filepath.Join(dir, "chart.svg")

	dv, err := loadDataView(input)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := (&renderFlags{visual: "aster"}).options(c, dv)
	if err != nil {
		t.Fatal(err)
	}
	opts.Formats = []string{"svg"}
	if err := c.runRender(context.Background(), input, out, opts, true); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestRunRenderStdout(t *testing.T) {
	dir := t.TempDir()
	input := writeDataView(t, dir)
	c := testCLI(t)

	dv, err := loadDataView(input)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := (&renderFlags{visual: "donut"}).options(c, dv)
	if err != nil {
		t.Fatal(err)
	}
	opts.Formats = []string{"svg"}

	var out bytes.Buffer
	c.Out = &out
	if err := c.runRender(context.Background(), input, "-", opts, true); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out.Bytes(), []byte("<svg")) {
		t.Errorf("stdout is not an SVG document: %.80s", out.String())
	}
	if bytes.Contains(out.Bytes(), []byte("Rendered")) {
		t.Error("status lines mixed into the artifact")
	}
}

func TestRunRenderErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeDataView(t, dir)
	c := testCLI(t)
	dv, err := loadDataView(input)
	if err != nil {
		t.Fatal(err)
	}

	opts, _ := (&renderFlags{visual: "pie"}).options(c, dv)
	if err := c.runRender(context.Background(), input, "", opts, true); !errors.Is(err, errors.ErrCodeInvalidVisual) {
		t.Errorf("unknown visual: error = %v", err)
	}

	opts, _ = (&renderFlags{}).options(c, dv)
	opts.Formats = []string{"json"}
	if err := c.runRender(context.Background(), input, "", opts, true); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("overwriting the input: error = %v", err)
	}

	opts, _ = (&renderFlags{}).options(c, dv)
	opts.Formats = []string{"svg", "png"}
	if err := c.runRender(context.Background(), input, "-", opts, true); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("multiple formats to stdout: error = %v", err)
	}
}

func TestLoadDataViewMissing(t *testing.T) {
	_, err := loadDataView(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRenderFlagsPrecedence(t *testing.T) {
	c := testCLI(t)
	c.Config.Visual = "aster"
	c.Config.Width = 640
	c.Config.Palette = []string{"#111111"}

	opts, err := (&renderFlags{width: 800, palette: "#ff0000, #00ff00"}).options(c, &dataview.DataView{})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Visual != "aster" {
		t.Errorf("Visual = %q, want config value", opts.Visual)
	}
	if opts.Width != 800 {
		t.Errorf("Width = %g, want flag value", opts.Width)
	}
	if len(opts.Palette) != 2 || opts.Palette[1] != "#00ff00" {
		t.Errorf("Palette = %v", opts.Palette)
	}
}
