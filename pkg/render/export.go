package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/chartpack/pkg/errors"
)

// ToPNG rasterizes an SVG document at the given scale.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 2
	}
	return rsvgConvert(ctx, svg, "-f", "png", "-z", fmt.Sprintf("%g", scale))
}

// ToPDF converts an SVG document to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "-f", "pdf")
}

func rsvgConvert(ctx context.Context, svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath("rsvg-convert")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "rsvg-convert not found (install librsvg)")
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rsvg-convert: %s", strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
