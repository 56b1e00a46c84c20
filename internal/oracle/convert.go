package oracle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Convert renders glyphs to transparent PNG files with ImageMagick.
type Convert struct {
	binary    string
	pointSize int
	runner
}

// NewConvert constructs a renderer drawing glyphs at pointSize points.
func NewConvert(binary string, pointSize int, opts ...Option) (*Convert, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("convert binary required")
	}
	if pointSize <= 0 {
		return nil, fmt.Errorf("convert point size must be positive, got %d", pointSize)
	}
	return &Convert{binary: binary, pointSize: pointSize, runner: newRunner(opts)}, nil
}

// RenderArgs returns the argument list that draws glyph into outPath.
func (c *Convert) RenderArgs(glyph, outPath string) []string {
	return []string{
		"-pointsize", strconv.Itoa(c.pointSize),
		"-background", "transparent",
		"pango:" + glyph,
		outPath,
	}
}

// Render draws glyph into outPath. Callers own the naming of outPath;
// convert treats some characters in file names as patterns, so the final
// glyph-named file should be produced by a rename.
func (c *Convert) Render(ctx context.Context, glyph, outPath string) error {
	if glyph == "" {
		return errors.New("convert render: empty glyph")
	}
	if strings.TrimSpace(outPath) == "" {
		return errors.New("convert render: output path required")
	}
	if _, err := c.run(ctx, c.binary, c.RenderArgs(glyph, outPath), nil); err != nil {
		return fmt.Errorf("convert render: %w", err)
	}
	return nil
}
