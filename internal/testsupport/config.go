package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"unimoji/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CacheDir = filepath.Join(base, "icons")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Icons.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWorkers overrides the icon generation pool size.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Icons.Workers = n
	}
}

// WithFallbackGlyph overrides the aggregate item's icon glyph.
func WithFallbackGlyph(glyph string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Icons.FallbackGlyph = glyph
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, uni and convert are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"uni", "convert"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		for _, name := range names {
			WriteScript(b.t, filepath.Join(binDir, name), "exit 0\n")
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// WithScript writes an executable shell script at <base>/bin/<name> and
// points the matching oracle binary setting at it. name must be "uni" or
// "convert".
func WithScript(name, body string) ConfigOption {
	return func(b *configBuilder) {
		target := filepath.Join(b.baseDir, "bin", name)
		WriteScript(b.t, target, body)
		switch name {
		case "uni":
			b.cfg.Oracle.UniBinary = target
		case "convert":
			b.cfg.Oracle.ConvertBinary = target
		default:
			b.t.Fatalf("unknown oracle binary %q", name)
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CacheDir)
}
