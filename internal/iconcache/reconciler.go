package iconcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"unimoji/internal/config"
	"unimoji/internal/logging"
)

const (
	iconExt      = ".png"
	tempPrefix   = "tmp-"
	lockFileName = ".reconcile.lock"
)

// ErrLocked reports that another process holds the cache directory lock.
var ErrLocked = errors.New("icon cache is being reconciled by another process")

// MetadataOracle lists every glyph that needs an icon.
type MetadataOracle interface {
	BatchGlyphs(ctx context.Context) ([]string, error)
}

// Renderer draws a single glyph into outPath.
type Renderer interface {
	Render(ctx context.Context, glyph, outPath string) error
}

// Stats summarises one reconciliation run.
type Stats struct {
	Required           int
	Cached             int
	Stale              int
	Missing            int
	Deleted            int
	DeleteFailures     int
	Dispatched         int
	Generated          int
	GenerationFailures int
	Cancelled          bool
	Skipped            bool
	Err                error
	Duration           time.Duration
}

// Reconciler brings a cache directory in line with the oracle's glyph set.
type Reconciler struct {
	dir           string
	fallbackGlyph string
	workers       int
	oracle        MetadataOracle
	renderer      Renderer
	logger        *slog.Logger
	removeFile    func(string) error
}

// Option customises a Reconciler.
type Option func(*Reconciler)

// WithRemover replaces the function used to delete stale icons.
func WithRemover(remove func(string) error) Option {
	return func(r *Reconciler) {
		if remove != nil {
			r.removeFile = remove
		}
	}
}

// New constructs a reconciler for cfg.Paths.CacheDir.
func New(cfg *config.Config, oracle MetadataOracle, renderer Renderer, logger *slog.Logger, opts ...Option) (*Reconciler, error) {
	if cfg == nil || oracle == nil || renderer == nil {
		return nil, errors.New("icon cache reconciler requires config, oracle, and renderer")
	}
	if strings.TrimSpace(cfg.Paths.CacheDir) == "" {
		return nil, errors.New("icon cache directory not configured")
	}
	r := &Reconciler{
		dir:           cfg.Paths.CacheDir,
		fallbackGlyph: cfg.Icons.FallbackGlyph,
		workers:       cfg.WorkerCount(),
		oracle:        oracle,
		renderer:      renderer,
		logger:        logging.NewComponentLogger(logger, "iconcache"),
		removeFile:    os.Remove,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Dir returns the cache directory managed by the reconciler.
func (r *Reconciler) Dir() string {
	return r.dir
}

// IconPath returns the final location of glyph's icon.
func (r *Reconciler) IconPath(glyph string) string {
	return filepath.Join(r.dir, glyph+iconExt)
}

// Reconcile performs one run. Cancelling ctx stops new renders from being
// dispatched; renders already dispatched finish before Reconcile returns.
// Failures are logged and recorded in Stats.Err, never returned.
func (r *Reconciler) Reconcile(ctx context.Context) (stats Stats) {
	start := time.Now()
	defer func() {
		stats.Duration = time.Since(start)
		r.logRun(stats)
	}()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		logging.ErrorWithContext(r.logger, "icon cache directory unavailable", "icon_cache_mkdir_failed",
			logging.String(logging.FieldPath, r.dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the cache directory or set paths.cache_dir"))
		stats.Err = fmt.Errorf("create cache directory: %w", err)
		return stats
	}

	lock := flock.New(filepath.Join(r.dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		stats.Err = fmt.Errorf("acquire cache lock: %w", err)
		logging.ErrorWithContext(r.logger, "icon cache lock failed", "icon_cache_lock_failed",
			logging.String(logging.FieldPath, lock.Path()),
			logging.Error(err))
		return stats
	}
	if !locked {
		stats.Skipped = true
		r.logger.Info("icon cache reconciliation skipped",
			logging.String(logging.FieldPath, r.dir),
			logging.String("reason", ErrLocked.Error()))
		return stats
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release icon cache lock", logging.Error(err))
		}
	}()

	// Cancellation stops dispatching only; oracle and render calls run to completion.
	execCtx := context.WithoutCancel(ctx)

	glyphs, err := r.oracle.BatchGlyphs(execCtx)
	if err != nil {
		stats.Err = fmt.Errorf("list required glyphs: %w", err)
		logging.ErrorWithContext(r.logger, "icon cache oracle call failed", "icon_cache_oracle_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run `unimoji deps` to verify uni is installed"))
		return stats
	}
	required := r.requiredIcons(glyphs)

	cached, err := r.cachedIcons()
	if err != nil {
		stats.Err = fmt.Errorf("list cache directory: %w", err)
		logging.ErrorWithContext(r.logger, "icon cache listing failed", "icon_cache_list_failed",
			logging.String(logging.FieldPath, r.dir),
			logging.Error(err))
		return stats
	}

	delta := ComputeDelta(keys(required), keys(cached))
	stats.Required = len(required)
	stats.Cached = len(cached)
	stats.Stale = len(delta.Stale)
	stats.Missing = len(delta.Missing)

	for _, key := range delta.Stale {
		if r.remove(cached[key]) {
			stats.Deleted++
		} else {
			stats.DeleteFailures++
		}
	}

	var generated, failed atomic.Int64
	var g errgroup.Group
	slots := make(chan struct{}, r.workers)
	for _, key := range delta.Missing {
		if !acquire(ctx, slots) {
			stats.Cancelled = true
			break
		}
		glyph := required[key]
		g.Go(func() error {
			defer func() { <-slots }()
			if r.generate(execCtx, glyph) {
				generated.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
		stats.Dispatched++
	}
	_ = g.Wait()

	stats.Generated = int(generated.Load())
	stats.GenerationFailures = int(failed.Load())
	return stats
}

// requiredIcons maps normalized file names to glyphs. The fallback glyph is
// always included.
func (r *Reconciler) requiredIcons(glyphs []string) map[string]string {
	out := make(map[string]string, len(glyphs)+1)
	add := func(glyph string) {
		if glyph == "" {
			return
		}
		if strings.ContainsAny(glyph, `/\`+"\x00") {
			r.logger.Debug("skipping glyph unusable as a file name", logging.String(logging.FieldGlyph, glyph))
			return
		}
		out[iconKey(glyph+iconExt)] = glyph
	}
	for _, glyph := range glyphs {
		add(glyph)
	}
	add(r.fallbackGlyph)
	return out
}

// cachedIcons maps normalized file names to the names found on disk. Hidden
// files and directories are not part of the cache.
func (r *Reconciler) cachedIcons() (map[string]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || entry.IsDir() {
			continue
		}
		out[iconKey(name)] = name
	}
	return out, nil
}

func (r *Reconciler) remove(name string) bool {
	path := filepath.Join(r.dir, name)
	if err := r.removeFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.WarnWithContext(r.logger, "failed to delete stale icon", "icon_cache_delete_failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale icon stays until the next run"))
		return false
	}
	r.logger.Debug("deleted stale icon", logging.String(logging.FieldPath, path))
	return true
}

// generate renders glyph to a unique temporary file and renames it into
// place. The temporary name never contains the glyph itself.
func (r *Reconciler) generate(ctx context.Context, glyph string) bool {
	tmp := filepath.Join(r.dir, tempPrefix+uuid.NewString()+iconExt)
	if err := r.renderer.Render(ctx, glyph, tmp); err != nil {
		logging.WarnWithContext(r.logger, "icon render failed", "icon_cache_render_failed",
			logging.String(logging.FieldGlyph, glyph),
			logging.Error(err),
			logging.String(logging.FieldImpact, "icon missing until the next run"))
		removeQuietly(tmp)
		return false
	}
	target := r.IconPath(glyph)
	if err := os.Rename(tmp, target); err != nil {
		logging.WarnWithContext(r.logger, "failed to move rendered icon into place", "icon_cache_rename_failed",
			logging.String(logging.FieldGlyph, glyph),
			logging.String(logging.FieldPath, target),
			logging.Error(err),
			logging.String(logging.FieldImpact, "icon missing until the next run"))
		removeQuietly(tmp)
		return false
	}
	r.logger.Debug("generated icon", logging.String(logging.FieldGlyph, glyph))
	return true
}

func (r *Reconciler) logRun(stats Stats) {
	if stats.Skipped {
		return
	}
	attrs := []logging.Attr{
		logging.Int("required", stats.Required),
		logging.Int("cached", stats.Cached),
		logging.Int("deleted", stats.Deleted),
		logging.Int("delete_failures", stats.DeleteFailures),
		logging.Int("dispatched", stats.Dispatched),
		logging.Int("generated", stats.Generated),
		logging.Int("generation_failures", stats.GenerationFailures),
		logging.Bool("cancelled", stats.Cancelled),
		logging.Duration("duration", stats.Duration),
	}
	if stats.Err != nil {
		r.logger.Warn("icon cache reconciliation aborted", logging.Args(append(attrs, logging.Error(stats.Err))...)...)
		return
	}
	r.logger.Info("icon cache reconciled", logging.Args(attrs...)...)
}

// acquire takes a worker slot, giving up as soon as ctx is done so a stop
// request never waits behind a busy pool.
func acquire(ctx context.Context, slots chan<- struct{}) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case slots <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func iconKey(name string) string {
	return norm.NFC.String(name)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}
