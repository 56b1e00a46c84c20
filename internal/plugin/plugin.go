package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"unimoji/internal/config"
	"unimoji/internal/iconcache"
	"unimoji/internal/logging"
	"unimoji/internal/lookup"
	"unimoji/internal/oracle"
)

// Dependencies are the external collaborators a Plugin drives.
type Dependencies struct {
	Glyphs   iconcache.MetadataOracle
	Querier  lookup.Querier
	Renderer iconcache.Renderer
}

// Plugin coordinates background icon reconciliation with foreground lookups.
type Plugin struct {
	cfg        *config.Config
	logger     *slog.Logger
	reconciler *iconcache.Reconciler
	lookup     *lookup.Service

	mu          sync.Mutex
	handle      *iconcache.Handle
	initialized atomic.Bool
}

// Status represents plugin runtime information. Running reports whether the
// background reconciliation is still in progress; it turns false once the run
// returns, even before Finalize.
type Status struct {
	Initialized bool
	Running     bool
	CacheDir    string
}

// New constructs a plugin backed by the configured uni and convert programs.
func New(cfg *config.Config, logger *slog.Logger) (*Plugin, error) {
	if cfg == nil {
		return nil, errors.New("plugin requires config")
	}
	timeout := oracle.WithTimeout(cfg.OracleTimeout())
	uni, err := oracle.NewUni(cfg.Oracle.UniBinary, cfg.Oracle.Tones, cfg.Oracle.Genders, timeout)
	if err != nil {
		return nil, fmt.Errorf("uni client: %w", err)
	}
	convert, err := oracle.NewConvert(cfg.Oracle.ConvertBinary, cfg.Icons.PointSize, timeout)
	if err != nil {
		return nil, fmt.Errorf("convert client: %w", err)
	}
	return NewWithDependencies(cfg, Dependencies{Glyphs: uni, Querier: uni, Renderer: convert}, logger)
}

// NewWithDependencies constructs a plugin around caller-supplied collaborators.
func NewWithDependencies(cfg *config.Config, deps Dependencies, logger *slog.Logger) (*Plugin, error) {
	if cfg == nil {
		return nil, errors.New("plugin requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	reconciler, err := iconcache.New(cfg, deps.Glyphs, deps.Renderer, logger)
	if err != nil {
		return nil, err
	}
	svc, err := lookup.New(cfg, deps.Querier, logger)
	if err != nil {
		return nil, err
	}
	return &Plugin{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "plugin"),
		reconciler: reconciler,
		lookup:     svc,
	}, nil
}

// Initialize launches icon cache reconciliation in the background and
// returns immediately. Cancelling ctx has the same effect as Finalize
// without the wait.
func (p *Plugin) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized.Load() {
		return errors.New("plugin already initialized")
	}
	p.handle = p.reconciler.Start(ctx)
	p.initialized.Store(true)
	p.logger.Info("icon cache reconciliation started",
		logging.String(logging.FieldPath, p.reconciler.Dir()))
	return nil
}

// HandleQuery answers a lookup. It is safe to call concurrently with a
// running reconciliation and with other queries.
func (p *Plugin) HandleQuery(ctx context.Context, text string) (lookup.Results, error) {
	return p.lookup.Lookup(ctx, text)
}

// Finalize stops the background reconciliation and waits for it. Calling it
// without a prior Initialize, or twice, is a no-op.
func (p *Plugin) Finalize() iconcache.Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized.Load() {
		return iconcache.Stats{}
	}
	stats := p.handle.Stop()
	p.handle = nil
	p.initialized.Store(false)
	p.logger.Info("icon cache reconciliation finished",
		logging.Int("generated", stats.Generated),
		logging.Bool("cancelled", stats.Cancelled))
	return stats
}

// Reconcile runs one reconciliation in the foreground.
func (p *Plugin) Reconcile(ctx context.Context) iconcache.Stats {
	return p.reconciler.Reconcile(ctx)
}

// Status returns the current plugin status.
func (p *Plugin) Status() Status {
	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	running := false
	if handle != nil {
		select {
		case <-handle.Done():
		default:
			running = true
		}
	}
	return Status{
		Initialized: p.initialized.Load(),
		Running:     running,
		CacheDir:    p.reconciler.Dir(),
	}
}
