package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"unimoji/internal/config"
	"unimoji/internal/emoji"
	"unimoji/internal/logging"
)

// Title prefixes every result ID.
const Title = "Unicode Emojis"

// AllText is the display text of the aggregate result.
const AllText = "All"

// Querier runs a full-detail oracle lookup.
type Querier interface {
	Query(ctx context.Context, text string) ([]emoji.Entry, error)
}

// Item is one displayable result.
type Item struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Group    string       `json:"group,omitempty"`
	Glyph    string       `json:"glyph,omitempty"`
	IconPath string       `json:"icon"`
	Actions  []emoji.Clip `json:"actions"`
}

// Action returns the clip text for label.
func (i Item) Action(label string) (string, bool) {
	for _, clip := range i.Actions {
		if clip.Label == label {
			return clip.Text, true
		}
	}
	return "", false
}

// Results holds the entries matched by one query, in oracle order, plus the
// aggregate item when anything matched.
type Results struct {
	Query string `json:"query"`
	Items []Item `json:"items"`
	All   *Item  `json:"all,omitempty"`
}

// Empty reports whether the query matched nothing.
func (r Results) Empty() bool {
	return len(r.Items) == 0
}

// List returns the items followed by the aggregate, the order a launcher
// displays them in.
func (r Results) List() []Item {
	out := make([]Item, 0, len(r.Items)+1)
	out = append(out, r.Items...)
	if r.All != nil {
		out = append(out, *r.All)
	}
	return out
}

// Service answers lookups.
type Service struct {
	querier       Querier
	cacheDir      string
	fallbackGlyph string
	logger        *slog.Logger
}

// New constructs a lookup service that reports icon paths under
// cfg.Paths.CacheDir.
func New(cfg *config.Config, querier Querier, logger *slog.Logger) (*Service, error) {
	if cfg == nil || querier == nil {
		return nil, errors.New("lookup service requires config and querier")
	}
	return &Service{
		querier:       querier,
		cacheDir:      cfg.Paths.CacheDir,
		fallbackGlyph: cfg.Icons.FallbackGlyph,
		logger:        logging.NewComponentLogger(logger, "lookup"),
	}, nil
}

// Lookup trims query and returns its matches. A blank query returns empty
// results without consulting the oracle. Oracle failures other than "no
// matches" are returned as errors carrying the oracle output.
func (s *Service) Lookup(ctx context.Context, query string) (Results, error) {
	query = strings.TrimSpace(query)
	results := Results{Query: query, Items: []Item{}}
	if query == "" {
		return results, nil
	}

	start := time.Now()
	entries, err := s.querier.Query(ctx, query)
	if err != nil {
		s.logger.Debug("lookup failed",
			logging.String(logging.FieldQuery, query),
			logging.Error(err))
		return Results{}, fmt.Errorf("lookup %q: %w", query, err)
	}

	for _, entry := range entries {
		results.Items = append(results.Items, Item{
			ID:       Title + "/" + entry.Emoji,
			Name:     entry.Name,
			Group:    entry.Group,
			Glyph:    entry.Emoji,
			IconPath: s.IconPath(entry.Emoji),
			Actions:  entry.Clips(),
		})
	}
	if len(entries) > 0 {
		results.All = &Item{
			ID:       Title + "/" + AllText,
			Name:     AllText,
			IconPath: s.IconPath(s.fallbackGlyph),
			Actions:  emoji.Aggregate(entries),
		}
	}

	s.logger.Debug("lookup completed",
		logging.String(logging.FieldQuery, query),
		logging.Int("matches", len(entries)),
		logging.Duration("elapsed", time.Since(start)))
	return results, nil
}

// IconPath returns where glyph's icon lives in the cache. The file may not
// exist yet.
func (s *Service) IconPath(glyph string) string {
	return filepath.Join(s.cacheDir, glyph+".png")
}
