package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"unimoji/internal/emoji"
)

const noMatchesExitCode = 1

// Uni wraps the `uni` command-line emoji database.
type Uni struct {
	binary  string
	tones   string
	genders string
	runner
}

// NewUni constructs a uni client. tones and genders are passed through as
// the -tone and -gender filters.
func NewUni(binary, tones, genders string, opts ...Option) (*Uni, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("uni binary required")
	}
	if strings.TrimSpace(tones) == "" {
		tones = "none"
	}
	if strings.TrimSpace(genders) == "" {
		genders = "all"
	}
	return &Uni{
		binary:  binary,
		tones:   tones,
		genders: genders,
		runner:  newRunner(opts),
	}, nil
}

// BatchArgs returns the argument list for the glyph-only listing.
func (u *Uni) BatchArgs() []string {
	return append(u.baseArgs(), "-format=%(emoji)")
}

// QueryArgs returns the argument list for a full-detail lookup of text.
func (u *Uni) QueryArgs(text string) []string {
	return append(u.baseArgs(), "-format=all", text)
}

func (u *Uni) baseArgs() []string {
	return []string{"emoji", "-tone=" + u.tones, "-gender=" + u.genders, "-as=json"}
}

// BatchGlyphs lists every glyph uni knows, in uni's order with duplicates
// removed. stdin is empty so uni never waits for input.
func (u *Uni) BatchGlyphs(ctx context.Context) ([]string, error) {
	args := u.BatchArgs()
	res, err := u.run(ctx, u.binary, args, []byte{})
	if err != nil {
		return nil, fmt.Errorf("uni batch: %w", err)
	}

	var records []struct {
		Emoji string `json:"emoji"`
	}
	if err := json.Unmarshal(res.Stdout, &records); err != nil {
		return nil, fmt.Errorf("uni batch: %w", u.parseError(args, res, err))
	}

	seen := make(map[string]struct{}, len(records))
	glyphs := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Emoji == "" {
			continue
		}
		if _, ok := seen[rec.Emoji]; ok {
			continue
		}
		seen[rec.Emoji] = struct{}{}
		glyphs = append(glyphs, rec.Emoji)
	}
	return glyphs, nil
}

// Query looks up text and returns the matching entries in uni's order. The
// "no matches" diagnostic yields an empty slice and a nil error.
func (u *Uni) Query(ctx context.Context, text string) ([]emoji.Entry, error) {
	args := u.QueryArgs(text)
	res, err := u.run(ctx, u.binary, args, nil)
	if err != nil {
		if u.isNoMatches(err, res) {
			return []emoji.Entry{}, nil
		}
		return nil, fmt.Errorf("uni query: %w", err)
	}

	if len(bytes.TrimSpace(res.Stdout)) == 0 {
		return nil, fmt.Errorf("uni query: %w", u.parseError(args, res, errors.New("empty output")))
	}
	var entries []emoji.Entry
	if err := json.Unmarshal(res.Stdout, &entries); err != nil {
		return nil, fmt.Errorf("uni query: %w", u.parseError(args, res, err))
	}
	if entries == nil {
		entries = []emoji.Entry{}
	}
	return entries, nil
}

// NoMatchesMessage is the exact diagnostic uni prints when a query matches
// nothing.
func (u *Uni) NoMatchesMessage() string {
	return filepath.Base(u.binary) + ": no matches\n"
}

func (u *Uni) isNoMatches(err error, res Result) bool {
	var oerr *Error
	if !errors.As(err, &oerr) {
		return false
	}
	return oerr.ExitCode == noMatchesExitCode && res.Combined() == u.NoMatchesMessage()
}

func (u *Uni) parseError(args []string, res Result, err error) error {
	return &Error{
		Tool:   u.binary,
		Args:   append([]string(nil), args...),
		Output: res.Combined(),
		Err:    fmt.Errorf("parse output: %w", err),
	}
}
