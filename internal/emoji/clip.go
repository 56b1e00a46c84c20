package emoji

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Labels of the per-entry copy actions, in display order.
const (
	ClipEmoji    = "Copy Emoji"
	ClipKeywords = "Copy Keywords"
	ClipUTF8     = "Copy UTF-8 bytes"
	ClipAll      = "Copy All"
)

// ClipLabels lists the copy actions in display order.
var ClipLabels = []string{ClipEmoji, ClipKeywords, ClipUTF8, ClipAll}

// Clip is a labelled clipboard string.
type Clip struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Clips returns the four copy actions for the entry.
func (e Entry) Clips() []Clip {
	return []Clip{
		{Label: ClipEmoji, Text: e.Emoji},
		{Label: ClipKeywords, Text: e.CLDRFull},
		{Label: ClipUTF8, Text: UTF8Hex(e.Emoji)},
		{Label: ClipAll, Text: e.JSON()},
	}
}

// Aggregate concatenates every entry's clips per label, preserving entry
// order: one glyph per line for Copy Emoji, "<glyph> <value>" per line for
// the rest. It returns nil for an empty list.
func Aggregate(entries []Entry) []Clip {
	if len(entries) == 0 {
		return nil
	}
	builders := make([]strings.Builder, len(ClipLabels))
	for _, entry := range entries {
		for i, clip := range entry.Clips() {
			if clip.Label == ClipEmoji {
				builders[i].WriteString(entry.Emoji)
			} else {
				builders[i].WriteString(entry.Emoji)
				builders[i].WriteByte(' ')
				builders[i].WriteString(clip.Text)
			}
			builders[i].WriteByte('\n')
		}
	}
	out := make([]Clip, len(ClipLabels))
	for i, label := range ClipLabels {
		out[i] = Clip{Label: label, Text: builders[i].String()}
	}
	return out
}

// UTF8Hex renders the UTF-8 bytes of s as lowercase hex pairs separated by
// single spaces, e.g. "f0 9f 98 80".
func UTF8Hex(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(hex.EncodeToString([]byte{s[i]}))
	}
	return b.String()
}

// DecodeUTF8Hex reverses UTF8Hex. Each whitespace-separated token must be a
// single byte and the result must be valid UTF-8.
func DecodeUTF8Hex(s string) (string, error) {
	tokens := strings.Fields(s)
	buf := make([]byte, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) != 2 {
			return "", fmt.Errorf("decode utf-8 hex: token %q is not one byte", tok)
		}
		decoded, err := hex.DecodeString(tok)
		if err != nil {
			return "", fmt.Errorf("decode utf-8 hex: %w", err)
		}
		buf = append(buf, decoded...)
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("decode utf-8 hex: %q is not valid UTF-8", s)
	}
	return string(buf), nil
}
