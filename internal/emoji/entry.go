package emoji

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Entry is one emoji record reported by the metadata oracle.
type Entry struct {
	Name     string
	Group    string
	Emoji    string
	CLDRFull string

	// fields holds the full oracle record, including keys beyond the named ones.
	fields map[string]any
}

// NewEntry builds an entry from the four fields used by lookups.
func NewEntry(name, group, glyph, cldrFull string) Entry {
	return Entry{Name: name, Group: group, Emoji: glyph, CLDRFull: cldrFull}
}

// UnmarshalJSON decodes an oracle record, keeping unknown keys for JSON().
func (e *Entry) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("emoji entry: expected JSON object")
	}
	*e = Entry{
		Name:     stringField(raw, "name"),
		Group:    stringField(raw, "group"),
		Emoji:    stringField(raw, "emoji"),
		CLDRFull: stringField(raw, "cldr_full"),
		fields:   raw,
	}
	return nil
}

// MarshalJSON encodes the full record with keys in sorted order.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Fields())
}

// Fields returns a copy of the full record. Entries built with NewEntry
// report only their named fields.
func (e Entry) Fields() map[string]any {
	out := make(map[string]any, len(e.fields)+4)
	for k, v := range e.fields {
		out[k] = v
	}
	setIfMissing(out, "name", e.Name)
	setIfMissing(out, "group", e.Group)
	setIfMissing(out, "emoji", e.Emoji)
	setIfMissing(out, "cldr_full", e.CLDRFull)
	return out
}

// JSON renders the full record indented by four spaces with sorted keys and
// the glyph left as UTF-8.
func (e Entry) JSON() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(e.Fields()); err != nil {
		// Fields only ever holds decoded JSON values and strings.
		return fmt.Sprintf("{%q: %q}", "emoji", e.Emoji)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func setIfMissing(m map[string]any, key, value string) {
	if _, ok := m[key]; ok {
		return
	}
	if value == "" {
		return
	}
	m[key] = value
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
