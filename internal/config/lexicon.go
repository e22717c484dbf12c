package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

// Lexicon maps tone names to trigger words. Unlike a plain map it remembers
// the order tones appeared in the source document, which tone detection
// uses to break ties.
type Lexicon struct {
	tones []string
	words map[string][]string
}

// NewLexicon builds a lexicon from ordered (tone, words) pairs.
func NewLexicon(entries ...LexiconEntry) Lexicon {
	var l Lexicon
	for _, e := range entries {
		l.add(e.Tone, e.Words)
	}
	return l
}

// LexiconEntry is one ordered lexicon row.
type LexiconEntry struct {
	Tone  string
	Words []string
}

func (l *Lexicon) add(tone string, words []string) {
	if l.words == nil {
		l.words = make(map[string][]string)
	}
	if _, dup := l.words[tone]; !dup {
		l.tones = append(l.tones, tone)
	}
	l.words[tone] = words
}

// Tones returns tone names in document order.
func (l Lexicon) Tones() []string { return slices.Clone(l.tones) }

// Words returns the trigger words of tone, or nil.
func (l Lexicon) Words(tone string) []string { return slices.Clone(l.words[tone]) }

// Len returns the number of tones.
func (l Lexicon) Len() int { return len(l.tones) }

// Entries returns the ordered rows.
func (l Lexicon) Entries() []LexiconEntry {
	out := make([]LexiconEntry, 0, len(l.tones))
	for _, tone := range l.tones {
		out = append(out, LexiconEntry{Tone: tone, Words: slices.Clone(l.words[tone])})
	}
	return out
}

// Clone returns a deep copy.
func (l Lexicon) Clone() Lexicon {
	return NewLexicon(l.Entries()...)
}

// UnmarshalJSON decodes an object of tone -> word list, keeping key order.
// A repeated tone keeps its first position and its last word list.
func (l *Lexicon) UnmarshalJSON(data []byte) error {
	*l = Lexicon{}
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("lexicon must map tone names to word lists")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		tone, ok := tok.(string)
		if !ok {
			return fmt.Errorf("lexicon key %v is not a string", tok)
		}
		var words []string
		if err := dec.Decode(&words); err != nil {
			return fmt.Errorf("lexicon tone %q: %w", tone, err)
		}
		l.add(tone, words)
	}
	_, err = dec.Token()
	return err
}

// JSONSchema describes the document shape of a lexicon.
func (Lexicon) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		AdditionalProperties: &jsonschema.Schema{
			Type:  "array",
			Items: &jsonschema.Schema{Type: "string"},
		},
	}
}
