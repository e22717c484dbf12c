package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"promptvault/internal/logging"
)

var (
	// ErrMissingSource is wrapped by ConfigLoadError when a table document does not exist.
	ErrMissingSource = errors.New("configuration source missing")
	// ErrMalformed is wrapped by ConfigLoadError when a document is not a structured mapping.
	ErrMalformed = errors.New("configuration source is not a structured document")
)

// ConfigLoadError reports that one of the two required table documents
// could not be read or parsed. The engine cannot run without them.
type ConfigLoadError struct {
	Path string
	Err  error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// Profile is a named bundle of three tags steering the pipeline.
type Profile struct {
	EmotionalTone   string `json:"emotional_tone"`
	CognitiveState  string `json:"cognitive_state"`
	InteractionMode string `json:"interaction_mode"`
}

// Tag values used when a profile leaves a field blank.
const (
	DefaultEmotionalTone   = "clarity"
	DefaultCognitiveState  = "focus"
	DefaultInteractionMode = "precision"

	// DefaultProfile is the mandatory fallback profile name.
	DefaultProfile = "analytical"
	// NeutralTone is the fallback tone for lexicons and themes.
	NeutralTone = "neutral"
)

// WithDefaults fills blank tags.
func (p Profile) WithDefaults() Profile {
	if p.EmotionalTone == "" {
		p.EmotionalTone = DefaultEmotionalTone
	}
	if p.CognitiveState == "" {
		p.CognitiveState = DefaultCognitiveState
	}
	if p.InteractionMode == "" {
		p.InteractionMode = DefaultInteractionMode
	}
	return p
}

// TechniqueDescriptor is one entry of the stealth_techniques table.
type TechniqueDescriptor struct {
	Name         string  `json:"-"`
	Enabled      bool    `json:"enabled"`
	StealthScore float64 `json:"stealth_score" jsonschema:"minimum=0,maximum=1"`
	Description  string  `json:"description,omitempty"`
}

// PrimaryDocument is the lexicon/template document (config.json).
type PrimaryDocument struct {
	EmotionalLexicon    Lexicon                      `json:"emotional_lexicon,omitempty" jsonschema:"description=Tone name to trigger words; document order breaks ties"`
	StealthLexicon      Lexicon                      `json:"stealth_lexicon,omitempty" jsonschema:"description=Tone name to payload words for lexical density cloaking"`
	SemanticBuffer      []string                     `json:"semantic_buffer,omitempty"`
	FractalStories      map[string]string            `json:"fractal_stories,omitempty" jsonschema:"description=Interaction mode to prefix text"`
	StructuralTemplates map[string]string            `json:"structural_templates,omitempty" jsonschema:"description=Template name to text containing one {content} placeholder"`
	PsychProfiles       map[string]Profile           `json:"psych_profiles,omitempty"`
	EmotionalThemes     map[string]map[string]string `json:"emotional_themes,omitempty"`
}

// TechniquesDocument is the technique table document (techniques.json).
type TechniquesDocument struct {
	StealthTechniques map[string]TechniqueDescriptor `json:"stealth_techniques,omitempty"`
	TechniqueSequence []string                       `json:"technique_sequence,omitempty"`
}

// Store holds the static tables. It is immutable after load: every accessor
// returns a copy, and a missing table reads as an empty one.
type Store struct {
	primary        PrimaryDocument
	techniques     TechniquesDocument
	configPath     string
	techniquesPath string
}

// LoadTables reads both table documents from disk. Any failure is returned
// as a *ConfigLoadError.
func LoadTables(configPath, techniquesPath string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryConfig, "LoadTables")

	s, err := loadTables(configPath, techniquesPath)
	elapsed := timer.Stop()
	if err != nil {
		logging.AuditFor(logging.CategoryConfig).Error("load tables", err)
		return nil, err
	}
	logging.Config("Loaded tables from %s and %s", configPath, techniquesPath)
	logging.Audit().TablesLoaded(configPath, techniquesPath, elapsed)
	return s, nil
}

func loadTables(configPath, techniquesPath string) (*Store, error) {
	primaryData, err := readSource(configPath)
	if err != nil {
		return nil, err
	}
	techniquesData, err := readSource(techniquesPath)
	if err != nil {
		return nil, err
	}
	return parseTables(configPath, primaryData, techniquesPath, techniquesData)
}

// ParseTables builds a Store from in-memory documents.
func ParseTables(primary, techniques []byte) (*Store, error) {
	return parseTables("<config>", primary, "<techniques>", techniques)
}

func parseTables(configPath string, primary []byte, techniquesPath string, techniques []byte) (*Store, error) {
	s := &Store{configPath: configPath, techniquesPath: techniquesPath}
	if err := decodeDocument(configPath, primary, &s.primary); err != nil {
		return nil, err
	}
	if err := decodeDocument(techniquesPath, techniques, &s.techniques); err != nil {
		return nil, err
	}

	for name, d := range s.techniques.StealthTechniques {
		d.Name = name
		s.techniques.StealthTechniques[name] = d
	}

	if _, ok := s.primary.EmotionalThemes[NeutralTone]; !ok && len(s.primary.EmotionalThemes) > 0 {
		logging.ConfigWarn("emotional_themes has no %q entry; theme lookups for unknown tones return nothing", NeutralTone)
	}
	if _, ok := s.primary.PsychProfiles[DefaultProfile]; !ok {
		logging.ConfigDebug("psych_profiles has no %q entry; default tags will be used", DefaultProfile)
	}
	return s, nil
}

func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigLoadError{Path: path, Err: ErrMissingSource}
		}
		return nil, &ConfigLoadError{Path: path, Err: err}
	}
	return data, nil
}

// decodeDocument parses one JSON table document. The top level must be an
// object; duplicate keys resolve to the last value.
func decodeDocument(path string, data []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &ConfigLoadError{Path: path, Err: ErrMalformed}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return &ConfigLoadError{Path: path, Err: err}
	}
	return nil
}

// Paths returns the document paths the store was loaded from.
func (s *Store) Paths() (configPath, techniquesPath string) {
	return s.configPath, s.techniquesPath
}

// EmotionalLexicon returns the tone lexicon used by tone detection.
func (s *Store) EmotionalLexicon() Lexicon { return s.primary.EmotionalLexicon.Clone() }

// StealthLexicon returns the per-tone payload words.
func (s *Store) StealthLexicon() Lexicon { return s.primary.StealthLexicon.Clone() }

// StealthWords returns the payload words for one tone (nil if absent).
func (s *Store) StealthWords(tone string) []string {
	return s.primary.StealthLexicon.Words(tone)
}

// SemanticBuffer returns the filler vocabulary.
func (s *Store) SemanticBuffer() []string {
	return emptyIfNil(slices.Clone(s.primary.SemanticBuffer))
}

// FractalStories returns the prefix table keyed by interaction mode.
func (s *Store) FractalStories() map[string]string {
	return cloneStringMap(s.primary.FractalStories)
}

// FractalStory looks up one prefix.
func (s *Store) FractalStory(mode string) (string, bool) {
	v, ok := s.primary.FractalStories[mode]
	return v, ok
}

// StructuralTemplates returns the wrapping templates keyed by name.
func (s *Store) StructuralTemplates() map[string]string {
	return cloneStringMap(s.primary.StructuralTemplates)
}

// StructuralTemplate looks up one wrapping template.
func (s *Store) StructuralTemplate(name string) (string, bool) {
	v, ok := s.primary.StructuralTemplates[name]
	return v, ok
}

// PsychProfiles returns the named profiles.
func (s *Store) PsychProfiles() map[string]Profile {
	out := maps.Clone(s.primary.PsychProfiles)
	if out == nil {
		out = map[string]Profile{}
	}
	return out
}

// Profile looks up one named profile.
func (s *Store) Profile(name string) (Profile, bool) {
	p, ok := s.primary.PsychProfiles[name]
	return p, ok
}

// EmotionalThemes returns the per-tone display hints.
func (s *Store) EmotionalThemes() map[string]map[string]string {
	out := make(map[string]map[string]string, len(s.primary.EmotionalThemes))
	for tone, hints := range s.primary.EmotionalThemes {
		out[tone] = cloneStringMap(hints)
	}
	return out
}

// Theme returns the display hints for tone, falling back to the neutral
// theme, and to an empty map when neither exists.
func (s *Store) Theme(tone string) map[string]string {
	if hints, ok := s.primary.EmotionalThemes[tone]; ok {
		return cloneStringMap(hints)
	}
	return cloneStringMap(s.primary.EmotionalThemes[NeutralTone])
}

// StealthTechniques returns the technique descriptors keyed by name.
func (s *Store) StealthTechniques() map[string]TechniqueDescriptor {
	out := maps.Clone(s.techniques.StealthTechniques)
	if out == nil {
		out = map[string]TechniqueDescriptor{}
	}
	return out
}

// TechniqueSequence returns the configured application order.
func (s *Store) TechniqueSequence() []string {
	return emptyIfNil(slices.Clone(s.techniques.TechniqueSequence))
}

func cloneStringMap(m map[string]string) map[string]string {
	out := maps.Clone(m)
	if out == nil {
		out = map[string]string{}
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
