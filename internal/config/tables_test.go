package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const primaryDoc = `{
  "emotional_lexicon": {
    "frustration": ["stuck", "broken"],
    "joy": ["happy"],
    "calm": ["steady"]
  },
  "stealth_lexicon": {"clarity": ["precise"]},
  "semantic_buffer": ["context", "detail"],
  "fractal_stories": {"precision": "Once. "},
  "structural_templates": {"formal": "Formal request: {content}"},
  "psych_profiles": {
    "analytical": {"emotional_tone": "clarity"}
  },
  "emotional_themes": {
    "neutral": {"label": "Neutral"},
    "joy": {"label": "Joyful", "accent": "#ffc857"}
  }
}`

const techniquesDoc = `{
  "stealth_techniques": {
    "fractal_pretexting": {"enabled": true, "stealth_score": 0.8},
    "zero_token_scaffolding": {"enabled": false, "stealth_score": 0.6}
  },
  "technique_sequence": ["zero_token_scaffolding", "fractal_pretexting"]
}`

func TestParseTables(t *testing.T) {
	s, err := ParseTables([]byte(primaryDoc), []byte(techniquesDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"frustration", "joy", "calm"}, s.EmotionalLexicon().Tones())
	assert.Equal(t, []string{"precise"}, s.StealthWords("clarity"))
	assert.Nil(t, s.StealthWords("urgency"))
	assert.Equal(t, []string{"context", "detail"}, s.SemanticBuffer())

	story, ok := s.FractalStory("precision")
	assert.True(t, ok)
	assert.Equal(t, "Once. ", story)

	tmpl, ok := s.StructuralTemplate("formal")
	assert.True(t, ok)
	assert.Equal(t, "Formal request: {content}", tmpl)

	p, ok := s.Profile("analytical")
	require.True(t, ok)
	assert.Equal(t, Profile{EmotionalTone: "clarity", CognitiveState: "focus", InteractionMode: "precision"}, p.WithDefaults())

	want := map[string]TechniqueDescriptor{
		"fractal_pretexting":     {Name: "fractal_pretexting", Enabled: true, StealthScore: 0.8},
		"zero_token_scaffolding": {Name: "zero_token_scaffolding", Enabled: false, StealthScore: 0.6},
	}
	if diff := cmp.Diff(want, s.StealthTechniques()); diff != "" {
		t.Errorf("StealthTechniques mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"zero_token_scaffolding", "fractal_pretexting"}, s.TechniqueSequence())
}

func TestParseTables_JSONOnlySyntax(t *testing.T) {
	t.Run("surrogate pair escape", func(t *testing.T) {
		s, err := ParseTables([]byte(`{"fractal_stories": {"precision": "\ud83d\ude00 "}}`), []byte(`{}`))
		require.NoError(t, err)
		story, _ := s.FractalStory("precision")
		assert.Equal(t, "\U0001F600 ", story)
	})

	t.Run("escaped solidus", func(t *testing.T) {
		s, err := ParseTables([]byte(`{"structural_templates": {"formal": "a\/b {content}"}}`), []byte(`{}`))
		require.NoError(t, err)
		tmpl, _ := s.StructuralTemplate("formal")
		assert.Equal(t, "a/b {content}", tmpl)
	})

	t.Run("duplicate key takes last value", func(t *testing.T) {
		s, err := ParseTables([]byte(`{"semantic_buffer": ["first"], "semantic_buffer": ["second", "third"]}`), []byte(`{}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"second", "third"}, s.SemanticBuffer())
	})

	t.Run("tab indentation", func(t *testing.T) {
		s, err := ParseTables([]byte("{\n\t\"semantic_buffer\": [\n\t\t\"context\"\n\t]\n}"), []byte(`{}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"context"}, s.SemanticBuffer())
	})
}

func TestTheme_FallsBackToNeutral(t *testing.T) {
	s, err := ParseTables([]byte(primaryDoc), []byte(techniquesDoc))
	require.NoError(t, err)

	assert.Equal(t, "Joyful", s.Theme("joy")["label"])
	assert.Equal(t, "Neutral", s.Theme("envy")["label"])

	bare, err := ParseTables([]byte(`{}`), []byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, bare.Theme("joy"))
}

func TestParseTables_EmptyDocuments(t *testing.T) {
	s, err := ParseTables([]byte(`{}`), []byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, 0, s.EmotionalLexicon().Len())
	assert.Empty(t, s.SemanticBuffer())
	assert.NotNil(t, s.SemanticBuffer())
	assert.Empty(t, s.PsychProfiles())
	assert.Empty(t, s.StealthTechniques())
	assert.Empty(t, s.TechniqueSequence())
	_, ok := s.StructuralTemplate("formal")
	assert.False(t, ok)
}

func TestStore_AccessorsReturnCopies(t *testing.T) {
	s, err := ParseTables([]byte(primaryDoc), []byte(techniquesDoc))
	require.NoError(t, err)

	buf := s.SemanticBuffer()
	buf[0] = "mutated"
	assert.Equal(t, "context", s.SemanticBuffer()[0])

	hints := s.Theme("joy")
	hints["label"] = "mutated"
	assert.Equal(t, "Joyful", s.Theme("joy")["label"])

	seq := s.TechniqueSequence()
	seq[0] = "mutated"
	assert.Equal(t, "zero_token_scaffolding", s.TechniqueSequence()[0])
}

func TestParseTables_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		primary string
	}{
		{"array document", `["joy"]`},
		{"scalar document", `"joy"`},
		{"empty document", ``},
		{"null document", `null`},
		{"yaml document", "semantic_buffer:\n  - context\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTables([]byte(tt.primary), []byte(`{}`))
			require.Error(t, err)

			var loadErr *ConfigLoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, "<config>", loadErr.Path)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}

	_, err := ParseTables([]byte(`{"emotional_lexicon": ["joy"]}`), []byte(`{}`))
	assert.Error(t, err)
}

func TestLoadTables(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	techniquesPath := filepath.Join(dir, "techniques.json")
	require.NoError(t, os.WriteFile(configPath, []byte(primaryDoc), 0644))

	_, err := LoadTables(configPath, techniquesPath)
	var loadErr *ConfigLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, techniquesPath, loadErr.Path)
	assert.ErrorIs(t, err, ErrMissingSource)

	require.NoError(t, os.WriteFile(techniquesPath, []byte(techniquesDoc), 0644))
	s, err := LoadTables(configPath, techniquesPath)
	require.NoError(t, err)

	gotConfig, gotTechniques := s.Paths()
	assert.Equal(t, configPath, gotConfig)
	assert.Equal(t, techniquesPath, gotTechniques)
}

func TestDefaultTables(t *testing.T) {
	s, err := DefaultTables()
	require.NoError(t, err)

	assert.Equal(t, []string{"joy", "frustration", "anxiety", "curiosity", "calm"}, s.EmotionalLexicon().Tones())
	for _, name := range []string{"analytical", "creative", "strategic", "tactical"} {
		_, ok := s.Profile(name)
		assert.True(t, ok, "missing profile %s", name)
	}
	assert.Len(t, s.TechniqueSequence(), 4)
	assert.Contains(t, s.Theme(NeutralTone), "label")
}

func TestSchemaJSON(t *testing.T) {
	for _, name := range []string{"config.json", "techniques.json"} {
		data, err := SchemaJSON(name)
		require.NoError(t, err, name)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc), name)
		assert.Contains(t, doc, "properties")
	}

	data, err := SchemaJSON("config.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "emotional_lexicon")

	_, err = SchemaJSON("vault.yaml")
	assert.Error(t, err)
}
