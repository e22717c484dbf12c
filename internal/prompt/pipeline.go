// Package prompt implements the stealth transformation pipeline: an ordered
// set of independently toggleable rewrites that change a prompt's surface
// form while carrying a psychological profile's intent.
package prompt

import (
	"fmt"
	"unicode/utf8"

	"promptvault/internal/config"
	"promptvault/internal/logging"
)

// Tables is the read-only view of the configuration store the pipeline needs.
// *config.Store satisfies it.
type Tables interface {
	StealthWords(tone string) []string
	SemanticBuffer() []string
	FractalStory(mode string) (string, bool)
	StructuralTemplate(name string) (string, bool)
	StealthTechniques() map[string]config.TechniqueDescriptor
	TechniqueSequence() []string
}

// Pipeline applies the configured technique sequence. Per-technique toggles
// start from the techniques document and may be flipped at runtime.
//
// Pipeline is not safe for concurrent use.
type Pipeline struct {
	tables   Tables
	sampler  Sampler
	enabled  [numTechniques]bool
	weights  [numTechniques]float64
	sequence []Technique
	stats    [numTechniques]int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSampler injects the filler sampler (use a seeded or prefix sampler in tests).
func WithSampler(s Sampler) Option {
	return func(p *Pipeline) { p.sampler = s }
}

// NewPipeline builds a pipeline from the technique table and sequence.
// Unknown technique names in either are ignored.
func NewPipeline(tables Tables, opts ...Option) *Pipeline {
	p := &Pipeline{tables: tables}

	for name, d := range tables.StealthTechniques() {
		t, ok := ParseTechnique(name)
		if !ok {
			logging.PromptDebug("ignoring unknown technique descriptor %q", name)
			continue
		}
		p.enabled[t] = d.Enabled
		p.weights[t] = d.StealthScore
	}

	for _, name := range tables.TechniqueSequence() {
		t, ok := ParseTechnique(name)
		if !ok {
			logging.PromptDebug("skipping unknown technique %q in sequence", name)
			continue
		}
		p.sequence = append(p.sequence, t)
	}

	for _, opt := range opts {
		opt(p)
	}
	if p.sampler == nil {
		p.sampler = NewRandomSampler()
	}
	return p
}

// Enabled reports whether t is switched on.
func (p *Pipeline) Enabled(t Technique) bool {
	return t.valid() && p.enabled[t]
}

// SetEnabled switches t on or off.
func (p *Pipeline) SetEnabled(t Technique, on bool) {
	if !t.valid() {
		return
	}
	p.enabled[t] = on
}

// Weight returns t's configured stealth score.
func (p *Pipeline) Weight(t Technique) float64 {
	if !t.valid() {
		return 0
	}
	return p.weights[t]
}

// Sequence returns the resolved application order.
func (p *Pipeline) Sequence() []Technique {
	return append([]Technique(nil), p.sequence...)
}

// Stats returns how many times each technique actually transformed text.
func (p *Pipeline) Stats() map[Technique]int {
	out := make(map[Technique]int, numTechniques)
	for t := Technique(0); t < numTechniques; t++ {
		if p.stats[t] > 0 {
			out[t] = p.stats[t]
		}
	}
	return out
}

// TechniqueInfo describes one technique for listings.
type TechniqueInfo struct {
	Technique Technique `json:"name"`
	Enabled   bool      `json:"enabled"`
	Weight    float64   `json:"stealth_score"`
	Position  int       `json:"position"` // first index in the sequence, -1 if absent
	Applied   int       `json:"applied"`
}

// Techniques lists every technique, sequenced ones first in order.
func (p *Pipeline) Techniques() []TechniqueInfo {
	var out []TechniqueInfo
	seen := make(map[Technique]bool, numTechniques)
	for i, t := range p.sequence {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, p.info(t, i))
	}
	for _, t := range AllTechniques() {
		if !seen[t] {
			out = append(out, p.info(t, -1))
		}
	}
	return out
}

func (p *Pipeline) info(t Technique, pos int) TechniqueInfo {
	return TechniqueInfo{
		Technique: t,
		Enabled:   p.enabled[t],
		Weight:    p.weights[t],
		Position:  pos,
		Applied:   p.stats[t],
	}
}

// Apply runs every sequenced, enabled technique over the running output and
// reports which of them changed the text.
func (p *Pipeline) Apply(text string, profile config.Profile) (string, Report) {
	timer := logging.StartTimer(logging.CategoryPrompt, "Pipeline.Apply")
	defer timer.Stop()

	tags := profile.WithDefaults()
	enhanced := text
	applied := []Technique{}

	for _, t := range p.sequence {
		if !p.enabled[t] {
			continue
		}
		before := enhanced
		enhanced = p.apply(t, enhanced, tags)
		if enhanced != before {
			applied = append(applied, t)
		}
	}

	report := Report{
		OriginalLength:    utf8.RuneCountInString(text),
		EnhancedLength:    utf8.RuneCountInString(enhanced),
		TechniquesApplied: applied,
		StealthScore:      p.StealthScore(applied),
		Profile:           tags,
	}
	logging.PromptDebug("applied %v (score %.2f)", applied, report.StealthScore)
	return enhanced, report
}

// apply dispatches one technique. Every Technique constant must have a case.
func (p *Pipeline) apply(t Technique, text string, tags config.Profile) string {
	switch t {
	case FractalPretexting:
		return p.FractalPretexting(text, tags.InteractionMode)
	case LexicalDensityCloaking:
		return p.LexicalDensityCloaking(text, tags.EmotionalTone)
	case SyntacticPressureGradients:
		return p.SyntacticPressureGradients(text, tags.CognitiveState)
	case ZeroTokenScaffolding:
		return p.ZeroTokenScaffolding(text, ScaffoldTemplate)
	default:
		panic(fmt.Sprintf("prompt: no dispatch for %v", t))
	}
}

// StealthScore averages the weights of the applied techniques, capped to
// [0, 1]. No techniques score 0.
func (p *Pipeline) StealthScore(applied []Technique) float64 {
	if len(applied) == 0 {
		return 0.0
	}
	total := 0.0
	for _, t := range applied {
		total += p.Weight(t)
	}
	score := total / float64(len(applied))
	return min(max(score, 0.0), 1.0)
}
