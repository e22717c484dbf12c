// Package perception turns raw editor text into heuristic signals: a tone
// chosen by lexicon plurality vote and a cognitive load estimate.
package perception

import (
	"promptvault/internal/config"
	"promptvault/internal/logging"
)

// Analysis is the read-path result for one text.
type Analysis struct {
	Tone string  `json:"emotional_tone"`
	Load float64 `json:"cognitive_load"`
}

// Analyzer evaluates text against the emotional lexicon. It holds no state
// besides the lexicon and is safe for concurrent use.
type Analyzer struct {
	lexicon config.Lexicon
}

// NewAnalyzer creates an analyzer over the given lexicon.
func NewAnalyzer(lexicon config.Lexicon) *Analyzer {
	return &Analyzer{lexicon: lexicon.Clone()}
}

// DetectTone returns the dominant tone of text, or "neutral" without
// touching the lexicon when the emotional feature is off.
func (a *Analyzer) DetectTone(f config.Features, text string) string {
	if !f.Emotional {
		return config.NeutralTone
	}
	tone := DominantTone(ToneScores(a.lexicon, text))
	logging.PerceptionDebug("tone=%s (%d tones scored)", tone, a.lexicon.Len())
	return tone
}

// DetectLoad returns the cognitive load of text, or 0.5 when the cognitive
// feature is off.
func (a *Analyzer) DetectLoad(f config.Features, text string) float64 {
	if !f.Cognitive {
		return disabledLoad
	}
	return CognitiveLoad(text)
}

// Scores exposes the per-tone votes for display. Empty when the emotional
// feature is off.
func (a *Analyzer) Scores(f config.Features, text string) []ToneScore {
	if !f.Emotional {
		return []ToneScore{}
	}
	return ToneScores(a.lexicon, text)
}

// Analyze runs both detectors.
func (a *Analyzer) Analyze(f config.Features, text string) Analysis {
	return Analysis{
		Tone: a.DetectTone(f, text),
		Load: a.DetectLoad(f, text),
	}
}
