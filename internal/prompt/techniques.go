package prompt

import (
	"regexp"
	"strings"
)

const (
	// cloakMinFillers is the smallest filler sample drawn.
	cloakMinFillers = 5
	// cloakFillerRatio draws one filler per this many input tokens.
	cloakFillerRatio = 4
	// cloakSpliceMinTokens: longer inputs get the cloaked block spliced in at
	// one third, shorter ones get it appended.
	cloakSpliceMinTokens = 10

	// gradientMaxTokens is the longest fragment kept whole in focus mode.
	gradientMaxTokens = 15
	// gradientFocusState is the only cognitive state that reshapes text.
	gradientFocusState = "focus"

	// ScaffoldTemplate is the structural template used by the pipeline
	// regardless of profile.
	ScaffoldTemplate = "formal"
	// contentPlaceholder marks where text goes inside a structural template.
	contentPlaceholder = "{content}"
)

var sentenceTerminators = regexp.MustCompile(`[.!?]+`)

// LexicalDensityCloaking interleaves the payload words of tone with filler
// words sampled from the semantic buffer and splices the block into text.
func (p *Pipeline) LexicalDensityCloaking(text, tone string) string {
	if !p.enabled[LexicalDensityCloaking] {
		return text
	}

	payload := p.tables.StealthWords(tone)
	if len(payload) == 0 {
		return text
	}

	words := strings.Fields(text)
	buffer := p.tables.SemanticBuffer()
	size := min(max(cloakMinFillers, len(words)/cloakFillerRatio), len(buffer))
	fillers := p.sampler.Sample(buffer, size)

	cloaked := make([]string, 0, len(payload)+len(fillers))
	for i, w := range payload {
		if i < len(fillers) {
			cloaked = append(cloaked, fillers[i], w)
		} else {
			cloaked = append(cloaked, w)
		}
	}

	out := make([]string, 0, len(words)+len(cloaked))
	if len(words) > cloakSpliceMinTokens {
		at := len(words) / 3
		out = append(out, words[:at]...)
		out = append(out, cloaked...)
		out = append(out, words[at:]...)
	} else {
		out = append(out, words...)
		out = append(out, cloaked...)
	}

	return p.record(LexicalDensityCloaking, text, strings.Join(out, " "))
}

// FractalPretexting prepends the story configured for mode. The story is
// concatenated verbatim; any separator must be part of the story itself.
func (p *Pipeline) FractalPretexting(text, mode string) string {
	if !p.enabled[FractalPretexting] {
		return text
	}

	story, ok := p.tables.FractalStory(mode)
	if !ok {
		return text
	}

	return p.record(FractalPretexting, text, story+text)
}

// SyntacticPressureGradients splits text on runs of sentence terminators and,
// for the "focus" state, halves every fragment longer than 15 tokens.
//
// Any other state reassembles nothing, so multi-sentence input collapses to a
// lone ".".
func (p *Pipeline) SyntacticPressureGradients(text, state string) string {
	if !p.enabled[SyntacticPressureGradients] {
		return text
	}

	fragments := sentenceTerminators.Split(text, -1)
	if len(fragments) < 2 {
		return text
	}

	var processed []string
	if state == gradientFocusState {
		for _, fragment := range fragments {
			if strings.TrimSpace(fragment) == "" {
				continue
			}
			words := strings.Fields(fragment)
			if len(words) > gradientMaxTokens {
				mid := len(words) / 2
				processed = append(processed,
					strings.Join(words[:mid], " "),
					strings.Join(words[mid:], " "))
			} else {
				processed = append(processed, fragment)
			}
		}
	}

	return p.record(SyntacticPressureGradients, text, strings.Join(processed, ". ")+".")
}

// ZeroTokenScaffolding wraps text in the named structural template.
func (p *Pipeline) ZeroTokenScaffolding(text, template string) string {
	if !p.enabled[ZeroTokenScaffolding] {
		return text
	}

	tmpl, ok := p.tables.StructuralTemplate(template)
	if !ok {
		return text
	}

	return p.record(ZeroTokenScaffolding, text, fillTemplate(tmpl, text))
}

// record counts t as used when it changed the text.
func (p *Pipeline) record(t Technique, in, out string) string {
	if out != in {
		p.stats[t]++
	}
	return out
}

// fillTemplate substitutes content for every {content} placeholder. Doubled
// braces are literal braces; any other brace text is copied as is.
func fillTemplate(tmpl, content string) string {
	var b strings.Builder
	b.Grow(len(tmpl) + len(content))
	for i := 0; i < len(tmpl); {
		switch {
		case strings.HasPrefix(tmpl[i:], "{{"):
			b.WriteByte('{')
			i += 2
		case strings.HasPrefix(tmpl[i:], "}}"):
			b.WriteByte('}')
			i += 2
		case strings.HasPrefix(tmpl[i:], contentPlaceholder):
			b.WriteString(content)
			i += len(contentPlaceholder)
		default:
			b.WriteByte(tmpl[i])
			i++
		}
	}
	return b.String()
}
