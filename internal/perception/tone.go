package perception

import (
	"strings"

	"promptvault/internal/config"
)

// ToneScore is one tone's plurality vote.
type ToneScore struct {
	Tone  string `json:"tone"`
	Score int    `json:"score"`
}

// ToneScores counts, for every tone in lexicon order, how many whitespace
// tokens of the lower-cased text are trigger words of that tone.
func ToneScores(lexicon config.Lexicon, text string) []ToneScore {
	counts := make(map[string]int)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		counts[tok]++
	}

	scores := make([]ToneScore, 0, lexicon.Len())
	for _, entry := range lexicon.Entries() {
		sum := 0
		for _, w := range entry.Words {
			sum += counts[w]
		}
		scores = append(scores, ToneScore{Tone: entry.Tone, Score: sum})
	}
	return scores
}

// DominantTone returns the tone with the strictly highest score; earlier
// tones win ties. Returns "neutral" if no tone scored.
func DominantTone(scores []ToneScore) string {
	best := config.NeutralTone
	bestScore := 0
	for _, s := range scores {
		if s.Score > bestScore {
			best = s.Tone
			bestScore = s.Score
		}
	}
	return best
}
