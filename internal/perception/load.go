package perception

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// minLoadTokens is the token count below which text carries too little signal.
	minLoadTokens = 10
	// shortTextLoad is returned for texts under minLoadTokens.
	shortTextLoad = 0.3
	// disabledLoad is returned when the cognitive feature is off.
	disabledLoad = 0.5

	longWordRunes      = 8
	longWordWeight     = 0.6
	sentenceLenWeight  = 0.4
	sentenceLenDivisor = 20.0
)

// CognitiveLoad estimates text complexity in [0, 1] from the share of long
// words and the average sentence length.
func CognitiveLoad(text string) float64 {
	words := strings.Fields(text)
	if len(words) < minLoadTokens {
		return shortTextLoad
	}

	long := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) > longWordRunes {
			long++
		}
	}

	terminators := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	avgSentence := float64(len(words)) / float64(max(terminators, 1))

	complexity := float64(long)/float64(len(words))*longWordWeight +
		math.Min(avgSentence/sentenceLenDivisor, 1)*sentenceLenWeight
	return math.Min(complexity, 1.0)
}
