package perception

import (
	"strings"
	"testing"

	"promptvault/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allOn = config.Features{Emotional: true, Cognitive: true, Behavioral: true}

func testLexicon() config.Lexicon {
	return config.NewLexicon(
		config.LexiconEntry{Tone: "positive", Words: []string{"great", "awesome"}},
		config.LexiconEntry{Tone: "negative", Words: []string{"bad"}},
	)
}

func TestDetectTone(t *testing.T) {
	a := NewAnalyzer(testLexicon())

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plurality", "this is great and awesome", "positive"},
		{"case insensitive", "BAD bad Bad day", "negative"},
		{"no matches", "nothing to see here", "neutral"},
		{"empty", "", "neutral"},
		{"tie goes to first tone", "great but bad", "positive"},
		{"punctuation is part of the token", "great! bad", "negative"},
		{"frequency counts", "great bad bad", "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.DetectTone(allOn, tt.text))
		})
	}
}

func TestDetectTone_TieFollowsDocumentOrder(t *testing.T) {
	lex := config.NewLexicon(
		config.LexiconEntry{Tone: "negative", Words: []string{"bad"}},
		config.LexiconEntry{Tone: "positive", Words: []string{"great"}},
	)
	a := NewAnalyzer(lex)
	assert.Equal(t, "negative", a.DetectTone(allOn, "great bad"))
}

func TestDetectTone_EmotionalOff(t *testing.T) {
	a := NewAnalyzer(testLexicon())
	f := allOn
	f.Emotional = false

	for _, text := range []string{"great awesome great", "bad", ""} {
		assert.Equal(t, "neutral", a.DetectTone(f, text))
	}
	assert.Empty(t, a.Scores(f, "great"))
}

func TestDetectLoad_CognitiveOff(t *testing.T) {
	a := NewAnalyzer(testLexicon())
	f := allOn
	f.Cognitive = false

	assert.Equal(t, 0.5, a.DetectLoad(f, strings.Repeat("internationally ", 40)))
	assert.Equal(t, 0.5, a.DetectLoad(f, ""))
}

func TestDetectLoad_ShortText(t *testing.T) {
	a := NewAnalyzer(testLexicon())

	assert.Equal(t, 0.3, a.DetectLoad(allOn, ""))
	assert.Equal(t, 0.3, a.DetectLoad(allOn, "one two three four five six seven eight nine"))
	assert.Equal(t, 0.3, a.DetectLoad(allOn, "extraordinarily complicated"))
}

func TestDetectLoad_FixedSentences(t *testing.T) {
	a := NewAnalyzer(testLexicon())

	// 20 tokens, ten longer than 8 runes, one terminator:
	// 0.6*0.5 + 0.4*min(20/20, 1) = 0.7
	mixed := "extraordinary the consideration of fundamental we architecture and " +
		"implementation a significant is performance to understanding it " +
		"development in complicated end."
	require.Len(t, strings.Fields(mixed), 20)
	assert.InDelta(t, 0.7, a.DetectLoad(allOn, mixed), 1e-9)

	// 20 fifteen-character words, one terminator: every word is long.
	long := strings.TrimSpace(strings.Repeat("internationally ", 20)) + "."
	assert.InDelta(t, 1.0, a.DetectLoad(allOn, long), 1e-9)

	// 10 short tokens, four terminators: avg sentence 2.5 -> 0.4*0.125 = 0.05
	choppy := "go. stop. go. stop. go now then wait here ok"
	assert.InDelta(t, 0.05, a.DetectLoad(allOn, choppy), 1e-9)
}

func TestDetectLoad_AlwaysInUnitInterval(t *testing.T) {
	a := NewAnalyzer(testLexicon())
	inputs := []string{
		strings.Repeat("supercalifragilistic ", 200),
		strings.Repeat("a ", 500),
		strings.Repeat("!!! ??? ... ", 50),
		strings.Repeat("élémentaire ünïcödé ", 30),
	}
	for _, in := range inputs {
		got := a.DetectLoad(allOn, in)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer(testLexicon())
	got := a.Analyze(allOn, "this is great and awesome")
	assert.Equal(t, Analysis{Tone: "positive", Load: 0.3}, got)

	got = a.Analyze(config.Features{}, "this is great and awesome")
	assert.Equal(t, Analysis{Tone: "neutral", Load: 0.5}, got)
}

func TestToneScores_DuplicateTriggerWordsCountTwice(t *testing.T) {
	lex := config.NewLexicon(config.LexiconEntry{Tone: "joy", Words: []string{"yay", "yay"}})
	scores := ToneScores(lex, "yay")
	require.Len(t, scores, 1)
	assert.Equal(t, 2, scores[0].Score)
}
