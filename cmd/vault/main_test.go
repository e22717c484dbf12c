package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"promptvault/internal/config"
	"promptvault/internal/core"
	"promptvault/internal/prompt"
	"promptvault/internal/store"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupWorkspace resets global flags and points the CLI at a fresh,
// initialized workspace.
func setupWorkspace(t *testing.T, initialize bool) string {
	t.Helper()
	logger = zap.NewNop()
	lipgloss.SetColorProfile(termenv.Ascii)

	workspace = t.TempDir()
	featuresFlag = ""
	timeout = 30 * time.Second
	initForce = false
	analyzeJSON, analyzeScores, analyzeParallel = false, false, 4
	enhanceSeed, enhanceNoHistory, enhanceJSON = 0, false, false
	enhanceDisable, enhanceCategory = nil, ""
	techniquesJSON = false
	themeAll, themeText = false, ""
	historyLimit, historyJSON, historyStats = store.DefaultRecentLimit, false, false

	if initialize {
		_, err := config.WriteDefaults(workspace, false)
		require.NoError(t, err)
	}
	return workspace
}

func run(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	err := fn(cmd, args)
	return buf.String(), err
}

func TestJoinArgs(t *testing.T) {
	assert.Equal(t, "one two three", joinArgs([]string{"one", "two", "three"}))
}

func TestRunInit(t *testing.T) {
	ws := setupWorkspace(t, false)

	out, err := run(t, runInit)
	require.NoError(t, err)
	assert.Contains(t, out, "vault.yaml")
	assert.FileExists(t, filepath.Join(ws, config.DirName, "config.json"))
	assert.FileExists(t, filepath.Join(ws, config.DirName, "techniques.json"))

	out, err = run(t, runInit)
	require.NoError(t, err)
	assert.Contains(t, out, "Already initialized")
}

func TestRunAnalyze(t *testing.T) {
	ws := setupWorkspace(t, true)
	draft := filepath.Join(ws, "draft.txt")
	require.NoError(t, os.WriteFile(draft, []byte("stuck again, this is broken and useless"), 0644))

	out, err := run(t, runAnalyze, draft, "I love this, what a wonderful great day")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "frustration")
	assert.Contains(t, lines[2], "joy")
}

func TestRunAnalyze_FeaturesNone(t *testing.T) {
	setupWorkspace(t, true)
	featuresFlag = "none"
	analyzeJSON = true

	out, err := run(t, runAnalyze, "I love this")
	require.NoError(t, err)

	var r analyzeResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "neutral", r.Tone)
	assert.Equal(t, 0.5, r.Load)
	assert.Equal(t, "text", r.Source)
}

func TestRunAnalyze_BadFeatures(t *testing.T) {
	setupWorkspace(t, true)
	featuresFlag = "telepathy"

	_, err := run(t, runAnalyze, "text")
	assert.Error(t, err)
}

func TestRunEnhance_JSONAndHistory(t *testing.T) {
	ws := setupWorkspace(t, true)
	enhanceSeed = 7
	enhanceJSON = true

	out, err := run(t, runEnhance, "Summarize", "the", "quarterly", "results.")
	require.NoError(t, err)

	var got enhanceOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "analytical", got.Report.ProfileName)
	assert.True(t, strings.HasPrefix(got.Enhanced, "## Request"))
	assert.Contains(t, got.Report.TechniquesApplied, prompt.ZeroTokenScaffolding)

	h, err := store.Open(config.ResolvePath(ws, config.DefaultConfig().History.DatabasePath))
	require.NoError(t, err)
	defer h.Close()
	entry, err := h.Get(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Report.StealthScore, entry.StealthScore)
}

func TestRunEnhance_SeedIsReproducible(t *testing.T) {
	setupWorkspace(t, true)
	enhanceSeed = 42
	enhanceJSON = true
	enhanceNoHistory = true

	first, err := run(t, runEnhance, "plan the launch for next quarter")
	require.NoError(t, err)
	second, err := run(t, runEnhance, "plan the launch for next quarter")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotContains(t, first, `"id"`)
}

func TestRunEnhance_Disable(t *testing.T) {
	setupWorkspace(t, true)
	enhanceNoHistory = true
	enhanceDisable = []string{"fractal_pretexting", "lexical_density_cloaking", "syntactic_pressure_gradients", "zero_token_scaffolding"}

	out, err := run(t, runEnhance, "leave", "me", "alone")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "leave me alone\n"))
	assert.Contains(t, out, "none")

	enhanceDisable = []string{"mystery"}
	_, err = run(t, runEnhance, "x")
	assert.ErrorContains(t, err, "unknown technique")
}

func TestRunEnhance_NotInitialized(t *testing.T) {
	setupWorkspace(t, false)

	_, err := run(t, runEnhance, "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault init")
	assert.ErrorIs(t, err, config.ErrMissingSource)
}

func TestRunTechniques(t *testing.T) {
	setupWorkspace(t, true)

	out, err := run(t, runTechniques)
	require.NoError(t, err)
	assert.Contains(t, out, "Fractal Pretexting")
	assert.Contains(t, out, "Zero Token Scaffolding")
	assert.Contains(t, out, "0.90")
}

func TestRunTheme(t *testing.T) {
	setupWorkspace(t, true)

	out, err := run(t, runTheme, "joy")
	require.NoError(t, err)
	assert.Contains(t, out, "Joyful")

	out, err = run(t, runTheme, "unknown")
	require.NoError(t, err)
	assert.Contains(t, out, "Neutral")

	themeText = "so worried about the deadline"
	out, err = run(t, runTheme)
	require.NoError(t, err)
	assert.Contains(t, out, "Anxious")
}

func TestRunSchema(t *testing.T) {
	setupWorkspace(t, false)

	out, err := run(t, runSchema, "techniques.json")
	require.NoError(t, err)
	assert.Contains(t, out, "technique_sequence")
	assert.NotContains(t, out, "emotional_lexicon")
}

func TestRunHistory_Empty(t *testing.T) {
	setupWorkspace(t, true)

	out, err := run(t, runHistory)
	require.NoError(t, err)
	assert.Contains(t, out, "No enhancements journaled yet.")
}

func TestRunHistory_Stats(t *testing.T) {
	setupWorkspace(t, true)
	enhanceSeed = 3
	_, err := run(t, runEnhance, "brainstorm. an idea.")
	require.NoError(t, err)

	historyStats = true
	out, err := run(t, runHistory)
	require.NoError(t, err)
	assert.Contains(t, out, "1 enhancements journaled")
	assert.Contains(t, out, "zero_token_scaffolding")
}

func TestRunStatus(t *testing.T) {
	setupWorkspace(t, true)
	featuresFlag = "emotional"

	out, err := run(t, runStatus)
	require.NoError(t, err)
	assert.Contains(t, out, "1/3 ON")
	assert.Contains(t, out, "4/4 enabled")
}

func TestEditReporter_SuggestsBreak(t *testing.T) {
	setupWorkspace(t, false)
	tables, err := config.DefaultTables()
	require.NoError(t, err)

	mock := clock.NewMock()
	engine := core.NewEngine(tables, core.WithClock(mock), core.WithFeatures(config.Features{Emotional: true}))
	var buf bytes.Buffer
	r := &editReporter{engine: engine, out: &buf, category: "drafts"}

	for i := 0; i < 16; i++ {
		r.handle(context.Background(), "draft.txt", []byte("so happy with this"))
		mock.Add(time.Second)
	}

	assert.Equal(t, 1, strings.Count(buf.String(), "Consider taking a short break"))
	assert.Contains(t, buf.String(), "tone=joy")
	assert.Equal(t, 16, engine.UsageSnapshot().Edits)

	buf.Reset()
	printUsageSummary(&buf, engine)
	assert.Contains(t, buf.String(), "You're most active today!")
}
