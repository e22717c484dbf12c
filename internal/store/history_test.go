package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"promptvault/internal/config"
	"promptvault/internal/prompt"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistory_RecordAndGet(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()

	report := prompt.Report{
		OriginalLength:    4,
		EnhancedLength:    20,
		TechniquesApplied: []prompt.Technique{prompt.ZeroTokenScaffolding},
		StealthScore:      0.6,
		ProfileName:       "analytical",
		Profile:           config.Profile{}.WithDefaults(),
	}

	saved, err := h.Record(ctx, EntryFromReport(report))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := h.Get(ctx, saved.ID)
	require.NoError(t, err)

	want := saved
	want.CreatedAt = time.Unix(0, saved.CreatedAt.UnixNano())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"zero_token_scaffolding"}, got.Techniques)
}

func TestHistory_GetUnknown(t *testing.T) {
	h := openTestHistory(t)
	_, err := h.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistory_RecentNewestFirst(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"analytical", "creative", "tactical"} {
		_, err := h.Record(ctx, Entry{
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			ProfileName: name,
		})
		require.NoError(t, err)
	}

	recent, err := h.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "tactical", recent[0].ProfileName)
	assert.Equal(t, "creative", recent[1].ProfileName)
	assert.Empty(t, recent[0].Techniques)

	all, err := h.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	n, err := h.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestHistory_TechniqueCounts(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()

	_, err := h.Record(ctx, Entry{Techniques: []string{"fractal_pretexting", "zero_token_scaffolding"}})
	require.NoError(t, err)
	_, err = h.Record(ctx, Entry{Techniques: []string{"zero_token_scaffolding"}})
	require.NoError(t, err)

	counts, err := h.TechniqueCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"fractal_pretexting":     1,
		"zero_token_scaffolding": 2,
	}, counts)
}

func TestHistory_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	h, err := Open(path)
	require.NoError(t, err)
	saved, err := h.Record(ctx, Entry{ProfileName: "strategic"})
	require.NoError(t, err)
	require.NoError(t, h.Close())

	h, err = Open(path)
	require.NoError(t, err)
	defer h.Close()

	got, err := h.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "strategic", got.ProfileName)
	assert.Equal(t, path, h.Path())
}
