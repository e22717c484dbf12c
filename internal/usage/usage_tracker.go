package usage

import (
	"fmt"
	"maps"
	"sort"
	"time"

	"promptvault/internal/config"
	"promptvault/internal/logging"

	"github.com/benbjohnson/clock"
)

// Intervention heuristic defaults.
const (
	DefaultCooldown      = 300 * time.Second
	DefaultEditWindow    = 600 * time.Second
	DefaultEditThreshold = 15

	insightWindow   = 24 * time.Hour
	momentumSession = 5
)

// Tracker records activity and decides when an intervention is due.
//
// Tracker is not safe for concurrent use: the host must serialize
// RecordActivity and ShouldIntervene.
type Tracker struct {
	clock            clock.Clock
	state            State
	lastIntervention time.Time

	cooldown      time.Duration
	editWindow    time.Duration
	editThreshold int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source (a clock.Mock in tests).
func WithClock(c clock.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithCooldown overrides the minimum gap between two positive decisions.
func WithCooldown(d time.Duration) Option {
	return func(t *Tracker) { t.cooldown = d }
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		clock:         clock.New(),
		cooldown:      DefaultCooldown,
		editWindow:    DefaultEditWindow,
		editThreshold: DefaultEditThreshold,
		state: State{
			CategoryCounts: make(map[string]int),
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordActivity appends the current instant to the session timestamps for
// every action, and to the edit timestamps for "edit". A "category" entry in
// meta bumps that category's counter. No-op when every feature is off.
func (t *Tracker) RecordActivity(f config.Features, action string, meta Metadata) {
	if !f.Any() {
		return
	}

	now := t.clock.Now()
	t.state.SessionTimestamps = append(t.state.SessionTimestamps, now)

	if action == ActionEdit {
		t.state.EditTimestamps = append(t.state.EditTimestamps, now)
	}

	if category, ok := meta[MetadataCategory]; ok {
		t.state.CategoryCounts[category]++
	}

	logging.UsageDebug("activity %q recorded (sessions=%d edits=%d)", action, len(t.state.SessionTimestamps), len(t.state.EditTimestamps))
}

// ShouldIntervene reports whether the user has been editing rapidly enough to
// suggest a break. A positive answer starts a cooldown during which it always
// returns false. Only the emotional feature arms the edit-rate rule.
func (t *Tracker) ShouldIntervene(f config.Features, activity string) bool {
	if !f.Any() {
		return false
	}

	now := t.clock.Now()
	if !t.lastIntervention.IsZero() && now.Sub(t.lastIntervention) < t.cooldown {
		return false
	}

	recent := t.recentEdits(now)
	if recent > t.editThreshold && f.Emotional {
		t.lastIntervention = now
		logging.Usage("intervention triggered during %q: %d edits in %v", activity, recent, t.editWindow)
		logging.Audit().Intervention(activity, recent)
		return true
	}
	return false
}

func (t *Tracker) recentEdits(now time.Time) int {
	n := 0
	for _, ts := range t.state.EditTimestamps {
		if now.Sub(ts) < t.editWindow {
			n++
		}
	}
	return n
}

// LastIntervention returns the instant of the last positive decision, or the
// zero time.
func (t *Tracker) LastIntervention() time.Time {
	return t.lastIntervention
}

// State returns a copy of the activity record.
func (t *Tracker) State() State {
	return State{
		SessionTimestamps: append([]time.Time(nil), t.state.SessionTimestamps...),
		EditTimestamps:    append([]time.Time(nil), t.state.EditTimestamps...),
		CategoryCounts:    maps.Clone(t.state.CategoryCounts),
	}
}

// Snapshot returns counters for display.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Sessions:         len(t.state.SessionTimestamps),
		Edits:            len(t.state.EditTimestamps),
		CategoryCounts:   maps.Clone(t.state.CategoryCounts),
		LastIntervention: t.lastIntervention,
	}
}

// Insight summarizes recent usage: momentum when more than five sessions were
// recorded in the last 24 hours, otherwise the most used category.
func (t *Tracker) Insight(f config.Features) Insight {
	if !f.Any() {
		return Insight{Kind: InsightDisabled, Message: "Enable features in settings to see insights."}
	}

	now := t.clock.Now()
	recent := 0
	for _, ts := range t.state.SessionTimestamps {
		if now.Sub(ts) < insightWindow {
			recent++
		}
	}
	if recent > momentumSession {
		return Insight{Kind: InsightMomentum, Message: "You're most active today! Great momentum."}
	}

	if top, ok := topCategory(t.state.CategoryCounts); ok {
		return Insight{
			Kind:     InsightCategory,
			Category: top,
			Message:  fmt.Sprintf("You frequently work in '%s' category.", top),
		}
	}
	return Insight{Kind: InsightGettingStarted, Message: "Start creating prompts to see personalized insights."}
}

// topCategory picks the highest count; ties go to the smallest name.
func topCategory(counts map[string]int) (string, bool) {
	if len(counts) == 0 {
		return "", false
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if counts[name] > counts[best] {
			best = name
		}
	}
	return best, true
}
