// Package core wires the analyzer, usage tracker and stealth pipeline into a
// single engine that owns the live feature toggles and usage state.
//
// The engine performs no internal locking. Hosts that call it from several
// goroutines must serialize every call.
package core

import (
	"time"

	"promptvault/internal/config"
	"promptvault/internal/logging"
	"promptvault/internal/perception"
	"promptvault/internal/prompt"
	"promptvault/internal/usage"

	"github.com/benbjohnson/clock"
)

// InterventionActivity is the activity label used for intervention checks.
const InterventionActivity = "editing"

// Enhance runs slower than this are logged as warnings.
const slowEnhanceThreshold = 50 * time.Millisecond

// Engine is the entry point for hosts: analyze, enhance, record activity and
// ask whether an intervention is due.
type Engine struct {
	tables   *config.Store
	analyzer *perception.Analyzer
	tracker  *usage.Tracker
	pipeline *prompt.Pipeline
	features config.Features
}

type engineOptions struct {
	features config.Features
	clock    clock.Clock
	sampler  prompt.Sampler
	cooldown time.Duration
}

// Option configures an Engine.
type Option func(*engineOptions)

// WithFeatures sets the initial feature toggles. An engine built without it
// starts with every feature off, so Analyze returns the neutral defaults and
// no intervention is ever armed until a host enables something.
func WithFeatures(f config.Features) Option {
	return func(o *engineOptions) { o.features = f }
}

// WithClock sets the tracker's time source.
func WithClock(c clock.Clock) Option {
	return func(o *engineOptions) { o.clock = c }
}

// WithSampler sets the pipeline's filler sampler.
func WithSampler(s prompt.Sampler) Option {
	return func(o *engineOptions) { o.sampler = s }
}

// WithCooldown overrides the intervention cooldown.
func WithCooldown(d time.Duration) Option {
	return func(o *engineOptions) { o.cooldown = d }
}

// NewEngine builds an engine over already loaded tables.
func NewEngine(tables *config.Store, opts ...Option) *Engine {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}

	var trackerOpts []usage.Option
	if o.clock != nil {
		trackerOpts = append(trackerOpts, usage.WithClock(o.clock))
	}
	if o.cooldown > 0 {
		trackerOpts = append(trackerOpts, usage.WithCooldown(o.cooldown))
	}
	var pipelineOpts []prompt.Option
	if o.sampler != nil {
		pipelineOpts = append(pipelineOpts, prompt.WithSampler(o.sampler))
	}

	return &Engine{
		tables:   tables,
		analyzer: perception.NewAnalyzer(tables.EmotionalLexicon()),
		tracker:  usage.NewTracker(trackerOpts...),
		pipeline: prompt.NewPipeline(tables, pipelineOpts...),
		features: o.features,
	}
}

// Open loads both table documents and builds an engine. A load failure is
// returned as a *config.ConfigLoadError.
func Open(configPath, techniquesPath string, opts ...Option) (*Engine, error) {
	tables, err := config.LoadTables(configPath, techniquesPath)
	if err != nil {
		return nil, err
	}
	return NewEngine(tables, opts...), nil
}

// Tables returns the shared configuration store.
func (e *Engine) Tables() *config.Store { return e.tables }

// Analyze reports the dominant tone and cognitive load of text.
func (e *Engine) Analyze(text string) perception.Analysis {
	return e.analyzer.Analyze(e.features, text)
}

// ToneScores returns the per-tone match counts behind Analyze.
func (e *Engine) ToneScores(text string) []perception.ToneScore {
	return e.analyzer.Scores(e.features, text)
}

// ResolveProfile returns the profile selected for text. Unknown names fall
// back to "analytical", and a missing "analytical" entry to the default tags.
func (e *Engine) ResolveProfile(text string) (string, config.Profile) {
	name := SelectProfile(text)
	if p, ok := e.tables.Profile(name); ok {
		return name, p.WithDefaults()
	}
	logging.PromptDebug("profile %q not configured, using %q", name, config.DefaultProfile)
	if p, ok := e.tables.Profile(config.DefaultProfile); ok {
		return config.DefaultProfile, p.WithDefaults()
	}
	return config.DefaultProfile, config.Profile{}.WithDefaults()
}

// Enhance runs the stealth pipeline with the profile selected for text.
func (e *Engine) Enhance(text string) (string, prompt.Report) {
	timer := logging.StartTimer(logging.CategoryPrompt, "Enhance")
	name, profile := e.ResolveProfile(text)
	out, report := e.pipeline.Apply(text, profile)
	report.ProfileName = name
	elapsed := timer.StopWithThreshold(slowEnhanceThreshold)
	logging.Prompt("Enhanced prompt with profile %s: %d techniques, score %.2f",
		name, len(report.TechniquesApplied), report.StealthScore)
	logging.Audit().Enhanced(name, report.TechniqueNames(), report.StealthScore,
		report.OriginalLength, report.EnhancedLength, elapsed)
	return out, report
}

// RecordActivity forwards a user action to the usage tracker.
func (e *Engine) RecordActivity(action string, meta usage.Metadata) {
	e.tracker.RecordActivity(e.features, action, meta)
}

// ShouldIntervene reports whether an editing intervention is due. A true
// result starts the cooldown.
func (e *Engine) ShouldIntervene() bool {
	return e.tracker.ShouldIntervene(e.features, InterventionActivity)
}

// Insight summarizes recent usage.
func (e *Engine) Insight() usage.Insight { return e.tracker.Insight(e.features) }

// UsageSnapshot returns a copy of the usage counters.
func (e *Engine) UsageSnapshot() usage.Snapshot { return e.tracker.Snapshot() }

// Theme returns the display hints for tone.
func (e *Engine) Theme(tone string) map[string]string { return e.tables.Theme(tone) }

// Features returns the live feature toggles.
func (e *Engine) Features() config.Features { return e.features }

// SetFeatures replaces the feature toggles.
func (e *Engine) SetFeatures(f config.Features) {
	e.features = f
	logging.UsageDebug("features set to %s", f.Status())
}

// SetFeature flips one feature toggle by name.
func (e *Engine) SetFeature(name string, on bool) error {
	return e.features.Set(name, on)
}

// TechniqueEnabled reports whether a pipeline stage is on.
func (e *Engine) TechniqueEnabled(t prompt.Technique) bool { return e.pipeline.Enabled(t) }

// SetTechniqueEnabled flips one pipeline stage.
func (e *Engine) SetTechniqueEnabled(t prompt.Technique, on bool) { e.pipeline.SetEnabled(t, on) }

// Techniques lists the pipeline stages.
func (e *Engine) Techniques() []prompt.TechniqueInfo { return e.pipeline.Techniques() }

// TechniqueStats returns per-technique transform counts.
func (e *Engine) TechniqueStats() map[prompt.Technique]int { return e.pipeline.Stats() }
