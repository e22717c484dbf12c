package config

import (
	"fmt"
	"strings"
)

// Features is the feature toggle set. Each flag gates a whole analyzer
// subsystem; per-technique toggles live on the prompt pipeline.
type Features struct {
	Emotional  bool `yaml:"emotional" json:"emotional"`
	Cognitive  bool `yaml:"cognitive" json:"cognitive"`
	Behavioral bool `yaml:"behavioral" json:"behavioral"`
}

// Feature names accepted by Set and ParseFeatures.
const (
	FeatureEmotional  = "emotional"
	FeatureCognitive  = "cognitive"
	FeatureBehavioral = "behavioral"
)

// Any reports whether at least one feature is enabled.
func (f Features) Any() bool {
	return f.Emotional || f.Cognitive || f.Behavioral
}

// EnabledCount returns how many of the three features are on.
func (f Features) EnabledCount() int {
	n := 0
	for _, on := range []bool{f.Emotional, f.Cognitive, f.Behavioral} {
		if on {
			n++
		}
	}
	return n
}

// Status renders the toggle set the way the status bar shows it.
func (f Features) Status() string {
	n := f.EnabledCount()
	if n == 0 {
		return "OFF"
	}
	return fmt.Sprintf("%d/3 ON", n)
}

// Set flips a single feature by name.
func (f *Features) Set(name string, on bool) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FeatureEmotional:
		f.Emotional = on
	case FeatureCognitive:
		f.Cognitive = on
	case FeatureBehavioral:
		f.Behavioral = on
	default:
		return fmt.Errorf("unknown feature %q (valid: %s, %s, %s)", name, FeatureEmotional, FeatureCognitive, FeatureBehavioral)
	}
	return nil
}

// ParseFeatures parses a comma separated list such as "emotional,cognitive".
// "all" enables everything and "none" (or an empty string) disables everything.
func ParseFeatures(s string) (Features, error) {
	var f Features
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "off":
		return f, nil
	case "all", "on":
		return Features{Emotional: true, Cognitive: true, Behavioral: true}, nil
	}
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if err := f.Set(part, true); err != nil {
			return Features{}, err
		}
	}
	return f, nil
}
