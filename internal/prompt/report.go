package prompt

import "promptvault/internal/config"

// Report describes one enhancement. It is built fresh per call and never
// modified afterwards.
type Report struct {
	OriginalLength    int            `json:"original_length"`
	EnhancedLength    int            `json:"enhanced_length"`
	TechniquesApplied []Technique    `json:"techniques_applied"`
	StealthScore      float64        `json:"stealth_score"`
	ProfileName       string         `json:"profile_name,omitempty"`
	Profile           config.Profile `json:"psychological_profile"`
}

// TechniqueNames returns the applied techniques as configuration names.
func (r Report) TechniqueNames() []string {
	out := make([]string, len(r.TechniquesApplied))
	for i, t := range r.TechniquesApplied {
		out[i] = t.String()
	}
	return out
}
