package core

import (
	"strings"

	"promptvault/internal/config"
)

// profileKeywords is checked in order; the first profile with any keyword
// present as a substring of the lower-cased text wins.
var profileKeywords = []struct {
	profile  string
	keywords []string
}{
	{"creative", []string{"creative", "idea", "brainstorm", "innovate"}},
	{"strategic", []string{"strategy", "plan", "roadmap", "strategic"}},
	{"tactical", []string{"urgent", "immediate", "action", "tactical"}},
}

// SelectProfile picks a profile name from content keywords, defaulting to
// "analytical". Matching is by substring, so "planet" selects "strategic".
func SelectProfile(text string) string {
	lower := strings.ToLower(text)
	for _, pk := range profileKeywords {
		for _, kw := range pk.keywords {
			if strings.Contains(lower, kw) {
				return pk.profile
			}
		}
	}
	return config.DefaultProfile
}
