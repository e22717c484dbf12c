package prompt

import (
	"fmt"
	"strings"
)

// Technique identifies one stage of the stealth pipeline.
type Technique int

const (
	FractalPretexting Technique = iota
	LexicalDensityCloaking
	SyntacticPressureGradients
	ZeroTokenScaffolding

	numTechniques
)

var techniqueNames = [numTechniques]string{
	FractalPretexting:          "fractal_pretexting",
	LexicalDensityCloaking:     "lexical_density_cloaking",
	SyntacticPressureGradients: "syntactic_pressure_gradients",
	ZeroTokenScaffolding:       "zero_token_scaffolding",
}

// AllTechniques lists every technique in declaration order.
func AllTechniques() []Technique {
	out := make([]Technique, 0, numTechniques)
	for t := Technique(0); t < numTechniques; t++ {
		out = append(out, t)
	}
	return out
}

// ParseTechnique maps a configuration name to a Technique.
func ParseTechnique(name string) (Technique, bool) {
	for t, n := range techniqueNames {
		if n == name {
			return Technique(t), true
		}
	}
	return 0, false
}

func (t Technique) valid() bool { return t >= 0 && t < numTechniques }

// String returns the configuration name, e.g. "zero_token_scaffolding".
func (t Technique) String() string {
	if !t.valid() {
		return fmt.Sprintf("Technique(%d)", int(t))
	}
	return techniqueNames[t]
}

// DisplayName returns a title-cased label, e.g. "Zero Token Scaffolding".
func (t Technique) DisplayName() string {
	parts := strings.Split(t.String(), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

// MarshalText renders the configuration name so reports serialize as names.
func (t Technique) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("invalid technique %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText parses a configuration name.
func (t *Technique) UnmarshalText(b []byte) error {
	parsed, ok := ParseTechnique(string(b))
	if !ok {
		return fmt.Errorf("unknown technique %q", string(b))
	}
	*t = parsed
	return nil
}
