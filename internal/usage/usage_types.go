package usage

import "time"

// Action types understood by the tracker. Any other string is still
// recorded as a session event.
const (
	ActionEdit    = "edit"
	ActionSave    = "save"
	ActionEnhance = "enhance"
	ActionOpen    = "open"
)

// MetadataCategory is the metadata key whose value is counted per category.
const MetadataCategory = "category"

// Metadata is optional free-form context for an activity event.
type Metadata map[string]string

// State is the process-lifetime activity record. It is never persisted.
type State struct {
	SessionTimestamps []time.Time    `json:"session_timestamps"`
	EditTimestamps    []time.Time    `json:"edit_timestamps"`
	CategoryCounts    map[string]int `json:"category_counts"`
}

// Snapshot summarizes State for display.
type Snapshot struct {
	Sessions         int            `json:"sessions"`
	Edits            int            `json:"edits"`
	CategoryCounts   map[string]int `json:"category_counts"`
	LastIntervention time.Time      `json:"last_intervention,omitempty"`
}

// InsightKind classifies an Insight.
type InsightKind string

const (
	InsightDisabled       InsightKind = "disabled"
	InsightMomentum       InsightKind = "momentum"
	InsightCategory       InsightKind = "category"
	InsightGettingStarted InsightKind = "getting_started"
)

// Insight is a one-line observation about recent usage.
type Insight struct {
	Kind     InsightKind `json:"kind"`
	Category string      `json:"category,omitempty"`
	Message  string      `json:"message"`
}
