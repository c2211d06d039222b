// internal/types/rules.go
package types

/*
 * Domain types for rule definitions.
 *
 * Provides Rule and Condition, the canonical in-memory form of one
 * hookify.*.local.md file. internal/rules builds these from parsed header
 * metadata; the matching engine that evaluates them lives outside this module.
 *
 * Key types:
 *   - Rule: one enforceable policy unit built from exactly one source file
 *   - Condition: single field/operator/pattern predicate
 *
 * Field and Operator are open string sets. Validation against a supported
 * operator vocabulary belongs to the evaluator, not to ingestion.
 */

// Defaults applied by the rule builder when a header omits a field.
const (
	DefaultName     = "unnamed"
	DefaultEvent    = "all"
	DefaultAction   = "warn"
	DefaultOperator = "regex_match"
)

// Well-known event names. Event is free-form; these are the values the
// builder and loader give special meaning to.
const (
	EventAll  = "all"
	EventBash = "bash"
	EventFile = "file"
	EventStop = "stop"
)

// Condition represents a single match predicate.
type Condition struct {
	Field    string `json:"field" yaml:"field"`       // runtime target, e.g. "command", "new_text"
	Operator string `json:"operator" yaml:"operator"` // comparison kind, e.g. "regex_match", "contains"
	Pattern  string `json:"pattern" yaml:"pattern"`   // value compared against Field
}

// Rule represents a complete rule definition loaded from one file.
type Rule struct {
	ID          RuleID      `json:"id,omitempty" yaml:"id,omitempty"`         // derived from Source, empty if built directly
	Source      string      `json:"source,omitempty" yaml:"source,omitempty"` // path the rule was loaded from
	Name        string      `json:"name" yaml:"name"`
	Enabled     bool        `json:"enabled" yaml:"enabled"`
	Event       string      `json:"event" yaml:"event"`
	Pattern     *string     `json:"pattern,omitempty" yaml:"pattern,omitempty"` // legacy single pattern, kept for diagnostics
	Conditions  []Condition `json:"conditions" yaml:"conditions"`               // never nil once built
	Action      string      `json:"action" yaml:"action"`
	ToolMatcher *string     `json:"tool_matcher,omitempty" yaml:"tool_matcher,omitempty"` // nil means event-based default
	Message     string      `json:"message" yaml:"message"`
}

// AppliesTo reports whether the rule should be considered for event.
// An empty event means no filter.
func (r *Rule) AppliesTo(event string) bool {
	return event == "" || r.Event == EventAll || r.Event == event
}

// LegacyField returns the condition field a legacy pattern targets for event.
func LegacyField(event string) string {
	switch event {
	case EventBash:
		return "command"
	case EventFile:
		return "new_text"
	default:
		return "content"
	}
}
