// internal/rules/build.go
package rules

import (
	"strings"

	"github.com/solatis/hookify/internal/types"
)

/*
 * Rule construction.
 *
 * Builds types.Rule from parsed header metadata and the message body,
 * reconciling the two authoring styles:
 *   - explicit: a "conditions" list of field/operator/pattern mappings
 *   - legacy: a single "pattern" whose target field is implied by "event"
 *
 * Build workflow:
 *   1. Read scalar fields, falling back to defaults for absent or
 *      wrongly-shaped values
 *   2. Take the explicit conditions list verbatim if it yields any condition
 *   3. Otherwise derive one regex_match condition from a non-empty pattern
 *
 * BuildRule never fails. A value of the wrong shape is treated as absent so
 * one sloppy field does not cost the whole rule.
 */

// BuildRule constructs a Rule from header metadata and body text.
func BuildRule(meta types.Metadata, body string) types.Rule {
	rule := types.Rule{
		Name:       stringOr(meta, "name", types.DefaultName),
		Enabled:    boolOr(meta, "enabled", true),
		Event:      stringOr(meta, "event", types.DefaultEvent),
		Action:     stringOr(meta, "action", types.DefaultAction),
		Message:    strings.TrimSpace(body),
		Conditions: []types.Condition{},
	}

	if pattern, ok := meta.String("pattern"); ok {
		rule.Pattern = &pattern
	}
	if matcher, ok := meta.String("tool_matcher"); ok {
		rule.ToolMatcher = &matcher
	}

	if explicit := explicitConditions(meta); len(explicit) > 0 {
		rule.Conditions = explicit
	} else if rule.Pattern != nil && *rule.Pattern != "" {
		rule.Conditions = []types.Condition{{
			Field:    types.LegacyField(rule.Event),
			Operator: types.DefaultOperator,
			Pattern:  *rule.Pattern,
		}}
	}

	return rule
}

// explicitConditions converts the mapping items of the "conditions" list.
// Scalar items carry no field/operator/pattern and are skipped.
func explicitConditions(meta types.Metadata) []types.Condition {
	mappings := meta.Mappings("conditions")
	if len(mappings) == 0 {
		return nil
	}

	conditions := make([]types.Condition, 0, len(mappings))
	for _, m := range mappings {
		conditions = append(conditions, conditionFromMapping(m))
	}
	return conditions
}

// conditionFromMapping builds a Condition; a missing operator means regex_match.
func conditionFromMapping(m map[string]string) types.Condition {
	operator, ok := m["operator"]
	if !ok {
		operator = types.DefaultOperator
	}
	return types.Condition{
		Field:    m["field"],
		Operator: operator,
		Pattern:  m["pattern"],
	}
}

func stringOr(meta types.Metadata, key, fallback string) string {
	if s, ok := meta.String(key); ok {
		return s
	}
	return fallback
}

func boolOr(meta types.Metadata, key string, fallback bool) bool {
	if b, ok := meta.Bool(key); ok {
		return b
	}
	return fallback
}
