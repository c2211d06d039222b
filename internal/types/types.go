// Package types provides domain models shared across hookify components.
//
// Zero-dependency design apart from ids.go, which imports uuid for rule and
// snapshot identifiers. The parser, builder, loader, snapshot store and CLI
// all exchange these types rather than their own copies.
package types

// RuleID identifies a rule by its source path (UUIDv5).
// String alias enables type safety while maintaining JSON string serialization.
type RuleID string

// SnapshotID represents a UUIDv7 snapshot identifier.
// UUIDv7 time-ordering lets snapshots sort by creation without a timestamp column.
type SnapshotID string

// Metadata is the parsed form of a rule file header.
//
// Values are one of:
//   - string: a scalar "key: value" line
//   - bool: a scalar whose value is true/false in any case
//   - []any: a key with an empty value followed by "- item" lines; items are
//     string (bare scalars) or map[string]string (mapping items)
//
// Metadata is an intermediate value consumed once by the rule builder.
type Metadata map[string]any

// String returns the value for key if it is a string.
func (m Metadata) String(key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

// Bool returns the value for key if it is a boolean.
func (m Metadata) Bool(key string) (bool, bool) {
	b, ok := m[key].(bool)
	return b, ok
}

// List returns the value for key if it is a list.
func (m Metadata) List(key string) ([]any, bool) {
	l, ok := m[key].([]any)
	return l, ok
}

// Strings returns the scalar items of the list under key, skipping mapping items.
// Returns nil if key is absent or not a list.
func (m Metadata) Strings(key string) []string {
	list, ok := m.List(key)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Mappings returns the mapping items of the list under key, skipping scalars.
// Returns nil if key is absent or not a list.
func (m Metadata) Mappings(key string) []map[string]string {
	list, ok := m.List(key)
	if !ok {
		return nil
	}
	out := make([]map[string]string, 0, len(list))
	for _, item := range list {
		if mp, ok := item.(map[string]string); ok {
			out = append(out, mp)
		}
	}
	return out
}
