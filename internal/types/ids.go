package types

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ruleNamespace scopes name-based rule IDs so they cannot collide with
// UUIDs derived from the same path strings elsewhere.
var ruleNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hookify:rule"))

// RuleIDFromPath derives a stable UUIDv5 identifier from a rule file path.
// The path is cleaned first so "./a.md" and "a.md" map to the same ID.
// Reloading an unchanged path always yields the same ID.
func RuleIDFromPath(path string) RuleID {
	return RuleID(uuid.NewSHA1(ruleNamespace, []byte(filepath.Clean(path))).String())
}

// NewSnapshotID generates a UUIDv7 snapshot identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewSnapshotID() SnapshotID {
	return SnapshotID(uuid.Must(uuid.NewV7()).String())
}

// ParseRuleID validates and converts a string to RuleID.
func ParseRuleID(s string) (RuleID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return RuleID(s), nil
}

// ParseSnapshotID validates and converts a string to SnapshotID.
func ParseSnapshotID(s string) (SnapshotID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return SnapshotID(s), nil
}

// SnapshotIDTime extracts the timestamp embedded in a UUIDv7 snapshot ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func SnapshotIDTime(id SnapshotID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
