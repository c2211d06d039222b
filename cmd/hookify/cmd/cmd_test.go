package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/hookify/internal/types"
)

// runCLI executes the command tree with an empty config file so the
// per-user config cannot leak into results.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{}\n"), 0o644))

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeRuleFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func rulesFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeRuleFile(t, dir, "hookify.block-rm.local.md", `---
name: block-rm
enabled: true
event: bash
action: block
conditions:
  - field: command
    operator: regex_match
    pattern: rm\s+-rf
---

Recursive deletes are blocked.
`)
	writeRuleFile(t, dir, "hookify.env.local.md", `---
name: warn-env
event: file
pattern: \.env$
---

Editing an env file.
`)
	writeRuleFile(t, dir, "hookify.off.local.md", `---
name: switched-off
enabled: false
event: bash
pattern: sudo
---
`)
	return dir
}

func TestList(t *testing.T) {
	dir := rulesFixture(t)

	stdout, stderr, err := runCLI(t, "--dir", dir, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "block-rm")
	assert.Contains(t, stdout, "warn-env")
	assert.NotContains(t, stdout, "switched-off")
	assert.Empty(t, stderr)
}

func TestList_EventAndAll(t *testing.T) {
	dir := rulesFixture(t)

	stdout, _, err := runCLI(t, "--dir", dir, "list", "--event", "file")
	require.NoError(t, err)
	assert.Contains(t, stdout, "warn-env")
	assert.NotContains(t, stdout, "block-rm")

	stdout, _, err = runCLI(t, "--dir", dir, "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, stdout, "switched-off")
}

func TestList_ReportsSkippedFiles(t *testing.T) {
	dir := rulesFixture(t)
	bad := writeRuleFile(t, dir, "hookify.plain.local.md", "no header\n")

	stdout, stderr, err := runCLI(t, "--dir", dir, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "block-rm")
	assert.Contains(t, stderr, "Warning: "+bad+" missing YAML frontmatter (must start with ---)")
}

func TestList_EmptyDirectory(t *testing.T) {
	stdout, _, err := runCLI(t, "--dir", filepath.Join(t.TempDir(), "absent"), "list")
	require.NoError(t, err)
	assert.Equal(t, "No rules found.\n", stdout)
}

func TestShow_JSON(t *testing.T) {
	dir := rulesFixture(t)
	path := filepath.Join(dir, "hookify.env.local.md")

	stdout, _, err := runCLI(t, "show", path, "--format", "json")
	require.NoError(t, err)

	var rule types.Rule
	require.NoError(t, json.Unmarshal([]byte(stdout), &rule))
	assert.Equal(t, "warn-env", rule.Name)
	assert.Equal(t, path, rule.Source)
	assert.Equal(t, []types.Condition{{Field: "new_text", Operator: "regex_match", Pattern: `\.env$`}}, rule.Conditions)
	assert.Equal(t, "Editing an env file.", rule.Message)
}

func TestShow_Text(t *testing.T) {
	dir := rulesFixture(t)

	stdout, _, err := runCLI(t, "show", filepath.Join(dir, "hookify.block-rm.local.md"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "block-rm")
	assert.Contains(t, stdout, `command regex_match "rm\\s+-rf"`)
	assert.Contains(t, stdout, "Recursive deletes are blocked.")
}

func TestShow_Errors(t *testing.T) {
	_, _, err := runCLI(t, "show", filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)

	dir := rulesFixture(t)
	_, _, err = runCLI(t, "show", filepath.Join(dir, "hookify.env.local.md"), "--format", "xml")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	dir := rulesFixture(t)
	good := filepath.Join(dir, "hookify.env.local.md")
	sloppy := writeRuleFile(t, t.TempDir(), "hookify.sloppy.local.md", "---\nname: sloppy\njunk line\n---\n")

	stdout, _, err := runCLI(t, "check", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok   "+good+" (warn-env, 1 conditions)")

	stdout, _, err = runCLI(t, "check", good, sloppy)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 rule files failed")
	assert.Contains(t, stdout, "FAIL "+sloppy)
	assert.Contains(t, stdout, "unrecognized header line")
}

func TestCheck_WholeDirectory(t *testing.T) {
	dir := rulesFixture(t)

	stdout, _, err := runCLI(t, "--dir", dir, "check")
	require.NoError(t, err)
	assert.Contains(t, stdout, "switched-off")
	assert.Contains(t, stdout, "block-rm")
}

func TestSnapshot_RequiresDBURL(t *testing.T) {
	_, _, err := runCLI(t, "--dir", rulesFixture(t), "snapshot", "record")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--db-url required")
}

func TestSnapshot_RequiresMigrations(t *testing.T) {
	dbURL := "sqlite://" + filepath.Join(t.TempDir(), "hookify.db")

	_, _, err := runCLI(t, "--db-url", dbURL, "--dir", rulesFixture(t), "snapshot", "record")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hookify migrate")
}

func TestSnapshot_Lifecycle(t *testing.T) {
	dir := rulesFixture(t)
	dbURL := "sqlite://" + filepath.Join(t.TempDir(), "hookify.db")

	stdout, _, err := runCLI(t, "--db-url", dbURL, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pending  001_snapshots.sql")

	stdout, _, err = runCLI(t, "--db-url", dbURL, "migrate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "applied  001_snapshots.sql")

	stdout, _, err = runCLI(t, "--db-url", dbURL, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "Database is up to date.\n", stdout)

	stdout, _, err = runCLI(t, "--db-url", dbURL, "--dir", dir, "snapshot", "status")
	require.NoError(t, err)
	assert.Equal(t, "changed\n", stdout)

	stdout, _, err = runCLI(t, "--db-url", dbURL, "--dir", dir, "snapshot", "record")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Recorded snapshot")
	assert.Contains(t, stdout, "(2 rules,")

	stdout, _, err = runCLI(t, "--db-url", dbURL, "--dir", dir, "snapshot", "status")
	require.NoError(t, err)
	assert.Equal(t, "unchanged\n", stdout)

	writeRuleFile(t, dir, "hookify.new.local.md", "---\nname: new\npattern: x\n---\n")
	stdout, _, err = runCLI(t, "--db-url", dbURL, "--dir", dir, "snapshot", "status")
	require.NoError(t, err)
	assert.Equal(t, "changed\n", stdout)

	stdout, _, err = runCLI(t, "--db-url", dbURL, "snapshot", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, dir)
}

func TestRoot_InvalidFlags(t *testing.T) {
	_, _, err := runCLI(t, "--log-level", "loud", "list")
	assert.Error(t, err)

	_, _, err = runCLI(t, "--db-url", "mysql://x/y", "migrate")
	assert.Error(t, err)
}
