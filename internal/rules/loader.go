// internal/rules/loader.go
package rules

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/solatis/hookify/internal/types"
	"github.com/spf13/afero"
)

/*
 * Rule file loading.
 *
 * ReadRuleFile turns one file into a Rule or an error. Loader wraps it with
 * the per-file failure policy: every failure is written to the diagnostics
 * logger and the file is dropped, so one bad file never costs the batch.
 *
 * Failure classes and their diagnostics:
 *   - I/O (missing, unreadable, a directory): "Error: Cannot read <path>"
 *   - encoding (not UTF-8): "Error: Invalid encoding in <path>"
 *   - structure (no header): "Warning: <path> missing YAML frontmatter"
 *   - strict-mode parse failure: "Error: Malformed rule file <path>"
 *
 * No caching: Load re-reads the directory on every call. Callers wanting
 * invalidation by mtime layer it on top.
 */

// Default location and naming convention for rule files.
const (
	DefaultRulesDir    = ".claude"
	DefaultFilePattern = "hookify.*.local.md"
)

// LoaderOptions configures where rule files are found and how they parse.
type LoaderOptions struct {
	Dir     string // directory holding rule files
	Pattern string // glob matched against file names inside Dir
	Strict  bool   // reject unrecognized header lines
}

// Loader reads rule files from a directory.
// Holds no mutable state; safe for repeated and concurrent use.
type Loader struct {
	fs   afero.Fs
	opts LoaderOptions
	log  zerolog.Logger
}

// NewLoader creates a loader over fsys. Empty Dir and Pattern take the defaults.
// Diagnostics for skipped files are written to logger.
func NewLoader(fsys afero.Fs, opts LoaderOptions, logger zerolog.Logger) *Loader {
	if opts.Dir == "" {
		opts.Dir = DefaultRulesDir
	}
	if opts.Pattern == "" {
		opts.Pattern = DefaultFilePattern
	}
	return &Loader{
		fs:   fsys,
		opts: opts,
		log:  logger,
	}
}

// Candidates returns the rule file paths in enumeration order.
func (l *Loader) Candidates() ([]string, error) {
	return afero.Glob(l.fs, filepath.Join(l.opts.Dir, l.opts.Pattern))
}

// Load returns the enabled rules that apply to event, in enumeration order.
// An empty event disables filtering. Never fails; skipped files are reported
// through the diagnostics logger.
func (l *Loader) Load(event string) []types.Rule {
	all := l.LoadAll(event)
	rules := all[:0]
	for _, rule := range all {
		if rule.Enabled {
			rules = append(rules, rule)
		}
	}
	return rules
}

// LoadAll is Load without the enabled filter.
func (l *Loader) LoadAll(event string) []types.Rule {
	rules := []types.Rule{}

	paths, err := l.Candidates()
	if err != nil {
		l.log.Warn().Msgf("Failed to list rule files in %s: %v", l.opts.Dir, err)
		return rules
	}

	for _, path := range paths {
		rule, ok := l.LoadFile(path)
		if !ok {
			continue
		}
		if !rule.AppliesTo(event) {
			continue
		}
		rules = append(rules, *rule)
	}

	return rules
}

// LoadFile reads one rule file. Returns false if the file yielded no rule;
// the reason has already been reported.
func (l *Loader) LoadFile(path string) (rule *types.Rule, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Msgf("Unexpected error parsing %s (%T): %v", path, r, r)
			rule, ok = nil, false
		}
	}()

	rule, err := ReadRuleFile(l.fs, path, ParseOptions{Strict: l.opts.Strict})
	if err != nil {
		l.report(path, err)
		return nil, false
	}
	return rule, true
}

// report writes the diagnostic line for a failed file.
func (l *Loader) report(path string, err error) {
	switch {
	case errors.Is(err, types.ErrMissingHeader):
		l.log.Warn().Msgf("%s missing YAML frontmatter (must start with ---)", path)
	case errors.Is(err, types.ErrInvalidEncoding):
		l.log.Error().Msgf("Invalid encoding in %s: %v", path, err)
	case errors.Is(err, types.ErrUnrecognizedLine):
		l.log.Error().Msgf("Malformed rule file %s: %v", path, err)
	default:
		l.log.Error().Msgf("Cannot read %s: %v", path, err)
	}
}

// ReadRuleFile reads and builds the rule in path.
// The file is fully read and closed before parsing starts.
func ReadRuleFile(fsys afero.Fs, path string, opts ParseOptions) (*types.Rule, error) {
	content, err := readAll(fsys, path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%s: %w", path, types.ErrInvalidEncoding)
	}

	rule, err := ParseRule(string(content), opts)
	if err != nil {
		return nil, err
	}

	rule.ID = types.RuleIDFromPath(path)
	rule.Source = path
	return rule, nil
}

// ParseRule builds a rule from document text.
// Returns types.ErrMissingHeader if there is no header or it holds no keys.
func ParseRule(content string, opts ParseOptions) (*types.Rule, error) {
	header, body := SplitHeader(content)
	if header == "" {
		return nil, types.ErrMissingHeader
	}

	meta, err := ParseMetadataWithOptions(header, opts)
	if err != nil {
		return nil, err
	}
	if len(meta) == 0 {
		return nil, types.ErrMissingHeader
	}

	rule := BuildRule(meta, body)
	return &rule, nil
}

// readAll opens, reads and closes path.
func readAll(fsys afero.Fs, path string) ([]byte, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, types.ErrNotRegularFile)
	}

	return io.ReadAll(f)
}
