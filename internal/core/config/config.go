// Package config provides configuration management for hookify.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// LoaderConfig holds configuration for rule loading and the snapshot store.
type LoaderConfig struct {
	RulesDir    string // directory holding rule files
	FilePattern string // glob for rule file names within RulesDir
	Strict      bool   // reject unrecognized header lines
	DBURL       string // snapshot store URL (sqlite:// or postgres://), optional
}

// DefaultLoaderConfig returns configuration with default values.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		RulesDir:    ".claude",
		FilePattern: "hookify.*.local.md",
		Strict:      false,
		DBURL:       "",
	}
}

// ValidateFilePattern checks that pattern is a well-formed glob matching
// Markdown file names inside one directory.
func ValidateFilePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("file_pattern must not be empty")
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("file_pattern %q: %w", pattern, err)
	}
	if strings.ContainsRune(pattern, '/') || strings.ContainsRune(pattern, filepath.Separator) {
		return fmt.Errorf("file_pattern %q must not contain a path separator", pattern)
	}
	if !strings.HasSuffix(pattern, ".md") {
		return fmt.Errorf("file_pattern %q must match .md files", pattern)
	}
	return nil
}

// ValidateDBURL checks the snapshot store URL scheme. Empty is allowed.
func ValidateDBURL(dbURL string) error {
	if dbURL == "" {
		return nil
	}
	u, err := url.Parse(dbURL)
	if err != nil {
		return fmt.Errorf("invalid db_url: %w", err)
	}
	switch u.Scheme {
	case "sqlite", "postgres":
		return nil
	default:
		return fmt.Errorf("unsupported db_url scheme: %s (expected sqlite or postgres)", u.Scheme)
	}
}

// hasPassword reports whether dbURL embeds a password.
func hasPassword(dbURL string) bool {
	u, err := url.Parse(dbURL)
	if err != nil || u.User == nil {
		return false
	}
	_, ok := u.User.Password()
	return ok
}
