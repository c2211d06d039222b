package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
)

func TestNewDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	diag := NewDiagnostics(&buf)

	diag.Info().Msg("dropped")
	diag.Warn().Msgf("%s missing YAML frontmatter (must start with ---)", "a.md")
	diag.Error().Msgf("Cannot read %s: %v", "b.md", "permission denied")

	want := "Warning: a.md missing YAML frontmatter (must start with ---)\n" +
		"Error: Cannot read b.md: permission denied\n"
	if buf.String() != want {
		t.Errorf("diagnostics = %q, want %q", buf.String(), want)
	}
}

func TestSetupLogger(t *testing.T) {
	orig := log.Logger
	defer func() { log.Logger = orig }()

	tests := []struct {
		level   string
		format  string
		wantErr bool
	}{
		{"info", "json", false},
		{"DEBUG", "text", false},
		{"warn", "text", false},
		{"loud", "json", true},
		{"info", "xml", true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		err := setupLogger(&buf, tt.level, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("setupLogger(%q, %q) error = %v, wantErr %v", tt.level, tt.format, err, tt.wantErr)
		}
	}
}

func TestSetupLogger_LevelDoesNotSilenceDiagnostics(t *testing.T) {
	orig := log.Logger
	defer func() { log.Logger = orig }()

	var logBuf bytes.Buffer
	if err := setupLogger(&logBuf, "error", "json"); err != nil {
		t.Fatal(err)
	}
	log.Warn().Msg("hidden")
	if logBuf.Len() != 0 {
		t.Errorf("global logger wrote %q at warn with level error", logBuf.String())
	}

	var diagBuf bytes.Buffer
	NewDiagnostics(&diagBuf).Warn().Msg("still shown")
	if diagBuf.String() != "Warning: still shown\n" {
		t.Errorf("diagnostics = %q", diagBuf.String())
	}
}

func TestGetLogger(t *testing.T) {
	orig := log.Logger
	defer func() { log.Logger = orig }()

	var buf bytes.Buffer
	if err := setupLogger(&buf, "debug", "json"); err != nil {
		t.Fatal(err)
	}

	logger := GetLogger("loader")
	done := LogOperationStart(logger, "load rules")
	done()

	out := buf.String()
	if !strings.Contains(out, `"component":"loader"`) {
		t.Errorf("missing component field: %s", out)
	}
	if strings.Count(out, `"operation":"load rules"`) != 2 {
		t.Errorf("want start and completion events: %s", out)
	}
}
