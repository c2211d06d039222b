// Package render formats rules and snapshots for the hookify CLI.
//
// Styled output (lipgloss tables, glamour markdown) is used only when the
// destination is a colour-capable terminal; everything else gets plain text
// so output stays stable when piped.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/solatis/hookify/internal/core/snapshot"
	"github.com/solatis/hookify/internal/types"
)

// Output formats accepted by Rule.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

var (
	labelStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	offStyle    = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

// IsTerminal reports whether w is a colour-capable terminal.
func IsTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.NewOutput(f).Profile != termenv.Ascii
}

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format: %s (expected text, yaml or json)", s)
	}
}

// Markdown renders content with glamour when styled, falling back to the
// raw text if rendering fails.
func Markdown(content string, styled bool) string {
	if !styled {
		return content
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}

// Rule writes a single rule in the given format.
func Rule(w io.Writer, r types.Rule, format string, styled bool) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		_, err := io.WriteString(w, ruleText(r, styled))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func ruleText(r types.Rule, styled bool) string {
	label := func(s string) string {
		if styled {
			return labelStyle.Render(s)
		}
		return s
	}

	var b strings.Builder
	field := func(name, value string) {
		fmt.Fprintf(&b, "%s %s\n", label(fmt.Sprintf("%-12s", name+":")), value)
	}

	field("Name", r.Name)
	if r.Source != "" {
		field("Source", r.Source)
	}
	field("Enabled", strconv.FormatBool(r.Enabled))
	field("Event", r.Event)
	field("Action", r.Action)
	if r.ToolMatcher != nil {
		field("Tool", *r.ToolMatcher)
	}
	if r.Pattern != nil {
		field("Pattern", *r.Pattern)
	}

	b.WriteString(label("Conditions:") + "\n")
	if len(r.Conditions) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, c := range r.Conditions {
		fmt.Fprintf(&b, "  - %s %s %q\n", c.Field, c.Operator, c.Pattern)
	}

	if r.Message != "" {
		b.WriteString(label("Message:") + "\n")
		msg := Markdown(r.Message, styled)
		b.WriteString(msg)
		if !strings.HasSuffix(msg, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RuleList writes a one-row-per-rule table.
func RuleList(w io.Writer, rules []types.Rule, styled bool) error {
	if len(rules) == 0 {
		_, err := io.WriteString(w, "No rules found.\n")
		return err
	}

	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []string{
			r.Name,
			r.Event,
			r.Action,
			strconv.Itoa(len(r.Conditions)),
			strconv.FormatBool(r.Enabled),
			r.Source,
		})
	}
	t := newTable(styled, []string{"NAME", "EVENT", "ACTION", "CONDITIONS", "ENABLED", "SOURCE"}, rows, func(row int) bool {
		return !rules[row].Enabled
	})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Snapshots writes a one-row-per-snapshot table.
func Snapshots(w io.Writer, snaps []snapshot.Snapshot, styled bool) error {
	if len(snaps) == 0 {
		_, err := io.WriteString(w, "No snapshots recorded.\n")
		return err
	}

	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		event := s.EventFilter
		if event == "" {
			event = "-"
		}
		rows = append(rows, []string{
			string(s.ID),
			s.CreatedAt,
			s.RulesDir,
			event,
			strconv.Itoa(s.RuleCount),
			shortHash(s.RulesHash),
		})
	}
	t := newTable(styled, []string{"ID", "CREATED", "DIR", "EVENT", "RULES", "HASH"}, rows, nil)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func newTable(styled bool, headers []string, rows [][]string, dim func(row int) bool) *table.Table {
	t := table.New().Headers(headers...).Rows(rows...)
	if !styled {
		return t.Border(lipgloss.HiddenBorder()).
			BorderHeader(false).
			StyleFunc(func(row, col int) lipgloss.Style { return lipgloss.NewStyle().PaddingRight(2) })
	}
	return t.Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case dim != nil && dim(row):
				return offStyle
			default:
				return cellStyle
			}
		})
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
