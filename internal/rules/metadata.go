// internal/rules/metadata.go
package rules

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/solatis/hookify/internal/types"
)

/*
 * Metadata header parser.
 *
 * Converts the header block of a rule file into types.Metadata. The dialect
 * is a small subset of YAML: scalar "key: value" pairs, a top-level key with
 * an empty value followed by "- item" lines, and list items that are either
 * scalars, single-line "a: x, b: y" mappings, or multi-line mappings whose
 * extra fields are indented more than two columns.
 *
 * Line classes, checked in order:
 *   1. blank or "#" comment: skipped
 *   2. top-level key (no indent, has ':', not '-'): flushes open list
 *   3. list item ('-' while a list is open): flushes open mapping item
 *   4. continuation (indent > 2, mapping item open, has ':')
 *   5. anything else: ignored (or an error in strict mode)
 *
 * States: topLevel -> inList -> inMappingItem. Each state carries its own
 * accumulation buffers, so a mapping item can never exist without the list
 * it belongs to.
 *
 * Inline mappings split on every comma. A value that itself contains a comma
 * ("pattern: a,b") is cut at the comma and the remainder, lacking a colon, is
 * dropped. Authors needing commas must use the multi-line item form.
 */

// ParseOptions controls metadata parsing.
type ParseOptions struct {
	// Strict rejects lines matching none of the recognized forms instead of
	// skipping them.
	Strict bool
}

// parserState is one of topLevel, inList, inMappingItem.
type parserState interface {
	isParserState()
}

// topLevel: no list is being accumulated.
type topLevel struct{}

// inList: a top-level key with an empty value opened a list.
type inList struct {
	key   string
	items []any
}

// inMappingItem: a "- key: value" item opened a mapping that continuation
// lines may extend.
type inMappingItem struct {
	list inList
	item map[string]string
}

func (topLevel) isParserState()      {}
func (inList) isParserState()        {}
func (inMappingItem) isParserState() {}

// metadataParser runs the line state machine over one header.
type metadataParser struct {
	state parserState
	out   types.Metadata
}

// ParseMetadata parses header text with best-effort semantics.
// Unrecognized lines are skipped silently; the result may be partial or empty.
func ParseMetadata(text string) types.Metadata {
	meta, _ := ParseMetadataWithOptions(text, ParseOptions{})
	return meta
}

// ParseMetadataWithOptions parses header text.
// In strict mode the first unrecognized line returns an error wrapping
// types.ErrUnrecognizedLine together with the metadata parsed so far.
func ParseMetadataWithOptions(text string, opts ParseOptions) (types.Metadata, error) {
	p := &metadataParser{
		state: topLevel{},
		out:   make(types.Metadata),
	}

	for i, line := range strings.Split(text, "\n") {
		if !p.feed(line) && opts.Strict {
			p.flush()
			return p.out, fmt.Errorf("line %d %q: %w", i+1, strings.TrimSpace(line), types.ErrUnrecognizedLine)
		}
	}

	p.flush()
	return p.out, nil
}

// feed classifies one line and advances the state machine.
// Returns false if the line matched no recognized form.
func (p *metadataParser) feed(line string) bool {
	stripped := strings.TrimSpace(line)
	if stripped == "" || strings.HasPrefix(stripped, "#") {
		return true
	}

	indent := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))

	switch {
	case indent == 0 && strings.Contains(line, ":") && !strings.HasPrefix(stripped, "-"):
		p.topLevelKey(line)
		return true

	case strings.HasPrefix(stripped, "-"):
		list, ok := p.openList()
		if !ok {
			return false
		}
		p.listItem(list, strings.TrimSpace(stripped[1:]))
		return true

	case indent > 2 && strings.Contains(line, ":"):
		st, ok := p.state.(inMappingItem)
		if !ok {
			return false
		}
		k, v, _ := strings.Cut(stripped, ":")
		st.item[dequote(k)] = dequote(v)
		return true
	}

	return false
}

// topLevelKey handles a "key: value" line at column zero.
func (p *metadataParser) topLevelKey(line string) {
	p.flush()

	k, v, _ := strings.Cut(line, ":")
	key := dequote(k)
	value := strings.TrimSpace(v)

	if value == "" {
		p.state = inList{key: key, items: []any{}}
		return
	}

	value = dequote(value)
	switch {
	case strings.EqualFold(value, "true"):
		p.out[key] = true
	case strings.EqualFold(value, "false"):
		p.out[key] = false
	default:
		p.out[key] = value
	}
}

// openList returns the list being accumulated, closing any open mapping item
// into it first. Returns false when no list is open.
func (p *metadataParser) openList() (inList, bool) {
	switch st := p.state.(type) {
	case inList:
		return st, true
	case inMappingItem:
		st.list.items = append(st.list.items, st.item)
		return st.list, true
	default:
		return inList{}, false
	}
}

// listItem appends a scalar or inline mapping to list, or opens a multi-line
// mapping item.
func (p *metadataParser) listItem(list inList, text string) {
	hasColon := strings.Contains(text, ":")

	switch {
	case hasColon && strings.Contains(text, ","):
		list.items = append(list.items, parseInlineMapping(text))
		p.state = list

	case hasColon:
		k, v, _ := strings.Cut(text, ":")
		p.state = inMappingItem{
			list: list,
			item: map[string]string{dequote(k): dequote(v)},
		}

	default:
		list.items = append(list.items, dequote(text))
		p.state = list
	}
}

// flush stores any open list under its key and returns to topLevel.
func (p *metadataParser) flush() {
	switch st := p.state.(type) {
	case inList:
		p.out[st.key] = st.items
	case inMappingItem:
		p.out[st.list.key] = append(st.list.items, st.item)
	}
	p.state = topLevel{}
}

// parseInlineMapping parses "a: x, b: y". Pieces without a colon are dropped.
func parseInlineMapping(text string) map[string]string {
	item := make(map[string]string)
	for _, part := range strings.Split(text, ",") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		item[dequote(k)] = dequote(v)
	}
	return item
}

// dequote trims s and strips one enclosing pair of matching quotes.
// Mismatched or one-sided quotes are left alone.
func dequote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
