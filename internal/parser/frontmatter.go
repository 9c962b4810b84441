// Package parser extracts frontmatter fields and body sections from recipe
// Markdown content.
//
// The frontmatter dialect is deliberately not YAML: it understands scalar
// fields (strings, decimal integers) and flat lists of strings, nothing
// more. Malformed lines are skipped, never reported. Both entry points are
// pure functions over the document text and cannot fail.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	listItemRe = regexp.MustCompile(`^\s*-\s+(.*)`)
	fieldRe    = regexp.MustCompile(`^(\w+):\s*(.*)`)
)

// Kind discriminates the shapes a frontmatter value can take.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindList
)

// Value is the tagged union stored for each frontmatter field: a string, an
// integer, or an ordered list of strings. Kind selects which of the other
// fields is meaningful.
type Value struct {
	Kind Kind
	Str  string
	Int  int
	List []string
}

// Scalar returns the value rendered as a string, formatting integers in
// decimal. ok is false for list values.
func (v Value) Scalar() (s string, ok bool) {
	switch v.Kind {
	case KindString:
		return v.Str, true
	case KindInt:
		return strconv.Itoa(v.Int), true
	default:
		return "", false
	}
}

// StringList normalizes the value to a list of strings: a list is returned
// as-is and a scalar becomes a single-element list.
func (v Value) StringList() []string {
	if v.Kind == KindList {
		return v.List
	}
	s, _ := v.Scalar()
	return []string{s}
}

// Frontmatter is an insertion-ordered mapping of field names to values.
// The zero value is an empty mapping. Duplicate keys keep the position of
// their first occurrence while the value of the last occurrence wins.
type Frontmatter struct {
	keys   []string
	values map[string]Value
}

// Get returns the value stored under key.
func (fm Frontmatter) Get(key string) (Value, bool) {
	v, ok := fm.values[key]
	return v, ok
}

// Keys returns the field names in insertion order.
func (fm Frontmatter) Keys() []string {
	return fm.keys
}

// Len returns the number of fields.
func (fm Frontmatter) Len() int {
	return len(fm.keys)
}

// Map returns the fields as a plain map for serialization, or nil when the
// mapping is empty.
func (fm Frontmatter) Map() map[string]any {
	if len(fm.keys) == 0 {
		return nil
	}
	out := make(map[string]any, len(fm.keys))
	for k, v := range fm.values {
		switch v.Kind {
		case KindInt:
			out[k] = v.Int
		case KindList:
			out[k] = v.List
		default:
			out[k] = v.Str
		}
	}
	return out
}

func (fm *Frontmatter) set(key string, v Value) {
	if fm.values == nil {
		fm.values = make(map[string]Value)
	}
	if _, ok := fm.values[key]; !ok {
		fm.keys = append(fm.keys, key)
	}
	fm.values[key] = v
}

// ParseFrontmatter extracts the leading delimited header block from a
// document and parses it into a Frontmatter mapping. Documents without a
// header block yield an empty mapping; the function never fails.
//
// The block is processed line by line with a single cursor tracking the
// most recently opened list field:
//   - "key:" with no value opens list context and initializes the field to
//     an empty list (it stays a list even if no items follow)
//   - "- item" appends to the open list; without an open list the line is
//     an orphan and is dropped
//   - "key: value" closes list context and stores an int when the value is
//     all decimal digits, else a string
//   - blank lines and anything matching no pattern are skipped
func ParseFrontmatter(content string) Frontmatter {
	var fm Frontmatter

	block, ok := headerBlock(content)
	if !ok {
		return fm
	}

	listKey := "" // empty means scalar context
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}

		if m := listItemRe.FindStringSubmatch(line); m != nil {
			if listKey != "" {
				v := fm.values[listKey]
				v.List = append(v.List, strings.TrimSpace(m[1]))
				fm.values[listKey] = v
			}
			continue
		}

		if m := fieldRe.FindStringSubmatch(line); m != nil {
			key, val := m[1], strings.TrimSpace(m[2])
			if val == "" {
				fm.set(key, Value{Kind: KindList, List: []string{}})
				listKey = key
				continue
			}
			listKey = ""
			v := Value{Kind: KindString, Str: val}
			if allDigits(val) {
				// Digit runs too large for int stay strings.
				if n, err := strconv.Atoi(val); err == nil {
					v = Value{Kind: KindInt, Int: n}
				}
			}
			fm.set(key, v)
		}
	}
	return fm
}

// headerBlock returns the text between the opening "---" line and the
// closing "---" delimiter, which ends the block at its first occurrence.
// ok is false when the document does not start with a delimited block.
func headerBlock(content string) (string, bool) {
	const open = "---\n"
	if !strings.HasPrefix(content, open) {
		return "", false
	}
	rest := content[len(open):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// StripFrontmatter returns the document text with the leading header block
// removed, or the text unchanged when no block is present.
func StripFrontmatter(content string) string {
	const open = "---\n"
	if !strings.HasPrefix(content, open) {
		return content
	}
	rest := content[len(open):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return content
	}
	after := rest[end+len("\n---"):]
	// Drop the remainder of the closing delimiter line.
	if i := strings.Index(after, "\n"); i >= 0 {
		return after[i+1:]
	}
	return ""
}

// allDigits reports whether s is non-empty and consists only of the ASCII
// digits 0-9. Values like "1 000" or "-3" are stored as strings.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
