// Package doc_parser extracts structured metadata from the description
// comments attached to a declaration.
//
// A description is a list of lines. Lines whose first token starts with a
// colon open a tagged section:
//
//	:reference: Smith1999 Numerical recipes, chapter 3.
//	:history: v2.0 rewritten for the new grid.
//	:author: Jane Doe
//	:advisor: John Roe
//
// Any other line is free text and belongs to the currently open section, or
// to the core description when no section is open.
package doc_parser

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

// Known tags.
const (
	TagReference = "reference"
	TagHistory   = "history"
	TagAuthor    = "author"
	TagAdvisor   = "advisor"
)

// ErrMissingDescription is matched by every *MissingDescriptionError.
var ErrMissingDescription = errors.New("missing description")

// MissingDescriptionError reports a tag line that carries no value.
type MissingDescriptionError struct {
	Tag  string
	Line int
}

func (e *MissingDescriptionError) Error() string {
	return fmt.Sprintf("%s was defined but no description was provided (line %d)", e.Tag, e.Line)
}

func (e *MissingDescriptionError) Is(target error) bool {
	return target == ErrMissingDescription
}

// Entry is a keyed reference or history item.
type Entry struct {
	Key  string
	Text string
}

// Doc is the structured form of a description block.
type Doc struct {
	// Core holds the free-text paragraphs in order.
	Core       []string
	References []Entry
	History    []Entry
	Authors    []string
	Advisors   []string
}

// HasCore reports whether any core paragraph carries text.
func (d *Doc) HasCore() bool {
	for _, p := range d.Core {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

// Paragraphs returns the non-empty core paragraphs.
func (d *Doc) Paragraphs() []string {
	out := make([]string, 0, len(d.Core))
	for _, p := range d.Core {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// Empty reports whether the block carried nothing at all.
func (d *Doc) Empty() bool {
	return !d.HasCore() && len(d.References) == 0 && len(d.History) == 0 &&
		len(d.Authors) == 0 && len(d.Advisors) == 0
}

type modeKind int

const (
	modeNone modeKind = iota
	modeReference
	modeHistory
	modeAuthor
	modeAdvisor
)

// mode is the section that continuation lines are appended to. index points
// into the slice owned by that section.
type mode struct {
	kind  modeKind
	index int
}

type extractor struct {
	doc  *Doc
	mode mode
}

// ParseAnnotations splits a docstring into lines and extracts it.
func ParseAnnotations(docstring string) (*Doc, error) {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(docstring))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return Extract(lines)
}

// Extract builds a Doc from description lines. The first tag line without a
// value aborts extraction with a *MissingDescriptionError.
func Extract(lines []string) (*Doc, error) {
	e := &extractor{doc: &Doc{Core: []string{""}}}

	for i, line := range lines {
		words, ok := normalize(line)
		if !ok {
			continue
		}

		if len(words) == 0 {
			if e.mode.kind == modeNone {
				e.paragraphBreak()
			}
			continue
		}

		if strings.HasPrefix(words[0], ":") {
			if err := e.openTag(words, i+1); err != nil {
				return nil, err
			}
			continue
		}

		e.appendText(strings.Join(words, " "))
	}

	if n := len(e.doc.Core); n > 1 && e.doc.Core[n-1] == "" {
		e.doc.Core = e.doc.Core[:n-1]
	}
	return e.doc, nil
}

// normalize splits a line into words and drops comment markers. Plain
// comments report ok=false.
func normalize(line string) (words []string, ok bool) {
	words = strings.Fields(line)
	if len(words) == 0 {
		return words, true
	}

	first := words[0]
	switch {
	case strings.HasPrefix(first, "!!"), strings.HasPrefix(first, "!>"):
		first = first[2:]
	case strings.HasPrefix(first, "!"):
		return nil, false
	default:
		return words, true
	}

	if first == "" {
		return words[1:], true
	}
	words[0] = first
	return words, true
}

// paragraphBreak starts a new core paragraph unless the current one is still
// empty, so a run of blank lines yields a single boundary.
func (e *extractor) paragraphBreak() {
	if e.doc.Core[len(e.doc.Core)-1] != "" {
		e.doc.Core = append(e.doc.Core, "")
	}
}

func (e *extractor) openTag(words []string, line int) error {
	var tag string
	if words[0] == ":" {
		if len(words) < 2 {
			return &MissingDescriptionError{Tag: ":", Line: line}
		}
		tag, words = words[1], words[2:]
	} else {
		tag, words = words[0][1:], words[1:]
	}
	tag = strings.ReplaceAll(tag, ":", "")

	switch tag {
	case TagReference, TagHistory:
		if len(words) > 1 && words[1] == ":" {
			words = append(words[:1], words[2:]...)
		}
		if len(words) < 2 {
			return &MissingDescriptionError{Tag: tag, Line: line}
		}
		key := strings.Trim(words[0], ":")
		entry := Entry{Key: key, Text: strings.Join(words[1:], " ")}
		if tag == TagReference {
			e.mode = mode{kind: modeReference, index: upsert(&e.doc.References, entry)}
		} else {
			e.mode = mode{kind: modeHistory, index: upsert(&e.doc.History, entry)}
		}

	case TagAuthor, TagAdvisor:
		if len(words) > 0 && words[0] == ":" {
			words = words[1:]
		}
		if len(words) == 0 {
			return &MissingDescriptionError{Tag: tag, Line: line}
		}
		value := strings.Join(words, " ")
		if tag == TagAuthor {
			e.doc.Authors = append(e.doc.Authors, value)
			e.mode = mode{kind: modeAuthor, index: len(e.doc.Authors) - 1}
		} else {
			e.doc.Advisors = append(e.doc.Advisors, value)
			e.mode = mode{kind: modeAdvisor, index: len(e.doc.Advisors) - 1}
		}

	default:
		// Unknown tags close the open section and are dropped.
		if len(words) == 0 {
			return &MissingDescriptionError{Tag: tag, Line: line}
		}
		e.mode = mode{kind: modeNone}
	}
	return nil
}

// upsert keeps first-insertion order and overwrites repeated keys in place.
func upsert(entries *[]Entry, entry Entry) int {
	for i := range *entries {
		if (*entries)[i].Key == entry.Key {
			(*entries)[i].Text = entry.Text
			return i
		}
	}
	*entries = append(*entries, entry)
	return len(*entries) - 1
}

func (e *extractor) appendText(text string) {
	switch e.mode.kind {
	case modeReference:
		e.doc.References[e.mode.index].Text += " " + text
	case modeHistory:
		e.doc.History[e.mode.index].Text += " " + text
	case modeAuthor:
		e.doc.Authors[e.mode.index] += " " + text
	case modeAdvisor:
		e.doc.Advisors[e.mode.index] += " " + text
	default:
		last := len(e.doc.Core) - 1
		if e.doc.Core[last] == "" {
			e.doc.Core[last] = text
		} else {
			e.doc.Core[last] += " " + text
		}
	}
}
