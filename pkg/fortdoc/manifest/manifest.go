// Package manifest reads the list of files to document.
//
// The first line is the source root, a local directory or an
// sftp://user@host[:port]/dir URL. Every following row is
//
//	filename output depth is_type write_vars is_prog
//
// separated by whitespace. Rows with a seventh all_var column are accepted
// but deprecated. Lines starting with '#' are comments.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/latex"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/path"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/scanner"
)

const (
	Columns           = 6
	DeprecatedColumns = 7
)

// ErrMalformedRow is matched by every *RowError.
var ErrMalformedRow = errors.New("malformed manifest row")

// RowError describes a skipped row.
type RowError struct {
	Row    int
	Line   string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("manifest row %d: %s: %q", e.Row, e.Reason, e.Line)
}

func (e *RowError) Is(target error) bool {
	return target == ErrMalformedRow
}

// Entry is one file to document.
type Entry struct {
	Row        int
	File       string
	Output     string
	Depth      int
	Kind       scanner.UnitKind
	WriteVars  bool
	AllVars    bool
	Deprecated bool
}

// RenderOptions returns the renderer settings of the entry.
func (e Entry) RenderOptions() latex.RenderOptions {
	return latex.RenderOptions{Depth: e.Depth, WriteVars: e.WriteVars, AllVars: e.AllVars}
}

// Manifest is a parsed manifest file.
type Manifest struct {
	Root    string
	Entries []Entry
	Skipped []*RowError
}

// SourcePath returns the location of an entry's source file.
func (m *Manifest) SourcePath(e Entry) *path.Path {
	return path.New(m.Root).Join(e.File)
}

// Load reads and parses a manifest from a local path or SFTP URL.
func Load(location string) (*Manifest, error) {
	p := path.New(location)
	if p == nil {
		return nil, fmt.Errorf("invalid manifest location %q", location)
	}
	text, err := p.ReadText("utf-8")
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(strings.NewReader(text))
}

// Parse reads a manifest. Malformed rows are logged and collected in
// Skipped; they never abort parsing.
func Parse(r io.Reader) (*Manifest, error) {
	lines, err := scanner.ReadLines(r)
	if err != nil {
		return nil, err
	}

	m := &Manifest{}
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if m.Root == "" {
			m.Root = strings.TrimRight(trimmed, "/")
			if m.Root == "" {
				m.Root = "/"
			}
			continue
		}

		entry, rowErr := parseRow(i+1, trimmed)
		if rowErr != nil {
			log.Warn().Int("row", rowErr.Row).Str("reason", rowErr.Reason).Msg("skipping manifest row")
			m.Skipped = append(m.Skipped, rowErr)
			continue
		}
		if entry.Deprecated {
			log.Warn().Int("row", entry.Row).Str("file", entry.File).
				Msg("7-column manifest rows are deprecated, drop the all_var column or keep it knowingly")
		}
		m.Entries = append(m.Entries, entry)
	}

	if m.Root == "" {
		return nil, errors.New("manifest has no source root")
	}
	return m, nil
}

func parseRow(row int, line string) (Entry, *RowError) {
	fields := strings.Fields(line)
	fail := func(reason string) (Entry, *RowError) {
		return Entry{}, &RowError{Row: row, Line: line, Reason: reason}
	}

	if len(fields) != Columns && len(fields) != DeprecatedColumns {
		return fail(fmt.Sprintf("expected %d columns, got %d", Columns, len(fields)))
	}

	depth, err := strconv.Atoi(fields[2])
	if err != nil || !latex.ValidDepth(depth) {
		return fail(fmt.Sprintf("invalid depth %q", fields[2]))
	}

	flags := make([]bool, 0, 4)
	for _, f := range fields[3:] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return fail(fmt.Sprintf("invalid flag %q", f))
		}
		flags = append(flags, n != 0)
	}

	entry := Entry{
		Row:       row,
		File:      fields[0],
		Output:    fields[1],
		Depth:     depth,
		Kind:      scanner.Procedures,
		WriteVars: flags[1],
	}
	switch {
	case flags[0]:
		entry.Kind = scanner.TypeDefinition
	case flags[2]:
		entry.Kind = scanner.Program
	}
	if len(fields) == DeprecatedColumns {
		entry.AllVars = flags[3]
		entry.Deprecated = true
	}
	return entry, nil
}
