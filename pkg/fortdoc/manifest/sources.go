package manifest

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/path"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/scanner"
)

// SourceSuffixes are the extensions treated as Fortran sources, compared in
// lower case.
var SourceSuffixes = []string{"f", "for", "ftn", "f77", "f90", "f95", "f03", "f08"}

// IsSource reports whether p looks like a Fortran source file.
func IsSource(p *path.Path) bool {
	return slices.Contains(SourceSuffixes, strings.ToLower(p.Suffix()))
}

// String formats the entry as a canonical 6-column row. The deprecated
// all_var column is never written.
func (e Entry) String() string {
	return fmt.Sprintf("%s %s %d %d %d %d", e.File, e.Output, e.Depth,
		flag(e.Kind == scanner.TypeDefinition), flag(e.WriteVars), flag(e.Kind == scanner.Program))
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Unlisted walks the source root and returns a default entry for every
// Fortran source no row documents, sorted by file.
func (m *Manifest) Unlisted() ([]Entry, error) {
	root := path.New(m.Root)
	if root == nil || !root.IsDir() {
		return nil, fmt.Errorf("source root %s is not a directory", m.Root)
	}

	files, err := root.List(true)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", m.Root, err)
	}

	base := root.String()
	if !root.IsSftp() {
		if base, err = filepath.Abs(base); err != nil {
			return nil, err
		}
		base = filepath.ToSlash(base)
	}

	listed := make(map[string]bool, len(m.Entries))
	for _, e := range m.Entries {
		listed[strings.TrimPrefix(e.File, "./")] = true
	}

	var unlisted []Entry
	for _, f := range files {
		if !IsSource(f) {
			continue
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(f.String(), base), "/")
		if listed[rel] {
			continue
		}

		output := f.Stem() + ".tex"
		if i := strings.LastIndex(rel, "/"); i >= 0 {
			output = rel[:i+1] + output
		}
		unlisted = append(unlisted, Entry{
			File:      rel,
			Output:    output,
			Depth:     1,
			Kind:      scanner.Procedures,
			WriteVars: true,
		})
	}

	sort.Slice(unlisted, func(i, j int) bool { return unlisted[i].File < unlisted[j].File })
	return unlisted, nil
}
