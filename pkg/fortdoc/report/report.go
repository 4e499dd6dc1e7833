// Package report gathers the "!?" review comments of the documented sources
// into a LaTeX chapter.
//
// A comment is filed under every category whose marker it contains:
//
//	!?I  issues
//	!?M  method
//	!?C  code
//
// Comments carrying only the bare "!?" marker are collected but belong to no
// section.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

// Marker introduces a review comment.
const Marker = "!?"

// Category is one section of the report.
type Category struct {
	Marker string
	Title  string
}

// Categories in report order.
var Categories = []Category{
	{Marker: "!?I", Title: "Issues"},
	{Marker: "!?M", Title: "Method"},
	{Marker: "!?C", Title: "Code"},
}

// Comment is one source line carrying a review marker.
type Comment struct {
	File string
	Line int
	Text string
}

// Is reports whether the comment belongs to c.
func (cm Comment) Is(c Category) bool {
	return strings.Contains(cm.Text, c.Marker)
}

// Collect keeps every line of file that contains the marker. Line numbers
// are 1-based.
func Collect(file string, lines []string) []Comment {
	var comments []Comment
	for i, line := range lines {
		if strings.Contains(line, Marker) {
			comments = append(comments, Comment{File: file, Line: i + 1, Text: strings.TrimSpace(line)})
		}
	}
	return comments
}

const reportTemplate = `\chapter{Comments}
All comments marked with \verb|<< .Marker >>| in the documented source files, by category.
<<- range .Sections >>
\section{<< .Marker >> : << .Title >>}
<<- range .Comments >>
\begin{Verbatim}[commandchars=\\\{\},breaklines=true]
	\textcolor{purple}{<< .File >>}:\textcolor{blue}{<< .Line >>}:<< .Text >>
\end{Verbatim}
<<- end >>
<<- end >>
`

var tmpl = template.Must(template.New("report").
	Delims("<<", ">>").
	Parse(reportTemplate))

type section struct {
	Category
	Comments []Comment
}

// Group sorts comments into their categories, keeping the input order in
// each.
func Group(comments []Comment) map[Category][]Comment {
	groups := make(map[Category][]Comment, len(Categories))
	for _, c := range Categories {
		for _, cm := range comments {
			if cm.Is(c) {
				groups[c] = append(groups[c], cm)
			}
		}
	}
	return groups
}

// Write renders the report chapter. Sections without comments still get a
// heading.
func Write(w io.Writer, comments []Comment) error {
	groups := Group(comments)

	data := struct {
		Marker   string
		Sections []section
	}{Marker: Marker}
	for _, c := range Categories {
		data.Sections = append(data.Sections, section{Category: c, Comments: groups[c]})
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("writing comment report: %w", err)
	}
	return nil
}

// String is Write into a string.
func String(comments []Comment) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, comments); err != nil {
		return "", err
	}
	return sb.String(), nil
}
