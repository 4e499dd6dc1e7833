// Package markdown renders documentation as Markdown for terminal previews.
package markdown

import (
	"fmt"
	"strings"

	"github.com/ImGajeed76/fortdoc/pkg/doc_parser"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/latex"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/markup"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/scanner"
)

// Section is the Markdown of one declaration.
type Section struct {
	// Title is e.g. "Subroutine solve"; empty for type and program units.
	Title string
	// Name is the declared name, or the type name for type units.
	Name string
	Body string
}

// FromUnit renders the whole unit. Options mirror the LaTeX output; the depth
// picks the heading level.
func FromUnit(unit *scanner.Unit, ro latex.RenderOptions) (string, error) {
	sections, err := Sections(unit, ro)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.Body)
	}
	return strings.Join(parts, "\n"), nil
}

// Sections renders each declaration on its own.
func Sections(unit *scanner.Unit, ro latex.RenderOptions) ([]Section, error) {
	if unit.Kind.Implicit() {
		d := unit.Implicit()
		if d == nil {
			return nil, nil
		}
		var b strings.Builder
		if err := writeBlock(&b, unit.Kind, d, ro); err != nil {
			return nil, err
		}
		s := Section{Body: b.String()}
		if unit.Kind == scanner.TypeDefinition && len(d.Variables) > 0 {
			_, s.Name, _ = d.Variables[0].Parts()
			s.Title = "type " + s.Name
		}
		return []Section{s}, nil
	}

	heading := strings.Repeat("#", ro.Depth+1)
	if !latex.ValidDepth(ro.Depth) {
		return nil, fmt.Errorf("unsupported section depth %d", ro.Depth)
	}

	sections := make([]Section, 0, len(unit.Declarations))
	for _, d := range unit.Declarations {
		title := markup.Capitalize(d.Keyword())

		var b strings.Builder
		fmt.Fprintf(&b, "%s %s `%s`\n\n", heading, title, d.Name())
		fmt.Fprintf(&b, "```fortran\n%s\n```\n\n", strings.TrimSpace(d.SignatureText()))
		if err := writeBlock(&b, unit.Kind, d, ro); err != nil {
			return nil, fmt.Errorf("declaration %s (line %d): %w", d.Name(), d.Line, err)
		}

		sections = append(sections, Section{
			Title: title + " " + d.Name(),
			Name:  d.Name(),
			Body:  b.String(),
		})
	}
	return sections, nil
}

func paragraph(text string) (string, error) {
	return markup.Paragraph(text, markup.MarkdownCode, markup.MarkdownBold)
}

func sentence(text string) (string, error) {
	return markup.Sentence(text, markup.MarkdownCode, markup.MarkdownBold)
}

func writeBlock(b *strings.Builder, kind scanner.UnitKind, d *scanner.Declaration, ro latex.RenderOptions) error {
	doc, err := doc_parser.Extract(d.Doc)
	if err != nil {
		return err
	}

	for _, p := range doc.Paragraphs() {
		text, err := paragraph(p)
		if err != nil {
			return err
		}
		b.WriteString(text + "\n\n")
	}

	vars := d.Variables
	title := "Arguments"
	switch {
	case !ro.WriteVars:
		b.WriteString("**Arguments**: Same as generic subroutine.\n\n")
		vars = nil
	case kind == scanner.TypeDefinition:
		title = "Members"
		if len(vars) > 0 {
			typ, names, _ := vars[0].Parts()
			fmt.Fprintf(b, "`%s`: `%s`\n\n", names, typ)
			vars = vars[1:]
		}
	case kind == scanner.Program:
		title = "Variables"
	}

	var items []string
	for _, v := range vars {
		if kind == scanner.Procedures && !ro.AllVars && !v.HasIntent() {
			continue
		}
		item, err := variableItem(v)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	writeList(b, title, items)

	if err := writeEntries(b, "References", doc.References); err != nil {
		return err
	}
	if err := writeEntries(b, "History", doc.History); err != nil {
		return err
	}
	if err := writeBullets(b, "Original author(s)", doc.Authors); err != nil {
		return err
	}
	return writeBullets(b, "Advisor(s)", doc.Advisors)
}

func variableItem(v *scanner.Variable) (string, error) {
	typ, names, def := v.Parts()

	var parts []string
	for _, p := range v.DocParagraphs() {
		text, err := sentence(p)
		if err != nil {
			return "", fmt.Errorf("variable %s: %w", names, err)
		}
		parts = append(parts, text)
	}
	if def != "" {
		parts = append(parts, fmt.Sprintf("Initial value: `%s=%s`.", names, def))
	}

	item := fmt.Sprintf("`%s` (`%s`)", names, typ)
	if len(parts) > 0 {
		item += ": " + strings.Join(parts, " ")
	}
	return item, nil
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", title)
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n")
}

func writeEntries(b *strings.Builder, title string, entries []doc_parser.Entry) error {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		text, err := sentence(e.Text)
		if err != nil {
			return fmt.Errorf("entry %s: %w", e.Key, err)
		}
		items = append(items, fmt.Sprintf("**%s**: %s", e.Key, text))
	}
	writeList(b, title, items)
	return nil
}

func writeBullets(b *strings.Builder, title string, values []string) error {
	items := make([]string, 0, len(values))
	for _, v := range values {
		text, err := sentence(v)
		if err != nil {
			return err
		}
		items = append(items, text)
	}
	writeList(b, title, items)
	return nil
}
