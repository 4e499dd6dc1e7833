// Package latex renders scanned units as LaTeX sections.
//
// The output relies on macros provided by the including document: \ifo for
// inline Fortran, \code for code spans and the minted package with a codebg
// colour for signatures.
package latex

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/ImGajeed76/fortdoc/pkg/doc_parser"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/markup"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/scanner"
)

const (
	Header               = "%!TEX encoding = UTF-8 Unicode"
	DefaultMintedOptions = "bgcolor=codebg,linenos=false"
)

var sectionCommands = map[int]string{
	1: "subsection",
	2: "subsubsection",
}

// ValidDepth reports whether depth maps to a sectioning command.
func ValidDepth(depth int) bool {
	_, ok := sectionCommands[depth]
	return ok
}

// Options configure a Renderer.
type Options struct {
	MintedOptions string
}

// RenderOptions are the per-file settings taken from a manifest row.
type RenderOptions struct {
	Depth int
	// WriteVars lists argument documentation. When false the arguments are
	// referred to the generic interface.
	WriteVars bool
	// AllVars documents every variable of a procedure, not only the ones
	// with an intent attribute.
	AllVars bool
}

// Renderer turns units into LaTeX. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
	opts Options
}

// NewRenderer parses the templates.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.MintedOptions == "" {
		opts.MintedOptions = DefaultMintedOptions
	}

	tmpl, err := template.New("unit").
		Delims("<<", ">>").
		Funcs(sprig.TxtFuncMap()).
		Parse(unitTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing unit template: %w", err)
	}
	if _, err := tmpl.Parse(blockTemplate); err != nil {
		return nil, fmt.Errorf("parsing block template: %w", err)
	}

	return &Renderer{tmpl: tmpl, opts: opts}, nil
}

type page struct {
	MintedOptions string
	Sections      []section
}

type section struct {
	Command   string
	Title     string
	Name      string
	Signature string
	Block     block
}

type block struct {
	Core          []string
	Header        *item
	Open          bool
	ListTitle     string
	SameAsGeneric bool
	Items         []item
	References    []item
	History       []item
	Authors       []string
	Advisors      []string
}

type item struct {
	Label string
	Decl  string
	Text  string
}

// Render writes the LaTeX for unit to w.
func (r *Renderer) Render(w io.Writer, unit *scanner.Unit, ro RenderOptions) error {
	p, err := r.page(unit, ro)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, p); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// RenderString is Render into a string.
func (r *Renderer) RenderString(unit *scanner.Unit, ro RenderOptions) (string, error) {
	var sb strings.Builder
	if err := r.Render(&sb, unit, ro); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *Renderer) page(unit *scanner.Unit, ro RenderOptions) (*page, error) {
	p := &page{MintedOptions: r.opts.MintedOptions}

	if unit.Kind.Implicit() {
		d := unit.Implicit()
		if d == nil {
			return p, nil
		}
		b, err := buildBlock(unit.Kind, d, ro)
		if err != nil {
			return nil, err
		}
		p.Sections = append(p.Sections, section{Block: b})
		return p, nil
	}

	command, ok := sectionCommands[ro.Depth]
	if !ok {
		return nil, fmt.Errorf("unsupported section depth %d", ro.Depth)
	}

	for _, d := range unit.Declarations {
		b, err := buildBlock(unit.Kind, d, ro)
		if err != nil {
			return nil, fmt.Errorf("declaration %s (line %d): %w", d.Name(), d.Line, err)
		}
		p.Sections = append(p.Sections, section{
			Command:   command,
			Title:     markup.Capitalize(d.Keyword()),
			Name:      d.Name(),
			Signature: d.SignatureText(),
			Block:     b,
		})
	}
	return p, nil
}

func buildBlock(kind scanner.UnitKind, d *scanner.Declaration, ro RenderOptions) (block, error) {
	var b block

	doc, err := doc_parser.Extract(d.Doc)
	if err != nil {
		return b, err
	}

	for _, p := range doc.Paragraphs() {
		text, err := paragraph(p)
		if err != nil {
			return b, err
		}
		b.Core = append(b.Core, Escape(text))
	}

	vars := d.Variables
	switch {
	case !ro.WriteVars:
		b.ListTitle = "Arguments"
		b.SameAsGeneric = true
	case kind == scanner.TypeDefinition:
		b.ListTitle = "Members"
		if len(vars) > 0 {
			header, err := variableItem(vars[0])
			if err != nil {
				return b, err
			}
			b.Header = &header
			vars = vars[1:]
		}
	case kind == scanner.Program:
		b.ListTitle = "Variables"
	default:
		b.ListTitle = "Arguments"
	}

	if ro.WriteVars {
		for _, v := range vars {
			if kind == scanner.Procedures && !ro.AllVars && !v.HasIntent() {
				continue
			}
			it, err := variableItem(v)
			if err != nil {
				return b, err
			}
			b.Items = append(b.Items, it)
		}
	}

	if b.References, err = entryItems(doc.References); err != nil {
		return b, err
	}
	if b.History, err = entryItems(doc.History); err != nil {
		return b, err
	}
	if b.Authors, err = sentences(doc.Authors); err != nil {
		return b, err
	}
	if b.Advisors, err = sentences(doc.Advisors); err != nil {
		return b, err
	}

	b.Open = b.Header != nil || b.SameAsGeneric || len(b.Items) > 0 ||
		len(b.References) > 0 || len(b.History) > 0 || len(b.Authors) > 0 || len(b.Advisors) > 0
	return b, nil
}

func variableItem(v *scanner.Variable) (item, error) {
	typ, names, def := v.Parts()

	var parts []string
	for _, p := range v.DocParagraphs() {
		text, err := sentence(p)
		if err != nil {
			return item{}, fmt.Errorf("variable %s: %w", names, err)
		}
		parts = append(parts, text)
	}
	text := strings.Join(parts, ` \\ `)
	if def != "" {
		initial := fmt.Sprintf(`Initial value: \code{%s=%s}.`, names, def)
		text = strings.TrimSpace(text + " " + initial)
	}

	return item{Label: Escape(names), Decl: Escape(typ), Text: Escape(text)}, nil
}

func entryItems(entries []doc_parser.Entry) ([]item, error) {
	items := make([]item, 0, len(entries))
	for _, e := range entries {
		text, err := sentence(e.Text)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.Key, err)
		}
		items = append(items, item{Label: Escape(e.Key), Text: Escape(text)})
	}
	return items, nil
}

// paragraph capitalises prose, then turns `code` and #bold# into LaTeX.
func paragraph(text string) (string, error) {
	out, err := markup.ToCodeSpans(markup.CapitalizeProse(text))
	if err != nil {
		return "", err
	}
	return markup.ToBoldSpans(out)
}

func sentence(text string) (string, error) {
	out, err := paragraph(text)
	if err != nil {
		return "", err
	}
	return markup.EnsureTerminalPunctuation(out), nil
}

func sentences(values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		text, err := sentence(v)
		if err != nil {
			return nil, err
		}
		out = append(out, Escape(text))
	}
	return out, nil
}

// Escape backslash-escapes '&' and '%' unless they are already escaped.
func Escape(text string) string {
	if !strings.ContainsAny(text, "&%") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if (c == '&' || c == '%') && (i == 0 || text[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
