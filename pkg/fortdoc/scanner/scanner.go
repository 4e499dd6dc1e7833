// Package scanner walks annotated Fortran source line by line and groups it
// into declarations, their description comments and their variables.
package scanner

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
)

// UnitKind selects how a file is documented.
type UnitKind int

const (
	// Procedures documents every subroutine and function signature.
	Procedures UnitKind = iota
	// TypeDefinition documents a single derived type.
	TypeDefinition
	// Program documents a program file as a whole.
	Program
)

func (k UnitKind) String() string {
	switch k {
	case TypeDefinition:
		return "type"
	case Program:
		return "program"
	default:
		return "procedures"
	}
}

// Implicit reports whether the unit owns a top-level declaration that is
// open from the first line.
func (k UnitKind) Implicit() bool {
	return k == TypeDefinition || k == Program
}

// Unit is the scan result of one file. Declarations are in document order.
type Unit struct {
	Kind         UnitKind
	Declarations []*Declaration
}

// Declaration is a documented procedure or the implicit top-level entry of a
// type or program unit.
type Declaration struct {
	// ID is the zero-padded line number of the signature, empty for the
	// implicit declaration.
	ID        string
	Line      int
	Signature []string
	Doc       []string
	Variables []*Variable
}

// Variable is one variable declaration and the documentation comments that
// preceded it.
type Variable struct {
	Index int
	Line  int
	Decl  []string
	Doc   []string
}

// Implicit returns the top-level declaration of a type or program unit.
func (u *Unit) Implicit() *Declaration {
	for _, d := range u.Declarations {
		if d.ID == "" {
			return d
		}
	}
	return nil
}

// Documented returns the declarations a renderer should emit.
func (u *Unit) Documented() []*Declaration {
	if u.Kind.Implicit() {
		if d := u.Implicit(); d != nil {
			return []*Declaration{d}
		}
		return nil
	}
	return u.Declarations
}

// SignatureText joins the signature fragments.
func (d *Declaration) SignatureText() string {
	return strings.Join(d.Signature, "")
}

// Keyword returns the procedure keyword of the signature in lower case,
// "subroutine" or "function".
func (d *Declaration) Keyword() string {
	kw, _ := d.keywordAndName()
	return kw
}

// Name returns the identifier following the procedure keyword.
func (d *Declaration) Name() string {
	_, name := d.keywordAndName()
	return name
}

// keywordAndName tokenizes the fragments joined with spaces; a keyword may
// end one line and the name start the next.
func (d *Declaration) keywordAndName() (string, string) {
	tokens := strings.FieldsFunc(strings.Join(d.Signature, " "), func(r rune) bool {
		return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	for i, tok := range tokens {
		for _, kw := range ProcedureKeywords {
			if !strings.EqualFold(tok, kw) {
				continue
			}
			if i+1 < len(tokens) {
				return kw, tokens[i+1]
			}
			return kw, ""
		}
	}
	return "", ""
}

// DeclText joins the declaration fragments.
func (v *Variable) DeclText() string {
	return strings.Join(v.Decl, "")
}

// DocParagraphs joins the doc lines into paragraphs. Blank doc lines
// separate paragraphs.
func (v *Variable) DocParagraphs() []string {
	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}
	for _, line := range v.Doc {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return paragraphs
}

// HasIntent reports whether the declaration carries an intent attribute,
// which marks procedure arguments.
func (v *Variable) HasIntent() bool {
	return strings.Contains(strings.ToLower(v.DeclText()), "intent")
}

var spaceBeforeParen = regexp.MustCompile(`(\w)\s+\(`)

// Parts splits the declaration into its type and attributes, the declared
// names and the default value. Declarations without "::" are split after the
// first word.
func (v *Variable) Parts() (typ, names, def string) {
	decl := v.DeclText()
	if left, right, ok := strings.Cut(decl, "::"); ok {
		typ, names = left, right
	} else {
		fields := strings.Fields(decl)
		if len(fields) > 0 {
			typ = fields[0]
			names = strings.Join(fields[1:], " ")
		}
	}

	typ = spaceBeforeParen.ReplaceAllString(strings.TrimSpace(typ), "$1(")
	names = strings.TrimSpace(names)
	if left, right, ok := strings.Cut(names, "="); ok {
		names = strings.TrimSpace(left)
		def = strings.TrimSpace(strings.TrimPrefix(right, ">"))
	}
	return typ, names, def
}

// state is the scan state of a single Scan call.
type state struct {
	unit       *Unit
	current    int // index into unit.Declarations, -1 when none is open
	variable   *Variable
	ctx        Context
	pendingDoc []string
	docOpen    bool
}

// Scan groups source lines into a Unit.
func Scan(lines []string, kind UnitKind) *Unit {
	s := &state{
		unit:    &Unit{Kind: kind},
		current: -1,
	}
	if kind.Implicit() {
		s.unit.Declarations = append(s.unit.Declarations, &Declaration{})
		s.current = 0
	}

	for i, line := range lines {
		if !s.step(i+1, line) {
			break
		}
	}
	return s.unit
}

// ScanReader reads all lines from r and scans them.
func ScanReader(r io.Reader, kind UnitKind) (*Unit, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return Scan(lines, kind), nil
}

// ReadLines splits r into lines without their terminators.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}

func (s *state) open() *Declaration {
	if s.current < 0 {
		return nil
	}
	return s.unit.Declarations[s.current]
}

// closeDeclaration falls back to the implicit declaration when the unit has
// one.
func (s *state) closeDeclaration() {
	s.current = -1
	if s.unit.Kind.Implicit() {
		s.current = 0
	}
	s.variable = nil
}

func (s *state) discardDoc() {
	s.pendingDoc = nil
	s.docOpen = false
}

// step consumes one line and reports whether scanning continues.
func (s *state) step(lineNo int, line string) bool {
	c := Classify(line, s.ctx)

	switch c.Category {
	case ScopeClose:
		return false

	case Description:
		if d := s.open(); d != nil {
			d.Doc = append(d.Doc, c.Text)
		}

	case BlankDescription:
		if d := s.open(); d != nil {
			d.Doc = append(d.Doc, "")
		}

	case VarDoc:
		s.pendingDoc = append(s.pendingDoc, c.Text)
		s.docOpen = true

	case BlankVarDoc:
		if s.docOpen {
			s.pendingDoc = append(s.pendingDoc, "")
		} else {
			s.pendingDoc = []string{""}
			s.docOpen = true
		}

	case DeclarationStart:
		s.discardDoc()
		s.ctx = Context{InSignature: c.Continued}
		d := s.open()
		if d == nil || d.ID == "" {
			d = &Declaration{ID: fmt.Sprintf("%05d", lineNo), Line: lineNo}
			s.unit.Declarations = append(s.unit.Declarations, d)
			s.current = len(s.unit.Declarations) - 1
		}
		s.variable = nil
		d.Signature = append(d.Signature, c.Text)

	case DeclarationContinuation:
		s.ctx.InSignature = c.Continued
		if d := s.open(); d != nil {
			d.Signature = append(d.Signature, c.Text)
		}

	case DeclarationEnd:
		s.discardDoc()
		s.ctx = Context{}
		s.closeDeclaration()

	case VariableStart:
		s.ctx = Context{InVariable: c.Continued}
		doc := s.pendingDoc
		s.discardDoc()
		d := s.open()
		if d == nil {
			s.variable = nil
			return true
		}
		v := &Variable{Index: len(d.Variables), Line: lineNo, Decl: []string{c.Text}, Doc: doc}
		d.Variables = append(d.Variables, v)
		s.variable = v

	case VariableContinuation:
		s.ctx.InVariable = c.Continued
		if s.variable != nil {
			s.variable.Decl = append(s.variable.Decl, c.Text)
		}

	case Statement:
		s.discardDoc()
		s.ctx = Context{}
	}

	return true
}
