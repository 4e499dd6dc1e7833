package scanner

import (
	"strings"
)

// Category is the structural role of one source line.
type Category int

const (
	Other Category = iota
	BlankDescription
	BlankVarDoc
	Description
	VarDoc
	ScopeClose
	DeclarationStart
	DeclarationContinuation
	DeclarationEnd
	VariableStart
	VariableContinuation
	Statement
)

var categoryNames = map[Category]string{
	Other:                   "other",
	BlankDescription:        "blank-description",
	BlankVarDoc:             "blank-vardoc",
	Description:             "description",
	VarDoc:                  "vardoc",
	ScopeClose:              "scope-close",
	DeclarationStart:        "declaration-start",
	DeclarationContinuation: "declaration-continuation",
	DeclarationEnd:          "declaration-end",
	VariableStart:           "variable-start",
	VariableContinuation:    "variable-continuation",
	Statement:               "statement",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Keyword sets recognised by the classifier. Matching is case-insensitive.
var (
	TypeKeywords      = []string{"real", "double", "complex", "integer", "character", "type", "logical", "class"}
	ProcedureKeywords = []string{"subroutine", "function"}
	ioKeywords        = []string{"format", "print", "write"}
)

const (
	descriptionMarker = "!!"
	varDocMarker      = "!>"
	contKeyword       = "contains"
)

// Context carries the continuation state the classifier depends on.
type Context struct {
	InSignature bool
	InVariable  bool
}

// Classified is a categorised line. Text is the payload: the comment text
// for description lines, the code fragment for declaration and variable
// lines. Continued is set when the fragment ends with '&'.
type Classified struct {
	Category  Category
	Text      string
	Continued bool
}

// Classify assigns a category to a line. The first matching rule wins.
func Classify(line string, ctx Context) Classified {
	words := strings.Fields(line)

	if len(words) < 2 {
		switch {
		case len(words) == 0:
			return Classified{Category: Other}
		case words[0] == descriptionMarker:
			return Classified{Category: BlankDescription}
		case words[0] == varDocMarker:
			return Classified{Category: BlankVarDoc}
		case strings.EqualFold(words[0], contKeyword):
			return Classified{Category: ScopeClose}
		}
		return Classified{Category: Other}
	}

	first := words[0]
	switch {
	case strings.HasPrefix(first, descriptionMarker):
		return Classified{Category: Description, Text: commentPayload(words)}
	case strings.HasPrefix(first, varDocMarker):
		return Classified{Category: VarDoc, Text: commentPayload(words)}
	case strings.HasPrefix(first, "!"):
		return Classified{Category: Other}
	case strings.EqualFold(first, contKeyword):
		return Classified{Category: ScopeClose}
	}

	code, continued := splitCode(line)

	if hasProcedureKeyword(words) {
		if isIOStatement(line) {
			return Classified{Category: Statement}
		}
		if isEnd(code) {
			return Classified{Category: DeclarationEnd}
		}
		return Classified{Category: DeclarationStart, Text: code, Continued: continued}
	}

	if ctx.InSignature {
		if isTypeKeyword(first) && strings.Contains(code, "::") {
			return Classified{Category: VariableStart, Text: code, Continued: continued}
		}
		return Classified{Category: DeclarationContinuation, Text: code, Continued: continued}
	}

	if isTypeKeyword(first) {
		return Classified{Category: VariableStart, Text: code, Continued: continued}
	}

	if ctx.InVariable {
		return Classified{Category: VariableContinuation, Text: code, Continued: continued}
	}

	if isEnd(code) {
		return Classified{Category: DeclarationEnd}
	}
	return Classified{Category: Statement}
}

// commentPayload drops the two-character marker from a comment line.
func commentPayload(words []string) string {
	rest := words[0][2:]
	if rest == "" {
		return strings.Join(words[1:], " ")
	}
	return rest + " " + strings.Join(words[1:], " ")
}

// splitCode returns the code part of a line with any trailing comment and the
// continuation ampersands removed.
func splitCode(line string) (code string, continued bool) {
	code = strings.TrimSpace(stripComment(line))
	if strings.HasSuffix(code, "&") {
		continued = true
		code = strings.TrimSpace(strings.TrimSuffix(code, "&"))
	}
	code = strings.TrimSpace(strings.TrimPrefix(code, "&"))
	return code, continued
}

// stripComment cuts a line at the first '!' that is not inside a string
// literal.
func stripComment(line string) string {
	var quote rune
	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '!':
			return line[:i]
		}
	}
	return line
}

func hasProcedureKeyword(words []string) bool {
	for _, w := range words {
		for _, kw := range ProcedureKeywords {
			if strings.EqualFold(w, kw) {
				return true
			}
		}
	}
	return false
}

// isIOStatement reports format/print/write statements, which may mention a
// procedure keyword inside their arguments.
func isIOStatement(line string) bool {
	cleaned := strings.NewReplacer("(", " ", ",", " ", "*", " ").Replace(line)
	words := strings.Fields(cleaned)
	if len(words) > 2 {
		words = words[:2]
	}
	for _, w := range words {
		for _, kw := range ioKeywords {
			if strings.EqualFold(w, kw) {
				return true
			}
		}
	}
	return false
}

func isTypeKeyword(token string) bool {
	token = strings.SplitN(token, "(", 2)[0]
	token = strings.SplitN(token, ",", 2)[0]
	for _, kw := range TypeKeywords {
		if strings.EqualFold(token, kw) {
			return true
		}
	}
	return false
}

// isEnd matches the code of "end subroutine foo", "endfunction foo" and
// friends. A lone "end" or "endfunction" only gets here when a trailing
// comment gives the line a second token; without one Classify has already
// returned Other.
func isEnd(code string) bool {
	words := strings.Fields(code)
	if len(words) == 0 {
		return false
	}
	first := strings.ToLower(words[0])
	if first == "end" {
		return len(words) == 1 || isBlockKeyword(words[1])
	}
	if strings.HasPrefix(first, "end") {
		return isBlockKeyword(first[3:])
	}
	return false
}

func isBlockKeyword(word string) bool {
	switch strings.ToLower(word) {
	case "subroutine", "function", "type", "program", "module", "interface", "procedure", "submodule":
		return true
	}
	return false
}
