// Package markup implements the inline conventions used in documentation
// comments: backtick code spans, #bold# spans, sentence capitalisation and
// terminal punctuation.
package markup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Span is the pair of strings a delimited segment is wrapped in.
type Span struct {
	Open  string
	Close string
}

var (
	LaTeXCode    = Span{Open: `\code{`, Close: `}`}
	LaTeXBold    = Span{Open: `\textbf{`, Close: `}`}
	MarkdownCode = Span{Open: "`", Close: "`"}
	MarkdownBold = Span{Open: "**", Close: "**"}
)

const (
	CodeDelimiter = "`"
	BoldDelimiter = "#"
	mathDelimiter = "$"
)

// ErrUnbalancedDelimiter is matched by every *UnbalancedDelimiterError.
var ErrUnbalancedDelimiter = errors.New("unbalanced delimiter")

// UnbalancedDelimiterError reports text with an odd number of span
// delimiters.
type UnbalancedDelimiterError struct {
	Delimiter string
	Text      string
}

func (e *UnbalancedDelimiterError) Error() string {
	return fmt.Sprintf("unbalanced %q in %q", e.Delimiter, e.Text)
}

func (e *UnbalancedDelimiterError) Is(target error) bool {
	return target == ErrUnbalancedDelimiter
}

// WrapSpans wraps every odd segment between delim occurrences in span.
func WrapSpans(text, delim string, span Span) (string, error) {
	parts := strings.Split(text, delim)
	if len(parts)%2 == 0 {
		return "", &UnbalancedDelimiterError{Delimiter: delim, Text: text}
	}
	if len(parts) == 1 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text) + (len(parts)/2)*(len(span.Open)+len(span.Close)))
	for i, part := range parts {
		if i%2 == 1 {
			b.WriteString(span.Open)
			b.WriteString(part)
			b.WriteString(span.Close)
			continue
		}
		b.WriteString(part)
	}
	return b.String(), nil
}

// ToCodeSpans turns `code` into LaTeX code spans, leaving $math$ alone.
func ToCodeSpans(text string) (string, error) {
	return CodeSpans(text, LaTeXCode)
}

// CodeSpans wraps backtick segments in span outside of $math$ segments.
// Text with an odd number of '$' is treated as having no math.
func CodeSpans(text string, span Span) (string, error) {
	segments := strings.Split(text, mathDelimiter)
	if len(segments)%2 == 0 {
		return WrapSpans(text, CodeDelimiter, span)
	}

	for i := 0; i < len(segments); i += 2 {
		wrapped, err := WrapSpans(segments[i], CodeDelimiter, span)
		if err != nil {
			return "", &UnbalancedDelimiterError{Delimiter: CodeDelimiter, Text: text}
		}
		segments[i] = wrapped
	}
	return strings.Join(segments, mathDelimiter), nil
}

// ToBoldSpans turns #text# into LaTeX bold spans.
func ToBoldSpans(text string) (string, error) {
	return WrapSpans(text, BoldDelimiter, LaTeXBold)
}

var sentenceStart = regexp.MustCompile(`(^|[.?!])\s*([a-zA-Z])`)

// Abbreviations and file extensions damaged by Capitalize.
var capitalizeFixes = strings.NewReplacer("e.G.", "e.g.", "i.E.", "i.e.", ".F", ".f")

// Capitalize upper-cases the first letter of the text and of every
// sentence.
func Capitalize(text string) string {
	text = sentenceStart.ReplaceAllStringFunc(text, strings.ToUpper)
	return capitalizeFixes.Replace(text)
}

// CapitalizeProse is Capitalize for documentation prose. It leaves backtick
// code segments untouched and only treats punctuation followed by whitespace
// as a sentence end, so "x.y", "e.g." and ".f90" survive without fixups.
func CapitalizeProse(text string) string {
	matches := sentenceStart.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	b := []byte(text)
	for _, m := range matches {
		letter := m[1] - 1
		if m[0] != 0 && letter == m[0]+1 {
			continue
		}
		if abbreviated(text[:m[0]]) {
			continue
		}
		if strings.Count(text[:letter], CodeDelimiter)%2 == 1 {
			continue
		}
		b[letter] = strings.ToUpper(text[letter : letter+1])[0]
	}
	return string(b)
}

func abbreviated(before string) bool {
	before = strings.ToLower(before)
	return strings.HasSuffix(before, "e.g") || strings.HasSuffix(before, "i.e")
}

// EnsureTerminalPunctuation trims the text and appends a full stop unless it
// already ends a sentence. Blank text is returned as is.
func EnsureTerminalPunctuation(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return trimmed
	}
	return trimmed + "."
}

// Paragraph capitalises the prose of text and applies code and bold spans.
// Code segments are never capitalised.
func Paragraph(text string, code, bold Span) (string, error) {
	out, err := CodeSpans(CapitalizeProse(text), code)
	if err != nil {
		return "", err
	}
	return WrapSpans(out, BoldDelimiter, bold)
}

// Sentence is Paragraph followed by EnsureTerminalPunctuation.
func Sentence(text string, code, bold Span) (string, error) {
	out, err := Paragraph(text, code, bold)
	if err != nil {
		return "", err
	}
	return EnsureTerminalPunctuation(out), nil
}
