package markdown

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	constants "github.com/ImGajeed76/fortdoc/internal"
)

var (
	baseStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	headingStyles = map[int]lipgloss.Style{
		1: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).MarginTop(1).MarginBottom(1),
		2: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).MarginTop(1),
		3: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(constants.Theme.PrimaryColor)),
		4: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(constants.Theme.SecondaryColor)),
	}

	boldStyle = lipgloss.NewStyle().
			Bold(true)

	italicStyle = lipgloss.NewStyle().
			Italic(true)

	codeBlockStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#2A2A2A")).
			Foreground(lipgloss.Color("#A9B1D6")).
			PaddingLeft(1).
			PaddingRight(1)

	inlineCodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A9B1D6"))

	blockquoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.TertiaryColor)).
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.Border{Left: "│"}).
			BorderForeground(lipgloss.Color(constants.Theme.TertiaryColor))
)

var (
	headingRe    = regexp.MustCompile(`^(#{1,6})\s(.+)`)
	listItemRe   = regexp.MustCompile(`^(\s*)([-*+]|\d+\.)\s(.+)`)
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe     = regexp.MustCompile(`(^|[^*])\*([^*]+)\*`)
)

type lineType int

const (
	normalLine lineType = iota
	headingLine
	listItemLine
	blockquoteLine
)

type lineInfo struct {
	content string
	typ     lineType
	level   int
	bullet  string
}

// wordWrap wraps on spaces. Continuation lines are indented to line up with
// the first one.
func wordWrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if width <= 0 || len(words) == 0 {
		return indent + text
	}

	var result strings.Builder
	current := indent + words[0]
	hanging := strings.Repeat(" ", lipgloss.Width(indent))

	for _, word := range words[1:] {
		if lipgloss.Width(current)+1+lipgloss.Width(word) > width {
			result.WriteString(current + "\n")
			current = hanging + word
		} else {
			current += " " + word
		}
	}
	result.WriteString(current)
	return result.String()
}

func parseLine(line string) lineInfo {
	trimmed := strings.TrimSpace(line)

	if match := headingRe.FindStringSubmatch(trimmed); match != nil {
		return lineInfo{typ: headingLine, level: len(match[1]), content: match[2]}
	}

	if match := listItemRe.FindStringSubmatch(line); match != nil {
		return lineInfo{
			typ:     listItemLine,
			level:   len(match[1])/2 + 1,
			bullet:  match[2],
			content: match[3],
		}
	}

	if strings.HasPrefix(trimmed, ">") {
		return lineInfo{typ: blockquoteLine, content: strings.TrimSpace(strings.TrimPrefix(trimmed, ">"))}
	}

	return lineInfo{typ: normalLine, content: trimmed}
}

// formatInline styles code spans, bold and italic text. Code spans are
// styled first so their content is left alone.
func formatInline(text string) string {
	var codes []string
	text = inlineCodeRe.ReplaceAllStringFunc(text, func(match string) string {
		codes = append(codes, inlineCodeStyle.Render(match[1:len(match)-1]))
		return "\x00"
	})

	text = boldRe.ReplaceAllStringFunc(text, func(match string) string {
		return boldStyle.Render(match[2 : len(match)-2])
	})
	text = italicRe.ReplaceAllStringFunc(text, func(match string) string {
		sub := italicRe.FindStringSubmatch(match)
		return sub[1] + italicStyle.Render(sub[2])
	})

	for _, code := range codes {
		text = strings.Replace(text, "\x00", code, 1)
	}
	return text
}

// RenderMarkdown converts Markdown to styled terminal output no wider than
// maxWidth.
func RenderMarkdown(markdown string, maxWidth int) string {
	var (
		output        strings.Builder
		codeBlock     []string
		inCodeBlock   bool
		prevLineEmpty bool
	)
	width := maxWidth - baseStyle.GetPaddingLeft()

	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inCodeBlock {
				output.WriteString(baseStyle.Render(codeBlockStyle.Render(strings.Join(codeBlock, "\n"))) + "\n")
				codeBlock = codeBlock[:0]
			}
			inCodeBlock = !inCodeBlock
			prevLineEmpty = false
			continue
		}
		if inCodeBlock {
			codeBlock = append(codeBlock, line)
			continue
		}

		if strings.TrimSpace(line) == "" {
			if !prevLineEmpty {
				output.WriteString("\n")
			}
			prevLineEmpty = true
			continue
		}
		prevLineEmpty = false

		info := parseLine(line)
		switch info.typ {
		case headingLine:
			style, ok := headingStyles[info.level]
			if !ok {
				style = headingStyles[4]
			}
			output.WriteString(style.Render(wordWrap(formatInline(info.content), width, "")) + "\n")

		case listItemLine:
			bullet := info.bullet
			if strings.Contains("-*+", bullet) {
				bullet = "•"
			}
			indent := strings.Repeat("  ", info.level-1) + bullet + " "
			output.WriteString(baseStyle.Render(wordWrap(formatInline(info.content), width, indent)) + "\n")

		case blockquoteLine:
			output.WriteString(blockquoteStyle.Render(wordWrap(formatInline(info.content), width-4, "")) + "\n")

		default:
			output.WriteString(baseStyle.Render(wordWrap(formatInline(info.content), width, "")) + "\n")
		}
	}

	if inCodeBlock && len(codeBlock) > 0 {
		output.WriteString(baseStyle.Render(codeBlockStyle.Render(strings.Join(codeBlock, "\n"))) + "\n")
	}
	return output.String()
}
