package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	lines := []string{
		"subroutine s(a)",
		"  a = 1 !?I overflows for large a",
		"  !?M use Newton instead",
		"  ! plain comment",
		"  !? unfiled",
	}

	comments := Collect("src/s.f90", lines)
	require.Len(t, comments, 3)
	assert.Equal(t, Comment{File: "src/s.f90", Line: 2, Text: "a = 1 !?I overflows for large a"}, comments[0])
	assert.Equal(t, 3, comments[1].Line)
	assert.Equal(t, "!? unfiled", comments[2].Text)

	assert.Empty(t, Collect("empty.f90", nil))
}

func TestGroup(t *testing.T) {
	comments := []Comment{
		{File: "a.f90", Line: 1, Text: "!?I one"},
		{File: "a.f90", Line: 2, Text: "!?C two"},
		{File: "b.f90", Line: 7, Text: "!?I !?M both"},
		{File: "b.f90", Line: 9, Text: "!? none"},
	}

	groups := Group(comments)
	assert.Equal(t, []Comment{comments[0], comments[2]}, groups[Categories[0]])
	assert.Equal(t, []Comment{comments[2]}, groups[Categories[1]])
	assert.Equal(t, []Comment{comments[1]}, groups[Categories[2]])
}

func TestWrite(t *testing.T) {
	comments := []Comment{
		{File: "a.f90", Line: 3, Text: "x = 0 !?I reset"},
		{File: "b.f90", Line: 12, Text: "!?C tidy up"},
	}

	out, err := String(comments)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "\\chapter{Comments}\n"))
	assert.Contains(t, out,
		"\\section{!?I : Issues}\n"+
			"\\begin{Verbatim}[commandchars=\\\\\\{\\},breaklines=true]\n"+
			"\t\\textcolor{purple}{a.f90}:\\textcolor{blue}{3}:x = 0 !?I reset\n"+
			"\\end{Verbatim}\n"+
			"\\section{!?M : Method}\n"+
			"\\section{!?C : Code}\n"+
			"\\begin{Verbatim}")
	assert.Contains(t, out, `\textcolor{purple}{b.f90}:\textcolor{blue}{12}:!?C tidy up`)
	assert.Equal(t, 2, strings.Count(out, `\begin{Verbatim}`))
	assert.Equal(t, 2, strings.Count(out, `\end{Verbatim}`))
}

func TestWriteEmpty(t *testing.T) {
	out, err := String(nil)
	require.NoError(t, err)
	for _, c := range Categories {
		assert.Contains(t, out, `\section{`+c.Marker+` : `+c.Title+`}`)
	}
	assert.NotContains(t, out, "Verbatim")
}
