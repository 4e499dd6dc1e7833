package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/latex"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/markup"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/scanner"
)

const solverSource = `subroutine solve(a, x, tol)
  !! Solves #A x = b# with ` + "`tol`" + `.
  !! :history: 2021 first version
  !> system matrix
  real(dp), intent(in) :: a(:,:)
  real(dp), intent(out) :: x(:)
  real(dp), intent(in), optional :: tol
  integer :: it = 0
end subroutine solve
function norm(v) result(r)
  !! Euclidean norm.
  real(dp), intent(in) :: v(:)
end function norm
`

func scan(t *testing.T, src string, kind scanner.UnitKind) *scanner.Unit {
	t.Helper()
	unit, err := scanner.ScanReader(strings.NewReader(src), kind)
	require.NoError(t, err)
	return unit
}

func TestSections(t *testing.T) {
	unit := scan(t, solverSource, scanner.Procedures)

	sections, err := Sections(unit, latex.RenderOptions{Depth: 1, WriteVars: true})
	require.NoError(t, err)
	require.Len(t, sections, 2)

	solve := sections[0]
	assert.Equal(t, "Subroutine solve", solve.Title)
	assert.Equal(t, "solve", solve.Name)
	assert.True(t, strings.HasPrefix(solve.Body, "## Subroutine `solve`\n\n```fortran\nsubroutine solve(a, x, tol)\n```"))
	assert.Contains(t, solve.Body, "Solves **A x = b** with `tol`.")
	assert.Contains(t, solve.Body, "**Arguments**\n\n- `a(:,:)` (`real(dp), intent(in)`): System matrix.\n")
	assert.Contains(t, solve.Body, "- `x(:)` (`real(dp), intent(out)`)\n")
	assert.NotContains(t, solve.Body, "`it`")
	assert.Contains(t, solve.Body, "**History**\n\n- **2021**: First version.")

	assert.Equal(t, "Function norm", sections[1].Title)
	assert.Contains(t, sections[1].Body, "Euclidean norm.")
}

func TestFromUnitOptions(t *testing.T) {
	unit := scan(t, solverSource, scanner.Procedures)

	md, err := FromUnit(unit, latex.RenderOptions{Depth: 2, WriteVars: true, AllVars: true})
	require.NoError(t, err)
	assert.Contains(t, md, "### Subroutine `solve`")
	assert.Contains(t, md, "- `it` (`integer`): Initial value: `it=0`.")

	md, err = FromUnit(unit, latex.RenderOptions{Depth: 1})
	require.NoError(t, err)
	assert.Contains(t, md, "**Arguments**: Same as generic subroutine.")
	assert.NotContains(t, md, "System matrix")

	_, err = FromUnit(unit, latex.RenderOptions{Depth: 3})
	assert.Error(t, err)
}

func TestTypeSection(t *testing.T) {
	src := `type :: star_t
  !! A star.
  real :: mass
end type star_t
`
	sections, err := Sections(scan(t, src, scanner.TypeDefinition), latex.RenderOptions{Depth: 1, WriteVars: true})
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "star_t", sections[0].Name)
	assert.Equal(t, "type star_t", sections[0].Title)
	assert.Contains(t, sections[0].Body, "`star_t`: `type`")
	assert.Contains(t, sections[0].Body, "**Members**\n\n- `mass` (`real`)")
}

func TestSectionsPropagateMarkupErrors(t *testing.T) {
	unit := scanner.Scan([]string{"subroutine s()", "!! broken `span"}, scanner.Procedures)
	_, err := FromUnit(unit, latex.RenderOptions{Depth: 1, WriteVars: true})
	assert.ErrorIs(t, err, markup.ErrUnbalancedDelimiter)
}

func TestRenderMarkdown(t *testing.T) {
	md := "## Subroutine `solve`\n\n```fortran\nsubroutine solve(a)\n```\n\nSolves **fast** and *well*.\n\n\n- one\n- two\n\n> quoted"
	out := RenderMarkdown(md, 60)

	assert.Contains(t, out, "solve")
	assert.Contains(t, out, "subroutine solve(a)")
	assert.Contains(t, out, "fast")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "```")
	assert.Contains(t, out, "• one")
	assert.Contains(t, out, "quoted")
	assert.NotContains(t, out, "\n\n\n\n")
}

func TestWordWrap(t *testing.T) {
	out := wordWrap("alpha beta gamma delta", 12, "• ")
	assert.Equal(t, "• alpha beta\n  gamma\n  delta", out)
	assert.Equal(t, "text", wordWrap("text", 0, ""))
}

func TestParseLine(t *testing.T) {
	assert.Equal(t, lineInfo{typ: headingLine, level: 3, content: "Title"}, parseLine("### Title"))
	assert.Equal(t, lineInfo{typ: listItemLine, level: 2, bullet: "-", content: "x"}, parseLine("  - x"))
	assert.Equal(t, lineInfo{typ: blockquoteLine, content: "q"}, parseLine("> q"))
	assert.Equal(t, lineInfo{typ: normalLine, content: "plain"}, parseLine("plain"))
}
