package latex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImGajeed76/fortdoc/pkg/doc_parser"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/markup"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/scanner"
)

const procedureSource = `interface
  subroutine advect(u, dt, &
      flux)
    !! Advances #u# by one step of size ` + "`dt`" + `.
    !!
    !! uses 50% less memory & time.
    !! :reference: LeVeque2002 finite volume methods for hyperbolic problems
    !! :author: Ada
    !> the field
    real(dp), intent(inout) :: u(:)
    !> time step
    real (dp), intent(in) :: dt
    real(dp), intent(out), optional :: flux
    integer :: scratch = 0
  end subroutine advect
end interface
`

func render(t *testing.T, src string, kind scanner.UnitKind, ro RenderOptions) string {
	t.Helper()
	unit, err := scanner.ScanReader(strings.NewReader(src), kind)
	require.NoError(t, err)

	r, err := NewRenderer(Options{})
	require.NoError(t, err)

	out, err := r.RenderString(unit, ro)
	require.NoError(t, err)
	return out
}

func TestRenderProcedure(t *testing.T) {
	out := render(t, procedureSource, scanner.Procedures, RenderOptions{Depth: 1, WriteVars: true})

	assert.True(t, strings.HasPrefix(out, Header+"\n"))
	assert.Contains(t, out, `\subsection{Subroutine \ifo{advect}}`)
	assert.Contains(t, out, `\label{subsection:advect}\index{\code{advect}}`)
	assert.Contains(t, out, "\\begin{minted}[bgcolor=codebg,linenos=false]{fortran}\nsubroutine advect(u, dt,flux)\n\\end{minted}")
	assert.Contains(t, out, `Advances \textbf{u} by one step of size \code{dt}.`)
	assert.Contains(t, out, `Uses 50\% less memory \& time.`)
	assert.Contains(t, out, `\item{\textsf{\textbf{Arguments}}}:`)
	assert.Contains(t, out, `\item[\code{u(:)}]: \ifo{real(dp), intent(inout)} \\`)
	assert.Contains(t, out, "The field.")
	assert.Contains(t, out, `\item[\code{dt}]: \ifo{real(dp), intent(in)} \\`)
	assert.Contains(t, out, `\item[\code{flux}]`)
	assert.NotContains(t, out, "scratch", "variables without intent are not arguments")
	assert.Contains(t, out, `\item[LeVeque2002]: Finite volume methods for hyperbolic problems.`)
	assert.Contains(t, out, `\item{\textsf{\textbf{Original author(s)}}}:`)
	assert.Contains(t, out, `\item[$\bullet$] Ada.`)
	assert.Equal(t, strings.Count(out, `\begin{description}`), strings.Count(out, `\end{description}`))
}

func TestRenderNameAfterContinuedKeyword(t *testing.T) {
	src := "real(dp) function &\n    norm2d(x, y)\n  !! Euclidean norm.\nend function norm2d\n"
	out := render(t, src, scanner.Procedures, RenderOptions{Depth: 1, WriteVars: true})

	assert.Contains(t, out, `\subsection{Function \ifo{norm2d}}`)
	assert.Contains(t, out, `\label{subsection:norm2d}\index{\code{norm2d}}`)
	assert.NotContains(t, out, `\ifo{}`)
}

func TestRenderProseCapitalization(t *testing.T) {
	src := "subroutine s()\n  !! see `a.b` in x.y. then e.g. more\nend subroutine s\n"
	out := render(t, src, scanner.Procedures, RenderOptions{Depth: 1, WriteVars: true})

	assert.Contains(t, out, `See \code{a.b} in x.y. Then e.g. more`)
}

func TestRenderAllVarsAndDefaults(t *testing.T) {
	out := render(t, procedureSource, scanner.Procedures, RenderOptions{Depth: 2, WriteVars: true, AllVars: true})

	assert.Contains(t, out, `\subsubsection{Subroutine \ifo{advect}}`)
	assert.Contains(t, out, `\item[\code{scratch}]: \ifo{integer} \\`)
	assert.Contains(t, out, `Initial value: \code{scratch=0}.`)
}

func TestRenderSameAsGeneric(t *testing.T) {
	out := render(t, procedureSource, scanner.Procedures, RenderOptions{Depth: 1})

	assert.Contains(t, out, "Same as generic subroutine")
	assert.NotContains(t, out, `\item[\code{u(:)}]`)
}

func TestRenderTypeUnit(t *testing.T) {
	src := `module star_mod
  type, public :: star_t
    !! A star in the #catalogue#.
    !> mass in solar units
    real(dp) :: mass = 1.0_dp
    character(len=16) :: name
  end type star_t
end module star_mod
`
	out := render(t, src, scanner.TypeDefinition, RenderOptions{Depth: 1, WriteVars: true})

	assert.NotContains(t, out, `\subsection`)
	assert.NotContains(t, out, "minted")
	assert.Contains(t, out, `A star in the \textbf{catalogue}.`)
	assert.Contains(t, out, `\code{star_t}: \ifo{type, public}`)
	assert.Contains(t, out, `\item{\textsf{\textbf{Members}}}:`)
	assert.Contains(t, out, `Mass in solar units. Initial value: \code{mass=1.0_dp}.`)
	assert.Contains(t, out, `\item[\code{name}]: \ifo{character(len=16)}`)
}

func TestRenderProgramUnit(t *testing.T) {
	src := "program driver\n!! Runs the model.\ninteger :: steps = 10\n"
	out := render(t, src, scanner.Program, RenderOptions{Depth: 1, WriteVars: true})

	assert.Contains(t, out, "Runs the model.")
	assert.Contains(t, out, `\item{\textsf{\textbf{Variables}}}:`)
	assert.Contains(t, out, `\item[\code{steps}]`)
}

func TestRenderMintedIsNotEscaped(t *testing.T) {
	src := "subroutine pct(a) ! 100%\n  real, intent(in) :: a\nend subroutine pct\n"
	unit := scanner.Scan(strings.Split(src, "\n"), scanner.Procedures)
	unit.Declarations[0].Signature = []string{"subroutine pct(a) bind(c, name='p%q')"}

	r, err := NewRenderer(Options{MintedOptions: "linenos=true"})
	require.NoError(t, err)
	out, err := r.RenderString(unit, RenderOptions{Depth: 1, WriteVars: true})
	require.NoError(t, err)

	assert.Contains(t, out, "\\begin{minted}[linenos=true]{fortran}\nsubroutine pct(a) bind(c, name='p%q')\n")
}

func TestRenderErrors(t *testing.T) {
	r, err := NewRenderer(Options{})
	require.NoError(t, err)

	unit := scanner.Scan([]string{
		"subroutine s(a)",
		"!! :reference: OnlyKey",
	}, scanner.Procedures)
	_, err = r.RenderString(unit, RenderOptions{Depth: 1, WriteVars: true})
	assert.ErrorIs(t, err, doc_parser.ErrMissingDescription)

	unit = scanner.Scan([]string{
		"subroutine s(a)",
		"!! unbalanced `code",
	}, scanner.Procedures)
	_, err = r.RenderString(unit, RenderOptions{Depth: 1, WriteVars: true})
	assert.ErrorIs(t, err, markup.ErrUnbalancedDelimiter)

	_, err = r.RenderString(unit, RenderOptions{Depth: 5})
	assert.Error(t, err)
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `a \& b \% c`, Escape("a & b % c"))
	assert.Equal(t, `already \% done`, Escape(`already \% done`))
	assert.Equal(t, `\&\&`, Escape("&&"))
	assert.Equal(t, "plain", Escape("plain"))
}
