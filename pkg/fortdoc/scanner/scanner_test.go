package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanContinuedSignatureWithVariables(t *testing.T) {
	unit := Scan([]string{
		"subroutine foo(a, b) &",
		"  real :: a",
		"  real :: b",
	}, Procedures)

	require.Len(t, unit.Declarations, 1)
	d := unit.Declarations[0]
	assert.Equal(t, "00001", d.ID)
	assert.Equal(t, "subroutine foo(a, b)", d.SignatureText())
	require.Len(t, d.Variables, 2)
	assert.Equal(t, []string{"real :: a"}, d.Variables[0].Decl)
	assert.Equal(t, []string{"real :: b"}, d.Variables[1].Decl)
}

const interfaceSource = `module solver_interfaces
  implicit none
  interface
    module subroutine solve(n, a, &
        x, tol)
      !! Solves the linear system #A x = b#.
      !!
      !! :reference: Saad2003 Iterative methods for sparse linear systems.
      !> matrix order
      integer, intent(in) :: n
      !> system matrix
      !> stored by rows
      real(dp), intent(in) :: a(n, n)
      real(dp), intent(inout) :: x(n)
      !> convergence tolerance
      real(dp), intent(in), optional :: tol
      integer :: work
    end subroutine solve

    pure function norm2(v) result(r)
      !! Euclidean norm of ` + "`v`" + `.
      real(dp), intent(in) :: v(:)
      real(dp) :: r
    end function norm2
  end interface
contains
  subroutine hidden()
    !! never seen
  end subroutine hidden
end module solver_interfaces
`

func TestScanInterfaceModule(t *testing.T) {
	unit, err := ScanReader(strings.NewReader(interfaceSource), Procedures)
	require.NoError(t, err)
	require.Len(t, unit.Declarations, 2)

	solve := unit.Declarations[0]
	assert.Equal(t, "00004", solve.ID)
	assert.Equal(t, 4, solve.Line)
	assert.Equal(t, "module subroutine solve(n, a,x, tol)", solve.SignatureText())
	assert.Equal(t, "subroutine", solve.Keyword())
	assert.Equal(t, "solve", solve.Name())
	assert.Equal(t, []string{
		"Solves the linear system #A x = b#.",
		"",
		":reference: Saad2003 Iterative methods for sparse linear systems.",
	}, solve.Doc)

	require.Len(t, solve.Variables, 5)
	assert.Equal(t, []string{"matrix order"}, solve.Variables[0].Doc)
	assert.Equal(t, []string{"system matrix", "stored by rows"}, solve.Variables[1].Doc)
	assert.Empty(t, solve.Variables[2].Doc, "doc buffer is consumed by one variable")
	assert.Equal(t, []string{"convergence tolerance"}, solve.Variables[3].Doc)
	assert.False(t, solve.Variables[4].HasIntent())

	norm := unit.Declarations[1]
	assert.Equal(t, "function", norm.Keyword())
	assert.Equal(t, "norm2", norm.Name())
	assert.Len(t, norm.Variables, 2)
}

func TestScanKeywordEndsContinuedLine(t *testing.T) {
	unit := Scan([]string{
		"real(dp) function &",
		"    norm2d(x, y)",
		"  !! Euclidean norm.",
		"  real(dp), intent(in) :: x, y",
		"end function norm2d",
	}, Procedures)

	require.Len(t, unit.Declarations, 1)
	d := unit.Declarations[0]
	assert.Equal(t, "real(dp) functionnorm2d(x, y)", d.SignatureText())
	assert.Equal(t, "function", d.Keyword())
	assert.Equal(t, "norm2d", d.Name())
	assert.Equal(t, []string{"Euclidean norm."}, d.Doc)
}

func TestScanBareEndKeepsDeclarationOpen(t *testing.T) {
	unit := Scan([]string{
		"subroutine outer(n)",
		"  integer, intent(in) :: n",
		"  do i = 1, n",
		"  end do",
		"  if (n > 0) then",
		"  end",
		"  !! Still documents outer.",
		"end ! done",
		"!! orphan",
	}, Procedures)

	require.Len(t, unit.Declarations, 1)
	d := unit.Declarations[0]
	assert.Equal(t, "outer", d.Name())
	assert.Equal(t, []string{"Still documents outer."}, d.Doc)

	assert.Equal(t, Other, Classify("  end", Context{}).Category)
	assert.Equal(t, DeclarationEnd, Classify("end ! done", Context{}).Category)
}

func TestScanStopsAtContains(t *testing.T) {
	unit := Scan([]string{
		"contains",
		"subroutine later(x)",
	}, Procedures)
	assert.Empty(t, unit.Declarations)
}

func TestScanDiscardsOrphans(t *testing.T) {
	unit := Scan([]string{
		"!! module level text",
		"!> orphan doc",
		"integer :: counter",
		"subroutine run(n)",
		"  integer, intent(in) :: n",
		"end subroutine run",
		"!! after the end",
	}, Procedures)

	require.Len(t, unit.Declarations, 1)
	d := unit.Declarations[0]
	assert.Empty(t, d.Doc)
	require.Len(t, d.Variables, 1)
	assert.Empty(t, d.Variables[0].Doc)
}

func TestScanTypeUnit(t *testing.T) {
	unit := Scan([]string{
		"module star_mod",
		"  type, public :: star_t",
		"    !! A star in the catalogue.",
		"    !> mass in solar units",
		"    real(dp) :: mass = 1.0_dp",
		"    !> name,",
		"    !>",
		"    !> upper case",
		"    character(len=16) :: name",
		"  end type star_t",
		"  !! trailing text still belongs to the type",
	}, TypeDefinition)

	require.Len(t, unit.Declarations, 1)
	d := unit.Implicit()
	require.NotNil(t, d)
	assert.Equal(t, "", d.ID)
	assert.Equal(t, []string{"A star in the catalogue.", "trailing text still belongs to the type"}, d.Doc)
	require.Len(t, d.Variables, 3)
	assert.Equal(t, "type, public :: star_t", d.Variables[0].DeclText())
	assert.Equal(t, []string{"name,", "", "upper case"}, d.Variables[2].Doc)
	assert.Equal(t, []*Declaration{d}, unit.Documented())
}

func TestScanProgramUnitCollectsProcedures(t *testing.T) {
	unit := Scan([]string{
		"program main",
		"!! Driver.",
		"integer :: i",
		"interface",
		"subroutine helper(x)",
		"real, intent(in) :: x",
		"end subroutine helper",
		"end interface",
		"!! More driver text.",
	}, Program)

	require.Len(t, unit.Declarations, 2)
	top := unit.Implicit()
	assert.Equal(t, []string{"Driver.", "More driver text."}, top.Doc)
	assert.Len(t, top.Variables, 1)
	assert.Len(t, unit.Declarations[1].Variables, 1)
	assert.Len(t, unit.Documented(), 1)
}

func TestScanVariableContinuation(t *testing.T) {
	unit := Scan([]string{
		"subroutine s(a, b)",
		"real, intent(in) :: a, &",
		"  & b",
		"x = 1",
		"  y",
	}, Procedures)

	v := unit.Declarations[0].Variables[0]
	assert.Equal(t, []string{"real, intent(in) :: a,", "b"}, v.Decl)
}

func TestScanBlankVarDocOpensBuffer(t *testing.T) {
	unit := Scan([]string{
		"subroutine s(a)",
		"!>",
		"!> second line",
		"real, intent(in) :: a",
	}, Procedures)

	assert.Equal(t, []string{"", "second line"}, unit.Declarations[0].Variables[0].Doc)
}

func TestScanStatementDiscardsPendingDoc(t *testing.T) {
	unit := Scan([]string{
		"subroutine s(a)",
		"!> stale",
		"call other()",
		"real, intent(in) :: a",
	}, Procedures)

	assert.Empty(t, unit.Declarations[0].Variables[0].Doc)
}

func TestVariableParts(t *testing.T) {
	tests := []struct {
		decl  []string
		typ   string
		names string
		def   string
	}{
		{decl: []string{"real (dp), intent(in) :: x"}, typ: "real(dp), intent(in)", names: "x"},
		{decl: []string{"integer :: n = 3"}, typ: "integer", names: "n", def: "3"},
		{decl: []string{"type(node_t), pointer :: head => null()"}, typ: "type(node_t), pointer", names: "head", def: "null()"},
		{decl: []string{"character (len=8) :: a,", "b"}, typ: "character(len=8)", names: "a,b"},
		{decl: []string{"logical flag"}, typ: "logical", names: "flag"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.decl, ""), func(t *testing.T) {
			typ, names, def := (&Variable{Decl: tt.decl}).Parts()
			assert.Equal(t, tt.typ, typ)
			assert.Equal(t, tt.names, names)
			assert.Equal(t, tt.def, def)
		})
	}
}

func TestReadLinesStripsCarriageReturns(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("a\r\nb\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lines)
}
