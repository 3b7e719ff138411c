package fortran

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gofortran/ferrors"
)

func Test_Parse_EmptyInputYieldsEmptyProgram(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse("", Config{})
	assert.NoError(err)
	assert.Equal("", n.String())
}

func Test_Parse_WhitespaceOnlyInputYieldsEmptyProgram(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse("   \n\n  \n", Config{})
	assert.NoError(err)
	assert.Equal("", n.String())
}

func Test_Parse_SubroutineSubprogram(t *testing.T) {
	assert := assert.New(t)

	src := "SUBROUTINE foo()\nx = 1\nEND SUBROUTINE foo\n"
	n, err := Parse(src, Config{})
	assert.NoError(err)
	assert.Contains(n.String(), "SUBROUTINE foo\n")
	assert.Contains(n.String(), "END SUBROUTINE foo")
}

func Test_Parse_SubroutineOmitsEmptyDummyArgParens(t *testing.T) {
	assert := assert.New(t)

	// spec scenario: `subroutine test()` re-emits as `SUBROUTINE test`,
	// with the empty dummy-arg parens dropped
	src := "subroutine test()\nend subroutine\n"
	n, err := Parse(src, Config{})
	assert.NoError(err)
	assert.Equal("SUBROUTINE test\nEND SUBROUTINE", n.String())
}

func Test_Parse_SubroutineNoArgs(t *testing.T) {
	assert := assert.New(t)

	src := "SUBROUTINE foo()\nEND SUBROUTINE foo\n"
	n, err := Parse(src, Config{})
	assert.NoError(err)
	assert.NotNil(n)
}

func Test_Parse_SubmoduleRequiresF2008Dialect(t *testing.T) {
	assert := assert.New(t)

	src := "SUBMODULE (mymod) mysub\nEND SUBMODULE mysub\n"

	_, err := Parse(src, Config{Dialect: F2003})
	assert.Error(err, "Submodule must not be recognized under plain F2003")

	n, err := Parse(src, Config{Dialect: F2008})
	assert.NoError(err)
	assert.Contains(n.String(), "SUBMODULE (mymod) mysub")
	assert.Contains(n.String(), "END SUBMODULE mysub")
}

func Test_Parse_SubmoduleBareEndEchoesKindAndName(t *testing.T) {
	assert := assert.New(t)

	// spec scenario: a bare `end` closing a named submodule re-emits as
	// `END SUBMODULE bar`
	src := "submodule (foobar) bar\nend\n"
	n, err := Parse(src, Config{Dialect: F2008})
	assert.NoError(err)
	assert.Equal("SUBMODULE (foobar) bar\nEND SUBMODULE bar", n.String())
}

func Test_Parse_SubroutineBareEndEchoesKindAndName(t *testing.T) {
	assert := assert.New(t)

	src := "SUBROUTINE foo(a)\nx = a\nEND\n"
	n, err := Parse(src, Config{})
	assert.NoError(err)
	assert.Equal("SUBROUTINE foo(a)\nx = a\nEND SUBROUTINE foo", n.String())
}

func Test_Parse_SubmoduleNameMismatchIsSyntaxError(t *testing.T) {
	assert := assert.New(t)

	src := "SUBMODULE (mymod) mysub\nEND SUBMODULE othername\n"
	_, err := Parse(src, Config{Dialect: F2008})
	var se *ferrors.SyntaxError
	assert.ErrorAs(err, &se)
}

func Test_Parse_CommentPreservedAsSiblingNode(t *testing.T) {
	assert := assert.New(t)

	src := "! leading remark\nSUBROUTINE foo()\nEND SUBROUTINE foo\n"
	n, err := Parse(src, Config{PreserveComments: true})
	assert.NoError(err)
	assert.Contains(n.String(), "! leading remark")
}

func Test_Parse_CommentDiscardedByDefault(t *testing.T) {
	assert := assert.New(t)

	src := "! leading remark\nSUBROUTINE foo()\nEND SUBROUTINE foo\n"
	n, err := Parse(src, Config{})
	assert.NoError(err)
	assert.NotContains(n.String(), "leading remark")
}

func Test_Parse_OperatorPrecedence(t *testing.T) {
	assert := assert.New(t)

	src := "SUBROUTINE foo()\na = b + c * d**e\nEND SUBROUTINE foo\n"
	n, err := Parse(src, Config{})
	assert.NoError(err)
	assert.Contains(n.String(), "a = b + c * d**e")
}

func Test_Parse_LabeledDoWithContinueTerminator(t *testing.T) {
	assert := assert.New(t)

	src := "SUBROUTINE foo()\nDO 10 i = 1, 5\nx = x + 1\n10 CONTINUE\nEND SUBROUTINE foo\n"
	n, err := Parse(src, Config{})
	assert.NoError(err)
	out := n.String()
	assert.Contains(out, "DO 10 i = 1, 5")
	assert.Contains(out, "10  CONTINUE")
}

func Test_Parse_SharedLabelTerminatesNestedDos(t *testing.T) {
	assert := assert.New(t)

	src := "SUBROUTINE foo()\nDO 20 i = 1, 5\nDO 20 j = 1, 5\nx = x + 1\n20 CONTINUE\nEND SUBROUTINE foo\n"
	n, err := Parse(src, Config{})
	assert.NoError(err)
	assert.Contains(n.String(), "20  CONTINUE")
}

func Test_Parse_UnterminatedLabelDoIsSyntaxError(t *testing.T) {
	assert := assert.New(t)

	src := "SUBROUTINE foo()\nDO 10 i = 1, 5\nx = x + 1\nEND SUBROUTINE foo\n"
	_, err := Parse(src, Config{})
	assert.Error(err)
}

func Test_Parse_DialectSwitch_SubroutineSameInBothDialects(t *testing.T) {
	assert := assert.New(t)

	src := "SUBROUTINE foo()\nEND SUBROUTINE foo\n"
	n1, err1 := Parse(src, Config{Dialect: F2003})
	assert.NoError(err1)
	n2, err2 := Parse(src, Config{Dialect: F2008})
	assert.NoError(err2)
	assert.Equal(n1.String(), n2.String())
}

func Test_Parse_HeadlessMainProgram(t *testing.T) {
	assert := assert.New(t)

	src := "x = 1\nEND\n"
	n, err := Parse(src, Config{})
	assert.NoError(err)
	assert.Equal("x = 1\nEND", n.String())
}

func Test_Parse_ModuleWithInterfaceAndContains(t *testing.T) {
	assert := assert.New(t)

	src := "MODULE mymod\nUSE other, ONLY : helper\nINTERFACE swap\nMODULE PROCEDURE sswap\nEND INTERFACE swap\nCONTAINS\nSUBROUTINE sswap()\nEND SUBROUTINE sswap\nEND MODULE mymod\n"
	n, err := Parse(src, Config{})
	assert.NoError(err)
	out := n.String()
	assert.Contains(out, "MODULE mymod")
	assert.Contains(out, "USE other, ONLY : helper")
	assert.Contains(out, "INTERFACE swap")
	assert.Contains(out, "CONTAINS")
	assert.Contains(out, "END MODULE mymod")
}

func Test_Parse_CaseConstructInsideSubroutine(t *testing.T) {
	assert := assert.New(t)

	src := "SUBROUTINE foo()\nSELECT CASE (i)\nCASE (1)\nx = 1\nCASE DEFAULT\nx = 2\nEND SELECT\nEND SUBROUTINE foo\n"
	n, err := Parse(src, Config{})
	assert.NoError(err)
	out := n.String()
	assert.Contains(out, "SELECT CASE (i)")
	assert.Contains(out, "CASE DEFAULT")
	assert.Contains(out, "END SELECT")
}

func Test_Parse_IOStatementsInsideSubroutine(t *testing.T) {
	assert := assert.New(t)

	src := "SUBROUTINE foo()\nOPEN(UNIT = 10, FILE = 'f.dat')\nALLOCATE(a(10), STAT = ierr)\nDEALLOCATE(a)\nCLOSE(10)\nEND SUBROUTINE foo\n"
	n, err := Parse(src, Config{})
	assert.NoError(err)
	out := n.String()
	assert.Contains(out, "OPEN(UNIT = 10, FILE = 'f.dat')")
	assert.Contains(out, "ALLOCATE(a(10), STAT = ierr)")
	assert.Contains(out, "DEALLOCATE(a)")
	assert.Contains(out, "CLOSE(10)")
}

func Test_Parse_FixedForm(t *testing.T) {
	assert := assert.New(t)

	src := "      SUBROUTINE FOO()\n      X = 1\n      END SUBROUTINE FOO\n"
	n, err := Parse(src, Config{FixedForm: true})
	assert.NoError(err)
	assert.Contains(n.String(), "SUBROUTINE FOO\n")
}

func Test_ParseFile_MissingFileIsError(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseFile("/nonexistent/path/does/not/exist.f90", Config{})
	assert.Error(err)
}

func Test_ParseFile_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := dir + "/sample.f90"
	src := "SUBROUTINE foo()\nEND SUBROUTINE foo\n"
	assert.NoError(os.WriteFile(path, []byte(src), 0o644))

	n, err := ParseFile(path, Config{})
	assert.NoError(err)
	assert.Contains(n.String(), "SUBROUTINE foo\n")
}
