package rules2003

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

func newKernel() *match.Kernel {
	reg := rule.NewRegistry()
	k := match.NewKernel(reg)
	Install(reg, k)
	return k
}

func Test_Expr_OperatorPrecedence(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()

	n, rest, err := k.MatchString(TagExpr, "b + c * d**e")
	assert.NoError(err)
	assert.Equal("", rest)
	assert.Equal("b + c * d**e", n.String())
}

func Test_Expr_ParenthesizedOverridesPrecedence(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()

	n, rest, err := k.MatchString(TagExpr, "(b + c) * d")
	assert.NoError(err)
	assert.Equal("", rest)
	assert.Equal("(b + c) * d", n.String())
}

func Test_Expr_LogicalChain(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()

	n, rest, err := k.MatchString(TagExpr, "a .AND. .NOT. b")
	assert.NoError(err)
	assert.Equal("", rest)
	assert.Equal("a .AND. .NOT. b", n.String())
}

func Test_Expr_RelationalOperators(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()

	n, rest, err := k.MatchString(TagExpr, "a .LT. b")
	assert.NoError(err)
	assert.Equal("", rest)
	assert.Equal("a .LT. b", n.String())
}

func Test_Expr_LeadingUnarySign(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()

	n, rest, err := k.MatchString(TagExpr, "-a + b")
	assert.NoError(err)
	assert.Equal("", rest)
	assert.Equal("-a + b", n.String())
}

func Test_AssignmentStmt_SimpleDataRef(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("x = 1\n")

	n, err := k.MatchStream(TagAssignmentStmt, rd)
	assert.NoError(err)
	assert.Equal("x = 1", n.String())
}

func Test_AssignmentStmt_RejectsEqualityOperator(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("x == 1\n")

	_, err := k.MatchStream(TagAssignmentStmt, rd)
	assert.Error(err)
}

func Test_DataRef_PercentChain(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()

	n, rest, err := k.MatchString(TagDataRef, "a%b%c")
	assert.NoError(err)
	assert.Equal("", rest)
	assert.Equal("a%b%c", n.String())
}

func Test_DataRef_PartRefWithSubscripts(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()

	n, rest, err := k.MatchString(TagDataRef, "arr(1, 2)")
	assert.NoError(err)
	assert.Equal("", rest)
	assert.Equal("arr(1, 2)", n.String())
}

func Test_LiteralConstant_CharWithKindPrefix(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()

	n, rest, err := k.MatchString(TagCharLiteralConstant, `NC_'hello'`)
	assert.NoError(err)
	assert.Equal("", rest)
	assert.Contains(n.String(), "hello")
}

func Test_LiteralConstant_IntWithKindSuffix(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()

	n, rest, err := k.MatchString(TagIntLiteralConstant, "123_dp")
	assert.NoError(err)
	assert.Equal("", rest)
	assert.NotNil(n)
}

func Test_TypeDeclarationStmt_KindSelectorParenForm(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("INTEGER(KIND=8) :: X\n")

	n, err := k.MatchStream(TagTypeDeclarationStmt, rd)
	assert.NoError(err)
	assert.Equal("INTEGER (KIND = 8) :: X", n.String())
}

func Test_TypeDeclarationStmt_KindSelectorBareParenForm(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("REAL(8) :: Y\n")

	n, err := k.MatchStream(TagTypeDeclarationStmt, rd)
	assert.NoError(err)
	assert.Equal("REAL (KIND = 8) :: Y", n.String())
}

func Test_TypeDeclarationStmt_KindSelectorStarForm(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("REAL*8 :: Z\n")

	n, err := k.MatchStream(TagTypeDeclarationStmt, rd)
	assert.NoError(err)
	assert.Equal("REAL *8 :: Z", n.String())
}

func Test_IfConstruct_SimpleBody(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	src := "IF (a .LT. b) THEN\nx = 1\nEND IF\n"
	rd := reader.New(src)

	n, err := k.MatchStream(TagIfConstruct, rd)
	assert.NoError(err)
	out := n.String()
	assert.Contains(out, "IF a .LT. b THEN")
	assert.Contains(out, "x = 1")
	assert.Contains(out, "END IF")
}

func Test_IfConstruct_WithElseIfAndElse(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	src := "IF (a .LT. b) THEN\nx = 1\nELSE IF (a .EQ. b) THEN\nx = 2\nELSE\nx = 3\nEND IF\n"
	rd := reader.New(src)

	n, err := k.MatchStream(TagIfConstruct, rd)
	assert.NoError(err)
	out := n.String()
	assert.Contains(out, "ELSE IF a .EQ. b THEN")
	assert.Contains(out, "ELSE")
	assert.Contains(out, "x = 3")
}

func Test_IfConstruct_MissingEndIsSyntaxErrorNotNoMatch(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	src := "IF (a .LT. b) THEN\nx = 1\n"
	rd := reader.New(src)

	_, err := k.MatchStream(TagIfConstruct, rd)
	assert.Error(err)
	assert.False(ferrors.IsNoMatch(err))
}

func Test_IfStmt_SingleStatementForm(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("IF (a .LT. b) x = 1\n")

	n, err := k.MatchStream(TagIfStmt, rd)
	assert.NoError(err)
	assert.Equal("IF a .LT. b x = 1", n.String())
}

func Test_WhereConstruct_SimpleBody(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	src := "WHERE (a .GT. 0)\nb = a\nELSEWHERE\nb = 0\nEND WHERE\n"
	rd := reader.New(src)

	n, err := k.MatchStream(TagWhereConstruct, rd)
	assert.NoError(err)
	out := n.String()
	assert.Contains(out, "WHERE a .GT. 0")
	assert.Contains(out, "ELSEWHERE")
	assert.Contains(out, "b = 0")
}

func Test_LabeledDo_SharedTerminatorClosesNestedLoops(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	src := "DO 20 i = 1, 5\nDO 20 j = 1, 5\nx = x + 1\n20 CONTINUE\n"
	rd := reader.New(src)

	n, err := k.MatchStream(TagBlockLabelDoConstruct, rd)
	assert.NoError(err)
	assert.Contains(n.String(), "20  CONTINUE")
	assert.True(k.Labels().Empty(), "outer label-DO's label should be consumed by the shared terminator")
}

func Test_LabeledDo_UnterminatedIsSyntaxError(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	src := "DO 10 i = 1, 5\nx = x + 1\n"
	rd := reader.New(src)

	_, err := k.MatchStream(TagBlockLabelDoConstruct, rd)
	assert.Error(err)
	assert.False(ferrors.IsNoMatch(err))
}

func Test_BlockNonlabelDoConstruct_SimpleBody(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	src := "DO i = 1, 5\nx = x + 1\nEND DO\n"
	rd := reader.New(src)

	n, err := k.MatchStream(TagBlockNonlabelDoConstruct, rd)
	assert.NoError(err)
	out := n.String()
	assert.Contains(out, "DO i = 1, 5")
	assert.Contains(out, "END DO")
}

func Test_ActionStmt_CallWithArgs(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("CALL foo(a, b)\n")

	n, err := k.MatchStream(TagActionStmt, rd)
	assert.NoError(err)
	assert.Equal("CALL foo(a, b)", n.String())
}

func Test_ActionStmt_PrintListDirected(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("PRINT *, a, b\n")

	n, err := k.MatchStream(TagActionStmt, rd)
	assert.NoError(err)
	assert.Equal("PRINT *, a, b", n.String())
}

func Test_ActionStmt_GotoStmt(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("GO TO 10\n")

	n, err := k.MatchStream(TagActionStmt, rd)
	assert.NoError(err)
	assert.Contains(n.String(), "10")
}

func Test_ActionStmt_StopWithCode(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("STOP 1\n")

	n, err := k.MatchStream(TagActionStmt, rd)
	assert.NoError(err)
	assert.Contains(n.String(), "STOP")
}

func Test_MainProgram_NameMismatchIsSyntaxError(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	src := "PROGRAM foo\nx = 1\nEND PROGRAM bar\n"
	rd := reader.New(src)

	_, err := k.MatchStream(TagMainProgram, rd)
	assert.Error(err)
	assert.False(ferrors.IsNoMatch(err))
}

func Test_MainProgram_MatchingNames(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	src := "PROGRAM foo\nx = 1\nEND PROGRAM foo\n"
	rd := reader.New(src)

	n, err := k.MatchStream(TagMainProgram, rd)
	assert.NoError(err)
	out := n.String()
	assert.Contains(out, "PROGRAM foo")
	assert.Contains(out, "x = 1")
	assert.Contains(out, "END PROGRAM foo")
}

func Test_SubroutineSubprogram_NoArgs(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	src := "SUBROUTINE foo()\nx = 1\nEND SUBROUTINE foo\n"
	rd := reader.New(src)

	n, err := k.MatchStream(TagSubroutineSubprogram, rd)
	assert.NoError(err)
	out := n.String()
	// an empty dummy-arg list re-emits without the parens
	assert.Contains(out, "SUBROUTINE foo\n")
	assert.Contains(out, "END SUBROUTINE foo")
}

func Test_SubroutineSubprogram_DummyArgsKeepParens(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	src := "SUBROUTINE foo(a, b)\nx = a\nEND SUBROUTINE foo\n"
	rd := reader.New(src)

	n, err := k.MatchStream(TagSubroutineSubprogram, rd)
	assert.NoError(err)
	assert.Contains(n.String(), "SUBROUTINE foo(a, b)")
}
