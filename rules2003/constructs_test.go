package rules2003

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/reader"
)

func Test_CaseConstruct_WithDefault(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("SELECT CASE (i)\nCASE (1)\nx = 1\nCASE DEFAULT\nx = 2\nEND SELECT\n")

	n, err := k.MatchStream(TagCaseConstruct, rd)
	assert.NoError(err)
	assert.Equal("SELECT CASE (i)\nCASE (1)\nx = 1\nCASE DEFAULT\nx = 2\nEND SELECT", n.String())
}

func Test_CaseConstruct_ValueRanges(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("SELECT CASE (n)\nCASE (1 : 5, 9)\nx = 1\nEND SELECT\n")

	n, err := k.MatchStream(TagCaseConstruct, rd)
	assert.NoError(err)
	assert.Equal("SELECT CASE (n)\nCASE (1 : 5, 9)\nx = 1\nEND SELECT", n.String())
}

func Test_CaseValueRange_OpenEnded(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()

	n, rest, err := k.MatchString(TagCaseValueRange, "5 :")
	assert.NoError(err)
	assert.Equal("", rest)
	assert.Equal("5 : ", n.String())
}

func Test_SelectTypeConstruct_Guards(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("SELECT TYPE (p => q)\nTYPE IS (INTEGER)\nx = 1\nCLASS DEFAULT\nx = 2\nEND SELECT\n")

	n, err := k.MatchStream(TagSelectTypeConstruct, rd)
	assert.NoError(err)
	assert.Equal("SELECT TYPE (p => q)\nTYPE IS (INTEGER)\nx = 1\nCLASS DEFAULT\nx = 2\nEND SELECT", n.String())
}

func Test_AssociateConstruct_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("ASSOCIATE (x => a + b)\ny = x\nEND ASSOCIATE\n")

	n, err := k.MatchStream(TagAssociateConstruct, rd)
	assert.NoError(err)
	assert.Equal("ASSOCIATE (x => a + b)\ny = x\nEND ASSOCIATE", n.String())
}

func Test_ForallConstruct_TripletAndMask(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("FORALL (i = 1 : n, a(i) .GT. 0)\nb(i) = a(i)\nEND FORALL\n")

	n, err := k.MatchStream(TagForallConstruct, rd)
	assert.NoError(err)
	assert.Equal("FORALL (i = 1 : n, a(i) .GT. 0)\nb(i) = a(i)\nEND FORALL", n.String())
}

func Test_ForallStmt_SingleStatement(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("FORALL (i = 1 : 5) a(i) = b(i)\n")

	n, err := k.MatchStream(TagForallStmt, rd)
	assert.NoError(err)
	assert.Equal("FORALL (i = 1 : 5) a(i) = b(i)", n.String())
}

func Test_ForallTripletSpec_WithStride(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()

	n, rest, err := k.MatchString(TagForallTripletSpec, "i = 1 : 10 : 2")
	assert.NoError(err)
	assert.Equal("", rest)
	assert.Equal("i = 1 : 10 : 2", n.String())
}

func Test_Module_WithContainsPart(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("MODULE mymod\nINTEGER :: x\nCONTAINS\nSUBROUTINE s()\nEND SUBROUTINE s\nEND MODULE mymod\n")

	n, err := k.MatchStream(TagModule, rd)
	assert.NoError(err)
	assert.Equal("MODULE mymod\nINTEGER :: x\nCONTAINS\nSUBROUTINE s\nEND SUBROUTINE s\nEND MODULE mymod", n.String())
}

func Test_Module_EndNameMismatch(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("MODULE mymod\nEND MODULE other\n")

	_, err := k.MatchStream(TagModule, rd)
	assert.Error(err)
	assert.False(ferrors.IsNoMatch(err))
}

func Test_UseStmt_Only(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("USE other, ONLY : a, b\n")

	n, err := k.MatchStream(TagUseStmt, rd)
	assert.NoError(err)
	assert.Equal("USE other, ONLY : a, b", n.String())
}

func Test_UseStmt_Bare(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("USE iso_c_binding\n")

	n, err := k.MatchStream(TagUseStmt, rd)
	assert.NoError(err)
	assert.Equal("USE iso_c_binding", n.String())
}

func Test_InterfaceBlock_ProcedureStmts(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("INTERFACE swap\nMODULE PROCEDURE sswap, dswap\nEND INTERFACE swap\n")

	n, err := k.MatchStream(TagInterfaceBlock, rd)
	assert.NoError(err)
	assert.Equal("INTERFACE swap\nMODULE PROCEDURE sswap, dswap\nEND INTERFACE swap", n.String())
}

func Test_InterfaceBlock_Body(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("INTERFACE\nSUBROUTINE ext(a)\nINTEGER :: a\nEND SUBROUTINE ext\nEND INTERFACE\n")

	n, err := k.MatchStream(TagInterfaceBlock, rd)
	assert.NoError(err)
	assert.Equal("INTERFACE\nSUBROUTINE ext(a)\nINTEGER :: a\nEND SUBROUTINE ext\nEND INTERFACE", n.String())
}

func Test_InterfaceBlock_GenericSpecMismatch(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("INTERFACE swap\nMODULE PROCEDURE sswap\nEND INTERFACE other\n")

	_, err := k.MatchStream(TagInterfaceBlock, rd)
	assert.Error(err)
	assert.False(ferrors.IsNoMatch(err))
}

func Test_GenericSpec_Operator(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()

	n, rest, err := k.MatchString(TagGenericSpec, "OPERATOR (.add.)")
	assert.NoError(err)
	assert.Equal("", rest)
	assert.Equal("OPERATOR(.ADD.)", n.String())
}

func Test_EnumDef_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("ENUM, BIND(C)\nENUMERATOR :: red = 1, blue\nEND ENUM\n")

	n, err := k.MatchStream(TagEnumDef, rd)
	assert.NoError(err)
	assert.Equal("ENUM, BIND(C)\nENUMERATOR :: red = 1, blue\nEND ENUM", n.String())
}

func Test_BlockData_NamedUnit(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("BLOCK DATA vals\nINTEGER :: x\nEND BLOCK DATA vals\n")

	n, err := k.MatchStream(TagBlockData, rd)
	assert.NoError(err)
	assert.Equal("BLOCK DATA vals\nINTEGER :: x\nEND BLOCK DATA vals", n.String())
}

func Test_OpenStmt_KeywordSpecs(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("OPEN(UNIT = 10, FILE = 'out.txt', STATUS = 'replace')\n")

	n, err := k.MatchStream(TagOpenStmt, rd)
	assert.NoError(err)
	assert.Equal("OPEN(UNIT = 10, FILE = 'out.txt', STATUS = 'replace')", n.String())
}

func Test_OpenStmt_UnknownKeywordRejected(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("OPEN(UNIT = 10, BOGUS = 1)\n")

	_, err := k.MatchStream(TagOpenStmt, rd)
	assert.Error(err)
	assert.True(ferrors.IsNoMatch(err))
}

func Test_CloseStmt_PositionalUnit(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("CLOSE(10)\n")

	n, err := k.MatchStream(TagCloseStmt, rd)
	assert.NoError(err)
	assert.Equal("CLOSE(10)", n.String())
}

func Test_InquireStmt_VariableSpecs(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("INQUIRE(UNIT = 10, EXIST = ex, OPENED = op)\n")

	n, err := k.MatchStream(TagInquireStmt, rd)
	assert.NoError(err)
	assert.Equal("INQUIRE(UNIT = 10, EXIST = ex, OPENED = op)", n.String())
}

func Test_BackspaceStmt_BareUnit(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("BACKSPACE 10\n")

	n, err := k.MatchStream(TagBackspaceStmt, rd)
	assert.NoError(err)
	assert.Equal("BACKSPACE 10", n.String())
}

func Test_EndfileStmt_TwoWordSpelling(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("END FILE (UNIT = 10)\n")

	n, err := k.MatchStream(TagEndfileStmt, rd)
	assert.NoError(err)
	assert.Equal("ENDFILE(UNIT = 10)", n.String())
}

func Test_FlushStmt_SpecList(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("FLUSH(UNIT = 6, IOSTAT = ios)\n")

	n, err := k.MatchStream(TagFlushStmt, rd)
	assert.NoError(err)
	assert.Equal("FLUSH(UNIT = 6, IOSTAT = ios)", n.String())
}

func Test_AllocateStmt_ObjectsAndOptions(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("ALLOCATE(a(10), b, STAT = ierr)\n")

	n, err := k.MatchStream(TagAllocateStmt, rd)
	assert.NoError(err)
	assert.Equal("ALLOCATE(a(10), b, STAT = ierr)", n.String())
}

func Test_AllocateStmt_ObjectAfterOptionRejected(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("ALLOCATE(STAT = ierr, a(10))\n")

	_, err := k.MatchStream(TagAllocateStmt, rd)
	assert.Error(err)
	assert.True(ferrors.IsNoMatch(err))
}

func Test_DeallocateStmt_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("DEALLOCATE(a, ERRMSG = msg)\n")

	n, err := k.MatchStream(TagDeallocateStmt, rd)
	assert.NoError(err)
	assert.Equal("DEALLOCATE(a, ERRMSG = msg)", n.String())
}

func Test_MainProgram0_EndOnly(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("x = 1\nEND\n")

	n, err := k.MatchStream(TagProgramUnit, rd)
	assert.NoError(err)
	assert.Equal(TagMainProgram0, n.Tag)
	assert.Equal("x = 1\nEND", n.String())
}

func Test_BlockLabelDo_SharedTerminator(t *testing.T) {
	assert := assert.New(t)
	k := newKernel()
	rd := reader.New("DO 20 i = 1, 5\nDO 20 j = 1, 5\nx = x + 1\n20 CONTINUE\n")

	n, err := k.MatchStream(TagBlockLabelDoConstruct, rd)
	assert.NoError(err)
	// the outer construct ends when the inner one consumes the shared
	// terminator; the terminator line appears once, inside the inner node
	assert.Equal(0, k.Labels().Len())
	assert.Contains(n.String(), "20  CONTINUE")
}
