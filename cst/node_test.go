package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gofortran/rule"
)

func Test_String_KindTerminal(t *testing.T) {
	assert := assert.New(t)

	n := New("Name", rule.KindTerminal, LeafItem("foo"))
	assert.Equal("foo", n.String())
}

func Test_String_KindNumber(t *testing.T) {
	assert := assert.New(t)

	withKind := New("IntLiteralConstant", rule.KindNumber, LeafItem("42"), LeafItem("dp"))
	assert.Equal("42_dp", withKind.String())

	noKind := New("IntLiteralConstant", rule.KindNumber, LeafItem("42"), AbsentItem())
	assert.Equal("42", noKind.String())
}

func Test_String_KindBracketed(t *testing.T) {
	assert := assert.New(t)

	inner := New("Int", rule.KindTerminal, LeafItem("7"))
	n := New("KindSelector", rule.KindBracketed, NodeItem(inner)).WithDelims("(", ")")
	assert.Equal("(7)", n.String())
}

func Test_String_KindWordPayload(t *testing.T) {
	assert := assert.New(t)

	payload := New("Name", rule.KindTerminal, LeafItem("total"))
	n := New("GotoStmt", rule.KindWordPayload, LeafItem("GOTO"), NodeItem(payload))
	assert.Equal("GOTO total", n.String())

	bare := New("ContinueStmt", rule.KindWordPayload, LeafItem("CONTINUE"), AbsentItem())
	assert.Equal("CONTINUE", bare.String())
}

func Test_String_KindCall(t *testing.T) {
	assert := assert.New(t)

	head := New("Name", rule.KindTerminal, LeafItem("foo"))
	args := New("Expr_List", rule.KindSequence, LeafItem("a"), LeafItem("b")).WithSep(", ")
	n := New("FunctionReference", rule.KindCall, NodeItem(head), NodeItem(args))
	assert.Equal("foo(a, b)", n.String())
}

func Test_String_KindBinaryOp(t *testing.T) {
	assert := assert.New(t)

	lhs := New("Int", rule.KindTerminal, LeafItem("1"))
	rhs := New("Int", rule.KindTerminal, LeafItem("2"))
	n := New("Level2Expr", rule.KindBinaryOp, NodeItem(lhs), LeafItem("+"), NodeItem(rhs))
	assert.Equal("1 + 2", n.String())
}

func Test_String_KindUnaryOp(t *testing.T) {
	assert := assert.New(t)

	operand := New("Int", rule.KindTerminal, LeafItem("1"))
	n := New("Level2Expr", rule.KindUnaryOp, LeafItem("-"), NodeItem(operand))
	assert.Equal("-1", n.String())
}

func Test_String_KindSeparator_BothSidesPresent(t *testing.T) {
	assert := assert.New(t)

	a := New("Name", rule.KindTerminal, LeafItem("mod"))
	b := New("Name", rule.KindTerminal, LeafItem("sub"))
	n := New("PartRef", rule.KindSeparator, NodeItem(a), NodeItem(b)).WithSep("%")
	assert.Equal("mod%sub", n.String())
}

func Test_String_KindSequence(t *testing.T) {
	assert := assert.New(t)

	n := New("Int_List", rule.KindSequence, LeafItem("1"), LeafItem("2"), LeafItem("3")).WithSep(", ")
	assert.Equal("1, 2, 3", n.String())
}

func Test_String_KindKeywordValue(t *testing.T) {
	assert := assert.New(t)

	val := New("Int", rule.KindTerminal, LeafItem("99"))
	n := New("IostatSpec", rule.KindKeywordValue, LeafItem("IOSTAT"), NodeItem(val))
	assert.Equal("IOSTAT = 99", n.String())
}

func Test_String_KindEndStatement(t *testing.T) {
	assert := assert.New(t)

	full := New("EndProgramStmt", rule.KindEndStatement, LeafItem("PROGRAM"),
		NodeItem(New("Name", rule.KindTerminal, LeafItem("foo"))))
	assert.Equal("END PROGRAM foo", full.String())

	bare := New("EndProgramStmt", rule.KindEndStatement, AbsentItem(), AbsentItem())
	assert.Equal("END", bare.String())
}

func Test_String_KindBlock(t *testing.T) {
	assert := assert.New(t)

	head := New("IfThenStmt", rule.KindTerminal, LeafItem("IF (x) THEN"))
	tail := New("EndIfStmt", rule.KindTerminal, LeafItem("END IF"))
	n := New("IfConstruct", rule.KindBlock, NodeItem(head), NodeItem(tail))
	assert.Equal("IF (x) THEN\nEND IF", n.String())
}

func Test_String_KindCustom_WithRenderOverride(t *testing.T) {
	assert := assert.New(t)

	n := New("KindSelector", rule.KindCustom).WithRender(func(n *Node) string {
		return "*8"
	})
	assert.Equal("*8", n.String())
}

func Test_String_NilNode(t *testing.T) {
	assert := assert.New(t)

	var n *Node
	assert.Equal("", n.String())
}

func Test_Copy_IsDeep(t *testing.T) {
	assert := assert.New(t)

	child := New("Int", rule.KindTerminal, LeafItem("1"))
	orig := New("Wrapper", rule.KindNone, NodeItem(child))

	cp := orig.Copy()
	assert.True(orig.Equal(cp))

	// mutating the copy's child must not affect the original
	cp.Items[0].child.Items[0] = LeafItem("999")
	assert.Equal("1", orig.Child(0).Leaf(0))
}

func Test_Equal_SameShapeDifferentInstances(t *testing.T) {
	assert := assert.New(t)

	a := New("Int", rule.KindTerminal, LeafItem("42"))
	b := New("Int", rule.KindTerminal, LeafItem("42"))
	assert.True(a.Equal(b))
	assert.True(a.Equal(*b))
}

func Test_Equal_DifferentTag(t *testing.T) {
	assert := assert.New(t)

	a := New("Int", rule.KindTerminal, LeafItem("42"))
	b := New("Real", rule.KindTerminal, LeafItem("42"))
	assert.False(a.Equal(b))
}

func Test_Equal_DifferentLeaf(t *testing.T) {
	assert := assert.New(t)

	a := New("Int", rule.KindTerminal, LeafItem("42"))
	b := New("Int", rule.KindTerminal, LeafItem("43"))
	assert.False(a.Equal(b))
}

func Test_Equal_AbsentMismatch(t *testing.T) {
	assert := assert.New(t)

	a := New("Stmt", rule.KindWordPayload, LeafItem("STOP"), AbsentItem())
	b := New("Stmt", rule.KindWordPayload, LeafItem("STOP"), NodeItem(New("Int", rule.KindTerminal, LeafItem("1"))))
	assert.False(a.Equal(b))
}

func Test_Equal_NotANode(t *testing.T) {
	assert := assert.New(t)

	a := New("Int", rule.KindTerminal, LeafItem("42"))
	assert.False(a.Equal("not a node"))
}

func Test_Equal_BothNil(t *testing.T) {
	assert := assert.New(t)

	var a, b *Node
	assert.True(a.Equal(b))
}
