package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gofortran/rule"
)

func Test_MarshalUnmarshalBinary_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	child := New("Int", rule.KindTerminal, LeafItem("42"))
	orig := New("Wrapper", rule.KindBracketed, NodeItem(child), AbsentItem()).
		WithDelims("(", ")").WithSep(" :: ")

	data, err := orig.MarshalBinary()
	assert.NoError(err)

	var decoded Node
	err = decoded.UnmarshalBinary(data)
	assert.NoError(err)

	assert.True(orig.Equal(&decoded))
	assert.Equal(orig.String(), decoded.String())
}

func Test_MarshalUnmarshalBinary_NilNode(t *testing.T) {
	assert := assert.New(t)

	var orig *Node
	data, err := orig.MarshalBinary()
	assert.NoError(err)

	decoded := &Node{Tag: "placeholder"}
	err = decoded.UnmarshalBinary(data)
	assert.NoError(err)
	assert.Equal(Node{}, *decoded)
}

func Test_UnmarshalBinary_TruncatedDataErrors(t *testing.T) {
	assert := assert.New(t)

	var n Node
	err := n.UnmarshalBinary([]byte{0x00, 0x00})
	assert.Error(err)
}

func Test_UnmarshalBinary_TrailingBytesErrors(t *testing.T) {
	assert := assert.New(t)

	leaf := New("Int", rule.KindTerminal, LeafItem("1"))
	data, err := leaf.MarshalBinary()
	assert.NoError(err)

	var n Node
	err = n.UnmarshalBinary(append(data, 0xFF))
	assert.Error(err)
}

func Test_MarshalUnmarshalBinary_DeeplyNested(t *testing.T) {
	assert := assert.New(t)

	leaf1 := New("Int", rule.KindTerminal, LeafItem("1"))
	leaf2 := New("Int", rule.KindTerminal, LeafItem("2"))
	list := New("Int_List", rule.KindSequence, NodeItem(leaf1), NodeItem(leaf2)).WithSep(", ")
	outer := New("FunctionReference", rule.KindCall,
		NodeItem(New("Name", rule.KindTerminal, LeafItem("foo"))), NodeItem(list))

	data, err := outer.MarshalBinary()
	assert.NoError(err)

	var decoded Node
	assert.NoError(decoded.UnmarshalBinary(data))
	assert.True(outer.Equal(&decoded))
	assert.Equal("foo(1, 2)", decoded.String())
}
