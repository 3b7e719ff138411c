package cstcache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/rule"
)

func sampleTree() *cst.Node {
	child := cst.New("Int", rule.KindTerminal, cst.LeafItem("42"))
	return cst.New("Wrapper", rule.KindBracketed, cst.NodeItem(child), cst.AbsentItem()).
		WithDelims("(", ")")
}

func Test_Cache_PutGetDelete(t *testing.T) {
	assert := assert.New(t)

	c := New()
	_, ok := c.Get("a.f90")
	assert.False(ok)

	tree := sampleTree()
	c.Put("a.f90", 128, tree)

	entry, ok := c.Get("a.f90")
	assert.True(ok)
	assert.Equal(int64(128), entry.Size)
	assert.True(tree.Equal(entry.Tree))

	c.Delete("a.f90")
	_, ok = c.Get("a.f90")
	assert.False(ok)
}

func Test_EncodeDecode_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	tree := sampleTree()
	data := Encode(tree)

	decoded, err := Decode(data)
	assert.NoError(err)
	assert.True(tree.Equal(decoded))
}

func Test_Decode_TrailingBytesErrors(t *testing.T) {
	assert := assert.New(t)

	tree := sampleTree()
	data := Encode(tree)

	_, err := Decode(append(data, 0xAB, 0xCD))
	assert.Error(err)
}

func Test_SaveLoadFile_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "tree.cache")

	tree := sampleTree()
	assert.NoError(SaveFile(path, tree))

	loaded, err := LoadFile(path)
	assert.NoError(err)
	assert.True(tree.Equal(loaded))
}

func Test_LoadFile_MissingFileErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadFile("/nonexistent/path/tree.cache")
	assert.Error(err)
}
