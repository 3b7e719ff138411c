package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Registry_RegisterAndGet(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	reg.Register("Foo", Descriptor{Human: "foo", Kind: KindTerminal})

	d, ok := reg.Get("Foo")
	assert.True(ok)
	assert.Equal("foo", d.Human)
	assert.Equal(KindTerminal, d.Kind)
}

func Test_Registry_Get_UnknownTag(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	_, ok := reg.Get("Nonexistent")
	assert.False(ok)
}

func Test_Registry_MustGet_PanicsOnUnknownTag(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	assert.Panics(func() {
		reg.MustGet("Nonexistent")
	})
}

func Test_Registry_Register_CopiesDescriptor(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	d := Descriptor{Human: "foo", Alternatives: []Tag{"A", "B"}}
	reg.Register("Foo", d)

	// mutating the caller's copy must not affect the stored descriptor
	d.Human = "mutated"
	got := reg.MustGet("Foo")
	assert.Equal("foo", got.Human)
}

func Test_Registry_NewDelta_FallsThroughToParent(t *testing.T) {
	assert := assert.New(t)

	base := NewRegistry()
	base.Register("ActionStmt", Descriptor{Human: "action statement", Kind: KindNone,
		Alternatives: []Tag{"GotoStmt", "StopStmt"}})
	base.Register("ProgramUnit", Descriptor{Human: "program unit", Kind: KindNone,
		Alternatives: []Tag{"MainProgram"}})

	delta := NewDelta(base)

	// unset tag on the delta falls through to the base
	d, ok := delta.Get("ActionStmt")
	assert.True(ok)
	assert.Equal("action statement", d.Human)
	assert.Equal([]Tag{"GotoStmt", "StopStmt"}, d.Alternatives)
}

func Test_Registry_NewDelta_OverridesWinOverParent(t *testing.T) {
	assert := assert.New(t)

	base := NewRegistry()
	base.Register("ProgramUnit", Descriptor{Human: "program unit", Kind: KindNone,
		Alternatives: []Tag{"MainProgram"}})

	delta := NewDelta(base)
	delta.Register("ProgramUnit", Descriptor{Human: "program unit", Kind: KindNone,
		Alternatives: []Tag{"MainProgram", "Submodule"}})

	d, ok := delta.Get("ProgramUnit")
	assert.True(ok)
	assert.Equal([]Tag{"MainProgram", "Submodule"}, d.Alternatives)

	// the base registry itself is untouched
	baseD, ok := base.Get("ProgramUnit")
	assert.True(ok)
	assert.Equal([]Tag{"MainProgram"}, baseD.Alternatives)
}

func Test_Registry_NewDelta_TagsOnlyListsOwnEntries(t *testing.T) {
	assert := assert.New(t)

	base := NewRegistry()
	base.Register("A", Descriptor{})
	base.Register("B", Descriptor{})

	delta := NewDelta(base)
	delta.Register("C", Descriptor{})

	tags := delta.Tags()
	assert.ElementsMatch([]Tag{"C"}, tags)

	baseTags := base.Tags()
	assert.ElementsMatch([]Tag{"A", "B"}, baseTags)
}

func Test_GenerateList(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	reg.Register("Expr", Descriptor{Human: "expression", Kind: KindTerminal})

	tag := GenerateList(reg, "Expr", ",")
	assert.Equal(Tag("Expr_List"), tag)

	d, ok := reg.Get(tag)
	assert.True(ok)
	assert.Equal(KindSequence, d.Kind)
	assert.Equal(",", d.Sep)
	assert.Equal([]Tag{"Expr"}, d.Uses)
}

func Test_GenerateList_DifferentSeparator(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	reg.Register("PartRef", Descriptor{Human: "part ref", Kind: KindTerminal})

	tag := GenerateList(reg, "PartRef", "%")
	d := reg.MustGet(tag)
	assert.Equal("%", d.Sep)
}

func Test_GenerateName(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	reg.Register("Name", Descriptor{Human: "name", Kind: KindTerminal})

	tag := GenerateName(reg, "Program")
	assert.Equal(Tag("Program_Name"), tag)

	d := reg.MustGet(tag)
	assert.Equal(KindNone, d.Kind)
	assert.Equal([]Tag{"Name"}, d.Alternatives)
}

func Test_GenerateScalar(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	reg.Register("IntExpr", Descriptor{Human: "int expr", Kind: KindNone})

	tag := GenerateScalar(reg, "IntExpr")
	assert.Equal(Tag("Scalar_IntExpr"), tag)

	d := reg.MustGet(tag)
	assert.Equal(KindNone, d.Kind)
	assert.Equal([]Tag{"IntExpr"}, d.Alternatives)
}

func Test_NewClass(t *testing.T) {
	assert := assert.New(t)

	c := NewClass("Name", "identifier")
	assert.Equal("Name", c.ID())
	assert.Equal("identifier", c.Human())
}
