package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_LabelStack_PushAndTop(t *testing.T) {
	assert := assert.New(t)

	s := NewLabelStack()
	assert.True(s.Empty())

	s.Push(LabelEntry{Label: "10", ConstructName: "outer"})
	assert.False(s.Empty())
	assert.Equal(1, s.Len())

	top, ok := s.Top()
	assert.True(ok)
	assert.Equal("10", top.Label)
}

func Test_LabelStack_Top_EmptyStack(t *testing.T) {
	assert := assert.New(t)

	s := NewLabelStack()
	_, ok := s.Top()
	assert.False(ok)
}

func Test_LabelStack_PopMatching_SharedTerminator(t *testing.T) {
	assert := assert.New(t)

	s := NewLabelStack()
	s.Push(LabelEntry{Label: "20"})
	s.Push(LabelEntry{Label: "10"})
	s.Push(LabelEntry{Label: "10"})

	popped := s.PopMatching("10")
	assert.Equal(2, len(popped))
	assert.Equal(1, s.Len())

	top, ok := s.Top()
	assert.True(ok)
	assert.Equal("20", top.Label)
}

func Test_LabelStack_PopMatching_NoMatchLeavesStackIntact(t *testing.T) {
	assert := assert.New(t)

	s := NewLabelStack()
	s.Push(LabelEntry{Label: "30"})

	popped := s.PopMatching("99")
	assert.Nil(popped)
	assert.Equal(1, s.Len())
}

func Test_LabelStack_PopMatching_StopsAtFirstNonMatch(t *testing.T) {
	assert := assert.New(t)

	s := NewLabelStack()
	s.Push(LabelEntry{Label: "10"})
	s.Push(LabelEntry{Label: "20"})

	popped := s.PopMatching("20")
	assert.Equal(1, len(popped))
	assert.Equal("20", popped[0].Label)
	assert.Equal(1, s.Len())
}
