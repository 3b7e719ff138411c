package ferrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NoMatch_IsNoMatch(t *testing.T) {
	assert := assert.New(t)

	err := NewNoMatch("Expr")
	assert.True(IsNoMatch(err))
	assert.Contains(err.Error(), "Expr")
}

func Test_IsNoMatch_FalseForOtherErrorKinds(t *testing.T) {
	assert := assert.New(t)

	assert.False(IsNoMatch(NewSyntaxError("f.f90", 1, 0, 1, "x", "Expr")))
	assert.False(IsNoMatch(NewInternalError("Expr", "boom")))
	assert.False(IsNoMatch(errors.New("plain error")))
	assert.False(IsNoMatch(nil))
}

func Test_SyntaxError_Location(t *testing.T) {
	assert := assert.New(t)

	err := NewSyntaxError("foo.f90", 12, 3, 9, "x = y +", "Expr")
	se, ok := err.(*SyntaxError)
	assert.True(ok)

	file, line, colStart, colEnd := se.Location()
	assert.Equal("foo.f90", file)
	assert.Equal(12, line)
	assert.Equal(3, colStart)
	assert.Equal(9, colEnd)
}

func Test_SyntaxError_ErrorMessageIncludesHint(t *testing.T) {
	assert := assert.New(t)

	err := NewSyntaxError("foo.f90", 12, 0, 0, "x = y +", "Expr")
	msg := err.Error()
	assert.Contains(msg, "foo.f90")
	assert.Contains(msg, "12")
	assert.Contains(msg, "x = y +")
	assert.Contains(msg, "Expr")
}

func Test_SyntaxError_NoFileOmitsFileFromMessage(t *testing.T) {
	assert := assert.New(t)

	err := NewSyntaxError("", 3, 0, 0, "bad", "")
	msg := err.Error()
	assert.NotContains(msg, ": at line")
	assert.Contains(msg, "at line 3")
}

func Test_InternalError_HasCorrelationID(t *testing.T) {
	assert := assert.New(t)

	err := NewInternalError("Program", "unreachable state")
	ie, ok := err.(*InternalError)
	assert.True(ok)
	assert.NotEmpty(ie.ID())
	assert.Contains(err.Error(), ie.ID())
	assert.Contains(err.Error(), "Program")
}

func Test_InternalError_DistinctCorrelationIDs(t *testing.T) {
	assert := assert.New(t)

	e1 := NewInternalError("A", "x").(*InternalError)
	e2 := NewInternalError("A", "x").(*InternalError)
	assert.NotEqual(e1.ID(), e2.ID())
}

func Test_NewInternalErrorf_FormatsMessage(t *testing.T) {
	assert := assert.New(t)

	err := NewInternalErrorf("Program", "expected %d items, got %d", 3, 5)
	assert.Contains(err.Error(), "expected 3 items, got 5")
}

func Test_WrapInternalError_UnwrapsToOriginal(t *testing.T) {
	assert := assert.New(t)

	original := errors.New("boom")
	wrapped := WrapInternalError("Program", original)
	assert.ErrorIs(wrapped, original)

	ie, ok := wrapped.(*InternalError)
	assert.True(ok)
	assert.Equal(original, ie.Unwrap())
}
