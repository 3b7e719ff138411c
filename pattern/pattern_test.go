package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Name(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect bool
	}{
		{name: "simple identifier", input: "foo", expect: true},
		{name: "leading underscore rejected", input: "_foo", expect: false},
		{name: "digits and underscore allowed after first letter", input: "a1_b2", expect: true},
		{name: "surrounding whitespace tolerated", input: "  foo  ", expect: true},
		{name: "bare digit rejected", input: "1foo", expect: false},
		{name: "empty rejected", input: "", expect: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, Name.MatchString(tc.input))
		})
	}
}

func Test_Label(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect bool
	}{
		{name: "single digit", input: "1", expect: true},
		{name: "five digits", input: "12345", expect: true},
		{name: "six digits rejected", input: "123456", expect: false},
		{name: "zero is a valid label", input: "0", expect: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, Label.MatchString(tc.input))
		})
	}
}

func Test_IntLiteralConstant(t *testing.T) {
	assert := assert.New(t)

	assert.True(IntLiteralConstant.MatchString("42"))
	assert.True(IntLiteralConstant.MatchString("42_dp"))
	assert.False(IntLiteralConstant.MatchString("-42")) // unsigned only
	assert.False(IntLiteralConstant.MatchString("4.2"))
}

func Test_SignedIntLiteralConstant(t *testing.T) {
	assert := assert.New(t)

	assert.True(SignedIntLiteralConstant.MatchString("-42"))
	assert.True(SignedIntLiteralConstant.MatchString("+42"))
	assert.True(SignedIntLiteralConstant.MatchString("42"))
}

func Test_RealLiteralConstant(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect bool
	}{
		{name: "plain decimal", input: "3.14", expect: true},
		{name: "trailing dot", input: "3.", expect: true},
		{name: "leading dot", input: ".14", expect: true},
		{name: "exponent form", input: "3.14E10", expect: true},
		{name: "double precision exponent", input: "3.14D0", expect: true},
		{name: "digit-string exponent with no dot", input: "3E10", expect: true},
		{name: "kind suffix", input: "3.14_dp", expect: true},
		{name: "bare integer rejected", input: "314", expect: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, RealLiteralConstant.MatchString(tc.input))
		})
	}
}

func Test_LogicalLiteralConstant(t *testing.T) {
	assert := assert.New(t)

	assert.True(LogicalLiteralConstant.MatchString(".TRUE."))
	assert.True(LogicalLiteralConstant.MatchString(".false."))
	assert.True(LogicalLiteralConstant.MatchString(".TRUE._lk"))
	assert.False(LogicalLiteralConstant.MatchString("TRUE"))
}

func Test_BozLiteralConstants(t *testing.T) {
	assert := assert.New(t)

	assert.True(BinaryConstant.MatchString("B'0101'"))
	assert.True(OctalConstant.MatchString(`O"017"`))
	assert.True(HexConstant.MatchString("Z'FF'"))
	assert.False(BinaryConstant.MatchString("B'0102'"))
}

func Test_RelOp(t *testing.T) {
	testCases := []string{".EQ.", ".eq.", "==", "/=", "<=", ">=", "<", ">", ".LT.", ".GE."}
	assert := assert.New(t)
	for _, op := range testCases {
		assert.True(RelOp.MatchString(op), "expected %q to match RelOp", op)
	}
	assert.False(RelOp.MatchString("="))
}

func Test_KindSelectorForm(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		wantParen  string
		wantStar   string
	}{
		{name: "KIND= form", input: "(KIND=8)", wantParen: "8"},
		{name: "bare paren form", input: "(8)", wantParen: "8"},
		{name: "star form", input: "*8", wantStar: "8"},
		{name: "named kind param", input: "(KIND=dp)", wantParen: "dp"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			m := KindSelectorForm.FindStringSubmatch(tc.input)
			if !assert.NotNil(m) {
				return
			}
			names := KindSelectorForm.SubexpNames()
			got := map[string]string{}
			for i, n := range names {
				if n != "" {
					got[n] = m[i]
				}
			}
			if tc.wantParen != "" {
				assert.Equal(tc.wantParen, got["paren_value"])
			}
			if tc.wantStar != "" {
				assert.Equal(tc.wantStar, got["star_value"])
			}
		})
	}
}

func Test_MatchComposite(t *testing.T) {
	assert := assert.New(t)

	c, ok := MatchComposite(KindSelectorForm, "(KIND=8)")
	assert.True(ok)
	v, ok := c.Group("paren_value")
	assert.True(ok)
	assert.Equal("8", v)

	_, ok = MatchComposite(KindSelectorForm, "not a kind selector")
	assert.False(ok)
}

func Test_CharLiteralPrefix(t *testing.T) {
	assert := assert.New(t)

	m := CharLiteralPrefix.FindStringSubmatch(`nondefaultchar_"hello"`)
	if assert.NotNil(m) {
		assert.Equal("nondefaultchar", m[1])
	}

	assert.Nil(CharLiteralPrefix.FindStringSubmatch(`"hello"`))
}
