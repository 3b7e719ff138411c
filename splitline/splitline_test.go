package splitline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_TopLevelSplit(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		sep    string
		expect []string
	}{
		{
			name:   "plain comma list",
			input:  "a, b, c",
			sep:    ",",
			expect: []string{"a", "b", "c"},
		},
		{
			name:   "comma inside parens is not top level",
			input:  "foo(a, b), c",
			sep:    ",",
			expect: []string{"foo(a, b)", "c"},
		},
		{
			name:   "comma inside string literal is not top level",
			input:  `"a, b", c`,
			sep:    ",",
			expect: []string{`"a, b"`, "c"},
		},
		{
			name:   "nested parens",
			input:  "f(g(a, b), c), d",
			sep:    ",",
			expect: []string{"f(g(a, b), c)", "d"},
		},
		{
			name:   "single element",
			input:  "a",
			sep:    ",",
			expect: []string{"a"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			sp := New(tc.input)
			assert.Equal(tc.expect, sp.TopLevelSplit(tc.sep))
		})
	}
}

func Test_TopLevelIndex(t *testing.T) {
	assert := assert.New(t)

	sp := New(`foo(a = b) = "x = y"`)
	idx := sp.TopLevelIndex("=")
	assert.True(idx >= 0)
	assert.Equal("foo(a = b) ", sp.Restore(sp.Rewritten()[:idx]))
}

func Test_DoubledQuoteEscape(t *testing.T) {
	assert := assert.New(t)

	sp := New(`'it''s here', next`)
	pieces := sp.TopLevelSplit(",")
	assert.Equal([]string{`'it''s here'`, "next"}, pieces)
}

func Test_RestoreRoundTrip(t *testing.T) {
	assert := assert.New(t)

	input := `CALL foo(a, "b,c", (d, e))`
	sp := New(input)
	assert.Equal(input, sp.Restore(sp.Rewritten()))
}

func Test_UnbalancedParensLeftAsIs(t *testing.T) {
	assert := assert.New(t)

	sp := New("foo(a, b")
	assert.Equal("foo(a, b", sp.Rewritten())
}
