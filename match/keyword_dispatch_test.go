package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/rule"
)

func Test_MatchKeywordArgs_PositionalPlusKeyword(t *testing.T) {
	assert := assert.New(t)

	k := newIntLiteralKernel()
	specs := []KeywordSpec{{Name: "IOSTAT", Value: "Int"}}
	n, rest, err := MatchKeywordArgs(k, "OpenStmt", specs, []rule.Tag{"Int"}, "10, IOSTAT=99")
	assert.NoError(err)
	assert.Equal("", rest)
	assert.Equal(2, len(n.Items))
}

func Test_MatchKeywordArgs_UnknownKeywordIsNoMatch(t *testing.T) {
	assert := assert.New(t)

	k := newIntLiteralKernel()
	specs := []KeywordSpec{{Name: "IOSTAT", Value: "Int"}}
	_, _, err := MatchKeywordArgs(k, "OpenStmt", specs, []rule.Tag{"Int"}, "10, BOGUS=99")
	assert.True(ferrors.IsNoMatch(err))
}

func Test_MatchKeywordArgs_ArrowIsNotKeywordValue(t *testing.T) {
	assert := assert.New(t)

	k := newIntLiteralKernel()
	specs := []KeywordSpec{{Name: "IOSTAT", Value: "Int"}}
	// "FOO=>1" should not parse as a keyword-value pair (=> is not =),
	// and FOO is not a valid positional Int either, so this must fail.
	_, _, err := MatchKeywordArgs(k, "OpenStmt", specs, nil, "FOO=>1")
	assert.True(ferrors.IsNoMatch(err))
}

func Test_MatchKeywordArgs_TooManyPositionalsIsNoMatch(t *testing.T) {
	assert := assert.New(t)

	k := newIntLiteralKernel()
	_, _, err := MatchKeywordArgs(k, "OpenStmt", nil, []rule.Tag{"Int"}, "1, 2")
	assert.True(ferrors.IsNoMatch(err))
}

func Test_MatchKeywordArgs_EmptyInputIsNoMatch(t *testing.T) {
	assert := assert.New(t)

	k := newIntLiteralKernel()
	_, _, err := MatchKeywordArgs(k, "OpenStmt", nil, []rule.Tag{"Int"}, "   ")
	assert.True(ferrors.IsNoMatch(err))
}

func Test_GenerateList_RegistersStringFn(t *testing.T) {
	assert := assert.New(t)

	k := newIntLiteralKernel()
	listTag := GenerateList(k.Rules, k, "Int", ",")

	n, rest, err := k.MatchString(listTag, "1,2,3")
	assert.NoError(err)
	assert.Equal("", rest)
	assert.Equal(3, len(n.Items))
}
