package rules2008

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
	"github.com/dekarrin/gofortran/rules2003"
)

// newF2008Kernel assembles the F2003 base plus this package's delta the
// same way the top-level fortran package does: the delta registry shadows
// overridden tags, everything else falls through to the base.
func newF2008Kernel() *match.Kernel {
	base := rule.NewRegistry()
	k := match.NewKernel(base)
	rules2003.Install(base, k)

	delta := rule.NewDelta(base)
	Install(delta, k)
	k.Rules = delta
	return k
}

func Test_DoTermActionStmt_ContinueRejectedByC816(t *testing.T) {
	assert := assert.New(t)
	k := newF2008Kernel()
	rd := reader.New("DO 10 i = 1, 5\nx = x + 1\n10 CONTINUE\n")

	_, err := k.MatchStream(rules2003.TagBlockLabelDoConstruct, rd)
	assert.Error(err, "CONTINUE may not terminate a labeled DO under F2008")
}

func Test_DoTermActionStmt_AssignmentTerminatorAccepted(t *testing.T) {
	assert := assert.New(t)
	k := newF2008Kernel()
	rd := reader.New("DO 10 i = 1, 5\n10 x = x + 1\n")

	n, err := k.MatchStream(rules2003.TagBlockLabelDoConstruct, rd)
	assert.NoError(err)
	assert.Contains(n.String(), "10  x = x + 1")
}

func Test_DoTermActionStmt_CallTerminatorAccepted(t *testing.T) {
	assert := assert.New(t)
	k := newF2008Kernel()
	rd := reader.New("DO 10 i = 1, 5\n10 CALL step(i)\n")

	n, err := k.MatchStream(rules2003.TagBlockLabelDoConstruct, rd)
	assert.NoError(err)
	assert.Contains(n.String(), "10  CALL step(i)")
}

func Test_DoTermActionStmt_PrintTerminatorAccepted(t *testing.T) {
	assert := assert.New(t)
	k := newF2008Kernel()
	rd := reader.New("DO 10 i = 1, 5\n10 PRINT *, i\n")

	n, err := k.MatchStream(rules2003.TagBlockLabelDoConstruct, rd)
	assert.NoError(err)
	assert.Contains(n.String(), "10  PRINT *, i")
}

func Test_DoTermActionStmt_ContinueStillAcceptedUnderBaseF2003(t *testing.T) {
	assert := assert.New(t)

	base := rule.NewRegistry()
	k := match.NewKernel(base)
	rules2003.Install(base, k)
	rd := reader.New("DO 10 i = 1, 5\n10 CONTINUE\n")

	n, err := k.MatchStream(rules2003.TagBlockLabelDoConstruct, rd)
	assert.NoError(err)
	assert.Contains(n.String(), "10  CONTINUE")
}
