package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// buildArithKernel wires a minimal registry of Int / Add / Mul rules over
// stream-level statements of the form "NUM [+ NUM]" to exercise
// MatchStream's alternative-dispatch and backtracking.
func buildArithKernel() *Kernel {
	reg := rule.NewRegistry()
	reg.Register("Int", rule.Descriptor{Human: "integer literal", Kind: rule.KindTerminal})
	reg.Register("Stmt", rule.Descriptor{Human: "statement", Kind: rule.KindNone,
		Alternatives: []rule.Tag{"AddStmt", "PlainStmt"}})
	reg.Register("AddStmt", rule.Descriptor{Human: "add statement", Kind: rule.KindCustom})
	reg.Register("PlainStmt", rule.Descriptor{Human: "plain statement", Kind: rule.KindCustom})

	k := NewKernel(reg)

	k.RegisterStream("AddStmt", func(k *Kernel, rd *reader.Reader) (*cst.Node, error) {
		it := rd.Next()
		if it.Kind != reader.KindStatement {
			return nil, ferrors.NewNoMatch("AddStmt")
		}
		left, rest, err := matchInt(it.Text)
		if err != nil {
			return nil, ferrors.NewNoMatch("AddStmt")
		}
		trimmed := trimSpace(rest)
		if len(trimmed) == 0 || trimmed[0] != '+' {
			return nil, ferrors.NewNoMatch("AddStmt")
		}
		right, rest2, err := matchInt(trimSpace(trimmed[1:]))
		if err != nil || trimSpace(rest2) != "" {
			return nil, ferrors.NewNoMatch("AddStmt")
		}
		return cst.New("AddStmt", rule.KindBinaryOp, cst.NodeItem(left), cst.LeafItem("+"), cst.NodeItem(right)), nil
	})

	k.RegisterStream("PlainStmt", func(k *Kernel, rd *reader.Reader) (*cst.Node, error) {
		it := rd.Next()
		if it.Kind != reader.KindStatement {
			return nil, ferrors.NewNoMatch("PlainStmt")
		}
		node, rest, err := matchInt(it.Text)
		if err != nil || trimSpace(rest) != "" {
			return nil, ferrors.NewNoMatch("PlainStmt")
		}
		return node, nil
	})

	return k
}

func matchInt(s string) (*cst.Node, string, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return nil, s, ferrors.NewNoMatch("Int")
	}
	return cst.New("Int", rule.KindTerminal, cst.LeafItem(s[:i])), s[i:], nil
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t') {
		j--
	}
	return s[i:j]
}

func Test_Kernel_MatchString_UnregisteredTagIsInternalError(t *testing.T) {
	assert := assert.New(t)

	k := NewKernel(rule.NewRegistry())
	_, _, err := k.MatchString("Nonexistent", "42")
	var ie *ferrors.InternalError
	assert.ErrorAs(err, &ie)
}

func Test_Kernel_MatchStream_TriesAlternativesInOrder(t *testing.T) {
	assert := assert.New(t)

	k := buildArithKernel()
	rd := reader.New("1 + 2\n")
	n, err := k.MatchStream("Stmt", rd)
	assert.NoError(err)
	assert.Equal(rule.Tag("AddStmt"), n.Tag)
}

func Test_Kernel_MatchStream_FallsThroughToSecondAlternative(t *testing.T) {
	assert := assert.New(t)

	k := buildArithKernel()
	rd := reader.New("42\n")
	n, err := k.MatchStream("Stmt", rd)
	assert.NoError(err)
	assert.Equal(rule.Tag("Int"), n.Tag)
}

func Test_Kernel_MatchStream_RewindsOnFailedAlternative(t *testing.T) {
	assert := assert.New(t)

	k := buildArithKernel()
	rd := reader.New("42\n")
	cp := rd.Mark()
	_, err := k.MatchStream("Stmt", rd)
	assert.NoError(err)

	// replaying from the checkpoint must reproduce the exact same item
	// sequence: a failed AddStmt attempt must not have left the reader
	// advanced past item 0.
	rd.RewindTo(cp)
	n2, err2 := k.MatchStream("Stmt", rd)
	assert.NoError(err2)
	assert.Equal(rule.Tag("Int"), n2.Tag)
}

func Test_Kernel_MatchStream_AllAlternativesFailIsNoMatch(t *testing.T) {
	assert := assert.New(t)

	k := buildArithKernel()
	rd := reader.New("abc\n")
	_, err := k.MatchStream("Stmt", rd)
	assert.True(ferrors.IsNoMatch(err))
}

func Test_Kernel_ParseTop_SuccessReturnsNode(t *testing.T) {
	assert := assert.New(t)

	k := buildArithKernel()
	rd := reader.New("7 + 8\n")
	n, err := k.ParseTop("Stmt", rd)
	assert.NoError(err)
	assert.Equal(rule.Tag("AddStmt"), n.Tag)
}

func Test_Kernel_ParseTop_FailureYieldsSyntaxError(t *testing.T) {
	assert := assert.New(t)

	k := buildArithKernel()
	rd := reader.New("not_a_number\n", reader.WithFile("foo.f90"))
	_, err := k.ParseTop("Stmt", rd)
	var se *ferrors.SyntaxError
	if assert.ErrorAs(err, &se) {
		assert.Equal("foo.f90", se.File)
	}
}

func Test_Kernel_Labels_LazyAllocationIsStable(t *testing.T) {
	assert := assert.New(t)

	k := NewKernel(rule.NewRegistry())
	l1 := k.Labels()
	l1.Push(LabelEntry{Label: "10"})
	l2 := k.Labels()
	assert.Equal(1, l2.Len())
}

func Test_Kernel_DeepestHint_TracksFarthestAttempt(t *testing.T) {
	assert := assert.New(t)

	k := buildArithKernel()
	rd := reader.New("abc\n")
	_, _ = k.MatchStream("Stmt", rd)
	// both AddStmt and PlainStmt were attempted at position 0; the hint
	// should name one of the two leaf rules actually attempted there.
	hint := k.DeepestHint()
	assert.Contains([]rule.Tag{"AddStmt", "PlainStmt"}, hint)
}
