package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// buildBlockKernel wires a toy IF-like block: "START name", zero or more
// "MID" lines, "END name", to exercise MatchBlock's state machine and name
// enforcement without depending on rules2003.
func buildBlockKernel() *Kernel {
	reg := rule.NewRegistry()
	reg.Register("Start", rule.Descriptor{Kind: rule.KindCustom})
	reg.Register("Mid", rule.Descriptor{Kind: rule.KindCustom})
	reg.Register("End", rule.Descriptor{Kind: rule.KindCustom})
	reg.Register("Block", rule.Descriptor{Kind: rule.KindBlock})

	k := NewKernel(reg)

	k.RegisterStream("Start", func(k *Kernel, rd *reader.Reader) (*cst.Node, error) {
		it := rd.Next()
		if it.Kind != reader.KindStatement || len(it.Text) < 6 || it.Text[:6] != "START " {
			return nil, ferrors.NewNoMatch("Start")
		}
		name := it.Text[6:]
		return cst.New("Start", rule.KindWordPayload, cst.LeafItem("START"), cst.LeafItem(name)), nil
	})

	k.RegisterStream("Mid", func(k *Kernel, rd *reader.Reader) (*cst.Node, error) {
		it := rd.Next()
		if it.Kind != reader.KindStatement || it.Text != "MID" {
			return nil, ferrors.NewNoMatch("Mid")
		}
		return cst.New("Mid", rule.KindTerminal, cst.LeafItem("MID")), nil
	})

	k.RegisterStream("End", func(k *Kernel, rd *reader.Reader) (*cst.Node, error) {
		it := rd.Next()
		if it.Kind != reader.KindStatement || len(it.Text) < 4 || it.Text[:4] != "END " {
			return nil, ferrors.NewNoMatch("End")
		}
		name := it.Text[4:]
		return cst.New("End", rule.KindWordPayload, cst.LeafItem("END"), cst.LeafItem(name)), nil
	})

	k.RegisterStream("Block", func(k *Kernel, rd *reader.Reader) (*cst.Node, error) {
		startName := func(n *cst.Node) string { return n.Leaf(1) }
		endName := func(n *cst.Node) string { return n.Leaf(1) }
		return MatchBlock(k, "Block", "Start", []rule.Tag{"Mid"}, "End", startName, endName, rd)
	})

	return k
}

func Test_MatchBlock_SimpleConstruct(t *testing.T) {
	assert := assert.New(t)

	k := buildBlockKernel()
	rd := reader.New("START loop\nMID\nMID\nEND loop\n")
	n, err := k.MatchStream("Block", rd)
	assert.NoError(err)
	assert.Equal(rule.KindBlock, n.Kind)
	// head, two middles, tail
	assert.Equal(4, len(n.Items))
}

func Test_MatchBlock_NoMiddleConstructs(t *testing.T) {
	assert := assert.New(t)

	k := buildBlockKernel()
	rd := reader.New("START loop\nEND loop\n")
	n, err := k.MatchStream("Block", rd)
	assert.NoError(err)
	assert.Equal(2, len(n.Items))
}

func Test_MatchBlock_NameMismatchIsSyntaxError(t *testing.T) {
	assert := assert.New(t)

	k := buildBlockKernel()
	rd := reader.New("START loop\nEND other\n")
	_, err := k.MatchStream("Block", rd)
	var se *ferrors.SyntaxError
	assert.ErrorAs(err, &se)
}

func Test_MatchBlock_MissingEndIsSyntaxErrorNotNoMatch(t *testing.T) {
	assert := assert.New(t)

	k := buildBlockKernel()
	rd := reader.New("START loop\nMID\n")
	_, err := k.MatchStream("Block", rd)
	assert.Error(err)
	assert.False(ferrors.IsNoMatch(err), "running out of input mid-construct must not look like a plain no-match")
}

func Test_MatchBlock_StartNotMatchedIsNoMatch(t *testing.T) {
	assert := assert.New(t)

	k := buildBlockKernel()
	rd := reader.New("NOT_START x\n")
	_, err := k.MatchStream("Block", rd)
	assert.True(ferrors.IsNoMatch(err))
}

func Test_MatchBlockHooks_CaseDividerAdmitted(t *testing.T) {
	assert := assert.New(t)

	k := buildBlockKernel()
	k.Rules.Register("Case_Stmt", rule.Descriptor{Kind: rule.KindCustom})
	k.RegisterStream("Case_Stmt", func(k *Kernel, rd *reader.Reader) (*cst.Node, error) {
		it := rd.Next()
		if it.Kind != reader.KindStatement || it.Text != "DIVIDE" {
			return nil, ferrors.NewNoMatch("Case_Stmt")
		}
		return cst.New("Case_Stmt", rule.KindTerminal, cst.LeafItem("DIVIDE")), nil
	})
	k.Rules.Register("Hooked", rule.Descriptor{Kind: rule.KindBlock})
	k.RegisterStream("Hooked", func(k *Kernel, rd *reader.Reader) (*cst.Node, error) {
		return MatchBlockHooks(k, "Hooked", "Start", []rule.Tag{"Mid"}, "End",
			nil, nil, Hooks{EnableCaseConstruct: true}, rd)
	})

	rd := reader.New("START s\nDIVIDE\nMID\nEND s\n")
	n, err := k.MatchStream("Hooked", rd)
	assert.NoError(err)
	// head, divider, middle, tail
	assert.Equal(4, len(n.Items))
}

func Test_MatchBlockHooks_DividerOffWithoutHook(t *testing.T) {
	assert := assert.New(t)

	k := buildBlockKernel()
	rd := reader.New("START s\nDIVIDE\nEND s\n")
	_, err := k.MatchStream("Block", rd)
	// without the hook the DIVIDE line matches nothing and the construct
	// cannot reach its END statement
	assert.Error(err)
}

func Test_MatchBlock_RewindsOnFailure(t *testing.T) {
	assert := assert.New(t)

	k := buildBlockKernel()
	rd := reader.New("NOT_START x\n")
	cp := rd.Mark()
	_, err := k.MatchStream("Block", rd)
	assert.Error(err)
	assert.Equal(cp, rd.Mark())
}
