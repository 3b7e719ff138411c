package rules2003

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
	"github.com/dekarrin/gofortran/splitline"
)

// Tags for enumeration definitions (R460-R464). The only standard form of
// the opening statement is `ENUM, BIND(C)`.
const (
	TagEnumDefStmt       rule.Tag = "Enum_Def_Stmt"
	TagEnumerator        rule.Tag = "Enumerator"
	TagEnumeratorDefStmt rule.Tag = "Enumerator_Def_Stmt"
	TagEndEnumStmt       rule.Tag = "End_Enum_Stmt"
	TagEnumDef           rule.Tag = "Enum_Def"
)

func installEnum(reg *rule.Registry, k *match.Kernel) {
	reg.Register(TagEnumDefStmt, rule.Descriptor{Human: "enum-def statement (R461)", Kind: rule.KindTerminal})
	k.RegisterStream(TagEnumDefStmt, matchEnumDefStmt)

	reg.Register(TagEnumerator, rule.Descriptor{
		Human: "enumerator (R463)",
		Kind:  rule.KindSeparator,
		Sep:   " = ",
		Uses:  []rule.Tag{TagNamedConstant, TagIntExpr},
	})
	k.RegisterString(TagEnumerator, matchEnumerator)
	match.GenerateList(reg, k, TagEnumerator, ",")

	reg.Register(TagEnumeratorDefStmt, rule.Descriptor{Human: "enumerator-def statement (R462)", Kind: rule.KindCustom, Uses: []rule.Tag{TagEnumerator}})
	k.RegisterStream(TagEnumeratorDefStmt, matchEnumeratorDefStmt)

	reg.Register(TagEndEnumStmt, rule.Descriptor{Human: "end-enum statement (R464)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndEnumStmt, func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		return matchGenericEndStmt(rd, TagEndEnumStmt, "ENUM")
	})

	reg.Register(TagEnumDef, rule.Descriptor{
		Human: "enum definition (R460)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagEnumDefStmt, TagEnumeratorDefStmt, TagEndEnumStmt},
	})
	k.RegisterStream(TagEnumDef, func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		return match.MatchBlock(k, TagEnumDef, TagEnumDefStmt,
			[]rule.Tag{TagEnumeratorDefStmt},
			TagEndEnumStmt, nil, nil, rd)
	})
}

// matchEnumDefStmt matches R461's single form: `ENUM, BIND(C)`.
func matchEnumDefStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagEnumDefStmt))
	}
	return matchWholeStatement(string(TagEnumDefStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "ENUM")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagEnumDefStmt))
		}
		for _, step := range []struct {
			lit     string
			keyword bool
		}{{",", false}, {"BIND", true}, {"(", false}, {"C", true}, {")", false}} {
			if step.keyword {
				rest, ok = match.MatchKeyword(rest, step.lit)
			} else {
				rest, ok = match.MatchLiteral(rest, step.lit)
			}
			if !ok {
				return nil, text, ferrors.NewNoMatch(string(TagEnumDefStmt))
			}
		}
		n := cst.New(TagEnumDefStmt, rule.KindTerminal, cst.LeafItem("ENUM, BIND(C)"))
		return withSource(n, it), rest, nil
	})
}

// matchEnumerator matches R463: `named-constant [ = scalar-int-initialization-expr ]`.
func matchEnumerator(k *match.Kernel, s string) (*cst.Node, string, error) {
	sp := splitline.New(strings.TrimSpace(s))
	rewritten := sp.Rewritten()
	idx := strings.Index(rewritten, "=")
	if idx < 0 {
		return k.MatchString(TagNamedConstant, s)
	}

	nameText := sp.Restore(rewritten[:idx])
	valueText := sp.Restore(rewritten[idx+1:])
	name, nameRest, err := k.MatchString(TagNamedConstant, nameText)
	if err != nil || strings.TrimSpace(nameRest) != "" {
		return nil, s, ferrors.NewNoMatch(string(TagEnumerator))
	}
	value, valueRest, err := k.MatchString(TagIntExpr, valueText)
	if err != nil || strings.TrimSpace(valueRest) != "" {
		return nil, s, ferrors.NewNoMatch(string(TagEnumerator))
	}

	n := cst.New(TagEnumerator, rule.KindSeparator, cst.NodeItem(name), cst.NodeItem(value)).WithSep(" = ")
	return n, "", nil
}

// matchEnumeratorDefStmt matches R462: `ENUMERATOR [::] enumerator-list`.
func matchEnumeratorDefStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagEnumeratorDefStmt))
	}
	return matchWholeStatement(string(TagEnumeratorDefStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "ENUMERATOR")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagEnumeratorDefStmt))
		}
		if afterSep, hasSep := match.MatchLiteral(rest, "::"); hasSep {
			rest = afterSep
		}
		listTag := TagEnumerator + "_List"
		enums, tail, err := k.MatchString(listTag, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagEnumeratorDefStmt))
		}
		n := cst.New(TagEnumeratorDefStmt, rule.KindCustom, cst.NodeItem(enums)).
			WithRender(func(n *cst.Node) string { return "ENUMERATOR :: " + n.Child(0).String() })
		return withSource(n, it), tail, nil
	})
}
