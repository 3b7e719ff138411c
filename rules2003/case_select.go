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

// Tags for the CASE (R808-R814) and SELECT TYPE (R821-R824) constructs. Both
// are plain head/dividers/end blocks; what distinguishes them from the
// IF/WHERE family is that their divider statements (CASE, TYPE IS) are only
// meaningful inside the construct, which is exactly what the block matcher's
// case/select-type hooks admit.
const (
	TagSelectCaseStmt     rule.Tag = "Select_Case_Stmt"
	TagCaseStmt           rule.Tag = "Case_Stmt"
	TagCaseValueRange     rule.Tag = "Case_Value_Range"
	TagEndSelectStmt      rule.Tag = "End_Select_Stmt"
	TagCaseConstruct      rule.Tag = "Case_Construct"
	TagSelectTypeStmt     rule.Tag = "Select_Type_Stmt"
	TagTypeGuardStmt      rule.Tag = "Type_Guard_Stmt"
	TagEndSelectTypeStmt  rule.Tag = "End_Select_Type_Stmt"
	TagSelectTypeConstruct rule.Tag = "Select_Type_Construct"
)

func installCaseAndSelectType(reg *rule.Registry, k *match.Kernel) {
	reg.Register(TagCaseValueRange, rule.Descriptor{
		Human: "case value range (R814)",
		Kind:  rule.KindSeparator,
		Sep:   " : ",
		Uses:  []rule.Tag{TagExpr},
	})
	k.RegisterString(TagCaseValueRange, matchCaseValueRange)
	match.GenerateList(reg, k, TagCaseValueRange, ",")

	reg.Register(TagSelectCaseStmt, rule.Descriptor{Human: "select-case statement (R809)", Kind: rule.KindCustom, Uses: []rule.Tag{TagExpr}})
	k.RegisterStream(TagSelectCaseStmt, matchSelectCaseStmt)

	reg.Register(TagCaseStmt, rule.Descriptor{Human: "case statement (R810)", Kind: rule.KindCustom, Uses: []rule.Tag{TagCaseValueRange}})
	k.RegisterStream(TagCaseStmt, matchCaseStmt)

	reg.Register(TagEndSelectStmt, rule.Descriptor{Human: "end-select statement (R812)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndSelectStmt, func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		return matchGenericEndStmt(rd, TagEndSelectStmt, "SELECT")
	})

	// R808 Case_Construct: CASE statements divide the body (C803 requires a
	// named construct's END SELECT to repeat the name).
	reg.Register(TagCaseConstruct, rule.Descriptor{
		Human: "case construct (R808)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagSelectCaseStmt, TagCaseStmt, TagEndSelectStmt},
	})
	k.RegisterStream(TagCaseConstruct, func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		return match.MatchBlockHooks(k, TagCaseConstruct, TagSelectCaseStmt,
			[]rule.Tag{TagExecutionPartConstruct},
			TagEndSelectStmt, constructNameOf, endStatementNameOf,
			match.Hooks{EnableCaseConstruct: true}, rd)
	})

	reg.Register(TagSelectTypeStmt, rule.Descriptor{Human: "select-type statement (R822)", Kind: rule.KindCustom, Uses: []rule.Tag{TagName, TagExpr}})
	k.RegisterStream(TagSelectTypeStmt, matchSelectTypeStmt)

	reg.Register(TagTypeGuardStmt, rule.Descriptor{Human: "type guard statement (R823)", Kind: rule.KindCustom, Uses: []rule.Tag{TagTypeSpec, TagDerivedTypeSpec}})
	k.RegisterStream(TagTypeGuardStmt, matchTypeGuardStmt)

	reg.Register(TagEndSelectTypeStmt, rule.Descriptor{Human: "end-select-type statement (R824)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndSelectTypeStmt, func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		return matchGenericEndStmt(rd, TagEndSelectTypeStmt, "SELECT")
	})

	// R821 Select_Type_Construct (C819 name matching).
	reg.Register(TagSelectTypeConstruct, rule.Descriptor{
		Human: "select-type construct (R821)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagSelectTypeStmt, TagTypeGuardStmt, TagEndSelectTypeStmt},
	})
	k.RegisterStream(TagSelectTypeConstruct, func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		return match.MatchBlockHooks(k, TagSelectTypeConstruct, TagSelectTypeStmt,
			[]rule.Tag{TagExecutionPartConstruct},
			TagEndSelectTypeStmt, constructNameOf, endStatementNameOf,
			match.Hooks{EnableSelectTypeConstruct: true}, rd)
	})
}

// matchCaseValueRange matches R814's four surface forms: `v`, `v :`, `: v`,
// and `v : v`. A bare value carries no colon and is returned as the matched
// Expr directly; the ranged forms build a separator node with either side
// optional.
func matchCaseValueRange(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, s, ferrors.NewNoMatch(string(TagCaseValueRange))
	}
	sp := splitline.New(trimmed)
	pieces := sp.TopLevelSplit(":")
	if len(pieces) == 1 {
		return k.MatchString(TagExpr, s)
	}
	if len(pieces) != 2 {
		return nil, s, ferrors.NewNoMatch(string(TagCaseValueRange))
	}

	items := [2]cst.Item{cst.AbsentItem(), cst.AbsentItem()}
	for i, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		node, rest, err := k.MatchString(TagExpr, piece)
		if err != nil || strings.TrimSpace(rest) != "" {
			return nil, s, ferrors.NewNoMatch(string(TagCaseValueRange))
		}
		items[i] = cst.NodeItem(node)
	}
	n := cst.New(TagCaseValueRange, rule.KindSeparator, items[0], items[1]).WithSep(" : ")
	return n, "", nil
}

// matchSelectCaseStmt matches R809: `[name:] SELECT CASE ( case-expr )`,
// accepting the run-together SELECTCASE spelling as well.
func matchSelectCaseStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagSelectCaseStmt))
	}
	return matchWholeStatement(string(TagSelectCaseStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "SELECT")
		if ok {
			rest, ok = match.MatchKeyword(rest, "CASE")
		} else {
			rest, ok = match.MatchKeyword(text, "SELECTCASE")
		}
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagSelectCaseStmt))
		}
		expr, after, err := match.MatchBracketed(k, "case-expr", TagExpr, "(", ")", rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagSelectCaseStmt))
		}
		n := cst.New(TagSelectCaseStmt, rule.KindCustom, cst.NodeItem(expr)).
			WithRender(func(n *cst.Node) string { return "SELECT CASE " + n.Child(0).String() })
		return withSource(n, it), after, nil
	})
}

// matchCaseStmt matches R810: `CASE ( case-value-range-list )` or
// `CASE DEFAULT`, each with an optional trailing construct name.
func matchCaseStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagCaseStmt))
	}
	return matchWholeStatement(string(TagCaseStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "CASE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagCaseStmt))
		}

		var selectorItem cst.Item
		remainder := rest
		if afterDefault, isDefault := match.MatchKeyword(rest, "DEFAULT"); isDefault {
			selectorItem = cst.LeafItem("DEFAULT")
			remainder = afterDefault
		} else {
			listTag := TagCaseValueRange + "_List"
			ranges, after, err := match.MatchBracketed(k, "case-selector", listTag, "(", ")", rest)
			if err != nil {
				return nil, text, ferrors.NewNoMatch(string(TagCaseStmt))
			}
			selectorItem = cst.NodeItem(ranges)
			remainder = after
		}

		nameItem := cst.AbsentItem()
		trimmed := strings.TrimLeft(remainder, " \t")
		if trimmed != "" {
			nameNode, after, err := k.MatchString(TagName, trimmed)
			if err != nil {
				return nil, text, ferrors.NewNoMatch(string(TagCaseStmt))
			}
			nameItem = cst.NodeItem(nameNode)
			remainder = after
		}

		n := cst.New(TagCaseStmt, rule.KindCustom, selectorItem, nameItem).WithRender(renderCaseStmt)
		return withSource(n, it), remainder, nil
	})
}

func renderCaseStmt(n *cst.Node) string {
	out := "CASE"
	if sel := n.Child(0); sel != nil {
		out += " " + sel.String()
	} else {
		out += " " + n.Leaf(0)
	}
	if !n.Absent(1) {
		out += " " + n.Child(1).String()
	}
	return out
}

// matchSelectTypeStmt matches R822: `[name:] SELECT TYPE ( [assoc-name =>]
// selector )`.
func matchSelectTypeStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagSelectTypeStmt))
	}
	return matchWholeStatement(string(TagSelectTypeStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "SELECT")
		if ok {
			rest, ok = match.MatchKeyword(rest, "TYPE")
		}
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagSelectTypeStmt))
		}

		trimmed := strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(trimmed, "(") {
			return nil, text, ferrors.NewNoMatch(string(TagSelectTypeStmt))
		}
		closeIdx := strings.LastIndex(trimmed, ")")
		if closeIdx < 0 {
			return nil, text, ferrors.NewNoMatch(string(TagSelectTypeStmt))
		}
		inner := trimmed[1:closeIdx]
		after := trimmed[closeIdx+1:]

		assocItem := cst.AbsentItem()
		selText := inner
		sp := splitline.New(inner)
		rewritten := sp.Rewritten()
		if idx := strings.Index(rewritten, "=>"); idx >= 0 {
			assocText := sp.Restore(rewritten[:idx])
			selText = sp.Restore(rewritten[idx+2:])
			assocNode, assocRest, err := k.MatchString(TagName, assocText)
			if err != nil || strings.TrimSpace(assocRest) != "" {
				return nil, text, ferrors.NewNoMatch(string(TagSelectTypeStmt))
			}
			assocItem = cst.NodeItem(assocNode)
		}

		sel, selRest, err := k.MatchString(TagExpr, selText)
		if err != nil || strings.TrimSpace(selRest) != "" {
			return nil, text, ferrors.NewNoMatch(string(TagSelectTypeStmt))
		}

		n := cst.New(TagSelectTypeStmt, rule.KindCustom, assocItem, cst.NodeItem(sel)).WithRender(renderSelectTypeStmt)
		return withSource(n, it), after, nil
	})
}

func renderSelectTypeStmt(n *cst.Node) string {
	if n.Absent(0) {
		return "SELECT TYPE (" + n.Child(1).String() + ")"
	}
	return "SELECT TYPE (" + n.Child(0).String() + " => " + n.Child(1).String() + ")"
}

// matchTypeGuardStmt matches R823's three forms: `TYPE IS ( type-spec )`,
// `CLASS IS ( derived-type-spec )`, and `CLASS DEFAULT`, each with an
// optional trailing construct name.
func matchTypeGuardStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagTypeGuardStmt))
	}
	return matchWholeStatement(string(TagTypeGuardStmt), it.Text, func(text string) (*cst.Node, string, error) {
		var guard string
		var specTag rule.Tag
		var rest string

		if after, ok := match.MatchKeyword(text, "TYPE"); ok {
			afterIs, isOk := match.MatchKeyword(after, "IS")
			if !isOk {
				return nil, text, ferrors.NewNoMatch(string(TagTypeGuardStmt))
			}
			guard, specTag, rest = "TYPE IS", TagTypeSpec, afterIs
		} else if after, ok := match.MatchKeyword(text, "CLASS"); ok {
			if afterIs, isOk := match.MatchKeyword(after, "IS"); isOk {
				guard, specTag, rest = "CLASS IS", TagDerivedTypeSpec, afterIs
			} else if afterDefault, defOk := match.MatchKeyword(after, "DEFAULT"); defOk {
				n := cst.New(TagTypeGuardStmt, rule.KindCustom, cst.LeafItem("CLASS DEFAULT"), cst.AbsentItem()).
					WithRender(renderTypeGuardStmt)
				return withSource(n, it), afterDefault, nil
			} else {
				return nil, text, ferrors.NewNoMatch(string(TagTypeGuardStmt))
			}
		} else {
			return nil, text, ferrors.NewNoMatch(string(TagTypeGuardStmt))
		}

		spec, after, err := match.MatchBracketed(k, "type-guard", specTag, "(", ")", rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagTypeGuardStmt))
		}
		n := cst.New(TagTypeGuardStmt, rule.KindCustom, cst.LeafItem(guard), cst.NodeItem(spec)).
			WithRender(renderTypeGuardStmt)
		return withSource(n, it), after, nil
	})
}

func renderTypeGuardStmt(n *cst.Node) string {
	if n.Absent(1) {
		return n.Leaf(0)
	}
	return n.Leaf(0) + " " + n.Child(1).String()
}
