package rules2003

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

func matchTypeAttrSpec(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")

	if rest, ok := match.MatchKeyword(trimmed, "ABSTRACT"); ok {
		n := cst.New(TagTypeAttrSpec, rule.KindCustom, cst.LeafItem("ABSTRACT")).
			WithRender(func(n *cst.Node) string { return n.Leaf(0) })
		return n, rest, nil
	}
	for _, kw := range []string{"PUBLIC", "PRIVATE"} {
		if rest, ok := match.MatchKeyword(trimmed, kw); ok {
			n := cst.New(TagTypeAttrSpec, rule.KindCustom, cst.LeafItem(strings.ToUpper(kw))).
				WithRender(func(n *cst.Node) string { return n.Leaf(0) })
			return n, rest, nil
		}
	}
	if rest, ok := match.MatchKeyword(trimmed, "EXTENDS"); ok {
		node, remainder, err := match.MatchBracketed(k, TagTypeAttrSpec, TagName, "(", ")", rest)
		if err != nil {
			return nil, s, ferrors.NewNoMatch(string(TagTypeAttrSpec))
		}
		n := cst.New(TagTypeAttrSpec, rule.KindCustom, cst.NodeItem(node)).
			WithRender(func(n *cst.Node) string { return "EXTENDS" + n.Child(0).String() })
		return n, remainder, nil
	}
	return nil, s, ferrors.NewNoMatch(string(TagTypeAttrSpec))
}

// matchDerivedTypeStmt matches R422's "TYPE [[, attr-list] ::] name" head
// statement.
func matchDerivedTypeStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagDerivedTypeStmt))
	}
	return matchWholeStatement(string(TagDerivedTypeStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "TYPE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagDerivedTypeStmt))
		}

		attrList, remainder := matchLeadingAttrList(k, rest)
		remainder = strings.TrimLeft(remainder, " \t")
		remainder = strings.TrimPrefix(remainder, "::")

		node, tail, err := k.MatchString(TagName, remainder)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagDerivedTypeStmt))
		}
		n := cst.New(TagDerivedTypeStmt, rule.KindCustom, attrList, cst.NodeItem(node)).
			WithRender(renderDerivedTypeStmt)
		return withSource(n, it), tail, nil
	})
}

func renderDerivedTypeStmt(n *cst.Node) string {
	out := "TYPE"
	if !n.Absent(0) {
		out += ", " + n.Child(0).String() + " ::"
	}
	return out + " " + n.Child(1).String()
}

// matchLeadingAttrList matches an optional ", Type_Attr_Spec_List" prefix
// (R422's bracketed attribute list), returning an Item (node or absent) and
// the unconsumed remainder.
func matchLeadingAttrList(k *match.Kernel, s string) (cst.Item, string) {
	trimmed := strings.TrimLeft(s, " \t")
	rest, ok := match.MatchLiteral(trimmed, ",")
	if !ok {
		return cst.AbsentItem(), s
	}
	listTag := TagTypeAttrSpec + "_List"
	idx := strings.Index(rest, "::")
	if idx < 0 {
		return cst.AbsentItem(), s
	}
	node, tail, err := k.MatchString(listTag, rest[:idx])
	if err != nil || strings.TrimSpace(tail) != "" {
		return cst.AbsentItem(), s
	}
	return cst.NodeItem(node), rest[idx:]
}

func matchEndTypeStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagEndTypeStmt))
	}
	return matchWholeStatement(string(TagEndTypeStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "END")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagEndTypeStmt))
		}
		rest, hasType := match.MatchKeyword(rest, "TYPE")

		nameItem := cst.AbsentItem()
		if hasType {
			trimmed := strings.TrimLeft(rest, " \t")
			if node, tail, err := k.MatchString(TagName, trimmed); err == nil {
				nameItem = cst.NodeItem(node)
				rest = tail
			}
		}
		typeItem := cst.AbsentItem()
		if hasType {
			typeItem = cst.LeafItem("TYPE")
		}
		n := cst.New(TagEndTypeStmt, rule.KindEndStatement, typeItem, nameItem)
		return withSource(n, it), rest, nil
	})
}

func matchComponentAttrSpec(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	for _, kw := range []string{"POINTER", "ALLOCATABLE", "PUBLIC", "PRIVATE"} {
		if rest, ok := match.MatchKeyword(trimmed, kw); ok {
			n := cst.New(TagComponentAttrSpec, rule.KindTerminal, cst.LeafItem(strings.ToUpper(kw)))
			return n, rest, nil
		}
	}
	return nil, s, ferrors.NewNoMatch(string(TagComponentAttrSpec))
}

func matchComponentDefStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagComponentDefStmt))
	}
	return matchWholeStatement(string(TagComponentDefStmt), it.Text, func(text string) (*cst.Node, string, error) {
		sp := strings.Index(text, "::")
		if sp < 0 {
			return nil, text, ferrors.NewNoMatch(string(TagComponentDefStmt))
		}
		typeNode, typeRest, err := k.MatchString(TagDeclarationTypeSpec, text[:sp])
		if err != nil || strings.TrimSpace(typeRest) != "" {
			return nil, text, ferrors.NewNoMatch(string(TagComponentDefStmt))
		}
		declListTag := TagComponentDecl + "_List"
		declNode, declRest, err := k.MatchString(declListTag, text[sp+2:])
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagComponentDefStmt))
		}
		n := cst.New(TagComponentDefStmt, rule.KindCustom, cst.NodeItem(typeNode), cst.NodeItem(declNode)).
			WithRender(func(n *cst.Node) string { return n.Child(0).String() + " :: " + n.Child(1).String() })
		return withSource(n, it), declRest, nil
	})
}

func matchDerivedTypeDef(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return match.MatchBlock(k, TagDerivedTypeDef, TagDerivedTypeStmt,
		[]rule.Tag{TagComponentDefStmt}, TagEndTypeStmt, nil, nil, rd)
}
