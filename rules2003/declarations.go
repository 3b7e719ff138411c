package rules2003

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/pattern"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// TagIntentSpec is R518's fixed keyword set (IN, OUT, IN OUT), used only as
// Attr_Spec's INTENT(...) payload.
const TagIntentSpec rule.Tag = "Intent_Spec"

// Tags for R501-R509's declaration-construct family.
const (
	TagAttrSpec          rule.Tag = "Attr_Spec"
	TagEntityDecl        rule.Tag = "Entity_Decl"
	TagTypeDeclarationStmt rule.Tag = "Type_Declaration_Stmt"
	TagImplicitStmt      rule.Tag = "Implicit_Stmt"
	TagImplicitSpec      rule.Tag = "Implicit_Spec"
	TagParameterStmt     rule.Tag = "Parameter_Stmt"
	TagNamedConstantDef  rule.Tag = "Named_Constant_Def"
)

func installDeclarations(reg *rule.Registry, k *match.Kernel) {
	// R503 Attr_Spec: the bare-keyword subset (a fixed keyword list in
	// matchAttrSpec) plus Intent_Spec, keyed off pattern.IntentSpec. Dimension's trailing array-spec is not
	// modeled (representative subset); see DESIGN.md, "Rule coverage."
	reg.Register(TagIntentSpec, rule.Descriptor{Human: "intent spec (R518)", Kind: rule.KindTerminal})
	k.RegisterString(TagIntentSpec, func(k *match.Kernel, s string) (*cst.Node, string, error) {
		trimmed := strings.TrimLeft(s, " \t")
		text, rest, ok := leadingToken(trimmed, pattern.IntentSpec, true)
		if !ok {
			return nil, s, ferrors.NewNoMatch(string(TagIntentSpec))
		}
		return cst.New(TagIntentSpec, rule.KindTerminal, cst.LeafItem(strings.ToUpper(text))), rest, nil
	})

	reg.Register(TagAttrSpec, rule.Descriptor{Human: "attr spec (R503)", Kind: rule.KindCustom})
	k.RegisterString(TagAttrSpec, matchAttrSpec)
	match.GenerateList(reg, k, TagAttrSpec, ",")

	// R504 Entity_Decl: a name, optionally with "= initialization". The
	// array-spec and char-length suffixes are not modeled.
	reg.Register(TagEntityDecl, rule.Descriptor{
		Human: "entity decl (R504)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagName, TagExpr},
	})
	k.RegisterString(TagEntityDecl, matchEntityDecl)
	match.GenerateList(reg, k, TagEntityDecl, ",")

	reg.Register(TagTypeDeclarationStmt, rule.Descriptor{
		Human: "type declaration statement (R501)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagDeclarationTypeSpec, TagAttrSpec, TagEntityDecl},
	})
	k.RegisterStream(TagTypeDeclarationStmt, matchTypeDeclarationStmt)

	reg.Register(TagImplicitSpec, rule.Descriptor{
		Human: "implicit spec (R561)",
		Kind:  rule.KindCall,
		Uses:  []rule.Tag{TagDeclarationTypeSpec},
	})
	k.RegisterString(TagImplicitSpec, matchImplicitSpec)
	match.GenerateList(reg, k, TagImplicitSpec, ",")

	reg.Register(TagImplicitStmt, rule.Descriptor{
		Human: "implicit statement (R560)",
		Kind:  rule.KindWordPayload,
		Uses:  []rule.Tag{TagImplicitSpec},
	})
	k.RegisterStream(TagImplicitStmt, matchImplicitStmt)

	reg.Register(TagNamedConstantDef, rule.Descriptor{
		Human: "named constant definition (R542)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagNamedConstant, TagExpr},
	})
	k.RegisterString(TagNamedConstantDef, matchNamedConstantDef)
	match.GenerateList(reg, k, TagNamedConstantDef, ",")

	reg.Register(TagParameterStmt, rule.Descriptor{
		Human: "parameter statement (R541)",
		Kind:  rule.KindCall,
		Uses:  []rule.Tag{TagNamedConstantDef},
	})
	k.RegisterStream(TagParameterStmt, matchParameterStmt)
}

func matchAttrSpec(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	if rest, ok := match.MatchKeyword(trimmed, "INTENT"); ok {
		node, remainder, err := match.MatchBracketed(k, TagAttrSpec, TagIntentSpec, "(", ")", rest)
		if err == nil {
			n := cst.New(TagAttrSpec, rule.KindCustom, cst.LeafItem("INTENT"), cst.NodeItem(node)).
				WithRender(func(n *cst.Node) string { return "INTENT" + n.Child(1).String() })
			return n, remainder, nil
		}
	}
	for _, kw := range []string{
		"ALLOCATABLE", "ASYNCHRONOUS", "EXTERNAL", "INTRINSIC", "OPTIONAL",
		"PARAMETER", "POINTER", "PRIVATE", "PROTECTED", "PUBLIC", "SAVE",
		"TARGET", "VALUE", "VOLATILE", "DIMENSION", "CODIMENSION",
	} {
		if rest, ok := match.MatchKeyword(trimmed, kw); ok {
			n := cst.New(TagAttrSpec, rule.KindCustom, cst.LeafItem(strings.ToUpper(kw)), cst.AbsentItem()).
				WithRender(func(n *cst.Node) string { return n.Leaf(0) })
			return n, rest, nil
		}
	}
	return nil, s, ferrors.NewNoMatch(string(TagAttrSpec))
}

// matchEntityDecl matches `name [= initialization-expr]`. The array-spec
// and char-length suffixes are not modeled; see DESIGN.md, "Rule
// coverage."
func matchEntityDecl(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	name, rest, err := k.MatchString(TagName, trimmed)
	if err != nil {
		return nil, s, ferrors.NewNoMatch(string(TagEntityDecl))
	}
	afterName := strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(afterName, "=") || strings.HasPrefix(afterName, "=>") {
		n := cst.New(TagEntityDecl, rule.KindCustom, cst.NodeItem(name), cst.AbsentItem()).WithRender(renderEntityDecl)
		return n, rest, nil
	}
	value, remainder, err := k.MatchString(TagExpr, afterName[1:])
	if err != nil {
		n := cst.New(TagEntityDecl, rule.KindCustom, cst.NodeItem(name), cst.AbsentItem()).WithRender(renderEntityDecl)
		return n, rest, nil
	}
	n := cst.New(TagEntityDecl, rule.KindCustom, cst.NodeItem(name), cst.NodeItem(value)).WithRender(renderEntityDecl)
	return n, remainder, nil
}

func renderEntityDecl(n *cst.Node) string {
	if n.Absent(1) {
		return n.Child(0).String()
	}
	return n.Child(0).String() + " = " + n.Child(1).String()
}

func matchTypeDeclarationStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagTypeDeclarationStmt))
	}
	return matchWholeStatement(string(TagTypeDeclarationStmt), it.Text, func(text string) (*cst.Node, string, error) {
		typeNode, afterType, err := k.MatchString(TagDeclarationTypeSpec, text)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagTypeDeclarationStmt))
		}

		attrsItem := cst.AbsentItem()
		rest := afterType
		trimmed := strings.TrimLeft(rest, " \t")
		if strings.HasPrefix(trimmed, ",") {
			dciIdx := strings.Index(trimmed, "::")
			if dciIdx < 0 {
				return nil, text, ferrors.NewNoMatch(string(TagTypeDeclarationStmt))
			}
			attrListTag := TagAttrSpec + "_List"
			attrsNode, attrsRest, aerr := k.MatchString(attrListTag, trimmed[1:dciIdx])
			if aerr != nil || strings.TrimSpace(attrsRest) != "" {
				return nil, text, ferrors.NewNoMatch(string(TagTypeDeclarationStmt))
			}
			attrsItem = cst.NodeItem(attrsNode)
			rest = trimmed[dciIdx+2:]
		} else {
			rest = strings.TrimPrefix(trimmed, "::")
		}

		entityListTag := TagEntityDecl + "_List"
		entNode, entRest, err := k.MatchString(entityListTag, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagTypeDeclarationStmt))
		}

		n := cst.New(TagTypeDeclarationStmt, rule.KindCustom,
			cst.NodeItem(typeNode), attrsItem, cst.NodeItem(entNode)).
			WithRender(renderTypeDeclarationStmt)
		return withSource(n, it), entRest, nil
	})
}

func renderTypeDeclarationStmt(n *cst.Node) string {
	out := n.Child(0).String()
	if !n.Absent(1) {
		out += ", " + n.Child(1).String()
	}
	return out + " :: " + n.Child(2).String()
}

// matchImplicitSpec matches `type-spec ( letter-spec-list )`. The
// letter-spec-list (single letters or letter ranges) is represented as a
// bare leaf string rather than its own rule, since it has no internal
// structure worth a CST node of its own.
func matchImplicitSpec(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	typeNode, rest, err := k.MatchString(TagDeclarationTypeSpec, trimmed)
	if err != nil {
		return nil, s, ferrors.NewNoMatch(string(TagImplicitSpec))
	}
	afterType := strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(afterType, "(") {
		return nil, s, ferrors.NewNoMatch(string(TagImplicitSpec))
	}
	closeIdx := findMatchingParen(afterType)
	if closeIdx < 0 {
		return nil, s, ferrors.NewNoMatch(string(TagImplicitSpec))
	}
	letters := afterType[1:closeIdx]
	remainder := afterType[closeIdx+1:]
	n := cst.New(TagImplicitSpec, rule.KindCall, cst.NodeItem(typeNode), cst.NodeItem(cst.New("Letter_Spec_List", rule.KindTerminal, cst.LeafItem(strings.TrimSpace(letters)))))
	return n, remainder, nil
}

// matchImplicitStmt matches `IMPLICIT implicit-spec-list` and the bare
// `IMPLICIT NONE` form.
//
// The Python source this was ported from also recognizes a third,
// undocumented surface form (implicit-spec-list wrapped in its own parens,
// e.g. "IMPLICIT (INTEGER (I-N))" with an extra redundant paren layer) via
// a dead code branch its own author left unreachable behind an earlier
// unconditional return; that branch is not reproduced here since it can
// never fire in the original either. See SPEC_FULL.md, "Supplemented
// features."
func matchImplicitStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagImplicitStmt))
	}
	return matchWholeStatement(string(TagImplicitStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "IMPLICIT")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagImplicitStmt))
		}
		if afterNone, ok := match.MatchKeyword(rest, "NONE"); ok {
			n := cst.New(TagImplicitStmt, rule.KindWordPayload, cst.LeafItem("IMPLICIT"), cst.LeafItem("NONE"))
			return withSource(n, it), afterNone, nil
		}
		listTag := TagImplicitSpec + "_List"
		node, remainder, err := k.MatchString(listTag, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagImplicitStmt))
		}
		n := cst.New(TagImplicitStmt, rule.KindWordPayload, cst.LeafItem("IMPLICIT"), cst.NodeItem(node))
		return withSource(n, it), remainder, nil
	})
}

func matchNamedConstantDef(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	name, rest, err := k.MatchString(TagNamedConstant, trimmed)
	if err != nil {
		return nil, s, ferrors.NewNoMatch(string(TagNamedConstantDef))
	}
	afterName := strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(afterName, "=") || strings.HasPrefix(afterName, "=>") {
		return nil, s, ferrors.NewNoMatch(string(TagNamedConstantDef))
	}
	value, remainder, err := k.MatchString(TagExpr, afterName[1:])
	if err != nil {
		return nil, s, ferrors.NewNoMatch(string(TagNamedConstantDef))
	}
	n := cst.New(TagNamedConstantDef, rule.KindCustom, cst.NodeItem(name), cst.NodeItem(value)).
		WithRender(func(n *cst.Node) string { return n.Child(0).String() + " = " + n.Child(1).String() })
	return n, remainder, nil
}

func matchParameterStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagParameterStmt))
	}
	return matchWholeStatement(string(TagParameterStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "PARAMETER")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagParameterStmt))
		}
		trimmed := strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(trimmed, "(") {
			return nil, text, ferrors.NewNoMatch(string(TagParameterStmt))
		}
		listTag := TagNamedConstantDef + "_List"
		node, remainder, err := match.MatchBracketed(k, TagParameterStmt, listTag, "(", ")", trimmed)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagParameterStmt))
		}
		n := cst.New(TagParameterStmt, rule.KindCall,
			cst.NodeItem(cst.New("PARAMETER_Keyword", rule.KindTerminal, cst.LeafItem("PARAMETER"))),
			cst.NodeItem(node.Child(0)))
		return withSource(n, it), remainder, nil
	})
}
