package rules2003

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// Tags for R451, R509, R522-523's BIND-related productions. Common_Block_Name
// entities ("/name/") are not modeled for Bind_Entity; see DESIGN.md, "Rule
// coverage."
const (
	TagLanguageBindingSpec rule.Tag = "Language_Binding_Spec"
	TagBindEntity          rule.Tag = "Bind_Entity"
	TagBindStmt            rule.Tag = "Bind_Stmt"
	TagBindingAttr         rule.Tag = "Binding_Attr"
	TagSpecificBinding     rule.Tag = "Specific_Binding"
)

func installBindAndBinding(reg *rule.Registry, k *match.Kernel) {
	reg.Register(TagLanguageBindingSpec, rule.Descriptor{
		Human: "language binding spec (R509)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagExpr},
	})
	k.RegisterString(TagLanguageBindingSpec, matchLanguageBindingSpec)

	reg.Register(TagBindEntity, rule.Descriptor{
		Human:        "bind entity (R523)",
		Kind:         rule.KindNone,
		Alternatives: []rule.Tag{TagName},
	})
	match.GenerateList(reg, k, TagBindEntity, ",")

	reg.Register(TagBindStmt, rule.Descriptor{
		Human: "bind statement (R522)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagLanguageBindingSpec, TagBindEntity},
	})
	k.RegisterStream(TagBindStmt, matchBindStmt)

	reg.Register(TagBindingAttr, rule.Descriptor{Human: "binding attr (R453)", Kind: rule.KindTerminal})
	k.RegisterString(TagBindingAttr, matchBindingAttr)
	match.GenerateList(reg, k, TagBindingAttr, ",")

	reg.Register(TagSpecificBinding, rule.Descriptor{
		Human: "specific binding (R451)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagName, TagBindingAttr},
	})
	k.RegisterStream(TagSpecificBinding, matchSpecificBinding)
}

// matchBindingAttr matches R453's fixed binding-attribute keywords; PASS's
// optional argument-name and the Access_Spec alternative (PUBLIC/PRIVATE)
// are folded in directly rather than given their own subclass rules. See
// DESIGN.md, "Rule coverage."
func matchBindingAttr(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	for _, kw := range []string{"NON_OVERRIDABLE", "NOPASS", "DEFERRED", "PUBLIC", "PRIVATE"} {
		if rest, ok := match.MatchKeyword(trimmed, kw); ok {
			return cst.New(TagBindingAttr, rule.KindTerminal, cst.LeafItem(strings.ToUpper(kw))), rest, nil
		}
	}
	if rest, ok := match.MatchKeyword(trimmed, "PASS"); ok {
		afterTrim := strings.TrimLeft(rest, " \t")
		if strings.HasPrefix(afterTrim, "(") {
			idx := strings.Index(afterTrim, ")")
			if idx < 0 {
				return nil, s, ferrors.NewNoMatch(string(TagBindingAttr))
			}
			argNode, argRest, err := k.MatchString(TagName, afterTrim[1:idx])
			if err != nil || strings.TrimSpace(argRest) != "" {
				return nil, s, ferrors.NewNoMatch(string(TagBindingAttr))
			}
			n := cst.New(TagBindingAttr, rule.KindCustom, cst.NodeItem(argNode)).
				WithRender(func(n *cst.Node) string { return "PASS(" + n.Child(0).String() + ")" })
			return n, afterTrim[idx+1:], nil
		}
		return cst.New(TagBindingAttr, rule.KindTerminal, cst.LeafItem("PASS")), rest, nil
	}
	return nil, s, ferrors.NewNoMatch(string(TagBindingAttr))
}

// matchLanguageBindingSpec matches R509: "BIND ( C [ , NAME = expr ] )".
func matchLanguageBindingSpec(k *match.Kernel, s string) (*cst.Node, string, error) {
	rest, ok := match.MatchKeyword(s, "BIND")
	if !ok {
		return nil, s, ferrors.NewNoMatch(string(TagLanguageBindingSpec))
	}
	trimmed := strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(trimmed, "(") {
		return nil, s, ferrors.NewNoMatch(string(TagLanguageBindingSpec))
	}
	closeIdx := strings.Index(trimmed, ")")
	if closeIdx < 0 {
		return nil, s, ferrors.NewNoMatch(string(TagLanguageBindingSpec))
	}
	inner := strings.TrimSpace(trimmed[1:closeIdx])
	after := trimmed[closeIdx+1:]

	if strings.EqualFold(inner, "C") {
		n := cst.New(TagLanguageBindingSpec, rule.KindCustom, cst.AbsentItem()).
			WithRender(func(n *cst.Node) string { return "BIND(C)" })
		return n, after, nil
	}

	cRest, ok := match.MatchKeyword(inner, "C")
	if !ok {
		return nil, s, ferrors.NewNoMatch(string(TagLanguageBindingSpec))
	}
	cRest, ok = match.MatchLiteral(cRest, ",")
	if !ok {
		return nil, s, ferrors.NewNoMatch(string(TagLanguageBindingSpec))
	}
	cRest, ok = match.MatchKeyword(cRest, "NAME")
	if !ok {
		return nil, s, ferrors.NewNoMatch(string(TagLanguageBindingSpec))
	}
	cRest, ok = match.MatchLiteral(cRest, "=")
	if !ok {
		return nil, s, ferrors.NewNoMatch(string(TagLanguageBindingSpec))
	}
	nameExpr, exprRest, err := k.MatchString(TagExpr, cRest)
	if err != nil || strings.TrimSpace(exprRest) != "" {
		return nil, s, ferrors.NewNoMatch(string(TagLanguageBindingSpec))
	}
	n := cst.New(TagLanguageBindingSpec, rule.KindCustom, cst.NodeItem(nameExpr)).
		WithRender(func(n *cst.Node) string { return "BIND(C, NAME = " + n.Child(0).String() + ")" })
	return n, after, nil
}

// matchBindStmt matches R522: "language-binding-spec [ :: ] bind-entity-list".
//
// When no "::" separator is present it falls back to the first ")",
// a deliberately lenient split point kept rather than requiring the
// separator; see DESIGN.md, "Rule coverage."
func matchBindStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagBindStmt))
	}
	return matchWholeStatement(string(TagBindStmt), it.Text, func(text string) (*cst.Node, string, error) {
		idx := strings.Index(text, "::")
		var lhs, rhs string
		hasDcolon := idx >= 0
		if hasDcolon {
			lhs, rhs = text[:idx], text[idx+2:]
		} else {
			closeIdx := strings.Index(text, ")")
			if closeIdx < 0 {
				return nil, text, ferrors.NewNoMatch(string(TagBindStmt))
			}
			lhs, rhs = text[:closeIdx+1], text[closeIdx+1:]
		}
		lhs = strings.TrimRight(lhs, " \t")
		rhs = strings.TrimLeft(rhs, " \t")
		if lhs == "" || rhs == "" {
			return nil, text, ferrors.NewNoMatch(string(TagBindStmt))
		}

		spec, specRest, err := k.MatchString(TagLanguageBindingSpec, lhs)
		if err != nil || strings.TrimSpace(specRest) != "" {
			return nil, text, ferrors.NewNoMatch(string(TagBindStmt))
		}
		listTag := TagBindEntity + "_List"
		entities, entRest, err := k.MatchString(listTag, rhs)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagBindStmt))
		}
		n := cst.New(TagBindStmt, rule.KindCustom, cst.NodeItem(spec), cst.NodeItem(entities)).
			WithRender(func(n *cst.Node) string {
				return n.Child(0).String() + " :: " + n.Child(1).String()
			})
		return withSource(n, it), entRest, nil
	})
}

// matchSpecificBinding matches R451's type-bound procedure binding:
// "PROCEDURE [ ( interface-name ) ] [ [ , binding-attr-list ] :: ]
// binding-name [ => procedure-name ]".
//
// Per C457, a space is required between the PROCEDURE keyword and the
// binding name whenever neither an interface name nor a "::" separator is
// present, since otherwise nothing would delimit the keyword from the name;
// a missing space there is rejected rather than silently accepted.
func matchSpecificBinding(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagSpecificBinding))
	}
	return matchWholeStatement(string(TagSpecificBinding), it.Text, func(text string) (*cst.Node, string, error) {
		stripped := strings.TrimLeft(text, " \t")
		if len(stripped) < 11 || !strings.EqualFold(stripped[:9], "PROCEDURE") {
			return nil, text, ferrors.NewNoMatch(string(TagSpecificBinding))
		}
		spaceAfter := stripped[9] == ' '
		line := strings.TrimLeft(stripped[9:], " \t")

		ifaceItem := cst.AbsentItem()
		if strings.HasPrefix(line, "(") {
			idx := strings.Index(line, ")")
			if idx < 0 {
				return nil, text, ferrors.NewNoMatch(string(TagSpecificBinding))
			}
			ifaceNode, ifaceRest, err := k.MatchString(TagName, line[1:idx])
			if err != nil || strings.TrimSpace(ifaceRest) != "" {
				return nil, text, ferrors.NewNoMatch(string(TagSpecificBinding))
			}
			ifaceItem = cst.NodeItem(ifaceNode)
			line = strings.TrimLeft(line[idx+1:], " \t")
		}

		hasDcolon := false
		attrItem := cst.AbsentItem()
		idx := strings.Index(line, "::")
		if idx >= 0 {
			hasDcolon = true
			before := line[:idx]
			if strings.HasPrefix(before, ",") {
				listTag := TagBindingAttr + "_List"
				attrNode, attrRest, err := k.MatchString(listTag, before[1:])
				if err != nil || strings.TrimSpace(attrRest) != "" {
					return nil, text, ferrors.NewNoMatch(string(TagSpecificBinding))
				}
				attrItem = cst.NodeItem(attrNode)
			} else if strings.TrimSpace(before) != "" {
				return nil, text, ferrors.NewNoMatch(string(TagSpecificBinding))
			}
			line = strings.TrimLeft(line[idx+2:], " \t")
		}

		if ifaceItem.IsAbsent() && !hasDcolon && !spaceAfter {
			return nil, text, ferrors.NewNoMatch(string(TagSpecificBinding))
		}

		pnameItem := cst.AbsentItem()
		bindingText := line
		if arrowIdx := strings.Index(line, "=>"); arrowIdx >= 0 {
			if !hasDcolon {
				// C456: "::" is required if a procedure-name appears.
				return nil, text, ferrors.NewNoMatch(string(TagSpecificBinding))
			}
			bindingText = strings.TrimRight(line[:arrowIdx], " \t")
			pnameNode, pnameRest, err := k.MatchString(TagName, line[arrowIdx+2:])
			if err != nil || strings.TrimSpace(pnameRest) != "" {
				return nil, text, ferrors.NewNoMatch(string(TagSpecificBinding))
			}
			pnameItem = cst.NodeItem(pnameNode)
		}

		if !ifaceItem.IsAbsent() && !pnameItem.IsAbsent() {
			// C457: interface-name and procedure-name are mutually exclusive.
			return nil, text, ferrors.NewNoMatch(string(TagSpecificBinding))
		}

		bindingNode, bindingRest, err := k.MatchString(TagName, bindingText)
		if err != nil || strings.TrimSpace(bindingRest) != "" {
			return nil, text, ferrors.NewNoMatch(string(TagSpecificBinding))
		}

		n := cst.New(TagSpecificBinding, rule.KindCustom,
			ifaceItem, attrItem, cst.NodeItem(bindingNode), pnameItem).
			WithRender(renderSpecificBinding)
		return withSource(n, it), "", nil
	})
}

func renderSpecificBinding(n *cst.Node) string {
	out := "PROCEDURE"
	if !n.Absent(0) {
		out += "(" + n.Child(0).String() + ")"
	}
	if !n.Absent(1) {
		out += ", " + n.Child(1).String() + " ::"
	}
	out += " " + n.Child(2).String()
	if !n.Absent(3) {
		out += " => " + n.Child(3).String()
	}
	return out
}
