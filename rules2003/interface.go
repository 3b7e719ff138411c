package rules2003

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// Tags for interface blocks (R1201-R1206). An interface body carries a
// subprogram head and specification part but no execution part; a procedure
// statement lists existing procedures instead.
const (
	TagGenericSpec      rule.Tag = "Generic_Spec"
	TagInterfaceStmt    rule.Tag = "Interface_Stmt"
	TagEndInterfaceStmt rule.Tag = "End_Interface_Stmt"
	TagInterfaceBody    rule.Tag = "Interface_Body"
	TagProcedureStmt    rule.Tag = "Procedure_Stmt"
	TagInterfaceBlock   rule.Tag = "Interface_Block"
)

func installInterface(reg *rule.Registry, k *match.Kernel) {
	reg.Register(TagGenericSpec, rule.Descriptor{Human: "generic spec (R1207)", Kind: rule.KindCustom, Uses: []rule.Tag{TagName}})
	k.RegisterString(TagGenericSpec, matchGenericSpec)

	reg.Register(TagInterfaceStmt, rule.Descriptor{Human: "interface statement (R1203)", Kind: rule.KindCustom, Uses: []rule.Tag{TagGenericSpec}})
	k.RegisterStream(TagInterfaceStmt, matchInterfaceStmt)

	reg.Register(TagEndInterfaceStmt, rule.Descriptor{Human: "end interface statement (R1204)", Kind: rule.KindCustom})
	k.RegisterStream(TagEndInterfaceStmt, matchEndInterfaceStmt)

	reg.Register(TagInterfaceBody, rule.Descriptor{
		Human: "interface body (R1205)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagSubroutineStmt, TagFunctionStmt, TagSpecificationPart},
	})
	k.RegisterStream(TagInterfaceBody, matchInterfaceBody)

	reg.Register(TagProcedureStmt, rule.Descriptor{Human: "procedure statement (R1206)", Kind: rule.KindCustom, Uses: []rule.Tag{TagName}})
	k.RegisterStream(TagProcedureStmt, matchProcedureStmt)

	// R1201: the end statement's generic-spec, when present, must repeat the
	// head's (C1202's agreement requirement, checked the same way block
	// construct names are).
	reg.Register(TagInterfaceBlock, rule.Descriptor{
		Human: "interface block (R1201)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagInterfaceStmt, TagInterfaceBody, TagProcedureStmt, TagEndInterfaceStmt},
	})
	k.RegisterStream(TagInterfaceBlock, func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		return match.MatchBlock(k, TagInterfaceBlock, TagInterfaceStmt,
			[]rule.Tag{TagInterfaceBody, TagProcedureStmt},
			TagEndInterfaceStmt, genericSpecNameOf, genericSpecNameOf, rd)
	})
}

// genericSpecNameOf reads the generic-spec both Interface_Stmt and
// End_Interface_Stmt keep at item position 1, rendered to text so OPERATOR
// and ASSIGNMENT specs compare the same way plain names do.
func genericSpecNameOf(n *cst.Node) string {
	if n == nil || n.Absent(1) {
		return ""
	}
	return n.Child(1).String()
}

// matchGenericSpec matches R1207: a generic name, `OPERATOR (
// defined-operator )`, or `ASSIGNMENT ( = )`.
func matchGenericSpec(k *match.Kernel, s string) (*cst.Node, string, error) {
	for _, form := range []string{"OPERATOR", "ASSIGNMENT"} {
		rest, ok := match.MatchKeyword(s, form)
		if !ok {
			continue
		}
		trimmed := strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(trimmed, "(") {
			continue
		}
		closeIdx := strings.Index(trimmed, ")")
		if closeIdx < 0 {
			return nil, s, ferrors.NewNoMatch(string(TagGenericSpec))
		}
		op := strings.TrimSpace(trimmed[1:closeIdx])
		if op == "" {
			return nil, s, ferrors.NewNoMatch(string(TagGenericSpec))
		}
		n := cst.New(TagGenericSpec, rule.KindCustom, cst.LeafItem(form), cst.LeafItem(strings.ToUpper(op))).
			WithRender(func(n *cst.Node) string { return n.Leaf(0) + "(" + n.Leaf(1) + ")" })
		return n, trimmed[closeIdx+1:], nil
	}

	name, rest, err := k.MatchString(TagName, s)
	if err != nil {
		return nil, s, ferrors.NewNoMatch(string(TagGenericSpec))
	}
	n := cst.New(TagGenericSpec, rule.KindNone, cst.NodeItem(name))
	return n, rest, nil
}

// matchInterfaceStmt matches R1203: `INTERFACE [generic-spec]` or
// `ABSTRACT INTERFACE`.
func matchInterfaceStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagInterfaceStmt))
	}
	return matchWholeStatement(string(TagInterfaceStmt), it.Text, func(text string) (*cst.Node, string, error) {
		abstractItem := cst.AbsentItem()
		rest := text
		if afterAbstract, isAbstract := match.MatchKeyword(text, "ABSTRACT"); isAbstract {
			abstractItem = cst.LeafItem("ABSTRACT")
			rest = afterAbstract
		}
		rest, ok := match.MatchKeyword(rest, "INTERFACE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagInterfaceStmt))
		}

		specItem := cst.AbsentItem()
		remainder := rest
		if !abstractItem.IsAbsent() {
			// an abstract interface never names a generic spec (C1203)
			if strings.TrimSpace(rest) != "" {
				return nil, text, ferrors.NewNoMatch(string(TagInterfaceStmt))
			}
		} else if strings.TrimSpace(rest) != "" {
			spec, tail, err := k.MatchString(TagGenericSpec, rest)
			if err != nil {
				return nil, text, ferrors.NewNoMatch(string(TagInterfaceStmt))
			}
			specItem = cst.NodeItem(spec)
			remainder = tail
		}

		n := cst.New(TagInterfaceStmt, rule.KindCustom, abstractItem, specItem).WithRender(renderInterfaceStmt)
		return withSource(n, it), remainder, nil
	})
}

func renderInterfaceStmt(n *cst.Node) string {
	out := "INTERFACE"
	if !n.Absent(0) {
		out = "ABSTRACT INTERFACE"
	}
	if !n.Absent(1) {
		out += " " + n.Child(1).String()
	}
	return out
}

// matchEndInterfaceStmt matches R1204: `END INTERFACE [generic-spec]`.
func matchEndInterfaceStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagEndInterfaceStmt))
	}
	return matchWholeStatement(string(TagEndInterfaceStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "END")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagEndInterfaceStmt))
		}
		rest, ok = match.MatchKeyword(rest, "INTERFACE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagEndInterfaceStmt))
		}

		specItem := cst.AbsentItem()
		if strings.TrimSpace(rest) != "" {
			spec, tail, err := k.MatchString(TagGenericSpec, rest)
			if err != nil {
				return nil, text, ferrors.NewNoMatch(string(TagEndInterfaceStmt))
			}
			specItem = cst.NodeItem(spec)
			rest = tail
		}

		n := cst.New(TagEndInterfaceStmt, rule.KindCustom, cst.LeafItem("INTERFACE"), specItem).
			WithRender(func(n *cst.Node) string {
				if n.Absent(1) {
					return "END INTERFACE"
				}
				return "END INTERFACE " + n.Child(1).String()
			})
		return withSource(n, it), rest, nil
	})
}

// matchInterfaceBody matches R1205: a subprogram head statement, a
// specification part, and the matching end statement, with no execution
// part in between.
func matchInterfaceBody(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	type form struct {
		head, end rule.Tag
	}
	startCp := rd.Mark()
	for _, f := range []form{
		{TagSubroutineStmt, TagEndSubroutineStmt},
		{TagFunctionStmt, TagEndFunctionStmt},
	} {
		head, err := k.MatchStream(f.head, rd)
		if err != nil {
			rd.RewindTo(startCp)
			if !ferrors.IsNoMatch(err) {
				return nil, err
			}
			continue
		}

		spec, err := k.MatchStream(TagSpecificationPart, rd)
		if err != nil {
			rd.RewindTo(startCp)
			return nil, err
		}

		tail, err := k.MatchStream(f.end, rd)
		if err != nil {
			rd.RewindTo(startCp)
			if !ferrors.IsNoMatch(err) {
				return nil, err
			}
			continue
		}

		return cst.New(TagInterfaceBody, rule.KindBlock,
			cst.NodeItem(head), cst.NodeItem(spec), cst.NodeItem(tail)), nil
	}
	return nil, ferrors.NewNoMatch(string(TagInterfaceBody))
}

// matchProcedureStmt matches R1206: `[MODULE] PROCEDURE
// procedure-name-list`.
func matchProcedureStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagProcedureStmt))
	}
	return matchWholeStatement(string(TagProcedureStmt), it.Text, func(text string) (*cst.Node, string, error) {
		moduleItem := cst.AbsentItem()
		rest := text
		if afterModule, isModule := match.MatchKeyword(text, "MODULE"); isModule {
			moduleItem = cst.LeafItem("MODULE")
			rest = afterModule
		}
		rest, ok := match.MatchKeyword(rest, "PROCEDURE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagProcedureStmt))
		}
		listTag := TagName + "_List"
		names, tail, err := k.MatchString(listTag, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagProcedureStmt))
		}
		n := cst.New(TagProcedureStmt, rule.KindCustom, moduleItem, cst.NodeItem(names)).
			WithRender(func(n *cst.Node) string {
				out := "PROCEDURE " + n.Child(1).String()
				if !n.Absent(0) {
					out = "MODULE " + out
				}
				return out
			})
		return withSource(n, it), tail, nil
	})
}
