package rules2008

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
	"github.com/dekarrin/gofortran/rules2003"
)

// Tags for F2008's R1116 Submodule and its head/tail statements.
const (
	TagParentIdentifier rule.Tag = "Parent_Identifier"
	TagSubmoduleStmt     rule.Tag = "Submodule_Stmt"
	TagEndSubmoduleStmt  rule.Tag = "End_Submodule_Stmt"
	TagSubmodule         rule.Tag = "Submodule"
)

// installSubmodule registers R1116 (Submodule), R1117 (Submodule_Stmt), and
// R1119 (End_Submodule_Stmt), then widens Program_Unit (rules2003's R201
// alternative) to also accept a Submodule — an override of Program_Unit's
// descriptor on the delta registry, substituting for, not duplicating,
// rules2003's entry.
func installSubmodule(reg *rule.Registry, k *match.Kernel) {
	reg.Register(TagParentIdentifier, rule.Descriptor{
		Human: "parent identifier (R1117)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{rules2003.TagName},
	})
	k.RegisterString(TagParentIdentifier, matchParentIdentifier)

	reg.Register(TagSubmoduleStmt, rule.Descriptor{
		Human: "submodule statement (R1117)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagParentIdentifier, rules2003.TagName},
	})
	k.RegisterStream(TagSubmoduleStmt, matchSubmoduleStmt)

	reg.Register(TagEndSubmoduleStmt, rule.Descriptor{Human: "end submodule statement (R1119)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndSubmoduleStmt, matchEndSubmoduleStmt)

	reg.Register(TagSubmodule, rule.Descriptor{
		Human: "submodule (R1116)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagSubmoduleStmt, rules2003.TagSpecificationPart, rules2003.TagExecutionPart, TagEndSubmoduleStmt},
	})
	k.RegisterStream(TagSubmodule, matchSubmodule)

	// R202 Program_Unit override: the F2003 alternatives plus Submodule,
	// in the base's order with Submodule slotted before the headless
	// main-program fallback.
	reg.Register(rules2003.TagProgramUnit, rule.Descriptor{
		Human: "program unit (R202, F2008)",
		Kind:  rule.KindNone,
		Alternatives: []rule.Tag{
			rules2003.TagMainProgram, rules2003.TagExternalSubprogram,
			rules2003.TagModule, rules2003.TagBlockData, TagSubmodule,
			rules2003.TagMainProgram0,
		},
	})
}

// matchParentIdentifier matches R1118: ancestor-module-name [ : parent-
// submodule-name ]. The colon separator can never appear inside a bare
// name, so a plain top-level split suffices without splitline's
// string/paren protection.
func matchParentIdentifier(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, s, ferrors.NewNoMatch(string(TagParentIdentifier))
	}
	if idx := strings.IndexByte(trimmed, ':'); idx >= 0 {
		ancestor, rest, err := k.MatchString(rules2003.TagName, trimmed[:idx])
		if err != nil || strings.TrimSpace(rest) != "" {
			return nil, s, ferrors.NewNoMatch(string(TagParentIdentifier))
		}
		parent, tail, err := k.MatchString(rules2003.TagName, trimmed[idx+1:])
		if err != nil {
			return nil, s, ferrors.NewNoMatch(string(TagParentIdentifier))
		}
		n := cst.New(TagParentIdentifier, rule.KindCustom, cst.NodeItem(ancestor), cst.NodeItem(parent)).
			WithRender(func(n *cst.Node) string { return n.Child(0).String() + ":" + n.Child(1).String() })
		return n, tail, nil
	}

	ancestor, rest, err := k.MatchString(rules2003.TagName, trimmed)
	if err != nil {
		return nil, s, ferrors.NewNoMatch(string(TagParentIdentifier))
	}
	n := cst.New(TagParentIdentifier, rule.KindCustom, cst.NodeItem(ancestor), cst.AbsentItem()).
		WithRender(func(n *cst.Node) string { return n.Child(0).String() })
	return n, rest, nil
}

// matchSubmoduleStmt matches R1117: `SUBMODULE ( parent-identifier )
// submodule-name`.
func matchSubmoduleStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := rules2003.NextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagSubmoduleStmt))
	}
	return rules2003.MatchWholeStatement(string(TagSubmoduleStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "SUBMODULE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagSubmoduleStmt))
		}
		parent, afterParent, err := match.MatchBracketed(k, TagSubmoduleStmt, TagParentIdentifier, "(", ")", rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagSubmoduleStmt))
		}
		trimmed := strings.TrimLeft(afterParent, " \t")
		name, tail, err := k.MatchString(rules2003.TagName, trimmed)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagSubmoduleStmt))
		}
		n := cst.New(TagSubmoduleStmt, rule.KindCustom, cst.NodeItem(parent.Child(0)), cst.NodeItem(name)).
			WithRender(func(n *cst.Node) string {
				return "SUBMODULE (" + n.Child(0).String() + ") " + n.Child(1).String()
			})
		return rules2003.WithSource(n, it), tail, nil
	})
}

func matchEndSubmoduleStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return rules2003.MatchOptionalKeywordEndStmt(rd, TagEndSubmoduleStmt, "SUBMODULE")
}

// matchSubmodule matches R1116: a Submodule_Stmt, an optional specification
// part, an optional execution part, and a required End_Submodule_Stmt,
// enforcing C1114's name match between head and tail the same way
// rules2003's Main_Program/Subroutine_Subprogram do.
func matchSubmodule(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	startCp := rd.Mark()
	head, err := k.MatchStream(TagSubmoduleStmt, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	spec, err := k.MatchStream(rules2003.TagSpecificationPart, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	execItem := cst.AbsentItem()
	execCp := rd.Mark()
	exec, eerr := k.MatchStream(rules2003.TagExecutionPart, rd)
	if eerr == nil {
		execItem = cst.NodeItem(exec)
	} else {
		rd.RewindTo(execCp)
		if !ferrors.IsNoMatch(eerr) {
			return nil, eerr
		}
	}

	tail, err := k.MatchStream(TagEndSubmoduleStmt, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	sName := head.Child(1).String()
	eName := rules2003.EndStatementNameOf(tail)
	if sName != "" && eName != "" && !strings.EqualFold(sName, eName) {
		return nil, ferrors.NewSyntaxError(rd.File(), 0, 0, 0, "",
			string(TagSubmodule)+": END SUBMODULE name \""+eName+"\" does not match SUBMODULE name \""+sName+"\" (C1114)")
	}
	tail = rules2003.EchoBareEnd(tail, "SUBMODULE", sName)

	n := cst.New(TagSubmodule, rule.KindCustom, cst.NodeItem(head), cst.NodeItem(spec), execItem, cst.NodeItem(tail)).
		WithRender(renderSubmodule)
	return n, nil
}

func renderSubmodule(n *cst.Node) string {
	parts := []string{n.Child(0).String()}
	if spec := n.Child(1); spec != nil && len(spec.Items) > 0 {
		parts = append(parts, spec.String())
	}
	if !n.Absent(2) {
		parts = append(parts, n.Child(2).String())
	}
	parts = append(parts, n.Child(3).String())
	return strings.Join(parts, "\n")
}
