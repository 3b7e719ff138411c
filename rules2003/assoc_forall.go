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

// Tags for the ASSOCIATE construct (R816-R820, C810 name matching) and the
// FORALL construct and statement (R752-R759).
const (
	TagAssociation        rule.Tag = "Association"
	TagAssociateStmt      rule.Tag = "Associate_Stmt"
	TagEndAssociateStmt   rule.Tag = "End_Associate_Stmt"
	TagAssociateConstruct rule.Tag = "Associate_Construct"

	TagForallTripletSpec  rule.Tag = "Forall_Triplet_Spec"
	TagForallHeader       rule.Tag = "Forall_Header"
	TagForallConstructStmt rule.Tag = "Forall_Construct_Stmt"
	TagEndForallStmt      rule.Tag = "End_Forall_Stmt"
	TagForallConstruct    rule.Tag = "Forall_Construct"
	TagForallStmt         rule.Tag = "Forall_Stmt"
)

func installAssociateAndForall(reg *rule.Registry, k *match.Kernel) {
	reg.Register(TagAssociation, rule.Descriptor{
		Human: "association (R818)",
		Kind:  rule.KindSeparator,
		Sep:   " => ",
		Uses:  []rule.Tag{TagName, TagExpr},
	})
	k.RegisterString(TagAssociation, matchAssociation)
	match.GenerateList(reg, k, TagAssociation, ",")

	reg.Register(TagAssociateStmt, rule.Descriptor{Human: "associate statement (R817)", Kind: rule.KindCustom, Uses: []rule.Tag{TagAssociation}})
	k.RegisterStream(TagAssociateStmt, matchAssociateStmt)

	reg.Register(TagEndAssociateStmt, rule.Descriptor{Human: "end-associate statement (R820)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndAssociateStmt, func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		return matchGenericEndStmt(rd, TagEndAssociateStmt, "ASSOCIATE")
	})

	reg.Register(TagAssociateConstruct, rule.Descriptor{
		Human: "associate construct (R816)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagAssociateStmt, TagEndAssociateStmt},
	})
	k.RegisterStream(TagAssociateConstruct, func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		return match.MatchBlock(k, TagAssociateConstruct, TagAssociateStmt,
			[]rule.Tag{TagExecutionPartConstruct},
			TagEndAssociateStmt, constructNameOf, endStatementNameOf, rd)
	})

	reg.Register(TagForallTripletSpec, rule.Descriptor{Human: "forall triplet spec (R755)", Kind: rule.KindCustom, Uses: []rule.Tag{TagName, TagExpr}})
	k.RegisterString(TagForallTripletSpec, matchForallTripletSpec)

	reg.Register(TagForallHeader, rule.Descriptor{
		Human: "forall header (R754)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagForallTripletSpec, TagLogicalExpr},
	})
	k.RegisterString(TagForallHeader, matchForallHeader)

	reg.Register(TagForallConstructStmt, rule.Descriptor{Human: "forall construct statement (R753)", Kind: rule.KindCustom, Uses: []rule.Tag{TagForallHeader}})
	k.RegisterStream(TagForallConstructStmt, matchForallConstructStmt)

	reg.Register(TagEndForallStmt, rule.Descriptor{Human: "end-forall statement (R757)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndForallStmt, func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		return matchGenericEndStmt(rd, TagEndForallStmt, "FORALL")
	})

	reg.Register(TagForallConstruct, rule.Descriptor{
		Human: "forall construct (R752)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagForallConstructStmt, TagEndForallStmt},
	})
	k.RegisterStream(TagForallConstruct, func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		return match.MatchBlock(k, TagForallConstruct, TagForallConstructStmt,
			[]rule.Tag{TagExecutionPartConstruct},
			TagEndForallStmt, constructNameOf, endStatementNameOf, rd)
	})

	reg.Register(TagForallStmt, rule.Descriptor{Human: "forall statement (R759)", Kind: rule.KindCustom, Uses: []rule.Tag{TagForallHeader, TagAssignmentStmt}})
	k.RegisterStream(TagForallStmt, matchForallStmt)
}

// matchAssociation matches R818: `associate-name => selector`.
func matchAssociation(k *match.Kernel, s string) (*cst.Node, string, error) {
	sp := splitline.New(strings.TrimSpace(s))
	rewritten := sp.Rewritten()
	idx := strings.Index(rewritten, "=>")
	if idx < 0 {
		return nil, s, ferrors.NewNoMatch(string(TagAssociation))
	}
	nameText := sp.Restore(rewritten[:idx])
	selText := sp.Restore(rewritten[idx+2:])

	nameNode, nameRest, err := k.MatchString(TagName, nameText)
	if err != nil || strings.TrimSpace(nameRest) != "" {
		return nil, s, ferrors.NewNoMatch(string(TagAssociation))
	}
	sel, selRest, err := k.MatchString(TagExpr, selText)
	if err != nil || strings.TrimSpace(selRest) != "" {
		return nil, s, ferrors.NewNoMatch(string(TagAssociation))
	}

	n := cst.New(TagAssociation, rule.KindSeparator, cst.NodeItem(nameNode), cst.NodeItem(sel)).WithSep(" => ")
	return n, "", nil
}

// matchAssociateStmt matches R817: `[name:] ASSOCIATE ( association-list )`.
func matchAssociateStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagAssociateStmt))
	}
	return matchWholeStatement(string(TagAssociateStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "ASSOCIATE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagAssociateStmt))
		}
		listTag := TagAssociation + "_List"
		assocs, after, err := match.MatchBracketed(k, "association-list", listTag, "(", ")", rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagAssociateStmt))
		}
		n := cst.New(TagAssociateStmt, rule.KindCustom, cst.NodeItem(assocs)).
			WithRender(func(n *cst.Node) string { return "ASSOCIATE " + n.Child(0).String() })
		return withSource(n, it), after, nil
	})
}

// matchForallTripletSpec matches R755: `index-name = subscript : subscript
// [ : stride]`.
func matchForallTripletSpec(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimSpace(s)
	sp := splitline.New(trimmed)
	rewritten := sp.Rewritten()
	eqIdx := strings.Index(rewritten, "=")
	if eqIdx < 0 {
		return nil, s, ferrors.NewNoMatch(string(TagForallTripletSpec))
	}
	nameText := sp.Restore(rewritten[:eqIdx])
	boundsText := sp.Restore(rewritten[eqIdx+1:])

	nameNode, nameRest, err := k.MatchString(TagName, nameText)
	if err != nil || strings.TrimSpace(nameRest) != "" {
		return nil, s, ferrors.NewNoMatch(string(TagForallTripletSpec))
	}

	boundsSp := splitline.New(strings.TrimSpace(boundsText))
	pieces := boundsSp.TopLevelSplit(":")
	if len(pieces) != 2 && len(pieces) != 3 {
		return nil, s, ferrors.NewNoMatch(string(TagForallTripletSpec))
	}

	exprs := make([]cst.Item, 0, 3)
	for _, piece := range pieces {
		node, rest, err := k.MatchString(TagExpr, piece)
		if err != nil || strings.TrimSpace(rest) != "" {
			return nil, s, ferrors.NewNoMatch(string(TagForallTripletSpec))
		}
		exprs = append(exprs, cst.NodeItem(node))
	}
	strideItem := cst.AbsentItem()
	if len(exprs) == 3 {
		strideItem = exprs[2]
	}

	n := cst.New(TagForallTripletSpec, rule.KindCustom, cst.NodeItem(nameNode), exprs[0], exprs[1], strideItem).
		WithRender(renderForallTripletSpec)
	return n, "", nil
}

func renderForallTripletSpec(n *cst.Node) string {
	out := n.Child(0).String() + " = " + n.Child(1).String() + " : " + n.Child(2).String()
	if !n.Absent(3) {
		out += " : " + n.Child(3).String()
	}
	return out
}

// matchForallHeader matches R754: `( forall-triplet-spec-list [,
// scalar-mask-expr] )`. Every comma-piece but the last must be a triplet
// spec; the last may instead be the mask expression.
func matchForallHeader(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	if !strings.HasPrefix(trimmed, "(") {
		return nil, s, ferrors.NewNoMatch(string(TagForallHeader))
	}
	closeIdx := strings.LastIndex(trimmed, ")")
	if closeIdx < 0 {
		return nil, s, ferrors.NewNoMatch(string(TagForallHeader))
	}
	inner := trimmed[1:closeIdx]
	after := trimmed[closeIdx+1:]

	sp := splitline.New(strings.TrimSpace(inner))
	pieces := sp.TopLevelSplit(",")
	if len(pieces) == 0 {
		return nil, s, ferrors.NewNoMatch(string(TagForallHeader))
	}

	var triplets []cst.Item
	maskItem := cst.AbsentItem()
	for i, piece := range pieces {
		node, rest, err := k.MatchString(TagForallTripletSpec, piece)
		if err == nil && strings.TrimSpace(rest) == "" {
			triplets = append(triplets, cst.NodeItem(node))
			continue
		}
		if i != len(pieces)-1 {
			return nil, s, ferrors.NewNoMatch(string(TagForallHeader))
		}
		mask, maskRest, merr := k.MatchString(TagLogicalExpr, piece)
		if merr != nil || strings.TrimSpace(maskRest) != "" {
			return nil, s, ferrors.NewNoMatch(string(TagForallHeader))
		}
		maskItem = cst.NodeItem(mask)
	}
	if len(triplets) == 0 {
		return nil, s, ferrors.NewNoMatch(string(TagForallHeader))
	}

	tripletList := cst.New(TagForallTripletSpec+"_List", rule.KindSequence, triplets...).WithSep(", ")
	n := cst.New(TagForallHeader, rule.KindCustom, cst.NodeItem(tripletList), maskItem).WithRender(renderForallHeader)
	return n, after, nil
}

func renderForallHeader(n *cst.Node) string {
	out := "(" + n.Child(0).String()
	if !n.Absent(1) {
		out += ", " + n.Child(1).String()
	}
	return out + ")"
}

// matchForallConstructStmt matches R753: `[name:] FORALL forall-header` with
// nothing after the header; a trailing assignment on the same line makes the
// statement a single-statement Forall_Stmt (R759) instead.
func matchForallConstructStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagForallConstructStmt))
	}
	return matchWholeStatement(string(TagForallConstructStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "FORALL")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagForallConstructStmt))
		}
		header, after, err := k.MatchString(TagForallHeader, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagForallConstructStmt))
		}
		n := cst.New(TagForallConstructStmt, rule.KindCustom, cst.NodeItem(header)).
			WithRender(func(n *cst.Node) string { return "FORALL " + n.Child(0).String() })
		return withSource(n, it), after, nil
	})
}

// matchForallStmt matches R759's single-statement form: `FORALL
// forall-header forall-assignment-stmt`, sharing one logical line.
func matchForallStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagForallStmt))
	}
	return matchWholeStatement(string(TagForallStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "FORALL")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagForallStmt))
		}
		header, after, err := k.MatchString(TagForallHeader, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagForallStmt))
		}
		if strings.TrimSpace(after) == "" {
			// construct-opening form, not the single-statement form
			return nil, text, ferrors.NewNoMatch(string(TagForallStmt))
		}
		assign, tail, err := k.MatchString(TagAssignmentStmt, after)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagForallStmt))
		}
		n := cst.New(TagForallStmt, rule.KindCustom, cst.NodeItem(header), cst.NodeItem(assign)).
			WithRender(func(n *cst.Node) string { return "FORALL " + n.Child(0).String() + " " + n.Child(1).String() })
		return withSource(n, it), tail, nil
	})
}
