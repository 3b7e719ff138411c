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

// Tags for the R701-R722 expression precedence chain, built narrowest
// (Power, binds tightest) to widest (Expr, the top of the chain), plus
// R734's Assignment_Stmt.
const (
	TagPrimary       rule.Tag = "Primary"
	TagLevel1Expr    rule.Tag = "Level_1_Expr"
	TagMultOperand   rule.Tag = "Mult_Operand" // Power chain (R704)
	TagAddOperand    rule.Tag = "Add_Operand"  // Mult/Div chain (R702-703)
	TagLevel2Expr    rule.Tag = "Level_2_Expr"  // Add/Sub chain (R705-706), with optional leading sign
	TagLevel3Expr    rule.Tag = "Level_3_Expr"  // Concat chain (R709-710)
	TagLevel4Expr    rule.Tag = "Level_4_Expr"  // Relational (R712-714)
	TagAndOperand    rule.Tag = "And_Operand"   // .NOT. prefix (R719)
	TagOrOperand     rule.Tag = "Or_Operand"    // .AND. chain (R718)
	TagEquivOperand  rule.Tag = "Equiv_Operand" // .OR. chain (R717)
	TagLevel5Expr    rule.Tag = "Level_5_Expr"  // .EQV./.NEQV. chain (R715-716)
	TagExpr          rule.Tag = "Expr"          // top of the chain (R722)
	TagIntExpr       rule.Tag = "Int_Expr"
	TagLogicalExpr   rule.Tag = "Logical_Expr"
	TagAssignmentStmt rule.Tag = "Assignment_Stmt"
)

func installExpr(reg *rule.Registry, k *match.Kernel) {
	// Primary (R701): a literal constant, a Data_Ref, or a parenthesized
	// Expr. Function references and array constructors are not modeled
	// separately; a call-shaped Data_Ref (Part_Ref with a subscript list)
	// stands in for both, matching how the grammar is genuinely ambiguous
	// between them until semantic analysis. See DESIGN.md, "Rule coverage."
	reg.Register(TagPrimary, rule.Descriptor{
		Human: "primary (R701)",
		Kind:  rule.KindNone,
		Alternatives: []rule.Tag{
			TagLiteralConstant,
			TagDataRef,
		},
	})
	k.RegisterString(TagPrimary, matchParenExpr)

	reg.Register(TagMultOperand, rule.Descriptor{
		Human: "mult operand / power chain (R704)",
		Kind:  rule.KindBinaryOp,
		Assoc: rule.RightAssoc,
		Uses:  []rule.Tag{TagPrimary},
	})
	k.RegisterString(TagMultOperand, func(k *match.Kernel, s string) (*cst.Node, string, error) {
		n, rest, err := match.MatchRightAssocBinaryOp(k, TagMultOperand, TagPrimary, "**", s)
		if err != nil {
			if ferrors.IsNoMatch(err) {
				// no "**" follows: a bare Primary is a Mult_Operand too
				return k.MatchString(TagPrimary, s)
			}
			return nil, s, err
		}
		n = n.WithRender(func(n *cst.Node) string { return n.Child(0).String() + n.Leaf(1) + n.Child(2).String() })
		return n, rest, nil
	})

	reg.Register(TagAddOperand, rule.Descriptor{
		Human: "add operand / mult-div chain (R702-703)",
		Kind:  rule.KindBinaryOp,
		Assoc: rule.LeftAssoc,
		Uses:  []rule.Tag{TagMultOperand},
	})
	k.RegisterString(TagAddOperand, func(k *match.Kernel, s string) (*cst.Node, string, error) {
		return match.MatchBinaryOpChain(k, TagAddOperand, TagMultOperand, []string{"*", "/"}, s)
	})

	reg.Register(TagLevel2Expr, rule.Descriptor{
		Human: "level-2 expr / add-sub chain (R705-706)",
		Kind:  rule.KindBinaryOp,
		Assoc: rule.LeftAssoc,
		Uses:  []rule.Tag{TagAddOperand},
	})
	k.RegisterString(TagLevel2Expr, matchLevel2Expr)

	reg.Register(TagLevel3Expr, rule.Descriptor{
		Human: "level-3 expr / concat chain (R709-710)",
		Kind:  rule.KindBinaryOp,
		Assoc: rule.LeftAssoc,
		Uses:  []rule.Tag{TagLevel2Expr},
	})
	k.RegisterString(TagLevel3Expr, func(k *match.Kernel, s string) (*cst.Node, string, error) {
		return match.MatchBinaryOpChain(k, TagLevel3Expr, TagLevel2Expr, []string{"//"}, s)
	})

	reg.Register(TagLevel4Expr, rule.Descriptor{
		Human: "level-4 expr / relational (R712-714)",
		Kind:  rule.KindBinaryOp,
		Assoc: rule.LeftAssoc,
		Uses:  []rule.Tag{TagLevel3Expr},
	})
	k.RegisterString(TagLevel4Expr, func(k *match.Kernel, s string) (*cst.Node, string, error) {
		return match.MatchBinaryOpChain(k, TagLevel4Expr, TagLevel3Expr, []string{
			".EQ.", ".NE.", ".LE.", ".GE.", ".LT.", ".GT.",
			"==", "/=", "<=", ">=", "<", ">",
		}, s)
	})

	reg.Register(TagAndOperand, rule.Descriptor{
		Human: "and operand / not prefix (R719)",
		Kind:  rule.KindNone,
		Alternatives: []rule.Tag{TagLevel4Expr},
	})
	k.RegisterString(TagAndOperand, matchAndOperand)

	reg.Register(TagOrOperand, rule.Descriptor{
		Human: "or operand / and chain (R718)",
		Kind:  rule.KindBinaryOp,
		Assoc: rule.LeftAssoc,
		Uses:  []rule.Tag{TagAndOperand},
	})
	k.RegisterString(TagOrOperand, func(k *match.Kernel, s string) (*cst.Node, string, error) {
		return match.MatchBinaryOpChain(k, TagOrOperand, TagAndOperand, []string{".AND."}, s)
	})

	reg.Register(TagEquivOperand, rule.Descriptor{
		Human: "equiv operand / or chain (R717)",
		Kind:  rule.KindBinaryOp,
		Assoc: rule.LeftAssoc,
		Uses:  []rule.Tag{TagOrOperand},
	})
	k.RegisterString(TagEquivOperand, func(k *match.Kernel, s string) (*cst.Node, string, error) {
		return match.MatchBinaryOpChain(k, TagEquivOperand, TagOrOperand, []string{".OR."}, s)
	})

	reg.Register(TagLevel5Expr, rule.Descriptor{
		Human: "level-5 expr / eqv-neqv chain (R715-716)",
		Kind:  rule.KindBinaryOp,
		Assoc: rule.LeftAssoc,
		Uses:  []rule.Tag{TagEquivOperand},
	})
	k.RegisterString(TagLevel5Expr, func(k *match.Kernel, s string) (*cst.Node, string, error) {
		return match.MatchBinaryOpChain(k, TagLevel5Expr, TagEquivOperand, []string{".EQV.", ".NEQV."}, s)
	})

	reg.Register(TagExpr, rule.Descriptor{
		Human:        "expr (R722)",
		Kind:         rule.KindNone,
		Alternatives: []rule.Tag{TagLevel5Expr},
	})
	match.GenerateList(reg, k, TagExpr, ",")

	reg.Register(TagIntExpr, rule.Descriptor{
		Human:        "int expr (R732)",
		Kind:         rule.KindNone,
		Alternatives: []rule.Tag{TagExpr},
	})
	reg.Register(TagLogicalExpr, rule.Descriptor{
		Human:        "logical expr (R733)",
		Kind:         rule.KindNone,
		Alternatives: []rule.Tag{TagExpr},
	})

	reg.Register(TagAssignmentStmt, rule.Descriptor{
		Human: "assignment statement (R734)",
		Kind:  rule.KindBinaryOp,
		Sep:   " = ",
		Uses:  []rule.Tag{TagDataRef, TagExpr},
	})
	k.RegisterStream(TagAssignmentStmt, matchAssignmentStmt)
}

// matchParenExpr handles Primary's parenthesized-Expr alternative, which
// must be tried after the literal/Data_Ref alternatives declared on
// Primary's Descriptor since those run first through the kernel's
// Alternatives loop; this StringFn is only reached once both have failed.
func matchParenExpr(k *match.Kernel, s string) (*cst.Node, string, error) {
	node, rest, err := match.MatchBracketed(k, TagPrimary, TagExpr, "(", ")", s)
	if err != nil {
		return nil, s, ferrors.NewNoMatch(string(TagPrimary))
	}
	return node, rest, nil
}

// matchLevel2Expr matches R705/R706: an Add_Operand chain with an optional
// leading unary sign on the very first operand.
func matchLevel2Expr(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	sign := ""
	rest := trimmed
	if strings.HasPrefix(trimmed, "+") || strings.HasPrefix(trimmed, "-") {
		sign = trimmed[:1]
		rest = trimmed[1:]
	}

	chainTail, tail, err := match.MatchBinaryOpChain(k, TagLevel2Expr, TagAddOperand, []string{"+", "-"}, rest)
	if err != nil {
		return nil, s, err
	}

	if sign == "" {
		return chainTail, tail, nil
	}
	n := cst.New(TagLevel2Expr, rule.KindUnaryOp, cst.LeafItem(sign), cst.NodeItem(chainTail))
	return n, tail, nil
}

// matchAndOperand matches R719: an optional ".NOT." prefix on a single
// Level_4_Expr (the Descriptor's bare alternative handles the no-prefix
// case; this StringFn only runs once that has already failed, i.e. only
// when a ".NOT." prefix is actually present).
func matchAndOperand(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	rest, ok := match.MatchKeyword(trimmed, ".NOT.")
	if !ok {
		return nil, s, ferrors.NewNoMatch(string(TagAndOperand))
	}
	operand, remainder, err := k.MatchString(TagLevel4Expr, rest)
	if err != nil {
		return nil, s, ferrors.NewNoMatch(string(TagAndOperand))
	}
	n := cst.New(TagAndOperand, rule.KindUnaryOp, cst.LeafItem(".NOT."), cst.NodeItem(operand))
	return n, remainder, nil
}

// matchAssignmentStmt matches R734: `Data_Ref = Expr` (the Variable
// nonterminal is represented directly as Data_Ref; see DESIGN.md, "Rule
// coverage").
func matchAssignmentStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagAssignmentStmt))
	}
	return matchWholeStatement(string(TagAssignmentStmt), it.Text, func(text string) (*cst.Node, string, error) {
		sp := splitTopLevelAssign(text)
		if sp < 0 {
			return nil, text, ferrors.NewNoMatch(string(TagAssignmentStmt))
		}
		lhs, lrest, err := k.MatchString(TagDataRef, text[:sp])
		if err != nil || strings.TrimSpace(lrest) != "" {
			return nil, text, ferrors.NewNoMatch(string(TagAssignmentStmt))
		}
		rhs, rrest, err := k.MatchString(TagExpr, text[sp+1:])
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagAssignmentStmt))
		}
		n := cst.New(TagAssignmentStmt, rule.KindBinaryOp, cst.NodeItem(lhs), cst.LeafItem("="), cst.NodeItem(rhs))
		return withSource(n, it), rrest, nil
	})
}

// splitTopLevelAssign finds the index (within s) of a top-level "=" that is
// not part of "==", "/=", "<=", ">=", or "=>", skipping string literals and
// parenthesized spans via splitline so an "=" embedded in a string or an
// array-subscript comparison is never mistaken for the assignment operator.
func splitTopLevelAssign(s string) int {
	sp := splitline.New(s)
	rewritten := sp.Rewritten()
	for i := 0; i < len(rewritten); i++ {
		if rewritten[i] != '=' {
			continue
		}
		if i+1 < len(rewritten) && (rewritten[i+1] == '=' || rewritten[i+1] == '>') {
			i++
			continue
		}
		if i > 0 {
			switch rewritten[i-1] {
			case '=', '/', '<', '>':
				continue
			}
		}
		return len(sp.Restore(rewritten[:i]))
	}
	return -1
}
