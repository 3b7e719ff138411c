package rules2003

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// Tags for R201's Action_Stmt alternatives; the R8xx execution constructs
// (If_Construct, Where_Construct, and the labeled/block DO forms) are
// declared in blocks.go. Only a representative subset of alternatives is
// modeled; see
// DESIGN.md, "Rule
// coverage."
const (
	TagActionStmt      rule.Tag = "Action_Stmt"
	TagContinueStmt    rule.Tag = "Continue_Stmt"
	TagStopStmt        rule.Tag = "Stop_Stmt"
	TagCycleStmt       rule.Tag = "Cycle_Stmt"
	TagExitStmt        rule.Tag = "Exit_Stmt"
	TagReturnStmt      rule.Tag = "Return_Stmt"
	TagGotoStmt        rule.Tag = "Goto_Stmt"
	TagPrintStmt       rule.Tag = "Print_Stmt"
	TagCallStmt        rule.Tag = "Call_Stmt"
)

func installExecution(reg *rule.Registry, k *match.Kernel) {
	reg.Register(TagContinueStmt, rule.Descriptor{Human: "continue statement (R845)", Kind: rule.KindTerminal})
	k.RegisterStream(TagContinueStmt, simpleKeywordStmt(TagContinueStmt, "CONTINUE"))

	reg.Register(TagStopStmt, rule.Descriptor{Human: "stop statement (R848)", Kind: rule.KindCustom})
	k.RegisterStream(TagStopStmt, matchStopStmt)

	reg.Register(TagCycleStmt, rule.Descriptor{Human: "cycle statement (R834)", Kind: rule.KindCustom})
	k.RegisterStream(TagCycleStmt, optionalNameKeywordStmt(TagCycleStmt, "CYCLE"))

	reg.Register(TagExitStmt, rule.Descriptor{Human: "exit statement (R835)", Kind: rule.KindCustom})
	k.RegisterStream(TagExitStmt, optionalNameKeywordStmt(TagExitStmt, "EXIT"))

	reg.Register(TagReturnStmt, rule.Descriptor{Human: "return statement (R1224)", Kind: rule.KindTerminal})
	k.RegisterStream(TagReturnStmt, simpleKeywordStmt(TagReturnStmt, "RETURN"))

	reg.Register(TagGotoStmt, rule.Descriptor{Human: "goto statement (R836)", Kind: rule.KindCustom, Uses: []rule.Tag{TagLabel}})
	k.RegisterStream(TagGotoStmt, matchGotoStmt)

	reg.Register(TagPrintStmt, rule.Descriptor{Human: "print statement (R912)", Kind: rule.KindCustom, Uses: []rule.Tag{TagExpr}})
	k.RegisterStream(TagPrintStmt, matchPrintStmt)

	reg.Register(TagCallStmt, rule.Descriptor{Human: "call statement (R1218)", Kind: rule.KindCustom, Uses: []rule.Tag{TagName, TagExpr}})
	k.RegisterStream(TagCallStmt, matchCallStmt)

	reg.Register(TagActionStmt, rule.Descriptor{
		Human: "action statement (R201)",
		Kind:  rule.KindNone,
		Alternatives: []rule.Tag{
			TagAssignmentStmt, TagCallStmt, TagPrintStmt, TagGotoStmt,
			TagCycleStmt, TagExitStmt, TagStopStmt, TagReturnStmt,
			TagContinueStmt, TagReadStmt, TagWriteStmt,
			TagAllocateStmt, TagDeallocateStmt,
			TagOpenStmt, TagCloseStmt, TagInquireStmt, TagWaitStmt,
			TagFlushStmt, TagBackspaceStmt, TagEndfileStmt, TagRewindStmt,
			TagForallStmt, TagWhereStmt,
		},
	})
}

// simpleKeywordStmt builds a StreamFn for a bare `KEYWORD` statement with no
// arguments.
func simpleKeywordStmt(tag rule.Tag, keyword string) match.StreamFn {
	return func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		it, ok := nextStatement(rd)
		if !ok {
			return nil, ferrors.NewNoMatch(string(tag))
		}
		return matchWholeStatement(string(tag), it.Text, func(text string) (*cst.Node, string, error) {
			rest, ok := match.MatchKeyword(text, keyword)
			if !ok {
				return nil, text, ferrors.NewNoMatch(string(tag))
			}
			n := cst.New(tag, rule.KindTerminal, cst.LeafItem(strings.ToUpper(keyword)))
			return withSource(n, it), rest, nil
		})
	}
}

// optionalNameKeywordStmt builds a StreamFn for `KEYWORD [construct-name]`
// (Cycle_Stmt, Exit_Stmt).
func optionalNameKeywordStmt(tag rule.Tag, keyword string) match.StreamFn {
	return func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		it, ok := nextStatement(rd)
		if !ok {
			return nil, ferrors.NewNoMatch(string(tag))
		}
		return matchWholeStatement(string(tag), it.Text, func(text string) (*cst.Node, string, error) {
			rest, ok := match.MatchKeyword(text, keyword)
			if !ok {
				return nil, text, ferrors.NewNoMatch(string(tag))
			}
			trimmed := strings.TrimLeft(rest, " \t")
			nameItem := cst.AbsentItem()
			if nameNode, tail, err := k.MatchString(TagName, trimmed); err == nil {
				nameItem = cst.NodeItem(nameNode)
				rest = tail
			}
			n := cst.New(tag, rule.KindWordPayload, cst.LeafItem(strings.ToUpper(keyword)), nameItem)
			return withSource(n, it), rest, nil
		})
	}
}

// matchStopStmt matches `STOP [stop-code]`, where stop-code is a digit
// string or a character literal.
func matchStopStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagStopStmt))
	}
	return matchWholeStatement(string(TagStopStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "STOP")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagStopStmt))
		}
		trimmed := strings.TrimLeft(rest, " \t")
		codeItem := cst.AbsentItem()
		if trimmed != "" {
			if node, tail, err := k.MatchString(TagDigitString, trimmed); err == nil {
				codeItem = cst.NodeItem(node)
				rest = tail
			} else if node, tail, err := k.MatchString(TagCharLiteralConstant, trimmed); err == nil {
				codeItem = cst.NodeItem(node)
				rest = tail
			}
		}
		n := cst.New(TagStopStmt, rule.KindWordPayload, cst.LeafItem("STOP"), codeItem)
		return withSource(n, it), rest, nil
	})
}

func matchGotoStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagGotoStmt))
	}
	return matchWholeStatement(string(TagGotoStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "GO")
		if ok {
			rest, ok = match.MatchKeyword(rest, "TO")
		} else {
			rest, ok = match.MatchKeyword(text, "GOTO")
		}
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagGotoStmt))
		}
		labelNode, tail, err := k.MatchString(TagLabel, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagGotoStmt))
		}
		n := cst.New(TagGotoStmt, rule.KindWordPayload, cst.LeafItem("GO TO"), cst.NodeItem(labelNode))
		return withSource(n, it), tail, nil
	})
}

// matchPrintStmt matches R912's common case: `PRINT *, output-item-list`.
// Format specifiers other than list-directed "*" are not modeled.
func matchPrintStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagPrintStmt))
	}
	return matchWholeStatement(string(TagPrintStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "PRINT")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagPrintStmt))
		}
		trimmed := strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(trimmed, "*") {
			return nil, text, ferrors.NewNoMatch(string(TagPrintStmt))
		}
		afterStar := strings.TrimLeft(trimmed[1:], " \t")
		afterStar = strings.TrimPrefix(afterStar, ",")

		itemsItem := cst.AbsentItem()
		remainder := afterStar
		if strings.TrimSpace(afterStar) != "" {
			listTag := TagExpr + "_List"
			node, tail, err := k.MatchString(listTag, afterStar)
			if err != nil {
				return nil, text, ferrors.NewNoMatch(string(TagPrintStmt))
			}
			itemsItem = cst.NodeItem(node)
			remainder = tail
		}
		n := cst.New(TagPrintStmt, rule.KindCustom, itemsItem).WithRender(renderPrintStmt)
		return withSource(n, it), remainder, nil
	})
}

func renderPrintStmt(n *cst.Node) string {
	if n.Absent(0) {
		return "PRINT *"
	}
	return "PRINT *, " + n.Child(0).String()
}

// matchCallStmt matches `CALL name [( actual-arg-spec-list )]`.
func matchCallStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagCallStmt))
	}
	return matchWholeStatement(string(TagCallStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "CALL")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagCallStmt))
		}
		trimmed := strings.TrimLeft(rest, " \t")
		name, afterName, err := k.MatchString(TagName, trimmed)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagCallStmt))
		}
		afterNameTrim := strings.TrimLeft(afterName, " \t")
		if !strings.HasPrefix(afterNameTrim, "(") {
			n := cst.New(TagCallStmt, rule.KindCall, cst.NodeItem(name), cst.AbsentItem()).WithRender(renderCallStmt)
			return withSource(n, it), afterName, nil
		}
		listTag := TagExpr + "_List"
		bracketed, remainder, err := match.MatchBracketed(k, TagCallStmt, listTag, "(", ")", afterNameTrim)
		if err != nil {
			n := cst.New(TagCallStmt, rule.KindCall, cst.NodeItem(name), cst.AbsentItem()).WithRender(renderCallStmt)
			return withSource(n, it), afterName, nil
		}
		n := cst.New(TagCallStmt, rule.KindCall, cst.NodeItem(name), cst.NodeItem(bracketed.Child(0))).WithRender(renderCallStmt)
		return withSource(n, it), remainder, nil
	})
}

func renderCallStmt(n *cst.Node) string {
	out := "CALL " + n.Child(0).String()
	if !n.Absent(1) {
		out += "(" + n.Child(1).String() + ")"
	}
	return out
}
