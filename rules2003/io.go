package rules2003

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// Tags for READ/WRITE and their R913 control-spec plumbing. The rest of the
// keyword-specifier statement families (OPEN, CLOSE, INQUIRE, WAIT, the
// positioning statements, FLUSH, and ALLOCATE/DEALLOCATE) live in
// io_specs.go, built on the same match.MatchKeywordArgs dispatch.
const (
	TagFormat            rule.Tag = "Format"
	TagIoControlSpecList rule.Tag = "Io_Control_Spec_List"
	TagOutputItemList    rule.Tag = "Output_Item_List"
	TagInputItemList     rule.Tag = "Input_Item_List"
	TagReadStmt          rule.Tag = "Read_Stmt"
	TagWriteStmt         rule.Tag = "Write_Stmt"
)

// ioControlSpecs is the keyword table R913's Io_Control_Spec accepts. Each
// value is matched against the rule listed beside its keyword; FMT's "*"
// and label forms are folded into Format's own alternatives rather than
// given a separate value rule.
var ioControlSpecs = []match.KeywordSpec{
	{Name: "UNIT", Value: TagExpr},
	{Name: "FMT", Value: TagFormat},
	{Name: "IOSTAT", Value: TagDataRef},
	{Name: "ERR", Value: TagLabel},
	{Name: "END", Value: TagLabel},
	{Name: "ADVANCE", Value: TagExpr},
	{Name: "IOMSG", Value: TagDataRef},
	{Name: "REC", Value: TagExpr},
	{Name: "SIZE", Value: TagDataRef},
	{Name: "EOR", Value: TagLabel},
}

func installIO(reg *rule.Registry, k *match.Kernel) {
	reg.Register(TagFormat, rule.Descriptor{Human: "format specifier (R915)", Kind: rule.KindTerminal})
	k.RegisterString(TagFormat, matchFormat)

	reg.Register(TagIoControlSpecList, rule.Descriptor{
		Human: "I/O control spec list (R913)",
		Kind:  rule.KindNone,
		Uses:  []rule.Tag{TagExpr, TagFormat, TagDataRef, TagLabel},
	})
	k.RegisterString(TagIoControlSpecList, matchIoControlSpecList)

	reg.Register(TagOutputItemList, rule.Descriptor{Human: "output item list (R914)", Kind: rule.KindSequence, Sep: ",", Uses: []rule.Tag{TagExpr}})
	k.RegisterString(TagOutputItemList, func(k *match.Kernel, s string) (*cst.Node, string, error) {
		return match.MatchList(k, TagOutputItemList, TagExpr, ",", s)
	})
	reg.Register(TagInputItemList, rule.Descriptor{Human: "input item list (R916)", Kind: rule.KindSequence, Sep: ",", Uses: []rule.Tag{TagDataRef}})
	k.RegisterString(TagInputItemList, func(k *match.Kernel, s string) (*cst.Node, string, error) {
		return match.MatchList(k, TagInputItemList, TagDataRef, ",", s)
	})

	reg.Register(TagReadStmt, rule.Descriptor{
		Human: "read statement (R910)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagIoControlSpecList, TagFormat, TagInputItemList, TagOutputItemList},
	})
	k.RegisterStream(TagReadStmt, matchReadStmt)

	reg.Register(TagWriteStmt, rule.Descriptor{
		Human: "write statement (R911)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagIoControlSpecList, TagOutputItemList},
	})
	k.RegisterStream(TagWriteStmt, matchWriteStmt)
}

// matchFormat matches R915's "*" (list-directed) or a statement label; the
// character-expression form is not modeled (see DESIGN.md, "Rule
// coverage").
func matchFormat(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	if strings.HasPrefix(trimmed, "*") {
		return cst.New(TagFormat, rule.KindTerminal, cst.LeafItem("*")), trimmed[1:], nil
	}
	if node, rest, err := k.MatchString(TagLabel, trimmed); err == nil {
		return cst.New(TagFormat, rule.KindTerminal, cst.LeafItem(node.Leaf(0))), rest, nil
	}
	return nil, s, ferrors.NewNoMatch(string(TagFormat))
}

func matchIoControlSpecList(k *match.Kernel, s string) (*cst.Node, string, error) {
	return match.MatchKeywordArgs(k, TagIoControlSpecList, ioControlSpecs, []rule.Tag{TagExpr, TagFormat}, s)
}

// matchReadStmt matches both of R910's forms: `READ ( io-control-spec-list
// ) [input-item-list]` and `READ format, input-item-list`.
//
// The no-parentheses form reuses Output_Item_List, not Input_Item_List, to
// match its trailing item list; this is a known discrepancy preserved
// rather than silently corrected (see DESIGN.md, "Read_Stmt item-list
// discrepancy").
func matchReadStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagReadStmt))
	}
	return matchWholeStatement(string(TagReadStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "READ")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagReadStmt))
		}
		trimmed := strings.TrimLeft(rest, " \t")

		if strings.HasPrefix(trimmed, "(") {
			ctrl, after, err := match.MatchBracketed(k, TagReadStmt, TagIoControlSpecList, "(", ")", trimmed)
			if err != nil {
				return nil, text, ferrors.NewNoMatch(string(TagReadStmt))
			}
			itemsItem := cst.AbsentItem()
			remainder := after
			if strings.TrimSpace(after) != "" {
				items, tail, ierr := k.MatchString(TagInputItemList, after)
				if ierr != nil {
					return nil, text, ferrors.NewNoMatch(string(TagReadStmt))
				}
				itemsItem = cst.NodeItem(items)
				remainder = tail
			}
			n := cst.New(TagReadStmt, rule.KindCustom, cst.NodeItem(ctrl.Child(0)), itemsItem).WithRender(renderReadStmtParen)
			return withSource(n, it), remainder, nil
		}

		idx := strings.Index(trimmed, ",")
		if idx < 0 {
			return nil, text, ferrors.NewNoMatch(string(TagReadStmt))
		}
		fmtNode, fmtRest, ferr := k.MatchString(TagFormat, trimmed[:idx])
		if ferr != nil || strings.TrimSpace(fmtRest) != "" {
			return nil, text, ferrors.NewNoMatch(string(TagReadStmt))
		}
		items, tail, ierr := k.MatchString(TagOutputItemList, trimmed[idx+1:])
		if ierr != nil {
			return nil, text, ferrors.NewNoMatch(string(TagReadStmt))
		}
		n := cst.New(TagReadStmt, rule.KindCustom, cst.NodeItem(fmtNode), cst.NodeItem(items)).WithRender(renderReadStmtBare)
		return withSource(n, it), tail, nil
	})
}

func renderReadStmtParen(n *cst.Node) string {
	if n.Absent(1) {
		return "READ(" + n.Child(0).String() + ")"
	}
	return "READ(" + n.Child(0).String() + ") " + n.Child(1).String()
}

func renderReadStmtBare(n *cst.Node) string {
	return "READ " + n.Child(0).String() + ", " + n.Child(1).String()
}

// matchWriteStmt matches R911: `WRITE ( io-control-spec-list )
// [output-item-list]`.
func matchWriteStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagWriteStmt))
	}
	return matchWholeStatement(string(TagWriteStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "WRITE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagWriteStmt))
		}
		trimmed := strings.TrimLeft(rest, " \t")
		ctrl, after, err := match.MatchBracketed(k, TagWriteStmt, TagIoControlSpecList, "(", ")", trimmed)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagWriteStmt))
		}
		itemsItem := cst.AbsentItem()
		remainder := after
		if strings.TrimSpace(after) != "" {
			items, tail, ierr := k.MatchString(TagOutputItemList, after)
			if ierr != nil {
				return nil, text, ferrors.NewNoMatch(string(TagWriteStmt))
			}
			itemsItem = cst.NodeItem(items)
			remainder = tail
		}
		n := cst.New(TagWriteStmt, rule.KindCustom, cst.NodeItem(ctrl.Child(0)), itemsItem).WithRender(renderWriteStmt)
		return withSource(n, it), remainder, nil
	})
}

func renderWriteStmt(n *cst.Node) string {
	if n.Absent(1) {
		return "WRITE(" + n.Child(0).String() + ")"
	}
	return "WRITE(" + n.Child(0).String() + ") " + n.Child(1).String()
}
