package rules2003

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// Tags for the R8xx execution constructs: If_Construct, Where_Construct,
// and the labeled/block DO forms, including R826's shared-terminator
// behavior for nested label-DOs closed by one labeled statement.
const (
	TagIfThenStmt rule.Tag = "If_Then_Stmt"
	TagElseIfStmt rule.Tag = "Else_If_Stmt"
	TagElseStmt   rule.Tag = "Else_Stmt"
	TagEndIfStmt  rule.Tag = "End_If_Stmt"
	TagIfConstruct rule.Tag = "If_Construct"
	TagIfStmt     rule.Tag = "If_Stmt"

	TagWhereStmt      rule.Tag = "Where_Stmt"
	TagElsewhereStmt  rule.Tag = "Elsewhere_Stmt"
	TagEndWhereStmt   rule.Tag = "End_Where_Stmt"
	TagWhereConstruct rule.Tag = "Where_Construct"

	TagLabelDoStmt              rule.Tag = "Label_Do_Stmt"
	TagNonlabelDoStmt           rule.Tag = "Nonlabel_Do_Stmt"
	TagEndDoStmt                rule.Tag = "End_Do_Stmt"
	TagLabeledActionStmt        rule.Tag = "Labeled_Action_Stmt"
	TagBlockLabelDoConstruct    rule.Tag = "Block_Label_Do_Construct"
	TagBlockNonlabelDoConstruct rule.Tag = "Block_Nonlabel_Do_Construct"

	TagExecutionPartConstruct rule.Tag = "Execution_Part_Construct"

	// TagDoTermActionStmt is R835's do-term-action-stmt: the action
	// statement a labeled-DO's terminator carries. F2003 imposes no extra
	// restriction beyond Action_Stmt itself; rules2008 overrides this tag's
	// descriptor (not this package's) to narrow the alternative list per
	// C816, composing through registry substitution rather than a
	// duplicated matcher (spec §4.8).
	TagDoTermActionStmt rule.Tag = "Do_Term_Action_Stmt"
)

func installBlocks(reg *rule.Registry, k *match.Kernel) {
	// R807 If_Then_Stmt: `[name:] IF ( scalar-logical-expr ) THEN`.
	reg.Register(TagIfThenStmt, rule.Descriptor{Human: "if-then statement (R807)", Kind: rule.KindCustom, Uses: []rule.Tag{TagLogicalExpr}})
	k.RegisterStream(TagIfThenStmt, matchIfThenStmt)

	reg.Register(TagElseIfStmt, rule.Descriptor{Human: "else-if statement (R808)", Kind: rule.KindCustom, Uses: []rule.Tag{TagLogicalExpr}})
	k.RegisterStream(TagElseIfStmt, matchElseIfStmt)

	reg.Register(TagElseStmt, rule.Descriptor{Human: "else statement (R809)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagElseStmt, matchElseStmt)

	reg.Register(TagEndIfStmt, rule.Descriptor{Human: "end-if statement (R810)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndIfStmt, matchEndIfStmt)

	// R806 If_Construct proper accepts an If_Then_Stmt, zero or more
	// bodies-then-Else_If_Stmt alternations, an optional Else_Stmt body,
	// and an End_If_Stmt. The generic block matcher's EnableIfConstruct
	// hook admits Else_If_Stmt/Else_Stmt as dividers, tried before the
	// Execution_Part_Construct body rule at each position, which is
	// equivalent.
	reg.Register(TagIfConstruct, rule.Descriptor{
		Human: "if construct (R806)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagIfThenStmt, TagElseIfStmt, TagElseStmt, TagEndIfStmt},
	})
	k.RegisterStream(TagIfConstruct, matchIfConstruct)

	// R805 If_Stmt: the single-statement form, `IF ( expr ) action-stmt`,
	// tried only where If_Construct's If_Then_Stmt (which requires a
	// trailing THEN) has already failed.
	reg.Register(TagIfStmt, rule.Descriptor{Human: "if statement (R805)", Kind: rule.KindCustom, Uses: []rule.Tag{TagLogicalExpr, TagActionStmt}})
	k.RegisterStream(TagIfStmt, matchIfStmt)

	reg.Register(TagWhereStmt, rule.Descriptor{Human: "where statement (R740)", Kind: rule.KindCustom, Uses: []rule.Tag{TagLogicalExpr}})
	k.RegisterStream(TagWhereStmt, matchWhereStmt)

	reg.Register(TagElsewhereStmt, rule.Descriptor{Human: "elsewhere statement (R743)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagElsewhereStmt, matchElsewhereStmt)

	reg.Register(TagEndWhereStmt, rule.Descriptor{Human: "end-where statement (R744)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndWhereStmt, matchEndWhereStmt)

	reg.Register(TagWhereConstruct, rule.Descriptor{
		Human: "where construct (R739)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagWhereStmt, TagElsewhereStmt, TagEndWhereStmt, TagAssignmentStmt},
	})
	k.RegisterStream(TagWhereConstruct, matchWhereConstruct)

	reg.Register(TagLabelDoStmt, rule.Descriptor{Human: "label-do statement (R826)", Kind: rule.KindCustom, Uses: []rule.Tag{TagLabel}})
	k.RegisterStream(TagLabelDoStmt, matchLabelDoStmt)

	reg.Register(TagNonlabelDoStmt, rule.Descriptor{Human: "nonlabel-do statement (R827)", Kind: rule.KindCustom})
	k.RegisterStream(TagNonlabelDoStmt, matchNonlabelDoStmt)

	reg.Register(TagEndDoStmt, rule.Descriptor{Human: "end-do statement (R831)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndDoStmt, matchEndDoStmt)

	reg.Register(TagDoTermActionStmt, rule.Descriptor{
		Human:        "do-term-action statement (R835)",
		Kind:         rule.KindNone,
		Alternatives: []rule.Tag{TagActionStmt},
	})

	reg.Register(TagLabeledActionStmt, rule.Descriptor{
		Human: "labeled action statement terminating one or more label-DOs",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagLabel, TagDoTermActionStmt},
	})
	k.RegisterStream(TagLabeledActionStmt, matchLabeledActionStmt)

	// R825's block-DO-construct, the labeled form: a Label_Do_Stmt whose
	// terminator is a labeled action statement possibly shared with
	// enclosing label-DOs of the same label (R826).
	reg.Register(TagBlockLabelDoConstruct, rule.Descriptor{
		Human: "block label-do construct (R825-826)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagLabelDoStmt, TagEndDoStmt, TagLabeledActionStmt},
	})
	k.RegisterStream(TagBlockLabelDoConstruct, matchBlockLabelDoConstruct)

	// R825's other surface form: Nonlabel_Do_Stmt terminated by a plain
	// End_Do_Stmt, with no shared-label bookkeeping needed.
	reg.Register(TagBlockNonlabelDoConstruct, rule.Descriptor{
		Human: "block nonlabel-do construct (R825,R827)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagNonlabelDoStmt, TagEndDoStmt, TagExecutionPartConstruct},
	})
	k.RegisterStream(TagBlockNonlabelDoConstruct, matchBlockNonlabelDoConstruct)

	reg.Register(TagExecutionPartConstruct, rule.Descriptor{
		Human: "execution part construct (R204)",
		Kind:  rule.KindNone,
		Alternatives: []rule.Tag{
			TagIfConstruct, TagCaseConstruct, TagSelectTypeConstruct,
			TagAssociateConstruct, TagWhereConstruct, TagForallConstruct,
			TagBlockLabelDoConstruct, TagBlockNonlabelDoConstruct,
			TagIfStmt, TagActionStmt,
		},
	})
}

// matchLogicalCondInParens matches `( logical-expr )`, the shared shape of
// If_Then_Stmt, If_Stmt, Else_If_Stmt, and Where_Stmt's test.
func matchLogicalCondInParens(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	return match.MatchBracketed(k, "cond", TagLogicalExpr, "(", ")", trimmed)
}

func matchIfThenStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagIfThenStmt))
	}
	return matchWholeStatement(string(TagIfThenStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "IF")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagIfThenStmt))
		}
		cond, afterCond, err := matchLogicalCondInParens(k, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagIfThenStmt))
		}
		afterThen, ok := match.MatchKeyword(afterCond, "THEN")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagIfThenStmt))
		}
		n := cst.New(TagIfThenStmt, rule.KindCustom, cst.NodeItem(cond)).
			WithRender(func(n *cst.Node) string { return "IF " + n.Child(0).String() + " THEN" })
		return withSource(n, it), afterThen, nil
	})
}

func matchElseIfStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagElseIfStmt))
	}
	return matchWholeStatement(string(TagElseIfStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "ELSE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagElseIfStmt))
		}
		rest, ok = match.MatchKeyword(rest, "IF")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagElseIfStmt))
		}
		cond, afterCond, err := matchLogicalCondInParens(k, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagElseIfStmt))
		}
		afterThen, ok := match.MatchKeyword(afterCond, "THEN")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagElseIfStmt))
		}
		n := cst.New(TagElseIfStmt, rule.KindCustom, cst.NodeItem(cond)).
			WithRender(func(n *cst.Node) string { return "ELSE IF " + n.Child(0).String() + " THEN" })
		return withSource(n, it), afterThen, nil
	})
}

func matchElseStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagElseStmt))
	}
	return matchWholeStatement(string(TagElseStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "ELSE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagElseStmt))
		}
		n := cst.New(TagElseStmt, rule.KindEndStatement, cst.AbsentItem(), cst.AbsentItem())
		return withSource(n, it), rest, nil
	})
}

func matchEndIfStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return matchGenericEndStmt(rd, TagEndIfStmt, "IF")
}

func matchEndDoStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return matchGenericEndStmt(rd, TagEndDoStmt, "DO")
}

func matchEndWhereStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return matchGenericEndStmt(rd, TagEndWhereStmt, "WHERE")
}

// matchGenericEndStmt matches `END KEYWORD [name]`, requiring KEYWORD but
// accepting a trailing construct name, for the several END statements whose
// shape is otherwise identical (C430/C801/C810/C1114's trailing-name
// checks are all this same shape).
func matchGenericEndStmt(rd *reader.Reader, tag rule.Tag, keyword string) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(tag))
	}
	return matchWholeStatement(string(tag), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "END")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(tag))
		}
		rest, ok = match.MatchKeyword(rest, keyword)
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(tag))
		}
		trimmed := strings.TrimLeft(rest, " \t")
		nameItem := cst.AbsentItem()
		if trimmed != "" {
			if pattern := strings.Fields(trimmed); len(pattern) > 0 {
				nameItem = cst.LeafItem(pattern[0])
				rest = ""
			}
		}
		n := cst.New(tag, rule.KindEndStatement, cst.LeafItem(keyword), nameItem)
		return withSource(n, it), rest, nil
	})
}

func matchIfConstruct(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return match.MatchBlockHooks(k, TagIfConstruct, TagIfThenStmt,
		[]rule.Tag{TagExecutionPartConstruct},
		TagEndIfStmt, constructNameOf, endStatementNameOf,
		match.Hooks{EnableIfConstruct: true}, rd)
}

// matchIfStmt matches R805's single-statement form directly from the
// reader rather than via MatchBlock, since it has no END statement: `IF (
// expr ) action-stmt` shares one logical line with its body.
func matchIfStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagIfStmt))
	}
	return matchWholeStatement(string(TagIfStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "IF")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagIfStmt))
		}
		cond, afterCond, err := matchLogicalCondInParens(k, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagIfStmt))
		}
		if rest, ok := match.MatchKeyword(afterCond, "THEN"); ok && strings.TrimSpace(rest) == "" {
			// this is actually an If_Then_Stmt; not an If_Stmt.
			return nil, text, ferrors.NewNoMatch(string(TagIfStmt))
		}
		action, tail, err := k.MatchString(TagActionStmt, afterCond)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagIfStmt))
		}
		n := cst.New(TagIfStmt, rule.KindCustom, cst.NodeItem(cond), cst.NodeItem(action)).
			WithRender(func(n *cst.Node) string { return "IF " + n.Child(0).String() + " " + n.Child(1).String() })
		return withSource(n, it), tail, nil
	})
}

func matchWhereStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagWhereStmt))
	}
	return matchWholeStatement(string(TagWhereStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "WHERE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagWhereStmt))
		}
		cond, afterCond, err := matchLogicalCondInParens(k, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagWhereStmt))
		}
		if strings.TrimSpace(afterCond) == "" {
			// bare "WHERE (mask)" with no assignment on the same line is
			// the construct-opening form; an Assignment_Stmt body on the
			// same line is the single-statement Where_Stmt form instead.
			n := cst.New(TagWhereStmt, rule.KindCustom, cst.NodeItem(cond), cst.AbsentItem()).
				WithRender(renderWhereStmt)
			return withSource(n, it), afterCond, nil
		}
		assign, tail, err := k.MatchString(TagAssignmentStmt, afterCond)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagWhereStmt))
		}
		n := cst.New(TagWhereStmt, rule.KindCustom, cst.NodeItem(cond), cst.NodeItem(assign)).
			WithRender(renderWhereStmt)
		return withSource(n, it), tail, nil
	})
}

func renderWhereStmt(n *cst.Node) string {
	out := "WHERE " + n.Child(0).String()
	if !n.Absent(1) {
		out += " " + n.Child(1).String()
	}
	return out
}

func matchElsewhereStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagElsewhereStmt))
	}
	return matchWholeStatement(string(TagElsewhereStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "ELSEWHERE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagElsewhereStmt))
		}
		n := cst.New(TagElsewhereStmt, rule.KindEndStatement, cst.AbsentItem(), cst.AbsentItem())
		return withSource(n, it), rest, nil
	})
}

func matchWhereConstruct(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return match.MatchBlockHooks(k, TagWhereConstruct, TagWhereStmt,
		[]rule.Tag{TagAssignmentStmt},
		TagEndWhereStmt, constructNameOf, endStatementNameOf,
		match.Hooks{EnableWhereConstruct: true}, rd)
}

// matchLabelDoStmt matches R826: `[name:] DO label [loop-control]`. The
// loop-control clause (do-variable = start, stop[, step]) is captured as a
// single Assignment_Stmt-shaped node reusing Data_Ref/Expr rather than a
// dedicated Loop_Control rule; see DESIGN.md, "Rule coverage." On success
// it pushes the label onto the kernel's LabelStack so a later labeled
// action statement can close it (and any other label-DOs sharing the same
// label).
func matchLabelDoStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagLabelDoStmt))
	}
	return matchWholeStatement(string(TagLabelDoStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "DO")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagLabelDoStmt))
		}
		trimmed := strings.TrimLeft(rest, " \t")
		labelNode, afterLabel, err := k.MatchString(TagLabel, trimmed)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagLabelDoStmt))
		}

		controlItem := cst.AbsentItem()
		remainder := afterLabel
		if strings.TrimSpace(afterLabel) != "" {
			control, tail, cerr := matchDoLoopControl(k, afterLabel)
			if cerr != nil {
				return nil, text, ferrors.NewNoMatch(string(TagLabelDoStmt))
			}
			controlItem = cst.NodeItem(control)
			remainder = tail
		}

		n := cst.New(TagLabelDoStmt, rule.KindCustom, cst.NodeItem(labelNode), controlItem).
			WithRender(renderLabelDoStmt)
		n = withSource(n, it)
		k.Labels().Push(match.LabelEntry{Label: labelNode.Leaf(0), ConstructName: it.ConstructName})
		return n, remainder, nil
	})
}

func renderLabelDoStmt(n *cst.Node) string {
	out := "DO " + n.Child(0).String()
	if !n.Absent(1) {
		out += " " + n.Child(1).String()
	}
	return out
}

// matchDoLoopControl matches `do-var = start, stop [, step]`, reusing
// Data_Ref for the loop variable and Expr for each bound.
func matchDoLoopControl(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	idx := strings.Index(trimmed, "=")
	if idx < 0 {
		return nil, s, ferrors.NewNoMatch("Loop_Control")
	}
	varNode, varRest, err := k.MatchString(TagDataRef, trimmed[:idx])
	if err != nil || strings.TrimSpace(varRest) != "" {
		return nil, s, ferrors.NewNoMatch("Loop_Control")
	}
	listTag := TagExpr + "_List"
	boundsNode, rest, err := k.MatchString(listTag, trimmed[idx+1:])
	if err != nil {
		return nil, s, ferrors.NewNoMatch("Loop_Control")
	}
	n := cst.New("Loop_Control", rule.KindCustom, cst.NodeItem(varNode), cst.NodeItem(boundsNode)).
		WithRender(func(n *cst.Node) string { return n.Child(0).String() + " = " + n.Child(1).String() })
	return n, rest, nil
}

// matchNonlabelDoStmt matches R827: `[name:] DO [loop-control]`, the
// End_Do_Stmt-terminated form with no shared label bookkeeping.
func matchNonlabelDoStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagNonlabelDoStmt))
	}
	return matchWholeStatement(string(TagNonlabelDoStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "DO")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagNonlabelDoStmt))
		}
		// A leading label here means this is actually a Label_Do_Stmt;
		// reject so the kernel falls through to that alternative instead.
		if _, _, err := k.MatchString(TagLabel, strings.TrimLeft(rest, " \t")); err == nil {
			return nil, text, ferrors.NewNoMatch(string(TagNonlabelDoStmt))
		}

		controlItem := cst.AbsentItem()
		remainder := rest
		if strings.TrimSpace(rest) != "" {
			control, tail, cerr := matchDoLoopControl(k, rest)
			if cerr != nil {
				return nil, text, ferrors.NewNoMatch(string(TagNonlabelDoStmt))
			}
			controlItem = cst.NodeItem(control)
			remainder = tail
		}
		n := cst.New(TagNonlabelDoStmt, rule.KindCustom, controlItem).
			WithRender(func(n *cst.Node) string {
				if n.Absent(0) {
					return "DO"
				}
				return "DO " + n.Child(0).String()
			})
		return withSource(n, it), remainder, nil
	})
}

// matchLabeledActionStmt matches a labeled Action_Stmt and, if its label
// matches the top of the kernel's LabelStack, closes every label-DO sharing
// that label (R826's shared-terminator behavior): one physical labeled
// statement can terminate several nested DO loops at once.
func matchLabeledActionStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	cp := rd.Mark()
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagLabeledActionStmt))
	}
	if it.Label == "" {
		rd.RewindTo(cp)
		return nil, ferrors.NewNoMatch(string(TagLabeledActionStmt))
	}
	rd.RewindTo(cp)

	if _, top := k.Labels().Top(); !top {
		return nil, ferrors.NewNoMatch(string(TagLabeledActionStmt))
	}

	action, err := k.MatchStream(TagDoTermActionStmt, rd)
	if err != nil {
		return nil, err
	}

	closed := k.Labels().PopMatching(it.Label)
	if len(closed) == 0 {
		return nil, ferrors.NewNoMatch(string(TagLabeledActionStmt))
	}

	n := cst.New(TagLabeledActionStmt, rule.KindCustom,
		cst.NodeItem(cst.New(TagLabel, rule.KindTerminal, cst.LeafItem(it.Label))),
		cst.NodeItem(action)).
		WithRender(func(n *cst.Node) string { return n.Child(0).String() + "  " + n.Child(1).String() })
	return withSource(n, it), nil
}

// matchBlockLabelDoConstruct matches one label-DO and its body through the
// generic block matcher's do-label hook: the construct ends as soon as a
// Labeled_Action_Stmt closes this construct's own label-DO, or immediately
// when a shared terminator consumed inside a nested construct already
// popped this construct's label off the stack (R826).
func matchBlockLabelDoConstruct(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return match.MatchBlockHooks(k, TagBlockLabelDoConstruct, TagLabelDoStmt,
		[]rule.Tag{TagExecutionPartConstruct},
		TagLabeledActionStmt, nil, nil,
		match.Hooks{EnableDoLabelConstruct: true}, rd)
}

// matchBlockNonlabelDoConstruct matches R825's unlabeled form: a
// Nonlabel_Do_Stmt, zero or more body constructs, and a plain End_Do_Stmt,
// using the same generic block matcher as If_Construct/Where_Construct
// since it carries no shared-terminator bookkeeping.
func matchBlockNonlabelDoConstruct(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return match.MatchBlock(k, TagBlockNonlabelDoConstruct, TagNonlabelDoStmt,
		[]rule.Tag{TagExecutionPartConstruct}, TagEndDoStmt, constructNameOf, endStatementNameOf, rd)
}
