package rules2003

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// Tags for R201-R210's top-level program structure. Module, Block_Data, and
// Interface_Block live in their own files; Program_Unit's alternative list
// below ties them together.
const (
	TagProgramStmt         rule.Tag = "Program_Stmt"
	TagEndProgramStmt      rule.Tag = "End_Program_Stmt"
	TagSpecificationConstruct rule.Tag = "Specification_Construct"
	TagSpecificationPart   rule.Tag = "Specification_Part"
	TagExecutionPart       rule.Tag = "Execution_Part"
	TagMainProgram         rule.Tag = "Main_Program"
	TagSubroutineStmt      rule.Tag = "Subroutine_Stmt"
	TagEndSubroutineStmt   rule.Tag = "End_Subroutine_Stmt"
	TagSubroutineSubprogram rule.Tag = "Subroutine_Subprogram"
	TagFunctionStmt        rule.Tag = "Function_Stmt"
	TagEndFunctionStmt     rule.Tag = "End_Function_Stmt"
	TagFunctionSubprogram  rule.Tag = "Function_Subprogram"
	TagExternalSubprogram  rule.Tag = "External_Subprogram"
	TagProgramUnit         rule.Tag = "Program_Unit"
	TagProgram             rule.Tag = "Program"

	// TagMainProgram0 is the headless main-program form: no PROGRAM
	// statement, just an optional specification/execution body closed by an
	// END statement.
	TagMainProgram0 rule.Tag = "Main_Program0"
)

func installProgram(reg *rule.Registry, k *match.Kernel) {
	// Dummy-argument-name lists (Subroutine_Stmt's and Function_Stmt's
	// parenthesized argument lists, R1225/R1227) reuse the plain Name
	// production; Dummy_Arg's alternate "*" form is not modeled.
	match.GenerateList(reg, k, TagName, ",")

	// R204 Specification_Construct: USE statements first (they lead a
	// specification part), then the declaration constructs this package
	// models. Format_Stmt and the attribute-only statements (SAVE, common
	// blocks) are out of scope.
	reg.Register(TagSpecificationConstruct, rule.Descriptor{
		Human: "specification construct (R204)",
		Kind:  rule.KindNone,
		Alternatives: []rule.Tag{
			TagUseStmt, TagDerivedTypeDef, TagInterfaceBlock, TagEnumDef,
			TagTypeDeclarationStmt, TagImplicitStmt, TagParameterStmt, TagBindStmt,
		},
	})

	reg.Register(TagSpecificationPart, rule.Descriptor{
		Human: "specification part (R204)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagSpecificationConstruct},
	})
	k.RegisterStream(TagSpecificationPart, matchSpecificationPart)

	reg.Register(TagExecutionPart, rule.Descriptor{
		Human: "execution part (R208)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagExecutionPartConstruct},
	})
	k.RegisterStream(TagExecutionPart, matchExecutionPart)

	reg.Register(TagProgramStmt, rule.Descriptor{Human: "program statement (R1102)", Kind: rule.KindWordPayload, Uses: []rule.Tag{TagName}})
	k.RegisterStream(TagProgramStmt, matchProgramStmt)

	reg.Register(TagEndProgramStmt, rule.Descriptor{Human: "end program statement (R1103)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndProgramStmt, matchEndProgramStmt)

	reg.Register(TagMainProgram, rule.Descriptor{
		Human: "main program (R1101)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagProgramStmt, TagSpecificationPart, TagExecutionPart, TagEndProgramStmt},
	})
	k.RegisterStream(TagMainProgram, matchMainProgram)

	reg.Register(TagSubroutineStmt, rule.Descriptor{Human: "subroutine statement (R1224)", Kind: rule.KindCustom, Uses: []rule.Tag{TagName}})
	k.RegisterStream(TagSubroutineStmt, matchSubroutineStmt)

	reg.Register(TagEndSubroutineStmt, rule.Descriptor{Human: "end subroutine statement (R1225)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndSubroutineStmt, matchEndSubroutineStmt)

	reg.Register(TagSubroutineSubprogram, rule.Descriptor{
		Human: "subroutine subprogram (R1223)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagSubroutineStmt, TagSpecificationPart, TagExecutionPart, TagEndSubroutineStmt},
	})
	k.RegisterStream(TagSubroutineSubprogram, matchSubroutineSubprogram)

	reg.Register(TagFunctionStmt, rule.Descriptor{Human: "function statement (R1227)", Kind: rule.KindCustom, Uses: []rule.Tag{TagName}})
	k.RegisterStream(TagFunctionStmt, matchFunctionStmt)

	reg.Register(TagEndFunctionStmt, rule.Descriptor{Human: "end function statement (R1229)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndFunctionStmt, matchEndFunctionStmt)

	reg.Register(TagFunctionSubprogram, rule.Descriptor{
		Human: "function subprogram (R1226)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagFunctionStmt, TagSpecificationPart, TagExecutionPart, TagEndFunctionStmt},
	})
	k.RegisterStream(TagFunctionSubprogram, matchFunctionSubprogram)

	reg.Register(TagExternalSubprogram, rule.Descriptor{
		Human:        "external subprogram (R1403)",
		Kind:         rule.KindNone,
		Alternatives: []rule.Tag{TagSubroutineSubprogram, TagFunctionSubprogram},
	})

	reg.Register(TagMainProgram0, rule.Descriptor{
		Human: "main program without program statement (R1101)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagSpecificationPart, TagExecutionPart, TagEndProgramStmt},
	})
	k.RegisterStream(TagMainProgram0, matchMainProgram0)

	reg.Register(TagProgramUnit, rule.Descriptor{
		Human:        "program unit (R202)",
		Kind:         rule.KindNone,
		Alternatives: []rule.Tag{TagMainProgram, TagExternalSubprogram, TagModule, TagBlockData, TagMainProgram0},
	})

	reg.Register(TagProgram, rule.Descriptor{
		Human: "program (R201)",
		Kind:  rule.KindSequence,
		Uses:  []rule.Tag{TagProgramUnit},
	})
	k.RegisterStream(TagProgram, matchProgram)
}

// matchSpecificationPart greedily matches zero or more
// Specification_Construct items, stopping as soon as one fails (including
// at end of input); an empty specification part is allowed.
func matchSpecificationPart(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	var items []cst.Item
	for {
		cp := rd.Mark()
		node, err := k.MatchStream(TagSpecificationConstruct, rd)
		if err != nil {
			rd.RewindTo(cp)
			if ferrors.IsNoMatch(err) {
				break
			}
			return nil, err
		}
		items = append(items, cst.NodeItem(node))
	}
	return cst.New(TagSpecificationPart, rule.KindBlock, items...), nil
}

// matchExecutionPart greedily matches one or more Execution_Part_Construct
// items.
func matchExecutionPart(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	var items []cst.Item
	for {
		cp := rd.Mark()
		node, err := k.MatchStream(TagExecutionPartConstruct, rd)
		if err != nil {
			rd.RewindTo(cp)
			if ferrors.IsNoMatch(err) {
				break
			}
			return nil, err
		}
		items = append(items, cst.NodeItem(node))
	}
	if len(items) == 0 {
		return nil, ferrors.NewNoMatch(string(TagExecutionPart))
	}
	return cst.New(TagExecutionPart, rule.KindBlock, items...), nil
}

func matchProgramStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagProgramStmt))
	}
	return matchWholeStatement(string(TagProgramStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "PROGRAM")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagProgramStmt))
		}
		name, tail, err := k.MatchString(TagName, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagProgramStmt))
		}
		n := cst.New(TagProgramStmt, rule.KindWordPayload, cst.LeafItem("PROGRAM"), cst.NodeItem(name))
		return withSource(n, it), tail, nil
	})
}

func matchEndProgramStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return matchOptionalKeywordEndStmt(rd, TagEndProgramStmt, "PROGRAM")
}

// matchOptionalKeywordEndStmt matches `END [KEYWORD [name]]`, the shape
// shared by END PROGRAM/SUBROUTINE/FUNCTION, all of which permit the
// secondary keyword itself to be omitted (bare "END").
func matchOptionalKeywordEndStmt(rd *reader.Reader, tag rule.Tag, keyword string) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(tag))
	}
	return matchWholeStatement(string(tag), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "END")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(tag))
		}
		kwItem := cst.AbsentItem()
		nameItem := cst.AbsentItem()
		if afterKw, hasKw := match.MatchKeyword(rest, keyword); hasKw {
			kwItem = cst.LeafItem(keyword)
			rest = afterKw
			trimmed := strings.TrimLeft(rest, " \t")
			if trimmed != "" {
				if fields := strings.Fields(trimmed); len(fields) > 0 {
					nameItem = cst.LeafItem(fields[0])
					rest = ""
				}
			}
		}
		n := cst.New(tag, rule.KindEndStatement, kwItem, nameItem)
		return withSource(n, it), rest, nil
	})
}

// matchMainProgram matches R1101's named form: a Program_Stmt, an optional
// specification part, an optional execution part, and a required
// End_Program_Stmt. The headless form (no PROGRAM statement) is
// Main_Program0, tried as Program_Unit's last alternative.
func matchMainProgram(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	startCp := rd.Mark()
	head, err := k.MatchStream(TagProgramStmt, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	spec, err := k.MatchStream(TagSpecificationPart, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	execItem := cst.AbsentItem()
	execCp := rd.Mark()
	exec, eerr := k.MatchStream(TagExecutionPart, rd)
	if eerr == nil {
		execItem = cst.NodeItem(exec)
	} else {
		rd.RewindTo(execCp)
		if !ferrors.IsNoMatch(eerr) {
			return nil, eerr
		}
	}

	tail, err := k.MatchStream(TagEndProgramStmt, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	sName := ""
	if nameNode := head.Child(1); nameNode != nil {
		sName = nameNode.String()
	}
	if eName := endStatementNameOf(tail); sName != "" && eName != "" && !strings.EqualFold(sName, eName) {
		return nil, ferrors.NewSyntaxError(rd.File(), 0, 0, 0, "",
			string(TagMainProgram)+": END name does not match PROGRAM name")
	}
	tail = echoBareEnd(tail, "PROGRAM", sName)

	n := cst.New(TagMainProgram, rule.KindCustom, cst.NodeItem(head), cst.NodeItem(spec), execItem, cst.NodeItem(tail)).
		WithRender(renderMainProgram)
	return n, nil
}

func renderMainProgram(n *cst.Node) string {
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

// matchMainProgram0 matches a main program whose Program_Stmt is omitted:
// an optional specification part, an optional execution part, and a
// required END statement (bare END or END PROGRAM).
func matchMainProgram0(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	startCp := rd.Mark()

	spec, err := k.MatchStream(TagSpecificationPart, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	execItem := cst.AbsentItem()
	execCp := rd.Mark()
	exec, eerr := k.MatchStream(TagExecutionPart, rd)
	if eerr == nil {
		execItem = cst.NodeItem(exec)
	} else {
		rd.RewindTo(execCp)
		if !ferrors.IsNoMatch(eerr) {
			return nil, eerr
		}
	}

	tail, err := k.MatchStream(TagEndProgramStmt, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	n := cst.New(TagMainProgram0, rule.KindCustom, cst.NodeItem(spec), execItem, cst.NodeItem(tail)).
		WithRender(renderMainProgram0)
	return n, nil
}

func renderMainProgram0(n *cst.Node) string {
	var parts []string
	if spec := n.Child(0); spec != nil && len(spec.Items) > 0 {
		parts = append(parts, spec.String())
	}
	if !n.Absent(1) {
		parts = append(parts, n.Child(1).String())
	}
	parts = append(parts, n.Child(2).String())
	return strings.Join(parts, "\n")
}

func matchSubroutineStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagSubroutineStmt))
	}
	return matchWholeStatement(string(TagSubroutineStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "SUBROUTINE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagSubroutineStmt))
		}
		trimmed := strings.TrimLeft(rest, " \t")
		name, afterName, err := k.MatchString(TagName, trimmed)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagSubroutineStmt))
		}
		afterNameTrim := strings.TrimLeft(afterName, " \t")
		argsItem := cst.AbsentItem()
		remainder := afterName
		if strings.HasPrefix(afterNameTrim, "(") {
			listTag := TagName + "_List"
			bracketed, tail, berr := match.MatchBracketed(k, TagSubroutineStmt, listTag, "(", ")", afterNameTrim)
			if berr == nil {
				argsItem = cst.NodeItem(bracketed.Child(0))
				remainder = tail
			} else {
				closeIdx := strings.Index(afterNameTrim, ")")
				if closeIdx >= 0 && strings.TrimSpace(afterNameTrim[1:closeIdx]) == "" {
					remainder = afterNameTrim[closeIdx+1:]
				}
			}
		}
		n := cst.New(TagSubroutineStmt, rule.KindCustom, cst.NodeItem(name), argsItem).WithRender(renderSubprogramHead("SUBROUTINE"))
		return withSource(n, it), remainder, nil
	})
}

func matchEndSubroutineStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return matchOptionalKeywordEndStmt(rd, TagEndSubroutineStmt, "SUBROUTINE")
}

func matchFunctionStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagFunctionStmt))
	}
	return matchWholeStatement(string(TagFunctionStmt), it.Text, func(text string) (*cst.Node, string, error) {
		trimmed := strings.TrimLeft(text, " \t")
		// A leading type-spec prefix (e.g. "INTEGER FUNCTION foo()") is not
		// modeled; only the bare "FUNCTION name(...)" form is. See
		// DESIGN.md, "Rule coverage."
		rest, ok := match.MatchKeyword(trimmed, "FUNCTION")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagFunctionStmt))
		}
		trimmed = strings.TrimLeft(rest, " \t")
		name, afterName, err := k.MatchString(TagName, trimmed)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagFunctionStmt))
		}
		afterNameTrim := strings.TrimLeft(afterName, " \t")
		argsItem := cst.AbsentItem()
		remainder := afterName
		if strings.HasPrefix(afterNameTrim, "(") {
			listTag := TagName + "_List"
			bracketed, tail, berr := match.MatchBracketed(k, TagFunctionStmt, listTag, "(", ")", afterNameTrim)
			if berr == nil {
				argsItem = cst.NodeItem(bracketed.Child(0))
				remainder = tail
			} else {
				closeIdx := strings.Index(afterNameTrim, ")")
				if closeIdx >= 0 && strings.TrimSpace(afterNameTrim[1:closeIdx]) == "" {
					remainder = afterNameTrim[closeIdx+1:]
				}
			}
		}
		n := cst.New(TagFunctionStmt, rule.KindCustom, cst.NodeItem(name), argsItem).WithRender(renderSubprogramHead("FUNCTION"))
		return withSource(n, it), remainder, nil
	})
}

func matchEndFunctionStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return matchOptionalKeywordEndStmt(rd, TagEndFunctionStmt, "FUNCTION")
}

// renderSubprogramHead renders `KEYWORD name` with the parenthesized
// dummy-arg list appended only when one was present in the source; a head
// with no dummy args (or empty `()`) re-emits without parens.
func renderSubprogramHead(keyword string) func(*cst.Node) string {
	return func(n *cst.Node) string {
		out := keyword + " " + n.Child(0).String()
		if !n.Absent(1) {
			out += "(" + n.Child(1).String() + ")"
		}
		return out
	}
}

func matchSubroutineSubprogram(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return matchSubprogram(k, rd, TagSubroutineSubprogram, TagSubroutineStmt, TagEndSubroutineStmt, "SUBROUTINE", renderSubprogram)
}

func matchFunctionSubprogram(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	return matchSubprogram(k, rd, TagFunctionSubprogram, TagFunctionStmt, TagEndFunctionStmt, "FUNCTION", renderSubprogram)
}

// matchSubprogram implements the shared shape of Subroutine_Subprogram
// (R1223) and Function_Subprogram (R1226): a head statement, an optional
// specification part, an optional execution part, and a required end
// statement.
func matchSubprogram(k *match.Kernel, rd *reader.Reader, tag, headTag, endTag rule.Tag, keyword string, render func(*cst.Node) string) (*cst.Node, error) {
	startCp := rd.Mark()
	head, err := k.MatchStream(headTag, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	spec, err := k.MatchStream(TagSpecificationPart, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	execItem := cst.AbsentItem()
	execCp := rd.Mark()
	exec, eerr := k.MatchStream(TagExecutionPart, rd)
	if eerr == nil {
		execItem = cst.NodeItem(exec)
	} else {
		rd.RewindTo(execCp)
		if !ferrors.IsNoMatch(eerr) {
			return nil, eerr
		}
	}

	tail, err := k.MatchStream(endTag, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	sName := ""
	if nameNode := head.Child(0); nameNode != nil {
		sName = nameNode.String()
	}
	if eName := endStatementNameOf(tail); sName != "" && eName != "" && !strings.EqualFold(sName, eName) {
		return nil, ferrors.NewSyntaxError(rd.File(), 0, 0, 0, "",
			string(tag)+": END name does not match "+string(headTag)+" name")
	}
	tail = echoBareEnd(tail, keyword, sName)

	n := cst.New(tag, rule.KindCustom, cst.NodeItem(head), cst.NodeItem(spec), execItem, cst.NodeItem(tail)).WithRender(render)
	return n, nil
}

func renderSubprogram(n *cst.Node) string {
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

// matchProgram matches R201's top-level Program: one or more Program_Units
// in sequence, each separated by nothing but whitespace in the source.
// TagComment wraps a preserved top-level comment item as a CST sibling of
// the program units it falls between: comments, if preserved by the
// reader, appear as sibling nodes in the tree and are rendered verbatim.
// Only top-level comments (between program units) are attached this way;
// comments nested inside a specification or execution
// part are still consumed and discarded by nextStatement, since no rule in
// this package threads a comment-sibling slot through its own item tuple.
// See DESIGN.md, "Rule coverage."
const TagComment rule.Tag = "Comment"

func matchProgram(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	var units []cst.Item
	for {
		cp := rd.Mark()
		it := rd.Next()
		if it.Kind == reader.KindComment {
			units = append(units, cst.NodeItem(cst.New(TagComment, rule.KindTerminal, cst.LeafItem(it.Text))))
			continue
		}
		rd.RewindTo(cp)
		if it.Kind == reader.KindEOF {
			break
		}
		node, err := k.MatchStream(TagProgramUnit, rd)
		if err != nil {
			if ferrors.IsNoMatch(err) && len(units) > 0 {
				break
			}
			return nil, err
		}
		units = append(units, cst.NodeItem(node))
	}
	if len(units) == 0 {
		return nil, ferrors.NewNoMatch(string(TagProgram))
	}
	return cst.New(TagProgram, rule.KindSequence, units...).WithSep("\n\n"), nil
}
