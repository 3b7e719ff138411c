package rules2003

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// Tags for the MODULE program unit (R1104-R1107, C1104 name matching), the
// USE statement (R1109), and BLOCK DATA (R1116-R1118).
const (
	TagModuleStmt           rule.Tag = "Module_Stmt"
	TagEndModuleStmt        rule.Tag = "End_Module_Stmt"
	TagContainsStmt         rule.Tag = "Contains_Stmt"
	TagModuleSubprogramPart rule.Tag = "Module_Subprogram_Part"
	TagModule               rule.Tag = "Module"
	TagUseStmt              rule.Tag = "Use_Stmt"
	TagBlockDataStmt        rule.Tag = "Block_Data_Stmt"
	TagEndBlockDataStmt     rule.Tag = "End_Block_Data_Stmt"
	TagBlockData            rule.Tag = "Block_Data"
)

func installModule(reg *rule.Registry, k *match.Kernel) {
	reg.Register(TagModuleStmt, rule.Descriptor{Human: "module statement (R1105)", Kind: rule.KindWordPayload, Uses: []rule.Tag{TagName}})
	k.RegisterStream(TagModuleStmt, matchModuleStmt)

	reg.Register(TagEndModuleStmt, rule.Descriptor{Human: "end module statement (R1106)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndModuleStmt, func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		return matchOptionalKeywordEndStmt(rd, TagEndModuleStmt, "MODULE")
	})

	reg.Register(TagContainsStmt, rule.Descriptor{Human: "contains statement (R1237)", Kind: rule.KindTerminal})
	k.RegisterStream(TagContainsStmt, simpleKeywordStmt(TagContainsStmt, "CONTAINS"))

	reg.Register(TagModuleSubprogramPart, rule.Descriptor{
		Human: "module subprogram part (R1107)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagContainsStmt, TagExternalSubprogram},
	})
	k.RegisterStream(TagModuleSubprogramPart, matchModuleSubprogramPart)

	reg.Register(TagModule, rule.Descriptor{
		Human: "module (R1104)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagModuleStmt, TagSpecificationPart, TagModuleSubprogramPart, TagEndModuleStmt},
	})
	k.RegisterStream(TagModule, matchModule)

	reg.Register(TagUseStmt, rule.Descriptor{Human: "use statement (R1109)", Kind: rule.KindCustom, Uses: []rule.Tag{TagName}})
	k.RegisterStream(TagUseStmt, matchUseStmt)

	reg.Register(TagBlockDataStmt, rule.Descriptor{Human: "block data statement (R1117)", Kind: rule.KindCustom, Uses: []rule.Tag{TagName}})
	k.RegisterStream(TagBlockDataStmt, matchBlockDataStmt)

	reg.Register(TagEndBlockDataStmt, rule.Descriptor{Human: "end block data statement (R1118)", Kind: rule.KindEndStatement})
	k.RegisterStream(TagEndBlockDataStmt, matchEndBlockDataStmt)

	reg.Register(TagBlockData, rule.Descriptor{
		Human: "block data (R1116)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagBlockDataStmt, TagSpecificationPart, TagEndBlockDataStmt},
	})
	k.RegisterStream(TagBlockData, matchBlockData)
}

func matchModuleStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagModuleStmt))
	}
	return matchWholeStatement(string(TagModuleStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "MODULE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagModuleStmt))
		}
		name, tail, err := k.MatchString(TagName, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagModuleStmt))
		}
		n := cst.New(TagModuleStmt, rule.KindWordPayload, cst.LeafItem("MODULE"), cst.NodeItem(name))
		return withSource(n, it), tail, nil
	})
}

// matchModuleSubprogramPart matches R1107: a CONTAINS statement followed by
// zero or more module subprograms, which share the external-subprogram
// surface forms.
func matchModuleSubprogramPart(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	contains, err := k.MatchStream(TagContainsStmt, rd)
	if err != nil {
		return nil, err
	}

	items := []cst.Item{cst.NodeItem(contains)}
	for {
		cp := rd.Mark()
		sub, serr := k.MatchStream(TagExternalSubprogram, rd)
		if serr != nil {
			rd.RewindTo(cp)
			if ferrors.IsNoMatch(serr) {
				break
			}
			return nil, serr
		}
		items = append(items, cst.NodeItem(sub))
	}
	return cst.New(TagModuleSubprogramPart, rule.KindBlock, items...), nil
}

// matchModule matches R1104: a Module_Stmt, a specification part, an
// optional module subprogram part, and an End_Module_Stmt whose trailing
// name, if present, must repeat the module's (C1104).
func matchModule(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	startCp := rd.Mark()
	head, err := k.MatchStream(TagModuleStmt, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	spec, err := k.MatchStream(TagSpecificationPart, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	subsItem := cst.AbsentItem()
	subsCp := rd.Mark()
	subs, serr := k.MatchStream(TagModuleSubprogramPart, rd)
	if serr == nil {
		subsItem = cst.NodeItem(subs)
	} else {
		rd.RewindTo(subsCp)
		if !ferrors.IsNoMatch(serr) {
			return nil, serr
		}
	}

	tail, err := k.MatchStream(TagEndModuleStmt, rd)
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
			string(TagModule)+": END name does not match MODULE name")
	}
	tail = echoBareEnd(tail, "MODULE", sName)

	n := cst.New(TagModule, rule.KindCustom, cst.NodeItem(head), cst.NodeItem(spec), subsItem, cst.NodeItem(tail)).
		WithRender(renderModule)
	return n, nil
}

func renderModule(n *cst.Node) string {
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

// matchUseStmt matches R1109's common forms: `USE module-name` and
// `USE module-name, ONLY : only-list`. Rename lists and module-nature
// prefixes are not modeled.
func matchUseStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagUseStmt))
	}
	return matchWholeStatement(string(TagUseStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "USE")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagUseStmt))
		}
		name, after, err := k.MatchString(TagName, rest)
		if err != nil {
			return nil, text, ferrors.NewNoMatch(string(TagUseStmt))
		}

		onlyItem := cst.AbsentItem()
		remainder := after
		trimmed := strings.TrimLeft(after, " \t")
		if strings.HasPrefix(trimmed, ",") {
			afterComma := trimmed[1:]
			afterOnly, hasOnly := match.MatchKeyword(afterComma, "ONLY")
			if !hasOnly {
				return nil, text, ferrors.NewNoMatch(string(TagUseStmt))
			}
			afterColon, hasColon := match.MatchLiteral(afterOnly, ":")
			if !hasColon {
				return nil, text, ferrors.NewNoMatch(string(TagUseStmt))
			}
			listTag := TagName + "_List"
			onlyList, tail, lerr := k.MatchString(listTag, afterColon)
			if lerr != nil {
				return nil, text, ferrors.NewNoMatch(string(TagUseStmt))
			}
			onlyItem = cst.NodeItem(onlyList)
			remainder = tail
		}

		n := cst.New(TagUseStmt, rule.KindCustom, cst.NodeItem(name), onlyItem).WithRender(renderUseStmt)
		return withSource(n, it), remainder, nil
	})
}

func renderUseStmt(n *cst.Node) string {
	if n.Absent(1) {
		return "USE " + n.Child(0).String()
	}
	return "USE " + n.Child(0).String() + ", ONLY : " + n.Child(1).String()
}

func matchBlockDataStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagBlockDataStmt))
	}
	return matchWholeStatement(string(TagBlockDataStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "BLOCK")
		if ok {
			rest, ok = match.MatchKeyword(rest, "DATA")
		} else {
			rest, ok = match.MatchKeyword(text, "BLOCKDATA")
		}
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagBlockDataStmt))
		}
		nameItem := cst.AbsentItem()
		if nameNode, tail, err := k.MatchString(TagName, rest); err == nil {
			nameItem = cst.NodeItem(nameNode)
			rest = tail
		}
		n := cst.New(TagBlockDataStmt, rule.KindWordPayload, cst.LeafItem("BLOCK DATA"), nameItem)
		return withSource(n, it), rest, nil
	})
}

// matchEndBlockDataStmt matches R1118: `END [BLOCK DATA [name]]`.
func matchEndBlockDataStmt(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	it, ok := nextStatement(rd)
	if !ok {
		return nil, ferrors.NewNoMatch(string(TagEndBlockDataStmt))
	}
	return matchWholeStatement(string(TagEndBlockDataStmt), it.Text, func(text string) (*cst.Node, string, error) {
		rest, ok := match.MatchKeyword(text, "END")
		if !ok {
			return nil, text, ferrors.NewNoMatch(string(TagEndBlockDataStmt))
		}
		kwItem := cst.AbsentItem()
		nameItem := cst.AbsentItem()
		if afterBlock, hasBlock := match.MatchKeyword(rest, "BLOCK"); hasBlock {
			afterData, hasData := match.MatchKeyword(afterBlock, "DATA")
			if !hasData {
				return nil, text, ferrors.NewNoMatch(string(TagEndBlockDataStmt))
			}
			kwItem = cst.LeafItem("BLOCK DATA")
			rest = afterData
			if nameNode, tail, err := k.MatchString(TagName, rest); err == nil {
				nameItem = cst.LeafItem(nameNode.String())
				rest = tail
			}
		}
		n := cst.New(TagEndBlockDataStmt, rule.KindEndStatement, kwItem, nameItem)
		return withSource(n, it), rest, nil
	})
}

// matchBlockData matches R1116: a Block_Data_Stmt, a specification part, and
// an End_Block_Data_Stmt with the usual trailing-name agreement.
func matchBlockData(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
	startCp := rd.Mark()
	head, err := k.MatchStream(TagBlockDataStmt, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	spec, err := k.MatchStream(TagSpecificationPart, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}

	tail, err := k.MatchStream(TagEndBlockDataStmt, rd)
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
			string(TagBlockData)+": END name does not match BLOCK DATA name")
	}
	tail = echoBareEnd(tail, "BLOCK DATA", sName)

	n := cst.New(TagBlockData, rule.KindCustom, cst.NodeItem(head), cst.NodeItem(spec), cst.NodeItem(tail)).
		WithRender(renderBlockData)
	return n, nil
}

func renderBlockData(n *cst.Node) string {
	parts := []string{n.Child(0).String()}
	if spec := n.Child(1); spec != nil && len(spec.Items) > 0 {
		parts = append(parts, spec.String())
	}
	parts = append(parts, n.Child(2).String())
	return strings.Join(parts, "\n")
}
