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

// Tags for the remaining keyword-specifier statement families: file
// connection (R904-R909), inquiry (R929-R930), wait (R921-R922), file
// positioning (R923-R926), flush (R927-R928), and the allocate/deallocate
// pair (R623-R636) whose parenthesized payload mixes positional allocation
// objects with keyword options.
const (
	TagConnectSpecList  rule.Tag = "Connect_Spec_List"
	TagOpenStmt         rule.Tag = "Open_Stmt"
	TagCloseSpecList    rule.Tag = "Close_Spec_List"
	TagCloseStmt        rule.Tag = "Close_Stmt"
	TagInquireSpecList  rule.Tag = "Inquire_Spec_List"
	TagInquireStmt      rule.Tag = "Inquire_Stmt"
	TagWaitSpecList     rule.Tag = "Wait_Spec_List"
	TagWaitStmt         rule.Tag = "Wait_Stmt"
	TagPositionSpecList rule.Tag = "Position_Spec_List"
	TagBackspaceStmt    rule.Tag = "Backspace_Stmt"
	TagEndfileStmt      rule.Tag = "Endfile_Stmt"
	TagRewindStmt       rule.Tag = "Rewind_Stmt"
	TagFlushSpecList    rule.Tag = "Flush_Spec_List"
	TagFlushStmt        rule.Tag = "Flush_Stmt"
	TagAllocateStmt     rule.Tag = "Allocate_Stmt"
	TagDeallocateStmt   rule.Tag = "Deallocate_Stmt"
)

// connectSpecs is R905's connect-spec keyword table. Value-returning
// specifiers (IOSTAT, IOMSG) must name a variable and ERR takes a label;
// everything else is a general expression.
var connectSpecs = []match.KeywordSpec{
	{Name: "UNIT", Value: TagExpr},
	{Name: "ACCESS", Value: TagExpr},
	{Name: "ACTION", Value: TagExpr},
	{Name: "ASYNCHRONOUS", Value: TagExpr},
	{Name: "BLANK", Value: TagExpr},
	{Name: "DECIMAL", Value: TagExpr},
	{Name: "DELIM", Value: TagExpr},
	{Name: "ENCODING", Value: TagExpr},
	{Name: "ERR", Value: TagLabel},
	{Name: "FILE", Value: TagExpr},
	{Name: "FORM", Value: TagExpr},
	{Name: "IOMSG", Value: TagDataRef},
	{Name: "IOSTAT", Value: TagDataRef},
	{Name: "PAD", Value: TagExpr},
	{Name: "POSITION", Value: TagExpr},
	{Name: "RECL", Value: TagExpr},
	{Name: "ROUND", Value: TagExpr},
	{Name: "SIGN", Value: TagExpr},
	{Name: "STATUS", Value: TagExpr},
}

// closeSpecs is R909's close-spec keyword table.
var closeSpecs = []match.KeywordSpec{
	{Name: "UNIT", Value: TagExpr},
	{Name: "IOSTAT", Value: TagDataRef},
	{Name: "IOMSG", Value: TagDataRef},
	{Name: "ERR", Value: TagLabel},
	{Name: "STATUS", Value: TagExpr},
}

// inquireSpecs is R930's inquire-spec keyword table. Most specifiers name a
// variable the inquiry writes into; FILE and UNIT are inputs.
var inquireSpecs = []match.KeywordSpec{
	{Name: "UNIT", Value: TagExpr},
	{Name: "FILE", Value: TagExpr},
	{Name: "ACCESS", Value: TagDataRef},
	{Name: "ACTION", Value: TagDataRef},
	{Name: "ASYNCHRONOUS", Value: TagDataRef},
	{Name: "BLANK", Value: TagDataRef},
	{Name: "DECIMAL", Value: TagDataRef},
	{Name: "DELIM", Value: TagDataRef},
	{Name: "DIRECT", Value: TagDataRef},
	{Name: "ENCODING", Value: TagDataRef},
	{Name: "ERR", Value: TagLabel},
	{Name: "EXIST", Value: TagDataRef},
	{Name: "FORM", Value: TagDataRef},
	{Name: "FORMATTED", Value: TagDataRef},
	{Name: "ID", Value: TagExpr},
	{Name: "IOMSG", Value: TagDataRef},
	{Name: "IOSTAT", Value: TagDataRef},
	{Name: "NAME", Value: TagDataRef},
	{Name: "NAMED", Value: TagDataRef},
	{Name: "NEXTREC", Value: TagDataRef},
	{Name: "NUMBER", Value: TagDataRef},
	{Name: "OPENED", Value: TagDataRef},
	{Name: "PAD", Value: TagDataRef},
	{Name: "PENDING", Value: TagDataRef},
	{Name: "POS", Value: TagDataRef},
	{Name: "POSITION", Value: TagDataRef},
	{Name: "READ", Value: TagDataRef},
	{Name: "READWRITE", Value: TagDataRef},
	{Name: "RECL", Value: TagDataRef},
	{Name: "ROUND", Value: TagDataRef},
	{Name: "SEQUENTIAL", Value: TagDataRef},
	{Name: "SIGN", Value: TagDataRef},
	{Name: "SIZE", Value: TagDataRef},
	{Name: "STREAM", Value: TagDataRef},
	{Name: "UNFORMATTED", Value: TagDataRef},
	{Name: "WRITE", Value: TagDataRef},
}

// waitSpecs is R922's wait-spec keyword table.
var waitSpecs = []match.KeywordSpec{
	{Name: "UNIT", Value: TagExpr},
	{Name: "END", Value: TagLabel},
	{Name: "EOR", Value: TagLabel},
	{Name: "ERR", Value: TagLabel},
	{Name: "ID", Value: TagExpr},
	{Name: "IOMSG", Value: TagDataRef},
	{Name: "IOSTAT", Value: TagDataRef},
}

// positionSpecs is R926's position-spec keyword table, shared by BACKSPACE,
// ENDFILE, and REWIND.
var positionSpecs = []match.KeywordSpec{
	{Name: "UNIT", Value: TagExpr},
	{Name: "IOMSG", Value: TagDataRef},
	{Name: "IOSTAT", Value: TagDataRef},
	{Name: "ERR", Value: TagLabel},
}

// flushSpecs is R928's flush-spec keyword table.
var flushSpecs = []match.KeywordSpec{
	{Name: "UNIT", Value: TagExpr},
	{Name: "IOSTAT", Value: TagDataRef},
	{Name: "IOMSG", Value: TagDataRef},
	{Name: "ERR", Value: TagLabel},
}

// allocOpts is R624's alloc-opt keyword table; deallocOpts is R636's
// dealloc-opt table.
var allocOpts = []match.KeywordSpec{
	{Name: "STAT", Value: TagDataRef},
	{Name: "ERRMSG", Value: TagDataRef},
	{Name: "SOURCE", Value: TagExpr},
}

var deallocOpts = []match.KeywordSpec{
	{Name: "STAT", Value: TagDataRef},
	{Name: "ERRMSG", Value: TagDataRef},
}

func installIOSpecs(reg *rule.Registry, k *match.Kernel) {
	specLists := []struct {
		tag   rule.Tag
		human string
		specs []match.KeywordSpec
	}{
		{TagConnectSpecList, "connect spec list (R905)", connectSpecs},
		{TagCloseSpecList, "close spec list (R909)", closeSpecs},
		{TagInquireSpecList, "inquire spec list (R930)", inquireSpecs},
		{TagWaitSpecList, "wait spec list (R922)", waitSpecs},
		{TagPositionSpecList, "position spec list (R926)", positionSpecs},
		{TagFlushSpecList, "flush spec list (R928)", flushSpecs},
	}
	for _, sl := range specLists {
		sl := sl
		reg.Register(sl.tag, rule.Descriptor{Human: sl.human, Kind: rule.KindNone, Uses: []rule.Tag{TagExpr, TagDataRef, TagLabel}})
		k.RegisterString(sl.tag, func(k *match.Kernel, s string) (*cst.Node, string, error) {
			return match.MatchKeywordArgs(k, sl.tag, sl.specs, []rule.Tag{TagExpr}, s)
		})
	}

	stmts := []struct {
		tag      rule.Tag
		human    string
		keywords []string
		listTag  rule.Tag
		bareUnit bool
	}{
		{TagOpenStmt, "open statement (R904)", []string{"OPEN"}, TagConnectSpecList, false},
		{TagCloseStmt, "close statement (R908)", []string{"CLOSE"}, TagCloseSpecList, false},
		{TagInquireStmt, "inquire statement (R929)", []string{"INQUIRE"}, TagInquireSpecList, false},
		{TagWaitStmt, "wait statement (R921)", []string{"WAIT"}, TagWaitSpecList, false},
		{TagBackspaceStmt, "backspace statement (R923)", []string{"BACKSPACE"}, TagPositionSpecList, true},
		{TagEndfileStmt, "endfile statement (R924)", []string{"ENDFILE", "END FILE"}, TagPositionSpecList, true},
		{TagRewindStmt, "rewind statement (R925)", []string{"REWIND"}, TagPositionSpecList, true},
		{TagFlushStmt, "flush statement (R927)", []string{"FLUSH"}, TagFlushSpecList, true},
	}
	for _, st := range stmts {
		st := st
		reg.Register(st.tag, rule.Descriptor{Human: st.human, Kind: rule.KindCustom, Uses: []rule.Tag{st.listTag, TagExpr}})
		k.RegisterStream(st.tag, matchSpecListStmt(st.tag, st.keywords, st.listTag, st.bareUnit))
	}

	reg.Register(TagAllocateStmt, rule.Descriptor{
		Human: "allocate statement (R623)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagDataRef, TagExpr},
	})
	k.RegisterStream(TagAllocateStmt, matchAllocLikeStmt(TagAllocateStmt, "ALLOCATE", allocOpts))

	reg.Register(TagDeallocateStmt, rule.Descriptor{
		Human: "deallocate statement (R635)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagDataRef},
	})
	k.RegisterStream(TagDeallocateStmt, matchAllocLikeStmt(TagDeallocateStmt, "DEALLOCATE", deallocOpts))
}

// matchSpecListStmt builds a StreamFn for the `KEYWORD ( spec-list )`
// statement shape; bareUnit additionally accepts the short positioning form
// `KEYWORD unit-expr` (BACKSPACE 10). The statement keyword may be spelled
// as one word or two (ENDFILE / END FILE).
func matchSpecListStmt(tag rule.Tag, keywords []string, listTag rule.Tag, bareUnit bool) match.StreamFn {
	word := strings.ReplaceAll(keywords[0], " ", "")
	return func(k *match.Kernel, rd *reader.Reader) (*cst.Node, error) {
		it, ok := nextStatement(rd)
		if !ok {
			return nil, ferrors.NewNoMatch(string(tag))
		}
		return matchWholeStatement(string(tag), it.Text, func(text string) (*cst.Node, string, error) {
			var rest string
			matched := false
			for _, kw := range keywords {
				parts := strings.Fields(kw)
				r := text
				ok := true
				for _, part := range parts {
					r, ok = match.MatchKeyword(r, part)
					if !ok {
						break
					}
				}
				if ok {
					rest = r
					matched = true
					break
				}
			}
			if !matched {
				return nil, text, ferrors.NewNoMatch(string(tag))
			}

			trimmed := strings.TrimLeft(rest, " \t")
			if strings.HasPrefix(trimmed, "(") {
				specs, after, err := match.MatchBracketed(k, tag, listTag, "(", ")", trimmed)
				if err != nil {
					return nil, text, ferrors.NewNoMatch(string(tag))
				}
				n := cst.New(tag, rule.KindCustom, cst.NodeItem(specs.Child(0))).
					WithRender(func(n *cst.Node) string { return word + "(" + n.Child(0).String() + ")" })
				return withSource(n, it), after, nil
			}

			if !bareUnit {
				return nil, text, ferrors.NewNoMatch(string(tag))
			}
			unit, after, err := k.MatchString(TagExpr, trimmed)
			if err != nil {
				return nil, text, ferrors.NewNoMatch(string(tag))
			}
			n := cst.New(tag, rule.KindCustom, cst.NodeItem(unit)).
				WithRender(func(n *cst.Node) string { return word + " " + n.Child(0).String() })
			return withSource(n, it), after, nil
		})
	}
}

// matchAllocLikeStmt builds the StreamFn shared by Allocate_Stmt and
// Deallocate_Stmt: `KEYWORD ( object-list [, opt-list] )`, where leading
// comma-pieces are allocation/deallocation objects and every piece from the
// first keyword=value on must come from the option table.
func matchAllocLikeStmt(tag rule.Tag, keyword string, opts []match.KeywordSpec) match.StreamFn {
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
			trimmed := strings.TrimSpace(rest)
			if !strings.HasPrefix(trimmed, "(") || !strings.HasSuffix(trimmed, ")") {
				return nil, text, ferrors.NewNoMatch(string(tag))
			}
			inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])

			sp := splitline.New(inner)
			pieces := sp.TopLevelSplit(",")

			var objects []cst.Item
			var options []cst.Item
			for _, piece := range pieces {
				name, value, isKV := match.SplitKeywordValue(piece)
				if isKV {
					var spec *match.KeywordSpec
					for i := range opts {
						if strings.EqualFold(opts[i].Name, name) {
							spec = &opts[i]
							break
						}
					}
					if spec == nil {
						return nil, text, ferrors.NewNoMatch(string(tag))
					}
					valNode, valRest, err := k.MatchString(spec.Value, value)
					if err != nil || strings.TrimSpace(valRest) != "" {
						return nil, text, ferrors.NewNoMatch(string(tag))
					}
					kv := cst.New(rule.Tag(spec.Name)+"_Spec", rule.KindKeywordValue,
						cst.LeafItem(spec.Name), cst.NodeItem(valNode))
					options = append(options, cst.NodeItem(kv))
					continue
				}
				if len(options) > 0 {
					// object after an option: R623/R635 put all options last
					return nil, text, ferrors.NewNoMatch(string(tag))
				}
				obj, objRest, err := k.MatchString(TagDataRef, piece)
				if err != nil || strings.TrimSpace(objRest) != "" {
					return nil, text, ferrors.NewNoMatch(string(tag))
				}
				objects = append(objects, cst.NodeItem(obj))
			}
			if len(objects) == 0 {
				return nil, text, ferrors.NewNoMatch(string(tag))
			}

			objList := cst.New(tag+"_Object_List", rule.KindSequence, objects...).WithSep(", ")
			optsItem := cst.AbsentItem()
			if len(options) > 0 {
				optsItem = cst.NodeItem(cst.New(tag+"_Opt_List", rule.KindSequence, options...).WithSep(", "))
			}

			n := cst.New(tag, rule.KindCustom, cst.NodeItem(objList), optsItem).
				WithRender(func(n *cst.Node) string {
					out := keyword + "(" + n.Child(0).String()
					if !n.Absent(1) {
						out += ", " + n.Child(1).String()
					}
					return out + ")"
				})
			return withSource(n, it), "", nil
		})
	}
}
