package match

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// BlockState is the block matcher's state machine:
// INIT -> AFTER_HEAD -> IN_BODY -> AFTER_END.
type BlockState int

const (
	StateInit BlockState = iota
	StateAfterHead
	StateInBody
	StateAfterEnd
)

// NameOf extracts a construct name from a node, if the rule that produced it
// recorded one: a start statement's `name:` prefix is kept in the node's
// Src.ConstructName, and an END statement's trailing name is one of its
// items.
type NameOf func(n *cst.Node) string

// Hooks enables construct-specific parsing peculiarities in the generic
// block matcher. Each divider hook admits that construct's dividing
// statements (ELSE IF, ELSEWHERE, CASE, TYPE IS, ...) as additional middle
// alternatives, tried before the construct's ordinary body rules;
// EnableDoLabelConstruct switches the matcher into label-DO mode, where the
// construct closes on a labeled terminating statement tracked through the
// kernel's LabelStack instead of on a distinct END statement alone.
type Hooks struct {
	EnableIfConstruct         bool
	EnableWhereConstruct      bool
	EnableCaseConstruct       bool
	EnableSelectTypeConstruct bool
	EnableDoLabelConstruct    bool
}

// dividers returns the divider-statement tags the enabled hooks admit. The
// tag spellings are the productions' own names; a parser that never
// registers them simply never matches them.
func (h Hooks) dividers() []rule.Tag {
	var tags []rule.Tag
	if h.EnableIfConstruct {
		tags = append(tags, "Else_If_Stmt", "Else_Stmt")
	}
	if h.EnableWhereConstruct {
		tags = append(tags, "Elsewhere_Stmt")
	}
	if h.EnableCaseConstruct {
		tags = append(tags, "Case_Stmt")
	}
	if h.EnableSelectTypeConstruct {
		tags = append(tags, "Type_Guard_Stmt")
	}
	return tags
}

// MatchBlock implements the generic block matcher (spec §4.5) with no hooks
// enabled: one start statement, a repeated set of middle constructs tried in
// declared order until none match, one end statement, and (if
// startName/endName report a non-empty name) enforcement that the end
// statement's name, if present, equals the start statement's.
func MatchBlock(k *Kernel, tag rule.Tag, startTag rule.Tag, middleTags []rule.Tag, endTag rule.Tag, startName, endName NameOf, rd *reader.Reader) (*cst.Node, error) {
	return MatchBlockHooks(k, tag, startTag, middleTags, endTag, startName, endName, Hooks{}, rd)
}

// MatchBlockHooks is MatchBlock with a set of construct-specific hooks.
//
// middleTags (prefixed by the hooks' divider tags) are tried in order at
// each position; the first to match wins and the loop repeats. Reaching
// end-of-input while still expecting a middle or the end statement is a
// syntax error, not a no-match, per the state machine's "any non-terminal
// state" rule — it is intentionally NOT wrapped to look like ferrors.NoMatch
// so the kernel will not try sibling alternatives as if this construct had
// simply not matched.
//
// In label-DO mode (EnableDoLabelConstruct) the start statement is expected
// to have pushed its label onto the kernel's LabelStack; endTag is the
// labeled-terminator rule, tried ahead of the middles whenever this
// construct's own label is topmost. If the label disappears from the stack
// without this construct consuming a terminator, a shared terminator inside
// a nested construct already closed it (R826) and the block completes with
// no tail of its own.
func MatchBlockHooks(k *Kernel, tag rule.Tag, startTag rule.Tag, middleTags []rule.Tag, endTag rule.Tag, startName, endName NameOf, hooks Hooks, rd *reader.Reader) (*cst.Node, error) {
	// state: INIT

	startCp := rd.Mark()
	head, err := k.MatchStream(startTag, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}
	// state: AFTER_HEAD

	var myLabel string
	if hooks.EnableDoLabelConstruct {
		top, ok := k.Labels().Top()
		if !ok {
			rd.RewindTo(startCp)
			return nil, ferrors.NewInternalError(string(tag), "label-DO head did not push its label")
		}
		myLabel = top.Label
	}

	bodyTags := append(hooks.dividers(), middleTags...)

	var middles []cst.Item
	for {
		if hooks.EnableDoLabelConstruct && !k.Labels().Contains(myLabel) {
			// closed by a shared terminator consumed in a nested construct
			items := make([]cst.Item, 0, 1+len(middles))
			items = append(items, cst.NodeItem(head))
			items = append(items, middles...)
			return cst.New(tag, rule.KindBlock, items...), nil
		}

		if peekIsEOF(rd) {
			rd.RewindTo(startCp)
			return nil, ferrors.NewSyntaxError(rd.File(), 0, 0, 0, "", string(tag)+": unexpected end of input")
		}

		if hooks.EnableDoLabelConstruct {
			if top, ok := k.Labels().Top(); ok && top.Label == myLabel {
				cp := rd.Mark()
				if tail, terr := k.MatchStream(endTag, rd); terr == nil {
					// state: AFTER_END (terminal)
					items := make([]cst.Item, 0, 2+len(middles))
					items = append(items, cst.NodeItem(head))
					items = append(items, middles...)
					items = append(items, cst.NodeItem(tail))
					return cst.New(tag, rule.KindBlock, items...), nil
				}
				rd.RewindTo(cp)
			}
		}

		matched := false
		for _, mt := range bodyTags {
			cp := rd.Mark()
			node, merr := k.MatchStream(mt, rd)
			if merr == nil {
				middles = append(middles, cst.NodeItem(node))
				matched = true
				// state: IN_BODY
				break
			}
			rd.RewindTo(cp)
			if !ferrors.IsNoMatch(merr) {
				return nil, merr
			}
		}
		if !matched {
			if hooks.EnableDoLabelConstruct {
				rd.RewindTo(startCp)
				return nil, ferrors.NewSyntaxError(rd.File(), 0, 0, 0, "", string(tag)+": unterminated label-DO")
			}
			break
		}
	}

	tail, err := k.MatchStream(endTag, rd)
	if err != nil {
		rd.RewindTo(startCp)
		return nil, err
	}
	// state: AFTER_END (terminal)

	if startName != nil && endName != nil {
		sName := startName(head)
		eName := endName(tail)
		if sName != "" && eName != "" && !strings.EqualFold(sName, eName) {
			msg := string(tag) + ": END name \"" + eName + "\" does not match construct name \"" + sName + "\""
			return nil, ferrors.NewSyntaxError(rd.File(), 0, 0, 0, msg, string(tag))
		}
	}

	items := make([]cst.Item, 0, 2+len(middles))
	items = append(items, cst.NodeItem(head))
	items = append(items, middles...)
	items = append(items, cst.NodeItem(tail))

	return cst.New(tag, rule.KindBlock, items...), nil
}

func peekIsEOF(rd *reader.Reader) bool {
	cp := rd.Mark()
	it := rd.Next()
	rd.RewindTo(cp)
	return it.Kind == reader.KindEOF
}
