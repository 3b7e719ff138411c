package rules2003

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// nextStatement pulls the next non-comment statement item from rd, skipping
// over any preserved comment items along the way (comments never
// participate in grammar matching; they are reattached as sibling nodes
// by the caller, not by the CST construction itself).
// It returns ok=false (with the reader rewound past nothing, since no
// consuming happened beyond what Next already did) on EOF.
func nextStatement(rd *reader.Reader) (reader.Item, bool) {
	for {
		it := rd.Next()
		switch it.Kind {
		case reader.KindComment:
			continue
		case reader.KindEOF:
			return it, false
		default:
			return it, true
		}
	}
}

// matchWholeStatement runs fn against item's full text and requires it to
// consume all of it (after trimming trailing whitespace); a partial match
// is a no-match for the calling rule, consistent with statement rules never
// sharing a logical line with anything else.
func matchWholeStatement(tag string, text string, fn func(string) (*cst.Node, string, error)) (*cst.Node, error) {
	node, rest, err := fn(text)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rest) != "" {
		return nil, ferrors.NewNoMatch(tag)
	}
	return node, nil
}

func withSource(n *cst.Node, it reader.Item) *cst.Node {
	if n == nil {
		return n
	}
	return n.WithSource(&cst.Source{
		File:          it.File,
		Line:          it.Line,
		ColStart:      0,
		ColEnd:        len(it.FirstPhysicalLine),
		Text:          it.FirstPhysicalLine,
		ConstructName: it.ConstructName,
	})
}

// constructNameOf is a match.NameOf usable by any block whose start/end
// statements were built through withSource: it reads back the construct
// name the reader extracted, regardless of which rule produced the node.
func constructNameOf(n *cst.Node) string {
	if n == nil || n.Src == nil {
		return ""
	}
	return n.Src.ConstructName
}

// endStatementNameOf reads the trailing construct name a KindEndStatement
// rule captured at item position 1 (e.g. "END IF name"), the position every
// end-statement rule in this package reserves for it.
func endStatementNameOf(n *cst.Node) string {
	if n == nil {
		return ""
	}
	return n.Leaf(1)
}

// echoBareEnd fills a construct's end statement with the construct's kind
// keyword and the start statement's name when the source spelled only a
// bare END: the construct re-emits with the name echoed on the end
// statement when the start statement named it. An end statement that
// already spelled its keyword (with or without a trailing name) is left
// exactly as written. The construct matcher calls this only after its
// head/tail name agreement check has passed.
func echoBareEnd(tail *cst.Node, keyword, name string) *cst.Node {
	if tail == nil || !tail.Absent(0) || !tail.Absent(1) {
		return tail
	}
	kwItem := cst.AbsentItem()
	if keyword != "" {
		kwItem = cst.LeafItem(keyword)
	}
	nameItem := cst.AbsentItem()
	if name != "" {
		nameItem = cst.LeafItem(name)
	}
	return cst.New(tail.Tag, rule.KindEndStatement, kwItem, nameItem).WithSource(tail.Src)
}
