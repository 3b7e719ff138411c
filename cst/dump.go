package cst

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

const (
	dumpLevelEmpty      = "        "
	dumpLevelOngoing    = "  |     "
	dumpLevelPrefix     = "  |-%d: "
	dumpLevelPrefixLast = `  \-%d: `

	// dumpLeafWrapWidth is the column at which a long leaf (e.g. a lengthy
	// CHARACTER literal) is wrapped in a Dump, so a single pathological leaf
	// does not blow out terminal-width debugging output.
	dumpLeafWrapWidth = 60
)

// Dump returns a prettified, line-by-line representation of the node
// suitable for diffing in tests, independent of canonical Fortran rendering.
// Two nodes are structurally identical if and only if their Dump output is
// identical.
func (n *Node) Dump() string {
	return n.leveledDump("", "")
}

func (n *Node) leveledDump(firstPrefix, contPrefix string) string {
	var sb strings.Builder
	sb.WriteString(firstPrefix)

	if n == nil {
		sb.WriteString("(ABSENT)")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("( %s )", n.Tag))

	for i, it := range n.Items {
		sb.WriteRune('\n')
		last := i+1 == len(n.Items)

		var leveledFirst, leveledCont string
		if !last {
			leveledFirst = contPrefix + fmt.Sprintf(dumpLevelPrefix, i)
			leveledCont = contPrefix + dumpLevelOngoing
		} else {
			leveledFirst = contPrefix + fmt.Sprintf(dumpLevelPrefixLast, i)
			leveledCont = contPrefix + dumpLevelEmpty
		}

		switch {
		case it.IsAbsent():
			sb.WriteString(leveledFirst + "(ABSENT)")
		default:
			if child, ok := it.Node(); ok {
				sb.WriteString(child.leveledDump(leveledFirst, leveledCont))
			} else {
				leaf, _ := it.Leaf()
				wrapped := rosed.Edit(fmt.Sprintf("(LEAF %q)", leaf)).Wrap(dumpLeafWrapWidth).String()
				sb.WriteString(leveledFirst + indentContinuation(wrapped, leveledCont))
			}
		}
	}

	return sb.String()
}

// indentContinuation prefixes every line after the first of a wrapped leaf
// with cont, so multi-line (wrapped) leaf text stays aligned under the tree
// branch that introduced it.
func indentContinuation(s, cont string) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = cont + lines[i]
	}
	return strings.Join(lines, "\n")
}
