package match

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/rule"
	"github.com/dekarrin/gofortran/splitline"
)

// KeywordSpec is one entry of a keyword-argument dispatch table: I/O
// control, connect-spec, close-spec, inquire-spec, wait-spec, position-spec,
// flush-spec, alloc-opt, and dealloc-opt rules are all built from one of
// these per accepted keyword.
type KeywordSpec struct {
	// Name is matched case-insensitively against the text to the left of
	// "=".
	Name string
	// Value is the rule tag the right-hand side must match.
	Value rule.Tag
}

// MatchKeywordArgs matches a parenthesized-free argument list (the caller
// has already stripped the surrounding parens) against a fixed keyword
// table, accepting `positional` leading unnamed arguments (typically just
// the unit number; I/O control also accepts an unnamed format spec as its
// second positional slot). An argument not found in the table and not
// consumable positionally is a no-match for the entire rule: unknown
// keywords yield no-match, and so does an unnamed argument after a keyword
// argument.
func MatchKeywordArgs(k *Kernel, tag rule.Tag, specs []KeywordSpec, positional []rule.Tag, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, s, ferrors.NewNoMatch(string(tag))
	}

	sp := splitline.New(trimmed)
	pieces := sp.TopLevelSplit(",")

	items := make([]cst.Item, 0, len(pieces))
	positionalUsed := 0
	sawKeyword := false

	for _, piece := range pieces {
		name, value, isKV := splitKeywordValue(piece)
		if isKV {
			sawKeyword = true
			spec, ok := lookupSpec(specs, name)
			if !ok {
				return nil, s, ferrors.NewNoMatch(string(tag))
			}
			node, rest, err := k.MatchString(spec.Value, value)
			if err != nil || strings.TrimSpace(rest) != "" {
				return nil, s, ferrors.NewNoMatch(string(tag))
			}
			kvTag := rule.Tag(strings.ToUpper(spec.Name)) + "_Spec"
			kv := cst.New(kvTag, rule.KindKeywordValue, cst.LeafItem(strings.ToUpper(spec.Name)), cst.NodeItem(node))
			items = append(items, cst.NodeItem(kv))
			continue
		}

		if sawKeyword || positionalUsed >= len(positional) {
			return nil, s, ferrors.NewNoMatch(string(tag))
		}
		posTag := positional[positionalUsed]
		node, rest, err := k.MatchString(posTag, piece)
		if err != nil || strings.TrimSpace(rest) != "" {
			return nil, s, ferrors.NewNoMatch(string(tag))
		}
		items = append(items, cst.NodeItem(node))
		positionalUsed++
	}

	n := cst.New(tag, rule.KindSequence, items...).WithSep(", ")
	return n, "", nil
}

// SplitKeywordValue splits piece on its top-level "=" (not "=>", not "=="),
// returning the uppercase-trimmed name, the trimmed value text, and whether a
// keyword-value split was found. Statement rules that mix positional and
// keyword arguments in one parenthesized list (Allocate_Stmt's
// allocation-list vs alloc-opt-list split) use this to classify each piece
// before dispatching it.
func SplitKeywordValue(piece string) (name, value string, ok bool) {
	return splitKeywordValue(piece)
}

// splitKeywordValue splits piece on its top-level "=" (not "=>", not "=="),
// returning the uppercase-trimmed name, the trimmed value text, and whether
// a keyword-value split was found at all.
func splitKeywordValue(piece string) (name, value string, ok bool) {
	sp := splitline.New(piece)
	rewritten := sp.Rewritten()
	idx := strings.Index(rewritten, "=")
	if idx < 0 {
		return "", "", false
	}
	if idx+1 < len(rewritten) && (rewritten[idx+1] == '>' || rewritten[idx+1] == '=') {
		return "", "", false
	}
	if idx > 0 && rewritten[idx-1] == '=' {
		return "", "", false
	}
	left := sp.Restore(rewritten[:idx])
	right := sp.Restore(rewritten[idx+1:])
	name = strings.ToUpper(strings.TrimSpace(left))
	if !isPlainName(name) {
		return "", "", false
	}
	return name, strings.TrimSpace(right), true
}

func isPlainName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
				return false
			}
			continue
		}
		if !isIdentChar(r) {
			return false
		}
	}
	return true
}

func lookupSpec(specs []KeywordSpec, name string) (KeywordSpec, bool) {
	for _, spec := range specs {
		if strings.EqualFold(spec.Name, name) {
			return spec, true
		}
	}
	return KeywordSpec{}, false
}
