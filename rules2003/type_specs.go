package rules2003

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/pattern"
	"github.com/dekarrin/gofortran/rule"
)

// Tags for R401-R428's type-spec family.
const (
	TagKindSelector         rule.Tag = "Kind_Selector"
	TagIntrinsicTypeSpec    rule.Tag = "Intrinsic_Type_Spec"
	TagCharSelector         rule.Tag = "Char_Selector"
	TagTypeSpec             rule.Tag = "Type_Spec"
	TagDeclarationTypeSpec  rule.Tag = "Declaration_Type_Spec"
	TagDerivedTypeSpec      rule.Tag = "Derived_Type_Spec"
)

func installTypeSpecs(reg *rule.Registry, k *match.Kernel) {
	// R404 Kind_Selector: "(KIND=8)", "(8)", or "*8". A bespoke shape
	// (KindCustom) since none of the tabular Kinds model a rule with two
	// mutually exclusive surface forms and no fixed delimiter pair.
	reg.Register(TagKindSelector, rule.Descriptor{Human: "kind selector (R404)", Kind: rule.KindCustom})
	k.RegisterString(TagKindSelector, matchKindSelector)

	// R424 Char_Selector's three surface forms: "(LEN=.., KIND=..)",
	// "(len, [kind])", "*len". Represented the same way as Kind_Selector.
	reg.Register(TagCharSelector, rule.Descriptor{Human: "character selector (R424)", Kind: rule.KindCustom})
	k.RegisterString(TagCharSelector, matchCharSelector)

	// R403 Intrinsic_Type_Spec: one of the fixed type keywords, each
	// followed by its own optional selector. DOUBLE PRECISION and DOUBLE
	// COMPLEX take no selector at all.
	reg.Register(TagIntrinsicTypeSpec, rule.Descriptor{Human: "intrinsic type spec (R403)", Kind: rule.KindCustom})
	k.RegisterString(TagIntrinsicTypeSpec, matchIntrinsicTypeSpec)

	reg.Register(TagDerivedTypeSpec, rule.Descriptor{
		Human: "derived type spec (R455)",
		Kind:  rule.KindNone,
		Alternatives: []rule.Tag{
			TagName, // simplified: type-param-spec-list suffix is not modeled
		},
	})

	reg.Register(TagTypeSpec, rule.Descriptor{
		Human:        "type spec (R403/R455)",
		Kind:         rule.KindNone,
		Alternatives: []rule.Tag{TagIntrinsicTypeSpec, TagDerivedTypeSpec},
	})

	reg.Register(TagDeclarationTypeSpec, rule.Descriptor{
		Human:        "declaration type spec (R502)",
		Kind:         rule.KindNone,
		Alternatives: []rule.Tag{TagIntrinsicTypeSpec, TagDerivedTypeSpec},
	})
}

// matchKindSelector matches R404's three surface forms directly against
// pattern.KindSelectorForm, then renders through a custom function rather
// than the generic table: the star form re-emits as "*8", and both
// parenthesized spellings ("(KIND=8)" and "(8)") re-emit as "(KIND = 8)".
// See DESIGN.md, "Kind_Selector."
func matchKindSelector(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	comp, rest, ok := leadingComposite(trimmed, pattern.KindSelectorForm)
	if !ok {
		return nil, s, ferrors.NewNoMatch(string(TagKindSelector))
	}

	if v, present := comp.Group("paren_value"); present {
		n := cst.New(TagKindSelector, rule.KindCustom, cst.LeafItem(v)).
			WithRender(func(n *cst.Node) string { return "(KIND = " + n.Leaf(0) + ")" })
		return n, rest, nil
	}
	if v, present := comp.Group("star_value"); present {
		n := cst.New(TagKindSelector, rule.KindCustom, cst.LeafItem(v)).
			WithRender(func(n *cst.Node) string { return "*" + n.Leaf(0) })
		return n, rest, nil
	}
	return nil, s, ferrors.NewNoMatch(string(TagKindSelector))
}

// matchCharSelector matches a representative subset of R424: the
// "(LEN = x, KIND = y)" keyword form (either spec optional, either order)
// and the bare "*len" form. The positional "(len, kind)" form is omitted;
// see DESIGN.md, "Rule coverage."
func matchCharSelector(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")

	if rest, ok := match.MatchLiteral(trimmed, "*"); ok {
		node, remainder, err := k.MatchString(TagDigitString, rest)
		if err == nil {
			n := cst.New(TagCharSelector, rule.KindCustom, cst.NodeItem(node), cst.AbsentItem()).
				WithRender(func(n *cst.Node) string { return "*" + n.Child(0).Leaf(0) })
			return n, remainder, nil
		}
	}

	if !strings.HasPrefix(trimmed, "(") {
		return nil, s, ferrors.NewNoMatch(string(TagCharSelector))
	}

	var lenVal, kindVal string
	haveLen, haveKind := false, false
	var rest string

	// Char_Selector's LEN=/KIND= pairs can appear in either order, which
	// doesn't fit MatchBracketed's single-payload-tag shape, so the body is
	// parsed directly here instead.
	closeIdx := findMatchingParen(trimmed)
	if closeIdx < 0 {
		return nil, s, ferrors.NewNoMatch(string(TagCharSelector))
	}
	inner := trimmed[1:closeIdx]
	rest = trimmed[closeIdx+1:]

	for _, piece := range splitTopLevelCommas(inner) {
		piece = strings.TrimSpace(piece)
		upper := strings.ToUpper(piece)
		switch {
		case strings.HasPrefix(upper, "LEN"):
			idx := strings.Index(piece, "=")
			if idx < 0 {
				return nil, s, ferrors.NewNoMatch(string(TagCharSelector))
			}
			lenVal = strings.TrimSpace(piece[idx+1:])
			haveLen = true
		case strings.HasPrefix(upper, "KIND"):
			idx := strings.Index(piece, "=")
			if idx < 0 {
				return nil, s, ferrors.NewNoMatch(string(TagCharSelector))
			}
			kindVal = strings.TrimSpace(piece[idx+1:])
			haveKind = true
		case !haveLen:
			lenVal = piece
			haveLen = true
		default:
			return nil, s, ferrors.NewNoMatch(string(TagCharSelector))
		}
	}
	if !haveLen && !haveKind {
		return nil, s, ferrors.NewNoMatch(string(TagCharSelector))
	}

	lenItem, kindItem := cst.AbsentItem(), cst.AbsentItem()
	if haveLen {
		lenItem = cst.LeafItem(lenVal)
	}
	if haveKind {
		kindItem = cst.LeafItem(kindVal)
	}
	n := cst.New(TagCharSelector, rule.KindCustom, lenItem, kindItem).WithRender(renderCharSelector)
	return n, rest, nil
}

func renderCharSelector(n *cst.Node) string {
	var parts []string
	if !n.Absent(0) {
		parts = append(parts, "LEN = "+n.Leaf(0))
	}
	if !n.Absent(1) {
		parts = append(parts, "KIND = "+n.Leaf(1))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func findMatchingParen(s string) int {
	depth := 0
	inString := rune(0)
	for i, r := range s {
		if inString != 0 {
			if r == inString {
				inString = 0
			}
			continue
		}
		switch r {
		case '\'', '"':
			inString = r
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitTopLevelCommas(s string) []string {
	var out []string
	depth := 0
	inString := rune(0)
	start := 0
	for i, r := range s {
		if inString != 0 {
			if r == inString {
				inString = 0
			}
			continue
		}
		switch r {
		case '\'', '"':
			inString = r
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

// intrinsicTypeKeywords lists R403's fixed type keywords in the order they
// must be tried: longer, more specific spellings ("DOUBLE PRECISION",
// "DOUBLE COMPLEX") before the bare words they start with.
var intrinsicTypeKeywords = []struct {
	word     string
	selector rule.Tag // "" if this keyword takes no selector at all
}{
	{"DOUBLE PRECISION", ""},
	{"DOUBLE COMPLEX", ""},
	{"INTEGER", TagKindSelector},
	{"REAL", TagKindSelector},
	{"COMPLEX", TagKindSelector},
	{"LOGICAL", TagKindSelector},
	{"CHARACTER", TagCharSelector},
}

func matchIntrinsicTypeSpec(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	for _, kw := range intrinsicTypeKeywords {
		rest, ok := matchMultiWordKeyword(trimmed, kw.word)
		if !ok {
			continue
		}
		if kw.selector == "" {
			n := cst.New(TagIntrinsicTypeSpec, rule.KindCustom, cst.LeafItem(strings.ToUpper(kw.word)), cst.AbsentItem()).
				WithRender(renderIntrinsicTypeSpec)
			return n, rest, nil
		}
		node, remainder, err := k.MatchString(kw.selector, rest)
		if err != nil {
			n := cst.New(TagIntrinsicTypeSpec, rule.KindCustom, cst.LeafItem(strings.ToUpper(kw.word)), cst.AbsentItem()).
				WithRender(renderIntrinsicTypeSpec)
			return n, rest, nil
		}
		n := cst.New(TagIntrinsicTypeSpec, rule.KindCustom, cst.LeafItem(strings.ToUpper(kw.word)), cst.NodeItem(node)).
			WithRender(renderIntrinsicTypeSpec)
		return n, remainder, nil
	}
	return nil, s, ferrors.NewNoMatch(string(TagIntrinsicTypeSpec))
}

func renderIntrinsicTypeSpec(n *cst.Node) string {
	word := n.Leaf(0)
	if n.Absent(1) {
		return word
	}
	return word + " " + n.Child(1).String()
}

// matchMultiWordKeyword matches a keyword that may contain an internal
// space ("DOUBLE PRECISION") case-insensitively, tolerating any amount of
// whitespace between the constituent words in the source.
func matchMultiWordKeyword(s, kw string) (rest string, ok bool) {
	words := strings.Fields(kw)
	remaining := s
	for i, w := range words {
		remaining = strings.TrimLeft(remaining, " \t")
		if len(remaining) < len(w) || !strings.EqualFold(remaining[:len(w)], w) {
			return s, false
		}
		after := remaining[len(w):]
		if i == len(words)-1 {
			if after != "" && isIdentChar(rune(after[0])) {
				return s, false
			}
		}
		remaining = after
	}
	return remaining, true
}

func isIdentChar(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
