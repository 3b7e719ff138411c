package rules2003

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/rule"
)

// Tags for R611-R614's Data_Ref/Part_Ref family: `%`-chained component
// references, with an optional subscript list at each part (array section
// and substring-range forms are not modeled; see DESIGN.md, "Rule
// coverage").
const (
	TagDataRef  rule.Tag = "Data_Ref"
	TagPartRef  rule.Tag = "Part_Ref"
	TagSubscript rule.Tag = "Subscript"
)

func installDataRef(reg *rule.Registry, k *match.Kernel) {
	reg.Register(TagSubscript, rule.Descriptor{
		Human:        "subscript (R619)",
		Kind:         rule.KindNone,
		Alternatives: []rule.Tag{TagIntExpr},
	})
	match.GenerateList(reg, k, TagSubscript, ",")

	reg.Register(TagPartRef, rule.Descriptor{
		Human: "part ref (R613)",
		Kind:  rule.KindCall,
		Uses:  []rule.Tag{TagName, TagSubscript},
	})
	k.RegisterString(TagPartRef, matchPartRef)

	reg.Register(TagDataRef, rule.Descriptor{
		Human: "data ref (R611)",
		Kind:  rule.KindSeparator,
		Sep:   "%",
		Uses:  []rule.Tag{TagPartRef},
	})
	k.RegisterString(TagDataRef, matchDataRef)
}

// matchPartRef matches `name [( subscript-list )]`.
func matchPartRef(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	name, rest, err := k.MatchString(TagName, trimmed)
	if err != nil {
		return nil, s, ferrors.NewNoMatch(string(TagPartRef))
	}
	afterName := strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(afterName, "(") {
		n := cst.New(TagPartRef, rule.KindCall, cst.NodeItem(name), cst.AbsentItem())
		return n, rest, nil
	}

	listTag := TagSubscript + "_List"
	bracketed, remainder, err := match.MatchBracketed(k, TagPartRef, listTag, "(", ")", afterName)
	if err != nil {
		n := cst.New(TagPartRef, rule.KindCall, cst.NodeItem(name), cst.AbsentItem())
		return n, rest, nil
	}
	args := bracketed.Child(0)
	n := cst.New(TagPartRef, rule.KindCall, cst.NodeItem(name), cst.NodeItem(args))
	return n, remainder, nil
}

// matchDataRef matches a "%"-chained sequence of Part_Ref, left-associative:
// `a % b % c` parses as `(a % b) % c`, mirroring the binary-op chaining
// strategy used for left-recursive expression rules.
func matchDataRef(k *match.Kernel, s string) (*cst.Node, string, error) {
	left, rest, err := k.MatchString(TagPartRef, s)
	if err != nil {
		return nil, s, err
	}

	for {
		trimmed := strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(trimmed, "%") {
			break
		}
		right, rem, err := k.MatchString(TagPartRef, trimmed[1:])
		if err != nil {
			break
		}
		left = cst.New(TagDataRef, rule.KindSeparator, cst.NodeItem(left), cst.NodeItem(right)).WithSep("%")
		rest = rem
	}

	return left, rest, nil
}
