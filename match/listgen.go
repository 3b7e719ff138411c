package match

import (
	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/rule"
)

// GenerateList registers base's `X_List` companion rule (via
// rule.GenerateList) and wires its matching strategy to MatchList in the
// same step, so callers never need a separate RegisterString call for a
// generated list tag.
func GenerateList(reg *rule.Registry, k *Kernel, base rule.Tag, sep string) rule.Tag {
	listTag := rule.GenerateList(reg, base, sep)
	k.RegisterString(listTag, func(k *Kernel, s string) (*cst.Node, string, error) {
		return MatchList(k, listTag, base, sep, s)
	})
	return listTag
}
