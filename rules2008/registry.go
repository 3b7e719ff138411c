// Package rules2008 implements the small F2008 delta over rules2003: rules
// that override or extend an F2003 rule rather than duplicate it. Per the
// specification's §4.8, the delta must compose with the F2003 rule set
// "through substitution, not duplication" — Install is always called with a
// rule.Registry built by rule.NewDelta(base), so a tag it registers shadows
// the base's entry for every lookup (rule.Registry.Get falls through to the
// parent for everything else) and a tag it never touches resolves straight
// to the F2003 descriptor.
package rules2008

import (
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/rule"
)

// Install registers every F2008-delta rule tag and matching strategy into
// reg (expected to be a rule.NewDelta over the F2003 base registry) and k.
func Install(reg *rule.Registry, k *match.Kernel) {
	installDoTermAction(reg, k)
	installSubmodule(reg, k)
}
