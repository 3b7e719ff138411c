// Package rules2003 implements the F2003 rule set: every block construct
// and keyword-specifier statement family of the grammar, the full
// expression precedence chain, and the declaration/type-spec/literal
// productions they depend on. A few statement payload forms are
// simplified; the engine itself (pattern, reader, splitline, rule, match)
// is fully table-driven and rule-count-agnostic, so refining those is
// additional data entry against the engine, not an architecture change.
// See DESIGN.md, "Rule coverage."
package rules2003

import (
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/rule"
)

// Install registers every F2003 rule tag and its matching strategy into reg
// and k. It must run before any parse begins; reg and k are otherwise
// read-only/parse-scoped respectively once Install returns.
func Install(reg *rule.Registry, k *match.Kernel) {
	installNamesAndLiterals(reg, k)
	installTypeSpecs(reg, k)
	installDerivedType(reg, k)
	installDataRef(reg, k)
	installExpr(reg, k)
	installDeclarations(reg, k)
	installExecution(reg, k)
	installIO(reg, k)
	installIOSpecs(reg, k)
	installBlocks(reg, k)
	installCaseAndSelectType(reg, k)
	installAssociateAndForall(reg, k)
	installEnum(reg, k)
	installInterface(reg, k)
	installModule(reg, k)
	installProgram(reg, k)
	installBindAndBinding(reg, k)
}
