package rules2003

import (
	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// The F2008 delta composes with this package "through substitution, not
// duplication" (spec §4.8): rules2008 reuses this package's Name/Expr/
// Specification_Part/Execution_Part building blocks and the reader
// plumbing below rather than re-implementing them. These thin exported
// wrappers are that seam.

// NextStatement is the exported form of nextStatement, for rules2008's
// Submodule_Stmt/End_Submodule_Stmt matchers.
func NextStatement(rd *reader.Reader) (reader.Item, bool) { return nextStatement(rd) }

// MatchWholeStatement is the exported form of matchWholeStatement.
func MatchWholeStatement(tag string, text string, fn func(string) (*cst.Node, string, error)) (*cst.Node, error) {
	return matchWholeStatement(tag, text, fn)
}

// WithSource is the exported form of withSource.
func WithSource(n *cst.Node, it reader.Item) *cst.Node { return withSource(n, it) }

// MatchOptionalKeywordEndStmt is the exported form of
// matchOptionalKeywordEndStmt, reused by rules2008's End_Submodule_Stmt
// (same "END [SUBMODULE [name]]" shape as END PROGRAM/SUBROUTINE/FUNCTION).
func MatchOptionalKeywordEndStmt(rd *reader.Reader, tag rule.Tag, keyword string) (*cst.Node, error) {
	return matchOptionalKeywordEndStmt(rd, tag, keyword)
}

// ConstructNameOf is the exported form of constructNameOf.
func ConstructNameOf(n *cst.Node) string { return constructNameOf(n) }

// EndStatementNameOf is the exported form of endStatementNameOf.
func EndStatementNameOf(n *cst.Node) string { return endStatementNameOf(n) }

// EchoBareEnd is the exported form of echoBareEnd, reused by rules2008's
// Submodule so a bare END re-emits as "END SUBMODULE name" (the same echo
// every named F2003 program unit applies).
func EchoBareEnd(tail *cst.Node, keyword, name string) *cst.Node {
	return echoBareEnd(tail, keyword, name)
}
