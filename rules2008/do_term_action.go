package rules2008

import (
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/rule"
	"github.com/dekarrin/gofortran/rules2003"
)

// installDoTermAction overrides Do_Term_Action_Stmt (R826) per constraint
// C816: under F2008, a labeled DO's terminating statement shall not be an
// arithmetic-if-stmt, continue-stmt, cycle-stmt, end-*-stmt, exit-stmt,
// goto-stmt, return-stmt, or stop-stmt. The override lists the action
// statements that remain permitted; rules2003's Labeled_Action_Stmt matcher
// is untouched — it already resolves this tag through the registry rather
// than hardcoding Action_Stmt, which is the substitution seam this delta
// relies on.
func installDoTermAction(reg *rule.Registry, k *match.Kernel) {
	reg.Register(rules2003.TagDoTermActionStmt, rule.Descriptor{
		Human: "do-term-action statement (R826, C816)",
		Kind:  rule.KindNone,
		Alternatives: []rule.Tag{
			rules2003.TagAssignmentStmt,
			rules2003.TagCallStmt,
			rules2003.TagPrintStmt,
			rules2003.TagReadStmt,
			rules2003.TagWriteStmt,
			rules2003.TagAllocateStmt,
			rules2003.TagDeallocateStmt,
			rules2003.TagOpenStmt,
			rules2003.TagCloseStmt,
			rules2003.TagInquireStmt,
			rules2003.TagWaitStmt,
			rules2003.TagFlushStmt,
			rules2003.TagBackspaceStmt,
			rules2003.TagEndfileStmt,
			rules2003.TagRewindStmt,
			rules2003.TagForallStmt,
			rules2003.TagWhereStmt,
		},
	})
}
