// Package rule holds the closed, tagged universe of grammar rules and the
// compact shape descriptors the generic matcher kernel dispatches on. The
// registry built here is immutable read-only state shared across every
// parse; per-parse mutable state lives in the reader and the matcher's node
// stack, never here.
package rule

// Kind is the structural shape a rule matches with. A rule with Kind == 0
// (KindNone) has no own structural shape and matches purely through its
// alternative list.
type Kind int

const (
	// KindNone means the rule is alternatives-only: it owns no items of its
	// own and simply wraps whichever alternative matched.
	KindNone Kind = iota

	// KindTerminal matches a regex or keyword set; arity 1 (the matched
	// text).
	KindTerminal

	// KindNumber matches a numeric literal plus an optional kind parameter;
	// arity 2 (value, kind-param-or-absent).
	KindNumber

	// KindBracketed matches `L payload R` with configurable delimiters;
	// arity 1 (payload), with the delimiter pair kept in the node's Delims.
	KindBracketed

	// KindWordPayload matches `KEYWORD [::] child`; arity 2 (keyword,
	// payload-or-absent).
	KindWordPayload

	// KindCall matches `head ( args )`; arity 2 (head, args).
	KindCall

	// KindBinaryOp matches `lhs OP rhs`, left- or right-associative; arity 3
	// (lhs, op, rhs).
	KindBinaryOp

	// KindUnaryOp matches `OP operand`; arity 2 (op, operand).
	KindUnaryOp

	// KindSeparator matches `a SEP b`, either side optional; arity 2.
	KindSeparator

	// KindSequence matches `x sep x sep x ...`, auto-generated for every
	// X_List rule; arity N (one item per element), with the separator text
	// kept in the node's Sep.
	KindSequence

	// KindKeywordValue matches `NAME = value` against an allow-list of
	// names; arity 2 (name, value).
	KindKeywordValue

	// KindEndStatement matches `END [KIND [name]]`; arity 2 (kind-or-absent,
	// name-or-absent).
	KindEndStatement

	// KindBlock matches a start statement, a repeated set of middle
	// constructs, and an end statement; arity is construct-dependent (N).
	KindBlock

	// KindCustom indicates a bespoke match function owns arity and
	// rendering; used for rules whose shape does not fit the table (e.g.
	// Kind_Selector's three surface forms, Bind_Stmt's ")"-seeking
	// fallback).
	KindCustom
)

// Associativity describes which side a KindBinaryOp rule grows from.
// Formally left-recursive operators are matched leftmost operand first and
// extended rightwards, nesting to the left (match.MatchBinaryOpChain);
// right-associative ones recurse on their right operand
// (match.MatchRightAssocBinaryOp). This flag records the rule's
// associativity.
type Associativity int

const (
	LeftAssoc Associativity = iota
	RightAssoc
)
