package match

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/rule"
	"github.com/dekarrin/gofortran/splitline"
)

// These helpers are the matching strategy the kernel invokes per
// structural shape. They are implemented as
// ordinary functions rather than reflection over rule.Descriptor so that
// each rules2003 rule can compose exactly the shapes its production needs;
// the Kind recorded on the resulting cst.Node (see cst.Node.String) is what
// stays fully generic and table-driven, matching the design notes'
// insistence that rendering, at least, never special-cases a rule by name.

// MatchKeyword consumes kw (case-insensitively) from the head of s, provided
// it is not immediately followed by another identifier character (so
// "END" does not match inside "ENDIF" when the caller wanted the separate
// "END IF" form, for example). Returns the unconsumed remainder and ok.
func MatchKeyword(s, kw string) (rest string, ok bool) {
	trimmed := strings.TrimLeft(s, " \t")
	if len(trimmed) < len(kw) {
		return s, false
	}
	if !strings.EqualFold(trimmed[:len(kw)], kw) {
		return s, false
	}
	if len(trimmed) > len(kw) && isIdentChar(rune(trimmed[len(kw)])) {
		return s, false
	}
	return trimmed[len(kw):], true
}

func isIdentChar(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// MatchLiteral consumes lit verbatim (not case-folded, for punctuation like
// "(", "::", "=>") from the head of s.
func MatchLiteral(s, lit string) (rest string, ok bool) {
	trimmed := strings.TrimLeft(s, " \t")
	if !strings.HasPrefix(trimmed, lit) {
		return s, false
	}
	return trimmed[len(lit):], true
}

// MatchList matches `elem [sep elem]*` by splitting s on sep at the top
// level (outside strings and parens, via splitline) and requiring every
// piece to fully match elemTag. listTag is the tag assigned to the
// resulting KindSequence node (conventionally elemTag+"_List", produced by
// rule.GenerateList at registry construction time).
func MatchList(k *Kernel, listTag, elemTag rule.Tag, sep, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, s, ferrors.NewNoMatch(string(listTag))
	}
	sp := splitline.New(trimmed)
	pieces := sp.TopLevelSplit(sep)

	items := make([]cst.Item, 0, len(pieces))
	for _, piece := range pieces {
		node, rest, err := k.MatchString(elemTag, piece)
		if err != nil {
			return nil, s, ferrors.NewNoMatch(string(listTag))
		}
		if strings.TrimSpace(rest) != "" {
			return nil, s, ferrors.NewNoMatch(string(listTag))
		}
		items = append(items, cst.NodeItem(node))
	}

	n := cst.New(listTag, rule.KindSequence, items...).WithSep(sep + " ")
	return n, "", nil
}

// MatchBracketed matches `left payload right` where left/right are literal
// delimiter strings (e.g. "(" / ")") and payload is matched via payloadTag
// against everything between a balanced pair located with splitline.
func MatchBracketed(k *Kernel, tag, payloadTag rule.Tag, left, right, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	if !strings.HasPrefix(trimmed, left) {
		return nil, s, ferrors.NewNoMatch(string(tag))
	}
	inner := trimmed[len(left):]
	closeIdx := balancedClose(inner, left, right)
	if closeIdx < 0 {
		return nil, s, ferrors.NewNoMatch(string(tag))
	}
	payloadStr := inner[:closeIdx]
	restAfter := inner[closeIdx+len(right):]

	node, rest, err := k.MatchString(payloadTag, payloadStr)
	if err != nil {
		return nil, s, ferrors.NewNoMatch(string(tag))
	}
	if strings.TrimSpace(rest) != "" {
		return nil, s, ferrors.NewNoMatch(string(tag))
	}

	n := cst.New(tag, rule.KindBracketed, cst.NodeItem(node)).WithDelims(left, right)
	return n, restAfter, nil
}

// balancedClose finds the index (within s) of the right delimiter that
// balances the already-consumed left delimiter, accounting for nested
// occurrences of left/right and for string-literal spans via splitline's
// string protection.
func balancedClose(s, left, right string) int {
	sp := splitline.New(s)
	rewritten := sp.Rewritten()
	depth := 1
	for i := 0; i < len(rewritten); {
		switch {
		case strings.HasPrefix(rewritten[i:], left):
			depth++
			i += len(left)
		case strings.HasPrefix(rewritten[i:], right):
			depth--
			if depth == 0 {
				// i is an offset into the rewritten (placeholder-bearing)
				// string, which may differ in length from the original;
				// translate back by restoring the matched prefix and
				// measuring it. This is safe because i always lands right
				// before a literal "right" delimiter character, never
				// inside a placeholder token.
				return len(sp.Restore(rewritten[:i]))
			}
			i += len(right)
		default:
			i++
		}
	}
	return -1
}

// MatchWordPayload matches `KEYWORD [sep] payload`, where sep is one of the
// accepted joiners (e.g. {"::", ""} to make "::" optional, or {" "} to
// require plain whitespace). An empty payloadTag means the payload is
// always absent (a bare keyword rule).
func MatchWordPayload(k *Kernel, tag rule.Tag, keyword string, seps []string, payloadTag rule.Tag, s string) (*cst.Node, string, error) {
	rest, ok := MatchKeyword(s, keyword)
	if !ok {
		return nil, s, ferrors.NewNoMatch(string(tag))
	}

	if payloadTag == "" {
		n := cst.New(tag, rule.KindWordPayload, cst.LeafItem(strings.ToUpper(keyword)), cst.AbsentItem())
		return n, rest, nil
	}

	var usedSep string
	afterSep := rest
	for _, sepOpt := range seps {
		trimmed := strings.TrimLeft(rest, " \t")
		if sepOpt == "" {
			afterSep = trimmed
			usedSep = " "
			break
		}
		if strings.HasPrefix(trimmed, sepOpt) {
			afterSep = trimmed[len(sepOpt):]
			usedSep = " " + sepOpt + " "
			break
		}
	}

	node, remainder, err := k.MatchString(payloadTag, afterSep)
	if err != nil {
		// payload optional: keyword alone is acceptable
		n := cst.New(tag, rule.KindWordPayload, cst.LeafItem(strings.ToUpper(keyword)), cst.AbsentItem())
		return n, rest, nil
	}

	n := cst.New(tag, rule.KindWordPayload, cst.LeafItem(strings.ToUpper(keyword)), cst.NodeItem(node)).WithSep(usedSep)
	return n, remainder, nil
}

// MatchBinaryOpChain matches a left-recursive binary-operator rule
// (`Chain = Chain op Operand`) without left recursion: it matches the
// leftmost operand, then repeatedly extends rightwards by one operator and
// operand, nesting the result so far as the new node's left child (so
// `a - b - c` becomes `(a - b) - c`). opLiterals is tried in declared order
// at each position.
func MatchBinaryOpChain(k *Kernel, tag, operandTag rule.Tag, opLiterals []string, s string) (*cst.Node, string, error) {
	left, rest, err := k.MatchString(operandTag, s)
	if err != nil {
		return nil, s, err
	}

	for {
		trimmed := strings.TrimLeft(rest, " \t")
		var matchedOp string
		var afterOp string
		for _, op := range opLiterals {
			if len(trimmed) >= len(op) && strings.EqualFold(trimmed[:len(op)], op) {
				matchedOp = op
				afterOp = trimmed[len(op):]
				break
			}
		}
		if matchedOp == "" {
			break
		}

		right, rem, err := k.MatchString(operandTag, afterOp)
		if err != nil {
			break
		}

		left = cst.New(tag, rule.KindBinaryOp,
			cst.NodeItem(left), cst.LeafItem(normalizeOp(matchedOp)), cst.NodeItem(right))
		rest = rem
	}

	return left, rest, nil
}

func normalizeOp(op string) string {
	if strings.HasPrefix(op, ".") {
		return strings.ToUpper(op)
	}
	return op
}

// MatchRightAssocBinaryOp matches a single right-associative binary
// operator application (e.g. R704 Power: `a ** b` where the right side may
// itself be a Power), trying operandTag on the left, the operator literal,
// then recursing into tag itself for the right side before falling back to
// operandTag.
func MatchRightAssocBinaryOp(k *Kernel, tag, operandTag rule.Tag, opLiteral string, s string) (*cst.Node, string, error) {
	left, rest, err := k.MatchString(operandTag, s)
	if err != nil {
		return nil, s, err
	}

	trimmed := strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(trimmed, opLiteral) {
		return nil, s, ferrors.NewNoMatch(string(tag))
	}
	afterOp := trimmed[len(opLiteral):]

	right, rem, err := k.MatchString(tag, afterOp)
	if err != nil {
		right, rem, err = k.MatchString(operandTag, afterOp)
		if err != nil {
			return nil, s, ferrors.NewNoMatch(string(tag))
		}
	}

	n := cst.New(tag, rule.KindBinaryOp, cst.NodeItem(left), cst.LeafItem(opLiteral), cst.NodeItem(right))
	return n, rem, nil
}

// MatchUnaryOp matches `OP operand`.
func MatchUnaryOp(k *Kernel, tag, operandTag rule.Tag, opLiterals []string, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")
	var matchedOp string
	for _, op := range opLiterals {
		if len(trimmed) >= len(op) && strings.EqualFold(trimmed[:len(op)], op) {
			matchedOp = op
			break
		}
	}
	if matchedOp == "" {
		return nil, s, ferrors.NewNoMatch(string(tag))
	}
	operand, rest, err := k.MatchString(operandTag, trimmed[len(matchedOp):])
	if err != nil {
		return nil, s, ferrors.NewNoMatch(string(tag))
	}
	n := cst.New(tag, rule.KindUnaryOp, cst.LeafItem(normalizeOp(matchedOp)), cst.NodeItem(operand))
	return n, rest, nil
}
