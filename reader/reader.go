// Package reader produces a FIFO stream of logical items (statement,
// comment, or end-of-stream) from free-form or fixed-form Fortran source,
// with a push-back buffer of unbounded depth. It handles continuation
// joining, comment stripping, string-literal
// protection, and label/construct-name extraction. Opening files and
// decoding bytes is the out-of-scope physical-line Reader's job (see the
// `source` package); this Reader only ever sees already-decoded text.
package reader

import (
	"strings"

	"github.com/dekarrin/gofortran/pattern"
)

// Checkpoint is an opaque position token. Every alternative attempt in the
// matcher kernel acquires one before consuming items and calls RewindTo on
// no-match, restoring the reader to exactly its pre-attempt state.
type Checkpoint int

// Reader is the backtracking logical-line reader. It is not safe for
// concurrent use; each parse constructs its own Reader.
type Reader struct {
	file        string
	lines       []string
	physLineNum []int // 1-based physical line number each raw line started at
	linePos     int   // next raw line index to scan from
	fixedForm   bool

	preserveComments bool

	history []Item
	cursor  int
}

// Option configures a Reader at construction time.
type Option func(*Reader)

// FixedForm selects fixed-form column rules instead of free-form.
func FixedForm() Option { return func(r *Reader) { r.fixedForm = true } }

// PreserveComments causes comments to be surfaced as KindComment items
// instead of being silently stripped.
func PreserveComments() Option { return func(r *Reader) { r.preserveComments = true } }

// WithFile sets the file name attached to every item's error-reporting
// metadata.
func WithFile(name string) Option { return func(r *Reader) { r.file = name } }

// New returns a Reader over src (already-decoded Fortran source text).
func New(src string, opts ...Option) *Reader {
	r := &Reader{}
	for _, o := range opts {
		o(r)
	}
	rawLines := strings.Split(src, "\n")
	// A trailing "\n" produces one spurious empty final line; drop it so
	// empty input yields zero lines, matching "empty input is valid and
	// yields an empty program."
	if len(rawLines) > 0 && rawLines[len(rawLines)-1] == "" {
		rawLines = rawLines[:len(rawLines)-1]
	}
	r.lines = rawLines
	r.physLineNum = make([]int, len(rawLines))
	for i := range rawLines {
		r.physLineNum[i] = i + 1
	}
	return r
}

// Mark returns a checkpoint of the reader's current position.
func (r *Reader) Mark() Checkpoint {
	return Checkpoint(r.cursor)
}

// RewindTo restores the reader to a previously Mark()ed position.
func (r *Reader) RewindTo(cp Checkpoint) {
	r.cursor = int(cp)
}

// Next returns the next item, advancing the reader past it.
func (r *Reader) Next() Item {
	if r.cursor < len(r.history) {
		it := r.history[r.cursor]
		r.cursor++
		return it
	}
	it := r.produceNext()
	r.history = append(r.history, it)
	r.cursor++
	return it
}

// Put pushes item back so the next Next() call returns it again. Put must be
// called in exactly the reverse order items were consumed (the usual
// scoped-backtrack discipline); passing Mark()/RewindTo() is equivalent and
// preferred when more than one item must be restored at once.
func (r *Reader) Put(item Item) {
	if r.cursor > 0 {
		r.cursor--
	}
}

// produceNext scans forward from r.linePos, joining continuations and
// stripping/surfacing comments, to build exactly one logical Item. It is
// never called with unconsumed put-back items pending; those are served
// from history first.
func (r *Reader) produceNext() Item {
	for {
		if r.linePos >= len(r.lines) {
			return EOF
		}

		raw := r.lines[r.linePos]
		startLine := r.physLineNum[r.linePos]

		if r.fixedForm {
			if isFixedFormCommentLine(raw) {
				r.linePos++
				if r.preserveComments {
					return Item{Kind: KindComment, Text: strings.TrimRight(raw, "\r"), File: r.file, Line: startLine, FirstPhysicalLine: raw}
				}
				continue
			}
		}

		body, comment, hadComment := stripInlineComment(raw)
		trimmed := strings.TrimSpace(body)

		if trimmed == "" {
			r.linePos++
			if hadComment && r.preserveComments {
				return Item{Kind: KindComment, Text: strings.TrimSpace(comment), File: r.file, Line: startLine, FirstPhysicalLine: raw}
			}
			continue
		}

		logical, consumed := r.joinContinuations(trimmed, r.linePos)
		r.linePos = consumed

		label, rest := extractLabel(logical)
		cname, rest := extractConstructName(rest)

		return Item{
			Kind:              KindStatement,
			Text:              rest,
			Label:             label,
			ConstructName:     cname,
			File:              r.file,
			Line:              startLine,
			FirstPhysicalLine: raw,
		}
	}
}

// joinContinuations joins free-form trailing-"&" / leading-"&" continuation
// lines (or fixed-form column-6 markers) starting at lines[from], which has
// already had its own inline comment stripped and been trimmed into first.
// It returns the fully joined logical line and the raw-line index to resume
// scanning from afterward.
func (r *Reader) joinContinuations(first string, from int) (string, int) {
	logical := first
	idx := from + 1

	// pending tracks whether the line most recently appended still owes a
	// continuation, decided once per line rather than re-derived from
	// logical's trailing characters every loop iteration — re-deriving it
	// breaks as soon as a skipped comment line sits between two
	// continuation lines, since by then the trailing "&" has already been
	// trimmed off logical.
	pending := !r.fixedForm && endsWithUnprotectedAmp(logical)
	if pending {
		logical = strings.TrimSuffix(strings.TrimRight(logical, " \t"), "&")
	}

	for {
		if !r.fixedForm && !pending {
			return logical, idx
		}

		if idx >= len(r.lines) {
			return logical, idx
		}

		next := r.lines[idx]
		if r.fixedForm {
			if !isFixedFormContinuation(next) {
				return logical, idx
			}
			cont := next
			if len(cont) > 6 {
				cont = cont[6:]
			} else {
				cont = ""
			}
			body, _, _ := stripInlineComment(cont)
			logical = logical + strings.TrimRight(body, "\r")
			idx++
			continue
		}

		body, _, hadComment := stripInlineComment(next)
		trimmedNext := strings.TrimSpace(body)
		if trimmedNext == "" {
			if hadComment {
				// a comment line between continuation lines is skipped
				// without breaking the join, per free-form continuation
				// rules.
				idx++
				continue
			}
			return logical, idx
		}
		if strings.HasPrefix(trimmedNext, "&") {
			logical = logical + strings.TrimPrefix(trimmedNext, "&")
		} else {
			logical = logical + strings.TrimRight(body, " \t\r")
		}
		pending = endsWithUnprotectedAmp(logical)
		if pending {
			logical = strings.TrimSuffix(strings.TrimRight(logical, " \t"), "&")
		}
		idx++
	}
}

// stripInlineComment removes a "!"-introduced comment from line, taking care
// not to treat a "!" inside a string literal as a comment start. It returns
// the code portion, the comment text (including "!"), and whether a comment
// was present.
func stripInlineComment(line string) (code, comment string, had bool) {
	inString := rune(0)
	runes := []rune(line)
	for i, c := range runes {
		if inString != 0 {
			if c == inString {
				if i+1 < len(runes) && runes[i+1] == inString {
					continue
				}
				inString = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			inString = c
		case '!':
			return string(runes[:i]), string(runes[i:]), true
		}
	}
	return line, "", false
}

// endsWithUnprotectedAmp reports whether line ends (ignoring trailing
// whitespace) with a "&" that is not inside a protected string literal.
func endsWithUnprotectedAmp(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	if !strings.HasSuffix(trimmed, "&") {
		return false
	}
	inString := rune(0)
	for _, c := range trimmed {
		if inString != 0 {
			if c == inString {
				inString = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			inString = c
		}
	}
	// if we end inside a string, the trailing & is part of the string's
	// contents (or the line is malformed); either way it is not a
	// continuation marker.
	return inString == 0
}

func isFixedFormCommentLine(raw string) bool {
	if raw == "" {
		return false
	}
	c := raw[0]
	return c == 'C' || c == 'c' || c == '*' || c == '!'
}

func isFixedFormContinuation(raw string) bool {
	if len(raw) < 6 {
		return false
	}
	if isFixedFormCommentLine(raw) {
		return false
	}
	marker := raw[5]
	return marker != ' ' && marker != '0'
}

func extractLabel(s string) (label, rest string) {
	m := pattern.LabelLeading.FindStringSubmatch(s)
	if m == nil {
		return "", s
	}
	return m[1], s[len(m[0]):]
}

func extractConstructName(s string) (name, rest string) {
	m := pattern.ConstructNameLeading.FindStringSubmatch(s)
	if m == nil {
		return "", s
	}
	colonIdx := strings.Index(s, ":")
	if colonIdx < 0 {
		return "", s
	}
	candidate := strings.TrimSpace(s[:colonIdx])
	if !pattern.Name.MatchString(candidate) {
		return "", s
	}
	_ = m
	return candidate, strings.TrimSpace(s[colonIdx+1:])
}
