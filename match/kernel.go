// Package match implements the matcher kernel: generic dispatch that, given
// a rule tag and an input (string or reader), tries each declared
// alternative in order and otherwise invokes the rule's own registered
// matching strategy. It owns the backtracking discipline (every attempt is
// wrapped in a scoped reader save/restore) and the deepest-position
// tracking that feeds maximal-munch syntax-error localization.
package match

import (
	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
)

// StringFn matches tag against the head of s, returning the constructed
// node and whatever of s was not consumed. It must not have any
// observable side effect on failure beyond returning a *ferrors.NoMatch.
type StringFn func(k *Kernel, s string) (*cst.Node, string, error)

// StreamFn matches tag by consuming one or more items from rd. On failure
// it must return *ferrors.NoMatch (or a real syntax/internal error) without
// assuming the kernel will rewind the reader for it — MatchStream does that
// automatically around every StreamFn invocation.
type StreamFn func(k *Kernel, rd *reader.Reader) (*cst.Node, error)

// Kernel is the generic dispatcher: given a rule tag and an input string or
// reader, it tries each alternative in declared order and then the rule's
// registered matching function, which applies the structural shape
// described by rule.Kind through this package's combinators (MatchList,
// MatchBinaryOpChain, MatchBlock, ...). It holds the immutable
// rule registry plus the per-rule custom matching
// strategies registered by rules2003/rules2008, and the small amount of
// mutable state (deepest-position tracking) needed for error localization
// during a single parse. A Kernel is built once per Parse call; it is not
// shared across concurrent parses.
type Kernel struct {
	Rules *rule.Registry

	stringFns map[rule.Tag]StringFn
	streamFns map[rule.Tag]StreamFn

	deepestPos  int
	deepestRule rule.Tag

	// labels tracks open label-DO constructs for the single parse this
	// Kernel belongs to (R826's shared terminators). Allocated lazily since
	// most parses never open one.
	labels *LabelStack
}

// Labels returns this Kernel's LabelStack, allocating it on first use. A
// Kernel is never shared across concurrent parses, so no locking is needed.
func (k *Kernel) Labels() *LabelStack {
	if k.labels == nil {
		k.labels = NewLabelStack()
	}
	return k.labels
}

// NewKernel returns a Kernel over the given registry.
func NewKernel(reg *rule.Registry) *Kernel {
	return &Kernel{
		Rules:     reg,
		stringFns: make(map[rule.Tag]StringFn),
		streamFns: make(map[rule.Tag]StreamFn),
	}
}

// RegisterString registers tag's string-level matching strategy.
func (k *Kernel) RegisterString(tag rule.Tag, fn StringFn) {
	k.stringFns[tag] = fn
}

// RegisterStream registers tag's stream-level matching strategy.
func (k *Kernel) RegisterStream(tag rule.Tag, fn StreamFn) {
	k.streamFns[tag] = fn
}

// DeepestHint returns the rule tag active when the reader reached its
// farthest position during this parse, for use as a syntax error's rule
// hint.
func (k *Kernel) DeepestHint() rule.Tag {
	return k.deepestRule
}

// noteAttempt records that tag is being attempted at the reader's current
// high-water mark, so that if this attempt (or one nested inside it) is the
// one to push the farthest, its tag becomes the error hint. Ties favor the
// most recently started attempt, i.e. the innermost rule.
func (k *Kernel) noteAttempt(tag rule.Tag, rd *reader.Reader) {
	if rd == nil {
		return
	}
	if pos := rd.Farthest(); pos >= k.deepestPos {
		k.deepestPos = pos
		k.deepestRule = tag
	}
}

// MatchString matches tag against the head of s.
func (k *Kernel) MatchString(tag rule.Tag, s string) (*cst.Node, string, error) {
	d, ok := k.Rules.Get(tag)
	if !ok {
		return nil, s, ferrors.NewInternalError(string(tag), "unregistered rule tag")
	}

	for _, alt := range d.Alternatives {
		node, rest, err := k.MatchString(alt, s)
		if err == nil {
			return node, rest, nil
		}
		if !ferrors.IsNoMatch(err) {
			return nil, s, err
		}
	}

	if fn, ok := k.stringFns[tag]; ok {
		return fn(k, s)
	}

	return nil, s, ferrors.NewNoMatch(string(tag))
}

// MatchStream matches tag by consuming items from rd, enforcing the
// backtracking discipline: every alternative and every custom StreamFn
// invocation is wrapped in a reader checkpoint that is restored on
// no-match.
func (k *Kernel) MatchStream(tag rule.Tag, rd *reader.Reader) (*cst.Node, error) {
	d, ok := k.Rules.Get(tag)
	if !ok {
		return nil, ferrors.NewInternalError(string(tag), "unregistered rule tag")
	}

	k.noteAttempt(tag, rd)

	for _, alt := range d.Alternatives {
		cp := rd.Mark()
		node, err := k.MatchStream(alt, rd)
		if err == nil {
			return node, nil
		}
		rd.RewindTo(cp)
		if !ferrors.IsNoMatch(err) {
			return nil, err
		}
	}

	if fn, ok := k.streamFns[tag]; ok {
		cp := rd.Mark()
		node, err := fn(k, rd)
		if err != nil {
			rd.RewindTo(cp)
			return nil, err
		}
		return node, nil
	}

	return nil, ferrors.NewNoMatch(string(tag))
}

// ParseTop runs tag (expected to be a stream-level rule, typically Program)
// against rd and converts an unhandled no-match at this outermost level into
// a syntax error pointing at the deepest position the reader reached
// (maximal-munch error localization).
func (k *Kernel) ParseTop(tag rule.Tag, rd *reader.Reader) (*cst.Node, error) {
	node, err := k.MatchStream(tag, rd)
	if err == nil {
		return node, nil
	}
	if !ferrors.IsNoMatch(err) {
		return nil, err
	}

	pos := k.deepestPos
	if pos == 0 {
		pos = rd.Farthest()
	}
	item := rd.ItemAt(pos)
	hint := string(k.deepestRule)

	fragment := item.FirstPhysicalLine
	line := item.Line
	if line == 0 {
		line = 1
	}
	return nil, ferrors.NewSyntaxError(rd.File(), line, 0, len(fragment), fragment, hint)
}
