package rule

import "fmt"

// Descriptor is the table entry for one rule tag: its subclass alternatives
// (other rule tags to try, in order), the rules it directly constructs
// ("uses", for documentation/tooling purposes), and its own structural
// shape, if it has one.
type Descriptor struct {
	// Human is the rule's human-readable name, used in syntax-error hints.
	Human string

	// Alternatives are other rule tags tried, in declared order, before (or
	// instead of, for KindNone) this rule's own structural shape.
	Alternatives []Tag

	// Uses lists rules this rule constructs directly; informational only,
	// consulted by tooling that walks the grammar (e.g. to detect unused
	// rules), never by the matcher kernel itself.
	Uses []Tag

	// Kind is the structural shape this rule matches with, after its
	// alternatives are exhausted. KindNone means alternatives-only.
	Kind Kind

	// Assoc applies to KindBinaryOp only.
	Assoc Associativity

	// Sep records the rule's declared join text. Rendering does not read
	// it: each node carries its own Sep (see cst.Node), which the matching
	// function sets.
	Sep string

	// Delims applies to KindBracketed only: {left, right}.
	Delims [2]string
}

// Registry is an immutable, read-only table mapping rule tags to their
// descriptors. It is built once at init time (directly, or via NewDelta for
// F2008) and shared across every parse; nothing about it is mutated once
// construction finishes.
type Registry struct {
	entries map[Tag]*Descriptor
	parent  *Registry
}

// NewRegistry returns an empty, mutable-during-construction registry. Callers
// should finish all Register/Generate* calls before handing the Registry to
// a parser; nothing enforces immutability after that point beyond
// convention ("process-wide read-only state, initialized once").
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Tag]*Descriptor)}
}

// Register adds or replaces the descriptor for tag.
func (r *Registry) Register(tag Tag, d Descriptor) {
	cp := d
	r.entries[tag] = &cp
}

// Get returns the descriptor for tag, searching this registry and then (if
// set) its parent. The parent chain is how an F2008 delta composes with the
// F2003 base: overridden tags resolve to the delta's entry, everything else
// falls through to the base, without duplicating the base table.
func (r *Registry) Get(tag Tag) (*Descriptor, bool) {
	if d, ok := r.entries[tag]; ok {
		return d, true
	}
	if r.parent != nil {
		return r.parent.Get(tag)
	}
	return nil, false
}

// MustGet is Get but panics on an unknown tag; used only at registry
// construction time (e.g. by the list/name/scalar generators) where an
// unknown base tag is an engine bug, not a parse-time condition.
func (r *Registry) MustGet(tag Tag) *Descriptor {
	d, ok := r.Get(tag)
	if !ok {
		panic(fmt.Sprintf("rule: unknown tag %q", tag))
	}
	return d
}

// NewDelta returns a new Registry that overrides base with delta's own
// entries. Tags registered directly on the returned registry (or generated
// into it) take precedence; tags absent from it resolve to base. This
// composes the F2008 rule set with F2003 through substitution, not
// duplication.
func NewDelta(base *Registry) *Registry {
	return &Registry{entries: make(map[Tag]*Descriptor), parent: base}
}

// Tags returns every tag registered directly on r (not counting its
// parent), in no particular order. Used by tooling and tests that want to
// sanity-check rule coverage, not by the matcher kernel.
func (r *Registry) Tags() []Tag {
	tags := make([]Tag, 0, len(r.entries))
	for t := range r.entries {
		tags = append(tags, t)
	}
	return tags
}
