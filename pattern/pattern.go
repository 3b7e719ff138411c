// Package pattern holds the compiled regular-expression fragments for every
// Fortran terminal (names, labels, literal constants, operators, keywords)
// and a handful of composite patterns built from them. The library is
// process-wide read-only state, initialized once at package init.
package pattern

import "regexp"

// anchored compiles pattern wrapped so Match requires the whole input (after
// surrounding whitespace) to match; every terminal pattern in this package
// is anchored this way.
func anchored(p string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*(?:` + p + `)\s*$`)
}

// leading compiles a pattern anchored only at the start of input, used when
// the caller wants to know how much of a longer string the terminal
// consumes (e.g. a Digit_String at the head of a Kind_Selector's `*8` form).
func leading(p string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + p + `)`)
}

const (
	reLetter    = `[A-Za-z]`
	reAlnumUS   = `[A-Za-z0-9_]`
	reName      = reLetter + reAlnumUS + `*`
	reDigits    = `[0-9]+`
	reSign      = `[+-]`
	reKindParam = reDigits + `|` + reName
)

var (
	// Name matches R304 Name: a letter followed by alphanumerics/underscore.
	Name = anchored(reName)

	// NameLeading is Name anchored only on the left, used by the split-line
	// helper and statement classifiers that need to know where a name ends.
	NameLeading = leading(reName)

	// Label matches R313 Label: one to five digits.
	Label = anchored(`[0-9]{1,5}`)

	// LabelLeading finds a label at the very start of a line, for the
	// reader's label-stripping pass.
	LabelLeading = regexp.MustCompile(`^[ \t]*([0-9]{1,5})[ \t]+`)

	// ConstructNameLeading matches a leading `name:` construct-name prefix.
	ConstructNameLeading = regexp.MustCompile(`^[ \t]*(` + reName + `)[ \t]*:[ \t]*(?:[^:]|$)`)

	// DigitString matches R??? digit-string, used by Int_Literal_Constant,
	// Signed_Int_Literal_Constant, and Kind_Selector's `*8` form.
	DigitString = anchored(reDigits)

	// KindParam matches a Kind_Param: either a digit string or a scalar-int
	// named constant.
	KindParam = anchored(`(?:` + reKindParam + `)`)

	// SignedIntLiteralConstant matches R405.
	SignedIntLiteralConstant = anchored(reSign + `?` + reDigits + `(?:_(?:` + reKindParam + `))?`)

	// IntLiteralConstant matches R406 (unsigned).
	IntLiteralConstant = anchored(reDigits + `(?:_(?:` + reKindParam + `))?`)

	// realSignificand is the digit-string.[digit-string] or
	// .digit-string core of a real literal constant, shared by Real and
	// Signed_Real literal patterns.
	realSignificand = `(?:` + reDigits + `\.(?:` + reDigits + `)?|\.` + reDigits + `)`
	realExponent     = `(?:[EeDd]` + reSign + `?` + reDigits + `)`

	// RealLiteralConstant matches R417 (unsigned, with optional exponent
	// letter E/D for double precision and optional kind suffix).
	RealLiteralConstant = anchored(`(?:` + realSignificand + realExponent + `?|` + reDigits + realExponent + `)(?:_(?:` + reKindParam + `))?`)

	// SignedRealLiteralConstant matches R416.
	SignedRealLiteralConstant = anchored(reSign + `?(?:` + realSignificand + realExponent + `?|` + reDigits + realExponent + `)(?:_(?:` + reKindParam + `))?`)

	// LogicalLiteralConstant matches R428.
	LogicalLiteralConstant = anchored(`\.(?i:TRUE|FALSE)\.(?:_(?:` + reKindParam + `))?`)

	// BinaryConstant, OctalConstant and HexConstant match R411's
	// binary/octal/hex constant forms.
	BinaryConstant = anchored(`[Bb]'[01]+'|[Bb]"[01]+"`)
	OctalConstant  = anchored(`[Oo]'[0-7]+'|[Oo]"[0-7]+"`)
	HexConstant    = anchored(`[Zz]'[0-9A-Fa-f]+'|[Zz]"[0-9A-Fa-f]+"`)

	// CharLiteralPrefix matches an optional leading kind-param before a
	// character literal's underscore, e.g. `nondefaultchar_` in
	// `nondefaultchar_"hello"`. Tried before the bare-string form per the
	// source's alternative ordering (see SPEC_FULL.md "Supplemented
	// features").
	//
	// Go's regexp package (RE2) has no lookahead, so the trailing quote is
	// consumed by the match rather than merely asserted; callers that need
	// the prefix length use len(m[1])+1 (kind-param plus underscore)
	// instead of len(m[0]).
	CharLiteralPrefix = regexp.MustCompile(`^(` + reKindParam + `)_["']`)

	// IntrinsicTypeName matches R403's fixed set of intrinsic type
	// keywords, case-insensitively.
	IntrinsicTypeName = anchored(`(?i:INTEGER|REAL|DOUBLE\s+PRECISION|COMPLEX|CHARACTER|LOGICAL)`)

	// PowerOp, MultOp, AddOp, ConcatOp, RelOp, NotOp, AndOp, OrOp, EquivOp
	// match the fixed operator sets of R702-R714.
	PowerOp  = anchored(`\*\*`)
	MultOp   = anchored(`[*/]`)
	AddOp    = anchored(reSign)
	ConcatOp = anchored(`//`)
	RelOp    = anchored(`(?i:\.EQ\.|\.NE\.|\.LT\.|\.LE\.|\.GT\.|\.GE\.|==|/=|<=|>=|<|>)`)
	NotOp    = anchored(`(?i:\.NOT\.)`)
	AndOp    = anchored(`(?i:\.AND\.)`)
	OrOp     = anchored(`(?i:\.OR\.)`)
	EquivOp  = anchored(`(?i:\.EQV\.|\.NEQV\.)`)

	// DefinedOperator matches R723 a user-defined `.name.` operator.
	DefinedOperator = anchored(`\.` + reName + `\.`)

	// PercentOp matches the component-selector `%` used by Data_Ref/Part_Ref.
	PercentOp = anchored(`%`)

	// IntentSpec matches R518's fixed set.
	IntentSpec = anchored(`(?i:IN\s+OUT|IN|OUT)`)

	// AttrSpec matches the non-keyword-valued subset of R503 attribute
	// specs that are bare keywords.
	AttrSpec = anchored(`(?i:ALLOCATABLE|ASYNCHRONOUS|EXTERNAL|INTENT|INTRINSIC|OPTIONAL|PARAMETER|POINTER|PRIVATE|PROTECTED|PUBLIC|SAVE|TARGET|VALUE|VOLATILE|DIMENSION|CODIMENSION)`)
)

// Span reports a half-open [Start,End) byte offset pair within a line,
// returned by composite patterns that expose capture groups.
type Span struct {
	Start, End int
}

// Composite holds the result of matching a composite pattern with named
// capture groups (kind_param, value, sign, ...). Unset groups are absent
// (zero value, ok=false from Group).
type Composite struct {
	groups map[string]string
	names  []string
}

// Group returns the named capture group's text and whether it participated
// in the match.
func (c Composite) Group(name string) (string, bool) {
	v, ok := c.groups[name]
	return v, ok && v != ""
}

// MatchComposite runs re (which must have been compiled with named groups)
// against s and returns the populated Composite, or ok=false on no match.
func MatchComposite(re *regexp.Regexp, s string) (Composite, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return Composite{}, false
	}
	names := re.SubexpNames()
	c := Composite{groups: make(map[string]string, len(names))}
	for i, name := range names {
		if name == "" {
			continue
		}
		c.groups[name] = m[i]
		c.names = append(c.names, name)
	}
	return c, true
}

// KindSelectorForm matches all three accepted surface forms of R404
// Kind_Selector: `(KIND=8)`, `(8)`, `*8`.
var KindSelectorForm = regexp.MustCompile(
	`^\s*(?:\(\s*(?:KIND\s*=\s*)?(?P<paren_value>` + reKindParam + `)\s*\)|\*\s*(?P<star_value>` + reKindParam + `))\s*$`,
)
