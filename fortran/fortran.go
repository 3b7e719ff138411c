// Package fortran is the public entry point of the grammar engine: a small
// Config struct plus Parse/ParseFile functions that wire the lower-level
// reader/rule/match/rules2003/rules2008 packages together for a caller who
// wants a CST and does not care how the engine is assembled internally.
package fortran

import (
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/reader"
	"github.com/dekarrin/gofortran/rule"
	"github.com/dekarrin/gofortran/rules2003"
	"github.com/dekarrin/gofortran/rules2008"
	"github.com/dekarrin/gofortran/source"
)

// Dialect selects which rule set a parse uses.
type Dialect int

const (
	// F2003 is the base dialect: the full rules2003 rule set, unmodified.
	F2003 Dialect = iota

	// F2008 additionally installs the rules2008 delta over rules2003
	// (submodules, the narrowed do-term-action-stmt of C816), composed by
	// registry substitution rather than a second copy of the base rules.
	F2008
)

// ExtensionSet names the recognized non-standard extensions, all off unless
// explicitly set. Confined to the Config a caller builds per-parse rather
// than a process-wide flag, so extension flags stay reentrant across
// concurrent parses. The flags are carried on Config only: the rule set
// does not consult them, so setting one does not change what a parse
// accepts.
type ExtensionSet struct {
	// XFormat names the bare "X" edit descriptor (no count) in FORMAT
	// statements.
	XFormat bool
	// DollarEdit names the "$" control edit descriptor.
	DollarEdit bool
	// ByteType names BYTE as an intrinsic type name.
	ByteType bool
	// DoubleComplex names "DOUBLE COMPLEX" as an intrinsic type spelling.
	DoubleComplex bool
}

// Config controls one parse. The zero value is the strict-F2003,
// free-form, comments-discarded default.
type Config struct {
	// FixedForm selects fixed-form column rules; the default is free-form.
	FixedForm bool

	// PreserveComments causes comments to be surfaced as sibling nodes of
	// the Program they fall between, instead of being silently discarded.
	PreserveComments bool

	// Dialect selects the F2003 base rule set or the F2008 delta over it.
	Dialect Dialect

	// Extensions records which non-standard extensions the caller asked
	// for. All are off by default; the parse does not read them (see
	// ExtensionSet).
	Extensions ExtensionSet
}

// buildKernel assembles the rule registry and matcher kernel for cfg's
// dialect. The F2003 rules are always installed first into a base
// registry; F2008 mode then layers a delta registry on top and points the
// kernel at it, per rule.NewDelta's "substitution, not duplication"
// contract.
func buildKernel(cfg Config) *match.Kernel {
	base := rule.NewRegistry()
	k := match.NewKernel(base)
	rules2003.Install(base, k)

	if cfg.Dialect == F2008 {
		delta := rule.NewDelta(base)
		rules2008.Install(delta, k)
		k.Rules = delta
	}

	return k
}

func buildReader(src string, cfg Config, file string) *reader.Reader {
	var opts []reader.Option
	if cfg.FixedForm {
		opts = append(opts, reader.FixedForm())
	}
	if cfg.PreserveComments {
		opts = append(opts, reader.PreserveComments())
	}
	if file != "" {
		opts = append(opts, reader.WithFile(file))
	}
	return reader.New(src, opts...)
}

// Parse parses src (already-decoded Fortran source text) per cfg and
// returns the CST rooted at Program. Empty input yields an empty Program
// node, not an error (spec §6: "Empty input is valid and yields an empty
// program").
func Parse(src string, cfg Config) (*cst.Node, error) {
	if strings.TrimSpace(src) == "" {
		return cst.New(rules2003.TagProgram, rule.KindSequence), nil
	}
	k := buildKernel(cfg)
	rd := buildReader(src, cfg, "")
	return k.ParseTop(rules2003.TagProgram, rd)
}

// ParseFile loads the file at path (the one place this package touches the
// out-of-scope physical-reader boundary, via source.Load) and parses it per
// cfg, attaching path to every syntax error this parse can raise.
func ParseFile(path string, cfg Config) (*cst.Node, error) {
	text, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return cst.New(rules2003.TagProgram, rule.KindSequence), nil
	}

	k := buildKernel(cfg)
	rd := buildReader(text, cfg, path)
	return k.ParseTop(rules2003.TagProgram, rd)
}
