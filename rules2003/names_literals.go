package rules2003

import (
	"regexp"
	"strings"

	"github.com/dekarrin/gofortran/cst"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/pattern"
	"github.com/dekarrin/gofortran/rule"
)

// Tags for the terminal and near-terminal rules of R304-R428.
const (
	TagName                       rule.Tag = "Name"
	TagLabel                      rule.Tag = "Label"
	TagConstant                   rule.Tag = "Constant"
	TagLiteralConstant            rule.Tag = "Literal_Constant"
	TagNamedConstant              rule.Tag = "Named_Constant"
	TagIntConstant                rule.Tag = "Int_Constant"
	TagCharConstant                rule.Tag = "Char_Constant"
	TagSignedIntLiteralConstant   rule.Tag = "Signed_Int_Literal_Constant"
	TagIntLiteralConstant         rule.Tag = "Int_Literal_Constant"
	TagDigitString                rule.Tag = "Digit_String"
	TagSignedRealLiteralConstant  rule.Tag = "Signed_Real_Literal_Constant"
	TagRealLiteralConstant        rule.Tag = "Real_Literal_Constant"
	TagLogicalLiteralConstant     rule.Tag = "Logical_Literal_Constant"
	TagBozLiteralConstant         rule.Tag = "Boz_Literal_Constant"
	TagBinaryConstant             rule.Tag = "Binary_Constant"
	TagOctalConstant              rule.Tag = "Octal_Constant"
	TagHexConstant                rule.Tag = "Hex_Constant"
	TagCharLiteralConstant        rule.Tag = "Char_Literal_Constant"
	TagKindParam                  rule.Tag = "Kind_Param"
)

func installNamesAndLiterals(reg *rule.Registry, k *match.Kernel) {
	reg.Register(TagName, rule.Descriptor{Human: "name (R304)", Kind: rule.KindTerminal})
	k.RegisterString(TagName, matchRegexTerminal(TagName, pattern.Name, false))

	reg.Register(TagLabel, rule.Descriptor{Human: "label (R313)", Kind: rule.KindTerminal})
	k.RegisterString(TagLabel, matchRegexTerminal(TagLabel, pattern.Label, false))

	reg.Register(TagKindParam, rule.Descriptor{Human: "kind param", Kind: rule.KindTerminal})
	k.RegisterString(TagKindParam, matchRegexTerminal(TagKindParam, pattern.KindParam, false))

	reg.Register(TagDigitString, rule.Descriptor{Human: "digit string", Kind: rule.KindTerminal})
	k.RegisterString(TagDigitString, matchRegexTerminal(TagDigitString, pattern.DigitString, false))

	reg.Register(TagNamedConstant, rule.Descriptor{Human: "named constant (R307)", Kind: rule.KindNone, Alternatives: []rule.Tag{TagName}})
	reg.Register(TagIntConstant, rule.Descriptor{Human: "int constant (R308)", Kind: rule.KindNone, Alternatives: []rule.Tag{TagIntLiteralConstant, TagNamedConstant}})
	reg.Register(TagCharConstant, rule.Descriptor{Human: "char constant (R309)", Kind: rule.KindNone, Alternatives: []rule.Tag{TagCharLiteralConstant, TagNamedConstant}})

	// R406 Int_Literal_Constant, R405 Signed variant.
	reg.Register(TagIntLiteralConstant, rule.Descriptor{Human: "int literal constant (R406)", Kind: rule.KindNumber})
	k.RegisterString(TagIntLiteralConstant, matchNumberLiteral(TagIntLiteralConstant, pattern.IntLiteralConstant))

	reg.Register(TagSignedIntLiteralConstant, rule.Descriptor{Human: "signed int literal constant (R405)", Kind: rule.KindNumber})
	k.RegisterString(TagSignedIntLiteralConstant, matchNumberLiteral(TagSignedIntLiteralConstant, pattern.SignedIntLiteralConstant))

	// R417 Real_Literal_Constant, R416 Signed variant.
	reg.Register(TagRealLiteralConstant, rule.Descriptor{Human: "real literal constant (R417)", Kind: rule.KindNumber})
	k.RegisterString(TagRealLiteralConstant, matchNumberLiteral(TagRealLiteralConstant, pattern.RealLiteralConstant))

	reg.Register(TagSignedRealLiteralConstant, rule.Descriptor{Human: "signed real literal constant (R416)", Kind: rule.KindNumber})
	k.RegisterString(TagSignedRealLiteralConstant, matchNumberLiteral(TagSignedRealLiteralConstant, pattern.SignedRealLiteralConstant))

	// R428 Logical_Literal_Constant.
	reg.Register(TagLogicalLiteralConstant, rule.Descriptor{Human: "logical literal constant (R428)", Kind: rule.KindNumber})
	k.RegisterString(TagLogicalLiteralConstant, matchNumberLiteral(TagLogicalLiteralConstant, pattern.LogicalLiteralConstant))

	// R411-414 Boz_Literal_Constant and its three surface forms.
	reg.Register(TagBinaryConstant, rule.Descriptor{Human: "binary constant (R412)", Kind: rule.KindTerminal})
	k.RegisterString(TagBinaryConstant, matchRegexTerminal(TagBinaryConstant, pattern.BinaryConstant, true))
	reg.Register(TagOctalConstant, rule.Descriptor{Human: "octal constant (R413)", Kind: rule.KindTerminal})
	k.RegisterString(TagOctalConstant, matchRegexTerminal(TagOctalConstant, pattern.OctalConstant, true))
	reg.Register(TagHexConstant, rule.Descriptor{Human: "hex constant (R414)", Kind: rule.KindTerminal})
	k.RegisterString(TagHexConstant, matchRegexTerminal(TagHexConstant, pattern.HexConstant, true))
	reg.Register(TagBozLiteralConstant, rule.Descriptor{
		Human:        "BOZ literal constant (R411)",
		Kind:         rule.KindNone,
		Alternatives: []rule.Tag{TagBinaryConstant, TagOctalConstant, TagHexConstant},
	})

	// R427 Char_Literal_Constant, including the non-default-kind prefix
	// form; the prefixed alternative is tried first per the Python
	// source's ordering (see SPEC_FULL.md "Supplemented features").
	reg.Register(TagCharLiteralConstant, rule.Descriptor{Human: "char literal constant (R427)", Kind: rule.KindNumber})
	k.RegisterString(TagCharLiteralConstant, matchCharLiteralConstant)

	reg.Register(TagConstant, rule.Descriptor{
		Human:        "constant (R305)",
		Kind:         rule.KindNone,
		Alternatives: []rule.Tag{TagLiteralConstant, TagNamedConstant},
	})
	reg.Register(TagLiteralConstant, rule.Descriptor{
		Human: "literal constant (R306)",
		Kind:  rule.KindNone,
		Alternatives: []rule.Tag{
			TagRealLiteralConstant, TagIntLiteralConstant, TagLogicalLiteralConstant,
			TagCharLiteralConstant, TagBozLiteralConstant,
		},
	})
}

// matchRegexTerminal builds a string-level KindTerminal matcher from an
// anchored regex, passing wholeTokenOnly through to leadingToken.
// Normalizing keyword-shaped terminals is not done here; callers needing uppercase normalization wrap
// this separately (Name/Label preserve case as lexed, per specification's
// "leaf strings preserve original capitalization for identifiers").
func matchRegexTerminal(tag rule.Tag, anchored *regexp.Regexp, wholeTokenOnly bool) match.StringFn {
	return func(k *match.Kernel, s string) (*cst.Node, string, error) {
		trimmed := strings.TrimLeft(s, " \t")
		text, rest, ok := leadingToken(trimmed, anchored, wholeTokenOnly)
		if !ok {
			return nil, s, ferrors.NewNoMatch(string(tag))
		}
		return cst.New(tag, rule.KindTerminal, cst.LeafItem(text)), rest, nil
	}
}

// leadingToken extracts the longest prefix of s accepted by re. Because the
// library's terminal patterns are whole-string anchored (^...$), this walks
// the remaining text from the end to find the longest matching prefix that
// leaves the rest for an enclosing rule to consume. wholeTokenOnly is not
// consulted: names and labels (which pass false) get the same longest-prefix
// walk as every other terminal.
func leadingToken(s string, re *regexp.Regexp, wholeTokenOnly bool) (text, rest string, ok bool) {
	end := len(s)
	for end > 0 {
		candidate := s[:end]
		if m := re.FindString(candidate); m != "" && len(strings.TrimSpace(m)) == len(strings.TrimSpace(candidate)) {
			return strings.TrimSpace(candidate), s[end:], true
		}
		end--
	}
	return "", s, false
}

// leadingComposite is leadingToken's counterpart for a whole-string-anchored
// composite pattern (named capture groups): it shrinks the candidate from
// the end until the full candidate matches re, so a rule like Kind_Selector
// can be matched against the head of a longer remaining statement instead
// of requiring the selector to be the last thing in the string.
func leadingComposite(s string, re *regexp.Regexp) (comp pattern.Composite, rest string, ok bool) {
	end := len(s)
	for end > 0 {
		candidate := s[:end]
		if c, matched := pattern.MatchComposite(re, candidate); matched {
			return c, s[end:], true
		}
		end--
	}
	return pattern.Composite{}, s, false
}

func matchNumberLiteral(tag rule.Tag, re *regexp.Regexp) match.StringFn {
	return func(k *match.Kernel, s string) (*cst.Node, string, error) {
		trimmed := strings.TrimLeft(s, " \t")
		text, rest, ok := leadingToken(trimmed, re, true)
		if !ok {
			return nil, s, ferrors.NewNoMatch(string(tag))
		}
		value, kindParam := splitKindSuffix(text)
		if kindParam == "" {
			return cst.New(tag, rule.KindNumber, cst.LeafItem(value), cst.AbsentItem()), rest, nil
		}
		return cst.New(tag, rule.KindNumber, cst.LeafItem(value), cst.LeafItem(kindParam)), rest, nil
	}
}

// splitKindSuffix splits "123_dp" into ("123", "dp"); an underscore inside
// a logical literal's ".TRUE." form is handled the same way since the
// pattern only allows one underscore-introduced suffix at the end.
func splitKindSuffix(text string) (value, kindParam string) {
	idx := strings.LastIndex(text, "_")
	if idx < 0 {
		return text, ""
	}
	return text[:idx], text[idx+1:]
}

func matchCharLiteralConstant(k *match.Kernel, s string) (*cst.Node, string, error) {
	trimmed := strings.TrimLeft(s, " \t")

	kindParam := ""
	body := trimmed
	if m := pattern.CharLiteralPrefix.FindStringSubmatch(trimmed); m != nil {
		kindParam = m[1]
		body = trimmed[len(m[1])+1:]
	}

	if len(body) == 0 || (body[0] != '\'' && body[0] != '"') {
		return nil, s, ferrors.NewNoMatch(string(TagCharLiteralConstant))
	}
	quote := body[0]
	i := 1
	for i < len(body) {
		if body[i] == quote {
			if i+1 < len(body) && body[i+1] == quote {
				i += 2
				continue
			}
			i++
			break
		}
		i++
	}
	if i > len(body) {
		return nil, s, ferrors.NewNoMatch(string(TagCharLiteralConstant))
	}
	value := body[:i]
	rest := body[i:]

	kindItem := cst.AbsentItem()
	if kindParam != "" {
		kindItem = cst.LeafItem(kindParam)
	}
	return cst.New(TagCharLiteralConstant, rule.KindNumber, cst.LeafItem(value), kindItem), rest, nil
}
