package rules2003

import (
	"github.com/dekarrin/gofortran/match"
	"github.com/dekarrin/gofortran/rule"
)

// Tags for the R422-R426 Derived_Type_Def family. Only a representative
// subset of the family is modeled: a type declaration statement's CONTAINS
// part, type-bound procedures, and PRIVATE statements are out of scope; see
// DESIGN.md, "Rule coverage."
const (
	TagDerivedTypeDef       rule.Tag = "Derived_Type_Def"
	TagDerivedTypeStmt      rule.Tag = "Derived_Type_Stmt"
	TagEndTypeStmt          rule.Tag = "End_Type_Stmt"
	TagTypeAttrSpec         rule.Tag = "Type_Attr_Spec"
	TagComponentDefStmt     rule.Tag = "Component_Def_Stmt"
	TagComponentDecl        rule.Tag = "Component_Decl"
	TagComponentAttrSpec    rule.Tag = "Component_Attr_Spec"
)

func installDerivedType(reg *rule.Registry, k *match.Kernel) {
	// R426 Type_Attr_Spec: EXTENDS(name), ABSTRACT, or a fixed access spec.
	// C424 (a derived type with EXTENDS must name a type that itself
	// permits extension) is a semantic constraint outside the CST's scope
	// and is not checked here; constraint enforcement of this kind belongs
	// to a later phase than CST construction.
	reg.Register(TagTypeAttrSpec, rule.Descriptor{Human: "type attr spec (R426)", Kind: rule.KindCustom})
	k.RegisterString(TagTypeAttrSpec, matchTypeAttrSpec)
	match.GenerateList(reg, k, TagTypeAttrSpec, ",")

	reg.Register(TagDerivedTypeStmt, rule.Descriptor{
		Human: "derived type statement (R422)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagTypeAttrSpec, TagName},
	})
	k.RegisterStream(TagDerivedTypeStmt, matchDerivedTypeStmt)

	reg.Register(TagEndTypeStmt, rule.Descriptor{
		Human: "end type statement",
		Kind:  rule.KindEndStatement,
	})
	k.RegisterStream(TagEndTypeStmt, matchEndTypeStmt)

	reg.Register(TagComponentAttrSpec, rule.Descriptor{Human: "component attr spec (R440)", Kind: rule.KindTerminal})
	k.RegisterString(TagComponentAttrSpec, matchComponentAttrSpec)

	// Component_Decl's array-spec, char-length, and initialization suffixes
	// are not modeled (representative subset); a component declaration here
	// is just the component's name. See DESIGN.md, "Rule coverage."
	reg.Register(TagComponentDecl, rule.Descriptor{
		Human:        "component decl (R439)",
		Kind:         rule.KindNone,
		Alternatives: []rule.Tag{TagName},
	})
	match.GenerateList(reg, k, TagComponentDecl, ",")

	reg.Register(TagComponentDefStmt, rule.Descriptor{
		Human: "component def statement (R436)",
		Kind:  rule.KindCustom,
		Uses:  []rule.Tag{TagDeclarationTypeSpec, TagComponentAttrSpec, TagComponentDecl},
	})
	k.RegisterStream(TagComponentDefStmt, matchComponentDefStmt)

	reg.Register(TagDerivedTypeDef, rule.Descriptor{
		Human: "derived type definition (R422)",
		Kind:  rule.KindBlock,
		Uses:  []rule.Tag{TagDerivedTypeStmt, TagComponentDefStmt, TagEndTypeStmt},
	})
	k.RegisterStream(TagDerivedTypeDef, matchDerivedTypeDef)
}
