package rule

// GenerateList synthesizes the companion rule for every `X_List` referenced
// elsewhere in the grammar: `X [sep X]*` with the given separator (`,` for
// almost everything, `%` for Data_Ref). It is generated at table-
// construction time rather than via source-level metaprogramming, per the
// design notes, and returns the new tag so callers can reference it from
// their own Alternatives/Uses lists.
func GenerateList(reg *Registry, base Tag, sep string) Tag {
	listTag := base + "_List"
	reg.Register(listTag, Descriptor{
		Human: string(base) + " list",
		Kind:  KindSequence,
		Sep:   sep,
		Uses:  []Tag{base},
	})
	return listTag
}

// GenerateName synthesizes `X_Name`, a purely documentary wrapper for a bare
// identifier that reuses the Name production's grammar unchanged.
func GenerateName(reg *Registry, base Tag) Tag {
	nameTag := base + "_Name"
	reg.Register(nameTag, Descriptor{
		Human:        string(base) + " name",
		Kind:         KindNone,
		Alternatives: []Tag{"Name"},
	})
	return nameTag
}

// GenerateScalar synthesizes `Scalar_X`, a purely documentary wrapper
// indicating X is used in a scalar-only context. Its grammar is identical to
// X's.
func GenerateScalar(reg *Registry, base Tag) Tag {
	scalarTag := "Scalar_" + base
	reg.Register(scalarTag, Descriptor{
		Human:        "scalar " + string(base),
		Kind:         KindNone,
		Alternatives: []Tag{base},
	})
	return scalarTag
}
