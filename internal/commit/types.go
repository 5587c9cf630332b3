package commit

// Type is the kind of a conventional commit (the "feat" in "feat(parser): ...").
// Tokens outside the known set are carried verbatim as custom kinds.
type Type string

const (
	Feature       Type = "feat"
	BugFix        Type = "fix"
	Chore         Type = "chore"
	Revert        Type = "revert"
	Performances  Type = "perf"
	Documentation Type = "docs"
	Style         Type = "style"
	Refactor      Type = "refactor"
	Test          Type = "test"
	Build         Type = "build"
	Ci            Type = "ci"
)

var knownTypes = []Type{
	Feature, BugFix, Chore, Revert, Performances, Documentation,
	Style, Refactor, Test, Build, Ci,
}

// ParseType maps a type token to a Type. It never fails: unknown tokens
// become custom types.
func ParseType(token string) Type {
	return Type(token)
}

// KnownTypes returns the built-in commit types in their conventional order.
func KnownTypes() []Type {
	out := make([]Type, len(knownTypes))
	copy(out, knownTypes)
	return out
}

// IsCustom reports whether t is outside the built-in set.
func (t Type) IsCustom() bool {
	for _, k := range knownTypes {
		if t == k {
			return false
		}
	}
	return true
}

// String returns the type token.
func (t Type) String() string {
	return string(t)
}
