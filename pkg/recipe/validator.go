package recipe

// PackageIndex answers whether a package is known to the surrounding
// package repository. Implementations must be safe for concurrent use and
// must not block.
type PackageIndex interface {
	Exists(name string) bool
}

// PackageIndexFunc adapts a function to PackageIndex.
type PackageIndexFunc func(name string) bool

// Exists implements PackageIndex.
func (f PackageIndexFunc) Exists(name string) bool {
	return f(name)
}

// emptyIndex knows no packages.
type emptyIndex struct{}

func (emptyIndex) Exists(string) bool { return false }

// ValidatorInput is passed to a variant validator for each candidate value.
type ValidatorInput struct {
	// Value is the candidate value, normalised for boolean variants.
	Value string
	// Variant is the name of the variant being validated.
	Variant string
	// Requested is the full selection the caller asked for.
	Requested Selection
	// Index is the package index injected into the resolution.
	Index PackageIndex
}

// Verdict is a validator decision.
type Verdict struct {
	Accept bool
	Reason string
	// Unavailable distinguishes "not available in this environment" from
	// a plain rejection of the value.
	Unavailable bool
}

// ValidatorFunc decides whether a requested variant value is acceptable.
// Validators must be pure apart from reads through the PackageIndex.
type ValidatorFunc func(in ValidatorInput) Verdict

// Accept returns an accepting verdict.
func Accept() Verdict {
	return Verdict{Accept: true}
}

// Reject returns a verdict refusing the value by choice.
func Reject(reason string) Verdict {
	return Verdict{Reason: reason}
}

// Unavailable returns a verdict refusing the value because a required
// component is missing from the environment.
func Unavailable(reason string) Verdict {
	return Verdict{Reason: reason, Unavailable: true}
}
