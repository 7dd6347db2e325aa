package domain

// Profile describes the source language conventions the resolver and module
// identity derivation operate on. kern targets Python trees by default but
// the conventions are plain data so a project can override them in kern.yaml.
type Profile struct {
	// Extension is the source file extension, including the leading dot.
	Extension string
	// Initializer is the filename that marks a directory as a package.
	// A file with this name is addressed by its containing directory's
	// module identity.
	Initializer string
}

// DefaultProfile returns the Python conventions.
func DefaultProfile() Profile {
	return Profile{
		Extension:   ".py",
		Initializer: "__init__.py",
	}
}
