package domain

import "sort"

// FileSet is a set of absolute, resolved project file paths. One resolution
// pass produces a FileSet closed under import reachability.
type FileSet map[string]struct{}

// NewFileSet creates a FileSet containing the given paths.
func NewFileSet(paths ...string) FileSet {
	s := make(FileSet, len(paths))
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts a path into the set.
func (s FileSet) Add(path string) { s[path] = struct{}{} }

// Has reports whether the set contains the path.
func (s FileSet) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Len returns the number of paths in the set.
func (s FileSet) Len() int { return len(s) }

// Paths returns the set's contents sorted lexicographically.
func (s FileSet) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
