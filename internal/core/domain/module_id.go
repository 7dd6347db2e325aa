package domain

import (
	"path/filepath"
	"sort"
	"strings"
)

// ModuleID is the dotted-path identity a project file is addressed by in the
// module cache, e.g. "pkg.sub.mod". Derivation is a pure function of the
// file's location relative to the project root.
type ModuleID string

// String returns the dotted identity.
func (id ModuleID) String() string { return string(id) }

// ModuleIDFor derives the logical module identity for an absolute file path
// relative to the project root. It reports false for paths outside the root
// or paths that do not carry an identity (the initializer sitting directly in
// the root maps to the empty identity).
func ModuleIDFor(root, path string, profile Profile) (ModuleID, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}

	if filepath.Base(rel) == profile.Initializer {
		// A package initializer is addressed by its directory.
		rel = filepath.Dir(rel)
		if rel == "." {
			return "", false
		}
	} else {
		rel = strings.TrimSuffix(rel, profile.Extension)
	}

	id := strings.ReplaceAll(rel, string(filepath.Separator), ".")
	if id == "" {
		return "", false
	}
	return ModuleID(id), true
}

// EntryID returns the top-level identity of an entry file: its bare stem.
// When the project root is the entry file's own directory this coincides with
// ModuleIDFor, but the two are kept distinct because the cache may hold the
// entry under its stem regardless of package nesting.
func EntryID(path string, profile Profile) ModuleID {
	base := filepath.Base(path)
	return ModuleID(strings.TrimSuffix(base, profile.Extension))
}

// PathDepth counts the path components of an absolute path. Used to order
// evictions so that more deeply nested modules go before their ancestors.
func PathDepth(path string) int {
	clean := filepath.Clean(path)
	return len(strings.Split(clean, string(filepath.Separator)))
}

// SortDeepestFirst orders paths by descending depth, breaking ties
// lexicographically so eviction order is deterministic.
func SortDeepestFirst(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		di, dj := PathDepth(paths[i]), PathDepth(paths[j])
		if di != dj {
			return di > dj
		}
		return paths[i] < paths[j]
	})
}
