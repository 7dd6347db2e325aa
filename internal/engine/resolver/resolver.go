// Package resolver statically discovers the file-level import graph of a
// project. It never executes user code; it only reads files from disk.
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"go.kern.sh/kern/internal/core/domain"
)

// Resolver resolves an entry file to the transitive set of project-local
// files it depends on. It is stateless across calls; each Resolve carries its
// own visited set, so import cycles terminate.
type Resolver struct {
	profile domain.Profile
}

// New creates a Resolver for the given language profile.
func New(profile domain.Profile) *Resolver {
	return &Resolver{profile: profile}
}

// Resolve performs a depth-first traversal from the entry file and returns
// every project-local file reachable through import statements. The result
// always contains the entry file, even when the entry (or any dependency)
// cannot be parsed: a malformed file stays in the set as a leaf but is not
// expanded further. Imports that do not correspond to a local file are
// treated as external and ignored.
func (r *Resolver) Resolve(entry string) domain.FileSet {
	entry = normalizePath(entry)
	deps := domain.NewFileSet(entry)
	visited := make(domain.FileSet)
	r.scan(entry, filepath.Dir(entry), deps, visited)
	return deps
}

// scan reads one file, extracts its imports, and recurses into every import
// that resolves to a local file. Unreadable or malformed files end the branch
// without error: the file is already in deps and simply stays a leaf.
func (r *Resolver) scan(path, root string, deps, visited domain.FileSet) {
	if visited.Has(path) {
		return
	}
	visited.Add(path)

	src, err := os.ReadFile(path)
	if err != nil {
		// Soft failure: the file may have vanished or be mid-write.
		return
	}

	stmts, err := scanImports(string(src))
	if err != nil {
		return
	}

	for _, stmt := range stmts {
		for _, resolved := range r.resolveStatement(stmt, path, root) {
			if !deps.Has(resolved) {
				deps.Add(resolved)
				r.scan(resolved, root, deps, visited)
			}
		}
	}
}

// resolveStatement maps one import statement to the local files it refers to.
// A from-import resolves each imported item and additionally the parent
// module itself.
func (r *Resolver) resolveStatement(stmt importStmt, current, root string) []string {
	var found []string

	if !stmt.from {
		if p, ok := r.resolveImport(stmt.module, "", 0, current, root); ok {
			found = append(found, p)
		}
		return found
	}

	for _, item := range stmt.items {
		if p, ok := r.resolveImport(stmt.module, item, stmt.level, current, root); ok {
			found = append(found, p)
		}
	}
	if stmt.module != "" || stmt.level > 0 {
		if p, ok := r.resolveImport(stmt.module, "", stmt.level, current, root); ok {
			found = append(found, p)
		}
	}
	return found
}

// resolveImport maps a single imported name to a local file using a fixed
// candidate order: package member, direct module file, package initializer.
// The first candidate that exists on disk wins; none existing means the
// import is external.
func (r *Resolver) resolveImport(module, item string, level int, current, root string) (string, bool) {
	anchor := root
	if level > 0 {
		anchor = filepath.Dir(current)
		for i := 0; i < level-1; i++ {
			anchor = filepath.Dir(anchor)
		}
	}

	base := strings.ReplaceAll(module, ".", string(filepath.Separator))

	candidates := make([]string, 0, 3)
	if item != "" {
		candidates = append(candidates, filepath.Join(anchor, base, item+r.profile.Extension))
	}
	candidates = append(candidates,
		filepath.Join(anchor, base+r.profile.Extension),
		filepath.Join(anchor, base, r.profile.Initializer),
	)

	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		return normalizePath(c), true
	}
	return "", false
}

// normalizePath resolves a path to absolute, symlink-free form so that set
// membership is plain string equality.
func normalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return filepath.Clean(path)
}
