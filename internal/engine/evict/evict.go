// Package evict computes which cached modules a set of changed files
// invalidates and removes them from the module cache in dependency-safe
// order.
package evict

import (
	"context"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"go.kern.sh/kern/internal/core/domain"
	"go.kern.sh/kern/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Resolver is the slice of the import graph resolver the invalidator needs.
type Resolver interface {
	Resolve(entry string) domain.FileSet
}

// Cache is the slice of ports.ModuleCache the invalidator needs.
type Cache interface {
	Has(id domain.ModuleID) bool
	Evict(id domain.ModuleID)
}

// Invalidator evicts stale modules so the next import reads fresh source. A
// file's dependents are found by re-resolving each candidate's own closure,
// which trades speed for correctness against files edited mid-cycle.
type Invalidator struct {
	entry    string
	root     string
	profile  domain.Profile
	resolver Resolver
	cache    Cache
	logger   ports.Logger
}

// New creates an Invalidator rooted at the entry file's directory.
func New(entry string, profile domain.Profile, res Resolver, cache Cache, logger ports.Logger) *Invalidator {
	return &Invalidator{
		entry:    entry,
		root:     filepath.Dir(entry),
		profile:  profile,
		resolver: res,
		cache:    cache,
		logger:   logger,
	}
}

// Invalidate evicts every cached module affected by the dirty files and
// returns the evicted identities. Deeper modules are evicted before their
// ancestors so package initializers never outlive their members. An empty
// dirty set evicts nothing.
func (inv *Invalidator) Invalidate(ctx context.Context, dirty []string) ([]domain.ModuleID, error) {
	if len(dirty) == 0 {
		return nil, nil
	}

	universe := inv.resolver.Resolve(inv.entry)
	affected := inv.collectDependents(ctx, dirty, universe)

	domain.SortDeepestFirst(affected)

	var evicted []domain.ModuleID
	for _, path := range affected {
		if err := ctx.Err(); err != nil {
			return evicted, err
		}

		if id, ok := domain.ModuleIDFor(inv.root, path, inv.profile); ok {
			if inv.cache.Has(id) {
				inv.cache.Evict(id)
				inv.logger.Info("evicting " + id.String())
				evicted = append(evicted, id)
			}
		}

		// The entry file may additionally sit in the cache under its bare
		// stem, the identity it was first loaded as.
		if path == inv.entry {
			entryID := domain.EntryID(inv.entry, inv.profile)
			if inv.cache.Has(entryID) {
				inv.cache.Evict(entryID)
				inv.logger.Info("evicting " + entryID.String())
				evicted = append(evicted, entryID)
			}
		}
	}
	return evicted, nil
}

// collectDependents walks the reverse dependency closure of the dirty files
// within the universe. Each candidate's imports are re-resolved on the spot
// rather than read from a cached graph, so edits to the graph itself are
// always observed. Candidates are independent, so one stack round checks
// them concurrently.
func (inv *Invalidator) collectDependents(ctx context.Context, dirty []string, universe domain.FileSet) []string {
	toEvict := domain.NewFileSet()
	stack := make([]string, 0, len(dirty))
	for _, path := range dirty {
		toEvict.Add(path)
		stack = append(stack, path)
	}

	for len(stack) > 0 {
		if ctx.Err() != nil {
			break
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var (
			mu         sync.Mutex
			dependents []string
		)
		g := new(errgroup.Group)
		g.SetLimit(runtime.NumCPU())
		for _, candidate := range universe.Paths() {
			if toEvict.Has(candidate) {
				continue
			}
			g.Go(func() error {
				if inv.resolver.Resolve(candidate).Has(current) {
					mu.Lock()
					dependents = append(dependents, candidate)
					mu.Unlock()
				}
				return nil
			})
		}
		_ = g.Wait()

		sort.Strings(dependents)
		for _, dependent := range dependents {
			toEvict.Add(dependent)
			stack = append(stack, dependent)
		}
	}
	return toEvict.Paths()
}
