package marker

import "sort"

// Binding associates a marker identifier with the scene object it drives.
// Bindings are declared as an ordered configuration list; when the registry
// is built, a later binding for the same marker overwrites an earlier one.
type Binding struct {
	MarkerID int
	Target   Target
}

// Registry is the stable mapping from marker identifier to scene target.
// It is the source of truth for which markers exist in a session. The
// registry is owned and mutated only by the coordinator's tick routine, so
// it carries no lock.
type Registry struct {
	targets map[int]Target
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[int]Target)}
}

// Rebuild clears the registry and repopulates it by folding the binding
// list in order: duplicate marker IDs resolve to the later entry, and
// bindings with a nil target are skipped. Rebuilding from the same list is
// idempotent; no stale entries survive.
func (r *Registry) Rebuild(bindings []Binding) {
	r.targets = make(map[int]Target, len(bindings))
	for _, b := range bindings {
		if b.Target == nil {
			continue
		}
		r.targets[b.MarkerID] = b.Target
	}
}

// Lookup returns the target bound to id. A miss is an expected runtime
// condition (a detected marker with no binding), not an error.
func (r *Registry) Lookup(id int) (Target, bool) {
	t, ok := r.targets[id]
	return t, ok
}

// Targets returns every bound target. Order is unspecified.
func (r *Registry) Targets() []Target {
	out := make([]Target, 0, len(r.targets))
	for _, t := range r.targets {
		out = append(out, t)
	}
	return out
}

// Each calls fn for every binding in ascending marker-ID order. The stable
// order keeps persistence and plotting output deterministic.
func (r *Registry) Each(fn func(id int, t Target)) {
	ids := make([]int, 0, len(r.targets))
	for id := range r.targets {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fn(id, r.targets[id])
	}
}

// Len returns the number of bound markers.
func (r *Registry) Len() int {
	return len(r.targets)
}
