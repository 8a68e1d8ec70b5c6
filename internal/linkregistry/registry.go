// Package linkregistry tracks which link targets have already been rendered
// as links during a single page render. The first reference to a target wins;
// later references are rendered as plain text. Targets can be partitioned into
// independent groups so that the same target may be linked once per group.
package linkregistry

// Registry is the per-render-session membership store. It is owned by exactly
// one render session and is never shared between sessions; a new render starts
// from Reset (or a fresh Registry) and the instance is discarded afterwards.
//
// Registry is not safe for concurrent use. A page render is a single
// sequential pass over its directives, so no locking is needed.
type Registry struct {
	uncategorized *seenSet
	categorized   map[string]*seenSet
}

// seenSet is a string set that preserves insertion order for deterministic
// iteration in Targets.
type seenSet struct {
	members map[string]struct{}
	order   []string
}

func newSeenSet() *seenSet {
	return &seenSet{members: make(map[string]struct{})}
}

func (s *seenSet) has(v string) bool {
	_, ok := s.members[v]
	return ok
}

func (s *seenSet) add(v string) {
	if s.has(v) {
		return
	}
	s.members[v] = struct{}{}
	s.order = append(s.order, v)
}

// New returns an empty Registry.
func New() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Reset discards all recorded state. Any membership from a previous render is
// gone; namespaces are recreated lazily on first insert.
func (r *Registry) Reset() {
	r.uncategorized = newSeenSet()
	r.categorized = make(map[string]*seenSet)
}

// IsLinked reports whether target has already been recorded under category.
// The empty category selects the uncategorized namespace. A category with no
// recorded entries yields false. Pure query, no side effects.
func (r *Registry) IsLinked(target, category string) bool {
	if category == "" {
		return r.uncategorized.has(target)
	}
	set, ok := r.categorized[category]
	return ok && set.has(target)
}

// MarkLinked records target under category, creating the category namespace
// if needed. Marking an already-marked target is a no-op; membership is
// checked, not counted.
func (r *Registry) MarkLinked(target, category string) {
	if category == "" {
		r.uncategorized.add(target)
		return
	}
	set, ok := r.categorized[category]
	if !ok {
		set = newSeenSet()
		r.categorized[category] = set
	}
	set.add(target)
}

// ResolveLink decides how a link directive for target should render.
//
// An empty target produces ok=false: the directive emits nothing and no state
// changes. Otherwise text defaults to target when empty. If the target was
// already recorded under category, the result is (false, text, true): render
// plain text, no mutation. On first encounter the target is recorded and the
// result is (true, text, true): render a link.
func (r *Registry) ResolveLink(target, text, category string) (shouldLink bool, out string, ok bool) {
	if target == "" {
		return false, "", false
	}
	if text == "" {
		text = target
	}
	if r.IsLinked(target, category) {
		return false, text, true
	}
	r.MarkLinked(target, category)
	return true, text, true
}

// ConditionalBranch returns thenBranch if target is non-empty and already
// recorded under category, elseBranch otherwise. thenBranch defaults to the
// literal "1", elseBranch to the empty string. Unlike ResolveLink this never
// mutates the registry.
func (r *Registry) ConditionalBranch(target, category, thenBranch, elseBranch string) string {
	if thenBranch == "" {
		thenBranch = "1"
	}
	if target != "" && r.IsLinked(target, category) {
		return thenBranch
	}
	return elseBranch
}

// Targets returns the recorded targets for category in insertion order.
// Used for per-page link reports and deterministic inspection in tests.
func (r *Registry) Targets(category string) []string {
	if category == "" {
		return append([]string(nil), r.uncategorized.order...)
	}
	set, ok := r.categorized[category]
	if !ok {
		return nil
	}
	return append([]string(nil), set.order...)
}

// Categories returns the names of all category namespaces that have at least
// one recorded target. The uncategorized namespace is not included.
func (r *Registry) Categories() []string {
	names := make([]string, 0, len(r.categorized))
	for name := range r.categorized {
		names = append(names, name)
	}
	return names
}

// Len returns the total number of recorded targets across all namespaces.
func (r *Registry) Len() int {
	n := len(r.uncategorized.order)
	for _, set := range r.categorized {
		n += len(set.order)
	}
	return n
}
