package hierarchy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycle indicates a cyclic parent chain.
	ErrCycle = errors.New("cyclic parent reference")

	// ErrUnknownParent indicates a parent reference to an id that is not in
	// the id list.
	ErrUnknownParent = errors.New("unknown parent reference")
)

// Map is the derived topology: an id index, ordered children lists and
// resolved parent links. Construct one with Build.
type Map struct {
	ids      []string
	index    map[string]int
	parents  []string
	children map[string][]string
}

// Build derives the topology for ids, where parentRefs[i] names the parent
// of ids[i] and an empty string marks a root. It fails when the two slices
// disagree in length, an id repeats, a parent reference names an unknown
// id, or the parent chain contains a cycle.
func Build(ids []string, parentRefs []string) (*Map, error) {
	if len(ids) != len(parentRefs) {
		return nil, fmt.Errorf("got %d ids but %d parent references", len(ids), len(parentRefs))
	}

	index := make(map[string]int, len(ids))
	for i, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("id at position %d is empty", i)
		}
		if _, ok := index[id]; ok {
			return nil, fmt.Errorf("duplicate id %q", id)
		}
		index[id] = i
	}

	children := make(map[string][]string, len(ids))
	for i, ref := range parentRefs {
		if ref == "" {
			continue
		}
		if _, ok := index[ref]; !ok {
			return nil, fmt.Errorf("%w: node %q references %q", ErrUnknownParent, ids[i], ref)
		}
		children[ref] = append(children[ref], ids[i])
	}

	m := &Map{
		ids:      append([]string(nil), ids...),
		index:    index,
		parents:  append([]string(nil), parentRefs...),
		children: children,
	}
	if err := m.checkAcyclic(); err != nil {
		return nil, err
	}
	return m, nil
}

// checkAcyclic runs a depth-first search over parent links with the classic
// temporary/permanent marking scheme. A node found in the temporary set is
// part of a cycle.
func (m *Map) checkAcyclic() error {
	permanent := make(map[string]bool, len(m.ids))
	temporary := make(map[string]bool)

	var visit func(id string, trail []string) error
	visit = func(id string, trail []string) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			return fmt.Errorf("%w: %s", ErrCycle, strings.Join(append(trail, id), " -> "))
		}
		temporary[id] = true
		if p := m.parents[m.index[id]]; p != "" {
			if err := visit(p, append(trail, id)); err != nil {
				return err
			}
		}
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for _, id := range m.ids {
		if err := visit(id, nil); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of ids.
func (m *Map) Len() int {
	return len(m.ids)
}

// IDs returns all ids in declaration order.
func (m *Map) IDs() []string {
	return append([]string(nil), m.ids...)
}

// IndexOf returns the declaration position of id.
func (m *Map) IndexOf(id string) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// Children returns the ids whose parent is id, in declaration order.
func (m *Map) Children(id string) []string {
	return append([]string(nil), m.children[id]...)
}

// Parent returns the parent of id. The second return value is false for
// roots and unknown ids.
func (m *Map) Parent(id string) (string, bool) {
	i, ok := m.index[id]
	if !ok || m.parents[i] == "" {
		return "", false
	}
	return m.parents[i], true
}

// Roots returns the ids with no parent, in declaration order.
func (m *Map) Roots() []string {
	var roots []string
	for i, id := range m.ids {
		if m.parents[i] == "" {
			roots = append(roots, id)
		}
	}
	return roots
}

// Leaves returns the ids with no children, in declaration order.
func (m *Map) Leaves() []string {
	var leaves []string
	for _, id := range m.ids {
		if len(m.children[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// Path returns the root-to-id chain, ending at id. Unknown ids yield nil.
func (m *Map) Path(id string) []string {
	i, ok := m.index[id]
	if !ok {
		return nil
	}
	var rev []string
	for {
		rev = append(rev, m.ids[i])
		p := m.parents[i]
		if p == "" {
			break
		}
		i = m.index[p]
	}
	for l, r := 0, len(rev)-1; l < r; l, r = l+1, r-1 {
		rev[l], rev[r] = rev[r], rev[l]
	}
	return rev
}

// Paths returns one root-to-leaf path per leaf, in leaf declaration order.
func (m *Map) Paths() [][]string {
	leaves := m.Leaves()
	paths := make([][]string, 0, len(leaves))
	for _, leaf := range leaves {
		paths = append(paths, m.Path(leaf))
	}
	return paths
}
