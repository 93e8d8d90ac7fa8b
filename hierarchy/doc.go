// Package hierarchy derives parent/child topology from a flat list of
// parent references.
//
// Build consumes an ordered id list and one parent reference per id (empty
// for roots) and produces a Map: an index over the ids, ordered children
// lists, and path enumeration helpers. Children order follows the id list's
// declaration order, so two Build calls over the same inputs always agree.
//
// The topology must be a forest. Build rejects references to unknown ids
// and cyclic parent chains outright; it never repairs a broken topology.
package hierarchy
