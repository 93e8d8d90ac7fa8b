package fmecadb

import (
	"errors"
	"fmt"
)

// ParentPrevious is the parent sentinel that resolves to the id of the
// record declared immediately before the one carrying it.
const ParentPrevious = ".."

var (
	// ErrEmptyDatabase indicates a database with no records.
	ErrEmptyDatabase = errors.New("database has no records")

	// ErrDuplicateID indicates two records sharing one id.
	ErrDuplicateID = errors.New("duplicate record id")
)

// Record is one failure-mode entry. Parent names another record's id, is
// empty for roots, or is the ".." sentinel for "the previous record".
// Terminal marks the record as eligible for a synthesized sink node.
type Record struct {
	ID       string `yaml:"id"`
	Parent   string `yaml:"parent,omitempty"`
	Terminal bool   `yaml:"terminal,omitempty"`
}

// Database is an ordered, immutable collection of records. The zero value
// is not usable; construct one with New.
type Database struct {
	records []Record
	index   map[string]int
}

// New builds a database from records in declaration order. It fails on an
// empty record list, an empty id, a duplicate id, or a leading ".." parent
// reference with no previous record to resolve to.
func New(records ...Record) (*Database, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDatabase
	}

	index := make(map[string]int, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("record %d has an empty id", i)
		}
		if prev, ok := index[r.ID]; ok {
			return nil, fmt.Errorf("%w: %q declared at positions %d and %d", ErrDuplicateID, r.ID, prev, i)
		}
		if r.Parent == ParentPrevious && i == 0 {
			return nil, fmt.Errorf("record %q: %q parent has no previous record", r.ID, ParentPrevious)
		}
		index[r.ID] = i
	}

	db := &Database{
		records: make([]Record, len(records)),
		index:   index,
	}
	copy(db.records, records)
	return db, nil
}

// Len returns the number of records.
func (db *Database) Len() int {
	if db == nil {
		return 0
	}
	return len(db.records)
}

// IDs returns all record ids in declaration order.
func (db *Database) IDs() []string {
	ids := make([]string, len(db.records))
	for i, r := range db.records {
		ids[i] = r.ID
	}
	return ids
}

// Records returns a copy of all records in declaration order.
func (db *Database) Records() []Record {
	out := make([]Record, len(db.records))
	copy(out, db.records)
	return out
}

// Record returns the record with the given id.
func (db *Database) Record(id string) (Record, bool) {
	i, ok := db.index[id]
	if !ok {
		return Record{}, false
	}
	return db.records[i], true
}

// IndexOf returns the declaration position of id.
func (db *Database) IndexOf(id string) (int, bool) {
	i, ok := db.index[id]
	return i, ok
}

// ParentRefs returns one parent id per record in declaration order, with
// the ".." sentinel resolved to the previous record's id. Roots are empty
// strings.
func (db *Database) ParentRefs() []string {
	refs := make([]string, len(db.records))
	for i, r := range db.records {
		if r.Parent == ParentPrevious {
			refs[i] = db.records[i-1].ID
			continue
		}
		refs[i] = r.Parent
	}
	return refs
}

// IsTerminal reports whether the record with the given id exists and is
// flagged terminal.
func (db *Database) IsTerminal(id string) bool {
	i, ok := db.index[id]
	return ok && db.records[i].Terminal
}

// TerminalIDs returns the ids of all terminal-flagged records in
// declaration order.
func (db *Database) TerminalIDs() []string {
	var ids []string
	for _, r := range db.records {
		if r.Terminal {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
