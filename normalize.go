package fmeca

import (
	"math"

	"github.com/hypatiad/FMECAengine/fmecadb"
)

// Normalized is the schema normalizer's output: every overlay validated
// against the database id set and realigned to database declaration order.
// All downstream stages index into these slices by canonical position.
type Normalized struct {
	// IDs is the canonical node id list, in database declaration order.
	IDs []string

	// ParentRefs holds one resolved parent id per node, empty for roots.
	ParentRefs []string

	// Terminal flags the records eligible for virtual sink synthesis.
	Terminal []bool

	// Samples holds each node's raw measurements. A node without caller
	// values carries a single NaN sample.
	Samples [][]float64

	// Weights holds each node's explicit edge weight, defaulted to 1.
	Weights []float64

	// Names holds alternate display names; HasName marks which entries
	// were actually supplied.
	Names   []string
	HasName []bool

	// Placeholders holds label templates; HasPlaceholder marks which
	// entries were actually supplied.
	Placeholders   []string
	HasPlaceholder []bool

	// Annotated lists the annotated ids in database order; Annotations
	// keeps their texts.
	Annotated   []string
	Annotations map[string]string
}

// IndexOf returns the canonical position of id.
func (n *Normalized) IndexOf(id string) (int, bool) {
	for i, candidate := range n.IDs {
		if candidate == id {
			return i, true
		}
	}
	return 0, false
}

// Normalizer aligns caller overlays with the database schema. Overlay maps
// carry no order of their own; the normalizer re-keys everything to the
// database's declaration order so that later stages are independent of how
// the caller built their maps.
type Normalizer interface {
	Normalize(in *Inputs) (*Normalized, error)
}

// defaultNormalizer enforces the overlay key-set rules: values must cover
// the id set exactly when supplied at all, every other overlay must be a
// subset. Violations are collected per overlay and reported once.
type defaultNormalizer struct{}

func (defaultNormalizer) Normalize(in *Inputs) (*Normalized, error) {
	db := in.Database
	ids := db.IDs()
	n := len(ids)

	norm := &Normalized{
		IDs:            ids,
		ParentRefs:     db.ParentRefs(),
		Terminal:       make([]bool, n),
		Samples:        make([][]float64, n),
		Weights:        make([]float64, n),
		Names:          make([]string, n),
		HasName:        make([]bool, n),
		Placeholders:   make([]string, n),
		HasPlaceholder: make([]bool, n),
		Annotations:    make(map[string]string, len(in.Annotations)),
	}
	for i, id := range ids {
		r, _ := db.Record(id)
		norm.Terminal[i] = r.Terminal
	}

	if err := alignValues(in.Values, db, norm); err != nil {
		return nil, err
	}

	if unknown := unknownKeys(in.Weights, db); len(unknown) > 0 {
		return nil, &SchemaError{Overlay: "weights", Unknown: unknown}
	}
	for i, id := range ids {
		norm.Weights[i] = 1
		if w, ok := in.Weights[id]; ok {
			norm.Weights[i] = w
		}
	}

	if unknown := unknownKeys(in.Names, db); len(unknown) > 0 {
		return nil, &SchemaError{Overlay: "names", Unknown: unknown}
	}
	for i, id := range ids {
		if name, ok := in.Names[id]; ok {
			norm.Names[i] = name
			norm.HasName[i] = true
		}
	}

	if unknown := unknownKeys(in.Placeholders, db); len(unknown) > 0 {
		return nil, &SchemaError{Overlay: "placeholders", Unknown: unknown}
	}
	for i, id := range ids {
		if p, ok := in.Placeholders[id]; ok {
			norm.Placeholders[i] = p
			norm.HasPlaceholder[i] = true
		}
	}

	if unknown := unknownKeys(in.Annotations, db); len(unknown) > 0 {
		return nil, &SchemaError{Overlay: "terminals", Unknown: unknown}
	}
	for _, id := range ids {
		if text, ok := in.Annotations[id]; ok {
			norm.Annotated = append(norm.Annotated, id)
			norm.Annotations[id] = text
		}
	}

	return norm, nil
}

// alignValues fills Samples in canonical order. Without a value overlay
// every node gets one NaN sample; with one, the key set must match the id
// set exactly and both missing and unknown keys are enumerated.
func alignValues(values fmecadb.ValueMap, db *fmecadb.Database, norm *Normalized) error {
	if values == nil {
		for i := range norm.Samples {
			norm.Samples[i] = []float64{math.NaN()}
		}
		return nil
	}

	var missing []string
	for _, id := range norm.IDs {
		if _, ok := values[id]; !ok {
			missing = append(missing, id)
		}
	}
	unknown := unknownKeys(values, db)
	if len(missing) > 0 || len(unknown) > 0 {
		return &SchemaError{Overlay: "values", Missing: missing, Unknown: unknown}
	}

	for i, id := range norm.IDs {
		samples := values[id]
		if len(samples) == 0 {
			norm.Samples[i] = []float64{math.NaN()}
			continue
		}
		norm.Samples[i] = append([]float64(nil), samples...)
	}
	return nil
}

// unknownKeys returns the overlay keys with no database record, sorted.
func unknownKeys[V any](m map[string]V, db *fmecadb.Database) []string {
	var unknown []string
	for _, k := range fmecadb.Keys(m) {
		if _, ok := db.IndexOf(k); !ok {
			unknown = append(unknown, k)
		}
	}
	return unknown
}
