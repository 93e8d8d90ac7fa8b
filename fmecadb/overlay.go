package fmecadb

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrInvalidOverlayType indicates an overlay section whose YAML shape does
// not match the expected mapping of node ids, or a sample that is not
// numeric.
var ErrInvalidOverlayType = errors.New("invalid overlay type")

// Samples holds the raw measurements recorded for one node. In YAML a bare
// scalar decodes as a single-element list.
type Samples []float64

// UnmarshalYAML accepts either a numeric scalar or a sequence of numerics.
func (s *Samples) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := value.Decode(&f); err != nil {
			return fmt.Errorf("%w: sample must be numeric, got %q", ErrInvalidOverlayType, value.Value)
		}
		*s = Samples{f}
		return nil
	case yaml.SequenceNode:
		var fs []float64
		if err := value.Decode(&fs); err != nil {
			return fmt.Errorf("%w: samples must be numeric", ErrInvalidOverlayType)
		}
		*s = Samples(fs)
		return nil
	default:
		return fmt.Errorf("%w: samples must be a number or a list of numbers", ErrInvalidOverlayType)
	}
}

// ValueMap maps node id to raw measurement samples.
type ValueMap map[string]Samples

// WeightMap maps node id to an explicit outgoing edge weight.
type WeightMap map[string]float64

// NameOverlay maps node id to an alternate display name.
type NameOverlay map[string]string

// PlaceholderOverlay maps node id to a placeholder label template.
type PlaceholderOverlay map[string]string

// Annotations maps node id to a terminal annotation text. Every key must
// reference a terminal-flagged record; the compiler enforces this.
type Annotations map[string]string

// UnmarshalYAML rejects non-mapping value sections.
func (m *ValueMap) UnmarshalYAML(value *yaml.Node) error {
	raw, err := decodeOverlay[Samples]("values", value)
	if err != nil {
		return err
	}
	*m = raw
	return nil
}

// UnmarshalYAML rejects non-mapping and non-numeric weight sections.
func (m *WeightMap) UnmarshalYAML(value *yaml.Node) error {
	raw, err := decodeOverlay[float64]("weights", value)
	if err != nil {
		return err
	}
	*m = raw
	return nil
}

// UnmarshalYAML rejects non-mapping name sections.
func (m *NameOverlay) UnmarshalYAML(value *yaml.Node) error {
	raw, err := decodeOverlay[string]("names", value)
	if err != nil {
		return err
	}
	*m = raw
	return nil
}

// UnmarshalYAML rejects non-mapping placeholder sections.
func (m *PlaceholderOverlay) UnmarshalYAML(value *yaml.Node) error {
	raw, err := decodeOverlay[string]("placeholders", value)
	if err != nil {
		return err
	}
	*m = raw
	return nil
}

// UnmarshalYAML rejects non-mapping annotation sections.
func (m *Annotations) UnmarshalYAML(value *yaml.Node) error {
	raw, err := decodeOverlay[string]("terminals", value)
	if err != nil {
		return err
	}
	*m = raw
	return nil
}

// decodeOverlay decodes one overlay section, insisting on a YAML mapping
// keyed by node id.
func decodeOverlay[V any](name string, value *yaml.Node) (map[string]V, error) {
	if value.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s must be a mapping of node ids", ErrInvalidOverlayType, name)
	}
	m := make(map[string]V)
	if err := value.Decode(&m); err != nil {
		if errors.Is(err, ErrInvalidOverlayType) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOverlayType, name, err)
	}
	return m, nil
}

// Keys returns the overlay's node ids in sorted order. Sorting makes error
// listings and logs stable; the compiler re-orders overlays to database
// order itself.
func Keys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
