package fmeca

import "fmt"

// VirtualNode is a synthesized sink node materializing one terminal
// annotation. Virtual nodes carry no reduced value and are never colored.
type VirtualNode struct {
	// ID is the synthesized node id, "VirtualNode1" onward in annotation
	// order.
	ID string

	// Source is the annotated database node feeding this sink.
	Source string

	// Label is the annotation text, used verbatim for both render and copy
	// labels.
	Label string

	// Weight is the inbound edge weight, copied from the source node's
	// resolved weight.
	Weight Weight
}

// TerminalSynthesizer validates terminal annotations against the database
// terminal flags and materializes one virtual sink per annotation.
type TerminalSynthesizer interface {
	Synthesize(norm *Normalized, weights []Weight) ([]VirtualNode, error)
}

// defaultTerminalSynthesizer collects every annotation that references a
// non-terminal node before failing once, so the caller sees the full list
// of offenders. No virtual node is created on failure.
type defaultTerminalSynthesizer struct{}

func (defaultTerminalSynthesizer) Synthesize(norm *Normalized, weights []Weight) ([]VirtualNode, error) {
	var bad []string
	for _, id := range norm.Annotated {
		i, ok := norm.IndexOf(id)
		if !ok || !norm.Terminal[i] {
			bad = append(bad, id)
		}
	}
	if len(bad) > 0 {
		return nil, &AnnotationError{IDs: bad}
	}

	virtuals := make([]VirtualNode, 0, len(norm.Annotated))
	for k, id := range norm.Annotated {
		i, _ := norm.IndexOf(id)
		virtuals = append(virtuals, VirtualNode{
			ID:     fmt.Sprintf("VirtualNode%d", k+1),
			Source: id,
			Label:  norm.Annotations[id],
			Weight: weights[i],
		})
	}
	return virtuals, nil
}
