package fmeca

import (
	"fmt"
	"strconv"
)

// Labels is the label encoder's output: parallel render and copy label
// sets over the full node list (primaries first), the position side-table
// consumed by copy passes, and the index width actually used.
type Labels struct {
	// Render holds the labels shown on the live rendering.
	Render []string

	// Copy holds the labels substituted on static copies.
	Copy []string

	// CopyTable maps 1-based node position to copy label.
	CopyTable map[int]string

	// IndexWidth is the resolved digit count of encoded position prefixes.
	IndexWidth int
}

// LabelEncoder produces the two label sets. Placeholder labels embed the
// node's 1-based position so a copy pass can match copied text elements
// back to nodes; the CopyTable side-table serves the same purpose without
// string parsing and is the preferred channel when the renderer can carry
// it.
type LabelEncoder interface {
	Encode(in *Inputs, norm *Normalized, virtuals []VirtualNode) (*Labels, error)
}

type defaultLabelEncoder struct{}

func (defaultLabelEncoder) Encode(in *Inputs, norm *Normalized, virtuals []VirtualNode) (*Labels, error) {
	rules := in.Labels
	n := len(norm.IDs)

	width := rules.IndexWidth
	if width == 0 {
		width = len(strconv.Itoa(n))
		if width < 2 {
			width = 2
		}
	} else if len(strconv.Itoa(n)) > width {
		return nil, fmt.Errorf("index width %d cannot encode positions up to %d", width, n)
	}

	labels := &Labels{
		Render:     make([]string, 0, n+len(virtuals)),
		Copy:       make([]string, 0, n+len(virtuals)),
		CopyTable:  make(map[int]string, n+len(virtuals)),
		IndexWidth: width,
	}

	for i, id := range norm.IDs {
		var render, copyLabel string
		switch {
		case norm.HasPlaceholder[i]:
			render = encodePlaceholder(norm.Placeholders[i], i+1, width, rules.Filler, rules.MinLength)
			copyLabel = id
			if norm.HasName[i] {
				copyLabel = norm.Names[i]
			}
		case norm.HasName[i]:
			render = norm.Names[i]
			copyLabel = norm.Names[i]
		default:
			render = id
			copyLabel = id
		}
		labels.Render = append(labels.Render, render)
		labels.Copy = append(labels.Copy, copyLabel)
		labels.CopyTable[i+1] = copyLabel
	}

	for k, v := range virtuals {
		labels.Render = append(labels.Render, v.Label)
		labels.Copy = append(labels.Copy, v.Label)
		labels.CopyTable[n+k+1] = v.Label
	}

	return labels, nil
}

// encodePlaceholder pads text on the right with filler to at least minLen,
// then overwrites the head with the zero-padded 1-based position. The
// result always starts with width digits followed by the remainder of the
// padded text.
func encodePlaceholder(text string, pos, width int, filler byte, minLen int) string {
	b := []byte(text)
	for len(b) < minLen {
		b = append(b, filler)
	}
	prefix := fmt.Sprintf("%0*d", width, pos)
	for len(b) < len(prefix) {
		b = append(b, filler)
	}
	copy(b, prefix)
	return string(b)
}

// DecodeRenderLabel recovers the 1-based node position embedded in a
// placeholder-encoded render label. With a positive IndexWidth the decoder
// reads exactly that many leading digits; with zero it reads the leading
// digit run. The second return value is false when the label carries no
// position.
func DecodeRenderLabel(label string, rules LabelRules) (int, bool) {
	head := label
	if rules.IndexWidth > 0 {
		if len(label) < rules.IndexWidth {
			return 0, false
		}
		head = label[:rules.IndexWidth]
	} else {
		j := 0
		for j < len(label) && isDigit(label[j]) {
			j++
		}
		head = label[:j]
	}

	if head == "" {
		return 0, false
	}
	for j := 0; j < len(head); j++ {
		if !isDigit(head[j]) {
			return 0, false
		}
	}

	pos, err := strconv.Atoi(head)
	if err != nil || pos < 1 {
		return 0, false
	}
	return pos, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
