package fmeca

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypatiad/FMECAengine/fmecadb"
)

func encodeLabels(t *testing.T, in *Inputs, virtuals []VirtualNode) *Labels {
	t.Helper()

	norm, err := defaultNormalizer{}.Normalize(in)
	require.NoError(t, err)

	labels, err := defaultLabelEncoder{}.Encode(in, norm, virtuals)
	require.NoError(t, err)
	return labels
}

func TestEncodeIDLabels(t *testing.T) {
	in := &Inputs{Database: plantDatabase(t), Labels: DefaultLabelRules()}

	labels := encodeLabels(t, in, nil)

	assert.Equal(t, []string{"pump", "seal", "bearing"}, labels.Render)
	assert.Equal(t, []string{"pump", "seal", "bearing"}, labels.Copy)
	assert.Equal(t, map[int]string{1: "pump", 2: "seal", 3: "bearing"}, labels.CopyTable)
	assert.Equal(t, 2, labels.IndexWidth)
}

func TestEncodeNameLabels(t *testing.T) {
	in := &Inputs{
		Database: plantDatabase(t),
		Names:    fmecadb.NameOverlay{"pump": "feed pump"},
		Labels:   DefaultLabelRules(),
	}

	labels := encodeLabels(t, in, nil)

	assert.Equal(t, "feed pump", labels.Render[0])
	assert.Equal(t, "feed pump", labels.Copy[0])
	assert.Equal(t, "seal", labels.Render[1])
}

func TestEncodePlaceholderLabels(t *testing.T) {
	in := &Inputs{
		Database:     plantDatabase(t),
		Placeholders: fmecadb.PlaceholderOverlay{"seal": "PLT"},
		Labels:       DefaultLabelRules(),
	}

	labels := encodeLabels(t, in, nil)

	// "PLT" padded to the minimum length, head overwritten with the
	// zero-padded position.
	assert.Equal(t, "02T.....", labels.Render[1])
	assert.Equal(t, "seal", labels.Copy[1])
	assert.Equal(t, "seal", labels.CopyTable[2])
}

func TestEncodePlaceholderPrefersName(t *testing.T) {
	in := &Inputs{
		Database:     plantDatabase(t),
		Names:        fmecadb.NameOverlay{"seal": "shaft seal"},
		Placeholders: fmecadb.PlaceholderOverlay{"seal": "PLT"},
		Labels:       DefaultLabelRules(),
	}

	labels := encodeLabels(t, in, nil)

	assert.Equal(t, "02T.....", labels.Render[1])
	assert.Equal(t, "shaft seal", labels.Copy[1])
}

func TestEncodeAppendsVirtuals(t *testing.T) {
	in := &Inputs{Database: scenarioDatabase(t), Labels: DefaultLabelRules()}

	virtuals := []VirtualNode{{ID: "VirtualNode1", Source: "B", Label: "Leak"}}
	labels := encodeLabels(t, in, virtuals)

	assert.Equal(t, []string{"A", "B", "Leak"}, labels.Render)
	assert.Equal(t, []string{"A", "B", "Leak"}, labels.Copy)
	assert.Equal(t, "Leak", labels.CopyTable[3])
}

func TestEncodeExplicitIndexWidth(t *testing.T) {
	in := &Inputs{
		Database:     scenarioDatabase(t),
		Placeholders: fmecadb.PlaceholderOverlay{"A": "X"},
		Labels:       LabelRules{Filler: '.', MinLength: 6, IndexWidth: 4},
	}

	labels := encodeLabels(t, in, nil)

	assert.Equal(t, "0001..", labels.Render[0])
	assert.Equal(t, 4, labels.IndexWidth)
}

func TestEncodeIndexWidthTooSmall(t *testing.T) {
	records := make([]fmecadb.Record, 10)
	for i := range records {
		records[i] = fmecadb.Record{ID: fmt.Sprintf("n%d", i+1), Terminal: true}
	}
	db, err := fmecadb.New(records...)
	require.NoError(t, err)

	in := &Inputs{
		Database: db,
		Labels:   LabelRules{Filler: '.', MinLength: 8, IndexWidth: 1},
	}
	norm, err := defaultNormalizer{}.Normalize(in)
	require.NoError(t, err)

	_, err = defaultLabelEncoder{}.Encode(in, norm, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot encode positions up to 10")
}

func TestEncodeShortMinLength(t *testing.T) {
	in := &Inputs{
		Database:     scenarioDatabase(t),
		Placeholders: fmecadb.PlaceholderOverlay{"B": ""},
		Labels:       LabelRules{Filler: '.', MinLength: 0, IndexWidth: 2},
	}

	labels := encodeLabels(t, in, nil)

	// The encoded head always fits, even when the padded text is shorter
	// than the index width.
	assert.Equal(t, "02", labels.Render[1])
}

func TestEncodePlaceholderRoundTrip(t *testing.T) {
	rules := DefaultLabelRules()

	for pos := 1; pos <= 12; pos++ {
		label := encodePlaceholder("unit", pos, 2, rules.Filler, rules.MinLength)

		got, ok := DecodeRenderLabel(label, LabelRules{Filler: rules.Filler, IndexWidth: 2})
		require.True(t, ok, "label %q", label)
		assert.Equal(t, pos, got)
	}
}

func TestDecodeRenderLabel(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		rules   LabelRules
		wantPos int
		wantOK  bool
	}{
		{
			name:    "fixed width",
			label:   "02T.....",
			rules:   LabelRules{IndexWidth: 2},
			wantPos: 2,
			wantOK:  true,
		},
		{
			name:   "fixed width with non-digit head",
			label:  "T2......",
			rules:  LabelRules{IndexWidth: 2},
			wantOK: false,
		},
		{
			name:   "label shorter than width",
			label:  "1",
			rules:  LabelRules{IndexWidth: 2},
			wantOK: false,
		},
		{
			name:    "digit run",
			label:   "12abc",
			rules:   LabelRules{},
			wantPos: 12,
			wantOK:  true,
		},
		{
			name:    "bare digits",
			label:   "7",
			rules:   LabelRules{},
			wantPos: 7,
			wantOK:  true,
		},
		{
			name:   "no digits",
			label:  "abc",
			rules:  LabelRules{},
			wantOK: false,
		},
		{
			name:   "zero position",
			label:  "00......",
			rules:  LabelRules{IndexWidth: 2},
			wantOK: false,
		},
		{
			name:   "empty label",
			label:  "",
			rules:  LabelRules{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, ok := DecodeRenderLabel(tt.label, tt.rules)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantPos, pos)
			}
		})
	}
}
