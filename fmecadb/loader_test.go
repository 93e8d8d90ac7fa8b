package fmecadb

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `
nodes:
  - id: pump
  - id: seal
    parent: pump
  - id: leak
    parent: ..
    terminal: true
values:
  pump: 0.1
  seal: [2.5, 3.0]
  leak: .nan
weights:
  leak: 2
names:
  pump: Feed pump
placeholders:
  seal: seal*
terminals:
  leak: External leakage
scale:
  min: 0
  max: 5
  colormap: hot
`

func TestParse(t *testing.T) {
	b, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"pump", "seal", "leak"}, b.Database.IDs())
	assert.Equal(t, []string{"", "pump", "seal"}, b.Database.ParentRefs())

	assert.Equal(t, Samples{0.1}, b.Values["pump"])
	assert.Equal(t, Samples{2.5, 3.0}, b.Values["seal"])
	require.Len(t, b.Values["leak"], 1)
	assert.True(t, math.IsNaN(b.Values["leak"][0]))

	assert.Equal(t, 2.0, b.Weights["leak"])
	assert.Equal(t, "Feed pump", b.Names["pump"])
	assert.Equal(t, "seal*", b.Placeholders["seal"])
	assert.Equal(t, "External leakage", b.Terminals["leak"])

	require.NotNil(t, b.Scale)
	require.NotNil(t, b.Scale.Min)
	require.NotNil(t, b.Scale.Max)
	assert.Equal(t, 0.0, *b.Scale.Min)
	assert.Equal(t, 5.0, *b.Scale.Max)
	assert.Equal(t, "hot", b.Scale.Colormap)
}

func TestParseMissingOverlays(t *testing.T) {
	b, err := Parse([]byte("nodes:\n  - id: pump\n"))
	require.NoError(t, err)

	assert.Nil(t, b.Values)
	assert.Nil(t, b.Weights)
	assert.Nil(t, b.Terminals)
	assert.Nil(t, b.Scale)
}

func TestParsePartialScale(t *testing.T) {
	b, err := Parse([]byte("nodes:\n  - id: pump\nscale:\n  max: 10\n"))
	require.NoError(t, err)

	require.NotNil(t, b.Scale)
	assert.Nil(t, b.Scale.Min)
	require.NotNil(t, b.Scale.Max)
	assert.Equal(t, 10.0, *b.Scale.Max)
	assert.Empty(t, b.Scale.Colormap)
}

func TestParseNoNodes(t *testing.T) {
	_, err := Parse([]byte("values:\n  pump: 1\n"))
	assert.ErrorIs(t, err, ErrEmptyDatabase)
}

func TestParseOverlayShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"values as sequence", "nodes:\n  - id: pump\nvalues:\n  - 1\n  - 2\n"},
		{"values as scalar", "nodes:\n  - id: pump\nvalues: 3\n"},
		{"non-numeric sample", "nodes:\n  - id: pump\nvalues:\n  pump: high\n"},
		{"non-numeric sample list", "nodes:\n  - id: pump\nvalues:\n  pump: [1, high]\n"},
		{"sample mapping", "nodes:\n  - id: pump\nvalues:\n  pump: {a: 1}\n"},
		{"weights as sequence", "nodes:\n  - id: pump\nweights:\n  - 1\n"},
		{"names as scalar", "nodes:\n  - id: pump\nnames: pump\n"},
		{"terminals as sequence", "nodes:\n  - id: pump\nterminals:\n  - leak\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidOverlayType)
		})
	}
}

func TestParseDuplicateNode(t *testing.T) {
	_, err := Parse([]byte("nodes:\n  - id: pump\n  - id: pump\n"))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Database.Len())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fmeca.yaml"), []byte(sampleDoc), 0o644))

	b, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Database.Len())
}

func TestLoadDirMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestKeysSorted(t *testing.T) {
	m := WeightMap{"c": 1, "a": 2, "b": 3}
	assert.Equal(t, []string{"a", "b", "c"}, Keys(m))
}
