// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package mesh

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quad is two triangles sharing the (1,0,0)-(0,1,0) edge, written out with the
// shared corners duplicated.
var quad = [][3]float64{
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	{1, 0, 0}, {1, 1, 0}, {0, 1, 0},
}

func TestNormalize_Empty(t *testing.T) {
	tests := []struct {
		name     string
		vertices [][3]float64
		indices  []int
	}{
		{name: "nil everything"},
		{name: "empty vertices", vertices: [][3]float64{}, indices: []int{0, 1, 2}},
		{name: "fewer than one triangle", vertices: [][3]float64{{1, 2, 3}, {4, 5, 6}}},
		{name: "indices shorter than a triangle", vertices: quad, indices: []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.vertices, tt.indices)
			require.NoError(t, err)
			assert.NotNil(t, got.Vertices)
			assert.NotNil(t, got.Faces)
			assert.Empty(t, got.Vertices)
			assert.Empty(t, got.Faces)
			assert.True(t, got.IsEmpty())
		})
	}
}

func TestNormalize_EmptyMarshalsAsArrays(t *testing.T) {
	got, err := Normalize(nil, nil)
	require.NoError(t, err)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"vertices": [], "faces": []}`, string(raw))
}

func TestNormalize_SharedEdge(t *testing.T) {
	got, err := Normalize(quad, nil)
	require.NoError(t, err)

	assert.Equal(t, [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}, got.Vertices)
	assert.Equal(t, [][3]int{{0, 1, 2}, {1, 3, 2}}, got.Faces)
	assert.Equal(t, 4, got.VertexCount())
	assert.Equal(t, 2, got.TriangleCount())
}

func TestNormalize_ExplicitIndexStream(t *testing.T) {
	vertices := [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}
	// Same quad, expressed through an index stream that references the
	// vertex list out of order.
	indices := []int{3, 2, 1, 1, 2, 0}

	got, err := Normalize(vertices, indices)
	require.NoError(t, err)

	assert.Equal(t, [][3]float64{{1, 1, 0}, {0, 1, 0}, {1, 0, 0}, {0, 0, 0}}, got.Vertices)
	assert.Equal(t, [][3]int{{0, 1, 2}, {2, 1, 3}}, got.Faces)
}

func TestNormalize_ExactEqualityOnly(t *testing.T) {
	near := math.Nextafter(1, 2)
	vertices := [][3]float64{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
		{0, 0, 0}, {near, 0, 0}, {0, 1, 0},
	}

	got, err := Normalize(vertices, nil)
	require.NoError(t, err)

	assert.Len(t, got.Vertices, 4, "near-duplicate vertices must stay distinct")
	assert.Equal(t, [3]int{0, 1, 2}, got.Faces[0])
	assert.Equal(t, [3]int{0, 3, 2}, got.Faces[1])
}

func TestNormalize_DropsTrailingPartialTriangle(t *testing.T) {
	vertices := append(append([][3]float64{}, quad...), [3]float64{9, 9, 9})

	got, err := Normalize(vertices, nil)
	require.NoError(t, err)
	assert.Len(t, got.Faces, 2)
	assert.NotContains(t, got.Vertices, [3]float64{9, 9, 9})
}

func TestNormalize_IndexOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
	}{
		{name: "past the end", indices: []int{0, 1, 6}},
		{name: "negative", indices: []int{0, -1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(quad, tt.indices)
			assert.ErrorIs(t, err, ErrIndexOutOfRange)
			assert.True(t, got.IsEmpty())
		})
	}
}

func TestNormalize_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		// Draw corners from a small pool so duplicates are common.
		pool := make([][3]float64, 1+rng.Intn(12))
		for i := range pool {
			pool[i] = [3]float64{
				float64(rng.Intn(4)) * 0.5,
				float64(rng.Intn(4)) * 0.25,
				rng.Float64(),
			}
		}

		numTri := rng.Intn(40)
		expanded := make([][3]float64, 0, numTri*3)
		for i := 0; i < numTri*3; i++ {
			expanded = append(expanded, pool[rng.Intn(len(pool))])
		}

		got, err := Normalize(expanded, nil)
		require.NoError(t, err)

		assert.Len(t, got.Faces, numTri)

		seen := make(map[[3]float64]bool, len(got.Vertices))
		for _, v := range got.Vertices {
			assert.False(t, seen[v], "vertex %v appears twice", v)
			seen[v] = true
		}

		for _, face := range got.Faces {
			for _, idx := range face {
				assert.GreaterOrEqual(t, idx, 0)
				assert.Less(t, idx, len(got.Vertices))
			}
		}

		back, err := Expand(got)
		require.NoError(t, err)
		assert.Equal(t, expanded, back, "trial %d: re-expansion must reproduce the input", trial)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first, err := Normalize(quad, nil)
	require.NoError(t, err)

	flat := make([]int, 0, len(first.Faces)*3)
	for _, f := range first.Faces {
		flat = append(flat, f[:]...)
	}

	second, err := Normalize(first.Vertices, flat)
	require.NoError(t, err)

	assert.Len(t, second.Vertices, len(first.Vertices))
	assert.Equal(t, first.Faces, second.Faces)
	assert.Equal(t, first.Vertices, second.Vertices)
}

func TestExpand_IndexOutOfRange(t *testing.T) {
	_, err := Expand(Indexed{
		Vertices: [][3]float64{{0, 0, 0}},
		Faces:    [][3]int{{0, 0, 1}},
	})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
