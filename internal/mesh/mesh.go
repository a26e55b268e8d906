// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package mesh

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when an index stream references a vertex
// that does not exist.
var ErrIndexOutOfRange = errors.New("vertex index out of range")

// Indexed is a triangle mesh with deduplicated vertices. Faces index into
// Vertices and keep the winding of the source triangles.
type Indexed struct {
	Vertices [][3]float64 `json:"vertices" yaml:"vertices,flow"`
	Faces    [][3]int     `json:"faces" yaml:"faces,flow"`
}

// Empty returns an Indexed with non-nil, zero-length slices so it marshals as
// {"vertices": [], "faces": []}.
func Empty() Indexed {
	return Indexed{
		Vertices: [][3]float64{},
		Faces:    [][3]int{},
	}
}

// VertexCount returns the number of unique vertices.
func (m Indexed) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of faces.
func (m Indexed) TriangleCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no faces.
func (m Indexed) IsEmpty() bool {
	return len(m.Faces) == 0
}

// Normalize folds duplicate vertices of an expanded mesh into a unique vertex
// list and rewrites each triangle as an index triple into it.
//
// Every 3 consecutive entries of indices form one triangle. A nil or empty
// indices means the stream is implicit, so vertex i is stream position i. A
// trailing partial triangle is dropped.
//
// Vertices are matched with ==, so only bit-for-bit equal positions merge
// (with +0 and -0 treated as equal). Unique vertices keep the order of their
// first appearance in the stream.
func Normalize(vertices [][3]float64, indices []int) (Indexed, error) {
	if len(vertices) == 0 {
		return Empty(), nil
	}

	stream := len(indices)
	if stream == 0 {
		stream = len(vertices)
	}
	numTri := stream / 3
	if numTri == 0 {
		return Empty(), nil
	}

	out := Indexed{
		Vertices: make([][3]float64, 0, min(len(vertices), numTri*3)),
		Faces:    make([][3]int, 0, numTri),
	}

	// vertex index cache
	cache := make(map[[3]float64]int, len(vertices))

	for i := 0; i < numTri; i++ {
		var face [3]int
		for j := 0; j < 3; j++ {
			src := i*3 + j
			if len(indices) > 0 {
				src = indices[src]
			}
			if src < 0 || src >= len(vertices) {
				return Empty(), fmt.Errorf("triangle %d corner %d: %w (%d of %d)",
					i, j, ErrIndexOutOfRange, src, len(vertices))
			}

			v := vertices[src]
			idx, ok := cache[v]
			if !ok {
				idx = len(out.Vertices)
				cache[v] = idx
				out.Vertices = append(out.Vertices, v)
			}
			face[j] = idx
		}
		out.Faces = append(out.Faces, face)
	}

	return out, nil
}

// Expand is the inverse of Normalize. It returns one vertex per triangle
// corner, three per face, in face order.
func Expand(m Indexed) ([][3]float64, error) {
	out := make([][3]float64, 0, len(m.Faces)*3)
	for i, face := range m.Faces {
		for j, idx := range face {
			if idx < 0 || idx >= len(m.Vertices) {
				return nil, fmt.Errorf("face %d corner %d: %w (%d of %d)",
					i, j, ErrIndexOutOfRange, idx, len(m.Vertices))
			}
			out = append(out, m.Vertices[idx])
		}
	}
	return out, nil
}
