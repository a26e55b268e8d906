// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package casetest provides in-memory orthocase implementations for tests.
package casetest

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/staranto/orthoview/internal/orthocase"
)

// Tooth is a scriptable orthocase.Tooth. Stages without an entry in
// Transforms or Errs report no data.
type Tooth struct {
	ID         int
	Transforms map[int]*orthocase.Transform
	Errs       map[int]error
	Meshes     map[orthocase.MeshVariant]*orthocase.ExpandedMesh
	MeshErrs   map[orthocase.MeshVariant]error
}

func (t *Tooth) ClinicalID() int { return t.ID }

func (t *Tooth) RelativeTransform(stage int) (*orthocase.Transform, error) {
	if err := t.Errs[stage]; err != nil {
		return nil, err
	}
	return t.Transforms[stage], nil
}

func (t *Tooth) Mesh(v orthocase.MeshVariant) (*orthocase.ExpandedMesh, error) {
	if err := t.MeshErrs[v]; err != nil {
		return nil, err
	}
	return t.Meshes[v], nil
}

// Case is a scriptable orthocase.Case.
type Case struct {
	P      string
	Jaws   []orthocase.JawType
	ByJaw  map[orthocase.JawType][]*Tooth
	Stages int
}

// NewCase returns an empty case with both jaws present.
func NewCase(path string) *Case {
	return &Case{
		P:     path,
		Jaws:  orthocase.JawTypes(),
		ByJaw: make(map[orthocase.JawType][]*Tooth),
	}
}

// Add appends teeth to jaw and returns c for chaining.
func (c *Case) Add(jaw orthocase.JawType, teeth ...*Tooth) *Case {
	c.ByJaw[jaw] = append(c.ByJaw[jaw], teeth...)
	return c
}

// Tooth returns the tooth with the given clinical ID, or nil.
func (c *Case) Tooth(id int) *Tooth {
	for _, teeth := range c.ByJaw {
		for _, t := range teeth {
			if t.ID == id {
				return t
			}
		}
	}
	return nil
}

func (c *Case) Path() string                  { return c.P }
func (c *Case) JawTypes() []orthocase.JawType { return c.Jaws }
func (c *Case) StageCount() int               { return c.Stages }

func (c *Case) Teeth(jaw orthocase.JawType) []orthocase.Tooth {
	out := make([]orthocase.Tooth, 0, len(c.ByJaw[jaw]))
	for _, t := range c.ByJaw[jaw] {
		out = append(out, t)
	}
	return out
}

// Shift returns a pure translation.
func Shift(x, y, z float64) *orthocase.Transform {
	return &orthocase.Transform{
		Translation: r3.Vec{X: x, Y: y, Z: z},
		Rotation:    quat.Number{Real: 1},
	}
}

// PermanentDentition builds a 28-tooth case (quadrants 1-4, teeth 1-7) with a
// translation for every tooth at each of stages [0, stages).
func PermanentDentition(path string, stages int) *Case {
	c := NewCase(path)
	c.Stages = stages
	for quadrant := 1; quadrant <= 4; quadrant++ {
		jaw := orthocase.Maxilla
		if quadrant >= 3 {
			jaw = orthocase.Mandible
		}
		for n := 1; n <= 7; n++ {
			id := quadrant*10 + n
			t := &Tooth{ID: id, Transforms: make(map[int]*orthocase.Transform)}
			for s := 0; s < stages; s++ {
				t.Transforms[s] = Shift(float64(id), float64(s), 0)
			}
			c.Add(jaw, t)
		}
	}
	return c
}

// Loader serves cases from an in-memory table and counts loads per path.
type Loader struct {
	mu    sync.Mutex
	cases map[string]orthocase.Case
	fails map[string]error
	loads map[string]int

	// Hook, when set, runs at the start of every Load.
	Hook func(path string)
}

func NewLoader() *Loader {
	return &Loader{
		cases: make(map[string]orthocase.Case),
		fails: make(map[string]error),
		loads: make(map[string]int),
	}
}

// Put registers c under its own path.
func (l *Loader) Put(c orthocase.Case) *Loader {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cases[c.Path()] = c
	return l
}

// Fail makes loads of path return err.
func (l *Loader) Fail(path string, err error) *Loader {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fails[path] = err
	return l
}

// Loads reports how many times path has been loaded.
func (l *Loader) Loads(path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads[path]
}

// TotalLoads reports the number of loads across all paths.
func (l *Loader) TotalLoads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, v := range l.loads {
		n += v
	}
	return n
}

func (l *Loader) Load(ctx context.Context, path string) (orthocase.Case, error) {
	if l.Hook != nil {
		l.Hook(path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads[path]++
	if err := l.fails[path]; err != nil {
		return nil, err
	}
	c, ok := l.cases[path]
	if !ok {
		return nil, fmt.Errorf("failed to read case file: open %s: %w", path, fs.ErrNotExist)
	}
	return c, nil
}
