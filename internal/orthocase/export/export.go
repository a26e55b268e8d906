// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/staranto/orthoview/internal/orthocase"
)

// ErrStageOutOfRange is returned by RelativeTransform for a stage the export
// does not cover.
var ErrStageOutOfRange = errors.New("stage out of range")

type document struct {
	Jaws []jawDoc `yaml:"jaws"`
}

type jawDoc struct {
	Type  string     `yaml:"type"`
	Teeth []toothDoc `yaml:"teeth"`
}

type toothDoc struct {
	ID     int                 `yaml:"id"`
	Stages []*stageDoc         `yaml:"stages"`
	Meshes map[string]*meshDoc `yaml:"meshes"`
}

type stageDoc struct {
	Translation []float64 `yaml:"translation"`
	Rotation    []float64 `yaml:"rotation"`
}

type meshDoc struct {
	Vertices [][3]float64 `yaml:"vertices"`
	Indices  []int        `yaml:"indices"`
}

// Case is an immutable case decoded from an export. It is safe for
// concurrent use.
type Case struct {
	path   string
	jaws   []orthocase.JawType
	teeth  map[orthocase.JawType][]orthocase.Tooth
	stages int
}

var _ orthocase.Case = (*Case)(nil)

func (c *Case) Path() string { return c.path }

func (c *Case) JawTypes() []orthocase.JawType {
	return append([]orthocase.JawType(nil), c.jaws...)
}

func (c *Case) Teeth(jaw orthocase.JawType) []orthocase.Tooth {
	return append([]orthocase.Tooth(nil), c.teeth[jaw]...)
}

// StageCount is the longest stage list of any tooth.
func (c *Case) StageCount() int { return c.stages }

// ToothCount returns the number of teeth across all jaws.
func (c *Case) ToothCount() int {
	n := 0
	for _, teeth := range c.teeth {
		n += len(teeth)
	}
	return n
}

type tooth struct {
	id     int
	stages []*orthocase.Transform
	meshes map[orthocase.MeshVariant]*orthocase.ExpandedMesh
}

func (t *tooth) ClinicalID() int { return t.id }

func (t *tooth) RelativeTransform(stage int) (*orthocase.Transform, error) {
	if stage < 0 || stage >= len(t.stages) {
		return nil, fmt.Errorf("tooth %d stage %d: %w (have %d)", t.id, stage, ErrStageOutOfRange, len(t.stages))
	}
	tr := t.stages[stage]
	if tr == nil {
		return nil, nil
	}
	cp := *tr
	return &cp, nil
}

func (t *tooth) Mesh(v orthocase.MeshVariant) (*orthocase.ExpandedMesh, error) {
	return t.meshes[v], nil
}

// Parse decodes an export document. path is recorded as the case's Path.
func Parse(path string, data []byte) (*Case, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode case export %s: %w", path, err)
	}

	c := &Case{
		path:  path,
		teeth: make(map[orthocase.JawType][]orthocase.Tooth),
	}
	seen := make(map[int]orthocase.JawType)

	for _, jd := range doc.Jaws {
		jaw, err := orthocase.ParseJawType(jd.Type)
		if err != nil {
			return nil, fmt.Errorf("case export %s: %w", path, err)
		}
		if _, ok := c.teeth[jaw]; ok {
			return nil, fmt.Errorf("case export %s: jaw %s listed twice", path, jaw)
		}
		c.jaws = append(c.jaws, jaw)
		c.teeth[jaw] = make([]orthocase.Tooth, 0, len(jd.Teeth))

		for _, td := range jd.Teeth {
			if other, dup := seen[td.ID]; dup {
				return nil, fmt.Errorf("case export %s: tooth %d appears in both %s and %s", path, td.ID, other, jaw)
			}
			seen[td.ID] = jaw

			t, err := newTooth(td)
			if err != nil {
				return nil, fmt.Errorf("case export %s: %w", path, err)
			}
			c.teeth[jaw] = append(c.teeth[jaw], t)
			c.stages = max(c.stages, len(t.stages))
		}
	}

	return c, nil
}

func newTooth(td toothDoc) (*tooth, error) {
	t := &tooth{
		id:     td.ID,
		stages: make([]*orthocase.Transform, len(td.Stages)),
		meshes: make(map[orthocase.MeshVariant]*orthocase.ExpandedMesh),
	}

	for i, sd := range td.Stages {
		if sd == nil {
			continue
		}
		tr, err := sd.transform()
		if err != nil {
			return nil, fmt.Errorf("tooth %d stage %d: %w", td.ID, i, err)
		}
		t.stages[i] = tr
	}

	for name, md := range td.Meshes {
		v, err := orthocase.ParseMeshVariant(name)
		if err != nil {
			return nil, fmt.Errorf("tooth %d: %w", td.ID, err)
		}
		if md == nil {
			continue
		}
		t.meshes[v] = &orthocase.ExpandedMesh{
			Vertices: md.Vertices,
			Indices:  md.Indices,
		}
	}

	return t, nil
}

func (sd *stageDoc) transform() (*orthocase.Transform, error) {
	if len(sd.Translation) != 3 {
		return nil, fmt.Errorf("translation needs 3 components, got %d", len(sd.Translation))
	}
	if len(sd.Rotation) != 4 {
		return nil, fmt.Errorf("rotation needs 4 components (x, y, z, w), got %d", len(sd.Rotation))
	}

	q := quat.Number{
		Real: sd.Rotation[3],
		Imag: sd.Rotation[0],
		Jmag: sd.Rotation[1],
		Kmag: sd.Rotation[2],
	}
	n := quat.Abs(q)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, fmt.Errorf("rotation %v is not a valid quaternion", sd.Rotation)
	}

	return &orthocase.Transform{
		Translation: r3.Vec{X: sd.Translation[0], Y: sd.Translation[1], Z: sd.Translation[2]},
		Rotation:    quat.Scale(1/n, q),
	}, nil
}
