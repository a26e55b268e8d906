// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/staranto/orthoview/internal/orthocase"
	"github.com/staranto/orthoview/internal/orthocase/casetest"
)

type panickyTooth struct{ id int }

func (p panickyTooth) ClinicalID() int { return p.id }
func (p panickyTooth) RelativeTransform(int) (*orthocase.Transform, error) {
	panic("null pointer in model")
}
func (p panickyTooth) Mesh(orthocase.MeshVariant) (*orthocase.ExpandedMesh, error) {
	return nil, nil
}

type mixedCase struct {
	*casetest.Case
	extra orthocase.Tooth
}

func (m mixedCase) Teeth(jaw orthocase.JawType) []orthocase.Tooth {
	teeth := m.Case.Teeth(jaw)
	if jaw == orthocase.Mandible {
		teeth = append(teeth, m.extra)
	}
	return teeth
}

func TestStageTransforms_AllPresent(t *testing.T) {
	c := casetest.PermanentDentition("a.yaml", 2)

	rs := StageTransforms(c, 1)
	require.Len(t, rs, 28)
	assert.Empty(t, rs.Failed())

	m := rs.Map()
	assert.Len(t, m, 28)
	require.NotNil(t, m[36])
	assert.Equal(t, Vec3{X: 36, Y: 1, Z: 0}, m[36].Translation)
	assert.Equal(t, Quat{W: 1}, m[36].Rotation)
}

func TestStageTransforms_JawOrder(t *testing.T) {
	rs := StageTransforms(casetest.PermanentDentition("a.yaml", 1), 0)

	assert.Equal(t, 11, rs[0].ToothID)
	assert.Equal(t, orthocase.Maxilla, rs[0].Jaw)
	assert.Equal(t, 47, rs[len(rs)-1].ToothID)
	assert.Equal(t, orthocase.Mandible, rs[len(rs)-1].Jaw)
}

func TestStageTransforms_MissingBecomesNil(t *testing.T) {
	c := casetest.PermanentDentition("a.yaml", 4)
	t9 := c.Tooth(11)
	t9.ID = 9
	delete(t9.Transforms, 3)

	boom := errors.New("model blew up")
	c.Tooth(22).Errs = map[int]error{3: boom}

	rs := StageTransforms(c, 3)
	m := rs.Map()

	assert.Len(t, m, 28)
	v, ok := m[9]
	assert.True(t, ok, "failed teeth keep their key")
	assert.Nil(t, v)
	assert.Nil(t, m[22])

	failed := rs.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, 9, failed[0].ToothID)
	assert.ErrorIs(t, failed[0].Err, ErrNoTransform)
	assert.Equal(t, 22, failed[1].ToothID)
	assert.ErrorIs(t, failed[1].Err, boom)

	for id, tr := range m {
		if id == 9 || id == 22 {
			continue
		}
		assert.NotNil(t, tr, "tooth %d", id)
	}
}

func TestStageTransforms_PanicIsContained(t *testing.T) {
	c := mixedCase{
		Case:  casetest.PermanentDentition("a.yaml", 1),
		extra: panickyTooth{id: 48},
	}

	var rs Results
	assert.NotPanics(t, func() { rs = StageTransforms(c, 0) })
	assert.Len(t, rs, 29)

	failed := rs.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, 48, failed[0].ToothID)
	assert.ErrorContains(t, failed[0].Err, "panicked")
	assert.Nil(t, failed[0].Transform)
}

func TestStageTransforms_EmptyCase(t *testing.T) {
	rs := StageTransforms(casetest.NewCase("empty.yaml"), 0)
	assert.Empty(t, rs)
	assert.NotNil(t, rs.Map())
	assert.Empty(t, rs.Map())
}

func TestFromModel_QuaternionLayout(t *testing.T) {
	got := fromModel(&orthocase.Transform{
		Translation: r3.Vec{X: 1, Y: 2, Z: 3},
		Rotation:    quat.Number{Real: 0.5, Imag: 0.1, Jmag: 0.2, Kmag: 0.3},
	})

	assert.Equal(t, Vec3{X: 1, Y: 2, Z: 3}, got.Translation)
	assert.Equal(t, Quat{X: 0.1, Y: 0.2, Z: 0.3, W: 0.5}, got.Rotation)
}
