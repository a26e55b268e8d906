// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"errors"
	"fmt"

	"github.com/apex/log"

	"github.com/staranto/orthoview/internal/orthocase"
)

// ErrNoTransform marks a tooth whose model has no transform for the stage.
var ErrNoTransform = errors.New("no relative transform")

type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Quat is a rotation quaternion; W is the real part.
type Quat struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
	W float64 `json:"w" yaml:"w"`
}

type Transform struct {
	Translation Vec3 `json:"translation" yaml:"translation"`
	Rotation    Quat `json:"rotation" yaml:"rotation"`
}

// Result is the outcome for one tooth. Exactly one of Transform and Err is
// set.
type Result struct {
	ToothID   int
	Jaw       orthocase.JawType
	Transform *Transform
	Err       error
}

// OK reports whether the tooth produced a transform.
func (r Result) OK() bool {
	return r.Err == nil
}

// Results holds one Result per tooth, in jaw then tooth enumeration order.
type Results []Result

// Map keys results by clinical ID. Failed teeth map to nil.
func (rs Results) Map() map[int]*Transform {
	out := make(map[int]*Transform, len(rs))
	for _, r := range rs {
		out[r.ToothID] = r.Transform
	}
	return out
}

// Failed returns the results that carry an error.
func (rs Results) Failed() Results {
	var out Results
	for _, r := range rs {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// StageTransforms queries every tooth of every jaw for its relative transform
// at stage. A tooth whose query fails or yields nothing gets a failed Result
// and an error log line; the other teeth are unaffected.
func StageTransforms(c orthocase.Case, stage int) Results {
	var out Results
	for _, jaw := range c.JawTypes() {
		for _, tooth := range c.Teeth(jaw) {
			r := toothTransform(tooth, stage)
			r.Jaw = jaw
			if r.Err != nil {
				log.WithError(r.Err).
					WithField("tooth", r.ToothID).
					WithField("stage", stage).
					Errorf("no relative transform for tooth %d", r.ToothID)
			}
			out = append(out, r)
		}
	}
	return out
}

func toothTransform(tooth orthocase.Tooth, stage int) (r Result) {
	r.ToothID = tooth.ClinicalID()

	// The model is opaque; a panic in it is treated like any other failure.
	defer func() {
		if p := recover(); p != nil {
			r.Transform = nil
			r.Err = fmt.Errorf("relative transform panicked: %v", p)
		}
	}()

	tr, err := tooth.RelativeTransform(stage)
	switch {
	case err != nil:
		r.Err = err
	case tr == nil:
		r.Err = fmt.Errorf("stage %d: %w", stage, ErrNoTransform)
	default:
		r.Transform = fromModel(tr)
	}
	return r
}

func fromModel(tr *orthocase.Transform) *Transform {
	return &Transform{
		Translation: Vec3{X: tr.Translation.X, Y: tr.Translation.Y, Z: tr.Translation.Z},
		Rotation: Quat{
			X: tr.Rotation.Imag,
			Y: tr.Rotation.Jmag,
			Z: tr.Rotation.Kmag,
			W: tr.Rotation.Real,
		},
	}
}
