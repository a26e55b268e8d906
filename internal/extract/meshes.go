// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"errors"
	"fmt"

	"github.com/apex/log"

	"github.com/staranto/orthoview/internal/mesh"
	"github.com/staranto/orthoview/internal/orthocase"
)

// ErrToothNotFound is returned when no jaw has a tooth with the requested
// clinical ID.
var ErrToothNotFound = errors.New("tooth not found")

// Meshes is the indexed geometry of one tooth.
type Meshes struct {
	Crown     mesh.Indexed `json:"crown" yaml:"crown"`
	Root      mesh.Indexed `json:"root" yaml:"root"`
	ShortRoot mesh.Indexed `json:"short_root" yaml:"short_root"`
}

// Variant returns the mesh for v.
func (tm *Meshes) Variant(v orthocase.MeshVariant) *mesh.Indexed {
	switch v {
	case orthocase.Root:
		return &tm.Root
	case orthocase.ShortRoot:
		return &tm.ShortRoot
	}
	return &tm.Crown
}

// FindTooth returns the tooth with the given clinical ID.
func FindTooth(c orthocase.Case, toothID int) (orthocase.Tooth, error) {
	for _, jaw := range c.JawTypes() {
		for _, tooth := range c.Teeth(jaw) {
			if tooth.ClinicalID() == toothID {
				return tooth, nil
			}
		}
	}
	return nil, fmt.Errorf("tooth %d: %w", toothID, ErrToothNotFound)
}

// ToothMeshes fetches the crown, root and short-root meshes of a tooth and
// normalizes each one independently. A variant the model has no geometry for
// comes back empty.
func ToothMeshes(c orthocase.Case, toothID int) (Meshes, error) {
	tooth, err := FindTooth(c, toothID)
	if err != nil {
		return Meshes{}, err
	}

	out := Meshes{
		Crown:     mesh.Empty(),
		Root:      mesh.Empty(),
		ShortRoot: mesh.Empty(),
	}

	for _, v := range orthocase.MeshVariants() {
		em, err := tooth.Mesh(v)
		if err != nil {
			return Meshes{}, fmt.Errorf("failed to get %s mesh of tooth %d: %w", v, toothID, err)
		}
		if em == nil {
			log.Debugf("tooth %d has no %s geometry", toothID, v)
			continue
		}

		m, err := mesh.Normalize(em.Vertices, em.Indices)
		if err != nil {
			return Meshes{}, fmt.Errorf("failed to normalize %s mesh of tooth %d: %w", v, toothID, err)
		}
		*out.Variant(v) = m
	}

	return out, nil
}
