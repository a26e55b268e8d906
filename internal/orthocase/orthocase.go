// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package orthocase

import (
	"context"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// JawType identifies an arch.
type JawType int

const (
	Maxilla JawType = iota
	Mandible
)

// JawTypes lists every jaw type in enumeration order.
func JawTypes() []JawType {
	return []JawType{Maxilla, Mandible}
}

func (j JawType) String() string {
	switch j {
	case Maxilla:
		return "upper"
	case Mandible:
		return "lower"
	}
	return fmt.Sprintf("JawType(%d)", int(j))
}

// ParseJawType accepts "upper"/"maxilla" and "lower"/"mandible".
func ParseJawType(s string) (JawType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upper", "maxilla":
		return Maxilla, nil
	case "lower", "mandible":
		return Mandible, nil
	}
	return 0, fmt.Errorf("unknown jaw type %q", s)
}

// MeshVariant selects which part of a tooth's geometry to fetch.
type MeshVariant int

const (
	Crown MeshVariant = iota
	Root
	ShortRoot
)

// MeshVariants lists every variant in response order.
func MeshVariants() []MeshVariant {
	return []MeshVariant{Crown, Root, ShortRoot}
}

func (v MeshVariant) String() string {
	switch v {
	case Crown:
		return "crown"
	case Root:
		return "root"
	case ShortRoot:
		return "short_root"
	}
	return fmt.Sprintf("MeshVariant(%d)", int(v))
}

// ParseMeshVariant maps a variant name as it appears in responses back to
// its MeshVariant.
func ParseMeshVariant(s string) (MeshVariant, error) {
	for _, v := range MeshVariants() {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown mesh variant %q", s)
}

// Transform is a rigid pose change. Rotation is a unit quaternion whose Real
// part is w and whose Imag, Jmag, Kmag parts are x, y, z.
type Transform struct {
	Translation r3.Vec
	Rotation    quat.Number
}

// ExpandedMesh is triangle geometry with per-triangle vertex copies. Every 3
// consecutive entries of Indices form one triangle; an empty Indices means
// Vertices is itself the triangle stream.
type ExpandedMesh struct {
	Vertices [][3]float64
	Indices  []int
}

// Tooth is a single tooth of a loaded case.
type Tooth interface {
	// ClinicalID is the dental-notation identifier, e.g. 11 or 36.
	ClinicalID() int
	// RelativeTransform returns the tooth's pose at stage relative to its
	// reference pose. A nil transform with a nil error means the model has
	// no data for that stage.
	RelativeTransform(stage int) (*Transform, error)
	// Mesh returns nil when the tooth has no geometry for v.
	Mesh(v MeshVariant) (*ExpandedMesh, error)
}

// Case is a loaded treatment case.
type Case interface {
	// Path is the location the case was loaded from.
	Path() string
	JawTypes() []JawType
	Teeth(jaw JawType) []Tooth
	StageCount() int
}

// Loader opens a case by path.
type Loader interface {
	Load(ctx context.Context, path string) (Case, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, path string) (Case, error)

func (f LoaderFunc) Load(ctx context.Context, path string) (Case, error) {
	return f(ctx, path)
}
