// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/orthoview/internal/extract"
	"github.com/staranto/orthoview/internal/mesh"
	"github.com/staranto/orthoview/internal/meta"
	"github.com/staranto/orthoview/internal/output"
	"github.com/staranto/orthoview/internal/orthocase"
)

// MeshCommandAction prints a tooth's normalized meshes. With --expanded each
// variant is printed as a flat triangle list instead, three vertices per
// face.
func MeshCommandAction(ctx context.Context, cmd *cli.Command) error {
	path := CasePath(cmd)
	toothID := cmd.Int("tooth")
	log.Debugf("mesh: path=%s tooth=%d", path, toothID)

	c, err := NewLoader(cmd).Load(ctx, path)
	if err != nil {
		return err
	}

	meshes, err := extract.ToothMeshes(c, toothID)
	if err != nil {
		return err
	}

	variants := orthocase.MeshVariants()
	if name := cmd.String("variant"); name != "" {
		v, err := orthocase.ParseMeshVariant(name)
		if err != nil {
			return err
		}
		variants = []orthocase.MeshVariant{v}
	}

	expanded := cmd.Bool("expanded")
	if !expanded && len(variants) == len(orthocase.MeshVariants()) {
		return output.Emit(cmd.Root().Writer, cmd.String("output"), meshes)
	}

	out := make(map[string]any, len(variants))
	for _, v := range variants {
		m := meshes.Variant(v)
		if !expanded {
			out[v.String()] = m
			continue
		}
		tris, err := mesh.Expand(*m)
		if err != nil {
			return fmt.Errorf("failed to expand %s mesh of tooth %d: %w", v, toothID, err)
		}
		out[v.String()] = tris
	}

	return output.Emit(cmd.Root().Writer, cmd.String("output"), out)
}

// MeshCommandBuilder constructs the cli.Command for "mesh".
func MeshCommandBuilder(m meta.Meta) *cli.Command {
	src := m.ConfigSource()
	return &cli.Command{
		Name:      "mesh",
		Usage:     "print a tooth's crown, root, and short root meshes",
		UsageText: `orthoview mesh --tooth ID [options] [CASE]`,
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:     "tooth",
				Aliases:  []string{"t"},
				Usage:    "clinical tooth ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "variant",
				Usage: "only print this variant (crown, root, short_root)",
				Validator: func(value string) error {
					return FlagValidators(value, VariantValidator)
				},
			},
			&cli.BoolFlag{
				Name:  "expanded",
				Usage: "print triangle lists instead of indexed meshes",
				Value: false,
			},
			NewOutputFlag(src),
		}, NewCaseFlags(src)...),
		Action: MeshCommandAction,
	}
}
