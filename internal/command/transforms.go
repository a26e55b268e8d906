// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/orthoview/internal/extract"
	"github.com/staranto/orthoview/internal/meta"
	"github.com/staranto/orthoview/internal/output"
)

// TransformsCommandAction prints every tooth's relative transform for one
// stage, keyed by clinical ID. Teeth without a transform print as null.
func TransformsCommandAction(ctx context.Context, cmd *cli.Command) error {
	path := CasePath(cmd)
	stage := cmd.Int("stage")
	log.Debugf("transforms: path=%s stage=%d", path, stage)

	c, err := NewLoader(cmd).Load(ctx, path)
	if err != nil {
		return err
	}

	results := extract.StageTransforms(c, stage)
	if failed := results.Failed(); len(failed) > 0 {
		log.Warnf("%d of %d teeth have no transform at stage %d", len(failed), len(results), stage)
	}

	return output.Emit(cmd.Root().Writer, cmd.String("output"), results.Map())
}

// TransformsCommandBuilder constructs the cli.Command for "transforms".
func TransformsCommandBuilder(m meta.Meta) *cli.Command {
	src := m.ConfigSource()
	return &cli.Command{
		Name:      "transforms",
		Usage:     "print per-tooth relative transforms for a stage",
		UsageText: `orthoview transforms [options] [CASE]`,
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "stage",
				Aliases: []string{"s"},
				Usage:   "treatment stage",
				Value:   0,
				Validator: func(value int) error {
					return FlagValidators(value, NonNegativeValidator)
				},
			},
			NewOutputFlag(src),
		}, NewCaseFlags(src)...),
		Action: TransformsCommandAction,
	}
}
