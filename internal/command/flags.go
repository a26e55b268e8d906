// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/orthoview/internal/api"
)

// NewCaseFlags returns the flags every subcommand uses to locate and open a
// case. Each call returns fresh flag values.
func NewCaseFlags(src string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "default-case",
			Aliases: []string{"d"},
			Usage:   "case path used when none is given",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("ORTHOVIEW_DEFAULT_CASE"),
				yaml.YAML("case.default_path", altsrc.StringSourcer(src)),
			),
			Value: api.DefaultCasePath,
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:  "aws-profile",
			Usage: "shared config profile for s3:// cases",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("aws.profile", altsrc.StringSourcer(src)),
			),
		},
		&cli.StringFlag{
			Name:  "aws-region",
			Usage: "region for s3:// cases",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("aws.region", altsrc.StringSourcer(src)),
			),
		},
		&cli.IntFlag{
			Name:  "aws-retries",
			Usage: "opt in to S3 retries: total attempts per request, 0 or 1 for a single attempt",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("aws.retries", altsrc.StringSourcer(src)),
			),
			Value: 0,
			Validator: func(value int) error {
				return FlagValidators(value, NonNegativeValidator)
			},
		},
		&cli.StringFlag{
			Name:  "s3-endpoint",
			Usage: "S3-compatible endpoint URL",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("ORTHOVIEW_S3_ENDPOINT"),
				yaml.YAML("aws.endpoint", altsrc.StringSourcer(src)),
			),
		},
		&cli.BoolFlag{
			Name:  "s3-path-style",
			Usage: "use path-style S3 addressing",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("aws.path_style", altsrc.StringSourcer(src)),
			),
			Value: false,
		},
	}
}

// NewOutputFlag returns the --output flag for commands that print data.
func NewOutputFlag(src string) cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format (json, yaml)",
		Sources: cli.NewValueSourceChain(
			yaml.YAML("output", altsrc.StringSourcer(src)),
		),
		Value: "json",
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
}
