// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/orthoview/internal/config"
	"github.com/staranto/orthoview/internal/meta"
	"github.com/staranto/orthoview/internal/version"
)

// InitApp loads the config file, if there is one, and builds the root
// command around it.
func InitApp(args []string) *cli.Command {
	cfg, err := config.Load()
	if err != nil {
		log.Debugf("running without config file: %v", err)
	}

	// The arg[1] immediately following the binary is the subcommand and also
	// the namespace used when retrieving config values. It could be -h/--help,
	// so ignore it if it appears to be a flag.
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		cfg.Namespace = args[1]
		config.SetNamespace(args[1])
	}

	return NewApp(meta.Meta{
		Args:   args,
		Config: cfg,
	})
}

// NewApp builds the root command. Flag fallbacks are read from
// m.Config.Source.
func NewApp(m meta.Meta) *cli.Command {
	app := &cli.Command{
		Name:                  "orthoview",
		Usage:                 "serve per-tooth transforms and meshes from orthodontic cases",
		Version:               version.Version,
		EnableShellCompletion: true,
	}

	app.Commands = append(app.Commands,
		ServeCommandBuilder(m),
		TransformsCommandBuilder(m),
		MeshCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app
}
