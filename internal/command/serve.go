// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/orthoview/internal/api"
	"github.com/staranto/orthoview/internal/cacheutil"
	"github.com/staranto/orthoview/internal/casecache"
	"github.com/staranto/orthoview/internal/config"
	"github.com/staranto/orthoview/internal/meta"
)

// ServeCommandAction runs the HTTP API until interrupted.
func ServeCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[min(1, len(m.Args)):])

	if _, err := cacheutil.Purge(time.Duration(cmd.Int("cache-clean")) * time.Hour); err != nil {
		log.WithError(err).Warn("cache purge failed")
	}

	grace, err := config.GetInt("shutdown_timeout", int(api.DefaultShutdownTimeout/time.Second))
	if err != nil {
		log.WithError(err).Warn("ignoring shutdown_timeout")
	}

	cases := casecache.New(NewLoader(cmd), casecache.WithCapacity(cmd.Int("cache-size")))
	srv := api.New(cases,
		api.WithAddr(cmd.String("addr")),
		api.WithDefaultCasePath(cmd.String("default-case")),
		api.WithShutdownTimeout(time.Duration(grace)*time.Second),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}

// ServeCommandBuilder constructs the cli.Command for "serve", wiring
// metadata, flags, and the action.
func ServeCommandBuilder(m meta.Meta) *cli.Command {
	src := m.ConfigSource()
	return &cli.Command{
		Name:      "serve",
		Usage:     "serve the HTTP API",
		UsageText: `orthoview serve [options]`,
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "listen address",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("ORTHOVIEW_ADDR"),
					yaml.YAML("serve.addr", altsrc.StringSourcer(src)),
				),
				Value: api.DefaultAddr,
			},
			&cli.IntFlag{
				Name:  "cache-clean",
				Usage: "purge downloaded cases older than this many hours at startup, 0 to keep all",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("cache.clean", altsrc.StringSourcer(src)),
				),
				Value: 0,
				Validator: func(value int) error {
					return FlagValidators(value, NonNegativeValidator)
				},
			},
			&cli.IntFlag{
				Name:  "cache-size",
				Usage: "number of cases kept in memory",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("ORTHOVIEW_CACHE_SIZE"),
					yaml.YAML("cache.size", altsrc.StringSourcer(src)),
				),
				Value: casecache.DefaultCapacity,
				Validator: func(value int) error {
					return FlagValidators(value, PositiveValidator)
				},
			},
		}, NewCaseFlags(src)...),
		Action: ServeCommandAction,
	}
}
