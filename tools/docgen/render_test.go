// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"testing"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/staranto/orthoview/internal/command"
	"github.com/staranto/orthoview/internal/meta"
)

func findCommand(t *testing.T, app *cli.Command, name string) *cli.Command {
	t.Helper()
	for _, c := range app.Commands {
		if c.Name == name {
			return c
		}
	}
	require.FailNow(t, "command not found", name)
	return nil
}

func TestRenderMarkdown_Serve(t *testing.T) {
	app := command.NewApp(meta.Meta{})
	md := string(renderMarkdown(app.Name, findCommand(t, app, "serve")))

	assert.Contains(t, md, "% ORTHOVIEW-SERVE 1")
	assert.Contains(t, md, "orthoview serve - serve the HTTP API")
	assert.Contains(t, md, "`orthoview serve [options]`")
	assert.Contains(t, md, "**--addr**, **-a**=*value*")
	assert.Contains(t, md, "$ORTHOVIEW_ADDR")
	assert.Contains(t, md, "**--s3-path-style**\n")
}

func TestRenderMarkdown_ManPage(t *testing.T) {
	app := command.NewApp(meta.Meta{})
	for _, c := range app.Commands {
		man := string(md2man.Render(renderMarkdown(app.Name, c)))
		assert.Contains(t, man, ".TH", c.Name)
		assert.Contains(t, man, "NAME", c.Name)
	}
}

func TestRenderFlag_NoUsage(t *testing.T) {
	got := renderFlag(&cli.BoolFlag{Name: "x"})
	assert.Equal(t, "**-x**\n: \n\n", got)
}
