// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// renderMarkdown produces md2man-flavored markdown for one subcommand.
func renderMarkdown(app string, cmd *cli.Command) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "%% %s-%s 1\n\n", strings.ToUpper(app), strings.ToUpper(cmd.Name))

	b.WriteString("# NAME\n\n")
	fmt.Fprintf(&b, "%s %s - %s\n\n", app, cmd.Name, cmd.Usage)

	b.WriteString("# SYNOPSIS\n\n")
	synopsis := cmd.UsageText
	if synopsis == "" {
		synopsis = fmt.Sprintf("%s %s [options]", app, cmd.Name)
	}
	fmt.Fprintf(&b, "`%s`\n\n", synopsis)

	if len(cmd.Flags) > 0 {
		b.WriteString("# OPTIONS\n\n")
		for _, f := range cmd.Flags {
			b.WriteString(renderFlag(f))
		}
	}

	return []byte(b.String())
}

func renderFlag(f cli.Flag) string {
	var names []string
	for _, n := range f.Names() {
		dashes := "--"
		if len(n) == 1 {
			dashes = "-"
		}
		names = append(names, "**"+dashes+n+"**")
	}

	head := strings.Join(names, ", ")
	var usage string
	if df, ok := f.(cli.DocGenerationFlag); ok {
		if df.TakesValue() {
			head += "=*value*"
		}
		usage = df.GetUsage()
		if def := df.GetDefaultText(); def != "" && df.TakesValue() {
			usage += fmt.Sprintf(" (default %s)", def)
		}
		if envs := df.GetEnvVars(); len(envs) > 0 {
			usage += fmt.Sprintf(" [$%s]", strings.Join(envs, ", $"))
		}
	}

	return fmt.Sprintf("%s\n: %s\n\n", head, usage)
}
