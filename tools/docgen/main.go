// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"

	"github.com/staranto/orthoview/internal/command"
	"github.com/staranto/orthoview/internal/meta"
)

// Minimal doc generator. For every orthoview subcommand it writes
//   - docs/commands/<cmd>.md rendered from the command's flags and usage
//   - docs/man/share/man1/orthoview-<cmd>.1 via md2man

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	commandsDir := filepath.Join(repoRoot, "docs", "commands")
	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")

	for _, dir := range []string{commandsDir, manOutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fatalf("creating output dir %s: %v", dir, err)
		}
	}

	// Config-file fallbacks must not leak into generated defaults.
	app := command.NewApp(meta.Meta{})

	for _, cmd := range app.Commands {
		md := renderMarkdown(app.Name, cmd)

		mdPath := filepath.Join(commandsDir, cmd.Name+".md")
		if err := writeFileIfChanged(mdPath, md, writeOnlyIfChanged); err != nil {
			fatalf("writing markdown for %s: %v", cmd.Name, err)
		}

		manPath := filepath.Join(manOutDir, fmt.Sprintf("%s-%s.1", app.Name, cmd.Name))
		if err := writeFileIfChanged(manPath, md2man.Render(md), writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", cmd.Name, err)
		}
	}

	fmt.Printf("docgen: processed %d command(s)\n", len(app.Commands))
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}
