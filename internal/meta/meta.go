// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package meta holds the process-wide options handed to every subcommand.
package meta

import (
	"github.com/staranto/orthoview/internal/config"
)

// Meta are the meta-options that are available on all commands.
type Meta struct {
	Args   []string
	Config config.Type
}

// ConfigSource is the config file path flags read their fallbacks from. It
// is empty when no config file was found.
func (m Meta) ConfigSource() string {
	return m.Config.Source
}
