// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the CLI command set for orthoview. It wires flags,
// validators, and actions for the serve, transforms, and mesh subcommands.
package command
