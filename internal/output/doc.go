// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output provides the emission utilities used by commands to present
// results in various formats.
package output
