// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package extract derives response data from a loaded case: every tooth's
// relative transform at a stage, and a tooth's crown/root meshes in indexed
// form. Per-tooth failures are collected rather than aborting the whole
// extraction.
package extract
