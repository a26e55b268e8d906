// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package api serves case-derived data over HTTP: per-stage tooth transforms,
// per-tooth meshes and the path of the case currently held in memory.
package api
