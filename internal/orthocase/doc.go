// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package orthocase defines the surface orthoview consumes from a treatment
// case model: jaws, teeth keyed by clinical ID, per-stage relative transforms
// and expanded crown/root geometry. Implementations own parsing and all of the
// geometry; this package only names the contract.
package orthocase
