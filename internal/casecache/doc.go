// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package casecache keeps recently loaded treatment cases in memory, keyed by
// path, so that consecutive requests against the same case do not reload it.
package casecache
