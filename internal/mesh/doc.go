// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package mesh converts expanded triangle meshes, where every triangle carries
// its own copy of each corner, into indexed meshes with a unique vertex list
// and index-triple faces.
package mesh
