// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package export loads treatment cases from YAML or JSON case exports, read
// from local disk or from S3. An export carries, for every tooth, the
// per-stage relative transforms and expanded crown/root geometry already
// computed by the planning software.
//
//	jaws:
//	  - type: upper
//	    teeth:
//	      - id: 11
//	        stages:
//	          - translation: [0, 0, 0]
//	            rotation: [0, 0, 0, 1]
//	          - null
//	        meshes:
//	          crown: {vertices: [[0, 0, 0], ...], indices: [0, 1, 2, ...]}
package export
