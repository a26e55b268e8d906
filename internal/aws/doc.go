// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package aws contains AWS-related helpers used to fetch case exports that
// live in S3 rather than on local disk.
package aws
