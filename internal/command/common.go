// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v3"

	awsx "github.com/staranto/orthoview/internal/aws"
	"github.com/staranto/orthoview/internal/meta"
	"github.com/staranto/orthoview/internal/orthocase/export"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// NewLoader builds an export loader from the case flags. The S3 client is
// only constructed once an s3:// path is actually requested.
func NewLoader(cmd *cli.Command) *export.Loader {
	var opts []awsx.Option
	if profile := cmd.String("aws-profile"); profile != "" {
		opts = append(opts, awsx.WithProfile(profile))
	}
	if region := cmd.String("aws-region"); region != "" {
		opts = append(opts, awsx.WithRegion(region))
	}
	if attempts := cmd.Int("aws-retries"); attempts > 1 {
		opts = append(opts, awsx.WithRetryer(func() awsv2.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), attempts)
		}))
	}

	var s3Opts []func(*s3v2.Options)
	if endpoint := cmd.String("s3-endpoint"); endpoint != "" {
		s3Opts = append(s3Opts, awsx.WithS3Endpoint(endpoint))
	}
	if cmd.Bool("s3-path-style") {
		s3Opts = append(s3Opts, awsx.WithPathStyle())
	}

	return export.NewLoader(export.WithS3(awsx.NewLazyS3(opts, s3Opts...)))
}

// CasePath is the first positional argument, or --default-case without one.
func CasePath(cmd *cli.Command) string {
	if cmd.Args().Present() {
		return cmd.Args().First()
	}
	return cmd.String("default-case")
}
