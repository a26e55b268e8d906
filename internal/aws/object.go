// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Scheme is the path prefix that routes a case path to S3.
const Scheme = "s3://"

// ObjectAPI is the subset of the S3 client used to fetch objects.
type ObjectAPI interface {
	HeadObject(ctx context.Context, in *s3v2.HeadObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// IsS3URI reports whether path uses the s3:// scheme.
func IsS3URI(path string) bool {
	return strings.HasPrefix(path, Scheme)
}

// ParseS3URI splits s3://bucket/key into its bucket and key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}
	rest := strings.TrimPrefix(uri, Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri must be s3://bucket/key: %s", uri)
	}
	return bucket, key, nil
}

// ETag returns the object's current entity tag without downloading it.
func ETag(ctx context.Context, api ObjectAPI, bucket, key string) (string, error) {
	out, err := api.HeadObject(ctx, &s3v2.HeadObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to head S3 object: %w", notExist(err, bucket, key))
	}
	return strings.Trim(awsv2.ToString(out.ETag), `"`), nil
}

// GetObject downloads the full object body.
func GetObject(ctx context.Context, api ObjectAPI, bucket, key string) ([]byte, error) {
	log.Debugf("s3 get: bucket=%s key=%s", bucket, key)

	result, err := api.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", notExist(err, bucket, key))
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	return data, nil
}

// notExist maps S3's missing-object errors onto fs.ErrNotExist so callers can
// treat local and remote paths alike.
func notExist(err error, bucket, key string) error {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	var nsb *types.NoSuchBucket
	if errors.As(err, &nf) || errors.As(err, &nsk) || errors.As(err, &nsb) {
		return fmt.Errorf("s3://%s/%s: %w", bucket, key, fs.ErrNotExist)
	}
	return err
}
