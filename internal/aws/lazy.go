// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/apex/log"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// LazyObjectAPI builds its client on first use, so processes that never see
// an s3:// path never touch the AWS config chain. A failed build is retried
// on the next call.
type LazyObjectAPI struct {
	mu        sync.Mutex
	newClient func(context.Context) (ObjectAPI, error)
	client    ObjectAPI
}

var _ ObjectAPI = (*LazyObjectAPI)(nil)

func NewLazyObjectAPI(newClient func(context.Context) (ObjectAPI, error)) *LazyObjectAPI {
	return &LazyObjectAPI{newClient: newClient}
}

// NewLazyS3 defers LoadAWSConfig and NewS3 until the first request.
func NewLazyS3(opts []Option, optFns ...func(*s3v2.Options)) *LazyObjectAPI {
	return NewLazyObjectAPI(func(ctx context.Context) (ObjectAPI, error) {
		cfg, err := LoadAWSConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		log.Debugf("S3 client ready (region %q)", cfg.Region)
		return NewS3(cfg, optFns...), nil
	})
}

func (l *LazyObjectAPI) get(ctx context.Context) (ObjectAPI, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		return l.client, nil
	}
	c, err := l.newClient(ctx)
	if err != nil {
		return nil, err
	}
	l.client = c
	return c, nil
}

func (l *LazyObjectAPI) HeadObject(ctx context.Context, in *s3v2.HeadObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error) {
	c, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return c.HeadObject(ctx, in, optFns...)
}

func (l *LazyObjectAPI) GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	c, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return c.GetObject(ctx, in, optFns...)
}
