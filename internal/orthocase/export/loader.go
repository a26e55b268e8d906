// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	awsx "github.com/staranto/orthoview/internal/aws"
	"github.com/staranto/orthoview/internal/cacheutil"
	"github.com/staranto/orthoview/internal/orthocase"
)

// Loader opens case exports. Local paths are read from disk; s3:// paths
// go through the configured S3 client and are cached on disk by ETag.
type Loader struct {
	s3       awsx.ObjectAPI
	readFile func(string) ([]byte, error)
}

var _ orthocase.Loader = (*Loader)(nil)

// Option configures a Loader.
type Option func(*Loader)

// WithS3 enables s3:// paths.
func WithS3(api awsx.ObjectAPI) Option {
	return func(l *Loader) { l.s3 = api }
}

// NewLoader returns a Loader. Without WithS3, s3:// paths fail to load.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{readFile: os.ReadFile}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and decodes the export at path.
func (l *Loader) Load(ctx context.Context, path string) (orthocase.Case, error) {
	start := time.Now()

	var (
		data []byte
		err  error
	)
	if awsx.IsS3URI(path) {
		data, err = l.fetchS3(ctx, path)
	} else {
		data, err = l.readFile(path)
		if err != nil {
			err = fmt.Errorf("failed to read case file: %w", err)
		}
	}
	if err != nil {
		return nil, err
	}

	c, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	log.Infof("loaded case %s (%s, %d teeth, %d stages) in %s",
		path, humanize.Bytes(uint64(len(data))), c.ToothCount(), c.StageCount(),
		time.Since(start).Round(time.Millisecond))

	return c, nil
}

func (l *Loader) fetchS3(ctx context.Context, uri string) ([]byte, error) {
	if l.s3 == nil {
		return nil, fmt.Errorf("s3 support is not configured, cannot load %s", uri)
	}

	bucket, key, err := awsx.ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	etag, err := awsx.ETag(ctx, l.s3, bucket, key)
	if err != nil {
		return nil, err
	}

	subdirs := []string{"s3", bucket}
	if entry, ok := cacheutil.Read(subdirs, uri, etag); ok {
		log.Debugf("cache hit: %s", entry.Path)
		return entry.Data, nil
	}

	data, err := awsx.GetObject(ctx, l.s3, bucket, key)
	if err != nil {
		return nil, err
	}

	if err := cacheutil.Write(subdirs, uri, etag, data); err != nil {
		log.WithError(err).Warnf("failed to cache %s", uri)
	}

	return data, nil
}
