// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package cacheutil keeps downloaded case exports on disk so a restarted
// server does not fetch the same remote object twice.
//
// There is one file per remote object. Its first line is the version tag
// (the S3 ETag) the body was downloaded at, and the export body follows
// unchanged. A read with a different tag is a miss and drops the file, so a
// republished case replaces its old copy instead of piling up next to it.
package cacheutil

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/orthoview/internal/config"
)

// Entry is a cached object body and the tag it was stored under.
type Entry struct {
	Key  string
	Tag  string
	Path string
	Data []byte
}

// Dir resolves the base cache directory.
// Precedence:
//  1. ORTHOVIEW_CACHE_DIR, if set and non-empty
//  2. the cache.dir config key
//  3. os.UserCacheDir()/orthoview
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("ORTHOVIEW_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if c, _ := config.GetString("cache.dir", ""); c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "orthoview"), true
	}
	return "", false
}

// Enabled returns true unless ORTHOVIEW_CACHE explicitly disables it
// ("0"/"false"). Without the env var, the cache.enabled config key decides.
func Enabled() bool {
	if enabled, ok := os.LookupEnv("ORTHOVIEW_CACHE"); ok && enabled != "" {
		return enabled != "0" && enabled != "false"
	}
	on, err := config.GetBool("cache.enabled", true)
	return err != nil || on
}

// EnsureBaseDir creates the base directory when caching is on. It returns
// the directory and whether entries can be stored there.
func EnsureBaseDir() (string, bool, error) {
	base, ok := baseDir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// Read returns the entry for key if it was stored under tag. An entry with
// any other tag is stale and is removed.
func Read(subdirs []string, key, tag string) (*Entry, bool) {
	p, ok := entryPath(subdirs, key)
	if !ok {
		return nil, false
	}

	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}

	stored, body, ok := splitEntry(raw)
	if !ok || stored != tag {
		log.Debugf("dropping cached %s (tag %q, want %q)", key, stored, tag)
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).Warnf("failed to remove stale cache file %s", p)
		}
		return nil, false
	}

	return &Entry{Key: key, Tag: tag, Path: p, Data: body}, true
}

// Write stores data for key under tag, replacing whatever was cached for key
// before. The file is renamed into place so readers never see a partial body.
func Write(subdirs []string, key, tag string, data []byte) error {
	if strings.ContainsAny(tag, "\r\n") {
		return fmt.Errorf("cache tag for %s must be a single line", key)
	}
	p, ok := entryPath(subdirs, key)
	if !ok {
		return nil // treat as disabled.
	}

	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".partial-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	w := bufio.NewWriter(tmp)
	_, _ = w.WriteString(tag + "\n")
	_, _ = w.Write(data)
	if err := w.Flush(); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Purge removes entries not refreshed within maxAge and returns how many it
// removed. A non-positive maxAge keeps everything.
func Purge(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		log.Debug("cache cleaning disabled")
		return 0, nil
	}
	base, ok := Dir()
	if !ok {
		return 0, nil
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == base && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to purge cache: %w", err)
	}

	if removed > 0 {
		log.Infof("purged %d cached case file(s) older than %s", removed, maxAge)
	}
	return removed, nil
}

func baseDir() (string, bool) {
	if !Enabled() {
		return "", false
	}
	return Dir()
}

// entryPath is where key lives, or false when caching is off.
func entryPath(subdirs []string, key string) (string, bool) {
	base, ok := baseDir()
	if !ok {
		return "", false
	}
	parts := append([]string{base}, subdirs...)
	return filepath.Join(append(parts, fileName(key))...), true
}

// fileName hashes key with MD5 so any URI maps to a flat, safe name.
func fileName(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

func splitEntry(raw []byte) (tag string, body []byte, ok bool) {
	i := bytes.IndexByte(raw, '\n')
	if i < 0 {
		return "", nil, false
	}
	return string(raw[:i]), raw[i+1:], true
}
