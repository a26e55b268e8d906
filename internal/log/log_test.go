// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/orthoview/internal/config"
)

func TestCustomHandler_HandleLog(t *testing.T) {
	var buf bytes.Buffer
	h := NewCustomHandler(&buf)

	e := &log.Entry{
		Level:     log.ErrorLevel,
		Message:   "no transform",
		Timestamp: time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
		Fields:    log.Fields{"tooth": 9, "stage": 3},
	}

	assert.NoError(t, h.HandleLog(e))
	assert.Equal(t, "2025-03-04 05:06:07 E no transform stage=3 tooth=9\n", buf.String())
}

func TestInitLogger_Level(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want log.Level
	}{
		{name: "default", env: "", want: log.InfoLevel},
		{name: "debug", env: "debug", want: log.DebugLevel},
		{name: "upper case", env: "ERROR", want: log.ErrorLevel},
		{name: "garbage", env: "chatty", want: log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ORTHOVIEW_CFG", filepath.Join(t.TempDir(), "missing.yaml"))
			t.Setenv("ORTHOVIEW_LOG", tt.env)
			config.Reset()
			t.Cleanup(config.Reset)
			InitLogger()
			logger, ok := log.Log.(*log.Logger)
			assert.True(t, ok)
			assert.Equal(t, tt.want, logger.Level)
		})
	}
}

func TestInitLogger_LevelFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: warn\n"), 0o644))
	t.Setenv("ORTHOVIEW_CFG", cfgPath)
	t.Setenv("ORTHOVIEW_LOG", "")
	config.Reset()
	t.Cleanup(config.Reset)

	InitLogger()
	logger, ok := log.Log.(*log.Logger)
	require.True(t, ok)
	assert.Equal(t, log.WarnLevel, logger.Level)

	t.Setenv("ORTHOVIEW_LOG", "debug")
	InitLogger()
	assert.Equal(t, log.DebugLevel, logger.Level)
}
