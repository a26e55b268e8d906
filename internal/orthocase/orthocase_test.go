// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package orthocase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJawType(t *testing.T) {
	tests := []struct {
		in      string
		want    JawType
		wantErr bool
	}{
		{"upper", Maxilla, false},
		{"Maxilla", Maxilla, false},
		{" lower ", Mandible, false},
		{"mandible", Mandible, false},
		{"middle", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseJawType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMeshVariant_RoundTripsNames(t *testing.T) {
	for _, v := range MeshVariants() {
		got, err := ParseMeshVariant(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	_, err := ParseMeshVariant("enamel")
	assert.ErrorContains(t, err, `unknown mesh variant "enamel"`)
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "upper", Maxilla.String())
	assert.Equal(t, "lower", Mandible.String())
	assert.Equal(t, "short_root", ShortRoot.String())
	assert.Equal(t, "MeshVariant(9)", MeshVariant(9).String())
}

func TestLoaderFunc(t *testing.T) {
	boom := errors.New("boom")
	var got string
	l := LoaderFunc(func(_ context.Context, path string) (Case, error) {
		got = path
		return nil, boom
	})

	_, err := l.Load(context.Background(), "a.oas")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "a.oas", got)
}
