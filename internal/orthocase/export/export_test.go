// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package export

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/orthoview/internal/orthocase"
)

func loadFixture(t *testing.T) *Case {
	t.Helper()
	c, err := NewLoader().Load(context.Background(), filepath.Join("testdata", "case.yaml"))
	require.NoError(t, err)
	return c.(*Case)
}

func toothByID(t *testing.T, c orthocase.Case, id int) orthocase.Tooth {
	t.Helper()
	for _, jaw := range c.JawTypes() {
		for _, th := range c.Teeth(jaw) {
			if th.ClinicalID() == id {
				return th
			}
		}
	}
	t.Fatalf("tooth %d not found", id)
	return nil
}

func TestLoad_Structure(t *testing.T) {
	c := loadFixture(t)

	assert.Equal(t, filepath.Join("testdata", "case.yaml"), c.Path())
	assert.Equal(t, []orthocase.JawType{orthocase.Maxilla, orthocase.Mandible}, c.JawTypes())
	assert.Len(t, c.Teeth(orthocase.Maxilla), 2)
	assert.Len(t, c.Teeth(orthocase.Mandible), 1)
	assert.Equal(t, 3, c.ToothCount())
	assert.Equal(t, 3, c.StageCount())
}

func TestRelativeTransform(t *testing.T) {
	c := loadFixture(t)
	th := toothByID(t, c, 11)

	tr, err := th.RelativeTransform(0)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.InDelta(t, 1.0, tr.Rotation.Real, 1e-12)

	// Non-unit rotations are normalized on load.
	tr, err = th.RelativeTransform(1)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, 0.5, tr.Translation.X)
	assert.Equal(t, -0.25, tr.Translation.Y)
	assert.InDelta(t, 1.0, tr.Rotation.Real, 1e-12)

	// An explicit null stage is "no data", not an error.
	tr, err = th.RelativeTransform(2)
	assert.NoError(t, err)
	assert.Nil(t, tr)

	for _, stage := range []int{-1, 3} {
		_, err = th.RelativeTransform(stage)
		assert.ErrorIs(t, err, ErrStageOutOfRange)
	}

	_, err = toothByID(t, c, 31).RelativeTransform(0)
	assert.ErrorIs(t, err, ErrStageOutOfRange)
}

func TestRelativeTransform_ReturnsCopy(t *testing.T) {
	th := toothByID(t, loadFixture(t), 21)

	tr, err := th.RelativeTransform(0)
	require.NoError(t, err)
	tr.Translation.X = 42

	again, err := th.RelativeTransform(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, again.Translation.X)
}

func TestMesh(t *testing.T) {
	th := toothByID(t, loadFixture(t), 11)

	crown, err := th.Mesh(orthocase.Crown)
	require.NoError(t, err)
	require.NotNil(t, crown)
	assert.Len(t, crown.Vertices, 6)
	assert.Empty(t, crown.Indices)

	root, err := th.Mesh(orthocase.Root)
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, []int{0, 1, 2, 2, 1, 0}, root.Indices)

	short, err := th.Mesh(orthocase.ShortRoot)
	assert.NoError(t, err)
	assert.Nil(t, short)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "not yaml",
			doc:     "jaws: [",
			wantErr: "failed to decode",
		},
		{
			name:    "unknown jaw",
			doc:     "jaws: [{type: middle}]",
			wantErr: "unknown jaw type",
		},
		{
			name:    "jaw twice",
			doc:     "jaws: [{type: upper}, {type: maxilla}]",
			wantErr: "listed twice",
		},
		{
			name:    "duplicate tooth",
			doc:     "jaws: [{type: upper, teeth: [{id: 11}]}, {type: lower, teeth: [{id: 11}]}]",
			wantErr: "appears in both",
		},
		{
			name:    "short translation",
			doc:     "jaws: [{type: upper, teeth: [{id: 11, stages: [{translation: [1, 2], rotation: [0, 0, 0, 1]}]}]}]",
			wantErr: "translation needs 3",
		},
		{
			name:    "zero rotation",
			doc:     "jaws: [{type: upper, teeth: [{id: 11, stages: [{translation: [1, 2, 3], rotation: [0, 0, 0, 0]}]}]}]",
			wantErr: "not a valid quaternion",
		},
		{
			name:    "unknown variant",
			doc:     "jaws: [{type: upper, teeth: [{id: 11, meshes: {enamel: {vertices: []}}}]}]",
			wantErr: "unknown mesh variant",
		},
		{
			name:    "bad vertex arity",
			doc:     "jaws: [{type: upper, teeth: [{id: 11, meshes: {crown: {vertices: [[1, 2]]}}}]}]",
			wantErr: "failed to decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("inline", []byte(tt.doc))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParse_JSON(t *testing.T) {
	doc := `{"jaws": [{"type": "lower", "teeth": [{"id": 36, "stages": [null, {"translation": [1, 2, 3], "rotation": [0, 0, 1, 0]}]}]}]}`

	c, err := Parse("case.json", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, c.StageCount())

	th := c.Teeth(orthocase.Mandible)[0]
	tr, err := th.RelativeTransform(1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, tr.Translation.Z)
	assert.InDelta(t, 1.0, tr.Rotation.Kmag, 1e-12)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join("testdata", "nope.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

type fakeObjects struct {
	body []byte
	etag string
	gets int
}

func (f *fakeObjects) HeadObject(_ context.Context, _ *s3v2.HeadObjectInput, _ ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error) {
	etag := f.etag
	if etag == "" {
		etag = `"v1"`
	}
	return &s3v2.HeadObjectOutput{ETag: awsv2.String(etag)}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, _ *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	f.gets++
	return &s3v2.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func TestLoad_S3(t *testing.T) {
	t.Setenv("ORTHOVIEW_CACHE_DIR", t.TempDir())
	t.Setenv("ORTHOVIEW_CACHE", "")

	api := &fakeObjects{body: []byte("jaws: [{type: upper, teeth: [{id: 11}]}]")}
	l := NewLoader(WithS3(api))

	c, err := l.Load(context.Background(), "s3://cases/a.yaml")
	require.NoError(t, err)
	assert.Equal(t, "s3://cases/a.yaml", c.Path())
	assert.Len(t, c.Teeth(orthocase.Maxilla), 1)

	// Second load with an unchanged ETag is served from the disk cache.
	_, err = l.Load(context.Background(), "s3://cases/a.yaml")
	require.NoError(t, err)
	assert.Equal(t, 1, api.gets)
}

func TestLoad_S3Republished(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ORTHOVIEW_CACHE_DIR", dir)
	t.Setenv("ORTHOVIEW_CACHE", "")

	api := &fakeObjects{body: []byte("jaws: [{type: upper, teeth: [{id: 11}]}]"), etag: `"v1"`}
	l := NewLoader(WithS3(api))

	_, err := l.Load(context.Background(), "s3://cases/a.yaml")
	require.NoError(t, err)

	api.etag = `"v2"`
	api.body = []byte("jaws: [{type: upper, teeth: [{id: 11}, {id: 12}]}]")
	c, err := l.Load(context.Background(), "s3://cases/a.yaml")
	require.NoError(t, err)
	assert.Len(t, c.Teeth(orthocase.Maxilla), 2)
	assert.Equal(t, 2, api.gets)

	// The new version replaced the old one on disk.
	files, err := os.ReadDir(filepath.Join(dir, "s3", "cases"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestLoad_S3NotConfigured(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), "s3://cases/a.yaml")
	assert.ErrorContains(t, err, "s3 support is not configured")
}
