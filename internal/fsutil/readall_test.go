// Copyright 2024 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closeCountingFs counts how many opened files get closed.
type closeCountingFs struct {
	afero.Fs
	opened, closed int
}

type countedFile struct {
	afero.File
	fs *closeCountingFs
}

func (f countedFile) Close() error {
	f.fs.closed++
	return f.File.Close()
}

func (c *closeCountingFs) Open(name string) (afero.File, error) {
	f, err := c.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	c.opened++
	return countedFile{File: f, fs: c}, nil
}

func TestReadAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/keys.bin", []byte{0, 1, 2, 0xff}, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/empty", nil, 0o644))

	tcs := []struct {
		name string
		path string
		want []byte
	}{
		{name: "binary content", path: "/data/keys.bin", want: []byte{0, 1, 2, 0xff}},
		{name: "empty file", path: "/data/empty", want: []byte{}},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			counting := &closeCountingFs{Fs: fs}
			got, err := ReadAll(counting, tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, 1, counting.opened)
			assert.Equal(t, 1, counting.closed)
		})
	}
}

func TestReadAllMissing(t *testing.T) {
	counting := &closeCountingFs{Fs: afero.NewMemMapFs()}
	_, err := ReadAll(counting, "/nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOpen)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, counting.opened)
}

func TestReadAllOsFs(t *testing.T) {
	dir := t.TempDir()
	want := []byte("10: x\n5: y\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "script"), want, 0o644))

	got, err := ReadAll(afero.NewBasePathFs(afero.NewOsFs(), dir), "script")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
