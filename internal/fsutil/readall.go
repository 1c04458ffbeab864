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

// Package fsutil reads whole files from an afero filesystem.
package fsutil

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// ErrOpen is wrapped by ReadAll when the file cannot be opened.  Callers
// decide whether that is fatal; ReadAll never aborts.
var ErrOpen = errors.New("fsutil: cannot open file")

// ReadAll reads the whole of path into a single buffer sized by seeking to
// the end of the file.  The file is closed on every return path.
func ReadAll(fs afero.Fs, path string) (_ []byte, err error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrOpen, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("fsutil: closing %q: %w", path, cerr)
		}
	}()

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("fsutil: sizing %q: %w", path, err)
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("fsutil: rewinding %q: %w", path, err)
	}
	buf := make([]byte, size)
	if _, err = io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("fsutil: reading %q: %w", path, err)
	}
	return buf, nil
}
