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

// Package replay loads scripts of map operations and replays them against
// a bstmap.Map.
//
// A script is YAML:
//
//	entries:
//	  - {key: "10", value: "x"}
//	  - {key: "5", value: "y"}
//	remove: ["10"]
//	lookup: ["5", "10"]
//
// Entries are inserted in order, then removals run, then lookups.
package replay

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/google/bstmap"
	"github.com/google/bstmap/internal/fsutil"
)

var (
	ErrEmptyScript = errors.New("replay: script has no operations")
	ErrBadKey      = errors.New("replay: key is not an integer")
)

// Entry is one key/value pair to insert.
type Entry struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Script is a sequence of inserts, removals and lookups.
type Script struct {
	Entries []Entry  `yaml:"entries"`
	Remove  []string `yaml:"remove"`
	Lookup  []string `yaml:"lookup"`
}

// Parse decodes a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("replay: decoding script: %w", err)
	}
	if len(s.Entries) == 0 && len(s.Remove) == 0 && len(s.Lookup) == 0 {
		return nil, ErrEmptyScript
	}
	return &s, nil
}

// Load reads and decodes the script at path.
func Load(fs afero.Fs, path string) (*Script, error) {
	data, err := fsutil.ReadAll(fs, path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Options control how a script is replayed.
type Options struct {
	// Numeric orders keys as 64-bit integers instead of strings.
	Numeric bool
	// Replace overwrites the value of an equivalent key instead of
	// storing a duplicate entry.
	Replace bool
}

// Removal is the outcome of one remove operation.
type Removal struct {
	Key     string
	Removed bool
}

// Lookup is the outcome of one lookup operation.
type Lookup struct {
	Key   string
	Value string
	Found bool
}

// Report describes the map after a replay.
type Report struct {
	Len      int
	Depth    int
	Removals []Removal
	Lookups  []Lookup
}

// WriteTo prints the report, one line per fact.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var n int64
	write := func(format string, args ...any) error {
		c, err := fmt.Fprintf(w, format, args...)
		n += int64(c)
		return err
	}
	if err := write("len: %d\ndepth: %d\n", r.Len, r.Depth); err != nil {
		return n, err
	}
	for _, rm := range r.Removals {
		if err := write("remove %s: %t\n", rm.Key, rm.Removed); err != nil {
			return n, err
		}
	}
	for _, l := range r.Lookups {
		var err error
		if l.Found {
			err = write("get %s: %s\n", l.Key, l.Value)
		} else {
			err = write("get %s: not found\n", l.Key)
		}
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Run replays s into a fresh map and reports the result.
func Run(s *Script, opts Options, logger zerolog.Logger) (*Report, error) {
	if opts.Numeric {
		return run(s, opts, logger, parseInt)
	}
	return run(s, opts, logger, func(k string) (string, error) { return k, nil })
}

func parseInt(k string) (int64, error) {
	n, err := strconv.ParseInt(k, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadKey, k)
	}
	return n, nil
}

func run[K bstmap.Ordered](s *Script, opts Options, logger zerolog.Logger, parse func(string) (K, error)) (*Report, error) {
	m := bstmap.NewOrdered[K, string]()
	for i, e := range s.Entries {
		k, err := parse(e.Key)
		if err != nil {
			return nil, fmt.Errorf("replay: entry %d: %w", i, err)
		}
		if !opts.Replace {
			m.Insert(k, e.Value)
			continue
		}
		if old, ok := m.ReplaceOrInsert(k, e.Value); ok {
			logger.Debug().Str("key", e.Key).Str("old", old).Str("new", e.Value).Msg("replaced value")
		}
	}
	logger.Debug().Int("entries", len(s.Entries)).Msg("inserted")

	report := &Report{}
	for i, key := range s.Remove {
		k, err := parse(key)
		if err != nil {
			return nil, fmt.Errorf("replay: remove %d: %w", i, err)
		}
		removed := m.Delete(k)
		if !removed {
			logger.Warn().Str("key", key).Msg("remove of missing key")
		}
		report.Removals = append(report.Removals, Removal{Key: key, Removed: removed})
	}
	for i, key := range s.Lookup {
		k, err := parse(key)
		if err != nil {
			return nil, fmt.Errorf("replay: lookup %d: %w", i, err)
		}
		v, ok := m.Get(k)
		report.Lookups = append(report.Lookups, Lookup{Key: key, Value: v, Found: ok})
	}
	if err := m.Check(); err != nil {
		return nil, err
	}

	report.Len, report.Depth = m.Len(), m.Depth()
	logger.Info().Int("len", report.Len).Int("depth", report.Depth).Msg("replay complete")
	return report, nil
}
