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

// Package logging configures the zerolog loggers used by the bstmap tools.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

const (
	// scopeFieldName defines the key for the "scope" field in structured logs.
	scopeFieldName = "scope"

	DefaultLevel = zerolog.InfoLevel
)

// New returns a console logger writing to w at level l.  Every line carries
// a bracketed scope, "[app]" unless WithScope set another one.
func New(w io.Writer, l zerolog.Level) zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
		FormatPrepare: func(m map[string]any) error {
			if v, ok := m[scopeFieldName].(string); ok && v != "" {
				m[scopeFieldName] = fmt.Sprintf("[%s]", v)
			} else {
				m[scopeFieldName] = "[app]"
			}
			return nil
		},
		FieldsExclude: []string{scopeFieldName},
		PartsOrder: []string{
			zerolog.LevelFieldName,
			zerolog.TimestampFieldName,
			scopeFieldName,
			zerolog.MessageFieldName,
		},
	}
	return zerolog.New(consoleWriter).Level(l).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog.Level.  An empty name means
// DefaultLevel.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return DefaultLevel, nil
	}
	l, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging: %w", err)
	}
	return l, nil
}

// WithScope is a helper for components to create a sub-logger with their
// component name.
func WithScope(logger zerolog.Logger, scope string) zerolog.Logger {
	return logger.With().Str(scopeFieldName, scope).Logger()
}
