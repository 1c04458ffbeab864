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

// Command bstmap replays a YAML script of inserts, removals and lookups
// against an unbalanced binary search tree map and prints its size, depth
// and lookup results.
package main

import (
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/google/bstmap/internal/logging"
	"github.com/google/bstmap/internal/replay"
)

const version = "0.1.0"

func newRootCmd(fs afero.Fs, stderr io.Writer) *cobra.Command {
	var (
		logLevel string
		baseDir  string
		opts     replay.Options
	)

	cmd := &cobra.Command{
		Use:           "bstmap [flags] SCRIPT",
		Short:         "Replay map operations against an unbalanced binary search tree",
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger := logging.WithScope(logging.New(stderr, level), "REPLAY")

			scriptFs := fs
			if baseDir != "" {
				scriptFs = afero.NewBasePathFs(fs, baseDir)
			}
			script, err := replay.Load(scriptFs, args[0])
			if err != nil {
				return err
			}
			logger.Debug().Str("script", args[0]).Int("entries", len(script.Entries)).Msg("loaded")

			report, err := replay.Run(script, opts, logger)
			if err != nil {
				return err
			}
			_, err = report.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "resolve SCRIPT relative to this directory")
	cmd.Flags().BoolVar(&opts.Numeric, "numeric", false, "order keys as integers instead of strings")
	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "overwrite equivalent keys instead of storing duplicates")
	return cmd
}

// runMain runs the command with args and returns the process exit code.
// Failures are logged to stderr.
func runMain(fs afero.Fs, stdout, stderr io.Writer, args []string) int {
	cmd := newRootCmd(fs, stderr)
	cmd.SetOut(stdout)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		logger := logging.New(stderr, logging.DefaultLevel)
		logger.Error().Err(err).Msg("bstmap failed")
		return 1
	}
	return 0
}

func main() {
	os.Exit(runMain(afero.NewOsFs(), os.Stdout, os.Stderr, os.Args[1:]))
}
