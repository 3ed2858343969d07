// Copyright 2024 qb64-lang-utils contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command qbparse parses a single BASIC source file and reports the
// resulting statement count, or the ParseError message on failure. It is
// a thin driver over the qbparse package, not part of the parser's core.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flukiluke/qb64-lang-utils"
)

var verbose bool

var command = &cobra.Command{
	Use:  "qbparse source.bas",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if verbose {
			_ = os.Setenv("TRACE_TOKENS", "1")
		}
		source, err := os.ReadFile(args[0])
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		program, err := qbparse.Parse(string(source))
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("%s: %d top-level statement(s)\n", args[0], len(program.MainStatements()))
	},
}

func init() {
	command.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace token movement to stderr")
}

func main() {
	if err := command.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
