/* Copyright 2025 Memorymap Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package ui provides the user interface for the command line client
package ui

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/pkg/errors"
)

// Stdin is the reader used for prompts and piped input
var Stdin io.Reader = os.Stdin

// Confirm prompts for user input to confirm a choice. An empty answer
// confirms only when optimistic is set.
func Confirm(question string, optimistic bool) (bool, error) {
	choices := "(y/N)"
	if optimistic {
		choices = "(Y/n)"
	}
	log.Askf("%s %s", false, question, choices)

	input, err := bufio.NewReader(Stdin).ReadString('\n')
	if err != nil && !(err == io.EOF && input != "") {
		return false, errors.Wrap(err, "Failed to get user input")
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	case "":
		return optimistic, nil
	default:
		return false, nil
	}
}

// IsPiped reports whether stdin is a pipe or a file rather than a terminal
func IsPiped() bool {
	f, ok := Stdin.(*os.File)
	if !ok {
		return true
	}

	fi, err := f.Stat()
	if err != nil {
		return false
	}

	return fi.Mode()&os.ModeCharDevice == 0
}

// ReadStdInput reads all lines from stdin
func ReadStdInput() (string, error) {
	var lines []string

	s := bufio.NewScanner(Stdin)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return "", errors.Wrap(err, "reading pipe")
	}

	return strings.Join(lines, "\n"), nil
}
