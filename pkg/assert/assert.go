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

// Package assert provides functions to assert a condition in tests
package assert

import (
	"fmt"
	"net/http"
	"reflect"
	"runtime/debug"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
)

func getErrorMessage(m string, a, b interface{}) string {
	return fmt.Sprintf(`%s.
Actual:
========================
%+v
========================

Expected:
========================
%+v
========================

%s`, m, a, b, string(debug.Stack()))
}

// Equal errors a test if the actual does not match the expected
func Equal(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if a == b {
		return
	}

	t.Error(getErrorMessage(message, a, b))
}

// Equalf fails a test if the actual does not match the expected
func Equalf(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if a == b {
		return
	}

	t.Fatal(getErrorMessage(message, a, b))
}

// NotEqual fails a test if the actual matches the expected
func NotEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if a != b {
		return
	}

	t.Error(getErrorMessage(message, a, b))
}

// DeepEqual fails a test if the actual does not deeply equal the expected.
// Nil and empty slices or maps are treated as equal.
func DeepEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if cmp.Equal(a, b, cmpopts.EquateEmpty()) {
		return
	}

	t.Errorf("%s.\nDiff (-actual +expected):\n%s", message, cmp.Diff(a, b, cmpopts.EquateEmpty()))
}

// IsNil fails a test immediately if the given error is not nil
func IsNil(t *testing.T, err error, message string) {
	t.Helper()

	if err == nil {
		return
	}

	t.Fatal(errors.Wrap(err, message))
}

// ErrorType fails a test if the given error does not have the type of the target in its chain.
// target must be a non-nil pointer to a type implementing error.
func ErrorType(t *testing.T, err error, target interface{}, message string) {
	t.Helper()

	if err == nil {
		t.Fatalf("%s. expected an error of type %s but got nil", message, reflect.TypeOf(target).Elem())
	}

	if !errors.As(err, target) {
		t.Errorf("%s. expected an error of type %s but got %T: %v", message, reflect.TypeOf(target).Elem(), errors.Cause(err), err)
	}
}

// StatusCodeEquals fails a test if the response does not have the expected status code
func StatusCodeEquals(t *testing.T, res *http.Response, expected int, message string) {
	t.Helper()

	if res.StatusCode != expected {
		t.Errorf("%s. status code mismatch. expected %d but got %d", message, expected, res.StatusCode)
	}
}
