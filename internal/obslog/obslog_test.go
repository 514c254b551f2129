/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package obslog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/provctx/internal/obslog"
)

type recordingLogger struct {
	errors []string
}

func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(msg string, args ...any) {
	r.errors = append(r.errors, msg)
}

func TestSwallowTeardownError_LogsNonNil(t *testing.T) {
	rec := &recordingLogger{}
	obslog.SwallowTeardownError(rec, "base", errors.New("boom"))
	assert.Len(t, rec.errors, 1)
}

func TestSwallowTeardownError_IgnoresNil(t *testing.T) {
	rec := &recordingLogger{}
	obslog.SwallowTeardownError(rec, "base", nil)
	assert.Empty(t, rec.errors)
}

func TestDefault_ReturnsSameInstance(t *testing.T) {
	assert.Same(t, obslog.Default(), obslog.Default())
}
