// Copyright 2026 Alexander Alten (novatechflow), NovaTechflow (novatechflow.com).
// This project is supported and financed by Scalytics, Inc. (www.scalytics.io).
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

package dump

import (
	"errors"
	"fmt"
)

// ErrMalformed is the sentinel wrapped by every UnexpectedFileContentError,
// so callers can test with errors.Is(err, dump.ErrMalformed) without
// caring about the concrete type.
var ErrMalformed = errors.New("unexpected dump file content")

// ErrIllegalState is the sentinel wrapped by every IllegalStateError.
var ErrIllegalState = errors.New("illegal state")

// UnexpectedFileContentError reports malformed input: a missing or
// mismatched preamble, a line that doesn't match its expected pattern, a
// filename offset that disagrees with the declared starting offset, or a
// transaction-state payload format violation.
type UnexpectedFileContentError struct {
	Label   string
	Line    int
	Message string
}

func (e *UnexpectedFileContentError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Label, e.Line, e.Message)
}

func (e *UnexpectedFileContentError) Unwrap() error {
	return ErrMalformed
}

func malformed(label string, line int, format string, args ...any) error {
	return &UnexpectedFileContentError{Label: label, Line: line, Message: fmt.Sprintf(format, args...)}
}

// IllegalStateError reports an invariant violation: a record batch
// expecting N data (or control) records whose next line doesn't match the
// expected pattern, a leader-epoch or position regression, an illegal
// transaction state transition, a control batch with count != 1, or a
// transactional data batch with producerId/producerEpoch == -1 on a DATA
// segment.
type IllegalStateError struct {
	Label   string
	Line    int
	Message string
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Label, e.Line, e.Message)
}

func (e *IllegalStateError) Unwrap() error {
	return ErrIllegalState
}

func illegalState(label string, line int, format string, args ...any) error {
	return &IllegalStateError{Label: label, Line: line, Message: fmt.Sprintf(format, args...)}
}
