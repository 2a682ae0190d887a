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

package grpcservice

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/novatechflow/kafscale-segdump/pkg/dump"
)

func TestToStatusNil(t *testing.T) {
	if err := ToStatus(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestToStatusMalformed(t *testing.T) {
	err := ToStatus(wrapMalformed())
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected a status error")
	}
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", st.Code())
	}
}

func TestToStatusIllegalState(t *testing.T) {
	err := ToStatus(wrapIllegalState())
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected a status error")
	}
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %v", st.Code())
	}
}

func TestToStatusOther(t *testing.T) {
	err := ToStatus(errors.New("boom"))
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected a status error")
	}
	if st.Code() != codes.Internal {
		t.Fatalf("expected Internal, got %v", st.Code())
	}
}

func wrapMalformed() error {
	return &wrapped{dump.ErrMalformed}
}

func wrapIllegalState() error {
	return &wrapped{dump.ErrIllegalState}
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }
