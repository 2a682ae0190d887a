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

// Package grpcservice maps the scan driver's error taxonomy onto gRPC
// status codes, the same codes/status pairing cmd/broker/main.go's
// control service uses for its own unimplemented-method errors. This
// package does not carry a generated service definition: wiring a real
// ScanSegment RPC requires .proto-generated stubs, which are out of reach
// without running protoc; see DESIGN.md.
package grpcservice

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/novatechflow/kafscale-segdump/pkg/dump"
)

// ToStatus maps a scan error to a gRPC status error: malformed input
// becomes InvalidArgument (the caller handed over a bad segment),
// invariant violations become FailedPrecondition (the segment parsed but
// violates an on-log guarantee), and anything else becomes Internal.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, dump.ErrMalformed):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, dump.ErrIllegalState):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
