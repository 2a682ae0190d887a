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

package validate

import (
	"encoding/binary"
	"fmt"

	"github.com/novatechflow/kafscale-segdump/pkg/dump"
)

// IndexEntry is one sparse offset-index record: relative offset from the
// segment's base offset, and the byte position in the log file.
type IndexEntry struct {
	RelativeOffset uint32
	Position       uint32
}

// DecodeIndex parses the broker's fixed 8-byte-per-entry sparse offset
// index format (4-byte relative offset, 4-byte position, big-endian).
func DecodeIndex(raw []byte) ([]IndexEntry, error) {
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("index length %d is not a multiple of 8", len(raw))
	}
	entries := make([]IndexEntry, 0, len(raw)/8)
	for i := 0; i < len(raw); i += 8 {
		entries = append(entries, IndexEntry{
			RelativeOffset: binary.BigEndian.Uint32(raw[i : i+4]),
			Position:       binary.BigEndian.Uint32(raw[i+4 : i+8]),
		})
	}
	return entries, nil
}

// AssertIndexSanity wraps a batch stream and cross-checks the segment's
// sparse offset index against the base offsets actually observed: every
// index entry's implied absolute offset (baseOffsetOfSegment +
// RelativeOffset) must coincide with some batch's BaseOffset, and that
// batch's Position must match the index entry's Position. This is a pure
// addition with no effect unless the caller supplies index bytes.
func AssertIndexSanity(src Iterator, baseOffsetOfSegment int64, entries []IndexEntry) Iterator {
	want := make(map[int64]uint32, len(entries))
	for _, e := range entries {
		want[baseOffsetOfSegment+int64(e.RelativeOffset)] = e.Position
	}
	return &eachBatches{src: src, fn: func(cur dump.Batch) error {
		pos, ok := want[cur.BaseOffset]
		if !ok {
			return nil
		}
		if uint32(cur.Position) != pos {
			return fail(cur.File, cur.Line,
				"index entry for baseOffset %d says position %d, batch says %d", cur.BaseOffset, pos, cur.Position)
		}
		return nil
	}}
}
