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

// Package dump parses the textual output of the broker's offline segment
// dump tool into a structured, validated stream of batches and records.
package dump

// SegmentType classifies a dump by the kind of partition it was produced
// from, inferred from the parent directory name of the dumped file.
type SegmentType int

const (
	// SegmentData is an ordinary topic-partition log segment.
	SegmentData SegmentType = iota
	// SegmentTransactionState is a segment of the __transaction_state topic.
	SegmentTransactionState
	// SegmentConsumerOffsets is a segment of the __consumer_offsets topic.
	SegmentConsumerOffsets
)

func (t SegmentType) String() string {
	switch t {
	case SegmentTransactionState:
		return "TRANSACTION_STATE"
	case SegmentConsumerOffsets:
		return "CONSUMER_OFFSETS"
	default:
		return "DATA"
	}
}

// ProducerSession identifies one incarnation of a transactional producer.
type ProducerSession struct {
	ProducerID    int64
	ProducerEpoch int16
}

// Segment is a parsed dump. Its Batches sequence is single-pass: callers
// drive it with Next/Batch/Err/Close exactly once.
type Segment struct {
	// Label is the name used in error messages (a filename or a caller
	// supplied identifier for in-memory input).
	Label string
	// Type is the segment's inferred kind.
	Type SegmentType
	// Topic is the inferred topic name, or "" if it could not be derived.
	Topic string
	// DeepIteration is true iff the dump was produced with per-record
	// detail (the broker's --deep-iteration dump option).
	DeepIteration bool

	batches *Batches
}

// Batches returns the segment's lazy, single-pass batch sequence. Calling
// it more than once returns the same exhausted-or-not iterator; the
// segment does not support re-iteration.
func (s *Segment) Batches() *Batches {
	return s.batches
}

// Batch is one record batch extracted from the dump.
type Batch struct {
	// File and Line identify the batch header line for error reporting.
	File string
	Line int

	BaseOffset           int64
	LastOffset           int64
	Count                int32
	BaseSequence         int32
	LastSequence         int32
	ProducerID           int64
	ProducerEpoch        int16
	PartitionLeaderEpoch int32
	IsTransactional      bool
	IsControl            bool
	Position             int64
	CreateTime           int64
	Size                 int32
	Magic                int8
	CompressCodec        string
	CRC                  uint32
	IsValid              bool
	// DeleteHorizonMs is absent when the dump's deleteHorizonMs clause is
	// missing or carries the literal OptionalLong.empty.
	DeleteHorizonMs *int64

	// Messages holds one entry per record when the dump carries
	// per-record detail (DeepIteration); it is empty for header-only
	// dumps, never partially populated.
	Messages []BaseMessage
}

// Session returns the batch's producer session identity.
func (b Batch) Session() ProducerSession {
	return ProducerSession{ProducerID: b.ProducerID, ProducerEpoch: b.ProducerEpoch}
}
