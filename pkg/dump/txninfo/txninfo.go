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

// Package txninfo folds a validated batch stream into a single summary of
// transactional activity. The fold is inherently sequential: there is no
// defined way to combine two partial summaries, so Collect must be driven
// by a single-threaded consumer of one segment's batch stream start to
// finish.
package txninfo

import (
	"fmt"

	"github.com/novatechflow/kafscale-segdump/pkg/dump"
)

// FirstBatchInTxn records the batch a transaction opened on, and how many
// transactional batches have been observed for it so far.
type FirstBatchInTxn struct {
	Batch dump.Batch
	Count int
}

// EmptyTransaction is a control batch/record pair closing a transaction
// that never had an open FirstBatchInTxn in this segment, i.e. one whose
// opening data batch fell outside the dumped range.
type EmptyTransaction struct {
	ControlBatch  dump.Batch
	ControlRecord dump.BaseMessage
}

// Stats is a running count/min/max/sum accumulator, reported as part of
// Summary for transaction size (in data batches) and duration (in ms).
type Stats struct {
	Count int64
	Min   int64
	Max   int64
	Sum   int64
}

func (s *Stats) accept(v int64) {
	if s.Count == 0 || v < s.Min {
		s.Min = v
	}
	if s.Count == 0 || v > s.Max {
		s.Max = v
	}
	s.Sum += v
	s.Count++
}

// Mean returns Sum/Count, or 0 if no samples were accepted.
func (s Stats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}

// Summary is the terminal result of folding a segment's batch stream.
type Summary struct {
	FirstBatch dump.Batch
	LastBatch  dump.Batch

	// OpenTransactions are sessions with a transaction still open at the
	// end of the segment: never saw a closing control record.
	OpenTransactions map[dump.ProducerSession]FirstBatchInTxn

	EmptyTransactions []EmptyTransaction

	Committed int64
	Aborted   int64

	TxnSizeStats     Stats
	TxnDurationStats Stats

	// RecordCount and MaxBatchSize back the driver's per-file trailer line
	// (record count / largest batch size), the Go equivalent of the
	// original dump tool's summary footer.
	RecordCount  int64
	MaxBatchSize int32
}

// batchIterator is the minimal shape Collect consumes, matched by both
// *dump.Batches and any validate chain wrapping one.
type batchIterator interface {
	Next() bool
	Batch() dump.Batch
	Err() error
}

// Collect drains batches to completion, folding it into a Summary. It
// returns the source's error, if any, unwrapped from the iteration.
func Collect(batches batchIterator) (*Summary, error) {
	s := &Summary{OpenTransactions: make(map[dump.ProducerSession]FirstBatchInTxn)}
	haveFirst := false

	for batches.Next() {
		b := batches.Batch()
		if !haveFirst {
			s.FirstBatch = b
			haveFirst = true
		}
		s.LastBatch = b
		s.RecordCount += int64(b.Count)
		if b.Size > s.MaxBatchSize {
			s.MaxBatchSize = b.Size
		}

		if b.IsTransactional {
			session := b.Session()
			if b.IsControl {
				if b.Count != 1 {
					return nil, &dump.IllegalStateError{
						Label:   b.File,
						Line:    b.Line,
						Message: fmt.Sprintf("control batch with count %d, expected 1", b.Count),
					}
				}
			} else {
				entry, ok := s.OpenTransactions[session]
				if !ok {
					s.OpenTransactions[session] = FirstBatchInTxn{Batch: b, Count: 1}
				} else {
					entry.Count++
					s.OpenTransactions[session] = entry
				}
			}
		}

		for _, m := range b.Messages {
			switch m.Kind {
			case dump.KindControl:
				if m.Commit {
					s.Committed++
				} else {
					s.Aborted++
				}
				session := b.Session()
				opened, ok := s.OpenTransactions[session]
				if !ok {
					s.EmptyTransactions = append(s.EmptyTransactions, EmptyTransaction{ControlBatch: b, ControlRecord: m})
				} else {
					delete(s.OpenTransactions, session)
					s.TxnSizeStats.accept(int64(opened.Count))
					s.TxnDurationStats.accept(b.CreateTime - opened.Batch.CreateTime)
				}
			case dump.KindData, dump.KindTransactionStateDeletion, dump.KindTransactionStateChange:
				// No collector-level action: state-machine legality is
				// the validator's concern, not the summary's.
			}
		}
	}

	if err := batches.Err(); err != nil {
		return nil, err
	}
	return s, nil
}
