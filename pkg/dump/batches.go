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

import "io"

// Batches is the lazy, single-pass sequence of Batch produced by folding
// a segment's line stream. Drive it like bufio.Scanner:
//
//	for batches.Next() {
//	    b := batches.Batch()
//	}
//	if err := batches.Err(); err != nil { ... }
//
// Always Close it, including on early termination, so the underlying
// file handle (if any) is released.
type Batches struct {
	label   string
	segType SegmentType
	deep    bool
	src     *lineSource
	closer  io.Closer

	expect  int
	header  Batch
	msgs    []BaseMessage
	msgIdx  int

	cur  Batch
	err  error
	done bool
}

func newBatches(label string, segType SegmentType, deep bool, src *lineSource, closer io.Closer) *Batches {
	return &Batches{label: label, segType: segType, deep: deep, src: src, closer: closer}
}

// Next advances to the next batch, returning false when the stream is
// exhausted or an error occurred (check Err to distinguish the two).
func (b *Batches) Next() bool {
	if b.done {
		_ = b.Close()
		return false
	}
	for {
		l, ok := b.src.next()
		if !ok {
			if b.expect != 0 {
				b.fail(malformed(b.label, b.src.currentLine(), "unexpected end of input: batch starting at line %d expected more records", b.header.Line))
				return false
			}
			_ = b.Close()
			return false
		}

		if b.expect == 0 || !b.deep {
			header, err := parseBatchHeader(b.label, l.num, l.text)
			if err != nil {
				b.fail(err)
				return false
			}
			if err := checkBatch(b.label, l.num, b.segType, header); err != nil {
				b.fail(err)
				return false
			}
			count := int(header.Count)
			if header.IsControl {
				b.expect = -count
			} else {
				b.expect = count
			}
			b.header = header
			b.msgs = make([]BaseMessage, count)
			b.msgIdx = 0

			if !b.deep || b.expect == 0 {
				b.cur = b.header
				b.cur.Messages = nil
				b.expect = 0
				return true
			}
			continue
		}

		var msg BaseMessage
		var err error
		switch {
		case b.expect > 0 && b.segType == SegmentTransactionState:
			msg, err = parseTransactionStateRecord(b.label, l.num, l.text, b.expect)
		case b.expect > 0:
			msg, err = parseDataRecord(b.label, l.num, l.text, b.expect)
		default:
			msg, err = parseControlRecord(b.label, l.num, l.text, b.expect)
		}
		if err != nil {
			b.fail(err)
			return false
		}
		b.msgs[b.msgIdx] = msg
		b.msgIdx++
		if b.expect > 0 {
			b.expect--
		} else {
			b.expect++
		}

		if b.expect == 0 {
			b.cur = b.header
			b.cur.Messages = b.msgs
			return true
		}
	}
}

// Batch returns the batch produced by the most recent successful Next.
func (b *Batches) Batch() Batch {
	return b.cur
}

// Err returns the error that stopped iteration, if any.
func (b *Batches) Err() error {
	return b.err
}

// Close releases the underlying line source, e.g. a file handle. Safe to
// call multiple times and after an error.
func (b *Batches) Close() error {
	b.done = true
	if b.closer != nil {
		c := b.closer
		b.closer = nil
		return c.Close()
	}
	return nil
}

func (b *Batches) fail(err error) {
	b.err = err
	_ = b.Close()
}

// checkBatch enforces the segment-type/producer-identity invariants from
// §3: a TRANSACTION_STATE batch never carries a real producer session, and
// a transactional batch outside TRANSACTION_STATE always does.
func checkBatch(label string, line int, segType SegmentType, batch Batch) error {
	switch segType {
	case SegmentTransactionState:
		if batch.ProducerID != -1 {
			return malformed(label, line, "Segment of __transaction_state with producerId != -1")
		}
		if batch.ProducerEpoch != -1 {
			return malformed(label, line, "Segment of __transaction_state with producerEpoch != -1")
		}
	case SegmentData:
		if batch.IsTransactional {
			if batch.ProducerID == -1 {
				return illegalState(label, line, "Transactional batch with producerId == -1")
			}
			if batch.ProducerEpoch == -1 {
				return illegalState(label, line, "Transactional batch with producerEpoch == -1")
			}
		}
	}
	return nil
}
