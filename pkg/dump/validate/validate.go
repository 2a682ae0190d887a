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

// Package validate wraps a dump.Batches sequence in streaming invariant
// checks. Each wrapper is itself a Batches-shaped iterator, so checks
// compose by nesting: the caller drives the outermost one and the
// violation, wherever it occurred in the chain, surfaces from its Err.
package validate

import (
	"fmt"

	"github.com/novatechflow/kafscale-segdump/pkg/dump"
)

// Iterator is the minimal shape every validator wraps and implements, so
// chains can nest to arbitrary depth.
type Iterator interface {
	Next() bool
	Batch() dump.Batch
	Err() error
}

type stateErr struct {
	label   string
	line    int
	message string
}

func (e *stateErr) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.label, e.line, e.message)
}

func (e *stateErr) Unwrap() error {
	return dump.ErrIllegalState
}

func fail(label string, line int, format string, args ...any) error {
	return &stateErr{label: label, line: line, message: fmt.Sprintf(format, args...)}
}

// eachBatches applies fn to every batch in the stream, independent of its
// predecessor.
type eachBatches struct {
	src Iterator
	fn  func(cur dump.Batch) error
	cur dump.Batch
	err error
}

func (c *eachBatches) Next() bool {
	if c.err != nil {
		return false
	}
	if !c.src.Next() {
		c.err = c.src.Err()
		return false
	}
	c.cur = c.src.Batch()
	if err := c.fn(c.cur); err != nil {
		c.err = err
		return false
	}
	return true
}

func (c *eachBatches) Batch() dump.Batch { return c.cur }
func (c *eachBatches) Err() error        { return c.err }

// AssertBatchesValid fails the stream the first time a batch's IsValid
// field is false.
func AssertBatchesValid(src Iterator) Iterator {
	return &eachBatches{src: src, fn: func(cur dump.Batch) error {
		if !cur.IsValid {
			return fail(cur.File, cur.Line, "batch is not valid (isvalid: false)")
		}
		return nil
	}}
}

// pairBatches applies fn to every consecutive pair of batches; the first
// batch passes through unchecked, matching the monotonicity checks having
// no predecessor to compare against.
type pairBatches struct {
	src  Iterator
	fn   func(prev, cur dump.Batch) error
	prev dump.Batch
	have bool
	cur  dump.Batch
	err  error
}

func (c *pairBatches) Next() bool {
	if c.err != nil {
		return false
	}
	if !c.src.Next() {
		c.err = c.src.Err()
		return false
	}
	c.cur = c.src.Batch()
	if c.have {
		if err := c.fn(c.prev, c.cur); err != nil {
			c.err = err
			return false
		}
	}
	c.prev = c.cur
	c.have = true
	return true
}

func (c *pairBatches) Batch() dump.Batch { return c.cur }
func (c *pairBatches) Err() error        { return c.err }

// AssertBatchPositionMonotonic fails when a batch's file position or base
// offset does not strictly advance past its predecessor.
func AssertBatchPositionMonotonic(src Iterator) Iterator {
	return &pairBatches{src: src, fn: func(prev, cur dump.Batch) error {
		if cur.Position < prev.Position+int64(prev.Size) {
			return fail(cur.File, cur.Line,
				"batch position %d precedes predecessor ending at %d", cur.Position, prev.Position+int64(prev.Size))
		}
		if cur.BaseOffset <= prev.LastOffset {
			return fail(cur.File, cur.Line,
				"batch baseOffset %d does not exceed predecessor lastOffset %d", cur.BaseOffset, prev.LastOffset)
		}
		return nil
	}}
}

// AssertLeaderEpochMonotonic fails when a batch's partition leader epoch
// regresses relative to its predecessor.
func AssertLeaderEpochMonotonic(src Iterator) Iterator {
	return &pairBatches{src: src, fn: func(prev, cur dump.Batch) error {
		if cur.PartitionLeaderEpoch < prev.PartitionLeaderEpoch {
			return fail(cur.File, cur.Line,
				"partitionLeaderEpoch regressed from %d to %d", prev.PartitionLeaderEpoch, cur.PartitionLeaderEpoch)
		}
		return nil
	}}
}

// legalPredecessors is the directed graph from §4.5: edges point from a
// target state to the set of states that may precede it. It is consulted
// only once a session has a prior state: AssertTransactionStateMachine
// accepts a session's first observed state, whatever it is.
var legalPredecessors = map[dump.TxnState]map[dump.TxnState]bool{
	dump.TxnStateEmpty: {
		dump.TxnStateCompleteCommit: true,
		dump.TxnStateCompleteAbort:  true,
	},
	dump.TxnStateOngoing: {
		dump.TxnStateEmpty:          true,
		dump.TxnStateCompleteCommit: true,
		dump.TxnStateCompleteAbort:  true,
	},
	dump.TxnStatePrepareCommit: {
		dump.TxnStateOngoing: true,
	},
	dump.TxnStatePrepareAbort: {
		dump.TxnStateOngoing: true,
	},
	dump.TxnStateCompleteCommit: {
		dump.TxnStatePrepareCommit: true,
	},
	dump.TxnStateCompleteAbort: {
		dump.TxnStatePrepareAbort: true,
	},
	dump.TxnStateDead: {
		dump.TxnStateEmpty:          true,
		dump.TxnStateCompleteCommit: true,
		dump.TxnStateCompleteAbort:  true,
	},
}

type txnStateMachine struct {
	src  Iterator
	last map[dump.ProducerSession]dump.TxnState
	cur  dump.Batch
	err  error
}

// AssertTransactionStateMachine wraps a TRANSACTION_STATE segment's batch
// stream, validating every TransactionStateChange record's state against
// the legal-predecessor graph and rejecting any transactional batch (the
// segment itself must never carry isTransactional = true).
func AssertTransactionStateMachine(src Iterator) Iterator {
	return &txnStateMachine{src: src, last: make(map[dump.ProducerSession]dump.TxnState)}
}

func (t *txnStateMachine) Next() bool {
	if t.err != nil {
		return false
	}
	if !t.src.Next() {
		t.err = t.src.Err()
		return false
	}
	b := t.src.Batch()
	if b.IsTransactional {
		t.err = fail(b.File, b.Line, "TRANSACTION_STATE batch has isTransactional: true")
		return false
	}
	for _, m := range b.Messages {
		if m.Kind != dump.KindTransactionStateChange {
			continue
		}
		session := m.Session()
		prior, ok := t.last[session]
		if ok {
			if !legalPredecessors[m.State][prior] {
				t.err = fail(m.File, m.Line,
					"illegal transaction state transition %s -> %s for session %+v", prior, m.State, session)
				return false
			}
		}
		t.last[session] = m.State
	}
	t.cur = b
	return true
}

func (t *txnStateMachine) Batch() dump.Batch { return t.cur }
func (t *txnStateMachine) Err() error        { return t.err }

// Chain applies the standard C5 checks, and C6 when segType is
// dump.SegmentTransactionState, in the order described by §4: structural
// validity, then position/offset monotonicity, then leader-epoch
// monotonicity, then (TRANSACTION_STATE only) the state machine.
func Chain(src Iterator, segType dump.SegmentType) Iterator {
	chained := AssertLeaderEpochMonotonic(AssertBatchPositionMonotonic(AssertBatchesValid(src)))
	if segType == dump.SegmentTransactionState {
		return AssertTransactionStateMachine(chained)
	}
	return chained
}
