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

// MessageKind discriminates the BaseMessage tagged union. Dispatch on this
// field rather than a type hierarchy with virtual methods.
type MessageKind int

const (
	KindData MessageKind = iota
	KindControl
	KindTransactionStateChange
	KindTransactionStateDeletion
)

func (k MessageKind) String() string {
	switch k {
	case KindControl:
		return "control"
	case KindTransactionStateChange:
		return "transaction-state-change"
	case KindTransactionStateDeletion:
		return "transaction-state-deletion"
	default:
		return "data"
	}
}

// BaseMessage is the common shape shared by all four record variants. Every
// record carries its source file and line for error reporting.
type BaseMessage struct {
	File string
	Line int

	Kind MessageKind

	Offset     int64
	CreateTime int64
	KeySize    int32
	ValueSize  int32
	Sequence   int32
	HeaderKeys string
	// Payload is the opaque, unparsed tail of a data/control record line
	// when the dump carries --print-data-log output. Empty when absent.
	Payload string

	// Control fields, valid when Kind == KindControl.
	Commit           bool
	CoordinatorEpoch int32

	// Transaction-state fields, valid when Kind is one of the two
	// transaction-state-record kinds.
	TransactionalID string

	// TransactionStateChange-only fields.
	ProducerID              int64
	ProducerEpoch           int16
	State                   TxnState
	Partitions              string
	TxnLastUpdateTimestamp  int64
	TxnTimeoutMs            int64
}

// Session returns the producer session a transaction-state-change record
// describes.
func (m BaseMessage) Session() ProducerSession {
	return ProducerSession{ProducerID: m.ProducerID, ProducerEpoch: m.ProducerEpoch}
}

// TxnState is the transaction coordinator's state-machine state, as found
// in a TransactionStateChange payload.
type TxnState int

const (
	TxnStateUnknown TxnState = iota
	TxnStateEmpty
	TxnStateOngoing
	TxnStatePrepareCommit
	TxnStatePrepareAbort
	TxnStateCompleteCommit
	TxnStateCompleteAbort
	TxnStateDead
)

var txnStateNames = map[string]TxnState{
	"Empty":          TxnStateEmpty,
	"Ongoing":        TxnStateOngoing,
	"PrepareCommit":  TxnStatePrepareCommit,
	"PrepareAbort":   TxnStatePrepareAbort,
	"CompleteCommit": TxnStateCompleteCommit,
	"CompleteAbort":  TxnStateCompleteAbort,
	"Dead":           TxnStateDead,
}

func (s TxnState) String() string {
	for name, v := range txnStateNames {
		if v == s {
			return name
		}
	}
	return "Unknown"
}

// ParseTxnState maps the payload's state= literal to a TxnState. ok is
// false for any string outside the known set.
func ParseTxnState(s string) (TxnState, bool) {
	v, ok := txnStateNames[s]
	return v, ok
}
