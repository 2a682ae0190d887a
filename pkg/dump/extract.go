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
	"strconv"
	"strings"
)

func mustParseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func mustParseInt32(s string) int32 {
	v, _ := strconv.ParseInt(s, 10, 32)
	return int32(v)
}

func mustParseInt16(s string) int16 {
	v, _ := strconv.ParseInt(s, 10, 16)
	return int16(v)
}

func mustParseInt8(s string) int8 {
	v, _ := strconv.ParseInt(s, 10, 8)
	return int8(v)
}

func mustParseUint32(s string) uint32 {
	v, _ := strconv.ParseUint(s, 10, 32)
	return uint32(v)
}

func mustParseBool(s string) bool {
	return s == "true"
}

// parseBatchHeader parses a batch-header line into field groups. The
// caller is responsible for validating it against segment-level
// invariants (checkBatch).
func parseBatchHeader(label string, line int, text string) (Batch, error) {
	m := batchHeaderPattern.FindStringSubmatch(text)
	if m == nil {
		return Batch{}, malformed(label, line, "Expected a message batch")
	}
	g := namedGroups(batchHeaderPattern, m)

	var deleteHorizon *int64
	if raw := g["deleteHorizonMs"]; raw != "" && raw != "OptionalLong.empty" {
		v := mustParseInt64(raw)
		deleteHorizon = &v
	}

	return Batch{
		File:                 label,
		Line:                 line,
		BaseOffset:           mustParseInt64(g["baseOffset"]),
		LastOffset:           mustParseInt64(g["lastOffset"]),
		Count:                mustParseInt32(g["count"]),
		BaseSequence:         mustParseInt32(g["baseSequence"]),
		LastSequence:         mustParseInt32(g["lastSequence"]),
		ProducerID:           mustParseInt64(g["producerId"]),
		ProducerEpoch:        mustParseInt16(g["producerEpoch"]),
		PartitionLeaderEpoch: mustParseInt32(g["partitionLeaderEpoch"]),
		IsTransactional:      mustParseBool(g["isTransactional"]),
		IsControl:            mustParseBool(g["isControl"]),
		Position:             mustParseInt64(g["position"]),
		CreateTime:           mustParseInt64(g["createTime"]),
		Size:                 mustParseInt32(g["size"]),
		Magic:                mustParseInt8(g["magic"]),
		CompressCodec:        g["compressCodec"],
		CRC:                  mustParseUint32(g["crc"]),
		IsValid:              mustParseBool(g["isValid"]),
		DeleteHorizonMs:      deleteHorizon,
	}, nil
}

func payloadOf(g map[string]string) string {
	return strings.TrimPrefix(g["payload"], " ")
}

// parseDataRecord parses one record line expected to be a plain data
// record. expect is the number of data records the enclosing batch still
// wants, used only to phrase the error the way the broker's tool would.
func parseDataRecord(label string, line int, text string, expect int) (BaseMessage, error) {
	m := dataRecordPattern.FindStringSubmatch(text)
	if m == nil {
		return BaseMessage{}, illegalState(label, line,
			"Expected %d data records in batch, but this doesn't look like a data record", expect)
	}
	g := namedGroups(dataRecordPattern, m)
	return BaseMessage{
		File:       label,
		Line:       line,
		Kind:       KindData,
		Offset:     mustParseInt64(g["offset"]),
		CreateTime: mustParseInt64(g["createTime"]),
		KeySize:    mustParseInt32(g["keySize"]),
		ValueSize:  mustParseInt32(g["valueSize"]),
		Sequence:   mustParseInt32(g["sequence"]),
		HeaderKeys: g["headerKeys"],
		Payload:    payloadOf(g),
	}, nil
}

// parseControlRecord parses one record line expected to be an end-txn
// marker. expect carries the (negative) remaining-control-records count
// from the batch grouper's state machine, for error phrasing only.
func parseControlRecord(label string, line int, text string, expect int) (BaseMessage, error) {
	m := controlRecordPattern.FindStringSubmatch(text)
	if m == nil {
		return BaseMessage{}, illegalState(label, line,
			"Expected %d control records in batch, but this doesn't look like a control record", expect)
	}
	g := namedGroups(controlRecordPattern, m)
	return BaseMessage{
		File:             label,
		Line:             line,
		Kind:             KindControl,
		Offset:           mustParseInt64(g["offset"]),
		CreateTime:       mustParseInt64(g["createTime"]),
		KeySize:          mustParseInt32(g["keySize"]),
		ValueSize:        mustParseInt32(g["valueSize"]),
		Sequence:         mustParseInt32(g["sequence"]),
		HeaderKeys:       g["headerKeys"],
		Payload:          payloadOf(g),
		Commit:           g["endTxnMarker"] == "COMMIT",
		CoordinatorEpoch: mustParseInt32(g["coordinatorEpoch"]),
	}, nil
}

// parseTransactionStateRecord parses one record line from a
// TRANSACTION_STATE segment: either a TransactionStateDeletion (payload
// is the literal "<DELETE>") or a TransactionStateChange.
func parseTransactionStateRecord(label string, line int, text string, expect int) (BaseMessage, error) {
	m := transactionalRecordPattern.FindStringSubmatch(text)
	if m == nil {
		return BaseMessage{}, illegalState(label, line,
			"Expected %d txn records in batch, but this doesn't look like a txn record", expect)
	}
	g := namedGroups(transactionalRecordPattern, m)
	base := BaseMessage{
		File:            label,
		Line:            line,
		Offset:          mustParseInt64(g["offset"]),
		CreateTime:      mustParseInt64(g["createTime"]),
		KeySize:         mustParseInt32(g["keySize"]),
		ValueSize:       mustParseInt32(g["valueSize"]),
		Sequence:        mustParseInt32(g["sequence"]),
		HeaderKeys:      g["headerKeys"],
		TransactionalID: g["transactionalId"],
	}

	payload := g["txnPayload"]
	if payload == "<DELETE>" {
		base.Kind = KindTransactionStateDeletion
		return base, nil
	}

	pm := transactionalPayloadPattern.FindStringSubmatch(payload)
	if pm == nil {
		return BaseMessage{}, malformed(label, line, "Didn't match expected transaction-state payload pattern")
	}
	pg := namedGroups(transactionalPayloadPattern, pm)
	state, ok := ParseTxnState(pg["state"])
	if !ok {
		return BaseMessage{}, malformed(label, line, "Unknown transaction state %q", pg["state"])
	}
	base.Kind = KindTransactionStateChange
	base.ProducerID = mustParseInt64(pg["producerId"])
	base.ProducerEpoch = mustParseInt16(pg["producerEpoch"])
	base.State = state
	base.Partitions = pg["partitions"]
	base.TxnLastUpdateTimestamp = mustParseInt64(pg["txnLastUpdateTimestamp"])
	base.TxnTimeoutMs = mustParseInt64(pg["txnTimeoutMs"])
	return base, nil
}
