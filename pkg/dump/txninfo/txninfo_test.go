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

package txninfo

import (
	"errors"
	"strings"
	"testing"

	"github.com/novatechflow/kafscale-segdump/pkg/dump"
)

func collect(t *testing.T, content string) *Summary {
	t.Helper()
	seg, err := dump.ReadSegment("<test-input>", strings.NewReader(content), dump.ReadOptions{})
	if err != nil {
		t.Fatalf("ReadSegment: %v", err)
	}
	summary, err := Collect(seg.Batches())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return summary
}

func TestCollectNonTransactionalSegment(t *testing.T) {
	content := "Dumping ./00000000000000000000.log\n" +
		"Starting offset: 0\n" +
		"baseOffset: 0 lastOffset: 1 count: 2 baseSequence: -1 lastSequence: -1 producerId: -1 producerEpoch: -1 partitionLeaderEpoch: 0 isTransactional: false isControl: false position: 0 CreateTime: 1632815304456 size: 88 magic: 2 compresscodec: none crc: 873053997 isvalid: true\n" +
		"baseOffset: 2 lastOffset: 2 count: 1 baseSequence: -1 lastSequence: -1 producerId: -1 producerEpoch: -1 partitionLeaderEpoch: 0 isTransactional: false isControl: false position: 88 CreateTime: 1632815305550 size: 75 magic: 2 compresscodec: none crc: 945198711 isvalid: true\n" +
		"baseOffset: 3 lastOffset: 3 count: 1 baseSequence: -1 lastSequence: -1 producerId: -1 producerEpoch: -1 partitionLeaderEpoch: 0 isTransactional: false isControl: false position: 163 CreateTime: 1632815307188 size: 79 magic: 2 compresscodec: none crc: 757930674 isvalid: true"

	summary := collect(t, content)
	if summary.FirstBatch.BaseOffset != 0 || summary.FirstBatch.LastOffset != 1 {
		t.Errorf("FirstBatch = %d/%d, want 0/1", summary.FirstBatch.BaseOffset, summary.FirstBatch.LastOffset)
	}
	if summary.LastBatch.BaseOffset != 3 {
		t.Errorf("LastBatch.BaseOffset = %d, want 3", summary.LastBatch.BaseOffset)
	}
	if summary.Committed != 0 || summary.Aborted != 0 {
		t.Errorf("Committed/Aborted = %d/%d, want 0/0", summary.Committed, summary.Aborted)
	}
	if len(summary.EmptyTransactions) != 0 {
		t.Errorf("EmptyTransactions = %v, want none", summary.EmptyTransactions)
	}
	if len(summary.OpenTransactions) != 0 {
		t.Errorf("OpenTransactions = %v, want none", summary.OpenTransactions)
	}
	if summary.TxnSizeStats.Count != 0 || summary.TxnDurationStats.Count != 0 {
		t.Errorf("txn stats counts = %d/%d, want 0/0", summary.TxnSizeStats.Count, summary.TxnDurationStats.Count)
	}
	if summary.RecordCount != 4 {
		t.Errorf("RecordCount = %d, want 4 (2+1+1 across the three batches)", summary.RecordCount)
	}
	if summary.MaxBatchSize != 88 {
		t.Errorf("MaxBatchSize = %d, want 88", summary.MaxBatchSize)
	}
}

func TestCollectTwoCompletedTransactions(t *testing.T) {
	content := "Dumping /tmp/kafka-0-logs/transactional-foo-0/00000000000000000000.log\n" +
		"Starting offset: 0\n" +
		"baseOffset: 0 lastOffset: 1 count: 2 baseSequence: 0 lastSequence: 1 producerId: 0 producerEpoch: 0 partitionLeaderEpoch: 0 isTransactional: true isControl: false position: 0 CreateTime: 1632840910502 size: 95 magic: 2 compresscodec: none crc: 3463992817 isvalid: true\n" +
		"| offset: 0 CreateTime: 1632840910484 keySize: -1 valueSize: 10 sequence: 0 headerKeys: []\n" +
		"| offset: 1 CreateTime: 1632840910502 keySize: -1 valueSize: 10 sequence: 1 headerKeys: []\n" +
		"baseOffset: 2 lastOffset: 2 count: 1 baseSequence: 2 lastSequence: 2 producerId: 0 producerEpoch: 0 partitionLeaderEpoch: 0 isTransactional: true isControl: false position: 95 CreateTime: 1632840911002 size: 78 magic: 2 compresscodec: none crc: 3470306477 isvalid: true\n" +
		"| offset: 2 CreateTime: 1632840911002 keySize: -1 valueSize: 10 sequence: 2 headerKeys: []\n" +
		"baseOffset: 3 lastOffset: 3 count: 1 baseSequence: 3 lastSequence: 3 producerId: 0 producerEpoch: 0 partitionLeaderEpoch: 0 isTransactional: true isControl: false position: 173 CreateTime: 1632840911503 size: 78 magic: 2 compresscodec: none crc: 244140094 isvalid: true\n" +
		"| offset: 3 CreateTime: 1632840911503 keySize: -1 valueSize: 10 sequence: 3 headerKeys: []\n" +
		"baseOffset: 4 lastOffset: 4 count: 1 baseSequence: -1 lastSequence: -1 producerId: 0 producerEpoch: 0 partitionLeaderEpoch: 0 isTransactional: true isControl: true position: 251 CreateTime: 1632840911601 size: 78 magic: 2 compresscodec: none crc: 4234329125 isvalid: true\n" +
		"| offset: 4 CreateTime: 1632840911601 keySize: 4 valueSize: 6 sequence: -1 headerKeys: [] endTxnMarker: COMMIT coordinatorEpoch: 4\n" +
		"baseOffset: 5 lastOffset: 5 count: 1 baseSequence: 4 lastSequence: 4 producerId: 0 producerEpoch: 0 partitionLeaderEpoch: 0 isTransactional: true isControl: false position: 329 CreateTime: 1632840912091 size: 78 magic: 2 compresscodec: none crc: 3445037521 isvalid: true\n" +
		"| offset: 5 CreateTime: 1632840912091 keySize: -1 valueSize: 10 sequence: 4 headerKeys: []\n" +
		"baseOffset: 6 lastOffset: 6 count: 1 baseSequence: -1 lastSequence: -1 producerId: 0 producerEpoch: 0 partitionLeaderEpoch: 0 isTransactional: true isControl: true position: 407 CreateTime: 1632840912595 size: 78 magic: 2 compresscodec: none crc: 1079808135 isvalid: true\n" +
		"| offset: 6 CreateTime: 1632840912595 keySize: 4 valueSize: 6 sequence: -1 headerKeys: [] endTxnMarker: COMMIT coordinatorEpoch: 4\n"

	summary := collect(t, content)
	if summary.Committed != 2 {
		t.Errorf("Committed = %d, want 2", summary.Committed)
	}
	if summary.Aborted != 0 {
		t.Errorf("Aborted = %d, want 0", summary.Aborted)
	}
	if len(summary.EmptyTransactions) != 0 {
		t.Errorf("EmptyTransactions = %v, want none", summary.EmptyTransactions)
	}
	if len(summary.OpenTransactions) != 0 {
		t.Errorf("OpenTransactions = %v, want none", summary.OpenTransactions)
	}
	if summary.TxnSizeStats.Count != 2 {
		t.Errorf("TxnSizeStats.Count = %d, want 2", summary.TxnSizeStats.Count)
	}
	if summary.TxnDurationStats.Count != 2 {
		t.Errorf("TxnDurationStats.Count = %d, want 2", summary.TxnDurationStats.Count)
	}
	// First transaction spans three data batches (baseOffset 0, 2 and 3)
	// before its commit marker at baseOffset 4; the second spans one
	// (baseOffset 5) before its commit marker at baseOffset 6.
	if summary.TxnSizeStats.Min != 1 {
		t.Errorf("TxnSizeStats.Min = %d, want 1", summary.TxnSizeStats.Min)
	}
	if summary.TxnSizeStats.Max != 3 {
		t.Errorf("TxnSizeStats.Max = %d, want 3", summary.TxnSizeStats.Max)
	}
}

func TestCollectEmptyTransaction(t *testing.T) {
	content := "Dumping /tmp/kafka-0-logs/transactional-foo-0/00000000000000000000.log\n" +
		"Starting offset: 0\n" +
		"baseOffset: 0 lastOffset: 0 count: 1 baseSequence: -1 lastSequence: -1 producerId: 0 producerEpoch: 0 partitionLeaderEpoch: 0 isTransactional: true isControl: true position: 0 CreateTime: 1 size: 78 magic: 2 compresscodec: none crc: 1 isvalid: true\n" +
		"| offset: 0 CreateTime: 1 keySize: 4 valueSize: 6 sequence: -1 headerKeys: [] endTxnMarker: COMMIT coordinatorEpoch: 0\n"

	summary := collect(t, content)
	if summary.Committed != 1 {
		t.Errorf("Committed = %d, want 1", summary.Committed)
	}
	if len(summary.EmptyTransactions) != 1 {
		t.Fatalf("EmptyTransactions = %v, want 1 entry", summary.EmptyTransactions)
	}
	if summary.TxnSizeStats.Count != 0 {
		t.Errorf("TxnSizeStats.Count = %d, want 0 (empty transactions don't feed size stats)", summary.TxnSizeStats.Count)
	}
}

func TestCollectRejectsControlBatchWithWrongCount(t *testing.T) {
	content := "Dumping /tmp/kafka-0-logs/transactional-foo-0/00000000000000000000.log\n" +
		"Starting offset: 0\n" +
		"baseOffset: 0 lastOffset: 1 count: 2 baseSequence: -1 lastSequence: -1 producerId: 0 producerEpoch: 0 partitionLeaderEpoch: 0 isTransactional: true isControl: true position: 0 CreateTime: 1 size: 78 magic: 2 compresscodec: none crc: 1 isvalid: true\n" +
		"| offset: 0 CreateTime: 1 keySize: 4 valueSize: 6 sequence: -1 headerKeys: [] endTxnMarker: COMMIT coordinatorEpoch: 0\n" +
		"| offset: 1 CreateTime: 1 keySize: 4 valueSize: 6 sequence: -1 headerKeys: [] endTxnMarker: COMMIT coordinatorEpoch: 0\n"

	seg, err := dump.ReadSegment("<test-input>", strings.NewReader(content), dump.ReadOptions{})
	if err != nil {
		t.Fatalf("ReadSegment: %v", err)
	}
	_, err = Collect(seg.Batches())
	if !errors.Is(err, dump.ErrIllegalState) {
		t.Fatalf("Collect error = %v, want errors.Is(err, dump.ErrIllegalState)", err)
	}
}
