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

import "regexp"

// Patterns mirror the shapes produced by the broker's offline segment dump
// tool across its historical dialects (see the dialect tolerance notes on
// each). Field names in the dump are literal; only casing of a handful of
// keys varies release to release.
var (
	dumpingLinePattern = regexp.MustCompile(`^Dumping (.*)$`)

	// Accepts both "Starting offset: N" (pre-3.x) and "Log starting
	// offset: N" (3.x+).
	startingOffsetLinePattern = regexp.MustCompile(`^(?:Starting offset|Log starting offset): ([0-9]+)$`)

	filenameOffsetPattern = regexp.MustCompile(`^([0-9]+)\.log$`)

	batchHeaderPattern = regexp.MustCompile(`^baseOffset: (?P<baseOffset>[0-9]+) ` +
		`lastOffset: (?P<lastOffset>[0-9]+) ` +
		`count: (?P<count>[0-9]+) ` +
		`baseSequence: (?P<baseSequence>-?[0-9]+) ` +
		`lastSequence: (?P<lastSequence>-?[0-9]+) ` +
		`producerId: (?P<producerId>-?[0-9]+) ` +
		`producerEpoch: (?P<producerEpoch>-?[0-9]+) ` +
		`partitionLeaderEpoch: (?P<partitionLeaderEpoch>[0-9]+) ` +
		`isTransactional: (?P<isTransactional>true|false) ` +
		`isControl: (?P<isControl>true|false)` +
		`(?: deleteHorizonMs: (?P<deleteHorizonMs>OptionalLong\.empty|[0-9]+))? ` +
		`position: (?P<position>[0-9]+) ` +
		`CreateTime: (?P<createTime>[0-9]+) ` +
		`size: (?P<size>[0-9]+) ` +
		`magic: (?P<magic>-?[0-9]+) ` +
		`compresscodec: (?P<compressCodec>none|[A-Z]+) ` +
		`crc: (?P<crc>[0-9]+) ` +
		`isvalid: (?P<isValid>true|false)$`)

	// dataRecordBody is embedded (without the leading "| ") into the
	// control and transaction-state patterns below, since the broker's
	// dump format layers extra fields onto the same data-record prefix.
	dataRecordBody = `offset: (?P<offset>[0-9]+) ` +
		`[Cc]reateTime: (?P<createTime>[0-9]+) ` +
		`key[Ss]ize: (?P<keySize>-?[0-9]+) ` +
		`value[Ss]ize: (?P<valueSize>-?[0-9]+) ` +
		`sequence: (?P<sequence>-?[0-9]+) ` +
		`header[Kk]eys: \[(?P<headerKeys>.*)\](?: payload:(?P<payload>.*))?`

	dataRecordPattern = regexp.MustCompile(`^\| ` + dataRecordBody + `$`)

	controlRecordPattern = regexp.MustCompile(`^\| ` + dataRecordBody + ` ` +
		`endTxnMarker: (?P<endTxnMarker>COMMIT|ABORT) ` +
		`coordinatorEpoch: (?P<coordinatorEpoch>[0-9]+)$`)

	transactionalRecordPattern = regexp.MustCompile(`^\| ` + dataRecordBody + ` ` +
		`key: transaction_metadata::transactionalId=(?P<transactionalId>.*) ` +
		`payload: (?P<txnPayload>.*)$`)

	transactionalPayloadPattern = regexp.MustCompile(`^producerId:(?P<producerId>[0-9]+),` +
		`producerEpoch:(?P<producerEpoch>[0-9]+),` +
		`state=(?P<state>Ongoing|PrepareCommit|PrepareAbort|CompleteCommit|CompleteAbort|Empty|Dead),` +
		`partitions=\[(?P<partitions>.*)\],` +
		`txnLastUpdateTimestamp=(?P<txnLastUpdateTimestamp>[0-9]+),` +
		`txnTimeoutMs=(?P<txnTimeoutMs>[0-9]+)$`)
)

// namedGroups maps a regexp's named capture groups to their matched text,
// given a successful FindStringSubmatch result.
func namedGroups(re *regexp.Regexp, match []string) map[string]string {
	groups := make(map[string]string, len(match))
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		groups[name] = match[i]
	}
	return groups
}
