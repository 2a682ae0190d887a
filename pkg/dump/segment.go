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
	"bufio"
	"io"
	"log/slog"
	"os"
	path "path"
	"regexp"
	"strings"
)

var (
	transactionStateDirPattern = regexp.MustCompile(`^__transaction_state-[0-9]+$`)
	consumerOffsetsDirPattern  = regexp.MustCompile(`^__consumer_offsets-[0-9]+$`)
	topicPartitionDirPattern   = regexp.MustCompile(`^(.+)-[0-9]+$`)
)

// ReadOptions customizes ReadSegment/ReadSegmentFile. The zero value uses
// slog.Default() for diagnostics.
type ReadOptions struct {
	Logger *slog.Logger
}

func (o ReadOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// ReadSegment parses a dump given a line source. label is used in error
// messages. The returned Segment's Batches must be driven to completion
// (or Closed) by the caller; no file handle is opened here.
func ReadSegment(label string, r io.Reader, opts ReadOptions) (*Segment, error) {
	return readSegment(label, r, nil, opts)
}

// ReadSegmentFile opens path and parses it as a dump. The returned
// Segment's Batches owns the file handle and releases it on Close or
// exhaustion.
func ReadSegmentFile(filePath string, opts ReadOptions) (*Segment, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	seg, err := readSegment(filePath, f, f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	return seg, nil
}

func readSegment(label string, r io.Reader, closer io.Closer, opts ReadOptions) (*Segment, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	src := newLineSource(sc)

	first, ok := src.next()
	if !ok {
		return nil, malformed(label, 0, "Expected > 0 lines")
	}
	dumpedPath, err := readDumpingLine(label, first)
	if err != nil {
		return nil, err
	}

	segType := segmentType(label, dumpedPath, opts.logger())
	topic := topicName(dumpedPath)

	second, ok := src.next()
	if !ok {
		return nil, malformed(label, first.num, "Expected > 1 lines")
	}
	if err := readStartingOffsetLine(label, dumpedPath, second); err != nil {
		return nil, err
	}

	peeked, deep := peekDeepIteration(src)

	var batches *Batches
	if len(peeked) == 0 {
		// No batch-header line followed the preamble: an empty segment.
		batches = newBatches(label, segType, false, newLineSource(bufio.NewScanner(strings.NewReader(""))), closer)
		batches.done = true
	} else {
		src.pushBack(peeked...)
		batches = newBatches(label, segType, deep, src, closer)
	}

	return &Segment{
		Label:         label,
		Type:          segType,
		Topic:         topic,
		DeepIteration: deep,
		batches:       batches,
	}, nil
}

// peekDeepIteration reads up to two lines ahead to decide whether the dump
// carries per-record detail, then returns them (in order) for the caller
// to push back onto src.
func peekDeepIteration(src *lineSource) ([]line, bool) {
	first, ok := src.next()
	if !ok {
		return nil, false
	}
	peeked := []line{first}
	second, ok := src.next()
	if !ok {
		return peeked, false
	}
	peeked = append(peeked, second)
	return peeked, strings.HasPrefix(second.text, "| ")
}

func readDumpingLine(label string, l line) (string, error) {
	m := dumpingLinePattern.FindStringSubmatch(l.text)
	if m == nil {
		return "", malformed(label, l.num, "Expected first line to match ^Dumping (.*)$")
	}
	return m[1], nil
}

func readStartingOffsetLine(label, dumpedPath string, l line) error {
	m := startingOffsetLinePattern.FindStringSubmatch(l.text)
	if m == nil {
		return malformed(label, l.num, "Expected second line to match ^(Starting offset|Log starting offset): ([0-9]+)$")
	}
	startingOffset := mustParseInt64(m[1])
	fileOffset, err := filenameOffset(label, l.num, dumpedPath)
	if err != nil {
		return err
	}
	if fileOffset != startingOffset {
		return malformed(label, l.num, "Segment file name %s implies starting offset of %d but 2nd line says offset is %d",
			dumpedPath, fileOffset, startingOffset)
	}
	return nil
}

func filenameOffset(label string, line int, dumpedPath string) (int64, error) {
	base := path.Base(dumpedPath)
	m := filenameOffsetPattern.FindStringSubmatch(base)
	if m == nil {
		return 0, malformed(label, line, "Expected FILE in first line to match [0-9]+\\.log")
	}
	return mustParseInt64(m[1]), nil
}

// segmentType derives the segment's kind from the parent directory of the
// dumped file path. A path with no parent directory component is assumed
// to be DATA, with a diagnostic warning, matching the broker's tool being
// run from inside the segment's own directory.
func segmentType(label, dumpedPath string, logger *slog.Logger) SegmentType {
	parent := parentDirName(dumpedPath)
	if parent == "" {
		logger.Warn("dump file has no parent directory, assuming DATA segment type", "label", label)
		return SegmentData
	}
	switch {
	case transactionStateDirPattern.MatchString(parent):
		return SegmentTransactionState
	case consumerOffsetsDirPattern.MatchString(parent):
		return SegmentConsumerOffsets
	default:
		return SegmentData
	}
}

// topicName derives the topic from the parent directory name
// "<topic>-<partition>", stripping the trailing "-<digits>" suffix. This
// intentionally corrects a bug in the original dump reader, which kept the
// leading hyphen in the returned topic name; see DESIGN.md.
func topicName(dumpedPath string) string {
	parent := parentDirName(dumpedPath)
	if parent == "" {
		return ""
	}
	m := topicPartitionDirPattern.FindStringSubmatch(parent)
	if m == nil {
		return ""
	}
	return m[1]
}

func parentDirName(dumpedPath string) string {
	dir := path.Dir(dumpedPath)
	if dir == "." || dir == "/" || dir == "" {
		return ""
	}
	return path.Base(dir)
}
