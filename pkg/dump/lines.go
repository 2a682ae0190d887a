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

import "bufio"

// line is one line of input paired with its 1-based position in the
// original stream.
type line struct {
	text string
	num  int
}

// lineSource is a pull-based line reader with a small pushback buffer, so
// the segment preamble can peek ahead without consuming lines it needs to
// hand back to the batch grouper.
type lineSource struct {
	sc      *bufio.Scanner
	lineNum int
	pending []line
}

func newLineSource(sc *bufio.Scanner) *lineSource {
	return &lineSource{sc: sc}
}

func (s *lineSource) next() (line, bool) {
	if len(s.pending) > 0 {
		l := s.pending[0]
		s.pending = s.pending[1:]
		return l, true
	}
	if !s.sc.Scan() {
		return line{}, false
	}
	s.lineNum++
	return line{text: s.sc.Text(), num: s.lineNum}, true
}

// pushBack hands back lines in the order they were originally read; a
// subsequent next() returns pushed[0] first.
func (s *lineSource) pushBack(lines ...line) {
	s.pending = append(lines, s.pending...)
}

// currentLine returns the 1-based number of the last line actually read
// from the underlying scanner (ignoring any pending pushback).
func (s *lineSource) currentLine() int {
	return s.lineNum
}
