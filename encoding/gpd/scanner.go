// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gpd

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// maxLineLen bounds a single GPD line.  Reads with thousands of exons
// produce lines well past bufio.Scanner's 64KiB default.
const maxLineLen = 64 << 20

// Scanner reads GPD text one line at a time, tracking 1-based line numbers.
// Empty lines are skipped, but they still count towards the line number so
// that LineNum always names the physical line in the input.  Scanners are not
// threadsafe.
type Scanner struct {
	b       *bufio.Scanner
	lineNum int
	line    []byte
	err     error
}

// NewScanner creates a Scanner that reads from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(make([]byte, 0, 64<<10), maxLineLen)
	return &Scanner{b: b}
}

// Scan advances to the next nonempty line.  It returns false at EOF or on
// error; check Err afterwards.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	for s.b.Scan() {
		s.lineNum++
		s.line = s.b.Bytes()
		if n := len(s.line); n > 0 && s.line[n-1] == '\r' {
			s.line = s.line[:n-1]
		}
		if len(s.line) > 0 {
			return true
		}
	}
	if err := s.b.Err(); err != nil {
		s.err = errors.Wrapf(err, "gpd: reading after line %d", s.lineNum)
	}
	return false
}

// Bytes returns the current line.  The slice is overwritten by the next call
// to Scan.
func (s *Scanner) Bytes() []byte { return s.line }

// Text returns a copy of the current line.
func (s *Scanner) Text() string { return string(s.line) }

// LineNum returns the 1-based number of the current line.
func (s *Scanner) LineNum() int { return s.lineNum }

// Record parses the current line.  Errors name the line number.
func (s *Scanner) Record() (Record, error) {
	rec, err := Parse(s.line)
	if err != nil {
		return rec, errors.Wrapf(err, "line %d", s.lineNum)
	}
	return rec, nil
}

// Err returns the first read error encountered, if any.  Parse errors are
// reported by Record, not here.
func (s *Scanner) Err() error { return s.err }
