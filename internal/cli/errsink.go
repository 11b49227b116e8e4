// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package cli

import (
	"log"
	"os"
)

// ErrSink is the default core.ErrSink: every report goes to a log.Logger
// writing to stderr with no timestamp prefix, the same shape as the
// teacher's package-level log setup in cmd/golc3/main.go's init().
type ErrSink struct {
	logger *log.Logger
}

// NewErrSink builds an ErrSink with the given prefix (typically the
// executable's base name, matching the teacher's "exe: " convention).
func NewErrSink(prefix string) *ErrSink {
	return &ErrSink{
		logger: log.New(os.Stderr, prefix, 0),
	}
}

func (s *ErrSink) Report(msg string) {
	s.logger.Println(msg)
}
