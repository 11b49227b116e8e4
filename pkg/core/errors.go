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

package core

import "fmt"

// ErrSink receives the non-fatal error reports described in spec.md §7: bad
// memory index, bad register address, division by zero, invalid opcode, bad
// hex source, allocation failure, and abort. None of these are propagated as
// Go errors out of the executor/driver; they are reported once and the
// interpreter stays live. A nil sink silently drops reports.
type ErrSink interface {
	Report(msg string)
}

func reportf(sink ErrSink, format string, args ...any) {
	if sink == nil {
		return
	}
	sink.Report(fmt.Sprintf(format, args...))
}

// DiscardSink is an ErrSink that drops every report; useful in tests that
// only care about VM state, not error text.
type DiscardSink struct{}

func (DiscardSink) Report(string) {}
