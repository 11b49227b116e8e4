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

import (
	"math/rand"
	"os"
)

// Process owns an initial register snapshot and an identifier. It is
// constructed empty, loaded from a hex source file, and started just before
// it is handed off to a VM.
type Process struct {
	ID    uint32
	Info  ProcInfo
	State Registers
}

// Load reads path as text, keeps only [0-9A-Fa-f] characters (discarding
// everything else — whitespace, separators, comments-by-convention), pairs
// consecutive kept characters high-nibble-first into bytes, and requires the
// resulting byte count to be nonzero and a multiple of 4. On success it sets
// p.State's code-segment length (clx) and returns the bytes; on failure it
// reports through sink and returns an empty slice.
func (p *Process) Load(path string, sink ErrSink) []byte {
	raw, err := os.ReadFile(path)
	if err != nil {
		reportf(sink, "%s", err)
		return nil
	}

	if len(raw) == 0 {
		reportf(sink, "empty source [%s]", path)
		return nil
	}

	bytes := make([]byte, 0, len(raw)/2)
	var high byte
	haveHigh := false

	for _, c := range raw {
		nibble, ok := hexNibble(c)
		if !ok {
			continue
		}
		if !haveHigh {
			high = nibble
			haveHigh = true
			continue
		}
		bytes = append(bytes, high<<4|nibble)
		haveHigh = false
	}

	if len(bytes) == 0 {
		reportf(sink, "empty bytecode source [%s]", path)
		return nil
	}
	if len(bytes)%4 != 0 {
		reportf(sink, "invalid bytecode source [%s]", path)
		return nil
	}

	p.State.clx = uint32(len(bytes))
	return bytes
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// Start assigns a random id and code-segment base (csx < maxBase), points
// ipx at csx, and sets the STARTED bit. clx was already set by Load. rng is
// the VM-wide random source, shared with the ssx re-roll in the executor.
func (p *Process) Start(rng *rand.Rand, maxBase uint32) {
	p.ID = rng.Uint32()

	if maxBase == 0 {
		p.State.csx = 0
	} else {
		p.State.csx = rng.Uint32() % maxBase
	}

	p.State.ipx = p.State.csx
	p.Info |= ProcStarted
}
