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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryDefaultLength(t *testing.T) {
	m := NewMemory(0, DiscardSink{})
	require.Equal(t, DefaultMemLen, m.Len())
}

func TestMemoryReadWriteInRange(t *testing.T) {
	m := NewMemory(16, DiscardSink{})
	sink := &recordingSink{}

	m.Write(4, 0xAB, sink)
	require.Equal(t, byte(0xAB), m.Read(4, sink))
	require.Empty(t, sink.msgs)
}

func TestMemoryOutOfRangeIsBenignZero(t *testing.T) {
	m := NewMemory(4, DiscardSink{})
	sink := &recordingSink{}

	require.Equal(t, byte(0), m.Read(100, sink))
	m.Write(100, 0xFF, sink) // discarded, must not panic

	require.Len(t, sink.msgs, 2)
	require.Equal(t, byte(0), m.Read(100, DiscardSink{}))
}

func TestMemoryLoad(t *testing.T) {
	m := NewMemory(16, DiscardSink{})
	m.Load(2, []byte{0x01, 0x02, 0x03}, DiscardSink{})

	require.Equal(t, byte(0x01), m.Read(2, DiscardSink{}))
	require.Equal(t, byte(0x02), m.Read(3, DiscardSink{}))
	require.Equal(t, byte(0x03), m.Read(4, DiscardSink{}))
}
