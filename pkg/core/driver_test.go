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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// runProgram starts a process at csx=0 with the given bytecode and drives
// the VM to completion, returning the final exit code.
func runProgram(t *testing.T, bytecode []byte, console Console) int32 {
	t.Helper()

	sink := &recordingSink{}
	vm := NewVM(1<<16, sink, console, nil)
	vm.Out = &bytes.Buffer{}

	var proc Process
	proc.State.clx = uint32(len(bytecode))
	proc.State.csx = 0
	proc.State.ipx = 0
	proc.Info |= ProcStarted

	menu := &singleRunMenu{proc: &proc, bytecode: bytecode}
	return vm.Run(menu)
}

// Scenario 1 (spec.md §8): immediate exit 0.
func TestScenarioImmediateExitZero(t *testing.T) {
	prog := assembleProgram(
		[4]byte{OpLdxV, 0, 0x00, 0x00},        // x0 = 0
		[4]byte{OpLdxV, RegSX, 0x00, 0x01},    // sx = 1 (exit)
		[4]byte{OpExcV, 0x00, 0x00, 0x01},     // trap process/exit
	)

	ec := runProgram(t, prog, &fakeConsole{})
	require.Equal(t, int32(0), ec)
}

// Scenario 2: exit with value 7.
func TestScenarioExitWithValue(t *testing.T) {
	prog := assembleProgram(
		[4]byte{OpLdxV, 0, 0x00, 0x07},
		[4]byte{OpLdxV, RegSX, 0x00, 0x01},
		[4]byte{OpExcV, 0x00, 0x00, 0x01},
	)

	ec := runProgram(t, prog, &fakeConsole{})
	require.Equal(t, int32(7), ec)
}

// Scenario 3: print 'A', then exit 0.
func TestScenarioPrintChar(t *testing.T) {
	console := &fakeConsole{}
	prog := assembleProgram(
		[4]byte{OpLdxV, 0, 0x00, 0x41}, // x0 = 'A'
		[4]byte{OpLdxV, RegSX, 0x00, 0x01},
		[4]byte{OpExcV, 0x00, 0x00, 0x02}, // trap console (sx still 1 -> out char)
		[4]byte{OpLdxV, 0, 0x00, 0x00},
		[4]byte{OpLdxV, RegSX, 0x00, 0x01},
		[4]byte{OpExcV, 0x00, 0x00, 0x01},
	)

	ec := runProgram(t, prog, console)
	require.Equal(t, int32(0), ec)
	require.Equal(t, []string{"A"}, console.Out)
}

// Scenario 4: equality branch. ldx x0,5; cmp x0,5 (fx=2);
// jit v,v target=0x0008 when fx==2 -> ipx = csx+0x0008, then
// post-incremented to csx+0x000C, landing on a trap that exits with 9.
func TestScenarioEqualityBranch(t *testing.T) {
	prog := assembleProgram(
		[4]byte{OpLdxV, 0, 0x00, 0x05}, // 0x0000: x0 = 5
		[4]byte{OpCmpXV, 0, 0x00, 0x05}, // 0x0004: cmp x0,5 -> fx = 2
		[4]byte{OpJitVV, 0x00, 0x08, 0x02}, // 0x0008: jit target 0x0008 when fx==2
		[4]byte{0, 0, 0, 0},                // 0x000C: nop, landed on by the branch
		[4]byte{OpLdxV, 0, 0x00, 0x09},      // 0x0010: no exit trap follows in this layout; see below
	)
	// Lay the program out so that branching to offset 0x0008, then the
	// driver's unconditional ipx+=4, lands exactly on an exit-with-9 trap
	// at csx+0x000C.
	prog = assembleProgram(
		[4]byte{OpLdxV, 0, 0x00, 0x05},     // 0x0000
		[4]byte{OpCmpXV, 0, 0x00, 0x05},    // 0x0004
		[4]byte{OpJitVV, 0x00, 0x08, 0x02}, // 0x0008: fx==2 -> ipx = csx+0x0008 (itself); +4 => 0x000C
		[4]byte{OpLdxV, 0, 0x00, 0x09},     // 0x000C: x0 = 9
		[4]byte{OpLdxV, RegSX, 0x00, 0x01}, // 0x0010
		[4]byte{OpExcV, 0x00, 0x00, 0x01},  // 0x0014: exit
	)

	ec := runProgram(t, prog, &fakeConsole{})
	require.Equal(t, int32(9), ec)
}

// Scenario 5: division by zero terminates the process without corrupting
// subsequent menu behavior.
func TestScenarioDivisionByZeroTerminates(t *testing.T) {
	prog := assembleProgram(
		[4]byte{OpLdxV, 0, 0x00, 0x00}, // x0 = 0
		[4]byte{OpDivXV, 0, 0x00, 0x00}, // div x0, imm=0
	)

	sink := &recordingSink{}
	vm := NewVM(1<<16, sink, &fakeConsole{}, nil)
	vm.Out = &bytes.Buffer{}

	var proc Process
	proc.State.clx = uint32(len(prog))
	proc.Info |= ProcStarted

	menu := &singleRunMenu{proc: &proc, bytecode: prog}
	ec := vm.Run(menu)

	require.NotEmpty(t, sink.msgs)
	require.Equal(t, int32(1), ec, "exit code is unchanged (never set) after a fatal trap-free termination")
	require.False(t, vm.running())
}

// Scenario 6: invalid opcode.
func TestScenarioInvalidOpcode(t *testing.T) {
	prog := assembleProgram([4]byte{0xFF, 0xAA, 0xBB, 0xCC})

	sink := &recordingSink{}
	vm := NewVM(1<<16, sink, &fakeConsole{}, nil)
	vm.Out = &bytes.Buffer{}

	var proc Process
	proc.State.clx = uint32(len(prog))
	proc.Info |= ProcStarted

	menu := &singleRunMenu{proc: &proc, bytecode: prog}
	vm.Run(menu)

	require.Len(t, sink.msgs, 1)
	require.Contains(t, sink.msgs[0], "FF AA BB CC")
	require.False(t, vm.running())
}

func TestDriverRefusesEmptyBytecode(t *testing.T) {
	sink := &recordingSink{}
	vm := NewVM(1<<16, sink, &fakeConsole{}, nil)
	vm.Out = &bytes.Buffer{}

	var proc Process
	menu := &singleRunMenu{proc: &proc, bytecode: nil}

	ec := vm.Run(menu)
	require.Equal(t, int32(1), ec)
	require.NotEmpty(t, sink.msgs)
}

func TestDriverFetchesFromIpxBeforePostIncrement(t *testing.T) {
	// A single nop followed by an exit; confirms the fetch for instruction
	// N happens at the pre-increment ipx, and ipx advances by exactly 4.
	prog := assembleProgram(
		[4]byte{OpNop, 0, 0, 0},
		[4]byte{OpLdxV, 0, 0x00, 0x03},
		[4]byte{OpLdxV, RegSX, 0x00, 0x01},
		[4]byte{OpExcV, 0x00, 0x00, 0x01},
	)

	ec := runProgram(t, prog, &fakeConsole{})
	require.Equal(t, int32(3), ec)
}
