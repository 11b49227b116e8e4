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
	"math"
	"strconv"
	"strings"
)

// trap dispatches a numbered system service selected by val (the assembled
// trap number) and the live sx register (the subfunction selector). It
// returns a continuation code: 0 means terminate the current process,
// anything else means continue. t=2 and t=3 fall through to the final
// "continue" return for any subfunction that performs no explicit
// termination — a preserved quirk of the reference dispatcher, which simply
// never assigns its return slot in those branches; see DESIGN.md.
func (vm *VM) trap(val uint32) int {
	switch val {
	case TrapProcess:
		switch vm.State.sx {
		case SxExit:
			vm.ec = int32(vm.State.Read(0, vm.sink))
			return 0

		case SxAbort:
			reportf(vm.sink, "process (%d) aborted", vm.procID())
			vm.ec = -1
			return 0
		}

	case TrapConsole:
		vm.consoleTrap()

	case TrapFile:
		// reserved: all subfunctions are no-ops in this version.
	}

	return 1
}

func (vm *VM) consoleTrap() {
	if vm.console == nil {
		return
	}

	switch vm.State.sx {
	case SxConsoleOutChar:
		vm.console.WriteChar(byte(vm.State.Read(0, vm.sink)))

	case SxConsoleOutU32:
		vm.console.WriteU32(vm.State.Read(0, vm.sink))

	case SxConsoleOutI32:
		vm.console.WriteI32(int32(vm.State.Read(0, vm.sink)))

	case SxConsoleOutF32:
		vm.console.WriteF32(math.Float32frombits(vm.State.Read(0, vm.sink)))

	case SxConsoleOutStr:
		addr := vm.State.Read(0, vm.sink)
		length := vm.State.Read(1, vm.sink)
		vm.console.WriteBytes(vm.Memory, addr, length, vm.sink)

	case SxConsoleInChar:
		line, ok := vm.console.ReadLine()
		if ok && len(line) > 0 {
			vm.State.Write(0, uint32(line[0]), vm.sink)
		}

	case SxConsoleInU32:
		line, _ := vm.console.ReadLine()
		n, _ := strconv.ParseUint(strings.TrimSpace(line), 10, 32)
		vm.State.Write(0, uint32(n), vm.sink)

	case SxConsoleInI32:
		line, _ := vm.console.ReadLine()
		n, _ := strconv.ParseInt(strings.TrimSpace(line), 10, 32)
		vm.State.Write(0, uint32(int32(n)), vm.sink)

	case SxConsoleInF32:
		line, _ := vm.console.ReadLine()
		f, _ := strconv.ParseFloat(strings.TrimSpace(line), 32)
		vm.State.Write(0, math.Float32bits(float32(f)), vm.sink)

	case SxConsoleInStr:
		line, _ := vm.console.ReadLine()
		vm.State.Write(0, uint32(len(line)), vm.sink)
		for i := 0; i < len(line); i++ {
			vm.State.spx++
			vm.Memory.Write(vm.State.spx, line[i], vm.sink)
		}

	case SxConsoleClear:
		vm.console.ClearScreen()
	}
}
