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
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"
)

// DebugMode selects what the debug-view hook shows after each instruction.
type DebugMode int

const (
	DebugOff DebugMode = iota
	DebugRegs
	DebugStack
	DebugBoth
	DebugStep
)

// MenuActionKind is the driver-visible subset of what the external menu can
// return; LOAD and SET_DIR are handled entirely inside the menu collaborator
// (spec.md §6: "only the returned bytecode crosses the boundary").
type MenuActionKind int

const (
	MenuInvalid MenuActionKind = iota
	MenuRun
	MenuDebug
	MenuQuit
)

// MenuAction is what Menu.Next returns to the driver each time it is idle.
type MenuAction struct {
	Kind MenuActionKind
	Mode DebugMode // valid when Kind == MenuDebug
}

// Menu is the VM driver's only input from outside the core (spec.md §6).
type Menu interface {
	Next() MenuAction

	// Process returns the process and bytecode most recently prepared for a
	// run; valid immediately after Next returns a MenuRun action. An empty
	// bytecode slice (or a nil process) makes the driver refuse to start,
	// per spec.md §4.6/§7.5.
	Process() (*Process, []byte)
}

// DebugView is invoked after every executed instruction in Running mode
// once a debug mode has been selected. In DebugStep mode, a false return
// stops the process early (a user-initiated stop).
type DebugView interface {
	View(mode DebugMode, regs *Registers, mem *Memory) bool
}

// Console is the trap dispatcher's I/O backend for t=TrapConsole.
type Console interface {
	WriteChar(c byte)
	WriteU32(v uint32)
	WriteI32(v int32)
	WriteF32(v float32)
	WriteBytes(mem *Memory, addr, length uint32, sink ErrSink)
	ReadLine() (line string, ok bool)
	ClearScreen()
}

// VM owns the memory, the live register file (distinct from any process's
// initial snapshot), the current process, the start timestamp, and the last
// exit code. The bytecode buffer produced by a process's Load is held by the
// Menu; the VM copies it into memory at start and keeps no reference to it.
// At most one process is live at a time (spec.md §5).
type VM struct {
	Memory *Memory
	State  Registers

	rng  *rand.Rand
	sink ErrSink

	console Console
	view    DebugView

	// Out receives the driver's own status lines ("process ended...",
	// elapsed time) — direct std::cout writes in the reference
	// implementation, not routed through a named collaborator. Defaults to
	// os.Stdout; tests substitute a buffer.
	Out io.Writer

	proc      *Process
	codeEnd   uint32
	debugMode DebugMode

	startedAt time.Time
	ec        int32
}

// NewVM constructs a VM with memLen bytes of memory (0 selects
// DefaultMemLen), seeding its RNG once from wall-clock time (spec.md §5).
func NewVM(memLen uint32, sink ErrSink, console Console, view DebugView) *VM {
	return &VM{
		Memory:  NewMemory(memLen, sink),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		sink:    sink,
		console: console,
		view:    view,
		Out:     os.Stdout,
		ec:      1,
	}
}

// Rand returns the VM-wide random source. Callers preparing a process to
// run (i.e. the menu, calling Process.Start) must use this source rather
// than one of their own, since it is also shared with the ssx re-roll in
// the executor (spec.md §5).
func (vm *VM) Rand() *rand.Rand {
	return vm.rng
}

// ExitCode returns the last recorded exit code: the program's x0 (bit-cast
// to int32) after a clean exit trap, -1 after abort, 1 if never set.
func (vm *VM) ExitCode() int32 {
	return vm.ec
}

func (vm *VM) running() bool {
	return vm.proc != nil && vm.proc.Info&ProcStarted != 0
}

// Run drives the Running/Idle outer loop of spec.md §4.6 until the menu
// returns MenuQuit, returning the final exit code.
func (vm *VM) Run(menu Menu) int32 {
	for {
		if vm.running() {
			vm.stepOnce()
			continue
		}

		action := menu.Next()

		switch action.Kind {
		case MenuRun:
			proc, bytecode := menu.Process()
			vm.beginProcess(proc, bytecode)

		case MenuDebug:
			vm.debugMode = action.Mode

		case MenuQuit:
			return vm.ec

		default:
			// continue idle
		}
	}
}

// beginProcess implements the process startup sequence of spec.md §4.6: the
// driver copies the loaded bytecode into memory at [csx, csx+clx), snapshots
// the process's register state into the live registers, and begins Running.
func (vm *VM) beginProcess(proc *Process, bytecode []byte) {
	if proc == nil || len(bytecode) == 0 {
		reportf(vm.sink, "refusing to start: empty bytecode buffer")
		return
	}

	vm.Memory.Load(proc.State.csx, bytecode, vm.sink)

	vm.proc = proc
	vm.State = proc.State
	vm.codeEnd = vm.State.csx + vm.State.clx
	vm.startedAt = time.Now()
}

func (vm *VM) stepOnce() {
	ipx := vm.State.ipx

	a := vm.Memory.Read(ipx, vm.sink)
	b := vm.Memory.Read(ipx+1, vm.sink)
	c := vm.Memory.Read(ipx+2, vm.sink)
	d := vm.Memory.Read(ipx+3, vm.sink)

	ret := vm.execute(a, b, c, d)

	// Unconditional post-increment, even across a branch that just moved
	// ipx — a preserved quirk, see spec.md §4.4 and DESIGN.md.
	vm.State.ipx += 4

	if vm.debugMode != DebugOff && vm.view != nil {
		if !vm.view.View(vm.debugMode, &vm.State, vm.Memory) {
			ret = 0
		}
	}

	if ret == 0 || vm.State.ipx >= vm.codeEnd {
		vm.terminate()
	}
}

func (vm *VM) terminate() {
	elapsed := time.Since(vm.startedAt)

	fmt.Fprintf(vm.Out, "process (%d) ended with %d\n", vm.procID(), vm.ec)
	fmt.Fprintf(vm.Out, "time elapsed: %s\n", elapsed)

	vm.proc = nil
	vm.State.Flush()
}

func (vm *VM) procID() uint32 {
	if vm.proc == nil {
		return 0
	}
	return vm.proc.ID
}
