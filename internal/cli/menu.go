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
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/qteam13-dev/qvm/pkg/core"
)

const menuHyphens = 50

var termRestore unix.Termios

// EnterRawTerm puts stdin into raw, non-canonical, no-echo mode, same
// Termios flags as the teacher's cmd/golc3/term.go. cmd/qvm/main.go enters
// it around the run loop; Menu.Next and DebugView.View leave it for the
// duration of their own reads, so those reads are line-buffered.
func EnterRawTerm() {
	termios, err := unix.IoctlGetTermios(int(os.Stdin.Fd()), unix.TCGETS)
	if err != nil {
		panic(err)
	}

	termRestore = *termios
	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	termstate.Cc[unix.VMIN] = 0
	termstate.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(
		int(os.Stdin.Fd()), unix.TCSETS, &termstate,
	); err != nil {
		panic(err)
	}
}

// ExitRawTerm restores the Termios state captured by EnterRawTerm.
func ExitRawTerm() {
	if err := unix.IoctlSetTermios(
		int(os.Stdin.Fd()), unix.TCSETS, &termRestore,
	); err != nil {
		panic(err)
	}
}

// Menu is the numbered interactive menu — load / run / debug / directory /
// exit — grounded on original_source/src/vm.cpp's vm_c::menu(). It is the
// VM's only input from outside the core (spec.md §6); only RUN, DEBUG and
// QUIT are ever distinguished by the driver.
type Menu struct {
	scanner *bufio.Scanner
	out     io.Writer
	sink    core.ErrSink
	rng     *rand.Rand
	memLen  uint32

	dir      string
	proc     *core.Process
	bytecode []byte
}

// NewMenu builds a Menu reading lines from in and writing prompts to out.
// rng/memLen must come from the VM the menu serves (core.VM.Rand and
// core.VM.Memory.Len) so process placement is drawn from the VM-wide RNG,
// per spec.md §5.
func NewMenu(rng *rand.Rand, memLen uint32, sink core.ErrSink, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		scanner: bufio.NewScanner(in),
		out:     out,
		sink:    sink,
		rng:     rng,
		memLen:  memLen,
	}
}

func (m *Menu) Next() core.MenuAction {
	// Scanner-based prompts need canonical line editing; the driver wraps
	// Running mode in raw terminal mode (see cmd/qvm/main.go), so every
	// blocking read here brackets itself the same way the teacher's
	// debugREPL does around its own scanner loop.
	ExitRawTerm()
	defer EnterRawTerm()

	m.banner()
	fmt.Fprintln(m.out, "[1] load program")
	fmt.Fprintln(m.out, "[2] run program")
	fmt.Fprintln(m.out, "[3] debug")
	fmt.Fprintln(m.out, "[4] directory")
	fmt.Fprintln(m.out, "[0] exit")
	m.ruler()

	switch m.readLine() {
	case "0":
		return core.MenuAction{Kind: core.MenuQuit}

	case "1":
		m.promptLoad()
		return core.MenuAction{Kind: core.MenuInvalid}

	case "2":
		return m.promptRun()

	case "3":
		return m.promptDebug()

	case "4":
		m.promptDirectory()
		return core.MenuAction{Kind: core.MenuInvalid}

	default:
		m.invalidChoice()
		return core.MenuAction{Kind: core.MenuInvalid}
	}
}

// SetDirectory sets the starting directory the load-program prompt prefixes
// to every entered path, equivalent to choosing menu option [4] once at
// startup.
func (m *Menu) SetDirectory(dir string) {
	m.dir = dir
}

// Process returns the process and bytecode most recently loaded, consumed
// by the driver immediately after Next returns MenuRun.
func (m *Menu) Process() (*core.Process, []byte) {
	return m.proc, m.bytecode
}

func (m *Menu) promptLoad() {
	m.banner()
	fmt.Fprint(m.out, "program file: ")

	src := m.readLine()
	m.ruler()

	if src == "" {
		m.invalidChoice()
		return
	}

	path := src
	if m.dir != "" {
		path = m.dir + "/" + src
	}

	proc := &core.Process{}
	bytecode := proc.Load(path, m.sink)

	if len(bytecode) == 0 {
		m.proc = nil
		m.bytecode = nil
		return
	}

	m.proc = proc
	m.bytecode = bytecode
}

func (m *Menu) promptRun() core.MenuAction {
	if m.proc == nil || len(m.bytecode) == 0 {
		m.invalidChoice()
		return core.MenuAction{Kind: core.MenuInvalid}
	}

	maxBase := m.memLen - uint32(len(m.bytecode))
	m.proc.Start(m.rng, maxBase)

	return core.MenuAction{Kind: core.MenuRun}
}

func (m *Menu) promptDebug() core.MenuAction {
	m.banner()
	fmt.Fprintln(m.out, "[1] show registers")
	fmt.Fprintln(m.out, "[2] show stack")
	fmt.Fprintln(m.out, "[3] show both")
	fmt.Fprintln(m.out, "[4] stop after each instruction and show both")
	fmt.Fprintln(m.out, "[0] exit")
	m.ruler()

	switch m.readLine() {
	case "1":
		return core.MenuAction{Kind: core.MenuDebug, Mode: core.DebugRegs}
	case "2":
		return core.MenuAction{Kind: core.MenuDebug, Mode: core.DebugStack}
	case "3":
		return core.MenuAction{Kind: core.MenuDebug, Mode: core.DebugBoth}
	case "4":
		return core.MenuAction{Kind: core.MenuDebug, Mode: core.DebugStep}
	default:
		return core.MenuAction{Kind: core.MenuDebug, Mode: core.DebugOff}
	}
}

func (m *Menu) promptDirectory() {
	m.banner()
	fmt.Fprint(m.out, "directory: ")

	dir := m.readLine()
	m.ruler()

	if dir == "" {
		m.invalidChoice()
		return
	}

	m.dir = dir
}

func (m *Menu) invalidChoice() {
	m.ruler()
	if m.sink != nil {
		m.sink.Report("invalid choice...")
	}
	m.ruler()
}

func (m *Menu) banner() {
	title := fmt.Sprintf("-----[ QVM %d ]-----", core.Version)
	pad := menuHyphens - len(title)
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintln(m.out, title+strings.Repeat("-", pad))
}

func (m *Menu) ruler() {
	fmt.Fprintln(m.out, strings.Repeat("-", menuHyphens))
}

func (m *Menu) readLine() string {
	if !m.scanner.Scan() {
		return "0"
	}
	return strings.TrimSpace(m.scanner.Text())
}
