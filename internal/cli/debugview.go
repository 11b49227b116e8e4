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
	"strings"

	"github.com/qteam13-dev/qvm/pkg/core"
)

const rulerWidth = 47

var regNames = [core.NumRegs]string{
	"x0", "x1", "x2", "x3", "x4", "x5", "x6", "x7",
	"x8", "x9", "x10", "x11", "x12", "x13", "x14", "x15",
	"csx", "ipx", "clx", "ssx", "spx", "slx", "ax", "sx", "fx",
}

// DebugView prints registers/stack after each executed instruction, in
// DebugStep mode prompting the terminal to continue or break early — the
// same bracketed-hex, dimmed-zero presentation as the teacher's
// debugger.PrintMem, grounded on vm.cpp's show_regs/show_stack/view.
type DebugView struct {
	Out    *bufio.Writer
	Prompt *bufio.Reader
}

// NewDebugView wraps w/r as the debug-view hook's output and (for DebugStep)
// its break-or-continue prompt source.
func NewDebugView(w io.Writer, r io.Reader) *DebugView {
	return &DebugView{
		Out:    bufio.NewWriter(w),
		Prompt: bufio.NewReader(r),
	}
}

func (v *DebugView) View(mode core.DebugMode, regs *core.Registers, mem *core.Memory) bool {
	defer v.Out.Flush()

	switch mode {
	case core.DebugRegs:
		v.showRegs(regs)
	case core.DebugStack:
		v.showStack(regs, mem)
	case core.DebugBoth, core.DebugStep:
		v.showRegs(regs)
		v.showStack(regs, mem)
	default:
		return true
	}

	if mode != core.DebugStep {
		return true
	}

	v.ruler()
	fmt.Fprint(v.Out, "press 'b' to break or other key to continue: ")
	v.Out.Flush()

	ExitRawTerm()
	c, _ := v.Prompt.ReadByte()
	EnterRawTerm()
	v.ruler()

	return strings.ToLower(string(c)) != "b"
}

func (v *DebugView) ruler() {
	fmt.Fprintln(v.Out, strings.Repeat("-", rulerWidth))
}

func (v *DebugView) showRegs(regs *core.Registers) {
	fmt.Fprintln(v.Out)
	v.ruler()
	fmt.Fprintln(v.Out, "registers")
	v.ruler()

	for a := uint8(0); a < core.NumRegs; a++ {
		fmt.Fprintf(v.Out, "[%s][%s]\t", regNames[a], hexCell(regs.Read(a, nil)))
		if (a+1)%3 == 0 {
			fmt.Fprintln(v.Out)
		}
	}

	fmt.Fprintln(v.Out)
	v.ruler()
}

func (v *DebugView) showStack(regs *core.Registers, mem *core.Memory) {
	fmt.Fprintln(v.Out)
	v.ruler()
	fmt.Fprintln(v.Out, "stack")
	v.ruler()

	ssx, spx := regs.Read(core.RegSSX, nil), regs.Read(core.RegSPX, nil)
	slx := regs.Read(core.RegSLX, nil)

	if ssx == spx || slx == 0 || ssx == 0 || spx == 0 {
		fmt.Fprint(v.Out, "empty stack...")
	} else {
		i := 0
		for addr := ssx; addr < spx; addr++ {
			fmt.Fprintf(v.Out, "[%s][%s]\t", hexCell(addr), hexCell(uint32(mem.Read(addr, nil))))
			i++
			if i%3 == 0 {
				fmt.Fprintln(v.Out)
			}
		}
	}

	fmt.Fprintln(v.Out)
	v.ruler()
}

func hexCell(v uint32) string {
	if v == 0 {
		return "\033[1;30m0x00000000\033[0m"
	}
	return fmt.Sprintf("%#08x", v)
}
