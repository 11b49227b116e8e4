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

// recordingSink collects every reported message, for tests that assert an
// error kind was reported without caring about exact wording.
type recordingSink struct {
	msgs []string
}

func (s *recordingSink) Report(msg string) {
	s.msgs = append(s.msgs, msg)
}

// fakeConsole is a scripted Console double: WriteChar/WriteU32/... append to
// Out, ReadLine pops from In.
type fakeConsole struct {
	Out     []string
	In      []string
	Cleared int
}

func (c *fakeConsole) WriteChar(b byte)     { c.Out = append(c.Out, string(rune(b))) }
func (c *fakeConsole) WriteU32(v uint32)    { c.Out = append(c.Out, itoaU32(v)) }
func (c *fakeConsole) WriteI32(v int32)     { c.Out = append(c.Out, itoaI32(v)) }
func (c *fakeConsole) WriteF32(v float32)   { c.Out = append(c.Out, ftoa(v)) }
func (c *fakeConsole) ClearScreen()         { c.Cleared++ }

func (c *fakeConsole) WriteBytes(mem *Memory, addr, length uint32, sink ErrSink) {
	buf := make([]byte, 0, length)
	for i := uint32(0); i < length; i++ {
		buf = append(buf, mem.Read(addr+i, sink))
	}
	c.Out = append(c.Out, string(buf))
}

func (c *fakeConsole) ReadLine() (string, bool) {
	if len(c.In) == 0 {
		return "", false
	}
	line := c.In[0]
	c.In = c.In[1:]
	return line, true
}

// singleRunMenu hands the driver one process+bytecode pair on its first
// MenuRun, then quits.
type singleRunMenu struct {
	proc     *Process
	bytecode []byte
	served   bool
}

func (m *singleRunMenu) Next() MenuAction {
	if !m.served {
		m.served = true
		return MenuAction{Kind: MenuRun}
	}
	return MenuAction{Kind: MenuQuit}
}

func (m *singleRunMenu) Process() (*Process, []byte) {
	return m.proc, m.bytecode
}

func itoaU32(v uint32) string {
	return uitoa(uint64(v))
}

func itoaI32(v int32) string {
	if v < 0 {
		return "-" + uitoa(uint64(-int64(v)))
	}
	return uitoa(uint64(v))
}

func uitoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for v > 0 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
	}
	return string(digits[i:])
}

func ftoa(v float32) string {
	// Minimal, test-only float rendering; exact formatting is the
	// collaborator's concern (internal/cli), not the core's.
	return uitoa(uint64(v))
}

// assembleProgram packs a sequence of 4-byte instructions into one
// bytecode slice.
func assembleProgram(instrs ...[4]byte) []byte {
	out := make([]byte, 0, len(instrs)*4)
	for _, instr := range instrs {
		out = append(out, instr[0], instr[1], instr[2], instr[3])
	}
	return out
}

// newTestVM builds a small VM for opcode-level tests, bypassing the
// driver/menu so individual instructions can be exercised directly.
func newTestVM(memLen uint32) (*VM, *recordingSink, *fakeConsole) {
	sink := &recordingSink{}
	console := &fakeConsole{}
	vm := NewVM(memLen, sink, console, nil)
	return vm, sink, console
}
