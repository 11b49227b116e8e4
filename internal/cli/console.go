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

// Console is the t=TrapConsole backend: a Keyboard/Display pair, the same
// bufio.Reader/bufio.Writer shape as the teacher's machine.DeviceHandler.
type Console struct {
	Keyboard *bufio.Reader
	Display  *bufio.Writer
}

// NewConsole wraps r/w as the trap dispatcher's I/O surface.
func NewConsole(r io.Reader, w io.Writer) *Console {
	return &Console{
		Keyboard: bufio.NewReader(r),
		Display:  bufio.NewWriter(w),
	}
}

func (c *Console) WriteChar(v byte) {
	fmt.Fprintf(c.Display, "%c", v)
	c.Display.Flush()
}

func (c *Console) WriteU32(v uint32) {
	fmt.Fprintf(c.Display, "%d", v)
	c.Display.Flush()
}

func (c *Console) WriteI32(v int32) {
	fmt.Fprintf(c.Display, "%d", v)
	c.Display.Flush()
}

func (c *Console) WriteF32(v float32) {
	fmt.Fprintf(c.Display, "%g", v)
	c.Display.Flush()
}

// WriteBytes prints length bytes starting at addr as a raw string, reporting
// through sink if any byte index is out of range (core.Memory.Read already
// does this per-byte).
func (c *Console) WriteBytes(mem *core.Memory, addr, length uint32, sink core.ErrSink) {
	for i := uint32(0); i < length; i++ {
		c.Display.WriteByte(mem.Read(addr+i, sink))
	}
	c.Display.Flush()
}

// ReadLine reads one newline-terminated line from the keyboard, trimming the
// trailing newline. ok is false on EOF/read error.
func (c *Console) ReadLine() (string, bool) {
	line, err := c.Keyboard.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// ClearScreen emits the ANSI clear-and-home sequence, the same opaque side
// effect as the teacher's menu "clear" command.
func (c *Console) ClearScreen() {
	fmt.Fprint(c.Display, "\033[H\033[2J")
	c.Display.Flush()
}
