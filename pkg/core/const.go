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

// Version is the VM's reported version, shown in the menu banner.
const Version uint32 = 1

// XRegs is the number of general-purpose registers, x[0..XRegs-1].
const XRegs = 0x10

// Named control register addresses, immediately following the x registers.
const (
	RegCSX = XRegs + iota // code-segment base
	RegIPX                // instruction pointer
	RegCLX                // code-segment length
	RegSSX                // stack-segment base
	RegSPX                // stack pointer
	RegSLX                // stack-segment length
	RegAX                 // memory address register
	RegSX                 // trap subfunction selector
	RegFX                 // comparison flags
)

// NumRegs is the number of valid register addresses; addresses >= NumRegs
// are invalid and route through the register sink.
const NumRegs = RegFX + 1

// Comparison flags, set by sub and cmp.
const (
	FlagLess    uint32 = 0x0001
	FlagEqual   uint32 = 0x0002
	FlagGreater uint32 = 0x0004
)

// DefaultMemLen is the linear memory size selected when a VM is constructed
// with length 0 (128 MiB).
const DefaultMemLen uint32 = 0x08000000

// Opcodes, one byte wide, decoded from the first byte of every instruction.
const (
	OpNop uint8 = 0x00

	OpLdxV uint8 = 0x01 // ldx x,v
	OpLdxX uint8 = 0x02 // ldx x,x

	OpSetV uint8 = 0x03 // set v
	OpSetX uint8 = 0x04 // set x
	OpGetX uint8 = 0x05 // get x

	OpExcV uint8 = 0x06 // exc v
	OpExcX uint8 = 0x07 // exc x

	OpJitVV uint8 = 0x08
	OpJitVX uint8 = 0x09
	OpJitXV uint8 = 0x0A
	OpJitXX uint8 = 0x0B

	OpJifVV uint8 = 0x0C
	OpJifVX uint8 = 0x0D
	OpJifXV uint8 = 0x0E
	OpJifXX uint8 = 0x0F // alias of OpJifXV, see Design Notes

	OpAddXV uint8 = 0x10
	OpAddXX uint8 = 0x11

	OpSubXV uint8 = 0x12
	OpSubXX uint8 = 0x13

	OpMulXV uint8 = 0x14
	OpMulXX uint8 = 0x15

	OpDivXV uint8 = 0x16
	OpDivXX uint8 = 0x17

	OpAndXV uint8 = 0x18
	OpAndXX uint8 = 0x19

	OpOrXV uint8 = 0x1A
	OpOrXX uint8 = 0x1B

	OpXorXV uint8 = 0x1C
	OpXorXX uint8 = 0x1D

	OpShlXV uint8 = 0x1E
	OpShlXX uint8 = 0x1F

	OpShrXV uint8 = 0x20
	OpShrXX uint8 = 0x21

	OpNotX uint8 = 0x22

	OpCmpXV uint8 = 0x23
	OpCmpXX uint8 = 0x24
)

// ProcInfo is a bitset describing a process's lifecycle state.
type ProcInfo uint16

const (
	ProcStarted ProcInfo = 0x1
	ProcAborted ProcInfo = 0x2
)

// Trap numbers, assembled as imm24 from exc's operand bytes.
const (
	TrapProcess uint32 = 0x000001
	TrapConsole uint32 = 0x000002
	TrapFile    uint32 = 0x000003
)

// Trap subfunctions, read out of the sx control register.
const (
	SxExit  uint32 = 0x1
	SxAbort uint32 = 0x2

	SxConsoleOutChar uint32 = 0x1
	SxConsoleOutU32  uint32 = 0x2
	SxConsoleOutI32  uint32 = 0x3
	SxConsoleOutF32  uint32 = 0x4
	SxConsoleOutStr  uint32 = 0x5
	SxConsoleInChar  uint32 = 0x6
	SxConsoleInU32   uint32 = 0x7
	SxConsoleInI32   uint32 = 0x8
	SxConsoleInF32   uint32 = 0x9
	SxConsoleInStr   uint32 = 0xA
	SxConsoleClear   uint32 = 0xB
)
