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

// execute decodes and runs one 4-byte instruction (a,b,c,d) against the
// live register file and memory. It returns 1 to continue and 0 to
// terminate the current process (division by zero, invalid opcode, or a
// trap that signals termination).
//
// imm16 = (c<<8)|d, imm24 = (b<<16)|(c<<8)|d, per spec.md §3/§4.4.
func (vm *VM) execute(a, b, c, d uint8) int {
	imm16 := func() uint32 { return uint32(c)<<8 | uint32(d) }
	imm24 := func() uint32 { return uint32(b)<<16 | uint32(c)<<8 | uint32(d) }

	switch a {
	case OpNop:
		// nothing

	case OpLdxV:
		vm.State.Write(b, imm16(), vm.sink)
		vm.rerollStackIfNeeded(b)

	case OpLdxX:
		vm.State.Write(b, vm.State.Read(c, vm.sink), vm.sink)
		vm.rerollStackIfNeeded(b)

	case OpSetV:
		vm.Memory.Write(vm.State.ax, b, vm.sink)

	case OpSetX:
		vm.Memory.Write(vm.State.ax, uint8(vm.State.Read(b, vm.sink)), vm.sink)

	case OpGetX:
		vm.State.Write(b, uint32(vm.Memory.Read(vm.State.ax, vm.sink)), vm.sink)

	case OpExcV:
		return vm.trap(imm24())

	case OpExcX:
		return vm.trap(vm.State.Read(b, vm.sink))

	case OpJitVV:
		if vm.State.fx == uint32(d) {
			vm.State.ipx = vm.State.csx + (uint32(b)<<8 | uint32(c))
		}

	case OpJitVX:
		if vm.State.fx == vm.State.Read(d, vm.sink) {
			vm.State.ipx = vm.State.csx + (uint32(b)<<8 | uint32(c))
		}

	case OpJitXV:
		if vm.State.fx == imm16() {
			vm.State.ipx = vm.State.csx + vm.State.Read(b, vm.sink)
		}

	case OpJitXX:
		if vm.State.fx == vm.State.Read(c, vm.sink) {
			vm.State.ipx = vm.State.csx + vm.State.Read(b, vm.sink)
		}

	case OpJifVV:
		if vm.State.fx != uint32(d) {
			vm.State.ipx = vm.State.csx + (uint32(b)<<8 | uint32(c))
		}

	case OpJifVX:
		if vm.State.fx != vm.State.Read(d, vm.sink) {
			vm.State.ipx = vm.State.csx + (uint32(b)<<8 | uint32(c))
		}

	case OpJifXV, OpJifXX:
		// 0F is an alias of 0E — both compare against R[c], never R[d] or
		// the source operand variant's own right-hand side. Preserved
		// quirk, see spec.md §4.4 / DESIGN.md.
		if vm.State.fx != vm.State.Read(c, vm.sink) {
			vm.State.ipx = vm.State.csx + vm.State.Read(b, vm.sink)
		}

	case OpAddXV:
		vm.State.Write(b, vm.State.Read(b, vm.sink)+imm16(), vm.sink)

	case OpAddXX:
		vm.State.Write(b, vm.State.Read(b, vm.sink)+vm.State.Read(c, vm.sink), vm.sink)

	case OpSubXV:
		left, right := vm.State.Read(b, vm.sink), vm.State.Read(c, vm.sink)
		vm.compare(left, right)
		vm.State.Write(b, left-imm16(), vm.sink)

	case OpSubXX:
		left, right := vm.State.Read(b, vm.sink), vm.State.Read(c, vm.sink)
		vm.compare(left, right)
		vm.State.Write(b, left-right, vm.sink)

	case OpMulXV:
		vm.State.Write(b, vm.State.Read(b, vm.sink)*imm16(), vm.sink)

	case OpMulXX:
		vm.State.Write(b, vm.State.Read(b, vm.sink)*vm.State.Read(c, vm.sink), vm.sink)

	case OpDivXV:
		divisor := imm16()
		if divisor == 0 {
			reportf(vm.sink, "math [0 as divisor]")
			return 0
		}
		vm.State.Write(b, vm.State.Read(b, vm.sink)/divisor, vm.sink)

	case OpDivXX:
		divisor := vm.State.Read(c, vm.sink)
		if divisor == 0 {
			reportf(vm.sink, "math [0 as divisor]")
			return 0
		}
		vm.State.Write(b, vm.State.Read(b, vm.sink)/divisor, vm.sink)

	case OpAndXV:
		vm.State.Write(b, vm.State.Read(b, vm.sink)&imm16(), vm.sink)

	case OpAndXX:
		vm.State.Write(b, vm.State.Read(b, vm.sink)&vm.State.Read(c, vm.sink), vm.sink)

	case OpOrXV:
		vm.State.Write(b, vm.State.Read(b, vm.sink)|imm16(), vm.sink)

	case OpOrXX:
		vm.State.Write(b, vm.State.Read(b, vm.sink)|vm.State.Read(c, vm.sink), vm.sink)

	case OpXorXV:
		vm.State.Write(b, vm.State.Read(b, vm.sink)^imm16(), vm.sink)

	case OpXorXX:
		vm.State.Write(b, vm.State.Read(b, vm.sink)^vm.State.Read(c, vm.sink), vm.sink)

	case OpShlXV:
		vm.State.Write(b, vm.State.Read(b, vm.sink)<<(imm16()&0x1F), vm.sink)

	case OpShlXX:
		vm.State.Write(b, vm.State.Read(b, vm.sink)<<(vm.State.Read(c, vm.sink)&0x1F), vm.sink)

	case OpShrXV:
		vm.State.Write(b, vm.State.Read(b, vm.sink)>>(imm16()&0x1F), vm.sink)

	case OpShrXX:
		vm.State.Write(b, vm.State.Read(b, vm.sink)>>(vm.State.Read(c, vm.sink)&0x1F), vm.sink)

	case OpNotX:
		vm.State.Write(b, ^vm.State.Read(b, vm.sink), vm.sink)

	case OpCmpXV:
		vm.compare(vm.State.Read(b, vm.sink), imm16())

	case OpCmpXX:
		vm.compare(vm.State.Read(b, vm.sink), vm.State.Read(c, vm.sink))

	default:
		reportf(
			vm.sink,
			"process (%d) has an invalid instruction [%02X %02X %02X %02X]",
			vm.procID(), a, b, c, d,
		)
		return 0
	}

	return 1
}

// rerollStackIfNeeded re-rolls ssx until the stack segment is disjoint from
// the code segment, per spec.md §4.4 and original_source/src/vm.cpp's exact
// predicate (ssx+slx < csx) || (ssx > csx+clx) — not a symmetric
// interval-overlap test. Only triggered when ldx just wrote slx.
func (vm *VM) rerollStackIfNeeded(dest uint8) {
	if dest != RegSLX {
		return
	}

	for {
		vm.State.ssx = vm.rng.Uint32()
		if vm.State.ssx+vm.State.slx < vm.State.csx || vm.State.ssx > vm.State.csx+vm.State.clx {
			break
		}
	}
}

// compare sets fx per the comparison rule: left<right => 1, left=right =>
// 2, left>right => 4. Used by every sub and cmp variant.
func (vm *VM) compare(left, right uint32) {
	switch {
	case left < right:
		vm.State.fx = FlagLess
	case left == right:
		vm.State.fx = FlagEqual
	default:
		vm.State.fx = FlagGreater
	}
}
