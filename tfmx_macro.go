// tfmx_macro.go - macro interpreter: one micro-program per controller

package tfmx

// tickMacro advances controller c's macro program by one tick,
// implementing §4.4's fetch-decode-execute loop.
func (e *Engine) tickMacro(idx int) {
	c := &e.controllers[idx]

	c.MacroWait--
	if c.MacroRun == 0 || c.MacroWait > 0 {
		return
	}

	for {
		ret := e.execMacroInstr(idx, c)
		if ret {
			return
		}
	}
}

// execMacroInstr executes one macro instruction and returns true when
// the macro should yield for this tick (return), false to continue
// fetching (fall through / continue).
func (e *Engine) execMacroInstr(idx int, c *Controller) bool {
	mod := e.module
	word := uint32(mod.wordAt(c.MacroPtr + c.MacroStep))
	c.MacroStep++

	op := byte(word >> 24)
	paramA := int32(byte(word >> 16))
	byte2 := byte(word >> 8)
	byte3 := byte(word)
	halfword1 := int32(int16(word & 0xFFFF))

	switch op {
	case 0x00: // DMAoff+Reset: clear effects, then fall through to 0x13
		c.resetEffects()
		return e.macroDMAoff(idx, c, paramA)

	case 0x13: // DMAoff
		return e.macroDMAoff(idx, c, paramA)

	case 0x01: // DMAon
		c.EfxRun = paramA
		hw := &e.hw[c.HWChannel]
		hw.Mode = hwModeEnabled
		hw.SampleStart = c.SaveAddr
		if c.SaveLen == 0 {
			hw.SampleLen = 131072
		} else {
			hw.SampleLen = c.SaveLen << 1
		}
		return false

	case 0x02: // SetBegin
		c.SaveAddr = int32(word & 0x00FFFFFF)
		c.CurAddr = c.SaveAddr
		return false

	case 0x11: // AddBegin
		c.AddBeginTime = paramA
		c.AddBeginReset = paramA
		c.AddBegin = halfword1
		c.CurAddr += c.AddBegin
		c.SaveAddr = c.CurAddr
		return false

	case 0x03: // SetLen
		c.SaveLen = halfword1 & 0xFFFF
		c.CurLen = c.SaveLen
		return false

	case 0x12: // AddLen
		c.CurLen = (c.CurLen + halfword1) & 0xFFFF
		c.SaveLen = c.CurLen
		return false

	case 0x04: // Wait
		if paramA&1 != 0 {
			prior := c.ReallyWait
			c.ReallyWait++
			if prior != 0 {
				return true
			}
		}
		c.MacroWait = halfword1
		return e.maybeWait(c)

	case 0x1A: // WaitOnDMA
		e.hw[c.HWChannel].armWaitDMA(0)
		e.hw[c.HWChannel].OwnerCtrl = idx
		c.MacroWait = halfword1
		c.MacroRun = 0
		return e.maybeWait(c)

	case 0x1C: // SplitKey
		if c.CurrNote > paramA {
			c.MacroStep = halfword1
		}
		return false

	case 0x1D: // SplitVol
		if c.CurVol > paramA {
			c.MacroStep = halfword1
		}
		return false

	case 0x10: // LoopKeyUp
		if c.KeyUp == 0 {
			return true
		}
		fallthrough
	case 0x05: // Loop
		prior := c.LoopCounter
		c.LoopCounter--
		if prior == 0 {
			return true
		}
		if prior < 0 {
			c.LoopCounter = paramA - 1
		}
		c.MacroStep = halfword1
		return false

	case 0x07: // Stop
		c.MacroRun = 0
		return true

	case 0x0D: // AddVolume
		if byte2 != 0xFE {
			c.CurVol = clamp(c.Velocity*3+signExtend8(byte3), 0, 64)
		}
		return false

	case 0x0E: // SetVolume
		if byte2 != 0xFE {
			c.CurVol = int32(byte3)
		}
		return false

	case 0x08: // AddNote
		note := (c.CurrNote + paramA) & 0x3F
		dest := notevals[note] * (256 + c.Finetune + signExtend8(byte3)) >> 8
		c.DestPeriod = dest
		if c.PortaRate == 0 {
			c.CurPeriod = dest & periodMask
		}
		return e.maybeWait(c)

	case 0x09: // SetNote
		note := paramA & 0x3F
		dest := notevals[note] * (256 + c.Finetune + signExtend8(byte3)) >> 8
		c.DestPeriod = dest
		if c.PortaRate == 0 {
			c.CurPeriod = dest & periodMask
		}
		return e.maybeWait(c)

	case 0x1F: // SetPrevNote
		note := (c.PrevNote + paramA) & 0x3F
		dest := notevals[note] * (256 + c.Finetune + signExtend8(byte3)) >> 8
		c.DestPeriod = dest
		if c.PortaRate == 0 {
			c.CurPeriod = dest & periodMask
		}
		return e.maybeWait(c)

	case 0x17: // SetPeriod
		c.DestPeriod = halfword1
		if c.PortaRate == 0 {
			c.CurPeriod = halfword1 & periodMask
		}
		return false

	case 0x0B: // Portamento
		c.PortaReset = paramA
		c.PortaTime = 1
		c.PortaRate = halfword1
		if c.PortaRate != 0 {
			c.PortaPer = c.DestPeriod
		}
		return false

	case 0x0C: // Vibrato
		c.VibReset = paramA
		c.VibTime = paramA >> 1
		c.VibWidth = signExtend8(byte3)
		c.VibOffset = 0
		return false

	case 0x0F: // Envelope
		c.EnvReset = int32(byte2)
		c.EnvTime = int32(byte2)
		c.EnvEndVol = signExtend8(byte3)
		c.EnvRate = paramA
		return false

	case 0x0A: // Reset Effects
		c.resetEffects()
		return false

	case 0x14: // WaitKeyUp
		if c.KeyUp != 0 {
			c.LoopCounter = int32(byte3)
			c.MacroStep--
			return true
		}
		return false

	case 0x15: // GoSub, falls through to Cont
		c.ReturnPtr = c.MacroPtr
		c.ReturnStep = c.MacroStep
		fallthrough
	case 0x06: // Cont
		if int(paramA) < len(mod.Macros) {
			c.MacroPtr = mod.Macros[paramA]
		}
		c.MacroStep = halfword1
		c.LoopCounter = 0xFFFF
		return false

	case 0x16: // Return
		c.MacroPtr = c.ReturnPtr
		c.MacroStep = c.ReturnStep
		return false

	case 0x18: // Sampleloop
		off := halfword1 &^ 1
		c.SaveAddr += off
		c.SaveLen -= off >> 1
		return false

	case 0x19: // OneShot
		c.SaveAddr = 0
		c.CurAddr = 0
		c.SaveLen = 1
		return false

	case 0x20: // Cue
		e.signal[paramA&0x3] = uint16(halfword1)
		return false

	case 0x21: // PlayMacro
		ch := int32(byte2 & 0xF)
		e.notePort(ch, c.CurrNote, c.Velocity, c.Instrument, 0, 0)
		return false

	default: // unknown opcodes (incl. 0x1B Random, 0x1E Add-Vol+Note) are NOPs
		return false
	}
}

// macroDMAoff implements opcode 0x13's body, shared with 0x00's
// fall-through per §9. paramA == 0 breaks out of the opcode switch
// without yielding the tick; the else branch returns (yields).
func (e *Engine) macroDMAoff(idx int, c *Controller, paramA int32) bool {
	hw := &e.hw[c.HWChannel]
	hw.Loop = loopOff
	if paramA == 0 {
		hw.Mode = 0
		if c.NewStyleMacro != 0 {
			hw.SLen = 0
		}
		if e.Gemx {
			c.CurVol = 0
		}
		return false
	}
	hw.Mode |= hwModeOneShot
	c.NewStyleMacro = 0
	return true
}

// maybeWait implements the MAYBEWAIT policy: opcodes that set a
// note/period return so the note takes one tick to settle, unless the
// previous instruction already yielded (new_style_macro == 0).
func (e *Engine) maybeWait(c *Controller) bool {
	if c.NewStyleMacro == 0 {
		c.NewStyleMacro = 0xFF
		return false
	}
	return true
}
