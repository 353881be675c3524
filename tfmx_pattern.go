// tfmx_pattern.go - pattern interpreter: one cursor per track

package tfmx

// tickPatternTrack advances track t's pattern cursor by one tick. It
// returns true when an End command executed a trackstep advance (the
// track-sequencer pass must then restart iteration from track 0).
func (e *Engine) tickPatternTrack(t int) bool {
	pb := &e.pattern
	cur := &pb.Tracks[t]

	if cur.PatternNum == patternSilence {
		e.silenceChannel(uint32(cur.Transpose))
		cur.PatternNum++
		return false
	}
	if cur.PatternAddr == 0 && cur.PatternNum != 0 {
		return false
	}
	if cur.PatternNum >= patternInactive {
		return false
	}
	if cur.Wait > 0 {
		cur.Wait--
		return false
	}

	for {
		advanced, stop := e.execPatternInstr(t, cur)
		if advanced {
			return true
		}
		if stop {
			return false
		}
	}
}

// execPatternInstr executes one instruction at the cursor and reports
// whether the track-sequencer advanced (End) and whether execution
// should stop for this tick.
func (e *Engine) execPatternInstr(t int, cur *PatternCursor) (advanced, stop bool) {
	mod := e.module
	word := uint32(mod.wordAt(cur.PatternAddr + cur.Step))
	cur.Step++

	op := byte(word >> 24)
	paramA := int32(byte(word >> 16))
	byte2 := byte(word >> 8)
	byte3 := byte(word)
	velocity := int32(byte2 >> 4)
	channel := int32(byte2 & 0xF)
	halfword1 := int32(int16(word & 0xFFFF))

	if op < 0xF0 {
		switch {
		case op <= 0x7F: // immediate note
			note := (int32(op) + cur.Transpose) & 0x3F
			if !cur.Muted {
				e.notePort(channel, note, velocity, paramA, signExtend8(byte3), 0)
			}
			return false, true

		case op <= 0xBF: // note-then-wait
			note := (int32(op&0x3F) + cur.Transpose) & 0x3F
			cur.Wait = int32(byte3)
			if !cur.Muted {
				e.notePort(channel, note, velocity, paramA, 0, 0)
			}
			return false, true

		default: // 0xC0..0xEF: portamento note
			note := (int32(op&0x3F) + cur.Transpose) & 0x3F
			if !cur.Muted {
				e.notePort(channel, note, velocity, paramA, signExtend8(byte3), notePortamento)
			}
			return false, true
		}
	}

	cmd := op & 0x0F
	switch cmd {
	case 0: // End
		if e.pattern.CurrentPos == e.pattern.LastPos {
			e.pattern.CurrentPos = e.pattern.FirstPos
		} else {
			e.pattern.CurrentPos++
		}
		e.loadTrackstep()
		return true, true

	case 1: // Loop: post-decrement, prior-zero releases, prior-negative reloads
		if cur.LoopCount == 0xFFFF {
			cur.LoopCount = paramA
		}
		prior := cur.LoopCount
		cur.LoopCount--
		if prior == 0 {
			return false, false
		}
		if prior < 0 {
			cur.LoopCount = paramA - 1
		}
		cur.Step = halfword1
		return false, false

	case 2: // Cont
		cur.Step = halfword1
		return false, false

	case 3: // Wait
		cur.Wait = halfword1
		return false, true

	case 4: // Stop
		cur.PatternNum = patternInactive
		return false, true

	case 5: // KeyUp
		if !cur.Muted {
			e.macroKeyUp(channel)
		}
		return false, false

	case 6: // Vibr
		if !cur.Muted {
			e.macroSetVibrato(channel, paramA, signExtend8(byte3))
		}
		return false, false

	case 7: // Envelope
		if !cur.Muted {
			e.macroSetEnvelope(channel, paramA, byte2, signExtend8(byte3))
		}
		return false, false

	case 8: // GoSub, falls through to Cont
		cur.ReturnAddr = cur.PatternAddr
		cur.ReturnStep = cur.Step
		cur.Step = halfword1
		return false, false

	case 9: // Return
		cur.PatternAddr = cur.ReturnAddr
		cur.Step = cur.ReturnStep
		return false, false

	case 10: // Fade: byte2 = speed, byte3 = destination volume
		e.startMasterFade(int32(byte2), int32(byte3))
		return false, false

	case 11: // PPat: retarget another track's cursor
		other := &e.pattern.Tracks[channel&0x7]
		other.PatternAddr = mod.wordAt(cur.PatternAddr + cur.Step)
		other.Step = 0
		other.Wait = 0
		cur.Step++
		return false, false

	case 12: // Lock
		if !cur.Muted {
			e.macroSFXLock(channel, paramA, signExtend8(byte3))
		}
		return false, false

	case 13: // Cue
		e.signal[paramA&0x3] = uint16(halfword1)
		return false, false

	case 14: // StCu: marks the cursor inactive like Stop; no play-pattern flag is kept or cleared
		cur.PatternNum = patternInactive
		return false, true

	default: // 15 NOP
		return false, false
	}
}
