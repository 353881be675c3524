// tfmx_noteport.go - dispatches note/parameter commands into controllers

package tfmx

// Note-command flags passed in notePort's flags argument; the pattern
// interpreter sets notePortamento for portamento notes.
const (
	notePlain      = 0
	notePortamento = 1 << 6
)

const sfxOpcode = 0xFC

// channelMask returns the bitmask applied to a note command's channel
// field: low 2 bits in 4-voice mode, low 3 bits in 8-voice mode.
func (e *Engine) channelMask() int32 {
	if e.EightVoice {
		return 0x7
	}
	return 0x3
}

// notePort implements §4.5: given a channel, note, velocity, instrument
// and detune, arms the addressed controller's macro (or handles the
// portamento-note special case). instrument selects which macro
// program to load (macro_ptr = macros[instrument]); note only supplies
// the playback pitch.
func (e *Engine) notePort(channel, note, velocity, instrument, detune, flags int32) {
	ch := channel & e.channelMask()
	if int(ch) >= len(e.controllers) {
		return
	}
	c := &e.controllers[ch]

	if c.SFXFlag != 0 {
		return
	}

	if flags&notePortamento != 0 {
		if c.PortaRate == 0 {
			c.PortaPer = c.DestPeriod
		}
		c.PortaReset = 1
		c.PortaTime = 1
		n := note & 0x3F
		c.DestPeriod = notevals[n] * (256 + c.Finetune + detune) >> 8
		return
	}

	if e.DangerFreakHack {
		detune = 0
	}
	c.Finetune = detune
	c.Velocity = velocity
	c.PrevNote = c.CurrNote
	c.CurrNote = note & 0x3F
	c.Instrument = instrument
	c.MacroStep = 0
	c.MacroWait = 0
	c.LoopCounter = 0
	c.EfxRun = 0
	if instrument >= 0 && int(instrument) < len(e.module.Macros) {
		c.MacroPtr = e.module.Macros[instrument]
	}
	c.KeyUp = 1
	c.MacroRun = -1
}

// macroKeyUp forwards pattern opcode 5 (KeyUp) to the addressed
// controller.
func (e *Engine) macroKeyUp(channel int32) {
	ch := channel & e.channelMask()
	if int(ch) >= len(e.controllers) {
		return
	}
	e.controllers[ch].KeyUp = 0
}

// macroSetVibrato forwards pattern opcode 6; it has the same effect as
// macro opcode 0x0C.
func (e *Engine) macroSetVibrato(channel, paramA, width int32) {
	ch := channel & e.channelMask()
	if int(ch) >= len(e.controllers) {
		return
	}
	c := &e.controllers[ch]
	c.VibReset = paramA
	c.VibTime = paramA >> 1
	c.VibWidth = width
	c.VibOffset = 0
}

// macroSetEnvelope forwards pattern opcode 7; it has the same effect as
// macro opcode 0x0F.
func (e *Engine) macroSetEnvelope(channel, rate int32, timeByte byte, endVol int32) {
	ch := channel & e.channelMask()
	if int(ch) >= len(e.controllers) {
		return
	}
	c := &e.controllers[ch]
	c.EnvReset = int32(timeByte)
	c.EnvTime = int32(timeByte)
	c.EnvEndVol = endVol
	c.EnvRate = rate
}

// macroSFXLock forwards pattern opcode 12 (Lock) / note-command
// opcode 0xFC, arming the SFX-lock fields on the addressed controller.
func (e *Engine) macroSFXLock(channel, priority, lockTime int32) {
	ch := channel & e.channelMask()
	if int(ch) >= len(e.controllers) {
		return
	}
	c := &e.controllers[ch]
	c.SFXFlag = 1
	c.SFXPriority = priority
	c.SFXLockTime = lockTime
}

// silenceChannel implements the 0xFE pattern-cursor sentinel: channel
// is taken from `transpose`, unsigned, per §9 design note.
func (e *Engine) silenceChannel(channel uint32) {
	ch := int(channel) & int(e.channelMask())
	if ch >= len(e.hw) {
		return
	}
	e.hw[ch].Mode = 0
}
