// tfmx_controller.go - per-voice controller runtime state

package tfmx

// Controller is one of the sixteen controller slots. Only the first 4
// (three sequencer voices plus one effects voice) or first 8 are used,
// depending on the engine's voice mode.
type Controller struct {
	HWChannel int // index into Engine.hw

	MacroPtr   int32
	MacroStep  int32
	MacroWait  int32
	MacroRun   int32 // -1 running, 0 stopped
	Instrument int32 // macro-select index last armed by notePort

	NewStyleMacro uint8 // 0 or 0xFF

	PrevNote int32
	CurrNote int32
	Velocity int32
	Finetune int32
	KeyUp    int32
	ReallyWait int32

	LoopCounter int32

	CurAddr  int32
	SaveAddr int32
	CurLen   int32
	SaveLen  int32

	VibWidth int32
	VibOffset int32
	VibTime   int32
	VibReset  int32

	PortaRate  int32
	PortaTime  int32
	PortaReset int32
	PortaPer   int32

	EnvRate   int32
	EnvTime   int32
	EnvReset  int32
	EnvEndVol int32

	AddBegin      int32
	AddBeginTime  int32
	AddBeginReset int32

	ReturnPtr  int32
	ReturnStep int32

	SFXFlag     int32
	SFXPriority int32
	SFXLockTime int32
	SFXCode     int32

	CurVol      int32
	CurPeriod   int32
	DestPeriod  int32

	EfxRun int32 // < 0: suspended; 0: just armed; > 0: running

	Muted bool
}

// resetEffects clears envelope/vibrato/portamento/add-begin state.
// Grounds macro opcode 0x0A (Reset Effects) and the 0x00 fall-through.
func (c *Controller) resetEffects() {
	c.EnvReset = 0
	c.EnvTime = 0
	c.VibReset = 0
	c.VibTime = 0
	c.VibOffset = 0
	c.PortaRate = 0
	c.AddBeginTime = 0
}

func (c *Controller) wakeFromWaitDMA() {
	c.MacroRun = -1
}
