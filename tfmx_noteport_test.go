package tfmx

import "testing"

func TestChannelMaskFourVoiceMode(t *testing.T) {
	e := New(44100)
	if got := e.channelMask(); got != 0x3 {
		t.Errorf("channelMask() = %#x, want 0x3 in 4-voice mode", got)
	}
}

func TestChannelMaskEightVoiceMode(t *testing.T) {
	e := New(44100)
	e.EightVoice = true
	if got := e.channelMask(); got != 0x7 {
		t.Errorf("channelMask() = %#x, want 0x7 in 8-voice mode", got)
	}
}

func TestNotePortArmsMacroFromInstrument(t *testing.T) {
	m := buildMinimalModule()
	m.Macros = []int32{100, 200, 300, 400, 500}
	e := New(44100)
	e.Load(m)
	e.Init()

	e.notePort(0, 3, 7, 4, 5, 0)

	c := &e.controllers[0]
	if c.MacroPtr != 500 {
		t.Errorf("MacroPtr = %d, want 500 (macros[4])", c.MacroPtr)
	}
	if c.CurrNote != 3 {
		t.Errorf("CurrNote = %d, want 3", c.CurrNote)
	}
	if c.Velocity != 7 {
		t.Errorf("Velocity = %d, want 7", c.Velocity)
	}
	if c.Finetune != 5 {
		t.Errorf("Finetune = %d, want 5", c.Finetune)
	}
	if c.MacroRun != -1 {
		t.Errorf("MacroRun = %d, want -1 (running)", c.MacroRun)
	}
	if c.KeyUp != 1 {
		t.Errorf("KeyUp = %d, want 1", c.KeyUp)
	}
}

func TestNotePortMacroSelectIgnoresNoteValue(t *testing.T) {
	m := buildMinimalModule()
	m.Macros = []int32{100, 200, 300, 400, 500}
	e := New(44100)
	e.Load(m)
	e.Init()

	e.notePort(0, 4, 7, 0, 0, 0) // note=4, instrument=0

	c := &e.controllers[0]
	if c.MacroPtr != 100 {
		t.Errorf("MacroPtr = %d, want 100 (macros[0], not macros[note=4])", c.MacroPtr)
	}
}

func TestNotePortMasksChannelInFourVoiceMode(t *testing.T) {
	m := buildMinimalModule()
	e := New(44100)
	e.Load(m)
	e.Init()

	e.notePort(6, 1, 1, 0, 0, 0) // 6 & 0x3 == 2

	if e.controllers[2].MacroRun != -1 {
		t.Error("controller 2 (6 & 0x3) should have been armed")
	}
	if e.controllers[6].MacroRun == -1 {
		t.Error("controller 6 should not have been armed — channel must be masked to 0x3 in 4-voice mode")
	}
}

func TestNotePortDropsCommandWhenSFXLocked(t *testing.T) {
	m := buildMinimalModule()
	e := New(44100)
	e.Load(m)
	e.Init()
	e.controllers[0].SFXFlag = 1
	e.controllers[0].CurrNote = 9

	e.notePort(0, 3, 7, 0, 0, 0)

	if e.controllers[0].CurrNote != 9 {
		t.Errorf("CurrNote = %d, want unchanged 9 (SFX-locked channel must drop the note)", e.controllers[0].CurrNote)
	}
}

func TestNotePortPortamentoSnapsOnFirstActivation(t *testing.T) {
	m := buildMinimalModule()
	e := New(44100)
	e.Load(m)
	e.Init()
	c := &e.controllers[0]
	c.PortaRate = 0
	c.DestPeriod = 777

	e.notePort(0, 10, 0, 0, 0, notePortamento)

	if c.PortaPer != 777 {
		t.Errorf("PortaPer = %d, want 777 (snapped from DestPeriod on first activation)", c.PortaPer)
	}
	if c.PortaReset != 1 || c.PortaTime != 1 {
		t.Errorf("PortaReset/PortaTime = %d/%d, want 1/1", c.PortaReset, c.PortaTime)
	}
}

func TestNotePortPortamentoDoesNotResnapWhenAlreadyActive(t *testing.T) {
	m := buildMinimalModule()
	e := New(44100)
	e.Load(m)
	e.Init()
	c := &e.controllers[0]
	c.PortaRate = 3 // already sliding
	c.PortaPer = 111
	c.DestPeriod = 777

	e.notePort(0, 10, 0, 0, 0, notePortamento)

	if c.PortaPer != 111 {
		t.Errorf("PortaPer = %d, want unchanged 111 while portamento already active", c.PortaPer)
	}
}

func TestNotePortDangerFreakHackZeroesDetune(t *testing.T) {
	m := buildMinimalModule()
	e := New(44100)
	e.Load(m)
	e.Init()
	e.DangerFreakHack = true

	e.notePort(0, 3, 7, 0, 42, 0)

	if e.controllers[0].Finetune != 0 {
		t.Errorf("Finetune = %d, want 0 under DangerFreakHack", e.controllers[0].Finetune)
	}
}

func TestMacroKeyUpClearsFlag(t *testing.T) {
	m := buildMinimalModule()
	e := New(44100)
	e.Load(m)
	e.Init()
	e.controllers[0].KeyUp = 1

	e.macroKeyUp(0)

	if e.controllers[0].KeyUp != 0 {
		t.Errorf("KeyUp = %d, want 0", e.controllers[0].KeyUp)
	}
}

func TestMacroSFXLockArmsFlagAndPriority(t *testing.T) {
	m := buildMinimalModule()
	e := New(44100)
	e.Load(m)
	e.Init()

	e.macroSFXLock(1, 5, 30)

	c := &e.controllers[1]
	if c.SFXFlag != 1 || c.SFXPriority != 5 || c.SFXLockTime != 30 {
		t.Errorf("SFXFlag/SFXPriority/SFXLockTime = %d/%d/%d, want 1/5/30", c.SFXFlag, c.SFXPriority, c.SFXLockTime)
	}
}

func TestSilenceChannelClearsHardwareMode(t *testing.T) {
	m := buildMinimalModule()
	e := New(44100)
	e.Load(m)
	e.Init()
	e.hw[2].Mode = hwModeEnabled

	e.silenceChannel(2)

	if e.hw[2].Mode != 0 {
		t.Errorf("hw[2].Mode = %#x, want 0", e.hw[2].Mode)
	}
}
