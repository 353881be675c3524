package tfmx

import "testing"

// buildMinimalModule constructs a Module with a two-line trackstep
// table (positions 0 and 1) and one pattern containing a Wait followed
// by an End instruction, for exercising the sequencer/pattern wrap without a
// real parsed file.
func buildMinimalModule() *Module {
	words := make([]int32, 64)
	trackstart := int32(0)

	// Trackstep line 0: all tracks hold pattern 0 (the End pattern).
	for i := 0; i < 4; i++ {
		words[trackstart+int32(i)] = 0
	}
	// Trackstep line 1: same.
	for i := 0; i < 4; i++ {
		words[trackstart+4+int32(i)] = 0
	}

	// Pattern: Wait(4) then End. A bare End with no preceding Wait
	// would re-fire on every restart of onTick's track loop within the
	// same tick and never yield, so every pattern needs at least one
	// Wait instruction between trackstep advances.
	patternWordIdx := int32(16)
	words[patternWordIdx] = opByte(0xF3)<<24 | 4 // Wait opcode, count 4
	words[patternWordIdx+1] = opByte(0xF0)<<24 // End opcode

	m := &Module{
		Words:      words,
		Trackstart: trackstart,
		Patterns:   []int32{patternWordIdx},
		Macros:     []int32{},
		Samples:    make([]byte, 16),
	}
	return m
}

func TestEndOfPatternWrapsToFirstPos(t *testing.T) {
	m := buildMinimalModule()
	m.Header.SubStart[0] = 0
	m.Header.SubEnd[0] = 1
	m.Header.SubTempo[0] = 6

	e := New(44100)
	e.Load(m)
	e.Init()
	e.StartSong(0, false)

	e.pattern.CurrentPos = e.pattern.LastPos
	for i := range e.pattern.Tracks {
		e.pattern.Tracks[i].PatternAddr = m.Patterns[0]
		e.pattern.Tracks[i].PatternNum = 0
		e.pattern.Tracks[i].Step = 1 // point directly at the End word
		e.pattern.Tracks[i].Wait = 0
	}

	e.tickPatternTrack(0)

	if e.pattern.CurrentPos != e.pattern.FirstPos {
		t.Errorf("CurrentPos = %d after End at last_pos, want first_pos %d", e.pattern.CurrentPos, e.pattern.FirstPos)
	}
}

func TestStartSongSetsUpPositionsAndTempo(t *testing.T) {
	m := buildMinimalModule()
	m.Header.SubStart[2] = 5
	m.Header.SubEnd[2] = 9
	m.Header.SubTempo[2] = 20

	e := New(44100)
	e.Load(m)
	e.Init()
	e.StartSong(2, false)

	if e.pattern.FirstPos != 5 || e.pattern.CurrentPos != 5 {
		t.Errorf("FirstPos/CurrentPos = %d/%d, want 5/5", e.pattern.FirstPos, e.pattern.CurrentPos)
	}
	if e.pattern.LastPos != 9 {
		t.Errorf("LastPos = %d, want 9", e.pattern.LastPos)
	}
	if e.master.ECLocks != tempoBaseConst/20 {
		t.Errorf("ECLocks = %d, want %d", e.master.ECLocks, tempoBaseConst/20)
	}
	if !e.master.PlayerEnabled {
		t.Error("PlayerEnabled = false after StartSong")
	}
}

func TestStartSongLowTempoSetsPrescale(t *testing.T) {
	m := buildMinimalModule()
	m.Header.SubTempo[0] = 6

	e := New(44100)
	e.Load(m)
	e.Init()
	e.StartSong(0, false)

	if e.pattern.Prescale != 6 {
		t.Errorf("Prescale = %d, want 6", e.pattern.Prescale)
	}
}

func TestStopDisablesPlayer(t *testing.T) {
	m := buildMinimalModule()
	e := New(44100)
	e.Load(m)
	e.Init()
	e.StartSong(0, false)
	e.Stop()

	if e.master.PlayerEnabled {
		t.Error("PlayerEnabled = true after Stop")
	}
}
