// tfmx_sequencer.go - track sequencer: the top-level position pointer

package tfmx

// Master holds the single set of song-wide runtime registers.
type Master struct {
	PlayerEnabled bool
	CurrentSong   int32
	SpeedCount    int32
	ECLocks       int32
	MasterVol     int32
	FadeDest      int32
	FadeTime      int32
	FadeReset     int32
	FadeSlope     int32
	TrackLoop     int32
	Multimode     bool
}

// PatternCursor is one track's position in the pattern interpreter.
type PatternCursor struct {
	PatternAddr int32
	PatternNum  int32
	Transpose   int32
	LoopCount   int32
	Step        int32
	Wait        int32
	ReturnAddr  int32
	ReturnStep  int32
	Muted       bool
}

// PatternBlock holds the track-step position plus all eight track
// cursors.
type PatternBlock struct {
	FirstPos   int32
	LastPos    int32
	CurrentPos int32
	Prescale   int32
	Tracks     [numTracks]PatternCursor
}

// startSong implements §4.2 start_song: loads first/last position and
// tempo for sub-song `song`, resets all pattern cursors, and enables
// the player.
func (e *Engine) startSong(song int, cont bool) {
	m := &e.master
	pb := &e.pattern

	if !cont {
		pb.CurrentPos = int32(e.module.Header.SubStart[song])
		pb.FirstPos = pb.CurrentPos
		pb.LastPos = int32(e.module.Header.SubEnd[song])

		tempo := int32(e.module.Header.SubTempo[song])
		if tempo >= 16 {
			m.ECLocks = tempoBaseConst / tempo
			pb.Prescale = 0
		} else {
			pb.Prescale = tempo
		}
	}

	for i := range pb.Tracks {
		pb.Tracks[i] = PatternCursor{PatternNum: patternIdle}
	}

	e.loadTrackstep()

	m.SpeedCount = 0
	m.PlayerEnabled = true
	m.CurrentSong = int32(song)
}

// onTick implements §4.2 on_tick: the track-sequencer pass of tick().
func (e *Engine) onTick() {
	m := &e.master
	if !m.PlayerEnabled {
		return
	}

	prior := m.SpeedCount
	m.SpeedCount--
	if prior != 0 {
		return
	}
	m.SpeedCount = e.pattern.Prescale

	for i := 0; i < numTracks; i++ {
		advanced := e.tickPatternTrack(i)
		if advanced {
			i = -1 // restart iteration from track 0
		}
		if !m.PlayerEnabled {
			return
		}
	}
}

// loadTrackstep implements §4.2 load_trackstep: reads the eight
// halfwords of the current track-step line and dispatches either a
// meta-row or a pattern-assignment row.
func (e *Engine) loadTrackstep() {
	mod := e.module
	pb := &e.pattern

	base := mod.Trackstart + pb.CurrentPos*4
	hw := [8]uint16{}
	for i := 0; i < 4; i++ {
		w := uint32(mod.wordAt(base + int32(i)))
		hw[i*2] = uint16(w >> 16)
		hw[i*2+1] = uint16(w)
	}

	if hw[0] == 0xEFFE {
		e.execMetaRow(hw)
		return
	}

	for t := 0; t < numTracks; t++ {
		entry := hw[t]
		patNum := int32(entry >> 8)
		transpose := int32(int8(entry & 0xFF))

		cur := &pb.Tracks[t]
		cur.PatternNum = patNum
		cur.Transpose = transpose
		if patNum < 0x80 {
			cur.PatternAddr = 0
			if int(patNum) < len(mod.Patterns) {
				cur.PatternAddr = mod.Patterns[patNum]
			}
			cur.Step = 0
			cur.Wait = 0
			cur.LoopCount = 0xFFFF
		}
	}
}

// execMetaRow dispatches a 0xEFFE meta-row by its second halfword.
func (e *Engine) execMetaRow(hw [8]uint16) {
	m := &e.master
	pb := &e.pattern

	switch hw[1] {
	case 0x00: // stop
		m.PlayerEnabled = false

	case 0x01: // loop
		if e.userLoopCount > 0 {
			e.userLoopCount--
			if e.userLoopCount == 0 {
				m.PlayerEnabled = false
				return
			}
		} else {
			prior := m.TrackLoop
			m.TrackLoop--
			if prior == 0 {
				e.advancePosition()
				e.loadTrackstep()
				return
			}
			if prior < 0 {
				m.TrackLoop = int32(hw[3])
				pb.CurrentPos = int32(hw[2])
				e.loadTrackstep()
				return
			}
		}
		e.advancePosition()
		e.loadTrackstep()

	case 0x02: // speed
		w3 := hw[3]
		pb.Prescale = int32(hw[2])
		m.SpeedCount = pb.Prescale
		if w3&0x1FF > 15 && w3&0xF200 == 0 {
			m.ECLocks = tempoBaseConst / int32(w3&0x1FF)
		}
		e.advancePosition()
		e.loadTrackstep()

	case 0x03: // timeshare
		w3 := hw[3]
		if w3&0x8000 == 0 {
			x := int32(int8(w3 & 0xFF))
			if x < -32 {
				x = -32
			}
			m.ECLocks = (timeshareConst * (x + 100)) / 100
			m.Multimode = true
		}
		e.advancePosition()
		e.loadTrackstep()

	case 0x04: // fade: speed = 3rd halfword low byte, destination = 4th
		e.startMasterFade(int32(hw[2]&0xFF), int32(hw[3]&0xFF))
		e.advancePosition()
		e.loadTrackstep()
	}
}

// advancePosition wraps current_pos to first_pos at last_pos,
// otherwise increments it.
func (e *Engine) advancePosition() {
	pb := &e.pattern
	if pb.CurrentPos == pb.LastPos {
		pb.CurrentPos = pb.FirstPos
	} else {
		pb.CurrentPos++
	}
}
