// tfmx_engine.go - top-level engine lifecycle and host-facing API

package tfmx

// Config bundles the plain bits/levels the host may toggle. Zero value
// is the engine's default behaviour.
type Config struct {
	Gemx            bool
	DangerFreakHack bool
	Oversampling    bool
	Blend           bool
	FilterLevel     int
	EightVoice      bool
	Loops           int // 0 infinite, >0 N loops then stop; <0 is treated like 0 (no stop at sub-song end)
}

// TrackState is one entry of DisplayState's per-track snapshot.
type TrackState struct {
	PatternNum     int32
	CurrentStep    int32
	Active         bool
	ChannelVolumes [numHWChannels]int32
}

// DisplayState is the inspector-facing snapshot returned by
// display_state.
type DisplayState struct {
	Tracks      [numTracks]TrackState
	CurrentPos  int32
	ActiveAny   bool
}

// Engine drives module playback and produces stereo PCM. It holds no
// host audio-backend or UI state; see cmd/tfmxplay for a host.
type Engine struct {
	Config

	module *Module
	outRate int

	master  Master
	pattern PatternBlock

	controllers [numControllers]Controller
	hw          [numHWChannels]HardwareChannel

	signal [4]uint16

	userLoopCount int32

	eRem int64

	filterStateL int32
	filterStateR int32

	mixLeft  []int32
	mixRight []int32
}

// New creates an unloaded engine for the given output sample rate.
func New(outRate int) *Engine {
	e := &Engine{outRate: outRate}
	for i := range e.controllers {
		e.controllers[i].HWChannel = i % numHWChannels
	}
	for i := range e.hw {
		e.hw[i].OwnerCtrl = -1
	}
	return e
}

// Load attaches a parsed Module to the engine. The module is immutable
// and may be shared by reference from a loader thread per §5.
func (e *Engine) Load(m *Module) {
	e.module = m
}

// Init resets master, pattern, controller and hardware-channel state
// to their zero-playback values, per §3 lifecycle.
func (e *Engine) Init() {
	e.master = Master{}
	e.pattern = PatternBlock{}
	for i := range e.pattern.Tracks {
		e.pattern.Tracks[i] = PatternCursor{PatternNum: patternIdle}
	}
	for i := range e.controllers {
		hwIdx := e.controllers[i].HWChannel
		e.controllers[i] = Controller{HWChannel: hwIdx}
	}
	for i := range e.hw {
		owner := e.hw[i].OwnerCtrl
		e.hw[i] = HardwareChannel{OwnerCtrl: owner}
	}
	e.master.MasterVol = 64
	e.signal = [4]uint16{}
	e.eRem = 0
	e.filterStateL = 0
	e.filterStateR = 0
}

// StartSong implements §4.2 start_song: begins sub-song n. Unless cont
// is set, it first resets all controllers and hardware channels (§5
// "atomic reset").
func (e *Engine) StartSong(n int, cont bool) {
	if e.module == nil {
		return
	}
	if !cont {
		for i := range e.controllers {
			hwIdx := e.controllers[i].HWChannel
			e.controllers[i] = Controller{HWChannel: hwIdx}
		}
		for i := range e.hw {
			owner := e.hw[i].OwnerCtrl
			e.hw[i] = HardwareChannel{OwnerCtrl: owner}
		}
	}
	if e.Config.Loops > 0 {
		e.userLoopCount = int32(e.Config.Loops)
	} else {
		e.userLoopCount = 0
	}
	e.startSong(n, cont)
}

// Stop disables the player; subsequent Tick calls are no-ops until
// the next StartSong.
func (e *Engine) Stop() {
	e.master.PlayerEnabled = false
}

// TriggerMacro arms controller/channel `n`'s macro directly with the
// given note, bypassing the pattern/track sequencer. Used for preview
// auditioning of a single voice program; note doubles as the macro
// index since this entry point has no separate instrument field.
func (e *Engine) TriggerMacro(n int, note int32) {
	if n < 0 || n >= len(e.controllers) {
		return
	}
	e.notePort(int32(n), note, note, note, 0, 0)
}

// EnablePreview arms the engine to accept TriggerMacro calls without
// an active sub-song; the track sequencer stays disabled.
func (e *Engine) EnablePreview() {
	e.master.PlayerEnabled = false
}

// Tick runs one full state-machine pass: for each channel in dispatch
// order, the macro interpreter followed by that channel's effects; then
// the master fade; then (if a song is active) the track sequencer and
// pattern interpreter.
func (e *Engine) Tick() {
	order := e.macroOrder()
	for _, idx := range order {
		e.tickMacro(idx)
		e.tickEffects(idx)
	}
	e.tickMasterFade()
	if e.master.PlayerEnabled {
		e.onTick()
	}
}

// macroOrder implements §5's dispatch order: controllers 0,1,2 (and in
// 8-voice mode 4,5,6,7), then 3.
func (e *Engine) macroOrder() []int {
	if e.EightVoice {
		return []int{0, 1, 2, 4, 5, 6, 7, 3}
	}
	return []int{0, 1, 2, 3}
}

// burstSize implements §4.7's burst-sizing formula with a persistent
// fractional remainder.
func (e *Engine) burstSize(capacity int) int {
	num := int64(e.master.ECLocks) * int64(e.outRate>>1)
	e.eRem += num
	nb := e.eRem / eClocksHz
	e.eRem -= nb * eClocksHz
	n := int(nb)
	if n < 1 {
		n = 1
	}
	if n > capacity {
		n = capacity
	}
	return n
}

// Render fills the first min(len(framesOutLeft), len(framesOutRight))
// stereo frames with samples in [-1,1], driving ticks and the mixer
// until the request is satisfied.
func (e *Engine) Render(framesOutLeft, framesOutRight []float32) {
	n := len(framesOutLeft)
	if len(framesOutRight) < n {
		n = len(framesOutRight)
	}
	if cap(e.mixLeft) < n {
		e.mixLeft = make([]int32, n)
		e.mixRight = make([]int32, n)
	}
	left := e.mixLeft[:n]
	right := e.mixRight[:n]

	filled := 0
	for filled < n {
		e.Tick()
		remaining := n - filled
		nb := e.burstSize(remaining)
		if nb > remaining {
			nb = remaining
		}
		e.mixBurst(left[filled:filled+nb], right[filled:filled+nb], nb)
		for i := 0; i < nb; i++ {
			framesOutLeft[filled+i] = float32(left[filled+i]) / 32768
			framesOutRight[filled+i] = float32(right[filled+i]) / 32768
		}
		filled += nb
	}
}

// DisplayState returns an inspector-facing snapshot of the current
// playback position.
func (e *Engine) DisplayState() DisplayState {
	var ds DisplayState
	ds.CurrentPos = e.pattern.CurrentPos

	var channelVolumes [numHWChannels]int32
	for i := range e.hw {
		channelVolumes[i] = e.hw[i].Volume
	}

	for t := 0; t < numTracks; t++ {
		cur := &e.pattern.Tracks[t]
		active := cur.PatternNum < patternInactive
		ds.Tracks[t] = TrackState{
			PatternNum:     cur.PatternNum,
			CurrentStep:    cur.Step,
			Active:         active,
			ChannelVolumes: channelVolumes,
		}
		if active {
			ds.ActiveAny = true
		}
	}
	return ds
}
