// tfmx_hardware.go - per-voice resampler slot state

package tfmx

// loopKind tags the hardware channel's loop-completion behaviour. The
// original holds a function pointer here; we tag a variant instead and
// switch on it in the mixer (see §9 ownership notes).
type loopKind int

const (
	loopOff loopKind = iota
	loopWaitDMA
)

// HardwareChannel is one of the eight resampler slots the mixer reads
// from every burst. SampleStart/SampleLen describe the region to
// restart from on loop or (re)arm; SBeg/SLen are the live cursor.
type HardwareChannel struct {
	SBeg  int32 // current byte pointer into the sample bank
	SLen  int32 // current byte length
	Pos   uint32
	Delta uint32

	SampleStart int32
	SampleLen   int32

	Volume int32 // 0..64
	Mode   uint8 // bits: 0 enabled, 1 just-restarted, 2 one-shot-fade

	Loop       loopKind
	OwnerCtrl  int
	waitDMACnt int32
}

func (h *HardwareChannel) reset() {
	*h = HardwareChannel{OwnerCtrl: h.OwnerCtrl}
}

// armWaitDMA installs the wait-DMA loop handler with the given
// countdown, owned by the controller that requested it.
func (h *HardwareChannel) armWaitDMA(ticks int32) {
	h.Loop = loopWaitDMA
	h.waitDMACnt = ticks
}

// runLoopHandler is called by the mixer when the phase accumulator
// wraps past the sample end. It returns false when the channel should
// be killed.
func (h *HardwareChannel) runLoopHandler(e *Engine) bool {
	switch h.Loop {
	case loopWaitDMA:
		old := h.waitDMACnt
		h.waitDMACnt--
		if old == 0 {
			h.Loop = loopOff
			if h.OwnerCtrl >= 0 {
				e.controllers[h.OwnerCtrl].wakeFromWaitDMA()
			}
		}
		return true
	default:
		return true
	}
}
