// tfmx_mixer.go - fixed-point resampler and stereo post-mix

package tfmx

const (
	phaseFracBits = 14
	phaseOne      = int64(1) << phaseFracBits
	sampleLenMin  = 0x10000 // slen<<14 threshold, i.e. slen >= 4
)

// mixBurst renders nb stereo frames into left/right, advancing every
// hardware channel's phase accumulator and reading from the sample
// bank, per §4.7.
func (e *Engine) mixBurst(left, right []int32, nb int) {
	for i := 0; i < nb; i++ {
		left[i] = 0
		right[i] = 0
	}

	var samples []byte
	if e.module != nil {
		samples = e.module.Samples
	}

	for ch := 0; ch < len(e.hw); ch++ {
		hw := &e.hw[ch]

		if hw.Mode&hwModeEnabled == 0 {
			continue
		}
		l := int64(hw.SLen) << phaseFracBits
		if l < sampleLenMin {
			continue
		}
		if hw.Volume == 0 && hw.Delta == 0 {
			continue
		}

		if hw.Mode == hwModeEnabled {
			hw.SBeg = hw.SampleStart
			hw.SLen = hw.SampleLen
			hw.Pos = 0
			hw.Mode |= hwModeRestarted
			l = int64(hw.SLen) << phaseFracBits
		}

		toLeft, toRight := channelSides(ch, e.EightVoice)
		vol := hw.Volume

		for i := 0; i < nb; i++ {
			hw.Pos += hw.Delta
			if int64(hw.Pos) >= l {
				hw.Pos -= uint32(l)
				hw.SBeg = hw.SampleStart
				hw.SLen = hw.SampleLen
				l = int64(hw.SLen) << phaseFracBits
				if l < sampleLenMin || !hw.runLoopHandler(e) {
					hw.Mode = 0
					hw.Delta = 0
					break
				}
			}

			idx := int(hw.SBeg) + int(hw.Pos>>phaseFracBits)
			var s int32
			if idx >= 0 && idx < len(samples) {
				if e.Oversampling && idx+1 < len(samples) {
					s0 := int32(int8(samples[idx]))
					s1 := int32(int8(samples[idx+1]))
					frac := int32(hw.Pos & uint32(phaseOne-1))
					s = s0 + ((s1-s0)*frac)>>phaseFracBits
				} else {
					s = int32(int8(samples[idx]))
				}
			}

			sample := s * vol
			if toLeft {
				left[i] += sample
			}
			if toRight {
				right[i] += sample
			}
		}
	}

	e.postMix(left, right, nb)
}

// channelSides implements the fixed channel-to-side mapping.
func channelSides(ch int, eightVoice bool) (toLeft, toRight bool) {
	switch ch {
	case 0, 3:
		return true, false
	case 1, 2:
		return false, true
	case 4, 5, 6, 7:
		if eightVoice {
			return true, false
		}
	}
	return false, false
}

// postMix applies the optional cascaded one-pole low-pass filter and
// stereo cross-blend, then is consumed by render() which performs the
// final /32768 conversion to float.
func (e *Engine) postMix(left, right []int32, nb int) {
	if e.FilterLevel > 0 {
		var inW, stW int32
		switch e.FilterLevel {
		case 1:
			inW, stW = 3, 1
		case 2:
			inW, stW = 1, 1
		default:
			inW, stW = 1, 3
		}
		for i := 0; i < nb; i++ {
			e.filterStateL = (inW*left[i] + stW*e.filterStateL) / 4
			e.filterStateR = (inW*right[i] + stW*e.filterStateR) / 4
			left[i] = e.filterStateL
			right[i] = e.filterStateR
		}
	}

	if e.Blend {
		for i := 0; i < nb; i++ {
			l, r := left[i], right[i]
			left[i] = (11*l + 5*r) / 16
			right[i] = (11*r + 5*l) / 16
		}
	}
}
