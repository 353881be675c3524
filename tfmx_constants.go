// tfmx_constants.go - format constants, masks and the note-to-period table

package tfmx

import "math"

// Recognized magic prefixes for the music-data header (see Parse).
var magicPrefixes = [][]byte{
	[]byte("TFMX-SONG "),
	[]byte("TFMX_SONG "),
	[]byte("TFMXSONG "),
	[]byte("TFMX "),
}

const (
	headerTextBase   = 16
	headerTextStride = 40
	headerTextLines  = 6

	headerSubStart = 256
	headerSubEnd   = 320
	headerSubTempo = 384
	headerSubCount = 32

	headerTrackstartOff = 464
	headerPattstartOff  = 468
	headerMacrostartOff = 472

	headerSize = 512

	fallbackTrackstart = 0x180
	fallbackPattstart  = 0x80
	fallbackMacrostart = 0x100

	maxPatterns = 128
	maxMacros   = 128
)

const (
	numTracks      = 8
	numHWChannels  = 8
	numControllers = 16

	amigaClock      = 3_579_545
	eClocksHz       = 357_955
	tempoBaseConst  = 0x1B51F8
	timeshareConst  = 14318
	periodMask      = 0x7FF // 11 bits
)

// Hardware-channel mode bits.
const (
	hwModeEnabled   = 1 << 0
	hwModeRestarted = 1 << 1
	hwModeOneShot   = 1 << 2
)

// Pattern-cursor sentinels.
const (
	patternIdle     = 0xFF
	patternSilence  = 0xFE
	patternHoldLo   = 0x80
	patternHoldHi   = 0x8F
	patternInactive = 0x90
)

// notevals maps a 6-bit note index to an Amiga-style period value, an
// equal-tempered scale referenced to period 856 at note 0 and halving
// every twelve semitones, matching the spacing every Amiga tracker note
// table uses.
var notevals [64]int32

func init() {
	const base = 856.0
	for n := 0; n < 64; n++ {
		notevals[n] = int32(math.Round(base / math.Pow(2, float64(n)/12.0)))
	}
}

// periodToDelta converts a channel period to a 14-bit-fractional fixed
// point phase increment for the given output sample rate.
func periodToDelta(period int32, outRate int) uint32 {
	if period <= 0 {
		return 0
	}
	num := int64(amigaClock) << 9
	den := (int64(period) * int64(outRate)) >> 5
	if den <= 0 {
		return 0
	}
	return uint32(num / den)
}

func clamp(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func signExtend8(b byte) int32 {
	return int32(int8(b))
}
