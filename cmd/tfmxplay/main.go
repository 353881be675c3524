// tfmxplay - interactive demo host for the tfmx playback engine

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tfmxplay/tfmx"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: tfmxplay [flags] mdat.file smpl.file\n\n")
	fmt.Fprintf(os.Stderr, "flags:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nkeys while playing: space=pause  n=next subsong  q=quit\n")
}

func main() {
	flag.Usage = usage
	rate := flag.Int("rate", 44100, "output sample rate in Hz")
	song := flag.Int("song", 0, "sub-song index to start")
	loops := flag.Int("loops", 0, "0 or <0=infinite, >0=N loops then stop")
	oversample := flag.Bool("oversample", true, "linear interpolation in the mixer")
	blend := flag.Bool("blend", true, "stereo cross-blend")
	filterLevel := flag.Int("filter", 1, "low-pass filter strength 0..3")
	eightVoice := flag.Bool("8voice", false, "eight-voice mode instead of four")
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(1)
	}

	musicBytes, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "tfmxplay: %v\n", err)
		os.Exit(1)
	}
	sampleBytes, err := os.ReadFile(flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "tfmxplay: %v\n", err)
		os.Exit(1)
	}

	module, err := tfmx.Parse(musicBytes, sampleBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tfmxplay: %v\n", err)
		os.Exit(1)
	}

	engine := tfmx.New(*rate)
	engine.Config = tfmx.Config{
		Oversampling: *oversample,
		Blend:        *blend,
		FilterLevel:  *filterLevel,
		EightVoice:   *eightVoice,
		Loops:        *loops,
	}
	engine.Load(module)
	engine.Init()

	subsongs := module.CountSubSongs()
	current := *song
	if subsongs > 0 {
		current = current % subsongs
	}
	engine.StartSong(current, false)

	out, err := newOtoOutput(*rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tfmxplay: audio output: %v\n", err)
		os.Exit(1)
	}
	out.setupPlayer(engine)
	out.start()
	defer out.close()

	kb := newKeyboardHost()
	kb.Start()
	defer kb.Stop()

	fmt.Fprintf(os.Stderr, "playing %s (%s) sub-song %d/%d\n", module.Header.TextLine(0), flag.Arg(0), current+1, subsongs)

	paused := false
	for {
		select {
		case k := <-kb.keys:
			switch k {
			case ' ':
				paused = !paused
				if paused {
					out.stop()
				} else {
					out.start()
				}
			case 'n':
				current = (current + 1) % max(subsongs, 1)
				engine.StartSong(current, false)
			case 'q', 0x03:
				return
			}
		default:
			time.Sleep(50 * time.Millisecond)
			ds := engine.DisplayState()
			if !ds.ActiveAny && !paused {
				return
			}
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
