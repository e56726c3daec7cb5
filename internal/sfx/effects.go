// Package sfx synthesizes the kitchen's sound cues with beep and plays
// them through an oto audio context.
package sfx

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Sound identifies one cue.
type Sound int

const (
	SoundPickup Sound = iota
	SoundDrop
	SoundReady // processor finished
	SoundSpawn
	SoundHappy
	SoundAngry
	SoundLevelWon
	SoundLevelLost
	soundCount
)

// String returns the cue name used in logs.
func (s Sound) String() string {
	switch s {
	case SoundPickup:
		return "pickup"
	case SoundDrop:
		return "drop"
	case SoundReady:
		return "ready"
	case SoundSpawn:
		return "spawn"
	case SoundHappy:
		return "happy"
	case SoundAngry:
		return "angry"
	case SoundLevelWon:
		return "level_won"
	case SoundLevelLost:
		return "level_lost"
	default:
		return "unknown"
	}
}

// WaveType defines oscillator wave shapes.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a fixed-length tone generator.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{freq: freq, duration: rate.N(duration), wave: wave, rate: rate}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = -1
			if o.phase < 0.5 {
				val = 1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s with attack and release ramps over duration.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	releaseStart := e.total - e.release

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.release > 0 && e.position >= releaseStart {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales linearly; 0 is silent since log2(0) is -Inf.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// note is one shaped tone.
func note(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, 5*time.Millisecond, d/2, rate)
}

// Effect builds the streamer for a cue at the given master volume.
func Effect(s Sound, rate beep.SampleRate, volume float64) beep.Streamer {
	var st beep.Streamer
	switch s {
	case SoundPickup:
		st = note(660, 60*time.Millisecond, WaveSine, rate)
	case SoundDrop:
		st = note(330, 70*time.Millisecond, WaveSine, rate)
	case SoundReady:
		// Bell: A5 with an octave overtone.
		d := 400 * time.Millisecond
		st = beep.Mix(
			newVolume(NewEnvelope(NewOscillator(880, d, WaveSine, rate), d, 5*time.Millisecond, 350*time.Millisecond, rate), 0.7),
			newVolume(NewEnvelope(NewOscillator(1760, d, WaveSine, rate), d, 5*time.Millisecond, 200*time.Millisecond, rate), 0.3),
		)
	case SoundSpawn:
		st = beep.Seq(
			note(523.25, 80*time.Millisecond, WaveSquare, rate),
			note(659.25, 80*time.Millisecond, WaveSquare, rate),
		)
	case SoundHappy:
		st = beep.Seq(
			note(523.25, 90*time.Millisecond, WaveSine, rate),
			note(659.25, 90*time.Millisecond, WaveSine, rate),
			note(783.99, 160*time.Millisecond, WaveSine, rate),
		)
	case SoundAngry:
		d := 250 * time.Millisecond
		st = beep.Mix(
			newVolume(note(110, d, WaveSaw, rate), 0.8),
			newVolume(NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 5*time.Millisecond, 200*time.Millisecond, rate), 0.2),
		)
	case SoundLevelWon:
		st = beep.Seq(
			note(987.77, 100*time.Millisecond, WaveSquare, rate),
			note(1318.51, 300*time.Millisecond, WaveSquare, rate),
		)
	case SoundLevelLost:
		st = beep.Seq(
			note(392, 180*time.Millisecond, WaveSaw, rate),
			note(311.13, 180*time.Millisecond, WaveSaw, rate),
			note(261.63, 360*time.Millisecond, WaveSaw, rate),
		)
	default:
		return nil
	}
	return newVolume(st, volume)
}

// Render drains a streamer into interleaved stereo signed 16-bit
// little-endian PCM, clipping to [-1, 1].
func Render(s beep.Streamer) []byte {
	if s == nil {
		return nil
	}
	var out []byte
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			for _, v := range frame {
				v = math.Max(-1, math.Min(1, v))
				out = binary.LittleEndian.AppendUint16(out, uint16(int16(v*math.MaxInt16)))
			}
		}
		if !ok || n == 0 {
			return out
		}
	}
}

// Bank holds pre-rendered PCM for every cue.
type Bank struct {
	pcm [soundCount][]byte
}

// NewBank renders every cue once.
func NewBank(rate int, volume float64) *Bank {
	b := &Bank{}
	for s := Sound(0); s < soundCount; s++ {
		b.pcm[s] = Render(Effect(s, beep.SampleRate(rate), volume))
	}
	return b
}

// PCM returns the rendered cue, or nil for an unknown one.
func (b *Bank) PCM(s Sound) []byte {
	if s < 0 || s >= soundCount {
		return nil
	}
	return b.pcm[s]
}
