package sfx

import (
	"bytes"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/outbackcafe/internal/logger"
)

// ChannelCount is fixed: cues are rendered as interleaved stereo.
const ChannelCount = 2

// Output plays raw PCM. Implementations must not block the caller for
// the length of the sound.
type Output interface {
	Play(pcm []byte)
}

// Player plays PCM cues through an oto context. Cues overlap: oto mixes
// every live player.
type Player struct {
	ctx    *oto.Context
	log    *logger.Logger
	mu     sync.Mutex
	active map[*oto.Player]struct{}
}

var _ Output = (*Player)(nil)

// NewPlayer initializes the system audio context. Returns an error if the
// audio device is unavailable. Only one context may exist per process.
func NewPlayer(sampleRate int, log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debug("audio player initialized (rate=%d, channels=%d)", sampleRate, ChannelCount)
	return &Player{ctx: ctx, log: log, active: make(map[*oto.Player]struct{})}, nil
}

// Play starts a cue and returns immediately. The oto player is closed once
// it drains.
func (p *Player) Play(pcm []byte) {
	if len(pcm) == 0 {
		return
	}
	player := p.ctx.NewPlayer(bytes.NewReader(pcm))

	p.mu.Lock()
	p.active[player] = struct{}{}
	p.mu.Unlock()

	player.Play()
	go func() {
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		p.mu.Lock()
		delete(p.active, player)
		p.mu.Unlock()
		if err := player.Close(); err != nil {
			p.log.Debug("audio player: close: %v", err)
		}
	}()
}

// Stop silences every cue that is still playing. Safe to call concurrently
// and when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for player := range p.active {
		player.Pause()
	}
	if n := len(p.active); n > 0 {
		p.log.Debug("audio player: stopped %d cue(s)", n)
	}
}
