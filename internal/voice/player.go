package voice

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/coffeepad/internal/logger"
)

// Sink plays WAV audio. Play blocks until the clip ends or Stop is called.
type Sink interface {
	Play(wav []byte) error
	Stop()
}

// Compile-time interface check.
var _ Sink = (*Player)(nil)

// Player plays WAV clips on the default audio device through oto.
type Player struct {
	ctx *oto.Context
	log *logger.Logger

	mu     sync.Mutex
	active *oto.Player
}

// NewPlayer opens the system audio device. It fails when no device is
// available; callers should fall back to text-only cues.
func NewPlayer(log *logger.Logger) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	log.Debug("audio player ready (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return &Player{ctx: ctx, log: log}, nil
}

// Play plays one WAV clip.
func (p *Player) Play(wav []byte) error {
	pcm, err := extractPCM(wav)
	if err != nil {
		return err
	}
	clip := p.ctx.NewPlayer(bytes.NewReader(pcm))

	p.mu.Lock()
	p.active = clip
	p.mu.Unlock()

	clip.Play()
	for clip.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	p.mu.Lock()
	p.active = nil
	p.mu.Unlock()
	return clip.Close()
}

// Stop cuts the current clip short. Safe when idle.
func (p *Player) Stop() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()
	if active != nil {
		active.Pause()
	}
}

// extractPCM returns the payload of the RIFF "data" chunk.
func extractPCM(wav []byte) ([]byte, error) {
	if len(wav) < 44 {
		return nil, errors.New("wav data too short")
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE clip")
	}
	for pos := 12; pos+8 <= len(wav); {
		id := string(wav[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))
		if id == "data" {
			start := pos + 8
			return wav[start:min(start+size, len(wav))], nil
		}
		pos += 8 + size + size%2
	}
	return nil, errors.New("no data chunk in wav")
}
