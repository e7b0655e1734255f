package voice

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/coffeepad/internal/logger"
)

// SpeakerOption configures the Speaker.
type SpeakerOption func(*Speaker)

// WithCache replaces the default in-memory cache.
func WithCache(c *AudioCache) SpeakerOption {
	return func(s *Speaker) {
		s.cache = c
	}
}

// WithMaxQueue bounds how many utterances may wait. When full, the oldest
// lowest-priority item is dropped.
func WithMaxQueue(n int) SpeakerOption {
	return func(s *Speaker) {
		if n > 0 {
			s.maxQueue = n
		}
	}
}

// Speaker serializes speech: one utterance at a time, highest priority
// first, oldest first within a priority. Brew cues go stale quickly, so a
// new step call drops any queued low-priority chatter.
type Speaker struct {
	tts   Synthesizer
	sink  Sink
	cache *AudioCache
	log   *logger.Logger

	mu       sync.Mutex
	queue    []Request
	maxQueue int
	speaking bool
	wake     chan struct{}
	spoken   []string // recent history, newest last
}

// NewSpeaker creates a speaker. Call Start to begin playback.
func NewSpeaker(tts Synthesizer, sink Sink, log *logger.Logger, opts ...SpeakerOption) *Speaker {
	s := &Speaker{
		tts:      tts,
		sink:     sink,
		log:      log,
		maxQueue: 16,
		wake:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = NewAudioCache(tts.Voice(), "", false, log)
	}
	return s
}

// Say queues text. Non-blocking.
func (s *Speaker) Say(text string, p Priority) {
	if text == "" {
		return
	}
	s.mu.Lock()
	if p >= PriorityNormal {
		s.dropLocked(func(r Request) bool { return r.Priority == PriorityLow })
	}
	if len(s.queue) >= s.maxQueue {
		s.dropOldestLowestLocked()
	}
	s.queue = append(s.queue, Request{Text: text, Priority: p, QueuedAt: time.Now()})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Interrupt clears the queue and cuts the current clip.
func (s *Speaker) Interrupt() {
	s.mu.Lock()
	s.queue = s.queue[:0]
	s.mu.Unlock()
	s.sink.Stop()
}

// Busy reports whether something is playing or waiting.
func (s *Speaker) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking || len(s.queue) > 0
}

// Spoken returns what was played, oldest first.
func (s *Speaker) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}

// Start runs the playback loop until ctx ends. Non-blocking.
func (s *Speaker) Start(ctx context.Context) {
	go s.loop(ctx)
	s.log.Info("speaker started (voice=%s)", s.tts.Voice())
}

// Prefetch synthesizes texts into the cache in the background.
func (s *Speaker) Prefetch(ctx context.Context, texts ...string) {
	for _, text := range texts {
		if text == "" || s.cache.Has(text) {
			continue
		}
		go func(t string) {
			clip, err := s.tts.Synthesize(ctx, t)
			if err != nil {
				s.log.Debug("prefetch %q: %v", t, err)
				return
			}
			s.cache.Put(t, clip)
		}(text)
	}
}

func (s *Speaker) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.log.Info("speaker stopped")
			return
		case <-s.wake:
		}
		for {
			req, ok := s.next()
			if !ok {
				break
			}
			s.speak(ctx, req)
			if ctx.Err() != nil {
				return
			}
		}
	}
}

func (s *Speaker) next() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		s.speaking = false
		return Request{}, false
	}
	best := 0
	for i, r := range s.queue {
		if r.Priority > s.queue[best].Priority {
			best = i
		}
	}
	req := s.queue[best]
	s.queue = append(s.queue[:best], s.queue[best+1:]...)
	s.speaking = true
	return req, true
}

func (s *Speaker) speak(ctx context.Context, req Request) {
	clip, ok := s.cache.Get(req.Text)
	if !ok {
		var err error
		clip, err = s.tts.Synthesize(ctx, req.Text)
		if err != nil {
			s.log.Warn("speaker: synthesis failed: %v", err)
			return
		}
		s.cache.Put(req.Text, clip)
	}
	if err := s.sink.Play(clip); err != nil {
		s.log.Warn("speaker: playback failed: %v", err)
		return
	}
	s.mu.Lock()
	s.spoken = append(s.spoken, req.Text)
	if len(s.spoken) > 32 {
		s.spoken = s.spoken[len(s.spoken)-32:]
	}
	s.mu.Unlock()
}

func (s *Speaker) dropLocked(drop func(Request) bool) {
	kept := s.queue[:0]
	for _, r := range s.queue {
		if !drop(r) {
			kept = append(kept, r)
		}
	}
	s.queue = kept
}

func (s *Speaker) dropOldestLowestLocked() {
	if len(s.queue) == 0 {
		return
	}
	victim := 0
	for i, r := range s.queue {
		if r.Priority < s.queue[victim].Priority {
			victim = i
		}
	}
	s.queue = append(s.queue[:victim], s.queue[victim+1:]...)
}
