package voice

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/hammamikhairi/coffeepad/internal/logger"
)

// EarOption configures the Ear.
type EarOption func(*Ear)

// WithChunk sets the length of each recorded clip.
func WithChunk(d time.Duration) EarOption {
	return func(e *Ear) {
		if d > 0 {
			e.chunk = d
		}
	}
}

// WithWakeWords replaces the default wake words.
func WithWakeWords(words ...string) EarOption {
	return func(e *Ear) {
		if len(words) > 0 {
			e.wakeWords = words
		}
	}
}

// WithTempDir sets where whisper writes its WAV clips.
func WithTempDir(dir string) EarOption {
	return func(e *Ear) {
		e.tempDir = dir
	}
}

// WithSpeaker lets the ear avoid recording the speaker's own voice and
// cut it off when the wake word is heard.
func WithSpeaker(s *Speaker) EarOption {
	return func(e *Ear) {
		e.speaker = s
	}
}

// Ear records short clips, transcribes them with whisper, and emits the
// words that follow a wake word ("barista, next"). A wake word on its own
// arms the ear so the following clip is taken as the command.
type Ear struct {
	whisperBin string
	modelPath  string
	tempDir    string
	chunk      time.Duration
	wakeWords  []string
	speaker    *Speaker
	log        *logger.Logger

	record func(ctx context.Context, d time.Duration) string
	out    chan string
}

// NewEar creates a listener. Commands arrive on C.
func NewEar(whisperBin, modelPath string, log *logger.Logger, opts ...EarOption) *Ear {
	e := &Ear{
		whisperBin: whisperBin,
		modelPath:  modelPath,
		tempDir:    ".coffeepad-stt",
		chunk:      3 * time.Second,
		wakeWords:  []string{"barista", "coffee"},
		log:        log,
		out:        make(chan string, 4),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.record = e.recordWhisper
	if _, err := exec.LookPath(e.whisperBin); err != nil {
		log.Warn("ear: whisper binary %q not found: %v", e.whisperBin, err)
	}
	return e
}

// C delivers recognized commands.
func (e *Ear) C() <-chan string { return e.out }

// Run listens until ctx ends. Call it in a goroutine.
func (e *Ear) Run(ctx context.Context) {
	e.log.Info("ear: listening (chunk=%s, wake=%v)", e.chunk, e.wakeWords)
	armed := false
	for ctx.Err() == nil {
		if e.speaker != nil && e.speaker.Busy() {
			select {
			case <-time.After(150 * time.Millisecond):
			case <-ctx.Done():
			}
			continue
		}

		heard := cleanTranscription(e.record(ctx, e.chunk))
		if heard == "" {
			armed = false
			continue
		}
		e.log.Debug("ear: heard %q", heard)

		cmd, woke := stripWakeWord(heard, e.wakeWords)
		switch {
		case woke && cmd == "":
			armed = true
			if e.speaker != nil {
				e.speaker.Interrupt()
			}
			continue
		case woke:
			if e.speaker != nil {
				e.speaker.Interrupt()
			}
		case armed:
			cmd = heard
		default:
			continue
		}
		armed = false

		e.log.Info("ear: command %q", cmd)
		select {
		case e.out <- cmd:
		case <-ctx.Done():
		}
	}
	e.log.Info("ear: stopped")
}

// recordWhisper captures one clip through the whisper transcriber and
// returns its text.
func (e *Ear) recordWhisper(ctx context.Context, d time.Duration) string {
	var (
		text string
		wg   sync.WaitGroup
	)
	wg.Add(1)
	done := func(s string) {
		text = s
		wg.Done()
	}

	t, err := audiotranscriber.NewTranscriber(e.whisperBin, e.modelPath, e.tempDir, "wav", done,
		e.log.GetLevel() >= logger.LevelVerbose)
	if err != nil {
		e.log.Error("ear: transcriber init: %v", err)
		e.backoff(ctx)
		return ""
	}
	if err := t.Start(); err != nil {
		e.log.Error("ear: recording start: %v", err)
		e.backoff(ctx)
		return ""
	}

	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
	t.Stop()
	wg.Wait()
	return text
}

func (e *Ear) backoff(ctx context.Context) {
	select {
	case <-time.After(2 * time.Second):
	case <-ctx.Done():
	}
}

// stripWakeWord finds the first wake word in text. It returns the words
// after it (lowercased, punctuation trimmed) and whether a wake word was
// present at all.
func stripWakeWord(text string, wakeWords []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, w := range wakeWords {
		idx := strings.Index(lower, strings.ToLower(w))
		if idx < 0 {
			continue
		}
		rest := lower[idx+len(w):]
		return strings.Trim(rest, " ,.!?\t"), true
	}
	return "", false
}

var (
	annotation = regexp.MustCompile(`[\(\[][^\)\]]*[\)\]]`)
	spaces     = regexp.MustCompile(`\s+`)
)

// hallucinations are phrases whisper emits on silence.
var hallucinations = map[string]bool{
	"you":                     true,
	"...":                     true,
	"thank you.":              true,
	"thanks for watching!":    true,
	"thank you for watching.": true,
	"bye.":                    true,
}

// cleanTranscription drops whisper annotations such as [BLANK_AUDIO] or
// (music), timestamp prefixes, and common silence hallucinations.
func cleanTranscription(s string) string {
	s = annotation.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))
	if hallucinations[strings.ToLower(s)] {
		return ""
	}
	return s
}
