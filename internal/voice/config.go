// Package voice speaks brew cues through Azure text-to-speech and listens
// for hands-free player commands through a local whisper model. Both
// directions are optional; every failure is logged and swallowed so a
// brew never stops because audio did.
package voice

import "time"

// DefaultVoice is the Azure neural voice used when none is configured.
const DefaultVoice = "en-US-AvaNeural"

// DefaultAudioFormat is requested from Azure and expected by the player.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Audio parameters matching DefaultAudioFormat.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Priority orders queued speech. Higher speaks first.
type Priority int

const (
	PriorityLow      Priority = iota // acknowledgements
	PriorityNormal                   // step calls
	PriorityHigh                     // almost-done, completion
	PriorityCritical                 // wake-word acknowledgement
)

// Request is a queued utterance.
type Request struct {
	Text     string
	Priority Priority
	QueuedAt time.Time
}
