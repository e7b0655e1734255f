package config

// Environment variables consulted by Load.
const (
	EnvAzureSpeechKey    = "AZURE_SPEECH_KEY"
	EnvAzureSpeechRegion = "AZURE_SPEECH_REGION"
	EnvLLMKey            = "COFFEEPAD_LLM_KEY"
	EnvLLMEndpoint       = "COFFEEPAD_LLM_ENDPOINT"
	EnvLogLevel          = "COFFEEPAD_LOG_LEVEL"
)

const (
	defaultDataDir  = "~/.local/share/coffeepad"
	defaultCacheDir = "~/.cache/coffeepad/tts"
	defaultLogFile  = "~/.local/state/coffeepad/coffeepad.log"
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Storage: Storage{
			Backend: "file",
			Dir:     defaultDataDir,
			Key:     "brewMethods",
		},
		Player: Player{
			TickMillis:        1000,
			AlmostDoneSeconds: 5,
		},
		Voice: Voice{
			Voice:     "en-US-AvaNeural",
			CacheDir:  defaultCacheDir,
			DiskCache: true,
		},
		Listen: Listen{
			WhisperBin:   "whisper-cli",
			WhisperModel: "~/.local/share/coffeepad/models/ggml-base.en.bin",
			ChunkSeconds: 3,
			WakeWords:    []string{"barista", "coffee"},
		},
		YouTube: YouTube{
			FetchDelayMillis:   2000,
			ThumbnailSize:      300,
			HTTPTimeoutSeconds: 15,
		},
		LLM: LLM{
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 30,
			Endpoint:       defaultEndpoint,
		},
		Logging: Logging{
			Level: "normal",
			File:  defaultLogFile,
		},
	}
}
