package voice

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/coffeepad/internal/logger"
)

// AudioCache keeps synthesized clips in memory and, optionally, on disk.
// Keys are sha256(voice + ":" + text), so switching voices misses cleanly.
// The disk layer is always read when dir is set; writeDisk controls
// whether new clips are persisted.
type AudioCache struct {
	mu        sync.RWMutex
	entries   map[string][]byte
	voice     string
	dir       string
	writeDisk bool
	hits      int64
	misses    int64
	log       *logger.Logger
}

// NewAudioCache creates a cache. An empty dir disables the disk layer.
func NewAudioCache(voice, dir string, writeDisk bool, log *logger.Logger) *AudioCache {
	if dir != "" && writeDisk {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn("tts cache: creating %s: %v", dir, err)
		}
	}
	return &AudioCache{
		entries:   make(map[string][]byte),
		voice:     voice,
		dir:       dir,
		writeDisk: writeDisk,
		log:       log,
	}
}

// Get returns the clip for text from memory, then disk.
func (c *AudioCache) Get(text string) ([]byte, bool) {
	key := c.key(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if clip, ok := c.entries[key]; ok {
		c.hits++
		return clip, true
	}
	if c.dir != "" {
		if clip, err := os.ReadFile(c.path(key)); err == nil {
			c.entries[key] = clip
			c.hits++
			return clip, true
		}
	}
	c.misses++
	return nil, false
}

// Put stores a clip.
func (c *AudioCache) Put(text string, clip []byte) {
	key := c.key(text)

	c.mu.Lock()
	c.entries[key] = clip
	c.mu.Unlock()

	if c.dir == "" || !c.writeDisk {
		return
	}
	if err := os.WriteFile(c.path(key), clip, 0o644); err != nil {
		c.log.Warn("tts cache: writing %s: %v", key[:12], err)
	}
}

// Has reports whether text is cached without counting a hit or miss.
func (c *AudioCache) Has(text string) bool {
	key := c.key(text)
	c.mu.RLock()
	_, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return true
	}
	if c.dir == "" {
		return false
	}
	_, err := os.Stat(c.path(key))
	return err == nil
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *AudioCache) key(text string) string {
	sum := sha256.Sum256([]byte(c.voice + ":" + text))
	return hex.EncodeToString(sum[:])
}

func (c *AudioCache) path(key string) string {
	return filepath.Join(c.dir, key+".wav")
}
