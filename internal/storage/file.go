package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/hammamikhairi/coffeepad/internal/logger"
)

const lockRetryDelay = 25 * time.Millisecond

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileKV stores each key as <dir>/<key>.json. Writes go through a temp
// file and rename. Every operation holds a flock on <dir>/.lock, and
// Update keeps the exclusive lock from its read until its write, so two
// coffeepad processes never interleave a read-modify-write.
type FileKV struct {
	dir string
	log *logger.Logger

	// mu guards lock: a flock.Flock tracks a single holder, so goroutines
	// sharing one handle take turns before touching it.
	mu   sync.Mutex
	lock *flock.Flock
}

// OpenFileKV creates dir if needed and returns a store rooted there.
func OpenFileKV(dir string, log *logger.Logger) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileKV{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".lock")),
		log:  log,
	}, nil
}

func (f *FileKV) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Get reads the file for key under a shared lock.
func (f *FileKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	locked, err := f.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, false, fmt.Errorf("acquire read lock: %w", err)
	}
	if !locked {
		return nil, false, fmt.Errorf("acquire read lock: %w", ctx.Err())
	}
	defer f.unlock()

	return f.read(key, p)
}

// Set replaces the file for key under an exclusive lock.
func (f *FileKV) Set(ctx context.Context, key string, value []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := f.lockExclusive(ctx); err != nil {
		return err
	}
	defer f.unlockExclusive()

	return f.write(key, p, value)
}

// Update reads key, passes it to fn and writes the result, all under one
// exclusive lock.
func (f *FileKV) Update(ctx context.Context, key string, fn UpdateFunc) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := f.lockExclusive(ctx); err != nil {
		return err
	}
	defer f.unlockExclusive()

	old, ok, err := f.read(key, p)
	if err != nil {
		return err
	}
	next, err := fn(old, ok)
	if err != nil {
		return err
	}
	return f.write(key, p, next)
}

func (f *FileKV) read(key, p string) ([]byte, bool, error) {
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// write replaces p through a temp file. Callers hold the exclusive lock.
func (f *FileKV) write(key, p string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	f.log.Debug("file kv: wrote %s (%d bytes)", p, len(value))
	return nil
}

// Delete removes the file for key. Missing keys are not an error.
func (f *FileKV) Delete(ctx context.Context, key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := f.lockExclusive(ctx); err != nil {
		return err
	}
	defer f.unlockExclusive()

	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Close releases the lock if it is still held.
func (f *FileKV) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lock.Unlock()
}

// lockExclusive takes mu and then the flock. On success the caller must
// call unlockExclusive.
func (f *FileKV) lockExclusive(ctx context.Context) error {
	f.mu.Lock()
	locked, err := f.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		f.mu.Unlock()
		return fmt.Errorf("acquire write lock: %w", err)
	}
	if !locked {
		f.mu.Unlock()
		return fmt.Errorf("acquire write lock: %w", ctx.Err())
	}
	return nil
}

func (f *FileKV) unlockExclusive() {
	f.unlock()
	f.mu.Unlock()
}

func (f *FileKV) unlock() {
	if err := f.lock.Unlock(); err != nil {
		f.log.Warn("file kv: releasing lock: %v", err)
	}
}
