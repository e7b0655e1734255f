// Package youtube creates brew methods from a video link: metadata
// lookup, thumbnail download and the default pour routine.
package youtube

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
)

// Video is the metadata shown in the import preview.
type Video struct {
	ID           string
	Title        string
	Description  string
	ThumbnailURL string
	Duration     string
	PublishedAt  string
}

// ThumbnailFor returns the max-resolution thumbnail URL for a video id.
func ThumbnailFor(id string) string {
	return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
}

var videoID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID returns the id from watch, short, embed and shorts links.
func ExtractVideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if videoID.MatchString(raw) {
		return raw, true
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			id = v
			break
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 && (parts[0] == "embed" || parts[0] == "shorts" || parts[0] == "live") {
			id = parts[1]
		}
	}
	if !videoID.MatchString(id) {
		return "", false
	}
	return id, true
}

// FetcherOption configures the Fetcher.
type FetcherOption func(*Fetcher)

// WithDelay sets the simulated lookup latency.
func WithDelay(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d >= 0 {
			f.delay = d
		}
	}
}

// Fetcher looks up video metadata. There is no API key or quota handling:
// the lookup waits a fixed delay and returns a canned record.
type Fetcher struct {
	delay time.Duration
	log   *logger.Logger
}

// NewFetcher creates a metadata fetcher.
func NewFetcher(log *logger.Logger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{delay: 2 * time.Second, log: log}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchVideoInfo returns metadata for the video at link. The link must
// contain a recognizable video id.
func (f *Fetcher) FetchVideoInfo(ctx context.Context, link string) (*Video, error) {
	id, ok := ExtractVideoID(link)
	if !ok {
		return nil, fmt.Errorf("video link %q: %w", link, domain.ErrInvalidField)
	}
	f.log.Debug("fetching video info for %s (delay %s)", id, f.delay)

	timer := time.NewTimer(f.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	const stubID = "dQw4w9WgXcQ"
	return &Video{
		ID:    stubID,
		Title: "Perfect V60 drip coffee",
		Description: "A barista walks through brewing with a V60, from choosing " +
			"beans to the final drawdown, explaining every step along the way.",
		ThumbnailURL: ThumbnailFor(stubID),
		Duration:     "8:45",
		PublishedAt:  "2024-01-15",
	}, nil
}
