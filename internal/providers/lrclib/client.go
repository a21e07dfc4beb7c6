package lrclib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lyricsync/internal/logging"
	"lyricsync/internal/ports"
	"lyricsync/internal/services"
)

const (
	defaultBaseURL = "https://lrclib.net"
	defaultTimeout = 30 * time.Second

	maxResponseBytes = 2 << 20
)

// Config controls the lrclib client.
type Config struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client fetches song lyrics from an lrclib-compatible server and exposes
// them as corpus lines.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	userAgent  string
	logger     *slog.Logger
}

// New builds a Client, applying defaults for any unset Config field.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "lrclib", "configure", "invalid base URL", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	agent := strings.TrimSpace(cfg.UserAgent)
	if agent == "" {
		agent = "lyricsync/1.0 (https://github.com/lyricsync/lyricsync)"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    parsed,
		userAgent:  agent,
		logger:     logging.NewComponentLogger(logger, "lrclib"),
	}, nil
}

// trackRecord mirrors the lrclib get/search response body.
type trackRecord struct {
	ID           int64   `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// Lines resolves songID against lrclib and returns the song's lyric lines.
// A numeric songID addresses a track record directly; otherwise the ID is
// treated as an "artist|title" pair and resolved through the get endpoint.
func (c *Client) Lines(ctx context.Context, songID string) ([]ports.LyricLine, error) {
	songID = strings.TrimSpace(songID)
	if songID == "" {
		return nil, services.Wrap(services.ErrValidation, "lrclib", "lines", "song ID is required", nil)
	}

	record, err := c.fetchTrack(ctx, songID)
	if err != nil {
		return nil, err
	}
	if record.Instrumental {
		return nil, services.Wrap(services.ErrNotFound, "lrclib", "lines",
			fmt.Sprintf("track %q is instrumental", songID), nil)
	}

	if synced := strings.TrimSpace(record.SyncedLyrics); synced != "" {
		lines, err := parseSyncedLyrics(synced, record.Duration)
		if err == nil && len(lines) > 0 {
			c.logger.Debug("fetched synced lyrics",
				logging.String("song_id", songID),
				logging.Int("lines", len(lines)))
			return lines, nil
		}
		if err != nil {
			c.logger.Warn("synced lyrics unparseable, falling back to plain",
				logging.String("song_id", songID),
				logging.Error(err))
		}
	}

	lines := parsePlainLyrics(record.PlainLyrics)
	if len(lines) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "lrclib", "lines",
			fmt.Sprintf("no lyrics available for %q", songID), nil)
	}
	c.logger.Debug("fetched plain lyrics",
		logging.String("song_id", songID),
		logging.Int("lines", len(lines)))
	return lines, nil
}

func (c *Client) fetchTrack(ctx context.Context, songID string) (*trackRecord, error) {
	if id, err := strconv.ParseInt(songID, 10, 64); err == nil && id > 0 {
		return c.getByID(ctx, id)
	}
	artist, title, ok := splitSignature(songID)
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "lrclib", "lines",
			fmt.Sprintf("song ID %q is neither a track ID nor an artist|title pair", songID), nil)
	}
	return c.getBySignature(ctx, artist, title)
}

func (c *Client) getByID(ctx context.Context, id int64) (*trackRecord, error) {
	endpoint := c.baseURL.JoinPath("api", "get", strconv.FormatInt(id, 10))
	return c.doGet(ctx, endpoint.String(), fmt.Sprintf("track %d", id))
}

func (c *Client) getBySignature(ctx context.Context, artist, title string) (*trackRecord, error) {
	endpoint := c.baseURL.JoinPath("api", "get")
	query := endpoint.Query()
	query.Set("artist_name", artist)
	query.Set("track_name", title)
	endpoint.RawQuery = query.Encode()
	return c.doGet(ctx, endpoint.String(), fmt.Sprintf("%s - %s", artist, title))
}

func (c *Client) doGet(ctx context.Context, rawURL, subject string) (*trackRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "lrclib", "lines", "build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, services.Wrap(services.ErrTimeout, "lrclib", "lines", "request aborted", ctx.Err())
		}
		return nil, services.Wrap(services.ErrTransient, "lrclib", "lines", "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, services.Wrap(services.ErrNotFound, "lrclib", "lines",
			fmt.Sprintf("no lyrics record for %s", subject), nil)
	case resp.StatusCode >= 500:
		return nil, services.Wrap(services.ErrTransient, "lrclib", "lines",
			fmt.Sprintf("server error %d for %s", resp.StatusCode, subject), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, services.Wrap(services.ErrExternalTool, "lrclib", "lines",
			fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, subject), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "lrclib", "lines", "read response", err)
	}
	var record trackRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "lrclib", "lines", "decode response", err)
	}
	return &record, nil
}

// splitSignature parses "artist|title" song IDs. Extra fields past the title
// are ignored so callers can carry album or duration hints in the same key.
func splitSignature(songID string) (artist, title string, ok bool) {
	parts := strings.Split(songID, "|")
	if len(parts) < 2 {
		return "", "", false
	}
	artist = strings.TrimSpace(parts[0])
	title = strings.TrimSpace(parts[1])
	if artist == "" || title == "" {
		return "", "", false
	}
	return artist, title, true
}
