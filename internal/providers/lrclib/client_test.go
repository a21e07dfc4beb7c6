package lrclib

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lyricsync/internal/services"
)

const syncedBody = `{
  "id": 42,
  "trackName": "Test Song",
  "artistName": "Test Artist",
  "duration": 60,
  "instrumental": false,
  "plainLyrics": "one two\nthree four",
  "syncedLyrics": "[00:03.00] one two\n[00:06.00] three four\n"
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client, server
}

func TestLinesByTrackID(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(syncedBody))
	})

	lines, err := client.Lines(context.Background(), "42")
	if err != nil {
		t.Fatalf("Lines returned error: %v", err)
	}
	if gotPath != "/api/get/42" {
		t.Fatalf("expected /api/get/42, got %s", gotPath)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !lines[0].Timed || lines[0].StartSec != 3 || lines[0].EndSec != 6 {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[1].EndSec != 60 {
		t.Fatalf("final line should end at song duration: %+v", lines[1])
	}
}

func TestLinesBySignature(t *testing.T) {
	var gotArtist, gotTrack string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/get" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotArtist = r.URL.Query().Get("artist_name")
		gotTrack = r.URL.Query().Get("track_name")
		w.Write([]byte(syncedBody))
	})

	if _, err := client.Lines(context.Background(), "Test Artist|Test Song"); err != nil {
		t.Fatalf("Lines returned error: %v", err)
	}
	if gotArtist != "Test Artist" || gotTrack != "Test Song" {
		t.Fatalf("unexpected query: artist=%q track=%q", gotArtist, gotTrack)
	}
}

func TestLinesPlainFallback(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 7, "duration": 30, "plainLyrics": "alpha\nbeta", "syncedLyrics": ""}`))
	})

	lines, err := client.Lines(context.Background(), "7")
	if err != nil {
		t.Fatalf("Lines returned error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Timed || lines[1].Timed {
		t.Fatalf("plain lyrics should be untimed: %+v", lines)
	}
}

func TestLinesNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Lines(context.Background(), "99")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLinesInstrumental(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 5, "instrumental": true}`))
	})

	_, err := client.Lines(context.Background(), "5")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for instrumental track, got %v", err)
	}
}

func TestLinesServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Lines(context.Background(), "3")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestLinesEmptyLyrics(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 5, "plainLyrics": "", "syncedLyrics": ""}`))
	})

	_, err := client.Lines(context.Background(), "5")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty lyrics, got %v", err)
	}
}

func TestLinesInvalidSongID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called for an invalid song ID")
	})

	for _, id := range []string{"", "   ", "just-a-title", "|missing artist"} {
		_, err := client.Lines(context.Background(), id)
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("song ID %q: expected ErrValidation, got %v", id, err)
		}
	}
}

func TestLinesCanceledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Lines(ctx, "42")
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestNewInvalidBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "http://exa mple.com/%"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestSplitSignature(t *testing.T) {
	tests := []struct {
		in         string
		artist     string
		title      string
		ok         bool
	}{
		{"Artist|Title", "Artist", "Title", true},
		{" Artist | Title ", "Artist", "Title", true},
		{"Artist|Title|Album", "Artist", "Title", true},
		{"Title", "", "", false},
		{"|Title", "", "", false},
		{"Artist|", "", "", false},
	}
	for _, tc := range tests {
		artist, title, ok := splitSignature(tc.in)
		if ok != tc.ok || artist != tc.artist || title != tc.title {
			t.Fatalf("splitSignature(%q) = %q, %q, %v", tc.in, artist, title, ok)
		}
	}
}
