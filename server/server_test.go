package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/s00inx/oldhttp/server/handler"
)

func newServer(t *testing.T) (*Server, *fasthttputil.InmemoryListener) {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Root = root
	srv, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}

	ln := fasthttputil.NewInmemoryListener()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return srv, ln
}

func roundTrip(t *testing.T, ln *fasthttputil.InmemoryListener, chunks ...string) string {
	t.Helper()
	conn, err := ln.Dial()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	for _, c := range chunks {
		if _, err := conn.Write([]byte(c)); err != nil {
			break
		}
	}
	got, _ := io.ReadAll(conn)
	return string(got)
}

func TestServer(t *testing.T) {
	_, ln := newServer(t)

	tests := []struct {
		name   string
		chunks []string
		check  func(t *testing.T, got string)
	}{
		{
			name:   "found",
			chunks: []string{"GET /index.html HTTP/1.0\r\n\r\n"},
			check: func(t *testing.T, got string) {
				if !strings.HasPrefix(got, "HTTP/1.0 200 Ok\r\n") ||
					!strings.Contains(got, "\r\nContent-Length: 2\r\n") ||
					!strings.HasSuffix(got, "\r\n\r\nhi") {
					t.Errorf("got %q", got)
				}
			},
		},
		{
			name:   "missing",
			chunks: []string{"GET /missing HTTP/1.0\r\n\r\n"},
			check: func(t *testing.T, got string) {
				if got != "HTTP/1.0 404 Not Fonud\r\n\r\n" {
					t.Errorf("got %q", got)
				}
			},
		},
		{
			name:   "traversal",
			chunks: []string{"GET ../../etc/passwd HTTP/1.0\r\n\r\n"},
			check: func(t *testing.T, got string) {
				if got != "HTTP/1.0 400 Bad Request\r\n\r\n" {
					t.Errorf("got %q", got)
				}
			},
		},
		{
			name:   "0.9 in pieces",
			chunks: []string{"GET /ind", "ex.html\r", "\n"},
			check: func(t *testing.T, got string) {
				if got != "hi" {
					t.Errorf("got %q", got)
				}
			},
		},
		{
			name:   "colon without space",
			chunks: []string{"HEAD /index.html HTTP/1.0\r\nX:\r\n\r\n"},
			check: func(t *testing.T, got string) {
				if got != "HTTP/1.0 400 Bad Request\r\n\r\n" {
					t.Errorf("got %q", got)
				}
			},
		},
		{
			name:   "garbage",
			chunks: []string{"\x00\x01\x02\r\n"},
			check: func(t *testing.T, got string) {
				if got != "HTTP/1.0 400 Bad Request\r\n\r\n" {
					t.Errorf("got %q", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, roundTrip(t, ln, tt.chunks...))
		})
	}
}

func TestServer_metrics(t *testing.T) {
	srv, ln := newServer(t)

	roundTrip(t, ln, "GET /index.html HTTP/1.0\r\n\r\n")
	roundTrip(t, ln, "GET /index.html\r\n")

	// the session may still be unwinding after the peer saw EOF
	deadline := time.Now().Add(2 * time.Second)
	for {
		n, err := testutil.GatherAndCount(srv.Metrics().Registry(), "goserver_session_responses_total")
		if err != nil {
			t.Fatal(err)
		}
		if n == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("got %d response series, want 2", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNew_bad_root(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Root = filepath.Join(t.TempDir(), "missing")
	if _, err := New(cfg, nil); !errors.Is(err, handler.ErrRoot) {
		t.Errorf("expected ErrRoot, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Addr = ""
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected validation error")
	}
}
