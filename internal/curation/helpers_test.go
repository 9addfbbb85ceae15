package curation

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}

// stubAuth implements TokenSource for tests.
type stubAuth struct {
	token string
	err   error
	calls int
}

func (s *stubAuth) Authenticate(ctx context.Context, session *Session) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	session.Token = s.token
	return nil
}

// noSleep replaces the poller's sleep so sequences run without delay.
func noSleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}
