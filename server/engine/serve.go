package engine

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/s00inx/oldhttp/server/metrics"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// callback for one accepted connection, the connection is closed after it returns
type ConnFunc func(conn net.Conn)

// Serve accepts connections on ln and hands each one to ex. Accept errors
// are logged and never stop the loop. When ctx ends the listener is closed,
// running sessions are waited for (not cancelled) and Serve returns nil.
func Serve(ctx context.Context, ln net.Listener, ex Executor, log *slog.Logger, m *metrics.Metrics, cb ConnFunc) error {
	stop := context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()
	defer ex.Wait()

	log.Info("listening", "addr", ln.Addr().String())

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			m.AcceptFailed()
			delay = backoff(delay)
			log.Error("accept failed", "err", err, "retry_in", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		delay = 0

		err = ex.Go(ctx, func() {
			defer conn.Close()
			cb(conn)
		})
		if err != nil {
			// no slot before shutdown
			conn.Close()
		}
	}
}

func backoff(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptDelay
	}
	return min(d*2, maxAcceptDelay)
}
